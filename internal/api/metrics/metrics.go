// Package metrics defines and registers the custom Prometheus metrics of the
// travel-app auth API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
	"github.com/fuhrahmann/travel-app-backend/internal/core/ports"
)

const namespace = "travel_app"

// Result label values.
const (
	ResultSuccess            = "success"
	ResultValidationError    = "validation_error"
	ResultInvalidCredentials = "invalid_credentials"
	ResultUnauthenticated    = "unauthenticated"
	ResultError              = "error"
)

// AuthOperationsTotal counts auth operations.
// Labels:
//   - operation: "login", "register" or "logout"
//   - result: one of the Result* constants
var AuthOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_operations_total",
		Help:      "Total number of auth operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// AuthOperationDuration measures auth operations end to end, password
// hashing included.
// Label:
//   - operation: "login", "register" or "logout"
var AuthOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "auth_operation_duration_seconds",
		Help:      "Duration of auth operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// Result classifies an operation error into a result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, domain.ErrValidation):
		return ResultValidationError
	case errors.Is(err, domain.ErrInvalidCredentials):
		return ResultInvalidCredentials
	case errors.Is(err, domain.ErrUnauthenticated):
		return ResultUnauthenticated
	default:
		return ResultError
	}
}

type instrumentedAuth struct {
	ports.AuthService
}

// Instrument wraps svc so that Login, Register and Logout are counted and
// timed. CurrentUser passes through untouched.
func Instrument(svc ports.AuthService) ports.AuthService {
	return instrumentedAuth{AuthService: svc}
}

func observe(operation string, start time.Time, err error) {
	AuthOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	AuthOperationsTotal.WithLabelValues(operation, Result(err)).Inc()
}

func (s instrumentedAuth) Login(ctx context.Context, email, password string) (*domain.AuthPayload, error) {
	start := time.Now()
	p, err := s.AuthService.Login(ctx, email, password)
	observe("login", start, err)
	return p, err
}

func (s instrumentedAuth) Register(ctx context.Context, in ports.RegisterInput) (*domain.AuthPayload, error) {
	start := time.Now()
	p, err := s.AuthService.Register(ctx, in)
	observe("register", start, err)
	return p, err
}

func (s instrumentedAuth) Logout(ctx context.Context, current *domain.User) (*domain.AuthPayload, error) {
	start := time.Now()
	p, err := s.AuthService.Logout(ctx, current)
	observe("logout", start, err)
	return p, err
}
