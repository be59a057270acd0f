package metrics

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
	"github.com/fuhrahmann/travel-app-backend/internal/core/ports"
)

// ---- Stubs ----

type stubAuth struct {
	err error
}

func (s stubAuth) CurrentUser(context.Context, string) (*domain.User, error) { return nil, nil }

func (s stubAuth) Login(context.Context, string, string) (*domain.AuthPayload, error) {
	return nil, s.err
}

func (s stubAuth) Register(context.Context, ports.RegisterInput) (*domain.AuthPayload, error) {
	return nil, s.err
}

func (s stubAuth) Logout(context.Context, *domain.User) (*domain.AuthPayload, error) {
	return nil, s.err
}

// ---- Tests ----

func TestResult(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ResultSuccess},
		{&domain.ValidationError{}, ResultValidationError},
		{fmt.Errorf("login: %w", domain.ErrInvalidCredentials), ResultInvalidCredentials},
		{domain.ErrUnauthenticated, ResultUnauthenticated},
		{fmt.Errorf("boom"), ResultError},
	}
	for _, c := range cases {
		if got := Result(c.err); got != c.want {
			t.Errorf("Result(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestInstrument_CountsByResult(t *testing.T) {
	before := testutil.ToFloat64(AuthOperationsTotal.WithLabelValues("login", ResultInvalidCredentials))

	svc := Instrument(stubAuth{err: domain.ErrInvalidCredentials})
	if _, err := svc.Login(context.Background(), "a@x.com", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("error must pass through unchanged, got %v", err)
	}

	after := testutil.ToFloat64(AuthOperationsTotal.WithLabelValues("login", ResultInvalidCredentials))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestInstrument_LogoutAndRegister(t *testing.T) {
	svc := Instrument(stubAuth{})
	beforeReg := testutil.ToFloat64(AuthOperationsTotal.WithLabelValues("register", ResultSuccess))
	beforeOut := testutil.ToFloat64(AuthOperationsTotal.WithLabelValues("logout", ResultSuccess))

	_, _ = svc.Register(context.Background(), ports.RegisterInput{})
	_, _ = svc.Logout(context.Background(), &domain.User{ID: "u1"})

	if testutil.ToFloat64(AuthOperationsTotal.WithLabelValues("register", ResultSuccess))-beforeReg != 1 {
		t.Fatalf("register not counted")
	}
	if testutil.ToFloat64(AuthOperationsTotal.WithLabelValues("logout", ResultSuccess))-beforeOut != 1 {
		t.Fatalf("logout not counted")
	}
}
