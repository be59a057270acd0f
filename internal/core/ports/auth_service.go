package ports

import (
	"context"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
)

// RegisterInput carries the registration arguments as received from the caller.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// SessionResolver maps a bearer token to its owner. A nil user with a nil
// error means the token does not resolve.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// AuthService is the authentication surface consumed by the transport layer.
type AuthService interface {
	SessionResolver
	Login(ctx context.Context, email, password string) (*domain.AuthPayload, error)
	Register(ctx context.Context, in RegisterInput) (*domain.AuthPayload, error)
	// Logout revokes every session of current. A nil current fails with
	// domain.ErrUnauthenticated.
	Logout(ctx context.Context, current *domain.User) (*domain.AuthPayload, error)
}
