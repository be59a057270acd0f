package ports

import (
	"context"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
)

// CredentialStore defines persistence for user records.
type CredentialStore interface {
	// FindByEmail returns domain.ErrUserNotFound when no user has exactly this email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when the id is unknown.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create inserts the user and returns it with its assigned id.
	// It fails with domain.ErrEmailTaken, leaving the store untouched, when the email exists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
