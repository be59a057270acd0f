package ports

import (
	"context"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
)

// SessionStore defines persistence for issued bearer tokens.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error

	// Replace atomically deletes every session of userID and then, when
	// session is non-nil, stores it. It returns how many sessions were removed.
	// Readers never observe a state between the delete and the insert.
	Replace(ctx context.Context, userID string, session *domain.Session) (int64, error)

	// FindByID returns domain.ErrSessionNotFound for unknown or revoked sessions.
	FindByID(ctx context.Context, id string) (*domain.Session, error)
}
