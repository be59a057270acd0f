package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
	"github.com/fuhrahmann/travel-app-backend/internal/core/ports"
)

// SessionIssuer owns the bearer token lifecycle: issued, active, revoked.
// It keeps no state of its own, so one instance serves concurrent requests.
type SessionIssuer struct {
	sessions ports.SessionStore
	users    ports.CredentialStore
	log      zerolog.Logger
	now      func() time.Time
}

func NewSessionIssuer(sessions ports.SessionStore, users ports.CredentialStore, log zerolog.Logger) *SessionIssuer {
	return &SessionIssuer{
		sessions: sessions,
		users:    users,
		log:      log,
		now:      time.Now,
	}
}

// Issue stores a new session for userID and returns its plaintext token.
func (s *SessionIssuer) Issue(ctx context.Context, userID string) (string, error) {
	session, token, err := domain.NewSession(userID, s.now())
	if err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}

	s.log.Debug().Str("user_id", userID).Str("session_id", session.ID).Msg("session issued")
	return token, nil
}

// RevokeAll deletes every active session of userID. Revoking a user without
// sessions is a no-op.
func (s *SessionIssuer) RevokeAll(ctx context.Context, userID string) error {
	n, err := s.sessions.Replace(ctx, userID, nil)
	if err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	s.log.Debug().Str("user_id", userID).Int64("revoked", n).Msg("sessions revoked")
	return nil
}

// Rotate revokes every session of userID and issues a fresh one in a single
// atomic store operation.
func (s *SessionIssuer) Rotate(ctx context.Context, userID string) (string, error) {
	session, token, err := domain.NewSession(userID, s.now())
	if err != nil {
		return "", fmt.Errorf("rotate session: %w", err)
	}

	n, err := s.sessions.Replace(ctx, userID, session)
	if err != nil {
		return "", fmt.Errorf("rotate session: %w", err)
	}

	s.log.Debug().
		Str("user_id", userID).
		Str("session_id", session.ID).
		Int64("revoked", n).
		Msg("session rotated")
	return token, nil
}

// CurrentUser resolves token to the owning user. It returns (nil, nil) when
// the token is malformed, unknown, revoked, or belongs to a deleted user.
func (s *SessionIssuer) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	id, secret, ok := domain.SplitToken(token)
	if !ok {
		return nil, nil
	}

	session, err := s.sessions.FindByID(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if !session.Matches(secret) {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session owner: %w", err)
	}
	return user, nil
}
