package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
	"github.com/fuhrahmann/travel-app-backend/internal/core/ports"
)

// dummyPassword is hashed once so that unknown emails cost one verification,
// like known ones.
const dummyPassword = "travel-app-timing-equaliser"

// AuthService implements login, registration and logout.
type AuthService struct {
	users    ports.CredentialStore
	hasher   ports.PasswordHasher
	sessions *SessionIssuer
	policy   *RegistrationPolicy
	log      zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	users ports.CredentialStore,
	hasher ports.PasswordHasher,
	sessions *SessionIssuer,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		policy:   NewRegistrationPolicy(users),
		log:      log,
	}
}

// Login verifies the credentials, revokes every earlier session of the user
// and issues a new token. Unknown emails and wrong passwords fail alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthPayload, error) {
	email = strings.TrimSpace(email)
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.hasher.Verify(password, s.timingHash())
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.sessions.Rotate(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return domain.NewAuthPayload(user, token, domain.MessageLoginSuccessful), nil
}

// Register validates the input, creates the user and issues its first token.
// Name and email are trimmed before validation and storage; passwords are
// taken verbatim.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.AuthPayload, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.policy.Validate(ctx, in); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		// Another request registered the email after validation ran.
		return nil, &domain.ValidationError{Violations: []domain.Violation{uniqueEmailViolation()}}
	}
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return domain.NewAuthPayload(user, token, domain.MessageRegisterSuccessful), nil
}

// Logout revokes every session of the authenticated caller.
func (s *AuthService) Logout(ctx context.Context, current *domain.User) (*domain.AuthPayload, error) {
	if current == nil {
		return nil, domain.ErrUnauthenticated
	}

	if err := s.sessions.RevokeAll(ctx, current.ID); err != nil {
		return nil, fmt.Errorf("logout: %w", err)
	}

	s.log.Info().Str("user_id", current.ID).Msg("user logged out")
	return domain.NewAuthPayload(current, "", domain.MessageLogoutSuccessful), nil
}

// CurrentUser resolves a bearer token; see SessionIssuer.CurrentUser.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return s.sessions.CurrentUser(ctx, token)
}

func (s *AuthService) timingHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare timing hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
