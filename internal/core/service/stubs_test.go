package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub stores
// ---------------------------------------------------------------------------

type stubUserStore struct {
	mu        sync.Mutex
	byEmail   map[string]*domain.User
	nextID    int
	findErr   error // if set, FindByEmail returns this error
	createErr error // if set, Create returns this error
	creates   int
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{byEmail: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	r.creates++
	created := cloneUser(user)
	created.ID = "user-" + strconv.Itoa(r.nextID)
	r.byEmail[created.Email] = cloneUser(created)
	return created, nil
}

func (r *stubUserStore) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEmail)
}

type stubSessionStore struct {
	mu         sync.Mutex
	byID       map[string]*domain.Session
	replaceErr error
	createErr  error
	replaces   int
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{byID: make(map[string]*domain.Session)}
}

func (r *stubSessionStore) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	clone := *s
	r.byID[s.ID] = &clone
	return nil
}

func (r *stubSessionStore) Replace(_ context.Context, userID string, s *domain.Session) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replaceErr != nil {
		return 0, r.replaceErr
	}
	r.replaces++
	var n int64
	for id, existing := range r.byID {
		if existing.UserID == userID {
			delete(r.byID, id)
			n++
		}
	}
	if s != nil {
		clone := *s
		r.byID[s.ID] = &clone
	}
	return n, nil
}

func (r *stubSessionStore) FindByID(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSessionStore) countFor(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.byID {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	discardLogger = zerolog.Nop()
	errStoreDown  = errors.New("store unavailable")
)

func newTestAuthService() (*AuthService, *stubUserStore, *stubSessionStore) {
	users := newStubUserStore()
	sessions := newStubSessionStore()
	issuer := NewSessionIssuer(sessions, users, discardLogger)
	svc := NewAuthService(users, NewBcryptHasher(bcrypt.MinCost), issuer, discardLogger)
	return svc, users, sessions
}
