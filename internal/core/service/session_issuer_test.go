package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
)

func newIssuerWithUser(t *testing.T) (*SessionIssuer, *stubSessionStore, *domain.User) {
	t.Helper()
	users := newStubUserStore()
	sessions := newStubSessionStore()
	user, err := users.Create(context.Background(), &domain.User{Name: "Bob", Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return NewSessionIssuer(sessions, users, discardLogger), sessions, user
}

func TestSessionIssuer_Issue(t *testing.T) {
	issuer, sessions, user := newIssuerWithUser(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return fixed }

	token, err := issuer.Issue(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	id, secret, ok := domain.SplitToken(token)
	if !ok {
		t.Fatalf("token has unexpected shape: %q", token)
	}
	if len(secret) != 64 {
		t.Fatalf("expected 64 hex chars of secret, got %d", len(secret))
	}
	stored, err := sessions.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if stored.UserID != user.ID || stored.Name != domain.SessionName || !stored.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected session: %+v", stored)
	}
	if strings.Contains(stored.TokenHash, secret) {
		t.Fatalf("plaintext secret must not be stored")
	}
}

func TestSessionIssuer_IssueDistinctTokens(t *testing.T) {
	issuer, sessions, user := newIssuerWithUser(t)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		tok, err := issuer.Issue(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("Issue error: %v", err)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token issued: %q", tok)
		}
		seen[tok] = struct{}{}
	}
	if n := sessions.countFor(user.ID); n != 50 {
		t.Fatalf("expected 50 sessions, got %d", n)
	}
}

func TestSessionIssuer_RevokeAllIdempotent(t *testing.T) {
	issuer, sessions, user := newIssuerWithUser(t)
	tok, _ := issuer.Issue(context.Background(), user.ID)
	_, _ = issuer.Issue(context.Background(), user.ID)

	if err := issuer.RevokeAll(context.Background(), user.ID); err != nil {
		t.Fatalf("first RevokeAll error: %v", err)
	}
	if err := issuer.RevokeAll(context.Background(), user.ID); err != nil {
		t.Fatalf("second RevokeAll error: %v", err)
	}
	if n := sessions.countFor(user.ID); n != 0 {
		t.Fatalf("expected no sessions, got %d", n)
	}
	if got, _ := issuer.CurrentUser(context.Background(), tok); got != nil {
		t.Fatalf("revoked token should not resolve")
	}
}

func TestSessionIssuer_RevokeAllOnlyTouchesOwner(t *testing.T) {
	issuer, sessions, user := newIssuerWithUser(t)
	other := &domain.Session{ID: "other-session", UserID: "someone-else", TokenHash: domain.HashTokenSecret("x")}
	_ = sessions.Create(context.Background(), other)
	_, _ = issuer.Issue(context.Background(), user.ID)

	if err := issuer.RevokeAll(context.Background(), user.ID); err != nil {
		t.Fatalf("RevokeAll error: %v", err)
	}
	if _, err := sessions.FindByID(context.Background(), "other-session"); err != nil {
		t.Fatalf("session of another user was revoked: %v", err)
	}
}

func TestSessionIssuer_Rotate(t *testing.T) {
	issuer, sessions, user := newIssuerWithUser(t)
	first, _ := issuer.Issue(context.Background(), user.ID)
	second, _ := issuer.Issue(context.Background(), user.ID)

	rotated, err := issuer.Rotate(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Rotate error: %v", err)
	}
	for _, tok := range []string{first, second} {
		if got, _ := issuer.CurrentUser(context.Background(), tok); got != nil {
			t.Fatalf("pre-rotation token still resolves: %q", tok)
		}
	}
	got, err := issuer.CurrentUser(context.Background(), rotated)
	if err != nil || got == nil || got.ID != user.ID {
		t.Fatalf("rotated token should resolve, got %+v (%v)", got, err)
	}
	if sessions.replaces != 1 {
		t.Fatalf("rotation must be a single store operation, got %d", sessions.replaces)
	}
}

func TestSessionIssuer_RotateStoreError(t *testing.T) {
	issuer, sessions, user := newIssuerWithUser(t)
	sessions.replaceErr = errStoreDown

	if _, err := issuer.Rotate(context.Background(), user.ID); !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestSessionIssuer_CurrentUser_Unresolvable(t *testing.T) {
	issuer, _, user := newIssuerWithUser(t)
	valid, _ := issuer.Issue(context.Background(), user.ID)
	id, _, _ := domain.SplitToken(valid)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "no separator", token: "abcdef"},
		{name: "missing secret", token: id + "|"},
		{name: "unknown session", token: "01HUNKNOWN|deadbeef"},
		{name: "wrong secret", token: id + "|" + strings.Repeat("0", 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := issuer.CurrentUser(context.Background(), tt.token)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != nil {
				t.Fatalf("expected no user, got %+v", got)
			}
		})
	}
}

func TestSessionIssuer_CurrentUser_DeletedOwner(t *testing.T) {
	users := newStubUserStore()
	sessions := newStubSessionStore()
	issuer := NewSessionIssuer(sessions, users, discardLogger)

	tok, err := issuer.Issue(context.Background(), "user-that-was-deleted")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if got, err := issuer.CurrentUser(context.Background(), tok); err != nil || got != nil {
		t.Fatalf("expected (nil, nil), got %+v, %v", got, err)
	}
}

func TestSessionIssuer_CurrentUser_ConcurrentReads(t *testing.T) {
	issuer, _, user := newIssuerWithUser(t)
	tok, _ := issuer.Issue(context.Background(), user.ID)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := issuer.CurrentUser(context.Background(), tok)
			if err != nil {
				errs <- err
				return
			}
			if got == nil || got.ID != user.ID {
				errs <- errors.New("token did not resolve")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatal(err)
	}
}
