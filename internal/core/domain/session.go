package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// SessionName is the label stored on every issued personal access token.
	SessionName = "auth_token"

	tokenSecretBytes = 32 // 64 hex chars
	tokenSeparator   = "|"
)

// Session is one issued bearer credential. Only the hash of the token secret
// is kept; the plaintext is handed to the client once.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	TokenHash string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSession builds a session for userID and returns it together with the
// plaintext bearer token in the form "<session id>|<secret>".
func NewSession(userID string, now time.Time) (*Session, string, error) {
	secret := make([]byte, tokenSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return nil, "", fmt.Errorf("generate token secret: %w", err)
	}
	plain := hex.EncodeToString(secret)

	s := &Session{
		ID:        ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		UserID:    userID,
		Name:      SessionName,
		TokenHash: HashTokenSecret(plain),
		CreatedAt: now.UTC(),
	}
	return s, s.ID + tokenSeparator + plain, nil
}

// HashTokenSecret returns the hex SHA-256 of a token secret.
func HashTokenSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// SplitToken parses a bearer token into session id and secret.
// ok is false when the token does not have the expected shape.
func SplitToken(token string) (id, secret string, ok bool) {
	id, secret, found := strings.Cut(token, tokenSeparator)
	if !found || id == "" || secret == "" {
		return "", "", false
	}
	return id, secret, true
}

// Matches reports whether secret hashes to the stored token hash.
// The comparison runs in constant time.
func (s *Session) Matches(secret string) bool {
	computed := HashTokenSecret(secret)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(s.TokenHash)) == 1
}
