package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
)

// Key layout:
//
//	auth:session:<session id>        hash {user_id, name, token_hash, created_at}
//	auth:user:<user id>:sessions     set of session ids
const (
	sessionKeyPrefix = "auth:session:"
	userKeyPrefix    = "auth:user:"
	userKeySuffix    = ":sessions"
)

// replaceScript deletes every session listed in the user's set and, when a
// second key is passed, stores the new session. Redis runs scripts atomically.
var replaceScript = redis.NewScript(`
local ids = redis.call('SMEMBERS', KEYS[1])
for _, id in ipairs(ids) do
  redis.call('DEL', ARGV[1] .. id)
end
redis.call('DEL', KEYS[1])
if #KEYS > 1 then
  redis.call('HSET', KEYS[2], 'user_id', ARGV[2], 'name', ARGV[3], 'token_hash', ARGV[4], 'created_at', ARGV[5])
  redis.call('SADD', KEYS[1], ARGV[6])
end
return #ids
`)

// SessionStore implements ports.SessionStore on a single Redis node.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Create stores the session and indexes it under its user in one MULTI/EXEC.
func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, sessionKey(session.ID), sessionFields(session))
		pipe.SAdd(ctx, userKey(session.UserID), session.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Replace revokes all sessions of userID and stores session, if any, atomically.
func (s *SessionStore) Replace(ctx context.Context, userID string, session *domain.Session) (int64, error) {
	keys := []string{userKey(userID)}
	args := []any{sessionKeyPrefix}
	if session != nil {
		keys = append(keys, sessionKey(session.ID))
		args = append(args,
			session.UserID,
			session.Name,
			session.TokenHash,
			session.CreatedAt.UTC().Format(time.RFC3339Nano),
			session.ID,
		)
	}

	n, err := replaceScript.Run(ctx, s.client, keys, args...).Int64()
	if err != nil {
		return 0, fmt.Errorf("replace sessions: %w", err)
	}
	return n, nil
}

// FindByID loads a session; revoked sessions no longer exist.
func (s *SessionStore) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}

	return &domain.Session{
		ID:        id,
		UserID:    fields["user_id"],
		Name:      fields["name"],
		TokenHash: fields["token_hash"],
		CreatedAt: createdAt,
	}, nil
}

func sessionFields(s *domain.Session) map[string]any {
	return map[string]any{
		"user_id":    s.UserID,
		"name":       s.Name,
		"token_hash": s.TokenHash,
		"created_at": s.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func userKey(userID string) string {
	return userKeyPrefix + userID + userKeySuffix
}
