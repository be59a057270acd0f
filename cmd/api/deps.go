package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/fuhrahmann/travel-app-backend/internal/api/handler"
	"github.com/fuhrahmann/travel-app-backend/internal/core/ports"
	"github.com/fuhrahmann/travel-app-backend/internal/infrastructure/db/mongo"
	"github.com/fuhrahmann/travel-app-backend/internal/infrastructure/db/postgres"
	"github.com/fuhrahmann/travel-app-backend/internal/infrastructure/db/redis"
	"github.com/fuhrahmann/travel-app-backend/internal/pkg/config"
)

const connectAttempts = 5

// connectBackoff is the first retry delay; it doubles on every attempt.
var connectBackoff = 500 * time.Millisecond

// stores bundles the storage backends selected by STORAGE_DRIVER.
type stores struct {
	users    ports.CredentialStore
	sessions ports.SessionStore
	health   map[string]handler.PingFunc
	closers  []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return openMongoRedis(ctx, cfg, log)
	}
}

func openMongoRedis(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	s := &stores{health: make(map[string]handler.PingFunc)}

	var usersDB *mongo.UsersDB
	err := withRetry(ctx, log, "mongo", func(ctx context.Context) error {
		db, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		usersDB = db
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() { _ = usersDB.Close(context.Background()) })
	s.health["mongo"] = usersDB.Ping

	if err := usersDB.Migrate(ctx); err != nil {
		s.Close()
		return nil, err
	}
	s.users = usersDB.Users()

	var sessions *redis.SessionStore
	err = withRetry(ctx, log, "redis", func(ctx context.Context) error {
		store, err := redis.Open(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		sessions = store
		return nil
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	s.closers = append(s.closers, func() { _ = sessions.Close() })
	s.health["redis"] = sessions.Ping
	s.sessions = sessions

	return s, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	s := &stores{health: make(map[string]handler.PingFunc)}

	err := withRetry(ctx, log, "postgres", func(ctx context.Context) error {
		pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return err
		}
		s.closers = append(s.closers, pool.Close)
		s.health["postgres"] = pool.Ping
		s.users = postgres.NewUserRepository(pool)
		s.sessions = postgres.NewSessionStore(pool)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// withRetry retries connect with exponential backoff so the API survives
// starting before its databases.
func withRetry(ctx context.Context, log zerolog.Logger, name string, connect func(context.Context) error) error {
	backoff := retry.WithMaxRetries(connectAttempts-1, retry.NewExponential(connectBackoff))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := connect(ctx); err != nil {
			log.Warn().Err(err).Str("store", name).Int("attempt", attempt).Msg("store connection failed")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("connect %s: %w", name, err)
	}

	log.Info().Str("store", name).Msg("store connected")
	return nil
}
