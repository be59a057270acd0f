package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config selects the users database.
type Config struct {
	URI      string
	Database string
	// Timeout bounds connecting and every single query. Zero means 10s.
	Timeout time.Duration
}

// UsersDB is an open connection to the database holding the users collection.
type UsersDB struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// Open connects to MongoDB and waits for a primary to answer.
func Open(ctx context.Context, cfg Config) (*UsersDB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("travel-api")
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &UsersDB{client: client, db: client.Database(cfg.Database), timeout: timeout}, nil
}

// Users returns the credential store backed by this database.
func (u *UsersDB) Users() *UserRepository {
	return newUserRepository(u.db, u.timeout)
}

// Migrate creates the indexes the users collection relies on.
func (u *UsersDB) Migrate(ctx context.Context) error {
	return u.Users().EnsureIndexes(ctx)
}

// Ping reports whether the primary is reachable.
func (u *UsersDB) Ping(ctx context.Context) error {
	return u.client.Ping(ctx, readpref.Primary())
}

func (u *UsersDB) Close(ctx context.Context) error {
	return u.client.Disconnect(ctx)
}
