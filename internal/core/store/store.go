package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrConflict is returned when an optimistic transaction lost its race more
// times than the retry budget allows. User-facing callers surface it as a
// retry-later condition.
var ErrConflict = errors.New("concurrent modification, please retry")

// Store wraps the Redis connection shared by every repository.
//
// Unlike a plain byte cache, the repositories need the raw client for
// WATCH/MULTI optimistic transactions over contended keys (stock counters,
// order status), so the client itself is exposed.
type Store struct {
	client *redis.Client
}

// New connects to Redis using a URL of the form
// redis://[:password@]host[:port][/database].
func New(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &Store{client: redis.NewClient(opts)}, nil
}

// Client returns the underlying Redis client.
func (s *Store) Client() *redis.Client {
	return s.client
}

// Ping checks if the data store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the connection.
func (s *Store) Close() error {
	return s.client.Close()
}
