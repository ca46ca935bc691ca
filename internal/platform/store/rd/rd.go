// Package rd provides a Redis client used for shared counters and rate-limit state
package rd

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Config configures the redis client
type Config struct {
	Addr     string
	Password string
	DB       int
}

// RD is a thin wrapper over go-redis with the seams the platform needs
type RD struct {
	c *redis.Client
}

// Open creates a client; connectivity is verified by the caller via Ping
func Open(_ context.Context, cfg Config) (*RD, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RD{c: c}, nil
}

// Client exposes the underlying go-redis client for command-level callers
func (r *RD) Client() *redis.Client { return r.c }

// Ping verifies connectivity
func (r *RD) Ping(ctx context.Context) error {
	if r == nil || r.c == nil {
		return redis.ErrClosed
	}
	return r.c.Ping(ctx).Err()
}

// Close releases the connection pool
func (r *RD) Close() error {
	if r == nil || r.c == nil {
		return nil
	}
	return r.c.Close()
}
