// Package redis is the Redis backend of the link preview cache.
package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Store handles Redis operations for cached previews.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Ping checks the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
