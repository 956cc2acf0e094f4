package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/kyuubik/internal/domain"
)

// GetPreview retrieves a cached preview. A missing key is a cache miss, not an error.
func (s *Store) GetPreview(ctx context.Context, url string) (*domain.Preview, bool, error) {
	data, err := s.client.Get(ctx, PreviewKey(url)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get preview: %w", err)
	}

	var p domain.Preview
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal preview: %w", err)
	}
	return &p, true, nil
}

// UpsertPreview stores p under its URL, replacing any previous entry.
// Entries never expire; freshness is decided by the reader.
func (s *Store) UpsertPreview(ctx context.Context, p *domain.Preview) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preview: %w", err)
	}
	if err := s.client.Set(ctx, PreviewKey(p.URL), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save preview: %w", err)
	}
	return nil
}

// CountPreviews returns the number of cached previews.
func (s *Store) CountPreviews(ctx context.Context) (int64, error) {
	var n int64
	iter := s.client.Scan(ctx, 0, KeyPrefixPreview+"*", 0).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to count previews: %w", err)
	}
	return n, nil
}
