package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// TagCache keeps ranked tag lists for a short time. Entries are never
// invalidated explicitly; the TTL bounds staleness.
type TagCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewTagCache(client *redisv9.Client, ttl time.Duration) *TagCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &TagCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *TagCache) Get(ctx context.Context, username string, limit int) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, c.key(username, limit)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get tags failed: %w", err)
	}

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached tags failed: %w", err)
	}
	return tags, true, nil
}

func (c *TagCache) Set(ctx context.Context, username string, limit int, tags []string) error {
	payload, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal tags cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(username, limit), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set tags failed: %w", err)
	}
	return nil
}

func (c *TagCache) key(username string, limit int) string {
	if username == "" {
		return fmt.Sprintf("tags:popular:%d", limit)
	}
	return fmt.Sprintf("tags:popular:%s:%d", username, limit)
}
