package resumeinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/recruitdesk/pkg/resume"
	"github.com/redis/go-redis/v9"
)

// RedisFieldCache guarda extracciones en Redis como JSON
type RedisFieldCache struct {
	client *redis.Client
}

// NewRedisFieldCache crea la caché de extracciones con Redis
func NewRedisFieldCache(client *redis.Client) resume.FieldCache {
	return &RedisFieldCache{client: client}
}

func (c *RedisFieldCache) Get(ctx context.Context, key string) (*resume.Extraction, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached fields from Redis: %w", err)
	}

	var extraction resume.Extraction
	if err := json.Unmarshal(raw, &extraction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached fields: %w", err)
	}
	return &extraction, nil
}

func (c *RedisFieldCache) Set(ctx context.Context, key string, extraction resume.Extraction, ttl time.Duration) error {
	data, err := json.Marshal(extraction)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store fields in Redis: %w", err)
	}
	return nil
}
