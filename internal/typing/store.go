package typing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chat-api/internal/models"
)

// Store records ephemeral typing indicators. Entries expire on their own;
// there is no delete or read-back lifecycle.
type Store interface {
	Set(ctx context.Context, appID string, event models.TypingEvent) error
}

// RedisStore keeps typing indicators in Redis under a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Set writes the indicator keyed by app, recipient and writer.
func (s *RedisStore) Set(ctx context.Context, appID string, event models.TypingEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode typing event: %w", err)
	}

	key := fmt.Sprintf("typing:%s:%s:%s", appID, event.RecipientID, event.WriterID)
	return s.client.Set(ctx, key, payload, s.ttl).Err()
}

var _ Store = (*RedisStore)(nil)
