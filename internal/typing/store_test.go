package typing

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-api/internal/models"
)

func newTestStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestSetWritesKeyedIndicator(t *testing.T) {
	store, mr := newTestStore(t, 10*time.Second)

	event := models.TypingEvent{
		WriterID:    "uid-1",
		RecipientID: "uid-2",
		Text:        "hel",
		Timestamp:   1700000000000,
	}
	require.NoError(t, store.Set(context.Background(), "app1", event))

	raw, err := mr.Get("typing:app1:uid-2:uid-1")
	require.NoError(t, err)

	var stored models.TypingEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, event, stored)
}

func TestSetAppliesTTL(t *testing.T) {
	store, mr := newTestStore(t, 10*time.Second)

	event := models.TypingEvent{WriterID: "uid-1", RecipientID: "uid-2"}
	require.NoError(t, store.Set(context.Background(), "app1", event))

	assert.Equal(t, 10*time.Second, mr.TTL("typing:app1:uid-2:uid-1"))

	mr.FastForward(11 * time.Second)
	assert.False(t, mr.Exists("typing:app1:uid-2:uid-1"))
}

func TestSetFillsTimestamp(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)

	require.NoError(t, store.Set(context.Background(), "app1", models.TypingEvent{WriterID: "w", RecipientID: "r"}))

	raw, err := mr.Get("typing:app1:r:w")
	require.NoError(t, err)

	var stored models.TypingEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.NotZero(t, stored.Timestamp)
}

func TestEventsAreIndependentPerWriter(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)

	require.NoError(t, store.Set(context.Background(), "app1", models.TypingEvent{WriterID: "w1", RecipientID: "r"}))
	require.NoError(t, store.Set(context.Background(), "app1", models.TypingEvent{WriterID: "w2", RecipientID: "r"}))

	assert.True(t, mr.Exists("typing:app1:r:w1"))
	assert.True(t, mr.Exists("typing:app1:r:w2"))
}
