package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/drakos74/envelope/internal/model"
	"github.com/drakos74/envelope/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func unreachable() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestStorage_Key(t *testing.T) {
	s := NewStorage(unreachable(), "")
	k := storage.TrackerKey(model.ETHUSDT)
	assert.Equal(t, "envelope:tracker_ETH-USDT", s.Key(k))
	assert.Equal(t, "envelope:tracker_ETH-USDT:lock", s.lockKey(k))

	s = NewStorage(unreachable(), "test")
	assert.Equal(t, "test:tracker_ETH-USDT", s.Key(k))
}

func TestStorage_Unreachable(t *testing.T) {
	s := NewStorage(unreachable(), "")

	_, err := storage.LoadTracker(s, model.ETHUSDT)
	assert.Error(t, err)
	// connection failures must not look like a missing tracker
	assert.False(t, errors.Is(err, storage.ErrNotFound))

	_, err = storage.EnsureTracker(s, model.ETHUSDT)
	assert.Error(t, err)

	_, err = s.Lock(context.Background(), storage.TrackerKey(model.ETHUSDT))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, storage.ErrLocked))
}
