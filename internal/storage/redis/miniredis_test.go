package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/drakos74/envelope/internal/model"
	"github.com/drakos74/envelope/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*miniredis.Miniredis, *Storage) {
	m := miniredis.RunT(t)
	return m, NewStorage(NewClient(Config{Addr: m.Addr()}), "test")
}

func TestStorage_Tracker(t *testing.T) {
	m, s := newTestStorage(t)
	key := "test:tracker_ETH-USDT"

	_, err := storage.LoadTracker(s, model.ETHUSDT)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	created, err := storage.EnsureTracker(s, model.ETHUSDT)
	require.NoError(t, err)
	assert.True(t, created)

	value, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok_to_trade","last_side":null,"stop_loss_ids":[]}`, value)

	tracker := model.NewTracker()
	tracker.StopLossIDs = []int64{7, 8}
	require.NoError(t, storage.SaveTracker(s, model.ETHUSDT, tracker))

	// an existing tracker is never overwritten
	created, err = storage.EnsureTracker(s, model.ETHUSDT)
	require.NoError(t, err)
	assert.False(t, created)

	loaded, err := storage.LoadTracker(s, model.ETHUSDT)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, loaded.StopLossIDs)

	require.NoError(t, m.Set(key, "{"))
	_, err = storage.LoadTracker(s, model.ETHUSDT)
	assert.ErrorIs(t, err, storage.ErrCouldNotLoad)
}

func TestStorage_Lock(t *testing.T) {
	m, s := newTestStorage(t)
	s = s.WithLockTTL(time.Minute)
	k := storage.TrackerKey(model.ETHUSDT)
	lockKey := s.lockKey(k)
	ctx := context.Background()

	unlock, err := s.Lock(ctx, k)
	require.NoError(t, err)
	assert.True(t, m.Exists(lockKey))
	assert.Equal(t, time.Minute, m.TTL(lockKey))

	_, err = s.Lock(ctx, k)
	assert.ErrorIs(t, err, storage.ErrLocked)

	require.NoError(t, unlock())
	assert.False(t, m.Exists(lockKey))

	// the lock expired and another holder took it
	unlock, err = s.Lock(ctx, k)
	require.NoError(t, err)
	require.NoError(t, m.Set(lockKey, "other"))
	require.NoError(t, unlock())
	value, err := m.Get(lockKey)
	require.NoError(t, err)
	assert.Equal(t, "other", value)
}

func TestStorage_LockExpiry(t *testing.T) {
	m, s := newTestStorage(t)
	s = s.WithLockTTL(time.Minute)
	k := storage.TrackerKey(model.ETHUSDT)
	ctx := context.Background()

	_, err := s.Lock(ctx, k)
	require.NoError(t, err)
	_, err = s.Lock(ctx, k)
	assert.ErrorIs(t, err, storage.ErrLocked)

	m.FastForward(2 * time.Minute)
	unlock, err := s.Lock(ctx, k)
	require.NoError(t, err)
	assert.NoError(t, unlock())
}
