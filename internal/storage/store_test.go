package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/drakos74/envelope/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerKey(t *testing.T) {
	assert.Equal(t, "tracker_ETH-USDT", TrackerKey(model.ETHUSDT).Path())
}

func TestEnsureTracker(t *testing.T) {
	store := NewMockStorage()

	created, err := EnsureTracker(store, model.ETHUSDT)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, `{"status":"ok_to_trade","last_side":null,"stop_loss_ids":[]}`, store.Elements[TrackerKey(model.ETHUSDT)])

	tracker, err := LoadTracker(store, model.ETHUSDT)
	require.NoError(t, err)
	tracker.StopLossIDs = []int64{1, 2}
	require.NoError(t, SaveTracker(store, model.ETHUSDT, tracker))

	// existing state is kept
	created, err = EnsureTracker(store, model.ETHUSDT)
	require.NoError(t, err)
	assert.False(t, created)
	tracker, err = LoadTracker(store, model.ETHUSDT)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, tracker.StopLossIDs)

	// corrupt state is an error, not a reset
	store.Elements[TrackerKey(model.ETHUSDT)] = "{"
	_, err = EnsureTracker(store, model.ETHUSDT)
	assert.True(t, errors.Is(err, ErrCouldNotLoad))
}

func TestLoadTracker_NullIDs(t *testing.T) {
	store := NewMockStorage()
	store.Elements[TrackerKey(model.ETHUSDT)] = `{"status":"close_long","last_side":"long","stop_loss_ids":null}`

	tracker, err := LoadTracker(store, model.ETHUSDT)
	require.NoError(t, err)
	assert.Equal(t, model.CloseLong, tracker.Status)
	require.NotNil(t, tracker.LastSide)
	assert.Equal(t, model.Long, *tracker.LastSide)
	assert.Equal(t, []int64{}, tracker.StopLossIDs)
}

func TestMockStorage_Lock(t *testing.T) {
	store := NewMockStorage()
	k := TrackerKey(model.ETHUSDT)

	unlock, err := store.Lock(context.Background(), k)
	require.NoError(t, err)
	assert.True(t, store.Locked(k))

	_, err = store.Lock(context.Background(), k)
	assert.True(t, errors.Is(err, ErrLocked))

	require.NoError(t, unlock())
	assert.False(t, store.Locked(k))
}

func TestVoidStorage(t *testing.T) {
	store := NewMockStorage()
	tracker := model.NewTracker()
	tracker.StopLossIDs = []int64{7}
	require.NoError(t, SaveTracker(store, model.ETHUSDT, tracker))

	void := NewVoidStorage(store)
	loaded, err := LoadTracker(void, model.ETHUSDT)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, loaded.StopLossIDs)

	loaded.ClearStopLoss()
	require.NoError(t, SaveTracker(void, model.ETHUSDT, loaded))

	// the run sees its own write
	again, err := LoadTracker(void, model.ETHUSDT)
	require.NoError(t, err)
	assert.Equal(t, []int64{}, again.StopLossIDs)

	// the underlying storage is untouched
	assert.Equal(t, 1, len(store.History))
	original, err := LoadTracker(store, model.ETHUSDT)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, original.StopLossIDs)

	empty := NewVoidStorage(nil)
	created, err := EnsureTracker(empty, model.ETHUSDT)
	require.NoError(t, err)
	assert.True(t, created)
	_, err = LoadTracker(empty, model.ETHUSDT)
	assert.NoError(t, err)
}
