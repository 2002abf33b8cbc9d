package json

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/drakos74/envelope/internal/model"
	"github.com/drakos74/envelope/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStorage_Tracker(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "trackers")
	store, err := NewBlobStorage(dir)
	require.NoError(t, err)

	k := storage.TrackerKey(model.ETHUSDT)
	assert.Equal(t, filepath.Join(dir, "tracker_ETH-USDT.json"), store.Path(k))

	_, err = storage.LoadTracker(store, model.ETHUSDT)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	created, err := storage.EnsureTracker(store, model.ETHUSDT)
	require.NoError(t, err)
	assert.True(t, created)

	bb, err := os.ReadFile(store.Path(k))
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok_to_trade","last_side":null,"stop_loss_ids":[]}`, string(bb))

	tracker := model.NewTracker()
	tracker.StopLossIDs = []int64{8389765519750483, 8389765519750484}
	require.NoError(t, storage.SaveTracker(store, model.ETHUSDT, tracker))

	loaded, err := storage.LoadTracker(store, model.ETHUSDT)
	require.NoError(t, err)
	assert.Equal(t, tracker, loaded)

	// no temp files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, len(entries))
}

func TestBlobStorage_Corrupt(t *testing.T) {
	store, err := NewBlobStorage(t.TempDir())
	require.NoError(t, err)
	k := storage.TrackerKey(model.ETHUSDT)
	require.NoError(t, os.WriteFile(store.Path(k), []byte(`{"status":`), 0644))

	_, err = storage.LoadTracker(store, model.ETHUSDT)
	assert.True(t, errors.Is(err, storage.ErrCouldNotLoad))
}

func TestBlobStorage_Lock(t *testing.T) {
	dir := t.TempDir()
	store, err := NewBlobStorage(dir)
	require.NoError(t, err)
	other, err := NewBlobStorage(dir)
	require.NoError(t, err)

	k := storage.TrackerKey(model.ETHUSDT)
	unlock, err := store.Lock(context.Background(), k)
	require.NoError(t, err)

	_, err = other.Lock(context.Background(), k)
	assert.True(t, errors.Is(err, storage.ErrLocked))

	// other keys are independent
	unlockBTC, err := other.Lock(context.Background(), storage.TrackerKey(model.BTCUSDT))
	require.NoError(t, err)
	require.NoError(t, unlockBTC())

	require.NoError(t, unlock())
	unlock, err = other.Lock(context.Background(), k)
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestNewBlobStorage_File(t *testing.T) {
	p := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	_, err := NewBlobStorage(p)
	assert.Error(t, err)
}
