package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// VoidStorage reads through to the underlying storage but never writes to it.
// Written values are kept in memory, so that later loads of the same run see them.
// It backs dry runs.
type VoidStorage struct {
	storage Storage
	memory  *MockStorage
}

// NewVoidStorage creates a new storage that never writes.
// A nil storage behaves as an empty one.
func NewVoidStorage(storage Storage) *VoidStorage {
	return &VoidStorage{
		storage: storage,
		memory:  NewMockStorage(),
	}
}

func (d VoidStorage) Store(k Key, value interface{}) error {
	log.Info().Str("key", k.Path()).Str("value", fmt.Sprintf("%+v", value)).Msg("skip store")
	return d.memory.Store(k, value)
}

func (d VoidStorage) Load(k Key, value interface{}) error {
	if _, ok := d.memory.Elements[k]; ok {
		return d.memory.Load(k, value)
	}
	if d.storage == nil {
		return fmt.Errorf("not found '%v': %w", k, ErrNotFound)
	}
	return d.storage.Load(k, value)
}

func (d VoidStorage) Lock(ctx context.Context, k Key) (func() error, error) {
	if d.storage == nil {
		return d.memory.Lock(ctx, k)
	}
	return d.storage.Lock(ctx, k)
}
