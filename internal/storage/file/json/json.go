package json

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/drakos74/envelope/internal/storage"
	"github.com/gofrs/flock"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog/log"
)

// BlobStorage stores every key as a json file in a directory.
type BlobStorage struct {
	dir string
}

// NewBlobStorage creates a file storage in the given directory, creating it if needed.
func NewBlobStorage(dir string) (*BlobStorage, error) {
	if dir == "" {
		dir = storage.DefaultDir
	}
	info, err := os.Stat(dir)
	if err != nil {
		err := os.MkdirAll(dir, os.ModePerm)
		if err != nil {
			return nil, fmt.Errorf("could not make dir: %s: %w", dir, err)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("path given is not a directory: %s", dir)
	}
	return &BlobStorage{dir: dir}, nil
}

// Path returns the file of the key.
func (s *BlobStorage) Path(k storage.Key) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s.json", k.Path()))
}

// Store replaces the file of the key atomically.
// Readers see either the previous or the new content, never a partial write.
func (s *BlobStorage) Store(k storage.Key, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not save key '%+v': %w", k, err)
	}
	p := s.Path(k)
	if err := renameio.WriteFile(p, b, 0644); err != nil {
		return fmt.Errorf("could not write file '%s': %w", p, err)
	}
	return nil
}

// Load decodes the file of the key into the value.
func (s *BlobStorage) Load(k storage.Key, value interface{}) error {
	p := s.Path(k)
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("could not read file '%s': %w", p, storage.ErrNotFound)
		}
		return fmt.Errorf("could not read file '%s': %w", p, err)
	}
	err = json.Unmarshal(data, value)
	if err != nil {
		return fmt.Errorf("could not unmarshal key '%s' %s: %w", p, err.Error(), storage.ErrCouldNotLoad)
	}
	return nil
}

// Lock takes an advisory lock on a sibling '.lock' file of the key.
// It fails with storage.ErrLocked if another process holds it.
func (s *BlobStorage) Lock(ctx context.Context, k storage.Key) (func() error, error) {
	p := fmt.Sprintf("%s.lock", s.Path(k))
	lock := flock.New(p)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("could not lock '%s': %w", p, err)
	}
	if !ok {
		return nil, fmt.Errorf("'%s': %w", p, storage.ErrLocked)
	}
	log.Debug().Str("lock", p).Msg("acquired lock")
	return func() error {
		if err := lock.Unlock(); err != nil {
			return fmt.Errorf("could not unlock '%s': %w", p, err)
		}
		return nil
	}, nil
}
