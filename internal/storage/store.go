package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/drakos74/envelope/internal/model"
	"github.com/rs/zerolog/log"
)

const (
	TrackerLabel = "tracker"
)

var (
	// DefaultDir is the directory of the file storage if none is configured.
	DefaultDir = "."
)

var (
	ErrNotFound     = errors.New("not found")
	ErrCouldNotLoad = errors.New("could not load")
	// ErrLocked is returned if another process holds the lock of the key.
	ErrLocked = errors.New("locked")
)

// Key is the storage key for a general implementation
type Key struct {
	Pair  string `json:"pair"`
	Label string `json:"label"`
}

// Path returns the flat name of the key e.g. tracker_ETH-USDT
func (k Key) Path() string {
	return fmt.Sprintf("%s_%s", k.Label, k.Pair)
}

// TrackerKey is the key of the tracker state for the given symbol.
func TrackerKey(symbol model.Symbol) Key {
	return Key{
		Pair:  symbol.Slug(),
		Label: TrackerLabel,
	}
}

type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}

// Locker provides exclusive access to a key across processes.
// Lock does not wait, it fails with ErrLocked if the key is already held.
type Locker interface {
	Lock(ctx context.Context, k Key) (unlock func() error, err error)
}

// Storage is a persistence with exclusive access.
type Storage interface {
	Persistence
	Locker
}

// LoadTracker loads the tracker state of the symbol.
func LoadTracker(p Persistence, symbol model.Symbol) (model.Tracker, error) {
	var tracker model.Tracker
	if err := p.Load(TrackerKey(symbol), &tracker); err != nil {
		return tracker, err
	}
	if tracker.StopLossIDs == nil {
		tracker.StopLossIDs = []int64{}
	}
	return tracker, nil
}

// SaveTracker stores the tracker state of the symbol.
func SaveTracker(p Persistence, symbol model.Symbol, tracker model.Tracker) error {
	if err := p.Store(TrackerKey(symbol), tracker); err != nil {
		return fmt.Errorf("could not save tracker for %s: %w", symbol, err)
	}
	return nil
}

// EnsureTracker seeds the default tracker state if none exists yet.
// An existing state is never overwritten.
func EnsureTracker(p Persistence, symbol model.Symbol) (bool, error) {
	_, err := LoadTracker(p, symbol)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("could not check tracker for %s: %w", symbol, err)
	}
	if err := SaveTracker(p, symbol, model.NewTracker()); err != nil {
		return false, err
	}
	log.Info().Str("key", TrackerKey(symbol).Path()).Msg("created tracker")
	return true, nil
}
