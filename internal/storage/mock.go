package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockStorage is an in-memory storage keeping the json encoding of every value.
type MockStorage struct {
	Elements map[Key]string
	// History holds every stored value in order.
	History []string
	locked  map[Key]bool
	mutex   *sync.Mutex
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		Elements: make(map[Key]string),
		History:  make([]string, 0),
		locked:   make(map[Key]bool),
		mutex:    new(sync.Mutex),
	}
}

func (m *MockStorage) Store(k Key, value interface{}) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	bb, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal value: %w", err)
	}
	m.Elements[k] = string(bb)
	m.History = append(m.History, string(bb))
	return nil
}

func (m *MockStorage) Load(k Key, value interface{}) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	v, ok := m.Elements[k]
	if !ok {
		return fmt.Errorf("not found '%v': %w", k, ErrNotFound)
	}
	if err := json.Unmarshal([]byte(v), value); err != nil {
		return fmt.Errorf("could not unmarshal value '%v': %w", err, ErrCouldNotLoad)
	}
	return nil
}

func (m *MockStorage) Lock(ctx context.Context, k Key) (func() error, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.locked[k] {
		return nil, fmt.Errorf("'%v': %w", k, ErrLocked)
	}
	m.locked[k] = true
	return func() error {
		m.mutex.Lock()
		defer m.mutex.Unlock()
		delete(m.locked, k)
		return nil
	}, nil
}

// Locked returns true if the key is currently held.
func (m *MockStorage) Locked(k Key) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.locked[k]
}
