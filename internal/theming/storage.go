package theming

import (
	"context"
	"errors"
	"sync"

	"github.com/codr1/folio/internal/models"
)

var (
	ErrNotFound           = errors.New("storage key not found")
	ErrStorageUnavailable = errors.New("theme storage unavailable")
	ErrStorageWriteFailed = errors.New("theme storage write failed")
)

// Storage is the site-local key/value store the active theme is persisted
// in. Get returns ErrNotFound for a missing key.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// StyleTarget receives the projected style variables of the active theme.
// ApplyVariables must take the whole list in one call so readers never see
// a partially applied theme.
type StyleTarget interface {
	ApplyVariables(vars []models.StyleVariable)
}

// MemoryStorage is an in-process Storage. Failures can be injected with
// FailReads and FailWrites.
type MemoryStorage struct {
	mu         sync.Mutex
	values     map[string]string
	FailReads  error
	FailWrites error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(ctx context.Context, key string) (string, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailReads != nil {
		return "", m.FailReads
	}
	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryStorage) Set(ctx context.Context, key, value string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, key string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return m.FailWrites
	}
	delete(m.values, key)
	return nil
}
