package theming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/folio/internal/models"
)

// DefaultStorageKey is the key the active theme is persisted under.
const DefaultStorageKey = "theme.current"

// HydrationState tracks whether the store may touch persistent storage and
// the style target. It only ever moves from Uninitialized to Hydrated.
type HydrationState int

const (
	// Uninitialized: pre-render state. Mutations only change the in-memory
	// document.
	Uninitialized HydrationState = iota
	// Hydrated: storage has been read and every mutation is projected and
	// persisted.
	Hydrated
)

func (s HydrationState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Hydrated:
		return "hydrated"
	default:
		return fmt.Sprintf("HydrationState(%d)", int(s))
	}
}

type StoreOptions struct {
	// StorageKey defaults to DefaultStorageKey.
	StorageKey string
	// Initial is the document held before hydration. Defaults to
	// models.DefaultDocument().
	Initial *models.Document
}

// Store owns the active theme document. All mutations are serialised, and
// each one projects and persists the full document before the lock is
// released.
type Store struct {
	mu      sync.Mutex
	storage Storage
	target  StyleTarget
	key     string
	state   HydrationState
	current models.Document
}

func NewStore(storage Storage, target StyleTarget, opts StoreOptions) *Store {
	key := strings.TrimSpace(opts.StorageKey)
	if key == "" {
		key = DefaultStorageKey
	}
	initial := models.DefaultDocument()
	if opts.Initial != nil {
		initial = opts.Initial.Clone()
	}
	return &Store{
		storage: storage,
		target:  target,
		key:     key,
		state:   Uninitialized,
		current: initial,
	}
}

func (s *Store) State() HydrationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) StorageKey() string {
	return s.key
}

// Current returns a copy of the active document.
func (s *Store) Current() models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Hydrate moves the store to Hydrated, loads the persisted document and
// applies it. Calls after the first are no-ops returning the active document.
func (s *Store) Hydrate(ctx context.Context) models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Hydrated {
		return s.current.Clone()
	}
	s.state = Hydrated
	log.Ctx(ctx).Debug().Str("storage_key", s.key).Msg("Theme store hydrated")

	s.applyLocked(ctx, s.loadLocked(ctx))
	return s.current.Clone()
}

// Load reads the persisted document. A missing key, a read failure or a
// malformed value all yield the default document; nothing is returned to the
// caller as an error. Before hydration storage is not read and the in-memory
// document is returned.
func (s *Store) Load(ctx context.Context) models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Hydrated {
		return s.current.Clone()
	}
	return s.loadLocked(ctx)
}

// Apply makes doc the active document, projects its style variables and
// persists it. Persistence failures are logged and swallowed.
func (s *Store) Apply(ctx context.Context, doc models.Document) models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyLocked(ctx, doc)
	return s.current.Clone()
}

// Patch shallow-merges patch into the active document, then applies it.
func (s *Store) Patch(ctx context.Context, patch models.Patch) models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyLocked(ctx, s.current.Merge(patch))
	return s.current.Clone()
}

// SetToken reassigns one semantic role on the active document.
func (s *Store) SetToken(ctx context.Context, token models.Token, value string) (models.Document, error) {
	if !token.Valid() {
		return models.Document{}, fmt.Errorf("%w: %q", models.ErrInvalidToken, token)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyLocked(ctx, s.current.WithToken(token, value))
	return s.current.Clone(), nil
}

// ApplyPreset applies preset index from catalog. The index is checked before
// anything changes.
func (s *Store) ApplyPreset(ctx context.Context, catalog *Catalog, index int) (models.Document, error) {
	preset, err := catalog.At(index)
	if err != nil {
		return models.Document{}, err
	}
	return s.Apply(ctx, preset), nil
}

// Reset restores the default document and removes the persisted copy.
func (s *Store) Reset(ctx context.Context) models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = models.DefaultDocument()
	if s.state != Hydrated {
		return s.current.Clone()
	}

	s.target.ApplyVariables(s.current.StyleVariables())
	if err := s.storage.Delete(ctx, s.key); err != nil {
		log.Ctx(ctx).Error().
			Err(writeFailure(err)).
			Str("storage_key", s.key).
			Msg("Failed to remove persisted theme")
	}
	return s.current.Clone()
}

func (s *Store) applyLocked(ctx context.Context, doc models.Document) {
	s.current = doc.Clone()
	if s.state != Hydrated {
		return
	}

	s.target.ApplyVariables(s.current.StyleVariables())

	if err := s.persistLocked(ctx); err != nil {
		log.Ctx(ctx).Error().
			Err(err).
			Str("storage_key", s.key).
			Str("theme_name", s.current.Name).
			Msg("Failed to persist theme; keeping in-memory theme")
	}
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.current)
	if err != nil {
		return fmt.Errorf("%w: encode theme: %w", ErrStorageWriteFailed, err)
	}
	if err := s.storage.Set(ctx, s.key, string(data)); err != nil {
		return writeFailure(err)
	}
	return nil
}

// writeFailure tags err with ErrStorageWriteFailed unless the backend already
// classified it.
func writeFailure(err error) error {
	if errors.Is(err, ErrStorageWriteFailed) || errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorageWriteFailed, err)
}

func (s *Store) loadLocked(ctx context.Context) models.Document {
	logger := log.Ctx(ctx)

	raw, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Debug().Str("storage_key", s.key).Msg("No persisted theme; using default")
		} else {
			logger.Error().Err(err).Str("storage_key", s.key).Msg("Failed to read persisted theme; using default")
		}
		return models.DefaultDocument()
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		logger.Warn().Err(err).Str("storage_key", s.key).Msg("Persisted theme is malformed; using default")
		return models.DefaultDocument()
	}
	if strings.TrimSpace(doc.Name) == "" {
		logger.Warn().Str("storage_key", s.key).Msg("Persisted theme has no name; using default")
		return models.DefaultDocument()
	}
	return doc
}
