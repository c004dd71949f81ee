// Package store owns the persisted application state: one blob under one
// versioned key, read through state.Bootstrap and written back whole.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vueltra/vueltra-property2-sub000/internal/state"
	"github.com/vueltra/vueltra-property2-sub000/internal/storage"

	"go.uber.org/zap"
)

// DefaultKey is the storage key of the state blob. Changing it resets every
// existing deployment to the seed state.
const DefaultKey = "vueltra_state_v3"

// Store serializes every read-modify-write cycle so concurrent callers in one
// process never interleave.
type Store struct {
	mu     sync.Mutex
	repo   storage.Repository
	key    string
	opts   state.Options
	logger *zap.Logger
	clock  func() time.Time
}

type Option func(*Store)

// WithClock replaces the time source used for record timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithBootstrapOptions sets the options passed to state.Bootstrap on every load.
func WithBootstrapOptions(opts state.Options) Option {
	return func(s *Store) { s.opts = opts }
}

func New(repo storage.Repository, key string, logger *zap.Logger, opts ...Option) *Store {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		repo:   repo,
		key:    key,
		logger: logger.Named("store"),
		clock:  utcNow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// utcNow drops the monotonic reading so timestamps survive a JSON round trip unchanged.
func utcNow() time.Time {
	return time.Now().UTC().Round(0)
}

func (s *Store) Key() string { return s.key }

func (s *Store) Now() time.Time { return s.clock() }

// Load returns the current state. A missing or corrupt blob yields the seed
// state; only storage I/O failures are returned as errors.
func (s *Store) Load(ctx context.Context) (*state.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (*state.AppState, error) {
	raw, _, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	st, err := state.Bootstrap(raw, s.opts)
	switch {
	case errors.Is(err, state.ErrEmptyBlob):
		s.logger.Debug("No persisted state, using seed", zap.String("key", s.key))
	case err != nil:
		s.logger.Warn("Persisted state is unreadable, falling back to seed", zap.String("key", s.key), zap.Error(err))
	}
	return st, nil
}

// Save writes st as the new persisted state.
func (s *Store) Save(ctx context.Context, st *state.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, st)
}

func (s *Store) save(ctx context.Context, st *state.AppState) error {
	raw, err := state.Encode(st)
	if err != nil {
		return err
	}
	if err := s.repo.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// Update loads the state, applies fn and saves the result, all under the
// store lock. When fn returns an error nothing is written.
func (s *Store) Update(ctx context.Context, fn func(st *state.AppState, now time.Time) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(st, s.clock()); err != nil {
		return err
	}
	return s.save(ctx, st)
}

// Reset overwrites the persisted state with the seed state.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger.Info("Resetting persisted state to seed", zap.String("key", s.key))
	return s.save(ctx, state.Seed())
}

// Snapshot returns the raw persisted blob, or nil when nothing is stored.
func (s *Store) Snapshot(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, found, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	if !found {
		return nil, nil
	}
	return raw, nil
}
