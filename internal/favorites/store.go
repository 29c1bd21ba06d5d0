// Package favorites keeps the driver's saved plans in a local key/value store.
package favorites

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/couchcryptid/signals-planner/internal/domain"
	"github.com/couchcryptid/signals-planner/internal/observability"
)

// DefaultKey is the storage key used by earlier versions of the planner.
const DefaultKey = "signalsPlanner:favs"

// DefaultCap is the maximum number of favorites kept.
const DefaultCap = 20

// KV is the persistence the store writes through.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store is a most-recent-first, capped list of favorites persisted as one
// JSON array under a single key. Every mutation is written before returning.
type Store struct {
	kv      KV
	key     string
	max     int
	logger  *slog.Logger
	metrics *observability.Metrics

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// New creates a Store. An empty key or non-positive max falls back to the defaults.
func New(kv KV, key string, max int, logger *slog.Logger, metrics *observability.Metrics) *Store {
	if key == "" {
		key = DefaultKey
	}
	if max <= 0 {
		max = DefaultCap
	}
	return &Store{kv: kv, key: key, max: max, logger: logger, metrics: metrics}
}

// Cap returns the maximum number of entries Add keeps.
func (s *Store) Cap() int { return s.max }

// Load returns the persisted favorites. Missing, unreadable, or corrupt data
// yields an empty list; the problem is logged, never returned.
func (s *Store) Load(ctx context.Context) []domain.FavoriteEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	favs, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("favorites read failed, using empty list", "key", s.key, "error", err)
		return []domain.FavoriteEntry{}
	}
	return favs
}

// load returns the stored list. Missing or corrupt data is an empty list; only
// a KV read failure is an error, so mutations never overwrite what they could
// not read.
func (s *Store) load(ctx context.Context) ([]domain.FavoriteEntry, error) {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.metrics.FavoritesLoads.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	if !ok || len(data) == 0 {
		s.metrics.FavoritesLoads.WithLabelValues("empty").Inc()
		return []domain.FavoriteEntry{}, nil
	}

	var favs []domain.FavoriteEntry
	if err := json.Unmarshal(data, &favs); err != nil {
		s.logger.Warn("favorites data corrupt, using empty list", "key", s.key, "error", err)
		s.metrics.FavoritesLoads.WithLabelValues("corrupt").Inc()
		return []domain.FavoriteEntry{}, nil
	}
	if favs == nil {
		// Stored "null".
		favs = []domain.FavoriteEntry{}
	}
	s.metrics.FavoritesLoads.WithLabelValues("success").Inc()
	s.metrics.FavoritesCount.Set(float64(len(favs)))
	return favs, nil
}

// Save overwrites the persisted list with favs as given. Ordering and the
// cap are the caller's responsibility.
func (s *Store) Save(ctx context.Context, favs []domain.FavoriteEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, "save", favs)
}

func (s *Store) save(ctx context.Context, op string, favs []domain.FavoriteEntry) error {
	if favs == nil {
		favs = []domain.FavoriteEntry{}
	}
	data, err := encode(favs)
	if err != nil {
		s.metrics.FavoritesWrites.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		s.logger.Error("favorites write failed", "op", op, "key", s.key, "error", err)
		s.metrics.FavoritesWrites.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("persist favorites: %w", err)
	}
	s.metrics.FavoritesWrites.WithLabelValues(op, "success").Inc()
	s.metrics.FavoritesCount.Set(float64(len(favs)))
	return nil
}

// encode writes favs as compact JSON without HTML escaping, matching the
// bytes earlier versions stored for names like "Main St & 5th".
func encode(favs []domain.FavoriteEntry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(favs); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Add puts entry at the front, drops anything beyond the cap, persists, and
// returns the new list. A failed read returns the error and writes nothing.
func (s *Store) Add(ctx context.Context, entry domain.FavoriteEntry) ([]domain.FavoriteEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		s.metrics.FavoritesWrites.WithLabelValues("add", "error").Inc()
		return nil, err
	}
	next := make([]domain.FavoriteEntry, 0, min(len(current)+1, s.max))
	next = append(next, entry)
	for _, f := range current {
		if len(next) == s.max {
			break
		}
		next = append(next, f)
	}

	if err := s.save(ctx, "add", next); err != nil {
		return nil, err
	}
	s.logger.Debug("favorite added", "choice", entry.Choice, "count", len(next))
	return next, nil
}

// Remove deletes the entry at index and persists. An index outside the list
// returns domain.ErrIndexOutOfRange and leaves storage untouched.
func (s *Store) Remove(ctx context.Context, index int) ([]domain.FavoriteEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		s.metrics.FavoritesWrites.WithLabelValues("remove", "error").Inc()
		return nil, err
	}
	if index < 0 || index >= len(current) {
		return nil, fmt.Errorf("remove %d of %d: %w", index, len(current), domain.ErrIndexOutOfRange)
	}

	next := make([]domain.FavoriteEntry, 0, len(current)-1)
	next = append(next, current[:index]...)
	next = append(next, current[index+1:]...)

	if err := s.save(ctx, "remove", next); err != nil {
		return nil, err
	}
	return next, nil
}
