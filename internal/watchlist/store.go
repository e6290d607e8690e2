// Package watchlist keeps the user's saved movies in memory and mirrors every
// change to persistent storage.
//
// The in-memory list is authoritative for the lifetime of the Store. Each
// effective Add or Remove serializes the whole list to the storage slot before
// returning; a failed write is logged and does not undo the mutation.
package watchlist

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/marco/moviedb/internal/catalog"
	"github.com/marco/moviedb/internal/storage"
)

// DefaultSlot is the storage slot holding the serialized watchlist.
const DefaultSlot = "watchlist"

// ErrNotInitialized is returned by Teardown on a store that never started.
var ErrNotInitialized = errors.New("watchlist not initialized")

// Store is an ordered set of movies keyed by catalog id.
type Store struct {
	storage storage.Storage
	slot    string
	logger  *slog.Logger

	mu          sync.RWMutex
	once        sync.Once
	initialized bool
	entries     []catalog.Movie
	index       map[int]int // movie id -> position in entries
}

// Option configures a Store.
type Option func(*Store)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSlot overrides the storage slot name.
func WithSlot(slot string) Option {
	return func(s *Store) {
		if slot != "" {
			s.slot = slot
		}
	}
}

// NewStore creates a Store on top of st. Call Initialize before use.
func NewStore(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		slot:    DefaultSlot,
		logger:  slog.Default(),
		index:   make(map[int]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "watchlist")
	return s
}

// Initialize loads the persisted watchlist. Missing or unreadable data yields
// an empty watchlist. Only the first call has an effect.
func (s *Store) Initialize() {
	s.once.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.initialized = true
		entries, err := s.load()
		if err != nil {
			s.logger.Warn("failed to load watchlist, starting empty",
				"slot", s.slot,
				"error", err,
			)
			return
		}
		for _, m := range entries {
			if m.ID <= 0 {
				continue
			}
			if _, dup := s.index[m.ID]; dup {
				continue
			}
			s.index[m.ID] = len(s.entries)
			s.entries = append(s.entries, m)
		}
		s.logger.Debug("loaded watchlist", "slot", s.slot, "entry_count", len(s.entries))
	})
}

// Add appends movie unless a movie with the same id is already present.
// Movies without a positive id are rejected, matching what Initialize keeps.
// It reports whether the watchlist changed.
func (s *Store) Add(movie catalog.Movie) bool {
	if movie.ID <= 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[movie.ID]; exists {
		return false
	}
	s.index[movie.ID] = len(s.entries)
	s.entries = append(s.entries, movie)
	s.persist()

	s.logger.Debug("added to watchlist", "movie_id", movie.ID, "title", movie.Title)
	return true
}

// Remove deletes the movie with the given id. It reports whether the
// watchlist changed.
func (s *Store) Remove(movieID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, exists := s.index[movieID]
	if !exists {
		return false
	}

	s.entries = append(s.entries[:pos:pos], s.entries[pos+1:]...)
	delete(s.index, movieID)
	for i := pos; i < len(s.entries); i++ {
		s.index[s.entries[i].ID] = i
	}
	s.persist()

	s.logger.Debug("removed from watchlist", "movie_id", movieID)
	return true
}

// Toggle removes the movie if present, otherwise adds it. It returns whether
// the movie is in the watchlist afterwards.
func (s *Store) Toggle(movie catalog.Movie) bool {
	if s.Remove(movie.ID) {
		return false
	}
	s.Add(movie)
	return true
}

// Contains reports whether a movie with the given id is saved.
func (s *Store) Contains(movieID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.index[movieID]
	return exists
}

// List returns a copy of the saved movies in insertion order.
func (s *Store) List() []catalog.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]catalog.Movie, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of saved movies.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Teardown releases the underlying storage.
func (s *Store) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}
	return s.storage.Close()
}

// Decode parses a serialized watchlist, as written by the Store.
func Decode(data []byte) ([]catalog.Movie, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var entries []catalog.Movie
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) load() ([]catalog.Movie, error) {
	data, found, err := s.storage.Get(s.slot)
	if err != nil || !found {
		return nil, err
	}
	return Decode(data)
}

// persist writes the full list. Caller holds s.mu.
func (s *Store) persist() {
	entries := s.entries
	if entries == nil {
		entries = []catalog.Movie{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		s.logger.Warn("failed to encode watchlist", "error", err)
		return
	}
	if err := s.storage.Set(s.slot, data); err != nil {
		s.logger.Warn("failed to persist watchlist, keeping in-memory state",
			"slot", s.slot,
			"error", err,
		)
	}
}
