// internal/store/memory.go
//
// Session storage for boards, plus the in-memory implementation.
// This is the default backend: sessions live in a map for the lifetime of
// the process.
//
// Characteristics:
//   - Boards are copied on the way in and out, so callers never share a
//     *game.Board with the store.
//   - Update holds the write lock for the whole read-modify-write, which
//     serializes intents per process.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wordle/apps/tile-board/internal/game"
)

// ErrNotFound is returned when no board is stored under an id.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or replaces a board.
	Save(ctx context.Context, b *game.Board) error

	// Get retrieves a copy of the board with the given id.
	Get(ctx context.Context, id string) (*game.Board, error)

	// Update loads the board, applies fn and persists the result if fn
	// returns nil. The board after fn is returned even when fn fails, so
	// callers can still render it; it is never persisted in that case.
	Update(ctx context.Context, id string, fn func(b *game.Board) error) (*game.Board, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex           // guards games map
	games map[string]*game.Board // keyed by Board.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Board)}
}

// Save adds or updates the board in the map.
func (m *memory) Save(_ context.Context, b *game.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[b.ID()] = b.Clone()
	return nil
}

// Get looks up a board by ID.
func (m *memory) Get(_ context.Context, id string) (*game.Board, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.games[id]; ok {
		return b.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *memory) Update(_ context.Context, id string, fn func(b *game.Board) error) (*game.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	b := stored.Clone()
	if err := fn(b); err != nil {
		return b, err
	}
	m.games[id] = b.Clone()
	return b, nil
}
