package game

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// DefaultGameID identifies the game served at the top-level API routes.
const DefaultGameID = "default"

// ErrGameNotFound indicates an unknown game id.
var ErrGameNotFound = errors.New("game not found")

// Store holds the running games.
type Store struct {
	mu      sync.RWMutex
	games   map[string]*Game
	options func() Options
	created func(*Game)
}

// NewStore returns a store whose games are built from the options returned
// by opts. created, if non-nil, runs once for each new game before it is
// visible to other callers.
func NewStore(opts func() Options, created func(*Game)) *Store {
	return &Store{
		games:   make(map[string]*Game),
		options: opts,
		created: created,
	}
}

// CreateGame creates a game with a fresh id and stores it.
func (s *Store) CreateGame() (*Game, error) {
	return s.create(uuid.NewString())
}

// Default returns the default game, creating it on first use.
func (s *Store) Default() (*Game, error) {
	if g, err := s.GetGame(DefaultGameID); err == nil {
		return g, nil
	}
	return s.create(DefaultGameID)
}

// GetGame retrieves a game by id.
func (s *Store) GetGame(id string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// IDs lists the ids of every stored game.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) create(id string) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g, ok := s.games[id]; ok {
		return g, nil
	}
	g, err := New(id, s.options())
	if err != nil {
		return nil, err
	}
	if s.created != nil {
		s.created(g)
	}
	s.games[id] = g
	return g, nil
}
