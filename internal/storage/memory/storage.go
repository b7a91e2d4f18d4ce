package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mport/typeduel/internal/model"
	"github.com/mport/typeduel/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	passages          map[model.PassageID]*model.Passage
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		passages:          make(map[model.PassageID]*model.Passage),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredPlayers[rp.PlayerID] = rp
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

// Passage operations

func (s *Storage) SavePassage(ctx context.Context, passage *model.Passage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passages[passage.ID] = passage
	return nil
}

func (s *Storage) GetPassage(ctx context.Context, id model.PassageID) (*model.Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	passage, ok := s.passages[id]
	if !ok {
		return nil, model.ErrPassageNotFound
	}
	return passage, nil
}

func (s *Storage) ListPassages(ctx context.Context) ([]*model.Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	passages := make([]*model.Passage, 0, len(s.passages))
	for _, p := range s.passages {
		passages = append(passages, p)
	}
	// Map iteration order is random; keep listings stable for callers
	sort.Slice(passages, func(i, j int) bool {
		return passages[i].ID < passages[j].ID
	})
	return passages, nil
}
