package storage

import (
	"context"

	"github.com/mport/typeduel/internal/model"
)

// Storage defines the interface for data persistence.
//
// Only durable data lives here: player accounts and typing passages. Live
// session state (who is connected, paired, or queued) is owned by the
// in-memory registry and intentionally does not survive a restart.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Passage operations
	SavePassage(ctx context.Context, passage *model.Passage) error
	GetPassage(ctx context.Context, id model.PassageID) (*model.Passage, error)
	ListPassages(ctx context.Context) ([]*model.Passage, error)
}
