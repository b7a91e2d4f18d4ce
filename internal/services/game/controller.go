package game

import (
	"errors"
	"log/slog"

	"github.com/mport/typeduel/internal/model"
	"github.com/mport/typeduel/internal/registry"
)

// DefaultTargetScore is the score a player must reach to win a race
const DefaultTargetScore = 100

// Config holds configuration for the game controller
type Config struct {
	TargetScore int
}

// DefaultConfig returns default game configuration
func DefaultConfig() Config {
	return Config{
		TargetScore: DefaultTargetScore,
	}
}

// Controller applies score updates and decides when a race ends. Scores are
// client-reported deltas; the server only accumulates them and enforces the
// finish line.
type Controller struct {
	registry    *registry.Registry
	targetScore int
	logger      *slog.Logger
}

// NewController creates a new game controller
func NewController(reg *registry.Registry, cfg Config, logger *slog.Logger) *Controller {
	if cfg.TargetScore <= 0 {
		cfg.TargetScore = DefaultTargetScore
	}
	return &Controller{
		registry:    reg,
		targetScore: cfg.TargetScore,
		logger:      logger.With(slog.String("component", "game")),
	}
}

// ScoreUpdate is the outcome of applying one score delta. Opponent is empty
// when the player has no opponent to mirror to. Result is non-nil only when
// this update crossed the finish line; the pairing is already broken by then.
type ScoreUpdate struct {
	NewScore int
	Opponent model.ConnectionID
	Result   *model.GameResult
}

// UpdateScore applies a delta to the player's score and checks the finish
// line. Deltas are applied one at a time under the registry lock, so exactly
// one player can cross the line first and a race can never end in a tie.
func (c *Controller) UpdateScore(connID model.ConnectionID, delta int) (*ScoreUpdate, error) {
	newScore, opponentID, err := c.registry.AddScore(connID, delta)
	if err != nil {
		return nil, err
	}

	update := &ScoreUpdate{
		NewScore: newScore,
		Opponent: opponentID,
	}

	if result := c.CheckForEndGame(connID, opponentID, newScore); result != nil {
		if _, err := c.registry.Unpair(connID); err != nil {
			return nil, err
		}
		update.Result = result
		c.logger.Info("game finished",
			slog.String("winner", string(connID)),
			slog.String("loser", string(opponentID)),
			slog.Int("score", newScore))
	}

	return update, nil
}

// CheckForEndGame evaluates the finish line for a score total. It mutates
// nothing; UpdateScore breaks the pairing when a result is reported. Nil
// means the race is still on, or the player has no opponent to race.
func (c *Controller) CheckForEndGame(connID, opponentID model.ConnectionID, score int) *model.GameResult {
	if score < c.targetScore || opponentID == "" {
		return nil
	}
	return &model.GameResult{
		Winner: connID,
		Loser:  opponentID,
	}
}

// HandleDisconnect removes the session and returns the former opponent's ID
// so it can be told it won by forfeit. Empty when the player was unmatched.
// A disconnect for a connection that never logged in, or was already removed,
// is a no-op.
func (c *Controller) HandleDisconnect(connID model.ConnectionID) (model.ConnectionID, error) {
	opponentID, err := c.registry.Remove(connID)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return "", nil
		}
		return "", err
	}

	if opponentID != "" {
		c.logger.Info("game forfeited",
			slog.String("conn_id", string(connID)),
			slog.String("winner", string(opponentID)))
	}
	return opponentID, nil
}

// TargetScore returns the configured finish line
func (c *Controller) TargetScore() int {
	return c.targetScore
}
