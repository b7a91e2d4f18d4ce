package matchmaking

import (
	"log/slog"

	"github.com/mport/typeduel/internal/model"
	"github.com/mport/typeduel/internal/registry"
)

// Controller pairs unmatched sessions into games. Two paths exist: an
// explicit friend invite, and the anonymous queue drained by the periodic
// sweep. Both delegate the actual pairing to the registry so the symmetric
// opponent invariant is enforced in exactly one place.
type Controller struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// NewController creates a new matchmaking controller
func NewController(reg *registry.Registry, logger *slog.Logger) *Controller {
	return &Controller{
		registry: reg,
		logger:   logger.With(slog.String("component", "matchmaking")),
	}
}

// PrivateJoinResult is the outcome of a friend-invite request. Exactly one
// of the fields is set: Match when a pairing was formed, ShareID when the
// requester should relay their own connection ID to a friend.
type PrivateJoinResult struct {
	Match   *model.Match
	ShareID model.ConnectionID
}

// RequestPrivateGame handles the friend-invite path.
//
// With a friend ID it pairs requester and target, failing with
// ErrAlreadyInGame if the requester is paired and ErrInvalidOrBusyTarget if
// the target is unknown or paired. Without one it marks the requester as
// waiting and returns their own connection ID to share out-of-band.
func (c *Controller) RequestPrivateGame(connID model.ConnectionID, friendID model.ConnectionID) (*PrivateJoinResult, error) {
	requester, err := c.registry.Get(connID)
	if err != nil {
		return nil, err
	}
	if requester.Paired() {
		return nil, model.ErrAlreadyInGame
	}

	if friendID == "" {
		if err := c.registry.MarkWaitingForFriend(connID); err != nil {
			return nil, err
		}
		c.logger.Info("waiting for friend", slog.String("conn_id", string(connID)))
		return &PrivateJoinResult{ShareID: connID}, nil
	}

	friend, err := c.registry.Get(friendID)
	if err != nil {
		return nil, model.ErrInvalidOrBusyTarget
	}

	if err := c.registry.Pair(connID, friendID); err != nil {
		return nil, err
	}

	c.logger.Info("private match formed",
		slog.String("conn_id", string(connID)),
		slog.String("friend_id", string(friendID)))
	return &PrivateJoinResult{Match: &model.Match{
		Player1:   connID,
		Player2:   friendID,
		Username1: requester.Username,
		Username2: friend.Username,
	}}, nil
}

// RequestGame handles the anonymous queue path. Joining while already queued
// is a no-op; joining while paired fails with ErrAlreadyInGame.
func (c *Controller) RequestGame(connID model.ConnectionID) error {
	return c.registry.Enqueue(connID)
}

// MatchAllPlayers drains the anonymous queue, pairing players two at a time
// in FIFO order. Invoked by the sweeper; safe to call with an empty or
// singleton queue.
func (c *Controller) MatchAllPlayers() []model.Match {
	matches := c.registry.MatchWaiting()
	if len(matches) > 0 {
		c.logger.Info("sweep matched players",
			slog.Int("matches", len(matches)),
			slog.Int("still_waiting", c.registry.WaitingCount()))
	}
	return matches
}
