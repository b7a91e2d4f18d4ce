package ws

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mport/typeduel/internal/model"
	"github.com/mport/typeduel/internal/registry"
	"github.com/mport/typeduel/internal/services/game"
	"github.com/mport/typeduel/internal/services/matchmaking"
)

// Denial messages surfaced to the requester on a failed private join
const (
	deniedBadTarget     = "Wrong friend id or friend is in game"
	deniedAlreadyInGame = "You are still in a game"
)

// DisplayNameResolver maps an HTTP session token to a display name, so a
// socket login can reuse an account session instead of sending a name
type DisplayNameResolver interface {
	ResolveDisplayName(token string) (string, error)
}

// Dispatcher translates inbound envelopes into service calls and service
// results into outbound directives. It holds no connection state of its own;
// the hub owns connections and the registry owns sessions.
//
// Events from connections the registry does not know are absorbed silently.
// They are almost always a race against a disconnect, not a fault.
type Dispatcher struct {
	registry    *registry.Registry
	matchmaking *matchmaking.Controller
	game        *game.Controller
	auth        DisplayNameResolver
	logger      *slog.Logger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(
	reg *registry.Registry,
	mm *matchmaking.Controller,
	gc *game.Controller,
	auth DisplayNameResolver,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		registry:    reg,
		matchmaking: mm,
		game:        gc,
		auth:        auth,
		logger:      logger.With(slog.String("component", "dispatcher")),
	}
}

// Dispatch routes one inbound envelope and returns the directives to send
func (d *Dispatcher) Dispatch(connID model.ConnectionID, env Envelope) []Directive {
	switch env.Type {
	case EventLogin:
		return d.handleLogin(connID, env.Payload)
	case EventRequestJoinPrivateGame:
		return d.handleJoinPrivate(connID, env.Payload)
	case EventRequestJoinGame:
		return d.handleJoinGame(connID)
	case EventUpdate:
		return d.handleUpdate(connID, env.Payload)
	default:
		d.logger.Warn("unknown event type",
			slog.String("conn_id", string(connID)),
			slog.String("type", env.Type))
		return nil
	}
}

// HandleDisconnect reconciles a dropped connection. If the player was
// mid-game the opponent is told it won.
func (d *Dispatcher) HandleDisconnect(connID model.ConnectionID) []Directive {
	opponentID, err := d.game.HandleDisconnect(connID)
	if err != nil {
		d.logger.Error("disconnect handling failed",
			slog.String("conn_id", string(connID)),
			slog.String("error", err.Error()))
		return nil
	}
	if opponentID == "" {
		return nil
	}
	return []Directive{{To: opponentID, Envelope: mustEnvelope(DirectiveWin, nil)}}
}

// MatchDirectives builds the announcement pair for a formed match, telling
// each player the other's display name. Used for both the friend-invite path
// and the periodic sweep.
func MatchDirectives(match model.Match) []Directive {
	return []Directive{
		{To: match.Player1, Envelope: mustEnvelope(DirectiveMatch, MatchPayload{OpponentName: match.Username2})},
		{To: match.Player2, Envelope: mustEnvelope(DirectiveMatch, MatchPayload{OpponentName: match.Username1})},
	}
}

func (d *Dispatcher) handleLogin(connID model.ConnectionID, raw json.RawMessage) []Directive {
	var payload LoginPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		d.logger.Warn("malformed login payload", slog.String("conn_id", string(connID)))
		return nil
	}

	username := payload.Username
	if payload.Token != "" {
		resolved, err := d.auth.ResolveDisplayName(payload.Token)
		if err != nil {
			d.logger.Warn("login with invalid token", slog.String("conn_id", string(connID)))
			return nil
		}
		username = resolved
	}
	if username == "" {
		d.logger.Warn("login without username or token", slog.String("conn_id", string(connID)))
		return nil
	}

	d.registry.Register(connID, username)
	return []Directive{{To: connID, Envelope: mustEnvelope(DirectiveLoggedIn, LoggedInPayload{ID: string(connID), Username: username})}}
}

func (d *Dispatcher) handleJoinPrivate(connID model.ConnectionID, raw json.RawMessage) []Directive {
	var payload JoinPrivatePayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			d.logger.Warn("malformed join payload", slog.String("conn_id", string(connID)))
			return nil
		}
	}

	result, err := d.matchmaking.RequestPrivateGame(connID, model.ConnectionID(payload.FriendID))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrSessionNotFound):
			return nil
		case errors.Is(err, model.ErrAlreadyInGame):
			return d.deny(connID, deniedAlreadyInGame)
		case errors.Is(err, model.ErrInvalidOrBusyTarget):
			return d.deny(connID, deniedBadTarget)
		default:
			d.logger.Error("private join failed",
				slog.String("conn_id", string(connID)),
				slog.String("error", err.Error()))
			return nil
		}
	}

	if result.Match != nil {
		return MatchDirectives(*result.Match)
	}
	return []Directive{{
		To:       connID,
		Envelope: mustEnvelope(DirectiveWaitForFriend, WaitForFriendPayload{ID: string(result.ShareID)}),
	}}
}

func (d *Dispatcher) handleJoinGame(connID model.ConnectionID) []Directive {
	if err := d.matchmaking.RequestGame(connID); err != nil {
		switch {
		case errors.Is(err, model.ErrSessionNotFound):
			return nil
		case errors.Is(err, model.ErrAlreadyInGame):
			return d.deny(connID, deniedAlreadyInGame)
		default:
			d.logger.Error("join game failed",
				slog.String("conn_id", string(connID)),
				slog.String("error", err.Error()))
			return nil
		}
	}
	// Queued players are paired by the next sweep, not immediately
	return nil
}

func (d *Dispatcher) handleUpdate(connID model.ConnectionID, raw json.RawMessage) []Directive {
	var payload UpdatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		d.logger.Warn("malformed update payload", slog.String("conn_id", string(connID)))
		return nil
	}

	update, err := d.game.UpdateScore(connID, payload.ScoreDelta)
	if err != nil {
		// Stale update from a connection already removed
		return nil
	}

	var directives []Directive
	if update.Opponent != "" {
		// The raw payload is mirrored untouched so clients can carry
		// whatever progress detail they like alongside the delta
		directives = append(directives, Directive{
			To:       update.Opponent,
			Envelope: Envelope{Type: DirectiveUpdate, Payload: raw},
		})
	}
	if update.Result != nil {
		directives = append(directives,
			Directive{To: update.Result.Winner, Envelope: mustEnvelope(DirectiveWin, nil)},
			Directive{To: update.Result.Loser, Envelope: mustEnvelope(DirectiveLose, nil)},
		)
	}
	return directives
}

func (d *Dispatcher) deny(connID model.ConnectionID, message string) []Directive {
	return []Directive{{
		To:       connID,
		Envelope: mustEnvelope(DirectiveJoinDenied, DeniedPayload{Message: message}),
	}}
}
