package ws

import (
	"encoding/json"

	"github.com/mport/typeduel/internal/model"
)

// Envelope is the wire format for every realtime message in both directions.
// Type routes the message; Payload stays raw JSON until the handler for that
// type decodes it.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound event types
const (
	EventLogin                  = "login"
	EventRequestJoinPrivateGame = "requestJoinPrivateGame"
	EventRequestJoinGame        = "requestJoinGame"
	EventUpdate                 = "update"
)

// Outbound directive types
const (
	DirectiveLoggedIn      = "loggedIn"
	DirectiveMatch         = "match"
	DirectiveWaitForFriend = "waitForFriend"
	DirectiveJoinDenied    = "joinPrivateGameDenied"
	DirectiveUpdate        = "update"
	DirectiveWin           = "win"
	DirectiveLose          = "lose"
)

// LoginPayload carries either a display name directly or a session token
// issued by the HTTP API, which is resolved to the account's display name
type LoginPayload struct {
	Username string `json:"username,omitempty"`
	Token    string `json:"token,omitempty"`
}

// JoinPrivatePayload optionally names a friend's connection ID to pair with
type JoinPrivatePayload struct {
	FriendID string `json:"friendId,omitempty"`
}

// UpdatePayload is the decoded portion of a score update. The full raw
// payload is mirrored to the opponent untouched.
type UpdatePayload struct {
	ScoreDelta int `json:"scoreDelta"`
}

// LoggedInPayload acknowledges a login with the connection ID and the
// resolved display name
type LoggedInPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// MatchPayload announces a pairing, carrying the opponent's display name
type MatchPayload struct {
	OpponentName string `json:"opponentName"`
}

// WaitForFriendPayload carries the requester's own connection ID, to be
// relayed out-of-band to a friend
type WaitForFriendPayload struct {
	ID string `json:"id"`
}

// DeniedPayload explains a rejected join request
type DeniedPayload struct {
	Message string `json:"message"`
}

// Directive is one outbound message addressed to one connection
type Directive struct {
	To       model.ConnectionID
	Envelope Envelope
}

func mustEnvelope(msgType string, payload any) Envelope {
	if payload == nil {
		return Envelope{Type: msgType}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		// Payload structs above contain only strings and ints
		panic(err)
	}
	return Envelope{Type: msgType, Payload: raw}
}
