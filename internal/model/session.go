package model

import "time"

// ConnectionID uniquely identifies a live realtime connection.
// It is the primary key of the session registry and is only valid for the
// lifetime of that connection.
type ConnectionID string

// SessionState tracks where a session is in its lifecycle
type SessionState string

const (
	// SessionStateLoggedIn is the initial state after a successful login
	SessionStateLoggedIn SessionState = "logged_in"
	// SessionStateWaiting means the session is in the matchmaking queue
	// or waiting for a friend to join
	SessionStateWaiting SessionState = "waiting"
	// SessionStateInGame means the session is paired with an opponent
	SessionStateInGame SessionState = "in_game"
)

// PlayerSession is the server-side record of one connected, authenticated
// player. Sessions live only as long as their connection; they are never
// persisted.
type PlayerSession struct {
	ConnID   ConnectionID
	Username string

	// Opponent is the connection ID of the paired opponent, or empty while
	// unmatched. The relation is symmetric: if A's Opponent is B then B's
	// Opponent is A. Only the registry's pair/unpair operations may write it.
	Opponent ConnectionID

	// Waiting marks membership in the anonymous matchmaking queue.
	// Mutually exclusive with a non-empty Opponent.
	Waiting bool

	Score int
	State SessionState

	ConnectedAt time.Time
}

// Paired reports whether the session currently has an opponent
func (s *PlayerSession) Paired() bool {
	return s.Opponent != ""
}

// Match is a newly formed pairing of two sessions, with usernames resolved
// so the transport can announce each side to the other
type Match struct {
	Player1   ConnectionID
	Player2   ConnectionID
	Username1 string
	Username2 string
}

// GameResult is the outcome of a finished game, by connection ID
type GameResult struct {
	Winner ConnectionID
	Loser  ConnectionID
}
