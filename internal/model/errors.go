package model

import "errors"

// Common errors used across the application
var (
	// Session registry errors
	ErrSessionNotFound = errors.New("session not found")

	// Matchmaking errors
	ErrAlreadyInGame       = errors.New("player is already in a game")
	ErrInvalidOrBusyTarget = errors.New("friend id is unknown or friend is already in a game")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Passage errors
	ErrPassageNotFound = errors.New("passage not found")
	ErrNoPassages      = errors.New("no passages loaded")
)
