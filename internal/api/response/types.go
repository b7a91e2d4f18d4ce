package response

import (
	"github.com/mport/typeduel/internal/model"
	"github.com/mport/typeduel/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// Passage is a typing passage in API responses
type Passage struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// PassageFromModel converts a model.Passage to a response Passage
func PassageFromModel(p *model.Passage) Passage {
	return Passage{
		ID:     string(p.ID),
		Text:   p.Text,
		Source: p.Source,
	}
}

// ServerStats reports live realtime state for operators
type ServerStats struct {
	Sessions int `json:"sessions"`
	Waiting  int `json:"waiting"`
}
