package factory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mport/typeduel/internal/model"
	"github.com/mport/typeduel/internal/ws"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) dispatch(connID model.ConnectionID, msgType string, payload any) []ws.Directive {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		s.Require().NoError(err)
		raw = b
	}
	return s.app.Dispatcher.Dispatch(connID, ws.Envelope{Type: msgType, Payload: raw})
}

// Full friend-invite race: login, pair by ID, trade score updates, win
func (s *IntegrationSuite) TestPrivateGameFlow() {
	directives := s.dispatch("conn-alice", ws.EventLogin, ws.LoginPayload{Username: "Alice"})
	s.Require().Len(directives, 1)
	s.Equal(ws.DirectiveLoggedIn, directives[0].Envelope.Type)

	s.dispatch("conn-bob", ws.EventLogin, ws.LoginPayload{Username: "Bob"})

	// Alice shares her connection ID
	directives = s.dispatch("conn-alice", ws.EventRequestJoinPrivateGame, ws.JoinPrivatePayload{})
	s.Require().Len(directives, 1)
	s.Equal(ws.DirectiveWaitForFriend, directives[0].Envelope.Type)
	var share ws.WaitForFriendPayload
	s.Require().NoError(json.Unmarshal(directives[0].Envelope.Payload, &share))

	// Bob joins with it; both are told about the match
	directives = s.dispatch("conn-bob", ws.EventRequestJoinPrivateGame,
		ws.JoinPrivatePayload{FriendID: share.ID})
	s.Require().Len(directives, 2)
	s.Equal(ws.DirectiveMatch, directives[0].Envelope.Type)
	s.Equal(ws.DirectiveMatch, directives[1].Envelope.Type)

	// Bob races ahead; Alice sees his updates mirrored
	directives = s.dispatch("conn-bob", ws.EventUpdate, ws.UpdatePayload{ScoreDelta: 6})
	s.Require().Len(directives, 1)
	s.Equal(model.ConnectionID("conn-alice"), directives[0].To)
	s.Equal(ws.DirectiveUpdate, directives[0].Envelope.Type)

	// Bob crosses the target (10 in tests); win and lose go out
	directives = s.dispatch("conn-bob", ws.EventUpdate, ws.UpdatePayload{ScoreDelta: 4})
	s.Require().Len(directives, 3)
	s.Equal(model.ConnectionID("conn-bob"), directives[1].To)
	s.Equal(ws.DirectiveWin, directives[1].Envelope.Type)
	s.Equal(model.ConnectionID("conn-alice"), directives[2].To)
	s.Equal(ws.DirectiveLose, directives[2].Envelope.Type)

	// Both are free to be rematched
	alice, err := s.app.Registry.Get("conn-alice")
	s.Require().NoError(err)
	s.False(alice.Paired())
}

// Anonymous queue: two players queue, the sweep pairs them
func (s *IntegrationSuite) TestAnonymousQueueFlow() {
	s.dispatch("conn-alice", ws.EventLogin, ws.LoginPayload{Username: "Alice"})
	s.dispatch("conn-bob", ws.EventLogin, ws.LoginPayload{Username: "Bob"})

	s.Empty(s.dispatch("conn-alice", ws.EventRequestJoinGame, nil))
	s.Empty(s.dispatch("conn-bob", ws.EventRequestJoinGame, nil))
	s.Equal(2, s.app.Registry.WaitingCount())

	matches := s.app.Matchmaking.MatchAllPlayers()
	s.Require().Len(matches, 1)
	s.Equal(model.ConnectionID("conn-alice"), matches[0].Player1)
	s.Equal(model.ConnectionID("conn-bob"), matches[0].Player2)
	s.Equal(0, s.app.Registry.WaitingCount())

	alice, err := s.app.Registry.Get("conn-alice")
	s.Require().NoError(err)
	s.Equal(model.ConnectionID("conn-bob"), alice.Opponent)
}

// Mid-game disconnect forfeits to the opponent
func (s *IntegrationSuite) TestDisconnectFlow() {
	s.dispatch("conn-alice", ws.EventLogin, ws.LoginPayload{Username: "Alice"})
	s.dispatch("conn-bob", ws.EventLogin, ws.LoginPayload{Username: "Bob"})
	s.dispatch("conn-bob", ws.EventRequestJoinPrivateGame, ws.JoinPrivatePayload{FriendID: "conn-alice"})

	directives := s.app.Dispatcher.HandleDisconnect("conn-alice")
	s.Require().Len(directives, 1)
	s.Equal(model.ConnectionID("conn-bob"), directives[0].To)
	s.Equal(ws.DirectiveWin, directives[0].Envelope.Type)

	// Bob can queue again immediately
	s.Empty(s.dispatch("conn-bob", ws.EventRequestJoinGame, nil))
	s.Equal(1, s.app.Registry.WaitingCount())
}

// HTTP session tokens work as socket logins
func (s *IntegrationSuite) TestTokenLoginFlow() {
	session, err := s.app.AuthService.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	directives := s.dispatch("conn-alice", ws.EventLogin, ws.LoginPayload{Token: session.Token})
	s.Require().Len(directives, 1)

	var payload ws.LoggedInPayload
	s.Require().NoError(json.Unmarshal(directives[0].Envelope.Payload, &payload))
	s.Equal("Alice", payload.Username)
}
