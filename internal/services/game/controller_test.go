package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mport/typeduel/internal/dependencies/mocks"
	"github.com/mport/typeduel/internal/model"
	"github.com/mport/typeduel/internal/registry"
	"github.com/mport/typeduel/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	registry   *registry.Registry
	controller *Controller
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.registry = registry.New(clk, testutil.NopLogger())
	s.controller = NewController(s.registry, Config{TargetScore: 10}, testutil.NopLogger())
}

func (s *ControllerSuite) pairAliceAndBob() {
	s.registry.Register("conn-alice", "Alice")
	s.registry.Register("conn-bob", "Bob")
	s.Require().NoError(s.registry.Pair("conn-alice", "conn-bob"))
}

func (s *ControllerSuite) TestUpdateScoreMirrorsToOpponent() {
	s.pairAliceAndBob()

	update, err := s.controller.UpdateScore("conn-alice", 3)
	s.Require().NoError(err)
	s.Equal(3, update.NewScore)
	s.Equal(model.ConnectionID("conn-bob"), update.Opponent)
	s.Nil(update.Result)
}

func (s *ControllerSuite) TestUpdateScoreAccumulates() {
	s.pairAliceAndBob()

	_, err := s.controller.UpdateScore("conn-alice", 3)
	s.Require().NoError(err)
	update, err := s.controller.UpdateScore("conn-alice", 4)
	s.Require().NoError(err)
	s.Equal(7, update.NewScore)
	s.Nil(update.Result)
}

func (s *ControllerSuite) TestUpdateScoreWithoutOpponent() {
	s.registry.Register("conn-alice", "Alice")

	update, err := s.controller.UpdateScore("conn-alice", 5)
	s.Require().NoError(err)
	s.Equal(5, update.NewScore)
	s.Empty(update.Opponent)
}

func (s *ControllerSuite) TestUpdateScoreUnknownSession() {
	_, err := s.controller.UpdateScore("conn-ghost", 5)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestReachingTargetEndsGame() {
	s.pairAliceAndBob()

	update, err := s.controller.UpdateScore("conn-alice", 10)
	s.Require().NoError(err)
	s.Require().NotNil(update.Result)
	s.Equal(model.ConnectionID("conn-alice"), update.Result.Winner)
	s.Equal(model.ConnectionID("conn-bob"), update.Result.Loser)

	// Both sessions survive the game ending, unpaired
	alice, err := s.registry.Get("conn-alice")
	s.Require().NoError(err)
	s.False(alice.Paired())
	bob, err := s.registry.Get("conn-bob")
	s.Require().NoError(err)
	s.False(bob.Paired())
}

func (s *ControllerSuite) TestOvershootingTargetEndsGame() {
	s.pairAliceAndBob()

	_, err := s.controller.UpdateScore("conn-alice", 8)
	s.Require().NoError(err)
	update, err := s.controller.UpdateScore("conn-alice", 5)
	s.Require().NoError(err)
	s.Equal(13, update.NewScore)
	s.Require().NotNil(update.Result)
	s.Equal(model.ConnectionID("conn-alice"), update.Result.Winner)
}

func (s *ControllerSuite) TestRematchStartsFromZero() {
	s.pairAliceAndBob()
	s.registry.Register("conn-carol", "Carol")

	update, err := s.controller.UpdateScore("conn-alice", 10)
	s.Require().NoError(err)
	s.Require().NotNil(update.Result)

	// The winner's next game must not inherit the winning total
	s.Require().NoError(s.registry.Pair("conn-alice", "conn-carol"))

	update, err = s.controller.UpdateScore("conn-alice", 1)
	s.Require().NoError(err)
	s.Equal(1, update.NewScore)
	s.Nil(update.Result)

	update, err = s.controller.UpdateScore("conn-carol", 1)
	s.Require().NoError(err)
	s.Equal(1, update.NewScore)
	s.Nil(update.Result)
}

func (s *ControllerSuite) TestCheckForEndGameIsPure() {
	s.pairAliceAndBob()

	s.Nil(s.controller.CheckForEndGame("conn-alice", "conn-bob", 9))
	s.Nil(s.controller.CheckForEndGame("conn-alice", "", 10))

	result := s.controller.CheckForEndGame("conn-alice", "conn-bob", 10)
	s.Require().NotNil(result)
	s.Equal(model.ConnectionID("conn-alice"), result.Winner)
	s.Equal(model.ConnectionID("conn-bob"), result.Loser)

	// Evaluation alone changes nothing
	alice, err := s.registry.Get("conn-alice")
	s.Require().NoError(err)
	s.True(alice.Paired())
	s.Equal(0, alice.Score)
}

func (s *ControllerSuite) TestDisconnectForfeitsToOpponent() {
	s.pairAliceAndBob()

	opponent, err := s.controller.HandleDisconnect("conn-alice")
	s.Require().NoError(err)
	s.Equal(model.ConnectionID("conn-bob"), opponent)

	_, err = s.registry.Get("conn-alice")
	s.ErrorIs(err, model.ErrSessionNotFound)
	bob, err := s.registry.Get("conn-bob")
	s.Require().NoError(err)
	s.False(bob.Paired())
}

func (s *ControllerSuite) TestDisconnectWithoutOpponent() {
	s.registry.Register("conn-alice", "Alice")

	opponent, err := s.controller.HandleDisconnect("conn-alice")
	s.Require().NoError(err)
	s.Empty(opponent)
}

func (s *ControllerSuite) TestDoubleDisconnectIsNoOp() {
	s.pairAliceAndBob()

	_, err := s.controller.HandleDisconnect("conn-alice")
	s.Require().NoError(err)

	opponent, err := s.controller.HandleDisconnect("conn-alice")
	s.Require().NoError(err)
	s.Empty(opponent)
}

func (s *ControllerSuite) TestDefaultTargetScore() {
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	reg := registry.New(clk, testutil.NopLogger())
	ctrl := NewController(reg, Config{}, testutil.NopLogger())
	s.Equal(DefaultTargetScore, ctrl.TargetScore())
}
