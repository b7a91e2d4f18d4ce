package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mport/typeduel/internal/dependencies/mocks"
	"github.com/mport/typeduel/internal/storage/memory"
	"github.com/mport/typeduel/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreateGuestPlayer() {
	session, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Equal("Alice", session.Player.DisplayName)
	s.True(session.Player.IsGuest)

	stored, err := s.storage.GetPlayer(s.ctx, session.PlayerID)
	s.Require().NoError(err)
	s.Equal("Alice", stored.DisplayName)
}

func (s *ServiceSuite) TestRegisterAndLogin() {
	_, err := s.service.RegisterPlayer(s.ctx, "alice", "hunter2", "Alice")
	s.Require().NoError(err)

	session, err := s.service.Login(s.ctx, "alice", "hunter2")
	s.Require().NoError(err)
	s.Equal("Alice", session.Player.DisplayName)
	s.False(session.Player.IsGuest)
}

func (s *ServiceSuite) TestRegisterDuplicateUsername() {
	_, err := s.service.RegisterPlayer(s.ctx, "alice", "hunter2", "Alice")
	s.Require().NoError(err)

	_, err = s.service.RegisterPlayer(s.ctx, "alice", "other", "Alice Two")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, err := s.service.RegisterPlayer(s.ctx, "alice", "hunter2", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUsername() {
	_, err := s.service.Login(s.ctx, "nonexistent", "hunter2")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestValidateSession() {
	created, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	session, err := s.service.ValidateSession(created.Token)
	s.Require().NoError(err)
	s.Equal(created.PlayerID, session.PlayerID)
}

func (s *ServiceSuite) TestValidateSessionUnknownToken() {
	_, err := s.service.ValidateSession("bogus")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestSessionExpires() {
	created, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)

	_, err = s.service.ValidateSession(created.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSession() {
	created, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	s.service.InvalidateSession(created.Token)

	_, err = s.service.ValidateSession(created.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestResolveDisplayName() {
	created, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	name, err := s.service.ResolveDisplayName(created.Token)
	s.Require().NoError(err)
	s.Equal("Alice", name)
}

func (s *ServiceSuite) TestCleanExpiredSessions() {
	first, err := s.service.CreateGuestPlayer(s.ctx, "Alice")
	s.Require().NoError(err)

	s.clock.Advance(12 * time.Hour)
	second, err := s.service.CreateGuestPlayer(s.ctx, "Bob")
	s.Require().NoError(err)

	s.clock.Advance(13 * time.Hour)
	s.service.CleanExpiredSessions()

	_, err = s.service.ValidateSession(first.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(second.Token)
	s.NoError(err)
}
