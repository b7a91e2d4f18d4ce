package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mport/typeduel/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		IsGuest:     false,
		CreatedAt:   time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	err := s.storage.DeletePlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Registered player tests

func (s *StorageSuite) TestSaveAndGetRegisteredPlayer() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Now(),
	}

	err := s.storage.SaveRegisteredPlayer(s.ctx, rp)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRegisteredPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(rp.Username, retrieved.Username)
}

func (s *StorageSuite) TestGetRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash123",
	}
	_ = s.storage.SaveRegisteredPlayer(s.ctx, rp)

	retrieved, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("player-1", string(retrieved.PlayerID))
}

func (s *StorageSuite) TestGetRegisteredPlayerByUsernameNotFound() {
	_, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Passage tests

func (s *StorageSuite) TestSaveAndGetPassage() {
	passage := &model.Passage{
		ID:     "passage-1",
		Text:   "The quick brown fox jumps over the lazy dog.",
		Source: "pangram",
	}

	err := s.storage.SavePassage(s.ctx, passage)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPassage(s.ctx, "passage-1")
	s.Require().NoError(err)
	s.Equal(passage.Text, retrieved.Text)
	s.Equal(passage.Source, retrieved.Source)
}

func (s *StorageSuite) TestGetPassageNotFound() {
	_, err := s.storage.GetPassage(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPassageNotFound)
}

func (s *StorageSuite) TestListPassagesIsStable() {
	_ = s.storage.SavePassage(s.ctx, &model.Passage{ID: "passage-2", Text: "two"})
	_ = s.storage.SavePassage(s.ctx, &model.Passage{ID: "passage-1", Text: "one"})
	_ = s.storage.SavePassage(s.ctx, &model.Passage{ID: "passage-3", Text: "three"})

	passages, err := s.storage.ListPassages(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(passages, 3)
	s.Equal(model.PassageID("passage-1"), passages[0].ID)
	s.Equal(model.PassageID("passage-2"), passages[1].ID)
	s.Equal(model.PassageID("passage-3"), passages[2].ID)
}

func (s *StorageSuite) TestListPassagesEmpty() {
	passages, err := s.storage.ListPassages(s.ctx)
	s.Require().NoError(err)
	s.Empty(passages)
}
