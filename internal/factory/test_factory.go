package factory

import (
	"time"

	"github.com/mport/typeduel/internal/dependencies/mocks"
	"github.com/mport/typeduel/internal/services/auth"
	"github.com/mport/typeduel/internal/services/game"
	"github.com/mport/typeduel/internal/storage/memory"
	"github.com/mport/typeduel/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The game controller uses a low target score so end-of-game paths are easy
// to drive.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(
		store,
		mockClock,
		mockRandom,
		auth.DefaultConfig(),
		game.Config{TargetScore: 10},
		time.Second,
		testutil.NopLogger(),
	)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
