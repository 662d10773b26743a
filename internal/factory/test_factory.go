package factory

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/mcoot/gemfall/internal/dependencies/mocks"
	"github.com/mcoot/gemfall/internal/services/scoring"
	"github.com/mcoot/gemfall/internal/services/simulation"
	"github.com/mcoot/gemfall/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Batches run one game at a time since the mocks are not safe for concurrent use.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	simCfg := simulation.DefaultConfig()
	simCfg.Concurrency = 1

	app := newWithDependencies(store, mockClock, mockRandom, scoring.NewDefault(), simCfg, zerolog.Nop())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
