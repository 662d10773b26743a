package factory

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/mcoot/gemfall/internal/dependencies/clock"
	"github.com/mcoot/gemfall/internal/dependencies/random"
	"github.com/mcoot/gemfall/internal/services/profile"
	"github.com/mcoot/gemfall/internal/services/scoring"
	"github.com/mcoot/gemfall/internal/services/simulation"
	"github.com/mcoot/gemfall/internal/storage"
	badgerstorage "github.com/mcoot/gemfall/internal/storage/badger"
	"github.com/mcoot/gemfall/internal/storage/memory"
	redisstorage "github.com/mcoot/gemfall/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeBadger = "badger"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Scorer            *scoring.ChainScorer
	ProfileService    *profile.Service
	SimulationService *simulation.Service

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *zerolog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "badger")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// BadgerConfig holds database settings (required if StorageType is "badger")
	BadgerConfig *badgerstorage.Config
	// Weights tunes the position scorer; zero value uses scoring.DefaultWeights()
	Weights scoring.Weights
	// Simulation configures headless games; zero fields use defaults
	Simulation simulation.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	store, closer, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	weights := cfg.Weights
	if weights == (scoring.Weights{}) {
		weights = scoring.DefaultWeights()
	}

	app := newWithDependencies(store, clock.New(), random.New(), scoring.New(weights), cfg.Simulation, logger)
	app.closer = closer

	logger.Debug().Str("storage", storageType(cfg)).Msg("application wired")
	return app, nil
}

func storageType(cfg Config) string {
	if cfg.StorageType == "" {
		return StorageTypeMemory
	}
	return cfg.StorageType
}

func newStorage(cfg Config) (storage.Storage, io.Closer, error) {
	switch storageType(cfg) {
	case StorageTypeMemory:
		return memory.New(), nil, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case StorageTypeBadger:
		if cfg.BadgerConfig == nil {
			return nil, nil, errors.New("BadgerConfig required when StorageType is badger")
		}
		store, err := badgerstorage.New(*cfg.BadgerConfig)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'badger'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	scorer *scoring.ChainScorer,
	simCfg simulation.Config,
	logger zerolog.Logger,
) *App {
	profileService := profile.New(store, logger)
	simulationService := simulation.New(store, profileService, scorer, clk, rnd, simCfg, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		Scorer:            scorer,
		ProfileService:    profileService,
		SimulationService: simulationService,
	}
}

// Close releases the storage backend, if it holds resources
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
