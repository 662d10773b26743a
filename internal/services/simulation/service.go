package simulation

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/gemfall/internal/dependencies/clock"
	"github.com/mcoot/gemfall/internal/dependencies/random"
	"github.com/mcoot/gemfall/internal/model"
	"github.com/mcoot/gemfall/internal/services/ai"
	"github.com/mcoot/gemfall/internal/services/playfield"
	"github.com/mcoot/gemfall/internal/services/profile"
	"github.com/mcoot/gemfall/internal/services/scoring"
	"github.com/mcoot/gemfall/internal/storage"
)

const (
	idAlphabet   = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength     = 10
	seedLength   = 12
	maxPieces    = 10_000
	maxDimension = 64

	// maxEvaluations caps the placements one game may score
	maxEvaluations = 50_000_000
)

// frameEpoch is the frame clock origin of every simulated game
var frameEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Config holds configuration for the simulation service
type Config struct {
	// Frame is the simulated host frame length
	Frame time.Duration
	// MaxTicks stops a game that never finishes
	MaxTicks int
	// Concurrency limits the games a batch plays at once
	Concurrency int
	// Field is the base playfield; width and height come from each request
	Field playfield.Config
}

// DefaultConfig returns default simulation configuration
func DefaultConfig() Config {
	return Config{
		Frame:       16 * time.Millisecond,
		MaxTicks:    2_000_000,
		Concurrency: runtime.NumCPU(),
		Field:       playfield.DefaultConfig(),
	}
}

// Service plays headless seeded games and records their results
type Service struct {
	storage  storage.Storage
	profiles *profile.Service
	scorer   *scoring.ChainScorer
	clock    clock.Clock
	random   random.Random
	cfg      Config
	logger   zerolog.Logger
}

// New creates a new simulation Service. clk and rnd only stamp results and
// generate IDs; games run on their own frame clock and seeded generator.
func New(
	storage storage.Storage,
	profiles *profile.Service,
	scorer *scoring.ChainScorer,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger zerolog.Logger,
) *Service {
	defaults := DefaultConfig()
	if cfg.Frame <= 0 {
		cfg.Frame = defaults.Frame
	}
	if cfg.MaxTicks <= 0 {
		cfg.MaxTicks = defaults.MaxTicks
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaults.Concurrency
	}
	if cfg.Field == (playfield.Config{}) {
		cfg.Field = defaults.Field
	}
	return &Service{
		storage:  storage,
		profiles: profiles,
		scorer:   scorer,
		clock:    clk,
		random:   rnd,
		cfg:      cfg,
		logger:   logger.With().Str("component", "simulation-service").Logger(),
	}
}

// job is a fully resolved request ready to play
type job struct {
	id      model.SimulationID
	req     model.SimulationRequest
	profile model.Profile
}

// Run plays one game and saves its result
func (s *Service) Run(ctx context.Context, req model.SimulationRequest) (*model.SimulationResult, error) {
	j, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, j)
}

// RunBatch plays every request concurrently, at most Config.Concurrency at a
// time. Results are returned in request order. The first failure cancels the
// remaining games.
func (s *Service) RunBatch(ctx context.Context, reqs []model.SimulationRequest) ([]*model.SimulationResult, error) {
	jobs := make([]job, len(reqs))
	for i, req := range reqs {
		j, err := s.prepare(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		jobs[i] = j
	}

	results := make([]*model.SimulationResult, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			res, err := s.execute(ctx, j)
			if err != nil {
				return fmt.Errorf("simulation %s: %w", j.id, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Get returns a recorded result
func (s *Service) Get(ctx context.Context, id model.SimulationID) (*model.SimulationResult, error) {
	return s.storage.GetSimulation(ctx, id)
}

// List returns recorded results, newest first
func (s *Service) List(ctx context.Context) ([]*model.SimulationResult, error) {
	return s.storage.ListSimulations(ctx)
}

// prepare validates req and assigns its ID and seed. It uses the shared
// random source so it must not run concurrently.
func (s *Service) prepare(ctx context.Context, req model.SimulationRequest) (job, error) {
	req = req.WithDefaults()
	if req.Pieces > maxPieces {
		return job{}, fmt.Errorf("%w: at most %d pieces", model.ErrInvalidSimulation, maxPieces)
	}
	if req.Width < 2 || req.Width > maxDimension {
		return job{}, fmt.Errorf("%w: width must be between 2 and %d", model.ErrInvalidSimulation, maxDimension)
	}
	if req.Height < 2 || req.Height > maxDimension {
		return job{}, fmt.Errorf("%w: height must be between 2 and %d", model.ErrInvalidSimulation, maxDimension)
	}

	p, err := s.profiles.Get(ctx, req.Profile)
	if err != nil {
		return job{}, err
	}
	if cost := searchCost(req.Width, p.Depth, req.Pieces); cost > maxEvaluations {
		return job{}, fmt.Errorf("%w: %d pieces at width %d and depth %d need up to %d evaluations, limit is %d",
			model.ErrInvalidSimulation, req.Pieces, req.Width, p.Depth, cost, maxEvaluations)
	}

	if req.Seed == "" {
		req.Seed = s.random.String(seedLength, idAlphabet)
	}
	return job{
		id:      model.SimulationID("sim-" + s.random.String(idLength, idAlphabet)),
		req:     req,
		profile: *p,
	}, nil
}

// searchCost is the most placements a game can score: each piece searches
// at most (4W-2)^depth combinations.
func searchCost(width, depth, pieces int) int64 {
	perPly := int64(4*width - 2)
	cost := int64(pieces)
	for range depth {
		cost *= perPly
	}
	return cost
}

func (s *Service) execute(ctx context.Context, j job) (*model.SimulationResult, error) {
	started := s.clock.Now()
	logger := s.logger.With().Str("simulation", string(j.id)).Logger()

	outcome, err := s.play(ctx, j, newGameSources(j.req.Seed), logger)
	if err != nil {
		return nil, err
	}

	result := &model.SimulationResult{
		ID:           j.id,
		Profile:      j.profile.Name,
		Seed:         j.req.Seed,
		Width:        j.req.Width,
		Height:       j.req.Height,
		Pieces:       outcome.field.Locked,
		Score:        outcome.field.Score,
		MaxChain:     outcome.field.MaxChain,
		TilesCleared: outcome.field.TilesCleared,
		Actions:      outcome.engine.Actions,
		Evaluations:  outcome.engine.Evaluations,
		Ticks:        outcome.ticks,
		ToppedOut:    outcome.toppedOut,
		StartedAt:    started,
		Elapsed:      s.clock.Now().Sub(started),
	}
	if err := s.storage.SaveSimulation(ctx, result); err != nil {
		return nil, fmt.Errorf("save simulation: %w", err)
	}

	logger.Info().
		Str("profile", result.Profile).
		Int("pieces", result.Pieces).
		Int("score", result.Score).
		Int("max_chain", result.MaxChain).
		Bool("topped_out", result.ToppedOut).
		Dur("elapsed", result.Elapsed).
		Msg("simulation complete")
	return result, nil
}

type outcome struct {
	field     playfield.Stats
	engine    ai.Stats
	ticks     int
	toppedOut bool
}

// gameSources are the per-game generators derived from one seed. The field
// deals from deal and the engine paces from pace, so jitter never changes the
// pieces a seed produces.
type gameSources struct {
	deal random.Random
	pace random.Random
}

func newGameSources(seed string) gameSources {
	return gameSources{
		deal: random.NewSeededStream(seed, "deal"),
		pace: random.NewSeededStream(seed, "pace"),
	}
}

// play runs the frame loop. Everything it touches is owned by this call.
func (s *Service) play(ctx context.Context, j job, src gameSources, logger zerolog.Logger) (outcome, error) {
	frames := clock.NewFrameClock(frameEpoch)

	fieldCfg := s.cfg.Field
	fieldCfg.Width = j.req.Width
	fieldCfg.Height = j.req.Height
	field, err := playfield.NewField(fieldCfg, src.deal, logger)
	if err != nil {
		return outcome{}, fmt.Errorf("%w: %w", model.ErrInvalidSimulation, err)
	}

	engine, err := ai.NewEngine(ai.ConfigFromProfile(j.profile), field, s.scorer, s.scorer, frames, src.pace, logger)
	if err != nil {
		return outcome{}, fmt.Errorf("%w: %w", model.ErrInvalidSimulation, err)
	}

	ticks := 0
	for ; ticks < s.cfg.MaxTicks && !field.Over() && field.Stats().Locked < j.req.Pieces; ticks++ {
		if ticks%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return outcome{}, err
			}
		}
		engine.Advance(s.cfg.Frame)
		field.Tick(s.cfg.Frame)
		frames.Advance(s.cfg.Frame)
	}
	if ticks >= s.cfg.MaxTicks {
		logger.Warn().Int("ticks", ticks).Msg("simulation hit tick limit")
	}

	return outcome{
		field:     field.Stats(),
		engine:    engine.Stats(),
		ticks:     ticks,
		toppedOut: field.Over(),
	}, nil
}
