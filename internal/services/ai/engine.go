package ai

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mcoot/gemfall/internal/dependencies/clock"
	"github.com/mcoot/gemfall/internal/dependencies/random"
	"github.com/mcoot/gemfall/internal/model"
	"github.com/mcoot/gemfall/internal/services/search"
	"github.com/mcoot/gemfall/internal/services/steering"
)

// Grid is the playfield an engine plays on
type Grid interface {
	steering.Controls

	// HasNewPieceAvailable reports a newly controllable piece once
	HasNewPieceAvailable() bool
	CurrentPiece() model.Piece
	NextPiece() (model.Piece, bool)
	FollowingPiece() (model.Piece, bool)
	Snapshot() model.Snapshot
}

// Config configures one engine
type Config struct {
	Side        model.Side
	AverageWait time.Duration
	Jitter      time.Duration
	Depth       int
}

// ConfigFromProfile converts a stored profile into engine configuration
func ConfigFromProfile(p model.Profile) Config {
	return Config{
		Side:        p.Side,
		AverageWait: p.AverageWait(),
		Jitter:      p.Jitter(),
		Depth:       p.Depth,
	}
}

// Validate checks the configuration preconditions
func (c Config) Validate() error {
	if c.Depth < model.MinDepth || c.Depth > model.MaxDepth {
		return model.ErrInvalidDepth
	}
	if c.AverageWait < 0 {
		return model.ErrNegativeWait
	}
	if c.Jitter < 0 {
		return model.ErrNegativeJitter
	}
	return nil
}

// Stats summarizes what an engine has done since it was created
type Stats struct {
	PiecesSeen        int           `json:"pieces_seen"`
	SearchesCompleted int           `json:"searches_completed"`
	Evaluations       int           `json:"evaluations"`
	Actions           int           `json:"actions"`
	Thinking          time.Duration `json:"thinking"`
}

// Engine is the computer opponent for one side. It is driven by Advance once
// per host frame and never blocks.
type Engine struct {
	cfg       Config
	grid      Grid
	search    *search.Search
	scheduler *steering.Scheduler
	logger    zerolog.Logger

	stats Stats
}

// NewEngine creates an engine playing grid
func NewEngine(
	cfg Config,
	grid Grid,
	scorer search.Scorer,
	policy steering.DropPolicy,
	clk clock.Clock,
	rnd random.Random,
	logger zerolog.Logger,
) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if w := grid.Snapshot().Width(); w < 2 {
		return nil, fmt.Errorf("%w: got %d", model.ErrInvalidWidth, w)
	}

	logger = logger.With().Str("side", string(cfg.Side)).Logger()

	s, err := search.New(cfg.Depth, scorer, logger)
	if err != nil {
		return nil, err
	}
	pacer, err := steering.NewPacer(clk, rnd, cfg.AverageWait, cfg.Jitter)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:       cfg,
		grid:      grid,
		search:    s,
		scheduler: steering.New(grid, pacer, policy, logger),
		logger:    logger.With().Str("component", "ai-engine").Logger(),
	}, nil
}

// Advance performs one bounded unit of work and returns the steering action
// issued this frame, if any. elapsed is the frame time and is only used for
// statistics; pacing reads the injected clock.
func (e *Engine) Advance(elapsed time.Duration) steering.Action {
	if e.grid.HasNewPieceAvailable() {
		e.begin()
		return steering.ActionNone
	}

	switch e.search.Phase() {
	case model.PhaseWaitingForPiece:
		return steering.ActionNone

	case model.PhaseFinalMoveReady:
		action := e.scheduler.Tick()
		if action != steering.ActionNone {
			e.stats.Actions++
		}
		if action.IsDrop() {
			e.search.Reset()
		}
		return action

	default:
		e.stats.Thinking += elapsed
		phase := e.search.Step()
		e.stats.Evaluations += e.search.StepEvaluations()
		if phase == model.PhaseFinalMoveReady {
			e.stats.SearchesCompleted++
			e.scheduler.Begin(e.search.Best())
		}
		return steering.ActionNone
	}
}

// begin discards any work on the previous piece and searches the new one
func (e *Engine) begin() {
	e.scheduler.Cancel()
	e.stats.PiecesSeen++

	pieces := []model.Piece{e.grid.CurrentPiece()}
	if e.cfg.Depth >= 2 {
		if next, ok := e.grid.NextPiece(); ok {
			pieces = append(pieces, next)
			if following, ok := e.grid.FollowingPiece(); ok && e.cfg.Depth >= 3 {
				pieces = append(pieces, following)
			}
		}
	}

	if err := e.search.Begin(e.grid.Snapshot(), e.grid.CurrentMain(), pieces); err != nil {
		e.logger.Warn().Err(err).Msg("cannot search new piece")
		e.search.Reset()
	}
}

// Phase returns the phase of the current search
func (e *Engine) Phase() model.SearchPhase {
	return e.search.Phase()
}

// Best returns the best move found for the current piece
func (e *Engine) Best() model.BestMove {
	return e.search.Best()
}

// Steering returns true while the engine is moving a piece to its target
func (e *Engine) Steering() bool {
	return e.scheduler.Active()
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.cfg
}

// Stats returns a copy of the engine statistics
func (e *Engine) Stats() Stats {
	return e.stats
}
