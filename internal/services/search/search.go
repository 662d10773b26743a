package search

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mcoot/gemfall/internal/model"
)

var errNoPieces = errors.New("search requires the current piece")

// Scorer converts a speculative outcome into a score delta. Implementations
// must be pure and deterministic.
type Scorer interface {
	Score(result model.PositionResult) int
}

// ScorerFunc adapts a function to Scorer
type ScorerFunc func(result model.PositionResult) int

// Score calls f
func (f ScorerFunc) Score(result model.PositionResult) int {
	return f(result)
}

// Search is an incremental exhaustive placement search over a lookahead of
// one to three pieces. Each Step does one bounded unit of work: a single
// combination of the outer plies plus at most one full sweep of the
// innermost ply.
type Search struct {
	depth  int
	scorer Scorer
	logger zerolog.Logger

	// OnImprove, if set, observes every update of the best move
	OnImprove func(model.BestMove)

	phase  model.SearchPhase
	active int
	width  int
	pieces [model.MaxDepth]model.Piece
	plies  [model.MaxDepth]plyState
	best   model.BestMove

	evaluations     int
	stepEvaluations int
	steps           int
}

// New creates a Search with the configured lookahead depth
func New(depth int, scorer Scorer, logger zerolog.Logger) (*Search, error) {
	if depth < model.MinDepth || depth > model.MaxDepth {
		return nil, model.ErrInvalidDepth
	}
	return &Search{
		depth:  depth,
		scorer: scorer,
		logger: logger.With().Str("component", "placement-search").Logger(),
		phase:  model.PhaseWaitingForPiece,
	}, nil
}

// Begin discards any search in progress and starts one for pieces[0], which
// pivots on origin. pieces[1:] are the upcoming pieces; if fewer are known
// than the configured depth needs, the search runs shallower.
func (s *Search) Begin(board model.Snapshot, origin model.Position, pieces []model.Piece) error {
	if len(pieces) == 0 {
		return errNoPieces
	}
	if board.Width() < 2 {
		return fmt.Errorf("%w: got %d", model.ErrInvalidWidth, board.Width())
	}

	s.active = min(s.depth, len(pieces))
	s.width = board.Width()
	copy(s.pieces[:], pieces[:s.active])
	s.best = model.TrivialBestMove(origin)
	s.evaluations = 0
	s.stepEvaluations = 0
	s.steps = 0
	s.plies[0].init(s.pieces[0], board, origin.Row, 0)
	s.phase = model.PhaseSearchingPly0

	s.logger.Debug().
		Int("depth", s.active).
		Int("width", s.width).
		Str("piece", s.pieces[0].String()).
		Msg("search started")
	return nil
}

// Reset returns the search to waiting for a piece
func (s *Search) Reset() {
	s.phase = model.PhaseWaitingForPiece
}

// Step performs one unit of search work and returns the new phase
func (s *Search) Step() model.SearchPhase {
	if s.phase == model.PhaseWaitingForPiece || s.phase == model.PhaseFinalMoveReady {
		return s.phase
	}

	before := s.evaluations
	s.phase = s.advance(s.phase)
	s.stepEvaluations = s.evaluations - before
	s.steps++

	if s.phase == model.PhaseFinalMoveReady {
		s.logger.Debug().
			Int("depth", s.active).
			Int("evaluations", s.evaluations).
			Int("steps", s.steps).
			Int("score", s.best.Score).
			Str("rotation", s.best.Rotation.String()).
			Int("column", s.best.Placement.Main.Col).
			Msg("search complete")
	}
	return s.phase
}

// advance runs the work for phase and returns the phase to resume from
func (s *Search) advance(phase model.SearchPhase) model.SearchPhase {
	switch phase {
	case model.PhaseSearchingPly0:
		if s.active == 1 {
			s.sweepAll(0)
			return model.PhaseFinalMoveReady
		}
		return s.stepInto(0, model.PhaseFinalMoveReady, model.PhaseSearchingPly1)

	case model.PhaseSearchingPly1:
		if s.active == 2 {
			s.sweepAll(1)
			return model.PhaseSearchingPly0
		}
		next := s.stepInto(1, model.PhaseSearchingPly0, model.PhaseSearchingPly1)
		if next == model.PhaseSearchingPly1 {
			s.advance(model.PhaseSearchingPly2)
		}
		return next

	case model.PhaseSearchingPly2:
		s.sweepAll(2)
		return model.PhaseSearchingPly1

	default:
		return phase
	}
}

// stepInto advances ply i by one combination and seeds ply i+1 from its
// outcome. It returns done when ply i has nothing left to try.
func (s *Search) stepInto(i int, done, next model.SearchPhase) model.SearchPhase {
	p := &s.plies[i]
	if !p.stepOne(s.scorer) {
		return done
	}
	s.evaluations++
	s.plies[i+1].init(s.pieces[i+1], p.result.Board, p.row, p.score)
	return next
}

// sweepAll evaluates every combination of ply i against the global best.
// Improvements below ply 0 credit ply 0's current placement.
func (s *Search) sweepAll(i int) {
	p := &s.plies[i]
	for _, rot := range model.Rotations {
		end := ruleFor(rot).endColumn(s.width)
		for column := 0; column < end; column++ {
			placement, _, score := p.evaluate(s.scorer, rot, column)
			s.evaluations++
			if score <= s.best.Score {
				continue
			}
			if i == 0 {
				s.record(placement, rot, score)
			} else {
				root := &s.plies[0]
				s.record(root.placement, root.placedAs, score)
			}
		}
	}
}

func (s *Search) record(placement model.Placement, rot model.Rotation, score int) {
	s.best = model.BestMove{Placement: placement, Rotation: rot, Score: score}
	if s.OnImprove != nil {
		s.OnImprove(s.best)
	}
}

// Phase returns the current resume point
func (s *Search) Phase() model.SearchPhase {
	return s.phase
}

// Best returns the best move found so far; it is final once Phase is
// PhaseFinalMoveReady
func (s *Search) Best() model.BestMove {
	return s.best
}

// Depth returns the lookahead used by the current search
func (s *Search) Depth() int {
	return s.active
}

// Evaluations returns the number of placements scored by the current search
func (s *Search) Evaluations() int {
	return s.evaluations
}

// StepEvaluations returns the number of placements scored by the last Step
func (s *Search) StepEvaluations() int {
	return s.stepEvaluations
}

// Steps returns the number of Step calls that did work in the current search
func (s *Search) Steps() int {
	return s.steps
}
