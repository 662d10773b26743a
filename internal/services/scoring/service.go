package scoring

import (
	"github.com/mcoot/gemfall/internal/model"
)

// maxChainShift caps the chain bonus exponent so the bonus cannot overflow
const maxChainShift = 30

// Weights tune how a speculative outcome is valued
type Weights struct {
	Tile      int // per tile cleared
	Group     int // per group cleared
	ChainBase int // doubled for every chain round after the first
	Adjacency int // per same-colour neighbour of the landed tiles
	Height    int // subtracted per row of the tallest column
	TopOut    int // flat score of an outcome that ends the game

	// DropThreshold is the best-move score at which the piece is dropped at full speed
	DropThreshold int
}

// DefaultWeights returns weights that favour chains and keep the stack low
func DefaultWeights() Weights {
	return Weights{
		Tile:          10,
		Group:         20,
		ChainBase:     50,
		Adjacency:     3,
		Height:        2,
		TopOut:        -1_000_000,
		DropThreshold: 100,
	}
}

// ChainScorer values outcomes by tiles, groups and chain depth. It is pure and
// safe to share between engines.
type ChainScorer struct {
	weights Weights
}

// New creates a ChainScorer
func New(weights Weights) *ChainScorer {
	return &ChainScorer{weights: weights}
}

// NewDefault creates a ChainScorer with DefaultWeights
func NewDefault() *ChainScorer {
	return New(DefaultWeights())
}

// Score returns the value of a single placement outcome
func (s *ChainScorer) Score(result model.PositionResult) int {
	w := s.weights
	if result.ToppedOut {
		return w.TopOut
	}

	score := result.TilesCleared*w.Tile +
		result.Groups*w.Group +
		result.Adjacency*w.Adjacency -
		result.MaxHeight*w.Height

	if result.ChainDepth > 0 {
		shift := min(result.ChainDepth-1, maxChainShift)
		score += w.ChainBase << shift
	}
	return score
}

// ShouldFastDrop returns true once the chosen move is worth committing to
func (s *ChainScorer) ShouldFastDrop(best model.BestMove) bool {
	return best.Score >= s.weights.DropThreshold
}

// Weights returns the weights in use
func (s *ChainScorer) Weights() Weights {
	return s.weights
}

// Interface for dependency injection
type ServiceInterface interface {
	Score(result model.PositionResult) int
	ShouldFastDrop(best model.BestMove) bool
}

var _ ServiceInterface = (*ChainScorer)(nil)
