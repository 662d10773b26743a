package model

import "math"

// PositionResult is the speculative outcome of dropping a piece at a placement
type PositionResult struct {
	TilesCleared int
	Groups       int // groups cleared across all chain steps
	ChainDepth   int // number of clearing rounds
	MaxHeight    int // tallest column after resolution
	Adjacency    int // same-colour neighbours touching the landed tiles
	ToppedOut    bool

	// Board is the playfield after the placement resolves
	Board Snapshot
}

// Snapshot is an immutable view of a playfield that can speculate about placements
type Snapshot interface {
	Width() int
	// EvaluatePlacement drops piece at p and resolves the result without
	// modifying the receiver
	EvaluatePlacement(piece Piece, p Placement) PositionResult
}

// BestMove is the best placement found so far for the current piece
type BestMove struct {
	Placement Placement
	Rotation  Rotation
	Score     int
}

// TrivialBestMove returns the fallback best move for a piece pivoting on main.
// Its score is the minimum int so any evaluated placement supersedes it.
func TrivialBestMove(main Position) BestMove {
	return BestMove{
		Placement: PlacementAt(main, RotationTop),
		Rotation:  RotationTop,
		Score:     math.MinInt,
	}
}
