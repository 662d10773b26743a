package playfield

import (
	"github.com/mcoot/gemfall/internal/model"
)

// Snapshot is an immutable copy of a board that evaluates placements
type Snapshot struct {
	board *Board
}

var _ model.Snapshot = Snapshot{}

// NewSnapshot copies b
func NewSnapshot(b *Board) Snapshot {
	return Snapshot{board: b.Clone()}
}

// Width implements model.Snapshot
func (s Snapshot) Width() int {
	return s.board.Width()
}

// Board returns a mutable copy of the snapshot's board
func (s Snapshot) Board() *Board {
	return s.board.Clone()
}

// EvaluatePlacement implements model.Snapshot. A placement that cannot land
// tops out and leaves the board as it was.
func (s Snapshot) EvaluatePlacement(piece model.Piece, p model.Placement) model.PositionResult {
	next := s.board.Clone()
	landed, ok := next.Place(piece, p)
	if !ok {
		return model.PositionResult{
			MaxHeight: s.board.MaxHeight(),
			ToppedOut: true,
			Board:     s,
		}
	}

	adjacency := next.Adjacency(landed)
	res := next.Resolve()
	return model.PositionResult{
		TilesCleared: res.TilesCleared(),
		Groups:       res.Groups,
		ChainDepth:   res.ChainDepth(),
		MaxHeight:    next.MaxHeight(),
		Adjacency:    adjacency,
		ToppedOut:    next.Blocked(),
		Board:        Snapshot{board: next},
	}
}
