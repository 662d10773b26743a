package search

import "github.com/mcoot/gemfall/internal/model"

// rotationRule lays out a pair for one rotation of a sweep. Column c places
// main at c+mainOffset and the satellite at c+satelliteOffset, one row above
// main when satelliteRow is -1. Columns run from 0 to width-endTrim.
type rotationRule struct {
	mainOffset      int
	satelliteOffset int
	satelliteRow    int
	endTrim         int
	// swap sweeps with main and satellite exchanged, so the vertical pair is
	// laid out exactly like Top. The recorded placement is swapped back.
	swap bool
}

// rotationRules is indexed by model.Rotation and visited in that order
var rotationRules = [...]rotationRule{
	model.RotationLeft:   {mainOffset: 1, satelliteOffset: 0, satelliteRow: 0, endTrim: 1},
	model.RotationTop:    {mainOffset: 0, satelliteOffset: 0, satelliteRow: -1, endTrim: 0},
	model.RotationRight:  {mainOffset: 0, satelliteOffset: 1, satelliteRow: 0, endTrim: 1},
	model.RotationBottom: {mainOffset: 0, satelliteOffset: 0, satelliteRow: -1, endTrim: 0, swap: true},
}

func ruleFor(r model.Rotation) rotationRule {
	return rotationRules[r.Normalize()]
}

// endColumn is the exclusive column bound for the rotation on a grid of width
func (r rotationRule) endColumn(width int) int {
	return width - r.endTrim
}

// layout returns the placement handed to the evaluator (sweep roles) and the
// placement reported to callers (physical roles) for column on row
func (r rotationRule) layout(column, row int) (sweep, physical model.Placement) {
	sweep = model.Placement{
		Main:      model.Position{Col: column + r.mainOffset, Row: row},
		Satellite: model.Position{Col: column + r.satelliteOffset, Row: row + r.satelliteRow},
	}
	if r.swap {
		return sweep, sweep.Swapped()
	}
	return sweep, sweep
}

// pieceFor returns the colours in sweep roles
func (r rotationRule) pieceFor(p model.Piece) model.Piece {
	if r.swap {
		return p.Swapped()
	}
	return p
}

// CombinationsPerPly is the number of (rotation, column) pairs one ply visits
func CombinationsPerPly(width int) int {
	total := 0
	for _, rot := range model.Rotations {
		total += ruleFor(rot).endColumn(width)
	}
	return total
}
