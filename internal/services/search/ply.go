package search

import "github.com/mcoot/gemfall/internal/model"

// plyState is the resumable sweep cursor for one piece of the lookahead chain
type plyState struct {
	piece       model.Piece
	board       model.Snapshot
	row         int
	parentScore int

	// next combination to evaluate
	rotation  model.Rotation
	column    int
	endColumn int

	// most recently evaluated combination, in physical roles
	placement model.Placement
	placedAs  model.Rotation
	result    model.PositionResult
	score     int
}

func (p *plyState) init(piece model.Piece, board model.Snapshot, row, parentScore int) {
	*p = plyState{
		piece:       piece,
		board:       board,
		row:         row,
		parentScore: parentScore,
		rotation:    model.RotationLeft,
		column:      0,
		endColumn:   ruleFor(model.RotationLeft).endColumn(board.Width()),
	}
}

func (p *plyState) exhausted() bool {
	return p.rotation == model.RotationBottom && p.column >= p.endColumn
}

// evaluate scores one combination without moving the cursor
func (p *plyState) evaluate(scorer Scorer, rot model.Rotation, column int) (model.Placement, model.PositionResult, int) {
	rule := ruleFor(rot)
	sweep, physical := rule.layout(column, p.row)
	result := p.board.EvaluatePlacement(rule.pieceFor(p.piece), sweep)
	if result.Board == nil {
		result.Board = p.board
	}
	return physical, result, p.parentScore + scorer.Score(result)
}

// stepOne evaluates the combination under the cursor, keeps it as the current
// placement and advances the cursor
func (p *plyState) stepOne(scorer Scorer) bool {
	if p.exhausted() {
		return false
	}
	p.placement, p.result, p.score = p.evaluate(scorer, p.rotation, p.column)
	p.placedAs = p.rotation

	p.column++
	for p.column >= p.endColumn && p.rotation != model.RotationBottom {
		p.rotation = p.rotation.Next()
		p.column = 0
		p.endColumn = ruleFor(p.rotation).endColumn(p.board.Width())
	}
	return true
}
