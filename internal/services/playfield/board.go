package playfield

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/mcoot/gemfall/internal/model"
)

// MinGroupSize is the smallest four-way connected group of one colour that clears
const MinGroupSize = 4

var neighbours = [4]model.Position{{Col: 1}, {Col: -1}, {Row: 1}, {Row: -1}}

// Board is a grid of settled tiles. Row 0 is the top visible row.
type Board struct {
	width  int
	height int
	cells  []model.Color
}

// NewBoard creates an empty board
func NewBoard(width, height int) (*Board, error) {
	if width < 2 {
		return nil, fmt.Errorf("%w: got %d", model.ErrInvalidWidth, width)
	}
	if height < 2 {
		return nil, fmt.Errorf("%w: got %d", model.ErrInvalidHeight, height)
	}
	return &Board{
		width:  width,
		height: height,
		cells:  make([]model.Color, width*height),
	}, nil
}

// ParseBoard builds a board from rows of colour letters, top row first,
// using '.' for empty cells. Tiles are taken as given; gravity is not applied.
func ParseBoard(rows ...string) (*Board, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: got 0", model.ErrInvalidHeight)
	}
	b, err := NewBoard(len(rows[0]), len(rows))
	if err != nil {
		return nil, err
	}
	for row, line := range rows {
		if len(line) != b.width {
			return nil, fmt.Errorf("row %d has %d cells, want %d", row, len(line), b.width)
		}
		for col, ch := range line {
			c, ok := colorFromRune(ch)
			if !ok {
				return nil, fmt.Errorf("row %d col %d: unknown colour %q", row, col, ch)
			}
			b.Set(model.Position{Col: col, Row: row}, c)
		}
	}
	return b, nil
}

func colorFromRune(r rune) (model.Color, bool) {
	if r == '.' {
		return model.ColorEmpty, true
	}
	c, ok := lo.Find(model.PieceColors[:], func(c model.Color) bool {
		return c.String() == string(r)
	})
	return c, ok
}

// Width returns the number of columns
func (b *Board) Width() int {
	return b.width
}

// Height returns the number of visible rows
func (b *Board) Height() int {
	return b.height
}

// InBounds returns true if pos is a visible cell
func (b *Board) InBounds(pos model.Position) bool {
	return pos.Col >= 0 && pos.Col < b.width && pos.Row >= 0 && pos.Row < b.height
}

// At returns the colour at pos, or empty outside the board
func (b *Board) At(pos model.Position) model.Color {
	if !b.InBounds(pos) {
		return model.ColorEmpty
	}
	return b.cells[pos.Row*b.width+pos.Col]
}

// Set places a colour at pos. Out of bounds positions are ignored.
func (b *Board) Set(pos model.Position, c model.Color) {
	if b.InBounds(pos) {
		b.cells[pos.Row*b.width+pos.Col] = c
	}
}

// Clone returns a deep copy
func (b *Board) Clone() *Board {
	return &Board{
		width:  b.width,
		height: b.height,
		cells:  append([]model.Color(nil), b.cells...),
	}
}

// SpawnColumn is the column new pieces enter from
func (b *Board) SpawnColumn() int {
	return (b.width - 1) / 2
}

// Blocked returns true once the spawn cell is filled
func (b *Board) Blocked() bool {
	return b.At(model.Position{Col: b.SpawnColumn(), Row: 0}) != model.ColorEmpty
}

// ColumnHeight returns the number of rows from the floor to the topmost tile
func (b *Board) ColumnHeight(col int) int {
	for row := 0; row < b.height; row++ {
		if b.At(model.Position{Col: col, Row: row}) != model.ColorEmpty {
			return b.height - row
		}
	}
	return 0
}

// MaxHeight returns the tallest column height
func (b *Board) MaxHeight() int {
	return lo.Max(lo.Times(b.width, b.ColumnHeight))
}

// Drop lets a tile fall down col and returns where it settled. It fails if
// the column is full or outside the board.
func (b *Board) Drop(col int, c model.Color) (model.Position, bool) {
	if col < 0 || col >= b.width {
		return model.Position{}, false
	}
	for row := b.height - 1; row >= 0; row-- {
		pos := model.Position{Col: col, Row: row}
		if b.At(pos) == model.ColorEmpty {
			b.Set(pos, c)
			return pos, true
		}
	}
	return model.Position{}, false
}

// Place drops both tiles of piece into the columns of p, lower tile first,
// and returns where they settled
func (b *Board) Place(piece model.Piece, p model.Placement) ([]model.Position, bool) {
	type tile struct {
		pos   model.Position
		color model.Color
	}
	tiles := [2]tile{{p.Main, piece.Main}, {p.Satellite, piece.Satellite}}
	if tiles[1].pos.Row > tiles[0].pos.Row {
		tiles[0], tiles[1] = tiles[1], tiles[0]
	}

	landed := make([]model.Position, 0, len(tiles))
	for _, t := range tiles {
		pos, ok := b.Drop(t.pos.Col, t.color)
		if !ok {
			return landed, false
		}
		landed = append(landed, pos)
	}
	return landed, true
}

// Adjacency counts same-colour four-way neighbours of the given tiles
func (b *Board) Adjacency(tiles []model.Position) int {
	return lo.SumBy(tiles, func(pos model.Position) int {
		c := b.At(pos)
		return lo.CountBy(neighbours[:], func(d model.Position) bool {
			n := model.Position{Col: pos.Col + d.Col, Row: pos.Row + d.Row}
			return b.InBounds(n) && b.At(n) == c
		})
	})
}

// Resolution describes the clearing rounds triggered by one placement
type Resolution struct {
	Rounds []int // tiles cleared per round
	Groups int
}

// TilesCleared returns the total tiles cleared over every round
func (r Resolution) TilesCleared() int {
	return lo.Sum(r.Rounds)
}

// ChainDepth returns the number of clearing rounds
func (r Resolution) ChainDepth() int {
	return len(r.Rounds)
}

// Resolve clears groups and collapses columns until nothing more clears
func (b *Board) Resolve() Resolution {
	var res Resolution
	for {
		groups := lo.Filter(b.groups(), func(g []model.Position, _ int) bool {
			return len(g) >= MinGroupSize
		})
		if len(groups) == 0 {
			return res
		}
		cleared := 0
		for _, g := range groups {
			for _, pos := range g {
				b.Set(pos, model.ColorEmpty)
			}
			cleared += len(g)
		}
		res.Rounds = append(res.Rounds, cleared)
		res.Groups += len(groups)
		b.collapse()
	}
}

// groups returns every four-way connected group of coloured tiles
func (b *Board) groups() [][]model.Position {
	seen := make([]bool, len(b.cells))
	var groups [][]model.Position
	for i, c := range b.cells {
		if c == model.ColorEmpty || seen[i] {
			continue
		}
		groups = append(groups, b.flood(model.Position{Col: i % b.width, Row: i / b.width}, seen))
	}
	return groups
}

func (b *Board) flood(start model.Position, seen []bool) []model.Position {
	c := b.At(start)
	seen[start.Row*b.width+start.Col] = true
	stack := []model.Position{start}
	var group []model.Position
	for len(stack) > 0 {
		pos := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		group = append(group, pos)
		for _, d := range neighbours {
			n := model.Position{Col: pos.Col + d.Col, Row: pos.Row + d.Row}
			if !b.InBounds(n) || b.At(n) != c {
				continue
			}
			if i := n.Row*b.width + n.Col; !seen[i] {
				seen[i] = true
				stack = append(stack, n)
			}
		}
	}
	return group
}

// collapse lets every tile fall to the lowest free cell of its column
func (b *Board) collapse() {
	for col := 0; col < b.width; col++ {
		write := b.height - 1
		for row := b.height - 1; row >= 0; row-- {
			pos := model.Position{Col: col, Row: row}
			c := b.At(pos)
			if c == model.ColorEmpty {
				continue
			}
			if row != write {
				b.Set(model.Position{Col: col, Row: write}, c)
				b.Set(pos, model.ColorEmpty)
			}
			write--
		}
	}
}

func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			sb.WriteString(b.At(model.Position{Col: col, Row: row}).String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
