package playfield

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mcoot/gemfall/internal/dependencies/random"
	"github.com/mcoot/gemfall/internal/model"
)

// HiddenRows is the depth of the spawn area above the visible board
const HiddenRows = 2

// Config configures a Field
type Config struct {
	Width   int
	Height  int
	Colors  int // distinct colours dealt, at most len(model.PieceColors)
	Preview int // upcoming pieces shown, 0 to 2

	NormalFall time.Duration // time to fall one row
	FastFall   time.Duration // time to fall one row at maximum speed
}

// DefaultConfig returns a 6x12 field dealing four colours
func DefaultConfig() Config {
	return Config{
		Width:      model.DefaultWidth,
		Height:     model.DefaultHeight,
		Colors:     4,
		Preview:    2,
		NormalFall: 800 * time.Millisecond,
		FastFall:   25 * time.Millisecond,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Width < 2 {
		return fmt.Errorf("%w: got %d", model.ErrInvalidWidth, c.Width)
	}
	if c.Height < 2 {
		return fmt.Errorf("%w: got %d", model.ErrInvalidHeight, c.Height)
	}
	if c.Colors < 1 || c.Colors > len(model.PieceColors) {
		return fmt.Errorf("colors must be between 1 and %d, got %d", len(model.PieceColors), c.Colors)
	}
	if c.Preview < 0 || c.Preview > 2 {
		return fmt.Errorf("preview must be between 0 and 2, got %d", c.Preview)
	}
	if c.NormalFall <= 0 || c.FastFall <= 0 {
		return fmt.Errorf("fall speeds must be positive")
	}
	return nil
}

// Stats summarizes a game on a field
type Stats struct {
	Pieces       int // spawned, including the falling one
	Locked       int
	Score        int
	TilesCleared int
	Groups       int
	MaxChain     int
}

// Field is a playable single-player board with a falling pair
type Field struct {
	cfg    Config
	board  *Board
	random random.Random
	logger zerolog.Logger

	current  model.Piece
	main     model.Position
	sat      model.Position
	queue    [2]model.Piece
	newPiece bool
	fast     bool
	fall     time.Duration
	over     bool

	stats Stats
}

// NewField creates a field and spawns the first piece
func NewField(cfg Config, rnd random.Random, logger zerolog.Logger) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	board, err := NewBoard(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	f := &Field{
		cfg:    cfg,
		board:  board,
		random: rnd,
		logger: logger.With().Str("component", "playfield").Logger(),
	}
	f.queue = [2]model.Piece{f.deal(), f.deal()}
	f.spawn()
	return f, nil
}

func (f *Field) deal() model.Piece {
	return model.Piece{
		Main:      model.PieceColors[f.random.Intn(f.cfg.Colors)],
		Satellite: model.PieceColors[f.random.Intn(f.cfg.Colors)],
	}
}

func (f *Field) spawn() {
	f.current = f.queue[0]
	f.queue = [2]model.Piece{f.queue[1], f.deal()}
	col := f.board.SpawnColumn()
	f.main = model.Position{Col: col, Row: -1}
	f.sat = model.Position{Col: col, Row: -2}
	f.newPiece = true
	f.fast = false
	f.fall = 0
	f.stats.Pieces++
}

// free returns true if a falling tile may occupy pos
func (f *Field) free(pos model.Position) bool {
	if pos.Col < 0 || pos.Col >= f.board.Width() || pos.Row < -HiddenRows || pos.Row >= f.board.Height() {
		return false
	}
	return pos.Row < 0 || f.board.At(pos) == model.ColorEmpty
}

// Tick applies gravity for elapsed time. A piece that cannot fall further
// locks, resolves, and the next piece spawns.
func (f *Field) Tick(elapsed time.Duration) {
	if f.over {
		return
	}
	f.fall += elapsed
	for {
		perRow := f.cfg.NormalFall
		if f.fast {
			perRow = f.cfg.FastFall
		}
		if f.fall < perRow {
			return
		}
		f.fall -= perRow

		nextMain := model.Position{Col: f.main.Col, Row: f.main.Row + 1}
		nextSat := model.Position{Col: f.sat.Col, Row: f.sat.Row + 1}
		if !f.free(nextMain) || !f.free(nextSat) {
			f.lock()
			return
		}
		f.main, f.sat = nextMain, nextSat
	}
}

func (f *Field) lock() {
	placement := model.Placement{Main: f.main, Satellite: f.sat}
	if _, ok := f.board.Place(f.current, placement); !ok {
		f.gameOver()
		return
	}
	f.stats.Locked++

	res := f.board.Resolve()
	for i, tiles := range res.Rounds {
		f.stats.Score += tiles * 10 * (1 << i)
	}
	f.stats.TilesCleared += res.TilesCleared()
	f.stats.Groups += res.Groups
	f.stats.MaxChain = max(f.stats.MaxChain, res.ChainDepth())

	f.logger.Debug().
		Str("piece", f.current.String()).
		Int("column", f.main.Col).
		Int("cleared", res.TilesCleared()).
		Int("chain", res.ChainDepth()).
		Msg("piece locked")

	if f.board.Blocked() {
		f.gameOver()
		return
	}
	f.spawn()
}

func (f *Field) gameOver() {
	f.over = true
	f.newPiece = false
	f.logger.Debug().Int("pieces", f.stats.Pieces).Int("score", f.stats.Score).Msg("game over")
}

// HasNewPieceAvailable reports each spawned piece exactly once
func (f *Field) HasNewPieceAvailable() bool {
	fresh := f.newPiece
	f.newPiece = false
	return fresh
}

// CurrentPiece returns the colours of the falling pair
func (f *Field) CurrentPiece() model.Piece {
	return f.current
}

// NextPiece returns the piece after the current one, if previewed
func (f *Field) NextPiece() (model.Piece, bool) {
	if f.cfg.Preview < 1 {
		return model.Piece{}, false
	}
	return f.queue[0], true
}

// FollowingPiece returns the piece after next, if previewed
func (f *Field) FollowingPiece() (model.Piece, bool) {
	if f.cfg.Preview < 2 {
		return model.Piece{}, false
	}
	return f.queue[1], true
}

// Snapshot returns an immutable copy of the settled tiles
func (f *Field) Snapshot() model.Snapshot {
	return NewSnapshot(f.board)
}

func (f *Field) CurrentMain() model.Position      { return f.main }
func (f *Field) CurrentSatellite() model.Position { return f.sat }

// IsVisible returns true once pos is inside the visible board
func (f *Field) IsVisible(pos model.Position) bool {
	return f.board.InBounds(pos)
}

func (f *Field) MoveLeft()  { f.shift(-1) }
func (f *Field) MoveRight() { f.shift(1) }

func (f *Field) shift(dx int) {
	if f.over {
		return
	}
	main, sat := f.main.Shift(dx), f.sat.Shift(dx)
	if f.free(main) && f.free(sat) {
		f.main, f.sat = main, sat
	}
}

// RotateClockwise turns the satellite a quarter turn clockwise around main,
// pushing the pair away from an obstruction if needed
func (f *Field) RotateClockwise() {
	dx, dy := f.sat.Col-f.main.Col, f.sat.Row-f.main.Row
	f.rotate(-dy, dx)
}

// RotateCounterClockwise turns the satellite a quarter turn counter-clockwise
func (f *Field) RotateCounterClockwise() {
	dx, dy := f.sat.Col-f.main.Col, f.sat.Row-f.main.Row
	f.rotate(dy, -dx)
}

func (f *Field) rotate(dx, dy int) {
	if f.over {
		return
	}
	sat := model.Position{Col: f.main.Col + dx, Row: f.main.Row + dy}
	if f.free(sat) {
		f.sat = sat
		return
	}
	// kick: main moves away from the obstruction, satellite takes main's cell
	kicked := model.Position{Col: f.main.Col - dx, Row: f.main.Row - dy}
	if f.free(kicked) {
		f.sat = f.main
		f.main = kicked
	}
}

func (f *Field) SetMaxFallSpeed()    { f.fast = true }
func (f *Field) SetNormalFallSpeed() { f.fast = false }

// Over returns true once a piece could not spawn or land
func (f *Field) Over() bool {
	return f.over
}

// Stats returns the game statistics so far
func (f *Field) Stats() Stats {
	return f.stats
}

// Board returns a copy of the settled tiles
func (f *Field) Board() *Board {
	return f.board.Clone()
}
