package model

// Color is the colour of a single tile
type Color uint8

const (
	ColorEmpty Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorPurple
)

// PieceColors lists the colours a spawned tile can take
var PieceColors = [...]Color{ColorRed, ColorGreen, ColorBlue, ColorYellow, ColorPurple}

func (c Color) String() string {
	switch c {
	case ColorEmpty:
		return "."
	case ColorRed:
		return "R"
	case ColorGreen:
		return "G"
	case ColorBlue:
		return "B"
	case ColorYellow:
		return "Y"
	case ColorPurple:
		return "P"
	default:
		return "?"
	}
}

// Piece is the pair of colours of a falling pair
type Piece struct {
	Main      Color
	Satellite Color
}

// Swapped exchanges the colours of main and satellite
func (p Piece) Swapped() Piece {
	return Piece{Main: p.Satellite, Satellite: p.Main}
}

func (p Piece) String() string {
	return p.Main.String() + p.Satellite.String()
}
