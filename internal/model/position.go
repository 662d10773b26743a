package model

// Position identifies a cell on the playfield
type Position struct {
	Col int // 0-indexed from left
	Row int // 0-indexed from the top visible row; negative rows are the hidden spawn area
}

// Shift returns the position moved dx columns to the right
func (p Position) Shift(dx int) Position {
	return Position{Col: p.Col + dx, Row: p.Row}
}

// Placement locates both tiles of a falling pair
type Placement struct {
	Main      Position // pivot tile
	Satellite Position // linked partner tile
}

// Shift moves both tiles dx columns to the right
func (p Placement) Shift(dx int) Placement {
	return Placement{Main: p.Main.Shift(dx), Satellite: p.Satellite.Shift(dx)}
}

// Swapped exchanges the roles of main and satellite
func (p Placement) Swapped() Placement {
	return Placement{Main: p.Satellite, Satellite: p.Main}
}

// Rotation reports where the satellite sits relative to main in this placement,
// falling back to Left for a degenerate placement
func (p Placement) Rotation() Rotation {
	switch {
	case p.Satellite.Row < p.Main.Row:
		return RotationTop
	case p.Satellite.Row > p.Main.Row:
		return RotationBottom
	case p.Satellite.Col > p.Main.Col:
		return RotationRight
	default:
		return RotationLeft
	}
}

// PlacementAt builds the placement of a pair pivoting on main in the given rotation
func PlacementAt(main Position, r Rotation) Placement {
	sat := main
	switch r.Normalize() {
	case RotationLeft:
		sat.Col--
	case RotationTop:
		sat.Row--
	case RotationRight:
		sat.Col++
	case RotationBottom:
		sat.Row++
	}
	return Placement{Main: main, Satellite: sat}
}
