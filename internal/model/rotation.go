package model

// Rotation is the orientation of a falling pair, named for where the
// satellite sits relative to main
type Rotation int

const (
	RotationLeft Rotation = iota
	RotationTop
	RotationRight
	RotationBottom
)

// Rotations lists every rotation in sweep order
var Rotations = [...]Rotation{RotationLeft, RotationTop, RotationRight, RotationBottom}

// Normalize maps unknown values to Left
func (r Rotation) Normalize() Rotation {
	if r < RotationLeft || r > RotationBottom {
		return RotationLeft
	}
	return r
}

// Next returns the following rotation in sweep order. Bottom ends a sweep and
// has no successor, so it returns itself.
func (r Rotation) Next() Rotation {
	r = r.Normalize()
	if r == RotationBottom {
		return RotationBottom
	}
	return r + 1
}

// IsHorizontal returns true when both tiles share a row
func (r Rotation) IsHorizontal() bool {
	switch r.Normalize() {
	case RotationLeft, RotationRight:
		return true
	default:
		return false
	}
}

func (r Rotation) String() string {
	switch r {
	case RotationLeft:
		return "left"
	case RotationTop:
		return "top"
	case RotationRight:
		return "right"
	case RotationBottom:
		return "bottom"
	default:
		return "unknown"
	}
}
