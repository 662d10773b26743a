package steering

// Action is the steering action taken on one tick
type Action int

const (
	ActionNone Action = iota
	ActionRotateClockwise
	ActionRotateCounterClockwise
	ActionMoveLeft
	ActionMoveRight
	ActionFastDrop
	ActionNaturalDrop
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionRotateClockwise:
		return "rotate_cw"
	case ActionRotateCounterClockwise:
		return "rotate_ccw"
	case ActionMoveLeft:
		return "move_left"
	case ActionMoveRight:
		return "move_right"
	case ActionFastDrop:
		return "fast_drop"
	case ActionNaturalDrop:
		return "natural_drop"
	default:
		return "unknown"
	}
}

// IsDrop returns true for the action that releases the piece
func (a Action) IsDrop() bool {
	return a == ActionFastDrop || a == ActionNaturalDrop
}
