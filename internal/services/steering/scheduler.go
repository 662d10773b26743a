package steering

import (
	"github.com/rs/zerolog"

	"github.com/mcoot/gemfall/internal/model"
)

// Controls is the part of the playfield the scheduler steers through
type Controls interface {
	CurrentMain() model.Position
	CurrentSatellite() model.Position
	// IsVisible returns true once pos has entered the visible play region
	IsVisible(pos model.Position) bool

	MoveLeft()
	MoveRight()
	RotateClockwise()
	RotateCounterClockwise()
	SetMaxFallSpeed()
	SetNormalFallSpeed()
}

// DropPolicy decides whether a piece at its target should be dropped at full speed
type DropPolicy interface {
	ShouldFastDrop(best model.BestMove) bool
}

// Scheduler steers the live piece to a target placement, one paced action per tick
type Scheduler struct {
	controls Controls
	pacer    *Pacer
	policy   DropPolicy
	logger   zerolog.Logger

	target  model.BestMove
	active  bool
	atFinal bool
	actions int
}

// New creates a Scheduler
func New(controls Controls, pacer *Pacer, policy DropPolicy, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		controls: controls,
		pacer:    pacer,
		policy:   policy,
		logger:   logger.With().Str("component", "move-scheduler").Logger(),
	}
}

// Begin starts steering toward target. The first action waits one interval.
func (s *Scheduler) Begin(target model.BestMove) {
	s.target = target
	s.target.Rotation = target.Rotation.Normalize()
	s.active = true
	s.atFinal = false
	s.pacer.Arm()
}

// Cancel stops steering the current piece
func (s *Scheduler) Cancel() {
	s.active = false
	s.atFinal = false
}

// Active returns true while a target is being steered toward
func (s *Scheduler) Active() bool {
	return s.active
}

// AtFinalPosition returns true once the piece matches the target columns and rotation
func (s *Scheduler) AtFinalPosition() bool {
	return s.atFinal
}

// Actions returns the number of actions issued since creation
func (s *Scheduler) Actions() int {
	return s.actions
}

// Tick issues at most one action. After a drop action the scheduler is idle
// until the next Begin.
func (s *Scheduler) Tick() Action {
	if !s.active {
		return ActionNone
	}

	main := s.controls.CurrentMain()
	sat := s.controls.CurrentSatellite()

	lead := main
	if s.target.Rotation == model.RotationBottom {
		lead = sat
	}
	if !s.controls.IsVisible(lead) || !s.pacer.Ready() {
		return ActionNone
	}

	if !s.atFinal {
		if !rotationMatches(s.target.Rotation, main, sat) {
			return s.issue(s.correctiveRotation())
		}

		targetMain := s.target.Placement.Main
		switch {
		case targetMain.Col < main.Col:
			return s.issue(ActionMoveLeft)
		case targetMain.Col > main.Col:
			return s.issue(ActionMoveRight)
		}

		if sat.Col != s.target.Placement.Satellite.Col {
			return ActionNone
		}
		s.atFinal = true
	}

	drop := ActionNaturalDrop
	if s.policy != nil && s.policy.ShouldFastDrop(s.target) {
		drop = ActionFastDrop
	}
	s.active = false
	return s.issue(drop)
}

// correctiveRotation picks the rotation direction from the target alone.
// Top and Bottom both turn clockwise.
func (s *Scheduler) correctiveRotation() Action {
	switch s.target.Rotation {
	case model.RotationLeft:
		return ActionRotateCounterClockwise
	default:
		return ActionRotateClockwise
	}
}

func (s *Scheduler) issue(a Action) Action {
	switch a {
	case ActionRotateClockwise:
		s.controls.RotateClockwise()
	case ActionRotateCounterClockwise:
		s.controls.RotateCounterClockwise()
	case ActionMoveLeft:
		s.controls.MoveLeft()
	case ActionMoveRight:
		s.controls.MoveRight()
	case ActionFastDrop:
		s.controls.SetMaxFallSpeed()
	case ActionNaturalDrop:
		s.controls.SetNormalFallSpeed()
	}
	s.actions++
	if !a.IsDrop() {
		s.pacer.Arm()
	}
	s.logger.Debug().Str("action", a.String()).Int("target_column", s.target.Placement.Main.Col).Msg("steering")
	return a
}

// rotationMatches compares columns for horizontal targets and rows for vertical ones
func rotationMatches(target model.Rotation, main, sat model.Position) bool {
	switch target {
	case model.RotationRight:
		return main.Col < sat.Col
	case model.RotationTop:
		return sat.Row < main.Row
	case model.RotationBottom:
		return sat.Row > main.Row
	default:
		return main.Col > sat.Col
	}
}
