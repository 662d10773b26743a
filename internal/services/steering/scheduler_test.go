package steering_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gemfall/internal/dependencies/mocks"
	"github.com/mcoot/gemfall/internal/model"
	"github.com/mcoot/gemfall/internal/services/steering"
	"github.com/mcoot/gemfall/internal/testutil"
)

// fakeControls moves a free-floating pair with no walls or floor
type fakeControls struct {
	main  model.Position
	sat   model.Position
	calls []string
	speed string
}

func (c *fakeControls) CurrentMain() model.Position      { return c.main }
func (c *fakeControls) CurrentSatellite() model.Position { return c.sat }
func (c *fakeControls) IsVisible(p model.Position) bool  { return p.Row >= 0 }

func (c *fakeControls) MoveLeft() {
	c.main.Col--
	c.sat.Col--
	c.calls = append(c.calls, "left")
}

func (c *fakeControls) MoveRight() {
	c.main.Col++
	c.sat.Col++
	c.calls = append(c.calls, "right")
}

func (c *fakeControls) RotateClockwise() {
	dx, dy := c.sat.Col-c.main.Col, c.sat.Row-c.main.Row
	c.sat = model.Position{Col: c.main.Col - dy, Row: c.main.Row + dx}
	c.calls = append(c.calls, "cw")
}

func (c *fakeControls) RotateCounterClockwise() {
	dx, dy := c.sat.Col-c.main.Col, c.sat.Row-c.main.Row
	c.sat = model.Position{Col: c.main.Col + dy, Row: c.main.Row - dx}
	c.calls = append(c.calls, "ccw")
}

func (c *fakeControls) SetMaxFallSpeed()    { c.speed = "max" }
func (c *fakeControls) SetNormalFallSpeed() { c.speed = "normal" }

type fixedPolicy bool

func (p fixedPolicy) ShouldFastDrop(model.BestMove) bool { return bool(p) }

func target(main model.Position, r model.Rotation) model.BestMove {
	return model.BestMove{Placement: model.PlacementAt(main, r), Rotation: r, Score: 10}
}

type SchedulerSuite struct {
	suite.Suite
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	controls *fakeControls
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

func (s *SchedulerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controls = &fakeControls{
		main: model.Position{Col: 3, Row: 2},
		sat:  model.Position{Col: 3, Row: 1},
	}
}

func (s *SchedulerSuite) newScheduler(average, jitter time.Duration, policy steering.DropPolicy) *steering.Scheduler {
	pacer, err := steering.NewPacer(s.clock, s.random, average, jitter)
	s.Require().NoError(err)
	return steering.New(s.controls, pacer, policy, testutil.NopLogger())
}

// drive ticks every millisecond until the scheduler goes idle
func (s *SchedulerSuite) drive(sched *steering.Scheduler, limit int) []steering.Action {
	var actions []steering.Action
	for i := 0; sched.Active(); i++ {
		s.Require().Less(i, limit, "scheduler never dropped the piece")
		if a := sched.Tick(); a != steering.ActionNone {
			actions = append(actions, a)
		}
		s.clock.AdvanceMs(1)
	}
	return actions
}

func (s *SchedulerSuite) TestPacerRejectsNegativeSettings() {
	_, err := steering.NewPacer(s.clock, s.random, 100*time.Millisecond, -time.Millisecond)
	s.ErrorIs(err, model.ErrNegativeJitter)

	_, err = steering.NewPacer(s.clock, s.random, -time.Millisecond, 0)
	s.ErrorIs(err, model.ErrNegativeWait)
}

func (s *SchedulerSuite) TestPacerIntervalWithoutJitter() {
	pacer, err := steering.NewPacer(s.clock, s.random, 120*time.Millisecond, 0)
	s.Require().NoError(err)

	s.True(pacer.Ready())
	s.Equal(120*time.Millisecond, pacer.Arm())
	s.False(pacer.Ready())
	s.clock.AdvanceMs(119)
	s.False(pacer.Ready())
	s.clock.AdvanceMs(1)
	s.True(pacer.Ready())
	s.Empty(s.random.IntnBounds, "no jitter means no random draws")
}

func (s *SchedulerSuite) TestPacerIntervalSpansJitterRange() {
	pacer, err := steering.NewPacer(s.clock, s.random, 100*time.Millisecond, 30*time.Millisecond)
	s.Require().NoError(err)

	s.random.QueueIntn(0, 60, 30)
	s.Equal(70*time.Millisecond, pacer.Arm())
	s.Equal(130*time.Millisecond, pacer.Arm())
	s.Equal(100*time.Millisecond, pacer.Arm())
	s.Equal([]int{61, 61, 61}, s.random.IntnBounds)
}

func (s *SchedulerSuite) TestPacerClampsToMinimumInterval() {
	pacer, err := steering.NewPacer(s.clock, s.random, 2*time.Millisecond, 5*time.Millisecond)
	s.Require().NoError(err)

	s.random.QueueIntn(0)
	s.Equal(steering.MinInterval, pacer.Arm())

	zero, err := steering.NewPacer(s.clock, s.random, 0, 0)
	s.Require().NoError(err)
	s.Equal(steering.MinInterval, zero.Arm())
}

func (s *SchedulerSuite) TestStepsLeftOncePerInterval() {
	sched := s.newScheduler(100*time.Millisecond, 0, fixedPolicy(false))
	sched.Begin(target(model.Position{Col: 1, Row: 2}, model.RotationTop))

	var moveTimes []time.Duration
	start := s.clock.Now()
	for i := 0; sched.Active(); i++ {
		s.Require().Less(i, 1000)
		if a := sched.Tick(); a == steering.ActionMoveLeft {
			moveTimes = append(moveTimes, s.clock.CurrentTime.Sub(start))
		}
		s.clock.AdvanceMs(1)
	}

	s.Equal([]time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, moveTimes)
	s.Equal([]string{"left", "left"}, s.controls.calls)
	s.Equal(1, s.controls.main.Col)
	s.Equal(1, s.controls.sat.Col)
	s.Equal("normal", s.controls.speed)
}

func (s *SchedulerSuite) TestNeverTwoActionsWithinMinimumInterval() {
	sched := s.newScheduler(0, 0, fixedPolicy(true))
	sched.Begin(target(model.Position{Col: 0, Row: 2}, model.RotationRight))

	// several ticks per millisecond
	var last time.Time
	actions := 0
	for i := 0; sched.Active(); i++ {
		s.Require().Less(i, 1000)
		if sched.Tick() != steering.ActionNone {
			if actions > 0 {
				s.GreaterOrEqual(s.clock.CurrentTime.Sub(last), steering.MinInterval)
			}
			last = s.clock.CurrentTime
			actions++
		}
		if i%3 == 2 {
			s.clock.AdvanceMs(1)
		}
	}
	s.Equal([]string{"cw", "left", "left", "left"}, s.controls.calls)
	s.Equal(5, actions)
	s.Equal("max", s.controls.speed)
}

func (s *SchedulerSuite) TestLeftTargetRotatesCounterClockwise() {
	sched := s.newScheduler(10*time.Millisecond, 0, fixedPolicy(false))
	sched.Begin(target(model.Position{Col: 3, Row: 2}, model.RotationLeft))

	actions := s.drive(sched, 1000)
	s.Equal([]steering.Action{steering.ActionRotateCounterClockwise, steering.ActionNaturalDrop}, actions)
	s.Equal(model.Position{Col: 2, Row: 2}, s.controls.sat)
}

func (s *SchedulerSuite) TestRightTargetRotatesClockwise() {
	sched := s.newScheduler(10*time.Millisecond, 0, fixedPolicy(false))
	sched.Begin(target(model.Position{Col: 4, Row: 2}, model.RotationRight))

	actions := s.drive(sched, 1000)
	s.Equal([]steering.Action{
		steering.ActionRotateClockwise,
		steering.ActionMoveRight,
		steering.ActionNaturalDrop,
	}, actions)
	s.Equal(model.Position{Col: 5, Row: 2}, s.controls.sat)
}

func (s *SchedulerSuite) TestBottomTargetRotatesClockwiseTwice() {
	sched := s.newScheduler(10*time.Millisecond, 0, fixedPolicy(false))
	sched.Begin(target(model.Position{Col: 3, Row: 2}, model.RotationBottom))

	actions := s.drive(sched, 1000)
	s.Equal([]steering.Action{
		steering.ActionRotateClockwise,
		steering.ActionRotateClockwise,
		steering.ActionNaturalDrop,
	}, actions)
	s.Equal(model.Position{Col: 3, Row: 3}, s.controls.sat)
}

// Top and Bottom targets share the clockwise correction, so recovering Top
// from Right takes three turns where one counter-clockwise turn would do.
// This pins the observed behaviour rather than endorsing it.
func (s *SchedulerSuite) TestTopTargetSharesClockwiseCorrectionWithBottom() {
	s.controls.sat = model.Position{Col: 4, Row: 2}
	sched := s.newScheduler(10*time.Millisecond, 0, fixedPolicy(false))
	sched.Begin(target(model.Position{Col: 3, Row: 2}, model.RotationTop))

	s.drive(sched, 1000)
	s.Equal([]string{"cw", "cw", "cw"}, s.controls.calls)
	s.Equal(model.Position{Col: 3, Row: 1}, s.controls.sat)
}

func (s *SchedulerSuite) TestWaitsUntilPieceIsVisible() {
	s.controls.main = model.Position{Col: 3, Row: -1}
	s.controls.sat = model.Position{Col: 3, Row: -2}
	sched := s.newScheduler(10*time.Millisecond, 0, fixedPolicy(false))
	sched.Begin(target(model.Position{Col: 1, Row: 2}, model.RotationTop))

	s.clock.AdvanceMs(500)
	s.Equal(steering.ActionNone, sched.Tick())
	s.Empty(s.controls.calls)

	s.controls.main.Row = 0
	s.controls.sat.Row = -1
	s.Equal(steering.ActionMoveLeft, sched.Tick())
}

func (s *SchedulerSuite) TestBottomTargetWaitsForSatellite() {
	s.controls.main = model.Position{Col: 3, Row: 0}
	s.controls.sat = model.Position{Col: 3, Row: -1}
	sched := s.newScheduler(10*time.Millisecond, 0, fixedPolicy(false))
	sched.Begin(target(model.Position{Col: 3, Row: 0}, model.RotationBottom))

	s.clock.AdvanceMs(50)
	s.Equal(steering.ActionNone, sched.Tick(), "satellite leads a bottom target and is still hidden")

	s.controls.main.Row = 1
	s.controls.sat.Row = 0
	s.Equal(steering.ActionRotateClockwise, sched.Tick())
}

func (s *SchedulerSuite) TestFastDropWhenPolicyFavoursIt() {
	sched := s.newScheduler(10*time.Millisecond, 0, fixedPolicy(true))
	sched.Begin(target(model.Position{Col: 3, Row: 2}, model.RotationTop))

	actions := s.drive(sched, 1000)
	s.Equal([]steering.Action{steering.ActionFastDrop}, actions)
	s.Equal("max", s.controls.speed)
	s.True(sched.AtFinalPosition())
	s.False(sched.Active())
	s.Equal(steering.ActionNone, sched.Tick())
}

func (s *SchedulerSuite) TestCancelStopsSteering() {
	sched := s.newScheduler(10*time.Millisecond, 0, fixedPolicy(false))
	sched.Begin(target(model.Position{Col: 0, Row: 2}, model.RotationTop))
	sched.Cancel()

	s.clock.AdvanceMs(100)
	s.Equal(steering.ActionNone, sched.Tick())
	s.Empty(s.controls.calls)
}
