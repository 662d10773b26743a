package steering

import (
	"time"

	"github.com/mcoot/gemfall/internal/dependencies/clock"
	"github.com/mcoot/gemfall/internal/dependencies/random"
	"github.com/mcoot/gemfall/internal/model"
)

// MinInterval is the shortest gap the pacer ever allows between actions
const MinInterval = time.Millisecond

// Pacer rate-limits steering actions to one per randomized interval of
// average +/- jitter
type Pacer struct {
	clock   clock.Clock
	random  random.Random
	average time.Duration
	jitter  time.Duration

	next  time.Time
	armed bool
}

// NewPacer creates a Pacer. Negative average or jitter is rejected.
func NewPacer(clk clock.Clock, rnd random.Random, average, jitter time.Duration) (*Pacer, error) {
	if average < 0 {
		return nil, model.ErrNegativeWait
	}
	if jitter < 0 {
		return nil, model.ErrNegativeJitter
	}
	return &Pacer{
		clock:   clk,
		random:  rnd,
		average: average,
		jitter:  jitter,
	}, nil
}

// Ready returns true once the current interval has elapsed
func (p *Pacer) Ready() bool {
	return !p.armed || !p.clock.Now().Before(p.next)
}

// Arm starts a new interval from now and returns its length
func (p *Pacer) Arm() time.Duration {
	interval := p.interval()
	p.next = p.clock.Now().Add(interval)
	p.armed = true
	return interval
}

// Disarm makes the pacer ready immediately
func (p *Pacer) Disarm() {
	p.armed = false
}

// interval draws average +/- jitter at millisecond resolution, never below
// MinInterval
func (p *Pacer) interval() time.Duration {
	ms := p.average.Milliseconds()
	if j := p.jitter.Milliseconds(); j > 0 {
		ms += int64(p.random.Intn(int(2*j+1))) - j
	}
	d := time.Duration(ms) * time.Millisecond
	if d < MinInterval {
		d = MinInterval
	}
	return d
}
