package model

import (
	"fmt"
	"time"
)

// Side identifies which playfield an AI controls
type Side string

const (
	Side1P Side = "1p"
	Side2P Side = "2p"
)

// Lookahead depth bounds
const (
	MinDepth = 1
	MaxDepth = 3
)

// Builtin profile names
const (
	ProfileEasy   = "easy"
	ProfileNormal = "normal"
	ProfileHard   = "hard"
)

// Profile configures one computer opponent
type Profile struct {
	Name          string `json:"name" yaml:"name"`
	Side          Side   `json:"side" yaml:"side"`
	AverageWaitMs int    `json:"average_wait_ms" yaml:"average_wait_ms"`
	JitterMs      int    `json:"jitter_ms" yaml:"jitter_ms"`
	Depth         int    `json:"depth" yaml:"depth"`
	Builtin       bool   `json:"builtin" yaml:"-"`
}

// AverageWait returns the mean interval between steering actions
func (p Profile) AverageWait() time.Duration {
	return time.Duration(p.AverageWaitMs) * time.Millisecond
}

// Jitter returns the maximum random deviation from the average wait
func (p Profile) Jitter() time.Duration {
	return time.Duration(p.JitterMs) * time.Millisecond
}

// Validate checks the profile can configure an engine
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if p.Side != "" && p.Side != Side1P && p.Side != Side2P {
		return fmt.Errorf("%w: unknown side %q", ErrInvalidProfile, p.Side)
	}
	if p.Depth < MinDepth || p.Depth > MaxDepth {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, ErrInvalidDepth)
	}
	if p.AverageWaitMs < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, ErrNegativeWait)
	}
	if p.JitterMs < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, ErrNegativeJitter)
	}
	return nil
}

// BuiltinProfiles returns the difficulty presets, easiest first
func BuiltinProfiles() []Profile {
	return []Profile{
		{Name: ProfileEasy, Side: Side2P, AverageWaitMs: 450, JitterMs: 150, Depth: 1, Builtin: true},
		{Name: ProfileNormal, Side: Side2P, AverageWaitMs: 280, JitterMs: 90, Depth: 2, Builtin: true},
		{Name: ProfileHard, Side: Side2P, AverageWaitMs: 140, JitterMs: 40, Depth: 3, Builtin: true},
	}
}

// BuiltinProfile looks up a preset by name
func BuiltinProfile(name string) (Profile, bool) {
	for _, p := range BuiltinProfiles() {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}
