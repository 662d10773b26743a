package model

import "time"

// SimulationID uniquely identifies a recorded simulation
type SimulationID string

// Playfield defaults
const (
	DefaultWidth  = 6
	DefaultHeight = 12
	DefaultPieces = 100
)

// SimulationRequest describes a headless game played by one AI profile
type SimulationRequest struct {
	Profile string `json:"profile"`
	Seed    string `json:"seed"`
	Pieces  int    `json:"pieces"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// WithDefaults fills unset fields
func (r SimulationRequest) WithDefaults() SimulationRequest {
	if r.Profile == "" {
		r.Profile = ProfileNormal
	}
	if r.Pieces <= 0 {
		r.Pieces = DefaultPieces
	}
	if r.Width == 0 {
		r.Width = DefaultWidth
	}
	if r.Height == 0 {
		r.Height = DefaultHeight
	}
	return r
}

// SimulationResult records the outcome of a headless game
type SimulationResult struct {
	ID           SimulationID  `json:"id"`
	Profile      string        `json:"profile"`
	Seed         string        `json:"seed"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	Pieces       int           `json:"pieces"`
	Score        int           `json:"score"`
	MaxChain     int           `json:"max_chain"`
	TilesCleared int           `json:"tiles_cleared"`
	Actions      int           `json:"actions"`
	Evaluations  int           `json:"evaluations"`
	Ticks        int           `json:"ticks"`
	ToppedOut    bool          `json:"topped_out"`
	StartedAt    time.Time     `json:"started_at"`
	Elapsed      time.Duration `json:"elapsed"`
}
