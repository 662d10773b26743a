package response

import (
	"time"

	"github.com/mcoot/gemfall/internal/model"
)

// Profile represents an AI profile in API responses
type Profile struct {
	Name          string `json:"name"`
	Side          string `json:"side"`
	AverageWaitMs int    `json:"average_wait_ms"`
	JitterMs      int    `json:"jitter_ms"`
	Depth         int    `json:"depth"`
	Builtin       bool   `json:"builtin"`
}

// ProfileFromModel converts a model.Profile to a response Profile
func ProfileFromModel(p *model.Profile) Profile {
	return Profile{
		Name:          p.Name,
		Side:          string(p.Side),
		AverageWaitMs: p.AverageWaitMs,
		JitterMs:      p.JitterMs,
		Depth:         p.Depth,
		Builtin:       p.Builtin,
	}
}

// ProfileList is the response for listing profiles
type ProfileList struct {
	Profiles []Profile `json:"profiles"`
}

// ProfileListFromModel converts a slice of profiles
func ProfileListFromModel(profiles []model.Profile) ProfileList {
	list := ProfileList{Profiles: make([]Profile, len(profiles))}
	for i := range profiles {
		list.Profiles[i] = ProfileFromModel(&profiles[i])
	}
	return list
}

// Simulation represents a recorded simulation in API responses
type Simulation struct {
	ID           string    `json:"id"`
	Profile      string    `json:"profile"`
	Seed         string    `json:"seed"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	Pieces       int       `json:"pieces"`
	Score        int       `json:"score"`
	MaxChain     int       `json:"max_chain"`
	TilesCleared int       `json:"tiles_cleared"`
	Actions      int       `json:"actions"`
	Evaluations  int       `json:"evaluations"`
	Ticks        int       `json:"ticks"`
	ToppedOut    bool      `json:"topped_out"`
	StartedAt    time.Time `json:"started_at"`
	ElapsedMs    int64     `json:"elapsed_ms"`
}

// SimulationFromModel converts a model.SimulationResult
func SimulationFromModel(r *model.SimulationResult) Simulation {
	return Simulation{
		ID:           string(r.ID),
		Profile:      r.Profile,
		Seed:         r.Seed,
		Width:        r.Width,
		Height:       r.Height,
		Pieces:       r.Pieces,
		Score:        r.Score,
		MaxChain:     r.MaxChain,
		TilesCleared: r.TilesCleared,
		Actions:      r.Actions,
		Evaluations:  r.Evaluations,
		Ticks:        r.Ticks,
		ToppedOut:    r.ToppedOut,
		StartedAt:    r.StartedAt,
		ElapsedMs:    r.Elapsed.Milliseconds(),
	}
}

// SimulationList is the response for listing or batch-running simulations
type SimulationList struct {
	Simulations []Simulation `json:"simulations"`
}

// SimulationListFromModel converts a slice of results
func SimulationListFromModel(results []*model.SimulationResult) SimulationList {
	list := SimulationList{Simulations: make([]Simulation, len(results))}
	for i, r := range results {
		list.Simulations[i] = SimulationFromModel(r)
	}
	return list
}
