package request

import (
	"fmt"

	"github.com/mcoot/gemfall/internal/model"
)

// PutProfileRequest is the request body for creating or replacing a profile.
// The name comes from the path.
type PutProfileRequest struct {
	Side          string `json:"side,omitempty"`
	AverageWaitMs int    `json:"average_wait_ms"`
	JitterMs      int    `json:"jitter_ms"`
	Depth         int    `json:"depth"`
}

// CreateSimulationRequest is the request body for running simulations.
// Count above one runs a batch; a given seed is then suffixed per game.
type CreateSimulationRequest struct {
	Profile string `json:"profile,omitempty"`
	Seed    string `json:"seed,omitempty"`
	Pieces  int    `json:"pieces,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Count   int    `json:"count,omitempty"`
}

// Requests expands the body into one request per game
func (r CreateSimulationRequest) Requests() []model.SimulationRequest {
	base := model.SimulationRequest{
		Profile: r.Profile,
		Seed:    r.Seed,
		Pieces:  r.Pieces,
		Width:   r.Width,
		Height:  r.Height,
	}
	if r.Count <= 1 {
		return []model.SimulationRequest{base}
	}
	reqs := make([]model.SimulationRequest, r.Count)
	for i := range reqs {
		reqs[i] = base
		if base.Seed != "" {
			reqs[i].Seed = fmt.Sprintf("%s-%d", base.Seed, i+1)
		}
	}
	return reqs
}
