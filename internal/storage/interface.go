package storage

import (
	"cmp"
	"context"
	"slices"

	"github.com/mcoot/gemfall/internal/model"
)

// Storage defines the interface for data persistence. Implementations must be
// safe for concurrent use.
type Storage interface {
	// Profile operations
	SaveProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, name string) (*model.Profile, error)
	ListProfiles(ctx context.Context) ([]*model.Profile, error)
	DeleteProfile(ctx context.Context, name string) error

	// Simulation operations
	SaveSimulation(ctx context.Context, result *model.SimulationResult) error
	GetSimulation(ctx context.Context, id model.SimulationID) (*model.SimulationResult, error)
	ListSimulations(ctx context.Context) ([]*model.SimulationResult, error)
}

// SortProfiles orders profiles by name
func SortProfiles(profiles []*model.Profile) {
	slices.SortFunc(profiles, func(a, b *model.Profile) int {
		return cmp.Compare(a.Name, b.Name)
	})
}

// SortSimulations orders results newest first, then by ID
func SortSimulations(results []*model.SimulationResult) {
	slices.SortFunc(results, func(a, b *model.SimulationResult) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
