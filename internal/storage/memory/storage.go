package memory

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/mcoot/gemfall/internal/model"
	"github.com/mcoot/gemfall/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	profiles    map[string]model.Profile
	simulations map[model.SimulationID]model.SimulationResult
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		profiles:    make(map[string]model.Profile),
		simulations: make(map[model.SimulationID]model.SimulationResult),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.Name] = *profile
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, name string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[name]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return &profile, nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profiles := lo.MapToSlice(s.profiles, func(_ string, p model.Profile) *model.Profile {
		return &p
	})
	storage.SortProfiles(profiles)
	return profiles, nil
}

func (s *Storage) DeleteProfile(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[name]; !ok {
		return model.ErrProfileNotFound
	}
	delete(s.profiles, name)
	return nil
}

// Simulation operations

func (s *Storage) SaveSimulation(ctx context.Context, result *model.SimulationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.simulations[result.ID] = *result
	return nil
}

func (s *Storage) GetSimulation(ctx context.Context, id model.SimulationID) (*model.SimulationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.simulations[id]
	if !ok {
		return nil, model.ErrSimulationNotFound
	}
	return &result, nil
}

func (s *Storage) ListSimulations(ctx context.Context) ([]*model.SimulationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := lo.MapToSlice(s.simulations, func(_ model.SimulationID, r model.SimulationResult) *model.SimulationResult {
		return &r
	})
	storage.SortSimulations(results)
	return results, nil
}
