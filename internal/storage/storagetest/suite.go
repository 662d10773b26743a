// Package storagetest holds the behaviour every storage backend must share
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gemfall/internal/model"
	"github.com/mcoot/gemfall/internal/storage"
)

// Suite runs backend-agnostic storage tests. Embed it and set NewStorage.
type Suite struct {
	suite.Suite

	// NewStorage returns an empty backend; register teardown with t.Cleanup
	NewStorage func(t *testing.T) storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Storage = s.NewStorage(s.T())
	s.Ctx = context.Background()
}

func simulation(id string, startedAt time.Time) *model.SimulationResult {
	return &model.SimulationResult{
		ID:           model.SimulationID(id),
		Profile:      model.ProfileNormal,
		Seed:         "seed-" + id,
		Width:        6,
		Height:       12,
		Pieces:       50,
		Score:        1230,
		MaxChain:     3,
		TilesCleared: 40,
		Actions:      210,
		Evaluations:  9000,
		Ticks:        4000,
		StartedAt:    startedAt,
		Elapsed:      1500 * time.Millisecond,
	}
}

// Profile tests

func (s *Suite) TestSaveAndGetProfile() {
	profile := &model.Profile{Name: "aggressive", Side: model.Side1P, AverageWaitMs: 90, JitterMs: 10, Depth: 3}

	s.Require().NoError(s.Storage.SaveProfile(s.Ctx, profile))

	retrieved, err := s.Storage.GetProfile(s.Ctx, "aggressive")
	s.Require().NoError(err)
	s.Equal(*profile, *retrieved)
}

func (s *Suite) TestGetProfileNotFound() {
	_, err := s.Storage.GetProfile(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *Suite) TestSaveProfileOverwrites() {
	s.Require().NoError(s.Storage.SaveProfile(s.Ctx, &model.Profile{Name: "p", Depth: 1}))
	s.Require().NoError(s.Storage.SaveProfile(s.Ctx, &model.Profile{Name: "p", Depth: 2}))

	retrieved, err := s.Storage.GetProfile(s.Ctx, "p")
	s.Require().NoError(err)
	s.Equal(2, retrieved.Depth)

	profiles, err := s.Storage.ListProfiles(s.Ctx)
	s.Require().NoError(err)
	s.Len(profiles, 1)
}

func (s *Suite) TestListProfilesSortedByName() {
	for _, name := range []string{"zeta", "alpha", "mid"} {
		s.Require().NoError(s.Storage.SaveProfile(s.Ctx, &model.Profile{Name: name, Depth: 1}))
	}

	profiles, err := s.Storage.ListProfiles(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(profiles, 3)
	s.Equal("alpha", profiles[0].Name)
	s.Equal("mid", profiles[1].Name)
	s.Equal("zeta", profiles[2].Name)
}

func (s *Suite) TestListProfilesEmpty() {
	profiles, err := s.Storage.ListProfiles(s.Ctx)
	s.Require().NoError(err)
	s.Empty(profiles)
}

func (s *Suite) TestDeleteProfile() {
	s.Require().NoError(s.Storage.SaveProfile(s.Ctx, &model.Profile{Name: "gone", Depth: 1}))

	s.Require().NoError(s.Storage.DeleteProfile(s.Ctx, "gone"))

	_, err := s.Storage.GetProfile(s.Ctx, "gone")
	s.ErrorIs(err, model.ErrProfileNotFound)
	profiles, err := s.Storage.ListProfiles(s.Ctx)
	s.Require().NoError(err)
	s.Empty(profiles)
}

func (s *Suite) TestDeleteMissingProfile() {
	err := s.Storage.DeleteProfile(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

// Simulation tests

func (s *Suite) TestSaveAndGetSimulation() {
	started := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	result := simulation("sim-1", started)
	result.ToppedOut = true

	s.Require().NoError(s.Storage.SaveSimulation(s.Ctx, result))

	retrieved, err := s.Storage.GetSimulation(s.Ctx, "sim-1")
	s.Require().NoError(err)
	s.True(started.Equal(retrieved.StartedAt))
	retrieved.StartedAt = result.StartedAt
	s.Equal(*result, *retrieved)
}

func (s *Suite) TestGetSimulationNotFound() {
	_, err := s.Storage.GetSimulation(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSimulationNotFound)
}

func (s *Suite) TestListSimulationsNewestFirst() {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(s.Storage.SaveSimulation(s.Ctx, simulation("sim-old", base)))
	s.Require().NoError(s.Storage.SaveSimulation(s.Ctx, simulation("sim-new", base.Add(time.Hour))))
	s.Require().NoError(s.Storage.SaveSimulation(s.Ctx, simulation("sim-mid", base.Add(time.Minute))))

	results, err := s.Storage.ListSimulations(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal(model.SimulationID("sim-new"), results[0].ID)
	s.Equal(model.SimulationID("sim-mid"), results[1].ID)
	s.Equal(model.SimulationID("sim-old"), results[2].ID)
}

func (s *Suite) TestConcurrentSaves() {
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Storage.SaveProfile(s.Ctx, &model.Profile{Name: fmt.Sprintf("p-%02d", i), Depth: 1})
		}()
	}
	wg.Wait()

	profiles, err := s.Storage.ListProfiles(s.Ctx)
	s.Require().NoError(err)
	s.Len(profiles, 20)
}
