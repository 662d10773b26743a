package badger

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gemfall/internal/model"
	"github.com/mcoot/gemfall/internal/storage"
	"github.com/mcoot/gemfall/internal/storage/storagetest"
)

func newInMemory(t *testing.T) *Storage {
	st, err := New(Config{InMemory: true})
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &StorageSuite{Suite: storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage { return newInMemory(t) },
	}})
}

func (s *StorageSuite) TestPersistsAcrossReopen() {
	dir := s.T().TempDir()

	st, err := New(Config{Dir: dir})
	s.Require().NoError(err)
	s.Require().NoError(st.SaveProfile(s.Ctx, &model.Profile{Name: "durable", Depth: 2}))
	s.Require().NoError(st.Close())

	reopened, err := New(Config{Dir: dir})
	s.Require().NoError(err)
	defer reopened.Close()

	profile, err := reopened.GetProfile(s.Ctx, "durable")
	s.Require().NoError(err)
	s.Equal(2, profile.Depth)
}

func (s *StorageSuite) TestPrefixesDoNotOverlap() {
	s.Require().NoError(s.Storage.SaveProfile(s.Ctx, &model.Profile{Name: "x", Depth: 1}))
	s.Require().NoError(s.Storage.SaveSimulation(s.Ctx, &model.SimulationResult{ID: "x"}))

	profiles, err := s.Storage.ListProfiles(s.Ctx)
	s.Require().NoError(err)
	s.Len(profiles, 1)

	results, err := s.Storage.ListSimulations(s.Ctx)
	s.Require().NoError(err)
	s.Len(results, 1)
}
