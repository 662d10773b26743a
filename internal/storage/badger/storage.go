package badger

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/mcoot/gemfall/internal/model"
	"github.com/mcoot/gemfall/internal/storage"
)

const (
	profilePrefix    = "profile/"
	simulationPrefix = "simulation/"
)

// Config holds BadgerDB settings
type Config struct {
	// Dir is the database directory; ignored when InMemory is set
	Dir      string
	InMemory bool

	// SimulationTTL expires recorded simulations; zero keeps them forever
	SimulationTTL time.Duration
}

// Storage is an embedded BadgerDB implementation of the storage interface
type Storage struct {
	db  *badgerdb.DB
	cfg Config
}

// New opens (or creates) the database
func New(cfg Config) (*Storage, error) {
	opts := badgerdb.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db, cfg: cfg}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	return s.put(profilePrefix+profile.Name, profile, 0)
}

func (s *Storage) GetProfile(ctx context.Context, name string) (*model.Profile, error) {
	var profile model.Profile
	if err := s.get(profilePrefix+name, &profile, model.ErrProfileNotFound); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	profiles, err := list[model.Profile](s.db, profilePrefix)
	if err != nil {
		return nil, err
	}
	storage.SortProfiles(profiles)
	return profiles, nil
}

func (s *Storage) DeleteProfile(ctx context.Context, name string) error {
	key := []byte(profilePrefix + name)
	return s.db.Update(func(txn *badgerdb.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				return model.ErrProfileNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
}

// Simulation operations

func (s *Storage) SaveSimulation(ctx context.Context, result *model.SimulationResult) error {
	return s.put(simulationPrefix+string(result.ID), result, s.cfg.SimulationTTL)
}

func (s *Storage) GetSimulation(ctx context.Context, id model.SimulationID) (*model.SimulationResult, error) {
	var result model.SimulationResult
	if err := s.get(simulationPrefix+string(id), &result, model.ErrSimulationNotFound); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Storage) ListSimulations(ctx context.Context) ([]*model.SimulationResult, error) {
	results, err := list[model.SimulationResult](s.db, simulationPrefix)
	if err != nil {
		return nil, err
	}
	storage.SortSimulations(results)
	return results, nil
}

func (s *Storage) put(key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry([]byte(key), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

func (s *Storage) get(key string, v any, notFound error) error {
	return s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return notFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

func list[T any](db *badgerdb.DB, prefix string) ([]*T, error) {
	items := []*T{}
	err := db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var v T
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &v)
			}); err != nil {
				return err
			}
			items = append(items, &v)
		}
		return nil
	})
	return items, err
}
