package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/gemfall/internal/model"
	"github.com/mcoot/gemfall/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, profileKey(profile.Name), data, 0)
	pipe.SAdd(ctx, profileIndexKey(), profile.Name)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetProfile(ctx context.Context, name string) (*model.Profile, error) {
	return getJSON[model.Profile](ctx, s.client, profileKey(name), model.ErrProfileNotFound)
}

func (s *Storage) ListProfiles(ctx context.Context) ([]*model.Profile, error) {
	profiles, err := listJSON[model.Profile](ctx, s.client, profileIndexKey(), profileKey)
	if err != nil {
		return nil, err
	}
	storage.SortProfiles(profiles)
	return profiles, nil
}

func (s *Storage) DeleteProfile(ctx context.Context, name string) error {
	pipe := s.client.Pipeline()
	del := pipe.Del(ctx, profileKey(name))
	pipe.SRem(ctx, profileIndexKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	if del.Val() == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}

// Simulation operations

func (s *Storage) SaveSimulation(ctx context.Context, result *model.SimulationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, simulationKey(result.ID), data, s.cfg.SimulationTTL)
	pipe.SAdd(ctx, simulationIndexKey(), string(result.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetSimulation(ctx context.Context, id model.SimulationID) (*model.SimulationResult, error) {
	return getJSON[model.SimulationResult](ctx, s.client, simulationKey(id), model.ErrSimulationNotFound)
}

func (s *Storage) ListSimulations(ctx context.Context) ([]*model.SimulationResult, error) {
	results, err := listJSON[model.SimulationResult](ctx, s.client, simulationIndexKey(), func(id string) string {
		return simulationKey(model.SimulationID(id))
	})
	if err != nil {
		return nil, err
	}
	storage.SortSimulations(results)
	return results, nil
}

func getJSON[T any](ctx context.Context, client *redis.Client, key string, notFound error) (*T, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound
		}
		return nil, err
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// listJSON loads every value named in an index SET. Members whose value has
// expired are dropped from the index.
func listJSON[T any](ctx context.Context, client *redis.Client, indexKey string, keyFor func(string) string) ([]*T, error) {
	members, err := client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []*T{}, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = keyFor(m)
	}

	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	items := make([]*T, 0, len(values))
	var stale []interface{}
	for i, val := range values {
		str, ok := val.(string)
		if !ok {
			stale = append(stale, members[i])
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(str), &v); err != nil {
			return nil, err
		}
		items = append(items, &v)
	}

	if len(stale) > 0 {
		if err := client.SRem(ctx, indexKey, stale...).Err(); err != nil {
			return nil, err
		}
	}
	return items, nil
}
