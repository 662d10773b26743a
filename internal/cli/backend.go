package cli

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/gemfall/internal/api/request"
	"github.com/mcoot/gemfall/internal/api/response"
	"github.com/mcoot/gemfall/internal/factory"
	"github.com/mcoot/gemfall/internal/model"
	"github.com/mcoot/gemfall/internal/services/profile"
)

// backend runs commands either in-process or against a server
type backend interface {
	ListProfiles(ctx context.Context) ([]response.Profile, error)
	GetProfile(ctx context.Context, name string) (response.Profile, error)
	DeleteProfile(ctx context.Context, name string) error
	ImportProfiles(ctx context.Context, r io.Reader) ([]response.Profile, error)
	Simulate(ctx context.Context, req request.CreateSimulationRequest) ([]response.Simulation, error)
	Simulations(ctx context.Context) ([]response.Simulation, error)
	Close() error
}

// localBackend plays games in this process against the configured storage
type localBackend struct {
	app *factory.App
}

func (b *localBackend) ListProfiles(ctx context.Context) ([]response.Profile, error) {
	profiles, err := b.app.ProfileService.List(ctx)
	if err != nil {
		return nil, err
	}
	return response.ProfileListFromModel(profiles).Profiles, nil
}

func (b *localBackend) GetProfile(ctx context.Context, name string) (response.Profile, error) {
	p, err := b.app.ProfileService.Get(ctx, name)
	if err != nil {
		return response.Profile{}, err
	}
	return response.ProfileFromModel(p), nil
}

func (b *localBackend) DeleteProfile(ctx context.Context, name string) error {
	return b.app.ProfileService.Delete(ctx, name)
}

func (b *localBackend) ImportProfiles(ctx context.Context, r io.Reader) ([]response.Profile, error) {
	imported, err := b.app.ProfileService.ImportYAML(ctx, r)
	if err != nil {
		return nil, err
	}
	return response.ProfileListFromModel(imported).Profiles, nil
}

func (b *localBackend) Simulate(ctx context.Context, req request.CreateSimulationRequest) ([]response.Simulation, error) {
	reqs := req.Requests()
	if len(reqs) == 1 {
		result, err := b.app.SimulationService.Run(ctx, reqs[0])
		if err != nil {
			return nil, err
		}
		return []response.Simulation{response.SimulationFromModel(result)}, nil
	}
	results, err := b.app.SimulationService.RunBatch(ctx, reqs)
	if err != nil {
		return nil, err
	}
	return response.SimulationListFromModel(results).Simulations, nil
}

func (b *localBackend) Simulations(ctx context.Context) ([]response.Simulation, error) {
	results, err := b.app.SimulationService.List(ctx)
	if err != nil {
		return nil, err
	}
	return response.SimulationListFromModel(results).Simulations, nil
}

func (b *localBackend) Close() error {
	return b.app.Close()
}

// remoteBackend forwards commands to a running server
type remoteBackend struct {
	client *Client
}

func (b *remoteBackend) ListProfiles(ctx context.Context) ([]response.Profile, error) {
	var list response.ProfileList
	if err := b.client.Get(ctx, "/api/v1/profiles", &list); err != nil {
		return nil, err
	}
	return list.Profiles, nil
}

func (b *remoteBackend) GetProfile(ctx context.Context, name string) (response.Profile, error) {
	var p response.Profile
	err := b.client.Get(ctx, profilePath(name), &p)
	return p, err
}

func (b *remoteBackend) DeleteProfile(ctx context.Context, name string) error {
	return b.client.Delete(ctx, profilePath(name))
}

// ImportProfiles decodes the file locally and uploads each profile. Unlike a
// local import it is not atomic.
func (b *remoteBackend) ImportProfiles(ctx context.Context, r io.Reader) ([]response.Profile, error) {
	var file profile.File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidProfile, err)
	}

	saved := make([]response.Profile, 0, len(file.Profiles))
	for _, p := range file.Profiles {
		var out response.Profile
		err := b.client.Put(ctx, profilePath(p.Name), request.PutProfileRequest{
			Side:          string(p.Side),
			AverageWaitMs: p.AverageWaitMs,
			JitterMs:      p.JitterMs,
			Depth:         p.Depth,
		}, &out)
		if err != nil {
			return saved, fmt.Errorf("upload profile %q: %w", p.Name, err)
		}
		saved = append(saved, out)
	}
	return saved, nil
}

func (b *remoteBackend) Simulate(ctx context.Context, req request.CreateSimulationRequest) ([]response.Simulation, error) {
	if req.Count <= 1 {
		var sim response.Simulation
		if err := b.client.Post(ctx, "/api/v1/simulations", req, &sim); err != nil {
			return nil, err
		}
		return []response.Simulation{sim}, nil
	}
	var list response.SimulationList
	if err := b.client.Post(ctx, "/api/v1/simulations", req, &list); err != nil {
		return nil, err
	}
	return list.Simulations, nil
}

func (b *remoteBackend) Simulations(ctx context.Context) ([]response.Simulation, error) {
	var list response.SimulationList
	if err := b.client.Get(ctx, "/api/v1/simulations", &list); err != nil {
		return nil, err
	}
	return list.Simulations, nil
}

func (b *remoteBackend) Close() error { return nil }

// openBackend connects to the server when one is configured, otherwise it
// wires the application in-process
func openBackend(c *Config) (backend, error) {
	if c.ServerURL != "" {
		return &remoteBackend{client: NewClient(c.ServerURL)}, nil
	}
	fc, err := c.FactoryConfig(logger)
	if err != nil {
		return nil, err
	}
	app, err := factory.New(fc)
	if err != nil {
		return nil, err
	}
	return &localBackend{app: app}, nil
}
