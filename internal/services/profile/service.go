package profile

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/mcoot/gemfall/internal/model"
	"github.com/mcoot/gemfall/internal/storage"
)

// Service manages AI profiles. The difficulty presets always exist and
// cannot be replaced or deleted.
type Service struct {
	storage storage.Storage
	logger  zerolog.Logger
}

// New creates a new profile Service
func New(storage storage.Storage, logger zerolog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With().Str("component", "profile-service").Logger(),
	}
}

// File is the YAML document accepted by ImportYAML
type File struct {
	Profiles []model.Profile `yaml:"profiles"`
}

// Get returns a preset or stored profile by name
func (s *Service) Get(ctx context.Context, name string) (*model.Profile, error) {
	if p, ok := model.BuiltinProfile(name); ok {
		return &p, nil
	}
	return s.storage.GetProfile(ctx, name)
}

// List returns the presets, easiest first, followed by stored profiles by name
func (s *Service) List(ctx context.Context) ([]model.Profile, error) {
	stored, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	custom := lo.FilterMap(stored, func(p *model.Profile, _ int) (model.Profile, bool) {
		_, builtin := model.BuiltinProfile(p.Name)
		return *p, !builtin
	})
	return append(model.BuiltinProfiles(), custom...), nil
}

// Save validates and stores a custom profile, replacing one with the same name
func (s *Service) Save(ctx context.Context, p model.Profile) (*model.Profile, error) {
	p, err := prepare(p)
	if err != nil {
		return nil, err
	}
	if err := s.storage.SaveProfile(ctx, &p); err != nil {
		return nil, fmt.Errorf("save profile %q: %w", p.Name, err)
	}
	s.logger.Info().Str("profile", p.Name).Int("depth", p.Depth).Msg("profile saved")
	return &p, nil
}

// Delete removes a custom profile
func (s *Service) Delete(ctx context.Context, name string) error {
	if _, ok := model.BuiltinProfile(name); ok {
		return model.ErrBuiltinProfile
	}
	if err := s.storage.DeleteProfile(ctx, name); err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return err
		}
		return fmt.Errorf("delete profile %q: %w", name, err)
	}
	s.logger.Info().Str("profile", name).Msg("profile deleted")
	return nil
}

// ImportYAML validates every profile in r and then saves them all. Nothing is
// saved if any profile is invalid.
func (s *Service) ImportYAML(ctx context.Context, r io.Reader) ([]model.Profile, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty profile file", model.ErrInvalidProfile)
		}
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidProfile, err)
	}

	if dupes := lo.FindDuplicatesBy(file.Profiles, func(p model.Profile) string { return p.Name }); len(dupes) > 0 {
		return nil, fmt.Errorf("%w: duplicate profile %q", model.ErrInvalidProfile, dupes[0].Name)
	}

	prepared := make([]model.Profile, 0, len(file.Profiles))
	for _, p := range file.Profiles {
		p, err := prepare(p)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, p)
	}

	for i := range prepared {
		if err := s.storage.SaveProfile(ctx, &prepared[i]); err != nil {
			return nil, fmt.Errorf("save profile %q: %w", prepared[i].Name, err)
		}
	}
	s.logger.Info().Int("count", len(prepared)).Msg("profiles imported")
	return prepared, nil
}

// prepare applies defaults and rejects invalid or preset profiles
func prepare(p model.Profile) (model.Profile, error) {
	if p.Side == "" {
		p.Side = model.Side2P
	}
	p.Builtin = false
	if err := p.Validate(); err != nil {
		return p, err
	}
	if _, ok := model.BuiltinProfile(p.Name); ok {
		return p, fmt.Errorf("%w: %q", model.ErrBuiltinProfile, p.Name)
	}
	return p, nil
}
