package profile

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gemfall/internal/model"
	"github.com/mcoot/gemfall/internal/storage/memory"
	"github.com/mcoot/gemfall/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestGetBuiltin() {
	p, err := s.service.Get(s.ctx, model.ProfileHard)
	s.Require().NoError(err)
	s.Equal(3, p.Depth)
	s.True(p.Builtin)
}

func (s *ServiceSuite) TestGetNotFound() {
	_, err := s.service.Get(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *ServiceSuite) TestSaveAppliesDefaults() {
	saved, err := s.service.Save(s.ctx, model.Profile{Name: "twitchy", AverageWaitMs: 50, Depth: 2, Builtin: true})
	s.Require().NoError(err)
	s.Equal(model.Side2P, saved.Side)
	s.False(saved.Builtin)

	got, err := s.service.Get(s.ctx, "twitchy")
	s.Require().NoError(err)
	s.Equal(*saved, *got)
}

func (s *ServiceSuite) TestSaveRejectsInvalid() {
	_, err := s.service.Save(s.ctx, model.Profile{Name: "deep", Depth: 4})
	s.ErrorIs(err, model.ErrInvalidProfile)
	s.ErrorIs(err, model.ErrInvalidDepth)

	_, err = s.service.Save(s.ctx, model.Profile{Name: "wobbly", Depth: 1, JitterMs: -1})
	s.ErrorIs(err, model.ErrNegativeJitter)

	_, err = s.service.Save(s.ctx, model.Profile{Depth: 1})
	s.ErrorIs(err, model.ErrInvalidProfile)

	_, err = s.service.Save(s.ctx, model.Profile{Name: "sided", Side: "3p", Depth: 1})
	s.ErrorIs(err, model.ErrInvalidProfile)
}

func (s *ServiceSuite) TestSaveRejectsPresetName() {
	_, err := s.service.Save(s.ctx, model.Profile{Name: model.ProfileEasy, Depth: 3})
	s.ErrorIs(err, model.ErrBuiltinProfile)

	p, err := s.service.Get(s.ctx, model.ProfileEasy)
	s.Require().NoError(err)
	s.Equal(1, p.Depth)
}

func (s *ServiceSuite) TestListPresetsFirst() {
	_, err := s.service.Save(s.ctx, model.Profile{Name: "zed", Depth: 1})
	s.Require().NoError(err)
	_, err = s.service.Save(s.ctx, model.Profile{Name: "abe", Depth: 2})
	s.Require().NoError(err)

	profiles, err := s.service.List(s.ctx)
	s.Require().NoError(err)

	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	s.Equal([]string{model.ProfileEasy, model.ProfileNormal, model.ProfileHard, "abe", "zed"}, names)
}

func (s *ServiceSuite) TestDelete() {
	_, err := s.service.Save(s.ctx, model.Profile{Name: "temp", Depth: 1})
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, "temp"))

	_, err = s.service.Get(s.ctx, "temp")
	s.ErrorIs(err, model.ErrProfileNotFound)
	s.ErrorIs(s.service.Delete(s.ctx, "temp"), model.ErrProfileNotFound)
}

func (s *ServiceSuite) TestDeletePresetRefused() {
	s.ErrorIs(s.service.Delete(s.ctx, model.ProfileNormal), model.ErrBuiltinProfile)
}

func (s *ServiceSuite) TestImportYAML() {
	doc := `
profiles:
  - name: sprinter
    side: 1p
    average_wait_ms: 60
    jitter_ms: 20
    depth: 1
  - name: thinker
    average_wait_ms: 500
    depth: 3
`
	imported, err := s.service.ImportYAML(s.ctx, strings.NewReader(doc))
	s.Require().NoError(err)
	s.Require().Len(imported, 2)
	s.Equal(model.Side1P, imported[0].Side)
	s.Equal(model.Side2P, imported[1].Side)

	thinker, err := s.service.Get(s.ctx, "thinker")
	s.Require().NoError(err)
	s.Equal(500, thinker.AverageWaitMs)
	s.Equal(3, thinker.Depth)
}

func (s *ServiceSuite) TestImportYAMLIsAllOrNothing() {
	doc := `
profiles:
  - name: fine
    depth: 2
  - name: broken
    depth: 9
`
	_, err := s.service.ImportYAML(s.ctx, strings.NewReader(doc))
	s.ErrorIs(err, model.ErrInvalidDepth)

	_, err = s.service.Get(s.ctx, "fine")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *ServiceSuite) TestImportYAMLRejectsBadDocuments() {
	cases := map[string]string{
		"empty":     "",
		"unknown":   "profiles:\n  - name: x\n    depth: 1\n    speed: 3\n",
		"duplicate": "profiles:\n  - name: x\n    depth: 1\n  - name: x\n    depth: 2\n",
		"malformed": "profiles: [",
	}
	for name, doc := range cases {
		s.Run(name, func() {
			_, err := s.service.ImportYAML(s.ctx, strings.NewReader(doc))
			s.ErrorIs(err, model.ErrInvalidProfile)
		})
	}
}

func (s *ServiceSuite) TestImportYAMLRejectsPresetName() {
	doc := "profiles:\n  - name: hard\n    depth: 1\n"
	_, err := s.service.ImportYAML(s.ctx, strings.NewReader(doc))
	s.ErrorIs(err, model.ErrBuiltinProfile)
}
