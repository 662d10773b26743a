package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gemfall/internal/api"
	"github.com/mcoot/gemfall/internal/api/response"
	"github.com/mcoot/gemfall/internal/factory"
)

const profileFile = `profiles:
  - name: sprinter
    side: 1p
    average_wait_ms: 80
    jitter_ms: 20
    depth: 2
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func runJSON[T any](t *testing.T, args ...string) T {
	t.Helper()
	out, err := run(t, "", append([]string{"--output", "json"}, args...)...)
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func startServer(t *testing.T) string {
	t.Helper()
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)
	srv := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:            zerolog.Nop(),
		ProfileService:    app.ProfileService,
		SimulationService: app.SimulationService,
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestProfilesListText(t *testing.T) {
	out, err := run(t, "", "profiles", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "NAME")
	for _, name := range []string{"easy", "normal", "hard"} {
		assert.Contains(t, out, name)
	}
}

func TestProfilesShowJSON(t *testing.T) {
	p := runJSON[response.Profile](t, "profiles", "show", "hard")
	assert.Equal(t, 3, p.Depth)
	assert.True(t, p.Builtin)
}

func TestProfilesShowUnknown(t *testing.T) {
	_, err := run(t, "", "profiles", "show", "ghost")
	assert.Error(t, err)
}

func TestImportPersistsWithBadger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profileFile), 0o600))
	storage := []string{"--storage", "badger", "--badger-dir", filepath.Join(dir, "db")}

	imported := runJSON[[]response.Profile](t, append(storage, "profiles", "import", path)...)
	require.Len(t, imported, 1)
	assert.Equal(t, "sprinter", imported[0].Name)

	p := runJSON[response.Profile](t, append(storage, "profiles", "show", "sprinter")...)
	assert.Equal(t, 80, p.AverageWaitMs)

	out, err := run(t, "", append(storage, "profiles", "delete", "sprinter")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted profile sprinter")

	_, err = run(t, "", append(storage, "profiles", "show", "sprinter")...)
	assert.Error(t, err)
}

func TestImportFromStdin(t *testing.T) {
	out, err := run(t, profileFile, "profiles", "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "sprinter")
}

func TestDeleteBuiltinFails(t *testing.T) {
	_, err := run(t, "", "profiles", "delete", "easy")
	assert.Error(t, err)
}

func TestSimulateJSON(t *testing.T) {
	sims := runJSON[[]response.Simulation](t, "simulate", "--profile", "easy", "--seed", "cli", "--pieces", "4")
	require.Len(t, sims, 1)
	assert.Equal(t, "cli", sims[0].Seed)
	assert.Equal(t, "easy", sims[0].Profile)
}

func TestSimulateBatchText(t *testing.T) {
	out, err := run(t, "", "simulate", "-p", "easy", "--seed", "b", "--pieces", "3", "-n", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "b-1")
	assert.Contains(t, out, "b-2")
	assert.Contains(t, out, "Mean score")
}

func TestSimulateRejectsCount(t *testing.T) {
	_, err := run(t, "", "simulate", "--count", "0")
	assert.ErrorContains(t, err, "count")
}

func TestOutputFromEnvironment(t *testing.T) {
	t.Setenv("GEMFALL_OUTPUT", "json")

	out, err := run(t, "", "profiles", "show", "easy")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), out)
}

func TestFlagOverridesEnvironment(t *testing.T) {
	t.Setenv("GEMFALL_OUTPUT", "json")

	out, err := run(t, "", "--output", "text", "profiles", "show", "easy")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile: easy (builtin)")
}

func TestOutputFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gemfall.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: json\n"), 0o600))

	out, err := run(t, "", "--config", path, "profiles", "show", "normal")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)), out)
}

func TestInvalidOutputFormat(t *testing.T) {
	_, err := run(t, "", "--output", "xml", "profiles", "list")
	assert.ErrorContains(t, err, "output")
}

func TestServerStorageFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "badger")
	t.Setenv("BADGER_DIR", "/var/lib/gemfall")
	t.Setenv("PORT", "9090")

	root := NewRootCmd()
	c, err := LoadConfig(root, "")
	require.NoError(t, err)

	assert.Equal(t, factory.StorageTypeBadger, c.StorageType)
	assert.Equal(t, "/var/lib/gemfall", c.BadgerDir)
	assert.Equal(t, 9090, c.Port)

	fc, err := c.FactoryConfig(zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, fc.BadgerConfig)
	assert.Equal(t, "/var/lib/gemfall", fc.BadgerConfig.Dir)
}

func TestRemoteCommands(t *testing.T) {
	url := startServer(t)

	out, err := run(t, "", "--server", url, "health")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: ok")

	profiles := runJSON[[]response.Profile](t, "--server", url, "profiles", "list")
	assert.Len(t, profiles, 3)

	imported := runJSON[[]response.Profile](t, "--server", url, "profiles", "import", writeProfiles(t))
	require.Len(t, imported, 1)

	profiles = runJSON[[]response.Profile](t, "--server", url, "profiles", "list")
	assert.Len(t, profiles, 4)

	sims := runJSON[[]response.Simulation](t, "--server", url, "simulate", "-p", "sprinter", "--seed", "r", "--pieces", "3", "-n", "2")
	require.Len(t, sims, 2)
	assert.Equal(t, "r-2", sims[1].Seed)

	listed := runJSON[[]response.Simulation](t, "--server", url, "simulations")
	assert.Len(t, listed, 2)

	_, err = run(t, "", "--server", url, "profiles", "delete", "hard")
	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "BUILTIN_PROFILE", remote.Code)
}

func TestHealthRequiresServer(t *testing.T) {
	_, err := run(t, "", "health")
	assert.Error(t, err)
}

func writeProfiles(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profileFile), 0o600))
	return path
}
