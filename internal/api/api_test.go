package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gemfall/internal/api"
	"github.com/mcoot/gemfall/internal/api/apierr"
	"github.com/mcoot/gemfall/internal/api/response"
	"github.com/mcoot/gemfall/internal/factory"
	"github.com/mcoot/gemfall/internal/model"
)

type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:            zerolog.Nop(),
		ProfileService:    app.ProfileService,
		SimulationService: app.SimulationService,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	switch b := body.(type) {
	case nil:
	case string:
		reqBody.WriteString(b)
	default:
		raw, _ := json.Marshal(b)
		reqBody.Write(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestListProfilesIncludesBuiltins(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/profiles", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	list := decode[response.ProfileList](t, rr)
	require.Len(t, list.Profiles, 3)
	assert.Equal(t, model.ProfileEasy, list.Profiles[0].Name)
	assert.True(t, list.Profiles[0].Builtin)
}

func TestProfileLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, "/api/v1/profiles/sprinter", map[string]any{
		"average_wait_ms": 50,
		"jitter_ms":       5,
		"depth":           2,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	saved := decode[response.Profile](t, rr)
	assert.Equal(t, "sprinter", saved.Name)
	assert.Equal(t, string(model.Side2P), saved.Side)
	assert.False(t, saved.Builtin)

	rr = ts.request(http.MethodGet, "/api/v1/profiles/sprinter", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 50, decode[response.Profile](t, rr).AverageWaitMs)

	rr = ts.request(http.MethodDelete, "/api/v1/profiles/sprinter", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/profiles/sprinter", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeProfileNotFound, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestPutProfileValidates(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPut, "/api/v1/profiles/deep", map[string]any{"depth": 9})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidProfile, decode[apierr.ErrorResponse](t, rr).Error.Code)

	rr = ts.request(http.MethodPut, "/api/v1/profiles/deep", `{"depth": 1, "speed": 3}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestBuiltinProfilesAreProtected(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodDelete, "/api/v1/profiles/hard", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.request(http.MethodPut, "/api/v1/profiles/easy", map[string]any{"depth": 3})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeBuiltinProfile, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestRunAndFetchSimulation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/simulations", map[string]any{
		"profile": "easy",
		"seed":    "api",
		"pieces":  5,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	sim := decode[response.Simulation](t, rr)
	assert.Equal(t, "easy", sim.Profile)
	assert.Equal(t, "api", sim.Seed)
	assert.Equal(t, "/api/v1/simulations/"+sim.ID, rr.Header().Get("Location"))

	rr = ts.request(http.MethodGet, "/api/v1/simulations/"+sim.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, sim.Score, decode[response.Simulation](t, rr).Score)

	rr = ts.request(http.MethodGet, "/api/v1/simulations", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.SimulationList](t, rr).Simulations, 1)
}

func TestRunSimulationBatch(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/simulations", map[string]any{
		"profile": "easy",
		"seed":    "batch",
		"pieces":  3,
		"count":   3,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	list := decode[response.SimulationList](t, rr)
	require.Len(t, list.Simulations, 3)
	assert.Equal(t, "batch-1", list.Simulations[0].Seed)
	assert.Equal(t, "batch-3", list.Simulations[2].Seed)
}

func TestSimulationErrors(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/simulations", map[string]any{"profile": "ghost"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/simulations", map[string]any{"width": 1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidSimulation, decode[apierr.ErrorResponse](t, rr).Error.Code)

	rr = ts.request(http.MethodPost, "/api/v1/simulations", map[string]any{"count": 1000})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/simulations/sim-missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeSimulationNotFound, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/profiles", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, apierr.CodeMethodNotAllowed, decode[apierr.ErrorResponse](t, rr).Error.Code)

	rr = ts.request(http.MethodPatch, "/api/v1/simulations/sim-x", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, apierr.CodeMethodNotAllowed, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestUnknownRoutesReturnJSON(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/lobbies", "/api/v2/profiles", "/"} {
		rr := ts.request(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		assert.Equal(t, apierr.CodeNotFound, decode[apierr.ErrorResponse](t, rr).Error.Code, path)
	}
}

func TestBodyMustHoldSingleValue(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/simulations", `{"profile": "easy", "pieces": 1} {"count": 50}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decode[apierr.ErrorResponse](t, rr).Error.Code)

	rr = ts.request(http.MethodPut, "/api/v1/profiles/tail", "{\"depth\": 1}garbage")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Trailing whitespace is not extra data
	rr = ts.request(http.MethodPut, "/api/v1/profiles/tail", "{\"depth\": 1}\n\n")
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestServerRunsUntilContextDone(t *testing.T) {
	ts := newTestServer(t)

	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	server := api.NewServer(ts.handler, cfg, zerolog.Nop())
	require.NoError(t, server.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	resp, err := http.Get("http://" + server.Addr() + "/api/v1/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
