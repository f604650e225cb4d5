package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoEnrollSync/GoEnrollSync/internal/config"
	synchandler "github.com/GoEnrollSync/GoEnrollSync/internal/web/handler/sync"
)

type stubRunner struct {
	result synchandler.Result
	err    error
	calls  int
}

func (r *stubRunner) RunSync(_ context.Context) (synchandler.Result, error) {
	r.calls++
	return r.result, r.err
}

func testService(t *testing.T, runner synchandler.Runner, token string) *Service {
	t.Helper()

	cfg := &config.Config{}
	cfg.Webserver.Port = 8080
	cfg.Webserver.URL = "http://localhost:8080"
	cfg.Sync.FeideSuffix = "example.org"
	cfg.Sync.TriggerToken = token

	return New(cfg, runner)
}

func TestCheckAlive(t *testing.T) {
	service := testService(t, &stubRunner{}, "secret")

	req := httptest.NewRequest(http.MethodGet, "/checkalive", nil)
	resp, err := service.App.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "service is not alive before start")

	service.alive.Store(true)

	resp, err = service.App.Test(httptest.NewRequest(http.MethodGet, "/checkalive", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	service := testService(t, &stubRunner{}, "secret")

	resp, err := service.App.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSyncTriggerAuth(t *testing.T) {
	runner := &stubRunner{
		result: synchandler.Result{
			RunID:    "run-1",
			Users:    2,
			Students: 3,
			Access:   1,
			Schools:  1,
			Duration: 42 * time.Millisecond,
		},
	}
	service := testService(t, runner, "secret")

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
		resp, err := service.App.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Zero(t, runner.calls)
	})

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		resp, err := service.App.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Zero(t, runner.calls)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
		req.Header.Set("Authorization", "Bearer secret")
		resp, err := service.App.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, runner.calls)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "run-1", body["runId"])
		assert.Equal(t, float64(3), body["students"])
	})
}

func TestSyncTriggerDisabledWithoutToken(t *testing.T) {
	runner := &stubRunner{}
	service := testService(t, runner, "")

	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	req.Header.Set("Authorization", "Bearer anything")
	resp, err := service.App.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Zero(t, runner.calls)
}

func TestSyncTriggerRunnerError(t *testing.T) {
	runner := &stubRunner{err: errors.New("registry unreachable")}
	service := testService(t, runner, "secret")

	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := service.App.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
