package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mateuse/Gpu-Monitor/internal/api"
	"github.com/Mateuse/Gpu-Monitor/internal/api/ws"
	"github.com/Mateuse/Gpu-Monitor/internal/bus"
	"github.com/Mateuse/Gpu-Monitor/internal/observability"
	"github.com/Mateuse/Gpu-Monitor/internal/poller"
	"github.com/Mateuse/Gpu-Monitor/internal/storage/inmemory"
)

// fakeRunner replaces the nvidia-smi binary so the whole service can be
// exercised in-process.
type fakeRunner struct {
	output string
}

func (f *fakeRunner) QueryMetrics(ctx context.Context) (string, error) {
	return f.output, nil
}

func (f *fakeRunner) FullReport(ctx context.Context) (string, error) {
	return "full nvidia-smi report", nil
}

func (f *fakeRunner) Version(ctx context.Context) (string, error) {
	return "test version", nil
}

// system wires runner, poller, bus, repository, hub and router the same
// way cmd/gpumond does, backed by an httptest server.
type system struct {
	poller *poller.Poller
	server *httptest.Server
}

func startSystem(t *testing.T, interval time.Duration) *system {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := &fakeRunner{
		output: "0, NVIDIA A100, 45, 12, 1024, 40960, 70.5\n" +
			"1, NVIDIA A100, 52, 80, 30720, 40960, 310.0\n",
	}

	b := bus.NewBus(logger)
	repo := inmemory.NewSnapshotRepository()
	b.Subscribe(repo)

	hub := ws.NewHub(logger)
	go hub.Run()
	b.Subscribe(hub)

	metrics := observability.NewMetrics()
	p := poller.NewPoller(runner, b, metrics, logger)

	router := api.NewRouter(p, repo, hub, metrics)
	srv := httptest.NewServer(router.Engine())

	require.NoError(t, p.Start(context.Background(), interval))

	t.Cleanup(func() {
		srv.Close()
		if p.State() == poller.StateRunning {
			p.Stop()
		}
	})

	return &system{poller: p, server: srv}
}

func (s *system) get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Get(s.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func (s *system) post(t *testing.T, path string, payload any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(payload))
	}

	resp, err := http.Post(s.server.URL+path, "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

// waitForSnapshot polls the API until the first collection lands.
func (s *system) waitForSnapshot(t *testing.T) map[string]any {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		code, body := s.get(t, "/api/v1/snapshot")
		if code == http.StatusOK {
			return body
		}
		time.Sleep(20 * time.Millisecond)
	}

	t.Fatal("no snapshot available before deadline")
	return nil
}

func TestSystem_SnapshotFlow(t *testing.T) {
	sys := startSystem(t, time.Second)

	snapshot := sys.waitForSnapshot(t)
	assert.Equal(t, float64(2), snapshot["total"])

	devices, ok := snapshot["devices"].([]any)
	require.True(t, ok)
	require.Len(t, devices, 2)

	first, ok := devices[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(0), first["index"])
	assert.Equal(t, "NVIDIA A100", first["name"])
	assert.Equal(t, float64(45), first["temperature_c"])
	assert.Equal(t, float64(2), first["memory_pct"])
}

func TestSystem_DeviceLookup(t *testing.T) {
	sys := startSystem(t, time.Second)
	sys.waitForSnapshot(t)

	code, body := sys.get(t, "/api/v1/devices/1")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["index"])
	assert.Equal(t, float64(75), body["memory_pct"])

	code, _ = sys.get(t, "/api/v1/devices/7")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSystem_StatusAndRaw(t *testing.T) {
	sys := startSystem(t, time.Second)
	sys.waitForSnapshot(t)

	code, status := sys.get(t, "/api/v1/status")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "running", status["state"])
	assert.Equal(t, float64(1), status["interval_seconds"])
	assert.NotEmpty(t, status["last_updated"])

	code, raw := sys.get(t, "/api/v1/raw")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "full nvidia-smi report", raw["full_report"])
}

func TestSystem_PollerControl(t *testing.T) {
	sys := startSystem(t, time.Second)
	sys.waitForSnapshot(t)

	code, _ := sys.post(t, "/api/v1/poller/stop", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, poller.StateStopped, sys.poller.State())

	// Stopping twice is a conflict, not a crash.
	code, _ = sys.post(t, "/api/v1/poller/stop", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = sys.post(t, "/api/v1/poller/start", map[string]any{"interval_seconds": 2})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, poller.StateRunning, sys.poller.State())
	assert.Equal(t, 2*time.Second, sys.poller.Interval())

	code, _ = sys.post(t, "/api/v1/poller/refresh", nil)
	assert.Equal(t, http.StatusAccepted, code)
}

func TestSystem_HealthAndMetrics(t *testing.T) {
	sys := startSystem(t, time.Second)
	sys.waitForSnapshot(t)

	code, health := sys.get(t, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", health["status"])

	resp, err := http.Get(sys.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "gpumon_polls_total")
	assert.Contains(t, string(body), "gpumon_devices_reported 2")
}

func TestSystem_PollErrorSurfaces(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := &fakeRunner{output: "garbage line without commas\n"}

	b := bus.NewBus(logger)
	repo := inmemory.NewSnapshotRepository()
	b.Subscribe(repo)

	hub := ws.NewHub(logger)
	go hub.Run()
	b.Subscribe(hub)

	metrics := observability.NewMetrics()
	p := poller.NewPoller(runner, b, metrics, logger)

	router := api.NewRouter(p, repo, hub, metrics)
	srv := httptest.NewServer(router.Engine())
	defer srv.Close()

	require.NoError(t, p.Start(context.Background(), time.Second))
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(srv.URL + "/api/v1/status")
		require.NoError(t, err)

		var status map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
		resp.Body.Close()

		if status["last_error"] != nil {
			lastErr, ok := status["last_error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "parse_failure", lastErr["kind"])
			return
		}
		time.Sleep(20 * time.Millisecond)
	}

	t.Fatal("no poll error surfaced before deadline")
}
