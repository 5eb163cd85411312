package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buoyqc/internal/config"
)

func testServer(t *testing.T, reportsDir string) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.Default().Server
	cfg.RateLimit.Enabled = false

	server := httptest.NewServer(NewRouter(cfg, reportsDir, logger))
	t.Cleanup(server.Close)
	return server
}

func seedReports(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clean_data.csv"), []byte("Time,hm0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "detailed_report.csv"), []byte("Time,hm0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a report"), 0o644))
	return dir
}

func TestHealthz(t *testing.T) {
	server := testServer(t, t.TempDir())

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, health.Version)
}

func TestListReports(t *testing.T) {
	t.Run("lists report files only", func(t *testing.T) {
		server := testServer(t, seedReports(t))

		resp, err := http.Get(server.URL + "/api/reports/")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list ReportListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))

		assert.Equal(t, 2, list.Count)
		names := []string{list.Reports[0].Name, list.Reports[1].Name}
		assert.Contains(t, names, "clean_data.csv")
		assert.Contains(t, names, "detailed_report.csv")
	})

	t.Run("missing reports directory yields an empty list", func(t *testing.T) {
		server := testServer(t, filepath.Join(t.TempDir(), "absent"))

		resp, err := http.Get(server.URL + "/api/reports/")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var list ReportListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
		assert.Zero(t, list.Count)
	})
}

func TestDownloadReport(t *testing.T) {
	dir := seedReports(t)
	server := testServer(t, dir)

	t.Run("serves an existing report", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/reports/clean_data.csv")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "Time,hm0\n", string(body))
	})

	t.Run("unknown report is 404", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/reports/absent.csv")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("non-report extension is rejected", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/reports/notes.txt")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		// Drive the handler directly: a decoded "../" must never reach the
		// filesystem regardless of how the router escapes it.
		handler := NewReportHandler(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))

		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("filename", "../secrets.csv")

		req := httptest.NewRequest(http.MethodGet, "/api/reports/x", nil)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		rec := httptest.NewRecorder()
		handler.DownloadReport(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dotfiles are rejected", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.csv"), []byte("x"), 0o644))

		resp, err := http.Get(server.URL + "/api/reports/.hidden.csv")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRequestIDHeader(t *testing.T) {
	server := testServer(t, t.TempDir())

	t.Run("generated when absent", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("incoming header echoed back", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, server.URL+"/healthz", nil)
		require.NoError(t, err)
		req.Header.Set("X-Request-ID", "test-request-id")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, "test-request-id", resp.Header.Get("X-Request-ID"))
	})
}

func TestRateLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Default().Server
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RPS = 1
	cfg.RateLimit.Burst = 1

	server := httptest.NewServer(NewRouter(cfg, t.TempDir(), logger))
	defer server.Close()

	first, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	first.Body.Close()
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	server := testServer(t, t.TempDir())

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
