package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/quakemon/quake-monev/internal/adapter/http"
)

type mockStatus struct {
	err    error
	status httpadapter.BatchStatus
	hasRun bool
}

func (m *mockStatus) CheckReadiness(_ context.Context) error {
	return m.err
}

func (m *mockStatus) BatchStatus() (httpadapter.BatchStatus, bool) {
	return m.status, m.hasRun
}

func newTestServer(status *mockStatus) *httpadapter.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", status, logger)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&mockStatus{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := newTestServer(&mockStatus{})

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
	})

	t.Run("not ready", func(t *testing.T) {
		srv := newTestServer(&mockStatus{err: errors.New("no batch completed yet")})

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "no batch completed yet")
	})
}

func TestBatchz(t *testing.T) {
	t.Run("no batch yet", func(t *testing.T) {
		srv := newTestServer(&mockStatus{})

		req := httptest.NewRequest(http.MethodGet, "/batchz", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("last batch summary", func(t *testing.T) {
		srv := newTestServer(&mockStatus{
			hasRun: true,
			status: httpadapter.BatchStatus{
				RunID:          "run-1",
				Finished:       time.Date(2025, 3, 1, 2, 0, 0, 0, time.UTC),
				Pairs:          12,
				LatencyRecords: 30,
				DroppedRows:    2,
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/batchz", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got httpadapter.BatchStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "run-1", got.RunID)
		assert.Equal(t, 12, got.Pairs)
		assert.Equal(t, 30, got.LatencyRecords)
		assert.Equal(t, 2, got.DroppedRows)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockStatus{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&mockStatus{})

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
