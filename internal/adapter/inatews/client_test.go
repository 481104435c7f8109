package inatews

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history.bmg2025000001.txt", r.URL.Path)
		io.WriteString(w, "2025-03-01 01:18:05 | 2.58 | manual | M5.2\n")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, discardLogger())
	ts, err := client.FetchHistory(context.Background(), "bmg2025000001")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 1, 18, 5, 0, time.UTC), ts)
}

func TestFetchHistory_TrimsEventID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history.bmg1.txt", r.URL.Path)
		io.WriteString(w, "2025-03-01 01:18:05 | 2.58\n")
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second, discardLogger())
	_, err := client.FetchHistory(context.Background(), " bmg1 ")
	require.NoError(t, err)
}

func TestFetchHistory_NoMilestone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "empty export\n")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, discardLogger())
	_, err := client.FetchHistory(context.Background(), "bmg1")
	require.Error(t, err)
}

func TestFetchHistory_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, discardLogger())
	_, err := client.FetchHistory(context.Background(), "bmg1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchIncidentLog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bmg2025000001.log", r.URL.Path)
		io.WriteString(w, "incident log\n2025-03-01 01:19:12 FOCMEC\n")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, discardLogger())
	ts, err := client.FetchIncidentLog(context.Background(), "bmg2025000001")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 1, 19, 12, 0, time.UTC), ts)
}

func TestFetchDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "payload")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, discardLogger())
	data, err := client.FetchDocument(context.Background(), srv.URL+"/qc.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestFetchDocument_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 10*time.Second, discardLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.FetchDocument(ctx, srv.URL+"/qc.txt")
	require.Error(t, err)
}
