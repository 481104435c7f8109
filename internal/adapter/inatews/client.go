// Package inatews fetches per-event milestone records from the warning
// center's public object store: processing history files and TOAST /
// SeisComP incident logs, both keyed by event id.
package inatews

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/quakemon/quake-monev/internal/latency"
)

// Client retrieves milestone documents over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a milestone record client. baseURL is the object
// store root, without a trailing slash.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchHistory retrieves history.<event_id>.txt and extracts the
// processing milestone from its first record.
func (c *Client) FetchHistory(ctx context.Context, eventID string) (time.Time, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/history.%s.txt", c.baseURL, strings.TrimSpace(eventID)))
	if err != nil {
		return time.Time{}, err
	}
	ts, err := latency.ParseHistoryRecord(body)
	if err != nil {
		return time.Time{}, fmt.Errorf("history record for %s: %w", eventID, err)
	}
	return ts, nil
}

// FetchIncidentLog retrieves <event_id>.log and extracts the first marker
// line's timestamp.
func (c *Client) FetchIncidentLog(ctx context.Context, eventID string) (time.Time, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/%s.log", c.baseURL, strings.TrimSpace(eventID)))
	if err != nil {
		return time.Time{}, err
	}
	ts, _, err := latency.ParseIncidentLog(body)
	if err != nil {
		return time.Time{}, fmt.Errorf("incident log for %s: %w", eventID, err)
	}
	return ts, nil
}

// FetchDocument retrieves an arbitrary catalog document by URL. The
// pipeline treats the payload as opaque bytes; the source definition
// names the schema.
func (c *Client) FetchDocument(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url)
}

func (c *Client) get(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch milestone record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("milestone store error: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// HistoryFetcher adapts Client to the evaluator's Fetcher interface for
// the processing milestone.
type HistoryFetcher struct {
	Client *Client
}

func (f HistoryFetcher) FetchMilestone(ctx context.Context, eventID string) (time.Time, error) {
	return f.Client.FetchHistory(ctx, eventID)
}

// IncidentLogFetcher adapts Client to the evaluator's Fetcher interface
// for TOAST/SeisComP milestones.
type IncidentLogFetcher struct {
	Client *Client
}

func (f IncidentLogFetcher) FetchMilestone(ctx context.Context, eventID string) (time.Time, error) {
	return f.Client.FetchIncidentLog(ctx, eventID)
}
