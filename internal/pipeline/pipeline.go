// Package pipeline orchestrates one analysis batch: fetch catalogs,
// normalize, filter, correlate, evaluate latency, aggregate, publish.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	httpadapter "github.com/quakemon/quake-monev/internal/adapter/http"
	"github.com/quakemon/quake-monev/internal/catalog"
	"github.com/quakemon/quake-monev/internal/config"
	"github.com/quakemon/quake-monev/internal/correlate"
	"github.com/quakemon/quake-monev/internal/domain"
	"github.com/quakemon/quake-monev/internal/latency"
	"github.com/quakemon/quake-monev/internal/observability"
)

// DocumentFetcher retrieves a raw catalog document. Fetch mechanics
// (HTTP, files, scraping) are an external collaborator; the pipeline only
// sees bytes plus the schema from the source definition.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string) ([]byte, error)
}

// ResultSink receives the batch output tables. A nil sink disables
// publishing; results remain available on the BatchResult.
type ResultSink interface {
	PublishComparison(ctx context.Context, runID string, table domain.ComparisonTable) error
	PublishLatency(ctx context.Context, runID string, records []domain.LatencyRecord) error
}

// BatchResult is everything one run produced.
type BatchResult struct {
	RunID    string
	Started  time.Time
	Finished time.Time

	EventsBySource map[string][]domain.NormalizedEvent
	DroppedRows    map[string]int
	Comparisons    []domain.ComparisonTable
	Latencies      []domain.LatencyRecord
}

// Pipeline runs analysis batches.
type Pipeline struct {
	sources   []config.Source
	fetcher   DocumentFetcher
	evaluator *latency.Evaluator
	fetchers  map[domain.Milestone]latency.Fetcher
	sink      ResultSink
	filter    catalog.Filter
	tolerance time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
	last      atomic.Pointer[BatchResult]
}

// New creates a Pipeline. fetchers maps each externally fetched milestone
// to its record source; missing milestones are skipped. sink may be nil.
func New(
	sources []config.Source,
	fetcher DocumentFetcher,
	evaluator *latency.Evaluator,
	fetchers map[domain.Milestone]latency.Fetcher,
	sink ResultSink,
	filter catalog.Filter,
	tolerance time.Duration,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Pipeline {
	return &Pipeline{
		sources:   sources,
		fetcher:   fetcher,
		evaluator: evaluator,
		fetchers:  fetchers,
		sink:      sink,
		filter:    filter,
		tolerance: tolerance,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the pipeline has completed a batch.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.last.Load() == nil {
		return errors.New("no batch completed yet")
	}
	return nil
}

// BatchStatus summarizes the last completed batch for the status endpoint.
func (p *Pipeline) BatchStatus() (httpadapter.BatchStatus, bool) {
	result := p.last.Load()
	if result == nil {
		return httpadapter.BatchStatus{}, false
	}
	dropped := 0
	for _, n := range result.DroppedRows {
		dropped += n
	}
	return httpadapter.BatchStatus{
		RunID:          result.RunID,
		Finished:       result.Finished,
		Pairs:          totalPairs(result),
		LatencyRecords: len(result.Latencies),
		DroppedRows:    dropped,
	}, true
}

// Run executes one batch. Structural catalog failures abort the run with
// a diagnostic naming the source; everything smaller degrades per record.
func (p *Pipeline) Run(ctx context.Context) (*BatchResult, error) {
	result := &BatchResult{
		RunID:          uuid.NewString(),
		Started:        domain.Clock().Now(),
		EventsBySource: make(map[string][]domain.NormalizedEvent),
		DroppedRows:    make(map[string]int),
	}

	p.logger.Info("batch started", "run_id", result.RunID, "sources", len(p.sources))
	p.metrics.BatchRunning.Set(1)
	defer p.metrics.BatchRunning.Set(0)
	start := time.Now()

	var (
		primary     []domain.NormalizedEvent
		secondaries []sourceEvents
		warnings    []domain.NormalizedEvent
	)

	for _, src := range p.sources {
		events, dropped, err := p.ingest(ctx, src)
		if err != nil {
			return nil, err
		}
		filtered := p.filter.Apply(events)
		result.EventsBySource[src.ID] = filtered
		result.DroppedRows[src.ID] = dropped

		p.metrics.EventsNormalized.WithLabelValues(src.ID).Add(float64(len(events)))
		p.metrics.RowsDropped.WithLabelValues(src.ID).Add(float64(dropped))
		p.logger.Info("catalog ingested",
			"run_id", result.RunID,
			"source", src.ID,
			"events", len(events),
			"filtered", len(filtered),
			"dropped", dropped,
		)

		switch src.Role {
		case config.RolePrimary:
			primary = filtered
		case config.RoleSecondary:
			secondaries = append(secondaries, sourceEvents{id: src.ID, events: filtered})
		case config.RoleWarning:
			warnings = filtered
		}
	}

	for _, sec := range secondaries {
		pairs := correlate.Correlate(primary, sec.events, p.tolerance)
		p.metrics.PairsMatched.Add(float64(len(pairs)))
		table := correlate.Aggregate(pairs)
		result.Comparisons = append(result.Comparisons, table)
		p.logger.Info("catalogs correlated",
			"run_id", result.RunID,
			"secondary", sec.id,
			"pairs", len(pairs),
		)
	}

	result.Latencies = p.evaluateLatencies(ctx, primary, warnings)

	if err := p.publish(ctx, result); err != nil {
		return nil, err
	}

	result.Finished = domain.Clock().Now()
	p.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	p.last.Store(result)
	p.logger.Info("batch finished",
		"run_id", result.RunID,
		"pairs", totalPairs(result),
		"latency_records", len(result.Latencies),
	)
	return result, nil
}

type sourceEvents struct {
	id     string
	events []domain.NormalizedEvent
}

func (p *Pipeline) ingest(ctx context.Context, src config.Source) ([]domain.NormalizedEvent, int, error) {
	data, err := p.fetcher.FetchDocument(ctx, src.URL)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch catalog %s: %w", src.ID, err)
	}
	return catalog.Parse(src.ID, catalog.Schema(src.Schema), data)
}

// evaluateLatencies runs every configured milestone comparison: the
// dissemination lapse comes straight from the warning feed; processing
// and incident-log milestones need per-event fetches.
func (p *Pipeline) evaluateLatencies(ctx context.Context, primary, warnings []domain.NormalizedEvent) []domain.LatencyRecord {
	records := latency.EvaluateDissemination(warnings)
	for _, rec := range records {
		if rec.Flagged {
			p.metrics.NegativeLapses.WithLabelValues(string(rec.Milestone)).Inc()
		}
	}

	for _, milestone := range []domain.Milestone{domain.MilestoneProcessing, domain.MilestoneTOAST, domain.MilestoneSeisComP} {
		fetcher, ok := p.fetchers[milestone]
		if !ok {
			continue
		}
		records = append(records, p.evaluator.Evaluate(ctx, primary, milestone, fetcher)...)
	}
	return records
}

func (p *Pipeline) publish(ctx context.Context, result *BatchResult) error {
	if p.sink == nil {
		return nil
	}
	for _, table := range result.Comparisons {
		if err := p.sink.PublishComparison(ctx, result.RunID, table); err != nil {
			return fmt.Errorf("publish comparison table: %w", err)
		}
	}
	if err := p.sink.PublishLatency(ctx, result.RunID, result.Latencies); err != nil {
		return fmt.Errorf("publish latency table: %w", err)
	}
	return nil
}

func totalPairs(result *BatchResult) int {
	n := 0
	for _, t := range result.Comparisons {
		n += len(t.Rows)
	}
	return n
}
