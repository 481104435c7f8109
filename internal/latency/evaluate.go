package latency

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/quakemon/quake-monev/internal/domain"
	"github.com/quakemon/quake-monev/internal/observability"
)

// Fetcher retrieves one event's milestone record from an external store.
// Implementations live at the adapter boundary; the evaluator only sees
// the timestamp or the failure.
type Fetcher interface {
	FetchMilestone(ctx context.Context, eventID string) (time.Time, error)
}

// Evaluator runs per-event milestone fetches from a bounded worker pool.
// Fetches are independent, so they run in parallel with a per-fetch
// timeout; a failed or timed-out fetch degrades that event's record to
// unavailable instead of aborting the batch.
type Evaluator struct {
	workers int
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewEvaluator creates an Evaluator. Workers below 1 are clamped to 1.
func NewEvaluator(workers int, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Evaluator {
	if workers < 1 {
		workers = 1
	}
	return &Evaluator{workers: workers, timeout: timeout, logger: logger, metrics: metrics}
}

// Evaluate fetches the milestone for every eligible event and returns one
// latency record per fetched event, in input order. Incident-log
// milestones (toast, seiscomp) only exist for national-network ids; other
// events are excluded from those comparisons entirely, matching the
// join-by-event-id semantics of the upstream logs. Events without an id
// cannot be fetched and degrade to unavailable.
func (ev *Evaluator) Evaluate(ctx context.Context, events []domain.NormalizedEvent, milestone domain.Milestone, fetcher Fetcher) []domain.LatencyRecord {
	eligible := make([]domain.NormalizedEvent, 0, len(events))
	for _, e := range events {
		if incidentLogMilestone(milestone) && !HasNationalPrefix(e.EventID) {
			continue
		}
		eligible = append(eligible, e)
	}
	if len(eligible) == 0 {
		return []domain.LatencyRecord{}
	}

	records := make([]domain.LatencyRecord, len(eligible))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < ev.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records[i] = ev.fetchOne(ctx, eligible[i], milestone, fetcher)
			}
		}()
	}

	for i := range eligible {
		select {
		case jobs <- i:
		case <-ctx.Done():
			// Remaining events degrade to unavailable below.
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	for i := range records {
		if records[i].Milestone == "" {
			records[i] = Unavailable(eligible[i], milestone)
		}
	}
	return records
}

func (ev *Evaluator) fetchOne(ctx context.Context, event domain.NormalizedEvent, milestone domain.Milestone, fetcher Fetcher) domain.LatencyRecord {
	if event.EventID == "" {
		return Unavailable(event, milestone)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, ev.timeout)
	defer cancel()

	start := time.Now()
	at, err := fetcher.FetchMilestone(fetchCtx, event.EventID)
	ev.metrics.MilestoneFetchDuration.WithLabelValues(string(milestone)).Observe(time.Since(start).Seconds())

	if err != nil {
		ev.logger.Warn("milestone fetch failed",
			"event_id", event.EventID,
			"milestone", milestone,
			"error", err,
		)
		ev.metrics.MilestoneFetches.WithLabelValues(string(milestone), "error").Inc()
		return Unavailable(event, milestone)
	}

	ev.metrics.MilestoneFetches.WithLabelValues(string(milestone), "success").Inc()
	rec := Compute(event, milestone, at)
	if rec.Flagged {
		ev.logger.Warn("negative lapse flagged",
			"event_id", event.EventID,
			"milestone", milestone,
			"lapse_seconds", rec.LapseSeconds,
		)
		ev.metrics.NegativeLapses.WithLabelValues(string(milestone)).Inc()
	}
	return rec
}

func incidentLogMilestone(m domain.Milestone) bool {
	return m == domain.MilestoneTOAST || m == domain.MilestoneSeisComP
}
