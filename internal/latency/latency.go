// Package latency derives how long each source took to reach a milestone
// (processing, dissemination, incident-log workflows) after an event's
// origin time.
package latency

import (
	"time"

	"github.com/quakemon/quake-monev/internal/domain"
)

// FlagReasonNegativeLapse marks a milestone that precedes the origin
// time. Upstream clock skew and misjoined events both look like this;
// neither may be averaged into valid results.
const FlagReasonNegativeLapse = "milestone precedes origin time"

// nationalIDPrefix gates incident-log milestones: TOAST and SeisComP logs
// exist only for events identified by the national network.
const nationalIDPrefix = "bmg"

// Compute builds the latency record for one event and one milestone
// timestamp. A negative lapse is flagged, never dropped.
func Compute(event domain.NormalizedEvent, milestone domain.Milestone, at time.Time) domain.LatencyRecord {
	rec := domain.LatencyRecord{
		Event:         event,
		Milestone:     milestone,
		MilestoneTime: at,
		LapseSeconds:  at.Sub(event.OriginTime).Seconds(),
		Available:     true,
	}
	if rec.LapseSeconds < 0 {
		rec.Flagged = true
		rec.FlagReason = FlagReasonNegativeLapse
	}
	return rec
}

// Unavailable builds the degraded record used when a milestone fetch
// failed or timed out. The batch continues; the gap stays visible.
func Unavailable(event domain.NormalizedEvent, milestone domain.Milestone) domain.LatencyRecord {
	return domain.LatencyRecord{
		Event:     event,
		Milestone: milestone,
		Available: false,
	}
}

// EvaluateDissemination derives latency from the send time carried on
// warning-feed events. No external fetch is involved; events without a
// send time degrade to unavailable.
func EvaluateDissemination(events []domain.NormalizedEvent) []domain.LatencyRecord {
	records := make([]domain.LatencyRecord, 0, len(events))
	for _, e := range events {
		if e.SentTime == nil {
			records = append(records, Unavailable(e, domain.MilestoneDissemination))
			continue
		}
		records = append(records, Compute(e, domain.MilestoneDissemination, *e.SentTime))
	}
	return records
}
