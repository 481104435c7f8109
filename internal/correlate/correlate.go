// Package correlate matches normalized events across two catalogs and
// projects the matches into reporting-ready discrepancy tables.
package correlate

import (
	"math"
	"sort"
	"time"

	"github.com/quakemon/quake-monev/internal/domain"
)

// Correlate pairs each primary event with the secondary event closest to
// it in time, provided the gap is within tolerance (inclusive). Ties on
// |Δt| break toward the lower original index in the secondary slice, so
// the result is deterministic regardless of input order. A primary event
// yields at most one pair; an unmatched primary yields none. Empty inputs
// are a valid, empty result.
//
// Both catalogs are sorted by origin time and the secondary list is
// scanned with a sliding window, O((n+m) log(nm)) instead of the naive
// O(n·m) scan. The two forms are property-tested for equivalence.
func Correlate(primary, secondary []domain.NormalizedEvent, tolerance time.Duration) []domain.MatchedPair {
	if len(primary) == 0 || len(secondary) == 0 {
		return []domain.MatchedPair{}
	}

	sortedPrimary := sortByTime(primary)
	sortedSecondary := sortByTime(secondary)

	pairs := make([]domain.MatchedPair, 0, len(sortedPrimary))
	lo := 0
	for _, p := range sortedPrimary {
		windowStart := p.event.OriginTime.Add(-tolerance)
		windowEnd := p.event.OriginTime.Add(tolerance)

		// The window's left edge only moves forward as primaries advance.
		for lo < len(sortedSecondary) && sortedSecondary[lo].event.OriginTime.Before(windowStart) {
			lo++
		}

		best := -1
		var bestAbs time.Duration
		for i := lo; i < len(sortedSecondary); i++ {
			s := sortedSecondary[i]
			if s.event.OriginTime.After(windowEnd) {
				break
			}
			abs := absDuration(s.event.OriginTime.Sub(p.event.OriginTime))
			if best == -1 || abs < bestAbs ||
				(abs == bestAbs && s.index < sortedSecondary[best].index) {
				best = i
				bestAbs = abs
			}
		}
		if best == -1 {
			continue
		}
		pairs = append(pairs, newPair(p.event, sortedSecondary[best].event))
	}
	return pairs
}

// correlateNaive is the reference implementation: a full scan over the
// secondary catalog for every primary event. Kept as the test oracle for
// the windowed form.
func correlateNaive(primary, secondary []domain.NormalizedEvent, tolerance time.Duration) []domain.MatchedPair {
	sortedPrimary := sortByTime(primary)

	pairs := make([]domain.MatchedPair, 0, len(sortedPrimary))
	for _, p := range sortedPrimary {
		best := -1
		var bestAbs time.Duration
		for i, s := range secondary {
			abs := absDuration(s.OriginTime.Sub(p.event.OriginTime))
			if abs > tolerance {
				continue
			}
			if best == -1 || abs < bestAbs {
				best = i
				bestAbs = abs
			}
		}
		if best == -1 {
			continue
		}
		pairs = append(pairs, newPair(p.event, secondary[best]))
	}
	return pairs
}

func newPair(p, s domain.NormalizedEvent) domain.MatchedPair {
	return domain.MatchedPair{
		Primary:          p,
		Secondary:        s,
		TimeDeltaSeconds: s.OriginTime.Sub(p.OriginTime).Seconds(),
		DistanceKm:       domain.DistanceKm(p.Latitude, p.Longitude, s.Latitude, s.Longitude),
		MagnitudeDelta:   math.Abs(p.Magnitude - s.Magnitude),
		DepthDelta:       math.Abs(p.DepthKm - s.DepthKm),
	}
}

// indexedEvent remembers the event's position in the caller's slice so
// tie-breaking is stable under sorting.
type indexedEvent struct {
	event domain.NormalizedEvent
	index int
}

func sortByTime(events []domain.NormalizedEvent) []indexedEvent {
	indexed := make([]indexedEvent, len(events))
	for i, e := range events {
		indexed[i] = indexedEvent{event: e, index: i}
	}
	sort.SliceStable(indexed, func(a, b int) bool {
		return indexed[a].event.OriginTime.Before(indexed[b].event.OriginTime)
	})
	return indexed
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
