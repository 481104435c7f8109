package catalog

import (
	"time"

	"github.com/quakemon/quake-monev/internal/domain"
)

// Filter is the scalar selection surface applied to normalized events
// before correlation: time window, bounding box, magnitude range. Zero
// values disable the corresponding bound.
type Filter struct {
	Start        time.Time
	End          time.Time
	North        float64
	South        float64
	West         float64
	East         float64
	MinMagnitude float64
	MaxMagnitude float64
}

// Apply returns the events inside every configured bound, preserving order.
func (f Filter) Apply(events []domain.NormalizedEvent) []domain.NormalizedEvent {
	out := make([]domain.NormalizedEvent, 0, len(events))
	for _, e := range events {
		if f.keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f Filter) keep(e domain.NormalizedEvent) bool {
	if !f.Start.IsZero() && e.OriginTime.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && e.OriginTime.After(f.End) {
		return false
	}
	if f.North != 0 || f.South != 0 {
		if e.Latitude > f.North || e.Latitude < f.South {
			return false
		}
	}
	if f.West != 0 || f.East != 0 {
		if e.Longitude < f.West || e.Longitude > f.East {
			return false
		}
	}
	if f.MinMagnitude != 0 && e.Magnitude < f.MinMagnitude {
		return false
	}
	if f.MaxMagnitude != 0 && e.Magnitude > f.MaxMagnitude {
		return false
	}
	return true
}
