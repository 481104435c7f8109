package catalog

import (
	"strings"

	"github.com/quakemon/quake-monev/internal/domain"
)

// Normalize validates decoded records into canonical events. A record
// missing any required field, or with an unparsable or out-of-range
// value, is skipped and counted — a single bad row never fails the batch.
// Every returned event satisfies the domain invariants.
func Normalize(records []domain.RawRecord, sourceID string) ([]domain.NormalizedEvent, int) {
	events := make([]domain.NormalizedEvent, 0, len(records))
	dropped := 0

	for _, rec := range records {
		event, ok := normalizeOne(rec, sourceID)
		if !ok {
			dropped++
			continue
		}
		events = append(events, event)
	}
	return events, dropped
}

func normalizeOne(rec domain.RawRecord, sourceID string) (domain.NormalizedEvent, bool) {
	origin, ok := domain.ParseTimestamp(joinDateTime(rec.Date, rec.Time), domain.TimestampLayouts)
	if !ok {
		return domain.NormalizedEvent{}, false
	}

	lat, err := domain.ParseLatitude(rec.Latitude)
	if err != nil {
		return domain.NormalizedEvent{}, false
	}
	lon, err := domain.ParseLongitude(rec.Longitude)
	if err != nil {
		return domain.NormalizedEvent{}, false
	}
	depth, err := domain.ParseDepth(rec.Depth)
	if err != nil {
		return domain.NormalizedEvent{}, false
	}
	mag, err := domain.ParseMagnitude(rec.Magnitude)
	if err != nil {
		return domain.NormalizedEvent{}, false
	}

	event := domain.NormalizedEvent{
		SourceID:   sourceID,
		EventID:    strings.TrimSpace(rec.EventID),
		OriginTime: origin,
		Latitude:   lat,
		Longitude:  lon,
		DepthKm:    depth,
		Magnitude:  mag,
		MagType:    strings.TrimSpace(rec.MagType),
		Remarks:    strings.TrimSpace(rec.Remarks),
	}

	if rec.TimeSent != "" {
		if sent, ok := domain.ParseTimestamp(rec.TimeSent, domain.TimestampLayouts); ok {
			event.SentTime = &sent
		}
	}
	return event, true
}

// joinDateTime merges separate date and time fields; sources that carry a
// combined date-time leave Time empty.
func joinDateTime(date, t string) string {
	date = strings.TrimSpace(date)
	t = strings.TrimSpace(t)
	if t == "" {
		return date
	}
	return date + " " + t
}
