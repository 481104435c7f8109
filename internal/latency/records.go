package latency

import (
	"errors"
	"strings"
	"time"

	"github.com/quakemon/quake-monev/internal/domain"
)

// ErrNoMilestone means a history record or incident log held no line the
// engine recognizes as a milestone timestamp.
var ErrNoMilestone = errors.New("no milestone timestamp in record")

// ParseHistoryRecord extracts the processing milestone from a per-event
// history record: pipe-delimited rows whose first column of the first row
// is the processing timestamp.
func ParseHistoryRecord(data []byte) (time.Time, error) {
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "|") {
			continue
		}
		fields := strings.Split(line, "|")
		ts, ok := domain.ParseTimestamp(fields[0], domain.TimestampLayouts)
		if !ok {
			continue
		}
		return ts, nil
	}
	return time.Time{}, ErrNoMilestone
}

// ParseIncidentLog extracts the milestone from a TOAST/SeisComP incident
// log: free-form lines, where the first line whose leading two fields
// form a recognizable timestamp supplies the milestone and the following
// token (the workflow marker).
func ParseIncidentLog(data []byte) (time.Time, string, error) {
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		ts, ok := domain.ParseTimestamp(fields[0]+" "+fields[1], domain.TimestampLayouts)
		if !ok {
			continue
		}
		marker := ""
		if len(fields) > 2 {
			marker = fields[2]
		}
		return ts, marker, nil
	}
	return time.Time{}, "", ErrNoMilestone
}

// HasNationalPrefix reports whether an event id belongs to the national
// network and therefore can have incident logs.
func HasNationalPrefix(eventID string) bool {
	return strings.HasPrefix(strings.TrimSpace(eventID), nationalIDPrefix)
}
