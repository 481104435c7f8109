package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakemon/quake-monev/internal/domain"
)

func validRecord() domain.RawRecord {
	return domain.RawRecord{
		EventID:   "bmg2025000001",
		Date:      "2025-03-01",
		Time:      "01:15:30 WIB",
		Latitude:  "2.50 LS",
		Longitude: "128.30 BT",
		Depth:     "10 km",
		Magnitude: "5.2",
		MagType:   "M",
		Remarks:   "Banda Sea",
	}
}

func TestNormalize(t *testing.T) {
	events, dropped := Normalize([]domain.RawRecord{validRecord()}, "national")
	require.Len(t, events, 1)
	assert.Zero(t, dropped)

	e := events[0]
	assert.Equal(t, time.Date(2025, 3, 1, 1, 15, 30, 0, time.UTC), e.OriginTime)
	assert.InDelta(t, -2.50, e.Latitude, 1e-9)
	assert.InDelta(t, 128.30, e.Longitude, 1e-9)
	assert.InDelta(t, 10, e.DepthKm, 1e-9)
	assert.InDelta(t, 5.2, e.Magnitude, 1e-9)
}

func TestNormalize_DropsInvalidRecords(t *testing.T) {
	corrupt := func(mutate func(*domain.RawRecord)) domain.RawRecord {
		rec := validRecord()
		mutate(&rec)
		return rec
	}

	tests := []struct {
		name string
		rec  domain.RawRecord
	}{
		{"empty record", domain.RawRecord{}},
		{"bad timestamp", corrupt(func(r *domain.RawRecord) { r.Date, r.Time = "yesterday", "" })},
		{"bad latitude", corrupt(func(r *domain.RawRecord) { r.Latitude = "far south" })},
		{"latitude out of range", corrupt(func(r *domain.RawRecord) { r.Latitude = "95.00 LS" })},
		{"longitude out of range", corrupt(func(r *domain.RawRecord) { r.Longitude = "190.10 BB" })},
		{"negative depth", corrupt(func(r *domain.RawRecord) { r.Depth = "-5 km" })},
		{"bad magnitude", corrupt(func(r *domain.RawRecord) { r.Magnitude = "M5" })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, dropped := Normalize([]domain.RawRecord{tt.rec, validRecord()}, "national")
			assert.Len(t, events, 1)
			assert.Equal(t, 1, dropped)
		})
	}
}

func TestNormalize_SentTime(t *testing.T) {
	rec := validRecord()
	rec.TimeSent = "2025-03-01 01:20:05"
	events, _ := Normalize([]domain.RawRecord{rec}, "warning")
	require.Len(t, events, 1)
	require.NotNil(t, events[0].SentTime)
	assert.Equal(t, time.Date(2025, 3, 1, 1, 20, 5, 0, time.UTC), *events[0].SentTime)

	// An unparsable send time degrades to absent, the event survives.
	rec.TimeSent = "soon"
	events, dropped := Normalize([]domain.RawRecord{rec}, "warning")
	require.Len(t, events, 1)
	assert.Zero(t, dropped)
	assert.Nil(t, events[0].SentTime)
}
