package correlate

import (
	"fmt"
	"strings"
	"time"

	"github.com/quakemon/quake-monev/internal/domain"
)

// Aggregate projects matched pairs into the comparison table handed to
// the reporting layer. Pure: no I/O, no mutation of the input.
func Aggregate(pairs []domain.MatchedPair) domain.ComparisonTable {
	table := domain.ComparisonTable{Rows: make([]domain.ComparisonRow, 0, len(pairs))}
	if len(pairs) > 0 {
		table.PrimarySource = pairs[0].Primary.SourceID
		table.SecondarySource = pairs[0].Secondary.SourceID
	}
	for _, pair := range pairs {
		table.Rows = append(table.Rows, domain.ComparisonRow{
			PrimaryID:        pair.Primary.EventID,
			SecondaryID:      pair.Secondary.EventID,
			PrimaryTime:      pair.Primary.OriginTime,
			SecondaryTime:    pair.Secondary.OriginTime,
			TimeDeltaSeconds: pair.TimeDeltaSeconds,
			MagnitudeDelta:   pair.MagnitudeDelta,
			DepthDelta:       pair.DepthDelta,
			DistanceKm:       pair.DistanceKm,
		})
	}
	return table
}

// RenderCSV renders a comparison table for the reporting boundary. This
// is the only place deltas leave their canonical units.
func RenderCSV(table domain.ComparisonTable) string {
	var b strings.Builder
	b.WriteString("primary_id,secondary_id,primary_time,secondary_time,time_delta_s,mag_delta,depth_delta_km,distance_km\n")
	for _, r := range table.Rows {
		fmt.Fprintf(&b, "%s,%s,%s,%s,%.1f,%.2f,%.2f,%.2f\n",
			r.PrimaryID,
			r.SecondaryID,
			r.PrimaryTime.UTC().Format(time.RFC3339),
			r.SecondaryTime.UTC().Format(time.RFC3339),
			r.TimeDeltaSeconds,
			r.MagnitudeDelta,
			r.DepthDelta,
			r.DistanceKm,
		)
	}
	return b.String()
}
