package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/quakemon/quake-monev/internal/domain"
)

var csvAliases = map[string][]string{
	"event_id":  {"id", "event_id", "eventid"},
	"date_time": {"time", "date_time", "datetime", "origin_time"},
	"mag":       {"mag", "magnitude"},
	"type_mag":  {"magtype", "mag_type", "type_mag"},
	"lat":       {"latitude", "lat"},
	"lon":       {"longitude", "lon", "long"},
	"depth":     {"depth", "depth_km"},
	"remarks":   {"place", "remarks", "region"},
}

// DecodeCSV parses an international catalog with a standard column header.
// Ragged rows are tolerated and surface as drops during normalization.
func DecodeCSV(sourceID string, data []byte) ([]domain.RawRecord, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // heterogeneous exports; row length is validated per row

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &StructuralError{Source: sourceID, Reason: fmt.Sprintf("malformed CSV: %v", err)}
	}
	if len(rows) < 2 {
		return nil, &StructuralError{Source: sourceID, Reason: "missing header or data rows"}
	}

	idx, mapped := mapColumns(rows[0], csvAliases)
	if mapped < 4 {
		return nil, &StructuralError{Source: sourceID, Reason: "header matches no known CSV layout"}
	}

	records := make([]domain.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(rows[0]) {
			records = append(records, domain.RawRecord{})
			continue
		}
		records = append(records, domain.RawRecord{
			EventID:   field(row, idx, "event_id"),
			Date:      field(row, idx, "date_time"),
			Latitude:  field(row, idx, "lat"),
			Longitude: field(row, idx, "lon"),
			Depth:     field(row, idx, "depth"),
			Magnitude: field(row, idx, "mag"),
			MagType:   field(row, idx, "type_mag"),
			Remarks:   field(row, idx, "remarks"),
		})
	}
	return records, nil
}
