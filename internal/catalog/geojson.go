package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/quakemon/quake-monev/internal/domain"
)

// GeoJSON point-feature catalog, the shape served by the international
// FDSN event service: geometry coordinates are [lon, lat, depth_km] and
// the time property is epoch milliseconds.

type geojsonDoc struct {
	Type     string           `json:"type"`
	Features []geojsonFeature `json:"features"`
}

type geojsonFeature struct {
	ID         string `json:"id"`
	Properties struct {
		Mag     *float64 `json:"mag"`
		MagType string   `json:"magType"`
		Place   string   `json:"place"`
		Time    *int64   `json:"time"`
	} `json:"properties"`
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

// DecodeGeoJSON parses a point-feature catalog. Features missing geometry
// or a timestamp become empty records so normalization counts the drop.
func DecodeGeoJSON(sourceID string, data []byte) ([]domain.RawRecord, error) {
	var doc geojsonDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &StructuralError{Source: sourceID, Reason: fmt.Sprintf("malformed GeoJSON: %v", err)}
	}
	if len(doc.Features) == 0 {
		return nil, &StructuralError{Source: sourceID, Reason: "catalog contains no features"}
	}

	records := make([]domain.RawRecord, 0, len(doc.Features))
	for _, f := range doc.Features {
		if len(f.Geometry.Coordinates) < 3 || f.Properties.Time == nil || f.Properties.Mag == nil {
			records = append(records, domain.RawRecord{})
			continue
		}
		t := time.UnixMilli(*f.Properties.Time).UTC()
		records = append(records, domain.RawRecord{
			EventID:   f.ID,
			Date:      t.Format("2006-01-02 15:04:05"),
			Latitude:  strconv.FormatFloat(f.Geometry.Coordinates[1], 'f', -1, 64),
			Longitude: strconv.FormatFloat(f.Geometry.Coordinates[0], 'f', -1, 64),
			Depth:     strconv.FormatFloat(f.Geometry.Coordinates[2], 'f', -1, 64),
			Magnitude: strconv.FormatFloat(*f.Properties.Mag, 'f', -1, 64),
			MagType:   f.Properties.MagType,
			Remarks:   f.Properties.Place,
		})
	}
	return records, nil
}
