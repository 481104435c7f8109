// Package catalog decodes heterogeneous earthquake catalog documents and
// normalizes them into domain events. Decoding maps a source layout onto
// raw records; normalization validates fields, drops malformed rows, and
// guarantees the domain invariants on everything it returns.
package catalog

import (
	"fmt"

	"github.com/quakemon/quake-monev/internal/domain"
)

// Schema names a supported catalog layout.
type Schema string

const (
	SchemaPipe       Schema = "pipe"        // quick-look pipe-delimited text
	SchemaWarningXML Schema = "warning_xml" // tsunami-warning dissemination feed
	SchemaGeoJSON    Schema = "geojson"     // international point-feature catalog
	SchemaCSV        Schema = "csv"         // international CSV catalog
)

// StructuralError means a source is unusable as a whole: no parseable
// rows, or a header so mismatched that no field can be mapped. Anything
// less severe degrades per-row instead.
type StructuralError struct {
	Source string
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("catalog %s: %s", e.Source, e.Reason)
}

// Parse decodes a raw catalog document and normalizes it in one step.
// The dropped count reports rows excluded during normalization.
func Parse(sourceID string, schema Schema, data []byte) ([]domain.NormalizedEvent, int, error) {
	var (
		records []domain.RawRecord
		err     error
	)
	switch schema {
	case SchemaPipe:
		records, err = DecodePipe(sourceID, data)
	case SchemaWarningXML:
		records, err = DecodeWarningXML(sourceID, data)
	case SchemaGeoJSON:
		records, err = DecodeGeoJSON(sourceID, data)
	case SchemaCSV:
		records, err = DecodeCSV(sourceID, data)
	default:
		return nil, 0, fmt.Errorf("unknown catalog schema %q", schema)
	}
	if err != nil {
		return nil, 0, err
	}

	events, dropped := Normalize(records, sourceID)
	if len(events) == 0 && len(records) > 0 {
		return nil, dropped, &StructuralError{
			Source: sourceID,
			Reason: fmt.Sprintf("no parseable rows (%d decoded, all dropped)", len(records)),
		}
	}
	return events, dropped, nil
}
