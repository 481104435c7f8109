package catalog

import (
	"strings"

	"github.com/quakemon/quake-monev/internal/domain"
)

// pipeAliases maps canonical field names to the header spellings seen in
// quick-look exports. Matching is case-insensitive.
var pipeAliases = map[string][]string{
	"event_id":  {"event_id", "eventid", "id"},
	"date_time": {"date_time", "datetime", "origin_time", "ot"},
	"mag":       {"mag", "magnitude"},
	"type_mag":  {"type_mag", "mag_type", "magtype"},
	"lat":       {"lat", "latitude"},
	"lon":       {"lon", "long", "longitude"},
	"depth":     {"depth", "depth_km"},
	"remarks":   {"remarks", "remark", "region"},
}

// DecodePipe parses the quick-look pipe-delimited catalog: one header row,
// one row per event, and trailing footer lines that are not data. Rows
// with a field count different from the header are kept here and dropped
// during normalization, so the drop counter sees them.
func DecodePipe(sourceID string, data []byte) ([]domain.RawRecord, error) {
	lines := splitLines(string(data))
	if len(lines) < 2 {
		return nil, &StructuralError{Source: sourceID, Reason: "missing header or data rows"}
	}

	header := splitPipe(lines[0])
	idx, mapped := mapColumns(header, pipeAliases)
	if mapped < 4 {
		return nil, &StructuralError{Source: sourceID, Reason: "header matches no known quick-look layout"}
	}

	records := make([]domain.RawRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := splitPipe(line)
		if len(fields) != len(header) {
			// Footer/trailer lines and truncated rows: emit an empty
			// record so normalization counts the drop.
			if isFooterLine(line) {
				continue
			}
			records = append(records, domain.RawRecord{})
			continue
		}
		records = append(records, domain.RawRecord{
			EventID:   field(fields, idx, "event_id"),
			Date:      field(fields, idx, "date_time"),
			Latitude:  field(fields, idx, "lat"),
			Longitude: field(fields, idx, "lon"),
			Depth:     field(fields, idx, "depth"),
			Magnitude: field(fields, idx, "mag"),
			MagType:   field(fields, idx, "type_mag"),
			Remarks:   field(fields, idx, "remarks"),
		})
	}
	return records, nil
}

// isFooterLine reports whether a short line is export trailer text rather
// than a truncated data row. Quick-look exports end with a blank line and
// a generation notice that contains no pipe separators.
func isFooterLine(line string) bool {
	return !strings.Contains(line, "|")
}

func splitLines(s string) []string {
	raw := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func splitPipe(line string) []string {
	parts := strings.Split(line, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// mapColumns resolves header names to indexes through the alias table and
// returns how many canonical fields were found.
func mapColumns(header []string, aliases map[string][]string) (map[string]int, int) {
	idx := make(map[string]int, len(aliases))
	for i, name := range header {
		n := strings.ToLower(strings.TrimSpace(name))
		for canonical, alts := range aliases {
			if _, done := idx[canonical]; done {
				continue
			}
			for _, alt := range alts {
				if n == alt {
					idx[canonical] = i
					break
				}
			}
		}
	}
	return idx, len(idx)
}

func field(fields []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}
