package catalog

import (
	"encoding/xml"
	"fmt"

	"github.com/quakemon/quake-monev/internal/domain"
)

// warningFeed mirrors the dissemination feed document: a list of warning
// entries, element-per-field.
type warningFeed struct {
	XMLName xml.Name       `xml:"Infogempa"`
	Events  []warningEntry `xml:"gempa"`
}

type warningEntry struct {
	EventID   string `xml:"eventid"`
	Date      string `xml:"date"`
	Time      string `xml:"time"`
	TimeSent  string `xml:"timesent"`
	Latitude  string `xml:"latitude"`
	Longitude string `xml:"longitude"`
	Magnitude string `xml:"magnitude"`
	Depth     string `xml:"depth"`
	Potential string `xml:"potential"`
}

// DecodeWarningXML parses the tsunami-warning dissemination feed. The
// <timesent> element is carried through: it is the dissemination
// milestone for latency analysis.
func DecodeWarningXML(sourceID string, data []byte) ([]domain.RawRecord, error) {
	var feed warningFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, &StructuralError{Source: sourceID, Reason: fmt.Sprintf("malformed XML: %v", err)}
	}
	if len(feed.Events) == 0 {
		return nil, &StructuralError{Source: sourceID, Reason: "feed contains no warning entries"}
	}

	records := make([]domain.RawRecord, 0, len(feed.Events))
	for _, e := range feed.Events {
		records = append(records, domain.RawRecord{
			EventID:   e.EventID,
			Date:      e.Date,
			Time:      e.Time,
			TimeSent:  e.TimeSent,
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
			Depth:     e.Depth,
			Magnitude: e.Magnitude,
			Remarks:   e.Potential,
		})
	}
	return records, nil
}
