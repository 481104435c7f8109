package domain

import "time"

// RawRecord is a decoded but not yet validated catalog row. Decoders map
// source-specific layouts (pipe-delimited text, XML elements, GeoJSON
// features, CSV rows) into this shape; Normalize does the validation.
type RawRecord struct {
	EventID   string
	Date      string // date part, or full date-time when Time is empty
	Time      string // time part, may carry a WIB/UTC token
	Latitude  string // may carry an LS/LU/N/S hemisphere suffix
	Longitude string // may carry a BT/BB/E/W hemisphere suffix
	Depth     string // may carry a "km" suffix
	Magnitude string
	MagType   string
	Remarks   string
	TimeSent  string // dissemination feed only: warning send time
}

// NormalizedEvent is the canonical representation of one catalog entry.
// Every field except EventID, MagType, Remarks and SentTime is guaranteed
// present and in range; records that cannot satisfy that are dropped
// during normalization instead of being propagated malformed.
type NormalizedEvent struct {
	SourceID   string     `json:"source_id"`
	EventID    string     `json:"event_id,omitempty"`
	OriginTime time.Time  `json:"origin_time"` // UTC
	Latitude   float64    `json:"latitude"`    // [-90, 90]
	Longitude  float64    `json:"longitude"`   // [-180, 180]
	DepthKm    float64    `json:"depth_km"`    // >= 0
	Magnitude  float64    `json:"magnitude"`
	MagType    string     `json:"magnitude_type,omitempty"`
	Remarks    string     `json:"remarks,omitempty"`
	SentTime   *time.Time `json:"sent_time,omitempty"` // dissemination feed only
}

// MatchedPair joins two catalog entries describing the same physical
// earthquake. TimeDeltaSeconds is signed (secondary minus primary) and
// never exceeds the tolerance used to produce the pair.
type MatchedPair struct {
	Primary          NormalizedEvent `json:"primary"`
	Secondary        NormalizedEvent `json:"secondary"`
	TimeDeltaSeconds float64         `json:"time_delta_seconds"`
	DistanceKm       float64         `json:"distance_km"`
	MagnitudeDelta   float64         `json:"magnitude_delta"`
	DepthDelta       float64         `json:"depth_delta"`
}

// Milestone identifies which external record supplied a latency timestamp.
type Milestone string

const (
	MilestoneProcessing    Milestone = "processing"
	MilestoneDissemination Milestone = "dissemination"
	MilestoneTOAST         Milestone = "toast"
	MilestoneSeisComP      Milestone = "seiscomp"
)

// LatencyRecord captures how long a source took to reach a milestone for
// one event. A negative lapse is kept but flagged: it indicates upstream
// clock skew or a bad join, and must never blend silently into valid rows.
type LatencyRecord struct {
	Event         NormalizedEvent `json:"event"`
	Milestone     Milestone       `json:"milestone"`
	MilestoneTime time.Time       `json:"milestone_time,omitempty"`
	LapseSeconds  float64         `json:"lapse_seconds"`
	Available     bool            `json:"available"`
	Flagged       bool            `json:"flagged,omitempty"`
	FlagReason    string          `json:"flag_reason,omitempty"`
}

// ComparisonRow is one reporting-ready line derived from a matched pair.
type ComparisonRow struct {
	PrimaryID        string    `json:"primary_id,omitempty"`
	SecondaryID      string    `json:"secondary_id,omitempty"`
	PrimaryTime      time.Time `json:"primary_time"`
	SecondaryTime    time.Time `json:"secondary_time"`
	TimeDeltaSeconds float64   `json:"time_delta_seconds"`
	MagnitudeDelta   float64   `json:"magnitude_delta"`
	DepthDelta       float64   `json:"depth_delta"`
	DistanceKm       float64   `json:"distance_km"`
}

// ComparisonTable is the aggregator output consumed by the reporting layer.
type ComparisonTable struct {
	PrimarySource   string          `json:"primary_source"`
	SecondarySource string          `json:"secondary_source"`
	Rows            []ComparisonRow `json:"rows"`
}
