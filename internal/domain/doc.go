// Package domain models seismic bulletin data from the monitored feeds.
//
// # Data Sources
//
// Four catalog families feed the engine:
//
//   - Quick-look catalog: pipe-delimited text, one header row, one row per
//     event. Columns: event_id | date_time | mode | status | phase | mag |
//     type_mag | n_mag | azimuth | rms | lat | lon | depth | type_event |
//     remarks. Coordinates carry compass suffixes ("3.25 S", "128.30 E"),
//     depth carries a "km" suffix, and the file ends with footer lines
//     that are not data rows.
//   - Warning/dissemination feed: XML, element-per-field, the most recent
//     warning messages. Coordinates use Indonesian hemisphere suffixes
//     ("3.25 LS" = 3.25° south, "128.30 BT" = 128.30° east) and times may
//     carry a "WIB" or "UTC" token. The <timesent> element records when
//     the public warning went out.
//   - International GeoJSON catalog: point features with [lon, lat, depth]
//     geometry, epoch-millisecond "time" property, "mag"/"magType"/"place".
//   - International CSV catalog: standard header with ISO-8601 times and
//     signed decimal coordinates.
//
// # Coordinate Conventions
//
//	LS / S  →  southern hemisphere, negative latitude
//	LU / N  →  northern hemisphere, positive latitude
//	BB / W  →  western hemisphere, negative longitude
//	BT / E  →  eastern hemisphere, positive longitude
//
// A suffixed value's magnitude is taken as absolute; the suffix alone
// decides the sign. Parsed values outside [-90, 90] / [-180, 180] are
// rejected — the upstream scripts were inconsistent about this and some
// let out-of-range rows through.
//
// # Milestones
//
// Latency analysis measures the gap between an event's origin time and an
// externally recorded milestone:
//
//	processing     first timestamp column of the per-event history record
//	dissemination  <timesent> of the warning feed entry
//	toast          first marker line of the TOAST incident log
//	seiscomp       first marker line of the SeisComP processing log
//
// Incident logs exist only for events carrying the national network's
// "bmg" id prefix; other events do not participate in those comparisons.
// A milestone earlier than the origin time is physically impossible and
// is flagged instead of averaged away: it means upstream clock skew or a
// join against the wrong event.
package domain
