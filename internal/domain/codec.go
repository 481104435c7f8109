package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Hemisphere suffixes observed across the feeds. The warning feed uses the
// Indonesian abbreviations (LS = Lintang Selatan, LU = Lintang Utara,
// BB = Bujur Barat, BT = Bujur Timur); the quick-look catalog and the
// international feeds use single-letter compass markers.
var (
	latNegativeSuffixes = []string{"LS", "S"}
	latPositiveSuffixes = []string{"LU", "N"}
	lonNegativeSuffixes = []string{"BB", "W"}
	lonPositiveSuffixes = []string{"BT", "E"}
)

// TimestampLayouts is the ordered list of layouts tried by ParseTimestamp.
// Every source shares this list instead of carrying its own try chain.
var TimestampLayouts = []string{
	"2006-01-02 15:04:05.00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006 15:04:05",
	"2006-01-02",
}

// timezone tokens stripped before layout matching. All feed times are
// already expressed in UTC; the token is presentational.
var timezoneTokens = []string{"WIB", "UTC"}

// ParseLatitude converts a raw latitude field to signed decimal degrees.
// A trailing LS/S suffix makes the value negative, LU/N positive; a bare
// number is passed through. Out-of-range values are an error — several
// upstream scripts skipped this check and let bad rows through.
func ParseLatitude(raw string) (float64, error) {
	v, err := parseSuffixed(raw, latNegativeSuffixes, latPositiveSuffixes)
	if err != nil {
		return 0, fmt.Errorf("parse latitude %q: %w", raw, err)
	}
	if v < -90 || v > 90 {
		return 0, fmt.Errorf("latitude %q out of range [-90, 90]", raw)
	}
	return v, nil
}

// ParseLongitude converts a raw longitude field to signed decimal degrees.
// BB/W is negative, BT/E positive.
func ParseLongitude(raw string) (float64, error) {
	v, err := parseSuffixed(raw, lonNegativeSuffixes, lonPositiveSuffixes)
	if err != nil {
		return 0, fmt.Errorf("parse longitude %q: %w", raw, err)
	}
	if v < -180 || v > 180 {
		return 0, fmt.Errorf("longitude %q out of range [-180, 180]", raw)
	}
	return v, nil
}

// FormatLatitude renders a signed latitude with the Indonesian hemisphere
// suffix, the inverse of ParseLatitude for feed-style values.
func FormatLatitude(v float64) string {
	if v < 0 {
		return fmt.Sprintf("%.2f LS", -v)
	}
	return fmt.Sprintf("%.2f LU", v)
}

// FormatLongitude renders a signed longitude, the inverse of ParseLongitude.
func FormatLongitude(v float64) string {
	if v < 0 {
		return fmt.Sprintf("%.2f BB", -v)
	}
	return fmt.Sprintf("%.2f BT", v)
}

// ParseDepth converts a depth field to kilometers, stripping a trailing
// "km" unit. Negative depths are rejected.
func ParseDepth(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "km"), "Km"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse depth %q: %w", raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("depth %q is negative", raw)
	}
	return v, nil
}

// ParseMagnitude converts a magnitude field to a float.
func ParseMagnitude(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("parse magnitude %q: %w", raw, err)
	}
	return v, nil
}

// ParseTimestamp strips known timezone tokens and tries each layout in
// order. The boolean is false when no layout matches; callers skip the
// record rather than handle an error. The result is always UTC.
func ParseTimestamp(raw string, layouts []string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	for _, tok := range timezoneTokens {
		s = strings.TrimSpace(strings.ReplaceAll(s, tok, ""))
	}
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseSuffixed strips one trailing hemisphere marker and applies its sign.
// Negative suffixes are tried first: "LS" must win over its substring "S".
func parseSuffixed(raw string, negative, positive []string) (float64, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	sign := 1.0
	matched := false
	for _, suf := range negative {
		if strings.HasSuffix(s, suf) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suf))
			sign = -1.0
			matched = true
			break
		}
	}
	if !matched {
		for _, suf := range positive {
			if strings.HasSuffix(s, suf) {
				s = strings.TrimSpace(strings.TrimSuffix(s, suf))
				matched = true
				break
			}
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if !matched {
		// Bare signed decimal, already canonical.
		return v, nil
	}
	// The suffix carries the hemisphere; a redundant leading sign would
	// cancel it, so the magnitude is taken as absolute.
	if v < 0 {
		v = -v
	}
	return sign * v, nil
}
