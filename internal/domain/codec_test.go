package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLatitude(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{"indonesian south", "3.25 LS", -3.25},
		{"indonesian north", "3.25 LU", 3.25},
		{"compass south", "3.25 S", -3.25},
		{"compass north", "3.25 N", 3.25},
		{"no space before suffix", "3.25LS", -3.25},
		{"lowercase suffix", "3.25 ls", -3.25},
		{"bare positive", "3.25", 3.25},
		{"bare negative", "-3.25", -3.25},
		{"equator", "0.00 LU", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseLatitude(tt.raw)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, v, 1e-9)
		})
	}

	t.Run("rejects out of range", func(t *testing.T) {
		_, err := ParseLatitude("91.00 LU")
		require.Error(t, err)
		_, err = ParseLatitude("95.5 LS")
		require.Error(t, err)
	})

	t.Run("rejects non-numeric", func(t *testing.T) {
		_, err := ParseLatitude("abc LS")
		require.Error(t, err)
	})
}

func TestParseLongitude(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{"indonesian east", "128.30 BT", 128.30},
		{"indonesian west", "128.30 BB", -128.30},
		{"compass east", "128.30 E", 128.30},
		{"compass west", "98.44 W", -98.44},
		{"bare negative", "-98.44", -98.44},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseLongitude(tt.raw)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, v, 1e-9)
		})
	}

	// The upstream scripts accepted this silently; the codec must not.
	t.Run("rejects out of range", func(t *testing.T) {
		_, err := ParseLongitude("190.10 BB")
		require.Error(t, err)
	})
}

func TestCoordinateRoundTrip(t *testing.T) {
	for lat := -90.0; lat <= 90.0; lat += 2.25 {
		v, err := ParseLatitude(FormatLatitude(lat))
		require.NoError(t, err)
		assert.InDelta(t, lat, v, 1e-9, "latitude %f", lat)
	}
	for lon := -180.0; lon <= 180.0; lon += 4.5 {
		v, err := ParseLongitude(FormatLongitude(lon))
		require.NoError(t, err)
		assert.InDelta(t, lon, v, 1e-9, "longitude %f", lon)
	}
}

func TestParseDepth(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
	}{
		{"10 km", 10},
		{"10km", 10},
		{"12.5 Km", 12.5},
		{"300", 300},
	}
	for _, tt := range tests {
		v, err := ParseDepth(tt.raw)
		require.NoError(t, err)
		assert.InDelta(t, tt.expected, v, 1e-9)
	}

	_, err := ParseDepth("-5 km")
	require.Error(t, err)
	_, err = ParseDepth("deep")
	require.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	t.Run("strips timezone tokens", func(t *testing.T) {
		ts, ok := ParseTimestamp("2025-03-01 08:15:30 WIB", TimestampLayouts)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 3, 1, 8, 15, 30, 0, time.UTC), ts)

		ts, ok = ParseTimestamp("2025-03-01 08:15:30 UTC", TimestampLayouts)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 3, 1, 8, 15, 30, 0, time.UTC), ts)
	})

	t.Run("tries layouts in order", func(t *testing.T) {
		ts, ok := ParseTimestamp("2025-03-01 08:15:30.25", TimestampLayouts)
		require.True(t, ok)
		assert.Equal(t, 250*time.Millisecond, time.Duration(ts.Nanosecond()))

		ts, ok = ParseTimestamp("2025-03-01T08:15:30Z", TimestampLayouts)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 3, 1, 8, 15, 30, 0, time.UTC), ts)

		ts, ok = ParseTimestamp("01/03/2025 08:15:30", TimestampLayouts)
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, 3, 1, 8, 15, 30, 0, time.UTC), ts)
	})

	t.Run("missing sentinel on failure", func(t *testing.T) {
		_, ok := ParseTimestamp("not a time", TimestampLayouts)
		assert.False(t, ok)
		_, ok = ParseTimestamp("", TimestampLayouts)
		assert.False(t, ok)
		_, ok = ParseTimestamp("WIB", TimestampLayouts)
		assert.False(t, ok)
	})
}

func TestParseMagnitude(t *testing.T) {
	v, err := ParseMagnitude(" 5.6 ")
	require.NoError(t, err)
	assert.InDelta(t, 5.6, v, 1e-9)

	_, err = ParseMagnitude("M5")
	require.Error(t, err)
}
