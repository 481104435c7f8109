package correlate

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakemon/quake-monev/internal/domain"
)

func event(id string, at time.Time, lat, lon, depth, mag float64) domain.NormalizedEvent {
	return domain.NormalizedEvent{
		SourceID:   "test",
		EventID:    id,
		OriginTime: at,
		Latitude:   lat,
		Longitude:  lon,
		DepthKm:    depth,
		Magnitude:  mag,
	}
}

var baseTime = time.Date(2025, 3, 1, 1, 15, 30, 0, time.UTC)

func TestCorrelate_PairEnrichment(t *testing.T) {
	primary := []domain.NormalizedEvent{
		event("p1", baseTime, -2.50, 128.30, 10, 5.2),
	}
	secondary := []domain.NormalizedEvent{
		event("s1", baseTime.Add(12*time.Second), -2.60, 128.20, 14, 5.5),
	}

	pairs := Correlate(primary, secondary, 30*time.Second)
	require.Len(t, pairs, 1)

	pair := pairs[0]
	assert.Equal(t, "p1", pair.Primary.EventID)
	assert.Equal(t, "s1", pair.Secondary.EventID)
	assert.InDelta(t, 12, pair.TimeDeltaSeconds, 1e-9)
	assert.InDelta(t, 15.7, pair.DistanceKm, 0.1)
	assert.InDelta(t, 0.3, pair.MagnitudeDelta, 1e-9)
	assert.InDelta(t, 4, pair.DepthDelta, 1e-9)
}

func TestCorrelate_SignedTimeDelta(t *testing.T) {
	primary := []domain.NormalizedEvent{event("p1", baseTime, 0, 0, 0, 5)}
	secondary := []domain.NormalizedEvent{event("s1", baseTime.Add(-8*time.Second), 0, 0, 0, 5)}

	pairs := Correlate(primary, secondary, 30*time.Second)
	require.Len(t, pairs, 1)
	assert.InDelta(t, -8, pairs[0].TimeDeltaSeconds, 1e-9)
}

func TestCorrelate_NearestWins(t *testing.T) {
	primary := []domain.NormalizedEvent{event("p1", baseTime, 0, 0, 0, 5)}
	secondary := []domain.NormalizedEvent{
		event("far", baseTime.Add(25*time.Second), 0, 0, 0, 5),
		event("near", baseTime.Add(3*time.Second), 0, 0, 0, 5),
		event("other-side", baseTime.Add(-10*time.Second), 0, 0, 0, 5),
	}

	pairs := Correlate(primary, secondary, 30*time.Second)
	require.Len(t, pairs, 1)
	assert.Equal(t, "near", pairs[0].Secondary.EventID)
}

func TestCorrelate_TieBreaksByInputOrder(t *testing.T) {
	primary := []domain.NormalizedEvent{event("p1", baseTime, 0, 0, 0, 5)}
	secondary := []domain.NormalizedEvent{
		event("first", baseTime.Add(10*time.Second), 0, 0, 0, 5),
		event("second", baseTime.Add(-10*time.Second), 0, 0, 0, 5),
	}

	pairs := Correlate(primary, secondary, 30*time.Second)
	require.Len(t, pairs, 1)
	assert.Equal(t, "first", pairs[0].Secondary.EventID)
}

func TestCorrelate_ToleranceBoundaryInclusive(t *testing.T) {
	tolerance := 30 * time.Second
	primary := []domain.NormalizedEvent{event("p1", baseTime, 0, 0, 0, 5)}

	atBoundary := []domain.NormalizedEvent{event("s1", baseTime.Add(tolerance), 0, 0, 0, 5)}
	pairs := Correlate(primary, atBoundary, tolerance)
	assert.Len(t, pairs, 1, "exactly tolerance apart must match")

	beyond := []domain.NormalizedEvent{event("s1", baseTime.Add(tolerance+time.Millisecond), 0, 0, 0, 5)}
	pairs = Correlate(primary, beyond, tolerance)
	assert.Empty(t, pairs, "past tolerance must not match")
}

func TestCorrelate_EmptyInputs(t *testing.T) {
	some := []domain.NormalizedEvent{event("p1", baseTime, 0, 0, 0, 5)}
	assert.Empty(t, Correlate(nil, some, time.Second))
	assert.Empty(t, Correlate(some, nil, time.Second))
	assert.Empty(t, Correlate(nil, nil, time.Second))
}

func TestCorrelate_UnmatchedPrimaryYieldsNothing(t *testing.T) {
	primary := []domain.NormalizedEvent{
		event("p1", baseTime, 0, 0, 0, 5),
		event("p2", baseTime.Add(time.Hour), 0, 0, 0, 5),
	}
	secondary := []domain.NormalizedEvent{event("s1", baseTime.Add(5*time.Second), 0, 0, 0, 5)}

	pairs := Correlate(primary, secondary, 30*time.Second)
	require.Len(t, pairs, 1)
	assert.Equal(t, "p1", pairs[0].Primary.EventID)
}

func TestCorrelate_UnsortedInput(t *testing.T) {
	primary := []domain.NormalizedEvent{
		event("p2", baseTime.Add(10*time.Minute), 0, 0, 0, 5),
		event("p1", baseTime, 0, 0, 0, 5),
	}
	secondary := []domain.NormalizedEvent{
		event("s2", baseTime.Add(10*time.Minute+5*time.Second), 0, 0, 0, 5),
		event("s1", baseTime.Add(3*time.Second), 0, 0, 0, 5),
	}

	pairs := Correlate(primary, secondary, 30*time.Second)
	require.Len(t, pairs, 2)
	assert.Equal(t, "s1", pairs[0].Secondary.EventID)
	assert.Equal(t, "s2", pairs[1].Secondary.EventID)
}

func TestCorrelate_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	primary := randomCatalog(rng, 30)
	secondary := randomCatalog(rng, 30)

	first := Correlate(primary, secondary, 20*time.Second)
	second := Correlate(primary, secondary, 20*time.Second)
	assert.Equal(t, first, second)
}

// The windowed scan must agree with the exhaustive reference on random
// catalogs, ties included.
func TestCorrelate_MatchesNaiveReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		primary := randomCatalog(rng, 40)
		secondary := randomCatalog(rng, 60)
		tolerance := time.Duration(1+rng.Intn(60)) * time.Second

		fast := Correlate(primary, secondary, tolerance)
		slow := correlateNaive(primary, secondary, tolerance)
		require.Equal(t, slow, fast, "trial %d tolerance %s", trial, tolerance)
	}
}

// randomCatalog emits second-granularity times in a narrow range so ties
// and dense clusters actually occur.
func randomCatalog(rng *rand.Rand, n int) []domain.NormalizedEvent {
	events := make([]domain.NormalizedEvent, 0, n)
	for i := 0; i < n; i++ {
		at := baseTime.Add(time.Duration(rng.Intn(600)) * time.Second)
		events = append(events, event("", at,
			-13+rng.Float64()*19,
			90+rng.Float64()*52,
			rng.Float64()*300,
			4+rng.Float64()*3,
		))
	}
	return events
}
