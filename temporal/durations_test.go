package temporal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
)

func relDate(t *testing.T, s string) RelativeTo {
	return RelativeToDate(mustDate(t, s))
}

func relZoned(t *testing.T, s string) RelativeTo {
	return RelativeToZoned(mustZoned(t, s))
}

func TestRoundDuration(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts duration.RoundingOptions
		rel  string
		want string
	}{
		{"months into years", "P1Y12M",
			duration.RoundingOptions{LargestUnit: duration.Year, SmallestUnit: duration.Month, Increment: 3, Mode: duration.Expand},
			"2020-01-01", "P2Y"},
		{"month overflow", "P1Y13M", duration.RoundingOptions{SmallestUnit: duration.Month}, "2020-01-01", "P2Y1M"},
		{"minutes", "PT130M45.5S", duration.RoundingOptions{LargestUnit: duration.Hour, SmallestUnit: duration.Minute}, "", "PT2H11M"},
		{"days to weeks", "P20D", duration.RoundingOptions{LargestUnit: duration.Week}, "2020-01-01", "P2W6D"},
		{"days to months", "P45D", duration.RoundingOptions{LargestUnit: duration.Month, SmallestUnit: duration.Month}, "2020-01-01", "P1M"},
		{"days to leap months", "P45D", duration.RoundingOptions{SmallestUnit: duration.Month}, "2020-02-01", "P2M"},
		{"half month down", "P45D", duration.RoundingOptions{SmallestUnit: duration.Month, Mode: duration.HalfTrunc}, "2021-01-15", "P1M"},
		{"half month up", "P45D", duration.RoundingOptions{SmallestUnit: duration.Month}, "2021-01-15", "P2M"},
		{"hours to days", "PT49H", duration.RoundingOptions{LargestUnit: duration.Day}, "", "P2DT1H"},
		{"negative", "-PT90M", duration.RoundingOptions{SmallestUnit: duration.Hour, Mode: duration.Floor}, "", "-PT2H"},
		{"negative calendar", "-P1M20D", duration.RoundingOptions{SmallestUnit: duration.Month}, "2020-03-31", "-P2M"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rel RelativeTo
			if tt.rel != "" {
				rel = relDate(t, tt.rel)
			}
			got, err := RoundDuration(mustDuration(t, tt.in), tt.opts, rel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assertOneSign(t, got)

			again, err := RoundDuration(got, tt.opts, rel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, again.String(), "rounding is not idempotent")
		})
	}
}

func TestRoundDurationSubsecondCarry(t *testing.T) {
	d := duration.MustNew(0, 0, 0, 0, 0, 0, 0, 999, 999999, 999999999)
	got, err := RoundDuration(d, duration.RoundingOptions{LargestUnit: duration.Second}, RelativeTo{})
	require.NoError(t, err)
	want := duration.Fields{Seconds: 2, Milliseconds: 998, Microseconds: 998, Nanoseconds: 999}
	if diff := cmp.Diff(want, got.Fields()); diff != "" {
		t.Errorf("RoundDuration() mismatch (-want +got):\n%s", diff)
	}

	neg, err := RoundDuration(d.Negated(), duration.RoundingOptions{LargestUnit: duration.Second}, RelativeTo{})
	require.NoError(t, err)
	assert.Equal(t, got.Negated().Fields(), neg.Fields())
}

func TestRoundDurationErrors(t *testing.T) {
	_, err := RoundDuration(mustDuration(t, "P1M"), duration.RoundingOptions{SmallestUnit: duration.Day}, RelativeTo{})
	assert.True(t, failure.IsRange(err))

	_, err = RoundDuration(mustDuration(t, "P1D"), duration.RoundingOptions{LargestUnit: duration.Week}, RelativeTo{})
	assert.True(t, failure.IsRange(err))

	_, err = RoundDuration(mustDuration(t, "PT1H"), duration.RoundingOptions{}, RelativeTo{})
	assert.True(t, failure.IsRange(err))

	_, err = RoundDuration(mustDuration(t, "PT1H"), duration.RoundingOptions{LargestUnit: duration.Minute, SmallestUnit: duration.Hour}, RelativeTo{})
	assert.True(t, failure.IsRange(err))

	_, err = RoundDuration(mustDuration(t, "PT1H"), duration.RoundingOptions{SmallestUnit: duration.Minute, Increment: 45}, RelativeTo{})
	assert.True(t, failure.IsRange(err))
}

func TestRoundDurationZoned(t *testing.T) {
	rel := relZoned(t, "2024-03-10T00:00-08:00[America/Los_Angeles]")

	got, err := RoundDuration(mustDuration(t, "PT23H"), duration.RoundingOptions{LargestUnit: duration.Day}, rel)
	require.NoError(t, err)
	assert.Equal(t, "P1D", got.String())

	got, err = RoundDuration(mustDuration(t, "PT24H"), duration.RoundingOptions{LargestUnit: duration.Day}, rel)
	require.NoError(t, err)
	assert.Equal(t, "P1DT1H", got.String())

	got, err = RoundDuration(mustDuration(t, "PT11H30M"), duration.RoundingOptions{SmallestUnit: duration.Day}, rel)
	require.NoError(t, err)
	assert.Equal(t, "P1D", got.String())
}

func TestTotalDuration(t *testing.T) {
	tests := []struct {
		name string
		in   string
		unit duration.Unit
		rel  RelativeTo
		want float64
	}{
		{"february", "P1M", duration.Day, relDate(t, "2020-02-01"), 29},
		{"hours in days", "PT36H", duration.Day, RelativeTo{}, 1.5},
		{"days in months", "P45D", duration.Month, relDate(t, "2020-01-01"), 1 + 14.0/29},
		{"leap year", "P366D", duration.Year, relDate(t, "2020-01-01"), 1},
		{"negative", "-P1M", duration.Day, relDate(t, "2020-03-31"), -29},
		{"short day", "P1D", duration.Hour, relZoned(t, "2024-03-10T00:00-08:00[America/Los_Angeles]"), 23},
		{"long day", "PT25H", duration.Day, relZoned(t, "2024-11-03T00:00-07:00[America/Los_Angeles]"), 1},
		{"minutes", "PT1H30M", duration.Minute, RelativeTo{}, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TotalDuration(mustDuration(t, tt.in), tt.unit, tt.rel)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	_, err := TotalDuration(mustDuration(t, "P1M"), duration.Day, RelativeTo{})
	assert.True(t, failure.IsRange(err))
	_, err = TotalDuration(mustDuration(t, "P1D"), duration.UnitNone, RelativeTo{})
	assert.True(t, failure.IsType(err))
}

func TestAddDurations(t *testing.T) {
	tests := []struct {
		a, b string
		rel  RelativeTo
		want string
	}{
		{"P1Y", "P365D", relDate(t, "2016-01-01"), "P2Y"},
		{"P1Y", "P365D", relDate(t, "2015-01-01"), "P1Y11M30D"},
		{"PT20H", "PT20H", RelativeTo{}, "PT40H"},
		{"P1D", "PT20H", RelativeTo{}, "P1DT20H"},
		{"P1D", "PT1H", relZoned(t, "2024-03-10T00:00-08:00[America/Los_Angeles]"), "P1DT1H"},
		{"PT1H", "-PT3H", RelativeTo{}, "-PT2H"},
	}
	for _, tt := range tests {
		t.Run(tt.a+"+"+tt.b, func(t *testing.T) {
			got, err := AddDurations(mustDuration(t, tt.a), mustDuration(t, tt.b), tt.rel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assertOneSign(t, got)
		})
	}

	got, err := SubtractDurations(mustDuration(t, "P2D"), mustDuration(t, "PT12H"), RelativeTo{})
	require.NoError(t, err)
	assert.Equal(t, "P1DT12H", got.String())

	_, err = AddDurations(mustDuration(t, "P1M"), mustDuration(t, "P1D"), RelativeTo{})
	assert.True(t, failure.IsRange(err))
}

func TestCompareDurations(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		rel  RelativeTo
		want int
	}{
		{"short february", "P1M", "P30D", relDate(t, "2020-02-01"), -1},
		{"long january", "P1M", "P30D", relDate(t, "2020-01-01"), 1},
		{"fixed day", "PT24H", "P1D", RelativeTo{}, 0},
		{"same fields", "P1Y", "P1Y", RelativeTo{}, 0},
		{"short zoned day", "P1D", "PT24H", relZoned(t, "2024-03-10T00:00-08:00[America/Los_Angeles]"), -1},
		{"long zoned day", "P1D", "PT24H", relZoned(t, "2024-11-03T00:00-07:00[America/Los_Angeles]"), 1},
		{"seconds", "PT59.999999999S", "PT1M", RelativeTo{}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompareDurations(mustDuration(t, tt.a), mustDuration(t, tt.b), tt.rel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			back, err := CompareDurations(mustDuration(t, tt.b), mustDuration(t, tt.a), tt.rel)
			require.NoError(t, err)
			assert.Equal(t, -tt.want, back)
		})
	}

	_, err := CompareDurations(mustDuration(t, "P1M"), mustDuration(t, "P30D"), RelativeTo{})
	assert.True(t, failure.IsRange(err))
}
