package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzlist/civiltime/calendar"
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/isostring"
	"github.com/tzlist/civiltime/timezone"
)

func utcString(t *testing.T, z ZonedMoment) string {
	t.Helper()
	s, err := FormatInstant(z.ToInstant(), nil, StringOptions{SmallestUnit: duration.Minute})
	require.NoError(t, err)
	return s
}

func TestZonedUntil(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		opts     duration.RoundingOptions
		want     string
	}{
		{"spring hours", "2024-03-09T12:00-08:00[America/Los_Angeles]", "2024-03-10T12:00-07:00[America/Los_Angeles]",
			duration.RoundingOptions{}, "PT23H"},
		{"spring days", "2024-03-09T12:00-08:00[America/Los_Angeles]", "2024-03-10T12:00-07:00[America/Los_Angeles]",
			duration.RoundingOptions{LargestUnit: duration.Day}, "P1D"},
		{"fall hours", "2024-11-02T12:00-07:00[America/Los_Angeles]", "2024-11-03T12:00-08:00[America/Los_Angeles]",
			duration.RoundingOptions{}, "PT25H"},
		{"fall days", "2024-11-02T12:00-07:00[America/Los_Angeles]", "2024-11-03T12:00-08:00[America/Los_Angeles]",
			duration.RoundingOptions{LargestUnit: duration.Day}, "P1D"},
		{"short day rounds up at half", "2024-03-09T00:00-08:00[America/Los_Angeles]", "2024-03-10T12:30-07:00[America/Los_Angeles]",
			duration.RoundingOptions{SmallestUnit: duration.Day, Mode: duration.HalfExpand}, "P2D"},
		{"months", "2024-01-31T10:00-08:00[America/Los_Angeles]", "2024-03-31T09:00-07:00[America/Los_Angeles]",
			duration.RoundingOptions{LargestUnit: duration.Month}, "P1M30DT23H"},
		{"backwards", "2024-03-10T12:00-07:00[America/Los_Angeles]", "2024-03-09T12:00-08:00[America/Los_Angeles]",
			duration.RoundingOptions{LargestUnit: duration.Day}, "-P1D"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := mustZoned(t, tt.from), mustZoned(t, tt.to)
			got, err := from.Until(to, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assertOneSign(t, got)

			back, err := from.Since(to, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, got.Negated().String(), back.String())
		})
	}

	a := mustZoned(t, "2024-03-09T12:00-08:00[America/Los_Angeles]")
	b := mustZoned(t, "2024-03-09T20:00+00:00[UTC]")
	_, err := a.Until(b, duration.RoundingOptions{LargestUnit: duration.Day})
	assert.True(t, failure.IsRange(err))
	d, err := a.Until(b, duration.RoundingOptions{})
	require.NoError(t, err)
	assert.Equal(t, "PT0S", d.String())
}

func TestZonedAdd(t *testing.T) {
	z := mustZoned(t, "2024-03-09T12:00-08:00[America/Los_Angeles]")

	got, err := z.Add(mustDuration(t, "P1D"), calendar.Constrain)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10T12:00:00-07:00[America/Los_Angeles]", got.String())

	got, err = z.Add(mustDuration(t, "PT24H"), calendar.Constrain)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10T13:00:00-07:00[America/Los_Angeles]", got.String())

	got, err = got.Subtract(mustDuration(t, "PT24H"), calendar.Constrain)
	require.NoError(t, err)
	assert.True(t, got.Equal(z))

	gap := mustZoned(t, "2024-03-09T02:30-08:00[America/Los_Angeles]")
	got, err = gap.Add(mustDuration(t, "P1D"), calendar.Constrain)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10T03:30:00-07:00[America/Los_Angeles]", got.String())
}

func TestHoursInDay(t *testing.T) {
	for s, want := range map[string]float64{
		"2024-03-10T12:00[America/Los_Angeles]": 23,
		"2024-11-03T12:00[America/Los_Angeles]": 25,
		"2024-07-04T12:00[America/Los_Angeles]": 24,
		"2024-03-10T12:00[+05:30]":              24,
	} {
		h, err := mustZoned(t, s).HoursInDay()
		require.NoError(t, err)
		assert.Equal(t, want, h, s)
	}
}

func TestZonedRound(t *testing.T) {
	tests := []struct {
		in   string
		opts duration.RoundingOptions
		want string
	}{
		{"2024-03-10T12:00-07:00[America/Los_Angeles]", duration.RoundingOptions{SmallestUnit: duration.Day},
			"2024-03-10T00:00:00-08:00[America/Los_Angeles]"},
		{"2024-03-10T12:30-07:00[America/Los_Angeles]", duration.RoundingOptions{SmallestUnit: duration.Day},
			"2024-03-11T00:00:00-07:00[America/Los_Angeles]"},
		{"2024-11-03T11:40-08:00[America/Los_Angeles]", duration.RoundingOptions{SmallestUnit: duration.Day},
			"2024-11-04T00:00:00-08:00[America/Los_Angeles]"},
		{"2024-11-03T11:00-08:00[America/Los_Angeles]", duration.RoundingOptions{SmallestUnit: duration.Day},
			"2024-11-03T00:00:00-07:00[America/Los_Angeles]"},
		{"2024-03-10T01:45-08:00[America/Los_Angeles]", duration.RoundingOptions{SmallestUnit: duration.Hour},
			"2024-03-10T03:00:00-07:00[America/Los_Angeles]"},
		{"2024-11-03T01:40-08:00[America/Los_Angeles]", duration.RoundingOptions{SmallestUnit: duration.Minute, Increment: 30},
			"2024-11-03T01:30:00-08:00[America/Los_Angeles]"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := mustZoned(t, tt.in).Round(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	start, err := mustZoned(t, "2024-03-10T12:00-07:00[America/Los_Angeles]").StartOfDay()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10T00:00:00-08:00[America/Los_Angeles]", start.String())
}

// The same wall-clock time resolves to the same instant on every call.
func TestDisambiguation(t *testing.T) {
	la := losAngeles(t)
	tests := []struct {
		dt   string
		d    timezone.Disambiguation
		want string
	}{
		{"2024-03-10T02:30", timezone.Earlier, "2024-03-10T01:30:00-08:00[America/Los_Angeles]"},
		{"2024-03-10T02:30", timezone.Later, "2024-03-10T03:30:00-07:00[America/Los_Angeles]"},
		{"2024-03-10T02:30", timezone.Compatible, "2024-03-10T03:30:00-07:00[America/Los_Angeles]"},
		{"2024-11-03T01:30", timezone.Earlier, "2024-11-03T01:30:00-07:00[America/Los_Angeles]"},
		{"2024-11-03T01:30", timezone.Later, "2024-11-03T01:30:00-08:00[America/Los_Angeles]"},
		{"2024-11-03T01:30", timezone.Compatible, "2024-11-03T01:30:00-07:00[America/Los_Angeles]"},
	}
	for _, tt := range tests {
		t.Run(tt.dt+" "+tt.d.String(), func(t *testing.T) {
			for range 3 {
				z, err := mustDateTime(t, tt.dt).ToZonedMoment(la, tt.d)
				require.NoError(t, err)
				assert.Equal(t, tt.want, z.String())
			}
		})
	}

	_, err := mustDateTime(t, "2024-03-10T02:30").ToZonedMoment(la, timezone.Reject)
	assert.True(t, failure.IsRange(err))
	_, err = mustDateTime(t, "2024-11-03T01:30").ToZonedMoment(la, timezone.Reject)
	assert.True(t, failure.IsRange(err))
}

func TestParseZonedOffset(t *testing.T) {
	tests := []struct {
		offset string
		option OffsetOption
		want   string
	}{
		{"-07:00", OffsetReject, "2024-11-03T08:30Z"},
		{"-08:00", OffsetReject, "2024-11-03T09:30Z"},
		{"-08:00", OffsetIgnore, "2024-11-03T08:30Z"},
		{"-05:00", OffsetPrefer, "2024-11-03T08:30Z"},
		{"-05:00", OffsetUse, "2024-11-03T06:30Z"},
		{"-05:00", OffsetIgnore, "2024-11-03T08:30Z"},
		{"", OffsetReject, "2024-11-03T08:30Z"},
		{"Z", OffsetReject, "2024-11-03T01:30Z"},
	}
	for _, tt := range tests {
		t.Run(tt.offset+" "+tt.option.String(), func(t *testing.T) {
			o := parseOptions(t)
			o.Offset = tt.option
			z, err := ParseZonedMoment("2024-11-03T01:30"+tt.offset+"[America/Los_Angeles]", o)
			require.NoError(t, err)
			assert.Equal(t, tt.want, utcString(t, z))
		})
	}

	_, err := ParseZonedMoment("2024-11-03T01:30-05:00[America/Los_Angeles]", parseOptions(t))
	assert.True(t, failure.IsRange(err))

	o := parseOptions(t)
	o.Disambiguation = timezone.Later
	z, err := ParseZonedMoment("2024-11-03T01:30[America/Los_Angeles]", o)
	require.NoError(t, err)
	assert.Equal(t, "2024-11-03T09:30Z", utcString(t, z))
}

func TestOffsetOption(t *testing.T) {
	for _, o := range []OffsetOption{OffsetReject, OffsetUse, OffsetPrefer, OffsetIgnore} {
		got, err := ParseOffsetOption(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
	_, err := ParseOffsetOption("sometimes")
	assert.True(t, failure.IsRange(err))
}

func TestZonedFormat(t *testing.T) {
	z := mustZoned(t, "2024-03-10T03:04:05.123456789-07:00[America/Los_Angeles][u-ca=gregory]")
	tests := []struct {
		opts StringOptions
		want string
	}{
		{StringOptions{}, "2024-03-10T03:04:05.123456789-07:00[America/Los_Angeles][u-ca=gregory]"},
		{StringOptions{SmallestUnit: duration.Minute, OmitOffset: true}, "2024-03-10T03:04[America/Los_Angeles][u-ca=gregory]"},
		{StringOptions{Digits: 2, TimeZoneName: isostring.TimeZoneNever, CalendarName: isostring.CalendarNever}, "2024-03-10T03:04:05.12-07:00"},
		{StringOptions{SmallestUnit: duration.Second, RoundingMode: duration.HalfExpand}, "2024-03-10T03:04:05-07:00[America/Los_Angeles][u-ca=gregory]"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := z.Format(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	s, err := FormatInstant(z.ToInstant(), nil, StringOptions{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10T10:04:05.123456789Z", s)

	epoch, err := FormatInstant(mustZoned(t, "1970-01-01T00:00Z[UTC]").ToInstant(), nil, StringOptions{})
	require.NoError(t, err)
	assert.Equal(t, "1970-01-01T00:00:00Z", epoch)
}

func TestZonedConversions(t *testing.T) {
	z := mustZoned(t, "2024-03-10T03:30-07:00[America/Los_Angeles]")
	assert.Equal(t, "-07:00", z.Offset())
	assert.Equal(t, "2024-03-10T03:30:00", z.ToCivilDateTime().String())
	assert.Equal(t, "2024-03-10", z.Date().String())
	assert.Equal(t, "03:30:00", z.Time().String())

	utc, err := z.WithTimeZone(timezone.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10T10:30:00+00:00[UTC]", utc.String())
	assert.Equal(t, 0, utc.Compare(z))
	assert.False(t, utc.Equal(z))

	_, err = z.WithTimeZone(nil)
	assert.True(t, failure.IsType(err))

	start, err := mustDate(t, "2024-03-10").StartOfDayIn(losAngeles(t))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10T00:00:00-08:00[America/Los_Angeles]", start.String())
}
