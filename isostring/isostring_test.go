package isostring

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/iso"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		in   string
		want Parsed
	}{
		{"2020-01-01", Parsed{Date: iso.Date{Year: 2020, Month: 1, Day: 1}, HasDate: true}},
		{"2020-01-01T12:30:45.123456789", Parsed{
			Date: iso.Date{Year: 2020, Month: 1, Day: 1}, HasDate: true, HasTime: true,
			Time: iso.Time{Hour: 12, Minute: 30, Second: 45, Millisecond: 123, Microsecond: 456, Nanosecond: 789},
		}},
		{"20200101T123045,5", Parsed{
			Date: iso.Date{Year: 2020, Month: 1, Day: 1}, HasDate: true, HasTime: true,
			Time: iso.Time{Hour: 12, Minute: 30, Second: 45, Millisecond: 500},
		}},
		{"2020-01-01 12:30", Parsed{
			Date: iso.Date{Year: 2020, Month: 1, Day: 1}, HasDate: true, HasTime: true,
			Time: iso.Time{Hour: 12, Minute: 30},
		}},
		{"2020-01-01t07", Parsed{
			Date: iso.Date{Year: 2020, Month: 1, Day: 1}, HasDate: true, HasTime: true,
			Time: iso.Time{Hour: 7},
		}},
		{"+002020-06-15", Parsed{Date: iso.Date{Year: 2020, Month: 6, Day: 15}, HasDate: true}},
		{"-000001-12-31", Parsed{Date: iso.Date{Year: -1, Month: 12, Day: 31}, HasDate: true}},
		{"2016-12-31T23:59:60", Parsed{
			Date: iso.Date{Year: 2016, Month: 12, Day: 31}, HasDate: true, HasTime: true,
			Time: iso.Time{Hour: 23, Minute: 59, Second: 59},
		}},
		{"2020-01-01T12:00+01:00[Europe/Paris][u-ca=gregory]", Parsed{
			Date: iso.Date{Year: 2020, Month: 1, Day: 1}, HasDate: true, HasTime: true,
			Time: iso.Time{Hour: 12}, HasOffset: true, Offset: 3600e9,
			TimeZone: "Europe/Paris", Calendar: "gregory",
		}},
		{"2020-01-01T12:00-01:00:30[!-01:00]", Parsed{
			Date: iso.Date{Year: 2020, Month: 1, Day: 1}, HasDate: true, HasTime: true,
			Time: iso.Time{Hour: 12}, HasOffset: true, Offset: -3630e9, SubMinute: true,
			TimeZone: "-01:00", TimeZoneCritical: true,
		}},
		{"2020-01-01[u-ca=iso8601][u-ca=gregory]", Parsed{
			Date: iso.Date{Year: 2020, Month: 1, Day: 1}, HasDate: true, Calendar: "iso8601",
		}},
		{"2020-01-01[foo=bar][!u-ca=coptic]", Parsed{
			Date: iso.Date{Year: 2020, Month: 1, Day: 1}, HasDate: true, Calendar: "coptic", CalendarCritical: true,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDateTime(tt.in)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseDateTime(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseDateTimeErrors(t *testing.T) {
	tests := []struct {
		in   string
		kind failure.Kind
	}{
		{"", failure.Syntax},
		{"2020-1-01", failure.Syntax},
		{"2020-0101", failure.Syntax},
		{"202001-01", failure.Syntax},
		{"-000000-01-01", failure.Range},
		{"2020-02-30", failure.Range},
		{"2020-13-01", failure.Range},
		{"2020-01-01T24:00", failure.Range},
		{"2020-01-01T12:61", failure.Range},
		{"2020-01-01T12:3045", failure.Syntax},
		{"2020-01-01T12:30.5", failure.Syntax},
		{"2020-01-01T12:00:00.1234567891", failure.Syntax},
		{"2020-01-01T12:00Z", failure.Range},
		{"2020-01-01Z", failure.Syntax},
		{"2020-01-01[U-CA=iso8601]", failure.Syntax},
		{"2020-01-01[u-ca=iso8601][Europe/Paris]", failure.Syntax},
		{"2020-01-01[UTC][UTC]", failure.Syntax},
		{"2020-01-01[!u-ca=iso8601][u-ca=gregory]", failure.Range},
		{"2020-01-01[u-ca=iso8601][!u-ca=gregory]", failure.Range},
		{"2020-01-01[!foo=bar]", failure.Range},
		{"2020-01-01[u-ca=]", failure.Syntax},
		{"2020-01-01[Europe/../Paris]", failure.Syntax},
		{"2020-01-01[UTC", failure.Syntax},
		{"2020-01-01T12:00+01:00:60", failure.Range},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseDateTime(tt.in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, failure.KindOf(err), err.Error())
		})
	}
}

func TestParseTime(t *testing.T) {
	for in, want := range map[string]iso.Time{
		"12:30":                  {Hour: 12, Minute: 30},
		"T1230":                  {Hour: 12, Minute: 30},
		"t12":                    {Hour: 12},
		"12:30:15.25[u-ca=iso8601]": {Hour: 12, Minute: 30, Second: 15, Millisecond: 250},
		"2020-01-01T03:04:05":    {Hour: 3, Minute: 4, Second: 5},
		"123015":                 {Hour: 12, Minute: 30, Second: 15},
		"12:30-08:00":            {Hour: 12, Minute: 30},
	} {
		p, err := ParseTime(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, p.Time, in)
	}

	for in, kind := range map[string]failure.Kind{
		"1230":       failure.Syntax, // also December 30
		"12-14":      failure.Syntax,
		"2021-12":    failure.Syntax,
		"202112":     failure.Syntax,
		"12:30Z":     failure.Range,
		"2020-01-01": failure.Range,
		"25:00":      failure.Range,
	} {
		_, err := ParseTime(in)
		require.Error(t, err, in)
		assert.Equal(t, kind, failure.KindOf(err), in)
	}
}

func TestParseInstantAndZoned(t *testing.T) {
	p, err := ParseInstant("2020-01-01T00:00Z")
	require.NoError(t, err)
	assert.True(t, p.Z)

	p, err = ParseInstant("2020-01-01T00:00+0530[Asia/Kolkata]")
	require.NoError(t, err)
	assert.Equal(t, int64(19800e9), p.Offset)
	assert.False(t, p.SubMinute)

	_, err = ParseInstant("2020-01-01T00:00")
	assert.True(t, failure.IsRange(err))
	_, err = ParseInstant("2020-01-01")
	assert.True(t, failure.IsRange(err))

	p, err = ParseZoned("2020-03-08T02:30-08:00[America/Los_Angeles]")
	require.NoError(t, err)
	assert.Equal(t, "America/Los_Angeles", p.TimeZone)
	assert.Equal(t, int64(-8*3600e9), p.Offset)

	p, err = ParseZoned("2020-03-08[UTC]")
	require.NoError(t, err)
	assert.False(t, p.HasTime)

	_, err = ParseZoned("2020-03-08T00:00Z")
	assert.True(t, failure.IsRange(err))
}

func TestParseOffset(t *testing.T) {
	for in, want := range map[string]int64{
		"+05:30":       19800e9,
		"-0800":        -28800e9,
		"+00":          0,
		"+05:30:15.5":  19815.5e9,
		"-000001":      -1e9,
		"+23:59:59.999999999": 86399999999999,
	} {
		got, err := ParseOffset(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"", "05:00", "+24:00", "+05:3", "+05:30:", "+05:30x"} {
		_, err := ParseOffset(in)
		assert.Error(t, err, in)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		mode duration.RoundingMode
		want duration.Duration
	}{
		{"P1Y2M3W4DT5H6M7.008009010S", duration.ModeUnset, duration.MustNew(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)},
		{"-PT1.5H", duration.ModeUnset, duration.MustNew(0, 0, 0, 0, -1, -30, 0, 0, 0, 0)},
		{"pt1m", duration.ModeUnset, duration.MustNew(0, 0, 0, 0, 0, 1, 0, 0, 0, 0)},
		{"+P10D", duration.ModeUnset, duration.MustNew(0, 0, 0, 10, 0, 0, 0, 0, 0, 0)},
		{"PT1,5S", duration.ModeUnset, duration.MustNew(0, 0, 0, 0, 0, 0, 1, 500, 0, 0)},
		{"PT0.25M", duration.ModeUnset, duration.MustNew(0, 0, 0, 0, 0, 0, 15, 0, 0, 0)},
		{"PT0.000000001H", duration.ModeUnset, duration.MustNew(0, 0, 0, 0, 0, 0, 0, 0, 3, 600)},
		{"PT0S", duration.ModeUnset, duration.Zero},
		{"PT0.0000000015S", duration.ModeUnset, duration.MustNew(0, 0, 0, 0, 0, 0, 0, 0, 0, 1)},
		{"PT0.0000000015S", duration.HalfExpand, duration.MustNew(0, 0, 0, 0, 0, 0, 0, 0, 0, 2)},
		{"PT0.0000000015S", duration.HalfEven, duration.MustNew(0, 0, 0, 0, 0, 0, 0, 0, 0, 2)},
		{"PT0.0000000025S", duration.HalfEven, duration.MustNew(0, 0, 0, 0, 0, 0, 0, 0, 0, 2)},
		{"-PT0.0000000011S", duration.Floor, duration.MustNew(0, 0, 0, 0, 0, 0, 0, 0, 0, -2)},
		{"-PT0.0000000011S", duration.Ceil, duration.MustNew(0, 0, 0, 0, 0, 0, 0, 0, 0, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.in+"/"+tt.mode.String(), func(t *testing.T) {
			got, err := ParseDuration(tt.in, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Fields(), got.Fields())
		})
	}
}

func TestParseDurationErrors(t *testing.T) {
	for in, kind := range map[string]failure.Kind{
		"":                       failure.Syntax,
		"P":                      failure.Syntax,
		"PT":                     failure.Syntax,
		"P1DT":                   failure.Syntax,
		"P1.5Y":                  failure.Syntax,
		"PT1.5H30M":              failure.Syntax,
		"PT1.5M1S":               failure.Syntax,
		"P1D2Y":                  failure.Syntax,
		"1D":                     failure.Syntax,
		"P-1D":                   failure.Syntax,
		"P99999999999999999999Y": failure.Range,
		"P4294967296Y":           failure.Range,
	} {
		_, err := ParseDuration(in, duration.ModeUnset)
		require.Error(t, err, in)
		assert.Equal(t, kind, failure.KindOf(err), in)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "2020-01-02", FormatDate(iso.Date{Year: 2020, Month: 1, Day: 2}))
	assert.Equal(t, "-000001-01-01", FormatDate(iso.Date{Year: -1, Month: 1, Day: 1}))
	assert.Equal(t, "+010000-12-31", FormatDate(iso.Date{Year: 10000, Month: 12, Day: 31}))
	assert.Equal(t, "0000-03-01", FormatDate(iso.Date{Year: 0, Month: 3, Day: 1}))

	tm := iso.Time{Hour: 9, Minute: 5, Second: 7, Millisecond: 120}
	assert.Equal(t, "09:05:07.12", FormatTime(tm, PrecisionAuto))
	assert.Equal(t, "09:05:07", FormatTime(tm, 0))
	assert.Equal(t, "09:05:07.120000", FormatTime(tm, 6))
	assert.Equal(t, "09:05", FormatTime(tm, PrecisionMinute))
	assert.Equal(t, "00:00:00", FormatTime(iso.Midnight, PrecisionAuto))

	assert.Equal(t, "+05:30", FormatOffset(19800e9))
	assert.Equal(t, "+00:00", FormatOffset(0))
	assert.Equal(t, "-01:00:30.5", FormatOffset(-3630.5e9))
	assert.Equal(t, "-00:00:01", FormatOffset(-1e9))

	assert.Equal(t, "", FormatCalendar("iso8601", CalendarAuto))
	assert.Equal(t, "[u-ca=iso8601]", FormatCalendar("iso8601", CalendarAlways))
	assert.Equal(t, "[u-ca=coptic]", FormatCalendar("coptic", CalendarAuto))
	assert.Equal(t, "", FormatCalendar("coptic", CalendarNever))
	assert.Equal(t, "[!u-ca=coptic]", FormatCalendar("coptic", CalendarCritical))

	assert.Equal(t, "[UTC]", FormatTimeZone("UTC", TimeZoneAuto))
	assert.Equal(t, "[!UTC]", FormatTimeZone("UTC", TimeZoneCritical))
	assert.Equal(t, "", FormatTimeZone("UTC", TimeZoneNever))

	assert.Equal(t, "PT1.5S", FormatDuration(duration.MustNew(0, 0, 0, 0, 0, 0, 1, 500, 0, 0), PrecisionAuto))
	assert.Equal(t, "PT1S", FormatDuration(duration.MustNew(0, 0, 0, 0, 0, 0, 1, 500, 0, 0), PrecisionMinute))
}

func TestOffsetRoundTrip(t *testing.T) {
	for _, ns := range []int64{0, 3600e9, -3600e9, 19800e9, -3630.5e9, 86399999999999, -1} {
		got, err := ParseOffset(FormatOffset(ns))
		require.NoError(t, err)
		assert.Equal(t, ns, got)
	}
}

func TestDurationRoundTrip(t *testing.T) {
	for _, d := range []duration.Duration{
		duration.MustNew(1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
		duration.MustNew(0, 0, 0, 0, 0, 0, -1, -500, 0, 0),
		duration.MustNew(0, 0, 0, 0, 0, 0, 0, 0, 0, 1),
		duration.Zero,
	} {
		got, err := ParseDuration(d.String(), duration.ModeUnset)
		require.NoError(t, err, d.String())
		assert.Equal(t, d.Sign(), got.Sign())
		assert.Zero(t, d.TimeSpan().Cmp(got.TimeSpan()), d.String())
		assert.Equal(t, d.Years(), got.Years())
		assert.Equal(t, d.Days(), got.Days())
	}
}

func TestOptionNames(t *testing.T) {
	c, err := ParseCalendarName("critical")
	require.NoError(t, err)
	assert.Equal(t, CalendarCritical, c)
	assert.Equal(t, "critical", c.String())
	_, err = ParseCalendarName("Always")
	assert.True(t, failure.IsRange(err))

	z, err := ParseTimeZoneName("never")
	require.NoError(t, err)
	assert.Equal(t, TimeZoneNever, z)

	p, err := ParsePrecision("3")
	require.NoError(t, err)
	assert.Equal(t, Precision(3), p)
	_, err = ParsePrecision("10")
	assert.Error(t, err)
}
