package iso

import (
	"fmt"
	"testing"
	"time"

	"github.com/rickb777/date/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzlist/civiltime/failure"
)

func TestFloorDivMod(t *testing.T) {
	tests := []struct {
		a, b, div, mod int64
	}{
		{7, 2, 3, 1},
		{-7, 2, -4, 1},
		{7, -2, -4, -1},
		{-7, -2, 3, -1},
		{-6, 3, -2, 0},
		{0, 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.a, tt.b), func(t *testing.T) {
			assert.Equal(t, tt.div, FloorDiv(tt.a, tt.b))
			assert.Equal(t, tt.mod, FloorMod(tt.a, tt.b))
		})
	}
}

func TestEpochDaysRoundTrip(t *testing.T) {
	tests := []struct {
		date Date
		days int64
	}{
		{Date{1970, 1, 1}, 0},
		{Date{1969, 12, 31}, -1},
		{Date{2000, 3, 1}, 11017},
		{Date{1600, 2, 29}, -135081},
		{Date{0, 1, 1}, -719528},
		{Date{-1, 12, 31}, -719529},
		{Date{275760, 9, 13}, 100_000_000},
		{Date{-271821, 4, 20}, -100_000_000},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d-%02d-%02d", tt.date.Year, tt.date.Month, tt.date.Day), func(t *testing.T) {
			assert.Equal(t, tt.days, tt.date.EpochDays())
			assert.Equal(t, tt.date, DateFromEpochDays(tt.days))
		})
	}
}

func TestEpochDaysSweep(t *testing.T) {
	// Every day across several 400 year cycles either side of year 0.
	prev := DateFromEpochDays(-1_200_000)
	for z := int64(-1_200_000) + 1; z < 1_200_000; z++ {
		d := DateFromEpochDays(z)
		require.Equal(t, z, d.EpochDays(), "day %d", z)
		require.Equal(t, 1, CompareDate(d, prev))
		prev = d
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(2016, 2))
	assert.Equal(t, 28, DaysInMonth(1900, 2))
	assert.Equal(t, 29, DaysInMonth(2000, 2))
	assert.Equal(t, 29, DaysInMonth(-4, 2))
	assert.Equal(t, 31, DaysInMonth(2021, 12))
	assert.Equal(t, 30, DaysInMonth(2021, 4))
	assert.Equal(t, 366, DaysInYear(2024))
	assert.Equal(t, 365, DaysInYear(2023))
}

func TestBalanceDate(t *testing.T) {
	assert.Equal(t, Date{2021, 3, 1}, BalanceDate(2021, 2, 29))
	assert.Equal(t, Date{2020, 12, 31}, BalanceDate(2021, 1, 0))
	assert.Equal(t, Date{2022, 1, 15}, BalanceDate(2021, 13, 15))
	assert.Equal(t, Date{2020, 12, 1}, BalanceDate(2021, 0, 1))
	assert.Equal(t, Date{2019, 12, 31}, BalanceDate(2021, -11, -31))
}

func TestRegulateDate(t *testing.T) {
	d, err := RegulateDate(2021, 2, 31, true)
	require.NoError(t, err)
	assert.Equal(t, Date{2021, 2, 28}, d)

	d, err = RegulateDate(2021, 13, 0, true)
	require.NoError(t, err)
	assert.Equal(t, Date{2021, 12, 1}, d)

	_, err = RegulateDate(2021, 2, 29, false)
	assert.True(t, failure.IsRange(err))

	d, err = RegulateDate(2020, 2, 29, false)
	require.NoError(t, err)
	assert.Equal(t, Date{2020, 2, 29}, d)
}

// The weekday, ordinal and week number computations are checked against an
// independent date library.
func TestCalendarQueriesAgainstOracle(t *testing.T) {
	for _, s := range []string{
		"1970-01-01", "1969-12-29", "2004-12-31", "2005-01-01", "2008-12-29",
		"2009-12-31", "2010-01-03", "2016-02-29", "2020-12-31", "2021-01-03",
		"1600-01-01", "2400-12-31", "1999-06-15",
	} {
		t.Run(s, func(t *testing.T) {
			want, err := date.ParseISO(s)
			require.NoError(t, err)

			var d Date
			_, err = fmt.Sscanf(s, "%04d-%02d-%02d", &d.Year, &d.Month, &d.Day)
			require.NoError(t, err)

			wd := int(want.Weekday())
			if wd == int(time.Sunday) {
				wd = 7
			}
			assert.Equal(t, wd, d.DayOfWeek())
			assert.Equal(t, want.YearDay(), d.DayOfYear())

			wy, ww := want.ISOWeek()
			week, year := d.WeekOfYear()
			assert.Equal(t, ww, week)
			assert.Equal(t, wy, year)
		})
	}
}

func TestTimeArithmetic(t *testing.T) {
	days, out := AddTime(Time{Hour: 23, Minute: 30}, 3600, 0)
	assert.Equal(t, int64(1), days)
	assert.Equal(t, Time{Minute: 30}, out)

	days, out = AddTime(Time{Minute: 30}, -3600, -1)
	assert.Equal(t, int64(-1), days)
	assert.Equal(t, Time{Hour: 23, Minute: 29, Second: 59, Millisecond: 999, Microsecond: 999, Nanosecond: 999}, out)

	sec, nsec := DiffTime(Time{Hour: 1, Nanosecond: 500}, Time{Hour: 2})
	assert.Equal(t, int64(3599), sec)
	assert.Equal(t, int64(999_999_500), nsec)

	sec, nsec = DiffTime(Time{Hour: 2}, Time{Hour: 1, Nanosecond: 500})
	assert.Equal(t, int64(-3599), sec)
	assert.Equal(t, int64(-999_999_500), nsec)
}

func TestRegulateTime(t *testing.T) {
	got, err := RegulateTime(Time{Hour: 24, Minute: 60, Second: 61, Millisecond: 1000}, true)
	require.NoError(t, err)
	assert.Equal(t, Time{Hour: 23, Minute: 59, Second: 59, Millisecond: 999}, got)

	_, err = RegulateTime(Time{Hour: 24}, false)
	assert.True(t, failure.IsRange(err))
}

func TestDateTimeEpochSeconds(t *testing.T) {
	dt := DateTime{Date{1969, 12, 31}, Time{Hour: 23, Minute: 59, Second: 59, Millisecond: 500}}
	sec, nsec := dt.EpochSeconds()
	assert.Equal(t, int64(-1), sec)
	assert.Equal(t, int64(500_000_000), nsec)
	assert.Equal(t, dt, DateTimeFromEpochSeconds(sec, nsec))
	assert.Equal(t, dt, DateTimeFromEpochSeconds(0, -500_000_000))

	assert.Equal(t, DateTime{Date{1970, 1, 1}, Midnight}, AddDateTime(dt, 0, 500_000_000))
}

func TestLimits(t *testing.T) {
	assert.True(t, DateWithinLimits(Date{275760, 9, 13}))
	assert.False(t, DateWithinLimits(Date{275760, 9, 14}))
	assert.True(t, DateWithinLimits(Date{-271821, 4, 19}))
	assert.False(t, DateWithinLimits(Date{-271821, 4, 18}))

	assert.False(t, DateTimeWithinLimits(DateTime{Date{-271821, 4, 19}, Midnight}))
	assert.True(t, DateTimeWithinLimits(DateTime{Date{-271821, 4, 19}, Time{Nanosecond: 1}}))
	assert.True(t, DateTimeWithinLimits(DateTime{Date{275760, 9, 13}, Time{Hour: 23}}))
}
