// Package iso holds the proleptic Gregorian (ISO 8601) date and time
// records every calendar is expressed against, and the pure arithmetic over
// them.
//
// The date conversions follow the days-from-civil algorithms; all divisions
// that can see negative operands are floor divisions so that years before
// 1970 (and before year 0) behave the same as years after it.
package iso

import (
	"golang.org/x/exp/constraints"

	"github.com/tzlist/civiltime/failure"
)

const (
	SecondsPerDay      = 86400
	NanosecondsPerDay  = SecondsPerDay * 1e9
	NanosecondsPerHour = 3600 * 1e9

	// MaxEpochDays bounds the instant range: +-1e8 days around the epoch.
	MaxEpochDays = 100_000_000
)

// FloorDiv returns the quotient of a and b rounded toward negative infinity.
func FloorDiv[T constraints.Signed](a, b T) T {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod returns a - b*FloorDiv(a, b); the result has the sign of b.
func FloorMod[T constraints.Signed](a, b T) T {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// Date is an ISO calendar date. Fields are not validated by the type; use
// RegulateDate or IsValidDate.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Time is a wall-clock time of day.
type Time struct {
	Hour        int
	Minute      int
	Second      int
	Millisecond int
	Microsecond int
	Nanosecond  int
}

// DateTime combines a Date and a Time.
type DateTime struct {
	Date Date
	Time Time
}

// Midnight is the zero Time.
var Midnight = Time{}

// IsLeapYear reports whether y is a leap year in the proleptic Gregorian
// calendar.
func IsLeapYear(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

var daysBefore = [...]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334, 365}

// DaysInMonth returns the length of month m (1-12) in year y.
func DaysInMonth(y, m int) int {
	if m == 2 && IsLeapYear(y) {
		return 29
	}
	return daysBefore[m] - daysBefore[m-1]
}

// DaysInYear returns 365 or 366.
func DaysInYear(y int) int {
	if IsLeapYear(y) {
		return 366
	}
	return 365
}

// EpochDays returns the number of days from 1970-01-01 to y-m-d. The month
// must be 1-12; d may be any value and is counted linearly from the first
// of the month.
func EpochDays(y, m int, d int64) int64 {
	yy := int64(y)
	if m <= 2 {
		yy--
	}
	era := FloorDiv(yy, 400)
	yoe := yy - era*400
	mp := int64((m + 9) % 12)
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

// DateFromEpochDays is the inverse of EpochDays.
func DateFromEpochDays(z int64) Date {
	z += 719468
	era := FloorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if mp >= 10 {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return Date{Year: int(y), Month: int(m), Day: int(d)}
}

// EpochDays returns the day count of d relative to 1970-01-01.
func (d Date) EpochDays() int64 {
	return EpochDays(d.Year, d.Month, int64(d.Day))
}

// BalanceYearMonth carries month overflow into the year.
func BalanceYearMonth(y, m int64) (int, int) {
	y += FloorDiv(m-1, 12)
	m = FloorMod(m-1, 12) + 1
	return int(y), int(m)
}

// BalanceDate normalizes a possibly out-of-range y-m-d, carrying months
// into years and days across month boundaries.
func BalanceDate(y, m, d int64) Date {
	by, bm := BalanceYearMonth(y, m)
	return DateFromEpochDays(EpochDays(by, bm, 1) + d - 1)
}

// AddDays returns d shifted by n days.
func AddDays(d Date, n int64) Date {
	return DateFromEpochDays(d.EpochDays() + n)
}

// IsValidDate reports whether y-m-d names an existing ISO date.
func IsValidDate(y, m, d int) bool {
	return m >= 1 && m <= 12 && d >= 1 && d <= DaysInMonth(y, m)
}

// RegulateDate applies the overflow policy: with constrain the month and
// day are clamped to their valid ranges; otherwise an out-of-range field is
// a Range error.
func RegulateDate(y, m, d int, constrain bool) (Date, error) {
	if constrain {
		m = clamp(m, 1, 12)
		d = clamp(d, 1, DaysInMonth(y, m))
		return Date{y, m, d}, nil
	}
	if !IsValidDate(y, m, d) {
		return Date{}, failure.Rangef("iso.RegulateDate", "date %04d-%02d-%02d out of range", y, m, d)
	}
	return Date{y, m, d}, nil
}

// DayOfWeek returns 1 (Monday) through 7 (Sunday).
func (d Date) DayOfWeek() int {
	return int(FloorMod(d.EpochDays()+3, 7)) + 1
}

// DayOfYear returns the ordinal day, starting at 1.
func (d Date) DayOfYear() int {
	return int(d.EpochDays()-EpochDays(d.Year, 1, 1)) + 1
}

// weeksInYear returns 52 or 53 for ISO week-numbering year y.
func weeksInYear(y int) int {
	jan1 := Date{y, 1, 1}.DayOfWeek()
	if jan1 == 4 || (jan1 == 3 && IsLeapYear(y)) {
		return 53
	}
	return 52
}

// WeekOfYear returns the ISO week number and the week-numbering year.
func (d Date) WeekOfYear() (week, year int) {
	year = d.Year
	week = (d.DayOfYear() - d.DayOfWeek() + 10) / 7
	if week < 1 {
		year--
		return weeksInYear(year), year
	}
	if week > weeksInYear(year) {
		return 1, year + 1
	}
	return week, year
}

// CompareDate returns -1, 0 or 1.
func CompareDate(a, b Date) int {
	switch {
	case a.Year != b.Year:
		return sign(a.Year - b.Year)
	case a.Month != b.Month:
		return sign(a.Month - b.Month)
	}
	return sign(a.Day - b.Day)
}

// DateWithinLimits reports whether d lies in the supported range.
func DateWithinLimits(d Date) bool {
	if d.Year < -271821 || d.Year > 275760 {
		return false
	}
	days := d.EpochDays()
	return days >= -MaxEpochDays-1 && days <= MaxEpochDays
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
