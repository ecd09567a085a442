// Package calendar converts ISO dates to and from calendar-specific fields
// and performs calendar-aware date arithmetic.
//
// Every calendar is a stateless value implementing Calendar. The built-in
// calendars share one arithmetic engine parameterized by a small system
// description (year numbering, month lengths, eras); Override lets a caller
// replace any single method while delegating the rest.
package calendar

import (
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/iso"
)

// Overflow selects how out-of-range fields are handled.
type Overflow int

const (
	// Constrain clamps a field to the nearest valid value.
	Constrain Overflow = iota

	// Reject fails with a Range error.
	Reject
)

func (o Overflow) String() string {
	if o == Reject {
		return "reject"
	}
	return "constrain"
}

// ParseOverflow accepts "constrain" and "reject".
func ParseOverflow(s string) (Overflow, error) {
	switch s {
	case "constrain":
		return Constrain, nil
	case "reject":
		return Reject, nil
	}
	return Constrain, failure.Rangef("calendar.ParseOverflow", "invalid overflow %q", s)
}

// Calendar is the contract every calendar satisfies. All methods are pure
// functions of their arguments; dates are passed as ISO records.
type Calendar interface {
	ID() string

	DateFromFields(f Fields, overflow Overflow) (iso.Date, error)
	YearMonthFromFields(f Fields, overflow Overflow) (iso.Date, error)
	MonthDayFromFields(f Fields, overflow Overflow) (iso.Date, error)

	// DateAdd adds the years, months, weeks and days of d; time fields are
	// ignored.
	DateAdd(date iso.Date, d duration.Duration, overflow Overflow) (iso.Date, error)

	// DateUntil returns the difference b - a in units no larger than
	// largest (Year, Month, Week or Day).
	DateUntil(a, b iso.Date, largest duration.Unit) (duration.Duration, error)

	Era(date iso.Date) (string, bool)
	EraYear(date iso.Date) (int, bool)
	Year(date iso.Date) int
	Month(date iso.Date) int
	MonthCode(date iso.Date) string
	Day(date iso.Date) int
	DayOfWeek(date iso.Date) int
	DayOfYear(date iso.Date) int

	// WeekOfYear and YearOfWeek report false when the calendar defines no
	// week numbering.
	WeekOfYear(date iso.Date) (int, bool)
	YearOfWeek(date iso.Date) (int, bool)

	DaysInWeek(date iso.Date) int
	DaysInMonth(date iso.Date) int
	DaysInYear(date iso.Date) int
	MonthsInYear(date iso.Date) int
	InLeapYear(date iso.Date) bool

	// FieldNames extends a list of requested field names with the fields
	// the calendar needs to interpret them (era and eraYear alongside year).
	FieldNames(names []string) []string
}

// Fields is the closed record of calendar fields accepted by the
// *FromFields methods. A nil pointer or empty string means absent.
type Fields struct {
	Day       *int
	Era       string
	EraYear   *int
	Month     *int
	MonthCode string
	Year      *int
}

// Int returns a pointer to v, for building Fields literals.
func Int(v int) *int { return &v }

// Keys returns the names of the present fields in read order, which is
// alphabetical: day, era, eraYear, month, monthCode, year.
func (f Fields) Keys() []string {
	var keys []string
	if f.Day != nil {
		keys = append(keys, "day")
	}
	if f.Era != "" {
		keys = append(keys, "era")
	}
	if f.EraYear != nil {
		keys = append(keys, "eraYear")
	}
	if f.Month != nil {
		keys = append(keys, "month")
	}
	if f.MonthCode != "" {
		keys = append(keys, "monthCode")
	}
	if f.Year != nil {
		keys = append(keys, "year")
	}
	return keys
}

// FieldsOf returns the full field record of date in cal.
func FieldsOf(cal Calendar, date iso.Date) Fields {
	f := Fields{
		Day:       Int(cal.Day(date)),
		Month:     Int(cal.Month(date)),
		MonthCode: cal.MonthCode(date),
		Year:      Int(cal.Year(date)),
	}
	if era, ok := cal.Era(date); ok {
		f.Era = era
		y, _ := cal.EraYear(date)
		f.EraYear = Int(y)
	}
	return f
}
