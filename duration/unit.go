package duration

import (
	"strings"

	"github.com/tzlist/civiltime/failure"
)

// Unit is a duration field, ordered from smallest to largest. The zero
// value means "not specified" and lets each operation pick its default.
type Unit int

const (
	UnitNone Unit = iota
	Nanosecond
	Microsecond
	Millisecond
	Second
	Minute
	Hour
	Day
	Week
	Month
	Year
)

var unitNames = [...]string{
	UnitNone:    "auto",
	Nanosecond:  "nanosecond",
	Microsecond: "microsecond",
	Millisecond: "millisecond",
	Second:      "second",
	Minute:      "minute",
	Hour:        "hour",
	Day:         "day",
	Week:        "week",
	Month:       "month",
	Year:        "year",
}

// unitNanos holds the fixed length of every unit up to a 24 hour day.
var unitNanos = [...]int64{
	Nanosecond:  1,
	Microsecond: 1e3,
	Millisecond: 1e6,
	Second:      1e9,
	Minute:      60e9,
	Hour:        3600e9,
	Day:         86400e9,
}

// String returns the singular lowercase name.
func (u Unit) String() string {
	if u < UnitNone || u > Year {
		return "unit(?)"
	}
	return unitNames[u]
}

// Plural returns the plural name, as used for Duration field names.
func (u Unit) Plural() string {
	if u == UnitNone {
		return "auto"
	}
	return u.String() + "s"
}

// IsCalendarUnit reports whether u has no fixed length: years, months and
// weeks.
func (u Unit) IsCalendarUnit() bool {
	return u >= Week
}

// IsDateUnit reports whether u is days or larger.
func (u Unit) IsDateUnit() bool {
	return u >= Day
}

// Nanoseconds returns the fixed length of u. Days count as 24 hours.
// Calendar units have no fixed length and return 0.
func (u Unit) Nanoseconds() int64 {
	if u < Nanosecond || u > Day {
		return 0
	}
	return unitNanos[u]
}

// LargerOf returns the larger of two units.
func LargerOf(a, b Unit) Unit {
	if a > b {
		return a
	}
	return b
}

// ParseUnit accepts singular or plural unit names; "auto" yields UnitNone.
func ParseUnit(s string) (Unit, error) {
	name := strings.TrimSuffix(s, "s")
	if s == "auto" {
		return UnitNone, nil
	}
	for u := Nanosecond; u <= Year; u++ {
		if unitNames[u] == name {
			return u, nil
		}
	}
	return UnitNone, failure.Rangef("duration.ParseUnit", "invalid unit %q", s)
}

// MaximumIncrement returns the value every rounding increment of u must
// divide, or 0 when u has no upper bound (date units).
func MaximumIncrement(u Unit) int64 {
	switch u {
	case Hour:
		return 24
	case Minute, Second:
		return 60
	case Millisecond, Microsecond, Nanosecond:
		return 1000
	}
	return 0
}

// ValidateIncrement checks that increment divides dividend evenly and does
// not exceed it (or dividend-1 unless inclusive). A zero dividend only
// checks the general 1..1e9 range.
func ValidateIncrement(increment, dividend int64, inclusive bool) error {
	const op = "duration.ValidateIncrement"
	if increment < 1 || increment > 1e9 {
		return failure.Rangef(op, "rounding increment %d out of range", increment)
	}
	if dividend == 0 {
		return nil
	}
	limit := dividend
	if !inclusive {
		limit--
	}
	if increment > limit {
		return failure.Rangef(op, "rounding increment %d exceeds %d", increment, limit)
	}
	if dividend%increment != 0 {
		return failure.Rangef(op, "rounding increment %d does not divide %d", increment, dividend)
	}
	return nil
}
