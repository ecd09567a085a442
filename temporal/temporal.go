// Package temporal holds the civil and zoned value types and the
// arithmetic engine that adds, subtracts, differences, rounds, totals and
// compares them.
//
// Every value is immutable. Calendar and time zone behavior comes from the
// calendar.Calendar and timezone.TimeZone held by each value; nothing
// global is consulted during arithmetic.
package temporal

import (
	"fmt"

	"github.com/tzlist/civiltime/calendar"
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/isostring"
	"github.com/tzlist/civiltime/timezone"
)

// OffsetOption decides how an explicit offset in a zoned string is weighed
// against the offset the zone computes.
type OffsetOption int

const (
	// OffsetReject fails when the offset is not valid for the zone.
	OffsetReject OffsetOption = iota
	// OffsetUse takes the instant the offset denotes.
	OffsetUse
	// OffsetPrefer uses the offset when the zone allows it and falls back
	// to the wall-clock time otherwise.
	OffsetPrefer
	// OffsetIgnore resolves the wall-clock time alone.
	OffsetIgnore
)

var offsetOptionNames = [...]string{"reject", "use", "prefer", "ignore"}

func (o OffsetOption) String() string {
	if o >= 0 && int(o) < len(offsetOptionNames) {
		return offsetOptionNames[o]
	}
	return fmt.Sprintf("OffsetOption(%d)", int(o))
}

// ParseOffsetOption reads use, prefer, ignore or reject.
func ParseOffsetOption(s string) (OffsetOption, error) {
	for i, n := range offsetOptionNames {
		if n == s {
			return OffsetOption(i), nil
		}
	}
	return OffsetReject, failure.Rangef("temporal.ParseOffsetOption", "invalid offset option %q", s)
}

// ParseOptions configures the string parsers. The zero value resolves
// only UTC and offset zones, knows the built-in calendars, and uses
// compatible disambiguation with a rejecting offset check.
type ParseOptions struct {
	Zones          timezone.Resolver
	Calendars      *calendar.Registry
	Disambiguation timezone.Disambiguation
	Offset         OffsetOption
}

func (o ParseOptions) resolve(id string) (timezone.TimeZone, error) {
	if o.Zones == nil {
		return (*timezone.Database)(nil).Resolve(id)
	}
	return o.Zones.Resolve(id)
}

func (o ParseOptions) calendar(id string) (calendar.Calendar, error) {
	if id == "" {
		return calendar.ISO, nil
	}
	if o.Calendars == nil {
		return calendar.Get(id)
	}
	return o.Calendars.Get(id)
}

// StringOptions configures String-like output.
type StringOptions struct {
	// SmallestUnit, when set, overrides Digits. It is one of Minute,
	// Second, Millisecond, Microsecond or Nanosecond.
	SmallestUnit duration.Unit

	// Digits is the number of fractional second digits, 1 to 9. Zero
	// writes as many as needed.
	Digits int

	// RoundingMode applies to the dropped digits; trunc when unset.
	RoundingMode duration.RoundingMode

	CalendarName isostring.CalendarName
	TimeZoneName isostring.TimeZoneName
	OmitOffset   bool
}

// WithPrecision sets the output precision from an isostring.Precision.
func (o StringOptions) WithPrecision(p isostring.Precision) StringOptions {
	o.SmallestUnit, o.Digits = duration.UnitNone, 0
	switch {
	case p == isostring.PrecisionMinute:
		o.SmallestUnit = duration.Minute
	case p == 0:
		o.SmallestUnit = duration.Second
	case p > 0:
		o.Digits = int(p)
	}
	return o
}

// precision resolves o to the digits written and the rounding step.
func (o StringOptions) precision() (isostring.Precision, duration.Unit, int64, error) {
	const op = "temporal.StringOptions"
	switch o.SmallestUnit {
	case duration.Minute:
		return isostring.PrecisionMinute, duration.Minute, 1, nil
	case duration.Second:
		return 0, duration.Second, 1, nil
	case duration.Millisecond:
		return 3, duration.Millisecond, 1, nil
	case duration.Microsecond:
		return 6, duration.Microsecond, 1, nil
	case duration.Nanosecond:
		return 9, duration.Nanosecond, 1, nil
	case duration.UnitNone:
	default:
		return 0, 0, 0, failure.Rangef(op, "invalid smallest unit %s", o.SmallestUnit)
	}
	d := o.Digits
	switch {
	case d == 0:
		return isostring.PrecisionAuto, duration.Nanosecond, 1, nil
	case d >= 1 && d <= 3:
		return isostring.Precision(d), duration.Millisecond, pow10(3 - d), nil
	case d >= 4 && d <= 6:
		return isostring.Precision(d), duration.Microsecond, pow10(6 - d), nil
	case d >= 7 && d <= 9:
		return isostring.Precision(d), duration.Nanosecond, pow10(9 - d), nil
	}
	return 0, 0, 0, failure.Rangef(op, "fractional second digits %d out of range", d)
}

func pow10(n int) int64 {
	p := int64(1)
	for ; n > 0; n-- {
		p *= 10
	}
	return p
}

// RelativeTo anchors calendar units for duration rounding, totals,
// addition and comparison. The zero value anchors nothing.
type RelativeTo struct {
	date  *CivilDate
	zoned *ZonedMoment
}

// RelativeToDate anchors on a civil date.
func RelativeToDate(d CivilDate) RelativeTo { return RelativeTo{date: &d} }

// RelativeToZoned anchors on a zoned moment, so that days follow the
// zone's real day lengths.
func RelativeToZoned(z ZonedMoment) RelativeTo { return RelativeTo{zoned: &z} }

// IsZero reports whether r anchors nothing.
func (r RelativeTo) IsZero() bool { return r.date == nil && r.zoned == nil }

func (r RelativeTo) String() string {
	switch {
	case r.zoned != nil:
		return r.zoned.String()
	case r.date != nil:
		return r.date.String()
	}
	return ""
}

// sameCalendar compares calendars by id.
func sameCalendar(a, b calendar.Calendar) bool {
	return a.ID() == b.ID()
}

func orISO(cal calendar.Calendar) calendar.Calendar {
	if cal == nil {
		return calendar.ISO
	}
	return cal
}
