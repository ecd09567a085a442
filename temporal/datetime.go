package temporal

import (
	"github.com/tzlist/civiltime/calendar"
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/iso"
	"github.com/tzlist/civiltime/isostring"
	"github.com/tzlist/civiltime/timezone"
)

// CivilDateTime is a date and wall-clock time without a zone.
type CivilDateTime struct {
	dt  iso.DateTime
	cal calendar.Calendar
}

func newCivilDateTime(op string, dt iso.DateTime, cal calendar.Calendar) (CivilDateTime, error) {
	if !iso.DateTimeWithinLimits(dt) {
		return CivilDateTime{}, failure.Rangef(op, "date-time %s outside the supported range", isostring.FormatDateTime(dt, isostring.PrecisionAuto))
	}
	return CivilDateTime{dt: dt, cal: orISO(cal)}, nil
}

// NewCivilDateTime joins a date and a time of day.
func NewCivilDateTime(date CivilDate, t CivilTime) (CivilDateTime, error) {
	return date.At(t)
}

// CivilDateTimeOf wraps ISO records after checking them.
func CivilDateTimeOf(dt iso.DateTime, cal calendar.Calendar) (CivilDateTime, error) {
	const op = "temporal.CivilDateTimeOf"
	if !iso.IsValidDate(dt.Date.Year, dt.Date.Month, dt.Date.Day) || !iso.IsValidTime(dt.Time) {
		return CivilDateTime{}, failure.Rangef(op, "invalid date-time fields %+v", dt)
	}
	return newCivilDateTime(op, dt, cal)
}

func (dt CivilDateTime) ISO() iso.DateTime { return dt.dt }
func (dt CivilDateTime) Calendar() calendar.Calendar { return orISO(dt.cal) }
func (dt CivilDateTime) Date() CivilDate { return CivilDate{date: dt.dt.Date, cal: dt.Calendar()} }
func (dt CivilDateTime) Time() CivilTime { return CivilTime{t: dt.dt.Time} }

func (dt CivilDateTime) WithCalendar(cal calendar.Calendar) CivilDateTime {
	return CivilDateTime{dt: dt.dt, cal: orISO(cal)}
}

// WithTime keeps the date and replaces the time of day.
func (dt CivilDateTime) WithTime(t CivilTime) CivilDateTime {
	return CivilDateTime{dt: iso.DateTime{Date: dt.dt.Date, Time: t.t}, cal: dt.cal}
}

// Add adds d: the time part first, carrying whole days into the date
// part, which the calendar then adds.
func (dt CivilDateTime) Add(d duration.Duration, overflow calendar.Overflow) (CivilDateTime, error) {
	in := toInternal24(d)
	days, t := iso.AddTime(dt.dt.Time, in.time.Seconds(), in.time.Subsec())
	dd := in.date
	dd.days = days
	date, err := calendarAdd(dt.Calendar(), dt.dt.Date, dd, overflow)
	if err != nil {
		return CivilDateTime{}, err
	}
	return newCivilDateTime("temporal.CivilDateTime.Add", iso.DateTime{Date: date, Time: t}, dt.cal)
}

func (dt CivilDateTime) Subtract(d duration.Duration, overflow calendar.Overflow) (CivilDateTime, error) {
	return dt.Add(d.Negated(), overflow)
}

// Until returns the duration from dt to o. Days are the default largest
// unit and nanoseconds the default smallest.
func (dt CivilDateTime) Until(o CivilDateTime, opts duration.RoundingOptions) (duration.Duration, error) {
	return dt.difference(o, opts, false)
}

// Since returns the duration from o to dt.
func (dt CivilDateTime) Since(o CivilDateTime, opts duration.RoundingOptions) (duration.Duration, error) {
	return dt.difference(o, opts, true)
}

func (dt CivilDateTime) difference(o CivilDateTime, opts duration.RoundingOptions, since bool) (duration.Duration, error) {
	const op = "temporal.CivilDateTime.Until"
	cal := dt.Calendar()
	if !sameCalendar(cal, o.Calendar()) {
		return duration.Duration{}, failure.Rangef(op, "calendars %s and %s differ", cal.ID(), o.Calendar().ID())
	}
	r, err := opts.Difference(duration.DateTimeUnits, duration.Nanosecond, duration.Day, since)
	if err != nil {
		return duration.Duration{}, err
	}
	res, err := differenceCivilRounded(dt.dt, o.dt, cal, r)
	if err != nil {
		return duration.Duration{}, err
	}
	out, err := res.result(r.LargestUnit)
	if err != nil {
		return duration.Duration{}, err
	}
	if since {
		out = out.Negated()
	}
	return out, nil
}

// Round rounds to a multiple of the smallest unit, day at most.
func (dt CivilDateTime) Round(opts duration.RoundingOptions) (CivilDateTime, error) {
	r, err := opts.Round(duration.Day)
	if err != nil {
		return CivilDateTime{}, err
	}
	return newCivilDateTime("temporal.CivilDateTime.Round", roundDateTime(dt.dt, r.Increment, r.SmallestUnit, r.Mode), dt.cal)
}

// ToZonedMoment reads dt as a wall-clock time in tz.
func (dt CivilDateTime) ToZonedMoment(tz timezone.TimeZone, d timezone.Disambiguation) (ZonedMoment, error) {
	i, err := timezone.InstantFor(tz, dt.dt, d)
	if err != nil {
		return ZonedMoment{}, err
	}
	return newZonedMoment("temporal.CivilDateTime.ToZonedMoment", i, tz, dt.cal)
}

// Compare orders by ISO fields alone.
func (dt CivilDateTime) Compare(o CivilDateTime) int { return iso.CompareDateTime(dt.dt, o.dt) }

// Equal reports whether the fields and the calendar match.
func (dt CivilDateTime) Equal(o CivilDateTime) bool {
	return dt.dt == o.dt && sameCalendar(dt.Calendar(), o.Calendar())
}

func (dt CivilDateTime) String() string {
	s, _ := dt.Format(StringOptions{})
	return s
}

// Format writes the date-time rounded to the precision o asks for.
func (dt CivilDateTime) Format(o StringOptions) (string, error) {
	p, unit, inc, err := o.precision()
	if err != nil {
		return "", err
	}
	rounded := roundDateTime(dt.dt, inc, unit, o.RoundingMode.Or(duration.Trunc))
	if !iso.DateTimeWithinLimits(rounded) {
		return "", failure.Rangef("temporal.CivilDateTime.Format", "rounded date-time outside the supported range")
	}
	return isostring.FormatDateTime(rounded, p) + isostring.FormatCalendar(dt.Calendar().ID(), o.CalendarName), nil
}
