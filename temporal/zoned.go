package temporal

import (
	"github.com/tzlist/civiltime/calendar"
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/instant"
	"github.com/tzlist/civiltime/iso"
	"github.com/tzlist/civiltime/isostring"
	"github.com/tzlist/civiltime/timezone"
)

// ZonedMoment is an instant read in a time zone and a calendar.
type ZonedMoment struct {
	i   instant.Instant
	tz  timezone.TimeZone
	cal calendar.Calendar
}

func newZonedMoment(op string, i instant.Instant, tz timezone.TimeZone, cal calendar.Calendar) (ZonedMoment, error) {
	if tz == nil {
		return ZonedMoment{}, failure.Typef(op, "time zone is required")
	}
	if _, err := timezone.OffsetFor(tz, i); err != nil {
		return ZonedMoment{}, err
	}
	return ZonedMoment{i: i, tz: tz, cal: orISO(cal)}, nil
}

// NewZonedMoment pairs i with tz and cal (nil means ISO).
func NewZonedMoment(i instant.Instant, tz timezone.TimeZone, cal calendar.Calendar) (ZonedMoment, error) {
	return newZonedMoment("temporal.NewZonedMoment", i, tz, cal)
}

func (z ZonedMoment) ToInstant() instant.Instant { return z.i }
func (z ZonedMoment) TimeZone() timezone.TimeZone { return z.tz }
func (z ZonedMoment) Calendar() calendar.Calendar { return orISO(z.cal) }

// OffsetNanoseconds returns the zone's offset at the moment.
func (z ZonedMoment) OffsetNanoseconds() int64 {
	off, _ := z.tz.OffsetNanosecondsFor(z.i)
	return off
}

// Offset returns the offset as ±HH:MM.
func (z ZonedMoment) Offset() string { return isostring.FormatOffset(z.OffsetNanoseconds()) }

func (z ZonedMoment) dateTime() iso.DateTime { return z.i.DateTime(z.OffsetNanoseconds()) }

// ToCivilDateTime returns the wall-clock reading.
func (z ZonedMoment) ToCivilDateTime() CivilDateTime {
	return CivilDateTime{dt: z.dateTime(), cal: z.Calendar()}
}

func (z ZonedMoment) Date() CivilDate { return z.ToCivilDateTime().Date() }
func (z ZonedMoment) Time() CivilTime { return z.ToCivilDateTime().Time() }

// WithTimeZone reads the same instant in tz.
func (z ZonedMoment) WithTimeZone(tz timezone.TimeZone) (ZonedMoment, error) {
	return newZonedMoment("temporal.ZonedMoment.WithTimeZone", z.i, tz, z.cal)
}

func (z ZonedMoment) WithCalendar(cal calendar.Calendar) ZonedMoment {
	return ZonedMoment{i: z.i, tz: z.tz, cal: orISO(cal)}
}

// StartOfDay returns the first moment of the same calendar day.
func (z ZonedMoment) StartOfDay() (ZonedMoment, error) {
	i, err := timezone.StartOfDay(z.tz, z.dateTime().Date)
	if err != nil {
		return ZonedMoment{}, err
	}
	return ZonedMoment{i: i, tz: z.tz, cal: z.cal}, nil
}

// dayBounds returns the start of the day and the start of the next one.
func (z ZonedMoment) dayBounds() (instant.Instant, instant.Instant, error) {
	date := z.dateTime().Date
	start, err := timezone.StartOfDay(z.tz, date)
	if err != nil {
		return instant.Instant{}, instant.Instant{}, err
	}
	end, err := timezone.StartOfDay(z.tz, iso.AddDays(date, 1))
	if err != nil {
		return instant.Instant{}, instant.Instant{}, err
	}
	return start, end, nil
}

// HoursInDay returns the length of the day in hours: 24 on most days, 23
// or 25 across a daylight saving change.
func (z ZonedMoment) HoursInDay() (float64, error) {
	start, end, err := z.dayBounds()
	if err != nil {
		return 0, err
	}
	span, err := end.Span().Sub(start.Span())
	if err != nil {
		return 0, err
	}
	h, _ := span.Total(duration.Hour.Nanoseconds()).Float64()
	return h, nil
}

// Add adds d: years to days on the wall clock, the rest in exact time.
func (z ZonedMoment) Add(d duration.Duration, overflow calendar.Overflow) (ZonedMoment, error) {
	i, err := addZoned(z.i, z.tz, z.Calendar(), toInternal(d), overflow)
	if err != nil {
		return ZonedMoment{}, err
	}
	return newZonedMoment("temporal.ZonedMoment.Add", i, z.tz, z.cal)
}

func (z ZonedMoment) Subtract(d duration.Duration, overflow calendar.Overflow) (ZonedMoment, error) {
	return z.Add(d.Negated(), overflow)
}

// Until returns the duration from z to o. Hours are the default largest
// unit. Days and larger need both moments in the same zone; a day is as
// long as it is on the wall clock.
func (z ZonedMoment) Until(o ZonedMoment, opts duration.RoundingOptions) (duration.Duration, error) {
	return z.difference(o, opts, false)
}

// Since returns the duration from o to z.
func (z ZonedMoment) Since(o ZonedMoment, opts duration.RoundingOptions) (duration.Duration, error) {
	return z.difference(o, opts, true)
}

func (z ZonedMoment) difference(o ZonedMoment, opts duration.RoundingOptions, since bool) (duration.Duration, error) {
	const op = "temporal.ZonedMoment.Until"
	cal := z.Calendar()
	if !sameCalendar(cal, o.Calendar()) {
		return duration.Duration{}, failure.Rangef(op, "calendars %s and %s differ", cal.ID(), o.Calendar().ID())
	}
	r, err := opts.Difference(duration.DateTimeUnits, duration.Nanosecond, duration.Hour, since)
	if err != nil {
		return duration.Duration{}, err
	}
	largest := r.LargestUnit
	if largest.IsDateUnit() {
		if !timezone.Equal(z.tz, o.tz) {
			return duration.Duration{}, failure.Rangef(op, "time zones %s and %s differ", z.tz.ID(), o.tz.ID())
		}
		largest = duration.Hour
	}
	res, err := differenceZonedRounded(z.i, o.i, z.tz, cal, r)
	if err != nil {
		return duration.Duration{}, err
	}
	out, err := res.result(largest)
	if err != nil {
		return duration.Duration{}, err
	}
	if since {
		out = out.Negated()
	}
	return out, nil
}

// Round rounds the wall-clock time. Rounding to a day uses the real
// length of the day.
func (z ZonedMoment) Round(opts duration.RoundingOptions) (ZonedMoment, error) {
	const op = "temporal.ZonedMoment.Round"
	r, err := opts.Round(duration.Day)
	if err != nil {
		return ZonedMoment{}, err
	}
	var i instant.Instant
	if r.SmallestUnit == duration.Day {
		start, end, err := z.dayBounds()
		if err != nil {
			return ZonedMoment{}, err
		}
		length, err := end.Span().Sub(start.Span())
		if err != nil {
			return ZonedMoment{}, err
		}
		progress, err := z.i.Span().Sub(start.Span())
		if err != nil {
			return ZonedMoment{}, err
		}
		rounded, err := duration.FromBig(duration.RoundBig(progress.Big(), length.Big(), r.Mode))
		if err != nil {
			return ZonedMoment{}, err
		}
		if i, err = start.Add(rounded); err != nil {
			return ZonedMoment{}, err
		}
	} else {
		dt := roundDateTime(z.dateTime(), r.Increment, r.SmallestUnit, r.Mode)
		if i, err = interpretOffset(dt, offsetOption, z.OffsetNanoseconds(), z.tz, timezone.Compatible, OffsetPrefer, false); err != nil {
			return ZonedMoment{}, err
		}
	}
	return newZonedMoment(op, i, z.tz, z.cal)
}

// Compare orders by instant alone.
func (z ZonedMoment) Compare(o ZonedMoment) int { return z.i.Compare(o.i) }

// Equal reports whether instant, zone and calendar all match.
func (z ZonedMoment) Equal(o ZonedMoment) bool {
	return z.i.Equal(o.i) && timezone.Equal(z.tz, o.tz) && sameCalendar(z.Calendar(), o.Calendar())
}

func (z ZonedMoment) String() string {
	s, _ := z.Format(StringOptions{})
	return s
}

// Format writes the wall-clock time, the offset and the annotations o
// asks for.
func (z ZonedMoment) Format(o StringOptions) (string, error) {
	p, unit, inc, err := o.precision()
	if err != nil {
		return "", err
	}
	rounded, err := roundSpan(z.i.Span(), inc, unit, o.RoundingMode.Or(duration.Trunc))
	if err != nil {
		return "", err
	}
	i, err := instant.FromSpan(rounded)
	if err != nil {
		return "", err
	}
	off, err := timezone.OffsetFor(z.tz, i)
	if err != nil {
		return "", err
	}
	s := isostring.FormatDateTime(i.DateTime(off), p)
	if !o.OmitOffset {
		s += isostring.FormatOffset(off)
	}
	return s + isostring.FormatTimeZone(z.tz.ID(), o.TimeZoneName) + isostring.FormatCalendar(z.Calendar().ID(), o.CalendarName), nil
}

type offsetBehaviour int

const (
	offsetOption offsetBehaviour = iota
	offsetExact
	offsetWall
)

// interpretOffset finds the instant for the wall-clock time dt in tz
// written with offset offsetNs. With matchMinutes a candidate offset also
// matches when it rounds to offsetNs at minute precision.
func interpretOffset(dt iso.DateTime, b offsetBehaviour, offsetNs int64, tz timezone.TimeZone, d timezone.Disambiguation, opt OffsetOption, matchMinutes bool) (instant.Instant, error) {
	const op = "temporal.interpretOffset"
	if b == offsetWall || (b == offsetOption && opt == OffsetIgnore) {
		return timezone.InstantFor(tz, dt, d)
	}
	if b == offsetExact || opt == OffsetUse {
		return instant.FromDateTime(dt, offsetNs)
	}
	if !iso.DateTimeWithinLimits(dt) {
		return instant.Instant{}, failure.Rangef(op, "date-time outside the supported range")
	}
	utc, err := utcSpan(dt)
	if err != nil {
		return instant.Instant{}, err
	}
	possible, err := timezone.PossibleInstants(tz, dt)
	if err != nil {
		return instant.Instant{}, err
	}
	for _, c := range possible {
		diff, err := utc.Sub(c.Span())
		if err != nil {
			return instant.Instant{}, err
		}
		candidate, _ := diff.Int64()
		if candidate == offsetNs {
			return c, nil
		}
		if matchMinutes && duration.RoundInt(candidate, 60e9, duration.HalfExpand) == offsetNs {
			return c, nil
		}
	}
	if opt == OffsetReject {
		return instant.Instant{}, failure.Rangef(op, "offset %s is not valid for %s in %s",
			isostring.FormatOffset(offsetNs), isostring.FormatDateTime(dt, isostring.PrecisionAuto), tz.ID())
	}
	return timezone.InstantFor(tz, dt, d)
}
