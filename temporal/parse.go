package temporal

import (
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/instant"
	"github.com/tzlist/civiltime/iso"
	"github.com/tzlist/civiltime/isostring"
	"github.com/tzlist/civiltime/timezone"
)

// ParseCivilDate reads a date, optionally with a time, offset and
// annotations that are checked and then dropped.
func ParseCivilDate(s string, o ParseOptions) (CivilDate, error) {
	p, err := isostring.ParseDateTime(s)
	if err != nil {
		return CivilDate{}, err
	}
	cal, err := o.calendar(p.Calendar)
	if err != nil {
		return CivilDate{}, err
	}
	return newCivilDate("temporal.ParseCivilDate", p.Date, cal)
}

// ParseCivilTime reads a time of day, alone or as part of a date-time.
func ParseCivilTime(s string, o ParseOptions) (CivilTime, error) {
	p, err := isostring.ParseTime(s)
	if err != nil {
		return CivilTime{}, err
	}
	if p.HasDate {
		if !iso.DateTimeWithinLimits(iso.DateTime{Date: p.Date, Time: p.Time}) {
			return CivilTime{}, failure.Rangef("temporal.ParseCivilTime", "date-time outside the supported range")
		}
	}
	if _, err := o.calendar(p.Calendar); err != nil {
		return CivilTime{}, err
	}
	return CivilTime{t: p.Time}, nil
}

// ParseCivilDateTime reads a date with an optional time; a missing time
// is midnight.
func ParseCivilDateTime(s string, o ParseOptions) (CivilDateTime, error) {
	p, err := isostring.ParseDateTime(s)
	if err != nil {
		return CivilDateTime{}, err
	}
	cal, err := o.calendar(p.Calendar)
	if err != nil {
		return CivilDateTime{}, err
	}
	return newCivilDateTime("temporal.ParseCivilDateTime", iso.DateTime{Date: p.Date, Time: p.Time}, cal)
}

// ParseInstant reads a date-time with Z or an offset. A time zone
// annotation is checked but does not change the instant.
func ParseInstant(s string, o ParseOptions) (instant.Instant, error) {
	p, err := isostring.ParseInstant(s)
	if err != nil {
		return instant.Instant{}, err
	}
	if p.TimeZone != "" {
		if _, err := o.resolve(p.TimeZone); err != nil {
			return instant.Instant{}, err
		}
	}
	i, err := instant.FromDateTime(iso.DateTime{Date: p.Date, Time: p.Time}, p.Offset)
	if err != nil {
		return instant.Instant{}, failure.Wrap(failure.Range, "temporal.ParseInstant", err)
	}
	return i, nil
}

// ParseZonedMoment reads a date-time with a time zone annotation. A
// written offset is weighed against the zone by o.Offset; without one the
// wall-clock time is resolved with o.Disambiguation. A date alone means
// the start of that day.
func ParseZonedMoment(s string, o ParseOptions) (ZonedMoment, error) {
	const op = "temporal.ParseZonedMoment"
	p, err := isostring.ParseZoned(s)
	if err != nil {
		return ZonedMoment{}, err
	}
	tz, err := o.resolve(p.TimeZone)
	if err != nil {
		return ZonedMoment{}, err
	}
	cal, err := o.calendar(p.Calendar)
	if err != nil {
		return ZonedMoment{}, err
	}
	var i instant.Instant
	if !p.HasTime {
		i, err = timezone.StartOfDay(tz, p.Date)
	} else {
		b := offsetOption
		switch {
		case p.Z:
			b = offsetExact
		case !p.HasOffset:
			b = offsetWall
		}
		i, err = interpretOffset(iso.DateTime{Date: p.Date, Time: p.Time}, b, p.Offset, tz, o.Disambiguation, o.Offset, !p.SubMinute)
	}
	if err != nil {
		return ZonedMoment{}, err
	}
	return newZonedMoment(op, i, tz, cal)
}

// ParseRelativeTo reads a date, or a zoned date-time when s carries a
// time zone annotation.
func ParseRelativeTo(s string, o ParseOptions) (RelativeTo, error) {
	p, err := isostring.ParseDateTime(s)
	if err != nil {
		if z, zerr := ParseZonedMoment(s, o); zerr == nil {
			return RelativeToZoned(z), nil
		}
		return RelativeTo{}, err
	}
	if p.TimeZone != "" {
		z, err := ParseZonedMoment(s, o)
		if err != nil {
			return RelativeTo{}, err
		}
		return RelativeToZoned(z), nil
	}
	d, err := ParseCivilDate(s, o)
	if err != nil {
		return RelativeTo{}, err
	}
	return RelativeToDate(d), nil
}

// ParseDuration reads an ISO 8601 duration; sub-nanosecond digits are
// truncated.
func ParseDuration(s string) (duration.Duration, error) {
	return isostring.ParseDuration(s, duration.Trunc)
}

// FormatInstant writes i in UTC with Z, or at the offset of tz when tz is
// not nil.
func FormatInstant(i instant.Instant, tz timezone.TimeZone, o StringOptions) (string, error) {
	p, unit, inc, err := o.precision()
	if err != nil {
		return "", err
	}
	rounded, err := roundSpan(i.Span(), inc, unit, o.RoundingMode.Or(duration.Trunc))
	if err != nil {
		return "", err
	}
	if i, err = instant.FromSpan(rounded); err != nil {
		return "", err
	}
	if tz == nil {
		return isostring.FormatDateTime(i.DateTime(0), p) + "Z", nil
	}
	off, err := timezone.OffsetFor(tz, i)
	if err != nil {
		return "", err
	}
	return isostring.FormatDateTime(i.DateTime(off), p) + isostring.FormatOffset(off), nil
}
