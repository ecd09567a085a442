package temporal

import (
	"math/big"

	"github.com/tzlist/civiltime/calendar"
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/iso"
)

// resolveDurationRounding fills in the defaults of a duration rounding:
// smallest nanosecond, largest the larger of the duration's own largest
// unit and the smallest unit, half-expand.
func resolveDurationRounding(op string, d duration.Duration, o duration.RoundingOptions) (duration.RoundingOptions, error) {
	if o.SmallestUnit == duration.UnitNone && o.LargestUnit == duration.UnitNone {
		return o, failure.Rangef(op, "smallest or largest unit is required")
	}
	r := o
	if r.SmallestUnit == duration.UnitNone {
		r.SmallestUnit = duration.Nanosecond
	}
	if r.LargestUnit == duration.UnitNone {
		r.LargestUnit = duration.LargerOf(d.DefaultLargestUnit(), r.SmallestUnit)
	}
	if r.LargestUnit < r.SmallestUnit {
		return o, failure.Rangef(op, "largest unit %s smaller than smallest unit %s", r.LargestUnit, r.SmallestUnit)
	}
	if r.Increment == 0 {
		r.Increment = 1
	}
	if err := duration.ValidateIncrement(r.Increment, duration.MaximumIncrement(r.SmallestUnit), false); err != nil {
		return o, err
	}
	r.Mode = r.Mode.Or(duration.HalfExpand)
	return r, nil
}

// plainTarget returns midnight of the anchor date and the date-time that
// d leads to from there, with time carried into days.
func plainTarget(d duration.Duration, rel CivilDate) (iso.DateTime, iso.DateTime, error) {
	in := toInternal24(d)
	days, t := iso.AddTime(iso.Midnight, in.time.Seconds(), in.time.Subsec())
	dd := in.date
	dd.days = days
	date, err := calendarAdd(rel.cal, rel.date, dd, calendar.Constrain)
	if err != nil {
		return iso.DateTime{}, iso.DateTime{}, err
	}
	return iso.DateTime{Date: rel.date, Time: iso.Midnight}, iso.DateTime{Date: date, Time: t}, nil
}

func errNeedsRelativeTo(op string) error {
	return failure.Rangef(op, "calendar units require a relative-to date")
}

// RoundDuration rounds d. Without rel, years, months and weeks cannot be
// used and days count as 24 hours.
func RoundDuration(d duration.Duration, o duration.RoundingOptions, rel RelativeTo) (duration.Duration, error) {
	const op = "temporal.RoundDuration"
	r, err := resolveDurationRounding(op, d, o)
	if err != nil {
		return duration.Duration{}, err
	}
	switch {
	case rel.zoned != nil:
		z := rel.zoned
		target, err := addZoned(z.i, z.tz, z.cal, toInternal(d), calendar.Constrain)
		if err != nil {
			return duration.Duration{}, err
		}
		res, err := differenceZonedRounded(z.i, target, z.tz, z.cal, r)
		if err != nil {
			return duration.Duration{}, err
		}
		largest := r.LargestUnit
		if largest.IsDateUnit() {
			largest = duration.Hour
		}
		return res.result(largest)
	case rel.date != nil:
		start, end, err := plainTarget(d, *rel.date)
		if err != nil {
			return duration.Duration{}, err
		}
		res, err := differenceCivilRounded(start, end, rel.date.cal, r)
		if err != nil {
			return duration.Duration{}, err
		}
		return res.result(r.LargestUnit)
	}
	if d.DefaultLargestUnit().IsCalendarUnit() || r.LargestUnit.IsCalendarUnit() {
		return duration.Duration{}, errNeedsRelativeTo(op)
	}
	rounded, err := roundSpan(d.DaySpan(), r.Increment, r.SmallestUnit, r.Mode)
	if err != nil {
		return duration.Duration{}, err
	}
	return duration.Combine(0, 0, 0, 0, rounded, r.LargestUnit)
}

// TotalDuration returns d expressed in unit, with a fraction.
func TotalDuration(d duration.Duration, unit duration.Unit, rel RelativeTo) (float64, error) {
	r, err := totalDuration(d, unit, rel)
	if err != nil {
		return 0, err
	}
	f, _ := r.Float64()
	return f, nil
}

func totalDuration(d duration.Duration, unit duration.Unit, rel RelativeTo) (*big.Rat, error) {
	const op = "temporal.TotalDuration"
	if unit == duration.UnitNone {
		return nil, failure.Typef(op, "unit is required")
	}
	switch {
	case rel.zoned != nil:
		z := rel.zoned
		target, err := addZoned(z.i, z.tz, z.cal, toInternal(d), calendar.Constrain)
		if err != nil {
			return nil, err
		}
		if !unit.IsDateUnit() {
			span, err := target.Span().Sub(z.i.Span())
			if err != nil {
				return nil, err
			}
			return span.Total(unit.Nanoseconds()), nil
		}
		diff, err := differenceZoned(z.i, target, z.tz, z.cal, unit)
		if err != nil {
			return nil, err
		}
		dt, err := isoDateTimeFor(z.tz, z.i)
		if err != nil {
			return nil, err
		}
		return totalRelative(diff, target.Span(), anchor{dt: dt, tz: z.tz, cal: z.cal}, unit)
	case rel.date != nil:
		start, end, err := plainTarget(d, *rel.date)
		if err != nil {
			return nil, err
		}
		if iso.CompareDateTime(start, end) == 0 {
			return new(big.Rat), nil
		}
		if !iso.DateTimeWithinLimits(end) {
			return nil, failure.Rangef(op, "date-time outside the supported range")
		}
		diff, err := differenceISODateTime(start, end, rel.date.cal, unit)
		if err != nil {
			return nil, err
		}
		dest, err := utcSpan(end)
		if err != nil {
			return nil, err
		}
		return totalRelative(diff, dest, anchor{dt: start, cal: rel.date.cal}, unit)
	}
	if d.DefaultLargestUnit().IsCalendarUnit() || unit.IsCalendarUnit() {
		return nil, errNeedsRelativeTo(op)
	}
	return d.DaySpan().Total(unit.Nanoseconds()), nil
}

// AddDurations returns a + b. With rel, a is applied first and the sum is
// measured from rel in the larger of the two durations' largest units.
func AddDurations(a, b duration.Duration, rel RelativeTo) (duration.Duration, error) {
	const op = "temporal.AddDurations"
	largest := duration.LargerOf(a.DefaultLargestUnit(), b.DefaultLargestUnit())
	switch {
	case rel.zoned != nil:
		z := rel.zoned
		mid, err := addZoned(z.i, z.tz, z.cal, toInternal(a), calendar.Constrain)
		if err != nil {
			return duration.Duration{}, err
		}
		end, err := addZoned(mid, z.tz, z.cal, toInternal(b), calendar.Constrain)
		if err != nil {
			return duration.Duration{}, err
		}
		if !largest.IsDateUnit() {
			span, err := end.Span().Sub(z.i.Span())
			if err != nil {
				return duration.Duration{}, err
			}
			return duration.Combine(0, 0, 0, 0, span, largest)
		}
		diff, err := differenceZoned(z.i, end, z.tz, z.cal, largest)
		if err != nil {
			return duration.Duration{}, err
		}
		return diff.result(duration.Hour)
	case rel.date != nil:
		cal, start := rel.date.cal, rel.date.date
		mid, err := calendarAdd(cal, start, dateDurationOf(a), calendar.Constrain)
		if err != nil {
			return duration.Duration{}, err
		}
		end, err := calendarAdd(cal, mid, dateDurationOf(b), calendar.Constrain)
		if err != nil {
			return duration.Duration{}, err
		}
		dd, err := cal.DateUntil(start, end, duration.LargerOf(duration.Day, largest))
		if err != nil {
			return duration.Duration{}, err
		}
		span, err := a.TimeSpan().Add(b.TimeSpan())
		if err != nil {
			return duration.Duration{}, err
		}
		if span, err = span.AddDays(dd.Days()); err != nil {
			return duration.Duration{}, err
		}
		return duration.Combine(dd.Years(), dd.Months(), dd.Weeks(), 0, span, largest)
	}
	if largest.IsCalendarUnit() {
		return duration.Duration{}, errNeedsRelativeTo(op)
	}
	span, err := a.DaySpan().Add(b.DaySpan())
	if err != nil {
		return duration.Duration{}, err
	}
	return duration.Combine(0, 0, 0, 0, span, largest)
}

// SubtractDurations returns a - b.
func SubtractDurations(a, b duration.Duration, rel RelativeTo) (duration.Duration, error) {
	return AddDurations(a, b.Negated(), rel)
}

// CompareDurations orders a and b by their length. Calendar units need
// rel; a zoned rel measures days in the zone.
func CompareDurations(a, b duration.Duration, rel RelativeTo) (int, error) {
	const op = "temporal.CompareDurations"
	if a.Fields() == b.Fields() {
		return 0, nil
	}
	la, lb := a.DefaultLargestUnit(), b.DefaultLargestUnit()
	if rel.zoned != nil && (la.IsDateUnit() || lb.IsDateUnit()) {
		z := rel.zoned
		endA, err := addZoned(z.i, z.tz, z.cal, toInternal(a), calendar.Constrain)
		if err != nil {
			return 0, err
		}
		endB, err := addZoned(z.i, z.tz, z.cal, toInternal(b), calendar.Constrain)
		if err != nil {
			return 0, err
		}
		return endA.Compare(endB), nil
	}
	daysA, daysB := a.Days(), b.Days()
	if la.IsCalendarUnit() || lb.IsCalendarUnit() {
		if rel.date == nil {
			return 0, errNeedsRelativeTo(op)
		}
		var err error
		if daysA, err = dateDurationDays(dateDurationOf(a), *rel.date); err != nil {
			return 0, err
		}
		if daysB, err = dateDurationDays(dateDurationOf(b), *rel.date); err != nil {
			return 0, err
		}
	}
	spanA, err := a.TimeSpan().AddDays(daysA)
	if err != nil {
		return 0, err
	}
	spanB, err := b.TimeSpan().AddDays(daysB)
	if err != nil {
		return 0, err
	}
	return spanA.Cmp(spanB), nil
}

// dateDurationDays counts the days d spans from rel.
func dateDurationDays(d dateDuration, rel CivilDate) (int64, error) {
	ymw := dateDuration{years: d.years, months: d.months, weeks: d.weeks}
	if ymw.sign() == 0 {
		return d.days, nil
	}
	later, err := calendarAdd(rel.cal, rel.date, ymw, calendar.Constrain)
	if err != nil {
		return 0, err
	}
	return d.days + later.EpochDays() - rel.date.EpochDays(), nil
}
