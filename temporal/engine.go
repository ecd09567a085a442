package temporal

import (
	"math/big"

	"github.com/tzlist/civiltime/calendar"
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/instant"
	"github.com/tzlist/civiltime/iso"
	"github.com/tzlist/civiltime/timezone"
)

// dateDuration is the calendar part of a duration.
type dateDuration struct {
	years, months, weeks, days int64
}

func dateDurationOf(d duration.Duration) dateDuration {
	return dateDuration{d.Years(), d.Months(), d.Weeks(), d.Days()}
}

func (d dateDuration) sign() int {
	for _, v := range [...]int64{d.years, d.months, d.weeks, d.days} {
		switch {
		case v < 0:
			return -1
		case v > 0:
			return 1
		}
	}
	return 0
}

func (d dateDuration) duration() (duration.Duration, error) {
	return duration.New(d.years, d.months, d.weeks, d.days, 0, 0, 0, 0, 0, 0)
}

// internalDuration is a duration whose time part is one exact span.
type internalDuration struct {
	date dateDuration
	time duration.TimeSpan
}

func toInternal(d duration.Duration) internalDuration {
	return internalDuration{date: dateDurationOf(d), time: d.TimeSpan()}
}

// toInternal24 moves the days into the time span as 24 hour days.
func toInternal24(d duration.Duration) internalDuration {
	return internalDuration{
		date: dateDuration{years: d.Years(), months: d.Months(), weeks: d.Weeks()},
		time: d.DaySpan(),
	}
}

func (d internalDuration) sign() int {
	if s := d.date.sign(); s != 0 {
		return s
	}
	return d.time.Sign()
}

// result balances the time span up to largest.
func (d internalDuration) result(largest duration.Unit) (duration.Duration, error) {
	return duration.Combine(d.date.years, d.date.months, d.date.weeks, d.date.days, d.time, largest)
}

func calendarAdd(cal calendar.Calendar, date iso.Date, d dateDuration, overflow calendar.Overflow) (iso.Date, error) {
	dur, err := d.duration()
	if err != nil {
		return iso.Date{}, err
	}
	return cal.DateAdd(date, dur, overflow)
}

func utcSpan(dt iso.DateTime) (duration.TimeSpan, error) {
	sec, nsec := dt.EpochSeconds()
	return duration.NewTimeSpan(sec, nsec)
}

func signOf(x int64) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

func isoDateTimeFor(tz timezone.TimeZone, i instant.Instant) (iso.DateTime, error) {
	off, err := timezone.OffsetFor(tz, i)
	if err != nil {
		return iso.DateTime{}, err
	}
	return i.DateTime(off), nil
}

// anchor is the starting point of a relative computation. A nil zone
// measures date-times as if they were UTC.
type anchor struct {
	dt  iso.DateTime
	tz  timezone.TimeZone
	cal calendar.Calendar
}

func (a anchor) epochOf(dt iso.DateTime) (duration.TimeSpan, error) {
	if a.tz == nil {
		return utcSpan(dt)
	}
	i, err := timezone.InstantFor(a.tz, dt, timezone.Compatible)
	if err != nil {
		return duration.TimeSpan{}, err
	}
	return i.Span(), nil
}

// epochAfter returns the position of the anchor moved by d.
func (a anchor) epochAfter(d dateDuration) (duration.TimeSpan, error) {
	date, err := calendarAdd(a.cal, a.dt.Date, d, calendar.Constrain)
	if err != nil {
		return duration.TimeSpan{}, err
	}
	return a.epochOf(iso.DateTime{Date: date, Time: a.dt.Time})
}

// addZoned adds d to i: the date part on the wall clock of tz, the time
// part in exact time.
func addZoned(i instant.Instant, tz timezone.TimeZone, cal calendar.Calendar, d internalDuration, overflow calendar.Overflow) (instant.Instant, error) {
	const op = "temporal.add"
	if d.date.sign() == 0 {
		return i.Add(d.time)
	}
	dt, err := isoDateTimeFor(tz, i)
	if err != nil {
		return instant.Instant{}, err
	}
	date, err := calendarAdd(cal, dt.Date, d.date, overflow)
	if err != nil {
		return instant.Instant{}, err
	}
	mid := iso.DateTime{Date: date, Time: dt.Time}
	if !iso.DateTimeWithinLimits(mid) {
		return instant.Instant{}, failure.Rangef(op, "date-time outside the supported range")
	}
	start, err := timezone.InstantFor(tz, mid, timezone.Compatible)
	if err != nil {
		return instant.Instant{}, err
	}
	return start.Add(d.time)
}

// differenceISODateTime returns b - a with the date part in units up to
// largest and the time part below a day.
func differenceISODateTime(a, b iso.DateTime, cal calendar.Calendar, largest duration.Unit) (internalDuration, error) {
	sec, nsec := iso.DiffTime(a.Time, b.Time)
	timeSpan, err := duration.NewTimeSpan(sec, nsec)
	if err != nil {
		return internalDuration{}, err
	}
	timeSign := timeSpan.Sign()
	dateSign := iso.CompareDate(b.Date, a.Date)
	adjusted := b.Date
	if timeSign == -dateSign {
		adjusted = iso.AddDays(b.Date, int64(timeSign))
		if timeSpan, err = timeSpan.AddDays(int64(-timeSign)); err != nil {
			return internalDuration{}, err
		}
	}
	dateLargest := duration.LargerOf(duration.Day, largest)
	dd, err := cal.DateUntil(a.Date, adjusted, dateLargest)
	if err != nil {
		return internalDuration{}, err
	}
	date := dateDurationOf(dd)
	if largest != dateLargest {
		if timeSpan, err = timeSpan.AddDays(date.days); err != nil {
			return internalDuration{}, err
		}
		date.days = 0
	}
	return internalDuration{date: date, time: timeSpan}, nil
}

// differenceZoned returns ns2 - ns1 with date units counted on the wall
// clock of tz. A day across a transition is as long as it really is.
func differenceZoned(ns1, ns2 instant.Instant, tz timezone.TimeZone, cal calendar.Calendar, largest duration.Unit) (internalDuration, error) {
	const op = "temporal.difference"
	if ns1.Equal(ns2) {
		return internalDuration{}, nil
	}
	start, err := isoDateTimeFor(tz, ns1)
	if err != nil {
		return internalDuration{}, err
	}
	end, err := isoDateTimeFor(tz, ns2)
	if err != nil {
		return internalDuration{}, err
	}
	span, err := ns2.Span().Sub(ns1.Span())
	if err != nil {
		return internalDuration{}, err
	}
	if iso.CompareDate(start.Date, end.Date) == 0 {
		return internalDuration{time: span}, nil
	}

	sign := span.Sign()
	maxCorrection := 1
	if sign == 1 {
		maxCorrection = 2
	}
	correction := 0
	wall, err := duration.NewTimeSpan(iso.DiffTime(start.Time, end.Time))
	if err != nil {
		return internalDuration{}, err
	}
	if wall.Sign() == -sign {
		correction++
	}

	var mid iso.Date
	var timeSpan duration.TimeSpan
	found := false
	for ; correction <= maxCorrection && !found; correction++ {
		mid = iso.AddDays(end.Date, int64(-correction*sign))
		i, err := timezone.InstantFor(tz, iso.DateTime{Date: mid, Time: start.Time}, timezone.Compatible)
		if err != nil {
			return internalDuration{}, err
		}
		if timeSpan, err = ns2.Span().Sub(i.Span()); err != nil {
			return internalDuration{}, err
		}
		found = timeSpan.Sign() != -sign
	}
	if !found {
		return internalDuration{}, failure.Rangef(op, "zone %s has inconsistent offsets", tz.ID())
	}
	dd, err := cal.DateUntil(start.Date, mid, duration.LargerOf(largest, duration.Day))
	if err != nil {
		return internalDuration{}, err
	}
	return internalDuration{date: dateDurationOf(dd), time: timeSpan}, nil
}

// differenceCivilRounded is differenceISODateTime followed by rounding.
// o must be resolved.
func differenceCivilRounded(a, b iso.DateTime, cal calendar.Calendar, o duration.RoundingOptions) (internalDuration, error) {
	if iso.CompareDateTime(a, b) == 0 {
		return internalDuration{}, nil
	}
	if !iso.DateTimeWithinLimits(a) || !iso.DateTimeWithinLimits(b) {
		return internalDuration{}, failure.Rangef("temporal.difference", "date-time outside the supported range")
	}
	d, err := differenceISODateTime(a, b, cal, o.LargestUnit)
	if err != nil {
		return internalDuration{}, err
	}
	if o.SmallestUnit == duration.Nanosecond && o.Increment == 1 {
		return d, nil
	}
	dest, err := utcSpan(b)
	if err != nil {
		return internalDuration{}, err
	}
	return roundRelative(d, dest, anchor{dt: a, cal: cal}, o)
}

// differenceZonedRounded is differenceZoned followed by rounding. Time
// units are plain exact differences.
func differenceZonedRounded(ns1, ns2 instant.Instant, tz timezone.TimeZone, cal calendar.Calendar, o duration.RoundingOptions) (internalDuration, error) {
	if !o.LargestUnit.IsDateUnit() {
		span, err := ns2.Span().Sub(ns1.Span())
		if err != nil {
			return internalDuration{}, err
		}
		if span, err = roundSpan(span, o.Increment, o.SmallestUnit, o.Mode); err != nil {
			return internalDuration{}, err
		}
		return internalDuration{time: span}, nil
	}
	d, err := differenceZoned(ns1, ns2, tz, cal, o.LargestUnit)
	if err != nil {
		return internalDuration{}, err
	}
	if o.SmallestUnit == duration.Nanosecond && o.Increment == 1 {
		return d, nil
	}
	dt, err := isoDateTimeFor(tz, ns1)
	if err != nil {
		return internalDuration{}, err
	}
	return roundRelative(d, ns2.Span(), anchor{dt: dt, tz: tz, cal: cal}, o)
}

type nudgeResult struct {
	d        internalDuration
	total    *big.Rat
	nudged   duration.TimeSpan
	expanded bool
}

// roundRelative rounds d, which ends at dest when applied to a, and then
// carries any overflow up to the largest unit.
func roundRelative(d internalDuration, dest duration.TimeSpan, a anchor, o duration.RoundingOptions) (internalDuration, error) {
	irregular := o.SmallestUnit.IsCalendarUnit() || (a.tz != nil && o.SmallestUnit == duration.Day)
	sign := 1
	if d.sign() < 0 {
		sign = -1
	}
	var r nudgeResult
	var err error
	switch {
	case irregular:
		r, err = nudgeToCalendarUnit(sign, d, dest, a, o.Increment, o.SmallestUnit, o.Mode)
	case a.tz != nil:
		r, err = nudgeToZonedTime(sign, d, a, o.Increment, o.SmallestUnit, o.Mode)
	default:
		r, err = nudgeToDayOrTime(d, dest, o.LargestUnit, o.Increment, o.SmallestUnit, o.Mode)
	}
	if err != nil {
		return internalDuration{}, err
	}
	if r.expanded && o.SmallestUnit != duration.Week {
		return bubble(sign, r.d, r.nudged, a, o.LargestUnit, duration.LargerOf(o.SmallestUnit, duration.Day))
	}
	return r.d, nil
}

// nudgeToCalendarUnit rounds d to a multiple of a calendar unit (or of a
// zoned day) by locating dest between the two candidate end points.
func nudgeToCalendarUnit(sign int, d internalDuration, dest duration.TimeSpan, a anchor, increment int64, unit duration.Unit, mode duration.RoundingMode) (nudgeResult, error) {
	const op = "temporal.round"
	s := int64(sign)
	var r1, r2 int64
	var start, end dateDuration
	switch unit {
	case duration.Year:
		r1 = duration.RoundInt(d.date.years, increment, duration.Trunc)
		r2 = r1 + increment*s
		start, end = dateDuration{years: r1}, dateDuration{years: r2}
	case duration.Month:
		r1 = duration.RoundInt(d.date.months, increment, duration.Trunc)
		r2 = r1 + increment*s
		start = dateDuration{years: d.date.years, months: r1}
		end = dateDuration{years: d.date.years, months: r2}
	case duration.Week:
		weeksStart, err := calendarAdd(a.cal, a.dt.Date, dateDuration{years: d.date.years, months: d.date.months}, calendar.Constrain)
		if err != nil {
			return nudgeResult{}, err
		}
		until, err := a.cal.DateUntil(weeksStart, iso.AddDays(weeksStart, d.date.days), duration.Week)
		if err != nil {
			return nudgeResult{}, err
		}
		r1 = duration.RoundInt(d.date.weeks+until.Weeks(), increment, duration.Trunc)
		r2 = r1 + increment*s
		start = dateDuration{years: d.date.years, months: d.date.months, weeks: r1}
		end = dateDuration{years: d.date.years, months: d.date.months, weeks: r2}
	default:
		r1 = duration.RoundInt(d.date.days, increment, duration.Trunc)
		r2 = r1 + increment*s
		start = dateDuration{d.date.years, d.date.months, d.date.weeks, r1}
		end = dateDuration{d.date.years, d.date.months, d.date.weeks, r2}
	}

	startNs, err := a.epochAfter(start)
	if err != nil {
		return nudgeResult{}, err
	}
	endNs, err := a.epochAfter(end)
	if err != nil {
		return nudgeResult{}, err
	}
	if startNs.Cmp(endNs) == 0 ||
		(sign > 0 && (startNs.Cmp(dest) > 0 || dest.Cmp(endNs) > 0)) ||
		(sign < 0 && (endNs.Cmp(dest) > 0 || dest.Cmp(startNs) > 0)) {
		return nudgeResult{}, failure.Rangef(op, "cannot round to a %s", unit)
	}
	num, err := dest.Sub(startNs)
	if err != nil {
		return nudgeResult{}, err
	}
	den, err := endNs.Sub(startNs)
	if err != nil {
		return nudgeResult{}, err
	}
	frac := num.Ratio(den)

	total := new(big.Rat).Mul(frac, big.NewRat(increment*s, 1))
	total.Add(total, big.NewRat(r1, 1))

	var expanded bool
	if frac.Cmp(big.NewRat(1, 1)) == 0 {
		expanded = true
	} else {
		abs1 := r1
		if abs1 < 0 {
			abs1 = -abs1
		}
		expanded = mode.RoundsAway(sign < 0, frac, (abs1/increment)%2 == 0)
	}
	if expanded {
		return nudgeResult{d: internalDuration{date: end}, total: total, nudged: endNs, expanded: true}, nil
	}
	return nudgeResult{d: internalDuration{date: start}, total: total, nudged: startNs}, nil
}

// nudgeToZonedTime rounds the time part of d within the real length of
// the day it ends in, spilling into the next day when rounding passes it.
func nudgeToZonedTime(sign int, d internalDuration, a anchor, increment int64, unit duration.Unit, mode duration.RoundingMode) (nudgeResult, error) {
	const op = "temporal.round"
	startDate, err := calendarAdd(a.cal, a.dt.Date, d.date, calendar.Constrain)
	if err != nil {
		return nudgeResult{}, err
	}
	startNs, err := a.epochOf(iso.DateTime{Date: startDate, Time: a.dt.Time})
	if err != nil {
		return nudgeResult{}, err
	}
	endNs, err := a.epochOf(iso.DateTime{Date: iso.AddDays(startDate, int64(sign)), Time: a.dt.Time})
	if err != nil {
		return nudgeResult{}, err
	}
	daySpan, err := endNs.Sub(startNs)
	if err != nil {
		return nudgeResult{}, err
	}
	if daySpan.Sign() != sign {
		return nudgeResult{}, failure.Rangef(op, "zone %s has a day of length %v", a.tz.ID(), daySpan.Big())
	}

	rounded, err := roundSpan(d.time, increment, unit, mode)
	if err != nil {
		return nudgeResult{}, err
	}
	beyond, err := rounded.Sub(daySpan)
	if err != nil {
		return nudgeResult{}, err
	}
	r := nudgeResult{d: internalDuration{date: d.date}}
	if beyond.Sign() != -sign {
		r.expanded = true
		r.d.date.days += int64(sign)
		if rounded, err = roundSpan(beyond, increment, unit, mode); err != nil {
			return nudgeResult{}, err
		}
		r.nudged, err = endNs.Add(rounded)
	} else {
		r.nudged, err = startNs.Add(rounded)
	}
	if err != nil {
		return nudgeResult{}, err
	}
	r.d.time = rounded
	return r, nil
}

// nudgeToDayOrTime rounds d as an exact span, counting days as 24 hours.
func nudgeToDayOrTime(d internalDuration, dest duration.TimeSpan, largest duration.Unit, increment int64, unit duration.Unit, mode duration.RoundingMode) (nudgeResult, error) {
	span, err := d.time.AddDays(d.date.days)
	if err != nil {
		return nudgeResult{}, err
	}
	rounded, err := roundSpan(span, increment, unit, mode)
	if err != nil {
		return nudgeResult{}, err
	}
	diff, err := rounded.Sub(span)
	if err != nil {
		return nudgeResult{}, err
	}
	wholeDays, _ := span.TruncDays()
	roundedDays, remainder := rounded.TruncDays()
	nudged, err := dest.Add(diff)
	if err != nil {
		return nudgeResult{}, err
	}

	r := nudgeResult{
		d:        internalDuration{date: dateDuration{d.date.years, d.date.months, d.date.weeks, 0}, time: rounded},
		nudged:   nudged,
		expanded: signOf(roundedDays-wholeDays) == span.Sign(),
	}
	if largest.IsDateUnit() {
		r.d.date.days = roundedDays
		r.d.time = remainder
	}
	return r, nil
}

// bubble carries a rounded duration into larger units while the end point
// reaches the next boundary of that unit.
func bubble(sign int, d internalDuration, nudged duration.TimeSpan, a anchor, largest, smallest duration.Unit) (internalDuration, error) {
	if smallest == largest {
		return d, nil
	}
	s := int64(sign)
	for unit := smallest + 1; unit <= largest; unit++ {
		var end dateDuration
		switch unit {
		case duration.Week:
			if largest != duration.Week {
				continue
			}
			end = dateDuration{years: d.date.years, months: d.date.months, weeks: d.date.weeks + s}
		case duration.Month:
			end = dateDuration{years: d.date.years, months: d.date.months + s}
		case duration.Year:
			end = dateDuration{years: d.date.years + s}
		default:
			continue
		}
		endNs, err := a.epochAfter(end)
		if err != nil {
			return internalDuration{}, err
		}
		beyond, err := nudged.Sub(endNs)
		if err != nil {
			return internalDuration{}, err
		}
		if beyond.Sign() == -sign {
			break
		}
		d = internalDuration{date: end}
	}
	return d, nil
}

// totalRelative projects d, which ends at dest when applied to a, onto
// unit.
func totalRelative(d internalDuration, dest duration.TimeSpan, a anchor, unit duration.Unit) (*big.Rat, error) {
	if unit.IsCalendarUnit() || (a.tz != nil && unit == duration.Day) {
		sign := 1
		if d.sign() < 0 {
			sign = -1
		}
		r, err := nudgeToCalendarUnit(sign, d, dest, a, 1, unit, duration.Trunc)
		if err != nil {
			return nil, err
		}
		return r.total, nil
	}
	span, err := d.time.AddDays(d.date.days)
	if err != nil {
		return nil, err
	}
	return span.Total(unit.Nanoseconds()), nil
}

// roundSpan rounds ts to a multiple of increment units of fixed length.
func roundSpan(ts duration.TimeSpan, increment int64, unit duration.Unit, mode duration.RoundingMode) (duration.TimeSpan, error) {
	step := new(big.Int).Mul(big.NewInt(increment), big.NewInt(unit.Nanoseconds()))
	return duration.FromBig(duration.RoundBig(ts.Big(), step, mode))
}

// roundTime rounds t to a multiple of increment units and reports the
// days carried.
func roundTime(t iso.Time, increment int64, unit duration.Unit, mode duration.RoundingMode) (int64, iso.Time) {
	ns := duration.RoundInt(t.NanosecondOfDay(), increment*unit.Nanoseconds(), mode)
	return iso.FloorDiv(ns, iso.NanosecondsPerDay), iso.TimeFromNanosecondOfDay(iso.FloorMod(ns, iso.NanosecondsPerDay))
}

func roundDateTime(dt iso.DateTime, increment int64, unit duration.Unit, mode duration.RoundingMode) iso.DateTime {
	days, t := roundTime(dt.Time, increment, unit, mode)
	return iso.DateTime{Date: iso.AddDays(dt.Date, days), Time: t}
}
