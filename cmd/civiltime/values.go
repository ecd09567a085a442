package main

import (
	"fmt"
	"strings"

	"github.com/tzlist/civiltime/calendar"
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/instant"
	"github.com/tzlist/civiltime/isostring"
	"github.com/tzlist/civiltime/temporal"
)

type kind int

const (
	kindDuration kind = iota
	kindDate
	kindTime
	kindDateTime
	kindZoned
	kindInstant
)

var kindNames = [...]string{
	kindDuration: "duration",
	kindDate:     "date",
	kindTime:     "time",
	kindDateTime: "datetime",
	kindZoned:    "zoned",
	kindInstant:  "instant",
}

func (k kind) String() string { return kindNames[k] }

// value is one command line argument, read as whichever kind its text
// describes.
type value struct {
	kind     kind
	duration duration.Duration
	date     temporal.CivilDate
	time     temporal.CivilTime
	dateTime temporal.CivilDateTime
	zoned    temporal.ZonedMoment
	instant  instant.Instant
}

func isDuration(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return s != "" && (s[0] == 'P' || s[0] == 'p')
}

// parseValue tries, in order: a duration, a zoned date-time (it has a time
// zone annotation), an instant (it has Z or an offset), a date or
// date-time, and a time.
func parseValue(s string, o temporal.ParseOptions) (value, error) {
	if isDuration(s) {
		d, err := temporal.ParseDuration(s)
		return value{kind: kindDuration, duration: d}, err
	}
	if _, err := isostring.ParseZoned(s); err == nil {
		z, err := temporal.ParseZonedMoment(s, o)
		return value{kind: kindZoned, zoned: z}, err
	}
	if _, err := isostring.ParseInstant(s); err == nil {
		i, err := temporal.ParseInstant(s, o)
		return value{kind: kindInstant, instant: i}, err
	}
	p, err := isostring.ParseDateTime(s)
	if err == nil {
		if !p.HasTime {
			d, err := temporal.ParseCivilDate(s, o)
			return value{kind: kindDate, date: d}, err
		}
		dt, err := temporal.ParseCivilDateTime(s, o)
		return value{kind: kindDateTime, dateTime: dt}, err
	}
	if _, terr := isostring.ParseTime(s); terr == nil {
		t, err := temporal.ParseCivilTime(s, o)
		return value{kind: kindTime, time: t}, err
	}
	return value{}, err
}

func parseValues(args []string, o temporal.ParseOptions) ([]value, error) {
	vs := make([]value, len(args))
	for i, s := range args {
		v, err := parseValue(s, o)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

func sameKind(op string, a, b value) error {
	if a.kind != b.kind {
		return fmt.Errorf("%s: cannot mix a %s and a %s", op, a.kind, b.kind)
	}
	return nil
}

func (v value) format(o temporal.StringOptions) (string, error) {
	switch v.kind {
	case kindDate:
		return v.date.Format(o)
	case kindTime:
		return v.time.Format(o)
	case kindDateTime:
		return v.dateTime.Format(o)
	case kindZoned:
		return v.zoned.Format(o)
	case kindInstant:
		return temporal.FormatInstant(v.instant, nil, o)
	}
	return v.duration.String(), nil
}

func (v value) add(d duration.Duration, overflow calendar.Overflow, rel temporal.RelativeTo) (value, error) {
	var err error
	switch v.kind {
	case kindDate:
		v.date, err = v.date.Add(d, overflow)
	case kindTime:
		v.time = v.time.Add(d)
	case kindDateTime:
		v.dateTime, err = v.dateTime.Add(d, overflow)
	case kindZoned:
		v.zoned, err = v.zoned.Add(d, overflow)
	case kindInstant:
		v.instant, err = v.instant.AddDuration(d)
	case kindDuration:
		v.duration, err = temporal.AddDurations(v.duration, d, rel)
	}
	return v, err
}

func difference(a, b value, opts duration.RoundingOptions, since bool) (duration.Duration, error) {
	op := "until"
	if since {
		op = "since"
	}
	if err := sameKind(op, a, b); err != nil {
		return duration.Duration{}, err
	}
	switch a.kind {
	case kindDate:
		if since {
			return a.date.Since(b.date, opts)
		}
		return a.date.Until(b.date, opts)
	case kindTime:
		if since {
			return a.time.Since(b.time, opts)
		}
		return a.time.Until(b.time, opts)
	case kindDateTime:
		if since {
			return a.dateTime.Since(b.dateTime, opts)
		}
		return a.dateTime.Until(b.dateTime, opts)
	case kindZoned:
		if since {
			return a.zoned.Since(b.zoned, opts)
		}
		return a.zoned.Until(b.zoned, opts)
	case kindInstant:
		if since {
			return a.instant.Since(b.instant, opts)
		}
		return a.instant.Until(b.instant, opts)
	}
	return duration.Duration{}, fmt.Errorf("%s: durations have no difference, subtract them instead", op)
}

func (v value) round(opts duration.RoundingOptions, rel temporal.RelativeTo) (value, error) {
	var err error
	switch v.kind {
	case kindTime:
		v.time, err = v.time.Round(opts)
	case kindDateTime:
		v.dateTime, err = v.dateTime.Round(opts)
	case kindZoned:
		v.zoned, err = v.zoned.Round(opts)
	case kindInstant:
		v.instant, err = v.instant.Round(opts)
	case kindDuration:
		v.duration, err = temporal.RoundDuration(v.duration, opts, rel)
	default:
		err = fmt.Errorf("round: a %s cannot be rounded", v.kind)
	}
	return v, err
}

func compare(a, b value, rel temporal.RelativeTo) (int, error) {
	if err := sameKind("compare", a, b); err != nil {
		return 0, err
	}
	switch a.kind {
	case kindDate:
		return a.date.Compare(b.date), nil
	case kindTime:
		return a.time.Compare(b.time), nil
	case kindDateTime:
		return a.dateTime.Compare(b.dateTime), nil
	case kindZoned:
		return a.zoned.Compare(b.zoned), nil
	case kindInstant:
		return a.instant.Compare(b.instant), nil
	}
	return temporal.CompareDurations(a.duration, b.duration, rel)
}

// fields lists what a value knows about itself, for the parse command.
func (v value) fields() (map[string]any, error) {
	f := map[string]any{}
	switch v.kind {
	case kindDuration:
		d := v.duration
		for u := duration.Nanosecond; u <= duration.Year; u++ {
			if n := d.Get(u); n != 0 {
				f[u.String()+"s"] = n
			}
		}
		f["sign"] = d.Sign()
	case kindDate:
		dateFields(f, v.date)
	case kindTime:
		timeFields(f, v.time)
	case kindDateTime:
		dateFields(f, v.dateTime.Date())
		timeFields(f, v.dateTime.Time())
	case kindZoned:
		z := v.zoned
		dateFields(f, z.Date())
		timeFields(f, z.Time())
		f["timeZone"] = z.TimeZone().ID()
		f["offset"] = z.Offset()
		f["epochNanoseconds"] = z.ToInstant().EpochNanoseconds().String()
		hours, err := z.HoursInDay()
		if err != nil {
			return nil, err
		}
		f["hoursInDay"] = hours
	case kindInstant:
		sec, _ := v.instant.EpochSeconds()
		f["epochSeconds"] = sec
		f["epochMilliseconds"] = v.instant.EpochMilliseconds()
		f["epochNanoseconds"] = v.instant.EpochNanoseconds().String()
	}
	return f, nil
}

func dateFields(f map[string]any, d temporal.CivilDate) {
	f["calendar"] = d.Calendar().ID()
	f["year"] = d.Year()
	f["month"] = d.Month()
	f["monthCode"] = d.MonthCode()
	f["day"] = d.Day()
	if era, ok := d.Era(); ok {
		f["era"] = era
	}
	if y, ok := d.EraYear(); ok {
		f["eraYear"] = y
	}
	f["dayOfWeek"] = d.DayOfWeek()
	f["dayOfYear"] = d.DayOfYear()
	if w, ok := d.WeekOfYear(); ok {
		f["weekOfYear"] = w
	}
	if y, ok := d.YearOfWeek(); ok {
		f["yearOfWeek"] = y
	}
	f["daysInMonth"] = d.DaysInMonth()
	f["daysInYear"] = d.DaysInYear()
	f["monthsInYear"] = d.MonthsInYear()
	f["inLeapYear"] = d.InLeapYear()
}

func timeFields(f map[string]any, t temporal.CivilTime) {
	f["hour"] = t.Hour()
	f["minute"] = t.Minute()
	f["second"] = t.Second()
	f["millisecond"] = t.Millisecond()
	f["microsecond"] = t.Microsecond()
	f["nanosecond"] = t.Nanosecond()
}
