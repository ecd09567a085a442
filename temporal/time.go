package temporal

import (
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/iso"
	"github.com/tzlist/civiltime/isostring"
)

// CivilTime is a wall-clock time of day. It carries no calendar.
type CivilTime struct {
	t iso.Time
}

// Midnight is 00:00.
var Midnight = CivilTime{}

// NewCivilTime builds a time of day; out of range fields are a Range
// error.
func NewCivilTime(hour, minute, second, millisecond, microsecond, nanosecond int) (CivilTime, error) {
	t, err := iso.RegulateTime(iso.Time{
		Hour: hour, Minute: minute, Second: second,
		Millisecond: millisecond, Microsecond: microsecond, Nanosecond: nanosecond,
	}, false)
	if err != nil {
		return CivilTime{}, failure.Wrap(failure.Range, "temporal.NewCivilTime", err)
	}
	return CivilTime{t: t}, nil
}

// CivilTimeOf wraps an ISO time record, constraining it to a valid time.
func CivilTimeOf(t iso.Time) CivilTime {
	t, _ = iso.RegulateTime(t, true)
	return CivilTime{t: t}
}

func (t CivilTime) ISO() iso.Time { return t.t }
func (t CivilTime) Hour() int { return t.t.Hour }
func (t CivilTime) Minute() int { return t.t.Minute }
func (t CivilTime) Second() int { return t.t.Second }
func (t CivilTime) Millisecond() int { return t.t.Millisecond }
func (t CivilTime) Microsecond() int { return t.t.Microsecond }
func (t CivilTime) Nanosecond() int { return t.t.Nanosecond }

// Add moves t by the time part of d, wrapping around midnight. Days and
// larger units are ignored.
func (t CivilTime) Add(d duration.Duration) CivilTime {
	ts := d.TimeSpan()
	_, out := iso.AddTime(t.t, ts.Seconds(), ts.Subsec())
	return CivilTime{t: out}
}

func (t CivilTime) Subtract(d duration.Duration) CivilTime { return t.Add(d.Negated()) }

// Until returns the time from t to o, hours and smaller, with hour as the
// default largest unit.
func (t CivilTime) Until(o CivilTime, opts duration.RoundingOptions) (duration.Duration, error) {
	return t.difference(o, opts, false)
}

// Since returns the time from o to t.
func (t CivilTime) Since(o CivilTime, opts duration.RoundingOptions) (duration.Duration, error) {
	return t.difference(o, opts, true)
}

func (t CivilTime) difference(o CivilTime, opts duration.RoundingOptions, since bool) (duration.Duration, error) {
	r, err := opts.Difference(duration.TimeUnits, duration.Nanosecond, duration.Hour, since)
	if err != nil {
		return duration.Duration{}, err
	}
	span, err := duration.NewTimeSpan(iso.DiffTime(t.t, o.t))
	if err != nil {
		return duration.Duration{}, err
	}
	if span, err = roundSpan(span, r.Increment, r.SmallestUnit, r.Mode); err != nil {
		return duration.Duration{}, err
	}
	out, err := duration.Combine(0, 0, 0, 0, span, r.LargestUnit)
	if err != nil {
		return duration.Duration{}, err
	}
	if since {
		out = out.Negated()
	}
	return out, nil
}

// Round rounds t to a multiple of the smallest unit, hour at most. A
// result of 24:00 wraps to midnight.
func (t CivilTime) Round(opts duration.RoundingOptions) (CivilTime, error) {
	r, err := opts.Round(duration.Hour)
	if err != nil {
		return CivilTime{}, err
	}
	_, out := roundTime(t.t, r.Increment, r.SmallestUnit, r.Mode)
	return CivilTime{t: out}, nil
}

func (t CivilTime) Compare(o CivilTime) int { return iso.CompareTime(t.t, o.t) }

func (t CivilTime) Equal(o CivilTime) bool { return t.t == o.t }

func (t CivilTime) String() string {
	s, _ := t.Format(StringOptions{})
	return s
}

// Format writes the time rounded to the precision o asks for.
func (t CivilTime) Format(o StringOptions) (string, error) {
	p, unit, inc, err := o.precision()
	if err != nil {
		return "", err
	}
	_, rounded := roundTime(t.t, inc, unit, o.RoundingMode.Or(duration.Trunc))
	return isostring.FormatTime(rounded, p), nil
}
