// Package instant implements the exact point on the timeline: a signed
// nanosecond count since 1970-01-01T00:00:00Z.
package instant

import (
	"math/big"

	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/iso"
)

// MaxSeconds bounds the range: |epoch nanoseconds| <= 8.64e21, which is
// 1e8 days either side of the epoch.
const MaxSeconds = iso.MaxEpochDays * iso.SecondsPerDay

// Instant is an immutable exact time. The zero value is the epoch.
type Instant struct {
	ts duration.TimeSpan
}

// Epoch is 1970-01-01T00:00:00Z.
var Epoch Instant

// FromSpan checks that ts lies in range and wraps it.
func FromSpan(ts duration.TimeSpan) (Instant, error) {
	sec := ts.Seconds()
	if sec > MaxSeconds || sec < -MaxSeconds || (sec == MaxSeconds && ts.Subsec() > 0) || (sec == -MaxSeconds && ts.Subsec() < 0) {
		return Instant{}, failure.Rangef("instant", "instant out of range")
	}
	return Instant{ts: ts}, nil
}

// FromEpochSeconds builds an Instant from seconds and nanoseconds.
func FromEpochSeconds(sec, nsec int64) (Instant, error) {
	ts, err := duration.NewTimeSpan(sec, nsec)
	if err != nil {
		return Instant{}, failure.Rangef("instant", "instant out of range")
	}
	return FromSpan(ts)
}

// FromEpochMilliseconds builds an Instant from milliseconds.
func FromEpochMilliseconds(ms int64) (Instant, error) {
	return FromEpochSeconds(ms/1000, ms%1000*1e6)
}

// FromEpochNanoseconds builds an Instant from a nanosecond count.
func FromEpochNanoseconds(ns *big.Int) (Instant, error) {
	ts, err := duration.FromBig(ns)
	if err != nil {
		return Instant{}, failure.Rangef("instant", "instant out of range")
	}
	return FromSpan(ts)
}

// FromDateTime interprets dt as wall-clock time at the given UTC offset.
func FromDateTime(dt iso.DateTime, offsetNs int64) (Instant, error) {
	sec, nsec := dt.EpochSeconds()
	return FromEpochSeconds(sec-offsetNs/1e9, nsec-offsetNs%1e9)
}

// Span returns the time since the epoch.
func (i Instant) Span() duration.TimeSpan { return i.ts }

// EpochSeconds returns the floor of the seconds since the epoch and the
// non-negative nanosecond remainder.
func (i Instant) EpochSeconds() (sec, nsec int64) {
	sec, nsec = i.ts.Seconds(), i.ts.Subsec()
	if nsec < 0 {
		sec--
		nsec += 1e9
	}
	return sec, nsec
}

// EpochMilliseconds returns the floor of the milliseconds since the epoch.
func (i Instant) EpochMilliseconds() int64 {
	sec, nsec := i.EpochSeconds()
	return sec*1000 + nsec/1e6
}

// EpochNanoseconds returns the exact nanoseconds since the epoch.
func (i Instant) EpochNanoseconds() *big.Int { return i.ts.Big() }

// DateTime returns the wall-clock time at offsetNs from UTC.
func (i Instant) DateTime(offsetNs int64) iso.DateTime {
	sec, nsec := i.EpochSeconds()
	return iso.DateTimeFromEpochSeconds(sec+offsetNs/1e9, nsec+offsetNs%1e9)
}

// Add returns i shifted by ts.
func (i Instant) Add(ts duration.TimeSpan) (Instant, error) {
	sum, err := i.ts.Add(ts)
	if err != nil {
		return Instant{}, err
	}
	return FromSpan(sum)
}

// AddDuration adds a duration made only of hours and smaller units.
func (i Instant) AddDuration(d duration.Duration) (Instant, error) {
	if d.Years() != 0 || d.Months() != 0 || d.Weeks() != 0 || d.Days() != 0 {
		return Instant{}, failure.Rangef("instant.Add", "date units cannot be added to an instant")
	}
	return i.Add(d.TimeSpan())
}

// Compare returns -1, 0 or 1.
func (i Instant) Compare(o Instant) int { return i.ts.Cmp(o.ts) }

// Equal reports whether both denote the same instant.
func (i Instant) Equal(o Instant) bool { return i.ts == o.ts }

// Until returns the time from i to o, rounded and balanced per opts. The
// default largest unit is seconds.
func (i Instant) Until(o Instant, opts duration.RoundingOptions) (duration.Duration, error) {
	return difference(i, o, opts, false)
}

// Since returns the time from o to i.
func (i Instant) Since(o Instant, opts duration.RoundingOptions) (duration.Duration, error) {
	return difference(i, o, opts, true)
}

func difference(i, o Instant, opts duration.RoundingOptions, since bool) (duration.Duration, error) {
	s, err := opts.Difference(duration.TimeUnits, duration.Nanosecond, duration.Second, since)
	if err != nil {
		return duration.Duration{}, err
	}
	ts, err := o.ts.Sub(i.ts)
	if err != nil {
		return duration.Duration{}, err
	}
	ts, err = ts.RoundTo(s.Increment*s.SmallestUnit.Nanoseconds(), s.Mode)
	if err != nil {
		return duration.Duration{}, err
	}
	d, err := duration.Combine(0, 0, 0, 0, ts, s.LargestUnit)
	if err != nil {
		return duration.Duration{}, err
	}
	if since {
		d = d.Negated()
	}
	return d, nil
}

// Round rounds i to a multiple of the smallest unit (hours or smaller)
// counted from the epoch. The increment must divide a 24 hour day.
func (i Instant) Round(opts duration.RoundingOptions) (Instant, error) {
	const op = "instant.Round"
	if opts.SmallestUnit == duration.UnitNone {
		return Instant{}, failure.Typef(op, "smallest unit is required")
	}
	if opts.SmallestUnit > duration.Hour {
		return Instant{}, failure.Rangef(op, "cannot round an instant to %s", opts.SmallestUnit)
	}
	inc := opts.Increment
	if inc == 0 {
		inc = 1
	}
	unit := opts.SmallestUnit.Nanoseconds()
	if err := duration.ValidateIncrement(inc, iso.NanosecondsPerDay/unit, true); err != nil {
		return Instant{}, err
	}
	ts, err := i.ts.RoundTo(inc*unit, opts.Mode.Or(duration.HalfExpand))
	if err != nil {
		return Instant{}, err
	}
	return FromSpan(ts)
}
