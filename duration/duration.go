// Package duration implements the ten-field Duration value, its units and
// rounding modes, and TimeSpan, the exact normalized form of its time part.
package duration

import (
	"math/big"

	"github.com/tzlist/civiltime/failure"
)

// Fields is the plain record form of a Duration.
type Fields struct {
	Years        int64
	Months       int64
	Weeks        int64
	Days         int64
	Hours        int64
	Minutes      int64
	Seconds      int64
	Milliseconds int64
	Microseconds int64
	Nanoseconds  int64
}

// Get returns the field for unit u.
func (f *Fields) Get(u Unit) int64 {
	if p := f.ptr(u); p != nil {
		return *p
	}
	return 0
}

// Set assigns the field for unit u.
func (f *Fields) Set(u Unit, v int64) {
	if p := f.ptr(u); p != nil {
		*p = v
	}
}

func (f *Fields) ptr(u Unit) *int64 {
	switch u {
	case Year:
		return &f.Years
	case Month:
		return &f.Months
	case Week:
		return &f.Weeks
	case Day:
		return &f.Days
	case Hour:
		return &f.Hours
	case Minute:
		return &f.Minutes
	case Second:
		return &f.Seconds
	case Millisecond:
		return &f.Milliseconds
	case Microsecond:
		return &f.Microseconds
	case Nanosecond:
		return &f.Nanoseconds
	}
	return nil
}

// Duration is an immutable signed amount of years through nanoseconds.
// All nonzero fields share one sign.
type Duration struct {
	f Fields
}

// Zero is the empty duration.
var Zero Duration

var (
	calendarFieldLimit = int64(1) << 32
	maxTotalNs         = new(big.Int).Mul(big.NewInt(1<<53), bigBillion)
)

// New builds a Duration from its ten fields.
func New(years, months, weeks, days, hours, minutes, seconds, milliseconds, microseconds, nanoseconds int64) (Duration, error) {
	return FromFields(Fields{years, months, weeks, days, hours, minutes, seconds, milliseconds, microseconds, nanoseconds})
}

// FromFields validates f and wraps it.
func FromFields(f Fields) (Duration, error) {
	if err := validate(f); err != nil {
		return Duration{}, err
	}
	return Duration{f: f}, nil
}

// MustNew is New for literals known to be valid.
func MustNew(years, months, weeks, days, hours, minutes, seconds, milliseconds, microseconds, nanoseconds int64) Duration {
	d, err := New(years, months, weeks, days, hours, minutes, seconds, milliseconds, microseconds, nanoseconds)
	if err != nil {
		panic(err)
	}
	return d
}

func validate(f Fields) error {
	const op = "duration.New"
	sign := 0
	for u := Nanosecond; u <= Year; u++ {
		v := f.Get(u)
		if v == 0 {
			continue
		}
		s := 1
		if v < 0 {
			s = -1
		}
		if sign != 0 && s != sign {
			return failure.Rangef(op, "mixed-sign duration fields")
		}
		sign = s
	}
	for _, v := range [...]int64{f.Years, f.Months, f.Weeks} {
		if v >= calendarFieldLimit || v <= -calendarFieldLimit {
			return failure.Rangef(op, "calendar field %d out of range", v)
		}
	}
	total := new(big.Int).Mul(big.NewInt(f.Days), big.NewInt(86400e9))
	for _, p := range [...]struct{ v, mul int64 }{
		{f.Hours, 3600e9}, {f.Minutes, 60e9}, {f.Seconds, 1e9},
		{f.Milliseconds, 1e6}, {f.Microseconds, 1e3}, {f.Nanoseconds, 1},
	} {
		total.Add(total, new(big.Int).Mul(big.NewInt(p.v), big.NewInt(p.mul)))
	}
	if total.Abs(total).Cmp(maxTotalNs) >= 0 {
		return failure.Rangef(op, "duration time fields exceed 2^53 seconds")
	}
	return nil
}

func (d Duration) Years() int64        { return d.f.Years }
func (d Duration) Months() int64       { return d.f.Months }
func (d Duration) Weeks() int64        { return d.f.Weeks }
func (d Duration) Days() int64         { return d.f.Days }
func (d Duration) Hours() int64        { return d.f.Hours }
func (d Duration) Minutes() int64      { return d.f.Minutes }
func (d Duration) Seconds() int64      { return d.f.Seconds }
func (d Duration) Milliseconds() int64 { return d.f.Milliseconds }
func (d Duration) Microseconds() int64 { return d.f.Microseconds }
func (d Duration) Nanoseconds() int64  { return d.f.Nanoseconds }

// Get returns the field for unit u.
func (d Duration) Get(u Unit) int64 { return d.f.Get(u) }

// Fields returns a copy of the fields.
func (d Duration) Fields() Fields { return d.f }

// With returns d with the field for unit u replaced.
func (d Duration) With(u Unit, v int64) (Duration, error) {
	f := d.f
	f.Set(u, v)
	return FromFields(f)
}

// Sign returns -1, 0 or 1.
func (d Duration) Sign() int {
	for u := Year; u >= Nanosecond; u-- {
		switch v := d.f.Get(u); {
		case v < 0:
			return -1
		case v > 0:
			return 1
		}
	}
	return 0
}

// IsZero reports whether every field is zero.
func (d Duration) IsZero() bool { return d.f == Fields{} }

// Negated returns -d.
func (d Duration) Negated() Duration {
	var f Fields
	for u := Nanosecond; u <= Year; u++ {
		f.Set(u, -d.f.Get(u))
	}
	return Duration{f: f}
}

// Abs returns |d|.
func (d Duration) Abs() Duration {
	if d.Sign() < 0 {
		return d.Negated()
	}
	return d
}

// DefaultLargestUnit returns the largest unit with a nonzero field, or
// Nanosecond for the zero duration.
func (d Duration) DefaultLargestUnit() Unit {
	for u := Year; u > Nanosecond; u-- {
		if d.f.Get(u) != 0 {
			return u
		}
	}
	return Nanosecond
}

// DateOnly returns the years, months, weeks and days of d.
func (d Duration) DateOnly() Duration {
	return Duration{f: Fields{Years: d.f.Years, Months: d.f.Months, Weeks: d.f.Weeks, Days: d.f.Days}}
}

// TimeSpan returns the hours through nanoseconds of d as one exact span.
func (d Duration) TimeSpan() TimeSpan {
	// Construction bounds the time fields well inside the span range.
	ts, _ := FromComponents(d.f.Hours, d.f.Minutes, d.f.Seconds, d.f.Milliseconds, d.f.Microseconds, d.f.Nanoseconds)
	return ts
}

// DaySpan returns the days through nanoseconds of d, counting days as 24
// hours.
func (d Duration) DaySpan() TimeSpan {
	ts, _ := d.TimeSpan().AddDays(d.f.Days)
	return ts
}

// BalanceTimeSpan spreads ts over the fields from largest down to
// nanoseconds. Units above Day are treated as Day. A field that does not
// fit in int64 is a Range error.
func BalanceTimeSpan(ts TimeSpan, largest Unit) (Fields, error) {
	if largest > Day {
		largest = Day
	}
	if largest < Nanosecond {
		largest = Nanosecond
	}
	var f Fields
	n := ts.Big()
	for u := largest; u > Nanosecond; u-- {
		q, r := new(big.Int).QuoRem(n, big.NewInt(u.Nanoseconds()), new(big.Int))
		if !q.IsInt64() {
			return Fields{}, failure.Rangef("duration.Balance", "%s out of range", u.Plural())
		}
		f.Set(u, q.Int64())
		n = r
	}
	if !n.IsInt64() {
		return Fields{}, failure.Rangef("duration.Balance", "nanoseconds out of range")
	}
	f.Nanoseconds = n.Int64()
	return f, nil
}

// Combine builds a Duration from date fields and a time span balanced up
// to largest. When largest is days or larger the span contributes whole
// days to the day field.
func Combine(years, months, weeks, days int64, ts TimeSpan, largest Unit) (Duration, error) {
	f, err := BalanceTimeSpan(ts, largest)
	if err != nil {
		return Duration{}, err
	}
	f.Years, f.Months, f.Weeks = years, months, weeks
	d, ok := addChecked(f.Days, days)
	if !ok {
		return Duration{}, failure.Rangef("duration.Combine", "days out of range")
	}
	f.Days = d
	return FromFields(f)
}
