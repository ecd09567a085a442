package duration

import (
	"math/big"

	"github.com/tzlist/civiltime/failure"
)

// MaxSpanSeconds bounds the magnitude of a TimeSpan: the whole seconds
// must stay below 2^53.
const MaxSpanSeconds = 1<<53 - 1

// TimeSpan is an exact signed amount of time: whole seconds plus a
// nanosecond fraction carrying the same sign. It is the single currency of
// every sub-day computation and never loses precision.
type TimeSpan struct {
	sec  int64
	nsec int32
}

var (
	bigBillion = big.NewInt(1e9)
	maxSpanNs  = new(big.Int).Sub(new(big.Int).Mul(big.NewInt(MaxSpanSeconds+1), bigBillion), big.NewInt(1))
)

// NewTimeSpan normalizes sec and nsec into a TimeSpan.
func NewTimeSpan(sec, nsec int64) (TimeSpan, error) {
	sec, ok := addChecked(sec, nsec/1e9)
	nsec %= 1e9
	if !ok {
		return TimeSpan{}, errSpanRange()
	}
	if sec > 0 && nsec < 0 {
		sec--
		nsec += 1e9
	} else if sec < 0 && nsec > 0 {
		sec++
		nsec -= 1e9
	}
	if sec > MaxSpanSeconds || sec < -MaxSpanSeconds {
		return TimeSpan{}, errSpanRange()
	}
	return TimeSpan{sec: sec, nsec: int32(nsec)}, nil
}

// MustTimeSpan is NewTimeSpan for values known to be in range.
func MustTimeSpan(sec, nsec int64) TimeSpan {
	ts, err := NewTimeSpan(sec, nsec)
	if err != nil {
		panic(err)
	}
	return ts
}

// FromBig converts a nanosecond count.
func FromBig(ns *big.Int) (TimeSpan, error) {
	if new(big.Int).Abs(ns).Cmp(maxSpanNs) > 0 {
		return TimeSpan{}, errSpanRange()
	}
	q, r := new(big.Int).QuoRem(ns, bigBillion, new(big.Int))
	return TimeSpan{sec: q.Int64(), nsec: int32(r.Int64())}, nil
}

// FromComponents sums the time fields of a duration exactly.
func FromComponents(hours, minutes, seconds, milliseconds, microseconds, nanoseconds int64) (TimeSpan, error) {
	ns := big.NewInt(nanoseconds)
	for _, p := range [...]struct{ v, mul int64 }{
		{hours, 3600e9}, {minutes, 60e9}, {seconds, 1e9}, {milliseconds, 1e6}, {microseconds, 1e3},
	} {
		ns.Add(ns, new(big.Int).Mul(big.NewInt(p.v), big.NewInt(p.mul)))
	}
	return FromBig(ns)
}

// Seconds returns the whole seconds.
func (t TimeSpan) Seconds() int64 { return t.sec }

// Subsec returns the nanosecond fraction, with the sign of the span.
func (t TimeSpan) Subsec() int64 { return int64(t.nsec) }

// Big returns the span in nanoseconds.
func (t TimeSpan) Big() *big.Int {
	ns := new(big.Int).Mul(big.NewInt(t.sec), bigBillion)
	return ns.Add(ns, big.NewInt(int64(t.nsec)))
}

// Int64 returns the span in nanoseconds and whether it fits.
func (t TimeSpan) Int64() (int64, bool) {
	b := t.Big()
	return b.Int64(), b.IsInt64()
}

// Sign returns -1, 0 or 1.
func (t TimeSpan) Sign() int {
	switch {
	case t.sec < 0 || t.nsec < 0:
		return -1
	case t.sec > 0 || t.nsec > 0:
		return 1
	}
	return 0
}

// IsZero reports whether the span is empty.
func (t TimeSpan) IsZero() bool { return t.sec == 0 && t.nsec == 0 }

// Neg returns -t.
func (t TimeSpan) Neg() TimeSpan { return TimeSpan{-t.sec, -t.nsec} }

// Abs returns |t|.
func (t TimeSpan) Abs() TimeSpan {
	if t.Sign() < 0 {
		return t.Neg()
	}
	return t
}

// Cmp compares two spans.
func (t TimeSpan) Cmp(o TimeSpan) int {
	switch {
	case t.sec < o.sec:
		return -1
	case t.sec > o.sec:
		return 1
	case t.nsec < o.nsec:
		return -1
	case t.nsec > o.nsec:
		return 1
	}
	return 0
}

// Add returns t + o.
func (t TimeSpan) Add(o TimeSpan) (TimeSpan, error) {
	return NewTimeSpan(t.sec+o.sec, int64(t.nsec)+int64(o.nsec))
}

// Sub returns t - o.
func (t TimeSpan) Sub(o TimeSpan) (TimeSpan, error) {
	return t.Add(o.Neg())
}

// AddDays adds n days of 24 hours.
func (t TimeSpan) AddDays(n int64) (TimeSpan, error) {
	if n > MaxSpanSeconds/86400 || n < -MaxSpanSeconds/86400 {
		return TimeSpan{}, errSpanRange()
	}
	return NewTimeSpan(t.sec+n*86400, int64(t.nsec))
}

// TruncDays splits off the whole 24 hour days, returning them and the
// remainder (which keeps the sign of t).
func (t TimeSpan) TruncDays() (int64, TimeSpan) {
	days := t.sec / 86400
	return days, TimeSpan{sec: t.sec % 86400, nsec: t.nsec}
}

// RoundTo rounds t to a multiple of increment nanoseconds.
func (t TimeSpan) RoundTo(increment int64, mode RoundingMode) (TimeSpan, error) {
	return FromBig(RoundBig(t.Big(), big.NewInt(increment), mode))
}

// Ratio returns t / unit as an exact fraction.
func (t TimeSpan) Ratio(unit TimeSpan) *big.Rat {
	return new(big.Rat).SetFrac(t.Big(), unit.Big())
}

// Total returns t divided by a unit of unitNs nanoseconds.
func (t TimeSpan) Total(unitNs int64) *big.Rat {
	return new(big.Rat).SetFrac(t.Big(), big.NewInt(unitNs))
}

// DivUnit divides t by a unit of unitNs nanoseconds, truncating toward
// zero, and returns the quotient and remainder.
func (t TimeSpan) DivUnit(unitNs int64) (*big.Int, TimeSpan) {
	q, r := new(big.Int).QuoRem(t.Big(), big.NewInt(unitNs), new(big.Int))
	rem, _ := FromBig(r)
	return q, rem
}

func addChecked(a, b int64) (int64, bool) {
	c := a + b
	if (c > a) != (b > 0) {
		return c, false
	}
	return c, true
}

func errSpanRange() error {
	return failure.Rangef("duration.TimeSpan", "time span exceeds 2^53 seconds")
}
