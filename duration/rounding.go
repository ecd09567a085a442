package duration

import (
	"math/big"

	"github.com/tzlist/civiltime/failure"
)

// RoundingMode selects how a value between two multiples of an increment
// is resolved. The zero value means "not specified".
type RoundingMode int

const (
	ModeUnset RoundingMode = iota
	Ceil
	Floor
	Expand
	Trunc
	HalfCeil
	HalfFloor
	HalfExpand
	HalfTrunc
	HalfEven
)

var modeNames = [...]string{
	ModeUnset:  "",
	Ceil:       "ceil",
	Floor:      "floor",
	Expand:     "expand",
	Trunc:      "trunc",
	HalfCeil:   "halfCeil",
	HalfFloor:  "halfFloor",
	HalfExpand: "halfExpand",
	HalfTrunc:  "halfTrunc",
	HalfEven:   "halfEven",
}

func (m RoundingMode) String() string {
	if m < ModeUnset || m > HalfEven {
		return "mode(?)"
	}
	return modeNames[m]
}

// ParseRoundingMode accepts the camel-case mode names.
func ParseRoundingMode(s string) (RoundingMode, error) {
	for m := Ceil; m <= HalfEven; m++ {
		if modeNames[m] == s {
			return m, nil
		}
	}
	return ModeUnset, failure.Rangef("duration.ParseRoundingMode", "invalid rounding mode %q", s)
}

// Or returns m, or def when m is unset.
func (m RoundingMode) Or(def RoundingMode) RoundingMode {
	if m == ModeUnset {
		return def
	}
	return m
}

// Negate swaps the direction of the directional modes, for computing a
// difference in the opposite direction.
func (m RoundingMode) Negate() RoundingMode {
	switch m {
	case Ceil:
		return Floor
	case Floor:
		return Ceil
	case HalfCeil:
		return HalfFloor
	case HalfFloor:
		return HalfCeil
	}
	return m
}

type unsignedMode int

const (
	toZero unsignedMode = iota
	toInfinity
	halfToZero
	halfToInfinity
	halfToEven
)

func (m RoundingMode) unsigned(negative bool) unsignedMode {
	switch m {
	case Ceil:
		if negative {
			return toZero
		}
		return toInfinity
	case Floor:
		if negative {
			return toInfinity
		}
		return toZero
	case Expand:
		return toInfinity
	case HalfCeil:
		if negative {
			return halfToZero
		}
		return halfToInfinity
	case HalfFloor:
		if negative {
			return halfToInfinity
		}
		return halfToZero
	case HalfExpand:
		return halfToInfinity
	case HalfTrunc:
		return halfToZero
	case HalfEven:
		return halfToEven
	}
	return toZero
}

var half = big.NewRat(1, 2)

// RoundsAway decides between two candidate magnitudes r1 < r2 for a value
// that lies frac of the way from r1 to r2, with 0 <= frac < 1. negative is
// the sign of the value being rounded; r1Even reports whether r1 (as a
// count of increments) is even. It returns true when r2 is chosen.
func (m RoundingMode) RoundsAway(negative bool, frac *big.Rat, r1Even bool) bool {
	if frac.Sign() == 0 {
		return false
	}
	um := m.unsigned(negative)
	switch um {
	case toZero:
		return false
	case toInfinity:
		return true
	}
	switch c := frac.Cmp(half); {
	case c < 0:
		return false
	case c > 0:
		return true
	}
	switch um {
	case halfToInfinity:
		return true
	case halfToEven:
		return !r1Even
	}
	return false
}

// RoundBig rounds x to a multiple of increment (> 0).
func RoundBig(x, increment *big.Int, mode RoundingMode) *big.Int {
	q, r := new(big.Int).QuoRem(x, increment, new(big.Int))
	if r.Sign() == 0 {
		return new(big.Int).Set(x)
	}
	negative := x.Sign() < 0
	q.Abs(q)
	frac := new(big.Rat).SetFrac(new(big.Int).Abs(r), increment)
	if mode.RoundsAway(negative, frac, q.Bit(0) == 0) {
		q.Add(q, big.NewInt(1))
	}
	if negative {
		q.Neg(q)
	}
	return q.Mul(q, increment)
}

// RoundInt rounds x to a multiple of increment (> 0).
func RoundInt(x, increment int64, mode RoundingMode) int64 {
	return RoundBig(big.NewInt(x), big.NewInt(increment), mode).Int64()
}
