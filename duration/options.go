package duration

import (
	"github.com/tzlist/civiltime/failure"
)

// RoundingOptions carries the unit and rounding settings shared by the
// difference and round operations. Zero values mean "use the default".
type RoundingOptions struct {
	LargestUnit  Unit
	SmallestUnit Unit
	Increment    int64
	Mode         RoundingMode
}

// UnitRange is the span of units an operation accepts.
type UnitRange struct {
	Min, Max Unit
}

var (
	TimeUnits     = UnitRange{Nanosecond, Hour}
	DateUnits     = UnitRange{Day, Year}
	DateTimeUnits = UnitRange{Nanosecond, Year}
)

func (r UnitRange) contains(u Unit) bool {
	return u >= r.Min && u <= r.Max
}

// Difference resolves o for a since/until operation. defSmallest and
// defLargest are the operation's defaults; the resolved largest unit is
// never smaller than the smallest one. For since, the rounding mode is
// negated because the difference is computed in the opposite direction.
func (o RoundingOptions) Difference(units UnitRange, defSmallest, defLargest Unit, since bool) (RoundingOptions, error) {
	const op = "duration.Difference"
	if o.LargestUnit != UnitNone && !units.contains(o.LargestUnit) {
		return o, failure.Rangef(op, "largest unit %s not allowed", o.LargestUnit)
	}
	if o.SmallestUnit != UnitNone && !units.contains(o.SmallestUnit) {
		return o, failure.Rangef(op, "smallest unit %s not allowed", o.SmallestUnit)
	}
	r := o
	if r.SmallestUnit == UnitNone {
		r.SmallestUnit = defSmallest
	}
	if r.LargestUnit == UnitNone {
		r.LargestUnit = LargerOf(defLargest, r.SmallestUnit)
	}
	if r.LargestUnit < r.SmallestUnit {
		return o, failure.Rangef(op, "largest unit %s smaller than smallest unit %s", r.LargestUnit, r.SmallestUnit)
	}
	if r.Increment == 0 {
		r.Increment = 1
	}
	if err := ValidateIncrement(r.Increment, MaximumIncrement(r.SmallestUnit), false); err != nil {
		return o, err
	}
	r.Mode = r.Mode.Or(Trunc)
	if since {
		r.Mode = r.Mode.Negate()
	}
	return r, nil
}

// Round resolves o for rounding a civil or exact value to SmallestUnit,
// which is required. maxUnit is the largest unit the value may round to.
// Day rounding allows only an increment of 1; time units must divide the
// next larger unit.
func (o RoundingOptions) Round(maxUnit Unit) (RoundingOptions, error) {
	const op = "duration.Round"
	if o.SmallestUnit == UnitNone {
		return o, failure.Typef(op, "smallest unit is required")
	}
	if o.SmallestUnit > maxUnit {
		return o, failure.Rangef(op, "cannot round to %s", o.SmallestUnit)
	}
	r := o
	if r.Increment == 0 {
		r.Increment = 1
	}
	r.Mode = r.Mode.Or(HalfExpand)
	var err error
	if r.SmallestUnit == Day {
		err = ValidateIncrement(r.Increment, 1, true)
	} else {
		err = ValidateIncrement(r.Increment, MaximumIncrement(r.SmallestUnit), false)
	}
	if err != nil {
		return o, err
	}
	return r, nil
}
