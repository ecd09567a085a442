package timezone

import (
	"fmt"

	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/instant"
	"github.com/tzlist/civiltime/iso"
	"github.com/tzlist/civiltime/isostring"
)

// Disambiguation picks an instant for a wall-clock time that a transition
// skips or repeats.
type Disambiguation int

const (
	// Compatible takes the earlier of two instants, and moves a skipped
	// time forward by the length of the gap.
	Compatible Disambiguation = iota
	Earlier
	Later
	// Reject fails with a Range error.
	Reject
)

var disambiguationNames = [...]string{"compatible", "earlier", "later", "reject"}

func (d Disambiguation) String() string {
	if d >= 0 && int(d) < len(disambiguationNames) {
		return disambiguationNames[d]
	}
	return fmt.Sprintf("Disambiguation(%d)", int(d))
}

// ParseDisambiguation reads compatible, earlier, later or reject.
func ParseDisambiguation(s string) (Disambiguation, error) {
	for i, n := range disambiguationNames {
		if n == s {
			return Disambiguation(i), nil
		}
	}
	return Compatible, failure.Rangef("timezone.ParseDisambiguation", "invalid disambiguation %q", s)
}

// OffsetFor returns the offset of tz at i, rejecting an offset of a day or
// more.
func OffsetFor(tz TimeZone, i instant.Instant) (int64, error) {
	off, err := tz.OffsetNanosecondsFor(i)
	if err != nil {
		return 0, err
	}
	if off <= -nsPerDay || off >= nsPerDay {
		return 0, failure.Rangef("timezone.OffsetFor", "zone %s returned offset %d ns", tz.ID(), off)
	}
	return off, nil
}

// PossibleInstants returns the instants at which the wall clock in tz
// reads dt, in order.
func PossibleInstants(tz TimeZone, dt iso.DateTime) ([]instant.Instant, error) {
	const op = "timezone.PossibleInstants"
	offsets, err := tz.PossibleOffsetsFor(dt)
	if err != nil {
		return nil, err
	}
	if len(offsets) > 2 {
		return nil, failure.Rangef(op, "zone %s returned %d offsets", tz.ID(), len(offsets))
	}
	out := make([]instant.Instant, 0, len(offsets))
	for _, off := range offsets {
		if off <= -nsPerDay || off >= nsPerDay {
			return nil, failure.Rangef(op, "zone %s returned offset %d ns", tz.ID(), off)
		}
		i, err := instant.FromDateTime(dt, off)
		if err != nil {
			return nil, failure.Wrap(failure.Range, op, err)
		}
		out = append(out, i)
	}
	return out, nil
}

// InstantFor converts the wall-clock time dt in tz to an instant.
func InstantFor(tz TimeZone, dt iso.DateTime, d Disambiguation) (instant.Instant, error) {
	const op = "timezone.InstantFor"
	possible, err := PossibleInstants(tz, dt)
	if err != nil {
		return instant.Instant{}, err
	}
	if len(possible) == 1 {
		return possible[0], nil
	}
	if len(possible) > 1 {
		switch d {
		case Earlier, Compatible:
			return possible[0], nil
		case Later:
			return possible[len(possible)-1], nil
		}
		return instant.Instant{}, failure.Rangef(op, "%s is ambiguous in %s", isostring.FormatDateTime(dt, isostring.PrecisionAuto), tz.ID())
	}
	if d == Reject {
		return instant.Instant{}, failure.Rangef(op, "%s does not exist in %s", isostring.FormatDateTime(dt, isostring.PrecisionAuto), tz.ID())
	}

	// The gap is as long as the offset change around it.
	dayBefore, err := instant.FromDateTime(iso.AddDateTime(dt, -iso.SecondsPerDay, 0), 0)
	if err != nil {
		return instant.Instant{}, failure.Wrap(failure.Range, op, err)
	}
	dayAfter, err := instant.FromDateTime(iso.AddDateTime(dt, iso.SecondsPerDay, 0), 0)
	if err != nil {
		return instant.Instant{}, failure.Wrap(failure.Range, op, err)
	}
	before, err := OffsetFor(tz, dayBefore)
	if err != nil {
		return instant.Instant{}, err
	}
	after, err := OffsetFor(tz, dayAfter)
	if err != nil {
		return instant.Instant{}, err
	}
	gap := after - before

	if d == Earlier {
		possible, err = PossibleInstants(tz, iso.AddDateTime(dt, 0, -gap))
		if err != nil {
			return instant.Instant{}, err
		}
		if len(possible) == 0 {
			return instant.Instant{}, failure.Rangef(op, "no instant for %s in %s", isostring.FormatDateTime(dt, isostring.PrecisionAuto), tz.ID())
		}
		return possible[0], nil
	}
	possible, err = PossibleInstants(tz, iso.AddDateTime(dt, 0, gap))
	if err != nil {
		return instant.Instant{}, err
	}
	if len(possible) == 0 {
		return instant.Instant{}, failure.Rangef(op, "no instant for %s in %s", isostring.FormatDateTime(dt, isostring.PrecisionAuto), tz.ID())
	}
	return possible[len(possible)-1], nil
}

// StartOfDay returns the first instant of date in tz. When midnight is
// skipped, that is the transition ending the gap.
func StartOfDay(tz TimeZone, date iso.Date) (instant.Instant, error) {
	const op = "timezone.StartOfDay"
	dt := iso.DateTime{Date: date, Time: iso.Midnight}
	possible, err := PossibleInstants(tz, dt)
	if err != nil {
		return instant.Instant{}, err
	}
	if len(possible) > 0 {
		return possible[0], nil
	}
	dayBefore, err := instant.FromDateTime(iso.AddDateTime(dt, -iso.SecondsPerDay, 0), 0)
	if err != nil {
		return instant.Instant{}, failure.Wrap(failure.Range, op, err)
	}
	next, ok := tz.NextTransition(dayBefore)
	if !ok {
		return instant.Instant{}, failure.Rangef(op, "no start of day for %s in %s", isostring.FormatDate(date), tz.ID())
	}
	return next, nil
}
