// Package timezone maps instants to UTC offsets and wall-clock date-times
// back to instants.
//
// A TimeZone is either a fixed offset or a named zone backed by a TZif
// transition table (with its POSIX TZ footer) or by a POSIX TZ rule alone.
// All zones are immutable; a Database of named zones is loaded once and
// only read afterwards.
package timezone

import (
	"slices"

	"golang.org/x/text/cases"

	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/instant"
	"github.com/tzlist/civiltime/iso"
	"github.com/tzlist/civiltime/isostring"
	"github.com/tzlist/civiltime/posix/tzposix"
	"github.com/tzlist/civiltime/rfc9636"
)

// TimeZone is the contract every zone satisfies. Offsets are nanoseconds
// east of UTC.
type TimeZone interface {
	ID() string

	OffsetNanosecondsFor(i instant.Instant) (int64, error)

	// PossibleOffsetsFor returns no offset for a wall-clock time skipped
	// by a transition, two for a repeated one, and one otherwise. Several
	// offsets are ordered by the instant they produce.
	PossibleOffsetsFor(dt iso.DateTime) ([]int64, error)

	// NextTransition and PreviousTransition report the nearest instant
	// strictly after (before) i at which the offset changes.
	NextTransition(i instant.Instant) (instant.Instant, bool)
	PreviousTransition(i instant.Instant) (instant.Instant, bool)
}

const nsPerDay = iso.NanosecondsPerDay

// Fixed is a zone with a constant offset.
type Fixed struct {
	id     string
	offset int64
}

// UTC is the zone with offset zero.
var UTC = &Fixed{id: "UTC"}

// NewFixed returns the zone for offsetNs, which must be below 24 hours in
// magnitude. Its id is the offset written as ±HH:MM.
func NewFixed(offsetNs int64) (*Fixed, error) {
	if offsetNs <= -nsPerDay || offsetNs >= nsPerDay {
		return nil, failure.Rangef("timezone.NewFixed", "offset %d ns out of range", offsetNs)
	}
	return &Fixed{id: isostring.FormatOffset(offsetNs), offset: offsetNs}, nil
}

func (f *Fixed) ID() string { return f.id }

// Offset returns the offset in nanoseconds.
func (f *Fixed) Offset() int64 { return f.offset }

func (f *Fixed) OffsetNanosecondsFor(instant.Instant) (int64, error) { return f.offset, nil }

func (f *Fixed) PossibleOffsetsFor(iso.DateTime) ([]int64, error) { return []int64{f.offset}, nil }

func (f *Fixed) NextTransition(instant.Instant) (instant.Instant, bool) {
	return instant.Instant{}, false
}

func (f *Fixed) PreviousTransition(instant.Instant) (instant.Instant, bool) {
	return instant.Instant{}, false
}

// table is the offset data behind a named zone, in Unix seconds.
type table interface {
	offsetAt(sec int64) int
	next(sec int64) (int64, bool)
	previous(sec int64) (int64, bool)
}

type locationTable struct{ l *rfc9636.Location }

func (t locationTable) offsetAt(sec int64) int            { return t.l.Lookup(sec).Offset }
func (t locationTable) next(sec int64) (int64, bool)     { return t.l.NextTransition(sec) }
func (t locationTable) previous(sec int64) (int64, bool) { return t.l.PreviousTransition(sec) }

type ruleTable struct{ r *tzposix.Rule }

func (t ruleTable) offsetAt(sec int64) int { return t.r.Lookup(sec).Offset }

func (t ruleTable) next(sec int64) (int64, bool) {
	c, ok := t.r.Next(sec)
	return c.At, ok
}

func (t ruleTable) previous(sec int64) (int64, bool) {
	c, ok := t.r.Previous(sec)
	return c.At, ok
}

// Zone is a named zone.
type Zone struct {
	id        string
	canonical string
	loc       *rfc9636.Location
	tab       table
}

// NewZone wraps a loaded TZif location. The zone id is the location name.
func NewZone(loc *rfc9636.Location) *Zone {
	return &Zone{id: loc.Name(), canonical: loc.Name(), loc: loc, tab: locationTable{loc}}
}

// FromPOSIX builds a zone named id from a POSIX TZ string such as
// "EST5EDT,M3.2.0,M11.1.0".
func FromPOSIX(id, posixTZ string) (*Zone, error) {
	r, err := tzposix.Parse(posixTZ)
	if err != nil {
		return nil, failure.Wrap(failure.Range, "timezone.FromPOSIX", err)
	}
	return &Zone{id: id, canonical: id, tab: ruleTable{r}}, nil
}

func (z *Zone) ID() string { return z.id }

// Canonical returns the id of the zone z is a link to, or its own id.
func (z *Zone) Canonical() string { return z.canonical }

// Location returns the TZif data, or nil for a zone built from a rule.
func (z *Zone) Location() *rfc9636.Location { return z.loc }

func (z *Zone) OffsetNanosecondsFor(i instant.Instant) (int64, error) {
	sec, _ := i.EpochSeconds()
	return int64(z.tab.offsetAt(sec)) * 1e9, nil
}

func (z *Zone) PossibleOffsetsFor(dt iso.DateTime) ([]int64, error) {
	if !iso.DateTimeWithinLimits(dt) {
		return nil, failure.Rangef("timezone.PossibleOffsetsFor", "date-time %s out of range", isostring.FormatDateTime(dt, isostring.PrecisionAuto))
	}
	local, _ := dt.EpochSeconds()

	// Every offset in use within a day either side is a candidate.
	candidates := []int{z.tab.offsetAt(local - iso.SecondsPerDay)}
	for at, ok := z.tab.next(local - iso.SecondsPerDay); ok && at <= local+iso.SecondsPerDay; at, ok = z.tab.next(at) {
		candidates = append(candidates, z.tab.offsetAt(at))
	}

	var out []int64
	for _, off := range candidates {
		if z.tab.offsetAt(local-int64(off)) != off {
			continue
		}
		ns := int64(off) * 1e9
		if !slices.Contains(out, ns) {
			out = append(out, ns)
		}
	}
	// Earlier instants have larger offsets.
	slices.SortFunc(out, func(a, b int64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})
	return out, nil
}

func (z *Zone) NextTransition(i instant.Instant) (instant.Instant, bool) {
	sec, _ := i.EpochSeconds()
	at, ok := z.tab.next(sec)
	if !ok {
		return instant.Instant{}, false
	}
	return transitionInstant(at)
}

func (z *Zone) PreviousTransition(i instant.Instant) (instant.Instant, bool) {
	sec, nsec := i.EpochSeconds()
	if nsec > 0 {
		sec++
	}
	at, ok := z.tab.previous(sec)
	if !ok {
		return instant.Instant{}, false
	}
	return transitionInstant(at)
}

func transitionInstant(sec int64) (instant.Instant, bool) {
	i, err := instant.FromEpochSeconds(sec, 0)
	return i, err == nil
}

// Equal reports whether a and b are the same zone: equal ids, ignoring
// case, after following links.
func Equal(a, b TimeZone) bool {
	if a == b {
		return true
	}
	return cases.Fold().String(canonicalID(a)) == cases.Fold().String(canonicalID(b))
}

func canonicalID(tz TimeZone) string {
	if z, ok := tz.(*Zone); ok {
		return z.canonical
	}
	return tz.ID()
}
