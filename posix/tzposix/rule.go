package tzposix

import (
	"slices"
	"strconv"
	"strings"

	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/iso"
)

// TransitionKind says how the day of a Transition is written.
type TransitionKind int

const (
	// JulianDay is "Jn": day 1..365, February 29 is never counted.
	JulianDay TransitionKind = iota
	// ZeroBasedDay is "n": day 0..365, counting February 29 in leap years.
	ZeroBasedDay
	// MonthWeekDay is "Mm.w.d": weekday d of week w (5 means last) of month m.
	MonthWeekDay
)

// defaultRuleTime is the local time of a change when the rule omits it.
const defaultRuleTime = 2 * 60 * 60

// maxRuleTime bounds the time of day of a change, in seconds.
const maxRuleTime = 167 * 60 * 60

// Transition is one of the two yearly changes of a POSIX TZ rule.
type Transition struct {
	Kind  TransitionKind
	Day   int // day of year for JulianDay/ZeroBasedDay, weekday 0..6 for MonthWeekDay
	Week  int
	Month int
	Time  int // seconds after local midnight, may be negative or exceed a day
}

// Zone is a named offset in effect for part of a year.
type Zone struct {
	Name   string
	Offset int // seconds east of UTC
	IsDST  bool
}

// Change is the instant a Zone takes effect.
type Change struct {
	At int64 // Unix seconds
	Zone
}

// Rule is a parsed POSIX TZ string such as "CET-1CEST,M3.5.0,M10.5.0/3".
// Offsets are stored east of UTC, the reverse of the POSIX notation.
type Rule struct {
	Source string
	Std    Zone
	Dst    Zone // zero when the rule has no daylight time
	Start  Transition
	End    Transition
}

var defaultStart = Transition{Kind: MonthWeekDay, Month: 3, Week: 2, Day: 0, Time: defaultRuleTime}
var defaultEnd = Transition{Kind: MonthWeekDay, Month: 11, Week: 1, Day: 0, Time: defaultRuleTime}

// Parse reads a POSIX TZ string. A daylight name without rules uses the US
// rules M3.2.0,M11.1.0, and a missing daylight offset is one hour ahead of
// standard time.
func Parse(posixTZ string) (*Rule, error) {
	const op = "tzposix.Parse"
	m := tzRegex.FindStringSubmatch(posixTZ)
	if m == nil {
		return nil, failure.Rangef(op, "invalid POSIX TZ string format: %s", posixTZ)
	}
	stdAbbr, stdOffsetStr, dstAbbr, dstOffsetStr, startRule, endRule := m[1], m[2], m[3], m[4], m[5], m[6]

	west, err := parseOffset(stdOffsetStr)
	if err != nil {
		return nil, failure.Rangef(op, "invalid standard offset in %s: %v", posixTZ, err)
	}
	r := &Rule{Source: posixTZ, Std: Zone{Name: unquote(stdAbbr), Offset: -west}}
	if dstAbbr == "" {
		if startRule != "" || endRule != "" {
			return nil, failure.Rangef(op, "rules without a daylight name in %s", posixTZ)
		}
		return r, nil
	}

	r.Dst = Zone{Name: unquote(dstAbbr), Offset: r.Std.Offset + 3600, IsDST: true}
	if dstOffsetStr != "" {
		west, err := parseOffset(dstOffsetStr)
		if err != nil {
			return nil, failure.Rangef(op, "invalid daylight offset in %s: %v", posixTZ, err)
		}
		r.Dst.Offset = -west
	}

	switch {
	case startRule == "" && endRule == "":
		r.Start, r.End = defaultStart, defaultEnd
	case startRule == "" || endRule == "":
		return nil, failure.Rangef(op, "stand alone rule in %s", posixTZ)
	default:
		if r.Start, err = parseTransition(startRule); err != nil {
			return nil, failure.Wrap(failure.Range, op, err)
		}
		if r.End, err = parseTransition(endRule); err != nil {
			return nil, failure.Wrap(failure.Range, op, err)
		}
	}
	return r, nil
}

func unquote(name string) string {
	if strings.HasPrefix(name, "<") && strings.HasSuffix(name, ">") {
		return name[1 : len(name)-1]
	}
	return name
}

// parseTransition reads "Jn", "n" or "Mm.w.d", each with an optional
// "/time" suffix.
func parseTransition(s string) (Transition, error) {
	const op = "tzposix.parseTransition"
	var t Transition
	spec, at, hasTime := strings.Cut(s, "/")

	num := func(str string, lo, hi int) (int, error) {
		n, err := strconv.Atoi(str)
		if err != nil || n < lo || n > hi {
			return 0, failure.Rangef(op, "bad field %q in rule %q", str, s)
		}
		return n, nil
	}

	var err error
	switch {
	case strings.HasPrefix(spec, "J"):
		t.Kind = JulianDay
		if t.Day, err = num(spec[1:], 1, 365); err != nil {
			return t, err
		}
	case strings.HasPrefix(spec, "M"):
		t.Kind = MonthWeekDay
		parts := strings.Split(spec[1:], ".")
		if len(parts) != 3 {
			return t, failure.Rangef(op, "bad month rule %q", s)
		}
		if t.Month, err = num(parts[0], 1, 12); err != nil {
			return t, err
		}
		if t.Week, err = num(parts[1], 1, 5); err != nil {
			return t, err
		}
		if t.Day, err = num(parts[2], 0, 6); err != nil {
			return t, err
		}
	default:
		t.Kind = ZeroBasedDay
		if t.Day, err = num(spec, 0, 365); err != nil {
			return t, err
		}
	}

	t.Time = defaultRuleTime
	if hasTime {
		// parseOffset reads the same [+-]hh[:mm[:ss]] shape; the sign is not inverted here.
		west, err := parseOffset(at)
		if err != nil || west < -maxRuleTime || west > maxRuleTime {
			return t, failure.Rangef(op, "bad time in rule %q", s)
		}
		t.Time = west
	}
	return t, nil
}

// dayOfYear returns the zero-based day of year on which t falls in year.
func (t Transition) dayOfYear(year int) int {
	switch t.Kind {
	case JulianDay:
		d := t.Day - 1
		if iso.IsLeapYear(year) && t.Day >= 60 {
			d++
		}
		return d
	case ZeroBasedDay:
		return t.Day
	}
	first := iso.Date{Year: year, Month: t.Month, Day: 1}
	d := t.Day - first.DayOfWeek()%7
	if d < 0 {
		d += 7
	}
	for i := 1; i < t.Week; i++ {
		if d+7 >= iso.DaysInMonth(year, t.Month) {
			break
		}
		d += 7
	}
	return first.DayOfYear() - 1 + d
}

// At returns the Unix second at which t happens in year, for a clock
// running at offset seconds east of UTC.
func (t Transition) At(year, offset int) int64 {
	start := iso.EpochDays(year, 1, 1) * iso.SecondsPerDay
	return start + int64(t.dayOfYear(year))*iso.SecondsPerDay + int64(t.Time) - int64(offset)
}

// HasDST reports whether the rule ever changes offset.
func (r *Rule) HasDST() bool { return r.Dst.Name != "" }

// permanentDST reports whether daylight time covers the whole of year.
func (r *Rule) permanentDST(year int) bool {
	start := r.Start.At(year, r.Std.Offset) + int64(r.Std.Offset)
	end := r.End.At(year, r.Dst.Offset) + int64(r.Dst.Offset)
	yearStart := iso.EpochDays(year, 1, 1) * iso.SecondsPerDay
	yearEnd := yearStart + int64(iso.DaysInYear(year))*iso.SecondsPerDay
	return start <= yearStart && end >= yearEnd+int64(r.Dst.Offset-r.Std.Offset)
}

// Transitions returns the changes of year in order. It is empty when the
// rule has no daylight time or daylight time lasts all year.
func (r *Rule) Transitions(year int) []Change {
	if !r.HasDST() || r.permanentDST(year) {
		return nil
	}
	out := []Change{
		{At: r.Start.At(year, r.Std.Offset), Zone: r.Dst},
		{At: r.End.At(year, r.Dst.Offset), Zone: r.Std},
	}
	if out[1].At < out[0].At {
		out[0], out[1] = out[1], out[0]
	}
	return out
}

// changesAround lists the changes of the years around the UTC year of sec,
// and the zone in effect before the first of them.
func (r *Rule) changesAround(sec int64) (Zone, []Change) {
	y := iso.DateFromEpochDays(iso.FloorDiv(sec, iso.SecondsPerDay)).Year
	initial := r.Std
	if r.permanentDST(y - 2) {
		initial = r.Dst
	} else if prev := r.Transitions(y - 2); len(prev) > 0 {
		initial = prev[len(prev)-1].Zone
	}
	var all []Change
	for yy := y - 1; yy <= y+1; yy++ {
		if r.permanentDST(yy) {
			all = append(all, Change{At: iso.EpochDays(yy, 1, 1)*iso.SecondsPerDay - int64(r.Std.Offset), Zone: r.Dst})
			continue
		}
		all = append(all, r.Transitions(yy)...)
	}
	slices.SortStableFunc(all, func(a, b Change) int {
		switch {
		case a.At < b.At:
			return -1
		case a.At > b.At:
			return 1
		}
		return 0
	})
	return initial, all
}

// Lookup returns the zone in effect at Unix second sec.
func (r *Rule) Lookup(sec int64) Zone {
	if !r.HasDST() {
		return r.Std
	}
	z, changes := r.changesAround(sec)
	for _, c := range changes {
		if c.At > sec {
			break
		}
		z = c.Zone
	}
	return z
}

// Next returns the first change strictly after sec that alters the offset.
func (r *Rule) Next(sec int64) (Change, bool) {
	if !r.HasDST() {
		return Change{}, false
	}
	// A change may be up to a year and a half away when one of the
	// surrounding years is all daylight time.
	for probe, i := sec, 0; i < 4; i++ {
		cur, changes := r.changesAround(probe)
		for _, c := range changes {
			if c.At <= sec {
				cur = c.Zone
				continue
			}
			if c.Offset != cur.Offset {
				return c, true
			}
			cur = c.Zone
		}
		probe += 366 * iso.SecondsPerDay
	}
	return Change{}, false
}

// Previous returns the last change strictly before sec that altered the
// offset.
func (r *Rule) Previous(sec int64) (Change, bool) {
	if !r.HasDST() {
		return Change{}, false
	}
	for probe, i := sec, 0; i < 4; i++ {
		initial, changes := r.changesAround(probe)
		var found Change
		ok := false
		cur := initial
		for _, c := range changes {
			if c.At >= sec {
				break
			}
			if c.Offset != cur.Offset {
				found, ok = c, true
			}
			cur = c.Zone
		}
		if ok {
			return found, true
		}
		probe -= 366 * iso.SecondsPerDay
	}
	return Change{}, false
}
