// Package isostring reads and writes the extended ISO 8601 / RFC 9557
// strings of dates, times, offsets, zone and calendar annotations, and
// durations.
//
// The parsers are hand-written scanners: each step consumes a prefix of
// the input and returns the rest, so that the grammar reads top-down.
package isostring

import (
	"strings"

	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/iso"
)

// Parsed is the result of reading a date-time string.
type Parsed struct {
	Date    iso.Date
	HasDate bool
	Time    iso.Time
	HasTime bool

	// Z is set for the UTC designator; Offset is then zero and HasOffset
	// false.
	Z         bool
	HasOffset bool
	Offset    int64 // nanoseconds east of UTC
	// SubMinute reports that the offset was written with seconds.
	SubMinute bool

	TimeZone         string
	TimeZoneCritical bool
	Calendar         string
	CalendarCritical bool
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// digits reads exactly n digits from the front of s.
func digits(s string, n int) (int, string, bool) {
	if len(s) < n {
		return 0, s, false
	}
	v := 0
	for i := 0; i < n; i++ {
		if !isDigit(s[i]) {
			return 0, s, false
		}
		v = v*10 + int(s[i]-'0')
	}
	return v, s[n:], true
}

// fraction reads a decimal separator and one to nine digits and returns
// them scaled to nanoseconds.
func fraction(s string) (int, string, bool) {
	if s == "" || (s[0] != '.' && s[0] != ',') {
		return 0, s, false
	}
	body := s[1:]
	n := 0
	for n < len(body) && isDigit(body[n]) {
		n++
	}
	if n == 0 || n > 9 {
		return 0, s, false
	}
	v, _, _ := digits(body, n)
	for i := n; i < 9; i++ {
		v *= 10
	}
	return v, body[n:], true
}

// parseDate reads YYYY-MM-DD, YYYYMMDD or their six digit signed forms.
func parseDate(s string) (iso.Date, string, error) {
	const op = "isostring.parseDate"
	var d iso.Date
	var ok bool
	rest := s
	switch {
	case rest != "" && (rest[0] == '+' || rest[0] == '-'):
		neg := rest[0] == '-'
		if d.Year, rest, ok = digits(rest[1:], 6); !ok {
			return d, s, failure.Syntaxf(op, "invalid extended year in %q", s)
		}
		if neg {
			if d.Year == 0 {
				return d, s, failure.Rangef(op, "negative zero year in %q", s)
			}
			d.Year = -d.Year
		}
	default:
		if d.Year, rest, ok = digits(rest, 4); !ok {
			return d, s, failure.Syntaxf(op, "invalid year in %q", s)
		}
	}

	extended := rest != "" && rest[0] == '-'
	if extended {
		rest = rest[1:]
	}
	if d.Month, rest, ok = digits(rest, 2); !ok {
		return d, s, failure.Syntaxf(op, "invalid month in %q", s)
	}
	if extended {
		if rest == "" || rest[0] != '-' {
			return d, s, failure.Syntaxf(op, "missing day in %q", s)
		}
		rest = rest[1:]
	}
	if d.Day, rest, ok = digits(rest, 2); !ok {
		return d, s, failure.Syntaxf(op, "invalid day in %q", s)
	}
	if !iso.IsValidDate(d.Year, d.Month, d.Day) {
		return d, s, failure.Rangef(op, "invalid date in %q", s)
	}
	return d, rest, nil
}

// parseTime reads HH[:MM[:SS[.fff]]] or HH[MM[SS[.fff]]]. A leap second
// reads as :59.
func parseTime(s string) (iso.Time, string, error) {
	const op = "isostring.parseTime"
	var t iso.Time
	var ok bool
	rest := s
	if t.Hour, rest, ok = digits(rest, 2); !ok {
		return t, s, failure.Syntaxf(op, "invalid hour in %q", s)
	}
	extended := rest != "" && rest[0] == ':'
	next := func() bool {
		if extended {
			if rest == "" || rest[0] != ':' {
				return false
			}
			_, _, ok := digits(rest[1:], 2)
			if !ok {
				return false
			}
			rest = rest[1:]
			return true
		}
		_, _, ok := digits(rest, 2)
		return ok
	}
	if next() {
		t.Minute, rest, _ = digits(rest, 2)
		if next() {
			t.Second, rest, _ = digits(rest, 2)
			var ns int
			if ns, rest, ok = fraction(rest); ok {
				t.Millisecond, t.Microsecond, t.Nanosecond = ns/1e6, ns/1e3%1e3, ns%1e3
			}
		}
	}
	if extended && rest != "" && rest[0] == ':' {
		return t, s, failure.Syntaxf(op, "invalid time in %q", s)
	}
	if t.Hour > 23 || t.Minute > 59 || t.Second > 60 {
		return t, s, failure.Rangef(op, "invalid time in %q", s)
	}
	if t.Second == 60 {
		t.Second = 59
	}
	return t, rest, nil
}

// parseOffset reads ±HH[:MM[:SS[.fff]]] or its basic form. subMinute is
// set when seconds are present.
func parseOffset(s string) (ns int64, subMinute bool, rest string, err error) {
	const op = "isostring.parseOffset"
	if s == "" || (s[0] != '+' && s[0] != '-') {
		return 0, false, s, failure.Syntaxf(op, "invalid offset %q", s)
	}
	sign := int64(1)
	if s[0] == '-' {
		sign = -1
	}
	t, rest, err := parseTime(s[1:])
	if err != nil {
		return 0, false, s, failure.Syntaxf(op, "invalid offset %q", s)
	}
	// parseTime accepts a leap second; an offset does not.
	body := s[1 : len(s)-len(rest)]
	if strings.Count(body, ":") == 2 || (!strings.Contains(body, ":") && len(body) > 4) {
		subMinute = true
	}
	if t.Second == 59 && (strings.Contains(body, ":60") || (!strings.Contains(body, ":") && len(body) >= 6 && body[4:6] == "60")) {
		return 0, false, s, failure.Rangef(op, "invalid offset %q", s)
	}
	return sign * t.NanosecondOfDay(), subMinute, rest, nil
}

// ParseOffset reads a complete UTC offset string and returns it in
// nanoseconds.
func ParseOffset(s string) (int64, error) {
	ns, _, rest, err := parseOffset(s)
	if err != nil {
		return 0, err
	}
	if rest != "" {
		return 0, failure.Syntaxf("isostring.ParseOffset", "invalid offset %q", s)
	}
	return ns, nil
}

// IsOffset reports whether s is written like a UTC offset.
func IsOffset(s string) bool {
	return s != "" && (s[0] == '+' || s[0] == '-')
}

func isAnnotationKey(k string) bool {
	if k == "" || !(k[0] == '_' || (k[0] >= 'a' && k[0] <= 'z')) {
		return false
	}
	for i := 1; i < len(k); i++ {
		c := k[i]
		if !(c == '_' || c == '-' || isDigit(c) || (c >= 'a' && c <= 'z')) {
			return false
		}
	}
	return true
}

func isAnnotationValue(v string) bool {
	for _, part := range strings.Split(v, "-") {
		if part == "" {
			return false
		}
		for i := 0; i < len(part); i++ {
			c := part[i]
			if !(isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
				return false
			}
		}
	}
	return true
}

// IsTimeZoneName reports whether id is a well-formed IANA style name such
// as "America/New_York" or "Etc/GMT+5".
func IsTimeZoneName(id string) bool {
	if id == "" {
		return false
	}
	for _, part := range strings.Split(id, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
		c := part[0]
		if !(c == '.' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
		for i := 1; i < len(part); i++ {
			c := part[i]
			if !(c == '.' || c == '_' || c == '-' || c == '+' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
				return false
			}
		}
	}
	return true
}

// parseAnnotations reads the bracketed suffixes into p. Only the first
// annotation may name a time zone. The first calendar wins unless one of
// several is critical; unknown critical keys are rejected.
func parseAnnotations(s string, p *Parsed) error {
	const op = "isostring.parseAnnotations"
	calendars := 0
	anyCriticalCalendar := false
	for first := true; s != ""; first = false {
		if s[0] != '[' {
			return failure.Syntaxf(op, "unexpected %q", s)
		}
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return failure.Syntaxf(op, "unterminated annotation in %q", s)
		}
		body := s[1:end]
		s = s[end+1:]
		critical := strings.HasPrefix(body, "!")
		if critical {
			body = body[1:]
		}

		key, value, isKV := strings.Cut(body, "=")
		if !isKV {
			if !first {
				return failure.Syntaxf(op, "time zone annotation [%s] out of place", body)
			}
			if IsOffset(body) {
				if _, err := ParseOffset(body); err != nil {
					return failure.Syntaxf(op, "invalid time zone annotation [%s]", body)
				}
			} else if !IsTimeZoneName(body) {
				return failure.Syntaxf(op, "invalid time zone annotation [%s]", body)
			}
			p.TimeZone, p.TimeZoneCritical = body, critical
			continue
		}

		if !isAnnotationKey(key) || !isAnnotationValue(value) {
			return failure.Syntaxf(op, "invalid annotation [%s]", body)
		}
		switch key {
		case "u-ca":
			calendars++
			anyCriticalCalendar = anyCriticalCalendar || critical
			if calendars == 1 {
				p.Calendar, p.CalendarCritical = value, critical
			}
		default:
			if critical {
				return failure.Rangef(op, "unknown critical annotation [!%s]", body)
			}
		}
	}
	if calendars > 1 && anyCriticalCalendar {
		return failure.Rangef(op, "several calendar annotations with a critical flag")
	}
	return nil
}

// parseOffsetPart reads an optional Z or numeric offset into p.
func parseOffsetPart(s string, p *Parsed) (string, error) {
	switch {
	case s != "" && (s[0] == 'Z' || s[0] == 'z'):
		p.Z = true
		return s[1:], nil
	case IsOffset(s):
		ns, sub, rest, err := parseOffset(s)
		if err != nil {
			return s, err
		}
		p.HasOffset, p.Offset, p.SubMinute = true, ns, sub
		return rest, nil
	}
	return s, nil
}

// parseDateTime reads a date with an optional time, offset and
// annotations.
func parseDateTime(s string) (Parsed, error) {
	var p Parsed
	d, rest, err := parseDate(s)
	if err != nil {
		return p, err
	}
	p.Date, p.HasDate = d, true
	if rest != "" && (rest[0] == 'T' || rest[0] == 't' || rest[0] == ' ') {
		if p.Time, rest, err = parseTime(rest[1:]); err != nil {
			return p, err
		}
		p.HasTime = true
		if rest, err = parseOffsetPart(rest, &p); err != nil {
			return p, err
		}
	}
	if err := parseAnnotations(rest, &p); err != nil {
		return p, err
	}
	return p, nil
}

// ParseDateTime reads a string for a civil date or date-time. The time is
// optional; an offset is read but not used; Z is rejected.
func ParseDateTime(s string) (Parsed, error) {
	p, err := parseDateTime(s)
	if err != nil {
		return p, err
	}
	if p.Z {
		return p, failure.Rangef("isostring.ParseDateTime", "UTC designator not allowed in %q", s)
	}
	return p, nil
}

// ParseTime reads a string for a civil time: a date-time, or a time
// alone optionally preceded by T. A bare time that also reads as a
// year-month or month-day is rejected as ambiguous.
func ParseTime(s string) (Parsed, error) {
	const op = "isostring.ParseTime"
	var p Parsed
	var err error
	switch {
	case s != "" && (s[0] == 'T' || s[0] == 't'):
		p, err = parseTimeOnly(s[1:])
	default:
		if dp, derr := parseDateTime(s); derr == nil {
			if !dp.HasTime {
				return dp, failure.Rangef(op, "missing time in %q", s)
			}
			p = dp
			break
		}
		if p, err = parseTimeOnly(s); err == nil && ambiguousTime(s) {
			err = failure.Syntaxf(op, "ambiguous time %q", s)
		}
	}
	if err != nil {
		return p, err
	}
	if p.Z {
		return p, failure.Rangef(op, "UTC designator not allowed in %q", s)
	}
	return p, nil
}

func parseTimeOnly(s string) (Parsed, error) {
	var p Parsed
	t, rest, err := parseTime(s)
	if err != nil {
		return p, err
	}
	p.Time, p.HasTime = t, true
	if rest, err = parseOffsetPart(rest, &p); err != nil {
		return p, err
	}
	return p, parseAnnotations(rest, &p)
}

// ambiguousTime reports whether s without annotations also reads as
// YYYY-MM, YYYYMM, MM-DD or MMDD.
func ambiguousTime(s string) bool {
	if i := strings.IndexByte(s, '['); i >= 0 {
		s = s[:i]
	}
	yearMonth := func(y, m string) bool {
		_, _, ok1 := digits(y, 4)
		mm, _, ok2 := digits(m, 2)
		return len(y) == 4 && len(m) == 2 && ok1 && ok2 && mm >= 1 && mm <= 12
	}
	monthDay := func(m, d string) bool {
		mm, _, ok1 := digits(m, 2)
		dd, _, ok2 := digits(d, 2)
		return len(m) == 2 && len(d) == 2 && ok1 && ok2 && mm >= 1 && mm <= 12 && dd >= 1 && dd <= iso.DaysInMonth(1972, mm)
	}
	switch len(s) {
	case 7:
		return s[4] == '-' && yearMonth(s[:4], s[5:])
	case 6:
		return yearMonth(s[:4], s[4:])
	case 5:
		return s[2] == '-' && monthDay(s[:2], s[3:])
	case 4:
		return monthDay(s[:2], s[2:])
	}
	return false
}

// ParseInstant reads an exact time: a date-time with Z or an offset.
func ParseInstant(s string) (Parsed, error) {
	const op = "isostring.ParseInstant"
	p, err := parseDateTime(s)
	if err != nil {
		return p, err
	}
	if !p.HasTime {
		return p, failure.Rangef(op, "missing time in %q", s)
	}
	if !p.Z && !p.HasOffset {
		return p, failure.Rangef(op, "missing offset in %q", s)
	}
	return p, nil
}

// ParseZoned reads a date-time with a time zone annotation. The time and
// the offset are optional.
func ParseZoned(s string) (Parsed, error) {
	p, err := parseDateTime(s)
	if err != nil {
		return p, err
	}
	if p.TimeZone == "" {
		return p, failure.Rangef("isostring.ParseZoned", "missing time zone annotation in %q", s)
	}
	return p, nil
}
