package isostring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/iso"
)

// Precision selects how many fractional second digits are written.
// Values 0 through 9 are a fixed digit count.
type Precision int

const (
	// PrecisionAuto writes as many digits as needed.
	PrecisionAuto Precision = duration.AutoPrecision
	// PrecisionMinute omits the seconds entirely.
	PrecisionMinute Precision = -2
)

// CalendarName controls the calendar annotation.
type CalendarName int

const (
	CalendarAuto CalendarName = iota
	CalendarAlways
	CalendarNever
	CalendarCritical
)

var calendarNames = [...]string{"auto", "always", "never", "critical"}

func (c CalendarName) String() string {
	if c >= 0 && int(c) < len(calendarNames) {
		return calendarNames[c]
	}
	return fmt.Sprintf("CalendarName(%d)", int(c))
}

// ParseCalendarName reads auto, always, never or critical.
func ParseCalendarName(s string) (CalendarName, error) {
	for i, n := range calendarNames {
		if n == s {
			return CalendarName(i), nil
		}
	}
	return CalendarAuto, failure.Rangef("isostring.ParseCalendarName", "invalid calendarName %q", s)
}

// TimeZoneName controls the time zone annotation.
type TimeZoneName int

const (
	TimeZoneAuto TimeZoneName = iota
	TimeZoneNever
	TimeZoneCritical
)

var timeZoneNames = [...]string{"auto", "never", "critical"}

func (t TimeZoneName) String() string {
	if t >= 0 && int(t) < len(timeZoneNames) {
		return timeZoneNames[t]
	}
	return fmt.Sprintf("TimeZoneName(%d)", int(t))
}

// ParseTimeZoneName reads auto, never or critical.
func ParseTimeZoneName(s string) (TimeZoneName, error) {
	for i, n := range timeZoneNames {
		if n == s {
			return TimeZoneName(i), nil
		}
	}
	return TimeZoneAuto, failure.Rangef("isostring.ParseTimeZoneName", "invalid timeZoneName %q", s)
}

// FormatYear writes years 0 through 9999 with four digits and all others
// signed with six.
func FormatYear(y int) string {
	if y >= 0 && y <= 9999 {
		return fmt.Sprintf("%04d", y)
	}
	if y < 0 {
		return fmt.Sprintf("-%06d", -y)
	}
	return fmt.Sprintf("+%06d", y)
}

// FormatDate writes YYYY-MM-DD.
func FormatDate(d iso.Date) string {
	return fmt.Sprintf("%s-%02d-%02d", FormatYear(d.Year), d.Month, d.Day)
}

// FormatTime writes HH:MM:SS with the requested fraction, or HH:MM for
// PrecisionMinute. Extra digits are cut, not rounded.
func FormatTime(t iso.Time, p Precision) string {
	if p == PrecisionMinute {
		return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
	}
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if frac := duration.FormatFraction(t.SubsecondNanos(), int(p)); frac != "" {
		s += "." + frac
	}
	return s
}

// FormatDateTime writes the date and time joined by T.
func FormatDateTime(dt iso.DateTime, p Precision) string {
	return FormatDate(dt.Date) + "T" + FormatTime(dt.Time, p)
}

// FormatOffset writes ±HH:MM, adding seconds and a fraction only when the
// offset has them.
func FormatOffset(ns int64) string {
	sign := byte('+')
	if ns < 0 {
		sign = '-'
		ns = -ns
	}
	var b strings.Builder
	b.WriteByte(sign)
	sec := ns / 1e9
	fmt.Fprintf(&b, "%02d:%02d", sec/3600, sec/60%60)
	if sub := ns % 1e9; sec%60 != 0 || sub != 0 {
		fmt.Fprintf(&b, ":%02d", sec%60)
		if sub != 0 {
			b.WriteByte('.')
			b.WriteString(duration.FormatFraction(sub, int(PrecisionAuto)))
		}
	}
	return b.String()
}

// FormatCalendar writes the calendar annotation for id.
func FormatCalendar(id string, n CalendarName) string {
	switch n {
	case CalendarNever:
		return ""
	case CalendarAuto:
		if id == "iso8601" {
			return ""
		}
	case CalendarCritical:
		return "[!u-ca=" + id + "]"
	}
	return "[u-ca=" + id + "]"
}

// FormatTimeZone writes the time zone annotation for id.
func FormatTimeZone(id string, n TimeZoneName) string {
	switch n {
	case TimeZoneNever:
		return ""
	case TimeZoneCritical:
		return "[!" + id + "]"
	}
	return "[" + id + "]"
}

// ParsePrecision reads "auto", "minute" or a digit count 0-9.
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "auto", "":
		return PrecisionAuto, nil
	case "minute":
		return PrecisionMinute, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 9 {
		return PrecisionAuto, failure.Rangef("isostring.ParsePrecision", "invalid precision %q", s)
	}
	return Precision(n), nil
}
