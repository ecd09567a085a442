// Package tzposix reads the POSIX TZ strings found in the footer of TZif
// files, both as structured rules and as human readable descriptions.
package tzposix

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/tzlist/civiltime/failure"
)

func getTZRegex() string {
	// A basic regex to capture the main parts:
	// 1. Standard Time Abbr (STD)
	// 2. STD Offset
	// 3. Optional DST Abbr (DST)
	// 4. Optional DST Offset (assumed +1 hour if absent)
	// 5. Optional DST Start Rule
	// 6. Optional DST End Rules
	rstr := `^(?<StdName>[[:alpha:]]{3,}|<[[:alnum:]+-]+>)` +
		`(?<StdOffset>[-+]?[0-9]+(?::[0-9]+){0,2})` +
		`(?<DstName>[[:alpha:]]{3,}|<[[:alnum:]+-]+>)?` +
		`(?<DstOffset>[-+]?[0-9]+(?::[0-9]+){0,2})?` +
		`,?(?<StartRule>(?:J?[0-9]+|M[0-9]+(?:\.[0-9]+){0,2})(?:/[+-]?[0-9]+(?::[0-9]+){0,2})?)?` +
		`,?(?<EndRule>(?:J?[0-9]+|M[0-9]+(?:\.[0-9]+){0,2})(?:/[+-]?[0-9]+(?::[0-9]+){0,2})?)?$`
	return rstr
}

var tzRegex = regexp.MustCompile(getTZRegex())

// DecodeTZ splits a POSIX TZ string into descriptions of its standard time,
// its daylight time and its rules. The last two are empty when absent.
func DecodeTZ(posixTZ string) (string, string, string, error) {
	r, err := Parse(posixTZ)
	if err != nil {
		return "", "", "", err
	}
	m := tzRegex.FindStringSubmatch(posixTZ)

	stdDesc := fmt.Sprintf("%s (UTC%s)", m[1], formatOffset(r.Std.Offset))
	if !r.HasDST() {
		return stdDesc, "", "", nil
	}
	dstDesc := fmt.Sprintf("%s (UTC%s)", m[3], formatOffset(r.Dst.Offset))

	rulesDesc := ""
	if m[5] != "" {
		rulesDesc = fmt.Sprintf("Starts %s, Ends %s", describeTransition(r.Start), describeTransition(r.End))
	}
	return stdDesc, dstDesc, rulesDesc, nil
}

// HumanReadableTZ parses a POSIX TZ string and returns a human-readable description.
// It handles a common format like "EST5EDT,M3.2.0/02:00:00,M11.1.0/02:00:00"
func HumanReadableTZ(posixTZ string) (string, error) {
	if m := tzRegex.FindStringSubmatch(posixTZ); m != nil && (m[5] == "") != (m[6] == "") {
		slog.Warn("stand alone TZ rule", "tz", posixTZ)
	}
	std, dst, rules, err := DecodeTZ(posixTZ)
	if err != nil {
		return "", err
	}
	if dst == "" {
		return "Standard Time: " + std + "\n(No Daylight Saving Time rules)", nil
	}
	if rules != "" {
		rules = "\nRules: " + rules
	}
	return fmt.Sprintf("Standard Time: %s\nDaylight Time: %s%s", std, dst, rules), nil
}

// parseOffset converts a POSIX offset string (e.g., "5", "-10:30") to seconds west of UTC
func parseOffset(offsetStr string) (int, error) {
	// POSIX offsets are West of Greenwich, opposite of ISO 8601
	// "EST5" means 5 hours West of UTC (UTC+5 if we follow standard notation)

	sign := 1
	if strings.HasPrefix(offsetStr, "+") {
		offsetStr = strings.TrimPrefix(offsetStr, "+")
	} else if strings.HasPrefix(offsetStr, "-") {
		offsetStr = strings.TrimPrefix(offsetStr, "-")
		sign = -1
	}

	parts := strings.Split(offsetStr, ":")
	if len(parts) > 3 {
		return 0, failure.Syntaxf("tzposix.parseOffset", "too many fields in %q", offsetStr)
	}
	var hms [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, err
		}
		if i > 0 && v > 59 {
			return 0, failure.Rangef("tzposix.parseOffset", "field %q out of range", p)
		}
		hms[i] = v
	}
	return sign * (hms[0]*3600 + hms[1]*60 + hms[2]), nil
}

// formatOffset converts seconds east of UTC to a " +HH:MM" or " -HH:MM:SS" string
func formatOffset(offsetSeconds int) string {
	sign := "+"
	if offsetSeconds < 0 {
		sign = "-"
		offsetSeconds = -offsetSeconds
	}

	hours := offsetSeconds / 3600
	minutes := (offsetSeconds % 3600) / 60
	seconds := offsetSeconds % 60
	if seconds != 0 {
		return fmt.Sprintf(" %s%02d:%02d:%02d", sign, hours, minutes, seconds)
	}
	return fmt.Sprintf(" %s%02d:%02d", sign, hours, minutes)
}

var (
	monthNames = []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
	weekDesc   = []string{"", "first", "second", "third", "fourth", "last"}
	dayDesc    = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
)

// clock formats seconds after midnight as hh:mm:ss, with the whole days
// beyond the first split off.
func clock(sec int) (string, int) {
	days := 0
	for sec >= 24*3600 {
		sec -= 24 * 3600
		days++
	}
	sign := ""
	if sec < 0 {
		sign = "-"
		sec = -sec
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, sec/3600, sec/60%60, sec%60), days
}

// describeTransition turns a parsed rule (e.g., "M3.2.0/02:00:00") into a description
func describeTransition(t Transition) string {
	timeStr, days := clock(t.Time)
	switch {
	case t.Time == 24*3600:
		timeStr = "midnight of the next day"
	case days == 1:
		timeStr += " of the next day"
	case days > 1:
		timeStr += fmt.Sprintf(" %d days later", days)
	}

	switch t.Kind {
	case MonthWeekDay:
		return fmt.Sprintf("on the %s %s of %s at %s", weekDesc[t.Week], dayDesc[t.Day], monthNames[t.Month-1], timeStr)
	case JulianDay:
		if t.Day == 365 && t.Time >= 24*3600 {
			return "at the end of the year"
		}
		return fmt.Sprintf("on Julian Day %d at %s", t.Day, timeStr)
	}
	if t.Day == 0 && t.Time == 0 {
		return "from the start of the year"
	}
	return fmt.Sprintf("on day %d of the year at %s", t.Day, timeStr)
}
