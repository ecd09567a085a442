package duration

import (
	"strconv"
	"strings"
)

// AutoPrecision prints as many fractional second digits as needed.
const AutoPrecision = -1

// String returns the ISO 8601 form, e.g. "P1Y2M3DT4H5M6.007S".
func (d Duration) String() string {
	return d.Format(AutoPrecision)
}

// Format writes d as an ISO 8601 duration with the given number of
// fractional second digits (0-9, or AutoPrecision). The sub-second fields
// are carried into seconds; no rounding happens here.
func (d Duration) Format(precision int) string {
	var b strings.Builder
	if d.Sign() < 0 {
		b.WriteByte('-')
	}
	a := d.Abs().f
	b.WriteByte('P')
	writeField(&b, a.Years, 'Y')
	writeField(&b, a.Months, 'M')
	writeField(&b, a.Weeks, 'W')
	writeField(&b, a.Days, 'D')

	secs, _ := FromComponents(0, 0, a.Seconds, a.Milliseconds, a.Microseconds, a.Nanoseconds)
	zeroHigher := a.Years == 0 && a.Months == 0 && a.Weeks == 0 && a.Days == 0 && a.Hours == 0 && a.Minutes == 0
	showSeconds := !secs.IsZero() || zeroHigher || precision != AutoPrecision

	if a.Hours != 0 || a.Minutes != 0 || showSeconds {
		b.WriteByte('T')
		writeField(&b, a.Hours, 'H')
		writeField(&b, a.Minutes, 'M')
		if showSeconds {
			b.WriteString(strconv.FormatInt(secs.Seconds(), 10))
			if frac := FormatFraction(secs.Subsec(), precision); frac != "" {
				b.WriteByte('.')
				b.WriteString(frac)
			}
			b.WriteByte('S')
		}
	}
	return b.String()
}

// FormatFraction renders a nanosecond fraction (0 <= ns < 1e9) with the
// given number of digits, or with trailing zeros stripped for
// AutoPrecision.
func FormatFraction(ns int64, precision int) string {
	if precision == 0 || (precision == AutoPrecision && ns == 0) {
		return ""
	}
	s := strconv.FormatInt(ns+1e9, 10)[1:]
	if precision == AutoPrecision {
		return strings.TrimRight(s, "0")
	}
	return s[:precision]
}

func writeField(b *strings.Builder, v int64, designator byte) {
	if v == 0 {
		return
	}
	b.WriteString(strconv.FormatInt(v, 10))
	b.WriteByte(designator)
}
