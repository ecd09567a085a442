package isostring

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/govalues/decimal"
	"github.com/rickb777/period"

	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
)

// durationRegex is the strict grammar: integer date fields, and a
// fraction of up to 18 digits on the last time field only.
var durationRegex = regexp.MustCompile(`^([+-])?P` +
	`(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?` +
	`(?:(T)(?:(\d+)(?:[.,](\d{1,18}))?H)?(?:(\d+)(?:[.,](\d{1,18}))?M)?(?:(\d+)(?:[.,](\d{1,18}))?S)?)?$`)

// submatch indices in durationRegex
const (
	reYears = 2 + iota
	reMonths
	reWeeks
	reDays
	reT
	reHours
	reHoursFrac
	reMinutes
	reMinutesFrac
	reSeconds
	reSecondsFrac
)

// ParseDuration reads an ISO 8601 duration such as "-P1Y2M3DT4H5M6.5S".
// Designators may be lowercase. Only the last time field may carry a
// fraction; it is spread over the smaller fields, and digits below one
// nanosecond are rounded with mode (trunc when unset).
func ParseDuration(s string, mode duration.RoundingMode) (duration.Duration, error) {
	const op = "isostring.ParseDuration"
	upper := strings.ToUpper(s)
	m := durationRegex.FindStringSubmatch(upper)
	if m == nil {
		return duration.Duration{}, failure.Syntaxf(op, "invalid duration %q", s)
	}
	dateEmpty := m[reYears] == "" && m[reMonths] == "" && m[reWeeks] == "" && m[reDays] == ""
	timeEmpty := m[reHours] == "" && m[reMinutes] == "" && m[reSeconds] == ""
	if (m[reT] != "" && timeEmpty) || (dateEmpty && timeEmpty) {
		return duration.Duration{}, failure.Syntaxf(op, "invalid duration %q", s)
	}
	if (m[reHoursFrac] != "" && (m[reMinutes] != "" || m[reSeconds] != "")) ||
		(m[reMinutesFrac] != "" && m[reSeconds] != "") {
		return duration.Duration{}, failure.Syntaxf(op, "only the last field may have a fraction in %q", s)
	}

	// The integer parts go through period; the fraction is handled here
	// so that it is never rounded by the decimal type.
	var intOnly strings.Builder
	intOnly.WriteString(m[1])
	intOnly.WriteByte('P')
	for _, f := range []struct {
		idx int
		des string
	}{{reYears, "Y"}, {reMonths, "M"}, {reWeeks, "W"}, {reDays, "D"}} {
		if m[f.idx] != "" {
			intOnly.WriteString(m[f.idx] + f.des)
		}
	}
	if !timeEmpty {
		intOnly.WriteByte('T')
		for _, f := range []struct {
			idx int
			des string
		}{{reHours, "H"}, {reMinutes, "M"}, {reSeconds, "S"}} {
			if m[f.idx] != "" {
				intOnly.WriteString(m[f.idx] + f.des)
			}
		}
	}
	p, err := period.Parse(intOnly.String())
	if err != nil {
		return duration.Duration{}, failure.Rangef(op, "duration %q out of range: %v", s, err)
	}

	var f duration.Fields
	for _, part := range []struct {
		v   decimal.Decimal
		dst *int64
	}{
		{p.YearsDecimal(), &f.Years},
		{p.MonthsDecimal(), &f.Months},
		{p.WeeksDecimal(), &f.Weeks},
		{p.DaysDecimal(), &f.Days},
		{p.HoursDecimal(), &f.Hours},
		{p.MinutesDecimal(), &f.Minutes},
		{p.SecondsDecimal(), &f.Seconds},
	} {
		whole, _, ok := part.v.Int64(0)
		if !ok {
			return duration.Duration{}, failure.Rangef(op, "duration %q out of range", s)
		}
		*part.dst = whole
	}

	negative := m[1] == "-"
	for _, fr := range []struct {
		idx    int
		unitNs int64
	}{{reHoursFrac, 3600e9}, {reMinutesFrac, 60e9}, {reSecondsFrac, 1e9}} {
		if m[fr.idx] == "" {
			continue
		}
		ns, err := fractionNanos(m[fr.idx], fr.unitNs, negative, mode)
		if err != nil {
			return duration.Duration{}, failure.Wrap(failure.Range, op, err)
		}
		spreadFraction(&f, ns, fr.unitNs, negative)
	}

	d, err := duration.FromFields(f)
	if err != nil {
		return duration.Duration{}, failure.Wrap(failure.Range, op, err)
	}
	return d, nil
}

// fractionNanos converts the digits of a fraction of a unit to whole
// nanoseconds, rounding what is left with mode.
func fractionNanos(digits string, unitNs int64, negative bool, mode duration.RoundingMode) (int64, error) {
	frac, err := decimal.Parse("0." + digits)
	if err != nil {
		return 0, err
	}
	num := new(big.Int).SetUint64(frac.Coef())
	num.Mul(num, big.NewInt(unitNs))
	den := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(frac.Scale())), nil)
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() != 0 {
		rest := new(big.Rat).SetFrac(r, den)
		if mode.Or(duration.Trunc).RoundsAway(negative, rest, q.Bit(0) == 0) {
			q.Add(q, big.NewInt(1))
		}
	}
	return q.Int64(), nil
}

// spreadFraction adds ns (a magnitude below or at one unit) to the fields
// below the unit it came from.
func spreadFraction(f *duration.Fields, ns, unitNs int64, negative bool) {
	sign := int64(1)
	if negative {
		sign = -1
	}
	if unitNs == 3600e9 {
		f.Minutes += sign * (ns / 60e9)
		ns %= 60e9
	}
	if unitNs >= 60e9 {
		f.Seconds += sign * (ns / 1e9)
		ns %= 1e9
	}
	f.Milliseconds += sign * (ns / 1e6)
	f.Microseconds += sign * (ns / 1e3 % 1e3)
	f.Nanoseconds += sign * (ns % 1e3)
}

// FormatDuration writes d with the given seconds precision.
func FormatDuration(d duration.Duration, p Precision) string {
	if p == PrecisionMinute {
		p = 0
	}
	return d.Format(int(p))
}
