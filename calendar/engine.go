package calendar

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/iso"
)

// system describes a calendar without leap months: how its years map onto
// ISO days, how long its months are, and how it names eras.
type system interface {
	fromISO(d iso.Date) (y, m, day int)
	toISO(y, m, d int) iso.Date
	monthsInYear(y int) int
	daysInMonth(y, m int) int
	inLeapYear(y int) bool

	// era returns the era and era year of a date, or "" for calendars
	// without eras.
	era(y int, d iso.Date) (string, int)
	yearFromEra(era string, eraYear int) (int, bool)
}

// engine implements Calendar over a system.
type engine struct {
	id  string
	sys system
}

func (c *engine) ID() string { return c.id }

func (c *engine) String() string { return c.id }

func (c *engine) hasEras() bool {
	e, _ := c.sys.era(1, iso.Date{Year: 2000, Month: 1, Day: 1})
	return e != ""
}

func monthCode(m int) string { return fmt.Sprintf("M%02d", m) }

// parseMonthCode accepts M01 through M99; leap month codes (with an L
// suffix) are syntactically valid but no built-in calendar has them.
func parseMonthCode(code string) (int, bool, error) {
	const op = "calendar.MonthCode"
	if len(code) < 3 || len(code) > 4 || code[0] != 'M' {
		return 0, false, failure.Rangef(op, "invalid month code %q", code)
	}
	leap := len(code) == 4
	if leap && code[3] != 'L' {
		return 0, false, failure.Rangef(op, "invalid month code %q", code)
	}
	m, err := strconv.Atoi(code[1:3])
	if err != nil || code[1] < '0' || code[1] > '9' || (m == 0 && !leap) {
		return 0, false, failure.Rangef(op, "invalid month code %q", code)
	}
	return m, leap, nil
}

// resolveMonth reads month and monthCode (in that order) for year y.
func (c *engine) resolveMonth(f Fields, y int, required bool) (int, error) {
	const op = "calendar.resolveMonth"
	if f.Month == nil && f.MonthCode == "" {
		if required {
			return 0, failure.Typef(op, "month or monthCode is required")
		}
		return 0, nil
	}
	if f.Month != nil && *f.Month < 1 {
		return 0, failure.Rangef(op, "month %d out of range", *f.Month)
	}
	if f.MonthCode == "" {
		return *f.Month, nil
	}
	m, leap, err := parseMonthCode(f.MonthCode)
	if err != nil {
		return 0, err
	}
	if leap || m > c.sys.monthsInYear(y) {
		return 0, failure.Rangef(op, "month code %s not valid in %s year %d", f.MonthCode, c.id, y)
	}
	if f.Month != nil && *f.Month != m {
		return 0, failure.Rangef(op, "month %d does not match month code %s", *f.Month, f.MonthCode)
	}
	return m, nil
}

// resolveYear reads era, eraYear and year.
func (c *engine) resolveYear(f Fields, required bool) (int, bool, error) {
	const op = "calendar.resolveYear"
	if (f.Era == "") != (f.EraYear == nil) {
		if !c.hasEras() {
			return 0, false, failure.Typef(op, "%s has no eras", c.id)
		}
		return 0, false, failure.Typef(op, "era and eraYear must be given together")
	}
	if f.Era != "" {
		if !c.hasEras() {
			return 0, false, failure.Rangef(op, "%s has no eras", c.id)
		}
		y, ok := c.sys.yearFromEra(f.Era, *f.EraYear)
		if !ok {
			return 0, false, failure.Rangef(op, "unknown era %q for %s", f.Era, c.id)
		}
		if f.Year != nil && *f.Year != y {
			return 0, false, failure.Rangef(op, "year %d does not match %s %d", *f.Year, f.Era, *f.EraYear)
		}
		return y, true, nil
	}
	if f.Year == nil {
		if required {
			return 0, false, failure.Typef(op, "year is required")
		}
		return 0, false, nil
	}
	return *f.Year, true, nil
}

// regulate applies overflow to a calendar year, month and day.
func (c *engine) regulate(y, m, d int, overflow Overflow) (int, int, int, error) {
	const op = "calendar.regulate"
	n := c.sys.monthsInYear(y)
	if overflow == Reject {
		if m < 1 || m > n {
			return 0, 0, 0, failure.Rangef(op, "month %d out of range", m)
		}
		if d < 1 || d > c.sys.daysInMonth(y, m) {
			return 0, 0, 0, failure.Rangef(op, "day %d out of range", d)
		}
		return y, m, d, nil
	}
	m = min(max(m, 1), n)
	d = min(max(d, 1), c.sys.daysInMonth(y, m))
	return y, m, d, nil
}

func (c *engine) checked(op string, d iso.Date) (iso.Date, error) {
	if !iso.DateWithinLimits(d) {
		return iso.Date{}, failure.Rangef(op, "date outside the supported range")
	}
	return d, nil
}

func (c *engine) DateFromFields(f Fields, overflow Overflow) (iso.Date, error) {
	const op = "calendar.DateFromFields"
	if f.Day == nil {
		return iso.Date{}, failure.Typef(op, "day is required")
	}
	if *f.Day < 1 {
		return iso.Date{}, failure.Rangef(op, "day %d out of range", *f.Day)
	}
	y, _, err := c.resolveYear(f, true)
	if err != nil {
		return iso.Date{}, err
	}
	m, err := c.resolveMonth(f, y, true)
	if err != nil {
		return iso.Date{}, err
	}
	if y < -300000 || y > 300000 {
		return iso.Date{}, failure.Rangef(op, "year %d out of range", y)
	}
	y, m, d, err := c.regulate(y, m, *f.Day, overflow)
	if err != nil {
		return iso.Date{}, err
	}
	return c.checked(op, c.sys.toISO(y, m, d))
}

// YearMonthFromFields returns the ISO date of the first day of the month.
func (c *engine) YearMonthFromFields(f Fields, overflow Overflow) (iso.Date, error) {
	const op = "calendar.YearMonthFromFields"
	y, _, err := c.resolveYear(f, true)
	if err != nil {
		return iso.Date{}, err
	}
	m, err := c.resolveMonth(f, y, true)
	if err != nil {
		return iso.Date{}, err
	}
	if y < -300000 || y > 300000 {
		return iso.Date{}, failure.Rangef(op, "year %d out of range", y)
	}
	y, m, _, err = c.regulate(y, m, 1, overflow)
	if err != nil {
		return iso.Date{}, err
	}
	return c.checked(op, c.sys.toISO(y, m, 1))
}

// referenceISOYear anchors month-day values.
const referenceISOYear = 1972

// MonthDayFromFields returns the ISO date of the month and day in the
// latest calendar year starting no later than 1972 in which they exist.
// A given year is only used for regulating the day.
func (c *engine) MonthDayFromFields(f Fields, overflow Overflow) (iso.Date, error) {
	const op = "calendar.MonthDayFromFields"
	if f.Day == nil {
		return iso.Date{}, failure.Typef(op, "day is required")
	}
	if *f.Day < 1 {
		return iso.Date{}, failure.Rangef(op, "day %d out of range", *f.Day)
	}
	y, hasYear, err := c.resolveYear(f, false)
	if err != nil {
		return iso.Date{}, err
	}
	if f.MonthCode == "" && f.Month != nil && !hasYear && c.id != ISO8601 {
		return iso.Date{}, failure.Typef(op, "year is required with month in %s", c.id)
	}
	ref, _, _ := c.sys.fromISO(iso.Date{Year: referenceISOYear, Month: 12, Day: 31})
	if !hasYear {
		y = ref
	}
	m, err := c.resolveMonth(f, y, true)
	if err != nil {
		return iso.Date{}, err
	}
	_, m, d, err := c.regulate(y, m, *f.Day, overflow)
	if err != nil {
		return iso.Date{}, err
	}
	for yy := ref; yy > ref-8; yy-- {
		if m <= c.sys.monthsInYear(yy) && d <= c.sys.daysInMonth(yy, m) {
			return c.sys.toISO(yy, m, d), nil
		}
	}
	_, m, d, _ = c.regulate(ref, m, d, Constrain)
	return c.sys.toISO(ref, m, d), nil
}

// balanceYearMonth carries months outside 1..monthsInYear into years.
func (c *engine) balanceYearMonth(y, m int64) (int, int, error) {
	for m < 1 {
		y--
		if y < -300000 {
			return 0, 0, failure.Rangef("calendar.DateAdd", "date outside the supported range")
		}
		m += int64(c.sys.monthsInYear(int(y)))
	}
	for {
		n := int64(c.sys.monthsInYear(int(y)))
		if m <= n {
			break
		}
		m -= n
		y++
		if y > 300000 {
			return 0, 0, failure.Rangef("calendar.DateAdd", "date outside the supported range")
		}
	}
	return int(y), int(m), nil
}

// addYearsMonths returns the unregulated calendar fields of date plus the
// given years and months; the day may exceed the month length.
func (c *engine) addYearsMonths(y, m, d int, years, months int64) (int, int, int, error) {
	ny := int64(y) + years
	if ny < -300000 || ny > 300000 {
		return 0, 0, 0, failure.Rangef("calendar.DateAdd", "date outside the supported range")
	}
	if n := c.sys.monthsInYear(int(ny)); m > n {
		m = n
	}
	if months == 0 {
		return int(ny), m, d, nil
	}
	// Jump whole years first; balanceYearMonth settles any remainder when
	// month counts vary between years.
	n := int64(c.sys.monthsInYear(int(ny)))
	total := int64(m) - 1 + months
	ny += iso.FloorDiv(total, n)
	if ny < -300000 || ny > 300000 {
		return 0, 0, 0, failure.Rangef("calendar.DateAdd", "date outside the supported range")
	}
	by, bm, err := c.balanceYearMonth(ny, iso.FloorMod(total, n)+1)
	if err != nil {
		return 0, 0, 0, err
	}
	return by, bm, d, nil
}

func (c *engine) DateAdd(date iso.Date, dur duration.Duration, overflow Overflow) (iso.Date, error) {
	const op = "calendar.DateAdd"
	y, m, d := c.sys.fromISO(date)
	if dur.Years() != 0 || dur.Months() != 0 {
		var err error
		y, m, d, err = c.addYearsMonths(y, m, d, dur.Years(), dur.Months())
		if err != nil {
			return iso.Date{}, err
		}
		if y, m, d, err = c.regulate(y, m, d, overflow); err != nil {
			return iso.Date{}, err
		}
	}
	days := dur.Weeks()*7 + dur.Days()
	if days > 2*iso.MaxEpochDays+2 || days < -2*iso.MaxEpochDays-2 {
		return iso.Date{}, failure.Rangef(op, "date outside the supported range")
	}
	return c.checked(op, iso.AddDays(c.sys.toISO(y, m, d), days))
}

// surpasses reports whether the unregulated fields (y, m, d) lie beyond
// (by, bm, bd) in the direction of sign.
func surpasses(sign int, y, m, d, by, bm, bd int) bool {
	switch {
	case y != by:
		return sign*(y-by) > 0
	case m != bm:
		return sign*(m-bm) > 0
	}
	return sign*(d-bd) > 0
}

func (c *engine) DateUntil(a, b iso.Date, largest duration.Unit) (duration.Duration, error) {
	sign := iso.CompareDate(b, a)
	if sign == 0 {
		return duration.Zero, nil
	}
	var years, months int64
	if largest == duration.Year || largest == duration.Month {
		ay, am, ad := c.sys.fromISO(a)
		by, bm, bd := c.sys.fromISO(b)
		if largest == duration.Year {
			years = int64(by - ay)
			for years != 0 {
				y, m, d, err := c.addYearsMonths(ay, am, ad, years, 0)
				if err != nil {
					return duration.Duration{}, err
				}
				if !surpasses(sign, y, m, d, by, bm, bd) {
					break
				}
				years -= int64(sign)
			}
		}
		y0, m0, _, err := c.addYearsMonths(ay, am, ad, years, 0)
		if err != nil {
			return duration.Duration{}, err
		}
		months = c.monthsBetween(y0, m0, by, bm)
		for months != 0 {
			y, m, d, err := c.addYearsMonths(ay, am, ad, years, months)
			if err != nil {
				return duration.Duration{}, err
			}
			if !surpasses(sign, y, m, d, by, bm, bd) {
				break
			}
			months -= int64(sign)
		}
		y, m, d, err := c.addYearsMonths(ay, am, ad, years, months)
		if err != nil {
			return duration.Duration{}, err
		}
		y, m, d, _ = c.regulate(y, m, d, Constrain)
		a = c.sys.toISO(y, m, d)
	}
	days := b.EpochDays() - a.EpochDays()
	var weeks int64
	if largest == duration.Week {
		weeks, days = days/7, days%7
	}
	return duration.New(years, months, weeks, days, 0, 0, 0, 0, 0, 0)
}

// monthsBetween counts calendar months from (y0, m0) to (y1, m1).
func (c *engine) monthsBetween(y0, m0, y1, m1 int) int64 {
	var n int64
	for y := y0; y < y1; y++ {
		n += int64(c.sys.monthsInYear(y))
	}
	for y := y1; y < y0; y++ {
		n -= int64(c.sys.monthsInYear(y))
	}
	return n + int64(m1-m0)
}

func (c *engine) Era(date iso.Date) (string, bool) {
	y, _, _ := c.sys.fromISO(date)
	e, _ := c.sys.era(y, date)
	return e, e != ""
}

func (c *engine) EraYear(date iso.Date) (int, bool) {
	y, _, _ := c.sys.fromISO(date)
	e, ey := c.sys.era(y, date)
	return ey, e != ""
}

func (c *engine) Year(date iso.Date) int {
	y, _, _ := c.sys.fromISO(date)
	return y
}

func (c *engine) Month(date iso.Date) int {
	_, m, _ := c.sys.fromISO(date)
	return m
}

func (c *engine) MonthCode(date iso.Date) string {
	return monthCode(c.Month(date))
}

func (c *engine) Day(date iso.Date) int {
	_, _, d := c.sys.fromISO(date)
	return d
}

func (c *engine) DayOfWeek(date iso.Date) int { return date.DayOfWeek() }

func (c *engine) DayOfYear(date iso.Date) int {
	y, _, _ := c.sys.fromISO(date)
	return int(date.EpochDays()-c.sys.toISO(y, 1, 1).EpochDays()) + 1
}

func (c *engine) WeekOfYear(date iso.Date) (int, bool) {
	if c.id != ISO8601 {
		return 0, false
	}
	w, _ := date.WeekOfYear()
	return w, true
}

func (c *engine) YearOfWeek(date iso.Date) (int, bool) {
	if c.id != ISO8601 {
		return 0, false
	}
	_, y := date.WeekOfYear()
	return y, true
}

func (c *engine) DaysInWeek(iso.Date) int { return 7 }

func (c *engine) DaysInMonth(date iso.Date) int {
	y, m, _ := c.sys.fromISO(date)
	return c.sys.daysInMonth(y, m)
}

func (c *engine) DaysInYear(date iso.Date) int {
	y, _, _ := c.sys.fromISO(date)
	n := 0
	for m := 1; m <= c.sys.monthsInYear(y); m++ {
		n += c.sys.daysInMonth(y, m)
	}
	return n
}

func (c *engine) MonthsInYear(date iso.Date) int {
	y, _, _ := c.sys.fromISO(date)
	return c.sys.monthsInYear(y)
}

func (c *engine) InLeapYear(date iso.Date) bool {
	y, _, _ := c.sys.fromISO(date)
	return c.sys.inLeapYear(y)
}

func (c *engine) FieldNames(names []string) []string {
	out := slices.Clone(names)
	if c.hasEras() && slices.Contains(names, "year") {
		out = append(out, "era", "eraYear")
	}
	return out
}
