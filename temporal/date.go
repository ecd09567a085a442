package temporal

import (
	"github.com/tzlist/civiltime/calendar"
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/iso"
	"github.com/tzlist/civiltime/isostring"
	"github.com/tzlist/civiltime/timezone"
)

// CivilDate is a calendar date without a time or zone. The zero value is
// not valid; use NewCivilDate or a parser.
type CivilDate struct {
	date iso.Date
	cal  calendar.Calendar
}

func newCivilDate(op string, d iso.Date, cal calendar.Calendar) (CivilDate, error) {
	if !iso.DateWithinLimits(d) {
		return CivilDate{}, failure.Rangef(op, "date %s outside the supported range", isostring.FormatDate(d))
	}
	return CivilDate{date: d, cal: orISO(cal)}, nil
}

// NewCivilDate builds a date from ISO year, month and day, viewed in cal
// (nil means ISO). Out of range fields are a Range error.
func NewCivilDate(year, month, day int, cal calendar.Calendar) (CivilDate, error) {
	const op = "temporal.NewCivilDate"
	d, err := iso.RegulateDate(year, month, day, false)
	if err != nil {
		return CivilDate{}, failure.Wrap(failure.Range, op, err)
	}
	return newCivilDate(op, d, cal)
}

// CivilDateFromFields builds a date from fields in the terms of cal.
func CivilDateFromFields(f calendar.Fields, cal calendar.Calendar, overflow calendar.Overflow) (CivilDate, error) {
	cal = orISO(cal)
	d, err := cal.DateFromFields(f, overflow)
	if err != nil {
		return CivilDate{}, err
	}
	return newCivilDate("temporal.CivilDateFromFields", d, cal)
}

func (d CivilDate) ISO() iso.Date { return d.date }
func (d CivilDate) Calendar() calendar.Calendar { return orISO(d.cal) }
func (d CivilDate) Year() int { return d.Calendar().Year(d.date) }
func (d CivilDate) Month() int { return d.Calendar().Month(d.date) }
func (d CivilDate) MonthCode() string { return d.Calendar().MonthCode(d.date) }
func (d CivilDate) Day() int { return d.Calendar().Day(d.date) }
func (d CivilDate) Era() (string, bool) { return d.Calendar().Era(d.date) }
func (d CivilDate) EraYear() (int, bool) { return d.Calendar().EraYear(d.date) }
func (d CivilDate) DayOfWeek() int { return d.Calendar().DayOfWeek(d.date) }
func (d CivilDate) DayOfYear() int { return d.Calendar().DayOfYear(d.date) }
func (d CivilDate) WeekOfYear() (int, bool) { return d.Calendar().WeekOfYear(d.date) }
func (d CivilDate) YearOfWeek() (int, bool) { return d.Calendar().YearOfWeek(d.date) }
func (d CivilDate) DaysInWeek() int { return d.Calendar().DaysInWeek(d.date) }
func (d CivilDate) DaysInMonth() int { return d.Calendar().DaysInMonth(d.date) }
func (d CivilDate) DaysInYear() int { return d.Calendar().DaysInYear(d.date) }
func (d CivilDate) MonthsInYear() int { return d.Calendar().MonthsInYear(d.date) }
func (d CivilDate) InLeapYear() bool { return d.Calendar().InLeapYear(d.date) }
func (d CivilDate) Fields() calendar.Fields { return calendar.FieldsOf(d.Calendar(), d.date) }

// WithCalendar views the same day in cal.
func (d CivilDate) WithCalendar(cal calendar.Calendar) CivilDate {
	return CivilDate{date: d.date, cal: orISO(cal)}
}

// With replaces the fields set in f. Setting either month or monthCode
// replaces both; setting any of year, era or eraYear replaces all three.
func (d CivilDate) With(f calendar.Fields, overflow calendar.Overflow) (CivilDate, error) {
	return CivilDateFromFields(mergeFields(d.Fields(), f), d.cal, overflow)
}

func mergeFields(base, f calendar.Fields) calendar.Fields {
	if f.Month != nil || f.MonthCode != "" {
		base.Month, base.MonthCode = f.Month, f.MonthCode
	}
	if f.Year != nil || f.Era != "" || f.EraYear != nil {
		base.Year, base.Era, base.EraYear = f.Year, f.Era, f.EraYear
	}
	if f.Day != nil {
		base.Day = f.Day
	}
	return base
}

// Add adds the date part of dur; whole days of its time part count too.
func (d CivilDate) Add(dur duration.Duration, overflow calendar.Overflow) (CivilDate, error) {
	in := toInternal24(dur)
	days, _ := in.time.TruncDays()
	dd := in.date
	dd.days = days
	date, err := calendarAdd(d.Calendar(), d.date, dd, overflow)
	if err != nil {
		return CivilDate{}, err
	}
	return newCivilDate("temporal.CivilDate.Add", date, d.cal)
}

func (d CivilDate) Subtract(dur duration.Duration, overflow calendar.Overflow) (CivilDate, error) {
	return d.Add(dur.Negated(), overflow)
}

// Until returns the duration from d to o in date units, day by default.
func (d CivilDate) Until(o CivilDate, opts duration.RoundingOptions) (duration.Duration, error) {
	return d.difference(o, opts, false)
}

// Since returns the duration from o to d.
func (d CivilDate) Since(o CivilDate, opts duration.RoundingOptions) (duration.Duration, error) {
	return d.difference(o, opts, true)
}

func (d CivilDate) difference(o CivilDate, opts duration.RoundingOptions, since bool) (duration.Duration, error) {
	const op = "temporal.CivilDate.Until"
	cal := d.Calendar()
	if !sameCalendar(cal, o.Calendar()) {
		return duration.Duration{}, failure.Rangef(op, "calendars %s and %s differ", cal.ID(), o.Calendar().ID())
	}
	r, err := opts.Difference(duration.DateUnits, duration.Day, duration.Day, since)
	if err != nil {
		return duration.Duration{}, err
	}
	if iso.CompareDate(d.date, o.date) == 0 {
		return duration.Duration{}, nil
	}
	dd, err := cal.DateUntil(d.date, o.date, r.LargestUnit)
	if err != nil {
		return duration.Duration{}, err
	}
	res := internalDuration{date: dateDurationOf(dd)}
	if r.SmallestUnit != duration.Day || r.Increment != 1 {
		start := iso.DateTime{Date: d.date, Time: iso.Midnight}
		end := iso.DateTime{Date: o.date, Time: iso.Midnight}
		dest, err := utcSpan(end)
		if err != nil {
			return duration.Duration{}, err
		}
		if res, err = roundRelative(res, dest, anchor{dt: start, cal: cal}, r); err != nil {
			return duration.Duration{}, err
		}
	}
	out, err := res.result(duration.Day)
	if err != nil {
		return duration.Duration{}, err
	}
	if since {
		out = out.Negated()
	}
	return out, nil
}

// Compare orders by ISO date alone; the calendar is ignored.
func (d CivilDate) Compare(o CivilDate) int { return iso.CompareDate(d.date, o.date) }

// Equal reports whether d and o are the same date in the same calendar.
func (d CivilDate) Equal(o CivilDate) bool {
	return d.date == o.date && sameCalendar(d.Calendar(), o.Calendar())
}

// At joins d with a time of day.
func (d CivilDate) At(t CivilTime) (CivilDateTime, error) {
	return newCivilDateTime("temporal.CivilDate.At", iso.DateTime{Date: d.date, Time: t.t}, d.cal)
}

// StartOfDayIn returns the first moment of d in tz.
func (d CivilDate) StartOfDayIn(tz timezone.TimeZone) (ZonedMoment, error) {
	i, err := timezone.StartOfDay(tz, d.date)
	if err != nil {
		return ZonedMoment{}, err
	}
	return newZonedMoment("temporal.CivilDate.StartOfDayIn", i, tz, d.cal)
}

func (d CivilDate) String() string {
	s, _ := d.Format(StringOptions{})
	return s
}

// Format writes the date with the calendar annotation o asks for.
func (d CivilDate) Format(o StringOptions) (string, error) {
	return isostring.FormatDate(d.date) + isostring.FormatCalendar(d.Calendar().ID(), o.CalendarName), nil
}
