package calendar

import (
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/iso"
)

// Override is a Calendar that delegates to Base except for the methods
// whose function field is set. Replacing one method never changes the
// behavior of another: DateAdd on an Override calls Base.DateAdd even when
// Month is overridden.
type Override struct {
	Base Calendar

	IDFunc                  func() string
	DateFromFieldsFunc      func(f Fields, overflow Overflow) (iso.Date, error)
	YearMonthFromFieldsFunc func(f Fields, overflow Overflow) (iso.Date, error)
	MonthDayFromFieldsFunc  func(f Fields, overflow Overflow) (iso.Date, error)
	DateAddFunc             func(date iso.Date, d duration.Duration, overflow Overflow) (iso.Date, error)
	DateUntilFunc           func(a, b iso.Date, largest duration.Unit) (duration.Duration, error)
	EraFunc                 func(date iso.Date) (string, bool)
	EraYearFunc             func(date iso.Date) (int, bool)
	YearFunc                func(date iso.Date) int
	MonthFunc               func(date iso.Date) int
	MonthCodeFunc           func(date iso.Date) string
	DayFunc                 func(date iso.Date) int
	DayOfWeekFunc           func(date iso.Date) int
	DayOfYearFunc           func(date iso.Date) int
	WeekOfYearFunc          func(date iso.Date) (int, bool)
	YearOfWeekFunc          func(date iso.Date) (int, bool)
	DaysInWeekFunc          func(date iso.Date) int
	DaysInMonthFunc         func(date iso.Date) int
	DaysInYearFunc          func(date iso.Date) int
	MonthsInYearFunc        func(date iso.Date) int
	InLeapYearFunc          func(date iso.Date) bool
	FieldNamesFunc          func(names []string) []string
}

var _ Calendar = (*Override)(nil)

func (o *Override) ID() string {
	if o.IDFunc != nil {
		return o.IDFunc()
	}
	return o.Base.ID()
}

func (o *Override) DateFromFields(f Fields, overflow Overflow) (iso.Date, error) {
	if o.DateFromFieldsFunc != nil {
		return o.DateFromFieldsFunc(f, overflow)
	}
	return o.Base.DateFromFields(f, overflow)
}

func (o *Override) YearMonthFromFields(f Fields, overflow Overflow) (iso.Date, error) {
	if o.YearMonthFromFieldsFunc != nil {
		return o.YearMonthFromFieldsFunc(f, overflow)
	}
	return o.Base.YearMonthFromFields(f, overflow)
}

func (o *Override) MonthDayFromFields(f Fields, overflow Overflow) (iso.Date, error) {
	if o.MonthDayFromFieldsFunc != nil {
		return o.MonthDayFromFieldsFunc(f, overflow)
	}
	return o.Base.MonthDayFromFields(f, overflow)
}

func (o *Override) DateAdd(date iso.Date, d duration.Duration, overflow Overflow) (iso.Date, error) {
	if o.DateAddFunc != nil {
		return o.DateAddFunc(date, d, overflow)
	}
	return o.Base.DateAdd(date, d, overflow)
}

func (o *Override) DateUntil(a, b iso.Date, largest duration.Unit) (duration.Duration, error) {
	if o.DateUntilFunc != nil {
		return o.DateUntilFunc(a, b, largest)
	}
	return o.Base.DateUntil(a, b, largest)
}

func (o *Override) Era(date iso.Date) (string, bool) {
	if o.EraFunc != nil {
		return o.EraFunc(date)
	}
	return o.Base.Era(date)
}

func (o *Override) EraYear(date iso.Date) (int, bool) {
	if o.EraYearFunc != nil {
		return o.EraYearFunc(date)
	}
	return o.Base.EraYear(date)
}

func (o *Override) Year(date iso.Date) int {
	if o.YearFunc != nil {
		return o.YearFunc(date)
	}
	return o.Base.Year(date)
}

func (o *Override) Month(date iso.Date) int {
	if o.MonthFunc != nil {
		return o.MonthFunc(date)
	}
	return o.Base.Month(date)
}

func (o *Override) MonthCode(date iso.Date) string {
	if o.MonthCodeFunc != nil {
		return o.MonthCodeFunc(date)
	}
	return o.Base.MonthCode(date)
}

func (o *Override) Day(date iso.Date) int {
	if o.DayFunc != nil {
		return o.DayFunc(date)
	}
	return o.Base.Day(date)
}

func (o *Override) DayOfWeek(date iso.Date) int {
	if o.DayOfWeekFunc != nil {
		return o.DayOfWeekFunc(date)
	}
	return o.Base.DayOfWeek(date)
}

func (o *Override) DayOfYear(date iso.Date) int {
	if o.DayOfYearFunc != nil {
		return o.DayOfYearFunc(date)
	}
	return o.Base.DayOfYear(date)
}

func (o *Override) WeekOfYear(date iso.Date) (int, bool) {
	if o.WeekOfYearFunc != nil {
		return o.WeekOfYearFunc(date)
	}
	return o.Base.WeekOfYear(date)
}

func (o *Override) YearOfWeek(date iso.Date) (int, bool) {
	if o.YearOfWeekFunc != nil {
		return o.YearOfWeekFunc(date)
	}
	return o.Base.YearOfWeek(date)
}

func (o *Override) DaysInWeek(date iso.Date) int {
	if o.DaysInWeekFunc != nil {
		return o.DaysInWeekFunc(date)
	}
	return o.Base.DaysInWeek(date)
}

func (o *Override) DaysInMonth(date iso.Date) int {
	if o.DaysInMonthFunc != nil {
		return o.DaysInMonthFunc(date)
	}
	return o.Base.DaysInMonth(date)
}

func (o *Override) DaysInYear(date iso.Date) int {
	if o.DaysInYearFunc != nil {
		return o.DaysInYearFunc(date)
	}
	return o.Base.DaysInYear(date)
}

func (o *Override) MonthsInYear(date iso.Date) int {
	if o.MonthsInYearFunc != nil {
		return o.MonthsInYearFunc(date)
	}
	return o.Base.MonthsInYear(date)
}

func (o *Override) InLeapYear(date iso.Date) bool {
	if o.InLeapYearFunc != nil {
		return o.InLeapYearFunc(date)
	}
	return o.Base.InLeapYear(date)
}

func (o *Override) FieldNames(names []string) []string {
	if o.FieldNamesFunc != nil {
		return o.FieldNamesFunc(names)
	}
	return o.Base.FieldNames(names)
}
