package iso

import (
	"github.com/tzlist/civiltime/failure"
)

// IsValidTime reports whether the fields name a time of day in range.
func IsValidTime(t Time) bool {
	return t.Hour >= 0 && t.Hour <= 23 &&
		t.Minute >= 0 && t.Minute <= 59 &&
		t.Second >= 0 && t.Second <= 59 &&
		t.Millisecond >= 0 && t.Millisecond <= 999 &&
		t.Microsecond >= 0 && t.Microsecond <= 999 &&
		t.Nanosecond >= 0 && t.Nanosecond <= 999
}

// RegulateTime clamps each field into range when constrain is set and
// reports a Range error otherwise.
func RegulateTime(t Time, constrain bool) (Time, error) {
	if constrain {
		return Time{
			Hour:        clamp(t.Hour, 0, 23),
			Minute:      clamp(t.Minute, 0, 59),
			Second:      clamp(t.Second, 0, 59),
			Millisecond: clamp(t.Millisecond, 0, 999),
			Microsecond: clamp(t.Microsecond, 0, 999),
			Nanosecond:  clamp(t.Nanosecond, 0, 999),
		}, nil
	}
	if !IsValidTime(t) {
		return Time{}, failure.Rangef("iso.RegulateTime", "time %02d:%02d:%02d.%03d%03d%03d out of range",
			t.Hour, t.Minute, t.Second, t.Millisecond, t.Microsecond, t.Nanosecond)
	}
	return t, nil
}

// SecondOfDay returns the whole seconds since midnight.
func (t Time) SecondOfDay() int64 {
	return int64(t.Hour)*3600 + int64(t.Minute)*60 + int64(t.Second)
}

// SubsecondNanos returns the fraction of the second in nanoseconds.
func (t Time) SubsecondNanos() int64 {
	return int64(t.Millisecond)*1e6 + int64(t.Microsecond)*1e3 + int64(t.Nanosecond)
}

// NanosecondOfDay returns the nanoseconds since midnight.
func (t Time) NanosecondOfDay() int64 {
	return t.SecondOfDay()*1e9 + t.SubsecondNanos()
}

// TimeFromNanosecondOfDay builds a Time from 0 <= ns < NanosecondsPerDay.
func TimeFromNanosecondOfDay(ns int64) Time {
	sec := ns / 1e9
	sub := ns % 1e9
	return Time{
		Hour:        int(sec / 3600),
		Minute:      int(sec / 60 % 60),
		Second:      int(sec % 60),
		Millisecond: int(sub / 1e6),
		Microsecond: int(sub / 1e3 % 1000),
		Nanosecond:  int(sub % 1000),
	}
}

// AddTime adds sec seconds and nsec nanoseconds to t, wrapping around
// midnight. It returns the number of whole days carried and the new time.
func AddTime(t Time, sec, nsec int64) (days int64, out Time) {
	s := t.SecondOfDay() + sec + FloorDiv(t.SubsecondNanos()+nsec, 1e9)
	ns := FloorMod(t.SubsecondNanos()+nsec, 1e9)
	days = FloorDiv(s, SecondsPerDay)
	s = FloorMod(s, SecondsPerDay)
	return days, TimeFromNanosecondOfDay(s*1e9 + ns)
}

// DiffTime returns b - a as whole seconds and nanoseconds of the same sign.
func DiffTime(a, b Time) (sec, nsec int64) {
	sec = b.SecondOfDay() - a.SecondOfDay()
	nsec = b.SubsecondNanos() - a.SubsecondNanos()
	if sec > 0 && nsec < 0 {
		sec--
		nsec += 1e9
	} else if sec < 0 && nsec > 0 {
		sec++
		nsec -= 1e9
	}
	return sec, nsec
}

// CompareTime returns -1, 0 or 1.
func CompareTime(a, b Time) int {
	x, y := a.NanosecondOfDay(), b.NanosecondOfDay()
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// CompareDateTime orders by date, then time.
func CompareDateTime(a, b DateTime) int {
	if c := CompareDate(a.Date, b.Date); c != 0 {
		return c
	}
	return CompareTime(a.Time, b.Time)
}

// EpochSeconds treats dt as UTC and returns its position on the timeline as
// seconds plus a non-negative nanosecond fraction.
func (dt DateTime) EpochSeconds() (sec int64, nsec int64) {
	return dt.Date.EpochDays()*SecondsPerDay + dt.Time.SecondOfDay(), dt.Time.SubsecondNanos()
}

// DateTimeFromEpochSeconds is the inverse of DateTime.EpochSeconds. nsec may
// have either sign.
func DateTimeFromEpochSeconds(sec, nsec int64) DateTime {
	sec += FloorDiv(nsec, 1e9)
	nsec = FloorMod(nsec, 1e9)
	days := FloorDiv(sec, SecondsPerDay)
	sod := FloorMod(sec, SecondsPerDay)
	return DateTime{
		Date: DateFromEpochDays(days),
		Time: TimeFromNanosecondOfDay(sod*1e9 + nsec),
	}
}

// AddDateTime shifts dt by sec seconds and nsec nanoseconds.
func AddDateTime(dt DateTime, sec, nsec int64) DateTime {
	days, t := AddTime(dt.Time, sec, nsec)
	return DateTime{Date: AddDays(dt.Date, days), Time: t}
}

// DateTimeWithinLimits reports whether dt, read as UTC, is no more than one
// day outside the instant range, so any real offset maps it into range.
func DateTimeWithinLimits(dt DateTime) bool {
	if !DateWithinLimits(dt.Date) {
		return false
	}
	days := dt.Date.EpochDays()
	if days == -MaxEpochDays-1 {
		return dt.Time.NanosecondOfDay() > 0
	}
	return true
}
