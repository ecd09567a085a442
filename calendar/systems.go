package calendar

import (
	"github.com/tzlist/civiltime/iso"
)

// Calendar identifiers of the built-in calendars.
const (
	ISO8601  = "iso8601"
	Gregory  = "gregory"
	Buddhist = "buddhist"
	ROC      = "roc"
	Japanese = "japanese"
	Coptic   = "coptic"
	Ethiopic = "ethiopic"
)

// gregorianSystem numbers ISO years with a fixed offset.
type gregorianSystem struct {
	offset int
	eras   func(y int, d iso.Date) (string, int)
	byEra  func(era string, eraYear int) (int, bool)
}

func (s gregorianSystem) fromISO(d iso.Date) (int, int, int) {
	return d.Year + s.offset, d.Month, d.Day
}

func (s gregorianSystem) toISO(y, m, d int) iso.Date {
	return iso.Date{Year: y - s.offset, Month: m, Day: d}
}

func (s gregorianSystem) monthsInYear(int) int { return 12 }

func (s gregorianSystem) daysInMonth(y, m int) int { return iso.DaysInMonth(y-s.offset, m) }

func (s gregorianSystem) inLeapYear(y int) bool { return iso.IsLeapYear(y - s.offset) }

func (s gregorianSystem) era(y int, d iso.Date) (string, int) {
	if s.eras == nil {
		return "", 0
	}
	return s.eras(y, d)
}

func (s gregorianSystem) yearFromEra(era string, eraYear int) (int, bool) {
	if s.byEra == nil {
		return 0, false
	}
	return s.byEra(era, eraYear)
}

// twoEras numbers years >= 1 in the first era and the rest backwards from 1
// in the second.
func twoEras(after, before string) (func(int, iso.Date) (string, int), func(string, int) (int, bool)) {
	eras := func(y int, _ iso.Date) (string, int) {
		if y > 0 {
			return after, y
		}
		return before, 1 - y
	}
	byEra := func(era string, eraYear int) (int, bool) {
		switch era {
		case after:
			return eraYear, true
		case before:
			return 1 - eraYear, true
		}
		return 0, false
	}
	return eras, byEra
}

type japaneseEra struct {
	name  string
	start iso.Date
}

// japaneseEras lists the modern eras, newest first.
var japaneseEras = []japaneseEra{
	{"reiwa", iso.Date{Year: 2019, Month: 5, Day: 1}},
	{"heisei", iso.Date{Year: 1989, Month: 1, Day: 8}},
	{"showa", iso.Date{Year: 1926, Month: 12, Day: 25}},
	{"taisho", iso.Date{Year: 1912, Month: 7, Day: 30}},
	{"meiji", iso.Date{Year: 1868, Month: 9, Day: 8}},
}

func japaneseEraOf(y int, d iso.Date) (string, int) {
	for _, e := range japaneseEras {
		if iso.CompareDate(d, e.start) >= 0 {
			return e.name, y - e.start.Year + 1
		}
	}
	if y > 0 {
		return "ce", y
	}
	return "bce", 1 - y
}

func japaneseYearFromEra(era string, eraYear int) (int, bool) {
	for _, e := range japaneseEras {
		if e.name == era {
			return e.start.Year + eraYear - 1, true
		}
	}
	switch era {
	case "ce":
		return eraYear, true
	case "bce":
		return 1 - eraYear, true
	}
	return 0, false
}

// copticSystem covers the Coptic and Ethiopic calendars: twelve months of
// 30 days and a thirteenth of 5 days, 6 in years where y mod 4 == 3.
type copticSystem struct {
	epoch int64 // ISO epoch days of 1-01-01
	eras  func(y int) (string, int)
	byEra func(era string, eraYear int) (int, bool)
}

func (s copticSystem) daysBeforeYear(y int) int64 {
	yy := int64(y)
	return (yy-1)*365 + iso.FloorDiv(yy, 4)
}

func (s copticSystem) fromISO(d iso.Date) (int, int, int) {
	n := d.EpochDays() - s.epoch
	y := int(iso.FloorDiv(4*n+1463, 1461))
	doy := int(n - s.daysBeforeYear(y))
	return y, doy/30 + 1, doy%30 + 1
}

func (s copticSystem) toISO(y, m, d int) iso.Date {
	return iso.DateFromEpochDays(s.epoch + s.daysBeforeYear(y) + int64(m-1)*30 + int64(d-1))
}

func (s copticSystem) monthsInYear(int) int { return 13 }

func (s copticSystem) daysInMonth(y, m int) int {
	if m < 13 {
		return 30
	}
	if s.inLeapYear(y) {
		return 6
	}
	return 5
}

func (s copticSystem) inLeapYear(y int) bool { return iso.FloorMod(y, 4) == 3 }

func (s copticSystem) era(y int, _ iso.Date) (string, int) { return s.eras(y) }

func (s copticSystem) yearFromEra(era string, eraYear int) (int, bool) {
	return s.byEra(era, eraYear)
}

// isoSystem is the proleptic Gregorian calendar itself.
var isoSystem = gregorianSystem{}

func newBuiltin(id string, sys system) Calendar {
	return &engine{id: id, sys: sys}
}

func builtins() []Calendar {
	gregEras, gregByEra := twoEras("ce", "bce")
	rocEras, rocByEra := twoEras("roc", "broc")
	ethEras := func(y int) (string, int) {
		if y > 0 {
			return "am", y
		}
		return "aa", y + 5500
	}
	ethByEra := func(era string, eraYear int) (int, bool) {
		switch era {
		case "am":
			return eraYear, true
		case "aa":
			return eraYear - 5500, true
		}
		return 0, false
	}
	return []Calendar{
		newBuiltin(ISO8601, isoSystem),
		newBuiltin(Gregory, gregorianSystem{eras: gregEras, byEra: gregByEra}),
		newBuiltin(Buddhist, gregorianSystem{
			offset: 543,
			eras:   func(y int, _ iso.Date) (string, int) { return "be", y },
			byEra: func(era string, eraYear int) (int, bool) {
				return eraYear, era == "be"
			},
		}),
		newBuiltin(ROC, gregorianSystem{offset: -1911, eras: rocEras, byEra: rocByEra}),
		newBuiltin(Japanese, gregorianSystem{eras: japaneseEraOf, byEra: japaneseYearFromEra}),
		newBuiltin(Coptic, copticSystem{
			epoch: iso.EpochDays(284, 8, 29),
			eras:  func(y int) (string, int) { return "am", y },
			byEra: func(era string, eraYear int) (int, bool) {
				return eraYear, era == "am"
			},
		}),
		newBuiltin(Ethiopic, copticSystem{
			epoch: iso.EpochDays(8, 8, 27),
			eras:  ethEras,
			byEra: ethByEra,
		}),
	}
}
