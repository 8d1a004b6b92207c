package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateKind classifies how a FlexDate is encoded.
type DateKind int

const (
	DateEmpty DateKind = iota
	DateFull
	DateYearOnly
	DateMonthDay
	DateLunar
	DateUnknown
)

// LunarPrefix marks a lunar-calendar date. Lunar dates are stored verbatim
// and never used in arithmetic.
const LunarPrefix = "lunar:"

var (
	reFullDate = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	reYearOnly = regexp.MustCompile(`^(\d{4})$`)
	reMonthDay = regexp.MustCompile(`^--(\d{2})-(\d{2})$`)
	reDisplay  = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})(?:[/-](\d{1,4}))?$`)
)

// FlexDate is a birth or death date that may be partial.
//
//	""            empty
//	"1950-03-15"  full calendar date
//	"1950"        year only
//	"--03-15"     month and day, year unknown
//	"lunar:..."   lunar-calendar marker, opaque
//
// Anything else is kept as-is and reported as DateUnknown.
type FlexDate string

// Kind returns the encoding of d.
func (d FlexDate) Kind() DateKind {
	s := strings.TrimSpace(string(d))
	switch {
	case s == "":
		return DateEmpty
	case strings.HasPrefix(strings.ToLower(s), LunarPrefix):
		return DateLunar
	}
	if _, _, _, ok := d.parts(); ok {
		if reFullDate.MatchString(s) {
			return DateFull
		}
		return DateMonthDay
	}
	if reYearOnly.MatchString(s) {
		return DateYearOnly
	}
	return DateUnknown
}

// IsEmpty reports whether no date is recorded.
func (d FlexDate) IsEmpty() bool {
	return strings.TrimSpace(string(d)) == ""
}

// parts extracts year, month and day for full and month-day dates.
// year is 0 for month-day dates.
func (d FlexDate) parts() (year int, month time.Month, day int, ok bool) {
	s := strings.TrimSpace(string(d))
	if m := reFullDate.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		dd, _ := strconv.Atoi(m[3])
		if !validDay(y, mo, dd) {
			return 0, 0, 0, false
		}
		return y, time.Month(mo), dd, true
	}
	if m := reMonthDay.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[1])
		dd, _ := strconv.Atoi(m[2])
		// 2000 is a leap year so 29 February is accepted.
		if !validDay(2000, mo, dd) {
			return 0, 0, 0, false
		}
		return 0, time.Month(mo), dd, true
	}
	return 0, 0, 0, false
}

func validDay(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && int(t.Month()) == month && t.Day() == day
}

// Year returns the year for full and year-only dates.
func (d FlexDate) Year() (int, bool) {
	switch d.Kind() {
	case DateFull:
		y, _, _, _ := d.parts()
		return y, true
	case DateYearOnly:
		y, _ := strconv.Atoi(strings.TrimSpace(string(d)))
		return y, true
	}
	return 0, false
}

// MonthDay returns month and day for full and month-day dates.
func (d FlexDate) MonthDay() (time.Month, int, bool) {
	_, m, day, ok := d.parts()
	return m, day, ok
}

// Time returns the calendar date at midnight in loc for full dates.
func (d FlexDate) Time(loc *time.Location) (time.Time, bool) {
	if d.Kind() != DateFull {
		return time.Time{}, false
	}
	y, m, day, _ := d.parts()
	return time.Date(y, m, day, 0, 0, 0, 0, loc), true
}

// FormatDisplay renders d as dd/MM/yyyy, dd/MM or yyyy. Lunar and unknown
// values are returned unchanged.
func (d FlexDate) FormatDisplay() string {
	switch d.Kind() {
	case DateEmpty:
		return ""
	case DateFull:
		y, m, day, _ := d.parts()
		return fmt.Sprintf("%02d/%02d/%04d", day, int(m), y)
	case DateMonthDay:
		_, m, day, _ := d.parts()
		return fmt.Sprintf("%02d/%02d", day, int(m))
	case DateYearOnly:
		return strings.TrimSpace(string(d))
	}
	return string(d)
}

// ParseDisplayDate accepts dd/MM/yyyy, dd-MM-yyyy, dd/MM, yyyy, ISO dates and
// lunar markers. Two-digit years pivot at 50: 49 is 2049, 50 is 1950.
func ParseDisplayDate(input string) (FlexDate, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", nil
	}
	if k := FlexDate(s).Kind(); k != DateUnknown {
		return FlexDate(s), nil
	}
	m := reDisplay.FindStringSubmatch(s)
	if m == nil {
		return "", NewValidationError("date", "unrecognized date %q", input)
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if m[3] == "" {
		if !validDay(2000, month, day) {
			return "", NewValidationError("date", "invalid day or month in %q", input)
		}
		return FlexDate(fmt.Sprintf("--%02d-%02d", month, day)), nil
	}
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) <= 2 {
		if year >= 50 {
			year += 1900
		} else {
			year += 2000
		}
	}
	if !validDay(year, month, day) {
		return "", NewValidationError("date", "invalid calendar date %q", input)
	}
	return FlexDate(fmt.Sprintf("%04d-%02d-%02d", year, month, day)), nil
}

// NextOccurrence returns the next date on or after ref's calendar day that
// falls on d's month and day, and the number of days until it (0 means today).
// 29 February rolls to 1 March in non-leap years.
func (d FlexDate) NextOccurrence(ref time.Time) (time.Time, int, bool) {
	month, day, ok := d.MonthDay()
	if !ok {
		return time.Time{}, 0, false
	}
	loc := ref.Location()
	today := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
	next := time.Date(ref.Year(), month, day, 0, 0, 0, 0, loc)
	if next.Before(today) {
		next = time.Date(ref.Year()+1, month, day, 0, 0, 0, 0, loc)
	}
	return next, daysBetween(today, next), true
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// Age returns the age in whole years of someone born on d, measured at death
// when death is set, otherwise at now. Year-only dates give a year difference.
// ok is false when either end cannot be computed or the result is negative.
func (d FlexDate) Age(death FlexDate, now time.Time) (int, bool) {
	by, ok := d.Year()
	if !ok {
		return 0, false
	}

	endYear, endMonth, endDay := now.Year(), now.Month(), now.Day()
	endPrecise := true
	if !death.IsEmpty() {
		switch death.Kind() {
		case DateFull:
			endYear, endMonth, endDay, _ = death.parts()
		case DateYearOnly:
			endYear, _ = death.Year()
			endPrecise = false
		default:
			return 0, false
		}
	}

	age := endYear - by
	if d.Kind() == DateFull && endPrecise {
		_, bm, bd, _ := d.parts()
		if endMonth < bm || (endMonth == bm && endDay < bd) {
			age--
		}
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}
