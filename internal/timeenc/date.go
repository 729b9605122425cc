package timeenc

import (
	"errors"
	"fmt"
)

// ErrInvalidDate is returned when calendar fields do not form a real date.
var ErrInvalidDate = errors.New("timeenc: invalid date")

const (
	// MaxYear bounds the supported year range.
	MaxYear = 32767

	// MaxEpochDay is the epoch day of 32767-12-31, the last representable date.
	MaxEpochDay = 11248738
)

// daysInMonthBits packs the day counts of the twelve months (non-leap) as
// 2-bit offsets from 28, January in the lowest bits.
const daysInMonthBits = 0xEEFBB3

var firstDayOfMonth = [12]int{1, 32, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335}

// Date is a calendar date packed into an int32: year<<16 | month<<8 | day.
// The zero value is not a valid date.
type Date int32

// NewDate validates the calendar fields and packs them into a Date.
func NewDate(year, month, day int) (Date, error) {
	if !isValidDate(year, month, day) {
		return 0, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	return packDate(year, month, day), nil
}

// DateOfEpochDay converts a count of days since 1970-01-01 back to a Date.
// The inverse of Date.EpochDay for every epoch day in [0, MaxEpochDay].
func DateOfEpochDay(epochDay int64) (Date, error) {
	if epochDay < 0 || epochDay > MaxEpochDay {
		return 0, fmt.Errorf("%w: epoch day %d out of range", ErrInvalidDate, epochDay)
	}

	zeroDay := epochDay + Days0000To1970
	// Shift to a cycle that starts on March 1 so leap days land at the end.
	zeroDay -= 60

	yearEst := (400*zeroDay + 591) / DaysPerCycle
	doyEst := zeroDay - (365*yearEst + yearEst/4 - yearEst/100 + yearEst/400)
	if doyEst < 0 {
		yearEst--
		doyEst = zeroDay - (365*yearEst + yearEst/4 - yearEst/100 + yearEst/400)
	}

	marchDoy0 := doyEst
	marchMonth0 := (marchDoy0*5 + 2) / 153
	month := (marchMonth0+2)%12 + 1
	day := marchDoy0 - (marchMonth0*306+5)/10 + 1
	yearEst += marchMonth0 / 10

	return packDate(int(yearEst), int(month), int(day)), nil
}

// Year returns the calendar year.
func (d Date) Year() int { return int(d >> 16) }

// Month returns the calendar month in [1, 12].
func (d Date) Month() int { return int(d>>8) & 0xFF }

// Day returns the day of month.
func (d Date) Day() int { return int(d) & 0xFF }

// EpochDay returns the number of days since 1970-01-01.
func (d Date) EpochDay() int64 {
	year := int64(d.Year())
	month := int64(d.Month())
	day := int64(d.Day())

	total := 365 * year
	total += (year+3)/4 - (year+99)/100 + (year+399)/400
	total += (367*month - 362) / 12
	total += day - 1

	if month > 2 {
		total--
		if !IsLeapYear(int(year)) {
			total--
		}
	}

	return total - Days0000To1970
}

// DayOfWeek returns the ISO day of week, 1 for Monday through 7 for Sunday.
func (d Date) DayOfWeek() int {
	return int(FloorMod(d.EpochDay()+3, 7)) + 1
}

// String formats the date as yyyy.mm.dd.
func (d Date) String() string {
	return fmt.Sprintf("%04d.%02d.%02d", d.Year(), d.Month(), d.Day())
}

// IsValid reports whether the packed bits form a real date.
func (d Date) IsValid() bool {
	return isValidDate(d.Year(), d.Month(), d.Day())
}

// IsLeapYear reports whether year is a leap year.
func IsLeapYear(year int) bool {
	return year&3 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the day count of month in year.
func DaysInMonth(year, month int) int {
	if IsLeapYear(year) && month == 2 {
		return 29
	}
	return daysInMonthNoLeap(month)
}

// FirstDayOfMonth returns the day of year of the first day of month.
func FirstDayOfMonth(year, month int) int {
	first := firstDayOfMonth[month-1]
	if IsLeapYear(year) && month > 2 {
		return first + 1
	}
	return first
}

func daysInMonthNoLeap(month int) int {
	return 28 + (daysInMonthBits>>((month-1)<<1))&0x3
}

func isValidDate(year, month, day int) bool {
	return year >= 0 && year <= MaxYear &&
		month >= 1 && month <= 12 &&
		day >= 1 && day <= DaysInMonth(year, month)
}

func packDate(year, month, day int) Date {
	return Date(year<<16 | month<<8 | day)
}
