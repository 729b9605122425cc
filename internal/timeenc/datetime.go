package timeenc

import "fmt"

// DateTime packs a Date and a TimeOfDay into an int64:
// date bits in the high 32 bits, second of day in the low 32 bits.
type DateTime int64

// NewDateTime combines a date and a time of day.
func NewDateTime(date Date, timeOfDay TimeOfDay) (DateTime, error) {
	if !date.IsValid() {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDate, date)
	}
	if !timeOfDay.IsValid() {
		return 0, fmt.Errorf("%w: second of day %d", ErrInvalidTime, int(timeOfDay))
	}
	return DateTime(int64(date)<<32 | int64(timeOfDay)), nil
}

// DateTimeOfEpochSeconds converts a non-negative UTC instant in seconds
// since the epoch to its calendar representation.
func DateTimeOfEpochSeconds(epochSeconds int64) (DateTime, error) {
	if epochSeconds < 0 {
		return 0, fmt.Errorf("%w: negative epoch seconds %d", ErrInvalidTime, epochSeconds)
	}

	epochDay := epochSeconds / SecondsInDay
	secondOfDay := epochSeconds - epochDay*SecondsInDay

	date, err := DateOfEpochDay(epochDay)
	if err != nil {
		return 0, err
	}
	return DateTime(int64(date)<<32 | secondOfDay), nil
}

// Date returns the calendar date part.
func (dt DateTime) Date() Date { return Date(dt >> 32) }

// TimeOfDay returns the clock part.
func (dt DateTime) TimeOfDay() TimeOfDay { return TimeOfDay(int32(dt)) }

// EpochSeconds returns the UTC instant in seconds since the epoch.
func (dt DateTime) EpochSeconds() int64 {
	return dt.Date().EpochDay()*SecondsInDay + int64(dt.TimeOfDay())
}

// String formats the date-time as "yyyy.mm.dd hh:mm:ss".
func (dt DateTime) String() string {
	return dt.Date().String() + " " + dt.TimeOfDay().String()
}

// ZonedEpochSeconds shifts a UTC instant by a zone offset, producing the
// wall-clock-derived count used when comparing against local thresholds.
func ZonedEpochSeconds(epochSeconds int64, zoneOffsetSeconds int) int64 {
	return epochSeconds + int64(zoneOffsetSeconds)
}
