package timeenc

// Shared calendar/clock constants.
const (
	SecondsInMinute = 60
	SecondsInHour   = 60 * SecondsInMinute
	SecondsInDay    = 24 * SecondsInHour

	MinutesInDay = 24 * 60

	// DaysPerCycle is the number of days in a 400-year Gregorian cycle.
	DaysPerCycle = 146097

	// Days0000To1970 is the number of days from year 0 to 1970-01-01.
	Days0000To1970 = DaysPerCycle*5 - (30*365 + 7)
)
