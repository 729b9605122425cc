package timeenc

import "fmt"

// NextOccurrenceOfMinute computes the next absolute UTC instant at which
// the local wall clock reads minuteOfDay, given the current UTC instant
// and the zone offset in effect right now. If the local clock is at or
// past the target minute the occurrence rolls to tomorrow; an alarm set
// for the current minute must never fire instantly.
func NextOccurrenceOfMinute(minuteOfDay int, nowEpochSeconds int64, zoneOffsetSeconds int) (int64, error) {
	if minuteOfDay < 0 || minuteOfDay >= MinutesInDay {
		return 0, fmt.Errorf("%w: minute of day %d", ErrInvalidTime, minuteOfDay)
	}

	zonedNow := nowEpochSeconds + int64(zoneOffsetSeconds)
	nowEpochDay := FloorDiv(zonedNow, SecondsInDay)
	nowSecondOfDay := zonedNow - nowEpochDay*SecondsInDay
	targetSecondOfDay := int64(minuteOfDay) * SecondsInMinute

	var zonedResult int64
	if nowSecondOfDay >= targetSecondOfDay {
		zonedResult = (nowEpochDay+1)*SecondsInDay + targetSecondOfDay
	} else {
		zonedResult = nowEpochDay*SecondsInDay + targetSecondOfDay
	}

	return zonedResult - int64(zoneOffsetSeconds), nil
}

// InstantAfterMinutes returns the UTC instant minutes from now. No calendar
// math is involved.
func InstantAfterMinutes(minutes int, nowEpochSeconds int64) int64 {
	return nowEpochSeconds + int64(minutes)*SecondsInMinute
}
