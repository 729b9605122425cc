package timeenc

import (
	"errors"
	"fmt"
)

// ErrInvalidTime is returned when clock fields are out of range.
var ErrInvalidTime = errors.New("timeenc: invalid time")

// TimeOfDay is a second-of-day count in [0, SecondsInDay).
type TimeOfDay int32

// NewTimeOfDay validates hour, minute and second and packs them.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidTime, hour, minute, second)
	}
	return TimeOfDay(hour*SecondsInHour + minute*SecondsInMinute + second), nil
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / SecondsInHour }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return (int(t) % SecondsInHour) / SecondsInMinute }

// Second returns the second component.
func (t TimeOfDay) Second() int { return int(t) % SecondsInMinute }

// IsValid reports whether the value is a representable second of day.
func (t TimeOfDay) IsValid() bool { return t >= 0 && int(t) < SecondsInDay }

// String formats the time as hh:mm:ss.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}
