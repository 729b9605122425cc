package timeenc

import (
	"fmt"
	"strings"
)

// HourMinute is an hour and minute pair stored as a minute-of-day count.
type HourMinute int32

// NewHourMinute validates hour and minute and packs them.
func NewHourMinute(hour, minute int) (HourMinute, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, hour, minute)
	}
	return HourMinute(hour*60 + minute), nil
}

// Hour returns the hour component.
func (hm HourMinute) Hour() int { return int(hm) / 60 }

// Minute returns the minute component.
func (hm HourMinute) Minute() int { return int(hm) % 60 }

// TotalMinutes returns the minute of day in [0, MinutesInDay).
func (hm HourMinute) TotalMinutes() int { return int(hm) }

// IsValid reports whether the value is a representable minute of day.
func (hm HourMinute) IsValid() bool { return hm >= 0 && int(hm) < MinutesInDay }

// String formats the pair as hh:mm.
func (hm HourMinute) String() string {
	return fmt.Sprintf("%02d:%02d", hm.Hour(), hm.Minute())
}

// ParseHourMinute parses "hh:mm".
func ParseHourMinute(text string) (HourMinute, error) {
	if len(text) != 5 || text[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, text)
	}
	hour := twoDigits(text[0], text[1])
	minute := twoDigits(text[3], text[4])
	if hour < 0 || minute < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, text)
	}
	return NewHourMinute(hour, minute)
}

// EncodeHourMinutes renders pairs in the compact fixed-width form used by
// the most-used-alarms preference: four decimal digits per pair, "hhmm",
// concatenated without separators.
func EncodeHourMinutes(pairs []HourMinute) string {
	var sb strings.Builder
	sb.Grow(len(pairs) * 4)
	for _, hm := range pairs {
		fmt.Fprintf(&sb, "%02d%02d", hm.Hour(), hm.Minute())
	}
	return sb.String()
}

// DecodeHourMinutes parses the compact fixed-width encoding produced by
// EncodeHourMinutes.
func DecodeHourMinutes(raw string) ([]HourMinute, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: packed hour/minute list %q", ErrInvalidTime, raw)
	}
	pairs := make([]HourMinute, 0, len(raw)/4)
	for i := 0; i < len(raw); i += 4 {
		hour := twoDigits(raw[i], raw[i+1])
		minute := twoDigits(raw[i+2], raw[i+3])
		if hour < 0 || minute < 0 {
			return nil, fmt.Errorf("%w: packed hour/minute list %q", ErrInvalidTime, raw)
		}
		hm, err := NewHourMinute(hour, minute)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, hm)
	}
	return pairs, nil
}

// twoDigits parses two ASCII digits, returning -1 on any non-digit.
func twoDigits(hi, lo byte) int {
	if hi < '0' || hi > '9' || lo < '0' || lo > '9' {
		return -1
	}
	return int(hi-'0')*10 + int(lo-'0')
}
