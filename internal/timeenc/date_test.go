package timeenc

import (
	"errors"
	"testing"
)

func TestDateEpochDayRoundTrip(t *testing.T) {
	for _, epochDay := range []int64{0, 1, 58, 59, 60, 365, 11016, 19723, MaxEpochDay} {
		date, err := DateOfEpochDay(epochDay)
		if err != nil {
			t.Fatalf("date of epoch day %d: %v", epochDay, err)
		}
		if got := date.EpochDay(); got != epochDay {
			t.Fatalf("round trip epoch day %d: got %d (%v)", epochDay, got, date)
		}
	}

	// Sampled sweep over the full supported range.
	for epochDay := int64(0); epochDay <= MaxEpochDay; epochDay += 12347 {
		date, err := DateOfEpochDay(epochDay)
		if err != nil {
			t.Fatalf("date of epoch day %d: %v", epochDay, err)
		}
		if got := date.EpochDay(); got != epochDay {
			t.Fatalf("round trip epoch day %d: got %d (%v)", epochDay, got, date)
		}
	}
}

func TestDateOfEpochDayKnownDates(t *testing.T) {
	tests := []struct {
		epochDay         int64
		year, month, day int
	}{
		{0, 1970, 1, 1},
		{58, 1970, 2, 28},
		{59, 1970, 3, 1},
		{11016, 2000, 2, 29},
		{19723, 2024, 1, 1},
	}
	for _, tt := range tests {
		date, err := DateOfEpochDay(tt.epochDay)
		if err != nil {
			t.Fatalf("date of epoch day %d: %v", tt.epochDay, err)
		}
		if date.Year() != tt.year || date.Month() != tt.month || date.Day() != tt.day {
			t.Fatalf("epoch day %d: got %v, want %04d-%02d-%02d", tt.epochDay, date, tt.year, tt.month, tt.day)
		}
	}
}

func TestDateOfEpochDayOutOfRange(t *testing.T) {
	for _, epochDay := range []int64{-1, MaxEpochDay + 1} {
		if _, err := DateOfEpochDay(epochDay); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("epoch day %d: got %v, want ErrInvalidDate", epochDay, err)
		}
	}
}

func TestNewDateValidation(t *testing.T) {
	if _, err := NewDate(2024, 2, 29); err != nil {
		t.Fatalf("2024-02-29 should be valid: %v", err)
	}
	invalid := []struct{ year, month, day int }{
		{2023, 2, 29},
		{1900, 2, 29},
		{2024, 13, 1},
		{2024, 0, 1},
		{2024, 4, 31},
		{2024, 1, 0},
		{-1, 1, 1},
		{MaxYear + 1, 1, 1},
	}
	for _, tt := range invalid {
		if _, err := NewDate(tt.year, tt.month, tt.day); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%04d-%02d-%02d: got %v, want ErrInvalidDate", tt.year, tt.month, tt.day, err)
		}
	}
}

func TestDayOfWeek(t *testing.T) {
	tests := []struct {
		year, month, day int
		want             int
	}{
		{1970, 1, 1, 4}, // Thursday
		{2024, 1, 1, 1}, // Monday
		{2024, 1, 7, 7}, // Sunday
	}
	for _, tt := range tests {
		date, err := NewDate(tt.year, tt.month, tt.day)
		if err != nil {
			t.Fatalf("new date: %v", err)
		}
		if got := date.DayOfWeek(); got != tt.want {
			t.Fatalf("day of week of %v: got %d, want %d", date, got, tt.want)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	wantNoLeap := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	for month := 1; month <= 12; month++ {
		if got := DaysInMonth(2023, month); got != wantNoLeap[month-1] {
			t.Fatalf("days in 2023-%02d: got %d, want %d", month, got, wantNoLeap[month-1])
		}
	}
	if got := DaysInMonth(2024, 2); got != 29 {
		t.Fatalf("days in 2024-02: got %d, want 29", got)
	}
	if got := DaysInMonth(1900, 2); got != 28 {
		t.Fatalf("days in 1900-02: got %d, want 28", got)
	}
	if got := DaysInMonth(2000, 2); got != 29 {
		t.Fatalf("days in 2000-02: got %d, want 29", got)
	}
}

func TestFirstDayOfMonth(t *testing.T) {
	if got := FirstDayOfMonth(2023, 3); got != 60 {
		t.Fatalf("first day of 2023-03: got %d, want 60", got)
	}
	if got := FirstDayOfMonth(2024, 3); got != 61 {
		t.Fatalf("first day of 2024-03: got %d, want 61", got)
	}
}

func TestDateString(t *testing.T) {
	date, err := NewDate(2024, 7, 5)
	if err != nil {
		t.Fatalf("new date: %v", err)
	}
	if got := date.String(); got != "2024.07.05" {
		t.Fatalf("date string: got %q", got)
	}
}
