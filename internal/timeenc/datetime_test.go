package timeenc

import (
	"errors"
	"testing"
)

func TestDateTimeOfEpochSecondsRoundTrip(t *testing.T) {
	for _, epochSeconds := range []int64{0, 1, SecondsInDay - 1, SecondsInDay, 951782400, 1700000000} {
		dt, err := DateTimeOfEpochSeconds(epochSeconds)
		if err != nil {
			t.Fatalf("date time of %d: %v", epochSeconds, err)
		}
		if got := dt.EpochSeconds(); got != epochSeconds {
			t.Fatalf("round trip %d: got %d (%v)", epochSeconds, got, dt)
		}
	}
}

func TestDateTimeOfEpochSecondsRejectsNegative(t *testing.T) {
	if _, err := DateTimeOfEpochSeconds(-1); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("negative epoch seconds: got %v, want ErrInvalidTime", err)
	}
}

func TestDateTimeComponents(t *testing.T) {
	// 2000-02-29 12:30:45 UTC.
	epochSeconds := int64(11016)*SecondsInDay + 12*SecondsInHour + 30*SecondsInMinute + 45
	dt, err := DateTimeOfEpochSeconds(epochSeconds)
	if err != nil {
		t.Fatalf("date time: %v", err)
	}
	if got := dt.String(); got != "2000.02.29 12:30:45" {
		t.Fatalf("string: got %q", got)
	}
}

func TestZonedEpochSeconds(t *testing.T) {
	if got := ZonedEpochSeconds(1000, 3600); got != 4600 {
		t.Fatalf("zoned epoch seconds: got %d", got)
	}
	if got := ZonedEpochSeconds(1000, -600); got != 400 {
		t.Fatalf("zoned epoch seconds negative offset: got %d", got)
	}
}
