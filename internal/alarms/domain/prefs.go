package domain

import "alarmd/internal/timeenc"

// VolumeButtonBehavior selects what a volume key press does while an alarm
// rings.
type VolumeButtonBehavior int

const (
	VolumeButtonNone VolumeButtonBehavior = iota
	VolumeButtonSnooze
	VolumeButtonDismiss
)

// String returns the wire name of the behavior.
func (b VolumeButtonBehavior) String() string {
	switch b {
	case VolumeButtonNone:
		return "none"
	case VolumeButtonSnooze:
		return "snooze"
	case VolumeButtonDismiss:
		return "dismiss"
	default:
		return "unknown"
	}
}

// ParseVolumeButtonBehavior resolves a wire name to a behavior.
func ParseVolumeButtonBehavior(name string) (VolumeButtonBehavior, bool) {
	switch name {
	case "none":
		return VolumeButtonNone, true
	case "snooze":
		return VolumeButtonSnooze, true
	case "dismiss":
		return VolumeButtonDismiss, true
	default:
		return 0, false
	}
}

// DeletionReason is a bitmask recording why the consistency sweep purged
// alarms since the user last acknowledged the warning. Multiple causes can
// accumulate before acknowledgment.
type DeletionReason uint32

const (
	DeletionReasonNone      DeletionReason = 0
	DeletionReasonDeviceOff DeletionReason = 1 << 0
)

// Has reports whether the mask contains reason.
func (r DeletionReason) Has(reason DeletionReason) bool { return r&reason != 0 }

// defaultMostUsedAlarms matches the compact encoding "001500300100":
// 00:15, 00:30 and 01:00.
var defaultMostUsedAlarms = []timeenc.HourMinute{15, 30, 60}

// Preferences is the persisted user preference set.
type Preferences struct {
	SnoozeDurationMinutes          int
	SilenceAfterMinutes            int
	VolumeButtonBehavior           VolumeButtonBehavior
	DeletionReason                 DeletionReason
	ExactAlarmDialogNeverShowAgain bool
	MostUsedAlarms                 []timeenc.HourMinute
}

// DefaultPreferences returns the preference values used before the user
// changes anything.
func DefaultPreferences() Preferences {
	return Preferences{
		SnoozeDurationMinutes: 10,
		SilenceAfterMinutes:   10,
		VolumeButtonBehavior:  VolumeButtonNone,
		DeletionReason:        DeletionReasonNone,
		MostUsedAlarms:        append([]timeenc.HourMinute(nil), defaultMostUsedAlarms...),
	}
}
