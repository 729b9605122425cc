package domain

// Alarm is a pending one-shot alarm. IDs are assigned by the store and are
// monotonically increasing; FireAt is the absolute UTC instant in seconds
// since the epoch at which the alarm must fire.
type Alarm struct {
	ID     int64 `json:"id"`
	FireAt int64 `json:"fire_at_epoch_seconds"`
}

// Mode tags how a requested value is turned into a fire instant.
type Mode int

const (
	// ModeFromNow interprets the value as a duration in minutes added to now.
	ModeFromNow Mode = iota
	// ModeExactAt interprets the value as a local minute of day; the next
	// local occurrence (today or tomorrow) is scheduled.
	ModeExactAt
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeFromNow:
		return "from_now"
	case ModeExactAt:
		return "exact_at"
	default:
		return "unknown"
	}
}

// ParseMode resolves a wire name to a Mode.
func ParseMode(name string) (Mode, bool) {
	switch name {
	case "from_now":
		return ModeFromNow, true
	case "exact_at":
		return ModeExactAt, true
	default:
		return 0, false
	}
}

// State is an alarm lifecycle transition broadcast to observers. There is
// no persisted history; delivery is best-effort and at most once.
type State int

const (
	StateScheduled State = iota
	StateFired
	StateDismissed
	StateSnoozed
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateScheduled:
		return "scheduled"
	case StateFired:
		return "fired"
	case StateDismissed:
		return "dismissed"
	case StateSnoozed:
		return "snoozed"
	default:
		return "unknown"
	}
}
