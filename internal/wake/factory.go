package wake

import (
	"fmt"

	"alarmd/internal/alarms/domain"
)

// Scheduler modes selectable at startup.
const (
	// ModeExact uses the plain timer scheduler; exact wake-ups are always
	// permitted.
	ModeExact = "exact"
	// ModeRestricted puts exact wake-ups behind a revocable permission
	// gate with a coarsened fallback.
	ModeRestricted = "restricted"
)

// Config selects and parameterizes the scheduler implementation.
type Config struct {
	Mode string
	// ExactAllowed is the initial gate state in restricted mode.
	ExactAllowed bool
	// InexactIntervalSeconds is the coarsening granularity used while the
	// privilege is revoked.
	InexactIntervalSeconds int64
}

// New builds the wake scheduler once at startup. The returned TimerScheduler
// owns the timers and must be closed on shutdown; the gate is non-nil only
// in restricted mode.
func New(cfg Config, cb Callback, opts ...Option) (domain.WakeScheduler, *TimerScheduler, *PermissionGate, error) {
	timers, err := NewTimerScheduler(cb, opts...)
	if err != nil {
		return nil, nil, nil, err
	}

	switch cfg.Mode {
	case "", ModeExact:
		return timers, timers, nil, nil
	case ModeRestricted:
		gate := NewPermissionGate(cfg.ExactAllowed)
		return NewRestrictedScheduler(timers, gate, cfg.InexactIntervalSeconds), timers, gate, nil
	default:
		timers.Close()
		return nil, nil, nil, fmt.Errorf("wake: unknown scheduler mode %q", cfg.Mode)
	}
}
