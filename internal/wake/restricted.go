package wake

import "alarmd/internal/timeenc"

// RestrictedScheduler is the delegate for platforms where precise wake-ups
// sit behind a revocable privilege. While the privilege is held it behaves
// exactly like the wrapped timer scheduler; once revoked, wake-ups are
// coarsened to the configured interval instead of failing outright, the
// power-save-respecting fallback the platform offers.
type RestrictedScheduler struct {
	timers          *TimerScheduler
	gate            *PermissionGate
	intervalSeconds int64
}

// NewRestrictedScheduler wraps timers with the privilege gate. interval is
// the coarsening granularity in seconds used when the privilege is revoked.
func NewRestrictedScheduler(timers *TimerScheduler, gate *PermissionGate, intervalSeconds int64) *RestrictedScheduler {
	if intervalSeconds <= 0 {
		intervalSeconds = timeenc.SecondsInMinute
	}
	return &RestrictedScheduler{timers: timers, gate: gate, intervalSeconds: intervalSeconds}
}

// CanScheduleExact reports whether the privilege is currently held.
func (s *RestrictedScheduler) CanScheduleExact() bool {
	return s.gate.Allowed()
}

// ScheduleExact registers a wake-up for id, coarsened when the privilege
// is revoked.
func (s *RestrictedScheduler) ScheduleExact(id, fireAt int64) error {
	if !s.gate.Allowed() {
		fireAt = roundUp(fireAt, s.intervalSeconds)
	}
	return s.timers.ScheduleExact(id, fireAt)
}

// Cancel unregisters any wake-up for id.
func (s *RestrictedScheduler) Cancel(id int64) error {
	return s.timers.Cancel(id)
}

// RescheduleForID is Cancel followed by ScheduleExact.
func (s *RestrictedScheduler) RescheduleForID(id, fireAt int64) error {
	if err := s.Cancel(id); err != nil {
		return err
	}
	return s.ScheduleExact(id, fireAt)
}

// roundUp aligns instant to the next multiple of interval.
func roundUp(instant, interval int64) int64 {
	rem := timeenc.FloorMod(instant, interval)
	if rem == 0 {
		return instant
	}
	return instant + interval - rem
}
