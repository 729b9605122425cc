package application

import (
	"context"
	"fmt"

	"alarmd/internal/alarms/domain"
	"alarmd/internal/observability/metrics"
	"alarmd/internal/timeenc"
)

// SweepTrigger identifies what caused a consistency sweep.
type SweepTrigger int

const (
	// SweepOnBoot runs after the process (or device) came back up; platform
	// wake-timers do not survive that, and purged alarms are blamed on the
	// device being off.
	SweepOnBoot SweepTrigger = iota
	// SweepOnPermissionChange runs when the exact-wake privilege flipped.
	// No time is assumed to have passed, so nothing is purged.
	SweepOnPermissionChange
	// SweepOnMaintenance runs on an explicit maintenance signal.
	SweepOnMaintenance
)

// String returns the metric label of the trigger.
func (t SweepTrigger) String() string {
	switch t {
	case SweepOnBoot:
		return "boot"
	case SweepOnPermissionChange:
		return "permission_change"
	case SweepOnMaintenance:
		return "maintenance"
	default:
		return "unknown"
	}
}

// SweepReport summarizes one sweep run.
type SweepReport struct {
	// Purged lists the ids removed because their fire time had passed.
	Purged []int64
	// Reregistered counts alarms whose wake-up was re-established.
	Reregistered int
	// Failures counts per-alarm scheduler errors tolerated by the run.
	Failures int
}

// Sweep reconciles the alarm store with the wake scheduler: stale alarms
// are purged and every remaining alarm is re-registered. Per-alarm
// scheduler failures do not abort the run; the first one is returned after
// the full fan-out so a caller can report it.
func (s *Service) Sweep(ctx context.Context, trigger SweepTrigger) (SweepReport, error) {
	var report SweepReport
	var firstErr error

	if trigger != SweepOnPermissionChange {
		now := s.clock.Now()
		// The purge threshold is derived from the local wall clock, not
		// pure UTC; fire times at or past the local "now" count as stale.
		threshold := timeenc.ZonedEpochSeconds(now.Unix(), zoneOffsetSeconds(now))

		ids, err := s.store.IDsBefore(ctx, threshold)
		if err != nil {
			metrics.ObserveSweep(trigger.String(), metrics.ResultError, 0, 0, 0)
			return report, fmt.Errorf("sweep: %w", err)
		}
		count, err := s.store.DeleteBefore(ctx, threshold)
		if err != nil {
			metrics.ObserveSweep(trigger.String(), metrics.ResultError, 0, 0, 0)
			return report, fmt.Errorf("sweep: %w", err)
		}
		if count > 0 && trigger == SweepOnBoot {
			if err := s.prefs.AddDeletionReason(ctx, domain.DeletionReasonDeviceOff); err != nil {
				// The warning flag is advisory; losing it must not stop
				// the reconciliation.
				s.logger.Printf("sweep: recording deletion reason failed: %v", err)
			}
		}

		report.Purged = ids
		for _, id := range ids {
			if err := s.scheduler.Cancel(id); err != nil {
				report.Failures++
				if firstErr == nil {
					firstErr = fmt.Errorf("sweep: cancel alarm %d: %w", id, err)
				}
				s.logger.Printf("sweep: cancel purged alarm %d: %v", id, err)
			}
		}
		if count > 0 {
			s.logger.Printf("sweep: purged %d stale alarm(s)", count)
		}
	}

	remaining, err := s.store.GetAll(ctx)
	if err != nil {
		metrics.ObserveSweep(trigger.String(), metrics.ResultError, len(report.Purged), 0, report.Failures)
		return report, fmt.Errorf("sweep: %w", err)
	}

	// Re-registration is idempotent: rescheduling an alarm that lost its
	// platform timer (a reboot clears them all) restores it, rescheduling
	// one that kept it is a harmless overwrite.
	for _, alarm := range remaining {
		if err := s.scheduler.RescheduleForID(alarm.ID, alarm.FireAt); err != nil {
			report.Failures++
			if firstErr == nil {
				firstErr = fmt.Errorf("sweep: reschedule alarm %d: %w", alarm.ID, err)
			}
			s.logger.Printf("sweep: reschedule alarm %d: %v", alarm.ID, err)
			continue
		}
		report.Reregistered++
	}

	result := metrics.ResultSuccess
	if firstErr != nil {
		result = metrics.ResultError
	}
	metrics.ObserveSweep(trigger.String(), result, len(report.Purged), report.Reregistered, report.Failures)
	return report, firstErr
}
