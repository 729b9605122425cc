package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"alarmd/internal/alarms/domain"
	"alarmd/internal/eventbus"
	"alarmd/internal/observability/metrics"
	"alarmd/internal/timeenc"
)

// Clock provides time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Service is the alarm orchestrator: the only component that talks to both
// the alarm store and the wake scheduler, and the owner of the invariant
// that every stored alarm has at most one wake registration under its id.
type Service struct {
	store     domain.Store
	prefs     domain.PreferenceStore
	scheduler domain.WakeScheduler
	bus       *eventbus.Broadcaster
	clock     Clock
	logger    *log.Logger
}

// ServiceOption customizes the service.
type ServiceOption func(*Service)

// WithClock assigns a clock.
func WithClock(clock Clock) ServiceOption {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithLogger assigns a logger.
func WithLogger(logger *log.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService constructs the orchestrator.
func NewService(store domain.Store, prefs domain.PreferenceStore, scheduler domain.WakeScheduler, bus *eventbus.Broadcaster, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("alarms: nil store")
	}
	if prefs == nil {
		return nil, errors.New("alarms: nil preference store")
	}
	if scheduler == nil {
		return nil, errors.New("alarms: nil wake scheduler")
	}
	if bus == nil {
		return nil, errors.New("alarms: nil broadcaster")
	}
	service := &Service{
		store:     store,
		prefs:     prefs,
		scheduler: scheduler,
		bus:       bus,
		clock:     systemClock{},
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// ScheduleAlarm computes the fire instant for the requested value under
// mode, persists the alarm and registers the wake-up. The store row is
// written first so a scheduler failure can be compensated by deleting it;
// the reverse order would leak a wake registration with no durable record,
// and the scheduler cannot be enumerated to find it again.
func (s *Service) ScheduleAlarm(ctx context.Context, value int, mode domain.Mode) (int64, error) {
	start := s.clock.Now()

	fireAt, err := s.fireInstant(value, mode, start)
	if err != nil {
		metrics.ObserveAlarmOp("schedule", metrics.ResultError, s.clock.Now().Sub(start))
		return 0, err
	}

	existing, err := s.store.GetAll(ctx)
	if err != nil {
		metrics.ObserveAlarmOp("schedule", metrics.ResultError, s.clock.Now().Sub(start))
		return 0, fmt.Errorf("schedule alarm: %w", err)
	}
	for _, alarm := range existing {
		if alarm.FireAt == fireAt {
			metrics.ObserveAlarmOp("schedule", metrics.ResultError, s.clock.Now().Sub(start))
			return 0, fmt.Errorf("%w: id %d fires at %d", domain.ErrAlreadyScheduled, alarm.ID, fireAt)
		}
	}

	id, err := s.store.Insert(ctx, fireAt)
	if err != nil {
		metrics.ObserveAlarmOp("schedule", metrics.ResultError, s.clock.Now().Sub(start))
		return 0, fmt.Errorf("schedule alarm: %w", err)
	}
	s.logger.Printf("alarm %d stored, registering wake-up at %d", id, fireAt)

	if err := s.scheduler.ScheduleExact(id, fireAt); err != nil {
		// Compensate: remove the row just written. The delete is best
		// effort and must not mask the scheduling failure; an orphaned
		// row never fires and ages out via the next sweep.
		if derr := s.store.DeleteByID(context.WithoutCancel(ctx), id); derr != nil {
			s.logger.Printf("alarm %d: wake registration failed and row cleanup failed: %v", id, derr)
		}
		metrics.ObserveAlarmOp("schedule", metrics.ResultError, s.clock.Now().Sub(start))
		return 0, fmt.Errorf("schedule alarm %d: %w", id, err)
	}

	s.bus.Publish(id, domain.StateScheduled)
	metrics.ObserveAlarmOp("schedule", metrics.ResultSuccess, s.clock.Now().Sub(start))
	return id, nil
}

// CancelAlarm unregisters the wake-up and removes the stored alarm, in
// that order: an interruption between the steps leaves a store row with no
// registration, which is recoverable by the sweep, whereas the reverse
// would leave a live wake-up for an alarm the store no longer knows.
func (s *Service) CancelAlarm(ctx context.Context, id int64) error {
	start := s.clock.Now()

	if err := s.scheduler.Cancel(id); err != nil {
		metrics.ObserveAlarmOp("cancel", metrics.ResultError, s.clock.Now().Sub(start))
		return fmt.Errorf("cancel alarm %d: %w", id, err)
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		metrics.ObserveAlarmOp("cancel", metrics.ResultError, s.clock.Now().Sub(start))
		return fmt.Errorf("cancel alarm %d: %w", id, err)
	}

	metrics.ObserveAlarmOp("cancel", metrics.ResultSuccess, s.clock.Now().Sub(start))
	return nil
}

// SnoozeAlarm reschedules a ringing alarm minutes from now, regardless of
// how the alarm was originally specified. minutes <= 0 falls back to the
// preferred snooze duration. The store is only updated after the scheduler
// confirms the new registration.
func (s *Service) SnoozeAlarm(ctx context.Context, id int64, minutes int) error {
	start := s.clock.Now()

	if minutes <= 0 {
		prefs, err := s.prefs.Load(ctx)
		if err != nil {
			metrics.ObserveAlarmOp("snooze", metrics.ResultError, s.clock.Now().Sub(start))
			return fmt.Errorf("snooze alarm %d: %w", id, err)
		}
		minutes = prefs.SnoozeDurationMinutes
	}

	fireAt := timeenc.InstantAfterMinutes(minutes, start.Unix())
	if err := s.scheduler.RescheduleForID(id, fireAt); err != nil {
		metrics.ObserveAlarmOp("snooze", metrics.ResultError, s.clock.Now().Sub(start))
		return fmt.Errorf("snooze alarm %d: %w", id, err)
	}
	if err := s.store.UpdateFireTime(ctx, id, fireAt); err != nil {
		metrics.ObserveAlarmOp("snooze", metrics.ResultError, s.clock.Now().Sub(start))
		return fmt.Errorf("snooze alarm %d: %w", id, err)
	}

	s.bus.Publish(id, domain.StateSnoozed)
	metrics.ObserveAlarmOp("snooze", metrics.ResultSuccess, s.clock.Now().Sub(start))
	return nil
}

// DismissAlarm removes a fired alarm. The wake callback has already
// consumed the registration, so only the store row is cleaned up.
func (s *Service) DismissAlarm(ctx context.Context, id int64) error {
	start := s.clock.Now()

	if err := s.store.DeleteByID(ctx, id); err != nil {
		metrics.ObserveAlarmOp("dismiss", metrics.ResultError, s.clock.Now().Sub(start))
		return fmt.Errorf("dismiss alarm %d: %w", id, err)
	}

	s.bus.Publish(id, domain.StateDismissed)
	metrics.ObserveAlarmOp("dismiss", metrics.ResultSuccess, s.clock.Now().Sub(start))
	return nil
}

// FireAlarm is the wake-callback entry point. It announces the transition
// and hands the stored alarm, if still present, to the delivery surface.
func (s *Service) FireAlarm(ctx context.Context, id int64) (*domain.Alarm, error) {
	metrics.IncWakeFire()

	alarm, err := s.store.GetByID(ctx, id)
	if err != nil {
		s.logger.Printf("alarm %d fired but lookup failed: %v", id, err)
	}

	s.bus.Publish(id, domain.StateFired)
	return alarm, err
}

// fireInstant translates the user's time intent into an absolute UTC
// instant.
func (s *Service) fireInstant(value int, mode domain.Mode, now time.Time) (int64, error) {
	switch mode {
	case domain.ModeExactAt:
		return timeenc.NextOccurrenceOfMinute(value, now.Unix(), zoneOffsetSeconds(now))
	case domain.ModeFromNow:
		if value <= 0 {
			return 0, fmt.Errorf("%w: duration %d minutes", timeenc.ErrInvalidTime, value)
		}
		return timeenc.InstantAfterMinutes(value, now.Unix()), nil
	default:
		return 0, fmt.Errorf("alarms: unknown mode %d", mode)
	}
}

func zoneOffsetSeconds(t time.Time) int {
	_, offset := t.Zone()
	return offset
}
