// Package wake implements the one-shot wake-timer facility behind the
// domain WakeScheduler interface. Implementations are interchangeable and
// selected once at startup; registrations are keyed by alarm id with at
// most one outstanding timer per id.
package wake

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"alarmd/internal/alarms/domain"
)

// ErrClosed is returned when scheduling on a stopped scheduler.
var ErrClosed = errors.New("wake: scheduler closed")

// Callback is invoked, in its own goroutine, when a registered wake-up
// fires. The registration is consumed before the callback runs.
type Callback func(id int64)

// Clock provides time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option customizes a TimerScheduler.
type Option func(*TimerScheduler)

// WithClock assigns a clock.
func WithClock(clock Clock) Option {
	return func(s *TimerScheduler) {
		s.clock = clock
	}
}

// TimerScheduler registers one in-process timer per alarm id. It always
// reports the exact-wake privilege as available.
type TimerScheduler struct {
	mu      sync.Mutex
	cb      Callback
	clock   Clock
	timers  map[int64]*registration
	lastGen uint64
	closed  bool
}

type registration struct {
	timer *time.Timer
	gen   uint64
}

// NewTimerScheduler constructs a scheduler delivering fires to cb.
func NewTimerScheduler(cb Callback, opts ...Option) (*TimerScheduler, error) {
	if cb == nil {
		return nil, errors.New("wake: nil callback")
	}
	s := &TimerScheduler{
		cb:     cb,
		clock:  systemClock{},
		timers: make(map[int64]*registration),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CanScheduleExact always reports true; the in-process facility has no
// permission concept.
func (s *TimerScheduler) CanScheduleExact() bool { return true }

// ScheduleExact registers a wake-up for id at fireAt, overwriting any
// previous registration under the same id. Instants already in the past
// fire immediately.
func (s *TimerScheduler) ScheduleExact(id, fireAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("%w: %w", domain.ErrScheduling, ErrClosed)
	}

	if prev, ok := s.timers[id]; ok {
		prev.timer.Stop()
		delete(s.timers, id)
	}

	delay := time.Duration(fireAt-s.clock.Now().Unix()) * time.Second
	if delay < 0 {
		delay = 0
	}

	s.lastGen++
	reg := &registration{gen: s.lastGen}
	reg.timer = time.AfterFunc(delay, func() { s.fire(id, reg.gen) })
	s.timers[id] = reg
	return nil
}

// Cancel unregisters any wake-up for id; no-op if none exists.
func (s *TimerScheduler) Cancel(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reg, ok := s.timers[id]; ok {
		reg.timer.Stop()
		delete(s.timers, id)
	}
	return nil
}

// RescheduleForID is Cancel followed by ScheduleExact.
func (s *TimerScheduler) RescheduleForID(id, fireAt int64) error {
	if err := s.Cancel(id); err != nil {
		return err
	}
	return s.ScheduleExact(id, fireAt)
}

// Close stops every pending timer. Fires already in flight may still
// deliver.
func (s *TimerScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for id, reg := range s.timers {
		reg.timer.Stop()
		delete(s.timers, id)
	}
}

// fire consumes the registration and delivers the callback, unless the
// registration was cancelled or overwritten after the timer went off.
func (s *TimerScheduler) fire(id int64, gen uint64) {
	s.mu.Lock()
	reg, ok := s.timers[id]
	if !ok || reg.gen != gen || s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.mu.Unlock()

	s.cb(id)
}
