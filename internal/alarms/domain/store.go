package domain

import "context"

// Store is the durable record of pending alarms. It is the only index of
// alarm ids that exist; the wake scheduler cannot be enumerated. Implementations
// wrap I/O failures with ErrStorage.
type Store interface {
	// Insert creates a new row and returns its assigned id.
	Insert(ctx context.Context, fireAt int64) (int64, error)

	// UpdateFireTime replaces the fire instant of an alarm. Updating an
	// absent id is a no-op, not an error.
	UpdateFireTime(ctx context.Context, id, fireAt int64) error

	// DeleteByID removes an alarm. Deleting an absent id is a no-op.
	DeleteByID(ctx context.Context, id int64) error

	// DeleteBefore removes every alarm whose fire instant is strictly
	// below threshold and returns the number removed.
	DeleteBefore(ctx context.Context, threshold int64) (int64, error)

	// IDsBefore lists the ids of alarms whose fire instant is strictly
	// below threshold.
	IDsBefore(ctx context.Context, threshold int64) ([]int64, error)

	// GetAll lists every pending alarm.
	GetAll(ctx context.Context) ([]Alarm, error)

	// GetByID fetches one alarm, or nil when the id is absent.
	GetByID(ctx context.Context, id int64) (*Alarm, error)
}

// PreferenceStore persists the user preference set.
type PreferenceStore interface {
	// Load returns the stored preferences, with defaults filled in for
	// keys never written.
	Load(ctx context.Context) (Preferences, error)

	// Save persists the full preference set.
	Save(ctx context.Context, prefs Preferences) error

	// AddDeletionReason ORs reason into the persisted deletion mask.
	AddDeletionReason(ctx context.Context, reason DeletionReason) error

	// AcknowledgeDeletionReason returns the accumulated mask and clears it.
	AcknowledgeDeletionReason(ctx context.Context) (DeletionReason, error)
}

// WakeScheduler abstracts the platform one-shot wake-timer facility.
// Registrations are keyed by alarm id; at most one exists per id. Delivery
// precision is best-effort. Implementations wrap failures with ErrScheduling.
type WakeScheduler interface {
	// CanScheduleExact probes whether precise wake-ups are currently
	// permitted. Platforms without the restriction always return true.
	CanScheduleExact() bool

	// ScheduleExact registers a one-shot wake callback for id at the given
	// UTC instant, overwriting any previous registration for the same id.
	ScheduleExact(id, fireAt int64) error

	// Cancel unregisters any wake callback for id; no-op if none exists.
	Cancel(id int64) error

	// RescheduleForID is cancel followed by ScheduleExact, treated as a
	// single logical step by callers.
	RescheduleForID(id, fireAt int64) error
}
