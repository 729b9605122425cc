package domain

import "errors"

// Error kinds, matched with errors.Is.
var (
	// ErrAlreadyScheduled signals that an alarm with the identical fire
	// instant already exists; the caller can show a specific "already set"
	// message instead of a generic failure.
	ErrAlreadyScheduled = errors.New("alarms: alarm already scheduled for that time")

	// ErrStorage marks alarm store I/O failures.
	ErrStorage = errors.New("alarms: storage failure")

	// ErrScheduling marks wake scheduler failures.
	ErrScheduling = errors.New("alarms: wake scheduling failure")
)
