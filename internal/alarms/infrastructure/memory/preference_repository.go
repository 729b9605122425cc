package memory

import (
	"context"
	"sync"

	"alarmd/internal/alarms/domain"
	"alarmd/internal/timeenc"
)

// PreferenceRepository is an in-memory preference store.
type PreferenceRepository struct {
	mu    sync.Mutex
	prefs domain.Preferences
}

// NewPreferenceRepository constructs a store holding the defaults.
func NewPreferenceRepository() *PreferenceRepository {
	return &PreferenceRepository{prefs: domain.DefaultPreferences()}
}

// Load returns the stored preferences.
func (r *PreferenceRepository) Load(ctx context.Context) (domain.Preferences, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	return clonePreferences(r.prefs), nil
}

// Save persists the full preference set.
func (r *PreferenceRepository) Save(ctx context.Context, prefs domain.Preferences) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs = clonePreferences(prefs)
	return nil
}

// AddDeletionReason ORs reason into the persisted mask.
func (r *PreferenceRepository) AddDeletionReason(ctx context.Context, reason domain.DeletionReason) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs.DeletionReason |= reason
	return nil
}

// AcknowledgeDeletionReason returns the accumulated mask and clears it.
func (r *PreferenceRepository) AcknowledgeDeletionReason(ctx context.Context) (domain.DeletionReason, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	reason := r.prefs.DeletionReason
	r.prefs.DeletionReason = domain.DeletionReasonNone
	return reason, nil
}

func clonePreferences(prefs domain.Preferences) domain.Preferences {
	clone := prefs
	clone.MostUsedAlarms = append([]timeenc.HourMinute(nil), prefs.MostUsedAlarms...)
	return clone
}
