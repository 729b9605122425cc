package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"alarmd/internal/alarms/domain"
	"alarmd/internal/timeenc"
)

// Preference keys mirror the columns of a flat key/value table so single
// settings can be written without rewriting the whole set.
const (
	keySnoozeDuration   = "snooze_duration_minutes"
	keySilenceAfter     = "silence_after_minutes"
	keyVolumeButton     = "volume_button_behavior"
	keyDeletionReason   = "deletion_reason"
	keyExactDialogNever = "exact_alarm_dialog_never_show_again"
	keyMostUsedAlarms   = "most_used_alarms"
)

// PreferenceRepository is a Postgres preference store.
type PreferenceRepository struct {
	db *sql.DB
}

// NewPreferenceRepository constructs a repository.
func NewPreferenceRepository(db *sql.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Load returns the stored preferences with defaults for unwritten keys.
func (r *PreferenceRepository) Load(ctx context.Context) (domain.Preferences, error) {
	prefs := domain.DefaultPreferences()
	if r == nil || r.db == nil {
		return prefs, errors.New("preference repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT key, value
FROM preferences`)
	if err != nil {
		return prefs, fmt.Errorf("%w: load preferences: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return prefs, fmt.Errorf("%w: load preferences: %v", domain.ErrStorage, err)
		}
		if err := applyPreference(&prefs, key, value); err != nil {
			return prefs, err
		}
	}
	if err := rows.Err(); err != nil {
		return prefs, fmt.Errorf("%w: load preferences: %v", domain.ErrStorage, err)
	}
	return prefs, nil
}

func applyPreference(prefs *domain.Preferences, key, value string) error {
	switch key {
	case keySnoozeDuration:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("preference repo: bad %s %q", key, value)
		}
		prefs.SnoozeDurationMinutes = n
	case keySilenceAfter:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("preference repo: bad %s %q", key, value)
		}
		prefs.SilenceAfterMinutes = n
	case keyVolumeButton:
		behavior, ok := domain.ParseVolumeButtonBehavior(value)
		if !ok {
			return fmt.Errorf("preference repo: bad %s %q", key, value)
		}
		prefs.VolumeButtonBehavior = behavior
	case keyDeletionReason:
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("preference repo: bad %s %q", key, value)
		}
		prefs.DeletionReason = domain.DeletionReason(n)
	case keyExactDialogNever:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("preference repo: bad %s %q", key, value)
		}
		prefs.ExactAlarmDialogNeverShowAgain = b
	case keyMostUsedAlarms:
		pairs, err := timeenc.DecodeHourMinutes(value)
		if err != nil {
			return fmt.Errorf("preference repo: bad %s %q", key, value)
		}
		prefs.MostUsedAlarms = pairs
	}
	// Unknown keys are ignored so downgrades keep working.
	return nil
}

// Save persists the full preference set.
func (r *PreferenceRepository) Save(ctx context.Context, prefs domain.Preferences) error {
	if r == nil || r.db == nil {
		return errors.New("preference repo: nil db")
	}
	entries := map[string]string{
		keySnoozeDuration:   strconv.Itoa(prefs.SnoozeDurationMinutes),
		keySilenceAfter:     strconv.Itoa(prefs.SilenceAfterMinutes),
		keyVolumeButton:     prefs.VolumeButtonBehavior.String(),
		keyDeletionReason:   strconv.FormatUint(uint64(prefs.DeletionReason), 10),
		keyExactDialogNever: strconv.FormatBool(prefs.ExactAlarmDialogNeverShowAgain),
		keyMostUsedAlarms:   timeenc.EncodeHourMinutes(prefs.MostUsedAlarms),
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: save preferences: %v", domain.ErrStorage, err)
	}
	defer tx.Rollback()

	for key, value := range entries {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO preferences (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value); err != nil {
			return fmt.Errorf("%w: save preference %s: %v", domain.ErrStorage, key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: save preferences: %v", domain.ErrStorage, err)
	}
	return nil
}

// AddDeletionReason ORs reason into the persisted deletion mask.
func (r *PreferenceRepository) AddDeletionReason(ctx context.Context, reason domain.DeletionReason) error {
	if r == nil || r.db == nil {
		return errors.New("preference repo: nil db")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: add deletion reason: %v", domain.ErrStorage, err)
	}
	defer tx.Rollback()

	current, err := deletionReasonForUpdate(ctx, tx)
	if err != nil {
		return err
	}
	merged := strconv.FormatUint(uint64(current|reason), 10)
	if _, err := tx.ExecContext(ctx, `
INSERT INTO preferences (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, keyDeletionReason, merged); err != nil {
		return fmt.Errorf("%w: add deletion reason: %v", domain.ErrStorage, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: add deletion reason: %v", domain.ErrStorage, err)
	}
	return nil
}

// AcknowledgeDeletionReason returns the accumulated mask and clears it.
func (r *PreferenceRepository) AcknowledgeDeletionReason(ctx context.Context) (domain.DeletionReason, error) {
	if r == nil || r.db == nil {
		return domain.DeletionReasonNone, errors.New("preference repo: nil db")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.DeletionReasonNone, fmt.Errorf("%w: acknowledge deletion reason: %v", domain.ErrStorage, err)
	}
	defer tx.Rollback()

	current, err := deletionReasonForUpdate(ctx, tx)
	if err != nil {
		return domain.DeletionReasonNone, err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO preferences (key, value)
VALUES ($1, '0')
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, keyDeletionReason); err != nil {
		return domain.DeletionReasonNone, fmt.Errorf("%w: acknowledge deletion reason: %v", domain.ErrStorage, err)
	}
	if err := tx.Commit(); err != nil {
		return domain.DeletionReasonNone, fmt.Errorf("%w: acknowledge deletion reason: %v", domain.ErrStorage, err)
	}
	return current, nil
}

func deletionReasonForUpdate(ctx context.Context, tx *sql.Tx) (domain.DeletionReason, error) {
	var value string
	err := tx.QueryRowContext(ctx, `
SELECT value
FROM preferences
WHERE key = $1
FOR UPDATE`, keyDeletionReason).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DeletionReasonNone, nil
	}
	if err != nil {
		return domain.DeletionReasonNone, fmt.Errorf("%w: read deletion reason: %v", domain.ErrStorage, err)
	}
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return domain.DeletionReasonNone, fmt.Errorf("preference repo: bad %s %q", keyDeletionReason, value)
	}
	return domain.DeletionReason(n), nil
}
