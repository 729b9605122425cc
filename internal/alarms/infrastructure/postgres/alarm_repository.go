// Package postgres provides the database-backed alarm stores, accessed
// through database/sql with the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"alarmd/internal/alarms/domain"
)

// AlarmRepository is a Postgres alarm store.
type AlarmRepository struct {
	db *sql.DB
}

// NewAlarmRepository constructs a repository.
func NewAlarmRepository(db *sql.DB) *AlarmRepository {
	return &AlarmRepository{db: db}
}

// Insert creates a new alarm row and returns its assigned id.
func (r *AlarmRepository) Insert(ctx context.Context, fireAt int64) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("alarm repo: nil db")
	}
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO pending_alarms (fire_at_epoch_seconds)
VALUES ($1)
RETURNING id`, fireAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%w: insert alarm: %v", domain.ErrStorage, err)
	}
	return id, nil
}

// UpdateFireTime replaces the fire instant; no-op for an absent id.
func (r *AlarmRepository) UpdateFireTime(ctx context.Context, id, fireAt int64) error {
	if r == nil || r.db == nil {
		return errors.New("alarm repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE pending_alarms
SET fire_at_epoch_seconds = $2
WHERE id = $1`, id, fireAt)
	if err != nil {
		return fmt.Errorf("%w: update alarm %d: %v", domain.ErrStorage, id, err)
	}
	return nil
}

// DeleteByID removes an alarm; no-op for an absent id.
func (r *AlarmRepository) DeleteByID(ctx context.Context, id int64) error {
	if r == nil || r.db == nil {
		return errors.New("alarm repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, `
DELETE FROM pending_alarms
WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete alarm %d: %v", domain.ErrStorage, id, err)
	}
	return nil
}

// DeleteBefore removes alarms firing strictly before threshold.
func (r *AlarmRepository) DeleteBefore(ctx context.Context, threshold int64) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("alarm repo: nil db")
	}
	res, err := r.db.ExecContext(ctx, `
DELETE FROM pending_alarms
WHERE fire_at_epoch_seconds < $1`, threshold)
	if err != nil {
		return 0, fmt.Errorf("%w: delete stale alarms: %v", domain.ErrStorage, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: delete stale alarms: %v", domain.ErrStorage, err)
	}
	return count, nil
}

// IDsBefore lists ids of alarms firing strictly before threshold.
func (r *AlarmRepository) IDsBefore(ctx context.Context, threshold int64) ([]int64, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("alarm repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id
FROM pending_alarms
WHERE fire_at_epoch_seconds < $1
ORDER BY id ASC`, threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: list stale alarms: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: list stale alarms: %v", domain.ErrStorage, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list stale alarms: %v", domain.ErrStorage, err)
	}
	return ids, nil
}

// GetAll lists every pending alarm in fire order.
func (r *AlarmRepository) GetAll(ctx context.Context) ([]domain.Alarm, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("alarm repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, fire_at_epoch_seconds
FROM pending_alarms
ORDER BY fire_at_epoch_seconds ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: list alarms: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var result []domain.Alarm
	for rows.Next() {
		var alarm domain.Alarm
		if err := rows.Scan(&alarm.ID, &alarm.FireAt); err != nil {
			return nil, fmt.Errorf("%w: list alarms: %v", domain.ErrStorage, err)
		}
		result = append(result, alarm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list alarms: %v", domain.ErrStorage, err)
	}
	return result, nil
}

// GetByID fetches one alarm, or nil when the id is absent.
func (r *AlarmRepository) GetByID(ctx context.Context, id int64) (*domain.Alarm, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("alarm repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, fire_at_epoch_seconds
FROM pending_alarms
WHERE id = $1
LIMIT 1`, id)
	var alarm domain.Alarm
	if err := row.Scan(&alarm.ID, &alarm.FireAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get alarm %d: %v", domain.ErrStorage, id, err)
	}
	return &alarm, nil
}
