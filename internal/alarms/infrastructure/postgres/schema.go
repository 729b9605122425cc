package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"alarmd/internal/alarms/domain"
)

// EnsureSchema creates the alarm tables when they do not exist yet. The
// daemon owns its database, so idempotent creation at startup replaces a
// separate migration step.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("postgres: nil db")
	}
	statements := []string{
		`CREATE TABLE IF NOT EXISTS pending_alarms (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	fire_at_epoch_seconds BIGINT NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS pending_alarms_fire_at_idx
	ON pending_alarms (fire_at_epoch_seconds)`,
		`CREATE TABLE IF NOT EXISTS preferences (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: ensure schema: %v", domain.ErrStorage, err)
		}
	}
	return nil
}
