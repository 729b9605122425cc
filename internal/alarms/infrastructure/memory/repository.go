// Package memory provides in-process implementations of the alarm stores,
// used when no database is configured and as the base test double.
package memory

import (
	"context"
	"sync"

	"alarmd/internal/alarms/domain"
)

// AlarmRepository is an in-memory alarm store. IDs are monotonically
// increasing and never reused within the repository's lifetime.
type AlarmRepository struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]int64
}

// NewAlarmRepository constructs an empty repository.
func NewAlarmRepository() *AlarmRepository {
	return &AlarmRepository{data: make(map[int64]int64)}
}

// Insert creates a new alarm row.
func (r *AlarmRepository) Insert(ctx context.Context, fireAt int64) (int64, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.data[r.nextID] = fireAt
	return r.nextID, nil
}

// UpdateFireTime replaces the fire instant; no-op for an absent id.
func (r *AlarmRepository) UpdateFireTime(ctx context.Context, id, fireAt int64) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; ok {
		r.data[id] = fireAt
	}
	return nil
}

// DeleteByID removes an alarm; no-op for an absent id.
func (r *AlarmRepository) DeleteByID(ctx context.Context, id int64) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
	return nil
}

// DeleteBefore removes alarms firing strictly before threshold.
func (r *AlarmRepository) DeleteBefore(ctx context.Context, threshold int64) (int64, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, fireAt := range r.data {
		if fireAt < threshold {
			delete(r.data, id)
			count++
		}
	}
	return count, nil
}

// IDsBefore lists ids of alarms firing strictly before threshold.
func (r *AlarmRepository) IDsBefore(ctx context.Context, threshold int64) ([]int64, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []int64
	for id, fireAt := range r.data {
		if fireAt < threshold {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// GetAll lists every pending alarm.
func (r *AlarmRepository) GetAll(ctx context.Context) ([]domain.Alarm, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	alarms := make([]domain.Alarm, 0, len(r.data))
	for id, fireAt := range r.data {
		alarms = append(alarms, domain.Alarm{ID: id, FireAt: fireAt})
	}
	return alarms, nil
}

// GetByID fetches one alarm, or nil when absent.
func (r *AlarmRepository) GetByID(ctx context.Context, id int64) (*domain.Alarm, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	fireAt, ok := r.data[id]
	if !ok {
		return nil, nil
	}
	return &domain.Alarm{ID: id, FireAt: fireAt}, nil
}
