package memory

import (
	"context"
	"testing"

	"alarmd/internal/alarms/domain"
)

func TestInsertAssignsMonotonicIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewAlarmRepository()

	first, err := repo.Insert(ctx, 100)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	second, err := repo.Insert(ctx, 200)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if second <= first {
		t.Fatalf("ids not monotonic: %d then %d", first, second)
	}

	// Deleted ids are never reused.
	if err := repo.DeleteByID(ctx, second); err != nil {
		t.Fatalf("delete: %v", err)
	}
	third, err := repo.Insert(ctx, 300)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if third <= second {
		t.Fatalf("id reused after delete: %d then %d", second, third)
	}
}

func TestUpdateAndDeleteAreIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewAlarmRepository()

	if err := repo.UpdateFireTime(ctx, 42, 999); err != nil {
		t.Fatalf("update of absent id: %v", err)
	}
	if err := repo.DeleteByID(ctx, 42); err != nil {
		t.Fatalf("delete of absent id: %v", err)
	}
	alarms, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(alarms) != 0 {
		t.Fatalf("observable state change from no-ops: %+v", alarms)
	}
}

func TestDeleteBeforeIsStrict(t *testing.T) {
	ctx := context.Background()
	repo := NewAlarmRepository()

	for _, fireAt := range []int64{90, 99, 100, 200} {
		if _, err := repo.Insert(ctx, fireAt); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	ids, err := repo.IDsBefore(ctx, 100)
	if err != nil {
		t.Fatalf("ids before: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids before 100: got %d, want 2", len(ids))
	}

	count, err := repo.DeleteBefore(ctx, 100)
	if err != nil {
		t.Fatalf("delete before: %v", err)
	}
	if count != 2 {
		t.Fatalf("delete before 100: got %d, want 2", count)
	}

	remaining, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	for _, alarm := range remaining {
		if alarm.FireAt < 100 {
			t.Fatalf("alarm %d at %d survived the purge", alarm.ID, alarm.FireAt)
		}
	}
	if len(remaining) != 2 {
		t.Fatalf("remaining: got %d, want 2", len(remaining))
	}
}

func TestGetByIDAbsentReturnsNil(t *testing.T) {
	ctx := context.Background()
	repo := NewAlarmRepository()

	alarm, err := repo.GetByID(ctx, 5)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if alarm != nil {
		t.Fatalf("absent id: got %+v, want nil", alarm)
	}

	id, err := repo.Insert(ctx, 777)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	alarm, err = repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if alarm == nil || alarm.FireAt != 777 {
		t.Fatalf("get by id: got %+v", alarm)
	}
}

func TestPreferenceDefaultsAndDeletionReason(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository()

	prefs, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if prefs.SnoozeDurationMinutes != 10 || prefs.SilenceAfterMinutes != 10 {
		t.Fatalf("defaults: got %+v", prefs)
	}
	if len(prefs.MostUsedAlarms) != 3 {
		t.Fatalf("default most used alarms: got %d entries", len(prefs.MostUsedAlarms))
	}

	if err := repo.AddDeletionReason(ctx, domain.DeletionReasonDeviceOff); err != nil {
		t.Fatalf("add reason: %v", err)
	}
	if err := repo.AddDeletionReason(ctx, domain.DeletionReasonDeviceOff); err != nil {
		t.Fatalf("add reason: %v", err)
	}

	reason, err := repo.AcknowledgeDeletionReason(ctx)
	if err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if !reason.Has(domain.DeletionReasonDeviceOff) {
		t.Fatalf("acknowledged reason: got %b", reason)
	}

	reason, err = repo.AcknowledgeDeletionReason(ctx)
	if err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if reason != domain.DeletionReasonNone {
		t.Fatalf("reason not cleared: got %b", reason)
	}
}
