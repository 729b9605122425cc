package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	alarmapp "alarmd/internal/alarms/application"
	"alarmd/internal/alarms/domain"
	"alarmd/internal/alarms/infrastructure/memory"
	"alarmd/internal/eventbus"
	"alarmd/internal/wake"
)

type recordingScheduler struct {
	registrations map[int64]int64
}

func (s *recordingScheduler) CanScheduleExact() bool { return true }

func (s *recordingScheduler) ScheduleExact(id, fireAt int64) error {
	s.registrations[id] = fireAt
	return nil
}

func (s *recordingScheduler) Cancel(id int64) error {
	delete(s.registrations, id)
	return nil
}

func (s *recordingScheduler) RescheduleForID(id, fireAt int64) error {
	s.registrations[id] = fireAt
	return nil
}

type testClock struct {
	t time.Time
}

func (c testClock) Now() time.Time { return c.t }

func newTestHandler(t *testing.T) (*Handler, *memory.AlarmRepository, *eventbus.Broadcaster) {
	t.Helper()
	store := memory.NewAlarmRepository()
	prefs := memory.NewPreferenceRepository()
	bus := eventbus.NewBroadcaster()
	scheduler := &recordingScheduler{registrations: make(map[int64]int64)}
	clock := testClock{t: time.Unix(100000, 0).UTC()}

	service, err := alarmapp.NewService(store, prefs, scheduler, bus, alarmapp.WithClock(clock))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler, err := NewHandler(service, store, prefs, wake.NewPermissionGate(true))
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler, store, bus
}

func TestScheduleEndpoint(t *testing.T) {
	handler, _, _ := newTestHandler(t)
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/alarms", "application/json",
		strings.NewReader(`{"value": 5, "mode": "from_now"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status: got %d, want 201", resp.StatusCode)
	}
	var created map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created["id"] == 0 {
		t.Fatalf("created id: got %v", created)
	}

	// The same fire instant again is a conflict.
	resp2, err := http.Post(server.URL+"/api/v1/alarms", "application/json",
		strings.NewReader(`{"value": 5, "mode": "from_now"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate status: got %d, want 409", resp2.StatusCode)
	}
}

func TestScheduleEndpointRejectsBadInput(t *testing.T) {
	handler, _, _ := newTestHandler(t)
	server := httptest.NewServer(handler)
	defer server.Close()

	cases := []string{
		`{"value": 5, "mode": "sometime"}`,
		`{"value": 0, "mode": "from_now"}`,
		`{"value": 1440, "mode": "exact_at"}`,
		`not json`,
	}
	for _, body := range cases {
		resp, err := http.Post(server.URL+"/api/v1/alarms", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %q: got %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestListEndpoint(t *testing.T) {
	handler, store, _ := newTestHandler(t)
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/alarms")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var list []domain.Alarm
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if len(list) != 0 {
		t.Fatalf("empty store list: got %+v", list)
	}

	if _, err := store.Insert(context.Background(), 123456); err != nil {
		t.Fatalf("insert: %v", err)
	}
	resp, err = http.Get(server.URL + "/api/v1/alarms")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if len(list) != 1 || list[0].FireAt != 123456 {
		t.Fatalf("list: got %+v", list)
	}
}

func TestAlarmActions(t *testing.T) {
	handler, store, _ := newTestHandler(t)
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/v1/alarms", "application/json",
		strings.NewReader(`{"value": 5, "mode": "from_now"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	var created map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	id := created["id"]

	resp, err = http.Post(server.URL+"/api/v1/alarms/"+strconv.FormatInt(id, 10)+"/snooze", "application/json",
		strings.NewReader(`{"minutes": 3}`))
	if err != nil {
		t.Fatalf("snooze: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("snooze status: got %d, want 204", resp.StatusCode)
	}
	alarm, err := store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if alarm == nil || alarm.FireAt != 100000+3*60 {
		t.Fatalf("snoozed alarm: got %+v", alarm)
	}

	resp, err = http.Post(server.URL+"/api/v1/alarms/"+strconv.FormatInt(id, 10)+"/cancel", "application/json", nil)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("cancel status: got %d, want 204", resp.StatusCode)
	}
	alarm, err = store.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if alarm != nil {
		t.Fatalf("alarm survived cancel: %+v", alarm)
	}

	resp, err = http.Post(server.URL+"/api/v1/alarms/abc/dismiss", "application/json", nil)
	if err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-numeric id: got %d, want 400", resp.StatusCode)
	}
}

func TestPreferencesEndpoints(t *testing.T) {
	handler, _, _ := newTestHandler(t)
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/preferences")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var prefs preferencesPayload
	if err := json.NewDecoder(resp.Body).Decode(&prefs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if prefs.SnoozeDurationMinutes != 10 || prefs.VolumeButtonBehavior != "none" {
		t.Fatalf("default preferences: got %+v", prefs)
	}
	if len(prefs.MostUsedAlarms) != 3 || prefs.MostUsedAlarms[0] != "00:15" {
		t.Fatalf("default most used alarms: got %v", prefs.MostUsedAlarms)
	}

	body := `{
		"snooze_duration_minutes": 20,
		"silence_after_minutes": 5,
		"volume_button_behavior": "snooze",
		"exact_alarm_dialog_never_show_again": true,
		"most_used_alarms": ["06:30", "07:00"]
	}`
	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/v1/preferences", strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&prefs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status: got %d, want 200", resp.StatusCode)
	}
	if prefs.SnoozeDurationMinutes != 20 || prefs.VolumeButtonBehavior != "snooze" {
		t.Fatalf("saved preferences: got %+v", prefs)
	}
	if len(prefs.MostUsedAlarms) != 2 || prefs.MostUsedAlarms[1] != "07:00" {
		t.Fatalf("saved most used alarms: got %v", prefs.MostUsedAlarms)
	}
}

func TestDeletionReasonAck(t *testing.T) {
	handler, _, _ := newTestHandler(t)
	server := httptest.NewServer(handler)
	defer server.Close()

	if err := handler.prefs.AddDeletionReason(context.Background(), domain.DeletionReasonDeviceOff); err != nil {
		t.Fatalf("add deletion reason: %v", err)
	}

	resp, err := http.Post(server.URL+"/api/v1/preferences/deletion-reason/ack", "application/json", nil)
	if err != nil {
		t.Fatalf("ack: %v", err)
	}
	var ack struct {
		DeletionReason uint32 `json:"deletion_reason"`
		DeviceOff      bool   `json:"device_off"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if !ack.DeviceOff {
		t.Fatalf("ack payload: got %+v, want device_off", ack)
	}

	// A second acknowledgment sees a cleared mask.
	resp, err = http.Post(server.URL+"/api/v1/preferences/deletion-reason/ack", "application/json", nil)
	if err != nil {
		t.Fatalf("ack: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if ack.DeviceOff || ack.DeletionReason != 0 {
		t.Fatalf("ack after clear: got %+v", ack)
	}
}

func TestPermissionEndpoints(t *testing.T) {
	handler, _, _ := newTestHandler(t)
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/wake/permission")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var perm permissionPayload
	if err := json.NewDecoder(resp.Body).Decode(&perm); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if !perm.ExactAllowed {
		t.Fatal("exact wake-ups should start allowed")
	}

	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/v1/wake/permission",
		strings.NewReader(`{"exact_allowed": false}`))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&perm); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if perm.ExactAllowed {
		t.Fatal("revocation not reflected")
	}
}

func TestStreamDeliversTransitions(t *testing.T) {
	handler, _, bus := newTestHandler(t)
	broker := NewSSEBroker()
	bus.Subscribe(broker.Forward)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/alarms/stream", NewStreamHandler(broker))
	mux.Handle("/api/v1/", handler)
	server := httptest.NewServer(mux)
	defer server.Close()

	ch := broker.Subscribe()
	defer broker.Unsubscribe(ch)

	resp, err := http.Post(server.URL+"/api/v1/alarms", "application/json",
		strings.NewReader(`{"value": 5, "mode": "from_now"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	select {
	case payload := <-ch:
		var event streamEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if event.State != "scheduled" || event.AlarmID == 0 {
			t.Fatalf("stream event: got %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no stream event delivered")
	}
}
