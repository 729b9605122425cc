// Package http exposes the alarm daemon's local HTTP API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	alarmapp "alarmd/internal/alarms/application"
	"alarmd/internal/alarms/domain"
	"alarmd/internal/timeenc"
	"alarmd/internal/wake"
)

// Handler provides the alarm and preference endpoints.
type Handler struct {
	service *alarmapp.Service
	store   domain.Store
	prefs   domain.PreferenceStore
	gate    *wake.PermissionGate
}

// NewHandler constructs a handler. The gate is optional; without it the
// permission endpoints report exact wake-ups as always allowed.
func NewHandler(service *alarmapp.Service, store domain.Store, prefs domain.PreferenceStore, gate *wake.PermissionGate) (*Handler, error) {
	if service == nil {
		return nil, errors.New("alarms handler: nil service")
	}
	if store == nil {
		return nil, errors.New("alarms handler: nil store")
	}
	if prefs == nil {
		return nil, errors.New("alarms handler: nil preference store")
	}
	return &Handler{service: service, store: store, prefs: prefs, gate: gate}, nil
}

// ServeHTTP handles /api/v1/alarms, /api/v1/preferences and subroutes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/alarms":
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleSchedule(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case strings.HasPrefix(r.URL.Path, "/api/v1/alarms/"):
		h.handleAction(w, r)
	case r.URL.Path == "/api/v1/preferences":
		switch r.Method {
		case http.MethodGet:
			h.handleGetPreferences(w, r)
		case http.MethodPut:
			h.handlePutPreferences(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case r.URL.Path == "/api/v1/preferences/deletion-reason/ack":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.handleAckDeletionReason(w, r)
	case r.URL.Path == "/api/v1/wake/permission":
		switch r.Method {
		case http.MethodGet:
			h.handleGetPermission(w, r)
		case http.MethodPut:
			h.handlePutPermission(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type scheduleRequest struct {
	Value int    `json:"value"`
	Mode  string `json:"mode"`
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	mode, ok := domain.ParseMode(req.Mode)
	if !ok {
		http.Error(w, "mode must be from_now or exact_at", http.StatusBadRequest)
		return
	}

	id, err := h.service.ScheduleAlarm(r.Context(), req.Value, mode)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyScheduled):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, timeenc.ErrInvalidTime):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]int64{"id": id})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	alarms, err := h.store.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if alarms == nil {
		alarms = []domain.Alarm{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(alarms)
}

type snoozeRequest struct {
	Minutes int `json:"minutes"`
}

func (h *Handler) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/alarms/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		http.Error(w, "alarm id must be numeric", http.StatusBadRequest)
		return
	}

	switch parts[1] {
	case "snooze":
		var req snoozeRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json body", http.StatusBadRequest)
				return
			}
		}
		err = h.service.SnoozeAlarm(r.Context(), id, req.Minutes)
	case "dismiss":
		err = h.service.DismissAlarm(r.Context(), id)
	case "cancel":
		err = h.service.CancelAlarm(r.Context(), id)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// preferencesPayload is the wire form of the preference set.
type preferencesPayload struct {
	SnoozeDurationMinutes          int      `json:"snooze_duration_minutes"`
	SilenceAfterMinutes            int      `json:"silence_after_minutes"`
	VolumeButtonBehavior           string   `json:"volume_button_behavior"`
	DeletionReason                 uint32   `json:"deletion_reason"`
	ExactAlarmDialogNeverShowAgain bool     `json:"exact_alarm_dialog_never_show_again"`
	MostUsedAlarms                 []string `json:"most_used_alarms"`
}

func toPayload(prefs domain.Preferences) preferencesPayload {
	mostUsed := make([]string, 0, len(prefs.MostUsedAlarms))
	for _, hm := range prefs.MostUsedAlarms {
		mostUsed = append(mostUsed, hm.String())
	}
	return preferencesPayload{
		SnoozeDurationMinutes:          prefs.SnoozeDurationMinutes,
		SilenceAfterMinutes:            prefs.SilenceAfterMinutes,
		VolumeButtonBehavior:           prefs.VolumeButtonBehavior.String(),
		DeletionReason:                 uint32(prefs.DeletionReason),
		ExactAlarmDialogNeverShowAgain: prefs.ExactAlarmDialogNeverShowAgain,
		MostUsedAlarms:                 mostUsed,
	}
}

func (h *Handler) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.Load(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toPayload(prefs))
}

func (h *Handler) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var payload preferencesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	behavior, ok := domain.ParseVolumeButtonBehavior(payload.VolumeButtonBehavior)
	if !ok {
		http.Error(w, "volume_button_behavior must be none, snooze or dismiss", http.StatusBadRequest)
		return
	}
	if payload.SnoozeDurationMinutes <= 0 || payload.SilenceAfterMinutes <= 0 {
		http.Error(w, "durations must be positive", http.StatusBadRequest)
		return
	}
	mostUsed := make([]timeenc.HourMinute, 0, len(payload.MostUsedAlarms))
	for _, text := range payload.MostUsedAlarms {
		hm, err := timeenc.ParseHourMinute(text)
		if err != nil {
			http.Error(w, "most_used_alarms entries must be hh:mm", http.StatusBadRequest)
			return
		}
		mostUsed = append(mostUsed, hm)
	}

	// The deletion mask is owned by the sweep and the ack endpoint; a
	// plain preference write keeps the stored value.
	current, err := h.prefs.Load(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	prefs := domain.Preferences{
		SnoozeDurationMinutes:          payload.SnoozeDurationMinutes,
		SilenceAfterMinutes:            payload.SilenceAfterMinutes,
		VolumeButtonBehavior:           behavior,
		DeletionReason:                 current.DeletionReason,
		ExactAlarmDialogNeverShowAgain: payload.ExactAlarmDialogNeverShowAgain,
		MostUsedAlarms:                 mostUsed,
	}
	if err := h.prefs.Save(r.Context(), prefs); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toPayload(prefs))
}

func (h *Handler) handleAckDeletionReason(w http.ResponseWriter, r *http.Request) {
	reason, err := h.prefs.AcknowledgeDeletionReason(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"deletion_reason": uint32(reason),
		"device_off":      reason.Has(domain.DeletionReasonDeviceOff),
	})
}

type permissionPayload struct {
	ExactAllowed bool `json:"exact_allowed"`
}

func (h *Handler) handleGetPermission(w http.ResponseWriter, r *http.Request) {
	allowed := true
	if h.gate != nil {
		allowed = h.gate.Allowed()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(permissionPayload{ExactAllowed: allowed})
}

func (h *Handler) handlePutPermission(w http.ResponseWriter, r *http.Request) {
	if h.gate == nil {
		http.Error(w, "exact wake-ups are not restricted", http.StatusConflict)
		return
	}
	var payload permissionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	h.gate.SetAllowed(payload.ExactAllowed)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(permissionPayload{ExactAllowed: h.gate.Allowed()})
}

// HealthHandler reports liveness.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
}
