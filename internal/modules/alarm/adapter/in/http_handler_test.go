package in_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	alarmin "reader365/internal/modules/alarm/adapter/in"
	"reader365/internal/modules/alarm/dto"
	apperrors "reader365/internal/platform/errors"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHTTPScheduleLifecycle(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{}
	h := alarmin.NewHTTPHandler(uc, zap.NewNop())

	rec := do(t, h, http.MethodPost, "/api/schedules", `{"name":"Morning","time":"09:00","days":["Monday"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created dto.ScheduleOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if !created.SoundEnabled {
		t.Fatalf("sound should default to enabled")
	}

	rec = do(t, h, http.MethodPost, fmt.Sprintf("/api/schedules/%d/toggle", created.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/api/schedules", "")
	var list []dto.ScheduleOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Enabled {
		t.Fatalf("expected one disabled schedule, got %+v", list)
	}

	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/api/schedules/%d", created.ID), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodGet, fmt.Sprintf("/api/schedules/%d", created.ID), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", rec.Code)
	}
}

func TestHTTPErrorMapping(t *testing.T) {
	t.Parallel()
	h := alarmin.NewHTTPHandler(&fakeUsecase{}, zap.NewNop())
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "invalid body", method: http.MethodPost, path: "/api/schedules", body: "{", status: http.StatusBadRequest},
		{name: "validation", method: http.MethodPost, path: "/api/schedules", body: `{"name":"x","time":"09:00"}`, status: http.StatusBadRequest},
		{name: "bad id", method: http.MethodPost, path: "/api/schedules/abc/toggle", status: http.StatusBadRequest},
		{name: "unknown id", method: http.MethodDelete, path: "/api/schedules/99", status: http.StatusNotFound},
		{name: "eye break range", method: http.MethodPut, path: "/api/eye-break", body: `{"enabled":true,"interval_minutes":5,"break_duration_minutes":5}`, status: http.StatusBadRequest},
		{name: "no audio", method: http.MethodPost, path: "/api/sound/test", status: http.StatusServiceUnavailable},
		{name: "bad limit", method: http.MethodGet, path: "/api/history?limit=x", status: http.StatusBadRequest},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, tc.method, tc.path, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHTTPPersistenceFailureIsWarning(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{saveErr: fmt.Errorf("%w: disk full", apperrors.ErrPersistence)}
	h := alarmin.NewHTTPHandler(uc, zap.NewNop())
	rec := do(t, h, http.MethodPost, "/api/schedules", `{"name":"Morning","time":"09:00","days":["Monday"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 despite persistence failure, got %d", rec.Code)
	}
	if rec.Header().Get("X-Reader365-Warning") == "" {
		t.Fatalf("expected warning header")
	}
}

func TestHTTPCheckAndNotifications(t *testing.T) {
	t.Parallel()
	uc := &fakeUsecase{}
	h := alarmin.NewHTTPHandler(uc, zap.NewNop())

	rec := do(t, h, http.MethodPost, "/api/check", "")
	if rec.Code != http.StatusOK || uc.checkCount() != 1 {
		t.Fatalf("check: status=%d checks=%d", rec.Code, uc.checkCount())
	}
	rec = do(t, h, http.MethodGet, "/api/notifications", "")
	var notes []dto.NotificationOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &notes); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	if len(notes) != 1 || notes[0].EyeBreakHint != "hint" {
		t.Fatalf("unexpected notifications: %+v", notes)
	}
	rec = do(t, h, http.MethodGet, "/api/history?limit=5", "")
	if !strings.Contains(rec.Body.String(), "limit-5") {
		t.Fatalf("expected limit to be forwarded, got %s", rec.Body.String())
	}
	rec = do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
}
