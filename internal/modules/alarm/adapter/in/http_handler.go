package in

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"reader365/internal/modules/alarm/dto"
	alarmin "reader365/internal/modules/alarm/port/in"
	apperrors "reader365/internal/platform/errors"
)

const warningHeader = "X-Reader365-Warning"

// HTTPHandler exposes the alarm usecase as a local JSON API.
type HTTPHandler struct {
	usecase alarmin.Usecase
	log     *zap.Logger
	router  chi.Router
}

func NewHTTPHandler(usecase alarmin.Usecase, log *zap.Logger) *HTTPHandler {
	h := &HTTPHandler{usecase: usecase, log: log}
	h.setupRoutes()
	return h
}

func (h *HTTPHandler) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/schedules", h.handleListSchedules)
		r.Post("/schedules", h.handleCreateSchedule)
		r.Get("/schedules/{id}", h.handleGetSchedule)
		r.Delete("/schedules/{id}", h.handleDeleteSchedule)
		r.Post("/schedules/{id}/toggle", h.handleToggleSchedule)

		r.Post("/check", h.handleCheck)
		r.Get("/notifications", h.handleNotifications)
		r.Get("/debug", h.handleDebug)

		r.Get("/eye-break", h.handleGetEyeBreak)
		r.Put("/eye-break", h.handleSetEyeBreak)

		r.Get("/stats", h.handleStats)
		r.Get("/history", h.handleHistory)
		r.Post("/sound/test", h.handleSoundTest)
	})
	h.router = r
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (h *HTTPHandler) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		h.log.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		h.log.Info("http server stopped")
		return nil
	}
}

func (h *HTTPHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type createRequest struct {
	Name         string   `json:"name"`
	Time         string   `json:"time"`
	Days         []string `json:"days"`
	Message      string   `json:"message"`
	Duration     int      `json:"duration"`
	SoundEnabled *bool    `json:"sound_enabled"`
}

func (h *HTTPHandler) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sound := req.SoundEnabled == nil || *req.SoundEnabled
	out, err := h.usecase.Create(r.Context(), dto.CreateInput{
		Name:         req.Name,
		Time:         req.Time,
		Days:         req.Days,
		Message:      req.Message,
		Duration:     req.Duration,
		SoundEnabled: sound,
	})
	if h.writeFailure(w, err) {
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *HTTPHandler) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.List(r.Context())
	if h.writeFailure(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := scheduleID(w, r)
	if !ok {
		return
	}
	out, err := h.usecase.Get(r.Context(), id)
	if h.writeFailure(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) handleToggleSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := scheduleID(w, r)
	if !ok {
		return
	}
	out, err := h.usecase.Toggle(r.Context(), id)
	if h.writeFailure(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := scheduleID(w, r)
	if !ok {
		return
	}
	if h.writeFailure(w, h.usecase.Delete(r.Context(), id)) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) handleCheck(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.Check(r.Context())
	if h.writeFailure(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) handleNotifications(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.LastCycle(r.Context())
	if h.writeFailure(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, out.Notifications)
}

func (h *HTTPHandler) handleDebug(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.Debug(r.Context())
	if h.writeFailure(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) handleGetEyeBreak(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.EyeBreak(r.Context())
	if h.writeFailure(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) handleSetEyeBreak(w http.ResponseWriter, r *http.Request) {
	var req dto.EyeBreakInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	out, err := h.usecase.SetEyeBreak(r.Context(), req)
	if h.writeFailure(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.Stats(r.Context())
	if h.writeFailure(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	out, err := h.usecase.History(r.Context(), limit)
	if h.writeFailure(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) handleSoundTest(w http.ResponseWriter, r *http.Request) {
	out, err := h.usecase.TestSound(r.Context())
	if h.writeFailure(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// writeFailure writes the error response and reports whether the handler
// should stop. Persistence failures only add a warning header.
func (h *HTTPHandler) writeFailure(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, apperrors.ErrPersistence):
		h.log.Warn("request completed with persistence failure", zap.Error(err))
		w.Header().Set(warningHeader, err.Error())
		return false
	case errors.Is(err, apperrors.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrAudioUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}

func scheduleID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "schedule id must be a positive integer")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
