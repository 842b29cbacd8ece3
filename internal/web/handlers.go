package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"codeberg.org/mutker/roomlog/internal/errors"
	"codeberg.org/mutker/roomlog/internal/logger"
	"codeberg.org/mutker/roomlog/internal/query"
	"codeberg.org/mutker/roomlog/internal/segment"
)

const defaultRange = "24h"

// Querier is the slice of the query engine the handlers consume.
type Querier interface {
	Query(ctx context.Context, start, end time.Time) ([]segment.Reading, error)
}

type Handler struct {
	engine Querier
	now    func() time.Time
}

func NewHandler(engine Querier) *Handler {
	return &Handler{engine: engine, now: time.Now}
}

// handleReadings serves GET /api/get_readings?range=24h&date=2025-11-20.
// Malformed parameters reject only this request; corrupt segments surface
// as a partial result, not a failure.
func (h *Handler) handleReadings(w http.ResponseWriter, r *http.Request) {
	rng := r.URL.Query().Get("range")
	if rng == "" {
		rng = defaultRange
	}
	date := r.URL.Query().Get("date")

	start, end, err := query.ResolveWindow(rng, date, h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	readings, err := h.engine.Query(r.Context(), start, end)
	if err != nil {
		logger.Error().Err(err).Msg("Query failed")
		writeError(w, http.StatusInternalServerError, errors.New().Wrap(ErrQueryFailed, err))
		return
	}
	if readings == nil {
		readings = []segment.Reading{}
	}

	writeJSON(w, http.StatusOK, readings)
}

func (*Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := map[string]string{"error": err.Error()}

	var appErr errors.Error
	if errors.As(err, &appErr) {
		body["code"] = string(appErr.Code())
	}

	writeJSON(w, status, body)
}
