package web

import (
	"net/http"
	"time"

	"student_dropout_map/internal/infra/logger"

	"github.com/goccy/go-json"
)

// Error codes returned in the envelope.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidParam = "INVALID_PARAMETER"
	CodeNotFound     = "NOT_FOUND"
	CodeDatabase     = "DATABASE_ERROR"
	CodeRender       = "RENDER_ERROR"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
)

// APIResponse is the envelope of every JSON endpoint.
type APIResponse struct {
	Success  bool      `json:"success"`
	Data     any       `json:"data,omitempty"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// writeJSON marshals v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Log.WithError(err).Error("Failed to write JSON response")
	}
}

func respondData(w http.ResponseWriter, data any, start time.Time) {
	writeJSON(w, http.StatusOK, &APIResponse{
		Success: true,
		Data:    data,
		Metadata: Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

func respondError(w http.ResponseWriter, status int, apiErr *APIError) {
	writeJSON(w, status, &APIResponse{
		Success:  false,
		Metadata: Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	})
}
