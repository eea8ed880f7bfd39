package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"hope-store/internal/middleware"
	"hope-store/internal/model"
	"hope-store/internal/repository"

	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// writeJSON writes a JSON response with the given status code. The status
// line is already sent when encoding fails, so the failure is only logged.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any, logger zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().
			Err(err).
			Int("status", status).
			Str("correlation_id", middleware.CorrelationIDFromContext(r.Context())).
			Msg("encode response")
	}
}

// writeError writes an error response. 5xx responses are logged as
// errors; client errors only at debug level.
func writeError(w http.ResponseWriter, r *http.Request, status int, resp model.ErrorResponse, logger zerolog.Logger) {
	resp.CorrelationID = middleware.CorrelationIDFromContext(r.Context())

	event := logger.Debug()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("error", resp.Error).
		Str("details", resp.Details).
		Int("status", status).
		Str("correlation_id", resp.CorrelationID).
		Msg("handler error")

	writeJSON(w, r, status, resp, logger)
}

// writeServiceError maps a service error onto a response. failure is the
// message used when the durable store rejected the write.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, failure string, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, r, domainStatus(domainErr), model.ErrorResponse{Error: domainErr.Message}, logger)
		return
	}

	if se, ok := repository.AsStoreError(err); ok {
		resp := model.ErrorResponse{Error: failure, Details: se.Details}
		if se.Unreachable {
			resp.Error = "Failed to connect to " + se.Backend + "."
		}
		writeError(w, r, se.HTTPStatus(), resp, logger)
		return
	}

	writeError(w, r, http.StatusInternalServerError, model.ErrorResponse{Error: failure, Details: err.Error()}, logger)
}

func domainStatus(err *model.DomainError) int {
	switch err.Code {
	case model.ErrCodeInvalidJSON, model.ErrCodeMissingField, model.ErrCodeInvalidEmail:
		return http.StatusBadRequest
	case model.ErrCodeProductNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodePayload reads a JSON body. Valid JSON that is not an object
// yields an empty payload, so its fields read as missing.
func decodePayload(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, model.ErrInvalidJSON
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, model.ErrInvalidJSON
	}

	payload, _ := value.(map[string]any)
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil
}

// textField returns payload[key] when it is a non-blank string, and ""
// for anything else, including numbers and nulls.
func textField(payload map[string]any, key string) string {
	s, ok := payload[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
