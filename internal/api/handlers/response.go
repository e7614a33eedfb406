package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hashibank/hashi-bank-be/internal/apperr"
	"github.com/rs/zerolog/log"
)

const internalErrorMessage = "Internal server error"

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError maps err onto a status code and a client-facing message.
// op names the failed operation in the log line.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	code := http.StatusInternalServerError
	msg := internalErrorMessage

	switch {
	case errors.Is(err, apperr.ErrValidation):
		code, msg = http.StatusBadRequest, apperr.Message(err, "Invalid request")
	case errors.Is(err, apperr.ErrUnauthorized):
		code, msg = http.StatusUnauthorized, apperr.Message(err, "Unauthorized")
	case errors.Is(err, apperr.ErrNotFound):
		code, msg = http.StatusNotFound, apperr.Message(err, "Not found")
	case errors.Is(err, apperr.ErrConfig):
		msg = apperr.Message(err, internalErrorMessage)
	}

	event := log.Warn()
	if code >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("path", r.URL.Path).Int("status", code).Msg(op + " failed")

	writeJSON(w, code, errorResponse{Error: msg})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}
