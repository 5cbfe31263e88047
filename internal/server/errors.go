package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pthm/xloss"
	"github.com/pthm/xloss/internal/logger"
)

var (
	// ErrNotHTMX is returned for mutating requests sent without
	// HX-Request: true.
	ErrNotHTMX = errors.New("mutating requests must come from htmx")

	// ErrVarNotFound is returned when deleting a variable that is not set.
	ErrVarNotFound = errors.New("variable not found")
)

// statusClientClosedRequest is the non-standard status for requests the
// client abandoned before the response was ready.
const statusClientClosedRequest = 499

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps page errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, xloss.ErrInvalidIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, ErrVarNotFound):
		return http.StatusNotFound
	case xloss.IsCollision(err):
		return http.StatusConflict
	case xloss.IsAuthentication(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError && !isContextError(err) {
		log.Error().Err(err).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
