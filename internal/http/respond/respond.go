// Package respond writes the JSON envelope every API endpoint answers with:
// {"success":true,"data":...} or {"success":false,"error":"..."}.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
	"github.com/MrJamesThe3rd/rentbook/internal/statement"
	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	write(w, r, status, envelope{Success: true, Data: data})
}

func OK(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, r, http.StatusOK, data)
}

// Error answers with the status matching err and err's message verbatim.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	log := hlog.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", status).Msg("request rejected")
	}

	write(w, r, status, envelope{Error: err.Error()})
}

func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	write(w, r, http.StatusBadRequest, envelope{Error: msg})
}

// Year reads the year query parameter, defaulting to now's year. On a bad
// value it answers 400 and returns false.
func Year(w http.ResponseWriter, r *http.Request, now time.Time) (int, bool) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return now.Year(), true
	}

	year, err := strconv.Atoi(s)
	if err != nil || year < 1900 || year > 9999 {
		BadRequest(w, r, "invalid year: "+s)
		return 0, false
	}

	return year, true
}

// Status maps an error to an HTTP status.
func Status(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, statement.ErrNotFound),
		errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, property.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, transaction.ErrAlreadyExtracted),
		errors.Is(err, statement.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrExternalService):
		return http.StatusBadGateway
	case errors.Is(err, apperr.ErrConfiguration):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

func write(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to encode response")
	}
}
