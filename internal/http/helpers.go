package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"neirocalendar/internal/core"
	"neirocalendar/internal/log"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// isHTMX reports whether the request was issued by htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// calendarURL links to the month page.
func calendarURL(year, month int) string {
	return fmt.Sprintf("/calendar?year=%d&month=%d", year, month)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidDateRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes the mapped error response. Store failures
// never leak their message to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	logger := log.FromContext(r.Context())

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = s.text.StoreFailure
		log.NewStructuredLogger(logger).LogError(r.Context(), "Request failed", err,
			log.ComponentHTTP, op, log.NewFields().WithErrorType(errorType(err)))
	} else {
		logger.WarnContext(r.Context(), "Request rejected",
			log.FieldOperation, op,
			log.FieldStatusCode, status,
			log.FieldError, err)
	}

	resp := ErrorResponse(status, msg)
	if isHTMX(r) {
		resp.TriggerErrorNotification(msg)
	}
	resp.Write(w)
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return log.ErrorTypeTimeout
	case errors.Is(err, core.ErrStore):
		return log.ErrorTypeDatabase
	case errors.Is(err, core.ErrValidation):
		return log.ErrorTypeValidation
	default:
		return log.ErrorTypeInternal
	}
}

var templateFuncs = template.FuncMap{
	"amount":      core.FormatAmount,
	"calendarURL": calendarURL,
	"add1":        func(i int) int { return i + 1 },
}
