package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrValidation        = errors.New("validation failed")
	ErrStore             = errors.New("store unavailable")
	ErrZeroDate          = errors.New("date cannot be zero")
	ErrEmptyPersonName   = errors.New("empty person name")
	ErrInvalidMonths     = errors.New("months span must be positive")
	ErrWeekdayNotAllowed = errors.New("weekday not allowed")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// DateRangeError reports a year/month pair outside the supported calendar.
type DateRangeError struct {
	Year  int
	Month int
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("invalid date range: year %d month %d", e.Year, e.Month)
}

func (e *DateRangeError) Unwrap() error { return ErrInvalidDateRange }

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationError aggregates field errors for a rejected input.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		if e.Err != nil {
			return e.Err.Error()
		}
		return ErrValidation.Error()
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap exposes both ErrValidation and the underlying cause to errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// NewValidationError wraps a single cause as a field error.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{
		Err:    err,
		Fields: []FieldError{{Field: field, Tag: "invalid", Message: err.Error()}},
	}
}

// StoreError wraps a persistence failure with the operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{ErrStore, e.Err} }

// WrapStore returns nil for a nil err, otherwise a *StoreError.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
