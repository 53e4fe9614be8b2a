package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxPersonNameLength bounds person names accepted from forms and the CLI.
const MaxPersonNameLength = 120

// AttendanceRecord is a single scheduled visit for a person.
// ID 0 means the record has not been stored yet.
type AttendanceRecord struct {
	ID         int64  `json:"id"`
	PersonName string `json:"person_name" validate:"required,max=120"`
	VisitDate  Date   `json:"visit_date" validate:"required"`
	Attended   bool   `json:"attended"`
}

// NewAttendanceRecord returns an unsaved, unattended record with a trimmed name.
func NewAttendanceRecord(personName string, visitDate Date) AttendanceRecord {
	return AttendanceRecord{
		PersonName: strings.TrimSpace(personName),
		VisitDate:  visitDate,
	}
}

// IsNew reports whether the record has never been persisted.
func (r AttendanceRecord) IsNew() bool {
	return r.ID == 0
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// A zero Date reads as missing so that "required" rejects it.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(Date); ok && !d.IsZero() {
			return d.Time
		}
		return nil
	}, Date{})
	return v
}

// Validate checks the record before it reaches a store.
func (r AttendanceRecord) Validate() error {
	r.PersonName = strings.TrimSpace(r.PersonName)
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate attendance record: %w", err)
		}
		return toValidationError(verrs)
	}
	if err := r.VisitDate.Validate(); err != nil {
		return NewValidationError("visit_date", err)
	}
	return nil
}

func toValidationError(verrs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe),
		})
		if out.Err == nil {
			out.Err = fieldCause(fe)
		}
	}
	return out
}

func fieldCause(fe validator.FieldError) error {
	switch {
	case fe.Field() == "person_name" && fe.Tag() == "required":
		return ErrEmptyPersonName
	case fe.Field() == "visit_date" && fe.Tag() == "required":
		return ErrZeroDate
	default:
		return ErrValidation
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
