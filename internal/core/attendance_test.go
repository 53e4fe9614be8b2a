package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestAttendanceRecord_Validate(t *testing.T) {
	tests := []struct {
		name      string
		record    AttendanceRecord
		wantErr   error
		wantField string
	}{
		{
			name:   "valid",
			record: NewAttendanceRecord("Анна", NewDate(2024, 2, 29)),
		},
		{
			name:      "empty name",
			record:    NewAttendanceRecord("", NewDate(2024, 2, 29)),
			wantErr:   ErrEmptyPersonName,
			wantField: "person_name",
		},
		{
			name:      "blank name",
			record:    AttendanceRecord{PersonName: "   ", VisitDate: NewDate(2024, 2, 29)},
			wantErr:   ErrEmptyPersonName,
			wantField: "person_name",
		},
		{
			name:      "name too long",
			record:    NewAttendanceRecord(strings.Repeat("x", MaxPersonNameLength+1), NewDate(2024, 2, 29)),
			wantErr:   ErrValidation,
			wantField: "person_name",
		},
		{
			name:      "zero date",
			record:    NewAttendanceRecord("Анна", Date{}),
			wantErr:   ErrZeroDate,
			wantField: "visit_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("expected error to match ErrValidation: %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if len(verr.Fields) == 0 || verr.Fields[0].Field != tt.wantField {
				t.Errorf("fields = %+v, want %s", verr.Fields, tt.wantField)
			}
		})
	}
}

func TestNewAttendanceRecord(t *testing.T) {
	r := NewAttendanceRecord("  Иван ", NewDate(2024, 1, 2))
	if r.PersonName != "Иван" || r.Attended || !r.IsNew() {
		t.Errorf("unexpected record: %+v", r)
	}
}

func TestWeekdayPolicy(t *testing.T) {
	p, err := ParseWeekdayPolicy("tue, THU,friday,SUN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.String(); got != "TUE,THU,FRI,SUN" {
		t.Errorf("String() = %q", got)
	}

	// 2024-01-01 is a Monday.
	for offset, want := range []bool{false, true, false, true, true, false, true} {
		d := NewDate(2024, 1, 1+offset)
		if got := p.Allows(d); got != want {
			t.Errorf("Allows(%s %s) = %v, want %v", d, d.Weekday(), got, want)
		}
	}

	if err := p.Check(NewDate(2024, 1, 1)); !errors.Is(err, ErrWeekdayNotAllowed) || !errors.Is(err, ErrValidation) {
		t.Errorf("Check(Monday) = %v", err)
	}

	empty, err := ParseWeekdayPolicy("")
	if err != nil || !empty.Unrestricted() || !empty.Allows(NewDate(2024, 1, 1)) {
		t.Errorf("empty policy should allow everything: %v", err)
	}

	if _, err := ParseWeekdayPolicy("MON,XYZ"); err == nil {
		t.Error("expected error for unknown weekday")
	}

	if got := NewWeekdayPolicy(time.Sunday, time.Monday).String(); got != "MON,SUN" {
		t.Errorf("ordering = %q", got)
	}
}

func TestMonthNames(t *testing.T) {
	ru, err := MonthNames(LocaleRussian)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ru[0] != "Январь" || ru[1] != "Февраль" || ru[11] != "Декабрь" {
		t.Errorf("ru = %v", ru)
	}

	en, err := MonthNames("EN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if en[4] != "May" {
		t.Errorf("en[4] = %q", en[4])
	}

	if _, err := MonthNames("de"); err == nil {
		t.Error("expected error for unsupported locale")
	}

	wd, _ := WeekdayNames(LocaleRussian)
	if wd[0] != "Пн" || wd[6] != "Вс" {
		t.Errorf("weekdays = %v", wd)
	}

	if _, err := MonthName(LocaleRussian, 0); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("MonthName(0) = %v", err)
	}
}
