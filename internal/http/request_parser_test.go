package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"neirocalendar/internal/core"
)

func strconvID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestParseMonthParams(t *testing.T) {
	tests := []struct {
		name      string
		query     url.Values
		want      MonthParams
		wantError bool
	}{
		{"both values", url.Values{"year": {"2024"}, "month": {"12"}}, MonthParams{2024, 12}, false},
		{"missing values stay zero", url.Values{}, MonthParams{}, false},
		{"whitespace", url.Values{"year": {" 2025 "}, "month": {" 1"}}, MonthParams{2025, 1}, false},
		{"month 13", url.Values{"month": {"13"}}, MonthParams{}, true},
		{"month 0", url.Values{"month": {"0"}}, MonthParams{}, true},
		{"non numeric", url.Values{"year": {"abc"}}, MonthParams{}, true},
		{"year out of range", url.Values{"year": {"10000"}}, MonthParams{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonthParams(tt.query)
			if tt.wantError {
				if !errors.Is(err, core.ErrInvalidDateRange) {
					t.Fatalf("expected ErrInvalidDateRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequestBodyParser_Form(t *testing.T) {
	body := url.Values{"personName": {" Anna\x00 "}, "date": {"2024-02-29"}, "months": {"3"}, "recordId": {"42"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}

	if p.IsJSON() {
		t.Error("form body detected as JSON")
	}
	if got := p.PersonName(); got != "Anna" {
		t.Errorf("PersonName = %q", got)
	}
	if d, err := p.Date(); err != nil || d != core.NewDate(2024, 2, 29) {
		t.Errorf("Date = %s, %v", d, err)
	}
	if n, err := p.Months(); err != nil || n != 3 {
		t.Errorf("Months = %d, %v", n, err)
	}
	if id, err := p.RecordID(); err != nil || id != 42 {
		t.Errorf("RecordID = %d, %v", id, err)
	}
}

func TestRequestBodyParser_JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"recordId": 7, "months": 2}`))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if !p.IsJSON() {
		t.Fatal("expected JSON")
	}
	if id, err := p.RecordID(); err != nil || id != 7 {
		t.Errorf("RecordID = %d, %v", id, err)
	}
	if n, err := p.Months(); err != nil || n != 2 {
		t.Errorf("Months = %d, %v", n, err)
	}
}

func TestRequestBodyParser_Errors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"broken"`))
	if err := NewRequestBodyParser(req).Parse(); err == nil {
		t.Error("expected JSON syntax error")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("recordId=-1&date=2024-13-01&months=x"))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	if _, err := p.RecordID(); !errors.Is(err, core.ErrValidation) {
		t.Errorf("RecordID: %v", err)
	}
	if _, err := p.Date(); !errors.Is(err, core.ErrValidation) {
		t.Errorf("Date: %v", err)
	}
	if _, err := p.Months(); !errors.Is(err, core.ErrInvalidMonths) {
		t.Errorf("Months: %v", err)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.NewValidationError("date", core.ErrZeroDate), http.StatusUnprocessableEntity},
		{&core.DateRangeError{Year: 2024, Month: 13}, http.StatusBadRequest},
		{core.WrapStore("save", errors.New("disk full")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
