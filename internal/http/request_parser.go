// Package http provides HTTP server and handler implementations.
//
// This file holds the request parsing helpers shared by the handlers. Every
// parse failure comes back as a core error so writeError can map it to a
// status code.

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"neirocalendar/internal/core"
)

// Form field names accepted by the mutation endpoints.
const (
	fieldPersonName = "personName"
	fieldDate       = "date"
	fieldMonths     = "months"
	fieldRecordID   = "recordId"
)

const maxBodyBytes = 64 << 10

// MonthParams holds year/month query values. Zero means "not given".
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams reads year and month from a query string. Missing values
// stay zero; present values must be integers inside the supported range.
func ParseMonthParams(query url.Values) (MonthParams, error) {
	var params MonthParams

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < core.MinYear || y > core.MaxYear {
			return params, fmt.Errorf("%w: year %q", core.ErrInvalidDateRange, v)
		}
		params.Year = y
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return params, fmt.Errorf("%w: month %q", core.ErrInvalidDateRange, v)
		}
		params.Month = m
	}

	return params, nil
}

// parseQueryDate reads a mandatory YYYY-MM-DD query value.
func parseQueryDate(query url.Values) (core.Date, error) {
	v := strings.TrimSpace(query.Get(fieldDate))
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: %w", core.ErrInvalidDateRange, err)
	}
	return d, nil
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once, up to 64 KiB.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// PersonName returns the personName field.
func (p *RequestBodyParser) PersonName() string {
	return p.Get(fieldPersonName)
}

// Date returns the date field. A malformed value is a validation error on
// that field; an empty one yields the zero Date, which validation rejects.
func (p *RequestBodyParser) Date() (core.Date, error) {
	v := p.Get(fieldDate)
	if v == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, core.NewValidationError(fieldDate, err)
	}
	return d, nil
}

// Months returns the months field.
func (p *RequestBodyParser) Months() (int, error) {
	v := p.Get(fieldMonths)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, core.NewValidationError(fieldMonths, fmt.Errorf("%w: %q", core.ErrInvalidMonths, v))
	}
	return n, nil
}

// RecordID returns the recordId field, which must be a positive integer.
func (p *RequestBodyParser) RecordID() (int64, error) {
	v := p.Get(fieldRecordID)
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, core.NewValidationError(fieldRecordID, fmt.Errorf("invalid record id %q", v))
	}
	return id, nil
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
