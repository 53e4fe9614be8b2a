package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for visit dates (forms, CLI flags, messages).
const DateLayout = "2006-01-02"

const (
	MinYear = 1
	MaxYear = 9999
)

// Date is a calendar date without time of day, always normalised to UTC midnight
// so that it can be compared with == and used as a map key.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day. Out of range values
// roll over the way time.Date does.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	if y := d.Year(); y < MinYear || y > MaxYear {
		return &DateRangeError{Year: y, Month: d.Month()}
	}
	return nil
}

func (d Date) Day() int {
	return d.Time.Day()
}

func (d Date) Month() int {
	return int(d.Time.Month())
}

func (d Date) Year() int {
	return d.Time.Year()
}

// ISOWeekday returns 1 for Monday through 7 for Sunday.
func (d Date) ISOWeekday() int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// AddDays returns the date n calendar days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalText encodes the date as YYYY-MM-DD, the zero date as "".
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON overrides the RFC 3339 encoding promoted from time.Time.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a YYYY-MM-DD string: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

// DaysIn returns the number of days in the given month.
func DaysIn(year, month int) int {
	return NewDate(year, month+1, 0).Day()
}

// ValidateYearMonth checks a (year, month) pair without clamping.
func ValidateYearMonth(year, month int) error {
	if month < 1 || month > 12 || year < MinYear || year > MaxYear {
		return &DateRangeError{Year: year, Month: month}
	}
	return nil
}

// MonthContext describes the calendar month being viewed.
type MonthContext struct {
	Year  int
	Month int
	Start Date
	End   Date
}

// NewMonthContext resolves the first and last day of a month.
func NewMonthContext(year, month int) (MonthContext, error) {
	if err := ValidateYearMonth(year, month); err != nil {
		return MonthContext{}, err
	}
	return MonthContext{
		Year:  year,
		Month: month,
		Start: NewDate(year, month, 1),
		End:   NewDate(year, month, DaysIn(year, month)),
	}, nil
}

// Contains reports whether d falls inside the month.
func (mc MonthContext) Contains(d Date) bool {
	return d.Year() == mc.Year && d.Month() == mc.Month
}

// Prev returns the previous month's year and month.
func (mc MonthContext) Prev() (int, int) {
	if mc.Month == 1 {
		return mc.Year - 1, 12
	}
	return mc.Year, mc.Month - 1
}

// Next returns the following month's year and month.
func (mc MonthContext) Next() (int, int) {
	if mc.Month == 12 {
		return mc.Year + 1, 1
	}
	return mc.Year, mc.Month + 1
}
