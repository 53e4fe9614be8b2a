package services

import (
	"fmt"

	"github.com/teambition/rrule-go"

	"neirocalendar/internal/core"
)

// MaxRecurringMonths bounds a single recurring booking.
const MaxRecurringMonths = 120

// MonthlyOccurrences returns one date per month for months consecutive months
// starting at start. When start's day does not exist in a month the
// occurrence falls on that month's last day (Jan 31 -> Feb 29 -> Mar 31).
func MonthlyOccurrences(start core.Date, months int) ([]core.Date, error) {
	if months <= 0 || months > MaxRecurringMonths {
		return nil, core.NewValidationError("months",
			fmt.Errorf("%w: got %d, max %d", core.ErrInvalidMonths, months, MaxRecurringMonths))
	}

	opt := rrule.ROption{
		Freq:    rrule.MONTHLY,
		Dtstart: start.Time,
		Count:   months,
	}
	if day := start.Day(); day > 28 {
		// Last of {28..day} that exists in the month.
		for d := 28; d <= day; d++ {
			opt.Bymonthday = append(opt.Bymonthday, d)
		}
		opt.Bysetpos = []int{-1}
	} else {
		opt.Bymonthday = []int{day}
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build monthly rule: %w", err)
	}

	times := rule.All()
	out := make([]core.Date, 0, len(times))
	for _, t := range times {
		out = append(out, core.DateOf(t))
	}
	return out, nil
}
