package core

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

var weekdayCodes = map[string]time.Weekday{
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
	"SUN": time.Sunday,
}

// WeekdayPolicy restricts which weekdays accept new visits.
// The zero value allows every day.
type WeekdayPolicy struct {
	allowed map[time.Weekday]bool
}

// NewWeekdayPolicy allows only the given weekdays. No arguments means no restriction.
func NewWeekdayPolicy(days ...time.Weekday) WeekdayPolicy {
	if len(days) == 0 {
		return WeekdayPolicy{}
	}
	p := WeekdayPolicy{allowed: make(map[time.Weekday]bool, len(days))}
	for _, d := range days {
		p.allowed[d] = true
	}
	return p
}

// ParseWeekdayPolicy reads a comma separated list such as "TUE,THU,FRI,SUN".
func ParseWeekdayPolicy(s string) (WeekdayPolicy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return WeekdayPolicy{}, nil
	}
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code == "" {
			continue
		}
		if len(code) > 3 {
			code = code[:3]
		}
		wd, ok := weekdayCodes[code]
		if !ok {
			return WeekdayPolicy{}, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, wd)
	}
	return NewWeekdayPolicy(days...), nil
}

// Unrestricted reports whether every weekday is allowed.
func (p WeekdayPolicy) Unrestricted() bool {
	return len(p.allowed) == 0
}

// Allows reports whether visits may be booked on d.
func (p WeekdayPolicy) Allows(d Date) bool {
	return p.Unrestricted() || p.allowed[d.Weekday()]
}

// Check returns a validation error when d falls on a disallowed weekday.
func (p WeekdayPolicy) Check(d Date) error {
	if p.Allows(d) {
		return nil
	}
	return &ValidationError{
		Err: ErrWeekdayNotAllowed,
		Fields: []FieldError{{
			Field:   "visit_date",
			Tag:     "weekday",
			Message: fmt.Sprintf("visits are not booked on %s (allowed: %s)", d.Weekday(), p),
		}},
	}
}

// String lists allowed weekdays Monday first.
func (p WeekdayPolicy) String() string {
	if p.Unrestricted() {
		return "any"
	}
	days := make([]time.Weekday, 0, len(p.allowed))
	for d := range p.allowed {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return isoIndex(days[i]) < isoIndex(days[j]) })
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = strings.ToUpper(d.String()[:3])
	}
	return strings.Join(names, ",")
}

func isoIndex(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}
