package services

import (
	"context"
	"log/slog"
	"time"

	"neirocalendar/internal/core"
	"neirocalendar/internal/log"
)

// EventPublisher announces attendance changes to other processes.
type EventPublisher interface {
	PublishRecordSaved(ctx context.Context, r core.AttendanceRecord) error
	PublishRecordDeleted(ctx context.Context, id int64) error
}

type settings struct {
	publisher     EventPublisher
	policy        core.WeekdayPolicy
	pricePerVisit int64
	locale        string
	now           func() time.Time
	logger        *log.Logger
}

func defaultSettings() settings {
	return settings{
		pricePerVisit: core.DefaultPricePerVisit,
		locale:        core.DefaultLocale,
		now:           time.Now,
		logger:        log.New(log.Config{Handler: slog.Default().Handler()}),
	}
}

// Option configures a service.
type Option func(*settings)

// WithPublisher sends change events after every successful mutation.
func WithPublisher(p EventPublisher) Option {
	return func(s *settings) { s.publisher = p }
}

func WithWeekdayPolicy(p core.WeekdayPolicy) Option {
	return func(s *settings) { s.policy = p }
}

func WithPricePerVisit(price int64) Option {
	return func(s *settings) { s.pricePerVisit = price }
}

func WithLocale(locale string) Option {
	return func(s *settings) { s.locale = locale }
}

// WithClock overrides time.Now, used to resolve the current month.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func applyOptions(opts []Option) settings {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
