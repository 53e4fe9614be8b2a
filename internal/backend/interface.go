package backend

import (
	"context"

	"neirocalendar/internal/amqp"
	"neirocalendar/internal/services"
	"neirocalendar/internal/storage"
)

// CleanupFunc releases resources held by a backend
type CleanupFunc func() error

// Result contains the store, the optional event publisher and a cleanup function
type Result struct {
	Store     storage.AttendanceStore
	Publisher *amqp.Client
	Cleanup   CleanupFunc
}

// ServiceOptions returns the service options implied by the backend.
// A nil publisher is never handed to the services.
func (r *Result) ServiceOptions() []services.Option {
	if r.Publisher == nil {
		return nil
	}
	return []services.Option{services.WithPublisher(r.Publisher)}
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory specific, optional
	MemorySeedFile string

	// Change events, optional for every backend
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
