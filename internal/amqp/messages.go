package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"neirocalendar/internal/core"
)

// EventType tells the consumer what happened to a record.
type EventType string

const (
	EventRecordSaved   EventType = "attendance.saved"
	EventRecordDeleted EventType = "attendance.deleted"
)

// AttendanceEvent carries a snapshot of a changed record so the consumer
// does not need access to the web process's store.
type AttendanceEvent struct {
	MessageID  string    `json:"message_id"`
	Type       EventType `json:"type"`
	RecordID   int64     `json:"record_id"`
	PersonName string    `json:"person_name,omitempty"`
	VisitDate  string    `json:"visit_date,omitempty"`
	Attended   bool      `json:"attended"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewRecordSavedEvent snapshots a stored record.
func NewRecordSavedEvent(r core.AttendanceRecord) *AttendanceEvent {
	return &AttendanceEvent{
		MessageID:  uuid.NewString(),
		Type:       EventRecordSaved,
		RecordID:   r.ID,
		PersonName: r.PersonName,
		VisitDate:  r.VisitDate.String(),
		Attended:   r.Attended,
		Timestamp:  time.Now().UTC(),
	}
}

// NewRecordDeletedEvent announces removal of a record.
func NewRecordDeletedEvent(id int64) *AttendanceEvent {
	return &AttendanceEvent{
		MessageID: uuid.NewString(),
		Type:      EventRecordDeleted,
		RecordID:  id,
		Timestamp: time.Now().UTC(),
	}
}

func (e *AttendanceEvent) Validate() error {
	if e.RecordID <= 0 {
		return fmt.Errorf("invalid record id %d", e.RecordID)
	}
	switch e.Type {
	case EventRecordSaved:
		if e.PersonName == "" || e.VisitDate == "" {
			return errors.New("saved event without record snapshot")
		}
	case EventRecordDeleted:
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}

// Record rebuilds the attendance record from a saved event.
func (e *AttendanceEvent) Record() (core.AttendanceRecord, error) {
	date, err := core.ParseDate(e.VisitDate)
	if err != nil {
		return core.AttendanceRecord{}, err
	}
	return core.AttendanceRecord{
		ID:         e.RecordID,
		PersonName: e.PersonName,
		VisitDate:  date,
		Attended:   e.Attended,
	}, nil
}

func (e *AttendanceEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// AttendanceEventFromJSON decodes and validates an event body.
func AttendanceEventFromJSON(data []byte) (*AttendanceEvent, error) {
	var e AttendanceEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
