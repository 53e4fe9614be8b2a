package http

import (
	"encoding/json"
	"html/template"
	"net/http"

	"neirocalendar/internal/core"
	"neirocalendar/internal/log"
)

// mutationResponse is the JSON answer to API clients posting JSON bodies.
type mutationResponse struct {
	Found   bool                    `json:"found"`
	Records []core.AttendanceRecord `json:"records,omitempty"`
}

func (s *Server) parseBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Malformed request body",
			log.FieldError, err,
			log.FieldPath, r.URL.Path)
		BadRequestError(http.StatusText(http.StatusBadRequest)).Write(w)
		return nil, false
	}
	return p, true
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	date, err := p.Date()
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	rec, err := s.attendance.Create(ctx, p.PersonName(), date)
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	s.respondChanged(w, r, p, rec.VisitDate, s.text.Created, rec)
}

func (s *Server) handleRecurring(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	date, err := p.Date()
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	months, err := p.Months()
	if err != nil {
		s.writeError(w, r, log.OpCreate, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	recs, err := s.attendance.CreateRecurring(ctx, p.PersonName(), date, months)
	if err != nil {
		if len(recs) > 0 {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Recurring booking stopped part way",
				"created", len(recs),
				"months", months)
		}
		s.writeError(w, r, log.OpCreate, err)
		return
	}
	s.respondChanged(w, r, p, date, s.text.CreatedMany, recs...)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	s.handleMark(w, r, true)
}

func (s *Server) handleUncheck(w http.ResponseWriter, r *http.Request) {
	s.handleMark(w, r, false)
}

func (s *Server) handleMark(w http.ResponseWriter, r *http.Request, attended bool) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	id, err := p.RecordID()
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	found, err := s.attendance.MarkAttended(ctx, id, attended)
	if err != nil {
		s.writeError(w, r, log.OpUpdate, err)
		return
	}
	if !found {
		s.respondNotFound(w, r, p)
		return
	}

	rec, _, err := s.attendance.Get(ctx, id)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	s.respondChanged(w, r, p, rec.VisitDate, s.text.Updated, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	id, err := p.RecordID()
	if err != nil {
		s.writeError(w, r, log.OpDelete, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	rec, found, err := s.attendance.Get(ctx, id)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}
	if err := s.attendance.Delete(ctx, id); err != nil {
		s.writeError(w, r, log.OpDelete, err)
		return
	}
	if !found {
		s.respondNotFound(w, r, p)
		return
	}
	s.respondChanged(w, r, p, rec.VisitDate, s.text.Deleted)
}

// respondChanged answers a successful mutation: JSON for JSON bodies, an
// HX-Trigger for htmx, otherwise a redirect to the affected month.
func (s *Server) respondChanged(w http.ResponseWriter, r *http.Request, p *RequestBodyParser, date core.Date, msg string, recs ...core.AttendanceRecord) {
	switch {
	case p.IsJSON():
		writeJSON(w, http.StatusOK, mutationResponse{Found: true, Records: recs})
	case isHTMX(r):
		NewHTMXResponse().
			TriggerAttendanceChanged(date.Year(), date.Month()).
			TriggerFormReset().
			TriggerSuccessNotification(msg).
			BodyHTML(`<div class="success">` + template.HTMLEscapeString(msg) + `</div>`).
			Write(w)
	default:
		SeeOther(calendarURL(date.Year(), date.Month())).Write(w)
	}
}

// respondNotFound answers a mutation on an unknown record, which is a no-op.
func (s *Server) respondNotFound(w http.ResponseWriter, r *http.Request, p *RequestBodyParser) {
	switch {
	case p.IsJSON():
		writeJSON(w, http.StatusOK, mutationResponse{Found: false})
	case isHTMX(r):
		NewHTMXResponse().
			TriggerNotification(NotificationWarning, s.text.NotFound, 4000).
			Write(w)
	default:
		year, month := s.calendar.CurrentMonth()
		SeeOther(calendarURL(year, month)).Write(w)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
