package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"neirocalendar/internal/core"
	"neirocalendar/internal/log"
)

// calendarPage is the data of calendar.html.
type calendarPage struct {
	View  core.CalendarView
	Today core.Date
	Text  uiText
}

// dayPartial is the data of day.html.
type dayPartial struct {
	Date    core.Date
	Records []core.AttendanceRecord
	Summary core.MonthlySummary
	Text    uiText
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/calendar", http.StatusFound)
}

// handleCalendar renders the month page. htmx requests targeting the grid
// only get the grid fragment.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	params, err := ParseMonthParams(r.URL.Query())
	if err != nil {
		s.writeError(w, r, log.OpParse, err)
		return
	}
	year, month := s.calendar.ResolveMonth(params.Year, params.Month)

	ctx, cancel := s.requestContext(r)
	defer cancel()
	view, err := s.calendar.Assemble(ctx, year, month)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}

	page := calendarPage{
		View:  view,
		Today: s.calendar.Today(),
		Text:  s.text,
	}

	name := "calendar.html"
	if isHTMX(r) && r.Header.Get("HX-Target") == "calendar" {
		name = "calendar_grid"
	}
	s.render(w, r, name, page)
}

// handleDay renders the visits of one day.
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	date, err := parseQueryDate(r.URL.Query())
	if err != nil {
		s.writeError(w, r, log.OpParse, err)
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	records, err := s.attendance.RecordsForDay(ctx, date)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}

	s.render(w, r, "day.html", dayPartial{
		Date:    date,
		Records: records,
		Summary: core.Summarize(records, s.calendar.PricePerVisit()),
		Text:    s.text,
	})
}

// handleExportPDF streams the monthly report as a PDF attachment.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	params, err := ParseMonthParams(r.URL.Query())
	if err != nil {
		s.writeError(w, r, log.OpParse, err)
		return
	}
	year, month := s.calendar.ResolveMonth(params.Year, params.Month)

	ctx, cancel := s.requestContext(r)
	defer cancel()
	view, err := s.calendar.Assemble(ctx, year, month)
	if err != nil {
		s.writeError(w, r, log.OpRead, err)
		return
	}

	pdf, err := s.reports.RenderMonth(view)
	if err != nil {
		s.writeError(w, r, log.OpRender, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Report exported",
		log.NewFields().WithPeriod(year, month).WithOperation(log.OpRender).ToSlice()...)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%04d-%02d.pdf"`, year, month))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}

// render executes a template into a buffer first so a failing template
// never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err,
			"template", name,
			log.FieldErrorType, log.ErrorTypeInternal)
		InternalServerError(s.text.StoreFailure).Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
