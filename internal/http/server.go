package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"neirocalendar/internal/log"
	"neirocalendar/internal/metrics"
	"neirocalendar/internal/middleware/ratelimit"
	"neirocalendar/internal/middleware/security"
	"neirocalendar/internal/middleware/trace"
	"neirocalendar/internal/report"
	"neirocalendar/internal/services"
	appweb "neirocalendar/web"
)

const defaultRequestTimeout = 7 * time.Second

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Server struct {
	http.Server
	templates  *template.Template
	calendar   *services.CalendarService
	attendance *services.AttendanceService
	reports    *report.Renderer
	text       uiText
	logger     *log.Logger

	readiness      map[string]ReadinessCheck
	rateLimiter    *ratelimit.Limiter
	detector       *security.Detector
	requestTimeout time.Duration
	rateLimit      int
	started        time.Time

	shutdownOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithReadinessCheck adds a named dependency check to /readyz.
func WithReadinessCheck(name string, check ReadinessCheck) Option {
	return func(s *Server) { s.readiness[name] = check }
}

// WithRateLimit caps POST requests per client and minute.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) { s.rateLimit = perMinute }
}

func WithReportRenderer(r *report.Renderer) Option {
	return func(s *Server) { s.reports = r }
}

// WithRequestTimeout bounds the store work of a single request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.requestTimeout = d }
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, calendar *services.CalendarService, attendance *services.AttendanceService, opts ...Option) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		calendar:       calendar,
		attendance:     attendance,
		readiness:      make(map[string]ReadinessCheck),
		requestTimeout: defaultRequestTimeout,
		rateLimit:      ratelimit.DefaultConfig().RequestsPerMinute,
		started:        time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(log.DefaultConfig())
	}
	s.logger = s.logger.WithComponent(log.ComponentHTTP)
	s.text = textFor(calendar.Locale())
	if s.reports == nil {
		s.reports = report.NewRenderer(report.WithLocale(calendar.Locale()))
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	mux := http.NewServeMux()
	if err := s.routes(mux); err != nil {
		return nil, err
	}

	s.detector = security.NewDetector(s.logger)
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: s.rateLimit})

	var h http.Handler = mux
	h = s.rateLimiter.Middleware(s.detector.ExtractClientIP, ratelimit.DefaultConfig().Methods, s.onRateLimited)(h)
	h = trace.NewMiddleware(s.logger, s.detector.ExtractClientIP).Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.detector.Middleware(h)
	h = log.Middleware(s.logger)(h)
	s.Handler = h

	return s, nil
}

func (s *Server) routes(mux *http.ServeMux) error {
	static, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("mount static assets: %w", err)
	}
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(
		http.StripPrefix("/static/", http.FileServer(http.FS(static)))))

	s.handle(mux, "GET /{$}", s.handleIndex)
	s.handle(mux, "GET /calendar", s.handleCalendar)
	s.handle(mux, "GET /calendar/day", s.handleDay)
	s.handle(mux, "GET /calendar/export.pdf", s.handleExportPDF)
	s.handle(mux, "POST /calendar/add", s.handleAdd)
	s.handle(mux, "POST /calendar/recurring", s.handleRecurring)
	s.handle(mux, "POST /calendar/check", s.handleCheck)
	s.handle(mux, "POST /calendar/uncheck", s.handleUncheck)
	s.handle(mux, "POST /calendar/delete", s.handleDelete)
	s.handle(mux, "GET /healthz", s.handleHealth)
	s.handle(mux, "GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())
	return nil
}

// handle registers h and records its latency under the route pattern, so
// query strings and ids never become label values.
func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rw, r)
		metrics.ObserveHTTP(r.Method, pattern, rw.status, time.Since(start))
	}))
}

// statusRecorder wraps http.ResponseWriter to capture the status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.detector.ExtractClientIP(r),
		log.FieldPath, r.URL.Path)
	resp := ErrorResponse(http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
	if isHTMX(r) {
		resp.TriggerErrorNotification(http.StatusText(http.StatusTooManyRequests))
	}
	resp.Write(w)
}

// requestContext bounds store work for one request.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
