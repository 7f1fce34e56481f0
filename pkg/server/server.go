// Package server exposes a grid engine over HTTP.
//
// The server plays the host for a browser or another remote front end: it
// answers layout queries and relays the pointer session. The engine is
// single-threaded, so every request holds the server mutex while it touches
// the engine; pointer events from one client are therefore processed in
// arrival order.
//
//	GET  /healthz
//	GET  /api/v1/layout?view=week&date=2026-02-16&scroll=0&viewport=600
//	GET  /api/v1/cells/{date}/{resource}
//	GET  /api/v1/lanes/{date}
//	POST /api/v1/groups/{group}/toggle
//	POST /api/v1/pointer/down    {"booking_id":"b1","edge":"end","x":180,"y":40}
//	POST /api/v1/pointer/move    {"x":200,"y":40}
//	POST /api/v1/pointer/up      {"x":200,"y":40}
//	POST /api/v1/pointer/cancel
//	POST /api/v1/reload
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/errors"
	"github.com/matzehuels/schedgrid/pkg/grid"
	"github.com/matzehuels/schedgrid/pkg/interaction"
	"github.com/matzehuels/schedgrid/pkg/observability"
	"github.com/matzehuels/schedgrid/pkg/source"
)

// Server serves one engine.
type Server struct {
	mu     sync.Mutex
	engine *grid.Engine
	src    source.Source
	logger *log.Logger
	router chi.Router
}

// New returns a server for engine. src is used by the reload endpoint and
// may be nil.
func New(engine *grid.Engine, src source.Source, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		engine: engine,
		src:    src,
		logger: logger.WithPrefix("http"),
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.Recoverer, s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Get("/cells/{date}/{resource}", s.handleCell)
		r.Get("/lanes/{date}", s.handleLanes)
		r.Post("/groups/{group}/toggle", s.handleToggle)
		r.Post("/reload", s.handleReload)

		r.Route("/pointer", func(r chi.Router) {
			r.Post("/down", s.handleDown)
			r.Post("/move", s.handleMove)
			r.Post("/up", s.handleUp)
			r.Post("/cancel", s.handleCancel)
		})
	})
	return r
}

// observe reports every request to the server hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		took := time.Since(start)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", ww.Status(), "took", took)
		observability.Server().OnRequest(r.Context(), r.Method, route, ww.Status(), took)
	})
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

// =============================================================================
// Layout queries
// =============================================================================

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scroll, err := floatParam(q.Get("scroll"), 0)
	if err != nil {
		writeError(w, err)
		return
	}
	viewport, err := floatParam(q.Get("viewport"), 600)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, d := q.Get("view"), q.Get("date"); v != "" || d != "" {
		view, anchor, err := s.parseView(v, d)
		if err != nil {
			writeError(w, err)
			return
		}
		s.engine.SetView(view, anchor)
	}
	writeJSON(w, http.StatusOK, s.engine.Snapshot(scroll, viewport))
}

func (s *Server) parseView(v, d string) (booking.View, time.Time, error) {
	cur, anchor := s.engine.View()
	view := cur
	if v != "" {
		parsed, err := booking.ParseView(v)
		if err != nil {
			return "", time.Time{}, err
		}
		view = parsed
	}
	if d != "" {
		t, err := booking.ParseDateKey(d)
		if err != nil {
			return "", time.Time{}, err
		}
		anchor = t
	}
	return view, anchor, nil
}

func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if err := errors.ValidateDateKey(date); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cell := s.engine.Cell(date, chi.URLParam(r, "resource"))
	out := make([]booking.Booking, len(cell))
	for i, b := range cell {
		out[i] = *b
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLanes(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	if err := errors.ValidateDateKey(date); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.engine.Lanes(date))
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collapsed, err := s.engine.ToggleGroup(chi.URLParam(r, "group"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"collapsed": collapsed})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.src == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "server has no source to reload from"))
		return
	}
	ds, err := s.src.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetDataset(ds)
	s.logger.Info("dataset reloaded", "source", s.src.Kind(), "bookings", len(ds.Bookings))
	writeJSON(w, http.StatusOK, map[string]int{"bookings": len(ds.Bookings), "resources": len(ds.Resources)})
}

// =============================================================================
// Pointer session
// =============================================================================

type downRequest struct {
	BookingID string           `json:"booking_id"`
	Edge      interaction.Edge `json:"edge"`
	X         float64          `json:"x"`
	Y         float64          `json:"y"`
}

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type moveResponse struct {
	Changed bool               `json:"changed"`
	Phase   interaction.Phase  `json:"phase"`
	Ghost   *interaction.Ghost `json:"ghost,omitempty"`
}

type upResponse struct {
	Event   interaction.Event `json:"event"`
	Applied bool              `json:"applied"`
	Error   string            `json:"error,omitempty"`
}

func (s *Server) handleDown(w http.ResponseWriter, r *http.Request) {
	var req downRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.engine.PointerDown(req.BookingID, req.Edge, interaction.Point{X: req.X, Y: req.Y})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.engine.Session(); !ok {
		writeError(w, errors.New(errors.ErrCodeNoSession, "no active pointer session"))
		return
	}
	resp := moveResponse{Changed: s.engine.PointerMove(interaction.Point{X: req.X, Y: req.Y})}
	resp.Phase = s.engine.Phase()
	if g, ok := s.engine.Ghost(); ok {
		resp.Ghost = &g
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUp(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok, err := s.engine.PointerUp(interaction.Point{X: req.X, Y: req.Y})
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNoSession, "no active pointer session"))
		return
	}
	resp := upResponse{Event: ev, Applied: ev.IsCommit() && err == nil}
	if err != nil {
		resp.Error = errors.UserMessage(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancel(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.engine.Cancel()
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNoSession, "no active pointer session"))
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// =============================================================================
// Helpers
// =============================================================================

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func floatParam(s string, def float64) (float64, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid number %q", s)
	}
	return v, nil
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
