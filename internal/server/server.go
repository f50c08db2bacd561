// Package server exposes the board over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /events?page=&size=
//	POST   /events
//	GET    /events/{id}
//	DELETE /events/{id}
//	POST   /events/{id}/rsvp
//	GET    /events.ics
//	GET    /board?columns=&rows=&order=&gapX=&gapY=
//	GET    /inbox
//
// The acting user is taken from the X-Username header. Errors are returned
// as {"code": "...", "message": "..."} with a status derived from the code.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/eventboard/pkg/board"
	eberrors "github.com/matzehuels/eventboard/pkg/errors"
	"github.com/matzehuels/eventboard/pkg/identity"
	"github.com/matzehuels/eventboard/pkg/messaging"
)

// UserHeader carries the acting user's name.
const UserHeader = "X-Username"

// Options configures a Server.
type Options struct {
	Board    *board.Board
	Inbox    *messaging.Inbox // Optional; GET /inbox is 501 without it
	Layout   board.LayoutOptions
	PageSize int
	Location *time.Location
	Logger   *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New builds the router.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = board.DefaultPageSize
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	s := &Server{opts: opts, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(withIdentity)

	r.Get("/healthz", s.health)
	r.Get("/events.ics", s.calendar)
	r.Route("/events", func(r chi.Router) {
		r.Get("/", s.listEvents)
		r.Post("/", s.createEvent)
		r.Get("/{id}", s.getEvent)
		r.Delete("/{id}", s.deleteEvent)
		r.Post("/{id}/rsvp", s.toggleRSVP)
	})
	r.Get("/board", s.layout)
	r.Get("/inbox", s.inbox)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := r.Header.Get(UserHeader); user != "" {
			r = r.WithContext(identity.WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    eberrors.Code `json:"code"`
	Message string        `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := eberrors.GetCode(err)
	if code == "" {
		code = eberrors.ErrCodeInternal
	}
	status := eberrors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Code: code, Message: eberrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
