package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/eventboard/pkg/board"
	"github.com/matzehuels/eventboard/pkg/buildinfo"
	"github.com/matzehuels/eventboard/pkg/columns"
	"github.com/matzehuels/eventboard/pkg/errors"
	"github.com/matzehuels/eventboard/pkg/event"
	"github.com/matzehuels/eventboard/pkg/ical"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Healthy())
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	number, err := intParam(q.Get("page"), 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	size, err := intParam(q.Get("size"), s.opts.PageSize)
	if err != nil {
		s.writeError(w, err)
		return
	}
	page, err := s.opts.Board.Page(r.Context(), number, size)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// createResponse is returned by POST /events.
type createResponse struct {
	Event         event.Event `json:"event"`
	ReminderAt    *time.Time  `json:"reminderAt,omitempty"`
	ReminderError string      `json:"reminderError,omitempty"`
}

func (s *Server) createEvent(w http.ResponseWriter, r *http.Request) {
	var ev event.Event
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&ev); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid event body"))
		return
	}
	if _, err := s.opts.Board.CurrentUser(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.opts.Board.Create(r.Context(), ev)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := createResponse{Event: res.Event}
	if res.ReminderErr != nil {
		out.ReminderError = errors.UserMessage(res.ReminderErr)
	} else {
		at := res.Reminder.RunAt
		out.ReminderAt = &at
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.opts.Board.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) deleteEvent(w http.ResponseWriter, r *http.Request) {
	if _, err := s.opts.Board.CurrentUser(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.opts.Board.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// rsvpResponse is returned by POST /events/{id}/rsvp.
type rsvpResponse struct {
	Attending bool `json:"attending"`
}

func (s *Server) toggleRSVP(w http.ResponseWriter, r *http.Request) {
	user, err := s.opts.Board.CurrentUser(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	attending, err := s.opts.Board.ToggleRSVP(r.Context(), chi.URLParam(r, "id"), user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rsvpResponse{Attending: attending})
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := s.opts.Layout

	if v := q.Get("columns"); v != "" {
		n, err := intParam(v, 0)
		if err == nil {
			err = board.CheckColumns(n)
		}
		if err != nil {
			s.writeError(w, err)
			return
		}
		opts.Columns = n
	}
	if v := q.Get("rows"); v != "" {
		n, err := intParam(v, 0)
		if err != nil {
			s.writeError(w, err)
			return
		}
		opts.Rows = columns.Rows(n)
	}
	if q.Has("order") {
		opts.Order = columns.ParseOrder(q.Get("order"))
	}
	if q.Has("gapX") {
		opts.GapX = columns.ParsePixels(q.Get("gapX"))
	}
	if q.Has("gapY") {
		opts.GapY = columns.ParsePixels(q.Get("gapY"))
	}

	l, err := s.opts.Board.Layout(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) calendar(w http.ResponseWriter, r *http.Request) {
	es, err := s.opts.Board.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	var buf bytes.Buffer
	skipped, err := ical.Export(&buf, es, ical.Options{Location: s.opts.Location})
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "export calendar"))
		return
	}
	for _, sk := range skipped {
		s.logger.Debug("event left out of calendar", "title", sk.Event.Title, "error", sk.Err)
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) inbox(w http.ResponseWriter, r *http.Request) {
	if s.opts.Inbox == nil {
		s.writeError(w, errors.New(errors.ErrCodeUnsupported, "inbox is not enabled"))
		return
	}
	user, err := s.opts.Board.CurrentUser(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	msgs, err := s.opts.Inbox.Messages(r.Context(), user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%q is not a number", v)
	}
	return n, nil
}
