package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/eventboard/pkg/board"
	"github.com/matzehuels/eventboard/pkg/columns"
	"github.com/matzehuels/eventboard/pkg/errors"
	"github.com/matzehuels/eventboard/pkg/kv"
	"github.com/matzehuels/eventboard/pkg/messaging"
	"github.com/matzehuels/eventboard/pkg/scheduler"
)

type fixture struct {
	srv   *httptest.Server
	board *board.Board
	inbox *messaging.Inbox
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kv.NewMemoryStore()
	b := board.New(store, board.Options{Queue: scheduler.NewStoreQueue(store, "")})
	inbox := messaging.NewInbox(store)
	s := New(Options{
		Board:  b,
		Inbox:  inbox,
		Layout: board.LayoutOptions{Columns: 2, Order: columns.OrderBalanced},
	})
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, board: b, inbox: inbox}
}

func (f *fixture) do(t *testing.T, method, path, user, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func eventBody(title string) string {
	date := time.Now().Add(48 * time.Hour).UTC().Format("2006-01-02")
	return `{"title":"` + title + `","date":"` + date + `","startTime":"10:00 UTC","endTime":"11:00 UTC","link":"https://example.com"}`
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestCreateAndList(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/events", "alice", eventBody("Go night"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[createResponse](t, resp)
	assert.NotEmpty(t, created.Event.ID)
	assert.Equal(t, "alice", created.Event.CreatedBy)
	require.NotNil(t, created.ReminderAt)
	assert.Empty(t, created.ReminderError)

	resp = f.do(t, http.MethodGet, "/events", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[board.Page](t, resp)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "Go night", page.Events[0].Title)

	resp = f.do(t, http.MethodGet, "/events/"+created.Event.ID, "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateErrors(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/events", "alice", eventBody("Taken"))

	tests := []struct {
		name   string
		user   string
		body   string
		status int
		code   errors.Code
	}{
		{"anonymous", "", eventBody("X"), http.StatusUnauthorized, errors.ErrCodeUnauthorized},
		{"bad json", "alice", "{", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing fields", "alice", `{"title":"Y"}`, http.StatusBadRequest, errors.ErrCodeInvalidEvent},
		{"duplicate", "alice", eventBody("taken"), http.StatusConflict, errors.ErrCodeDuplicateEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(t, http.MethodPost, "/events", tt.user, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[errorBody](t, resp)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestCreatePastEventReportsReminderError(t *testing.T) {
	f := newFixture(t)
	body := `{"title":"Old","date":"2000-01-01","startTime":"10:00","endTime":"11:00"}`
	resp := f.do(t, http.MethodPost, "/events", "alice", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[createResponse](t, resp)
	assert.Nil(t, created.ReminderAt)
	assert.NotEmpty(t, created.ReminderError)
}

func TestRSVPAndDelete(t *testing.T) {
	f := newFixture(t)
	created := decode[createResponse](t, f.do(t, http.MethodPost, "/events", "alice", eventBody("Go")))
	id := created.Event.ID

	resp := f.do(t, http.MethodPost, "/events/"+id+"/rsvp", "bob", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[rsvpResponse](t, resp).Attending)

	resp = f.do(t, http.MethodPost, "/events/"+id+"/rsvp", "bob", "")
	assert.False(t, decode[rsvpResponse](t, resp).Attending)

	resp = f.do(t, http.MethodPost, "/events/"+id+"/rsvp", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, "/events/"+id, "alice", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, "/events/"+id, "alice", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, errors.ErrCodeEventNotFound, decode[errorBody](t, resp).Code)
}

func TestBoardLayout(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		f.do(t, http.MethodPost, "/events", "alice", eventBody(title))
	}

	tests := []struct {
		query   string
		lens    []int
		dropped int
		order   string
		gapX    string
	}{
		{"", []int{3, 2}, 0, "column", "0px"},
		{"?columns=3&order=row&gapX=12px", []int{2, 2, 1}, 0, "row", "12px"},
		{"?columns=2&rows=2&order=column-fill", []int{2, 2}, 1, "column-fill", "0px"},
		{"?columns=4&rows=1&order=nonsense", []int{5}, 0, "single", "0px"},
		{"?gapX=-3px", []int{3, 2}, 0, "column", "0px"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := f.do(t, http.MethodGet, "/board"+tt.query, "", "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			l := decode[board.Layout](t, resp)
			var lens []int
			for _, c := range l.Columns {
				lens = append(lens, len(c))
			}
			assert.Equal(t, tt.lens, lens)
			assert.Equal(t, tt.dropped, l.Dropped)
			assert.Equal(t, tt.order, l.Order)
			assert.Equal(t, tt.gapX, l.GapX)
		})
	}

	for _, query := range []string{"?columns=many", "?columns=1125899906842624", "?columns=101"} {
		resp := f.do(t, http.MethodGet, "/board"+query, "", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
		assert.Equal(t, errors.ErrCodeInvalidInput, decode[errorBody](t, resp).Code, query)
	}

	resp := f.do(t, http.MethodGet, "/board?columns=100", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[board.Layout](t, resp).Columns, board.MaxColumns)
}

func TestCalendarFeed(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/events", "alice", eventBody("Go"))

	resp := f.do(t, http.MethodGet, "/events.ics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/calendar")
}

func TestInbox(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.inbox.SendPrivateMessage(context.Background(), "alice", "Event Reminder", "hi"))

	resp := f.do(t, http.MethodGet, "/inbox", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/inbox", "alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	msgs := decode[[]messaging.Message](t, resp)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hi", msgs[0].Text)
}

func TestListenAndServeStops(t *testing.T) {
	s := New(Options{Board: board.New(kv.NewMemoryStore(), board.Options{})})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
