package board

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/eventboard/pkg/columns"
	"github.com/matzehuels/eventboard/pkg/errors"
	"github.com/matzehuels/eventboard/pkg/event"
	"github.com/matzehuels/eventboard/pkg/identity"
	"github.com/matzehuels/eventboard/pkg/kv"
	"github.com/matzehuels/eventboard/pkg/reminder"
	"github.com/matzehuels/eventboard/pkg/scheduler"
)

var now = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

func newBoard(t *testing.T, opts Options) (*Board, kv.Store) {
	t.Helper()
	store := kv.NewMemoryStore()
	b := New(store, opts)
	b.now = func() time.Time { return now }
	return b, store
}

func meetup(title string) event.Event {
	return event.Event{
		Title:     title,
		Date:      "2030-06-01",
		StartTime: "13:00 UTC",
		EndTime:   "14:00 UTC",
		Link:      "https://example.com",
	}
}

func TestListEmpty(t *testing.T) {
	b, _ := newBoard(t, Options{})
	es, err := b.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, es)
	assert.Empty(t, es)
}

func TestListCorrupt(t *testing.T) {
	b, store := newBoard(t, Options{})
	require.NoError(t, store.Set(context.Background(), DefaultKey, "{broken"))
	_, err := b.List(context.Background())
	assert.True(t, errors.Is(err, errors.ErrCodeStorage))
}

func TestCreate(t *testing.T) {
	q := scheduler.NewStoreQueue(kv.NewMemoryStore(), "")
	b, store := newBoard(t, Options{Queue: q, Identity: identity.Static("alice")})
	ctx := context.Background()

	first, err := b.Create(ctx, meetup("First"))
	require.NoError(t, err)
	second, err := b.Create(ctx, meetup("  Second  "))
	require.NoError(t, err)

	assert.NotEmpty(t, first.Event.ID)
	assert.NotEqual(t, first.Event.ID, second.Event.ID)
	assert.Equal(t, "Second", second.Event.Title)
	assert.Equal(t, "alice", first.Event.CreatedBy)
	assert.Equal(t, now, first.Event.CreatedAt)

	// Newest first.
	es, err := b.List(ctx)
	require.NoError(t, err)
	require.Len(t, es, 2)
	assert.Equal(t, "Second", es[0].Title)
	assert.Equal(t, "First", es[1].Title)

	raw, ok, err := store.Get(ctx, DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"title":"First"`)

	// Reminder fires 15 minutes before 13:00.
	require.NoError(t, first.ReminderErr)
	assert.Equal(t, reminder.JobName, first.Reminder.Name)
	assert.Equal(t, time.Date(2030, 6, 1, 12, 45, 0, 0, time.UTC), first.Reminder.RunAt)
	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestCreateRejects(t *testing.T) {
	b, _ := newBoard(t, Options{})
	ctx := context.Background()
	_, err := b.Create(ctx, meetup("Taken"))
	require.NoError(t, err)

	tests := []struct {
		name string
		ev   event.Event
		code errors.Code
	}{
		{"duplicate title", meetup("taken "), errors.ErrCodeDuplicateEvent},
		{"missing title", meetup(""), errors.ErrCodeInvalidEvent},
		{"bad link", func() event.Event { e := meetup("x"); e.Link = "javascript:alert(1)"; return e }(), errors.ErrCodeInvalidLink},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Create(ctx, tt.ev)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}

	es, err := b.List(ctx)
	require.NoError(t, err)
	assert.Len(t, es, 1)
}

func TestCreateReminderProblemsKeepEvent(t *testing.T) {
	ctx := context.Background()
	q := scheduler.NewStoreQueue(kv.NewMemoryStore(), "")
	var buf bytes.Buffer
	b, _ := newBoard(t, Options{Queue: q, Logger: log.New(&buf)})

	past := meetup("Past")
	past.StartTime = "11:00 UTC"
	res, err := b.Create(ctx, past)
	require.NoError(t, err)
	assert.True(t, errors.Is(res.ReminderErr, errors.ErrCodeInvalidTime))
	assert.Contains(t, buf.String(), "reminder not scheduled")

	fuzzy := meetup("Fuzzy")
	fuzzy.StartTime = "after lunch"
	res, err = b.Create(ctx, fuzzy)
	require.NoError(t, err)
	assert.True(t, errors.Is(res.ReminderErr, errors.ErrCodeInvalidTime))

	es, err := b.List(ctx)
	require.NoError(t, err)
	assert.Len(t, es, 2)

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Without a queue reminders are reported as disabled.
	b2, _ := newBoard(t, Options{})
	res, err = b2.Create(ctx, meetup("NoQueue"))
	require.NoError(t, err)
	assert.True(t, errors.Is(res.ReminderErr, errors.ErrCodeUnsupported))
}

func TestDelete(t *testing.T) {
	b, _ := newBoard(t, Options{})
	ctx := context.Background()
	a, _ := b.Create(ctx, meetup("A"))
	c, _ := b.Create(ctx, meetup("C"))

	require.NoError(t, b.Delete(ctx, a.Event.ID))
	es, err := b.List(ctx)
	require.NoError(t, err)
	require.Len(t, es, 1)
	assert.Equal(t, c.Event.ID, es[0].ID)

	err = b.Delete(ctx, a.Event.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeEventNotFound))

	_, err = b.Get(ctx, a.Event.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeEventNotFound))
}

func TestToggleRSVP(t *testing.T) {
	b, _ := newBoard(t, Options{})
	ctx := context.Background()
	res, _ := b.Create(ctx, meetup("A"))
	id := res.Event.ID

	attending, err := b.ToggleRSVP(ctx, id, "alice")
	require.NoError(t, err)
	assert.True(t, attending)
	_, _ = b.ToggleRSVP(ctx, id, "bob")

	ev, err := b.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, ev.Attending)

	attending, err = b.ToggleRSVP(ctx, id, "alice")
	require.NoError(t, err)
	assert.False(t, attending)
	ev, _ = b.Get(ctx, id)
	assert.Equal(t, []string{"bob"}, ev.Attending)

	_, err = b.ToggleRSVP(ctx, id, "")
	assert.True(t, errors.Is(err, errors.ErrCodeUnauthorized))
	_, err = b.ToggleRSVP(ctx, id, "no spaces allowed")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidUsername))
	_, err = b.ToggleRSVP(ctx, "missing", "alice")
	assert.True(t, errors.Is(err, errors.ErrCodeEventNotFound))
}

func TestCurrentUser(t *testing.T) {
	b, _ := newBoard(t, Options{})
	_, err := b.CurrentUser(context.Background())
	assert.True(t, errors.Is(err, errors.ErrCodeUnauthorized))

	user, err := b.CurrentUser(identity.WithUser(context.Background(), "alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
}

func seed(t *testing.T, b *Board, n int) {
	t.Helper()
	for i := range n {
		_, err := b.Create(context.Background(), meetup(fmt.Sprintf("E%d", i)))
		require.NoError(t, err)
	}
}

func TestPage(t *testing.T) {
	b, _ := newBoard(t, Options{})
	seed(t, b, 7)
	ctx := context.Background()

	tests := []struct {
		number, size int
		wantNumber   int
		wantTitles   []string
	}{
		{0, 0, 0, []string{"E6", "E5", "E4"}},
		{1, 3, 1, []string{"E3", "E2", "E1"}},
		{2, 3, 2, []string{"E0"}},
		{9, 3, 2, []string{"E0"}},
		{-4, 3, 0, []string{"E6", "E5", "E4"}},
		{0, 10, 0, []string{"E6", "E5", "E4", "E3", "E2", "E1", "E0"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.number, tt.size), func(t *testing.T) {
			p, err := b.Page(ctx, tt.number, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNumber, p.Number)
			assert.Equal(t, 7, p.Total)
			var titles []string
			for _, e := range p.Events {
				titles = append(titles, e.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}

	p, _ := b.Page(ctx, 1, 3)
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, 3, p.Pages)
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate(event.Events{}, 3, 3)
	assert.Equal(t, 0, p.Number)
	assert.Equal(t, 0, p.Pages)
	assert.Empty(t, p.Events)
	assert.False(t, p.HasPrev())
	assert.False(t, p.HasNext())
}

func TestLayout(t *testing.T) {
	var buf bytes.Buffer
	b, _ := newBoard(t, Options{Logger: log.New(&buf)})
	seed(t, b, 7)
	ctx := context.Background()

	l, err := b.Layout(ctx, LayoutOptions{Columns: 3, Order: columns.OrderBalanced, GapX: 16})
	require.NoError(t, err)
	require.Len(t, l.Columns, 3)
	assert.Equal(t, []int{3, 2, 2}, lens(l.Columns))
	assert.Equal(t, 0, l.Dropped)
	assert.Equal(t, "column", l.Order)
	assert.Equal(t, "16px", l.GapX)
	assert.Equal(t, "0px", l.GapY)
	assert.Equal(t, "unlimited", l.Rows)

	l, err = b.Layout(ctx, LayoutOptions{Columns: 2, Rows: columns.Rows(2), Order: columns.OrderRowMajor})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, lens(l.Columns))
	assert.Equal(t, 3, l.Dropped)
	assert.Contains(t, buf.String(), "do not fit")

	// The fallback ignores the cap.
	l, err = b.Layout(ctx, LayoutOptions{Columns: 2, Rows: columns.Rows(1), Order: columns.ParseOrder("zigzag")})
	require.NoError(t, err)
	assert.Equal(t, []int{7}, lens(l.Columns))
	assert.Equal(t, 0, l.Dropped)
}

func TestLayoutTooManyColumns(t *testing.T) {
	b, _ := newBoard(t, Options{})
	seed(t, b, 2)

	_, err := b.Layout(context.Background(), LayoutOptions{Columns: 1 << 50, Order: columns.OrderBalanced})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	l, err := b.Layout(context.Background(), LayoutOptions{Columns: MaxColumns, Order: columns.OrderBalanced})
	require.NoError(t, err)
	assert.Len(t, l.Columns, MaxColumns)
}

func TestArrangeClampsColumns(t *testing.T) {
	es := event.Events{{Title: "a"}}
	for _, order := range []columns.Order{columns.OrderBalanced, columns.OrderColumnFill, columns.OrderRowMajor} {
		l := Arrange(es, LayoutOptions{Columns: 1 << 50, Order: order})
		assert.Len(t, l.Columns, MaxColumns, order.String())
		assert.Equal(t, 0, l.Dropped, order.String())
	}
}

func lens(cols []event.Events) []int {
	out := make([]int, len(cols))
	for i, c := range cols {
		out[i] = len(c)
	}
	return out
}
