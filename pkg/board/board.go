// Package board implements the community events board: posting and
// deleting events, RSVPs, pagination and the column layout of the list.
//
// The whole list lives as one JSON blob under a single key of a kv.Store,
// newest event first. Every mutation is a read-modify-write of that blob
// serialized by a process-local mutex; writers in other processes race
// with last write wins.
package board

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/eventboard/pkg/errors"
	"github.com/matzehuels/eventboard/pkg/event"
	"github.com/matzehuels/eventboard/pkg/identity"
	"github.com/matzehuels/eventboard/pkg/kv"
	"github.com/matzehuels/eventboard/pkg/observability"
	"github.com/matzehuels/eventboard/pkg/reminder"
	"github.com/matzehuels/eventboard/pkg/scheduler"
)

// DefaultKey is the store key holding the event list.
const DefaultKey = "eventapp"

// Options configures a Board. Zero values select the defaults.
type Options struct {
	Key      string            // Store key (default: DefaultKey)
	Queue    scheduler.Queue   // Reminder queue; nil disables reminders
	Identity identity.Provider // Current user (default: identity.Context{})
	Location *time.Location    // Zone for times typed without one (default: UTC)
	Lead     time.Duration     // Reminder lead time (default: reminder.DefaultLead)
	Logger   *log.Logger       // Default: discard
}

// Board is the event board service.
type Board struct {
	store kv.Store
	opts  Options
	now   func() time.Time
	mu    sync.Mutex
}

// New returns a board persisting to store.
func New(store kv.Store, opts Options) *Board {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Identity == nil {
		opts.Identity = identity.Context{}
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Lead <= 0 {
		opts.Lead = reminder.DefaultLead
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Board{store: store, opts: opts, now: time.Now}
}

// CurrentUser returns the acting user or an UNAUTHORIZED error.
func (b *Board) CurrentUser(ctx context.Context) (string, error) {
	user, ok := b.opts.Identity.CurrentUser(ctx)
	if !ok {
		return "", errors.New(errors.ErrCodeUnauthorized, "you must be logged in")
	}
	return user, nil
}

// List returns every event, newest first. An empty board yields an empty list.
func (b *Board) List(ctx context.Context) (event.Events, error) {
	raw, ok, err := b.store.Get(ctx, b.opts.Key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load events")
	}
	if !ok {
		return event.Events{}, nil
	}
	es, err := event.Decode(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "load events")
	}
	return es, nil
}

// Get returns one event.
func (b *Board) Get(ctx context.Context, id string) (event.Event, error) {
	es, err := b.List(ctx)
	if err != nil {
		return event.Event{}, err
	}
	ev, ok := es.Find(id)
	if !ok {
		return event.Event{}, errors.New(errors.ErrCodeEventNotFound, "event %s not found", id)
	}
	return ev, nil
}

// Created is the result of Create.
type Created struct {
	Event event.Event

	// Reminder is the scheduled reminder job; zero when none was scheduled.
	Reminder scheduler.Job

	// ReminderErr explains why no reminder was scheduled. The event is
	// stored either way.
	ReminderErr error
}

// Create validates ev, assigns it an ID and puts it at the top of the board,
// then schedules its reminder. Titles must be unique.
func (b *Board) Create(ctx context.Context, ev event.Event) (Created, error) {
	ev.Normalize()
	if err := ev.Validate(); err != nil {
		return Created{}, err
	}
	if user, ok := b.opts.Identity.CurrentUser(ctx); ok {
		ev.CreatedBy = user
	}
	ev.ID = uuid.NewString()
	ev.CreatedAt = b.now().UTC()
	ev.Attending = []string{}

	b.mu.Lock()
	err := b.update(ctx, func(es event.Events) (event.Events, error) {
		if es.HasTitle(ev.Title) {
			return nil, errors.New(errors.ErrCodeDuplicateEvent, "an event titled %q already exists", ev.Title)
		}
		return append(event.Events{ev}, es...), nil
	})
	b.mu.Unlock()
	if err != nil {
		return Created{}, err
	}
	observability.Board().OnEventCreated(ctx, ev.ID)
	b.opts.Logger.Debug("event created", "id", ev.ID, "title", ev.Title)

	res := Created{Event: ev}
	res.Reminder, res.ReminderErr = b.scheduleReminder(ctx, ev)
	if res.ReminderErr != nil {
		b.opts.Logger.Warn("reminder not scheduled", "title", ev.Title, "error", errors.UserMessage(res.ReminderErr))
	}
	return res, nil
}

func (b *Board) scheduleReminder(ctx context.Context, ev event.Event) (scheduler.Job, error) {
	if b.opts.Queue == nil {
		return scheduler.Job{}, errors.New(errors.ErrCodeUnsupported, "reminders are disabled")
	}
	at, err := reminder.Plan(ev, b.opts.Location, b.opts.Lead, b.now())
	if err != nil {
		return scheduler.Job{}, err
	}
	return reminder.Schedule(ctx, b.opts.Queue, ev, at)
}

// Delete removes an event.
func (b *Board) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.update(ctx, func(es event.Events) (event.Events, error) {
		i := es.IndexOf(id)
		if i < 0 {
			return nil, errors.New(errors.ErrCodeEventNotFound, "event %s not found", id)
		}
		return append(es[:i:i], es[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	observability.Board().OnEventDeleted(ctx, id)
	return nil
}

// ToggleRSVP flips user's attendance of an event and returns whether the
// user is now attending.
func (b *Board) ToggleRSVP(ctx context.Context, id, user string) (bool, error) {
	if user == "" {
		return false, errors.New(errors.ErrCodeUnauthorized, "you must be logged in to RSVP")
	}
	if err := errors.ValidateUsername(user); err != nil {
		return false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var attending bool
	err := b.update(ctx, func(es event.Events) (event.Events, error) {
		i := es.IndexOf(id)
		if i < 0 {
			return nil, errors.New(errors.ErrCodeEventNotFound, "event %s not found", id)
		}
		attending = es[i].Toggle(user)
		return es, nil
	})
	if err != nil {
		return false, err
	}
	observability.Board().OnRSVP(ctx, id, attending)
	return attending, nil
}

// update applies fn to the stored list and writes the result back.
// Callers hold b.mu.
func (b *Board) update(ctx context.Context, fn func(event.Events) (event.Events, error)) error {
	es, err := b.List(ctx)
	if err != nil {
		return err
	}
	es, err = fn(es)
	if err != nil {
		return err
	}
	raw, err := event.Encode(es)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save events")
	}
	if err := b.store.Set(ctx, b.opts.Key, raw); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save events")
	}
	return nil
}
