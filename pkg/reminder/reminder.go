// Package reminder schedules and delivers the "starting soon" message an
// event's attendees receive shortly before it begins.
//
// A reminder is planned when the event is created: [Plan] parses the
// event's date and start time and subtracts the lead time. The queued job
// only carries the event ID ([Payload]); [Handler] loads the event when
// the job fires, so people who RSVP after creation are reminded too and a
// deleted event sends nothing.
package reminder

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/eventboard/pkg/errors"
	"github.com/matzehuels/eventboard/pkg/event"
	"github.com/matzehuels/eventboard/pkg/messaging"
	"github.com/matzehuels/eventboard/pkg/observability"
	"github.com/matzehuels/eventboard/pkg/scheduler"
)

const (
	// JobName is the scheduler job name reminders run under.
	JobName = "reminder"

	// DefaultLead is how long before the start the reminder fires.
	DefaultLead = 15 * time.Minute

	// Subject is the subject line of every reminder.
	Subject = "Event Reminder"

	// maxConcurrentSends bounds parallel deliveries per event.
	maxConcurrentSends = 8
)

// Payload is the job payload of a reminder.
type Payload struct {
	EventID string `json:"eventId"`
}

// Text returns the reminder body for ev.
func Text(ev event.Event) string {
	return fmt.Sprintf("Hello! %s is starting soon! %s", ev.Title, ev.Link)
}

// At returns when a reminder for an event starting at start fires.
func At(start time.Time, lead time.Duration) time.Time {
	return start.Add(-lead)
}

// Plan returns when ev's reminder should fire. It fails with INVALID_TIME
// when the date or time cannot be parsed or the reminder time is not after now.
func Plan(ev event.Event, loc *time.Location, lead time.Duration, now time.Time) (time.Time, error) {
	if lead < 0 {
		lead = 0
	}
	start, err := ParseStart(ev.Date, ev.StartTime, loc)
	if err != nil {
		return time.Time{}, err
	}
	at := At(start, lead)
	if !at.After(now) {
		return time.Time{}, errors.New(errors.ErrCodeInvalidTime,
			"reminder time %s has already passed", at.Format(time.RFC3339))
	}
	return at, nil
}

// Schedule enqueues a reminder for ev at the given time.
func Schedule(ctx context.Context, q scheduler.Queue, ev event.Event, at time.Time) (scheduler.Job, error) {
	payload, err := json.Marshal(Payload{EventID: ev.ID})
	if err != nil {
		return scheduler.Job{}, fmt.Errorf("encode reminder: %w", err)
	}
	job, err := q.Schedule(ctx, JobName, payload, at)
	if err != nil {
		return scheduler.Job{}, errors.Wrap(errors.ErrCodeScheduler, err, "schedule reminder for %q", ev.Title)
	}
	observability.Reminder().OnScheduled(ctx, job.ID, job.RunAt)
	return job, nil
}

// EventSource looks up an event by ID.
type EventSource interface {
	Get(ctx context.Context, id string) (event.Event, error)
}

// Handler returns the job handler that messages every attendee of the
// event named in the payload. A nil logger discards output.
func Handler(src EventSource, m messaging.Messenger, logger *log.Logger) scheduler.HandlerFunc {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return func(ctx context.Context, job scheduler.Job) error {
		var p Payload
		if err := json.Unmarshal(job.Payload, &p); err != nil {
			return fmt.Errorf("decode reminder payload: %w", err)
		}
		ev, err := src.Get(ctx, p.EventID)
		if errors.Is(err, errors.ErrCodeEventNotFound) {
			logger.Info("event gone, skipping reminder", "event", p.EventID)
			return nil
		}
		if err != nil {
			return err
		}

		err = Deliver(ctx, m, ev)
		observability.Reminder().OnDelivered(ctx, job.ID, len(ev.Attending), err)
		if err != nil {
			return err
		}
		logger.Info("reminder sent", "event", ev.Title, "attendees", len(ev.Attending))
		return nil
	}
}

// Deliver sends the reminder for ev to every attendee concurrently. A
// failed send does not stop the others; all failures are reported
// together.
func Deliver(ctx context.Context, m messaging.Messenger, ev event.Event) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(maxConcurrentSends)

	text := Text(ev)
	for _, user := range ev.Attending {
		g.Go(func() error {
			if err := m.SendPrivateMessage(ctx, user, Subject, text); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", user, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) == 0 {
		return nil
	}
	return errors.Wrap(errors.ErrCodeMessaging, stderrors.Join(errs...),
		"remind %d of %d attendees", len(errs), len(ev.Attending))
}
