// Package scheduler runs named jobs at a point in time.
//
// A [Queue] stores pending jobs; a [Worker] periodically claims the jobs
// that are due and dispatches them to the handler registered for their
// name. Two queues are provided:
//
//   - [StoreQueue]: jobs kept as a JSON list under one key of any kv.Store
//   - [RedisQueue]: a Redis sorted set scored by run time, safe for several
//     workers claiming concurrently
//
// Delivery is at most once: a claimed job is removed from the queue before
// its handler runs, and a failing handler is logged, not retried.
package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job is one scheduled unit of work.
type Job struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload,omitempty"`
	RunAt   time.Time       `json:"runAt"`
}

// Due reports whether the job should run at now.
func (j Job) Due(now time.Time) bool {
	return !j.RunAt.After(now)
}

// Queue stores pending jobs.
type Queue interface {
	// Schedule enqueues a job named name to run at runAt.
	Schedule(ctx context.Context, name string, payload []byte, runAt time.Time) (Job, error)

	// Claim removes and returns every job due at now, earliest first.
	// It may return claimed jobs together with an error; those jobs are
	// already removed and should still be run.
	Claim(ctx context.Context, now time.Time) ([]Job, error)

	// Pending returns the jobs not yet claimed, earliest first.
	Pending(ctx context.Context) ([]Job, error)
}

func newJob(name string, payload []byte, runAt time.Time) Job {
	return Job{
		ID:      uuid.NewString(),
		Name:    name,
		Payload: json.RawMessage(payload),
		RunAt:   runAt.UTC(),
	}
}
