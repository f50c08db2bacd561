package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/eventboard/pkg/kv"
)

// DefaultQueueKey is the kv key StoreQueue keeps its jobs under.
const DefaultQueueKey = "scheduler:jobs"

// StoreQueue keeps jobs as a JSON list under one key of a kv.Store.
//
// Claims are serialized within the process only. Run a single worker per
// store when using it.
type StoreQueue struct {
	store kv.Store
	key   string
	mu    sync.Mutex
}

// NewStoreQueue returns a queue stored under key (DefaultQueueKey if empty).
func NewStoreQueue(store kv.Store, key string) *StoreQueue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &StoreQueue{store: store, key: key}
}

// Schedule implements Queue.
func (q *StoreQueue) Schedule(ctx context.Context, name string, payload []byte, runAt time.Time) (Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs, err := q.load(ctx)
	if err != nil {
		return Job{}, err
	}
	job := newJob(name, payload, runAt)
	if err := q.save(ctx, append(jobs, job)); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Claim implements Queue.
func (q *StoreQueue) Claim(ctx context.Context, now time.Time) ([]Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs, err := q.load(ctx)
	if err != nil {
		return nil, err
	}
	var due, rest []Job
	for _, j := range jobs {
		if j.Due(now) {
			due = append(due, j)
		} else {
			rest = append(rest, j)
		}
	}
	if len(due) == 0 {
		return nil, nil
	}
	if err := q.save(ctx, rest); err != nil {
		return nil, err
	}
	sortByRunAt(due)
	return due, nil
}

// Pending implements Queue.
func (q *StoreQueue) Pending(ctx context.Context) ([]Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs, err := q.load(ctx)
	if err != nil {
		return nil, err
	}
	sortByRunAt(jobs)
	return jobs, nil
}

func (q *StoreQueue) load(ctx context.Context) ([]Job, error) {
	raw, ok, err := q.store.Get(ctx, q.key)
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var jobs []Job
	if err := json.Unmarshal([]byte(raw), &jobs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	return jobs, nil
}

func (q *StoreQueue) save(ctx context.Context, jobs []Job) error {
	if jobs == nil {
		jobs = []Job{}
	}
	b, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("encode jobs: %w", err)
	}
	if err := q.store.Set(ctx, q.key, string(b)); err != nil {
		return fmt.Errorf("save jobs: %w", err)
	}
	return nil
}

func sortByRunAt(jobs []Job) {
	slices.SortStableFunc(jobs, func(a, b Job) int { return a.RunAt.Compare(b.RunAt) })
}

var _ Queue = (*StoreQueue)(nil)
