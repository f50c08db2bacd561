package scheduler

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultInterval is how often Run polls the queue.
const DefaultInterval = 30 * time.Second

// HandlerFunc processes one claimed job.
type HandlerFunc func(ctx context.Context, job Job) error

// Worker claims due jobs from a Queue and dispatches them by name.
type Worker struct {
	queue    Queue
	logger   *log.Logger
	interval time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewWorker returns a worker polling q every interval (DefaultInterval if
// not positive). A nil logger discards output.
func NewWorker(q Queue, logger *log.Logger, interval time.Duration) *Worker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Worker{
		queue:    q,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		handlers: make(map[string]HandlerFunc),
	}
}

// Handle registers fn for jobs named name, replacing any previous handler.
func (w *Worker) Handle(name string, fn HandlerFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[name] = fn
}

// RunOnce claims the jobs due now and runs their handlers in order.
// It returns the number of jobs whose handler succeeded. Jobs returned
// alongside a claim error are still run, and the error is returned.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	jobs, claimErr := w.queue.Claim(ctx, w.now())
	if claimErr != nil && len(jobs) > 0 {
		w.logger.Warn("claim partly failed, running claimed jobs", "jobs", len(jobs), "error", claimErr)
	}
	done := 0
	for _, job := range jobs {
		w.mu.RLock()
		fn, ok := w.handlers[job.Name]
		w.mu.RUnlock()
		if !ok {
			w.logger.Warn("no handler for job, dropping", "job", job.Name, "id", job.ID)
			continue
		}
		if err := fn(ctx, job); err != nil {
			w.logger.Error("job failed", "job", job.Name, "id", job.ID, "error", err)
			continue
		}
		w.logger.Debug("job done", "job", job.Name, "id", job.ID, "late", w.now().Sub(job.RunAt).Round(time.Second))
		done++
	}
	return done, claimErr
}

// Run polls the queue until ctx is cancelled. Claim errors are logged and
// the loop keeps going.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("scheduler started", "interval", w.interval)
	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.logger.Error("claim jobs", "error", err)
		}
		select {
		case <-ctx.Done():
			w.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C:
		}
	}
}
