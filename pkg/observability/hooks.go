// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about board mutations, store operations, and reminders.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBoardHooks(&myBoardHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Board().OnEventCreated(ctx, ev.ID)
//	observability.Store().OnGet(ctx, "redis", hit, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Board Hooks
// =============================================================================

// BoardHooks receives events from the event board.
type BoardHooks interface {
	// Mutation events
	OnEventCreated(ctx context.Context, eventID string)
	OnEventDeleted(ctx context.Context, eventID string)
	OnRSVP(ctx context.Context, eventID string, attending bool)

	// OnLayout records a column distribution of the board.
	OnLayout(ctx context.Context, order string, items, dropped int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from key-value store operations.
type StoreHooks interface {
	// OnGet records a read and whether the key existed.
	OnGet(ctx context.Context, backend string, hit bool, duration time.Duration, err error)

	// OnSet records a write of size bytes.
	OnSet(ctx context.Context, backend string, size int, duration time.Duration, err error)
}

// =============================================================================
// Reminder Hooks
// =============================================================================

// ReminderHooks receives events from the job scheduler and reminder delivery.
type ReminderHooks interface {
	// OnScheduled records a job queued to run at runAt.
	OnScheduled(ctx context.Context, job string, runAt time.Time)

	// OnDelivered records a job run that messaged recipients users.
	OnDelivered(ctx context.Context, job string, recipients int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBoardHooks is a no-op implementation of BoardHooks.
type NoopBoardHooks struct{}

func (NoopBoardHooks) OnEventCreated(context.Context, string)     {}
func (NoopBoardHooks) OnEventDeleted(context.Context, string)     {}
func (NoopBoardHooks) OnRSVP(context.Context, string, bool)       {}
func (NoopBoardHooks) OnLayout(context.Context, string, int, int) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnGet(context.Context, string, bool, time.Duration, error) {}
func (NoopStoreHooks) OnSet(context.Context, string, int, time.Duration, error)  {}

// NoopReminderHooks is a no-op implementation of ReminderHooks.
type NoopReminderHooks struct{}

func (NoopReminderHooks) OnScheduled(context.Context, string, time.Time)  {}
func (NoopReminderHooks) OnDelivered(context.Context, string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	boardHooks    BoardHooks    = NoopBoardHooks{}
	storeHooks    StoreHooks    = NoopStoreHooks{}
	reminderHooks ReminderHooks = NoopReminderHooks{}
	hooksMu       sync.RWMutex
)

// SetBoardHooks registers custom board hooks.
// This should be called once at application startup.
func SetBoardHooks(h BoardHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		boardHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetReminderHooks registers custom reminder hooks.
// This should be called once at application startup.
func SetReminderHooks(h ReminderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		reminderHooks = h
	}
}

// Board returns the registered board hooks.
func Board() BoardHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return boardHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reminder returns the registered reminder hooks.
func Reminder() ReminderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return reminderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	boardHooks = NoopBoardHooks{}
	storeHooks = NoopStoreHooks{}
	reminderHooks = NoopReminderHooks{}
}
