// Package pkg provides the libraries behind Eventboard, a community events
// board.
//
// # Overview
//
// Members post events, RSVP to them, and receive a private reminder shortly
// before an event starts. The board can be paged through, laid out in
// columns, exported as an iCalendar feed, or served over HTTP. The pkg
// directory is organized into three areas:
//
//  1. Layout - the generic column distribution engine
//  2. Domain - events, the board service, reminders and messaging
//  3. Infrastructure - storage, the job queue, config, errors and hooks
//
// # Architecture
//
// The typical data flow through Eventboard:
//
//	CLI command / HTTP request
//	         ↓
//	    [board] package (validate, persist, schedule reminder)
//	         ↓
//	    [kv] package (JSON event list under one key)
//	         ↓
//	    [scheduler] package (due reminder claimed by a worker)
//	         ↓
//	    [reminder] + [messaging] packages (one message per attendee)
//
// # Quick Start
//
// Lay out any slice in columns:
//
//	import "github.com/matzehuels/eventboard/pkg/columns"
//
//	cols := columns.Distribute(items, 3, columns.Rows(4), columns.OrderColumnFill)
//
// Run a board on a local database:
//
//	store, _ := kv.Open(ctx, kv.Options{Backend: kv.BackendBolt, Path: "events.bdb"})
//	queue := scheduler.NewStoreQueue(store, "")
//	b := board.New(store, board.Options{Queue: queue, Identity: identity.Static("alice")})
//
//	res, _ := b.Create(ctx, event.Event{
//	    Title: "Go meetup", Date: "12/31/2030", StartTime: "7pm ET", EndTime: "9pm ET",
//	})
//	b.ToggleRSVP(ctx, res.Event.ID, "bob")
//
//	l, _ := b.Layout(ctx, board.LayoutOptions{Columns: 3, Order: columns.OrderBalanced})
//
// Deliver due reminders:
//
//	w := scheduler.NewWorker(queue, logger, 0)
//	w.Handle(reminder.JobName, reminder.Handler(b, messaging.NewInbox(store), logger))
//	w.Run(ctx)
//
// # Main Packages
//
// ## Layout
//
// [columns] - Splits an ordered list into column buckets. Three orders are
// supported (balanced runs, fill-to-cap, round-robin), unknown orders fall
// back to a single column, and an optional row cap truncates.
//
// ## Domain
//
// [event] - The Event record, validation, RSVP toggling and the JSON list
// encoding stored under the board key.
//
// [board] - The board service: list, get, create, delete, RSVP, pagination
// and column layouts. Creating an event schedules its reminder.
//
// [reminder] - Parses event dates and times, plans the reminder instant, and
// delivers the reminder text to every attendee.
//
// [messaging] - Private message delivery. [messaging.Inbox] keeps messages
// in the store.
//
// [identity] - Resolves the acting user from static config or the request
// context.
//
// [ical] - Exports the board as an iCalendar feed.
//
// ## Infrastructure
//
// [kv] - String key-value stores: memory, bbolt, Redis and MongoDB.
//
// [scheduler] - Delayed job queue (store-backed or a Redis sorted set) and a
// polling worker.
//
// [config] - TOML config file, .env files and EVENTBOARD_* overrides.
//
// [errors] - Coded errors shared by every package and mapped to HTTP status.
//
// [observability] - Hooks for board, store and reminder events.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./...                 # All tests
//	go test ./pkg/columns/...     # Specific package
//	go test -run Example ./pkg/...
//
// Redis-backed tests run against an in-process miniredis server.
//
// [columns]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/columns
// [event]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/event
// [board]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/board
// [reminder]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/reminder
// [messaging]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/messaging
// [messaging.Inbox]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/messaging#Inbox
// [identity]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/identity
// [ical]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/ical
// [kv]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/kv
// [scheduler]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/scheduler
// [config]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/eventboard/pkg/buildinfo
package pkg
