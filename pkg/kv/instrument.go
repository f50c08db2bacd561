package kv

import (
	"context"
	"time"

	"github.com/matzehuels/eventboard/pkg/observability"
)

// instrumented reports every operation to the registered StoreHooks.
type instrumented struct {
	Store
	backend string
}

// Instrument wraps s so reads and writes are reported to
// observability.Store() under the given backend name.
func Instrument(s Store, backend string) Store {
	if backend == "" {
		backend = BackendMemory
	}
	return &instrumented{Store: s, backend: backend}
}

func (s *instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, ok, err := s.Store.Get(ctx, key)
	observability.Store().OnGet(ctx, s.backend, ok, time.Since(start), err)
	return v, ok, err
}

func (s *instrumented) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := s.Store.Set(ctx, key, value)
	observability.Store().OnSet(ctx, s.backend, len(value), time.Since(start), err)
	return err
}
