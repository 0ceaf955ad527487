// Package worker resolves display names for queued player ids.
package worker

import (
	"github.com/okian/herostats/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithForgetter lets a failed job be scheduled again later.
func WithForgetter(f Forgetter) Option {
	return func(w *InMemoryWorker) {
		w.forget = f
	}
}
