// Package source defines the upstream recognizer interface consumed by the
// pipeline, and a scripted mock recognizer for tests and offline runs.
package source

import "github.com/dougbradbury/pentecost-sub000/internal/models"

// Stream is one recognizer's output: a strictly ordered, single-producer
// sequence of events for one (locale, source) pair. The channel is closed
// when the recognizer finishes.
type Stream interface {
	// Events returns the stream's event channel.
	Events() <-chan models.Event

	// Close stops the recognizer. The event channel is closed once any
	// pending emission completes.
	Close() error
}
