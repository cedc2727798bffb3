// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the shortener.
type Recorder interface {
	// Redirect metrics
	IncRedirectResolved()
	IncRedirectNotFound()
	ObserveRedirectDuration(duration time.Duration)

	// Link management metrics
	IncLinkCreated()
	IncLinkUpdated()
	IncLinkDeleted()

	// Alias allocation metrics
	IncAliasCollision()
	IncAllocationExhausted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
