package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	RedirectsResolved       uint64
	RedirectsNotFound       uint64
	RedirectDurationCount   uint64
	RedirectDurationTotalNs int64
	LinksCreated            uint64
	LinksUpdated            uint64
	LinksDeleted            uint64
	AliasCollisions         uint64
	AllocationsExhausted    uint64
}

// InMemoryRecorder keeps counters in process memory.
// It backs the /metrics endpoint and doubles as a test recorder.
type InMemoryRecorder struct {
	redirectsResolved       atomic.Uint64
	redirectsNotFound       atomic.Uint64
	redirectDurationCount   atomic.Uint64
	redirectDurationTotalNs atomic.Int64
	linksCreated            atomic.Uint64
	linksUpdated            atomic.Uint64
	linksDeleted            atomic.Uint64
	aliasCollisions         atomic.Uint64
	allocationsExhausted    atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		RedirectsResolved:       m.redirectsResolved.Load(),
		RedirectsNotFound:       m.redirectsNotFound.Load(),
		RedirectDurationCount:   m.redirectDurationCount.Load(),
		RedirectDurationTotalNs: m.redirectDurationTotalNs.Load(),
		LinksCreated:            m.linksCreated.Load(),
		LinksUpdated:            m.linksUpdated.Load(),
		LinksDeleted:            m.linksDeleted.Load(),
		AliasCollisions:         m.aliasCollisions.Load(),
		AllocationsExhausted:    m.allocationsExhausted.Load(),
	}
}

// IncRedirectResolved counts a redirect that found its alias.
func (m *InMemoryRecorder) IncRedirectResolved() {
	m.redirectsResolved.Add(1)
}

// IncRedirectNotFound counts a redirect for an unknown alias.
func (m *InMemoryRecorder) IncRedirectNotFound() {
	m.redirectsNotFound.Add(1)
}

// ObserveRedirectDuration records redirect duration.
func (m *InMemoryRecorder) ObserveRedirectDuration(duration time.Duration) {
	m.redirectDurationCount.Add(1)
	m.redirectDurationTotalNs.Add(duration.Nanoseconds())
}

// IncLinkCreated increments link created counter.
func (m *InMemoryRecorder) IncLinkCreated() {
	m.linksCreated.Add(1)
}

// IncLinkUpdated increments link updated counter.
func (m *InMemoryRecorder) IncLinkUpdated() {
	m.linksUpdated.Add(1)
}

// IncLinkDeleted increments link deleted counter.
func (m *InMemoryRecorder) IncLinkDeleted() {
	m.linksDeleted.Add(1)
}

// IncAliasCollision counts a generated alias that was already taken.
func (m *InMemoryRecorder) IncAliasCollision() {
	m.aliasCollisions.Add(1)
}

// IncAllocationExhausted counts allocations that ran out of attempts.
func (m *InMemoryRecorder) IncAllocationExhausted() {
	m.allocationsExhausted.Add(1)
}
