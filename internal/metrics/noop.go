package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncRedirectResolved()                           {}
func (n *NoopRecorder) IncRedirectNotFound()                           {}
func (n *NoopRecorder) ObserveRedirectDuration(duration time.Duration) {}
func (n *NoopRecorder) IncLinkCreated()                                {}
func (n *NoopRecorder) IncLinkUpdated()                                {}
func (n *NoopRecorder) IncLinkDeleted()                                {}
func (n *NoopRecorder) IncAliasCollision()                             {}
func (n *NoopRecorder) IncAllocationExhausted()                        {}
