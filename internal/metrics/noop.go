package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncEventCacheHit is a no-op.
func (n *NoopRecorder) IncEventCacheHit() {}

// IncEventCacheMiss is a no-op.
func (n *NoopRecorder) IncEventCacheMiss() {}

// ObserveEventReadDuration is a no-op.
func (n *NoopRecorder) ObserveEventReadDuration(duration time.Duration) {}

// IncEventCreated is a no-op.
func (n *NoopRecorder) IncEventCreated() {}

// IncEventUpdated is a no-op.
func (n *NoopRecorder) IncEventUpdated() {}

// IncEventDeleted is a no-op.
func (n *NoopRecorder) IncEventDeleted() {}

// IncParticipantAdded is a no-op.
func (n *NoopRecorder) IncParticipantAdded() {}

// IncParticipantRemoved is a no-op.
func (n *NoopRecorder) IncParticipantRemoved() {}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncSignin is a no-op.
func (n *NoopRecorder) IncSignin(status string) {}
