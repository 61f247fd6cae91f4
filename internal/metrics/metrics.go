// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Event read path
	IncEventCacheHit()
	IncEventCacheMiss()
	ObserveEventReadDuration(duration time.Duration)

	// Event mutations
	IncEventCreated()
	IncEventUpdated()
	IncEventDeleted()
	IncParticipantAdded()
	IncParticipantRemoved()

	// Auth flow
	IncUserRegistered()
	IncSignin(status string) // status: "success" or "failure"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
