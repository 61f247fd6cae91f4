package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	EventCacheHits           uint64
	EventCacheMisses         uint64
	EventReadDurationCount   uint64
	EventReadDurationTotalNs int64
	EventsCreated            uint64
	EventsUpdated            uint64
	EventsDeleted            uint64
	ParticipantsAdded        uint64
	ParticipantsRemoved      uint64
	UsersRegistered          uint64
	SigninSuccesses          uint64
	SigninFailures           uint64
}

// InMemoryRecorder stores metrics in memory for tests and the metrics endpoint.
type InMemoryRecorder struct {
	eventCacheHits           uint64
	eventCacheMisses         uint64
	eventReadDurationCount   uint64
	eventReadDurationTotalNs int64
	eventsCreated            uint64
	eventsUpdated            uint64
	eventsDeleted            uint64
	participantsAdded        uint64
	participantsRemoved      uint64
	usersRegistered          uint64
	signinSuccesses          uint64
	signinFailures           uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		EventCacheHits:           atomic.LoadUint64(&m.eventCacheHits),
		EventCacheMisses:         atomic.LoadUint64(&m.eventCacheMisses),
		EventReadDurationCount:   atomic.LoadUint64(&m.eventReadDurationCount),
		EventReadDurationTotalNs: atomic.LoadInt64(&m.eventReadDurationTotalNs),
		EventsCreated:            atomic.LoadUint64(&m.eventsCreated),
		EventsUpdated:            atomic.LoadUint64(&m.eventsUpdated),
		EventsDeleted:            atomic.LoadUint64(&m.eventsDeleted),
		ParticipantsAdded:        atomic.LoadUint64(&m.participantsAdded),
		ParticipantsRemoved:      atomic.LoadUint64(&m.participantsRemoved),
		UsersRegistered:          atomic.LoadUint64(&m.usersRegistered),
		SigninSuccesses:          atomic.LoadUint64(&m.signinSuccesses),
		SigninFailures:           atomic.LoadUint64(&m.signinFailures),
	}
}

// IncEventCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncEventCacheHit() {
	atomic.AddUint64(&m.eventCacheHits, 1)
}

// IncEventCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncEventCacheMiss() {
	atomic.AddUint64(&m.eventCacheMisses, 1)
}

// ObserveEventReadDuration records a single-event read duration.
func (m *InMemoryRecorder) ObserveEventReadDuration(duration time.Duration) {
	atomic.AddUint64(&m.eventReadDurationCount, 1)
	atomic.AddInt64(&m.eventReadDurationTotalNs, duration.Nanoseconds())
}

// IncEventCreated increments the event created counter.
func (m *InMemoryRecorder) IncEventCreated() {
	atomic.AddUint64(&m.eventsCreated, 1)
}

// IncEventUpdated increments the event updated counter.
func (m *InMemoryRecorder) IncEventUpdated() {
	atomic.AddUint64(&m.eventsUpdated, 1)
}

// IncEventDeleted increments the event deleted counter.
func (m *InMemoryRecorder) IncEventDeleted() {
	atomic.AddUint64(&m.eventsDeleted, 1)
}

// IncParticipantAdded increments the participant added counter.
func (m *InMemoryRecorder) IncParticipantAdded() {
	atomic.AddUint64(&m.participantsAdded, 1)
}

// IncParticipantRemoved increments the participant removed counter.
func (m *InMemoryRecorder) IncParticipantRemoved() {
	atomic.AddUint64(&m.participantsRemoved, 1)
}

// IncUserRegistered increments the user registered counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncSignin increments the signin counter for the given status.
func (m *InMemoryRecorder) IncSignin(status string) {
	if status == "success" {
		atomic.AddUint64(&m.signinSuccesses, 1)
		return
	}
	atomic.AddUint64(&m.signinFailures, 1)
}
