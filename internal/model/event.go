package model

import "time"

// EventType categorizes an event.
type EventType string

const (
	EventTypeMeeting     EventType = "MEETING"
	EventTypeAppointment EventType = "APPOINTMENT"
	EventTypeReminder    EventType = "REMINDER"
	EventTypeBirthday    EventType = "BIRTHDAY"
	EventTypeHoliday     EventType = "HOLIDAY"
	EventTypePersonal    EventType = "PERSONAL"
	EventTypeWork        EventType = "WORK"
)

// IsValid checks if the event type is a known value.
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeMeeting, EventTypeAppointment, EventTypeReminder,
		EventTypeBirthday, EventTypeHoliday, EventTypePersonal, EventTypeWork:
		return true
	}
	return false
}

// EventStatus is the lifecycle tag of an event.
type EventStatus string

const (
	EventStatusScheduled EventStatus = "SCHEDULED"
	EventStatusConfirmed EventStatus = "CONFIRMED"
	EventStatusCancelled EventStatus = "CANCELLED"
	EventStatusCompleted EventStatus = "COMPLETED"
	EventStatusTentative EventStatus = "TENTATIVE"
)

// IsValid checks if the status is a known value.
func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusScheduled, EventStatusConfirmed, EventStatusCancelled,
		EventStatusCompleted, EventStatusTentative:
		return true
	}
	return false
}

// Event represents a calendar event. The owner is set at creation and never
// reassigned. Participants form a set with unique membership; the owner is
// authorized regardless of whether they also appear in it.
//
// StartTime and EndTime carry no ordering constraint. The core accepts an end
// before its start; chronology checks belong to callers, if anywhere.
type Event struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description,omitempty"`
	StartTime         time.Time   `json:"start_time"`
	EndTime           time.Time   `json:"end_time"`
	Location          string      `json:"location,omitempty"`
	EventType         EventType   `json:"event_type"`
	Status            EventStatus `json:"status"`
	IsAllDay          bool        `json:"is_all_day"`
	IsRecurring       bool        `json:"is_recurring"`
	RecurrencePattern string      `json:"recurrence_pattern,omitempty"`
	OwnerID           string      `json:"owner_id"`
	OwnerUsername     string      `json:"owner_username,omitempty"`
	Participants      []User      `json:"participants,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// IsOwner reports whether the given user owns the event.
func (e *Event) IsOwner(userID string) bool {
	return e.OwnerID == userID
}

// HasParticipant reports whether the given user is in the participant set.
func (e *Event) HasParticipant(userID string) bool {
	for _, p := range e.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// Involves is the visibility predicate for every read and list operation:
// owner or participant.
func (e *Event) Involves(userID string) bool {
	return e.IsOwner(userID) || e.HasParticipant(userID)
}

// ParticipantIDs returns the ids of the participant set.
func (e *Event) ParticipantIDs() []string {
	ids := make([]string, 0, len(e.Participants))
	for _, p := range e.Participants {
		ids = append(ids, p.ID)
	}
	return ids
}
