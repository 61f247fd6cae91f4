// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/calshare/calshare/internal/model"
)

// Field limits for event requests.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxLocationLength    = 100
)

// Validation errors.
var (
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title exceeds maximum length")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
	ErrLocationTooLong    = errors.New("location exceeds maximum length")
	ErrStartTimeRequired  = errors.New("start time is required")
	ErrEndTimeRequired    = errors.New("end time is required")
	ErrInvalidEventType   = errors.New("invalid event type")
	ErrInvalidEventStatus = errors.New("invalid event status")
)

// EventRequest is the request body for creating or updating an event.
//
// ParticipantIDs distinguishes an absent field from an empty array: absent
// decodes to a nil slice (participants untouched on update), [] decodes to an
// empty non-nil slice (all participants removed).
type EventRequest struct {
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	StartTime         *time.Time `json:"startTime"`
	EndTime           *time.Time `json:"endTime"`
	Location          string     `json:"location"`
	EventType         string     `json:"eventType"`
	Status            string     `json:"status"`
	IsAllDay          bool       `json:"isAllDay"`
	IsRecurring       bool       `json:"isRecurring"`
	RecurrencePattern string     `json:"recurrencePattern"`
	ParticipantIDs    []string   `json:"participantIds"`
}

// Validate checks boundary constraints on the request. Chronological ordering
// of start and end is deliberately not checked.
func (r *EventRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrTitleRequired
	}
	if len(r.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(r.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if len(r.Location) > MaxLocationLength {
		return ErrLocationTooLong
	}
	if r.StartTime == nil {
		return ErrStartTimeRequired
	}
	if r.EndTime == nil {
		return ErrEndTimeRequired
	}
	if r.EventType != "" && !model.EventType(r.EventType).IsValid() {
		return ErrInvalidEventType
	}
	if r.Status != "" && !model.EventStatus(r.Status).IsValid() {
		return ErrInvalidEventStatus
	}
	return nil
}

// ResolvedEventType returns the requested type, defaulting to MEETING when
// omitted.
func (r *EventRequest) ResolvedEventType() model.EventType {
	if r.EventType == "" {
		return model.EventTypeMeeting
	}
	return model.EventType(r.EventType)
}

// ResolvedStatus returns the requested status, defaulting to SCHEDULED when
// omitted.
func (r *EventRequest) ResolvedStatus() model.EventStatus {
	if r.Status == "" {
		return model.EventStatusScheduled
	}
	return model.EventStatus(r.Status)
}

// EventResponse represents an event in API responses.
type EventResponse struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description,omitempty"`
	StartTime         time.Time      `json:"startTime"`
	EndTime           time.Time      `json:"endTime"`
	Location          string         `json:"location,omitempty"`
	EventType         string         `json:"eventType"`
	Status            string         `json:"status"`
	IsAllDay          bool           `json:"isAllDay"`
	IsRecurring       bool           `json:"isRecurring"`
	RecurrencePattern string         `json:"recurrencePattern,omitempty"`
	OwnerID           string         `json:"ownerId"`
	OwnerUsername     string         `json:"ownerUsername,omitempty"`
	ParticipantIDs    []string       `json:"participantIds"`
	Participants      []UserResponse `json:"participants"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToEventResponse converts an Event model to EventResponse DTO.
func ToEventResponse(event *model.Event) *EventResponse {
	participants := make([]UserResponse, len(event.Participants))
	for i := range event.Participants {
		participants[i] = *ToUserResponse(&event.Participants[i])
	}

	ids := event.ParticipantIDs()
	if ids == nil {
		ids = []string{}
	}

	return &EventResponse{
		ID:                event.ID,
		Title:             event.Title,
		Description:       event.Description,
		StartTime:         event.StartTime,
		EndTime:           event.EndTime,
		Location:          event.Location,
		EventType:         string(event.EventType),
		Status:            string(event.Status),
		IsAllDay:          event.IsAllDay,
		IsRecurring:       event.IsRecurring,
		RecurrencePattern: event.RecurrencePattern,
		OwnerID:           event.OwnerID,
		OwnerUsername:     event.OwnerUsername,
		ParticipantIDs:    ids,
		Participants:      participants,
		CreatedAt:         event.CreatedAt,
		UpdatedAt:         event.UpdatedAt,
	}
}

// ToEventListResponse converts a slice of events to response DTOs.
func ToEventListResponse(events []*model.Event) []EventResponse {
	responses := make([]EventResponse, len(events))
	for i, event := range events {
		responses[i] = *ToEventResponse(event)
	}
	return responses
}
