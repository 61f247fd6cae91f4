// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/calshare/calshare/internal/cache"
	"github.com/calshare/calshare/internal/metrics"
	"github.com/calshare/calshare/internal/model"
	"github.com/calshare/calshare/internal/repository"
)

// Service errors.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrNotOwner      = errors.New("only the event owner may perform this operation")
	ErrAccessDenied  = errors.New("access denied to this event")
)

// EventStore persists events and their participant sets.
type EventStore interface {
	CreateEvent(ctx context.Context, event *model.Event, participantIDs []string) error
	GetEventByID(ctx context.Context, id string) (*model.Event, error)
	ListInvolvedEvents(ctx context.Context, userID string) ([]*model.Event, error)
	ListInvolvedEventsInRange(ctx context.Context, userID string, start, end time.Time) ([]*model.Event, error)
	SearchInvolvedEvents(ctx context.Context, userID, term string) ([]*model.Event, error)
	ListInvolvedEventsByStatus(ctx context.Context, userID string, status model.EventStatus) ([]*model.Event, error)
	ListInvolvedEventsByType(ctx context.Context, userID string, eventType model.EventType) ([]*model.Event, error)
	UpdateEvent(ctx context.Context, event *model.Event, participantIDs []string, replaceParticipants bool) error
	DeleteEvent(ctx context.Context, id string) error
	AddEventParticipant(ctx context.Context, eventID, userID string) error
	RemoveEventParticipant(ctx context.Context, eventID, userID string) error
}

// EventService applies the access rules over the event store and identity
// lookup: reads require involvement, mutations require ownership, and a
// participant may remove themself.
type EventService struct {
	events   EventStore
	users    IdentityStore
	cache    *cache.Cache
	cacheTTL time.Duration
	metrics  metrics.Recorder
}

// NewEventService creates a new EventService. The cache may be nil, in which
// case reads always hit the store.
func NewEventService(events EventStore, users IdentityStore, eventCache *cache.Cache, cacheTTL time.Duration, recorder metrics.Recorder) *EventService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &EventService{
		events:   events,
		users:    users,
		cache:    eventCache,
		cacheTTL: cacheTTL,
		metrics:  recorder,
	}
}

// EventInput carries the scalar fields of an event plus the requested
// participant set.
//
// ParticipantIDs has three-valued semantics on update: nil leaves the existing
// participant set untouched, an empty non-nil slice removes every participant,
// and a populated slice replaces the set. Callers mapping from JSON must keep
// "field absent" as a nil slice rather than collapsing it to empty.
type EventInput struct {
	Title             string
	Description       string
	StartTime         time.Time
	EndTime           time.Time
	Location          string
	EventType         model.EventType
	Status            model.EventStatus
	IsAllDay          bool
	IsRecurring       bool
	RecurrencePattern string
	ParticipantIDs    []string
}

// ListInvolved returns all events the user owns or participates in, ordered by
// start time ascending.
func (s *EventService) ListInvolved(ctx context.Context, userID string) ([]*model.Event, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.events.ListInvolvedEvents(ctx, user.ID)
}

// ListInvolvedInRange returns involved events whose start time falls within
// [start, end]. No validation that start <= end is performed; an inverted
// range yields an empty result.
func (s *EventService) ListInvolvedInRange(ctx context.Context, userID string, start, end time.Time) ([]*model.Event, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.events.ListInvolvedEventsInRange(ctx, user.ID, start, end)
}

// Search returns involved events whose title contains the term as a
// case-sensitive substring.
func (s *EventService) Search(ctx context.Context, userID, term string) ([]*model.Event, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.events.SearchInvolvedEvents(ctx, user.ID, term)
}

// ListByStatus returns involved events with the given status.
func (s *EventService) ListByStatus(ctx context.Context, userID string, status model.EventStatus) ([]*model.Event, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.events.ListInvolvedEventsByStatus(ctx, user.ID, status)
}

// ListByType returns involved events with the given type.
func (s *EventService) ListByType(ctx context.Context, userID string, eventType model.EventType) ([]*model.Event, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.events.ListInvolvedEventsByType(ctx, user.ID, eventType)
}

// Get returns the event if it exists and the caller is owner or participant.
// Returns ErrEventNotFound for a missing event and ErrAccessDenied for an
// existing event the caller is not involved in.
func (s *EventService) Get(ctx context.Context, eventID, userID string) (*model.Event, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveEventReadDuration(time.Since(start))
	}()

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !event.Involves(user.ID) {
		return nil, ErrAccessDenied
	}

	return event, nil
}

// Create builds a new event owned by ownerID with all scalar fields taken from
// input, resolves the requested participants, and persists the result.
//
// Unknown participant ids are silently dropped: resolution returns only the
// users that exist. Do not turn the dropped ids into a validation error.
func (s *EventService) Create(ctx context.Context, input EventInput, ownerID string) (*model.Event, error) {
	owner, err := s.resolveUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := &model.Event{
		ID:                ulid.Make().String(),
		Title:             input.Title,
		Description:       input.Description,
		StartTime:         input.StartTime,
		EndTime:           input.EndTime,
		Location:          input.Location,
		EventType:         input.EventType,
		Status:            input.Status,
		IsAllDay:          input.IsAllDay,
		IsRecurring:       input.IsRecurring,
		RecurrencePattern: input.RecurrencePattern,
		OwnerID:           owner.ID,
		OwnerUsername:     owner.Username,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	participants, err := s.resolveParticipants(ctx, input.ParticipantIDs)
	if err != nil {
		return nil, err
	}
	event.Participants = participants

	if err := s.events.CreateEvent(ctx, event, event.ParticipantIDs()); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.metrics.IncEventCreated()
	return event, nil
}

// Update overwrites every scalar field of the event from input (a full
// replace, not a merge) and, when input.ParticipantIDs is non-nil, replaces
// the entire participant set. Only the owner may update. The overwrite and the
// participant replacement commit as one atomic unit.
func (s *EventService) Update(ctx context.Context, eventID string, input EventInput, userID string) (*model.Event, error) {
	event, err := s.loadStoredEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !event.IsOwner(user.ID) {
		return nil, ErrNotOwner
	}

	event.Title = input.Title
	event.Description = input.Description
	event.StartTime = input.StartTime
	event.EndTime = input.EndTime
	event.Location = input.Location
	event.EventType = input.EventType
	event.Status = input.Status
	event.IsAllDay = input.IsAllDay
	event.IsRecurring = input.IsRecurring
	event.RecurrencePattern = input.RecurrencePattern
	event.UpdatedAt = time.Now().UTC()

	// nil means "leave participants alone"; empty means "remove them all".
	replace := input.ParticipantIDs != nil
	if replace {
		participants, err := s.resolveParticipants(ctx, input.ParticipantIDs)
		if err != nil {
			return nil, err
		}
		event.Participants = participants
	}

	if err := s.events.UpdateEvent(ctx, event, event.ParticipantIDs(), replace); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	s.invalidate(ctx, event.ID)
	s.metrics.IncEventUpdated()
	return event, nil
}

// Delete removes the event and its participant relations. Only the owner may
// delete.
func (s *EventService) Delete(ctx context.Context, eventID, userID string) error {
	event, err := s.loadStoredEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if !event.IsOwner(userID) {
		return ErrNotOwner
	}

	if err := s.events.DeleteEvent(ctx, event.ID); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}

	s.invalidate(ctx, event.ID)
	s.metrics.IncEventDeleted()
	return nil
}

// AddParticipant adds a user to the event's participant set. Only the owner
// may add. Adding an existing participant is an idempotent no-op.
func (s *EventService) AddParticipant(ctx context.Context, eventID, participantID, userID string) (*model.Event, error) {
	event, err := s.loadStoredEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	participant, err := s.resolveUser(ctx, participantID)
	if err != nil {
		return nil, err
	}

	if !event.IsOwner(userID) {
		return nil, ErrNotOwner
	}

	if err := s.events.AddEventParticipant(ctx, event.ID, participant.ID); err != nil {
		return nil, fmt.Errorf("add participant: %w", err)
	}

	if !event.HasParticipant(participant.ID) {
		event.Participants = append(event.Participants, *participant)
	}

	s.invalidate(ctx, event.ID)
	s.metrics.IncParticipantAdded()
	return event, nil
}

// RemoveParticipant removes a user from the event's participant set. The owner
// may remove anyone; a participant may remove themself. Removing an absent
// participant is an idempotent no-op.
func (s *EventService) RemoveParticipant(ctx context.Context, eventID, participantID, userID string) (*model.Event, error) {
	event, err := s.loadStoredEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	participant, err := s.resolveUser(ctx, participantID)
	if err != nil {
		return nil, err
	}

	if !event.IsOwner(userID) && participant.ID != userID {
		return nil, ErrAccessDenied
	}

	if err := s.events.RemoveEventParticipant(ctx, event.ID, participant.ID); err != nil {
		return nil, fmt.Errorf("remove participant: %w", err)
	}

	remaining := event.Participants[:0]
	for _, p := range event.Participants {
		if p.ID != participant.ID {
			remaining = append(remaining, p)
		}
	}
	event.Participants = remaining

	s.invalidate(ctx, event.ID)
	s.metrics.IncParticipantRemoved()
	return event, nil
}

// loadEvent loads an event through the cache for the read path.
func (s *EventService) loadEvent(ctx context.Context, eventID string) (*model.Event, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetEvent(ctx, eventID); err == nil {
			s.metrics.IncEventCacheHit()
			return cached, nil
		}
		s.metrics.IncEventCacheMiss()
	}

	event, err := s.loadStoredEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Cache failures degrade to the database.
		_ = s.cache.SetEvent(ctx, event, s.cacheTTL)
	}

	return event, nil
}

// loadStoredEvent loads an event directly from the store. Mutation paths use
// this so authorization decisions never run against a stale cached copy.
func (s *EventService) loadStoredEvent(ctx context.Context, eventID string) (*model.Event, error) {
	event, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// resolveUser resolves a user id, mapping a missing user to ErrUserNotFound.
func (s *EventService) resolveUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// resolveParticipants batch-resolves participant ids to the users that exist.
// Unknown ids are silently dropped.
func (s *EventService) resolveParticipants(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve participants: %w", err)
	}

	participants := make([]model.User, 0, len(users))
	for _, u := range users {
		participants = append(participants, *u)
	}
	return participants, nil
}

// invalidate drops the cached copy of an event after a mutation.
func (s *EventService) invalidate(ctx context.Context, eventID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateEvent(ctx, eventID)
}
