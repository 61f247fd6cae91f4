package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/calshare/calshare/internal/model"
)

// Common errors for event repository operations.
var (
	ErrEventNotFound = errors.New("event not found")
)

const eventColumns = `
	e.id, e.title, e.description, e.start_time, e.end_time, e.location,
	e.event_type, e.status, e.is_all_day, e.is_recurring, e.recurrence_pattern,
	e.owner_id, o.username, e.created_at, e.updated_at`

// involvedPredicate scopes a query to events the user owns or participates in.
// Every list and search query is conjunctive with this; nothing exposes events
// outside the caller's involvement.
const involvedPredicate = `(e.owner_id = $1 OR EXISTS (
		SELECT 1 FROM event_participants ep
		WHERE ep.event_id = e.id AND ep.user_id = $1))`

// CreateEvent inserts a new event and its participant set in one transaction.
func (r *Repository) CreateEvent(ctx context.Context, event *model.Event, participantIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO events (id, title, description, start_time, end_time, location,
			event_type, status, is_all_day, is_recurring, recurrence_pattern,
			owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = tx.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.EventType,
		event.Status,
		event.IsAllDay,
		event.IsRecurring,
		event.RecurrencePattern,
		event.OwnerID,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	if err := insertParticipants(ctx, tx, event.ID, participantIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit event create: %w", err)
	}

	return nil
}

// GetEventByID retrieves an event by id with its participants loaded.
func (r *Repository) GetEventByID(ctx context.Context, id string) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN users o ON o.id = e.owner_id
		WHERE e.id = $1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}

	if err := r.attachParticipants(ctx, []*model.Event{event}); err != nil {
		return nil, err
	}

	return event, nil
}

// ListInvolvedEvents retrieves all events the user owns or participates in,
// ordered by start time ascending.
func (r *Repository) ListInvolvedEvents(ctx context.Context, userID string) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN users o ON o.id = e.owner_id
		WHERE ` + involvedPredicate + `
		ORDER BY e.start_time ASC
	`

	return r.queryEvents(ctx, query, userID)
}

// ListInvolvedEventsInRange retrieves involved events whose start time falls
// within [start, end], ordered by start time ascending. An inverted range
// yields an empty result; no validation is applied.
func (r *Repository) ListInvolvedEventsInRange(ctx context.Context, userID string, start, end time.Time) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN users o ON o.id = e.owner_id
		WHERE ` + involvedPredicate + `
		  AND e.start_time BETWEEN $2 AND $3
		ORDER BY e.start_time ASC
	`

	return r.queryEvents(ctx, query, userID, start, end)
}

// SearchInvolvedEvents retrieves involved events whose title contains the term.
// Matching is plain case-sensitive substring containment, not tokenized search.
func (r *Repository) SearchInvolvedEvents(ctx context.Context, userID, term string) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN users o ON o.id = e.owner_id
		WHERE ` + involvedPredicate + `
		  AND e.title LIKE '%' || $2 || '%'
		ORDER BY e.start_time ASC
	`

	return r.queryEvents(ctx, query, userID, term)
}

// ListInvolvedEventsByStatus retrieves involved events with the given status.
func (r *Repository) ListInvolvedEventsByStatus(ctx context.Context, userID string, status model.EventStatus) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN users o ON o.id = e.owner_id
		WHERE ` + involvedPredicate + `
		  AND e.status = $2
		ORDER BY e.start_time ASC
	`

	return r.queryEvents(ctx, query, userID, status)
}

// ListInvolvedEventsByType retrieves involved events with the given type.
func (r *Repository) ListInvolvedEventsByType(ctx context.Context, userID string, eventType model.EventType) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN users o ON o.id = e.owner_id
		WHERE ` + involvedPredicate + `
		  AND e.event_type = $2
		ORDER BY e.start_time ASC
	`

	return r.queryEvents(ctx, query, userID, eventType)
}

// UpdateEvent overwrites all scalar fields of an event and, when
// replaceParticipants is true, replaces the entire participant set. Both writes
// commit in one transaction so concurrent readers observe them atomically.
// When replaceParticipants is false, the participant set is left untouched.
func (r *Repository) UpdateEvent(ctx context.Context, event *model.Event, participantIDs []string, replaceParticipants bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE events
		SET title = $2, description = $3, start_time = $4, end_time = $5,
			location = $6, event_type = $7, status = $8, is_all_day = $9,
			is_recurring = $10, recurrence_pattern = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Description,
		event.StartTime,
		event.EndTime,
		event.Location,
		event.EventType,
		event.Status,
		event.IsAllDay,
		event.IsRecurring,
		event.RecurrencePattern,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrEventNotFound
	}

	if replaceParticipants {
		if _, err := tx.Exec(ctx, `DELETE FROM event_participants WHERE event_id = $1`, event.ID); err != nil {
			return fmt.Errorf("failed to clear participants: %w", err)
		}
		if err := insertParticipants(ctx, tx, event.ID, participantIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit event update: %w", err)
	}

	return nil
}

// DeleteEvent removes an event. Participant rows go with it via ON DELETE CASCADE.
func (r *Repository) DeleteEvent(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEventNotFound
	}

	return nil
}

// AddEventParticipant adds a user to an event's participant set.
// Idempotent: adding an existing participant is a no-op.
func (r *Repository) AddEventParticipant(ctx context.Context, eventID, userID string) error {
	query := `
		INSERT INTO event_participants (event_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (event_id, user_id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, eventID, userID); err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}

	return nil
}

// RemoveEventParticipant removes a user from an event's participant set.
// Idempotent: removing an absent participant is a no-op.
func (r *Repository) RemoveEventParticipant(ctx context.Context, eventID, userID string) error {
	query := `DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`

	if _, err := r.pool.Exec(ctx, query, eventID, userID); err != nil {
		return fmt.Errorf("failed to remove participant: %w", err)
	}

	return nil
}

// queryEvents runs an event select and loads participants for the result set.
func (r *Repository) queryEvents(ctx context.Context, query string, args ...any) ([]*model.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	if err := r.attachParticipants(ctx, events); err != nil {
		return nil, err
	}

	return events, nil
}

// attachParticipants loads participant users for the given events in one query.
func (r *Repository) attachParticipants(ctx context.Context, events []*model.Event) error {
	if len(events) == 0 {
		return nil
	}

	byID := make(map[string]*model.Event, len(events))
	ids := make([]string, 0, len(events))
	for _, e := range events {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	query := `
		SELECT ep.event_id, u.id, u.username, u.email, u.first_name, u.last_name, u.created_at
		FROM event_participants ep
		JOIN users u ON u.id = ep.user_id
		WHERE ep.event_id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID string
		var user model.User
		if err := rows.Scan(
			&eventID,
			&user.ID,
			&user.Username,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&user.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		if event, ok := byID[eventID]; ok {
			event.Participants = append(event.Participants, user)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating participants: %w", err)
	}

	return nil
}

// insertParticipants inserts participant rows inside an open transaction.
func insertParticipants(ctx context.Context, tx pgx.Tx, eventID string, participantIDs []string) error {
	if len(participantIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO event_participants (event_id, user_id)
		SELECT $1, uid FROM unnest($2::text[]) AS uid
		ON CONFLICT (event_id, user_id) DO NOTHING
	`

	if _, err := tx.Exec(ctx, query, eventID, pq.Array(participantIDs)); err != nil {
		return fmt.Errorf("failed to insert participants: %w", err)
	}

	return nil
}

// scanEvent scans a single joined row into an Event model.
func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.StartTime,
		&event.EndTime,
		&event.Location,
		&event.EventType,
		&event.Status,
		&event.IsAllDay,
		&event.IsRecurring,
		&event.RecurrencePattern,
		&event.OwnerID,
		&event.OwnerUsername,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	return &event, err
}
