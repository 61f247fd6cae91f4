package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/calshare/calshare/internal/auth"
	"github.com/calshare/calshare/internal/handler/dto"
	"github.com/calshare/calshare/internal/model"
	"github.com/calshare/calshare/internal/service"
)

// EventHandler handles HTTP requests for event operations. The caller
// identity is taken from the request context set by the auth middleware.
type EventHandler struct {
	svc    *service.EventService
	logger *slog.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(svc *service.EventService, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/v1/events.
// Optional query parameters narrow the involved set: ?search= matches the
// title as a case-sensitive substring, ?status= and ?type= filter by enum.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	query := r.URL.Query()

	var (
		events []*model.Event
		err    error
	)

	switch {
	case query.Get("search") != "":
		events, err = h.svc.Search(r.Context(), userID, query.Get("search"))
	case query.Get("status") != "":
		status := model.EventStatus(query.Get("status"))
		if !status.IsValid() {
			h.writeError(w, http.StatusBadRequest, "INVALID_STATUS", "Unknown event status")
			return
		}
		events, err = h.svc.ListByStatus(r.Context(), userID, status)
	case query.Get("type") != "":
		eventType := model.EventType(query.Get("type"))
		if !eventType.IsValid() {
			h.writeError(w, http.StatusBadRequest, "INVALID_TYPE", "Unknown event type")
			return
		}
		events, err = h.svc.ListByType(r.Context(), userID, eventType)
	default:
		events, err = h.svc.ListInvolved(r.Context(), userID)
	}

	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEventListResponse(events))
}

// Range handles GET /api/v1/events/range?start=...&end=...
// Both bounds are required RFC 3339 timestamps.
func (h *EventHandler) Range(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	query := r.URL.Query()

	start, err := time.Parse(time.RFC3339, query.Get("start"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_START", "start must be an RFC 3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, query.Get("end"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_END", "end must be an RFC 3339 timestamp")
		return
	}

	events, err := h.svc.ListInvolvedInRange(r.Context(), userID, start, end)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEventListResponse(events))
}

// Get handles GET /api/v1/events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	event, err := h.svc.Get(r.Context(), id, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEventResponse(event))
}

// Create handles POST /api/v1/events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req dto.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	event, err := h.svc.Create(r.Context(), eventInputFromRequest(&req), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("event_created",
		"event_id", event.ID,
		"owner_id", event.OwnerID,
		"participant_count", len(event.Participants),
	)

	writeJSON(w, http.StatusCreated, dto.ToEventResponse(event))
}

// Update handles PUT /api/v1/events/{id}.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	event, err := h.svc.Update(r.Context(), id, eventInputFromRequest(&req), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("event_updated",
		"event_id", event.ID,
		"participants_replaced", req.ParticipantIDs != nil,
	)

	writeJSON(w, http.StatusOK, dto.ToEventResponse(event))
}

// Delete handles DELETE /api/v1/events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id, userID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("event_deleted", "event_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// AddParticipant handles POST /api/v1/events/{id}/participants/{participantId}.
func (h *EventHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")
	participantID := chi.URLParam(r, "participantId")

	event, err := h.svc.AddParticipant(r.Context(), id, participantID, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("participant_added",
		"event_id", event.ID,
		"participant_id", participantID,
	)

	writeJSON(w, http.StatusOK, dto.ToEventResponse(event))
}

// RemoveParticipant handles DELETE /api/v1/events/{id}/participants/{participantId}.
func (h *EventHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")
	participantID := chi.URLParam(r, "participantId")

	event, err := h.svc.RemoveParticipant(r.Context(), id, participantID, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("participant_removed",
		"event_id", event.ID,
		"participant_id", participantID,
	)

	writeJSON(w, http.StatusOK, dto.ToEventResponse(event))
}

// eventInputFromRequest maps a validated request to a service input.
// A nil ParticipantIDs slice passes through unchanged to preserve the
// absent-vs-empty distinction.
func eventInputFromRequest(req *dto.EventRequest) service.EventInput {
	return service.EventInput{
		Title:             req.Title,
		Description:       req.Description,
		StartTime:         *req.StartTime,
		EndTime:           *req.EndTime,
		Location:          req.Location,
		EventType:         req.ResolvedEventType(),
		Status:            req.ResolvedStatus(),
		IsAllDay:          req.IsAllDay,
		IsRecurring:       req.IsRecurring,
		RecurrencePattern: req.RecurrencePattern,
		ParticipantIDs:    req.ParticipantIDs,
	}
}

// handleServiceError maps service errors to HTTP responses.
func (h *EventHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		h.writeError(w, http.StatusNotFound, "EVENT_NOT_FOUND", "Event not found")
	case errors.Is(err, service.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrNotOwner):
		h.writeError(w, http.StatusForbidden, "NOT_OWNER", "Only the event owner may perform this operation")
	case errors.Is(err, service.ErrAccessDenied):
		h.writeError(w, http.StatusForbidden, "ACCESS_DENIED", "Access denied to this event")
	default:
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func (h *EventHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
