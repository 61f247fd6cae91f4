package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/calshare/calshare/internal/model"
	"github.com/calshare/calshare/internal/repository"
)

// fakeStore is an in-memory EventStore + IdentityStore used to exercise the
// access rules without a database. It mirrors the repository contract,
// including its sentinel errors and silent-drop batch resolution.
type fakeStore struct {
	users  map[string]*model.User
	events map[string]*model.Event
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[string]*model.User),
		events: make(map[string]*model.Event),
	}
}

func (f *fakeStore) addUser(id, username string) *model.User {
	u := &model.User{
		ID:       id,
		Username: username,
		Email:    username + "@example.com",
	}
	f.users[id] = u
	return u
}

func cloneEvent(e *model.Event) *model.Event {
	c := *e
	c.Participants = append([]model.User(nil), e.Participants...)
	return &c
}

func (f *fakeStore) CreateUser(ctx context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return repository.ErrUsernameExists
		}
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	c := *user
	f.users[user.ID] = &c
	return nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeStore) GetUsersByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	var out []*model.User
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if u, ok := f.users[id]; ok {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchUsers(ctx context.Context, term string) ([]*model.User, error) {
	var out []*model.User
	for _, u := range f.users {
		if strings.Contains(u.Username, term) || strings.Contains(u.Email, term) ||
			strings.Contains(u.FirstName, term) || strings.Contains(u.LastName, term) {
			c := *u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range f.users {
		c := *u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (f *fakeStore) CreateEvent(ctx context.Context, event *model.Event, participantIDs []string) error {
	stored := cloneEvent(event)
	stored.Participants = nil
	for _, id := range participantIDs {
		if u, ok := f.users[id]; ok && !stored.HasParticipant(id) {
			stored.Participants = append(stored.Participants, *u)
		}
	}
	f.events[event.ID] = stored
	return nil
}

func (f *fakeStore) GetEventByID(ctx context.Context, id string) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	return cloneEvent(e), nil
}

func (f *fakeStore) involved(userID string) []*model.Event {
	var out []*model.Event
	for _, e := range f.events {
		if e.Involves(userID) {
			out = append(out, cloneEvent(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (f *fakeStore) ListInvolvedEvents(ctx context.Context, userID string) ([]*model.Event, error) {
	return f.involved(userID), nil
}

func (f *fakeStore) ListInvolvedEventsInRange(ctx context.Context, userID string, start, end time.Time) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range f.involved(userID) {
		if !e.StartTime.Before(start) && !e.StartTime.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchInvolvedEvents(ctx context.Context, userID, term string) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range f.involved(userID) {
		if strings.Contains(e.Title, term) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListInvolvedEventsByStatus(ctx context.Context, userID string, status model.EventStatus) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range f.involved(userID) {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListInvolvedEventsByType(ctx context.Context, userID string, eventType model.EventType) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range f.involved(userID) {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateEvent(ctx context.Context, event *model.Event, participantIDs []string, replaceParticipants bool) error {
	existing, ok := f.events[event.ID]
	if !ok {
		return repository.ErrEventNotFound
	}

	stored := cloneEvent(event)
	if replaceParticipants {
		stored.Participants = nil
		for _, id := range participantIDs {
			if u, ok := f.users[id]; ok && !stored.HasParticipant(id) {
				stored.Participants = append(stored.Participants, *u)
			}
		}
	} else {
		stored.Participants = append([]model.User(nil), existing.Participants...)
	}
	f.events[event.ID] = stored
	return nil
}

func (f *fakeStore) DeleteEvent(ctx context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeStore) AddEventParticipant(ctx context.Context, eventID, userID string) error {
	e, ok := f.events[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}
	if u, exists := f.users[userID]; exists && !e.HasParticipant(userID) {
		e.Participants = append(e.Participants, *u)
	}
	return nil
}

func (f *fakeStore) RemoveEventParticipant(ctx context.Context, eventID, userID string) error {
	e, ok := f.events[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}
	remaining := e.Participants[:0]
	for _, p := range e.Participants {
		if p.ID != userID {
			remaining = append(remaining, p)
		}
	}
	e.Participants = remaining
	return nil
}

// fixture wires an EventService over the fake store with three users:
// an owner, a participant, and an unrelated third party.
func fixture(t *testing.T) (*fakeStore, *EventService) {
	t.Helper()
	store := newFakeStore()
	store.addUser("owner", "olivia")
	store.addUser("alice", "alice")
	store.addUser("bob", "bob")
	store.addUser("carol", "carol")
	svc := NewEventService(store, store, nil, 0, nil)
	return store, svc
}

func mustCreate(t *testing.T, svc *EventService, input EventInput, ownerID string) *model.Event {
	t.Helper()
	event, err := svc.Create(context.Background(), input, ownerID)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return event
}

func baseInput(title string, start time.Time) EventInput {
	return EventInput{
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		EventType: model.EventTypeMeeting,
		Status:    model.EventStatusScheduled,
	}
}

func TestGet_OwnerAlwaysAllowed(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	event := mustCreate(t, svc, baseInput("standup", time.Now()), "owner")

	got, err := svc.Get(ctx, event.ID, "owner")
	if err != nil {
		t.Fatalf("owner Get failed: %v", err)
	}
	if got.ID != event.ID {
		t.Errorf("expected event %s, got %s", event.ID, got.ID)
	}
}

func TestGet_ParticipantAllowed(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	input := baseInput("standup", time.Now())
	input.ParticipantIDs = []string{"alice"}
	event := mustCreate(t, svc, input, "owner")

	if _, err := svc.Get(ctx, event.ID, "alice"); err != nil {
		t.Fatalf("participant Get failed: %v", err)
	}
}

func TestGet_UnrelatedUserDenied(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	input := baseInput("standup", time.Now())
	input.ParticipantIDs = []string{"alice"}
	event := mustCreate(t, svc, input, "owner")

	if _, err := svc.Get(ctx, event.ID, "carol"); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}

func TestGet_MissingEvent(t *testing.T) {
	_, svc := fixture(t)

	if _, err := svc.Get(context.Background(), "no-such-event", "owner"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestGet_MissingUser(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	event := mustCreate(t, svc, baseInput("standup", time.Now()), "owner")

	if _, err := svc.Get(ctx, event.ID, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListInvolved_ExactSetSortedByStartTime(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	// alice owns one, participates in another, and is unrelated to a third.
	owned := mustCreate(t, svc, baseInput("owned", base.Add(48*time.Hour)), "alice")

	invited := baseInput("invited", base)
	invited.ParticipantIDs = []string{"alice"}
	participating := mustCreate(t, svc, invited, "owner")

	mustCreate(t, svc, baseInput("unrelated", base.Add(24*time.Hour)), "bob")

	events, err := svc.ListInvolved(ctx, "alice")
	if err != nil {
		t.Fatalf("ListInvolved failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Sorted ascending by start time: participating (day 1) before owned (day 3).
	if events[0].ID != participating.ID || events[1].ID != owned.ID {
		t.Errorf("unexpected order: %s, %s", events[0].Title, events[1].Title)
	}
}

func TestListInvolved_UnknownUser(t *testing.T) {
	_, svc := fixture(t)

	if _, err := svc.ListInvolved(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListInvolvedInRange(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	mustCreate(t, svc, baseInput("early", base), "owner")
	inRange := mustCreate(t, svc, baseInput("inside", base.Add(24*time.Hour)), "owner")
	mustCreate(t, svc, baseInput("late", base.Add(96*time.Hour)), "owner")

	events, err := svc.ListInvolvedInRange(ctx, "owner", base.Add(12*time.Hour), base.Add(48*time.Hour))
	if err != nil {
		t.Fatalf("ListInvolvedInRange failed: %v", err)
	}

	if len(events) != 1 || events[0].ID != inRange.ID {
		t.Fatalf("expected only the inside event, got %d events", len(events))
	}
}

func TestListInvolvedInRange_InvertedRangeYieldsEmpty(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	mustCreate(t, svc, baseInput("anything", base), "owner")

	// No validation of start <= end; an inverted range is just empty.
	events, err := svc.ListInvolvedInRange(ctx, "owner", base.Add(48*time.Hour), base)
	if err != nil {
		t.Fatalf("ListInvolvedInRange failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty result for inverted range, got %d events", len(events))
	}
}

func TestCreate_UnknownParticipantsSilentlyDropped(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	input := baseInput("launch", time.Now())
	input.ParticipantIDs = []string{"alice", "no-such-user"}

	event := mustCreate(t, svc, input, "owner")

	if len(event.Participants) != 1 || event.Participants[0].ID != "alice" {
		t.Fatalf("expected participants={alice}, got %v", event.ParticipantIDs())
	}

	// The persisted copy agrees.
	stored, err := svc.Get(ctx, event.ID, "owner")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(stored.Participants) != 1 || stored.Participants[0].ID != "alice" {
		t.Errorf("expected stored participants={alice}, got %v", stored.ParticipantIDs())
	}
}

func TestCreate_EndBeforeStartAccepted(t *testing.T) {
	_, svc := fixture(t)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	input := EventInput{
		Title:     "time travel",
		StartTime: start,
		EndTime:   start.Add(-time.Hour),
		EventType: model.EventTypeMeeting,
		Status:    model.EventStatusScheduled,
	}

	// No chronological validation exists; this must be accepted as-is.
	event := mustCreate(t, svc, input, "owner")
	if !event.EndTime.Before(event.StartTime) {
		t.Error("expected the inverted times to be stored unchanged")
	}
}

func TestCreate_UnknownOwner(t *testing.T) {
	_, svc := fixture(t)

	_, err := svc.Create(context.Background(), baseInput("x", time.Now()), "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdate_NonOwnerForbiddenAndNothingMutated(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	input := baseInput("original title", time.Now())
	input.ParticipantIDs = []string{"alice"}
	event := mustCreate(t, svc, input, "owner")

	hostile := baseInput("hijacked", time.Now())
	hostile.ParticipantIDs = []string{}

	if _, err := svc.Update(ctx, event.ID, hostile, "alice"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	stored, err := svc.Get(ctx, event.ID, "owner")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Title != "original title" {
		t.Errorf("title mutated by forbidden update: %q", stored.Title)
	}
	if len(stored.Participants) != 1 {
		t.Errorf("participants mutated by forbidden update: %v", stored.ParticipantIDs())
	}
}

func TestUpdate_NilParticipantIDsPreservesSet(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	input := baseInput("planning", time.Now())
	input.ParticipantIDs = []string{"alice", "bob"}
	event := mustCreate(t, svc, input, "owner")

	// nil ParticipantIDs = "don't touch participants".
	update := baseInput("planning v2", time.Now())
	updated, err := svc.Update(ctx, event.ID, update, "owner")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Title != "planning v2" {
		t.Errorf("expected title replaced, got %q", updated.Title)
	}
	if len(updated.Participants) != 2 {
		t.Errorf("expected participants preserved, got %v", updated.ParticipantIDs())
	}

	stored, _ := svc.Get(ctx, event.ID, "owner")
	if len(stored.Participants) != 2 {
		t.Errorf("expected stored participants preserved, got %v", stored.ParticipantIDs())
	}
}

func TestUpdate_EmptyParticipantIDsClearsSet(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	input := baseInput("planning", time.Now())
	input.ParticipantIDs = []string{"alice", "bob"}
	event := mustCreate(t, svc, input, "owner")

	// Empty (non-nil) ParticipantIDs = "remove all participants".
	update := baseInput("planning", time.Now())
	update.ParticipantIDs = []string{}

	updated, err := svc.Update(ctx, event.ID, update, "owner")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(updated.Participants) != 0 {
		t.Errorf("expected participants cleared, got %v", updated.ParticipantIDs())
	}

	stored, _ := svc.Get(ctx, event.ID, "owner")
	if len(stored.Participants) != 0 {
		t.Errorf("expected stored participants cleared, got %v", stored.ParticipantIDs())
	}
}

func TestUpdate_ReplacesParticipantSetAndDropsUnknown(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	input := baseInput("planning", time.Now())
	input.ParticipantIDs = []string{"alice"}
	event := mustCreate(t, svc, input, "owner")

	update := baseInput("planning", time.Now())
	update.ParticipantIDs = []string{"bob", "carol", "no-such-user"}

	updated, err := svc.Update(ctx, event.ID, update, "owner")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	ids := updated.ParticipantIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 participants, got %v", ids)
	}
	if updated.HasParticipant("alice") {
		t.Error("expected alice replaced out of the set")
	}
	if !updated.HasParticipant("bob") || !updated.HasParticipant("carol") {
		t.Errorf("expected bob and carol, got %v", ids)
	}
}

func TestUpdate_MissingEvent(t *testing.T) {
	_, svc := fixture(t)

	_, err := svc.Update(context.Background(), "no-such-event", baseInput("x", time.Now()), "owner")
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestDelete_OwnerRemovesEvent(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	event := mustCreate(t, svc, baseInput("doomed", time.Now()), "owner")

	if err := svc.Delete(ctx, event.ID, "owner"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Nobody can read it afterwards, owner included.
	if _, err := svc.Get(ctx, event.ID, "owner"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound after delete, got %v", err)
	}
}

func TestDelete_NonOwnerForbidden(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	input := baseInput("protected", time.Now())
	input.ParticipantIDs = []string{"alice"}
	event := mustCreate(t, svc, input, "owner")

	if err := svc.Delete(ctx, event.ID, "alice"); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	if _, err := svc.Get(ctx, event.ID, "owner"); err != nil {
		t.Errorf("event should still exist after forbidden delete: %v", err)
	}
}

func TestAddParticipant_Idempotent(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	event := mustCreate(t, svc, baseInput("sync", time.Now()), "owner")

	first, err := svc.AddParticipant(ctx, event.ID, "alice", "owner")
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	second, err := svc.AddParticipant(ctx, event.ID, "alice", "owner")
	if err != nil {
		t.Fatalf("second AddParticipant failed: %v", err)
	}

	if len(first.Participants) != 1 || len(second.Participants) != 1 {
		t.Errorf("expected a single participant after both adds, got %d then %d",
			len(first.Participants), len(second.Participants))
	}

	stored, _ := svc.Get(ctx, event.ID, "owner")
	if len(stored.Participants) != 1 {
		t.Errorf("expected stored set of 1, got %v", stored.ParticipantIDs())
	}
}

func TestAddParticipant_NonOwnerForbidden(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	input := baseInput("sync", time.Now())
	input.ParticipantIDs = []string{"alice"}
	event := mustCreate(t, svc, input, "owner")

	if _, err := svc.AddParticipant(ctx, event.ID, "bob", "alice"); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestAddParticipant_UnknownUser(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	event := mustCreate(t, svc, baseInput("sync", time.Now()), "owner")

	if _, err := svc.AddParticipant(ctx, event.ID, "ghost", "owner"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRemoveParticipant_SelfRemovalAllowed(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	input := baseInput("retro", time.Now())
	input.ParticipantIDs = []string{"alice"}
	event := mustCreate(t, svc, input, "owner")

	// alice is not the owner but may remove herself.
	updated, err := svc.RemoveParticipant(ctx, event.ID, "alice", "alice")
	if err != nil {
		t.Fatalf("self-removal failed: %v", err)
	}
	if updated.HasParticipant("alice") {
		t.Error("expected alice removed from the set")
	}
}

func TestRemoveParticipant_ThirdPartyDenied(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	input := baseInput("retro", time.Now())
	input.ParticipantIDs = []string{"alice"}
	event := mustCreate(t, svc, input, "owner")

	if _, err := svc.RemoveParticipant(ctx, event.ID, "alice", "bob"); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("expected ErrAccessDenied, got %v", err)
	}
}

func TestRemoveParticipant_OwnerMayRemoveAnyone(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	input := baseInput("retro", time.Now())
	input.ParticipantIDs = []string{"alice"}
	event := mustCreate(t, svc, input, "owner")

	updated, err := svc.RemoveParticipant(ctx, event.ID, "alice", "owner")
	if err != nil {
		t.Fatalf("owner removal failed: %v", err)
	}
	if updated.HasParticipant("alice") {
		t.Error("expected alice removed from the set")
	}
}

func TestRemoveParticipant_AbsentIsNoop(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	event := mustCreate(t, svc, baseInput("retro", time.Now()), "owner")

	// bob exists but is not a participant; removal is an idempotent no-op.
	if _, err := svc.RemoveParticipant(ctx, event.ID, "bob", "owner"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestSearch_ScopedAndCaseSensitive(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	mustCreate(t, svc, baseInput("Quarterly Review", time.Now()), "owner")
	mustCreate(t, svc, baseInput("quarterly sync", time.Now()), "owner")
	mustCreate(t, svc, baseInput("Quarterly Offsite", time.Now()), "bob")

	events, err := svc.Search(ctx, "owner", "Quarterly")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	// Case-sensitive substring match, scoped to involvement: bob's event and
	// the lowercase title are both excluded.
	if len(events) != 1 || events[0].Title != "Quarterly Review" {
		t.Fatalf("expected only 'Quarterly Review', got %d events", len(events))
	}
}

func TestListByStatusAndType_ConjunctiveWithInvolvement(t *testing.T) {
	_, svc := fixture(t)
	ctx := context.Background()

	cancelled := baseInput("cancelled one", time.Now())
	cancelled.Status = model.EventStatusCancelled
	mustCreate(t, svc, cancelled, "owner")

	mustCreate(t, svc, baseInput("scheduled one", time.Now()), "owner")

	foreign := baseInput("foreign cancelled", time.Now())
	foreign.Status = model.EventStatusCancelled
	mustCreate(t, svc, foreign, "bob")

	byStatus, err := svc.ListByStatus(ctx, "owner", model.EventStatusCancelled)
	if err != nil {
		t.Fatalf("ListByStatus failed: %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].Title != "cancelled one" {
		t.Fatalf("expected only own cancelled event, got %d", len(byStatus))
	}

	work := baseInput("work thing", time.Now())
	work.EventType = model.EventTypeWork
	mustCreate(t, svc, work, "owner")

	byType, err := svc.ListByType(ctx, "owner", model.EventTypeWork)
	if err != nil {
		t.Fatalf("ListByType failed: %v", err)
	}
	if len(byType) != 1 || byType[0].Title != "work thing" {
		t.Fatalf("expected only the work event, got %d", len(byType))
	}
}
