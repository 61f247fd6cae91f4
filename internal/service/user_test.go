package service

import (
	"context"
	"errors"
	"testing"

	"github.com/calshare/calshare/internal/metrics"
)

func userFixture(t *testing.T) (*fakeStore, *UserService) {
	t.Helper()
	store := newFakeStore()
	return store, NewUserService(store, metrics.NewInMemory())
}

func TestRegister_HashesPasswordAndAssignsID(t *testing.T) {
	_, svc := userFixture(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "dana",
		Email:    "dana@example.com",
		Password: "s3cret-passphrase",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.ID == "" {
		t.Error("expected a generated user id")
	}
	if user.PasswordHash == "" || user.PasswordHash == "s3cret-passphrase" {
		t.Error("expected the password to be stored as a hash")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	_, svc := userFixture(t)
	ctx := context.Background()

	input := RegisterInput{Username: "dana", Email: "dana@example.com", Password: "pw-one"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	input.Email = "other@example.com"
	if _, err := svc.Register(ctx, input); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, svc := userFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "dana", Email: "dana@example.com", Password: "pw"}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err := svc.Register(ctx, RegisterInput{Username: "dee", Email: "dana@example.com", Password: "pw"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticate_Success(t *testing.T) {
	_, svc := userFixture(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{
		Username: "dana",
		Email:    "dana@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := svc.Authenticate(ctx, "dana", "correct horse battery")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("expected user %s, got %s", registered.ID, user.ID)
	}
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	_, svc := userFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "dana", Email: "dana@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Wrong password and unknown user return the same error.
	if _, err := svc.Authenticate(ctx, "dana", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserGet_NotFound(t *testing.T) {
	_, svc := userFixture(t)

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserSearch(t *testing.T) {
	store, svc := userFixture(t)
	store.addUser("u1", "alice")
	store.addUser("u2", "alicia")
	store.addUser("u3", "bob")

	users, err := svc.Search(context.Background(), "alic")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(users))
	}
	if users[0].Username != "alice" || users[1].Username != "alicia" {
		t.Errorf("expected alphabetical order, got %s, %s", users[0].Username, users[1].Username)
	}
}
