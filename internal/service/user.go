package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/calshare/calshare/internal/auth"
	"github.com/calshare/calshare/internal/metrics"
	"github.com/calshare/calshare/internal/model"
	"github.com/calshare/calshare/internal/repository"
)

// User service errors.
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// IdentityStore resolves and persists user records.
type IdentityStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	SearchUsers(ctx context.Context, term string) ([]*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// UserService handles registration, authentication, and user lookups.
type UserService struct {
	users   IdentityStore
	metrics metrics.Recorder
}

// NewUserService creates a new UserService.
func NewUserService(users IdentityStore, recorder metrics.Recorder) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &UserService{
		users:   users,
		metrics: recorder,
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new account with an Argon2id password hash.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserRegistered()
	return user, nil
}

// Authenticate verifies a username/password pair and returns the user.
// All failures map to ErrInvalidCredentials to prevent account enumeration.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncSignin("failure")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncSignin("failure")
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncSignin("success")
	return user, nil
}

// Get resolves a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.users.ListUsers(ctx)
}

// Search finds users matching the term as a case-sensitive substring of
// username, email, first name, or last name.
func (s *UserService) Search(ctx context.Context, term string) ([]*model.User, error) {
	return s.users.SearchUsers(ctx, term)
}
