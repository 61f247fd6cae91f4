package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/calshare/calshare/internal/model"
)

// Account field limits.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

// Auth validation errors.
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameLength   = errors.New("username must be between 3 and 50 characters")
	ErrEmailRequired    = errors.New("email is required")
	ErrEmailInvalid     = errors.New("email is invalid")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordLength   = errors.New("password must be between 6 and 128 characters")
)

// SignupRequest is the request body for creating an account.
type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Validate checks boundary constraints on the signup request.
func (r *SignupRequest) Validate() error {
	username := strings.TrimSpace(r.Username)
	if username == "" {
		return ErrUsernameRequired
	}
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return ErrUsernameLength
	}
	email := strings.TrimSpace(r.Email)
	if email == "" {
		return ErrEmailRequired
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ErrEmailInvalid
	}
	if r.Password == "" {
		return ErrPasswordRequired
	}
	if len(r.Password) < MinPasswordLength || len(r.Password) > MaxPasswordLength {
		return ErrPasswordLength
	}
	return nil
}

// SigninRequest is the request body for authenticating.
type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned on successful signin.
type TokenResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	User      UserResponse `json:"user"`
}

// UserResponse represents a user in API responses. The password hash is never
// exposed.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserListResponse converts a slice of users to response DTOs.
func ToUserListResponse(users []*model.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = *ToUserResponse(user)
	}
	return responses
}
