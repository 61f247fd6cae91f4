// Command seed-user creates an account directly in the database.
// Useful for bootstrapping a local environment without going through the API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calshare/calshare/internal/auth"
	"github.com/calshare/calshare/internal/model"
	"github.com/calshare/calshare/internal/repository"
)

type output struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		username    = flag.String("username", "", "username for the new account")
		email       = flag.String("email", "", "email for the new account")
		password    = flag.String("password", "", "password for the new account")
		firstName   = flag.String("first-name", "", "optional first name")
		lastName    = flag.String("last-name", "", "optional last name")
	)
	flag.Parse()

	if strings.TrimSpace(*databaseURL) == "" {
		fatal("database-url is required (or set DATABASE_URL)")
	}
	if strings.TrimSpace(*username) == "" || strings.TrimSpace(*email) == "" || *password == "" {
		fatal("username, email, and password are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fatal(fmt.Sprintf("connect to database: %v", err))
	}
	defer repo.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fatal(fmt.Sprintf("hash password: %v", err))
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     strings.TrimSpace(*username),
		Email:        strings.TrimSpace(*email),
		FirstName:    strings.TrimSpace(*firstName),
		LastName:     strings.TrimSpace(*lastName),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		fatal(fmt.Sprintf("create user: %v", err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(output{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "error: "+msg)
	os.Exit(1)
}
