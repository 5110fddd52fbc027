package entity

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// User is an account holder. Statements reference users only by ID.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterUserRequest is the input for creating a user
type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims whitespace and lower-cases the email
func (r *RegisterUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Validate checks that all fields are present and the email parses
func (r *RegisterUserRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: missing required field: name", ErrInvalidUser)
	}
	if r.Email == "" {
		return fmt.Errorf("%w: missing required field: email", ErrInvalidUser)
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("%w: malformed email", ErrInvalidUser)
	}
	if r.Password == "" {
		return fmt.Errorf("%w: missing required field: password", ErrInvalidUser)
	}
	return nil
}
