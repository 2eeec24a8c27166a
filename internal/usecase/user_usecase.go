// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"passport/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// --- Output DTOs ---

// UserRecord is the redacted view of a stored user. It never carries the
// password hash.
type UserRecord struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	// Register validates the candidate, hashes the password and stores the
	// user. Success is the absence of an error.
	Register(ctx context.Context, input *RegisterInput) (*entity.User, error)

	// Login validates presence of credentials and checks the password
	// against the stored hash.
	Login(ctx context.Context, input *LoginInput) error

	// ListUsers returns redacted records for every stored user, in
	// insertion order. Diagnostic use only.
	ListUsers(ctx context.Context) ([]*UserRecord, error)
}
