// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"passport/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned by Create when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// Create persists a new user. The check for an existing email and the
	// insert happen as one atomic step: if the email is already present the
	// store is left untouched and ErrDuplicateEmail is returned. On success
	// the store assigns ID and CreatedAt.
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves a single user by their normalized email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// List returns all users in insertion order. Diagnostic use only.
	List(ctx context.Context) ([]*entity.User, error)
}
