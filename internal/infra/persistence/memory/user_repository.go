// Package memory provides an in-process implementation of the persistence
// contracts. Nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"passport/internal/domain/entity"
	"passport/internal/domain/repository"
)

// userRepository keeps users in insertion order plus an email index. A single
// mutex guards both, making the existence check and the insert one atomic
// step: concurrent registrations for the same email cannot both pass.
type userRepository struct {
	mu      sync.Mutex
	users   []*entity.User
	byEmail map[string]*entity.User
	nextID  int64
}

// NewUserRepository is the constructor for the in-memory user store.
func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byEmail: make(map[string]*entity.User),
		nextID:  1,
	}
}

// Create inserts the user if the email is not yet registered. ID and
// CreatedAt are assigned under the same lock, so ids are unique and
// monotonic in creation order.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}

	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()

	stored := *user
	r.users = append(r.users, &stored)
	r.byEmail[stored.Email] = &stored

	return nil
}

// FindByEmail retrieves a user by normalized email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	found := *user

	return &found, nil
}

// List returns copies of all users in insertion order.
func (r *userRepository) List(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]*entity.User, 0, len(r.users))
	for _, user := range r.users {
		copied := *user
		users = append(users, &copied)
	}

	return users, nil
}
