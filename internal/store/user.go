package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kavitasoren02/TaskManager/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry
	// a hashed password; plaintext passwords are never persisted.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// The lookup is case-insensitive; emails are stored lowercased.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdateName changes the user's display name, the only mutable
	// profile field. Returns ErrUserNotFound if the user does not exist.
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error)

	// List returns all users ordered by name, for assignee selection.
	List(ctx context.Context) ([]*domain.User, error)
}
