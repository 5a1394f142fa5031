package service

import "errors"

// Common service-level errors
var (
	// ErrNotTaskCreator indicates an attempt to delete a task by someone
	// other than its creator. Deletion is the only creator-restricted
	// operation; updates are deliberately open to any authenticated user.
	ErrNotTaskCreator = errors.New("you are not authorized to delete this task")

	// ErrAssigneeNotFound indicates an assignment referencing a user that
	// does not exist. Assignment integrity is checked at write time rather
	// than relying on store-level cascades.
	ErrAssigneeNotFound = errors.New("assigned user not found")
)
