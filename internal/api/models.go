package api

import (
	"github.com/google/uuid"

	"github.com/kavitasoren02/TaskManager/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UpdateProfileRequest defines the payload for the profile update
// endpoint. The name is the only mutable profile field.
type UpdateProfileRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

// AuthResponse defines the successful response for authentication
// endpoints. The token also travels in an httpOnly cookie; it is
// included in the body for non-browser clients.
type AuthResponse struct {
	Message string          `json:"message"`
	User    *domain.UserRef `json:"user"`
	Token   string          `json:"token"`
}

// CreateTaskRequest defines the payload for the task creation endpoint.
type CreateTaskRequest struct {
	Title        string              `json:"title"          validate:"required,max=100"`
	Description  string              `json:"description"    validate:"required"`
	DueDate      string              `json:"due_date"       validate:"required"`
	Priority     domain.TaskPriority `json:"priority"       validate:"required,oneof=Low Medium High Urgent"`
	AssignedToID *uuid.UUID          `json:"assigned_to_id" validate:"omitempty"`
}

// UpdateTaskRequest defines the payload for the task update endpoint.
// All fields are optional; present fields overwrite, absent or null
// fields leave the stored value untouched.
type UpdateTaskRequest struct {
	Title        *string              `json:"title"          validate:"omitempty,max=100"`
	Description  *string              `json:"description"    validate:"omitempty"`
	DueDate      *string              `json:"due_date"       validate:"omitempty"`
	Priority     *domain.TaskPriority `json:"priority"       validate:"omitempty,oneof=Low Medium High Urgent"`
	Status       *domain.TaskStatus   `json:"status"         validate:"omitempty,oneof='To Do' 'In Progress' Review Completed"`
	AssignedToID *uuid.UUID           `json:"assigned_to_id" validate:"omitempty"`
}

// TaskResponse wraps a single task with a human-readable message.
type TaskResponse struct {
	Message string       `json:"message"`
	Task    *domain.Task `json:"task"`
}

// TaskListResponse wraps a task listing.
type TaskListResponse struct {
	Tasks []*domain.Task `json:"tasks"`
}

// UserListResponse wraps the assignee directory listing.
type UserListResponse struct {
	Users []*domain.UserRef `json:"users"`
}

// ProfileResponse wraps the authenticated user's profile.
type ProfileResponse struct {
	User *domain.UserRef `json:"user"`
}

// NotificationResponse wraps a single notification.
type NotificationResponse struct {
	Notification *domain.Notification `json:"notification"`
}

// NotificationListResponse wraps a notification listing.
type NotificationListResponse struct {
	Notifications []*domain.Notification `json:"notifications"`
}

// UnreadCountResponse carries the unread notification count.
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// MessageResponse carries a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}
