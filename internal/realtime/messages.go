package realtime

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/kavitasoren02/TaskManager/internal/api"
	"github.com/kavitasoren02/TaskManager/internal/api/shared"
	"github.com/kavitasoren02/TaskManager/internal/domain"
)

// Command event names accepted from clients.
const (
	CmdTaskCreate = "task:create"
	CmdTaskUpdate = "task:update"
	CmdTaskDelete = "task:delete"
)

// AckEvent is the event name of every acknowledgment frame.
const AckEvent = "ack"

// Command is a client-to-server frame. ID correlates the acknowledgment
// with the command; clients choose it and the server echoes it back.
type Command struct {
	ID    string          `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Ack is the server's direct reply to a single command. Exactly one Ack
// is sent per command, in submission order.
type Ack struct {
	ID      string       `json:"id"`
	Event   string       `json:"event"`
	Success bool         `json:"success"`
	Task    *domain.Task `json:"task,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// Push is a server-to-client broadcast frame.
type Push struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// UpdateTaskPayload is the task:update command payload. Updates uses the
// same schema as the HTTP update body.
type UpdateTaskPayload struct {
	TaskID  uuid.UUID             `json:"task_id"`
	Updates api.UpdateTaskRequest `json:"updates"`
}

// DeleteTaskPayload is the task:delete command payload.
type DeleteTaskPayload struct {
	TaskID uuid.UUID `json:"task_id"`
}

func successAck(id string, task *domain.Task) Ack {
	return Ack{ID: id, Event: AckEvent, Success: true, Task: task}
}

func errorAck(id, message string) Ack {
	return Ack{ID: id, Event: AckEvent, Success: false, Error: message}
}

// validateCommandPayload runs the shared request validation and converts
// failures into the sanitized message clients see in the ack envelope.
func validateCommandPayload(v interface{}) error {
	if err := shared.ValidateRequest(v); err != nil {
		return errors.New(api.SanitizeValidationError(err))
	}
	return nil
}
