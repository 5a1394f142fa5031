// Package client implements the sync layer a connected client runs: a
// websocket connection that issues acknowledged task commands and keeps
// local task/notification caches live from broadcast events.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kavitasoren02/TaskManager/internal/api"
	"github.com/kavitasoren02/TaskManager/internal/domain"
	"github.com/kavitasoren02/TaskManager/internal/events"
	"github.com/kavitasoren02/TaskManager/internal/realtime"
)

// ErrClosed is returned by commands issued after the connection dropped.
var ErrClosed = errors.New("connection closed")

// CommandError is a server-rejected command, carrying the message from
// the failure ack.
type CommandError struct {
	Message string
}

func (e *CommandError) Error() string {
	return e.Message
}

// Client is one authenticated realtime connection plus the caches it
// keeps live. Create it with Dial, then issue commands; broadcast events
// are applied to Tasks and Notifications as they arrive.
type Client struct {
	conn   *websocket.Conn
	logger *slog.Logger

	// Tasks is the live task cache.
	Tasks *TaskCache

	// Notifications is the live notification view.
	Notifications *NotificationView

	nextID  atomic.Uint64
	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan realtime.Ack
	closed  bool
	done    chan struct{}
}

// Dial connects to the websocket endpoint, authenticating with the
// session token issued at login. The token travels in the same cookie
// the HTTP layer uses.
func Dial(ctx context.Context, wsURL, token string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	header := http.Header{}
	header.Set("Cookie", "token="+token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("websocket handshake rejected: %w", err)
		}
		return nil, fmt.Errorf("websocket dial: %w", err)
	}

	c := &Client{
		conn:          conn,
		logger:        logger.With(slog.String("component", "sync_client")),
		Tasks:         NewTaskCache(),
		Notifications: NewNotificationView(),
		pending:       make(map[string]chan realtime.Ack),
		done:          make(chan struct{}),
	}

	go c.readLoop()
	return c, nil
}

// Close tears the connection down. Pending commands fail with ErrClosed.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Done is closed when the read loop exits.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// CreateTask issues a task:create command and waits for its ack.
func (c *Client) CreateTask(ctx context.Context, req api.CreateTaskRequest) (*domain.Task, error) {
	return c.taskCommand(ctx, realtime.CmdTaskCreate, req)
}

// UpdateTask issues a task:update command and waits for its ack.
func (c *Client) UpdateTask(ctx context.Context, taskID uuid.UUID, updates api.UpdateTaskRequest) (*domain.Task, error) {
	return c.taskCommand(ctx, realtime.CmdTaskUpdate, realtime.UpdateTaskPayload{
		TaskID:  taskID,
		Updates: updates,
	})
}

// DeleteTask issues a task:delete command and waits for its ack.
func (c *Client) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	_, err := c.taskCommand(ctx, realtime.CmdTaskDelete, realtime.DeleteTaskPayload{TaskID: taskID})
	return err
}

// taskCommand sends one command frame and blocks until the matching ack
// arrives, the context expires, or the connection drops.
func (c *Client) taskCommand(ctx context.Context, event string, payload any) (*domain.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal command payload: %w", err)
	}

	id := strconv.FormatUint(c.nextID.Add(1), 10)
	ackCh := make(chan realtime.Ack, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.pending[id] = ackCh
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	frame, err := json.Marshal(realtime.Command{ID: id, Event: event, Data: data})
	if err != nil {
		return nil, fmt.Errorf("marshal command: %w", err)
	}

	c.writeMu.Lock()
	err = c.conn.WriteMessage(websocket.TextMessage, frame)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("send command: %w", err)
	}

	select {
	case ack := <-ackCh:
		if !ack.Success {
			return nil, &CommandError{Message: ack.Error}
		}
		return ack.Task, nil
	case <-c.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// readLoop demultiplexes inbound frames: acks resolve their pending
// command, pushes patch the caches.
func (c *Client) readLoop() {
	defer func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var envelope struct {
			Event string          `json:"event"`
			ID    string          `json:"id"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			c.logger.Warn("discarding malformed frame", slog.String("error", err.Error()))
			continue
		}

		if envelope.Event == realtime.AckEvent {
			var ack realtime.Ack
			if err := json.Unmarshal(raw, &ack); err != nil {
				c.logger.Warn("discarding malformed ack", slog.String("error", err.Error()))
				continue
			}
			c.resolveAck(ack)
			continue
		}

		c.applyPush(envelope.Event, envelope.Data)
	}
}

func (c *Client) resolveAck(ack realtime.Ack) {
	c.mu.Lock()
	ch, ok := c.pending[ack.ID]
	c.mu.Unlock()
	if !ok {
		c.logger.Debug("ack without pending command", slog.String("id", ack.ID))
		return
	}
	ch <- ack
}

// applyPush patches the caches from one broadcast event.
func (c *Client) applyPush(event string, data json.RawMessage) {
	switch event {
	case events.TaskCreated:
		var task domain.Task
		if err := json.Unmarshal(data, &task); err != nil {
			c.logger.Warn("malformed task:created payload", slog.String("error", err.Error()))
			return
		}
		c.Tasks.ApplyCreated(&task)

	case events.TaskUpdated:
		var task domain.Task
		if err := json.Unmarshal(data, &task); err != nil {
			c.logger.Warn("malformed task:updated payload", slog.String("error", err.Error()))
			return
		}
		c.Tasks.ApplyUpdated(&task)

	case events.TaskDeleted:
		var id uuid.UUID
		if err := json.Unmarshal(data, &id); err != nil {
			c.logger.Warn("malformed task:deleted payload", slog.String("error", err.Error()))
			return
		}
		c.Tasks.ApplyDeleted(id)

	case events.NotificationNew:
		c.Notifications.Invalidate()

	default:
		c.logger.Debug("ignoring unknown event", slog.String("event", event))
	}
}
