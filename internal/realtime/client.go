package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kavitasoren02/TaskManager/internal/api"
	"github.com/kavitasoren02/TaskManager/internal/service"
)

const (
	// writeWait is the allowed time for one write to the peer.
	writeWait = 10 * time.Second

	// pongWait is how long the peer has to answer a ping.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound command frames.
	maxMessageSize = 64 * 1024

	// sendBufferSize bounds each connection's outbound queue. A client
	// that falls this far behind is dropped.
	sendBufferSize = 256
)

// Client is one joined websocket connection. Commands are read and
// acknowledged strictly in submission order by a single read loop; the
// write loop drains the send channel, which carries both acks and
// hub broadcasts.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	userID      uuid.UUID
	send        chan []byte
	taskService *service.TaskService
	logger      *slog.Logger
}

func newClient(
	hub *Hub,
	conn *websocket.Conn,
	userID uuid.UUID,
	taskService *service.TaskService,
	logger *slog.Logger,
) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		userID:      userID,
		send:        make(chan []byte, sendBufferSize),
		taskService: taskService,
		logger: logger.With(
			slog.String("component", "realtime_client"),
			slog.String("user_id", userID.String())),
	}
}

// readPump reads commands from the connection until it drops, handling
// them one at a time. On return the client leaves the hub; a command
// that mutated the store before the drop still commits, only its ack
// is lost.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("unexpected close", slog.String("error", err.Error()))
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			c.enqueueAck(errorAck("", "Invalid command format"))
			continue
		}

		c.handleCommand(ctx, cmd)
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings. One writer per connection; nothing else writes to the socket.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleCommand validates and executes a single command, sends its ack,
// and hands any produced events to the hub. The ack is enqueued before
// the events so the issuing connection sees its reply first.
func (c *Client) handleCommand(ctx context.Context, cmd Command) {
	switch cmd.Event {
	case CmdTaskCreate:
		c.handleTaskCreate(ctx, cmd)
	case CmdTaskUpdate:
		c.handleTaskUpdate(ctx, cmd)
	case CmdTaskDelete:
		c.handleTaskDelete(ctx, cmd)
	default:
		c.logger.Debug("unknown command", slog.String("event", cmd.Event))
		c.enqueueAck(errorAck(cmd.ID, "Unknown command: "+cmd.Event))
	}
}

func (c *Client) handleTaskCreate(ctx context.Context, cmd Command) {
	var req api.CreateTaskRequest
	if err := json.Unmarshal(cmd.Data, &req); err != nil {
		c.enqueueAck(errorAck(cmd.ID, "Invalid command payload"))
		return
	}
	if err := validateCommandPayload(req); err != nil {
		c.enqueueAck(errorAck(cmd.ID, err.Error()))
		return
	}

	task, evts, err := c.taskService.CreateTask(ctx, c.userID, service.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		Priority:     req.Priority,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		c.enqueueAck(errorAck(cmd.ID, api.GetSafeErrorMessage(err)))
		return
	}

	c.enqueueAck(successAck(cmd.ID, task))
	c.hub.Dispatch(ctx, evts)
}

func (c *Client) handleTaskUpdate(ctx context.Context, cmd Command) {
	var payload UpdateTaskPayload
	if err := json.Unmarshal(cmd.Data, &payload); err != nil {
		c.enqueueAck(errorAck(cmd.ID, "Invalid command payload"))
		return
	}
	if payload.TaskID == uuid.Nil {
		c.enqueueAck(errorAck(cmd.ID, "Invalid task_id: required field"))
		return
	}
	if err := validateCommandPayload(payload.Updates); err != nil {
		c.enqueueAck(errorAck(cmd.ID, err.Error()))
		return
	}

	task, evts, err := c.taskService.UpdateTask(ctx, payload.TaskID, c.userID, service.UpdateTaskInput{
		Title:        payload.Updates.Title,
		Description:  payload.Updates.Description,
		DueDate:      payload.Updates.DueDate,
		Priority:     payload.Updates.Priority,
		Status:       payload.Updates.Status,
		AssignedToID: payload.Updates.AssignedToID,
	})
	if err != nil {
		c.enqueueAck(errorAck(cmd.ID, api.GetSafeErrorMessage(err)))
		return
	}

	c.enqueueAck(successAck(cmd.ID, task))
	c.hub.Dispatch(ctx, evts)
}

func (c *Client) handleTaskDelete(ctx context.Context, cmd Command) {
	var payload DeleteTaskPayload
	if err := json.Unmarshal(cmd.Data, &payload); err != nil {
		c.enqueueAck(errorAck(cmd.ID, "Invalid command payload"))
		return
	}
	if payload.TaskID == uuid.Nil {
		c.enqueueAck(errorAck(cmd.ID, "Invalid task_id: required field"))
		return
	}

	evts, err := c.taskService.DeleteTask(ctx, payload.TaskID, c.userID)
	if err != nil {
		c.enqueueAck(errorAck(cmd.ID, api.GetSafeErrorMessage(err)))
		return
	}

	c.enqueueAck(successAck(cmd.ID, nil))
	c.hub.Dispatch(ctx, evts)
}

// enqueueAck queues an acknowledgment on the connection's send channel.
// If the client has already been removed from the hub the channel may be
// closed; the frame is then discarded with the connection.
func (c *Client) enqueueAck(ack Ack) {
	frame, err := json.Marshal(ack)
	if err != nil {
		c.logger.Error("failed to marshal ack", slog.String("error", err.Error()))
		return
	}

	defer func() {
		if recover() != nil {
			c.logger.Debug("ack dropped, connection already closed")
		}
	}()
	select {
	case c.send <- frame:
	default:
		c.logger.Warn("ack dropped, send buffer full")
	}
}
