// Package realtime implements the websocket layer: an authenticated
// bidirectional channel carrying task commands with per-command
// acknowledgments, global task broadcasts, and per-user notification
// delivery. The hub owns the connection registry and implements
// events.Sink, so service-produced events reach connected clients no
// matter which transport triggered them.
package realtime
