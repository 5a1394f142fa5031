// Package testutils provides in-memory implementations of the store
// interfaces for exercising services, handlers, and the realtime layer
// without a database.
package testutils
