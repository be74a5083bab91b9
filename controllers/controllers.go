// Package controllers holds the HTTP handlers. Each controller receives the
// shared database handle (and the services it needs) at construction.
package controllers

// ActivityRecorder is the fire-and-forget activity log sink.
type ActivityRecorder interface {
	Record(userName, action, entityType, entityID, details string)
}
