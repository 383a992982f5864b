// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the audit consumer.
package queue

import "time"

// Event types.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// EntityEvent is published after a create, update or delete commits.  It
// identifies the record only; consumers that need the data read it back
// through the API.
type EntityEvent struct {
	Type       string `json:"type"`               // created, updated or deleted
	Resource   string `json:"resource"`           // movies, actors, directors or movie_actors
	ID         uint64 `json:"id"`                 // primary key of the affected record
	Cascaded   int64  `json:"cascaded,omitempty"` // castings removed along with a deleted movie or actor
	OccurredAt string `json:"occurred_at"`        // RFC3339, UTC
}

// NewEntityEvent stamps an event with the current time.
func NewEntityEvent(typ, resource string, id uint64) EntityEvent {
	return EntityEvent{
		Type:       typ,
		Resource:   resource,
		ID:         id,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
