// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Event types published when a collection changes.
const (
	EventUserCreated  = "user.created"
	EventMovieAdded   = "movie.added"
	EventMovieUpdated = "movie.updated"
	EventMovieDeleted = "movie.deleted"
)

// ActivityQueueName is the durable RabbitMQ queue carrying CollectionEvents.
const ActivityQueueName = "collection.activity"

// CollectionEvent is published after a user or movie mutation commits.  It
// carries enough for downstream consumers to log or notify without querying
// the primary database.
type CollectionEvent struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username,omitempty"`
	MovieID    uint64 `json:"movie_id,omitempty"`
	MovieTitle string `json:"movie_title,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewCollectionEvent stamps a fresh id and the current UTC time.
func NewCollectionEvent(typ string, userID uint64) CollectionEvent {
	return CollectionEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		UserID:     userID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
