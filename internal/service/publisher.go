// Package service provides publishers that announce collection changes to a
// message broker.  Publishing is best effort: errors are logged and returned
// so callers can ignore them without interrupting the request flow.
package service

import (
	"context"

	q "github.com/iliyamo/movie-collection/internal/queue"
)

// Publisher delivers CollectionEvents to a broker.
type Publisher interface {
	Publish(ctx context.Context, ev q.CollectionEvent) error
	Close() error
}

// NopPublisher discards events.  It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, q.CollectionEvent) error { return nil }
func (NopPublisher) Close() error                                  { return nil }
