// Package handler exposes the HTML endpoints of the movie collection.
// Handlers validate form input, call the metadata resolver and the
// repositories, then redirect with a one-shot flash message.  Storage and
// unexpected errors are logged and turned into generic messages; they never
// reach the client verbatim.
package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/movie-collection/internal/config"
	"github.com/iliyamo/movie-collection/internal/metadata"
	q "github.com/iliyamo/movie-collection/internal/queue"
	"github.com/iliyamo/movie-collection/internal/repository"
	"github.com/iliyamo/movie-collection/internal/service"
)

const (
	requestTimeout = 5 * time.Second
	publishTimeout = 3 * time.Second
)

// CollectionHandler bundles the dependencies of the user and movie pages.
type CollectionHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Movies   *repository.MovieRepo
	Resolver *metadata.Resolver
	Events   service.Publisher
	Logger   zerolog.Logger
}

// NewCollectionHandler constructs a CollectionHandler and panics if a
// required dependency is nil.  A nil publisher discards events.
func NewCollectionHandler(cfg config.Config, users *repository.UserRepo, movies *repository.MovieRepo, resolver *metadata.Resolver, events service.Publisher) *CollectionHandler {
	if users == nil || movies == nil || resolver == nil {
		panic("nil dependency passed to NewCollectionHandler")
	}
	if events == nil {
		events = service.NopPublisher{}
	}
	return &CollectionHandler{
		Cfg:      cfg,
		Users:    users,
		Movies:   movies,
		Resolver: resolver,
		Events:   events,
		Logger:   log.With().Str("component", "handler").Logger(),
	}
}

// publish sends ev and only logs failures; the mutation has already
// committed.
func (h *CollectionHandler) publish(c echo.Context, ev q.CollectionEvent) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), publishTimeout)
	defer cancel()
	if err := h.Events.Publish(ctx, ev); err != nil {
		h.Logger.Warn().Err(err).Str("event", ev.Type).Msg("publish collection event failed")
	}
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func userPath(id uint64) string {
	return "/users/" + strconv.FormatUint(id, 10)
}
