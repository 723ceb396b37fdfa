package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-collection/internal/metadata"
	"github.com/iliyamo/movie-collection/internal/model"
	q "github.com/iliyamo/movie-collection/internal/queue"
	"github.com/iliyamo/movie-collection/internal/repository"
	"github.com/iliyamo/movie-collection/internal/utils"
)

// errInvalidPatch carries a user-facing validation message.
type errInvalidPatch struct{ msg string }

func (e errInvalidPatch) Error() string { return e.msg }

// AddMovie handles POST /users/:id/movies.  The title is enriched by the
// metadata resolver, which always yields a record, before it is stored.
func (h *CollectionHandler) AddMovie(c echo.Context) error {
	userID, ok := paramID(c, "id")
	if !ok {
		return h.redirectWithFlash(c, "/users", utils.FlashError, "User not found.")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return h.redirectWithFlash(c, "/users", utils.FlashError, "User not found.")
		}
		h.Logger.Error().Err(err).Uint64("user_id", userID).Msg("error adding movie")
		return h.redirectWithFlash(c, userPath(userID), utils.FlashError, "Unable to add movie. Please try again.")
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return h.redirectWithFlash(c, userPath(userID), utils.FlashError, "Movie title is required.")
	}

	rec := h.Resolver.Resolve(ctx, title)
	movie, err := h.Movies.Create(ctx, patchFromRecord(rec), userID)
	if err != nil {
		h.Logger.Error().Err(err).Uint64("user_id", userID).Str("title", title).Msg("error adding movie")
		return h.redirectWithFlash(c, userPath(userID), utils.FlashError, "Unable to add movie. Please try again.")
	}

	ev := q.NewCollectionEvent(q.EventMovieAdded, userID)
	ev.MovieID, ev.MovieTitle = movie.ID, movie.Title
	h.publish(c, ev)
	return h.redirectWithFlash(c, userPath(userID), utils.FlashSuccess,
		fmt.Sprintf("Movie '%s' added successfully!", movie.Title))
}

// UpdateMovie handles POST /movies/:id/update.  Only non-blank form fields
// among title, director, year, rating and poster_url are changed.
func (h *CollectionHandler) UpdateMovie(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.redirectWithFlash(c, "/users", utils.FlashError, "Movie not found.")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	movie, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return h.redirectWithFlash(c, "/users", utils.FlashError, "Movie not found.")
		}
		h.Logger.Error().Err(err).Uint64("movie_id", id).Msg("error updating movie")
		return h.redirectWithFlash(c, "/users", utils.FlashError, "Unable to update movie. Please try again.")
	}
	back := userPath(movie.UserID)

	patch, err := patchFromForm(c)
	if err != nil {
		return h.redirectWithFlash(c, back, utils.FlashError, err.Error())
	}
	if patch.Empty() {
		return h.redirectWithFlash(c, back, utils.FlashError, "Nothing to update.")
	}

	updated, err := h.Movies.Update(ctx, id, patch)
	if err != nil {
		h.Logger.Error().Err(err).Uint64("movie_id", id).Msg("error updating movie")
		return h.redirectWithFlash(c, back, utils.FlashError, "Unable to update movie. Please try again.")
	}

	ev := q.NewCollectionEvent(q.EventMovieUpdated, updated.UserID)
	ev.MovieID, ev.MovieTitle = updated.ID, updated.Title
	h.publish(c, ev)
	return h.redirectWithFlash(c, back, utils.FlashSuccess,
		fmt.Sprintf("Movie '%s' updated successfully!", updated.Title))
}

// DeleteMovie handles POST /movies/:id/delete and redirects to the owner's
// page.
func (h *CollectionHandler) DeleteMovie(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return h.redirectWithFlash(c, "/users", utils.FlashError, "Movie not found.")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	movie, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return h.redirectWithFlash(c, "/users", utils.FlashError, "Movie not found.")
		}
		h.Logger.Error().Err(err).Uint64("movie_id", id).Msg("error deleting movie")
		return h.redirectWithFlash(c, "/users", utils.FlashError, "Unable to delete movie. Please try again.")
	}

	deleted, err := h.Movies.Delete(ctx, id)
	if err != nil {
		h.Logger.Error().Err(err).Uint64("movie_id", id).Msg("error deleting movie")
		return h.redirectWithFlash(c, "/users", utils.FlashError, "Unable to delete movie. Please try again.")
	}
	if !deleted {
		return h.redirectWithFlash(c, userPath(movie.UserID), utils.FlashError, "Unable to delete movie.")
	}

	ev := q.NewCollectionEvent(q.EventMovieDeleted, movie.UserID)
	ev.MovieID, ev.MovieTitle = movie.ID, movie.Title
	h.publish(c, ev)
	return h.redirectWithFlash(c, userPath(movie.UserID), utils.FlashSuccess, "Movie deleted successfully!")
}

func patchFromRecord(rec metadata.Record) model.MoviePatch {
	return model.MoviePatch{
		Title:     &rec.Title,
		Director:  &rec.Director,
		Year:      &rec.Year,
		Rating:    &rec.Rating,
		PosterURL: &rec.PosterURL,
	}
}

func patchFromForm(c echo.Context) (model.MoviePatch, error) {
	var p model.MoviePatch
	if v := strings.TrimSpace(c.FormValue("title")); v != "" {
		p.Title = &v
	}
	if v := strings.TrimSpace(c.FormValue("director")); v != "" {
		p.Director = &v
	}
	if v := strings.TrimSpace(c.FormValue("poster_url")); v != "" {
		p.PosterURL = &v
	}
	if v := strings.TrimSpace(c.FormValue("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 0 {
			return p, errInvalidPatch{"Year must be a whole number."}
		}
		p.Year = &y
	}
	if v := strings.TrimSpace(c.FormValue("rating")); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || !(r >= 0 && r <= 10) {
			return p, errInvalidPatch{"Rating must be a number between 0 and 10."}
		}
		p.Rating = &r
	}
	return p, nil
}
