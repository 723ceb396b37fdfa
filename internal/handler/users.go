package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-collection/internal/model"
	q "github.com/iliyamo/movie-collection/internal/queue"
	"github.com/iliyamo/movie-collection/internal/repository"
	"github.com/iliyamo/movie-collection/internal/utils"
)

// minPasswordLen is the shortest password, in characters, accepted at user
// creation.
const minPasswordLen = 6

// Home handles GET /.
func (h *CollectionHandler) Home(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/users")
}

// ListUsers handles GET /users.  A storage failure still renders the page,
// with an empty list and an error message.
func (h *CollectionHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	data := h.page(c)
	users, err := h.Users.List(ctx)
	if err != nil {
		h.Logger.Error().Err(err).Msg("error fetching users")
		data.Flash = &utils.Flash{Category: utils.FlashError, Message: "Unable to load users at this time."}
		users = []*model.User{}
	}
	data.Users = users
	return c.Render(http.StatusOK, "index.html", data)
}

// UserMovies handles GET /users/:id.
func (h *CollectionHandler) UserMovies(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return echo.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	data := h.page(c)
	user, err := h.Users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		data.Flash = &utils.Flash{Category: utils.FlashError, Message: "User not found."}
		return c.Render(http.StatusNotFound, "404.html", data)
	}
	var movies []*model.Movie
	if err == nil {
		movies, err = h.Movies.ListByUser(ctx, id)
	}
	if err != nil {
		h.Logger.Error().Err(err).Uint64("user_id", id).Msg("error fetching movies")
		data.Flash = &utils.Flash{Category: utils.FlashError, Message: "Unable to load movies at this time."}
		movies = []*model.Movie{}
	}
	data.User = user
	data.Movies = movies
	return c.Render(http.StatusOK, "user_movies.html", data)
}

// CreateUser handles POST /users/new with form fields name, email and
// password.  Every outcome redirects to the user list.
func (h *CollectionHandler) CreateUser(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.TrimSpace(c.FormValue("email"))
	password := strings.TrimSpace(c.FormValue("password"))

	if name == "" || email == "" || password == "" {
		return h.redirectWithFlash(c, "/users", utils.FlashError, "All fields are required.")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return h.redirectWithFlash(c, "/users", utils.FlashError,
			fmt.Sprintf("Password must be at least %d characters long.", minPasswordLen))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	user, err := h.Users.Create(ctx, name, email, password, h.Cfg.BcryptCost)
	if err != nil {
		h.Logger.Error().Err(err).Str("username", name).Msg("error creating user")
		return h.redirectWithFlash(c, "/users", utils.FlashError, "Unable to create user. Please try again.")
	}

	ev := q.NewCollectionEvent(q.EventUserCreated, user.ID)
	ev.Username = user.Username
	h.publish(c, ev)
	return h.redirectWithFlash(c, "/users", utils.FlashSuccess, fmt.Sprintf("User '%s' created successfully!", name))
}
