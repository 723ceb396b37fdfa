// Package repository defines error types that are reused across the
// user and movie repositories.  These sentinel values allow handlers to
// distinguish a missing row from a storage failure without inspecting
// driver errors.
package repository

import "errors"

// ErrUserNotFound is returned when no user row matches the requested id.
// Handlers should translate this into a "User not found." message.
var ErrUserNotFound = errors.New("user not found")

// ErrMovieNotFound is returned when no movie row matches the requested id.
var ErrMovieNotFound = errors.New("movie not found")

// ErrTitleRequired is returned when a movie insert carries no title.
var ErrTitleRequired = errors.New("movie title required")
