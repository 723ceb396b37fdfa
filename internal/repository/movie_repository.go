// Package repository contains data access logic separated from HTTP handlers.
// This file defines the movie repository: CRUD over the `movies` table plus
// the explicit query-by-owner used to list a user's collection.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/movie-collection/internal/model"
)

// MovieRepo encapsulates all database queries related to movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// rowQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const movieColumns = "id, user_id, title, director, year, rating, poster_url, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(s rowScanner) (*model.Movie, error) {
	var (
		m        model.Movie
		director sql.NullString
		year     sql.NullInt64
		rating   sql.NullFloat64
		poster   sql.NullString
	)
	if err := s.Scan(&m.ID, &m.UserID, &m.Title, &director, &year, &rating, &poster, &m.CreatedAt); err != nil {
		return nil, err
	}
	if director.Valid {
		m.Director = &director.String
	}
	if year.Valid {
		y := int(year.Int64)
		m.Year = &y
	}
	if rating.Valid {
		m.Rating = &rating.Float64
	}
	if poster.Valid {
		m.PosterURL = &poster.String
	}
	return &m, nil
}

func getMovie(ctx context.Context, q rowQuerier, id uint64) (*model.Movie, error) {
	m, err := scanMovie(q.QueryRowContext(ctx, "SELECT "+movieColumns+" FROM movies WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return m, nil
}

// GetByID fetches a movie by its id.  It returns ErrMovieNotFound if no row
// is found.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	return getMovie(ctx, r.db, id)
}

// ListByUser returns all movies owned by userID ordered by id.  An unknown
// user simply yields an empty list.
func (r *MovieRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+movieColumns+" FROM movies WHERE user_id = ? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a movie into userID's collection and returns the stored
// row.  The owner must exist at insert time; otherwise ErrUserNotFound is
// returned and nothing is written.
func (r *MovieRepo) Create(ctx context.Context, data model.MoviePatch, userID uint64) (*model.Movie, error) {
	if data.Title == nil || strings.TrimSpace(*data.Title) == "" {
		return nil, ErrTitleRequired
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	if err := tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ?", userID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO movies (user_id, title, director, year, rating, poster_url) VALUES (?, ?, ?, ?, ?, ?)",
		userID, *data.Title, data.Director, data.Year, data.Rating, data.PosterURL)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	m, err := getMovie(ctx, tx, uint64(id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

// Update applies a partial patch to a movie.  Nil fields in patch leave the
// stored value unchanged.  It returns ErrMovieNotFound when the movie does
// not exist.
func (r *MovieRepo) Update(ctx context.Context, id uint64, patch model.MoviePatch) (*model.Movie, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, ErrTitleRequired
	}

	var (
		sets []string
		args []any
	)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Director != nil {
		sets = append(sets, "director = ?")
		args = append(args, *patch.Director)
	}
	if patch.Year != nil {
		sets = append(sets, "year = ?")
		args = append(args, *patch.Year)
	}
	if patch.Rating != nil {
		sets = append(sets, "rating = ?")
		args = append(args, *patch.Rating)
	}
	if patch.PosterURL != nil {
		sets = append(sets, "poster_url = ?")
		args = append(args, *patch.PosterURL)
	}
	args = append(args, id)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// MySQL reports zero affected rows when values are unchanged, so existence
	// is checked separately.
	if _, err := getMovie(ctx, tx, id); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE movies SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return nil, err
	}
	m, err := getMovie(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes a movie by id.  It reports false when no row matched.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM movies WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
