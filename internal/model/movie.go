package model

import "time"

// Movie represents one entry of a user's collection, a row in the
// `movies` table.  Everything except the title is optional, so the
// nullable columns are modelled as pointers.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the movie (references users.id).
//  Title     – non-empty movie title.
//  Director  – director name, nil when unknown.
//  Year      – release year, nil when unknown.
//  Rating    – rating on a 0–10 scale, nil when unknown.
//  PosterURL – poster image URL, nil when unknown.
//  CreatedAt – timestamp of creation.
type Movie struct {
	ID        uint64    // movies.id
	UserID    uint64    // movies.user_id
	Title     string    // movies.title
	Director  *string   // movies.director (nullable)
	Year      *int      // movies.year (nullable)
	Rating    *float64  // movies.rating (nullable)
	PosterURL *string   // movies.poster_url (nullable)
	CreatedAt time.Time // movies.created_at
}

// MoviePatch carries movie fields for inserts and partial updates.  A nil
// field means "not provided": on insert the column stays NULL (title
// excepted), on update the stored value is kept.
type MoviePatch struct {
	Title     *string
	Director  *string
	Year      *int
	Rating    *float64
	PosterURL *string
}

// Empty reports whether the patch carries no field at all.
func (p MoviePatch) Empty() bool {
	return p.Title == nil && p.Director == nil && p.Year == nil && p.Rating == nil && p.PosterURL == nil
}
