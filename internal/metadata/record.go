// Package metadata turns a free-text movie title into a metadata record.
// Resolution walks three tiers in order: a fixed table of well-known
// titles, the external OMDb API and finally a synthesized default.  A
// Record is always produced.
package metadata

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Record is the normalized metadata stored with a movie.
type Record struct {
	Title     string  `json:"title"`
	Director  string  `json:"director"`
	Year      int     `json:"year"`
	Rating    float64 `json:"rating"`
	PosterURL string  `json:"poster_url"`
}

// Defaults of the synthesized record.
const (
	DefaultDirector = "Unknown Director"
	DefaultYear     = 2020
	DefaultRating   = 7.0
	DefaultPoster   = jawsPoster
)

const jawsPoster = "https://m.media-amazon.com/images/M/MV5BNjQwNDI3MzYtZGQxMC00NGIwLWIyZjAtY2FmZTg3ZmU4ODA5XkEyXkFqcGdeQXVyNTAyODk3OTY@._V1_SX300.jpg"

// knownTitles is keyed by normalized title and never mutated after init.
var knownTitles = map[string]Record{
	"jaws": {
		Title:     "Jaws",
		Director:  "Steven Spielberg",
		Year:      1975,
		Rating:    8.0,
		PosterURL: jawsPoster,
	},
	"the godfather": {
		Title:     "The Godfather",
		Director:  "Francis Ford Coppola",
		Year:      1972,
		Rating:    9.2,
		PosterURL: "https://m.media-amazon.com/images/M/MV5BM2MyNjYxNmUtYTAwNi00MTYxLWJmNWYtYzZlODY3ZTk3OTFlXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_SX300.jpg",
	},
	"star wars": {
		Title:     "Star Wars",
		Director:  "George Lucas",
		Year:      1977,
		Rating:    8.6,
		PosterURL: "https://m.media-amazon.com/images/M/MV5BNzVlY2MwMjktM2E4OS00Y2Y3LWE3ZjctYzhkZGM3YzA1ZWM2XkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_SX300.jpg",
	},
	"pulp fiction": {
		Title:     "Pulp Fiction",
		Director:  "Quentin Tarantino",
		Year:      1994,
		Rating:    8.9,
		PosterURL: "https://m.media-amazon.com/images/M/MV5BNGNhMDIzZTUtNTBlZi00MTRlLWFjM2ItYzViMjE3YzI5MjljXkEyXkFqcGdeQXVyNzkwMjQ5NzM@._V1_SX300.jpg",
	},
}

// Normalize trims and lowercases a title for table and cache lookups.
func Normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Known returns the fixed record for title, if it is one of the well-known
// titles.
func Known(title string) (Record, bool) {
	rec, ok := knownTitles[Normalize(title)]
	return rec, ok
}

// Default synthesizes the last-resort record for title.
func Default(title string) Record {
	// a Caser keeps state, so one is built per call
	return Record{
		Title:     cases.Title(language.Und).String(strings.TrimSpace(title)),
		Director:  DefaultDirector,
		Year:      DefaultYear,
		Rating:    DefaultRating,
		PosterURL: DefaultPoster,
	}
}
