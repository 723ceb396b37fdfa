package router

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/movie-collection/internal/config"
	"github.com/iliyamo/movie-collection/internal/database"
	"github.com/iliyamo/movie-collection/internal/handler"
	"github.com/iliyamo/movie-collection/internal/metadata"
	"github.com/iliyamo/movie-collection/internal/model"
	q "github.com/iliyamo/movie-collection/internal/queue"
	"github.com/iliyamo/movie-collection/internal/repository"
	"github.com/iliyamo/movie-collection/internal/utils"
)

const testSecret = "router-test-secret"

type recordingPublisher struct {
	mu     sync.Mutex
	events []q.CollectionEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev q.CollectionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type testApp struct {
	e      *echo.Echo
	db     *sql.DB
	movies *repository.MovieRepo
	events *recordingPublisher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, database.DriverSQLite))

	cfg := config.Config{FlashSecret: testSecret, BcryptCost: bcrypt.MinCost}
	movies := repository.NewMovieRepo(db)
	events := &recordingPublisher{}
	resolver := metadata.NewResolver(metadata.WithLogger(zerolog.Nop()))
	h := handler.NewCollectionHandler(cfg, repository.NewUserRepo(db), movies, resolver, events)
	h.Logger = zerolog.Nop()

	e, err := New(h, nil)
	require.NoError(t, err)
	return &testApp{e: e, db: db, movies: movies, events: events}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return a.do(req)
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return a.do(req)
}

func flashCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "flash" && ck.Value != "" {
			return ck
		}
	}
	t.Fatalf("no flash cookie in response")
	return nil
}

func flashOf(t *testing.T, rec *httptest.ResponseRecorder) utils.Flash {
	t.Helper()
	f, err := utils.ParseFlashToken(testSecret, flashCookie(t, rec).Value)
	require.NoError(t, err)
	return f
}

func (a *testApp) createUser(t *testing.T, name string) {
	t.Helper()
	rec := a.postForm("/users/new", url.Values{
		"name":     {name},
		"email":    {name + "@example.com"},
		"password": {"secret123"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, utils.FlashSuccess, flashOf(t, rec).Category)
}

func (a *testApp) userMovies(t *testing.T, userID uint64) []*model.Movie {
	t.Helper()
	list, err := a.movies.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	return list
}

func TestHomeRedirectsToUsers(t *testing.T) {
	app := newTestApp(t)
	rec := app.get("/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get(echo.HeaderLocation))
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	rec := app.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestCreateUser(t *testing.T) {
	app := newTestApp(t)

	rec := app.postForm("/users/new", url.Values{"name": {"alice"}, "email": {"a@x.io"}, "password": {"hunter22"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get(echo.HeaderLocation))
	f := flashOf(t, rec)
	assert.Equal(t, utils.FlashSuccess, f.Category)
	assert.Equal(t, "User 'alice' created successfully!", f.Message)

	page := app.get("/users")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Equal(t, 1, strings.Count(page.Body.String(), ">alice<"))

	var stored string
	require.NoError(t, app.db.QueryRow("SELECT password FROM users WHERE username = 'alice'").Scan(&stored))
	assert.NotEqual(t, "hunter22", stored)

	assert.Equal(t, []string{q.EventUserCreated}, app.events.types())
}

func TestCreateUserValidation(t *testing.T) {
	cases := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing email", url.Values{"name": {"bob"}, "password": {"secret123"}}, "All fields are required."},
		{"blank name", url.Values{"name": {"   "}, "email": {"b@x.io"}, "password": {"secret123"}}, "All fields are required."},
		{"short password", url.Values{"name": {"bob"}, "email": {"b@x.io"}, "password": {"12345"}}, "Password must be at least 6 characters long."},
		{"short multibyte password", url.Values{"name": {"bob"}, "email": {"b@x.io"}, "password": {"ééé"}}, "Password must be at least 6 characters long."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)
			rec := app.postForm("/users/new", tc.form)
			require.Equal(t, http.StatusFound, rec.Code)
			f := flashOf(t, rec)
			assert.Equal(t, utils.FlashError, f.Category)
			assert.Equal(t, tc.want, f.Message)

			var n int
			require.NoError(t, app.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
			assert.Zero(t, n)
			assert.Empty(t, app.events.types())
		})
	}
}

func TestCreateUserLongPassword(t *testing.T) {
	app := newTestApp(t)
	rec := app.postForm("/users/new", url.Values{"name": {"max"}, "email": {"max@x.io"}, "password": {strings.Repeat("a", 73)}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, utils.FlashSuccess, flashOf(t, rec).Category)

	page := app.get("/users")
	assert.Equal(t, 1, strings.Count(page.Body.String(), ">max<"))
}

func TestCreateUserDuplicate(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "carol")

	rec := app.postForm("/users/new", url.Values{"name": {"carol"}, "email": {"carol@example.com"}, "password": {"secret123"}})
	f := flashOf(t, rec)
	assert.Equal(t, utils.FlashError, f.Category)
	assert.Equal(t, "Unable to create user. Please try again.", f.Message)
}

func TestFlashIsShownOnceAndCleared(t *testing.T) {
	app := newTestApp(t)
	rec := app.postForm("/users/new", url.Values{"name": {"dave"}})
	ck := flashCookie(t, rec)

	page := app.get("/users", ck)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "All fields are required.")

	var cleared bool
	for _, c := range page.Result().Cookies() {
		if c.Name == "flash" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)

	assert.NotContains(t, app.get("/users").Body.String(), "All fields are required.")
}

func TestForgedFlashIgnored(t *testing.T) {
	app := newTestApp(t)
	token, err := utils.NewFlashToken("other-secret", utils.Flash{Category: utils.FlashError, Message: "forged"}, time.Minute)
	require.NoError(t, err)

	page := app.get("/users", &http.Cookie{Name: "flash", Value: token})
	require.Equal(t, http.StatusOK, page.Code)
	assert.NotContains(t, page.Body.String(), "forged")
}

func TestUserMoviesNotFound(t *testing.T) {
	app := newTestApp(t)
	rec := app.get("/users/999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found.")

	assert.Equal(t, http.StatusNotFound, app.get("/users/abc").Code)
	assert.Equal(t, http.StatusNotFound, app.get("/no/such/page").Code)
}

func TestAddKnownMovie(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "erin")

	rec := app.postForm("/users/1/movies", url.Values{"title": {"  Jaws "}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users/1", rec.Header().Get(echo.HeaderLocation))
	f := flashOf(t, rec)
	assert.Equal(t, utils.FlashSuccess, f.Category)
	assert.Equal(t, "Movie 'Jaws' added successfully!", f.Message)

	list := app.userMovies(t, 1)
	require.Len(t, list, 1)
	m := list[0]
	assert.Equal(t, "Jaws", m.Title)
	require.NotNil(t, m.Director)
	assert.Equal(t, "Steven Spielberg", *m.Director)
	require.NotNil(t, m.Year)
	assert.Equal(t, 1975, *m.Year)
	require.NotNil(t, m.Rating)
	assert.InDelta(t, 8.0, *m.Rating, 1e-9)

	page := app.get("/users/1")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Steven Spielberg")
	assert.Contains(t, page.Body.String(), "1975")

	assert.Equal(t, []string{q.EventUserCreated, q.EventMovieAdded}, app.events.types())
}

func TestAddUnknownMovieUsesDefaults(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "frank")

	rec := app.postForm("/users/1/movies", url.Values{"title": {"my home video"}})
	assert.Equal(t, "Movie 'My Home Video' added successfully!", flashOf(t, rec).Message)

	list := app.userMovies(t, 1)
	require.Len(t, list, 1)
	assert.Equal(t, metadata.DefaultDirector, *list[0].Director)
	assert.Equal(t, metadata.DefaultYear, *list[0].Year)
	assert.InDelta(t, metadata.DefaultRating, *list[0].Rating, 1e-9)
}

func TestAddMovieErrors(t *testing.T) {
	app := newTestApp(t)

	rec := app.postForm("/users/42/movies", url.Values{"title": {"Jaws"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "User not found.", flashOf(t, rec).Message)

	app.createUser(t, "gina")
	rec = app.postForm("/users/1/movies", url.Values{"title": {"   "}})
	assert.Equal(t, "/users/1", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "Movie title is required.", flashOf(t, rec).Message)
	assert.Empty(t, app.userMovies(t, 1))
}

func TestUpdateMovie(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "hank")
	app.postForm("/users/1/movies", url.Values{"title": {"Jaws"}})

	rec := app.postForm("/movies/1/update", url.Values{"rating": {"9.5"}, "title": {""}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users/1", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "Movie 'Jaws' updated successfully!", flashOf(t, rec).Message)

	m := app.userMovies(t, 1)[0]
	assert.InDelta(t, 9.5, *m.Rating, 1e-9)
	assert.Equal(t, "Jaws", m.Title)
	assert.Equal(t, "Steven Spielberg", *m.Director)
	assert.Equal(t, 1975, *m.Year)

	assert.Equal(t, q.EventMovieUpdated, app.events.types()[2])
}

func TestUpdateMovieRejectsBadInput(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "iris")
	app.postForm("/users/1/movies", url.Values{"title": {"Jaws"}})

	cases := []struct {
		form url.Values
		want string
	}{
		{url.Values{"year": {"nineteen"}}, "Year must be a whole number."},
		{url.Values{"rating": {"11"}}, "Rating must be a number between 0 and 10."},
		{url.Values{"rating": {"NaN"}}, "Rating must be a number between 0 and 10."},
		{url.Values{"title": {"  "}}, "Nothing to update."},
	}
	for _, tc := range cases {
		rec := app.postForm("/movies/1/update", tc.form)
		f := flashOf(t, rec)
		assert.Equal(t, utils.FlashError, f.Category)
		assert.Equal(t, tc.want, f.Message)
	}

	m := app.userMovies(t, 1)[0]
	assert.InDelta(t, 8.0, *m.Rating, 1e-9)
	assert.Equal(t, 1975, *m.Year)

	rec := app.postForm("/movies/77/update", url.Values{"rating": {"5"}})
	assert.Equal(t, "/users", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "Movie not found.", flashOf(t, rec).Message)
}

func TestDeleteMovie(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "jack")
	app.postForm("/users/1/movies", url.Values{"title": {"Jaws"}})
	app.postForm("/users/1/movies", url.Values{"title": {"Pulp Fiction"}})

	rec := app.postForm("/movies/1/delete", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users/1", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "Movie deleted successfully!", flashOf(t, rec).Message)

	list := app.userMovies(t, 1)
	require.Len(t, list, 1)
	assert.Equal(t, "Pulp Fiction", list[0].Title)

	rec = app.postForm("/movies/1/delete", nil)
	assert.Equal(t, "/users", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "Movie not found.", flashOf(t, rec).Message)

	types := app.events.types()
	assert.Equal(t, q.EventMovieDeleted, types[len(types)-1])
}

func TestCollectionsAreIsolated(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "kate")
	app.createUser(t, "liam")
	app.postForm("/users/1/movies", url.Values{"title": {"Star Wars"}})
	app.postForm("/users/2/movies", url.Values{"title": {"The Godfather"}})

	one := app.get("/users/1").Body.String()
	assert.Contains(t, one, "Star Wars")
	assert.NotContains(t, one, "The Godfather")

	two := app.get("/users/2").Body.String()
	assert.Contains(t, two, "The Godfather")
	assert.NotContains(t, two, "Star Wars")
}
