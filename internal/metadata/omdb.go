package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when OMDb answers with Response "False".
var ErrNotFound = errors.New("omdb: movie not found")

// OMDbClient queries the OMDb API by title.
type OMDbClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewOMDbClient returns a client whose requests give up after timeout.
func NewOMDbClient(baseURL, apiKey string, timeout time.Duration) *OMDbClient {
	return &OMDbClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

// omdbResponse mirrors the subset of the OMDb payload in use.  Pointers
// distinguish an absent key from an empty value.
type omdbResponse struct {
	Response   string  `json:"Response"`
	Error      string  `json:"Error"`
	Title      *string `json:"Title"`
	Director   *string `json:"Director"`
	Year       *string `json:"Year"`
	IMDbRating *string `json:"imdbRating"`
	Poster     *string `json:"Poster"`
}

// Lookup fetches title from OMDb.  A "not found" answer yields ErrNotFound;
// transport failures, non-200 statuses and undecodable bodies yield other
// errors.
func (c *OMDbClient) Lookup(ctx context.Context, title string) (Record, error) {
	q := url.Values{}
	q.Set("t", title)
	q.Set("apikey", c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Record{}, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return Record{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Record{}, fmt.Errorf("omdb: unexpected status %d", resp.StatusCode)
	}

	var body omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Record{}, fmt.Errorf("omdb: decode: %w", err)
	}
	if body.Response != "True" {
		msg := body.Error
		if msg == "" {
			msg = "Unknown error"
		}
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, msg)
	}
	return body.record(title)
}

// record maps OMDb fields onto a Record.  Year must be all digits or it
// becomes 0; rating "N/A" becomes 0.0 while any other unparseable rating is
// an error.
func (r omdbResponse) record(title string) (Record, error) {
	rec := Record{
		Title:     valueOr(r.Title, title),
		Director:  valueOr(r.Director, "N/A"),
		PosterURL: valueOr(r.Poster, ""),
	}
	if y := valueOr(r.Year, "0"); isDigits(y) {
		if n, err := strconv.Atoi(y); err == nil {
			rec.Year = n
		}
	}
	if v := valueOr(r.IMDbRating, "0"); v != "N/A" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return Record{}, fmt.Errorf("omdb: rating %q: %w", v, err)
		}
		rec.Rating = f
	}
	return rec, nil
}

func valueOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
