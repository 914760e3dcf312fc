package unofficial

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/upstream"
	"github.com/hashicorp/go-hclog"
)

// DefaultBaseURL is the production API root
const DefaultBaseURL = "https://kinopoiskapiunofficial.tech"

// Classify maps kinopoiskapiunofficial.tech status codes to outcomes
func Classify(status int, body []byte) (upstream.Outcome, string) {
	switch status {
	case http.StatusUnauthorized:
		return upstream.OutcomeAuthFailed, ""
	case http.StatusPaymentRequired:
		return upstream.OutcomeQuota, ""
	case http.StatusNotFound:
		return upstream.OutcomeEmpty, ""
	case http.StatusTooManyRequests:
		return upstream.OutcomeThrottled, ""
	default:
		return upstream.OutcomeError, strings.TrimSpace(string(body))
	}
}

// NewClient builds an upstream client with this provider's status classification
func NewClient(token func() string, opts ...upstream.Option) *upstream.Client {
	opts = append([]upstream.Option{upstream.WithToken(token), upstream.WithClassifier(Classify)}, opts...)
	return upstream.New(Name, opts...)
}

// api wraps the endpoints this provider uses. Methods return nil or empty
// values when the upstream has nothing; errors are fatal only.
type api struct {
	client *upstream.Client
	base   string
	logger hclog.Logger
}

func (a *api) url(path string, query url.Values) string {
	return upstream.BuildURL(a.base, path, query)
}

// fetch decodes the body at rawURL into v. The bool reports whether v was filled.
func (a *api) fetch(ctx context.Context, rawURL string, v any) (bool, error) {
	filled, _, err := a.fetchChecked(ctx, rawURL, v)
	return filled, err
}

// fetchChecked is fetch that also reports an upstream failure, which a 404
// with no data is not.
func (a *api) fetchChecked(ctx context.Context, rawURL string, v any) (filled, failed bool, err error) {
	resp, err := a.client.Fetch(ctx, rawURL)
	if err != nil {
		return false, true, err
	}
	if resp.Body == "" {
		return false, resp.Failed, nil
	}
	if err := json.Unmarshal([]byte(resp.Body), v); err != nil {
		a.logger.Error("failed to decode response", "url", rawURL, "error", err)
		return false, true, nil
	}
	return true, false, nil
}

func (a *api) filmByID(ctx context.Context, id int64) (*film, error) {
	f, _, err := a.filmByIDChecked(ctx, id)
	return f, err
}

// filmByIDChecked also reports whether the lookup failed upstream
func (a *api) filmByIDChecked(ctx context.Context, id int64) (*film, bool, error) {
	var f film
	filled, failed, err := a.fetchChecked(ctx, a.url("/api/v2.2/films/"+provider.FormatID(id), nil), &f)
	if err != nil || !filled {
		return nil, !failed, err
	}
	return &f, true, nil
}

// filmsByNameAndYear searches with the year first when one is usable, then by
// keyword alone. The bool is false when nothing was found and a search failed.
func (a *api) filmsByNameAndYear(ctx context.Context, name string, year *int) ([]*film, bool, error) {
	if strings.TrimSpace(name) == "" {
		return nil, true, nil
	}

	failed := false
	if year != nil && *year > 1000 {
		y := strconv.Itoa(*year)
		items, ok, err := a.searchFilms(ctx, url.Values{"keyword": {name}, "yearFrom": {y}, "yearTo": {y}})
		if err != nil || len(items) > 0 {
			return items, true, err
		}
		failed = !ok
	}
	items, ok, err := a.searchFilms(ctx, url.Values{"keyword": {name}})
	if err != nil || len(items) > 0 {
		return items, true, err
	}
	return nil, ok && !failed, nil
}

func (a *api) filmsByIMDbID(ctx context.Context, imdbID string) ([]*film, bool, error) {
	if strings.TrimSpace(imdbID) == "" {
		return nil, true, nil
	}
	return a.searchFilms(ctx, url.Values{"imdbId": {imdbID}})
}

// searchFilms returns the matching films; the bool is false when the search failed upstream
func (a *api) searchFilms(ctx context.Context, query url.Values) ([]*film, bool, error) {
	var res searchResult[*film]
	filled, failed, err := a.fetchChecked(ctx, a.url("/api/v2.2/films", query), &res)
	if err != nil || !filled {
		return nil, !failed, err
	}
	a.logger.Debug("search returned films", "count", len(res.Items))
	return res.Items, true, nil
}

func (a *api) staffByFilmID(ctx context.Context, id int64) ([]staffEntry, error) {
	var staff []staffEntry
	_, err := a.fetch(ctx, a.url("/api/v1/staff", url.Values{"filmId": {provider.FormatID(id)}}), &staff)
	return staff, err
}

func (a *api) videosByFilmID(ctx context.Context, id int64) ([]video, error) {
	var res searchResult[video]
	_, err := a.fetch(ctx, a.url("/api/v2.2/films/"+provider.FormatID(id)+"/videos", nil), &res)
	return res.Items, err
}

func (a *api) seasonsByFilmID(ctx context.Context, id int64) ([]season, error) {
	var res searchResult[season]
	ok, err := a.fetch(ctx, a.url("/api/v2.2/films/"+provider.FormatID(id)+"/seasons", nil), &res)
	if err != nil || !ok {
		return nil, err
	}
	return res.Items, nil
}

func (a *api) personByID(ctx context.Context, id int64) (*person, error) {
	var p person
	ok, err := a.fetch(ctx, a.url("/api/v1/staff/"+provider.FormatID(id), nil), &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (a *api) personsByName(ctx context.Context, name string) ([]personHit, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	var res searchResult[personHit]
	_, err := a.fetch(ctx, a.url("/api/v1/persons", url.Values{"name": {name}}), &res)
	return res.Items, err
}
