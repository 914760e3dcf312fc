package dev

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/upstream"
	"github.com/hashicorp/go-hclog"
)

// DefaultBaseURL is the production API root
const DefaultBaseURL = "https://api.kinopoisk.dev"

const (
	movieFields  = "alternativeName backdrop countries description enName externalId genres id logo movieLength name persons poster premiere productionCompanies rating ratingMpaa slogan videos year sequelsAndPrequels top250 facts releaseYears seasonsInfo"
	top250Fields = "alternativeName externalId id name top250 typeNumber"
	personFields = "id name enName photo birthday death birthPlace deathPlace facts"
	searchLimit  = "50"
	bulkLimit    = "1000"
)

// Classify maps api.kinopoisk.dev status codes to outcomes. Other failures
// carry a {statusCode, message, error} body which becomes the log message.
func Classify(status int, body []byte) (upstream.Outcome, string) {
	switch status {
	case http.StatusUnauthorized:
		return upstream.OutcomeAuthFailed, ""
	case http.StatusForbidden:
		return upstream.OutcomeQuota, ""
	case http.StatusTooManyRequests:
		return upstream.OutcomeThrottled, ""
	}

	var e apiError
	if err := json.Unmarshal(body, &e); err != nil || (e.Error == "" && e.Message == "") {
		return upstream.OutcomeError, strings.TrimSpace(string(body))
	}
	return upstream.OutcomeError, fmt.Sprintf("%d %s: %s", e.StatusCode, e.Error, e.Message)
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
	body, err := a.client.Get(ctx, rawURL)
	if err != nil {
		return false, err
	}
	if body == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		a.logger.Error("failed to decode response", "url", rawURL, "error", err)
		return false, nil
	}
	return true, nil
}

func (a *api) movieByID(ctx context.Context, id int64) (*movie, error) {
	var m movie
	ok, err := a.fetch(ctx, a.url("/v1.3/movie/"+provider.FormatID(id), nil), &m)
	if err != nil || !ok || m.ID == 0 {
		return nil, err
	}
	return &m, nil
}

func (a *api) moviesByIDs(ctx context.Context, ids []int64) ([]*movie, bool, error) {
	if len(ids) == 0 {
		a.logger.Info("received empty ID list")
		return nil, true, nil
	}
	query := url.Values{
		"limit":        {strconv.Itoa(len(ids))},
		"selectFields": {movieFields},
	}
	for _, id := range ids {
		query.Add("id", provider.FormatID(id))
	}
	return a.searchMovies(ctx, query)
}

// moviesByDetails tries, in order: name and year, name, alternative name and
// year, alternative name. The first query with results wins. The bool is false
// when nothing was found and at least one query failed upstream.
func (a *api) moviesByDetails(ctx context.Context, name, alternativeName string, year *int) ([]*movie, bool, error) {
	hasName := strings.TrimSpace(name) != ""
	hasAlt := strings.TrimSpace(alternativeName) != ""
	hasYear := year != nil && *year > 1000

	var attempts []url.Values
	if hasName && hasYear {
		attempts = append(attempts, url.Values{"name": {name}, "year": {strconv.Itoa(*year)}})
	}
	if hasName {
		attempts = append(attempts, url.Values{"name": {name}})
	}
	if hasAlt && hasYear {
		attempts = append(attempts, url.Values{"alternativeName": {alternativeName}, "year": {strconv.Itoa(*year)}})
	}
	if hasAlt {
		attempts = append(attempts, url.Values{"alternativeName": {alternativeName}})
	}

	failed := false
	for _, query := range attempts {
		query.Set("limit", searchLimit)
		query.Set("selectFields", movieFields)
		docs, ok, err := a.searchMovies(ctx, query)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			failed = true
			continue
		}
		if len(docs) > 0 {
			a.logger.Info("search returned titles", "count", len(docs))
			return docs, true, nil
		}
	}
	return nil, !failed, nil
}

func (a *api) top250(ctx context.Context) ([]*movie, bool, error) {
	return a.searchMovies(ctx, url.Values{
		"limit":        {bulkLimit},
		"top250":       {"!null"},
		"selectFields": {top250Fields},
	})
}

// moviesByExternalIDs looks up titles by externalId.imdb or externalId.tmdb.
// The bool is false when the request produced no usable body.
func (a *api) moviesByExternalIDs(ctx context.Context, source provider.ExternalSource, ids []string) ([]*movie, bool, error) {
	if len(ids) == 0 {
		a.logger.Info("received empty external ID list")
		return nil, true, nil
	}
	field := "externalId." + strings.ToLower(string(source))
	query := url.Values{
		"selectFields": {field + " id"},
		"limit":        {bulkLimit},
		field:          ids,
	}
	return a.searchMovies(ctx, query)
}

func (a *api) searchMovies(ctx context.Context, query url.Values) ([]*movie, bool, error) {
	var res searchResult[*movie]
	ok, err := a.fetch(ctx, a.url("/v1.3/movie", query), &res)
	if err != nil || !ok {
		return nil, false, err
	}
	return res.Docs, true, nil
}

func (a *api) personByID(ctx context.Context, id int64) (*person, error) {
	var p person
	ok, err := a.fetch(ctx, a.url("/v1/person/"+provider.FormatID(id), nil), &p)
	if err != nil || !ok || p.ID == 0 {
		return nil, err
	}
	return &p, nil
}

// personsByName searches by localized name, then by English name
func (a *api) personsByName(ctx context.Context, name string) ([]*person, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	for _, field := range []string{"name", "enName"} {
		docs, err := a.searchPersons(ctx, url.Values{"selectFields": {personFields}, field: {name}})
		if err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			a.logger.Info("found persons", "count", len(docs), "by", field)
			return docs, nil
		}
	}
	return nil, nil
}

func (a *api) personsByMovieID(ctx context.Context, movieID int64) ([]*person, error) {
	return a.searchPersons(ctx, url.Values{
		"movies.id":    {provider.FormatID(movieID)},
		"selectFields": {"id movies"},
		"limit":        {bulkLimit},
	})
}

func (a *api) searchPersons(ctx context.Context, query url.Values) ([]*person, error) {
	var res searchResult[*person]
	_, err := a.fetch(ctx, a.url("/v1/person", query), &res)
	return res.Docs, err
}

func (a *api) seasonsByMovieID(ctx context.Context, movieID int64) ([]season, error) {
	var res searchResult[season]
	ok, err := a.fetch(ctx, a.url("/v1/season", url.Values{"movieId": {provider.FormatID(movieID)}, "limit": {searchLimit}}), &res)
	if err != nil || !ok {
		return nil, err
	}
	return res.Docs, nil
}
