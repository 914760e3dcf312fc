// Package local detects Kinopoisk IDs, titles, years and episode numbers from
// file paths and resolves them against the active provider.
package local

import (
	"context"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/hashicorp/go-hclog"
)

// Resolution is the outcome of resolving one path
type Resolution struct {
	Detection *Detection
	// Movie is the title, or for episodes and seasons the series
	Movie   *provider.Movie
	Episode *provider.Episode
}

// Resolver turns local paths into provider lookups
type Resolver struct {
	engine *ParserEngine
	logger hclog.Logger
}

// NewResolver creates a Resolver; a nil logger discards output
func NewResolver(logger hclog.Logger) *Resolver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Resolver{engine: NewParserEngine(), logger: logger.Named(providerName)}
}

// Resolve detects path with a default Resolver and looks it up in svc
func Resolve(ctx context.Context, svc provider.Service, path string) (*Resolution, error) {
	return NewResolver(nil).Resolve(ctx, svc, path)
}

// Detect parses path without any network lookup
func (r *Resolver) Detect(path string) (*Detection, error) {
	d, err := r.engine.Detect(path)
	if err != nil {
		return nil, err
	}
	r.logger.Info("detected", "path", path, "kind", d.Kind, "kp_id", d.KinopoiskID, "name", d.Name, "year", yearField(d.Year))
	return d, nil
}

// Resolve detects path and fetches the matching record. An ID tag in the path
// wins; otherwise movies are searched by name and year and the best rated
// candidate is kept, and episodes are matched inside the resolved series.
func (r *Resolver) Resolve(ctx context.Context, svc provider.Service, path string) (*Resolution, error) {
	d, err := r.Detect(path)
	if err != nil {
		return nil, err
	}
	res := &Resolution{Detection: d}

	switch d.Kind {
	case KindMovie:
		res.Movie, err = r.resolveMovie(ctx, svc, d)
	case KindSeries, KindSeason:
		res.Movie, err = r.resolveSeries(ctx, svc, d)
	case KindEpisode:
		res.Movie, err = r.resolveSeries(ctx, svc, d)
		if err == nil && res.Movie != nil {
			res.Episode, err = svc.GetEpisodeMetadata(ctx, provider.EpisodeQuery{
				SeriesIDs: res.Movie.ProviderIDs(),
				Season:    d.Season,
				Episode:   d.Episode,
			})
		}
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Resolver) resolveMovie(ctx context.Context, svc provider.Service, d *Detection) (*provider.Movie, error) {
	if d.KinopoiskID > 0 {
		r.logger.Info("path has Kinopoisk ID", "id", d.KinopoiskID)
		return svc.GetMovieMetadata(ctx, d.Query())
	}
	if d.Name == "" {
		r.logger.Info("no movie name detected", "path", d.Path)
		return nil, nil
	}

	r.logger.Info("searching movie by name", "name", d.Name, "year", yearField(d.Year))
	found, err := svc.GetMoviesByOriginalNameAndYear(ctx, d.Name, d.Year)
	if err != nil {
		return nil, err
	}
	switch len(found.Items) {
	case 0:
		if found.HasError {
			r.logger.Warn("movie search failed upstream", "name", d.Name)
			return nil, nil
		}
		r.logger.Info("nothing found for movie name", "name", d.Name)
		return nil, nil
	case 1:
		return found.Items[0], nil
	}
	best := provider.PickBest(found.Items)
	r.logger.Info("several candidates, taking the best rated", "count", len(found.Items), "id", best.ID, "name", d.Name)
	return best, nil
}

func (r *Resolver) resolveSeries(ctx context.Context, svc provider.Service, d *Detection) (*provider.Movie, error) {
	if d.KinopoiskID <= 0 && d.Name == "" {
		r.logger.Info("no series name detected", "path", d.Path)
		return nil, nil
	}
	return svc.GetSeriesMetadata(ctx, d.Query())
}

func yearField(year *int) any {
	if year == nil {
		return "none"
	}
	return *year
}
