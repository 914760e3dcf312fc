// Package unofficial resolves metadata against kinopoiskapiunofficial.tech.
package unofficial

import (
	"context"
	"sync/atomic"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/upstream"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

// Name is the provider identifier used in configuration
const Name = "kinopoiskapiunofficial.tech"

// maxDetailFetches bounds concurrent by-ID fetches in bulk lookups
const maxDetailFetches = 4

// Service implements provider.Service for kinopoiskapiunofficial.tech
type Service struct {
	api    *api
	norm   normalizer
	logger hclog.Logger
}

var _ provider.Service = (*Service)(nil)

// Option configures a Service
type Option func(*Service)

// WithBaseURL points the service at another API root
func WithBaseURL(base string) Option {
	return func(s *Service) {
		if base != "" {
			s.api.base = base
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger hclog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Service on top of client
func New(client *upstream.Client, opts ...Option) *Service {
	s := &Service{
		api:    &api{client: client, base: DefaultBaseURL},
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named(Name)
	s.api.logger = s.logger
	s.norm = normalizer{logger: s.logger}
	return s
}

// Name returns the provider identifier
func (s *Service) Name() string {
	return Name
}

func (s *Service) ready() bool {
	if s.api.client.HasToken() {
		return true
	}
	s.logger.Warn("token is empty, skipping lookup")
	return false
}

// GetMovieMetadata resolves a single movie with its staff and trailers
func (s *Service) GetMovieMetadata(ctx context.Context, query provider.MovieQuery) (*provider.Movie, error) {
	return s.metadata(ctx, query, provider.MediaKindMovie)
}

// GetSeriesMetadata resolves a single series with its staff and trailers
func (s *Service) GetSeriesMetadata(ctx context.Context, query provider.MovieQuery) (*provider.Movie, error) {
	return s.metadata(ctx, query, provider.MediaKindSeries)
}

// SearchMovies lists candidate movies
func (s *Service) SearchMovies(ctx context.Context, query provider.MovieQuery) ([]provider.SearchHit, error) {
	return s.search(ctx, query)
}

// SearchSeries lists candidate series
func (s *Service) SearchSeries(ctx context.Context, query provider.MovieQuery) ([]provider.SearchHit, error) {
	return s.search(ctx, query)
}

func (s *Service) metadata(ctx context.Context, query provider.MovieQuery, kind provider.MediaKind) (*provider.Movie, error) {
	if !s.ready() {
		return nil, nil
	}
	f, err := s.resolveFilm(ctx, query)
	if err != nil || f == nil {
		return nil, err
	}
	return s.assemble(ctx, f, kind)
}

// assemble normalizes f and merges staff and trailers fetched concurrently
func (s *Service) assemble(ctx context.Context, f *film, kind provider.MediaKind) (*provider.Movie, error) {
	var (
		staff  []staffEntry
		videos []video
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		staff, err = s.api.staffByFilmID(gctx, f.KinopoiskID)
		return err
	})
	g.Go(func() error {
		var err error
		videos, err = s.api.videosByFilmID(gctx, f.KinopoiskID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := s.norm.movie(f, kind)
	s.norm.addStaff(m, staff)
	m.Trailers = s.norm.trailers(videos)
	return m, nil
}

// resolveFilm runs the lookup chain: native ID, IMDb ID, then name and year.
// The name search must narrow to exactly one candidate.
func (s *Service) resolveFilm(ctx context.Context, query provider.MovieQuery) (*film, error) {
	f, err := s.filmByProviderIDs(ctx, query.IDs)
	if err != nil || f != nil {
		return f, err
	}
	s.logger.Info("title not found by provider IDs")

	s.logger.Info("searching by name and year", "name", query.Name, "year", yearField(query.Year))
	films, _, err := s.api.filmsByNameAndYear(ctx, query.Name, query.Year)
	if err != nil {
		return nil, err
	}
	relevant := provider.FilterRelevant(films, query.Name, query.Year, "")
	if len(relevant) != 1 {
		s.logger.Error("ambiguous or missing match, skipping", "name", query.Name, "count", len(relevant))
		return nil, nil
	}
	return s.api.filmByID(ctx, relevant[0].KinopoiskID)
}

func (s *Service) filmByProviderIDs(ctx context.Context, ids provider.ProviderIDs) (*film, error) {
	if id, ok := provider.ParseID(ids.Kinopoisk); ok {
		s.logger.Info("fetching by Kinopoisk ID", "id", id)
		f, err := s.api.filmByID(ctx, id)
		if err != nil || f != nil {
			return f, err
		}
		s.logger.Info("nothing found by Kinopoisk ID", "id", id)
	}

	if ids.IMDb != "" {
		s.logger.Info("translating IMDb ID", "imdb", ids.IMDb)
		films, _, err := s.api.filmsByIMDbID(ctx, ids.IMDb)
		if err != nil {
			return nil, err
		}
		if len(films) != 1 {
			s.logger.Info("IMDb ID did not translate to exactly one title", "imdb", ids.IMDb, "count", len(films))
			return nil, nil
		}
		return s.api.filmByID(ctx, films[0].KinopoiskID)
	}
	return nil, nil
}

func (s *Service) search(ctx context.Context, query provider.MovieQuery) ([]provider.SearchHit, error) {
	if !s.ready() {
		return nil, nil
	}
	f, err := s.filmByProviderIDs(ctx, query.IDs)
	if err != nil {
		return nil, err
	}
	if f != nil {
		return []provider.SearchHit{s.norm.hit(f)}, nil
	}

	films, _, err := s.api.filmsByNameAndYear(ctx, query.Name, query.Year)
	if err != nil {
		return nil, err
	}
	hits := make([]provider.SearchHit, 0, len(films))
	for _, f := range films {
		hits = append(hits, s.norm.hit(f))
	}
	s.logger.Info("search finished", "name", query.Name, "count", len(hits))
	return hits, nil
}

// GetImages returns the artwork of the resolved title
func (s *Service) GetImages(ctx context.Context, query provider.MovieQuery) ([]provider.Image, error) {
	if !s.ready() {
		return nil, nil
	}
	f, err := s.resolveFilm(ctx, query)
	if err != nil || f == nil {
		return nil, err
	}
	images := s.norm.images(f)
	s.logger.Info("images found", "id", f.KinopoiskID, "count", len(images))
	return images, nil
}

// GetEpisodeMetadata fetches the season list of an already resolved series
// and matches the episode by its (episode, season) pair.
func (s *Service) GetEpisodeMetadata(ctx context.Context, query provider.EpisodeQuery) (*provider.Episode, error) {
	if !s.ready() {
		return nil, nil
	}
	seriesID, ok := provider.ParseID(query.SeriesIDs.Kinopoisk)
	if !ok {
		s.logger.Info("episode has no series ID")
		return nil, nil
	}
	if query.Season < 0 || query.Episode <= 0 {
		s.logger.Warn("not enough parameters", "season", query.Season, "episode", query.Episode)
		return nil, nil
	}

	seasons, err := s.api.seasonsByFilmID(ctx, seriesID)
	if err != nil {
		return nil, err
	}
	if len(seasons) == 0 {
		s.logger.Info("no seasons for series", "series_id", seriesID)
		return nil, nil
	}
	e, found := matchEpisode(seasons, query.Season, query.Episode)
	if !found {
		s.logger.Info("episode not found", "series_id", seriesID, "season", query.Season, "episode", query.Episode)
		return nil, nil
	}
	return s.norm.episode(e), nil
}

// GetPersonMetadata resolves a person by ID, or by a name search that must narrow to one
func (s *Service) GetPersonMetadata(ctx context.Context, query provider.PersonQuery) (*provider.Person, error) {
	if !s.ready() {
		return nil, nil
	}
	if id, ok := provider.ParseID(query.IDs.Kinopoisk); ok {
		p, err := s.api.personByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return s.norm.person(p), nil
		}
		s.logger.Info("person not found by ID", "id", id)
	}

	hits, err := s.api.personsByName(ctx, query.Name)
	if err != nil {
		return nil, err
	}
	hits = provider.FilterRelevant(hits, query.Name, nil, "")
	if len(hits) != 1 {
		s.logger.Error("ambiguous or missing person match, skipping", "name", query.Name, "count", len(hits))
		return nil, nil
	}
	p, err := s.api.personByID(ctx, hits[0].KinopoiskID)
	if err != nil || p == nil {
		return nil, err
	}
	return s.norm.person(p), nil
}

// SearchPersons lists candidate people
func (s *Service) SearchPersons(ctx context.Context, query provider.PersonQuery) ([]provider.SearchHit, error) {
	if !s.ready() {
		return nil, nil
	}
	if id, ok := provider.ParseID(query.IDs.Kinopoisk); ok {
		p, err := s.api.personByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p != nil {
			return []provider.SearchHit{{ID: id, Name: provider.FirstNonBlank(p.NameRu, p.NameEn), OriginalName: p.NameEn, ImageURL: p.PosterURL}}, nil
		}
	}

	found, err := s.api.personsByName(ctx, query.Name)
	if err != nil {
		return nil, err
	}
	hits := make([]provider.SearchHit, 0, len(found))
	for _, p := range found {
		hits = append(hits, s.norm.personHit(p))
	}
	return hits, nil
}

// GetMoviesByIDs fetches each title by ID; unknown IDs are skipped
func (s *Service) GetMoviesByIDs(ctx context.Context, ids []int64) (provider.SearchResult[*provider.Movie], error) {
	if !s.ready() {
		return provider.SearchResult[*provider.Movie]{HasError: true}, nil
	}
	return s.fetchMovies(ctx, ids)
}

// GetMoviesByOriginalNameAndYear returns every relevant title, each fetched by ID
func (s *Service) GetMoviesByOriginalNameAndYear(ctx context.Context, name string, year *int) (provider.SearchResult[*provider.Movie], error) {
	if !s.ready() {
		return provider.SearchResult[*provider.Movie]{HasError: true}, nil
	}

	films, ok, err := s.api.filmsByNameAndYear(ctx, name, year)
	if err != nil {
		return provider.SearchResult[*provider.Movie]{HasError: true}, err
	}
	if !ok {
		s.logger.Warn("title search failed upstream", "name", name)
		return provider.SearchResult[*provider.Movie]{HasError: true}, nil
	}
	relevant := provider.FilterRelevant(films, name, year, "")
	ids := make([]int64, 0, len(relevant))
	for _, f := range relevant {
		ids = append(ids, f.KinopoiskID)
	}

	result, err := s.fetchMovies(ctx, ids)
	if err == nil {
		s.logger.Info("found titles by name", "name", name, "count", len(result.Items))
	}
	return result, err
}

// fetchMovies loads titles concurrently and keeps the order of ids. HasError
// is set when any lookup failed upstream.
func (s *Service) fetchMovies(ctx context.Context, ids []int64) (provider.SearchResult[*provider.Movie], error) {
	movies := make([]*provider.Movie, len(ids))
	var failed atomic.Bool
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDetailFetches)
	for i, id := range ids {
		g.Go(func() error {
			f, ok, err := s.api.filmByIDChecked(gctx, id)
			if !ok {
				failed.Store(true)
			}
			if err != nil || f == nil {
				return err
			}
			movies[i] = s.norm.movie(f, provider.MediaKindMovie)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return provider.SearchResult[*provider.Movie]{HasError: true}, err
	}

	result := provider.SearchResult[*provider.Movie]{
		Items:    make([]*provider.Movie, 0, len(movies)),
		HasError: failed.Load(),
	}
	for _, m := range movies {
		if m != nil {
			result.Items = append(result.Items, m)
		}
	}
	return result, nil
}

// GetTop250Movies is not offered by this API
func (s *Service) GetTop250Movies(ctx context.Context) (provider.SearchResult[*provider.Movie], error) {
	s.logger.Info("top 250 is not available from this provider")
	return provider.SearchResult[*provider.Movie]{}, nil
}

// GetTop250Series is not offered by this API
func (s *Service) GetTop250Series(ctx context.Context) (provider.SearchResult[*provider.Movie], error) {
	s.logger.Info("top 250 is not available from this provider")
	return provider.SearchResult[*provider.Movie]{}, nil
}

// GetKpIDByAnotherID translates IMDb IDs one at a time; TMDb IDs are not searchable here
func (s *Service) GetKpIDByAnotherID(ctx context.Context, source provider.ExternalSource, ids []string) (provider.SearchResult[provider.IDMapping], error) {
	if !s.ready() {
		return provider.SearchResult[provider.IDMapping]{HasError: true}, nil
	}
	if source != provider.SourceIMDb {
		s.logger.Info("external ID source is not searchable", "source", source)
		return provider.SearchResult[provider.IDMapping]{}, nil
	}

	var result provider.SearchResult[provider.IDMapping]
	for _, id := range ids {
		films, ok, err := s.api.filmsByIMDbID(ctx, id)
		if err != nil {
			return provider.SearchResult[provider.IDMapping]{HasError: true}, err
		}
		if !ok {
			result.HasError = true
			continue
		}
		if len(films) != 1 {
			continue
		}
		result.Items = append(result.Items, provider.IDMapping{ExternalID: id, KinopoiskID: films[0].KinopoiskID})
	}
	return result, nil
}

func yearField(year *int) any {
	if year == nil {
		return "none"
	}
	return *year
}
