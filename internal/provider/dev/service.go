// Package dev resolves metadata against api.kinopoisk.dev.
package dev

import (
	"context"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/upstream"
	"github.com/hashicorp/go-hclog"
)

// Name is the provider identifier used in configuration
const Name = "kinopoisk.dev"

// Service implements provider.Service for api.kinopoisk.dev
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

// GetMovieMetadata resolves a single movie with people, roles and trailers
func (s *Service) GetMovieMetadata(ctx context.Context, query provider.MovieQuery) (*provider.Movie, error) {
	return s.metadata(ctx, query, provider.MediaKindMovie)
}

// GetSeriesMetadata resolves a single series with people, roles and trailers
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
	d, err := s.resolveMovie(ctx, query)
	if err != nil || d == nil {
		return nil, err
	}
	return s.assemble(ctx, d, kind)
}

// assemble normalizes d with character names looked up from person documents
func (s *Service) assemble(ctx context.Context, d *movie, kind provider.MediaKind) (*provider.Movie, error) {
	persons, err := s.api.personsByMovieID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	return s.norm.movie(d, kind, roles(persons, d.ID)), nil
}

// resolveMovie runs the lookup chain: native ID, IMDb ID, TMDb ID, then
// name and year. The name search must narrow to exactly one document.
func (s *Service) resolveMovie(ctx context.Context, query provider.MovieQuery) (*movie, error) {
	d, err := s.movieByProviderIDs(ctx, query.IDs)
	if err != nil || d != nil {
		return d, err
	}
	s.logger.Info("title not found by provider IDs")

	name := provider.CleanName(query.Name)
	s.logger.Info("searching by name and year", "name", name, "year", yearField(query.Year))
	docs, _, err := s.api.moviesByDetails(ctx, name, name, query.Year)
	if err != nil {
		return nil, err
	}
	relevant := provider.FilterRelevant(docs, query.Name, query.Year, query.Name)
	if len(relevant) != 1 {
		s.logger.Error("ambiguous or missing match, skipping", "name", query.Name, "count", len(relevant))
		return nil, nil
	}
	return relevant[0], nil
}

func (s *Service) movieByProviderIDs(ctx context.Context, ids provider.ProviderIDs) (*movie, error) {
	if id, ok := provider.ParseID(ids.Kinopoisk); ok {
		s.logger.Info("fetching by Kinopoisk ID", "id", id)
		d, err := s.api.movieByID(ctx, id)
		if err != nil || d != nil {
			return d, err
		}
		s.logger.Info("nothing found by Kinopoisk ID", "id", id)
	}

	for _, ext := range []struct {
		source provider.ExternalSource
		id     string
	}{
		{provider.SourceIMDb, ids.IMDb},
		{provider.SourceTMDb, ids.TMDb},
	} {
		if ext.id == "" {
			continue
		}
		s.logger.Info("translating external ID", "source", ext.source, "id", ext.id)
		res, err := s.GetKpIDByAnotherID(ctx, ext.source, []string{ext.id})
		if err != nil {
			return nil, err
		}
		if len(res.Items) != 1 {
			s.logger.Info("external ID did not translate to exactly one title", "source", ext.source, "id", ext.id, "count", len(res.Items))
			continue
		}
		return s.api.movieByID(ctx, res.Items[0].KinopoiskID)
	}
	return nil, nil
}

func (s *Service) search(ctx context.Context, query provider.MovieQuery) ([]provider.SearchHit, error) {
	if !s.ready() {
		return nil, nil
	}
	d, err := s.movieByProviderIDs(ctx, query.IDs)
	if err != nil {
		return nil, err
	}
	if d != nil {
		return []provider.SearchHit{s.norm.hit(d)}, nil
	}

	name := provider.CleanName(query.Name)
	docs, _, err := s.api.moviesByDetails(ctx, name, name, query.Year)
	if err != nil {
		return nil, err
	}
	hits := make([]provider.SearchHit, 0, len(docs))
	for _, d := range docs {
		hits = append(hits, s.norm.hit(d))
	}
	s.logger.Info("search finished", "name", query.Name, "count", len(hits))
	return hits, nil
}

// GetImages returns the artwork of the title matched by name and original name
func (s *Service) GetImages(ctx context.Context, query provider.MovieQuery) ([]provider.Image, error) {
	if !s.ready() {
		return nil, nil
	}
	d, err := s.movieByProviderIDs(ctx, query.IDs)
	if err != nil {
		return nil, err
	}
	if d == nil {
		name := provider.CleanName(query.Name)
		alt := provider.CleanName(query.OriginalName)
		docs, _, err := s.api.moviesByDetails(ctx, name, alt, query.Year)
		if err != nil {
			return nil, err
		}
		relevant := provider.FilterRelevant(docs, query.Name, query.Year, query.OriginalName)
		if len(relevant) != 1 {
			s.logger.Error("ambiguous or missing match, skipping images", "name", query.Name, "count", len(relevant))
			return nil, nil
		}
		d = relevant[0]
	}
	images := s.norm.images(d)
	s.logger.Info("images found", "id", d.ID, "count", len(images))
	return images, nil
}

// GetEpisodeMetadata fetches the seasons of an already resolved series and
// matches the episode by number within the requested season.
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

	seasons, err := s.api.seasonsByMovieID(ctx, seriesID)
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
	return s.norm.episode(query.Season, e), nil
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

	found, err := s.api.personsByName(ctx, query.Name)
	if err != nil {
		return nil, err
	}
	found = filterPersons(found, query.Name)
	if len(found) != 1 {
		s.logger.Error("ambiguous or missing person match, skipping", "name", query.Name, "count", len(found))
		return nil, nil
	}
	return s.norm.person(found[0]), nil
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
			return []provider.SearchHit{s.norm.personHit(p)}, nil
		}
	}

	found, err := s.api.personsByName(ctx, query.Name)
	if err != nil {
		return nil, err
	}
	found = filterPersons(found, query.Name)
	hits := make([]provider.SearchHit, 0, len(found))
	for _, p := range found {
		hits = append(hits, s.norm.personHit(p))
	}
	return hits, nil
}

// GetMoviesByIDs fetches every title in one request
func (s *Service) GetMoviesByIDs(ctx context.Context, ids []int64) (provider.SearchResult[*provider.Movie], error) {
	if !s.ready() {
		return provider.SearchResult[*provider.Movie]{HasError: true}, nil
	}
	docs, ok, err := s.api.moviesByIDs(ctx, ids)
	if err != nil || !ok {
		return provider.SearchResult[*provider.Movie]{HasError: true}, err
	}
	return s.movies(docs, provider.MediaKindMovie), nil
}

// GetMoviesByOriginalNameAndYear returns every relevant search document
func (s *Service) GetMoviesByOriginalNameAndYear(ctx context.Context, name string, year *int) (provider.SearchResult[*provider.Movie], error) {
	if !s.ready() {
		return provider.SearchResult[*provider.Movie]{HasError: true}, nil
	}
	cleaned := provider.CleanName(name)
	docs, ok, err := s.api.moviesByDetails(ctx, cleaned, cleaned, year)
	if err != nil {
		return provider.SearchResult[*provider.Movie]{HasError: true}, err
	}
	relevant := provider.FilterRelevant(docs, name, year, name)
	result := s.movies(relevant, provider.MediaKindMovie)
	result.HasError = !ok
	s.logger.Info("found titles by name", "name", name, "count", len(result.Items))
	return result, nil
}

// GetTop250Movies returns the top 250 entries that are films
func (s *Service) GetTop250Movies(ctx context.Context) (provider.SearchResult[*provider.Movie], error) {
	return s.top250(ctx, provider.MediaKindMovie)
}

// GetTop250Series returns the top 250 entries that are series
func (s *Service) GetTop250Series(ctx context.Context) (provider.SearchResult[*provider.Movie], error) {
	return s.top250(ctx, provider.MediaKindSeries)
}

func (s *Service) top250(ctx context.Context, kind provider.MediaKind) (provider.SearchResult[*provider.Movie], error) {
	if !s.ready() {
		return provider.SearchResult[*provider.Movie]{HasError: true}, nil
	}
	docs, ok, err := s.api.top250(ctx)
	if err != nil || !ok {
		return provider.SearchResult[*provider.Movie]{HasError: true}, err
	}
	var matching []*movie
	for _, d := range docs {
		if kindOf(d) == kind {
			matching = append(matching, d)
		}
	}
	result := s.movies(matching, kind)
	s.logger.Info("top 250 loaded", "kind", kind, "count", len(result.Items))
	return result, nil
}

// GetKpIDByAnotherID translates IMDb or TMDb IDs in one request. Duplicate
// external IDs keep their first mapping.
func (s *Service) GetKpIDByAnotherID(ctx context.Context, source provider.ExternalSource, ids []string) (provider.SearchResult[provider.IDMapping], error) {
	if !s.ready() {
		return provider.SearchResult[provider.IDMapping]{HasError: true}, nil
	}
	docs, ok, err := s.api.moviesByExternalIDs(ctx, source, ids)
	if err != nil || !ok {
		return provider.SearchResult[provider.IDMapping]{HasError: true}, err
	}

	var result provider.SearchResult[provider.IDMapping]
	seen := make(map[string]bool)
	for _, d := range docs {
		ext := externalFor(d, source)
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		result.Items = append(result.Items, provider.IDMapping{ExternalID: ext, KinopoiskID: d.ID})
	}
	s.logger.Info("translated external IDs", "source", source, "requested", len(ids), "found", len(result.Items))
	return result, nil
}

func (s *Service) movies(docs []*movie, kind provider.MediaKind) provider.SearchResult[*provider.Movie] {
	result := provider.SearchResult[*provider.Movie]{Items: make([]*provider.Movie, 0, len(docs))}
	for _, d := range docs {
		result.Items = append(result.Items, s.norm.movie(d, kind, nil))
	}
	return result
}

// kindOf reads typeNumber: 1 film, 3 cartoon and 4 anime are movies, the rest series
func kindOf(d *movie) provider.MediaKind {
	if d.TypeNumber == nil {
		return provider.MediaKindSeries
	}
	switch *d.TypeNumber {
	case 1, 3, 4:
		return provider.MediaKindMovie
	}
	return provider.MediaKindSeries
}

func externalFor(d *movie, source provider.ExternalSource) string {
	if d.ExternalID == nil {
		return ""
	}
	switch source {
	case provider.SourceIMDb:
		return d.ExternalID.IMDb
	case provider.SourceTMDb:
		if d.ExternalID.TMDb != nil && *d.ExternalID.TMDb > 0 {
			return provider.FormatID(*d.ExternalID.TMDb)
		}
	}
	return ""
}

func yearField(year *int) any {
	if year == nil {
		return "none"
	}
	return *year
}
