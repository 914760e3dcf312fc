package provider

import (
	"context"
)

// PluginKey is the provider-ID namespace every resolved record is tagged with.
const PluginKey = "KinopoiskRu"

// MediaKind distinguishes the two kinds of titles Kinopoisk stores
type MediaKind string

const (
	MediaKindMovie  MediaKind = "movie"
	MediaKindSeries MediaKind = "series"
)

// ExternalSource names a third-party ID system that can be bridged to a Kinopoisk ID
type ExternalSource string

const (
	SourceIMDb ExternalSource = "imdb"
	SourceTMDb ExternalSource = "tmdb"
)

// Service is the resolution contract both Kinopoisk backends implement.
//
// A nil record with a nil error means "no metadata". Errors are reserved for
// cancellation and ErrStillThrottled; every other failure degrades to an
// empty result and is logged.
type Service interface {
	// Identification
	Name() string

	// Titles
	GetMovieMetadata(ctx context.Context, query MovieQuery) (*Movie, error)
	SearchMovies(ctx context.Context, query MovieQuery) ([]SearchHit, error)
	GetSeriesMetadata(ctx context.Context, query MovieQuery) (*Movie, error)
	SearchSeries(ctx context.Context, query MovieQuery) ([]SearchHit, error)
	GetEpisodeMetadata(ctx context.Context, query EpisodeQuery) (*Episode, error)
	GetImages(ctx context.Context, query MovieQuery) ([]Image, error)

	// People
	GetPersonMetadata(ctx context.Context, query PersonQuery) (*Person, error)
	SearchPersons(ctx context.Context, query PersonQuery) ([]SearchHit, error)

	// Bulk lookups
	GetMoviesByIDs(ctx context.Context, ids []int64) (SearchResult[*Movie], error)
	GetMoviesByOriginalNameAndYear(ctx context.Context, name string, year *int) (SearchResult[*Movie], error)
	GetTop250Movies(ctx context.Context) (SearchResult[*Movie], error)
	GetTop250Series(ctx context.Context) (SearchResult[*Movie], error)
	GetKpIDByAnotherID(ctx context.Context, source ExternalSource, ids []string) (SearchResult[IDMapping], error)
}

// ProviderIDs carries the identifiers a caller already knows for an item
type ProviderIDs struct {
	Kinopoisk string
	IMDb      string
	TMDb      string
}

// MovieQuery identifies a movie or series to resolve
type MovieQuery struct {
	Name         string
	OriginalName string
	Year         *int
	IDs          ProviderIDs
}

// EpisodeQuery identifies an episode within an already-resolved series
type EpisodeQuery struct {
	SeriesIDs ProviderIDs
	Season    int
	Episode   int
}

// PersonQuery identifies a person to resolve
type PersonQuery struct {
	Name string
	IDs  ProviderIDs
}

// IDMapping pairs an external identifier with the Kinopoisk ID it resolves to
type IDMapping struct {
	ExternalID  string
	KinopoiskID int64
}

// SearchResult wraps a list with an error flag so callers can tell an
// upstream failure apart from a legitimately empty answer.
type SearchResult[T any] struct {
	Items    []T
	HasError bool
}

// ActivityRecorder receives operational events that should outlive the process log
type ActivityRecorder interface {
	Record(event ActivityEvent)
}

// ActivityEvent is one auditable upstream failure
type ActivityEvent struct {
	Provider      string
	Code          string
	Overview      string
	ShortOverview string
}

// ProviderError represents an error from a provider
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	Retry      bool
	RetryAfter int // Seconds to wait before retry
}

func (e *ProviderError) Error() string {
	return e.Message
}
