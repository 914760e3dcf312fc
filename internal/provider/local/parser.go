package local

import (
	"strconv"
	"time"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
)

const providerName = "local"

// Kind is the media kind a path was detected as
type Kind string

const (
	KindMovie   Kind = "movie"
	KindSeries  Kind = "series"
	KindSeason  Kind = "season"
	KindEpisode Kind = "episode"
)

// Detection is everything a path reveals about the item before any lookup
type Detection struct {
	Path        string
	Kind        Kind
	KinopoiskID int64
	Name        string
	Year        *int
	Season      int
	Episode     int
}

// IDs returns the provider IDs known from the path
func (d *Detection) IDs() provider.ProviderIDs {
	if d.KinopoiskID <= 0 {
		return provider.ProviderIDs{}
	}
	return provider.ProviderIDs{Kinopoisk: provider.FormatID(d.KinopoiskID)}
}

// Query returns the title query for the detected movie or series
func (d *Detection) Query() provider.MovieQuery {
	return provider.MovieQuery{Name: d.Name, Year: d.Year, IDs: d.IDs()}
}

// Parser extracts a detection from a path of one media kind
type Parser interface {
	Parse(ctx ParseContext) (*Detection, error)
}

// ParserEngine manages all parsers and routes parsing requests
type ParserEngine struct {
	detector      *Detector
	seriesParser  Parser
	seasonParser  Parser
	episodeParser Parser
	movieParser   Parser
}

// NewParserEngine creates a new parser engine with all parsers initialized
func NewParserEngine() *ParserEngine {
	return &ParserEngine{
		detector:      NewDetector(),
		seriesParser:  NewSeriesParser(),
		seasonParser:  NewSeasonParser(),
		episodeParser: NewEpisodeParser(),
		movieParser:   NewMovieParser(time.Now),
	}
}

// Parse routes the parsing request to the parser for kind
func (e *ParserEngine) Parse(kind Kind, ctx ParseContext) (*Detection, error) {
	var parser Parser
	switch kind {
	case KindSeries:
		parser = e.seriesParser
	case KindSeason:
		parser = e.seasonParser
	case KindEpisode:
		parser = e.episodeParser
	case KindMovie:
		parser = e.movieParser
	default:
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeInvalidRequest,
			Message:  "unsupported media kind: " + string(kind),
		}
	}

	d, err := parser.Parse(ctx)
	if err != nil {
		return nil, err
	}
	d.Path = ctx.Path
	d.Kind = kind
	if id, ok := DetectID(ctx.Path); ok {
		d.KinopoiskID = id
	}
	return d, nil
}

// Detect inspects path on disk, picks its kind and parses it
func (e *ParserEngine) Detect(path string) (*Detection, error) {
	ctx := Inspect(path)
	kind, err := e.detector.Detect(ctx)
	if err != nil {
		return nil, err
	}
	return e.Parse(kind, ctx)
}

// yearPtr converts a detected year string; empty and malformed years are nil
func yearPtr(year string) *int {
	if year == "" {
		return nil
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return nil
	}
	return &y
}
