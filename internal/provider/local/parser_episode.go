package local

import "github.com/Digital-Shane/kinopoisk-meta/internal/provider"

// EpisodeParser handles parsing of episode files
type EpisodeParser struct{}

// NewEpisodeParser creates a new episode parser
func NewEpisodeParser() *EpisodeParser {
	return &EpisodeParser{}
}

// Parse extracts season and episode numbers and the series name
func (p *EpisodeParser) Parse(ctx ParseContext) (*Detection, error) {
	season, episode, found := SeasonEpisodeFromContext(ctx)
	if !found {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeInvalidRequest,
			Message:  "could not extract season and episode numbers from: " + ctx.Name,
		}
	}

	name, year := ResolveShowInfo(ctx)
	return &Detection{Name: name, Year: yearPtr(year), Season: season, Episode: episode}, nil
}
