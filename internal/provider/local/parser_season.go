package local

import "github.com/Digital-Shane/kinopoisk-meta/internal/provider"

// SeasonParser handles parsing of season folders
type SeasonParser struct{}

// NewSeasonParser creates a new season parser
func NewSeasonParser() *SeasonParser {
	return &SeasonParser{}
}

// Parse extracts the season number and the series it belongs to
func (p *SeasonParser) Parse(ctx ParseContext) (*Detection, error) {
	season, found := ExtractSeasonNumber(ctx.Name)
	if !found {
		return nil, &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeInvalidRequest,
			Message:  "could not extract season number from: " + ctx.Name,
		}
	}

	name, year := ResolveShowInfo(ctx)
	return &Detection{Name: name, Year: yearPtr(year), Season: season}, nil
}
