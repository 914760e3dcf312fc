package local

// SeriesParser handles parsing of series folders
type SeriesParser struct{}

// NewSeriesParser creates a new series parser
func NewSeriesParser() *SeriesParser {
	return &SeriesParser{}
}

// Parse extracts the series name and year from a folder name
func (p *SeriesParser) Parse(ctx ParseContext) (*Detection, error) {
	name, year := ResolveShowInfo(ctx)
	return &Detection{Name: name, Year: yearPtr(year)}, nil
}
