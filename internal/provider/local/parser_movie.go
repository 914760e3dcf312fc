package local

import "time"

// MovieParser handles parsing of movie files and folders
type MovieParser struct {
	now func() time.Time
}

// NewMovieParser creates a movie parser; now bounds the accepted year
func NewMovieParser(now func() time.Time) *MovieParser {
	return &MovieParser{now: now}
}

// Parse extracts the search name and year from a movie file or folder name
func (p *MovieParser) Parse(ctx ParseContext) (*Detection, error) {
	movieName, year := movieNameAndYear(ctx.WorkingName(), p.now())
	if movieName == "" {
		fallback, y := ctx.TitleAndYear()
		movieName, year = fallback, yearPtr(y)
	}
	return &Detection{Name: movieName, Year: year}, nil
}
