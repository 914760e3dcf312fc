package provider

import (
	"strings"
	"time"
)

// Movie is the canonical record for one title: a film, a series or a season container
type Movie struct {
	ID            int64
	Kind          MediaKind
	Name          string
	OriginalName  string
	Year          *int
	Runtime       *int // minutes
	Overview      string
	Tagline       string
	ContentRating string
	Countries     []string
	Genres        []string
	Studios       []string
	Rating        *float64
	IMDbID        string
	TMDbID        *int64
	Trailers      []string
	Premiere      *time.Time
	EndDate       *time.Time
	People        []CastMember
	Sequels       []Link
	Top250        *int
	Images        []Image
	ImageURL      string // list thumbnail
}

// ProviderIDs returns the identifiers this record can be tagged with
func (m *Movie) ProviderIDs() ProviderIDs {
	ids := ProviderIDs{Kinopoisk: FormatID(m.ID), IMDb: m.IMDbID}
	if m.TMDbID != nil && *m.TMDbID > 0 {
		ids.TMDb = FormatID(*m.TMDbID)
	}
	return ids
}

// AddPerson appends a credit to the record
func (m *Movie) AddPerson(p CastMember) {
	m.People = append(m.People, p)
}

// Link references another title by ID
type Link struct {
	ID   int64
	Name string
}

// PersonType is the credit category of a cast or crew member
type PersonType string

const (
	PersonActor           PersonType = "Actor"
	PersonDirector        PersonType = "Director"
	PersonWriter          PersonType = "Writer"
	PersonProducer        PersonType = "Producer"
	PersonComposer        PersonType = "Composer"
	PersonEditor          PersonType = "Editor"
	PersonCinematographer PersonType = "Cinematographer"
	PersonArtDirector     PersonType = "ArtDirector"
	PersonVoiceActor      PersonType = "VoiceActor"
)

// CastMember is one person credited on a title
type CastMember struct {
	ID       int64
	Name     string
	ImageURL string
	Role     string
	Type     PersonType
}

// Person is the canonical biographical record
type Person struct {
	ID           int64
	Name         string
	OriginalName string
	PhotoURL     string
	Birthday     string
	Death        string
	Birthplace   string
	Deathplace   string
	Facts        []string
	Overview     string
	Movies       []Credit
}

// BirthDate parses Birthday on demand
func (p *Person) BirthDate() (time.Time, bool) {
	return ParseLooseDate(p.Birthday)
}

// DeathDate parses Death on demand
func (p *Person) DeathDate() (time.Time, bool) {
	return ParseLooseDate(p.Death)
}

// Credit links a person to a title they appear in
type Credit struct {
	MovieID int64
	Role    string
}

// Episode is the canonical record for one episode of a series
type Episode struct {
	SeasonNumber  int
	EpisodeNumber int
	Name          string
	OriginalName  string
	Overview      string
	AirDate       string

	airDateLayout string
}

// NewEpisode builds an episode whose air date is parsed with layout
func NewEpisode(layout string) *Episode {
	return &Episode{airDateLayout: layout}
}

// PremiereDate parses AirDate with the layout of the provider that produced it
func (e *Episode) PremiereDate() (time.Time, bool) {
	if strings.TrimSpace(e.AirDate) == "" {
		return time.Time{}, false
	}
	if e.airDateLayout != "" {
		if t, err := time.Parse(e.airDateLayout, e.AirDate); err == nil {
			return t, true
		}
		return time.Time{}, false
	}
	return ParseLooseDate(e.AirDate)
}

// ImageKind is the slot an image fills on the host side
type ImageKind string

const (
	ImagePrimary  ImageKind = "Primary"
	ImageBackdrop ImageKind = "Backdrop"
	ImageLogo     ImageKind = "Logo"
)

// Image is one remote artwork entry
type Image struct {
	URL          string
	ThumbnailURL string
	Kind         ImageKind
	Language     string
}

// SearchHit is one candidate in a listing returned to a caller that picks for itself
type SearchHit struct {
	ID           int64
	Name         string
	OriginalName string
	Year         *int
	ImageURL     string
	Overview     string
	IMDbID       string
	TMDbID       *int64
}
