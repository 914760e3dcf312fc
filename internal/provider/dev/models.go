package dev

// movie is a /v1.3/movie document. The same shape comes back from by-ID,
// search, top 250 and external ID queries, filled according to selectFields.
type movie struct {
	ID                  int64         `json:"id"`
	ExternalID          *externalID   `json:"externalId"`
	Name                string        `json:"name"`
	AlternativeName     string        `json:"alternativeName"`
	EnName              string        `json:"enName"`
	TypeNumber          *int          `json:"typeNumber"`
	Year                *int          `json:"year"`
	Description         string        `json:"description"`
	Slogan              string        `json:"slogan"`
	Rating              *rating       `json:"rating"`
	MovieLength         *int          `json:"movieLength"`
	RatingMpaa          string        `json:"ratingMpaa"`
	Logo                *image        `json:"logo"`
	Poster              *image        `json:"poster"`
	Backdrop            *image        `json:"backdrop"`
	Videos              *videos       `json:"videos"`
	Genres              []named       `json:"genres"`
	Countries           []named       `json:"countries"`
	ProductionCompanies []named       `json:"productionCompanies"`
	Persons             []moviePerson `json:"persons"`
	Premiere            *premiere     `json:"premiere"`
	Facts               []fact        `json:"facts"`
	SequelsAndPrequels  []sequel      `json:"sequelsAndPrequels"`
	Top250              *int          `json:"top250"`
	ReleaseYears        []yearRange   `json:"releaseYears"`
}

// MatchNames exposes the localized and alternative title to the matcher
func (m *movie) MatchNames() (string, string) {
	return m.Name, m.AlternativeName
}

// MatchYear exposes the release year to the matcher
func (m *movie) MatchYear() *int {
	return m.Year
}

type externalID struct {
	IMDb string `json:"imdb"`
	TMDb *int64 `json:"tmdb"`
}

type rating struct {
	Kp *float64 `json:"kp"`
}

type image struct {
	URL        string `json:"url"`
	PreviewURL string `json:"previewUrl"`
}

type videos struct {
	Trailers []videoLink `json:"trailers"`
	Teasers  []videoLink `json:"teasers"`
}

type videoLink struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Site string `json:"site"`
}

type named struct {
	Name string `json:"name"`
}

type moviePerson struct {
	ID           int64  `json:"id"`
	Photo        string `json:"photo"`
	Name         string `json:"name"`
	EnName       string `json:"enName"`
	Description  string `json:"description"`
	Profession   string `json:"profession"`
	EnProfession string `json:"enProfession"`
}

type premiere struct {
	World   string `json:"world"`
	Russia  string `json:"russia"`
	Cinema  string `json:"cinema"`
	Digital string `json:"digital"`
	Bluray  string `json:"bluray"`
	Dvd     string `json:"dvd"`
}

type fact struct {
	Value   string `json:"value"`
	Type    string `json:"type"`
	Spoiler bool   `json:"spoiler"`
}

type sequel struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	EnName          string `json:"enName"`
	AlternativeName string `json:"alternativeName"`
}

type yearRange struct {
	Start *int `json:"start"`
	End   *int `json:"end"`
}

type searchResult[T any] struct {
	Docs  []T `json:"docs"`
	Total int `json:"total"`
	Limit int `json:"limit"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// person is a /v1/person document
type person struct {
	ID         int64         `json:"id"`
	Name       string        `json:"name"`
	EnName     string        `json:"enName"`
	Photo      string        `json:"photo"`
	Birthday   string        `json:"birthday"`
	Death      string        `json:"death"`
	BirthPlace []value       `json:"birthPlace"`
	DeathPlace []value       `json:"deathPlace"`
	Facts      []value       `json:"facts"`
	Movies     []personMovie `json:"movies"`
}

type value struct {
	Value string `json:"value"`
}

type personMovie struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	EnProfession string `json:"enProfession"`
}

type season struct {
	MovieID  int64     `json:"movieId"`
	Number   int       `json:"number"`
	Episodes []episode `json:"episodes"`
}

type episode struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	EnName      string `json:"enName"`
	Description string `json:"description"`
	Date        string `json:"date"`
	AirDate     string `json:"airDate"`
}

// apiError is the body of a failed request
type apiError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}
