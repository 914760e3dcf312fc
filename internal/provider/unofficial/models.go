package unofficial

// film is the /api/v2.2/films payload, used both for a single title and for search items
type film struct {
	KinopoiskID      int64     `json:"kinopoiskId"`
	IMDbID           string    `json:"imdbId"`
	NameRu           string    `json:"nameRu"`
	NameEn           string    `json:"nameEn"`
	NameOriginal     string    `json:"nameOriginal"`
	PosterURL        string    `json:"posterUrl"`
	PosterURLPreview string    `json:"posterUrlPreview"`
	CoverURL         string    `json:"coverUrl"`
	LogoURL          string    `json:"logoUrl"`
	RatingKinopoisk  *float64  `json:"ratingKinopoisk"`
	Year             *int      `json:"year"`
	FilmLength       *int      `json:"filmLength"`
	Slogan           string    `json:"slogan"`
	Description      string    `json:"description"`
	RatingMpaa       string    `json:"ratingMpaa"`
	Type             string    `json:"type"`
	Countries        []country `json:"countries"`
	Genres           []genre   `json:"genres"`
}

// MatchNames exposes the localized and original title to the matcher
func (f *film) MatchNames() (string, string) {
	return f.NameRu, f.NameOriginal
}

// MatchYear exposes the release year to the matcher
func (f *film) MatchYear() *int {
	return f.Year
}

type country struct {
	Country string `json:"country"`
}

type genre struct {
	Genre string `json:"genre"`
}

type searchResult[T any] struct {
	Total int `json:"total"`
	Items []T `json:"items"`
}

// staffEntry is one credit from /api/v1/staff?filmId=
type staffEntry struct {
	StaffID        int64  `json:"staffId"`
	NameRu         string `json:"nameRu"`
	NameEn         string `json:"nameEn"`
	Description    string `json:"description"`
	PosterURL      string `json:"posterUrl"`
	ProfessionText string `json:"professionText"`
	ProfessionKey  string `json:"professionKey"`
}

// person is the /api/v1/staff/{id} payload
type person struct {
	PersonID   int64        `json:"personId"`
	NameRu     string       `json:"nameRu"`
	NameEn     string       `json:"nameEn"`
	PosterURL  string       `json:"posterUrl"`
	Birthday   string       `json:"birthday"`
	Death      string       `json:"death"`
	BirthPlace string       `json:"birthplace"`
	DeathPlace string       `json:"deathplace"`
	Facts      []string     `json:"facts"`
	Films      []personFilm `json:"films"`
}

type personFilm struct {
	FilmID        int64  `json:"filmId"`
	Description   string `json:"description"`
	ProfessionKey string `json:"professionKey"`
}

// personHit is one item of /api/v1/persons?name=
type personHit struct {
	KinopoiskID int64  `json:"kinopoiskId"`
	NameRu      string `json:"nameRu"`
	NameEn      string `json:"nameEn"`
	PosterURL   string `json:"posterUrl"`
}

type season struct {
	Number   int       `json:"number"`
	Episodes []episode `json:"episodes"`
}

type episode struct {
	SeasonNumber  int    `json:"seasonNumber"`
	EpisodeNumber int    `json:"episodeNumber"`
	NameRu        string `json:"nameRu"`
	NameEn        string `json:"nameEn"`
	Synopsis      string `json:"synopsis"`
	ReleaseDate   string `json:"releaseDate"`
}

type video struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Site string `json:"site"`
}

// MatchNames exposes both spellings of the person's name to the matcher
func (p personHit) MatchNames() (string, string) {
	return p.NameRu, p.NameEn
}

// MatchYear is nil; people are matched by name only
func (p personHit) MatchYear() *int {
	return nil
}
