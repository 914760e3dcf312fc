package unofficial

import (
	"strings"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/hashicorp/go-hclog"
)

// ReleaseDateLayout is the format of episode release dates
const ReleaseDateLayout = "2006-01-02"

// normalizer maps raw payloads to canonical records. It only logs.
type normalizer struct {
	logger hclog.Logger
}

func (n normalizer) movie(f *film, kind provider.MediaKind) *provider.Movie {
	m := &provider.Movie{
		ID:            f.KinopoiskID,
		Kind:          kind,
		Name:          provider.FirstNonBlank(f.NameRu, f.NameOriginal, f.NameEn),
		OriginalName:  provider.FirstNonBlank(f.NameOriginal, f.NameEn),
		Year:          f.Year,
		Runtime:       f.FilmLength,
		Overview:      f.Description,
		Tagline:       f.Slogan,
		ContentRating: f.RatingMpaa,
		Rating:        f.RatingKinopoisk,
		IMDbID:        strings.TrimSpace(f.IMDbID),
		Images:        n.images(f),
		ImageURL:      provider.FirstNonBlank(f.PosterURLPreview, f.PosterURL),
	}

	countries := make([]string, 0, len(f.Countries))
	for _, c := range f.Countries {
		countries = append(countries, c.Country)
	}
	m.Countries = provider.NonBlank(countries)

	genres := make([]string, 0, len(f.Genres))
	for _, g := range f.Genres {
		genres = append(genres, g.Genre)
	}
	m.Genres = provider.NonBlank(genres)

	n.logger.Info("title found", "id", m.ID, "name", m.Name, "kind", kind)
	return m
}

func (n normalizer) images(f *film) []provider.Image {
	var images []provider.Image
	if strings.TrimSpace(f.CoverURL) != "" {
		images = append(images, provider.Image{URL: f.CoverURL, Kind: provider.ImageBackdrop, Language: "ru"})
	}
	if strings.TrimSpace(f.PosterURL) != "" {
		images = append(images, provider.Image{
			URL:          f.PosterURL,
			ThumbnailURL: f.PosterURLPreview,
			Kind:         provider.ImagePrimary,
			Language:     "ru",
		})
	}
	if strings.TrimSpace(f.LogoURL) != "" {
		images = append(images, provider.Image{URL: f.LogoURL, Kind: provider.ImageLogo, Language: "ru"})
	}
	return images
}

// addStaff appends usable credits; nameless and unmapped entries are skipped
func (n normalizer) addStaff(m *provider.Movie, staff []staffEntry) {
	for _, s := range staff {
		name := provider.FirstNonBlank(s.NameRu, s.NameEn)
		if name == "" {
			n.logger.Warn("skipping nameless staff", "staff_id", s.StaffID, "title", m.Name)
			continue
		}
		kind, ok := provider.PersonTypeFor(s.ProfessionKey, s.ProfessionText)
		if !ok {
			n.logger.Warn("skipping staff with unknown profession", "name", name, "profession", s.ProfessionKey, "title", m.Name)
			continue
		}
		m.AddPerson(provider.CastMember{
			ID:       s.StaffID,
			Name:     name,
			ImageURL: s.PosterURL,
			Role:     s.Description,
			Type:     kind,
		})
	}
	n.logger.Debug("added people", "id", m.ID, "count", len(m.People))
}

func (n normalizer) trailers(videos []video) []string {
	urls := make([]string, 0, len(videos))
	for _, v := range videos {
		if strings.TrimSpace(v.URL) != "" {
			urls = append(urls, v.URL)
		}
	}
	return provider.NormalizeTrailers(urls)
}

func (n normalizer) hit(f *film) provider.SearchHit {
	return provider.SearchHit{
		ID:           f.KinopoiskID,
		Name:         provider.FirstNonBlank(f.NameRu, f.NameOriginal, f.NameEn),
		OriginalName: provider.FirstNonBlank(f.NameOriginal, f.NameEn),
		Year:         f.Year,
		ImageURL:     provider.FirstNonBlank(f.PosterURLPreview, f.PosterURL),
		Overview:     f.Description,
		IMDbID:       strings.TrimSpace(f.IMDbID),
	}
}

func (n normalizer) person(p *person) *provider.Person {
	out := &provider.Person{
		ID:           p.PersonID,
		Name:         provider.FirstNonBlank(p.NameRu, p.NameEn),
		OriginalName: p.NameEn,
		PhotoURL:     p.PosterURL,
		Birthday:     p.Birthday,
		Death:        p.Death,
		Birthplace:   strings.TrimSpace(p.BirthPlace),
		Deathplace:   strings.TrimSpace(p.DeathPlace),
		Facts:        provider.NonBlank(p.Facts),
	}
	if len(out.Facts) > 0 {
		out.Overview = strings.Join(out.Facts, "\n")
	}
	for _, f := range p.Films {
		if f.FilmID <= 0 {
			continue
		}
		out.Movies = append(out.Movies, provider.Credit{MovieID: f.FilmID, Role: f.Description})
	}
	n.logger.Info("person found", "id", out.ID, "name", out.Name)
	return out
}

func (n normalizer) personHit(p personHit) provider.SearchHit {
	return provider.SearchHit{
		ID:           p.KinopoiskID,
		Name:         provider.FirstNonBlank(p.NameRu, p.NameEn),
		OriginalName: p.NameEn,
		ImageURL:     p.PosterURL,
	}
}

func (n normalizer) episode(e episode) *provider.Episode {
	out := provider.NewEpisode(ReleaseDateLayout)
	out.SeasonNumber = e.SeasonNumber
	out.EpisodeNumber = e.EpisodeNumber
	out.Name = e.NameRu
	out.OriginalName = e.NameEn
	out.Overview = e.Synopsis
	out.AirDate = e.ReleaseDate
	return out
}

// matchEpisode finds the season by number, then the episode by the
// (episode number, season number) pair carried on each episode.
func matchEpisode(seasons []season, seasonNumber, episodeNumber int) (episode, bool) {
	for _, s := range seasons {
		if s.Number != seasonNumber {
			continue
		}
		for _, e := range s.Episodes {
			if e.EpisodeNumber == episodeNumber && e.SeasonNumber == seasonNumber {
				return e, true
			}
		}
		return episode{}, false
	}
	return episode{}, false
}
