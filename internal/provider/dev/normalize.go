package dev

import (
	"slices"
	"strings"
	"time"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/hashicorp/go-hclog"
)

// normalizer maps raw documents to canonical records. It only logs.
type normalizer struct {
	logger hclog.Logger
}

func (n normalizer) movie(d *movie, kind provider.MediaKind, roles map[int64]string) *provider.Movie {
	m := &provider.Movie{
		ID:            d.ID,
		Kind:          kind,
		Name:          provider.FirstNonBlank(d.Name, d.AlternativeName, d.EnName),
		OriginalName:  provider.FirstNonBlank(d.AlternativeName, d.EnName),
		Year:          d.Year,
		Runtime:       d.MovieLength,
		Overview:      provider.PrepareOverview(d.Description, facts(d.Facts)),
		Tagline:       d.Slogan,
		ContentRating: d.RatingMpaa,
		Countries:     provider.NonBlank(names(d.Countries)),
		Genres:        provider.NonBlank(names(d.Genres)),
		Studios:       provider.NonBlank(names(d.ProductionCompanies)),
		Trailers:      n.trailers(d.Videos),
		Premiere:      provider.ResolvePremiere(premiereOf(d.Premiere)),
		EndDate:       endDate(d.ReleaseYears),
		Top250:        d.Top250,
		Images:        n.images(d),
	}
	if d.Rating != nil {
		m.Rating = d.Rating.Kp
	}
	if d.ExternalID != nil {
		m.IMDbID = strings.TrimSpace(d.ExternalID.IMDb)
		m.TMDbID = d.ExternalID.TMDb
	}
	if d.Poster != nil {
		m.ImageURL = provider.FirstNonBlank(d.Poster.PreviewURL, d.Poster.URL)
	}
	for _, s := range d.SequelsAndPrequels {
		if s.ID <= 0 {
			continue
		}
		m.Sequels = append(m.Sequels, provider.Link{ID: s.ID, Name: provider.FirstNonBlank(s.Name, s.AlternativeName, s.EnName)})
	}
	n.addPersons(m, d.Persons, roles)

	n.logger.Info("title found", "id", m.ID, "name", m.Name, "kind", kind)
	return m
}

// addPersons appends credits. A role from roles wins over the inline description.
func (n normalizer) addPersons(m *provider.Movie, persons []moviePerson, roles map[int64]string) {
	for _, p := range persons {
		name := provider.FirstNonBlank(p.Name, p.EnName)
		if name == "" {
			n.logger.Warn("skipping nameless person", "person_id", p.ID, "title", m.Name)
			continue
		}
		kind, ok := provider.PersonTypeFor(p.EnProfession, p.Profession)
		if !ok {
			n.logger.Warn("skipping person with unknown profession", "name", name, "profession", p.EnProfession, "title", m.Name)
			continue
		}
		role := p.Description
		if r, found := roles[p.ID]; found {
			role = r
		}
		m.AddPerson(provider.CastMember{
			ID:       p.ID,
			Name:     name,
			ImageURL: p.Photo,
			Role:     role,
			Type:     kind,
		})
	}
	n.logger.Debug("added people", "id", m.ID, "count", len(m.People))
}

// roles builds person ID to character name for one title. The first
// non-blank description per person wins.
func roles(persons []*person, movieID int64) map[int64]string {
	out := make(map[int64]string)
	for _, p := range persons {
		if _, seen := out[p.ID]; seen {
			continue
		}
		for _, pm := range p.Movies {
			if pm.ID == movieID && strings.TrimSpace(pm.Description) != "" {
				out[p.ID] = pm.Description
				break
			}
		}
	}
	return out
}

// trailers lists teasers before trailers, each group normalized on its own
func (n normalizer) trailers(v *videos) []string {
	if v == nil {
		return nil
	}
	var out []string
	for _, group := range [][]videoLink{v.Teasers, v.Trailers} {
		urls := make([]string, 0, len(group))
		for _, l := range group {
			if strings.TrimSpace(l.URL) != "" {
				urls = append(urls, l.URL)
			}
		}
		out = append(out, provider.NormalizeTrailers(urls)...)
	}
	return out
}

func (n normalizer) images(d *movie) []provider.Image {
	var images []provider.Image
	add := func(img *image, kind provider.ImageKind) {
		if img == nil || strings.TrimSpace(img.URL) == "" {
			return
		}
		images = append(images, provider.Image{
			URL:          img.URL,
			ThumbnailURL: img.PreviewURL,
			Kind:         kind,
			Language:     "ru",
		})
	}
	add(d.Backdrop, provider.ImageBackdrop)
	add(d.Poster, provider.ImagePrimary)
	add(d.Logo, provider.ImageLogo)
	return images
}

func (n normalizer) hit(d *movie) provider.SearchHit {
	h := provider.SearchHit{
		ID:           d.ID,
		Name:         provider.FirstNonBlank(d.Name, d.AlternativeName, d.EnName),
		OriginalName: provider.FirstNonBlank(d.AlternativeName, d.EnName),
		Year:         d.Year,
		Overview:     d.Description,
	}
	if d.Poster != nil {
		h.ImageURL = provider.FirstNonBlank(d.Poster.PreviewURL, d.Poster.URL)
	}
	if d.ExternalID != nil {
		h.IMDbID = strings.TrimSpace(d.ExternalID.IMDb)
		h.TMDbID = d.ExternalID.TMDb
	}
	return h
}

func (n normalizer) person(p *person) *provider.Person {
	out := &provider.Person{
		ID:           p.ID,
		Name:         provider.FirstNonBlank(p.Name, p.EnName),
		OriginalName: p.EnName,
		PhotoURL:     p.Photo,
		Birthday:     p.Birthday,
		Death:        p.Death,
		Birthplace:   places(p.BirthPlace),
		Deathplace:   places(p.DeathPlace),
		Facts:        provider.NonBlank(values(p.Facts)),
	}
	if len(out.Facts) > 0 {
		out.Overview = strings.Join(out.Facts, "\n")
	}
	for _, pm := range p.Movies {
		if pm.ID <= 0 {
			continue
		}
		out.Movies = append(out.Movies, provider.Credit{MovieID: pm.ID, Role: pm.Description})
	}
	n.logger.Info("person found", "id", out.ID, "name", out.Name)
	return out
}

func (n normalizer) personHit(p *person) provider.SearchHit {
	return provider.SearchHit{
		ID:           p.ID,
		Name:         provider.FirstNonBlank(p.Name, p.EnName),
		OriginalName: p.EnName,
		ImageURL:     p.Photo,
	}
}

func (n normalizer) episode(seasonNumber int, e episode) *provider.Episode {
	out := provider.NewEpisode(provider.PremiereLayout)
	out.SeasonNumber = seasonNumber
	out.EpisodeNumber = e.Number
	out.Name = provider.FirstNonBlank(e.Name, e.EnName)
	out.OriginalName = e.EnName
	out.Overview = e.Description
	out.AirDate = provider.FirstNonBlank(e.Date, e.AirDate)
	return out
}

// matchEpisode finds the season by number, then the episode by its number alone
func matchEpisode(seasons []season, seasonNumber, episodeNumber int) (episode, bool) {
	for _, s := range seasons {
		if s.Number != seasonNumber {
			continue
		}
		for _, e := range s.Episodes {
			if e.Number == episodeNumber {
				return e, true
			}
		}
		return episode{}, false
	}
	return episode{}, false
}

// filterPersons narrows a name search. Lists of zero or one pass through.
// Matches on the cleaned name win; among several, those with a photo are
// preferred. With no match the full list is returned.
func filterPersons(persons []*person, name string) []*person {
	if len(persons) <= 1 {
		return persons
	}
	want := provider.CleanName(name)
	var matched []*person
	for _, p := range persons {
		if want == "" {
			break
		}
		if provider.CleanName(p.Name) == want || provider.CleanName(p.EnName) == want {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return persons
	}
	if len(matched) > 1 {
		withPhoto := slices.DeleteFunc(slices.Clone(matched), func(p *person) bool {
			return strings.TrimSpace(p.Photo) == ""
		})
		if len(withPhoto) > 0 {
			return withPhoto
		}
	}
	return matched
}

// endDate is January 1 of the latest release year end, for finished series
func endDate(ranges []yearRange) *time.Time {
	latest := 0
	for _, r := range ranges {
		if r.End != nil && *r.End > latest {
			latest = *r.End
		}
	}
	if latest == 0 {
		return nil
	}
	t := time.Date(latest, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &t
}

func premiereOf(p *premiere) *provider.Premiere {
	if p == nil {
		return nil
	}
	return &provider.Premiere{
		World:   p.World,
		Russia:  p.Russia,
		Cinema:  p.Cinema,
		Digital: p.Digital,
		Bluray:  p.Bluray,
		Dvd:     p.Dvd,
	}
}

func facts(raw []fact) []provider.Fact {
	out := make([]provider.Fact, 0, len(raw))
	for _, f := range raw {
		out = append(out, provider.Fact{Value: f.Value, Type: f.Type, Spoiler: f.Spoiler})
	}
	return out
}

func names(raw []named) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.Name)
	}
	return out
}

func values(raw []value) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, v.Value)
	}
	return out
}

// places joins location parts with ", " when the first part is present
func places(raw []value) string {
	if len(raw) == 0 || strings.TrimSpace(raw[0].Value) == "" {
		return ""
	}
	return strings.Join(provider.NonBlank(values(raw)), ", ")
}
