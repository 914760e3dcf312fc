package provider

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nonAlphaNumeric = regexp.MustCompile(`[^а-яёА-ЯЁa-zA-Z0-9\s]`)

// PremiereLayout is the strict timestamp format used by premiere and release fields
const PremiereLayout = "2006-01-02T15:04:05.000Z"

// Candidate is anything the name/year matcher can compare against a target
type Candidate interface {
	MatchNames() (name, alternativeName string)
	MatchYear() *int
}

// CleanName reduces a title to its comparison key: punctuation becomes
// whitespace, whitespace runs collapse, the result is trimmed and lower-cased.
// Cyrillic and Latin letters are kept as-is, so "ё" and "е" stay distinct.
func CleanName(name string) string {
	if name == "" {
		return ""
	}
	cleaned := nonAlphaNumeric.ReplaceAllString(name, " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return cases.Lower(language.Russian).String(cleaned)
}

// FilterRelevant narrows a multi-item candidate list to entries whose cleaned
// name or alternative name equals the cleaned target name or alternative name,
// and whose year equals year when year is set. When nothing survives the
// original list is returned. Lists of zero or one item pass through.
func FilterRelevant[T Candidate](items []T, name string, year *int, alternativeName string) []T {
	if len(items) <= 1 {
		return items
	}

	targets := cleanedSet(name, alternativeName)
	relevant := make([]T, 0, len(items))
	for _, item := range items {
		itemName, itemAlt := item.MatchNames()
		if !targets[CleanName(itemName)] && !targets[CleanName(itemAlt)] {
			continue
		}
		if year != nil {
			itemYear := item.MatchYear()
			if itemYear == nil || *itemYear != *year {
				continue
			}
		}
		relevant = append(relevant, item)
	}

	if len(relevant) == 0 {
		return items
	}
	return relevant
}

// cleanedSet holds the non-empty comparison keys of the given names
func cleanedSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		if key := CleanName(n); key != "" {
			set[key] = true
		}
	}
	return set
}

// PickBest applies the tie-break used when exactly one title is required but
// several candidates remain: the highest rated wins, otherwise the first.
func PickBest(movies []*Movie) *Movie {
	if len(movies) == 0 {
		return nil
	}
	var best *Movie
	for _, m := range movies {
		if m == nil || m.Rating == nil {
			continue
		}
		if best == nil || *m.Rating > *best.Rating {
			best = m
		}
	}
	if best != nil {
		return best
	}
	return movies[0]
}

// Premiere holds the optional release-event dates of a title
type Premiere struct {
	World   string
	Russia  string
	Cinema  string
	Digital string
	Bluray  string
	Dvd     string
}

// ResolvePremiere returns the first date that parses strictly, in priority
// order world, russia, cinema, digital, bluray, dvd.
func ResolvePremiere(p *Premiere) *time.Time {
	if p == nil {
		return nil
	}
	for _, raw := range []string{p.World, p.Russia, p.Cinema, p.Digital, p.Bluray, p.Dvd} {
		if raw == "" {
			continue
		}
		if t, err := time.Parse(PremiereLayout, raw); err == nil {
			return &t
		}
	}
	return nil
}

var looseDateLayouts = []string{
	PremiereLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006",
}

// ParseLooseDate accepts the handful of date shapes Kinopoisk uses for people and episodes
func ParseLooseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range looseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatID renders a numeric Kinopoisk ID as a provider-ID tag
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseID parses a provider-ID tag; zero and negative values are rejected
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// IntPtr is a small helper for optional integer fields
func IntPtr(v int) *int {
	return &v
}
