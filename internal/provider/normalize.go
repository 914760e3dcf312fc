package provider

import (
	"slices"
	"strings"
)

const (
	youtubeWatch = "https://www.youtube.com/watch?v="
	factsHeader  = "<br/><br/><b>Интересное:</b><br/>"
	factIndent   = "&nbsp;&nbsp;&nbsp;&nbsp;* "
)

var youtubeEmbedPrefixes = []string{
	"https://www.youtube.com/embed/",
	"https://www.youtube.com/v/",
}

// NormalizeTrailers keeps YouTube links, rewrites embed and /v/ links into
// watch links and reverses the list so the preferred trailer comes first.
func NormalizeTrailers(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if !strings.Contains(strings.ToLower(u), "youtube") {
			continue
		}
		out = append(out, canonicalYouTubeURL(u))
	}
	slices.Reverse(out)
	return out
}

func canonicalYouTubeURL(u string) string {
	for _, prefix := range youtubeEmbedPrefixes {
		if len(u) >= len(prefix) && strings.EqualFold(u[:len(prefix)], prefix) {
			return youtubeWatch + u[len(prefix):]
		}
	}
	return u
}

// Fact is a piece of title trivia
type Fact struct {
	Value   string
	Type    string
	Spoiler bool
}

// PrepareOverview appends non-spoiler facts of type FACT to description as an
// HTML bullet list. Without qualifying facts description is returned as-is.
func PrepareOverview(description string, facts []Fact) string {
	var b strings.Builder
	for _, f := range facts {
		if f.Spoiler || !strings.EqualFold(f.Type, "FACT") {
			continue
		}
		if b.Len() == 0 {
			b.WriteString(factsHeader)
		}
		b.WriteString(factIndent)
		b.WriteString(f.Value)
		b.WriteString("<br/>")
	}
	if b.Len() == 0 {
		return description
	}
	return description + b.String()
}

// NonBlank drops empty and whitespace-only names
func NonBlank(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			out = append(out, n)
		}
	}
	return out
}

// FirstNonBlank returns the first argument that is not blank
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var personTypes = map[string]PersonType{
	// kinopoisk.dev enProfession / profession
	"composer":       PersonComposer,
	"designer":       PersonArtDirector,
	"director":       PersonDirector,
	"editor":         PersonEditor,
	"operator":       PersonCinematographer,
	"producer":       PersonProducer,
	"voice_actor":    PersonVoiceActor,
	"writer":         PersonWriter,
	"actor":          PersonActor,
	"композиторы":    PersonComposer,
	"художники":      PersonArtDirector,
	"режиссеры":      PersonDirector,
	"монтажеры":      PersonEditor,
	"операторы":      PersonCinematographer,
	"продюсеры":      PersonProducer,
	"актеры дубляжа": PersonVoiceActor,
	"редакторы":      PersonWriter,
	"актеры":         PersonActor,

	// kinopoiskapiunofficial.tech professionKey / professionText
	"COMPOSER":    PersonComposer,
	"DESIGN":      PersonArtDirector,
	"DIRECTOR":    PersonDirector,
	"EDITOR":      PersonEditor,
	"OPERATOR":    PersonCinematographer,
	"PRODUCER":    PersonProducer,
	"WRITER":      PersonWriter,
	"ACTOR":       PersonActor,
	"Композиторы": PersonComposer,
	"Художники":   PersonArtDirector,
	"Режиссеры":   PersonDirector,
	"Монтажеры":   PersonEditor,
	"Операторы":   PersonCinematographer,
	"Продюсеры":   PersonProducer,
	"Сценаристы":  PersonWriter,
	"Актеры":      PersonActor,
}

var personTypeLabels = map[PersonType]string{
	PersonComposer:        "Композитор",
	PersonArtDirector:     "Художник",
	PersonDirector:        "Режиссёр",
	PersonEditor:          "Монтажёр",
	PersonCinematographer: "Оператор",
	PersonProducer:        "Продюсер",
	PersonVoiceActor:      "Актёр дубляжа",
	PersonWriter:          "Сценарист",
	PersonActor:           "Актёр",
}

// PersonTypeFor maps a raw profession, trying each candidate in order.
// The second result is false when none of them is known.
func PersonTypeFor(professions ...string) (PersonType, bool) {
	for _, p := range professions {
		if t, ok := personTypes[p]; ok {
			return t, true
		}
	}
	return "", false
}

// Label returns the Russian display label of the person type
func (t PersonType) Label() string {
	return personTypeLabels[t]
}
