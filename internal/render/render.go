// Package render prints resolved records to a terminal.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	activitylog "github.com/Digital-Shane/kinopoisk-meta/internal/log"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/local"
	"github.com/mattn/go-runewidth"
)

const (
	nameColumnWidth = 40
	maxListedPeople = 15
)

func init() {
	// Treat ambiguous-width runes as narrow so Cyrillic and emoji line up
	runewidth.DefaultCondition.EastAsianWidth = false
	runewidth.DefaultCondition.StrictEmojiNeutral = true
}

// Field is one labelled line of a record
type Field struct {
	Label string
	Value string
}

// Renderer writes records to w
type Renderer struct {
	w       io.Writer
	theme   Theme
	sequels bool
}

// Option configures a Renderer
type Option func(*Renderer)

// WithTheme overrides the default theme
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithSequels lists sequels and prequels as a collection under each title
func WithSequels(enabled bool) Option {
	return func(r *Renderer) {
		r.sequels = enabled
	}
}

// New creates a Renderer writing to w
func New(w io.Writer, opts ...Option) *Renderer {
	r := &Renderer{w: w, theme: NewTheme()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fields prints a title followed by aligned non-empty fields
func (r *Renderer) Fields(title string, fields []Field) {
	if title != "" {
		fmt.Fprintln(r.w, r.theme.HeaderStyle().Render(title))
	}

	width := 0
	for _, f := range fields {
		if f.Value != "" {
			width = max(width, runewidth.StringWidth(f.Label))
		}
	}
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		label := r.theme.LabelStyle().Render(runewidth.FillRight(f.Label, width))
		fmt.Fprintf(r.w, "  %s  %s\n", label, f.Value)
	}
}

// Overview prints long text inside a panel
func (r *Renderer) Overview(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	fmt.Fprintln(r.w, r.theme.PanelStyle().Width(80).Render(text))
}

// Notice prints a one-line status badge followed by msg
func (r *Renderer) Notice(kind BadgeKind, badge, msg string) {
	fmt.Fprintf(r.w, "%s %s\n", r.theme.BadgeStyle(kind).Render(badge), msg)
}

// NotFound reports that the provider had no metadata
func (r *Renderer) NotFound(what string) {
	r.Notice(BadgeMuted, "none", "no metadata found for "+what)
}

// Movie prints a full title record
func (r *Renderer) Movie(m *provider.Movie) {
	icon := r.theme.Icon("movie")
	if m.Kind == provider.MediaKindSeries {
		icon = r.theme.Icon("series")
	}

	r.Fields(strings.TrimSpace(icon+" "+titleLine(m.Name, m.Year)), []Field{
		{"Original", originalName(m.Name, m.OriginalName)},
		{"Kinopoisk", provider.FormatID(m.ID)},
		{"IMDb", m.IMDbID},
		{"TMDb", int64Ptr(m.TMDbID)},
		{"Rating", ratingText(m.Rating)},
		{"Top 250", intPtr(m.Top250)},
		{"Runtime", minutes(m.Runtime)},
		{"Age rating", m.ContentRating},
		{"Premiere", datePtr(m.Premiere)},
		{"Ended", datePtr(m.EndDate)},
		{"Genres", strings.Join(m.Genres, ", ")},
		{"Countries", strings.Join(m.Countries, ", ")},
		{"Studios", strings.Join(m.Studios, ", ")},
		{"Tagline", m.Tagline},
		{"Poster", m.ImageURL},
	})
	r.Overview(m.Overview)
	r.people(m.People)

	if len(m.Trailers) > 0 {
		r.Fields("Trailers", listFields(m.Trailers))
	}
	if r.sequels && len(m.Sequels) > 0 {
		fields := make([]Field, 0, len(m.Sequels))
		for _, s := range m.Sequels {
			fields = append(fields, Field{provider.FormatID(s.ID), s.Name})
		}
		r.Fields(r.theme.Icon("link")+" Collection", fields)
	}
}

func (r *Renderer) people(people []provider.CastMember) {
	if len(people) == 0 {
		return
	}
	shown := people
	if len(shown) > maxListedPeople {
		shown = shown[:maxListedPeople]
	}

	fields := make([]Field, 0, len(shown))
	for _, p := range shown {
		value := p.Name
		if p.Role != "" {
			value += " (" + p.Role + ")"
		}
		fields = append(fields, Field{p.Type.Label(), value})
	}
	if rest := len(people) - len(shown); rest > 0 {
		fields = append(fields, Field{"", fmt.Sprintf("… and %d more", rest)})
	}
	r.Fields("People", fields)
}

// Episode prints one episode record
func (r *Renderer) Episode(e *provider.Episode) {
	title := fmt.Sprintf("%s S%02dE%02d %s", r.theme.Icon("episode"), e.SeasonNumber, e.EpisodeNumber, e.Name)
	airDate := e.AirDate
	if t, ok := e.PremiereDate(); ok {
		airDate = t.Format("2006-01-02")
	}
	r.Fields(strings.TrimSpace(title), []Field{
		{"Original", originalName(e.Name, e.OriginalName)},
		{"Air date", airDate},
	})
	r.Overview(e.Overview)
}

// Person prints one person record
func (r *Renderer) Person(p *provider.Person) {
	birthday := p.Birthday
	if t, ok := p.BirthDate(); ok {
		birthday = t.Format("2006-01-02")
	}
	death := p.Death
	if t, ok := p.DeathDate(); ok {
		death = t.Format("2006-01-02")
	}

	r.Fields(strings.TrimSpace(r.theme.Icon("person")+" "+p.Name), []Field{
		{"Original", originalName(p.Name, p.OriginalName)},
		{"Kinopoisk", provider.FormatID(p.ID)},
		{"Born", joinNonEmpty(", ", birthday, p.Birthplace)},
		{"Died", joinNonEmpty(", ", death, p.Deathplace)},
		{"Photo", p.PhotoURL},
		{"Titles", strconv.Itoa(len(p.Movies))},
	})
	r.Overview(p.Overview)
}

// Hits prints search candidates as a table
func (r *Renderer) Hits(hits []provider.SearchHit) {
	if len(hits) == 0 {
		r.NotFound("the query")
		return
	}
	for _, h := range hits {
		name := titleLine(h.Name, h.Year)
		if orig := originalName(h.Name, h.OriginalName); orig != "" {
			name += " / " + orig
		}
		fmt.Fprintf(r.w, "%10d  %s  %s\n", h.ID, column(name), h.IMDbID)
	}
}

// Movies prints a compact list of titles
func (r *Renderer) Movies(movies []*provider.Movie) {
	for _, m := range movies {
		rank := ""
		if m.Top250 != nil {
			rank = fmt.Sprintf("#%d", *m.Top250)
		}
		fmt.Fprintf(r.w, "%5s %10d  %s  %s\n", rank, m.ID, column(titleLine(m.Name, m.Year)), ratingText(m.Rating))
	}
}

// IDMappings prints external identifiers next to the Kinopoisk IDs they resolve to
func (r *Renderer) IDMappings(mappings []provider.IDMapping) {
	width := 0
	for _, m := range mappings {
		width = max(width, runewidth.StringWidth(m.ExternalID))
	}
	for _, m := range mappings {
		fmt.Fprintf(r.w, "%s  →  %d\n", runewidth.FillRight(m.ExternalID, width), m.KinopoiskID)
	}
}

// Images prints artwork URLs labelled by slot
func (r *Renderer) Images(images []provider.Image) {
	if len(images) == 0 {
		r.NotFound("images")
		return
	}
	fields := make([]Field, 0, len(images))
	for _, img := range images {
		fields = append(fields, Field{string(img.Kind), img.URL})
	}
	r.Fields(r.theme.Icon("image")+" Images", fields)
}

// Detection prints what a path reveals before any lookup
func (r *Renderer) Detection(d *local.Detection) {
	fields := []Field{
		{"Path", d.Path},
		{"Kind", string(d.Kind)},
		{"Name", d.Name},
		{"Year", intPtr(d.Year)},
	}
	if d.KinopoiskID > 0 {
		fields = append(fields, Field{"Kinopoisk", provider.FormatID(d.KinopoiskID)})
	}
	if d.Kind == local.KindEpisode || d.Kind == local.KindSeason {
		fields = append(fields, Field{"Season", strconv.Itoa(d.Season)})
	}
	if d.Kind == local.KindEpisode {
		fields = append(fields, Field{"Episode", strconv.Itoa(d.Episode)})
	}
	r.Fields("Detected", fields)
}

// Sessions prints activity log sessions with their events
func (r *Renderer) Sessions(summaries []activitylog.SessionSummary) {
	if len(summaries) == 0 {
		r.Notice(BadgeSuccess, "ok", "no recorded upstream failures")
		return
	}
	for _, s := range summaries {
		header := fmt.Sprintf("%s %s  %s", s.Icon, strings.Join(s.Session.Metadata.CommandArgs, " "), s.RelativeTime)
		fields := make([]Field, 0, len(s.Session.Events))
		for _, ev := range s.Session.Events {
			fields = append(fields, Field{ev.Provider, ev.ShortOverview + ": " + ev.Overview})
		}
		r.Fields(header, fields)
	}
}

// column pads or truncates s to the name column width
func column(s string) string {
	if runewidth.StringWidth(s) > nameColumnWidth {
		return runewidth.Truncate(s, nameColumnWidth, "…")
	}
	return runewidth.FillRight(s, nameColumnWidth)
}

func titleLine(name string, year *int) string {
	if year == nil {
		return name
	}
	return fmt.Sprintf("%s (%d)", name, *year)
}

func originalName(name, original string) string {
	if original == name {
		return ""
	}
	return original
}

func listFields(values []string) []Field {
	fields := make([]Field, 0, len(values))
	for i, v := range values {
		fields = append(fields, Field{strconv.Itoa(i + 1), v})
	}
	return fields
}

func joinNonEmpty(sep string, values ...string) string {
	kept := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, sep)
}

func ratingText(rating *float64) string {
	if rating == nil {
		return ""
	}
	return strconv.FormatFloat(*rating, 'f', 1, 64)
}

func intPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func int64Ptr(v *int64) string {
	if v == nil || *v <= 0 {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func datePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func minutes(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d min", *v)
}
