package dev

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
	"github.com/Digital-Shane/kinopoisk-meta/internal/provider/upstream"
	"github.com/google/go-cmp/cmp"
)

// stubAPI serves canned bodies keyed by path plus canonical query and records every hit
type stubAPI struct {
	t      *testing.T
	mu     sync.Mutex
	routes map[string]string
	status map[string]int
	hits   []string
}

func newStubAPI(t *testing.T) *stubAPI {
	return &stubAPI{t: t, routes: map[string]string{}, status: map[string]int{}}
}

func routeKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

func (s *stubAPI) on(path string, query url.Values, body string) {
	s.routes[routeKey(path, query)] = body
}

func (s *stubAPI) fail(path string, query url.Values, status int, body string) {
	key := routeKey(path, query)
	s.routes[key] = body
	s.status[key] = status
}

func (s *stubAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := routeKey(r.URL.Path, r.URL.Query())
	s.mu.Lock()
	s.hits = append(s.hits, key)
	s.mu.Unlock()

	if r.Header.Get("X-API-KEY") != "test-token" {
		s.t.Errorf("request %s without API key", key)
	}
	body, ok := s.routes[key]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"statusCode":404,"message":"route not stubbed","error":"Not Found"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if status, failed := s.status[key]; failed {
		w.WriteHeader(status)
	}
	fmt.Fprint(w, body)
}

func (s *stubAPI) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.hits...)
}

type memoryRecorder struct {
	mu     sync.Mutex
	events []provider.ActivityEvent
}

func (m *memoryRecorder) Record(e provider.ActivityEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func newTestService(t *testing.T, stub http.Handler, token string, opts ...upstream.Option) *Service {
	t.Helper()
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	client := NewClient(func() string { return token }, opts...)
	return New(client, WithBaseURL(server.URL))
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return string(data)
}

func searchQuery(fields map[string]string) url.Values {
	q := url.Values{"limit": {searchLimit}, "selectFields": {movieFields}}
	for k, v := range fields {
		q.Set(k, v)
	}
	return q
}

func rolesQuery(movieID string) url.Values {
	return url.Values{"movies.id": {movieID}, "selectFields": {"id movies"}, "limit": {bulkLimit}}
}

const greenMile = `{
	"id": 435,
	"externalId": {"imdb": "tt0120689", "tmdb": 497},
	"name": "Зеленая миля",
	"alternativeName": "The Green Mile",
	"typeNumber": 1,
	"year": 1999,
	"description": "Пол Эджкомб — начальник блока смертников.",
	"slogan": "Пол Эджкомб не верил в чудеса",
	"rating": {"kp": 9.1},
	"movieLength": 189,
	"ratingMpaa": "r",
	"poster": {"url": "https://image.openmoviedb.com/poster/435", "previewUrl": "https://image.openmoviedb.com/poster/435-preview"},
	"backdrop": {"url": "https://image.openmoviedb.com/backdrop/435", "previewUrl": ""},
	"logo": {"url": ""},
	"videos": {
		"trailers": [
			{"url": "https://www.youtube.com/embed/trailer1", "site": "youtube"},
			{"url": "https://www.youtube.com/embed/trailer2", "site": "youtube"}
		],
		"teasers": [
			{"url": "https://www.youtube.com/v/teaser1", "site": "youtube"},
			{"url": "https://widgets.kinopoisk.ru/teaser", "site": "kinopoisk"}
		]
	},
	"genres": [{"name": "драма"}, {"name": ""}],
	"countries": [{"name": "США"}],
	"productionCompanies": [{"name": "Castle Rock Entertainment"}, {"name": " "}],
	"persons": [
		{"id": 9144, "name": "Том Хэнкс", "enName": "Tom Hanks", "description": "Paul", "profession": "актеры", "enProfession": "actor"},
		{"id": 24262, "name": "Фрэнк Дарабонт", "profession": "режиссеры", "enProfession": "director"},
		{"id": 1, "name": "", "enName": "", "enProfession": "actor"},
		{"id": 2, "name": "Сам себя", "profession": "в титрах не указаны", "enProfession": "uncredited"}
	],
	"premiere": {"world": "1999-12-06T00:00:00.000Z", "russia": "2000-04-18T00:00:00.000Z"},
	"facts": [
		{"value": "Снимали 6 месяцев", "type": "FACT", "spoiler": false},
		{"value": "Коффи выживает", "type": "FACT", "spoiler": true},
		{"value": "Ошибка монтажа", "type": "BLOOPER", "spoiler": false}
	],
	"sequelsAndPrequels": [{"id": 0, "name": "skip"}, {"id": 326, "name": "", "alternativeName": "The Shawshank Redemption"}],
	"top250": 1,
	"releaseYears": []
}`

func TestGetMovieMetadataByKinopoiskID(t *testing.T) {
	stub := newStubAPI(t)
	stub.on("/v1.3/movie/435", nil, greenMile)
	stub.on("/v1/person", rolesQuery("435"), `{"docs":[
		{"id": 9144, "movies": [{"id": 1, "description": "Forrest"}, {"id": 435, "description": ""}, {"id": 435, "description": "Paul Edgecomb"}]},
		{"id": 9144, "movies": [{"id": 435, "description": "Ignored duplicate"}]},
		{"id": 24262, "movies": [{"id": 435, "description": ""}]}
	]}`)

	svc := newTestService(t, stub, "test-token")
	m, err := svc.GetMovieMetadata(context.Background(), provider.MovieQuery{IDs: provider.ProviderIDs{Kinopoisk: "435"}})
	if err != nil || m == nil {
		t.Fatalf("GetMovieMetadata() = (%v, %v), want record", m, err)
	}

	if m.Name != "Зеленая миля" || m.OriginalName != "The Green Mile" {
		t.Errorf("names = (%q, %q)", m.Name, m.OriginalName)
	}
	if m.Rating == nil || *m.Rating != 9.1 {
		t.Errorf("Rating = %v, want 9.1", m.Rating)
	}
	if m.TMDbID == nil || *m.TMDbID != 497 {
		t.Errorf("TMDbID = %v, want 497", m.TMDbID)
	}
	if got := m.ProviderIDs(); got != (provider.ProviderIDs{Kinopoisk: "435", IMDb: "tt0120689", TMDb: "497"}) {
		t.Errorf("ProviderIDs() = %+v", got)
	}
	if m.Top250 == nil || *m.Top250 != 1 {
		t.Errorf("Top250 = %v, want 1", m.Top250)
	}
	if m.EndDate != nil {
		t.Errorf("EndDate = %v, want nil", m.EndDate)
	}
	wantPremiere := time.Date(1999, time.December, 6, 0, 0, 0, 0, time.UTC)
	if m.Premiere == nil || !m.Premiere.Equal(wantPremiere) {
		t.Errorf("Premiere = %v, want %v", m.Premiere, wantPremiere)
	}

	if diff := cmp.Diff([]string{"драма"}, m.Genres); diff != "" {
		t.Errorf("Genres mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Castle Rock Entertainment"}, m.Studios); diff != "" {
		t.Errorf("Studios mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]provider.Link{{ID: 326, Name: "The Shawshank Redemption"}}, m.Sequels); diff != "" {
		t.Errorf("Sequels mismatch (-want +got):\n%s", diff)
	}

	wantOverview := "Пол Эджкомб — начальник блока смертников." +
		"<br/><br/><b>Интересное:</b><br/>&nbsp;&nbsp;&nbsp;&nbsp;* Снимали 6 месяцев<br/>"
	if m.Overview != wantOverview {
		t.Errorf("Overview = %q, want %q", m.Overview, wantOverview)
	}

	wantPeople := []provider.CastMember{
		{ID: 9144, Name: "Том Хэнкс", Role: "Paul Edgecomb", Type: provider.PersonActor},
		{ID: 24262, Name: "Фрэнк Дарабонт", Type: provider.PersonDirector},
	}
	if diff := cmp.Diff(wantPeople, m.People); diff != "" {
		t.Errorf("People mismatch (-want +got):\n%s", diff)
	}

	wantTrailers := []string{
		"https://www.youtube.com/watch?v=teaser1",
		"https://www.youtube.com/watch?v=trailer2",
		"https://www.youtube.com/watch?v=trailer1",
	}
	if diff := cmp.Diff(wantTrailers, m.Trailers); diff != "" {
		t.Errorf("Trailers mismatch (-want +got):\n%s", diff)
	}

	wantImages := []provider.Image{
		{URL: "https://image.openmoviedb.com/backdrop/435", Kind: provider.ImageBackdrop, Language: "ru"},
		{
			URL:          "https://image.openmoviedb.com/poster/435",
			ThumbnailURL: "https://image.openmoviedb.com/poster/435-preview",
			Kind:         provider.ImagePrimary,
			Language:     "ru",
		},
	}
	if diff := cmp.Diff(wantImages, m.Images); diff != "" {
		t.Errorf("Images mismatch (-want +got):\n%s", diff)
	}
}

func TestRolesFallBackToInlineDescription(t *testing.T) {
	stub := newStubAPI(t)
	stub.on("/v1.3/movie/435", nil, greenMile)

	svc := newTestService(t, stub, "test-token")
	m, err := svc.GetMovieMetadata(context.Background(), provider.MovieQuery{IDs: provider.ProviderIDs{Kinopoisk: "435"}})
	if err != nil || m == nil {
		t.Fatalf("GetMovieMetadata() = (%v, %v), want record", m, err)
	}
	if len(m.People) == 0 || m.People[0].Role != "Paul" {
		t.Errorf("People = %+v, want inline role for the first actor", m.People)
	}
}

func TestSearchFallbackOrder(t *testing.T) {
	stub := newStubAPI(t)
	empty := `{"docs":[],"total":0}`
	nameYear := searchQuery(map[string]string{"name": "зеленая миля", "year": "1999"})
	nameOnly := searchQuery(map[string]string{"name": "зеленая миля"})
	altYear := searchQuery(map[string]string{"alternativeName": "зеленая миля", "year": "1999"})
	altOnly := searchQuery(map[string]string{"alternativeName": "зеленая миля"})
	stub.on("/v1.3/movie", nameYear, empty)
	stub.on("/v1.3/movie", nameOnly, empty)
	stub.on("/v1.3/movie", altYear, empty)
	stub.on("/v1.3/movie", altOnly, `{"docs":[`+greenMile+`]}`)

	svc := newTestService(t, stub, "test-token")
	m, err := svc.GetMovieMetadata(context.Background(), provider.MovieQuery{Name: "Зеленая миля!", Year: provider.IntPtr(1999)})
	if err != nil || m == nil {
		t.Fatalf("GetMovieMetadata() = (%v, %v), want record", m, err)
	}

	want := []string{
		routeKey("/v1.3/movie", nameYear),
		routeKey("/v1.3/movie", nameOnly),
		routeKey("/v1.3/movie", altYear),
		routeKey("/v1.3/movie", altOnly),
		routeKey("/v1/person", rolesQuery("435")),
	}
	if diff := cmp.Diff(want, stub.calls()); diff != "" {
		t.Errorf("request order mismatch (-want +got):\n%s", diff)
	}
}

func TestNameSearchMustNarrowToOne(t *testing.T) {
	query := searchQuery(map[string]string{"name": "зеленая миля", "year": "1999"})
	docs := `{"docs":[
		{"id": 435, "name": "Зеленая миля", "year": 1999},
		{"id": 436, "name": "Зелёная миля", "year": 1999},
		{"id": 437, "name": "Зеленая миля", "year": 1999}
	]}`

	stub := newStubAPI(t)
	stub.on("/v1.3/movie", query, docs)
	svc := newTestService(t, stub, "test-token")

	m, err := svc.GetMovieMetadata(context.Background(), provider.MovieQuery{Name: "Зеленая миля", Year: provider.IntPtr(1999)})
	if err != nil {
		t.Fatalf("GetMovieMetadata() error = %v", err)
	}
	if m != nil {
		t.Errorf("GetMovieMetadata() = %d, want nil for two relevant candidates", m.ID)
	}

	result, err := svc.GetMoviesByOriginalNameAndYear(context.Background(), "Зеленая миля", provider.IntPtr(1999))
	if err != nil {
		t.Fatalf("GetMoviesByOriginalNameAndYear() error = %v", err)
	}
	var ids []int64
	for _, item := range result.Items {
		ids = append(ids, item.ID)
	}
	if diff := cmp.Diff([]int64{435, 437}, ids); diff != "" {
		t.Errorf("relevant IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMovieMetadataByExternalID(t *testing.T) {
	t.Run("IMDb", func(t *testing.T) {
		stub := newStubAPI(t)
		stub.on("/v1.3/movie", url.Values{
			"selectFields":    {"externalId.imdb id"},
			"limit":           {bulkLimit},
			"externalId.imdb": {"tt0120689"},
		}, `{"docs":[{"id":435,"externalId":{"imdb":"tt0120689"}}]}`)
		stub.on("/v1.3/movie/435", nil, greenMile)

		svc := newTestService(t, stub, "test-token")
		m, err := svc.GetMovieMetadata(context.Background(), provider.MovieQuery{IDs: provider.ProviderIDs{IMDb: "tt0120689"}})
		if err != nil || m == nil {
			t.Fatalf("GetMovieMetadata() = (%v, %v), want record", m, err)
		}
		if m.ID != 435 {
			t.Errorf("ID = %d, want 435", m.ID)
		}
	})

	t.Run("TMDbAfterUnknownIMDb", func(t *testing.T) {
		stub := newStubAPI(t)
		stub.on("/v1.3/movie", url.Values{
			"selectFields":    {"externalId.imdb id"},
			"limit":           {bulkLimit},
			"externalId.imdb": {"tt0000000"},
		}, `{"docs":[]}`)
		stub.on("/v1.3/movie", url.Values{
			"selectFields":    {"externalId.tmdb id"},
			"limit":           {bulkLimit},
			"externalId.tmdb": {"497"},
		}, `{"docs":[{"id":435,"externalId":{"tmdb":497}}]}`)
		stub.on("/v1.3/movie/435", nil, greenMile)

		svc := newTestService(t, stub, "test-token")
		m, err := svc.GetSeriesMetadata(context.Background(), provider.MovieQuery{IDs: provider.ProviderIDs{IMDb: "tt0000000", TMDb: "497"}})
		if err != nil || m == nil {
			t.Fatalf("GetSeriesMetadata() = (%v, %v), want record", m, err)
		}
		if m.Kind != provider.MediaKindSeries {
			t.Errorf("Kind = %q, want series", m.Kind)
		}
	})
}

func TestGetKpIDByAnotherID(t *testing.T) {
	stub := newStubAPI(t)
	stub.on("/v1.3/movie", url.Values{
		"selectFields":    {"externalId.tmdb id"},
		"limit":           {bulkLimit},
		"externalId.tmdb": {"497", "278", "0"},
	}, `{"docs":[
		{"id": 435, "externalId": {"tmdb": 497}},
		{"id": 999, "externalId": {"tmdb": 497}},
		{"id": 326, "externalId": {"tmdb": 278}},
		{"id": 5, "externalId": {"tmdb": 0}},
		{"id": 6}
	]}`)

	svc := newTestService(t, stub, "test-token")
	got, err := svc.GetKpIDByAnotherID(context.Background(), provider.SourceTMDb, []string{"497", "278", "0"})
	if err != nil {
		t.Fatalf("GetKpIDByAnotherID() error = %v", err)
	}
	want := provider.SearchResult[provider.IDMapping]{Items: []provider.IDMapping{
		{ExternalID: "497", KinopoiskID: 435},
		{ExternalID: "278", KinopoiskID: 326},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetKpIDByAnotherID() mismatch (-want +got):\n%s", diff)
	}

	failed, err := svc.GetKpIDByAnotherID(context.Background(), provider.SourceIMDb, []string{"tt404"})
	if err != nil {
		t.Fatalf("GetKpIDByAnotherID() error = %v", err)
	}
	if !failed.HasError || len(failed.Items) != 0 {
		t.Errorf("GetKpIDByAnotherID() = %+v, want HasError with no items", failed)
	}
}

func TestTop250SplitsByType(t *testing.T) {
	stub := newStubAPI(t)
	stub.on("/v1.3/movie", url.Values{
		"limit":        {bulkLimit},
		"top250":       {"!null"},
		"selectFields": {top250Fields},
	}, `{"docs":[
		{"id": 435, "name": "Зеленая миля", "typeNumber": 1, "top250": 1},
		{"id": 464963, "name": "Игра престолов", "typeNumber": 2, "top250": 2},
		{"id": 370, "name": "Король Лев", "typeNumber": 3, "top250": 3},
		{"id": 258687, "name": "Интерстеллар", "typeNumber": 1, "top250": 4},
		{"id": 1, "name": "Без типа", "top250": 5},
		{"id": 77044, "name": "Друзья", "typeNumber": 5, "top250": 6},
		{"id": 81314, "name": "Унесённые призраками", "typeNumber": 4, "top250": 7}
	]}`)

	svc := newTestService(t, stub, "test-token")
	ids := func(r provider.SearchResult[*provider.Movie]) []int64 {
		var out []int64
		for _, m := range r.Items {
			out = append(out, m.ID)
		}
		return out
	}

	movies, err := svc.GetTop250Movies(context.Background())
	if err != nil {
		t.Fatalf("GetTop250Movies() error = %v", err)
	}
	if diff := cmp.Diff([]int64{435, 370, 258687, 81314}, ids(movies)); diff != "" {
		t.Errorf("movies mismatch (-want +got):\n%s", diff)
	}

	series, err := svc.GetTop250Series(context.Background())
	if err != nil {
		t.Fatalf("GetTop250Series() error = %v", err)
	}
	if diff := cmp.Diff([]int64{464963, 1, 77044}, ids(series)); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
	for _, m := range series.Items {
		if m.Kind != provider.MediaKindSeries {
			t.Errorf("series %d has kind %q", m.ID, m.Kind)
		}
	}
}

func TestTop250FailureSetsHasError(t *testing.T) {
	svc := newTestService(t, newStubAPI(t), "test-token")
	got, err := svc.GetTop250Movies(context.Background())
	if err != nil {
		t.Fatalf("GetTop250Movies() error = %v", err)
	}
	if !got.HasError {
		t.Error("GetTop250Movies() HasError = false for an unreachable list")
	}
}

func TestGetMoviesByIDs(t *testing.T) {
	stub := newStubAPI(t)
	stub.on("/v1.3/movie", url.Values{
		"id":           {"435", "326"},
		"limit":        {"2"},
		"selectFields": {movieFields},
	}, `{"docs":[`+greenMile+`,{"id":326,"name":"Побег из Шоушенка","year":1994}]}`)

	svc := newTestService(t, stub, "test-token")
	got, err := svc.GetMoviesByIDs(context.Background(), []int64{435, 326})
	if err != nil {
		t.Fatalf("GetMoviesByIDs() error = %v", err)
	}
	if got.HasError || len(got.Items) != 2 {
		t.Fatalf("GetMoviesByIDs() = %+v, want two items", got)
	}
	if got.Items[1].Name != "Побег из Шоушенка" {
		t.Errorf("second item = %q", got.Items[1].Name)
	}
}

func TestGetEpisodeMetadata(t *testing.T) {
	var seasons []season
	for n := 1; n <= 10; n++ {
		s := season{MovieID: 77044, Number: n}
		count := 24
		if n > 1 {
			count = 10
		}
		for e := 1; e <= count; e++ {
			s.Episodes = append(s.Episodes, episode{
				Number: e,
				Name:   fmt.Sprintf("Эпизод %d.%d", n, e),
				EnName: fmt.Sprintf("The One %d.%d", n, e),
				Date:   fmt.Sprintf("%d-09-22T00:00:00.000Z", 1993+n),
			})
		}
		seasons = append(seasons, s)
	}
	body := mustJSON(t, searchResult[season]{Docs: seasons, Total: len(seasons)})

	stub := newStubAPI(t)
	stub.on("/v1/season", url.Values{"movieId": {"77044"}, "limit": {searchLimit}}, body)
	svc := newTestService(t, stub, "test-token")

	query := provider.EpisodeQuery{SeriesIDs: provider.ProviderIDs{Kinopoisk: "77044"}, Season: 1, Episode: 24}
	e, err := svc.GetEpisodeMetadata(context.Background(), query)
	if err != nil || e == nil {
		t.Fatalf("GetEpisodeMetadata() = (%v, %v), want episode", e, err)
	}
	if e.SeasonNumber != 1 || e.EpisodeNumber != 24 || e.Name != "Эпизод 1.24" || e.OriginalName != "The One 1.24" {
		t.Errorf("episode = %+v", e)
	}
	aired, ok := e.PremiereDate()
	if !ok || !aired.Equal(time.Date(1994, time.September, 22, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PremiereDate() = (%v, %v)", aired, ok)
	}

	for _, missing := range []provider.EpisodeQuery{
		{SeriesIDs: query.SeriesIDs, Season: 2, Episode: 24},
		{SeriesIDs: query.SeriesIDs, Season: 11, Episode: 1},
		{SeriesIDs: query.SeriesIDs, Season: 1, Episode: 0},
		{Season: 1, Episode: 1},
	} {
		e, err := svc.GetEpisodeMetadata(context.Background(), missing)
		if err != nil || e != nil {
			t.Errorf("GetEpisodeMetadata(%+v) = (%v, %v), want nil", missing, e, err)
		}
	}
}

func TestEpisodeAirDateFallsBackToAirDate(t *testing.T) {
	stub := newStubAPI(t)
	stub.on("/v1/season", url.Values{"movieId": {"1"}, "limit": {searchLimit}},
		`{"docs":[{"movieId":1,"number":0,"episodes":[{"number":1,"name":"Спецвыпуск","airDate":"2020-01-01T00:00:00.000Z"}]}]}`)
	svc := newTestService(t, stub, "test-token")

	e, err := svc.GetEpisodeMetadata(context.Background(), provider.EpisodeQuery{
		SeriesIDs: provider.ProviderIDs{Kinopoisk: "1"},
		Season:    0,
		Episode:   1,
	})
	if err != nil || e == nil {
		t.Fatalf("GetEpisodeMetadata() = (%v, %v), want episode", e, err)
	}
	if e.AirDate != "2020-01-01T00:00:00.000Z" {
		t.Errorf("AirDate = %q", e.AirDate)
	}
}

func TestGetPersonMetadataPrefersPhoto(t *testing.T) {
	stub := newStubAPI(t)
	stub.on("/v1/person", url.Values{"selectFields": {personFields}, "name": {"Том Хэнкс"}}, `{"docs":[
		{"id": 1, "name": "Том Хэнкс", "photo": ""},
		{"id": 9144, "name": "Том Хэнкс", "enName": "Tom Hanks", "photo": "https://image.openmoviedb.com/person/9144",
		 "birthday": "1956-07-09T00:00:00.000Z",
		 "birthPlace": [{"value": "Конкорд"}, {"value": "Калифорния"}, {"value": ""}],
		 "deathPlace": [{"value": ""}, {"value": "нигде"}],
		 "facts": [{"value": "Дважды оскароносец"}, {"value": " "}, {"value": "Коллекционирует машинки"}],
		 "movies": [{"id": 435, "description": "Paul Edgecomb"}, {"id": 0}]},
		{"id": 2, "name": "Томас Хэнкс", "photo": "https://image.openmoviedb.com/person/2"}
	]}`)

	svc := newTestService(t, stub, "test-token")
	p, err := svc.GetPersonMetadata(context.Background(), provider.PersonQuery{Name: "Том Хэнкс"})
	if err != nil || p == nil {
		t.Fatalf("GetPersonMetadata() = (%v, %v), want person", p, err)
	}

	want := &provider.Person{
		ID:           9144,
		Name:         "Том Хэнкс",
		OriginalName: "Tom Hanks",
		PhotoURL:     "https://image.openmoviedb.com/person/9144",
		Birthday:     "1956-07-09T00:00:00.000Z",
		Birthplace:   "Конкорд, Калифорния",
		Facts:        []string{"Дважды оскароносец", "Коллекционирует машинки"},
		Overview:     "Дважды оскароносец\nКоллекционирует машинки",
		Movies:       []provider.Credit{{MovieID: 435, Role: "Paul Edgecomb"}},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("GetPersonMetadata() mismatch (-want +got):\n%s", diff)
	}
}

func TestPersonSearchFallsBackToEnglishName(t *testing.T) {
	stub := newStubAPI(t)
	stub.on("/v1/person", url.Values{"selectFields": {personFields}, "name": {"Tom Hanks"}}, `{"docs":[]}`)
	stub.on("/v1/person", url.Values{"selectFields": {personFields}, "enName": {"Tom Hanks"}},
		`{"docs":[{"id": 9144, "name": "Том Хэнкс", "enName": "Tom Hanks"}]}`)

	svc := newTestService(t, stub, "test-token")
	hits, err := svc.SearchPersons(context.Background(), provider.PersonQuery{Name: "Tom Hanks"})
	if err != nil {
		t.Fatalf("SearchPersons() error = %v", err)
	}
	want := []provider.SearchHit{{ID: 9144, Name: "Том Хэнкс", OriginalName: "Tom Hanks"}}
	if diff := cmp.Diff(want, hits); diff != "" {
		t.Errorf("SearchPersons() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterPersons(t *testing.T) {
	named := func(id int64, name, photo string) *person {
		return &person{ID: id, Name: name, Photo: photo}
	}
	ids := func(ps []*person) []int64 {
		var out []int64
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	tests := []struct {
		name    string
		persons []*person
		query   string
		want    []int64
	}{
		{"SinglePassesThrough", []*person{named(1, "Другой", "")}, "Том Хэнкс", []int64{1}},
		{"NoMatchKeepsAll", []*person{named(1, "А", ""), named(2, "Б", "")}, "Том Хэнкс", []int64{1, 2}},
		{"MatchOnly", []*person{named(1, "Том Хэнкс", ""), named(2, "Б", "x")}, "том хэнкс", []int64{1}},
		{"PhotoBreaksTie", []*person{named(1, "Том Хэнкс", ""), named(2, "Том Хэнкс", "x")}, "Том Хэнкс", []int64{2}},
		{"NoPhotosStayAmbiguous", []*person{named(1, "Том Хэнкс", ""), named(2, "Том Хэнкс", "")}, "Том Хэнкс", []int64{1, 2}},
		{"BlankQueryKeepsAll", []*person{named(1, "Том Хэнкс", ""), named(2, "Том Хэнкс", "x")}, "  ", []int64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ids(filterPersons(tt.persons, tt.query))); diff != "" {
				t.Errorf("filterPersons() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEndDate(t *testing.T) {
	if got := endDate(nil); got != nil {
		t.Errorf("endDate(nil) = %v, want nil", got)
	}
	got := endDate([]yearRange{
		{Start: provider.IntPtr(2008), End: provider.IntPtr(2013)},
		{Start: provider.IntPtr(2014)},
		{Start: provider.IntPtr(2001), End: provider.IntPtr(2003)},
	})
	want := time.Date(2013, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Errorf("endDate() = %v, want %v", got, want)
	}
}

func TestQuotaIsRecordedOnce(t *testing.T) {
	stub := newStubAPI(t)
	stub.fail("/v1.3/movie/435", nil, http.StatusForbidden, `{"statusCode":403,"message":"Вы израсходовали суточный лимит","error":"Forbidden"}`)
	recorder := &memoryRecorder{}

	svc := newTestService(t, stub, "test-token", upstream.WithActivity(recorder))
	m, err := svc.GetMovieMetadata(context.Background(), provider.MovieQuery{IDs: provider.ProviderIDs{Kinopoisk: "435"}})
	if err != nil || m != nil {
		t.Fatalf("GetMovieMetadata() = (%v, %v), want (nil, nil)", m, err)
	}
	if len(recorder.events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(recorder.events))
	}
	if e := recorder.events[0]; e.Code != provider.CodeQuotaExceeded || e.Provider != Name {
		t.Errorf("event = %+v", e)
	}
}

func TestNoTokenSkipsNetwork(t *testing.T) {
	stub := newStubAPI(t)
	svc := newTestService(t, stub, "")
	ctx := context.Background()

	if m, err := svc.GetMovieMetadata(ctx, provider.MovieQuery{Name: "Зеленая миля", IDs: provider.ProviderIDs{Kinopoisk: "435"}}); m != nil || err != nil {
		t.Errorf("GetMovieMetadata() = (%v, %v)", m, err)
	}
	if hits, err := svc.SearchSeries(ctx, provider.MovieQuery{Name: "Друзья"}); hits != nil || err != nil {
		t.Errorf("SearchSeries() = (%v, %v)", hits, err)
	}
	if p, err := svc.GetPersonMetadata(ctx, provider.PersonQuery{Name: "Том Хэнкс"}); p != nil || err != nil {
		t.Errorf("GetPersonMetadata() = (%v, %v)", p, err)
	}
	if r, _ := svc.GetTop250Series(ctx); !r.HasError {
		t.Error("GetTop250Series() HasError = false without a token")
	}
	if r, _ := svc.GetKpIDByAnotherID(ctx, provider.SourceIMDb, []string{"tt0120689"}); !r.HasError {
		t.Error("GetKpIDByAnotherID() HasError = false without a token")
	}
	if r, _ := svc.GetMoviesByIDs(ctx, []int64{435}); !r.HasError {
		t.Error("GetMoviesByIDs() HasError = false without a token")
	}
	if calls := stub.calls(); len(calls) != 0 {
		t.Errorf("issued %d requests without a token: %v", len(calls), calls)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantOutcome upstream.Outcome
		wantMessage string
	}{
		{"Unauthorized", http.StatusUnauthorized, "", upstream.OutcomeAuthFailed, ""},
		{"Forbidden", http.StatusForbidden, "", upstream.OutcomeQuota, ""},
		{"TooManyRequests", http.StatusTooManyRequests, "", upstream.OutcomeThrottled, ""},
		{
			"StructuredError", http.StatusBadRequest,
			`{"statusCode":400,"message":"Значение поля year не валидно","error":"Bad Request"}`,
			upstream.OutcomeError, "400 Bad Request: Значение поля year не валидно",
		},
		{"PlainError", http.StatusBadGateway, " bad gateway \n", upstream.OutcomeError, "bad gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, message := Classify(tt.status, []byte(tt.body))
			if outcome != tt.wantOutcome || message != tt.wantMessage {
				t.Errorf("Classify(%d) = (%v, %q), want (%v, %q)", tt.status, outcome, message, tt.wantOutcome, tt.wantMessage)
			}
		})
	}
}

func nameSearchQueries() []url.Values {
	base := []url.Values{
		{"name": {"зеленая миля"}, "year": {"1999"}},
		{"name": {"зеленая миля"}},
		{"alternativeName": {"зеленая миля"}, "year": {"1999"}},
		{"alternativeName": {"зеленая миля"}},
	}
	for _, q := range base {
		q.Set("limit", searchLimit)
		q.Set("selectFields", movieFields)
	}
	return base
}

func TestNameSearchFailureSetsHasError(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(stub *stubAPI)
		wantItems  int
		wantHasErr bool
	}{
		{
			name: "EveryQueryRejected",
			setup: func(stub *stubAPI) {
				for _, q := range nameSearchQueries() {
					stub.fail("/v1.3/movie", q, http.StatusUnauthorized, `{"statusCode":401,"message":"token","error":"Unauthorized"}`)
				}
			},
			wantHasErr: true,
		},
		{
			name: "NoMatches",
			setup: func(stub *stubAPI) {
				for _, q := range nameSearchQueries() {
					stub.on("/v1.3/movie", q, `{"docs":[]}`)
				}
			},
		},
		{
			name: "FallbackFindsAfterFailure",
			setup: func(stub *stubAPI) {
				queries := nameSearchQueries()
				stub.fail("/v1.3/movie", queries[0], http.StatusInternalServerError, `{"statusCode":500,"message":"boom","error":"Internal"}`)
				stub.on("/v1.3/movie", queries[1], `{"docs":[`+greenMile+`]}`)
			},
			wantItems: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStubAPI(t)
			tt.setup(stub)
			svc := newTestService(t, stub, "test-token")

			res, err := svc.GetMoviesByOriginalNameAndYear(context.Background(), "Зеленая миля", provider.IntPtr(1999))
			if err != nil {
				t.Fatalf("GetMoviesByOriginalNameAndYear() error = %v", err)
			}
			if len(res.Items) != tt.wantItems || res.HasError != tt.wantHasErr {
				t.Errorf("GetMoviesByOriginalNameAndYear() = %d items, HasError %v; want %d, %v",
					len(res.Items), res.HasError, tt.wantItems, tt.wantHasErr)
			}
		})
	}
}
