package provider

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeTrailers(t *testing.T) {
	input := []string{
		"https://www.youtube.com/embed/first",
		"https://widgets.kinopoisk.ru/discovery/trailer/123",
		"https://www.youtube.com/v/second",
		"https://WWW.YOUTUBE.COM/watch?v=third",
		"https://www.youtube.com/watch?v=fourth",
		"https://www.YouTube.com/embed/fifth",
		"HTTPS://WWW.YOUTUBE.COM/V/sixth",
	}

	want := []string{
		"https://www.youtube.com/watch?v=sixth",
		"https://www.youtube.com/watch?v=fifth",
		"https://www.youtube.com/watch?v=fourth",
		"https://WWW.YOUTUBE.COM/watch?v=third",
		"https://www.youtube.com/watch?v=second",
		"https://www.youtube.com/watch?v=first",
	}

	if diff := cmp.Diff(want, NormalizeTrailers(input)); diff != "" {
		t.Errorf("NormalizeTrailers() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeTrailersPreservesCountAndReversal(t *testing.T) {
	input := make([]string, 0, 10)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		input = append(input, "https://www.youtube.com/embed/"+id)
	}
	got := NormalizeTrailers(input)
	if len(got) != len(input) {
		t.Fatalf("len = %d, want %d", len(got), len(input))
	}
	for i := range got {
		want := "https://www.youtube.com/watch?v=" + string("abcde"[len(input)-1-i])
		if got[i] != want {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want)
		}
	}

	if got := NormalizeTrailers(nil); len(got) != 0 {
		t.Errorf("NormalizeTrailers(nil) = %v, want empty", got)
	}
}

func TestPrepareOverview(t *testing.T) {
	description := "Пол Эджкомб — начальник блока смертников."

	t.Run("AppendsQualifyingFacts", func(t *testing.T) {
		facts := []Fact{
			{Value: "Первый факт", Type: "FACT"},
			{Value: "Спойлер", Type: "FACT", Spoiler: true},
			{Value: "Ошибка в фильме", Type: "BLOOPER"},
			{Value: "Второй факт", Type: "FACT"},
			{Value: "Третий факт", Type: "fact"},
			{Value: "Ещё спойлер", Type: "Fact", Spoiler: true},
		}
		want := description +
			"<br/><br/><b>Интересное:</b><br/>" +
			"&nbsp;&nbsp;&nbsp;&nbsp;* Первый факт<br/>" +
			"&nbsp;&nbsp;&nbsp;&nbsp;* Второй факт<br/>" +
			"&nbsp;&nbsp;&nbsp;&nbsp;* Третий факт<br/>"
		if got := PrepareOverview(description, facts); got != want {
			t.Errorf("PrepareOverview() = %q, want %q", got, want)
		}
	})

	t.Run("NoQualifyingFacts", func(t *testing.T) {
		facts := []Fact{{Value: "Спойлер", Type: "FACT", Spoiler: true}, {Value: "x", Type: "BLOOPER"}}
		if got := PrepareOverview(description, facts); got != description {
			t.Errorf("PrepareOverview() = %q, want description unchanged", got)
		}
		if got := PrepareOverview(description, nil); got != description {
			t.Errorf("PrepareOverview(nil) = %q, want description unchanged", got)
		}
	})
}

func TestNonBlank(t *testing.T) {
	got := NonBlank([]string{"драма", "", "  ", "криминал"})
	if diff := cmp.Diff([]string{"драма", "криминал"}, got); diff != "" {
		t.Errorf("NonBlank() mismatch (-want +got):\n%s", diff)
	}
}

func TestPersonTypeFor(t *testing.T) {
	tests := []struct {
		professions []string
		want        PersonType
		ok          bool
	}{
		{[]string{"actor"}, PersonActor, true},
		{[]string{"ACTOR"}, PersonActor, true},
		{[]string{"operator"}, PersonCinematographer, true},
		{[]string{"HIMSELF"}, "", false},
		{[]string{"", "режиссеры"}, PersonDirector, true},
		{[]string{"unknown", "Сценаристы"}, PersonWriter, true},
	}

	for _, tt := range tests {
		got, ok := PersonTypeFor(tt.professions...)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PersonTypeFor(%v) = (%q, %v), want (%q, %v)", tt.professions, got, ok, tt.want, tt.ok)
		}
	}

	if PersonDirector.Label() != "Режиссёр" {
		t.Errorf("Label() = %q, want Режиссёр", PersonDirector.Label())
	}
}
