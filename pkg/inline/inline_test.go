package inline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/igolaizola/shazambot/pkg/locale"
	"github.com/igolaizola/shazambot/pkg/shazam"
)

type fakeSearcher struct {
	tracks []shazam.Track
	err    error
	calls  int
	limit  int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]shazam.Track, error) {
	f.calls++
	f.limit = limit
	return f.tracks, f.err
}

func TestEmptyQuery(t *testing.T) {
	s := &fakeSearcher{}
	a := New(s, locale.New(), &Config{})
	for _, q := range []string{"", "   "} {
		answers, ok := a.Answers(context.Background(), locale.English, q)
		if ok || answers != nil {
			t.Fatalf("Answers(%q) = %v, %v; want nil, false", q, answers, ok)
		}
	}
	if s.calls != 0 {
		t.Fatalf("calls = %d; want 0", s.calls)
	}
}

func TestNoResults(t *testing.T) {
	c := locale.New()
	a := New(&fakeSearcher{}, c, &Config{})
	for _, lang := range locale.Langs {
		answers, ok := a.Answers(context.Background(), lang, "imagine")
		if !ok || len(answers) != 1 {
			t.Fatalf("Answers() = %v, %v; want one answer", answers, ok)
		}
		if got, want := answers[0].Title, c.Text(lang, locale.NoResults); got != want {
			t.Fatalf("Answers() title = %q; want %q", got, want)
		}
		if answers[0].ID != "no_results" {
			t.Fatalf("Answers() id = %q; want no_results", answers[0].ID)
		}
	}
}

func TestSearchError(t *testing.T) {
	c := locale.New()
	a := New(&fakeSearcher{err: errors.New("boom")}, c, &Config{})
	answers, ok := a.Answers(context.Background(), locale.Persian, "imagine")
	if !ok || len(answers) != 1 {
		t.Fatalf("Answers() = %v, %v; want one answer", answers, ok)
	}
	if got, want := answers[0].MessageText, c.Text(locale.Persian, locale.SearchError); got != want {
		t.Fatalf("Answers() text = %q; want %q", got, want)
	}
}

func TestCap(t *testing.T) {
	var tracks []shazam.Track
	for i := 0; i < 8; i++ {
		tracks = append(tracks, shazam.Track{Key: fmt.Sprint(i), Title: fmt.Sprintf("T%d", i), Subtitle: "A"})
	}
	s := &fakeSearcher{tracks: tracks}
	a := New(s, locale.New(), &Config{Username: "shazambot"})
	answers, _ := a.Answers(context.Background(), locale.English, "t")
	if len(answers) != MaxResults {
		t.Fatalf("len(Answers()) = %d; want %d", len(answers), MaxResults)
	}
	if s.limit != MaxResults {
		t.Fatalf("limit = %d; want %d", s.limit, MaxResults)
	}
	first := answers[0]
	if first.ID != "0" || first.Title != "T0 - A" {
		t.Fatalf("Answers()[0] = %+v", first)
	}
	if !strings.HasSuffix(first.MessageText, "Found via @shazambot") {
		t.Fatalf("Answers()[0] text = %q", first.MessageText)
	}
}

func TestAnswerDefaults(t *testing.T) {
	s := &fakeSearcher{tracks: []shazam.Track{{Images: shazam.Images{CoverArt: "https://img"}, Genres: shazam.Genres{Primary: "Rock"}}}}
	a := New(s, locale.New(), &Config{})
	answers, _ := a.Answers(context.Background(), locale.English, "x")
	want := Answer{
		ID:          "result_0",
		Title:       "Unknown Title - Unknown Artist",
		Description: "Unknown Artist • Rock",
		MessageText: "🎵 Unknown Title - Unknown Artist",
		ThumbURL:    "https://img",
	}
	if answers[0] != want {
		t.Fatalf("Answers()[0] = %+v; want %+v", answers[0], want)
	}
}
