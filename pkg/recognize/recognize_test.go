package recognize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/igolaizola/shazambot/pkg/session"
	"github.com/igolaizola/shazambot/pkg/shazam"
)

type fakeRecognizer struct {
	track *shazam.Track
	err   error
	block bool
	calls int
	path  string
}

func (f *fakeRecognizer) Recognize(ctx context.Context, path string) (*shazam.Track, error) {
	f.calls++
	f.path = path
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.track, f.err
}

type fakeLinker struct {
	url   string
	calls int
}

func (f *fakeLinker) Link(ctx context.Context, title, artist string) (string, error) {
	f.calls++
	return f.url, nil
}

func clip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		track *shazam.Track
		want  session.SongRecord
	}{
		{
			name:  "empty metadata",
			track: &shazam.Track{Title: "Song A", Subtitle: "Artist B", Sections: []shazam.Section{{Metadata: []shazam.Metadata{}}}},
			want: session.SongRecord{
				Title: "Song A", Artist: "Artist B",
				Album: "Unknown Album", Genre: "Unknown Genre", Year: "Unknown Year",
			},
		},
		{
			name: "complete",
			track: &shazam.Track{
				Title: "Song A", Subtitle: "Artist B",
				Genres:   shazam.Genres{Primary: "Pop"},
				Sections: []shazam.Section{{Metadata: []shazam.Metadata{{Title: "Album", Text: "Album C"}, {Title: "Released", Text: "2001"}}}},
				Hub:      shazam.Hub{Actions: []shazam.Action{{Type: "applemusicplay", URI: "https://apple"}, {Type: "spotify", URI: "spotify:track:abc"}}},
			},
			want: session.SongRecord{
				Title: "Song A", Artist: "Artist B", Album: "Album C", Genre: "Pop", Year: "2001",
				StreamingService: "spotify", StreamingURL: "https://open.spotify.com/track/abc",
			},
		},
		{
			name:  "album only",
			track: &shazam.Track{Sections: []shazam.Section{{Metadata: []shazam.Metadata{{Text: "Album C"}}}}},
			want: session.SongRecord{
				Title: "Unknown Title", Artist: "Unknown Artist", Album: "Album C", Genre: "Unknown Genre", Year: "Unknown Year",
			},
		},
		{
			name: "provider action",
			track: &shazam.Track{
				Title: "T", Subtitle: "A",
				Hub: shazam.Hub{Providers: []shazam.Provider{{Type: "SPOTIFY", Actions: []shazam.Action{{URI: "spotify:search:a%20b"}}}}},
			},
			want: session.SongRecord{
				Title: "T", Artist: "A", Album: "Unknown Album", Genre: "Unknown Genre", Year: "Unknown Year",
				StreamingService: "spotify", StreamingURL: "https://open.spotify.com/search/a%2520b",
			},
		},
		{
			name:  "nil",
			track: nil,
			want: session.SongRecord{
				Title: "Unknown Title", Artist: "Unknown Artist", Album: "Unknown Album", Genre: "Unknown Genre", Year: "Unknown Year",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.track, nil)
			if got != tt.want {
				t.Fatalf("Extract() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestWebURL(t *testing.T) {
	tests := map[string]string{
		"spotify:track:abc":        "https://open.spotify.com/track/abc",
		"spotify:track:":           "",
		"https://open.spotify.com": "https://open.spotify.com",
		"intent://x":               "",
		"":                         "",
	}
	for in, want := range tests {
		if got := webURL(in); got != want {
			t.Fatalf("webURL(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestRecognize(t *testing.T) {
	r := &fakeRecognizer{track: &shazam.Track{Title: "Song A", Subtitle: "Artist B"}}
	o := New(r, &Config{Timeout: time.Second, Links: true})
	rec, err := o.Recognize(context.Background(), clip(t))
	if err != nil {
		t.Fatalf("Recognize() err = %v; want nil", err)
	}
	if rec.ID == "" {
		t.Fatal("Recognize() record without ID")
	}
	if rec.Title != "Song A" || rec.Album != "Unknown Album" {
		t.Fatalf("Recognize() = %+v", rec)
	}
	if r.calls != 1 {
		t.Fatalf("calls = %d; want 1", r.calls)
	}
}

func TestRecognizeNotFound(t *testing.T) {
	tests := []struct {
		name      string
		r         *fakeRecognizer
		wantCause bool
	}{
		{"no match", &fakeRecognizer{}, false},
		{"failure", &fakeRecognizer{err: errors.New("network down")}, true},
		{"timeout", &fakeRecognizer{block: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(tt.r, &Config{Timeout: 50 * time.Millisecond})
			rec, err := o.Recognize(context.Background(), clip(t))
			if rec != nil {
				t.Fatalf("Recognize() = %+v; want nil", rec)
			}
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("Recognize() err = %v; want %v", err, ErrNotFound)
			}
			if got := Cause(err) != nil; got != tt.wantCause {
				t.Fatalf("Cause() present = %v; want %v", got, tt.wantCause)
			}
			// One attempt only
			if tt.r.calls != 1 {
				t.Fatalf("calls = %d; want 1", tt.r.calls)
			}
		})
	}
}

func TestRecognizeTimeoutCause(t *testing.T) {
	o := New(&fakeRecognizer{block: true}, &Config{Timeout: 10 * time.Millisecond})
	_, err := o.Recognize(context.Background(), clip(t))
	if !errors.Is(Cause(err), context.DeadlineExceeded) {
		t.Fatalf("Cause() = %v; want %v", Cause(err), context.DeadlineExceeded)
	}
}

func TestRecognizeMissingFile(t *testing.T) {
	r := &fakeRecognizer{}
	o := New(r, &Config{})
	_, err := o.Recognize(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Recognize() err = %v; want %v", err, ErrNotFound)
	}
	if r.calls != 0 {
		t.Fatalf("calls = %d; want 0", r.calls)
	}
}

func TestRecognizeLinks(t *testing.T) {
	track := &shazam.Track{Title: "T", Subtitle: "A", Hub: shazam.Hub{Actions: []shazam.Action{{Type: "spotify", URI: "spotify:track:1"}}}}

	// Disabled links drop the hub link
	o := New(&fakeRecognizer{track: track}, &Config{Links: false})
	rec, err := o.Recognize(context.Background(), clip(t))
	if err != nil {
		t.Fatal(err)
	}
	if rec.StreamingURL != "" {
		t.Fatalf("StreamingURL = %q; want empty", rec.StreamingURL)
	}

	// Hub link takes precedence over the linker
	l := &fakeLinker{url: "https://open.spotify.com/track/2"}
	o = New(&fakeRecognizer{track: track}, &Config{Links: true, Linker: l})
	rec, _ = o.Recognize(context.Background(), clip(t))
	if rec.StreamingURL != "https://open.spotify.com/track/1" || l.calls != 0 {
		t.Fatalf("StreamingURL = %q, linker calls = %d", rec.StreamingURL, l.calls)
	}

	// Linker fills missing links
	o = New(&fakeRecognizer{track: &shazam.Track{Title: "T"}}, &Config{Links: true, Linker: l})
	rec, _ = o.Recognize(context.Background(), clip(t))
	if rec.StreamingURL != "https://open.spotify.com/track/2" || rec.StreamingService != "spotify" {
		t.Fatalf("record = %+v; want linker url", rec)
	}
}

type fakePreparer struct {
	out     string
	cleaned bool
}

func (f *fakePreparer) Prepare(ctx context.Context, path string) (string, func(), error) {
	return f.out, func() { f.cleaned = true }, nil
}

func TestRecognizePreparer(t *testing.T) {
	r := &fakeRecognizer{}
	p := &fakePreparer{out: "/tmp/prepared.mp3"}
	o := New(r, &Config{Preparer: p})
	_, _ = o.Recognize(context.Background(), clip(t))
	if r.path != p.out {
		t.Fatalf("recognized %q; want %q", r.path, p.out)
	}
	if !p.cleaned {
		t.Fatal("prepared file not cleaned up")
	}
}
