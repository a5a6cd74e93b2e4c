package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"

	"github.com/igolaizola/shazambot/pkg/session"
)

func TestSupported(t *testing.T) {
	tests := map[string]bool{
		"a.mp3":  true,
		"A.MP3":  true,
		"a.ogg":  false,
		"mp3":    false,
		"":       false,
		"x.flac": false,
	}
	for in, want := range tests {
		if got := Supported(in); got != want {
			t.Fatalf("Supported(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestWriteMP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	audio := []byte{0xff, 0xfb, 0x90, 0x00, 0x00, 0x00}
	if err := os.WriteFile(path, audio, 0644); err != nil {
		t.Fatal(err)
	}
	rec := session.SongRecord{
		Title:        "آهنگ",
		Artist:       "Artist B",
		Album:        "Unknown Album",
		Genre:        "Pop",
		Year:         "2001",
		StreamingURL: "https://open.spotify.com/track/1",
	}
	if err := WriteMP3(path, rec); err != nil {
		t.Fatalf("WriteMP3() err = %v; want nil", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()
	if got := tag.Title(); got != rec.Title {
		t.Fatalf("Title() = %q; want %q", got, rec.Title)
	}
	if got := tag.Artist(); got != rec.Artist {
		t.Fatalf("Artist() = %q; want %q", got, rec.Artist)
	}
	if got := tag.Album(); got != "" {
		t.Fatalf("Album() = %q; want empty", got)
	}
	if got := tag.Genre(); got != "Pop" {
		t.Fatalf("Genre() = %q; want Pop", got)
	}
	frames := tag.GetFrames("TDRC")
	if len(frames) != 1 {
		t.Fatalf("len(TDRC) = %d; want 1", len(frames))
	}
	if tf, ok := frames[0].(id3v2.TextFrame); !ok || tf.Text != "2001" {
		t.Fatalf("TDRC = %+v; want 2001", frames[0])
	}
}

func TestWriteMP3Missing(t *testing.T) {
	if err := WriteMP3(filepath.Join(t.TempDir(), "missing.mp3"), session.SongRecord{}); err == nil {
		t.Fatal("WriteMP3() err = nil; want error")
	}
}
