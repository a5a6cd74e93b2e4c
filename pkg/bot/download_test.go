package bot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/igolaizola/shazambot/pkg/inbound"
)

type urlFunc func(string) (string, error)

func (f urlFunc) GetFileDirectURL(id string) (string, error) { return f(id) }

func TestDownload(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("audio"))
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 20)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := newDownloader(urlFunc(func(id string) (string, error) {
		return srv.URL + "/" + id, nil
	}), nil, dir, 10)
	ctx := context.Background()

	path, err := d.download(ctx, "ok", "song.MP3")
	if err != nil {
		t.Fatalf("download() err = %v; want nil", err)
	}
	if !strings.HasSuffix(path, ".MP3") {
		t.Fatalf("download() = %q; want .MP3 suffix", path)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "audio" {
		t.Fatalf("content = %q; want %q", data, "audio")
	}
	_ = os.Remove(path)

	calls = 0
	if _, err := d.download(ctx, "missing", "a.mp3"); err == nil {
		t.Fatal("download() err = nil; want error")
	}
	// Client errors are not retried
	if calls != 1 {
		t.Fatalf("calls = %d; want 1", calls)
	}

	if _, err := d.download(ctx, "big", "a.mp3"); !errors.Is(err, inbound.ErrFileTooLarge) {
		t.Fatalf("download() err = %v; want %v", err, inbound.ErrFileTooLarge)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("dir has %d entries; want 0", len(entries))
	}
}
