package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestToText(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{15 * time.Second, "00:00:15"},
		{90 * time.Second, "00:01:30"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
	}
	for _, tt := range tests {
		if got := toText(tt.in); got != tt.want {
			t.Fatalf("toText(%s) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

// fakeBin writes a script that records its arguments and creates the output
// file given as last argument.
func fakeBin(t *testing.T, exit int) (string, string) {
	t.Helper()
	dir := t.TempDir()
	args := filepath.Join(dir, "args")
	bin := filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\necho \"$@\" > " + args + "\nfor last; do true; done\necho audio > \"$last\"\nexit " + strconv.Itoa(exit) + "\n"
	if err := os.WriteFile(bin, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return bin, args
}

func TestPrepare(t *testing.T) {
	bin, args := fakeBin(t, 0)
	dir := t.TempDir()
	p := New(bin, dir, 15*time.Second)

	out, cleanup, err := p.Prepare(context.Background(), "in.ogg")
	if err != nil {
		t.Fatalf("Prepare() err = %v; want nil", err)
	}
	if filepath.Dir(out) != dir {
		t.Fatalf("Prepare() = %q; want file in %q", out, dir)
	}
	b, err := os.ReadFile(args)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); !strings.Contains(got, "-i in.ogg") || !strings.Contains(got, "-to 00:00:15") {
		t.Fatalf("ffmpeg args = %q", got)
	}
	cleanup()
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("Stat(%q) err = %v; want not exist", out, err)
	}
}

func TestPrepareFailure(t *testing.T) {
	bin, _ := fakeBin(t, 1)
	dir := t.TempDir()
	p := New(bin, dir, 0)
	if _, _, err := p.Prepare(context.Background(), "in.ogg"); err == nil {
		t.Fatal("Prepare() err = nil; want error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("temp dir has %d entries; want 0", len(entries))
	}
}
