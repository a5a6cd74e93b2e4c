package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// Preparer converts clips into short mono mp3 files before recognition.
type Preparer struct {
	bin      string
	dir      string
	duration time.Duration
}

// New returns a preparer using the given ffmpeg binary. Converted files are
// written to dir and last at most duration.
func New(bin, dir string, duration time.Duration) *Preparer {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &Preparer{bin: bin, dir: dir, duration: duration}
}

// Prepare converts the input and returns the converted path along with a
// function that removes it.
func (f *Preparer) Prepare(ctx context.Context, input string) (string, func(), error) {
	out, err := os.CreateTemp(f.dir, "prepared-*.mp3")
	if err != nil {
		return "", nil, fmt.Errorf("ffmpeg: couldn't create temp file: %w", err)
	}
	output := out.Name()
	_ = out.Close()
	cleanup := func() { _ = os.Remove(output) }

	if err := f.Cut(ctx, input, output, f.duration); err != nil {
		cleanup()
		return "", nil, err
	}
	return output, cleanup, nil
}

// Cut converts the input to mono mp3 keeping only the audio until end.
func (f *Preparer) Cut(ctx context.Context, input, output string, end time.Duration) error {
	args := []string{"-y", "-i", input, "-vn", "-ac", "1", "-ar", "44100"}
	if end > 0 {
		args = append(args, "-to", toText(end))
	}
	args = append(args, "-f", "mp3", output)
	cmd := exec.CommandContext(ctx, f.bin, args...)
	data, err := cmd.CombinedOutput()
	if err != nil {
		msg := string(data)
		return fmt.Errorf("ffmpeg: couldn't cut: %w: %s", err, msg)
	}
	return nil
}

func toText(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
