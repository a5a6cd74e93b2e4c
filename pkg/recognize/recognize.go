package recognize

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/igolaizola/shazambot/pkg/session"
	"github.com/igolaizola/shazambot/pkg/shazam"
)

// ErrNotFound is returned when no song could be identified. Timeouts and
// collaborator failures are reported as ErrNotFound too; the cause, if any,
// is available through errors.Unwrap.
var ErrNotFound = errors.New("recognize: not found")

type notFound struct {
	cause error
}

func (e *notFound) Error() string {
	return fmt.Sprintf("%s: %v", ErrNotFound, e.cause)
}

func (e *notFound) Is(target error) bool {
	return target == ErrNotFound
}

func (e *notFound) Unwrap() error {
	return e.cause
}

// Cause returns the failure behind a not found error, or nil when the
// service simply had no match.
func Cause(err error) error {
	var nf *notFound
	if errors.As(err, &nf) {
		return nf.cause
	}
	return nil
}

// Recognizer identifies an audio file.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (*shazam.Track, error)
}

// Linker finds a spotify link for a song.
type Linker interface {
	Link(ctx context.Context, title, artist string) (string, error)
}

// Preparer converts an audio file before recognition. The returned cleanup
// function removes any file it created.
type Preparer interface {
	Prepare(ctx context.Context, path string) (string, func(), error)
}

// Config configures an Orchestrator.
type Config struct {
	Debug bool
	// Timeout bounds a single recognition attempt.
	Timeout time.Duration
	// Services are the streaming service tags taken from the response.
	Services []string
	// Links enables streaming links in records.
	Links bool
	// Linker searches a link when the response has none. Optional.
	Linker Linker
	// Preparer converts clips before upload. Optional.
	Preparer Preparer
}

// Orchestrator makes exactly one bounded recognition attempt per call and
// normalizes the result.
type Orchestrator struct {
	recognizer Recognizer
	timeout    time.Duration
	services   []string
	links      bool
	linker     Linker
	preparer   Preparer
	debug      func(string, ...any)
}

// New returns an orchestrator around r. A zero timeout waits 30 seconds.
func New(r Recognizer, cfg *Config) *Orchestrator {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	services := cfg.Services
	if len(services) == 0 {
		services = DefaultServices
	}
	return &Orchestrator{
		recognizer: r,
		timeout:    timeout,
		services:   services,
		links:      cfg.Links,
		linker:     cfg.Linker,
		preparer:   cfg.Preparer,
		debug: func(format string, args ...any) {
			if !cfg.Debug {
				return
			}
			format += "\n"
			log.Printf(format, args...)
		},
	}
}

// Recognize identifies the audio file at path. Every failure is returned as
// ErrNotFound.
func (o *Orchestrator) Recognize(ctx context.Context, path string) (*session.SongRecord, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, o.failed(fmt.Errorf("recognize: couldn't stat %s: %w", path, err))
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	input := path
	if o.preparer != nil {
		prepared, cleanup, err := o.preparer.Prepare(ctx, path)
		if err != nil {
			log.Printf("recognize: couldn't prepare %s, using original: %v\n", path, err)
		} else {
			defer cleanup()
			input = prepared
		}
	}

	start := time.Now()
	track, err := o.recognizer.Recognize(ctx, input)
	o.debug("recognize: %s took %s", path, time.Since(start))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			log.Printf("recognize: timed out after %s\n", o.timeout)
			return nil, &notFound{cause: context.DeadlineExceeded}
		}
		return nil, o.failed(err)
	}
	if ctx.Err() != nil {
		return nil, &notFound{cause: ctx.Err()}
	}
	if track == nil {
		return nil, ErrNotFound
	}

	rec := Extract(track, o.services)
	rec.ID = ulid.Make().String()
	if !o.links {
		rec.StreamingService, rec.StreamingURL = "", ""
	} else if rec.StreamingURL == "" && o.linker != nil {
		u, err := o.linker.Link(ctx, track.Title, track.Subtitle)
		switch {
		case err != nil:
			log.Printf("recognize: couldn't find streaming link: %v\n", err)
		case u != "":
			rec.StreamingService, rec.StreamingURL = "spotify", u
		}
	}
	return &rec, nil
}

func (o *Orchestrator) failed(err error) error {
	log.Printf("recognize: %v\n", err)
	return &notFound{cause: err}
}
