package inbound

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrNoFile            = errors.New("inbound: no audio file")
	ErrFileTooLarge      = errors.New("inbound: file too large")
	ErrUnsupportedFormat = errors.New("inbound: unsupported format")
)

// DefaultExtensions are the suffixes accepted when none are configured.
var DefaultExtensions = []string{".mp3", ".m4a", ".ogg", ".flac", ".wav", ".opus", ".aac", ".wma"}

// DefaultMaxSize is the default file size ceiling (20 MiB).
const DefaultMaxSize = 20 * 1024 * 1024

// Descriptor describes an inbound attachment before it is downloaded.
type Descriptor struct {
	Present bool
	FileID  string
	Name    string
	Size    int64
}

// Ext returns the lowercase suffix of the file name.
func (d *Descriptor) Ext() string {
	return strings.ToLower(filepath.Ext(d.Name))
}

// Validator gates inbound files before any recognition call is made.
type Validator struct {
	maxSize    int64
	extensions map[string]struct{}
}

// New returns a validator with the given size ceiling and allowed suffixes.
func New(maxSize int64, extensions []string) *Validator {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := map[string]struct{}{}
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = struct{}{}
	}
	return &Validator{maxSize: maxSize, extensions: exts}
}

// MaxSize returns the size ceiling in bytes.
func (v *Validator) MaxSize() int64 {
	return v.maxSize
}

// Validate checks presence, then size, then format. The first failing check
// is returned. The descriptor is returned unchanged on success.
func (v *Validator) Validate(d *Descriptor) (*Descriptor, error) {
	if d == nil || !d.Present {
		return nil, ErrNoFile
	}
	if d.Size > v.maxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, d.Size, v.maxSize)
	}
	if _, ok := v.extensions[d.Ext()]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, d.Name)
	}
	return d, nil
}

var mimeExtensions = map[string]string{
	"audio/mpeg":     ".mp3",
	"audio/mp3":      ".mp3",
	"audio/mp4":      ".m4a",
	"audio/x-m4a":    ".m4a",
	"audio/m4a":      ".m4a",
	"audio/aac":      ".aac",
	"audio/ogg":      ".ogg",
	"audio/opus":     ".opus",
	"audio/flac":     ".flac",
	"audio/x-flac":   ".flac",
	"audio/wav":      ".wav",
	"audio/x-wav":    ".wav",
	"audio/vnd.wave": ".wav",
	"audio/x-ms-wma": ".wma",
}

// ExtensionFor returns the file suffix for a MIME type, or an empty string.
func ExtensionFor(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mimeExtensions[mime]
}
