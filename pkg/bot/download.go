package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/igolaizola/shazambot/pkg/inbound"
)

type fileURLer interface {
	GetFileDirectURL(fileID string) (string, error)
}

// downloader fetches telegram files into temp files.
type downloader struct {
	api     fileURLer
	client  *http.Client
	dir     string
	maxSize int64
}

func newDownloader(api fileURLer, client *http.Client, dir string, maxSize int64) *downloader {
	if client == nil {
		client = &http.Client{
			Timeout: 60 * time.Second,
		}
	}
	return &downloader{
		api:     api,
		client:  client,
		dir:     dir,
		maxSize: maxSize,
	}
}

var backoff = []time.Duration{
	1 * time.Second,
	2 * time.Second,
}

// download writes the file to a new temp file keeping the extension of name.
// The caller must remove the returned path.
func (d *downloader) download(ctx context.Context, fileID, name string) (string, error) {
	u, err := d.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("bot: couldn't get file url: %w", err)
	}

	f, err := os.CreateTemp(d.dir, "clip-*"+filepath.Ext(name))
	if err != nil {
		return "", fmt.Errorf("bot: couldn't create temp file: %w", err)
	}
	path := f.Name()
	_ = f.Close()

	maxAttempts := 3
	attempts := 0
	for {
		err = d.fetch(ctx, u, path)
		if err == nil {
			return path, nil
		}

		// Increase attempts and check if we should stop
		attempts++
		if attempts >= maxAttempts || ctx.Err() != nil || errIsFinal(err) {
			_ = os.Remove(path)
			return "", err
		}
		idx := attempts - 1
		if idx >= len(backoff) {
			idx = len(backoff) - 1
		}
		wait := backoff[idx]
		log.Printf("%v (retrying in %s)\n", err, wait)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			_ = os.Remove(path)
			return "", ctx.Err()
		case <-t.C:
		}
	}
}

func errIsFinal(err error) bool {
	var f finalError
	return errors.As(err, &f)
}

type finalError struct {
	error
}

func (e finalError) Unwrap() error {
	return e.error
}

func (d *downloader) fetch(ctx context.Context, u, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return finalError{fmt.Errorf("bot: couldn't create request: %w", err)}
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("bot: couldn't download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("bot: download returned %d", resp.StatusCode)
		if resp.StatusCode < 500 {
			return finalError{err}
		}
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return finalError{fmt.Errorf("bot: couldn't create %s: %w", path, err)}
	}
	defer f.Close()
	n, err := io.Copy(f, io.LimitReader(resp.Body, d.maxSize+1))
	if err != nil {
		return fmt.Errorf("bot: couldn't write %s: %w", path, err)
	}
	if n > d.maxSize {
		return finalError{fmt.Errorf("%w: downloaded more than %d bytes", inbound.ErrFileTooLarge, d.maxSize)}
	}
	return nil
}
