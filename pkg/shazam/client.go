package shazam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/igolaizola/shazambot/pkg/ratelimit"
)

type Client struct {
	client    *http.Client
	debug     bool
	ratelimit ratelimit.Lock
	endpoint  string
	key       string
	host      string
}

type Config struct {
	// Wait is the minimum gap between requests once Burst requests have
	// started.
	Wait   time.Duration
	Burst  int
	Debug  bool
	Client *http.Client
	// Endpoint is the base URL of the recognition service.
	Endpoint string
	// Key and Host are sent as RapidAPI headers when set.
	Key  string
	Host string
}

func New(cfg *Config) *Client {
	client := cfg.Client
	if client == nil {
		client = &http.Client{
			Timeout: 2 * time.Minute,
		}
	}
	return &Client{
		client:    client,
		ratelimit: ratelimit.New(cfg.Wait, cfg.Burst),
		debug:     cfg.Debug,
		endpoint:  strings.TrimSuffix(cfg.Endpoint, "/"),
		key:       cfg.Key,
		host:      cfg.Host,
	}
}

func (c *Client) log(format string, args ...interface{}) {
	if c.debug {
		format += "\n"
		log.Printf(format, args...)
	}
}

// Recognize uploads the audio file and returns the best match, or nil if the
// service found none.
func (c *Client) Recognize(ctx context.Context, path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("shazam: couldn't open %s: %w", path, err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("shazam: couldn't create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("shazam: couldn't copy %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("shazam: couldn't close form: %w", err)
	}

	var resp detectResponse
	if err := c.do(ctx, http.MethodPost, "recognize", w.FormDataContentType(), &body, &resp); err != nil {
		return nil, fmt.Errorf("shazam: couldn't recognize: %w", err)
	}
	if resp.Track == nil || (resp.Track.Title == "" && resp.Track.Subtitle == "" && resp.Track.Key == "") {
		return nil, nil
	}
	return resp.Track, nil
}

// Search returns the tracks matching the query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	v := url.Values{}
	v.Set("term", query)
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var resp searchResponse
	if err := c.do(ctx, http.MethodGet, "search?"+v.Encode(), "", nil, &resp); err != nil {
		return nil, fmt.Errorf("shazam: couldn't search: %w", err)
	}
	var tracks []Track
	for _, h := range resp.Tracks.Hits {
		tracks = append(tracks, h.Track)
	}
	return tracks, nil
}

type errStatusCode int

func (e errStatusCode) Error() string {
	return fmt.Sprintf("%d", e)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, in io.Reader, out any) error {
	u := fmt.Sprintf("%s/%s", c.endpoint, path)
	c.log("shazam: do %s %s", method, u)

	req, err := http.NewRequestWithContext(ctx, method, u, in)
	if err != nil {
		return fmt.Errorf("couldn't create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.key != "" {
		req.Header.Set("X-RapidAPI-Key", c.key)
	}
	if c.host != "" {
		req.Header.Set("X-RapidAPI-Host", c.host)
	}

	if err := c.ratelimit.Wait(ctx); err != nil {
		return fmt.Errorf("couldn't wait for %s %s: %w", method, u, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("couldn't %s %s: %w", method, u, err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("couldn't read response body: %w", err)
	}
	logBody := string(respBody)
	if len(logBody) > 200 {
		logBody = logBody[:200] + "..."
	}
	c.log("shazam: response %s %s %d %s", method, path, resp.StatusCode, logBody)
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errMessage := string(respBody)
		if len(errMessage) > 100 {
			errMessage = errMessage[:100] + "..."
		}
		return fmt.Errorf("%s %s returned (%s): %w", method, u, errMessage, errStatusCode(resp.StatusCode))
	}
	if out != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("couldn't unmarshal response body (%T): %w", out, err)
		}
	}
	return nil
}
