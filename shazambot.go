package shazambot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/igolaizola/shazambot/pkg/ffmpeg"
	"github.com/igolaizola/shazambot/pkg/recognize"
	"github.com/igolaizola/shazambot/pkg/session"
	"github.com/igolaizola/shazambot/pkg/shazam"
	"github.com/igolaizola/shazambot/pkg/spotify"
)

type Config struct {
	Proxy   string
	Wait    time.Duration
	Debug   bool
	Timeout time.Duration

	Endpoint string
	Key      string
	Host     string

	Links         bool
	SpotifyID     string
	SpotifySecret string

	FFmpeg         string
	FFmpegDuration time.Duration
}

// NewHTTPClient returns a client using the given proxy, if any.
func NewHTTPClient(proxy string) (*http.Client, error) {
	httpClient := &http.Client{
		Timeout: 2 * time.Minute,
	}
	if proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		httpClient.Transport = &http.Transport{
			Proxy: http.ProxyURL(u),
		}
	}
	return httpClient, nil
}

// NewShazam returns a recognition client.
func NewShazam(cfg *Config) (*shazam.Client, error) {
	httpClient, err := NewHTTPClient(cfg.Proxy)
	if err != nil {
		return nil, err
	}
	return shazam.New(&shazam.Config{
		Wait:     cfg.Wait,
		Debug:    cfg.Debug,
		Client:   httpClient,
		Endpoint: cfg.Endpoint,
		Key:      cfg.Key,
		Host:     cfg.Host,
	}), nil
}

// Identify recognizes a local audio file.
func Identify(ctx context.Context, cfg *Config, path string) (*session.SongRecord, error) {
	client, err := NewShazam(cfg)
	if err != nil {
		return nil, err
	}
	rcfg := &recognize.Config{
		Debug:   cfg.Debug,
		Timeout: cfg.Timeout,
		Links:   cfg.Links,
	}
	if cfg.Links && cfg.SpotifyID != "" && cfg.SpotifySecret != "" {
		httpClient, err := NewHTTPClient(cfg.Proxy)
		if err != nil {
			return nil, err
		}
		sp := spotify.New(&spotify.Config{
			Wait:         1 * time.Second,
			Debug:        cfg.Debug,
			Client:       httpClient,
			ClientID:     cfg.SpotifyID,
			ClientSecret: cfg.SpotifySecret,
		})
		if err := sp.Start(ctx); err != nil {
			return nil, fmt.Errorf("couldn't start spotify client: %w", err)
		}
		rcfg.Linker = sp
	}
	if cfg.FFmpeg != "" {
		rcfg.Preparer = ffmpeg.New(cfg.FFmpeg, "", cfg.FFmpegDuration)
	}
	return recognize.New(client, rcfg).Recognize(ctx, path)
}
