package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/zmb3/spotify/v2"
)

// Link returns the web link of the best matching track, or an empty string
// if there is none.
func (c *Client) Link(ctx context.Context, title, artist string) (string, error) {
	query := strings.TrimSpace(fmt.Sprintf("track:%s artist:%s", title, artist))
	if artist == "" {
		query = "track:" + title
	}
	t, err := c.SearchTrack(ctx, query)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", nil
	}
	if u := t.ExternalURLs["spotify"]; u != "" {
		return u, nil
	}
	if t.ID != "" {
		return "https://open.spotify.com/track/" + t.ID.String(), nil
	}
	return "", nil
}

// SearchTrack returns the first track matching the query.
func (c *Client) SearchTrack(ctx context.Context, query string) (*spotify.FullTrack, error) {
	if err := c.Auth(ctx); err != nil {
		return nil, err
	}
	var resp spotify.SearchResult
	u := "search?q=" + url.QueryEscape(query) + "&type=track&limit=1"
	if _, err := c.do(ctx, "GET", u, nil, &resp); err != nil {
		return nil, fmt.Errorf("spotify: couldn't search track: %w", err)
	}
	if resp.Tracks == nil || len(resp.Tracks.Tracks) == 0 {
		return nil, nil
	}
	return &resp.Tracks.Tracks[0], nil
}
