package recognize

import (
	"net/url"
	"strings"

	"github.com/igolaizola/shazambot/pkg/session"
	"github.com/igolaizola/shazambot/pkg/shazam"
)

// DefaultServices are the streaming service tags looked up in hub actions.
var DefaultServices = []string{"spotify"}

// Extract maps a recognition match into a song record. Missing values are
// replaced by their placeholder:
//
//	title  <- track.title
//	artist <- track.subtitle
//	album  <- track.sections[0].metadata[0].text
//	year   <- track.sections[0].metadata[1].text
//	genre  <- track.genres.primary
//
// The streaming link is taken from the first hub action whose type is one of
// the given services.
func Extract(t *shazam.Track, services []string) session.SongRecord {
	var rec session.SongRecord
	if t == nil {
		rec.Normalize()
		return rec
	}
	rec.Title = strings.TrimSpace(t.Title)
	rec.Artist = strings.TrimSpace(t.Subtitle)
	rec.Genre = strings.TrimSpace(t.Genres.Primary)
	if len(t.Sections) > 0 {
		md := t.Sections[0].Metadata
		if len(md) > 0 {
			rec.Album = strings.TrimSpace(md[0].Text)
		}
		if len(md) > 1 {
			rec.Year = strings.TrimSpace(md[1].Text)
		}
	}
	rec.Normalize()
	rec.StreamingService, rec.StreamingURL = StreamingLink(t, services)
	return rec
}

// StreamingLink returns the service and web URL of the first matching hub
// action. Provider actions are checked after top level actions.
func StreamingLink(t *shazam.Track, services []string) (string, string) {
	if t == nil {
		return "", ""
	}
	if len(services) == 0 {
		services = DefaultServices
	}
	actions := append([]shazam.Action{}, t.Hub.Actions...)
	for _, p := range t.Hub.Providers {
		for _, a := range p.Actions {
			if a.Type == "" {
				a.Type = p.Type
			}
			actions = append(actions, a)
		}
	}
	for _, a := range actions {
		for _, s := range services {
			if !strings.EqualFold(a.Type, s) || a.URI == "" {
				continue
			}
			if u := webURL(a.URI); u != "" {
				return s, u
			}
		}
	}
	return "", ""
}

// webURL converts service URIs (spotify:track:ID, spotify:search:Q) into web
// links. Only http(s) links are returned.
func webURL(uri string) string {
	if strings.HasPrefix(uri, "spotify:") {
		parts := strings.SplitN(strings.TrimPrefix(uri, "spotify:"), ":", 2)
		if len(parts) != 2 || parts[1] == "" {
			return ""
		}
		return "https://open.spotify.com/" + parts[0] + "/" + url.PathEscape(parts[1])
	}
	u, err := url.Parse(uri)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return uri
}
