package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newServer(t *testing.T, search string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if user, pass, ok := r.BasicAuth(); !ok || user != "id" || pass != "secret" {
			t.Errorf("basic auth = %q, %q; want id, secret", user, pass)
		}
		_, _ = w.Write([]byte(`{"access_token": "tok", "token_type": "bearer", "expires_in": 3600}`))
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q; want Bearer tok", got)
		}
		if got := r.URL.Query().Get("q"); got != "track:Song A artist:Artist B" {
			t.Errorf("q = %q", got)
		}
		_, _ = w.Write([]byte(search))
	})
	return httptest.NewServer(mux)
}

func TestLink(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   string
	}{
		{
			name:   "external url",
			search: `{"tracks": {"items": [{"id": "abc", "name": "Song A", "external_urls": {"spotify": "https://open.spotify.com/track/abc"}}]}}`,
			want:   "https://open.spotify.com/track/abc",
		},
		{
			name:   "id only",
			search: `{"tracks": {"items": [{"id": "def", "name": "Song A"}]}}`,
			want:   "https://open.spotify.com/track/def",
		},
		{
			name:   "no tracks",
			search: `{"tracks": {"items": []}}`,
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.search)
			defer srv.Close()
			c := New(&Config{
				Wait:         time.Millisecond,
				ClientID:     "id",
				ClientSecret: "secret",
				APIURL:       srv.URL + "/v1",
				AuthURL:      srv.URL + "/token",
			})
			got, err := c.Link(context.Background(), "Song A", "Artist B")
			if err != nil {
				t.Fatalf("Link() err = %v; want nil", err)
			}
			if got != tt.want {
				t.Fatalf("Link() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestStartMissingCredentials(t *testing.T) {
	c := New(&Config{})
	if err := c.Start(context.Background()); err == nil {
		t.Fatal("Start() err = nil; want error")
	}
}
