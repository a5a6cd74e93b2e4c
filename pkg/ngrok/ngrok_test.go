package ngrok

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPortOf(t *testing.T) {
	tests := map[string]string{
		":8443":                 "8443",
		"localhost:80":          "80",
		"http://localhost:8080": "8080",
		"8443":                  "",
	}
	for in, want := range tests {
		if got := portOf(in); got != want {
			t.Fatalf("portOf(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tunnels" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"tunnels":[
			{"public_url":"http://a.ngrok.io","config":{"addr":"http://localhost:8443"}},
			{"public_url":"https://b.ngrok.io","config":{"addr":"localhost:9000"}},
			{"public_url":"https://a.ngrok.io","config":{"addr":"http://localhost:8443"}}
		]}`))
	}))
	defer srv.Close()

	bin := filepath.Join(t.TempDir(), "ngrok")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nsleep 5\n"), 0755); err != nil {
		t.Fatal(err)
	}

	u, cancel, err := Run(context.Background(), &Config{Bin: bin, API: srv.URL, Wait: time.Millisecond}, ":8443")
	if err != nil {
		t.Fatalf("Run() err = %v; want nil", err)
	}
	defer cancel()
	if u != "https://a.ngrok.io" {
		t.Fatalf("Run() = %q; want %q", u, "https://a.ngrok.io")
	}
}

func TestRunNoTunnel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tunnels":[]}`))
	}))
	defer srv.Close()

	bin := filepath.Join(t.TempDir(), "ngrok")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatal(err)
	}
	_, _, err := Run(context.Background(), &Config{Bin: bin, API: srv.URL, Wait: time.Millisecond, Attempts: 3}, ":8443")
	if err == nil {
		t.Fatal("Run() err = nil; want error")
	}
}
