package bot

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhook(t *testing.T) {
	w := NewWebhook("/hook", 1)
	srv := httptest.NewServer(w.Handler())
	defer srv.Close()

	body := `{"update_id":10,"message":{"message_id":1,"from":{"id":5},"chat":{"id":5,"type":"private"},"text":"hi"}}`
	resp, err := http.Post(srv.URL+"/hook", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d; want %d", resp.StatusCode, http.StatusOK)
	}
	u := <-w.Updates()
	if u.UpdateID != 10 || u.Message == nil || u.Message.Text != "hi" {
		t.Fatalf("update = %+v", u)
	}
	if id, ok := userOf(u); !ok || id != 5 {
		t.Fatalf("userOf() = %d, %v; want 5, true", id, ok)
	}
}

func TestWebhookInvalid(t *testing.T) {
	w := NewWebhook("/hook", 1)
	srv := httptest.NewServer(w.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/hook", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d; want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(NewWebhook("/hook", 1).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d; want %d", resp.StatusCode, http.StatusOK)
	}
}
