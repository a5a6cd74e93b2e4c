package bot

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbot "github.com/go-telegram-bot-api/telegram-bot-api"
)

// Webhook receives updates pushed by telegram.
type Webhook struct {
	path    string
	updates chan tgbot.Update
	mux     *chi.Mux
}

// NewWebhook returns a webhook accepting updates on the given path.
func NewWebhook(path string, buffer int) *Webhook {
	if path == "" {
		path = "/"
	}
	w := &Webhook{
		path:    path,
		updates: make(chan tgbot.Update, buffer),
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.Timeout(30 * time.Second))
	mux.Get("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.Post(path, w.receive)
	w.mux = mux
	return w
}

// Handler returns the HTTP handler of the webhook.
func (w *Webhook) Handler() http.Handler {
	return w.mux
}

// Updates returns the channel updates are delivered to.
func (w *Webhook) Updates() <-chan tgbot.Update {
	return w.updates
}

func (w *Webhook) receive(rw http.ResponseWriter, r *http.Request) {
	var u tgbot.Update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		log.Printf("bot: couldn't decode webhook update: %v\n", err)
		http.Error(rw, "invalid update", http.StatusBadRequest)
		return
	}
	select {
	case w.updates <- u:
		rw.WriteHeader(http.StatusOK)
	case <-r.Context().Done():
		http.Error(rw, "timeout", http.StatusServiceUnavailable)
	}
}
