package serve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/igolaizola/shazambot"
	"github.com/igolaizola/shazambot/pkg/bot"
	"github.com/igolaizola/shazambot/pkg/ffmpeg"
	"github.com/igolaizola/shazambot/pkg/inbound"
	"github.com/igolaizola/shazambot/pkg/inline"
	"github.com/igolaizola/shazambot/pkg/locale"
	"github.com/igolaizola/shazambot/pkg/ngrok"
	"github.com/igolaizola/shazambot/pkg/present"
	"github.com/igolaizola/shazambot/pkg/ratelimit"
	"github.com/igolaizola/shazambot/pkg/recognize"
	"github.com/igolaizola/shazambot/pkg/session"
	"github.com/igolaizola/shazambot/pkg/shazam"
	"github.com/igolaizola/shazambot/pkg/spotify"
)

type Config struct {
	Debug   bool
	LogFile string
	DBType  string
	DBConn  string
	Proxy   string

	Token       string
	Username    string
	Name        string
	Admins      []int64
	WebhookURL  string
	WebhookAddr string
	// Ngrok exposes the webhook through a tunnel.
	Ngrok    bool
	NgrokBin string

	MaxFileSize   int64
	Extensions    []string
	DownloadDir   string
	Timeout       time.Duration
	MaxAttempts   int
	MaxRequests   int
	Cooldown      time.Duration
	MaxConcurrent int

	DefaultLanguage string
	AutoDetect      bool
	Markdown        bool
	VerboseErrors   bool
	Activity        bool
	Inline          bool
	InlineCacheTime time.Duration
	Editing         bool
	Save            bool
	Links           bool
	Notify          bool

	BlacklistEnabled bool
	Blacklist        []int64
	WhitelistEnabled bool
	Whitelist        []int64

	Backup         bool
	BackupInterval time.Duration

	Welcome  string
	Help     string
	Messages string

	ShazamEndpoint string
	ShazamKey      string
	ShazamHost     string

	SpotifyID     string
	SpotifySecret string

	FFmpeg         string
	FFmpegDuration time.Duration
}

// Run launches the bot and blocks until the context is cancelled.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("serve: couldn't open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, f))
		defer log.SetOutput(os.Stderr)
	}

	log.Println("serve: bot started")
	defer log.Println("serve: bot ended")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	debug := func(format string, args ...interface{}) {
		if !cfg.Debug {
			return
		}
		format += "\n"
		log.Printf(format, args...)
	}

	if cfg.Token == "" {
		return errors.New("serve: token is required")
	}
	def, ok := locale.Parse(cfg.DefaultLanguage)
	if !ok {
		return fmt.Errorf("serve: invalid default language %q", cfg.DefaultLanguage)
	}
	if cfg.MaxAttempts > 1 {
		debug("serve: max attempts %d ignored, recognition is attempted once", cfg.MaxAttempts)
	}

	catalog, err := newCatalog(cfg)
	if err != nil {
		return err
	}

	httpClient, err := shazambot.NewHTTPClient(cfg.Proxy)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	sessions := session.New(def)

	var history bot.History
	if cfg.DBType != "" {
		b, err := newBackup(ctx, cfg, sessions)
		if err != nil {
			return err
		}
		defer b.close()
		history = b.store
		go b.run(ctx)
	}

	var linker recognize.Linker
	if cfg.Links && cfg.SpotifyID != "" && cfg.SpotifySecret != "" {
		sp := spotify.New(&spotify.Config{
			Wait:         1 * time.Second,
			Burst:        cfg.MaxConcurrent,
			Debug:        cfg.Debug,
			Client:       httpClient,
			ClientID:     cfg.SpotifyID,
			ClientSecret: cfg.SpotifySecret,
		})
		if err := sp.Start(ctx); err != nil {
			return fmt.Errorf("serve: couldn't start spotify: %w", err)
		}
		linker = sp
	}

	var preparer recognize.Preparer
	if cfg.FFmpeg != "" {
		preparer = ffmpeg.New(cfg.FFmpeg, cfg.DownloadDir, cfg.FFmpegDuration)
	}

	shazamConfig := &shazam.Config{
		Wait:     500 * time.Millisecond,
		Burst:    cfg.MaxConcurrent,
		Debug:    cfg.Debug,
		Client:   httpClient,
		Endpoint: cfg.ShazamEndpoint,
		Key:      cfg.ShazamKey,
		Host:     cfg.ShazamHost,
	}
	recognizer := shazam.New(shazamConfig)
	orchestrator := recognize.New(recognizer, &recognize.Config{
		Debug:    cfg.Debug,
		Timeout:  cfg.Timeout,
		Links:    cfg.Links,
		Linker:   linker,
		Preparer: preparer,
	})

	api, err := tgbot.NewBotAPIWithClient(cfg.Token, httpClient)
	if err != nil {
		return fmt.Errorf("serve: couldn't create telegram client: %w", err)
	}
	api.Debug = cfg.Debug
	username := cfg.Username
	if username == "" {
		username = api.Self.UserName
	}
	debug("serve: authorized as @%s (%s)", api.Self.UserName, cfg.Name)

	var answerer bot.Answerer
	if cfg.Inline {
		// Inline queries are paced apart from recognitions
		searcher := shazam.New(shazamConfig)
		answerer = inline.New(searcher, catalog, &inline.Config{Username: username})
	}

	var blacklist []int64
	if cfg.BlacklistEnabled {
		blacklist = cfg.Blacklist
	}
	b, err := bot.New(&bot.Config{
		Debug:      cfg.Debug,
		API:        api,
		Client:     httpClient,
		Catalog:    catalog,
		Sessions:   sessions,
		Validator:  inbound.New(cfg.MaxFileSize, cfg.Extensions),
		Recognizer: orchestrator,
		Presenter: present.New(catalog, &present.Config{
			Markdown: cfg.Markdown,
			Editing:  cfg.Editing,
			Save:     cfg.Save,
		}),
		Inline:           answerer,
		History:          history,
		Limiter:          ratelimit.NewUsers(cfg.MaxRequests, cfg.Cooldown),
		Username:         username,
		Admins:           cfg.Admins,
		Blacklist:        blacklist,
		WhitelistEnabled: cfg.WhitelistEnabled,
		Whitelist:        cfg.Whitelist,
		DefaultLanguage:  def,
		AutoDetect:       cfg.AutoDetect,
		Markdown:         cfg.Markdown,
		VerboseErrors:    cfg.VerboseErrors,
		Activity:         cfg.Activity,
		Editing:          cfg.Editing,
		Save:             cfg.Save,
		Notify:           cfg.Notify,
		InlineCacheTime:  cfg.InlineCacheTime,
		DownloadDir:      cfg.DownloadDir,
		MaxConcurrent:    cfg.MaxConcurrent,
	})
	if err != nil {
		return fmt.Errorf("serve: couldn't create bot: %w", err)
	}

	var updates <-chan tgbot.Update
	if cfg.WebhookURL != "" || cfg.Ngrok {
		updates, err = listen(ctx, cancel, api, cfg)
	} else {
		updates, err = poll(api)
		defer api.StopReceivingUpdates()
	}
	if err != nil {
		return err
	}

	if err := b.Run(ctx, updates); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func newCatalog(cfg *Config) (*locale.Catalog, error) {
	catalog := locale.New()
	if cfg.Messages != "" {
		if err := catalog.Load(cfg.Messages); err != nil {
			return nil, fmt.Errorf("serve: couldn't load messages: %w", err)
		}
	}
	for _, lang := range locale.Langs {
		if cfg.Welcome != "" {
			catalog.Override(lang, locale.Welcome, cfg.Welcome)
		}
		if cfg.Help != "" {
			catalog.Override(lang, locale.Help, cfg.Help)
		}
	}
	return catalog, nil
}

func poll(api *tgbot.BotAPI) (<-chan tgbot.Update, error) {
	if _, err := api.RemoveWebhook(); err != nil {
		return nil, fmt.Errorf("serve: couldn't remove webhook: %w", err)
	}
	u := tgbot.NewUpdate(0)
	u.Timeout = 60
	updates, err := api.GetUpdatesChan(u)
	if err != nil {
		return nil, fmt.Errorf("serve: couldn't get updates: %w", err)
	}
	return updates, nil
}

func listen(ctx context.Context, cancel context.CancelFunc, api *tgbot.BotAPI, cfg *Config) (<-chan tgbot.Update, error) {
	u, err := url.Parse(cfg.WebhookURL)
	if err != nil {
		return nil, fmt.Errorf("serve: invalid webhook url: %w", err)
	}
	path := u.Path
	if path == "" || !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	webhookURL := cfg.WebhookURL
	if cfg.Ngrok {
		public, stop, err := ngrok.Run(ctx, &ngrok.Config{Bin: cfg.NgrokBin}, cfg.WebhookAddr)
		if err != nil {
			return nil, fmt.Errorf("serve: couldn't start tunnel: %w", err)
		}
		go func() {
			<-ctx.Done()
			stop()
		}()
		webhookURL = public + path
	}
	if _, err := api.SetWebhook(tgbot.NewWebhook(webhookURL)); err != nil {
		return nil, fmt.Errorf("serve: couldn't set webhook: %w", err)
	}
	hook := bot.NewWebhook(path, 100)
	server := &http.Server{
		Addr:    cfg.WebhookAddr,
		Handler: hook.Handler(),
	}
	go func() {
		log.Printf("serve: listening webhook on %s%s (%s)\n", cfg.WebhookAddr, path, webhookURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("serve: couldn't start webhook server: %v\n", err)
			cancel()
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("serve: couldn't shutdown webhook server: %v\n", err)
		}
	}()
	return hook.Updates(), nil
}
