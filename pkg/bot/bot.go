package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"sync/atomic"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api"
	"golang.org/x/sync/semaphore"

	"github.com/igolaizola/shazambot/pkg/dialog"
	"github.com/igolaizola/shazambot/pkg/inbound"
	"github.com/igolaizola/shazambot/pkg/inline"
	"github.com/igolaizola/shazambot/pkg/locale"
	"github.com/igolaizola/shazambot/pkg/present"
	"github.com/igolaizola/shazambot/pkg/ratelimit"
	"github.com/igolaizola/shazambot/pkg/session"
	"github.com/igolaizola/shazambot/pkg/storage"
)

// API is the subset of the telegram bot API used by the bot.
type API interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
	AnswerCallbackQuery(config tgbot.CallbackConfig) (tgbot.APIResponse, error)
	AnswerInlineQuery(config tgbot.InlineConfig) (tgbot.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Recognizer identifies a downloaded clip.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (*session.SongRecord, error)
}

// Answerer resolves inline queries.
type Answerer interface {
	Answers(ctx context.Context, lang locale.Lang, query string) ([]inline.Answer, bool)
}

// History records successful recognitions.
type History interface {
	AddRecognition(ctx context.Context, v *storage.Recognition) error
	CountRecognitions(ctx context.Context, filter ...storage.Filter) (int64, error)
	ListRecognitions(ctx context.Context, page, size int, orderBy string, filter ...storage.Filter) ([]*storage.Recognition, error)
	CountPreferences(ctx context.Context) (int64, error)
}

type Config struct {
	Debug bool

	API        API
	Client     *http.Client
	Catalog    *locale.Catalog
	Sessions   *session.Store
	Validator  *inbound.Validator
	Recognizer Recognizer
	Presenter  *present.Presenter
	// Inline answers inline queries. Inline mode is disabled when nil.
	Inline Answerer
	// History is optional.
	History History
	// Limiter is optional.
	Limiter *ratelimit.Users

	Username string
	Admins   []int64
	// Blacklist users are ignored.
	Blacklist []int64
	// Whitelist restricts the groups the bot answers in when enabled.
	WhitelistEnabled bool
	Whitelist        []int64

	DefaultLanguage locale.Lang
	AutoDetect      bool
	Markdown        bool
	VerboseErrors   bool
	Activity        bool
	Editing         bool
	Save            bool
	Notify          bool
	InlineCacheTime time.Duration
	DownloadDir     string
	MaxConcurrent   int
}

// Bot handles telegram updates.
type Bot struct {
	api        API
	downloader *downloader
	catalog    *locale.Catalog
	sessions   *session.Store
	dialog     *dialog.Controller
	validator  *inbound.Validator
	recognizer Recognizer
	presenter  *present.Presenter
	inline     Answerer
	history    History
	limiter    *ratelimit.Users
	sem        *semaphore.Weighted

	username    string
	admins      map[int64]struct{}
	blacklist   map[int64]struct{}
	whitelist   map[int64]struct{}
	whitelisted bool

	defaultLang  locale.Lang
	autoDetect   bool
	parseMode    string
	verbose      bool
	activity     bool
	editing      bool
	save         bool
	notify       bool
	cacheTime    int
	recognitions atomic.Int64
	debug        func(string, ...any)
}

func New(cfg *Config) (*Bot, error) {
	switch {
	case cfg.API == nil:
		return nil, errors.New("bot: api is required")
	case cfg.Catalog == nil:
		return nil, errors.New("bot: catalog is required")
	case cfg.Sessions == nil:
		return nil, errors.New("bot: session store is required")
	case cfg.Recognizer == nil:
		return nil, errors.New("bot: recognizer is required")
	case cfg.Presenter == nil:
		return nil, errors.New("bot: presenter is required")
	}
	validator := cfg.Validator
	if validator == nil {
		validator = inbound.New(0, nil)
	}
	dir := cfg.DownloadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("bot: couldn't create download dir %s: %w", dir, err)
	}
	concurrent := cfg.MaxConcurrent
	if concurrent <= 0 {
		concurrent = 5
	}
	def := cfg.DefaultLanguage
	if def == "" {
		def = locale.Persian
	}
	var parseMode string
	if cfg.Markdown {
		parseMode = tgbot.ModeMarkdown
	}
	return &Bot{
		api:         cfg.API,
		downloader:  newDownloader(cfg.API, cfg.Client, dir, validator.MaxSize()),
		catalog:     cfg.Catalog,
		sessions:    cfg.Sessions,
		dialog:      dialog.New(cfg.Sessions),
		validator:   validator,
		recognizer:  cfg.Recognizer,
		presenter:   cfg.Presenter,
		inline:      cfg.Inline,
		history:     cfg.History,
		limiter:     cfg.Limiter,
		sem:         semaphore.NewWeighted(int64(concurrent)),
		username:    cfg.Username,
		admins:      toSet(cfg.Admins),
		blacklist:   toSet(cfg.Blacklist),
		whitelist:   toSet(cfg.Whitelist),
		whitelisted: cfg.WhitelistEnabled,
		defaultLang: def,
		autoDetect:  cfg.AutoDetect,
		parseMode:   parseMode,
		verbose:     cfg.VerboseErrors,
		activity:    cfg.Activity,
		editing:     cfg.Editing,
		save:        cfg.Save,
		notify:      cfg.Notify,
		cacheTime:   int(cfg.InlineCacheTime / time.Second),
		debug: func(format string, args ...any) {
			if !cfg.Debug {
				return
			}
			format += "\n"
			log.Printf(format, args...)
		},
	}, nil
}

func toSet(ids []int64) map[int64]struct{} {
	m := map[int64]struct{}{}
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

// Run handles updates until the context is cancelled or the channel is
// closed. Updates of the same user are handled in order, updates of
// different users concurrently.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbot.Update) error {
	q := newQueue()
	defer q.wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			id, ok := userOf(u)
			if !ok {
				b.debug("bot: ignoring update %d without user", u.UpdateID)
				continue
			}
			q.push(id, func() {
				b.Handle(ctx, u)
			})
		}
	}
}

// Handle handles a single update. Failures are logged and never propagated.
func (b *Bot) Handle(ctx context.Context, u tgbot.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("bot: panic handling update %d: %v\n%s", u.UpdateID, r, debug.Stack())
		}
	}()

	id, ok := userOf(u)
	if !ok || !b.allowed(u) {
		return
	}
	b.touch(id, u)

	switch {
	case u.InlineQuery != nil:
		b.handleInline(ctx, id, u.InlineQuery)
	case u.CallbackQuery != nil:
		b.handleCallback(ctx, id, u.CallbackQuery)
	case u.Message != nil:
		b.handleMessage(ctx, id, u.Message)
	}
}

func fromOf(u tgbot.Update) *tgbot.User {
	switch {
	case u.InlineQuery != nil:
		return u.InlineQuery.From
	case u.CallbackQuery != nil:
		return u.CallbackQuery.From
	case u.Message != nil:
		return u.Message.From
	}
	return nil
}

func userOf(u tgbot.Update) (int64, bool) {
	from := fromOf(u)
	if from == nil {
		return 0, false
	}
	return int64(from.ID), true
}

func (b *Bot) allowed(u tgbot.Update) bool {
	id, _ := userOf(u)
	if _, ok := b.blacklist[id]; ok {
		b.debug("bot: ignoring blacklisted user %d", id)
		return false
	}
	if !b.whitelisted {
		return true
	}
	var chat *tgbot.Chat
	switch {
	case u.Message != nil:
		chat = u.Message.Chat
	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil:
		chat = u.CallbackQuery.Message.Chat
	}
	if chat == nil || (!chat.IsGroup() && !chat.IsSuperGroup()) {
		return true
	}
	if _, ok := b.whitelist[chat.ID]; !ok {
		b.debug("bot: ignoring group %d", chat.ID)
		return false
	}
	return true
}

// touch creates the user preference on first contact.
func (b *Bot) touch(id int64, u tgbot.Update) {
	lang := b.defaultLang
	if from := fromOf(u); b.autoDetect && from != nil {
		lang = locale.Detect(from.LanguageCode, b.defaultLang)
	}
	if b.sessions.Touch(id, lang) {
		b.debug("bot: new user %d (%s)", id, lang)
	}
}

func (b *Bot) isAdmin(id int64) bool {
	_, ok := b.admins[id]
	return ok
}

func (b *Bot) text(id int64, key locale.Key) string {
	return b.catalog.Text(b.sessions.Language(id), key)
}

func (b *Bot) send(c tgbot.Chattable) (tgbot.Message, error) {
	msg, err := b.api.Send(c)
	if err != nil {
		log.Printf("bot: couldn't send message: %v\n", err)
	}
	return msg, err
}

// reply sends a new message to the chat.
func (b *Bot) reply(chatID int64, text string, markup any) (tgbot.Message, error) {
	msg := tgbot.NewMessage(chatID, text)
	msg.ParseMode = b.parseMode
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	return b.send(msg)
}

// replace edits the message into the given text. If the message can't be
// edited a new message is sent instead, so a final message always lands.
func (b *Bot) replace(chatID int64, messageID int, text string, markup *tgbot.InlineKeyboardMarkup) {
	if messageID != 0 {
		edit := tgbot.NewEditMessageText(chatID, messageID, text)
		edit.ParseMode = b.parseMode
		edit.ReplyMarkup = markup
		_, err := b.api.Send(edit)
		if err == nil {
			return
		}
		log.Printf("bot: couldn't edit message %d, sending a new one: %v\n", messageID, err)
	}
	if markup != nil {
		_, _ = b.reply(chatID, text, *markup)
		return
	}
	_, _ = b.reply(chatID, text, nil)
}

// notifyAdmins reports a failure to every admin when notifications are
// enabled.
func (b *Bot) notifyAdmins(text string) {
	if !b.notify {
		return
	}
	for id := range b.admins {
		if _, err := b.api.Send(tgbot.NewMessage(id, text)); err != nil {
			log.Printf("bot: couldn't notify admin %d: %v\n", id, err)
		}
	}
}
