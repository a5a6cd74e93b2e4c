package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"
	tgbot "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/igolaizola/shazambot/pkg/inbound"
	"github.com/igolaizola/shazambot/pkg/locale"
	"github.com/igolaizola/shazambot/pkg/present"
	"github.com/igolaizola/shazambot/pkg/recognize"
	"github.com/igolaizola/shazambot/pkg/storage"
)

func (b *Bot) handleMessage(ctx context.Context, id int64, m *tgbot.Message) {
	if m.Chat == nil {
		return
	}
	if m.IsCommand() {
		b.handleCommand(ctx, id, m)
		return
	}
	if d := descriptorOf(m); d.Present {
		b.handleFile(ctx, id, m, d)
		return
	}
	if hasAttachment(m) {
		// Other attachments are only answered in private chats
		if m.Chat.IsPrivate() {
			_, _ = b.reply(m.Chat.ID, b.text(id, locale.NoFile), nil)
		}
		return
	}
	if m.Text != "" {
		b.handleText(id, m)
	}
}

func (b *Bot) handleCommand(ctx context.Context, id int64, m *tgbot.Message) {
	switch m.Command() {
	case "start":
		username := b.username
		if b.parseMode != "" {
			username = present.Escape(username)
		}
		text := b.catalog.Format(b.sessions.Language(id), locale.Welcome, username)
		_, _ = b.reply(m.Chat.ID, text, b.languageKeyboard(id))
	case "help":
		text := b.catalog.Format(b.sessions.Language(id), locale.Help, b.username)
		_, _ = b.reply(m.Chat.ID, text, nil)
	case "language":
		_, _ = b.reply(m.Chat.ID, b.text(id, locale.LanguagePrompt), b.languageKeyboard(id))
	case "stats":
		if !b.isAdmin(id) {
			return
		}
		_, _ = b.reply(m.Chat.ID, b.stats(ctx, b.sessions.Language(id)), nil)
	default:
		b.debug("bot: unknown command %q from %d", m.Command(), id)
	}
}

// recentStats is the number of recognitions listed by /stats.
const recentStats = 5

func (b *Bot) stats(ctx context.Context, lang locale.Lang) string {
	users := b.sessions.Users()
	recognitions := b.recognitions.Load()
	if b.history == nil {
		return b.catalog.Format(lang, locale.Stats, users, recognitions)
	}
	if n, err := b.history.CountRecognitions(ctx); err != nil {
		log.Printf("bot: couldn't count recognitions: %v\n", err)
	} else {
		recognitions = n
	}
	text := b.catalog.Format(lang, locale.Stats, users, recognitions)
	if n, err := b.history.CountPreferences(ctx); err != nil {
		log.Printf("bot: couldn't count preferences: %v\n", err)
	} else {
		text += "\n" + b.catalog.Format(lang, locale.StatsBackup, n)
	}
	recent, err := b.history.ListRecognitions(ctx, 1, recentStats, "id desc")
	if err != nil {
		log.Printf("bot: couldn't list recognitions: %v\n", err)
		return text
	}
	if len(recent) == 0 {
		return text
	}
	text += "\n\n" + b.catalog.Text(lang, locale.StatsRecent)
	for _, r := range recent {
		line := fmt.Sprintf("%s - %s", r.Title, r.Artist)
		if b.parseMode != "" {
			line = present.Escape(line)
		}
		text += "\n• " + line
	}
	return text
}

// descriptorOf returns the audio attachment of the message, if any.
func descriptorOf(m *tgbot.Message) *inbound.Descriptor {
	switch {
	case m.Audio != nil:
		ext := inbound.ExtensionFor(m.Audio.MimeType)
		if ext == "" {
			ext = ".mp3"
		}
		return &inbound.Descriptor{Present: true, FileID: m.Audio.FileID, Name: "audio" + ext, Size: int64(m.Audio.FileSize)}
	case m.Voice != nil:
		ext := inbound.ExtensionFor(m.Voice.MimeType)
		if ext == "" {
			ext = ".ogg"
		}
		return &inbound.Descriptor{Present: true, FileID: m.Voice.FileID, Name: "voice" + ext, Size: int64(m.Voice.FileSize)}
	case m.Document != nil:
		name := m.Document.FileName
		if name == "" {
			name = "document" + inbound.ExtensionFor(m.Document.MimeType)
		}
		return &inbound.Descriptor{Present: true, FileID: m.Document.FileID, Name: name, Size: int64(m.Document.FileSize)}
	}
	return &inbound.Descriptor{}
}

func hasAttachment(m *tgbot.Message) bool {
	return m.Photo != nil || m.Video != nil || m.VideoNote != nil || m.Sticker != nil ||
		m.Contact != nil || m.Location != nil
}

func (b *Bot) handleFile(ctx context.Context, id int64, m *tgbot.Message, d *inbound.Descriptor) {
	lang := b.sessions.Language(id)
	chatID := m.Chat.ID

	if _, err := b.validator.Validate(d); err != nil {
		b.debug("bot: rejected file from %d: %v", id, err)
		_, _ = b.reply(chatID, b.rejection(lang, err), nil)
		return
	}
	if !b.limiter.Allow(id) {
		_, _ = b.reply(chatID, b.catalog.Text(lang, locale.SlowDown), nil)
		return
	}

	var statusID int
	if status, err := b.reply(chatID, b.catalog.Text(lang, locale.Processing), nil); err == nil {
		statusID = status.MessageID
	}

	if err := b.sem.Acquire(ctx, 1); err != nil {
		b.replace(chatID, statusID, b.catalog.Text(lang, locale.GenericError), nil)
		return
	}
	defer b.sem.Release(1)

	if b.activity {
		if _, err := b.api.Send(tgbot.NewChatAction(chatID, tgbot.ChatTyping)); err != nil {
			b.debug("bot: couldn't send chat action: %v", err)
		}
	}

	path, err := b.downloader.download(ctx, d.FileID, d.Name)
	if err != nil {
		log.Printf("bot: couldn't download file from %d: %v\n", id, err)
		text := b.catalog.Text(lang, locale.GenericError)
		if errors.Is(err, inbound.ErrFileTooLarge) {
			text = b.rejection(lang, err)
		}
		b.replace(chatID, statusID, b.withDetail(text, err), nil)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Printf("bot: couldn't remove %s: %v\n", path, err)
		}
	}()

	if statusID != 0 {
		edit := tgbot.NewEditMessageText(chatID, statusID, b.catalog.Text(lang, locale.Recognizing))
		if _, err := b.api.Send(edit); err != nil {
			b.debug("bot: couldn't update status: %v", err)
		}
	}

	rec, err := b.recognizer.Recognize(ctx, path)
	if err != nil {
		b.replace(chatID, statusID, b.failure(lang, err), nil)
		if cause := recognize.Cause(err); cause != nil {
			b.notifyAdmins(fmt.Sprintf("⚠️ Recognition failed for user %d: %v", id, cause))
		}
		return
	}
	rec.SourceFileID = d.FileID
	rec.SourceName = d.Name
	b.sessions.SetSongRecord(id, *rec)
	b.recognitions.Add(1)
	if b.history != nil {
		if err := b.history.AddRecognition(ctx, &storage.Recognition{
			UserID: id,
			Title:  rec.Title,
			Artist: rec.Artist,
			Album:  rec.Album,
			Genre:  rec.Genre,
			Year:   rec.Year,
			URL:    rec.StreamingURL,
		}); err != nil {
			log.Printf("bot: couldn't store recognition: %v\n", err)
		}
	}

	view := b.presenter.Result(*rec, lang)
	b.replace(chatID, statusID, view.Text, b.menuKeyboard(id, view.Menu))
}

// rejection returns the notice for a validation error.
func (b *Bot) rejection(lang locale.Lang, err error) string {
	switch {
	case errors.Is(err, inbound.ErrFileTooLarge):
		return b.catalog.Format(lang, locale.FileTooLarge, humanize.IBytes(uint64(b.validator.MaxSize())))
	case errors.Is(err, inbound.ErrUnsupportedFormat):
		return b.catalog.Text(lang, locale.UnsupportedFormat)
	}
	return b.catalog.Text(lang, locale.NoFile)
}

// failure returns the notice for a recognition error. Timeouts and failures
// look the same to the user unless verbose errors are enabled.
func (b *Bot) failure(lang locale.Lang, err error) string {
	cause := recognize.Cause(err)
	if !b.verbose || cause == nil {
		return b.catalog.Text(lang, locale.Failed)
	}
	text := b.catalog.Text(lang, locale.Failed)
	if errors.Is(cause, context.DeadlineExceeded) {
		text = b.catalog.Text(lang, locale.Timeout)
	}
	return b.withDetail(text, cause)
}

func (b *Bot) withDetail(text string, err error) string {
	if !b.verbose || err == nil {
		return text
	}
	detail := err.Error()
	if b.parseMode != "" {
		detail = present.Escape(detail)
	}
	return text + "\n\n" + detail
}

// handleText writes a free text reply into the field being edited. Nothing is
// sent when no field is being edited.
func (b *Bot) handleText(id int64, m *tgbot.Message) {
	f, rec, ok := b.dialog.Reply(id, m.Text)
	if !ok {
		return
	}
	b.debug("bot: user %d edited %s", id, f)
	lang := b.sessions.Language(id)
	_, _ = b.reply(m.Chat.ID, b.catalog.Text(lang, locale.EditSuccess), nil)
	view := b.presenter.Updated(rec, lang)
	if markup := b.menuKeyboard(id, view.Menu); markup != nil {
		_, _ = b.reply(m.Chat.ID, view.Text, *markup)
		return
	}
	_, _ = b.reply(m.Chat.ID, view.Text, nil)
}
