package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/igolaizola/shazambot/pkg/dialog"
	"github.com/igolaizola/shazambot/pkg/locale"
	"github.com/igolaizola/shazambot/pkg/session"
	"github.com/igolaizola/shazambot/pkg/tags"
)

func (b *Bot) handleCallback(ctx context.Context, id int64, q *tgbot.CallbackQuery) {
	if _, err := b.api.AnswerCallbackQuery(tgbot.NewCallback(q.ID, "")); err != nil {
		b.debug("bot: couldn't answer callback %s: %v", q.ID, err)
	}
	if q.Message == nil || q.Message.Chat == nil {
		return
	}
	chatID, messageID := q.Message.Chat.ID, q.Message.MessageID

	action, arg := parseCallback(q.Data)
	switch action {
	case cbLanguage:
		lang, ok := locale.Parse(arg)
		if !ok {
			return
		}
		b.sessions.SetLanguage(id, lang)
		b.replace(chatID, messageID, b.text(id, locale.LanguageSet), nil)
	case cbEdit:
		if !b.editing {
			return
		}
		if _, err := b.dialog.Open(id, arg); err != nil {
			b.expired(id, chatID, messageID, err)
			return
		}
		markup := b.editKeyboard(id, arg)
		b.replace(chatID, messageID, b.text(id, locale.EditMenu), &markup)
	case cbField:
		f, ok := session.ParseField(arg)
		if !ok {
			return
		}
		if err := b.dialog.Choose(id, f); err != nil {
			b.expired(id, chatID, messageID, err)
			return
		}
		b.replace(chatID, messageID, b.text(id, fieldPrompts[f]), nil)
	case cbBack:
		rec, err := b.dialog.Back(id, arg)
		if err != nil {
			b.expired(id, chatID, messageID, err)
			return
		}
		view := b.presenter.Result(rec, b.sessions.Language(id))
		b.replace(chatID, messageID, view.Text, b.menuKeyboard(id, view.Menu))
	case cbCancel:
		b.dialog.Cancel(id)
		b.replace(chatID, messageID, b.text(id, locale.EditCancel), nil)
	case cbAgain:
		b.dialog.Cancel(id)
		_, _ = b.reply(chatID, b.text(id, locale.SearchAgain), nil)
	case cbSave:
		if !b.save {
			return
		}
		b.handleSave(ctx, id, chatID, arg)
	default:
		b.debug("bot: unknown callback %q from %d", q.Data, id)
	}
}

func (b *Bot) expired(id, chatID int64, messageID int, err error) {
	if !errors.Is(err, dialog.ErrSessionExpired) {
		log.Printf("bot: %v\n", err)
	}
	b.replace(chatID, messageID, b.text(id, locale.SessionExpired), nil)
}

// handleSave writes the record into the original file and sends it back.
func (b *Bot) handleSave(ctx context.Context, id, chatID int64, recordID string) {
	rec, ok := b.sessions.SongRecord(id)
	if !ok || rec.ID != recordID {
		_, _ = b.reply(chatID, b.text(id, locale.SessionExpired), nil)
		return
	}
	if rec.SourceFileID == "" || !tags.Supported(rec.SourceName) {
		_, _ = b.reply(chatID, b.text(id, locale.SaveFailed), nil)
		return
	}
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return
	}
	defer b.sem.Release(1)

	if err := b.sendTagged(ctx, chatID, rec, b.text(id, locale.Saved)); err != nil {
		log.Println(err)
		_, _ = b.reply(chatID, b.withDetail(b.text(id, locale.SaveFailed), err), nil)
	}
}

func (b *Bot) sendTagged(ctx context.Context, chatID int64, rec session.SongRecord, caption string) error {
	path, err := b.downloader.download(ctx, rec.SourceFileID, rec.SourceName)
	if err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Printf("bot: couldn't remove %s: %v\n", path, err)
		}
	}()
	if err := tags.WriteMP3(path, rec); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bot: couldn't read %s: %w", path, err)
	}
	doc := tgbot.NewDocumentUpload(chatID, tgbot.FileBytes{Name: fileName(rec), Bytes: data})
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("bot: couldn't send tagged file: %w", err)
	}
	return nil
}

func fileName(rec session.SongRecord) string {
	name := rec.Display(session.Title)
	if a := rec.Display(session.Artist); a != session.Placeholder(session.Artist) {
		name = a + " - " + name
	}
	return sanitize(name) + ".mp3"
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '\n', '\r':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
