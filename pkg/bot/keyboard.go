package bot

import (
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api"

	"github.com/igolaizola/shazambot/pkg/locale"
	"github.com/igolaizola/shazambot/pkg/present"
	"github.com/igolaizola/shazambot/pkg/session"
)

// Callback data prefixes.
const (
	cbLanguage = "lang"
	cbEdit     = "edit"
	cbField    = "field"
	cbBack     = "back"
	cbCancel   = "cancel"
	cbAgain    = "again"
	cbSave     = "save"
)

func callbackData(action, arg string) string {
	if arg == "" {
		return action
	}
	return action + ":" + arg
}

func parseCallback(data string) (string, string) {
	action, arg, _ := strings.Cut(data, ":")
	return action, arg
}

func (b *Bot) languageKeyboard(id int64) tgbot.InlineKeyboardMarkup {
	return tgbot.NewInlineKeyboardMarkup(
		tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData(b.text(id, locale.ButtonPersian), callbackData(cbLanguage, string(locale.Persian))),
			tgbot.NewInlineKeyboardButtonData(b.text(id, locale.ButtonEnglish), callbackData(cbLanguage, string(locale.English))),
		),
	)
}

var fieldButtons = map[session.Field]locale.Key{
	session.Title:  locale.ButtonTitle,
	session.Artist: locale.ButtonArtist,
	session.Album:  locale.ButtonAlbum,
	session.Genre:  locale.ButtonGenre,
	session.Year:   locale.ButtonYear,
}

var fieldPrompts = map[session.Field]locale.Key{
	session.Title:  locale.PromptTitle,
	session.Artist: locale.PromptArtist,
	session.Album:  locale.PromptAlbum,
	session.Genre:  locale.PromptGenre,
	session.Year:   locale.PromptYear,
}

func (b *Bot) editKeyboard(id int64, recordID string) tgbot.InlineKeyboardMarkup {
	button := func(f session.Field) tgbot.InlineKeyboardButton {
		return tgbot.NewInlineKeyboardButtonData(b.text(id, fieldButtons[f]), callbackData(cbField, string(f)))
	}
	return tgbot.NewInlineKeyboardMarkup(
		tgbot.NewInlineKeyboardRow(button(session.Title), button(session.Artist)),
		tgbot.NewInlineKeyboardRow(button(session.Album), button(session.Genre)),
		tgbot.NewInlineKeyboardRow(button(session.Year)),
		tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData(b.text(id, locale.ButtonBack), callbackData(cbBack, recordID)),
			tgbot.NewInlineKeyboardButtonData(b.text(id, locale.ButtonCancel), callbackData(cbCancel, "")),
		),
	)
}

// menuKeyboard converts a rendered menu into buttons. It returns nil when the
// menu has no actions.
func (b *Bot) menuKeyboard(id int64, m present.Menu) *tgbot.InlineKeyboardMarkup {
	var rows [][]tgbot.InlineKeyboardButton
	var actions []tgbot.InlineKeyboardButton
	if m.Edit {
		actions = append(actions, tgbot.NewInlineKeyboardButtonData(b.text(id, locale.ButtonEdit), callbackData(cbEdit, m.RecordID)))
	}
	if m.SearchAgain {
		actions = append(actions, tgbot.NewInlineKeyboardButtonData(b.text(id, locale.ButtonSearchAgain), callbackData(cbAgain, "")))
	}
	if len(actions) > 0 {
		rows = append(rows, actions)
	}
	if m.Save {
		rows = append(rows, tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData(b.text(id, locale.ButtonSave), callbackData(cbSave, m.RecordID)),
		))
	}
	if m.LinkURL != "" {
		rows = append(rows, tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonURL("🎧 "+serviceName(m.LinkService), m.LinkURL),
		))
	}
	if len(rows) == 0 {
		return nil
	}
	markup := tgbot.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func serviceName(s string) string {
	if s == "" {
		return "Open"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
