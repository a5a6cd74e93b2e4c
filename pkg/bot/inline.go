package bot

import (
	"context"
	"log"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api"
)

func (b *Bot) handleInline(ctx context.Context, id int64, q *tgbot.InlineQuery) {
	if b.inline == nil {
		return
	}
	answers, ok := b.inline.Answers(ctx, b.sessions.Language(id), q.Query)
	if !ok {
		return
	}
	results := make([]interface{}, 0, len(answers))
	for _, a := range answers {
		r := tgbot.NewInlineQueryResultArticle(a.ID, a.Title, a.MessageText)
		r.Description = a.Description
		if a.ThumbURL != "" {
			r.ThumbURL = a.ThumbURL
			r.ThumbWidth = 100
			r.ThumbHeight = 100
		}
		results = append(results, r)
	}
	cfg := tgbot.InlineConfig{
		InlineQueryID: q.ID,
		Results:       results,
		CacheTime:     b.cacheTime,
		IsPersonal:    true,
	}
	if _, err := b.api.AnswerInlineQuery(cfg); err != nil {
		log.Printf("bot: couldn't answer inline query %s: %v\n", q.ID, err)
	}
}
