package inline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/igolaizola/shazambot/pkg/locale"
	"github.com/igolaizola/shazambot/pkg/shazam"
)

// ErrSearchFailed is logged when the search service fails. Users get a
// synthetic answer instead.
var ErrSearchFailed = errors.New("inline: search failed")

// MaxResults is the number of answers shown per query.
const MaxResults = 5

// Searcher searches tracks by free text.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]shazam.Track, error)
}

// Answer is a selectable inline result.
type Answer struct {
	ID          string
	Title       string
	Description string
	MessageText string
	ThumbURL    string
}

// Config configures an Adapter.
type Config struct {
	// Username is mentioned in the message sent when an answer is chosen.
	Username string
}

// Adapter turns inline queries into answers using a Searcher.
type Adapter struct {
	searcher Searcher
	catalog  *locale.Catalog
	username string
}

// New returns an adapter searching with s.
func New(s Searcher, c *locale.Catalog, cfg *Config) *Adapter {
	return &Adapter{
		searcher: s,
		catalog:  c,
		username: cfg.Username,
	}
}

// Answers returns the answers for the query. It returns false when the query
// is empty and nothing must be answered.
func (a *Adapter) Answers(ctx context.Context, lang locale.Lang, query string) ([]Answer, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false
	}
	tracks, err := a.searcher.Search(ctx, query, MaxResults)
	if err != nil {
		log.Println(fmt.Errorf("%w: %q: %v", ErrSearchFailed, query, err))
		return []Answer{a.synthetic(lang, "error", locale.SearchError)}, true
	}
	if len(tracks) == 0 {
		return []Answer{a.synthetic(lang, "no_results", locale.NoResults)}, true
	}
	if len(tracks) > MaxResults {
		tracks = tracks[:MaxResults]
	}
	var answers []Answer
	for i, t := range tracks {
		answers = append(answers, a.answer(lang, i, t))
	}
	return answers, true
}

func (a *Adapter) answer(lang locale.Lang, i int, t shazam.Track) Answer {
	title := orDefault(t.Title, "Unknown Title")
	artist := orDefault(t.Subtitle, "Unknown Artist")
	id := t.Key
	if id == "" {
		id = fmt.Sprintf("result_%d", i)
	}
	desc := artist
	if t.Genres.Primary != "" {
		desc = fmt.Sprintf("%s • %s", artist, t.Genres.Primary)
	}
	text := fmt.Sprintf("🎵 %s - %s", title, artist)
	if t.URL != "" {
		text += "\n" + t.URL
	}
	if a.username != "" {
		text += "\n\n" + a.catalog.Format(lang, locale.FoundVia, a.username)
	}
	return Answer{
		ID:          id,
		Title:       fmt.Sprintf("%s - %s", title, artist),
		Description: desc,
		MessageText: text,
		ThumbURL:    t.Images.CoverArt,
	}
}

func (a *Adapter) synthetic(lang locale.Lang, id string, key locale.Key) Answer {
	text := a.catalog.Text(lang, key)
	return Answer{
		ID:          id,
		Title:       text,
		MessageText: text,
	}
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
