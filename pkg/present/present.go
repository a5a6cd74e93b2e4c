package present

import (
	"strings"

	"github.com/igolaizola/shazambot/pkg/locale"
	"github.com/igolaizola/shazambot/pkg/session"
)

// View is a rendered song record.
type View struct {
	Text string
	Menu Menu
}

// Menu describes the actions attached to a rendered record.
type Menu struct {
	RecordID string
	// Edit shows the edit button.
	Edit bool
	// SearchAgain shows the search again button.
	SearchAgain bool
	// Save shows the button that writes the record into the source file.
	Save bool
	// LinkService and LinkURL describe the optional streaming link button.
	LinkService string
	LinkURL     string
}

type Config struct {
	// Markdown escapes values and bolds the heading.
	Markdown bool
	// Editing enables the edit button.
	Editing bool
	// Save enables the save button on updated records.
	Save bool
}

// Presenter renders song records. It has no side effects.
type Presenter struct {
	catalog  *locale.Catalog
	markdown bool
	editing  bool
	save     bool
}

func New(c *locale.Catalog, cfg *Config) *Presenter {
	return &Presenter{
		catalog:  c,
		markdown: cfg.Markdown,
		editing:  cfg.Editing,
		save:     cfg.Save,
	}
}

var lines = []struct {
	label locale.Key
	field session.Field
}{
	{locale.LabelTitle, session.Title},
	{locale.LabelArtist, session.Artist},
	{locale.LabelAlbum, session.Album},
	{locale.LabelYear, session.Year},
	{locale.LabelGenre, session.Genre},
}

// Result renders a freshly recognized record.
func (p *Presenter) Result(rec session.SongRecord, lang locale.Lang) View {
	return View{
		Text: p.text(rec, lang, locale.ResultHeading),
		Menu: Menu{
			RecordID:    rec.ID,
			Edit:        p.editing,
			LinkService: rec.StreamingService,
			LinkURL:     rec.StreamingURL,
		},
	}
}

// Updated renders a record after an edit.
func (p *Presenter) Updated(rec session.SongRecord, lang locale.Lang) View {
	return View{
		Text: p.text(rec, lang, locale.UpdatedHeading),
		Menu: Menu{
			RecordID:    rec.ID,
			Edit:        p.editing,
			SearchAgain: true,
			Save:        p.save && rec.SourceFileID != "",
			LinkService: rec.StreamingService,
			LinkURL:     rec.StreamingURL,
		},
	}
}

// text renders the heading followed by one labeled line per field. Values
// are kept on a single line.
func (p *Presenter) text(rec session.SongRecord, lang locale.Lang, heading locale.Key) string {
	var sb strings.Builder
	h := p.catalog.Text(lang, heading)
	if p.markdown {
		h = "*" + Escape(h) + "*"
	}
	sb.WriteString(h)
	for _, l := range lines {
		value := strings.Join(strings.Fields(rec.Display(l.field)), " ")
		if value == "" {
			value = session.Placeholder(l.field)
		}
		if p.markdown {
			value = Escape(value)
		}
		sb.WriteString("\n")
		sb.WriteString(p.catalog.Text(lang, l.label))
		sb.WriteString(" ")
		sb.WriteString(value)
	}
	return sb.String()
}

var escaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"`", "\\`",
	"[", `\[`,
)

// Escape escapes the characters with meaning in legacy markdown.
func Escape(s string) string {
	return escaper.Replace(s)
}
