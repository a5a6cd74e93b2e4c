package locale

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lang is a supported language code.
type Lang string

const (
	Persian Lang = "fa"
	English Lang = "en"
)

// Langs lists the supported languages in keyboard order.
var Langs = []Lang{Persian, English}

// Parse returns the language for the given code.
func Parse(code string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(code))) {
	case Persian:
		return Persian, true
	case English:
		return English, true
	}
	return "", false
}

// Detect maps a client language hint (e.g. "fa-IR", "en-US") to a supported
// language, falling back to def.
func Detect(hint string, def Lang) Lang {
	hint = strings.ToLower(hint)
	switch {
	case strings.HasPrefix(hint, string(Persian)):
		return Persian
	case strings.HasPrefix(hint, string(English)):
		return English
	}
	return def
}

// Key identifies a message template.
type Key string

const (
	Welcome        Key = "welcome"
	Help           Key = "help"
	LanguagePrompt Key = "language_prompt"
	LanguageSet    Key = "language_set"

	Processing        Key = "processing"
	Recognizing       Key = "recognizing"
	Success           Key = "success"
	Failed            Key = "failed"
	NoFile            Key = "no_file"
	FileTooLarge      Key = "file_too_large"
	UnsupportedFormat Key = "unsupported_format"
	Timeout           Key = "timeout"
	SlowDown          Key = "slow_down"
	GenericError      Key = "generic_error"

	ResultHeading  Key = "result_heading"
	UpdatedHeading Key = "updated_heading"
	LabelTitle     Key = "label_title"
	LabelArtist    Key = "label_artist"
	LabelAlbum     Key = "label_album"
	LabelYear      Key = "label_year"
	LabelGenre     Key = "label_genre"

	EditMenu       Key = "edit_menu"
	PromptTitle    Key = "prompt_title"
	PromptArtist   Key = "prompt_artist"
	PromptAlbum    Key = "prompt_album"
	PromptGenre    Key = "prompt_genre"
	PromptYear     Key = "prompt_year"
	EditSuccess    Key = "edit_success"
	EditCancel     Key = "edit_cancel"
	SessionExpired Key = "session_expired"
	SearchAgain    Key = "search_again"
	Saved          Key = "saved"
	SaveFailed     Key = "save_failed"

	ButtonPersian     Key = "button_persian"
	ButtonEnglish     Key = "button_english"
	ButtonEdit        Key = "button_edit"
	ButtonBack        Key = "button_back"
	ButtonCancel      Key = "button_cancel"
	ButtonSave        Key = "button_save"
	ButtonSearchAgain Key = "button_search_again"
	ButtonTitle       Key = "button_title"
	ButtonArtist      Key = "button_artist"
	ButtonAlbum       Key = "button_album"
	ButtonGenre       Key = "button_genre"
	ButtonYear        Key = "button_year"

	NoResults   Key = "no_results"
	SearchError Key = "search_error"
	FoundVia    Key = "found_via"
	Stats       Key = "stats"
	StatsBackup Key = "stats_backup"
	StatsRecent Key = "stats_recent"
)

// Catalog resolves message templates per language. It is populated at
// startup and read-only afterwards.
type Catalog struct {
	messages map[Lang]map[Key]string
}

// New returns a catalog initialized with the built-in messages.
func New() *Catalog {
	c := &Catalog{messages: map[Lang]map[Key]string{}}
	for lang, msgs := range defaults {
		c.messages[lang] = map[Key]string{}
		for k, v := range msgs {
			c.messages[lang][k] = v
		}
	}
	return c
}

// Override replaces a single template. An empty text is ignored.
func (c *Catalog) Override(lang Lang, key Key, text string) {
	if text == "" {
		return
	}
	if _, ok := c.messages[lang]; !ok {
		c.messages[lang] = map[Key]string{}
	}
	c.messages[lang][key] = text
}

// Load reads a YAML file with per language overrides:
//
//	fa:
//	  welcome: "..."
//	en:
//	  failed: "..."
func (c *Catalog) Load(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("locale: couldn't read %s: %w", path, err)
	}
	var overrides map[string]map[string]string
	if err := yaml.Unmarshal(b, &overrides); err != nil {
		return fmt.Errorf("locale: couldn't parse %s: %w", path, err)
	}
	for code, msgs := range overrides {
		lang, ok := Parse(code)
		if !ok {
			return fmt.Errorf("locale: unknown language %q in %s", code, path)
		}
		for k, v := range msgs {
			c.Override(lang, Key(k), v)
		}
	}
	return nil
}

// Text returns the template for the given language, falling back to English
// and finally to the key itself.
func (c *Catalog) Text(lang Lang, key Key) string {
	if v, ok := c.messages[lang][key]; ok {
		return v
	}
	if v, ok := c.messages[English][key]; ok {
		return v
	}
	return string(key)
}

// Format returns the template formatted with the given arguments.
func (c *Catalog) Format(lang Lang, key Key, args ...any) string {
	return fmt.Sprintf(c.Text(lang, key), args...)
}
