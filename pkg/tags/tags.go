package tags

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/igolaizola/shazambot/pkg/session"
)

// Supported reports whether tags can be written into the named file.
func Supported(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".mp3")
}

// WriteMP3 writes the record as ID3v2.4 tags. Fields holding a placeholder
// are left out.
func WriteMP3(path string, rec session.SongRecord) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("tags: couldn't open %s: %w", path, err)
	}
	defer tag.Close()

	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	for _, f := range session.Fields {
		v := value(rec, f)
		switch f {
		case session.Title:
			setOrDelete(tag, tag.CommonID("Title/Songname/Content description"), v, tag.SetTitle)
		case session.Artist:
			setOrDelete(tag, tag.CommonID("Lead artist/Lead performer/Soloist/Performing group"), v, tag.SetArtist)
		case session.Album:
			setOrDelete(tag, tag.CommonID("Album/Movie/Show title"), v, tag.SetAlbum)
		case session.Genre:
			setOrDelete(tag, tag.CommonID("Content type"), v, tag.SetGenre)
		case session.Year:
			tag.DeleteFrames("TDRC")
			if v != "" {
				tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, v)
			}
		}
	}
	if rec.StreamingURL != "" {
		tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
			Encoding:    id3v2.EncodingUTF8,
			Description: "URL",
			Value:       rec.StreamingURL,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("tags: couldn't save %s: %w", path, err)
	}
	return nil
}

func value(rec session.SongRecord, f session.Field) string {
	v := strings.TrimSpace(rec.Get(f))
	if v == session.Placeholder(f) {
		return ""
	}
	return v
}

func setOrDelete(tag *id3v2.Tag, id, v string, set func(string)) {
	if v == "" {
		tag.DeleteFrames(id)
		return
	}
	set(v)
}
