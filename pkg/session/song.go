package session

import "fmt"

// Field is an editable song field.
type Field string

const (
	None   Field = ""
	Title  Field = "title"
	Artist Field = "artist"
	Album  Field = "album"
	Genre  Field = "genre"
	Year   Field = "year"
)

// Fields lists the editable fields in display order.
var Fields = []Field{Title, Artist, Album, Genre, Year}

// ParseField returns the field with the given name.
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return None, false
}

// Placeholder returns the display value used when a field has no value.
func Placeholder(f Field) string {
	switch f {
	case Title:
		return "Unknown Title"
	case Artist:
		return "Unknown Artist"
	case Album:
		return "Unknown Album"
	case Genre:
		return "Unknown Genre"
	case Year:
		return "Unknown Year"
	}
	return "Unknown"
}

// SongRecord is the display-ready metadata of a recognized track.
type SongRecord struct {
	// ID identifies this snapshot. A new recognition gets a new ID so menus
	// attached to older results can be detected as stale.
	ID string

	Title  string
	Artist string
	Album  string
	Genre  string
	Year   string

	StreamingService string
	StreamingURL     string

	// Source attachment, used to write tags back into the original file.
	SourceFileID string
	SourceName   string
}

// Get returns the value of the given field.
func (r *SongRecord) Get(f Field) string {
	switch f {
	case Title:
		return r.Title
	case Artist:
		return r.Artist
	case Album:
		return r.Album
	case Genre:
		return r.Genre
	case Year:
		return r.Year
	}
	return ""
}

// Set assigns the value of the given field.
func (r *SongRecord) Set(f Field, v string) error {
	switch f {
	case Title:
		r.Title = v
	case Artist:
		r.Artist = v
	case Album:
		r.Album = v
	case Genre:
		r.Genre = v
	case Year:
		r.Year = v
	default:
		return fmt.Errorf("session: unknown field %q", f)
	}
	return nil
}

// Display returns the value of the field or its placeholder if empty.
func (r *SongRecord) Display(f Field) string {
	if v := r.Get(f); v != "" {
		return v
	}
	return Placeholder(f)
}

// Normalize replaces every empty field with its placeholder.
func (r *SongRecord) Normalize() {
	for _, f := range Fields {
		_ = r.Set(f, r.Display(f))
	}
}
