package dialog

import (
	"errors"
	"testing"

	"github.com/igolaizola/shazambot/pkg/locale"
	"github.com/igolaizola/shazambot/pkg/session"
)

func newController() (*Controller, *session.Store, session.SongRecord) {
	store := session.New(locale.English)
	rec := session.SongRecord{
		ID:     "rec-1",
		Title:  "Song A",
		Artist: "Artist B",
		Album:  "Unknown Album",
		Genre:  "Unknown Genre",
		Year:   "Unknown Year",
	}
	store.SetSongRecord(7, rec)
	return New(store), store, rec
}

func TestRoundTrip(t *testing.T) {
	for _, f := range session.Fields {
		t.Run(string(f), func(t *testing.T) {
			c, store, orig := newController()
			if _, err := c.Open(7, orig.ID); err != nil {
				t.Fatalf("Open() err = %v; want nil", err)
			}
			if err := c.Choose(7, f); err != nil {
				t.Fatalf("Choose() err = %v; want nil", err)
			}
			gotField, rec, ok := c.Reply(7, "  edited text \n")
			if !ok {
				t.Fatal("Reply() ok = false; want true")
			}
			if gotField != f {
				t.Fatalf("Reply() field = %q; want %q", gotField, f)
			}
			want := orig
			_ = want.Set(f, "edited text")
			if rec != want {
				t.Fatalf("Reply() = %+v; want %+v", rec, want)
			}
			if st, _ := store.State(7); st != session.Idle {
				t.Fatalf("State() = %v; want %v", st, session.Idle)
			}
		})
	}
}

func TestReplyIdleNoop(t *testing.T) {
	c, store, orig := newController()
	if _, _, ok := c.Reply(7, "hello"); ok {
		t.Fatal("Reply() ok = true; want false while idle")
	}
	// Menu open but no field chosen is still a no-op.
	if _, err := c.Open(7, orig.ID); err != nil {
		t.Fatal(err)
	}
	if _, _, ok := c.Reply(7, "hello"); ok {
		t.Fatal("Reply() ok = true; want false with menu shown")
	}
	if got, _ := store.SongRecord(7); got != orig {
		t.Fatalf("SongRecord() = %+v; want %+v", got, orig)
	}
}

func TestReplyOnce(t *testing.T) {
	c, _, orig := newController()
	_, _ = c.Open(7, orig.ID)
	_ = c.Choose(7, session.Title)
	if _, _, ok := c.Reply(7, "first"); !ok {
		t.Fatal("Reply() ok = false; want true")
	}
	if _, _, ok := c.Reply(7, "second"); ok {
		t.Fatal("second Reply() ok = true; want false")
	}
}

func TestExpired(t *testing.T) {
	c, _, orig := newController()
	if _, err := c.Open(8, orig.ID); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Open() unknown user err = %v; want %v", err, ErrSessionExpired)
	}
	if _, err := c.Open(7, "stale"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Open() stale err = %v; want %v", err, ErrSessionExpired)
	}
	if err := c.Choose(7, session.Title); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("Choose() without menu err = %v; want %v", err, ErrSessionExpired)
	}
}

func TestCancel(t *testing.T) {
	c, store, orig := newController()
	_, _ = c.Open(7, orig.ID)
	_ = c.Choose(7, session.Genre)
	c.Cancel(7)
	if st, f := store.State(7); st != session.Idle || f != session.None {
		t.Fatalf("State() = %v, %q; want idle", st, f)
	}
	if _, _, ok := c.Reply(7, "rock"); ok {
		t.Fatal("Reply() after cancel ok = true; want false")
	}
}

func TestBack(t *testing.T) {
	c, store, orig := newController()
	_, _ = c.Open(7, orig.ID)
	rec, err := c.Back(7, orig.ID)
	if err != nil {
		t.Fatalf("Back() err = %v; want nil", err)
	}
	if rec != orig {
		t.Fatalf("Back() = %+v; want %+v", rec, orig)
	}
	if st, _ := store.State(7); st != session.Idle {
		t.Fatalf("State() = %v; want idle", st)
	}
}
