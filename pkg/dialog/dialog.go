package dialog

import (
	"errors"
	"strings"

	"github.com/igolaizola/shazambot/pkg/session"
)

// ErrSessionExpired is returned when an edit action refers to a record that
// is absent or was superseded by a newer recognition.
var ErrSessionExpired = errors.New("dialog: session expired")

// Controller drives the edit dialogue of a song record:
//
//	Idle -> MenuShown -> AwaitingField(F) -> Idle
//
// with cancel returning to Idle from any state. Every state is stored in the
// session store.
type Controller struct {
	store *session.Store
}

// New returns a controller backed by the given store.
func New(store *session.Store) *Controller {
	return &Controller{store: store}
}

// Open shows the edit menu for the record with the given ID.
func (c *Controller) Open(userID int64, recordID string) (session.SongRecord, error) {
	rec, ok := c.store.OpenMenu(userID, recordID)
	if !ok {
		c.store.Reset(userID)
		return session.SongRecord{}, ErrSessionExpired
	}
	return rec, nil
}

// Choose selects the field the next free-text reply will be written to.
func (c *Controller) Choose(userID int64, f session.Field) error {
	if !c.store.BeginEdit(userID, f) {
		c.store.Reset(userID)
		return ErrSessionExpired
	}
	return nil
}

// Reply consumes the active field and writes the trimmed text into it. It
// returns false, without touching the record, if no field is active.
func (c *Controller) Reply(userID int64, text string) (session.Field, session.SongRecord, bool) {
	if st, _ := c.store.State(userID); st != session.AwaitingField {
		return session.None, session.SongRecord{}, false
	}
	return c.store.Apply(userID, strings.TrimSpace(text))
}

// Back leaves the menu and returns the record to display again.
func (c *Controller) Back(userID int64, recordID string) (session.SongRecord, error) {
	c.store.Reset(userID)
	rec, ok := c.store.SongRecord(userID)
	if !ok || rec.ID != recordID {
		return session.SongRecord{}, ErrSessionExpired
	}
	return rec, nil
}

// Cancel aborts the dialogue.
func (c *Controller) Cancel(userID int64) {
	c.store.Reset(userID)
}
