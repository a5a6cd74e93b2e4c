package session

import (
	"sync"

	"github.com/igolaizola/shazambot/pkg/locale"
)

// State is the edit dialogue state of a user.
type State int

const (
	Idle State = iota
	MenuShown
	AwaitingField
)

func (s State) String() string {
	switch s {
	case MenuShown:
		return "menu"
	case AwaitingField:
		return "awaiting"
	}
	return "idle"
}

type user struct {
	lang  locale.Lang
	song  *SongRecord
	state State
	field Field
}

// Store keeps per user preferences, the last recognized song and the edit
// dialogue state. Data lives in memory for the lifetime of the process.
// Every method is atomic with respect to other calls for the same user.
type Store struct {
	lock  sync.Mutex
	def   locale.Lang
	users map[int64]*user
}

// New returns an empty store that answers def for unseen users.
func New(def locale.Lang) *Store {
	return &Store{
		def:   def,
		users: map[int64]*user{},
	}
}

// Touch registers a user on first interaction with the given language.
// It reports whether the user was new. Known users are left untouched.
func (s *Store) Touch(id int64, lang locale.Lang) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.users[id]; ok {
		return false
	}
	if lang == "" {
		lang = s.def
	}
	s.users[id] = &user{lang: lang}
	return true
}

// Language returns the language of the user or the default one.
func (s *Store) Language(id int64) locale.Lang {
	s.lock.Lock()
	defer s.lock.Unlock()
	if u, ok := s.users[id]; ok && u.lang != "" {
		return u.lang
	}
	return s.def
}

// SetLanguage sets the language of the user.
func (s *Store) SetLanguage(id int64, lang locale.Lang) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.get(id).lang = lang
}

// SongRecord returns a copy of the last song of the user.
func (s *Store) SongRecord(id int64) (SongRecord, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	u, ok := s.users[id]
	if !ok || u.song == nil {
		return SongRecord{}, false
	}
	return *u.song, true
}

// SetSongRecord replaces the last song of the user. Any edit in progress is
// discarded.
func (s *Store) SetSongRecord(id int64, rec SongRecord) {
	s.lock.Lock()
	defer s.lock.Unlock()
	u := s.get(id)
	u.song = &rec
	u.state = Idle
	u.field = None
}

// OpenMenu moves the user to the edit menu of the record with the given ID.
// It fails if the user has no record or the record was superseded.
func (s *Store) OpenMenu(id int64, recordID string) (SongRecord, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	u, ok := s.users[id]
	if !ok || u.song == nil || u.song.ID != recordID {
		return SongRecord{}, false
	}
	u.state = MenuShown
	u.field = None
	return *u.song, true
}

// BeginEdit sets the field the next free-text reply is written to. It fails
// if the user has no record or the edit menu isn't open.
func (s *Store) BeginEdit(id int64, f Field) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	u, ok := s.users[id]
	if !ok || u.song == nil || f == None {
		return false
	}
	if u.state != MenuShown && u.state != AwaitingField {
		return false
	}
	u.state = AwaitingField
	u.field = f
	return true
}

// ConsumeEditField returns the active field and clears it. A second call
// returns false until a new field is set.
func (s *Store) ConsumeEditField(id int64) (Field, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	u, ok := s.users[id]
	if !ok || u.state != AwaitingField || u.field == None {
		return None, false
	}
	f := u.field
	u.state = Idle
	u.field = None
	return f, true
}

// Apply consumes the active field and writes value into it, returning the
// updated record. It reports false if no field was active.
func (s *Store) Apply(id int64, value string) (Field, SongRecord, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	u, ok := s.users[id]
	if !ok || u.state != AwaitingField || u.field == None || u.song == nil {
		return None, SongRecord{}, false
	}
	f := u.field
	u.state = Idle
	u.field = None
	if err := u.song.Set(f, value); err != nil {
		return None, SongRecord{}, false
	}
	return f, *u.song, true
}

// Reset returns the user to the idle state.
func (s *Store) Reset(id int64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if u, ok := s.users[id]; ok {
		u.state = Idle
		u.field = None
	}
}

// State returns the dialogue state of the user and the active field.
func (s *Store) State(id int64) (State, Field) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if u, ok := s.users[id]; ok {
		return u.state, u.field
	}
	return Idle, None
}

// Users returns the number of known users.
func (s *Store) Users() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.users)
}

// Languages returns a snapshot of every known user language.
func (s *Store) Languages() map[int64]locale.Lang {
	s.lock.Lock()
	defer s.lock.Unlock()
	langs := make(map[int64]locale.Lang, len(s.users))
	for id, u := range s.users {
		langs[id] = u.lang
	}
	return langs
}

// Restore loads user languages, keeping the state of already known users.
func (s *Store) Restore(langs map[int64]locale.Lang) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for id, lang := range langs {
		if _, ok := s.users[id]; ok {
			continue
		}
		s.users[id] = &user{lang: lang}
	}
}

func (s *Store) get(id int64) *user {
	u, ok := s.users[id]
	if !ok {
		u = &user{lang: s.def}
		s.users[id] = u
	}
	return u
}
