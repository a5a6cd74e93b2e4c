package serve

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/igolaizola/shazambot/pkg/locale"
	"github.com/igolaizola/shazambot/pkg/session"
	"github.com/igolaizola/shazambot/pkg/storage"
)

const lastBackup = "backup/last"

// backup mirrors user preferences into the database.
type backup struct {
	store    *storage.Store
	sessions *session.Store
	enabled  bool
	interval time.Duration
}

func newBackup(ctx context.Context, cfg *Config, sessions *session.Store) (*backup, error) {
	store, err := storage.New(cfg.DBType, cfg.DBConn, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("serve: couldn't create orm store: %w", err)
	}
	if err := store.Start(ctx); err != nil {
		return nil, fmt.Errorf("serve: couldn't start orm store: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("serve: couldn't migrate orm store: %w", err)
	}
	interval := cfg.BackupInterval
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	b := &backup{
		store:    store,
		sessions: sessions,
		enabled:  cfg.Backup,
		interval: interval,
	}
	if b.enabled {
		if err := b.restore(ctx); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *backup) restore(ctx context.Context) error {
	prefs, err := b.store.ListPreferences(ctx)
	if err != nil {
		return fmt.Errorf("serve: couldn't list preferences: %w", err)
	}
	langs := map[int64]locale.Lang{}
	for _, p := range prefs {
		if lang, ok := locale.Parse(p.Language); ok {
			langs[p.ID] = lang
		}
	}
	b.sessions.Restore(langs)
	log.Printf("serve: restored %d preferences\n", len(langs))
	return nil
}

func (b *backup) save(ctx context.Context) error {
	langs := map[int64]string{}
	for id, lang := range b.sessions.Languages() {
		langs[id] = string(lang)
	}
	if err := b.store.SetPreferences(ctx, langs); err != nil {
		return fmt.Errorf("serve: couldn't save preferences: %w", err)
	}
	if err := b.store.SetTime(ctx, lastBackup, time.Now().UTC()); err != nil {
		return fmt.Errorf("serve: couldn't save backup time: %w", err)
	}
	return nil
}

// next returns how long to wait for the next backup.
func (b *backup) next(ctx context.Context) time.Duration {
	last, err := b.store.GetTime(ctx, lastBackup)
	if errors.Is(err, storage.ErrNotFound) {
		return b.interval
	}
	if err != nil {
		log.Printf("serve: couldn't get last backup time: %v\n", err)
		return b.interval
	}
	wait := b.interval - time.Since(last)
	if wait < time.Minute {
		wait = time.Minute
	}
	return wait
}

func (b *backup) run(ctx context.Context) {
	if !b.enabled {
		return
	}
	timer := time.NewTimer(b.next(ctx))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := b.save(ctx); err != nil {
				log.Println(err)
			} else {
				log.Println("serve: preferences saved")
			}
			timer.Reset(b.interval)
		}
	}
}

func (b *backup) close() {
	if b.enabled {
		// The parent context is done at shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.save(ctx); err != nil {
			log.Println(err)
		}
	}
	if err := b.store.Close(); err != nil {
		log.Printf("serve: couldn't close orm store: %v\n", err)
	}
}
