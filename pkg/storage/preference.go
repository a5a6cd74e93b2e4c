package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"
)

// Preference is the backed up language of a user.
type Preference struct {
	ID        int64 `gorm:"primarykey;autoIncrement:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Language string `gorm:"not null;default:''"`
}

// ListPreferences returns every backed up preference.
func (s *Store) ListPreferences(ctx context.Context) ([]*Preference, error) {
	vs := []*Preference{}
	if err := s.db.WithContext(ctx).Order("id").Find(&vs).Error; err != nil {
		return nil, fmt.Errorf("storage: failed to list preferences: %w", err)
	}
	return vs, nil
}

// SetPreferences upserts the given user languages.
func (s *Store) SetPreferences(ctx context.Context, langs map[int64]string) error {
	if len(langs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	vs := make([]*Preference, 0, len(langs))
	for id, lang := range langs {
		vs = append(vs, &Preference{ID: id, Language: lang, CreatedAt: now, UpdatedAt: now})
	}
	q := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"language", "updated_at"}),
	})
	if err := q.CreateInBatches(vs, 100).Error; err != nil {
		return fmt.Errorf("storage: failed to set preferences: %w", err)
	}
	return nil
}

// CountPreferences returns the number of backed up users.
func (s *Store) CountPreferences(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Preference{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("storage: failed to count preferences: %w", err)
	}
	return n, nil
}
