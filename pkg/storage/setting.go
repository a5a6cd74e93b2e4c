package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Setting is a key value pair, e.g. the time of the last backup.
type Setting struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Value     string
}

func (s *Store) GetSetting(ctx context.Context, id string) (*Setting, error) {
	var v Setting
	if err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: failed to get setting %s: %w", id, err)
	}
	return &v, nil
}

func (s *Store) SetSetting(ctx context.Context, v *Setting) error {
	if err := s.db.WithContext(ctx).Save(v).Error; err != nil {
		return fmt.Errorf("storage: failed to set setting %s: %w", v.ID, err)
	}
	return nil
}

// GetTime returns a setting holding a timestamp.
func (s *Store) GetTime(ctx context.Context, id string) (time.Time, error) {
	v, err := s.GetSetting(ctx, id)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, v.Value)
	if err != nil {
		return time.Time{}, fmt.Errorf("storage: invalid time in setting %s: %w", id, err)
	}
	return t, nil
}

// SetTime stores a timestamp setting.
func (s *Store) SetTime(ctx context.Context, id string, t time.Time) error {
	return s.SetSetting(ctx, &Setting{ID: id, Value: t.UTC().Format(time.RFC3339)})
}
