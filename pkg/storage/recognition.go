package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Recognition is a successful identification made for a user.
type Recognition struct {
	ID        string `gorm:"primarykey"`
	CreatedAt time.Time

	UserID int64  `gorm:"index;not null;default:0"`
	Title  string `gorm:"not null;default:''"`
	Artist string `gorm:"not null;default:''"`
	Album  string `gorm:"not null;default:''"`
	Genre  string `gorm:"not null;default:''"`
	Year   string `gorm:"not null;default:''"`
	URL    string `gorm:"not null;default:''"`
}

func (s *Store) AddRecognition(ctx context.Context, v *Recognition) error {
	if v.ID == "" {
		v.ID = ulid.Make().String()
	}
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("storage: failed to add recognition %s: %w", v.ID, err)
	}
	return nil
}

func (s *Store) ListRecognitions(ctx context.Context, page, size int, orderBy string, filter ...Filter) ([]*Recognition, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * size
	vs := []*Recognition{}

	q := s.db.WithContext(ctx).Offset(offset).Limit(size)
	for _, f := range filter {
		q = q.Where(f.Query, f.Args...)
	}
	if orderBy != "" {
		q = q.Order(orderBy)
	}
	if err := q.Find(&vs).Error; err != nil {
		return nil, fmt.Errorf("storage: failed to list recognitions: %w", err)
	}
	return vs, nil
}

func (s *Store) CountRecognitions(ctx context.Context, filter ...Filter) (int64, error) {
	var n int64
	q := s.db.WithContext(ctx).Model(&Recognition{})
	for _, f := range filter {
		q = q.Where(f.Query, f.Args...)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("storage: failed to count recognitions: %w", err)
	}
	return n, nil
}
