package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNotFound = errors.New("storage: not found")

type Store struct {
	open   gorm.Dialector
	db     *gorm.DB
	logger logger.Interface
}

func New(dbType, dbConn string, debug bool) (*Store, error) {
	var open gorm.Dialector
	switch dbType {
	case "postgres":
		open = postgres.Open(dbConn)
	case "mysql":
		open = mysql.Open(dbConn)
	case "sqlite":
		open = sqlite.Open(dbConn)
	default:
		return nil, fmt.Errorf("storage: unknown db type: %s", dbType)
	}
	l := logger.Default.LogMode(logger.Silent)
	if debug {
		l = logger.Default.LogMode(logger.Warn)
	}
	return &Store{
		open:   open,
		logger: l,
	}, nil
}

func (s *Store) Start(ctx context.Context) error {
	// Launch the database connection in a goroutine so we can timeout if it
	// takes too long.
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	errC := make(chan error, 1)
	go func() {
		db, err := gorm.Open(s.open, &gorm.Config{
			Logger: s.logger,
		})
		if err != nil {
			errC <- fmt.Errorf("storage: failed to open database: %w", err)
			return
		}
		s.db = db
		errC <- nil
	}()
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("storage: timed out opening database: %w", ctx.Err())
		}
		return ctx.Err()
	case err := <-errC:
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Migrate(ctx context.Context) error {
	init := !s.db.Migrator().HasTable(&Preference{})

	// Custom migrations
	if err := s.customMigrate(init); err != nil {
		return err
	}

	// Auto migrations
	if err := s.db.AutoMigrate(
		&Preference{},
		&Recognition{},
		&Setting{},
	); err != nil {
		return fmt.Errorf("storage: failed to migrate database: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	db, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("storage: couldn't get database: %w", err)
	}
	return db.Close()
}

// Migration holds the version of the custom migrations applied.
type Migration struct {
	ID        string `gorm:"primarykey"`
	CreatedAt int64
	UpdatedAt int64

	Version int `gorm:"not null;default:0"`
}

func (s *Store) customMigrate(init bool) error {
	// lastVersion is the version of the latest custom migration
	lastVersion := 0

	if !s.db.Migrator().HasTable(&Migration{}) {
		if err := s.db.Migrator().CreateTable(&Migration{}); err != nil {
			return fmt.Errorf("storage: failed to create table migrations: %w", err)
		}
		var version int
		if init {
			version = lastVersion
		}
		if err := s.db.Save(&Migration{ID: ulid.Make().String(), Version: version}).Error; err != nil {
			return fmt.Errorf("storage: failed to save migration version: %w", err)
		}
		if init {
			return nil
		}
	}

	// Get the current migration version
	var migration Migration
	if err := s.db.First(&migration).Error; err != nil {
		return fmt.Errorf("storage: failed to get migration version: %w", err)
	}

	for i := migration.Version + 1; i <= lastVersion; i++ {
		log.Printf("storage: applying migration %d\n", i)
		migration.Version = i
		if err := s.db.Save(&migration).Error; err != nil {
			return fmt.Errorf("storage: failed to save migration version: %w", err)
		}
	}
	return nil
}

type Filter struct {
	Query interface{}
	Args  []interface{}
}

func Where(query interface{}, args ...interface{}) Filter {
	return Filter{
		Query: query,
		Args:  args,
	}
}
