package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New("sqlite", filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewUnknownType(t *testing.T) {
	if _, err := New("oracle", "", false); err == nil {
		t.Fatal("New() err = nil; want error")
	}
}

func TestMigrateTwice(t *testing.T) {
	s := newStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() err = %v; want nil", err)
	}
	var vs []Migration
	if err := s.db.Find(&vs).Error; err != nil {
		t.Fatal(err)
	}
	if len(vs) != 1 || vs[0].Version != 0 {
		t.Fatalf("migrations = %+v; want a single row at version 0", vs)
	}
}

func TestPreferences(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.SetPreferences(ctx, map[int64]string{1: "fa", 2: "en"}); err != nil {
		t.Fatalf("SetPreferences() err = %v", err)
	}
	if err := s.SetPreferences(ctx, map[int64]string{2: "fa", 3: "en"}); err != nil {
		t.Fatalf("SetPreferences() err = %v", err)
	}
	vs, err := s.ListPreferences(ctx)
	if err != nil {
		t.Fatalf("ListPreferences() err = %v", err)
	}
	got := map[int64]string{}
	for _, v := range vs {
		got[v.ID] = v.Language
	}
	want := map[int64]string{1: "fa", 2: "fa", 3: "en"}
	if len(got) != len(want) {
		t.Fatalf("ListPreferences() = %v; want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("ListPreferences()[%d] = %q; want %q", k, got[k], v)
		}
	}
	n, err := s.CountPreferences(ctx)
	if err != nil || n != 3 {
		t.Fatalf("CountPreferences() = %d, %v; want 3, nil", n, err)
	}
}

func TestRecognitions(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, u := range []int64{1, 1, 2} {
		if err := s.AddRecognition(ctx, &Recognition{UserID: u, Title: "Song A"}); err != nil {
			t.Fatalf("AddRecognition() err = %v", err)
		}
	}
	n, err := s.CountRecognitions(ctx)
	if err != nil || n != 3 {
		t.Fatalf("CountRecognitions() = %d, %v; want 3, nil", n, err)
	}
	n, _ = s.CountRecognitions(ctx, Where("user_id = ?", 1))
	if n != 2 {
		t.Fatalf("CountRecognitions(user 1) = %d; want 2", n)
	}
	vs, err := s.ListRecognitions(ctx, 1, 10, "id desc", Where("user_id = ?", 2))
	if err != nil || len(vs) != 1 || vs[0].ID == "" {
		t.Fatalf("ListRecognitions() = %v, %v", vs, err)
	}
}

func TestSettingTime(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.GetTime(ctx, "backup/last"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetTime() err = %v; want %v", err, ErrNotFound)
	}
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := s.SetTime(ctx, "backup/last", now); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetTime(ctx, "backup/last")
	if err != nil || !got.Equal(now) {
		t.Fatalf("GetTime() = %v, %v; want %v", got, err, now)
	}
}
