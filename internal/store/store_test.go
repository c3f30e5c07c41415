package store

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/tatianab/city-survival/internal/engine"
	"github.com/tatianab/city-survival/internal/models"
)

var _ engine.Profile = (*Profile)(nil)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	db, err := OpenSQLite(filepath.Join(dir, "profile.db"))
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	file, err := OpenFile(filepath.Join(dir, "profile.yaml"))
	if err != nil {
		t.Fatalf("Failed to open file store: %v", err)
	}
	return map[string]Store{"sqlite": db, "yaml": file, "memory": NewMemory()}
}

func TestStoreGetSet(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Expected ErrNotFound, got %v", err)
			}
			if err := s.Set(ctx, "k", "v1"); err != nil {
				t.Fatal(err)
			}
			if err := s.Set(ctx, "k", "v2"); err != nil {
				t.Fatal(err)
			}
			got, err := s.Get(ctx, "k")
			if err != nil || got != "v2" {
				t.Errorf("Expected v2, got %q (%v)", got, err)
			}
		})
	}
}

func TestPersistentBackendsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	dbPath := filepath.Join(dir, "nested", "profile.db")
	db, err := OpenSQLite(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Set(ctx, KeyPlayCount, "4"); err != nil {
		t.Fatal(err)
	}
	db.Close()
	db, err = OpenSQLite(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if v, _ := db.Get(ctx, KeyPlayCount); v != "4" {
		t.Errorf("Expected 4 after reopening sqlite, got %q", v)
	}

	filePath := filepath.Join(dir, "kv", "profile.yaml")
	f, err := OpenFile(filePath)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Set(ctx, KeyPreviousTier, "ASCEND"); err != nil {
		t.Fatal(err)
	}
	f, err = OpenFile(filePath)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := f.Get(ctx, KeyPreviousTier); v != "ASCEND" {
		t.Errorf("Expected ASCEND after reopening file, got %q", v)
	}
}

func TestProfileDefaults(t *testing.T) {
	ctx := context.Background()
	p := NewProfile(NewMemory())

	n, err := p.PlayCount(ctx)
	if err != nil || n != 1 {
		t.Errorf("Expected play count 1, got %d (%v)", n, err)
	}
	ids, err := p.Achievements(ctx)
	if err != nil || len(ids) != 0 {
		t.Errorf("Expected no achievements, got %v (%v)", ids, err)
	}
	tier, err := p.PreviousTier(ctx)
	if err != nil || tier != "" {
		t.Errorf("Expected no previous tier, got %q (%v)", tier, err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			p := NewProfile(s)
			if err := p.SetPlayCount(ctx, 3); err != nil {
				t.Fatal(err)
			}
			want := []string{"ach_first_step", "ach_saint"}
			if err := p.SetAchievements(ctx, want); err != nil {
				t.Fatal(err)
			}
			if err := p.SetPreviousTier(ctx, models.TierAscend); err != nil {
				t.Fatal(err)
			}

			if n, _ := p.PlayCount(ctx); n != 3 {
				t.Errorf("Expected play count 3, got %d", n)
			}
			if ids, _ := p.Achievements(ctx); !slices.Equal(ids, want) {
				t.Errorf("Expected %v, got %v", want, ids)
			}
			if tier, _ := p.PreviousTier(ctx); tier != models.TierAscend {
				t.Errorf("Expected ASCEND, got %q", tier)
			}
		})
	}
}

func TestProfileRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Set(ctx, KeyPlayCount, "many")
	_ = m.Set(ctx, KeyAchievements, "{not json")
	p := NewProfile(m)

	if n, err := p.PlayCount(ctx); err == nil || n != 1 {
		t.Errorf("Expected an error and the default 1, got %d (%v)", n, err)
	}
	if _, err := p.Achievements(ctx); err == nil {
		t.Errorf("Expected an error for a malformed achievement list")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("postgres", ""); err == nil {
		t.Errorf("Expected an unknown backend to fail")
	}
	s, err := Open(BackendMemory, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Errorf("Expected *Memory, got %T", s)
	}
}
