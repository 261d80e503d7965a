package storage

import (
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) (*Storage, string) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s, dbPath
}

func TestSaveAndLoad(t *testing.T) {
	s, _ := setupTestDB(t)

	if err := s.Save("coinsData", `[{"id":"bitcoin"}]`); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	v, ok, err := s.Load("coinsData")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected key to be present")
	}
	if v != `[{"id":"bitcoin"}]` {
		t.Errorf("unexpected value %q", v)
	}
}

func TestLoadMissing(t *testing.T) {
	s, _ := setupTestDB(t)

	v, ok, err := s.Load("never-written")
	if err != nil {
		t.Fatalf("Load of missing key should not fail: %v", err)
	}
	if ok || v != "" {
		t.Errorf("expected absent, got %q", v)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s, _ := setupTestDB(t)

	s.Save("darkMode", "false")
	if err := s.Save("darkMode", "true"); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	v, _, _ := s.Load("darkMode")
	if v != "true" {
		t.Errorf("expected 'true', got %q", v)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("expected 1 key after overwrite, got %v", keys)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	s, dbPath := setupTestDB(t)

	if err := s.Save("portfolio", `[{"coinId":"bitcoin","displayName":"Bitcoin","amount":1.5}]`); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	s.Close()

	reopened, err := NewStorage(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	v, ok, err := reopened.Load("portfolio")
	if err != nil || !ok {
		t.Fatalf("Load after reopen: ok=%v err=%v", ok, err)
	}
	if v != `[{"coinId":"bitcoin","displayName":"Bitcoin","amount":1.5}]` {
		t.Errorf("unexpected value after reopen: %q", v)
	}
}
