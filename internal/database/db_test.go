package database

import (
	"testing"
	"testing/fstest"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_shared.up.sql":  {Data: []byte("SELECT 2")},
		"001_init.up.sql":    {Data: []byte("SELECT 1")},
		"001_init.down.sql":  {Data: []byte("SELECT 0")},
		"README.md":          {Data: []byte("notes")},
		"003_indexes.up.sql": {Data: []byte("SELECT 3")},
		"archive/old.up.sql": {Data: []byte("SELECT -1")},
	}

	got, err := PendingMigrations(fsys, map[string]bool{"002_shared.up.sql": true})
	if err != nil {
		t.Fatalf("PendingMigrations: %v", err)
	}

	want := []string{"001_init.up.sql", "003_indexes.up.sql"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
