// ABOUTME: Tests for recent search persistence
// ABOUTME: Validates ordering, deduplication, the size limit and bad files

package recentsearches

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestLoadEmpty(t *testing.T) {
	rs := New(t.TempDir())

	searches, err := rs.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(searches) != 0 {
		t.Errorf("expected empty list, got %v", searches)
	}
}

func TestAddMovesToFront(t *testing.T) {
	dir := t.TempDir()
	rs := New(dir)

	for _, q := range []string{"golang", "tag:bug", "golang"} {
		if err := rs.Add(q); err != nil {
			t.Fatalf("Add(%q) error: %v", q, err)
		}
	}

	want := []string{"golang", "tag:bug"}
	if got := rs.List(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	reloaded, err := New(dir).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !slices.Equal(reloaded, want) {
		t.Errorf("expected persisted %v, got %v", want, reloaded)
	}
}

func TestAddIgnoresBlank(t *testing.T) {
	rs := New(t.TempDir())
	if err := rs.Add("   "); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if len(rs.List()) != 0 {
		t.Errorf("expected blank search ignored, got %v", rs.List())
	}
}

func TestMaxRecent(t *testing.T) {
	rs := New(t.TempDir())
	for _, q := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		rs.Add(q)
	}

	got := rs.List()
	if len(got) != MaxRecent {
		t.Fatalf("expected %d searches, got %d", MaxRecent, len(got))
	}
	if got[0] != "g" || got[MaxRecent-1] != "c" {
		t.Errorf("expected newest first, got %v", got)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	searches, err := New(dir).Load()
	if err != nil {
		t.Fatalf("expected corrupt file to be ignored, got %v", err)
	}
	if len(searches) != 0 {
		t.Errorf("expected empty list, got %v", searches)
	}
}
