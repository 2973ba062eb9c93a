package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.JPG", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	got, err := expandImages(dir + ", https://example.com/c.webp,,")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.JPG"), filepath.Join(dir, "b.png"), "https://example.com/c.webp"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), got)
	}
	for i := range want {
		if got[i].Source != want[i] {
			t.Errorf("entry %d: expected %s, got %s", i, want[i], got[i].Source)
		}
	}
	if got[0].Name != "a" {
		t.Errorf("expected name from file, got %q", got[0].Name)
	}
}

func TestExpandImagesEmpty(t *testing.T) {
	if got, err := expandImages(""); err != nil || got != nil {
		t.Errorf("expected nothing, got %v, %v", got, err)
	}
}
