package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoreAndDelete(t *testing.T) {
	root := t.TempDir()
	s := NewImageStore(root)

	ref, err := s.Store(strings.NewReader("image-bytes"), "projects/photos", "Photo.JPG")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if !strings.HasPrefix(ref, "projects/photos/") {
		t.Errorf("expected prefixed reference, got %q", ref)
	}
	if !strings.HasSuffix(ref, ".jpg") {
		t.Errorf("expected lowercased original extension, got %q", ref)
	}

	data, err := os.ReadFile(filepath.Join(root, ref))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("unexpected content %q", data)
	}

	if err := s.Delete(ref); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, ref)); !os.IsNotExist(err) {
		t.Error("expected file removed")
	}
}

func TestStoreGeneratesUniqueNames(t *testing.T) {
	s := NewImageStore(t.TempDir())

	a, err := s.Store(strings.NewReader("a"), "users/avatars", "same.png")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	b, err := s.Store(strings.NewReader("b"), "users/avatars", "same.png")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if a == b {
		t.Error("two uploads with the same name must get distinct references")
	}
}

func TestDeleteMissingFile(t *testing.T) {
	s := NewImageStore(t.TempDir())
	if err := s.Delete("projects/photos/nope.jpg"); err != nil {
		t.Errorf("deleting a missing file is not an error: %v", err)
	}
	if err := s.Delete(""); err != nil {
		t.Errorf("empty reference: %v", err)
	}
}
