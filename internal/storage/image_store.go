package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists uploaded binaries under a root directory and hands out
// relative references. References, not absolute paths, go into the database.
type ImageStore struct {
	root string
}

func NewImageStore(root string) *ImageStore {
	return &ImageStore{root: root}
}

// Store writes the binary under pathPrefix with a generated name, keeping the
// original extension, and returns the reference.
func (s *ImageStore) Store(r io.Reader, pathPrefix, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	ref := filepath.Join(pathPrefix, uuid.NewString()+ext)

	full := filepath.Join(s.root, ref)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return ref, nil
}

// Delete removes a stored binary by reference. Deleting a missing file is not
// an error.
func (s *ImageStore) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, ref))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}
