// Package storage holds uploaded category images. The service only needs
// Save; serving happens through the router's static mount of the same
// directory.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type ImageStore interface {
	// Save persists the image bytes and returns a publicly reachable URL.
	Save(data []byte, ext string) (string, error)
}

// DiskStore writes images under Dir and advertises them below
// BaseURL/uploads/.
type DiskStore struct {
	Dir     string
	BaseURL string
}

func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *DiskStore) Save(data []byte, ext string) (string, error) {
	if ext == "" {
		ext = ".png"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	filename := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.Dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return fmt.Sprintf("%s/uploads/%s", s.BaseURL, filename), nil
}
