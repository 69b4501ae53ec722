package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrImageNotFound is returned when a requested image does not exist.
var ErrImageNotFound = errors.New("image not found")

// ImageStore persists uploaded product images in a flat directory.
// Stored names are prefixed with a millisecond timestamp so repeated
// uploads of the same file never collide.
type ImageStore struct {
	dir string
}

// NewImageStore creates the upload directory if needed and returns a store.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save writes the uploaded file and returns the relative path served to
// clients, e.g. "/img/1712345678901-photo.png".
func (s *ImageStore) Save(r io.Reader, originalName string) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeName(originalName))

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return "/img/" + name, nil
}

// Read returns the bytes of a stored image.
func (s *ImageStore) Read(name string) ([]byte, error) {
	// Reject anything that could escape the upload directory.
	if name != filepath.Base(name) {
		return nil, ErrImageNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return data, nil
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	return strings.ReplaceAll(name, " ", "_")
}
