package image

import (
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage writes generated image bytes under a public uploads directory keyed
// by a generated unique identifier.
type Storage struct {
	dir          string
	publicPrefix string
}

func NewStorage(dir, publicPrefix string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &Storage{dir: dir, publicPrefix: strings.TrimRight(publicPrefix, "/")}, nil
}

// Dir returns the filesystem directory backing the storage.
func (s *Storage) Dir() string {
	return s.dir
}

// Save writes the image bytes and returns its public path.
func (s *Storage) Save(data []byte, contentType string) (string, error) {
	filename := uuid.New().String() + extensionForContentType(contentType)
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return path.Join(s.publicPrefix, filename), nil
}

// DataURI encodes image bytes inline, suitable for ephemeral/dev use.
func DataURI(data []byte, contentType string) string {
	if contentType == "" {
		contentType = "image/png"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func extensionForContentType(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
