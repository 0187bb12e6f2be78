package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore reads files below a root directory on disk.
type LocalStore struct {
	rootDir string
}

func NewLocalStore(rootDir string) (*LocalStore, error) {
	if rootDir == "" {
		return nil, fmt.Errorf("file store root directory is required")
	}

	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating file store root directory: %w", err)
	}

	return &LocalStore{rootDir: rootDir}, nil
}

// Read accepts a path relative to the root, optionally prefixed with file://
// or a leading slash as written by the upload middleware.
func (s *LocalStore) Read(ctx context.Context, location string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	relPath := strings.TrimPrefix(location, "file://")
	relPath = strings.TrimLeft(relPath, "/")
	if err := validatePath(relPath); err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.rootDir, relPath)

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return "", ErrInvalidPath
	}
	if info.Size() > MaxFileSize {
		return "", ErrTooLarge
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return string(content), nil
}

// validatePath ensures the path is safe (no traversal, stays under root).
func validatePath(path string) error {
	if path == "" {
		return ErrInvalidPath
	}

	if filepath.IsAbs(path) {
		return ErrPathTraversal
	}

	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return ErrPathTraversal
	}

	return nil
}
