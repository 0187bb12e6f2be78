// Package filestore reads uploaded project files from where the upload
// pipeline left them.
package filestore

import (
	"context"
	"errors"
	"fmt"

	"orion.app/api/core/config"
)

// MaxFileSize caps a single read. Larger files are reported as ErrTooLarge
// and skipped by callers.
const MaxFileSize = 2 * 1024 * 1024

var (
	ErrNotFound      = errors.New("file not found")
	ErrTooLarge      = errors.New("file exceeds maximum size")
	ErrInvalidPath   = errors.New("invalid file path")
	ErrPathTraversal = errors.New("path traversal not allowed")
)

// Reader returns the text content stored at location.
type Reader interface {
	Read(ctx context.Context, location string) (string, error)
}

// New builds the backend selected by cfg.Backend.
func New(cfg config.FileStoreConfig) (Reader, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStore(cfg.LocalRoot)
	case "s3":
		return NewS3Store(S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
	default:
		return nil, fmt.Errorf("unsupported file store backend: %s", cfg.Backend)
	}
}
