package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"farumasi-backend/config"

	"github.com/google/uuid"
)

var (
	ErrInvalidKey       = errors.New("invalid object key")
	ErrUnsupportedImage = errors.New("image must be a .jpg, .jpeg, .png or .webp file")
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ObjectStorage persists uploaded files and returns the reference to store on the record
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// NewObjectStorage selects the driver named in cfg
func NewObjectStorage(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.LocalDir)
	case "s3":
		return NewS3Storage(ctx, cfg.S3Bucket, cfg.S3Region)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// PrescriptionKey builds a unique key for an uploaded prescription, keeping the file extension
func PrescriptionKey(userID int64, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("prescriptions/%d/%d_%s%s", userID, time.Now().UnixNano(), uuid.NewString()[:8], ext)
}

// ProductImageKey builds a unique key for a catalog image, keeping the file extension
func ProductImageKey(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] {
		return "", ErrUnsupportedImage
	}
	return "products/" + uuid.NewString() + ext, nil
}

// cleanKey normalises key to a relative slash path and rejects traversal
func cleanKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", ErrInvalidKey
	}
	if strings.Contains(trimmed, "..") {
		return "", ErrInvalidKey
	}
	clean := strings.TrimPrefix(path.Clean("/"+strings.TrimPrefix(trimmed, "/")), "/")
	if clean == "" || clean == "." {
		return "", ErrInvalidKey
	}
	return clean, nil
}
