// Package storage provides object storage operations with Azure Blob Storage
// and S3-compatible (MinIO) implementations.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/scriptmark-labs/scriptmark/pkg/lifecycle"
)

// Object describes a stored object's metadata.
type Object struct {
	Key           string    `json:"key"`
	ContentType   string    `json:"content_type"`
	ContentLength int64     `json:"content_length"`
	LastModified  time.Time `json:"last_modified"`
}

// DownloadResult wraps an object stream with its metadata.
// The caller must close Body.
type DownloadResult struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// ListResult holds a page of object metadata with a continuation marker.
// NextMarker is empty when no further results exist.
type ListResult struct {
	Objects    []Object `json:"objects"`
	NextMarker string   `json:"next_marker,omitempty"`
}

// System manages object storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the storage container.
	Start(lc *lifecycle.Coordinator) error
	// Upload streams data to an object at the given key with the specified content type.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	// Download returns a stream for the object at the given key.
	// Returns ErrNotFound if the object does not exist.
	Download(ctx context.Context, key string) (*DownloadResult, error)
	// Delete removes the object at the given key. Returns ErrNotFound if the object does not exist.
	Delete(ctx context.Context, key string) error
	// Exists reports whether an object exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
	// Find returns metadata for the object at the given key.
	// Returns ErrNotFound if the object does not exist.
	Find(ctx context.Context, key string) (*Object, error)
	// List returns up to maxResults objects under prefix, starting after marker.
	List(ctx context.Context, prefix, marker string, maxResults int32) (*ListResult, error)
}

// New creates a storage system for the configured provider.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Provider {
	case ProviderAzure:
		return newAzure(cfg, logger)
	case ProviderS3:
		return newS3(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

// ParseMaxResults parses a max_results query value, clamped to the configured ceiling.
// Empty input returns the ceiling.
func ParseMaxResults(s string, maxListSize int32) (int32, error) {
	if s == "" {
		return maxListSize, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, ErrInvalidMaxResults
	}

	return min(int32(n), maxListSize), nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
