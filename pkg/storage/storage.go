package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when an object does not exist
var ErrNotFound = errors.New("object not found")

// ObjectStore is the object storage used for report archives
type ObjectStore interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (*UploadResult, error)
	Exists(ctx context.Context, key string) (bool, error)
	PresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (*PresignedURL, error)
}

// UploadResult contains the result of an upload operation
type UploadResult struct {
	Key         string    `json:"key"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// PresignedURL is a time-limited download link
type PresignedURL struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}
