package mocks

import (
	"context"
	"time"

	"github.com/richxcame/review-guard/pkg/storage"
	"github.com/stretchr/testify/mock"
)

// MockObjectStore is a mock implementation of storage.ObjectStore
type MockObjectStore struct {
	mock.Mock
}

// Upload mocks an object upload
func (m *MockObjectStore) Upload(ctx context.Context, key string, body []byte, contentType string) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, body, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

// Exists mocks an existence check
func (m *MockObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// PresignedDownloadURL mocks presigning
func (m *MockObjectStore) PresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (*storage.PresignedURL, error) {
	args := m.Called(ctx, key, expiresIn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.PresignedURL), args.Error(1)
}
