package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/richxcame/review-guard/pkg/config"
	"github.com/richxcame/review-guard/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves a path-style bucket from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		body, ok := f.objects[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T) (*storage.S3Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	store, err := storage.NewS3Store(context.Background(), config.StorageConfig{
		Bucket:       "reports",
		Region:       "us-east-1",
		Endpoint:     server.URL,
		AccessKey:    "test",
		SecretKey:    "test",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	return store, fake
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := storage.NewS3Store(context.Background(), config.StorageConfig{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestS3Store_UploadAndExists(t *testing.T) {
	store, fake := newTestStore(t)
	ctx := context.Background()

	exists, err := store.Exists(ctx, "sellers/seller-1/a.json")
	require.NoError(t, err)
	assert.False(t, exists)

	result, err := store.Upload(ctx, "sellers/seller-1/a.json", []byte(`{"risk_score":12}`), "application/json")
	require.NoError(t, err)
	assert.Equal(t, int64(17), result.Size)
	assert.Equal(t, `{"risk_score":12}`, string(fake.objects["/reports/sellers/seller-1/a.json"]))

	exists, err = store.Exists(ctx, "sellers/seller-1/a.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestS3Store_PresignedDownloadURL(t *testing.T) {
	store, _ := newTestStore(t)

	link, err := store.PresignedDownloadURL(context.Background(), "sellers/seller-1/a.json", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, link.Method)
	assert.Contains(t, link.URL, "/reports/sellers/seller-1/a.json")
	assert.Contains(t, link.URL, "X-Amz-Signature=")
	assert.Contains(t, link.URL, "X-Amz-Expires=300")
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), link.ExpiresAt, 5*time.Second)
}
