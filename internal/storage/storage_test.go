package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/internal/config"
)

type s3Call struct {
	method      string
	path        string
	contentType string
	body        []byte
}

func fakeS3(t *testing.T) (*httptest.Server, func() []s3Call) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []s3Call
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, s3Call{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        body,
		})
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []s3Call {
		mu.Lock()
		defer mu.Unlock()
		return append([]s3Call(nil), calls...)
	}
}

func TestNew_Disabled(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), config.Storage{Region: "us-east-1"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestStore_UploadAndRemove(t *testing.T) {
	t.Parallel()
	srv, calls := fakeS3(t)

	store, err := New(context.Background(), config.Storage{
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		AccessKey: "key",
		SecretKey: "secret",
		PublicURL: "https://cdn.example.com/",
	})
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), "products", "a.png", bytes.NewReader([]byte("png-bytes")), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/storage/v1/object/public/products/a.png", url)

	require.NoError(t, store.Remove(context.Background(), "products", "a.png"))

	got := calls()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/products/a.png", got[0].path)
	assert.Equal(t, "image/png", got[0].contentType)
	assert.Equal(t, []byte("png-bytes"), got[0].body)
	assert.Equal(t, http.MethodDelete, got[1].method)
	assert.Equal(t, "/products/a.png", got[1].path)
}

func TestParsePublicURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		bucket string
		key    string
		ok     bool
	}{
		{in: "https://x.supabase.co/storage/v1/object/public/products/abc.jpg", bucket: "products", key: "abc.jpg", ok: true},
		{in: "https://x.supabase.co/storage/v1/object/public/products-specs/dir/f.pdf", bucket: "products-specs", key: "dir/f.pdf", ok: true},
		{in: "https://x.supabase.co/storage/v1/object/public/products/", ok: false},
		{in: "https://example.com/images/abc.jpg", ok: false},
		{in: "", ok: false},
		{in: "://bad", ok: false},
	}
	for _, tt := range tests {
		bucket, key, ok := ParsePublicURL(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.bucket, bucket, tt.in)
		assert.Equal(t, tt.key, key, tt.in)
	}
}
