package es

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/internal/config"
	"github.com/Skotchmaster/shop_admin/internal/models"
)

type esRequest struct {
	method string
	path   string
	body   map[string]any
}

func fakeES(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*ProductIndex, func() []esRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []esRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		mu.Lock()
		reqs = append(reqs, esRequest{method: r.Method, path: r.URL.Path, body: body})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(config.Search{URL: srv.URL})
	require.NoError(t, err)
	return NewProductIndex(client, "products"), func() []esRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]esRequest(nil), reqs...)
	}
}

func TestProductIndex_Index(t *testing.T) {
	t.Parallel()
	idx, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	err := idx.Index(context.Background(), models.Product{ID: 42, Name: "Drill", Category: "tools"})
	require.NoError(t, err)

	got := reqs()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/products/_doc/42", got[0].path)
	assert.Equal(t, "Drill", got[0].body["name"])
	assert.Equal(t, "tools", got[0].body["category"])
}

func TestProductIndex_DeleteMissingIsOK(t *testing.T) {
	t.Parallel()
	idx, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})

	require.NoError(t, idx.Delete(context.Background(), 7))
	got := reqs()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodDelete, got[0].method)
	assert.Equal(t, "/products/_doc/7", got[0].path)
}

func TestProductIndex_Search(t *testing.T) {
	t.Parallel()
	idx, reqs := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":12},"hits":[{"_id":"3"},{"_id":"bogus"},{"_id":"1"}]}}`))
	})

	total, ids, err := idx.Search(context.Background(), "drill", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Equal(t, []uint{3, 1}, ids)

	got := reqs()
	require.Len(t, got, 1)
	assert.Equal(t, "/products/_search", got[0].path)
	assert.EqualValues(t, 10, got[0].body["from"])
	assert.EqualValues(t, 5, got[0].body["size"])
	mm := got[0].body["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "drill", mm["query"])
}

func TestProductIndex_SearchError(t *testing.T) {
	t.Parallel()
	idx, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"parsing_exception"}`))
	})

	_, _, err := idx.Search(context.Background(), "x", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing_exception")
}

func TestPing(t *testing.T) {
	t.Parallel()
	idx, _ := fakeES(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`))
	})

	require.NoError(t, Ping(context.Background(), idx.client))
}
