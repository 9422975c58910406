package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_Upload(t *testing.T) {
	var gotPath, gotAuth, gotUpsert, gotCache, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotUpsert = r.Header.Get("x-upsert")
		gotCache = r.Header.Get("Cache-Control")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Key":"product-images/p/abc.png"}`))
	}))
	defer srv.Close()

	s, err := NewStorage(srv.URL, "service-key", srv.Client())
	require.NoError(t, err)

	err = s.Upload(context.Background(), "product-images", "p/abc.png", "image/png", strings.NewReader("img"), 3)
	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/product-images/p/abc.png", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "false", gotUpsert)
	assert.Equal(t, "3600", gotCache)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "img", gotBody)
}

func TestStorage_UploadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"The resource already exists"}`))
	}))
	defer srv.Close()

	s, _ := NewStorage(srv.URL, "k", srv.Client())
	err := s.Upload(context.Background(), "store-images", "a.png", "image/png", strings.NewReader("x"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestStorage_Delete(t *testing.T) {
	var gotMethod, gotPath string
	var body map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	s, _ := NewStorage(srv.URL, "k", srv.Client())
	require.NoError(t, s.Delete(context.Background(), "product-images", "p/a.png"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/storage/v1/object/product-images", gotPath)
	assert.Equal(t, []string{"p/a.png"}, body["prefixes"])
}

func TestStorage_PublicURL(t *testing.T) {
	s, _ := NewStorage("https://xyz.supabase.co/", "k", nil)
	assert.Equal(t,
		"https://xyz.supabase.co/storage/v1/object/public/store-images/logos/a%20b.png",
		s.PublicURL("store-images", "logos/a b.png"))
}

func TestNewStorage_RequiresConfig(t *testing.T) {
	_, err := NewStorage("", "k", nil)
	assert.Error(t, err)
	_, err = NewStorage("https://x", "", nil)
	assert.Error(t, err)
}
