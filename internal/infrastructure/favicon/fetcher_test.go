package favicon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/webdock/internal/infrastructure/filesystem"
)

// Smallest valid PNG header plus IHDR chunk is enough for detection.
var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
}

func newTestFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	dir := t.TempDir()
	return NewFetcher(dir, filesystem.New(), WithBaseURL(srv.URL)), dir
}

func TestFetchIcon_StoresImage(t *testing.T) {
	var hits atomic.Int32
	var gotPath string
	f, dir := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotPath = r.URL.Path
		_, _ = w.Write(pngBytes)
	})

	id, err := f.FetchIcon(context.Background(), "https://www.example.com/inbox")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(id, ".png"), id)
	assert.Equal(t, "/ip3/example.com.ico", gotPath)

	data, err := os.ReadFile(filepath.Join(dir, id))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	// Second fetch for the same host reuses the stored picture.
	again, err := f.FetchIcon(context.Background(), "https://example.com/other")
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchIcon_RefetchesWhenPictureDeleted(t *testing.T) {
	var hits atomic.Int32
	f, dir := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write(pngBytes)
	})

	id, err := f.FetchIcon(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, id)))

	_, err = f.FetchIcon(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchIcon_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f, _ := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := f.FetchIcon(context.Background(), "https://example.com")
		assert.ErrorContains(t, err, "unexpected status 404")
	})

	t.Run("not an image", func(t *testing.T) {
		f, _ := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html><body>nope</body></html>"))
		})
		_, err := f.FetchIcon(context.Background(), "https://example.com")
		assert.ErrorContains(t, err, "not an image")
	})

	t.Run("no host", func(t *testing.T) {
		f, _ := newTestFetcher(t, func(http.ResponseWriter, *http.Request) {})
		_, err := f.FetchIcon(context.Background(), "not a url")
		assert.Error(t, err)
	})
}

func TestMemo_EvictsLeastRecent(t *testing.T) {
	m := newMemo(2)
	m.set("a", "1")
	m.set("b", "2")
	_, _ = m.get("a")
	m.set("c", "3")

	_, ok := m.get("b")
	assert.False(t, ok)
	v, ok := m.get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	m.forget("a")
	_, ok = m.get("a")
	assert.False(t, ok)
}
