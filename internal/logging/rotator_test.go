package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRotator_RotatesAndPrunes(t *testing.T) {
	dir := t.TempDir()
	r, err := NewLogRotator(dir, 1, 2)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	// Force small threshold for the test.
	r.maxSize = 64

	line := []byte(strings.Repeat("x", 40) + "\n")
	for i := 0; i < 10; i++ {
		_, err := r.Write(line)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var backups int
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), logFileName+".") {
			backups++
		}
	}
	assert.LessOrEqual(t, backups, 2)
	assert.FileExists(t, filepath.Join(dir, logFileName))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", ParseLevel("DEBUG").String())
	assert.Equal(t, "warn", ParseLevel("warning").String())
	assert.Equal(t, "info", ParseLevel("bogus").String())
}

func TestTruncateURL(t *testing.T) {
	assert.Equal(t, "https://a.b", TruncateURL("https://a.b", 20))
	assert.Equal(t, "https:...", TruncateURL("https://example.com/very/long", 9))
}
