package download

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "normal filename",
			input:    "document.pdf",
			expected: "document.pdf",
		},
		{
			name:     "filename with spaces",
			input:    "my document.pdf",
			expected: "my document.pdf",
		},
		{
			name:     "path traversal with parent dirs",
			input:    "../../../etc/passwd",
			expected: "passwd",
		},
		{
			name:     "path traversal hidden file",
			input:    "../.ssh/id_rsa",
			expected: "id_rsa",
		},
		{
			name:     "nested path",
			input:    "foo/bar/baz.txt",
			expected: "baz.txt",
		},
		{
			name:     "absolute path",
			input:    "/etc/passwd",
			expected: "passwd",
		},
		{
			name:     "dot only",
			input:    ".",
			expected: "download",
		},
		{
			name:     "double dot only",
			input:    "..",
			expected: "download",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "download",
		},
		{
			name:     "hidden file",
			input:    ".bashrc",
			expected: ".bashrc",
		},
		{
			name:     "windows style path",
			input:    "..\\..\\Windows\\System32\\config",
			expected: "config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeFilename(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestMakeUniqueFilename(t *testing.T) {
	tests := []struct {
		name          string
		dir           string
		filename      string
		existingFiles map[string]bool
		expected      string
	}{
		{
			name:          "file does not exist",
			dir:           "/tmp",
			filename:      "document.pdf",
			existingFiles: map[string]bool{},
			expected:      "document.pdf",
		},
		{
			name:     "file exists, adds _(1)",
			dir:      "/tmp",
			filename: "document.pdf",
			existingFiles: map[string]bool{
				"/tmp/document.pdf": true,
			},
			expected: "document_(1).pdf",
		},
		{
			name:     "file and _(1) exist, adds _(2)",
			dir:      "/tmp",
			filename: "document.pdf",
			existingFiles: map[string]bool{
				"/tmp/document.pdf":     true,
				"/tmp/document_(1).pdf": true,
			},
			expected: "document_(2).pdf",
		},
		{
			name:     "no extension",
			dir:      "/tmp",
			filename: "download",
			existingFiles: map[string]bool{
				"/tmp/download": true,
			},
			expected: "download_(1)",
		},
		{
			name:     "hidden file with extension",
			dir:      "/tmp",
			filename: ".config.bak",
			existingFiles: map[string]bool{
				"/tmp/.config.bak": true,
			},
			expected: ".config_(1).bak",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists := func(path string) bool {
				return tt.existingFiles[path]
			}
			result := MakeUniqueFilename(tt.dir, tt.filename, exists)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSuggestFilename(t *testing.T) {
	tests := []struct {
		name      string
		suggested string
		uri       string
		mimeType  string
		expected  string
	}{
		{name: "server suggestion wins", suggested: "report.pdf", uri: "https://x.test/dl/123", expected: "report.pdf"},
		{name: "falls back to uri path", uri: "https://x.test/files/archive.zip?sig=1", expected: "archive.zip"},
		{name: "extension from mime type", suggested: "invoice", mimeType: "application/pdf; charset=binary", expected: "invoice.pdf"},
		{name: "traversal in suggestion", suggested: "../../etc/passwd", expected: "passwd"},
		{name: "nothing usable", uri: "https://x.test/", expected: "download"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestFilename(tt.suggested, tt.uri, tt.mimeType))
		})
	}
}
