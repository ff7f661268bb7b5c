// Package download holds the pure rules for download destinations and
// aggregate progress across in-flight downloads.
package download

import (
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// DefaultFilename is used when no valid filename can be determined.
	DefaultFilename = "download"

	maxSuffixAttempts = 1000
)

// SanitizeFilename keeps only the base name so a suggested filename can
// never escape the downloads directory.
func SanitizeFilename(name string) string {
	// filepath.Base only handles the OS-native separator.
	name = strings.ReplaceAll(name, "\\", "/")

	clean := filepath.Base(strings.TrimSpace(name))
	if clean == "." || clean == ".." || clean == "" || clean == "/" {
		return DefaultFilename
	}
	return clean
}

// ExtensionForMimeType returns a file extension (with dot) for a MIME type.
// Parameters such as "; charset=binary" are ignored.
func ExtensionForMimeType(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil || mediaType == "" {
		return ""
	}
	if m := mimetype.Lookup(mediaType); m != nil {
		return m.Extension()
	}
	return ""
}

// FilenameFromURI extracts the last path segment of a URI.
func FilenameFromURI(uri string) string {
	if uri == "" {
		return DefaultFilename
	}
	path := uri
	if parsed, err := url.Parse(uri); err == nil {
		path = parsed.Path
	}
	base := filepath.Base(path)
	if base == "." || base == "" || base == "/" {
		return DefaultFilename
	}
	return base
}

// SuggestFilename picks the filename for a new download: the server
// suggestion if any, else the URI path, with an extension inferred from
// the MIME type when missing.
func SuggestFilename(suggested, uri, mimeType string) string {
	name := suggested
	if strings.TrimSpace(name) == "" {
		name = FilenameFromURI(uri)
	}
	clean := SanitizeFilename(name)
	if filepath.Ext(clean) == "" {
		if ext := ExtensionForMimeType(mimeType); ext != "" {
			return clean + ext
		}
	}
	return clean
}

// MakeUniqueFilename appends _(N) before the extension until the name is free.
// The exists function should return true if the given path already exists.
func MakeUniqueFilename(dir, filename string, exists func(path string) bool) string {
	if !exists(filepath.Join(dir, filename)) {
		return filename
	}

	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	for i := 1; i < maxSuffixAttempts; i++ {
		candidate := fmt.Sprintf("%s_(%d)%s", base, i, ext)
		if !exists(filepath.Join(dir, candidate)) {
			return candidate
		}
	}

	return fmt.Sprintf("%s_%d%s", base, time.Now().UnixNano(), ext)
}
