// Package favicon downloads site icons and stores them as workspace pictures.
package favicon

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/bnema/webdock/internal/application/port"
	domainurl "github.com/bnema/webdock/internal/domain/url"
	"github.com/bnema/webdock/internal/logging"
)

const (
	// DuckDuckGo favicon API.
	defaultBaseURL = "https://icons.duckduckgo.com"
	iconPath       = "/ip3/%s.ico"

	defaultTimeout  = 5 * time.Second
	maxIconBytes    = 1 << 20
	recentHostLimit = 128
)

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithBaseURL points the fetcher at another icon service.
func WithBaseURL(baseURL string) Option {
	return func(f *Fetcher) { f.client.SetBaseURL(baseURL) }
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.SetTimeout(d)
		}
	}
}

// Fetcher implements port.IconFetcher.
type Fetcher struct {
	client   *resty.Client
	iconsDir string
	fs       port.FileSystem
	recent   *memo
}

// NewFetcher creates a fetcher writing pictures under iconsDir.
func NewFetcher(iconsDir string, fs port.FileSystem, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: resty.New().
			SetBaseURL(defaultBaseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "image/*"),
		iconsDir: iconsDir,
		fs:       fs,
		recent:   newMemo(recentHostLimit),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchIcon downloads the icon of pageURL's site and returns the stored
// picture id, a file name inside the icons directory.
func (f *Fetcher) FetchIcon(ctx context.Context, pageURL string) (string, error) {
	host := domainurl.ExtractDomain(pageURL)
	if host == "" {
		return "", fmt.Errorf("no host in %q", pageURL)
	}
	log := logging.FromContext(ctx).With().Str("host", host).Logger()

	if id, ok := f.recent.get(host); ok {
		if exists, err := f.fs.Exists(ctx, f.PicturePath(id)); err == nil && exists {
			log.Debug().Str("picture_id", id).Msg("icon reused")
			return id, nil
		}
		f.recent.forget(host)
	}

	resp, err := f.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf(iconPath, url.PathEscape(host)))
	if err != nil {
		return "", fmt.Errorf("fetch icon for %s: %w", host, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("fetch icon for %s: unexpected status %d", host, resp.StatusCode())
	}

	data := resp.Body()
	if len(data) == 0 {
		return "", fmt.Errorf("fetch icon for %s: empty response", host)
	}
	if len(data) > maxIconBytes {
		return "", fmt.Errorf("fetch icon for %s: %d bytes exceeds limit", host, len(data))
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("fetch icon for %s: not an image (%s)", host, mt.String())
	}

	id := uuid.NewString() + mt.Extension()
	if err := f.fs.WriteFile(ctx, f.PicturePath(id), data); err != nil {
		return "", fmt.Errorf("store icon for %s: %w", host, err)
	}
	f.recent.set(host, id)

	log.Debug().Str("picture_id", id).Str("mime", mt.String()).Int("bytes", len(data)).Msg("icon stored")
	return id, nil
}

// PicturePath returns where a picture id lives on disk.
func (f *Fetcher) PicturePath(pictureID string) string {
	return filepath.Join(f.iconsDir, filepath.Base(pictureID))
}

var _ port.IconFetcher = (*Fetcher)(nil)
