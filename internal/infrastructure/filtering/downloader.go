package filtering

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/logging"
)

const (
	cacheDirPerm  = 0o755
	cacheFilePerm = 0o644

	defaultTimeout = 60 * time.Second
	defaultMaxAge  = 24 * time.Hour
	maxListBytes   = 64 << 20
)

// Option customizes a Downloader.
type Option func(*Downloader)

// WithMaxAge sets how long a cached manifest is trusted before the remote
// one is checked again. Zero checks on every refresh.
func WithMaxAge(d time.Duration) Option {
	return func(dl *Downloader) {
		if d >= 0 {
			dl.maxAge = d
		}
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(dl *Downloader) {
		if d > 0 {
			dl.client.SetTimeout(d)
		}
	}
}

// Downloader fetches rule lists from baseURL into cacheDir. It implements
// port.ContentFilterSource.
type Downloader struct {
	client   *resty.Client
	cacheDir string
	maxAge   time.Duration

	mu sync.Mutex
}

// NewDownloader creates a downloader for the lists published at baseURL.
func NewDownloader(baseURL, cacheDir string, opts ...Option) *Downloader {
	d := &Downloader{
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
		cacheDir: cacheDir,
		maxAge:   defaultMaxAge,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CachedManifest reads the cached manifest. It returns nil without error
// when nothing was downloaded yet.
func (d *Downloader) CachedManifest() (*Manifest, error) {
	data, err := os.ReadFile(d.localPath(manifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse cached manifest: %w", err)
	}
	return &m, nil
}

// FilterLists returns the cached rule files, or nil when any is missing.
func (d *Downloader) FilterLists() []string {
	m, err := d.CachedManifest()
	if err != nil || m == nil {
		return nil
	}
	return d.cachedPaths(m)
}

func (d *Downloader) cachedPaths(m *Manifest) []string {
	files := m.files()
	paths := make([]string, 0, len(files))
	for _, name := range files {
		path := d.localPath(name)
		if _, err := os.Stat(path); err != nil {
			return nil
		}
		paths = append(paths, path)
	}
	return paths
}

// localPath keeps name inside the cache directory.
func (d *Downloader) localPath(name string) string {
	return filepath.Join(d.cacheDir, filepath.Clean("/"+name))
}

func (d *Downloader) isStale() bool {
	info, err := os.Stat(d.localPath(manifestFile))
	if err != nil {
		return true
	}
	return time.Since(info.ModTime()) >= d.maxAge
}

// Refresh checks the remote manifest when the cache is stale or incomplete
// and downloads the rule files of a new version. It reports whether the
// cached lists changed.
func (d *Downloader) Refresh(ctx context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	log := logging.FromContext(ctx).With().Str("component", "filter-lists").Logger()

	cached, err := d.CachedManifest()
	if err != nil {
		log.Warn().Err(err).Msg("ignoring unreadable cached manifest")
		cached = nil
	}
	complete := cached != nil && d.cachedPaths(cached) != nil
	if complete && !d.isStale() {
		log.Debug().Str("version", cached.Version).Msg("filter lists are fresh")
		return false, nil
	}

	latest, raw, err := d.fetchManifest(ctx)
	if err != nil {
		return false, err
	}

	if complete && cached.Version == latest.Version {
		// Rewriting the manifest restarts its max age.
		if err := d.writeFile(manifestFile, raw); err != nil {
			return false, err
		}
		log.Debug().Str("version", latest.Version).Msg("filter lists up to date")
		return false, nil
	}

	var total int64
	for _, name := range latest.files() {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}
		n, err := d.download(ctx, name)
		if err != nil {
			return false, err
		}
		total += n
	}
	// The manifest goes last so an interrupted refresh is retried.
	if err := d.writeFile(manifestFile, raw); err != nil {
		return false, err
	}

	log.Info().
		Str("version", latest.Version).
		Int("files", len(latest.files())).
		Int64("bytes", total).
		Msg("filter lists updated")
	return true, nil
}

func (d *Downloader) fetchManifest(ctx context.Context) (*Manifest, []byte, error) {
	resp, err := d.client.R().SetContext(ctx).Get("/" + manifestFile)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch manifest: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, nil, fmt.Errorf("fetch manifest: unexpected status %d", resp.StatusCode())
	}
	var m Manifest
	if err := json.Unmarshal(resp.Body(), &m); err != nil {
		return nil, nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, resp.Body(), nil
}

func (d *Downloader) download(ctx context.Context, name string) (int64, error) {
	resp, err := d.client.R().SetContext(ctx).Get("/" + name)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", name, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("download %s: unexpected status %d", name, resp.StatusCode())
	}
	data := resp.Body()
	if len(data) > maxListBytes {
		return 0, fmt.Errorf("download %s: %d bytes exceeds limit", name, len(data))
	}
	if err := d.writeFile(name, data); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

// writeFile replaces name atomically through a temporary file.
func (d *Downloader) writeFile(name string, data []byte) error {
	path := d.localPath(name)
	if err := os.MkdirAll(filepath.Dir(path), cacheDirPerm); err != nil {
		return fmt.Errorf("create filter cache: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, cacheFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

var _ port.ContentFilterSource = (*Downloader)(nil)
