package xdg

import (
	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/infrastructure/config"
)

// Adapter implements port.XDGPaths using config.GetXDGDirs().
type Adapter struct{}

// New creates a new XDG paths adapter.
func New() *Adapter {
	return &Adapter{}
}

func (a *Adapter) ConfigDir() (string, error) {
	return config.GetConfigDir()
}

func (a *Adapter) DataDir() (string, error) {
	return config.GetDataDir()
}

func (a *Adapter) StateDir() (string, error) {
	return config.GetStateDir()
}

func (a *Adapter) CacheDir() (string, error) {
	return config.GetCacheDir()
}

func (a *Adapter) PartitionsDir() (string, error) {
	return config.GetPartitionsDir()
}

func (a *Adapter) IconsDir() (string, error) {
	return config.GetIconsDir()
}

func (a *Adapter) FilterListsDir() (string, error) {
	return config.GetFilterListsDir()
}

func (a *Adapter) DownloadsDir() (string, error) {
	return config.GetDownloadsDir()
}

var _ port.XDGPaths = (*Adapter)(nil)
