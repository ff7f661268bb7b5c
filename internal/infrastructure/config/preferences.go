package config

import (
	"slices"
	"time"

	"github.com/bnema/webdock/internal/domain/entity"
)

// ToPreferences converts the config file view into the resolved global
// preferences consumed by the domain.
func (c *Config) ToPreferences() entity.EffectivePreferences {
	downloads := c.Downloads.Directory
	if downloads == "" {
		if dir, err := GetDownloadsDir(); err == nil {
			downloads = dir
		}
	}

	return entity.EffectivePreferences{
		DefaultURL:        c.DefaultURL,
		ShareBrowsingData: c.Browsing.ShareBrowsingData,
		RememberLastPage:  c.Browsing.RememberLastPage,
		BlockAds:          c.Browsing.BlockAds,
		CustomUserAgent:   c.Browsing.CustomUserAgent,
		InternalURLRule:   c.Browsing.InternalURLRule,
		ExternalURLRule:   c.Browsing.ExternalURLRule,
		Proxy: entity.ProxyConfig{
			Mode:        entity.ProxyMode(c.Browsing.Proxy.Mode),
			Rules:       c.Browsing.Proxy.Rules,
			BypassRules: c.Browsing.Proxy.BypassRules,
		},
		Extensions:         slices.Clone(c.Browsing.Extensions),
		HibernateUnused:    c.Hibernation.HibernateUnused,
		HibernationTimeout: time.Duration(c.Hibernation.TimeoutSeconds) * time.Second,
		UnreadCountBadge:   c.Notifications.UnreadCountBadge,
		DownloadsDir:       downloads,
		BlockUpsell:        c.Compliance.BlockUpsell,
		UpsellPatterns:     slices.Clone(c.Compliance.UpsellPatterns),
	}
}

// PreferencesAdapter serves the manager's current config as preferences.
type PreferencesAdapter struct {
	manager *Manager
}

// NewPreferencesAdapter creates a preferences provider backed by manager.
func NewPreferencesAdapter(manager *Manager) *PreferencesAdapter {
	return &PreferencesAdapter{manager: manager}
}

// Preferences implements port.PreferencesProvider.
func (a *PreferencesAdapter) Preferences() entity.EffectivePreferences {
	return a.manager.Get().ToPreferences()
}
