package entity

import (
	"slices"
	"time"
)

// ProxyMode selects how a browsing context reaches the network.
type ProxyMode string

const (
	ProxyModeSystem ProxyMode = "system"
	ProxyModeNone   ProxyMode = "none"
	ProxyModeFixed  ProxyMode = "fixed"
)

// ProxyConfig describes the proxy for one browsing context.
type ProxyConfig struct {
	Mode        ProxyMode `json:"mode,omitempty"`
	Rules       string    `json:"rules,omitempty"`       // e.g. "socks5://127.0.0.1:1080"
	BypassRules string    `json:"bypassRules,omitempty"` // comma separated hosts
}

// Preferences is the per-workspace override. Every field is optional;
// a nil field falls back to the global value.
type Preferences struct {
	Proxy           *ProxyConfig `json:"proxy,omitempty"`
	UserAgent       *string      `json:"userAgent,omitempty"`
	Color           *string      `json:"color,omitempty"`
	InternalURLRule *string      `json:"internalUrlRule,omitempty"`
	ExternalURLRule *string      `json:"externalUrlRule,omitempty"`
	BlockAds        *bool        `json:"blockAds,omitempty"`
	Extensions      []string     `json:"extensions,omitempty"`
}

func (p *Preferences) Clone() *Preferences {
	if p == nil {
		return nil
	}
	c := *p
	if p.Proxy != nil {
		proxy := *p.Proxy
		c.Proxy = &proxy
	}
	c.UserAgent = clonePtr(p.UserAgent)
	c.Color = clonePtr(p.Color)
	c.InternalURLRule = clonePtr(p.InternalURLRule)
	c.ExternalURLRule = clonePtr(p.ExternalURLRule)
	c.BlockAds = clonePtr(p.BlockAds)
	c.Extensions = slices.Clone(p.Extensions)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// EffectivePreferences is the fully resolved configuration used by every
// component. It is produced by ResolvePreferences and never partially filled.
type EffectivePreferences struct {
	DefaultURL         string
	ShareBrowsingData  bool
	RememberLastPage   bool
	BlockAds           bool
	CustomUserAgent    string
	InternalURLRule    string
	ExternalURLRule    string
	Proxy              ProxyConfig
	Extensions         []string
	Color              string
	HibernateUnused    bool
	HibernationTimeout time.Duration
	UnreadCountBadge   bool
	DownloadsDir       string
	BlockUpsell        bool
	UpsellPatterns     []string
}

// ResolvePreferences merges a workspace override over the global snapshot.
// It is the only place where per-workspace fallbacks are decided.
func ResolvePreferences(override *Preferences, global EffectivePreferences) EffectivePreferences {
	out := global
	out.Extensions = slices.Clone(global.Extensions)
	out.UpsellPatterns = slices.Clone(global.UpsellPatterns)
	if out.Proxy.Mode == "" {
		out.Proxy.Mode = ProxyModeSystem
	}
	if override == nil {
		return out
	}

	if override.Proxy != nil && override.Proxy.Mode != "" {
		out.Proxy = *override.Proxy
	}
	if override.UserAgent != nil {
		out.CustomUserAgent = *override.UserAgent
	}
	if override.Color != nil {
		out.Color = *override.Color
	}
	if override.InternalURLRule != nil {
		out.InternalURLRule = *override.InternalURLRule
	}
	if override.ExternalURLRule != nil {
		out.ExternalURLRule = *override.ExternalURLRule
	}
	if override.BlockAds != nil {
		out.BlockAds = *override.BlockAds
	}
	if override.Extensions != nil {
		out.Extensions = slices.Clone(override.Extensions)
	}
	return out
}
