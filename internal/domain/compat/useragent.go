// Package compat resolves user-agent overrides for destinations known to
// reject the embedded engine's default user agent.
package compat

import (
	"net/url"
	"strings"

	urlutil "github.com/bnema/webdock/internal/domain/url"
)

const (
	chromeVersion = "130.0.0.0"

	// ChromeUserAgent is a desktop Chrome user agent on Linux.
	ChromeUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/" +
		chromeVersion + " Safari/537.36"

	// EdgeUserAgent is a desktop Edge user agent on Linux.
	EdgeUserAgent = ChromeUserAgent + " Edg/" + chromeVersion
)

// rule matches a host exactly or any of its subdomains.
type rule struct {
	host      string
	userAgent string
}

var defaultRules = []rule{
	{host: "web.whatsapp.com", userAgent: ChromeUserAgent},
	{host: "teams.microsoft.com", userAgent: EdgeUserAgent},
	{host: "teams.live.com", userAgent: EdgeUserAgent},
	{host: "meet.google.com", userAgent: ChromeUserAgent},
	{host: "app.slack.com", userAgent: ChromeUserAgent},
	{host: "discord.com", userAgent: ChromeUserAgent},
}

// authFlowHosts never get a user-agent change mid-session: switching the
// user agent while an identity provider is in control restarts the flow.
var authFlowHosts = []string{
	"accounts.google.com",
	"login.microsoftonline.com",
	"login.live.com",
	"login.microsoft.com",
	"appleid.apple.com",
	"id.atlassian.com",
	"auth0.com",
	"okta.com",
	"passport.yandex.ru",
}

// authFlowPathPatterns are leading path segments of OAuth/OIDC endpoints,
// matched at segment boundaries anywhere in the path.
var authFlowPathPatterns = []string{
	"/oauth",
	"/oauth2",
	"/authorize",
	"/o/oauth2",
	"/saml",
	"/sso",
	"/openid",
}

// Resolver maps a URL to an override user agent.
type Resolver struct {
	rules []rule
}

// NewResolver returns a resolver with the built-in compatibility table.
func NewResolver() *Resolver {
	return &Resolver{rules: defaultRules}
}

// Resolve returns the override user agent for rawURL, if one applies.
func (r *Resolver) Resolve(rawURL string) (string, bool) {
	host := urlutil.ExtractDomain(rawURL)
	if host == "" {
		return "", false
	}
	for _, rl := range r.rules {
		if matchesHost(host, rl.host) {
			return rl.userAgent, true
		}
	}
	return "", false
}

// IsAuthFlowURL reports whether rawURL belongs to an authentication flow.
func IsAuthFlowURL(rawURL string) bool {
	host := urlutil.ExtractDomain(rawURL)
	if host == "" {
		return false
	}
	for _, h := range authFlowHosts {
		if matchesHost(host, h) {
			return true
		}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path) + "/"
	for _, p := range authFlowPathPatterns {
		if strings.Contains(path, p+"/") {
			return true
		}
	}
	return false
}

func matchesHost(host, pattern string) bool {
	return host == pattern || strings.HasSuffix(host, "."+pattern)
}
