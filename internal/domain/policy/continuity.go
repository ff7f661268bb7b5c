package policy

import (
	"net/url"
	"regexp"
	"strings"

	urlutil "github.com/bnema/webdock/internal/domain/url"
)

// authHandoffHosts are identity providers that services redirect to and
// back from. Navigating there stays in the same surface.
var authHandoffHosts = []string{
	"accounts.google.com",
	"accounts.youtube.com",
	"login.microsoftonline.com",
	"login.live.com",
	"login.microsoft.com",
	"appleid.apple.com",
	"id.atlassian.com",
	"github.com/login",
	"slack.com/signin",
	"passport.yandex.ru",
}

// outboundRedirectors always leave the service; the app is not the right
// place to render them.
var outboundRedirectors = []string{
	"google.com/url",
	"l.facebook.com",
	"lm.facebook.com",
	"l.messenger.com",
	"l.instagram.com",
	"slack-redir.net",
	"t.co",
	"meet.google.com/linkredirect",
}

// meetingLinks leave the service unless the workspace itself runs that
// meeting service.
var meetingLinks = []string{
	"zoom.us/j",
	"teams.microsoft.com/l/meetup-join",
}

var accountIndexRE = regexp.MustCompile(`/u/\d+(/|$)`)

// matchesLocation reports whether the URL host and optional leading path
// segments match an entry like "google.com/url". Subdomains of the host
// match; "google.com/url" does not match "/urlshortener".
func matchesLocation(rawURL, entry string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" {
		return false
	}

	wantHost, wantPath, _ := strings.Cut(entry, "/")
	if host != wantHost && !strings.HasSuffix(host, "."+wantHost) {
		return false
	}
	if wantPath == "" {
		return true
	}
	rest, ok := strings.CutPrefix(strings.TrimPrefix(u.EscapedPath(), "/"), wantPath)
	return ok && (rest == "" || rest[0] == '/')
}

func isAuthHandoff(rawURL string) bool {
	for _, entry := range authHandoffHosts {
		if matchesLocation(rawURL, entry) {
			return true
		}
	}
	return false
}

// isOutboundRedirector reports a link that leaves the workspace service.
// Meeting links count only when neither current nor home is on the same
// registrable domain.
func isOutboundRedirector(target, current, home string) bool {
	for _, entry := range outboundRedirectors {
		if matchesLocation(target, entry) {
			return true
		}
	}
	for _, entry := range meetingLinks {
		if matchesLocation(target, entry) {
			domain := urlutil.RegistrableDomain(target)
			return domain != urlutil.RegistrableDomain(current) && domain != urlutil.RegistrableDomain(home)
		}
	}
	return false
}

// isAccountSwitch reports a link to another account of the same service,
// identified by a numeric account index in the target URL.
func isAccountSwitch(target, current string) bool {
	if current == "" {
		return false
	}
	targetDomain := urlutil.RegistrableDomain(target)
	if targetDomain == "" || targetDomain != urlutil.RegistrableDomain(current) {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	if accountIndexRE.MatchString(u.Path) {
		return true
	}
	_, ok := u.Query()["authuser"]
	return ok
}
