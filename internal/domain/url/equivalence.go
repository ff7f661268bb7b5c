package url

import (
	"net"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// servicePrefixRE matches subdomain prefixes that do not change which
// service a host belongs to.
var servicePrefixRE = regexp.MustCompile(`^(www|app|login|go|accounts|open|web|join|auth|hello)\.`)

// containmentDomains are authentication proxies: a URL on one of these hosts
// belongs to the service whose domain it carries (usually in a return path).
var containmentDomains = []string{
	"clck.yandex.ru",
	"passport.yandex.ru",
}

// ServiceHost returns the host used for equivalence: lowercased, with one
// known service prefix stripped. Returns "" for malformed input.
func ServiceHost(rawURL string) string {
	host := ExtractDomain(rawURL)
	if host == "" {
		return ""
	}
	return servicePrefixRE.ReplaceAllString(host, "")
}

// Equivalent reports whether two URLs belong to the same logical service.
// It is symmetric and never fails: malformed input is simply not equivalent.
func Equivalent(a, b string) bool {
	hostA := ServiceHost(a)
	hostB := ServiceHost(b)
	if hostA == "" || hostB == "" {
		return false
	}
	if containsServiceHost(a, hostA, hostB) || containsServiceHost(b, hostB, hostA) {
		return true
	}
	return hostA == hostB
}

// containsServiceHost applies the containment rule when rawURL is hosted on
// one of the proxy domains.
func containsServiceHost(rawURL, host, otherHost string) bool {
	for _, d := range containmentDomains {
		if host == d {
			return strings.Contains(strings.ToLower(rawURL), otherHost)
		}
	}
	return false
}

// IsResolvable reports whether the URL names a concrete destination: an IP,
// localhost, or a host under a known public suffix. about:blank and other
// hostless URLs are not resolvable.
func IsResolvable(rawURL string) bool {
	host := ExtractDomain(rawURL)
	if host == "" {
		return false
	}
	if host == "localhost" || net.ParseIP(host) != nil {
		return true
	}
	_, err := publicsuffix.EffectiveTLDPlusOne(host)
	return err == nil
}

// RegistrableDomain returns eTLD+1 for the URL host, or the host itself
// when it has none.
func RegistrableDomain(rawURL string) string {
	host := ExtractDomain(rawURL)
	if host == "" {
		return ""
	}
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}
