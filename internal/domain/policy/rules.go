package policy

import (
	"regexp"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// globPrefix switches a user rule from regular expression to glob matching.
// Globs are matched against host+path, e.g. "glob:*.zoom.us/j/**".
const globPrefix = "glob:"

// ruleMatcher evaluates user URL rules. Compiled regexps are cached; an
// invalid pattern never matches.
type ruleMatcher struct {
	mu    sync.RWMutex
	cache map[string]*regexp.Regexp
}

func newRuleMatcher() *ruleMatcher {
	return &ruleMatcher{cache: make(map[string]*regexp.Regexp)}
}

// Match reports whether any line of rules matches target.
func (m *ruleMatcher) Match(rules, target string) bool {
	if strings.TrimSpace(rules) == "" || target == "" {
		return false
	}
	for _, line := range strings.Split(rules, "\n") {
		pattern := strings.TrimSpace(line)
		if pattern == "" {
			continue
		}
		if m.matchOne(pattern, target) {
			return true
		}
	}
	return false
}

// MatchAny reports whether any pattern in the list matches target.
func (m *ruleMatcher) MatchAny(patterns []string, target string) bool {
	for _, p := range patterns {
		if m.Match(p, target) {
			return true
		}
	}
	return false
}

func (m *ruleMatcher) matchOne(pattern, target string) bool {
	if glob, ok := strings.CutPrefix(pattern, globPrefix); ok {
		ok, err := doublestar.Match(strings.ToLower(glob), hostAndPath(target))
		return err == nil && ok
	}
	re := m.compile(pattern)
	return re != nil && re.MatchString(target)
}

func (m *ruleMatcher) compile(pattern string) *regexp.Regexp {
	m.mu.RLock()
	re, ok := m.cache[pattern]
	m.mu.RUnlock()
	if ok {
		return re
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	m.mu.Lock()
	m.cache[pattern] = re
	m.mu.Unlock()
	return re
}

// ValidateRule reports a syntax error in a user rule, if any.
func ValidateRule(rules string) error {
	for _, line := range strings.Split(rules, "\n") {
		pattern := strings.TrimSpace(line)
		if pattern == "" {
			continue
		}
		if glob, ok := strings.CutPrefix(pattern, globPrefix); ok {
			if !doublestar.ValidatePattern(glob) {
				return doublestar.ErrBadPattern
			}
			continue
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return err
		}
	}
	return nil
}

func hostAndPath(rawURL string) string {
	s := strings.ToLower(rawURL)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return s
}
