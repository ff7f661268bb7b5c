// Package badge derives unread counts from page titles.
package badge

import (
	"regexp"
	"strconv"
)

// phoneNumberRE matches phone-number-shaped substrings such as "555-1234",
// "(555) 123-4567" or "+1 555.123.4567". They are removed before counting.
var phoneNumberRE = regexp.MustCompile(`(?:\+?\d{1,3}[\s.-])?(?:\(\d{3}\)\s?|\d{3}[\s.-])?\d{3}[\s.-]\d{4}`)

// countRules are tried in order; the first positive match wins.
var countRules = []*regexp.Regexp{
	// "(3) Inbox", "[12] Chat"
	regexp.MustCompile(`^\s*[(\[](\d+)\+?[)\]]`),
	// "Inbox (3) - Mail"
	regexp.MustCompile(`[(\[](\d+)\+?[)\]]`),
	// "1 · Inbox", "4 • Slack", "2 | Chat"
	regexp.MustCompile(`^\s*(\d+)\+?\s*[·•|]`),
	// "5 new messages", "3 unread"
	regexp.MustCompile(`(?i)\b(\d+)\+?\s+(?:new|unread)\b`),
}

// maxCount bounds what we accept as a real badge value.
const maxCount = 1_000_000

// ExtractCount returns the unread count encoded in a page title, or 0.
func ExtractCount(title string) int {
	if title == "" {
		return 0
	}
	cleaned := phoneNumberRE.ReplaceAllString(title, "")

	for _, re := range countRules {
		m := re.FindStringSubmatch(cleaned)
		if len(m) < 2 {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 || n > maxCount {
			continue
		}
		return n
	}
	return 0
}

// Sum adds counts, ignoring negatives. The result is never negative.
func Sum(counts ...int) int {
	total := 0
	for _, c := range counts {
		if c > 0 {
			total += c
		}
	}
	if total < 0 {
		return 0
	}
	return total
}
