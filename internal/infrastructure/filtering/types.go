// Package filtering downloads and caches the content blocking rule lists
// applied to workspaces that block ads.
package filtering

import "time"

// Manifest describes a published set of rule lists.
type Manifest struct {
	Version     string              `json:"version"`
	GeneratedAt time.Time           `json:"generated_at"`
	Lists       map[string]ListInfo `json:"lists"`
	Combined    CombinedInfo        `json:"combined"`
}

// ListInfo contains metadata for a single upstream list.
type ListInfo struct {
	Name         string `json:"name"`
	SourceURL    string `json:"source_url"`
	RulesCount   int    `json:"rules_count"`
	SkippedCount int    `json:"skipped_count"`
}

// CombinedInfo contains metadata for the merged rule files.
type CombinedInfo struct {
	TotalRules int      `json:"total_rules"`
	Files      []string `json:"files"`
}

const manifestFile = "manifest.json"

// defaultListFiles is used when a manifest does not name its files.
var defaultListFiles = []string{
	"combined-part1.json",
	"combined-part2.json",
	"combined-part3.json",
}

// files returns the rule files of m.
func (m *Manifest) files() []string {
	if m == nil || len(m.Combined.Files) == 0 {
		return defaultListFiles
	}
	return m.Combined.Files
}
