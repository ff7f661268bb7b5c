package styles

import (
	"fmt"
	"strings"

	"github.com/bnema/webdock/internal/domain/entity"
)

// RenderPurgeTargets lists what `webdock purge` can remove.
func (t *Theme) RenderPurgeTargets(targets []entity.PurgeTarget) string {
	var b strings.Builder
	for _, target := range targets {
		icon := IconFolder
		switch target.Type {
		case entity.PurgeTargetIcons:
			icon = IconImage
		case entity.PurgeTargetFilterLists:
			icon = IconShield
		}
		state := t.Subtle.Render("empty")
		if target.Exists {
			state = t.Normal.Render(FormatBytes(target.Size))
		}
		fmt.Fprintf(&b, "%s %-28s %s %s\n",
			t.Highlight.Render(icon),
			target.Description,
			state,
			t.Subtle.Render(target.Path))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderPurgeResults reports what was removed.
func (t *Theme) RenderPurgeResults(results []entity.PurgeResult) string {
	if len(results) == 0 {
		return t.Subtle.Render("Nothing to purge")
	}
	var b strings.Builder
	for _, r := range results {
		if r.Success {
			fmt.Fprintf(&b, "%s %s %s\n", t.SuccessStyle.Render(IconCheck), r.Target.Description,
				t.Subtle.Render(FormatBytes(r.Target.Size)))
		} else {
			fmt.Fprintf(&b, "%s %s: %v\n", t.ErrorStyle.Render(IconX), r.Target.Description, r.Error)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatBytes renders n with a binary unit.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
