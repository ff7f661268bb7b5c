package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/webdock/internal/domain/entity"
)

// RenderDecision renders a routing decision for `webdock explain`.
func (t *Theme) RenderDecision(req entity.NavigationRequest, d entity.NavigationDecision) string {
	action := t.Badge
	switch d.Action {
	case entity.ActionBlock:
		action = action.Background(t.Error)
	case entity.ActionOpenExternally:
		action = action.Background(t.Warning)
	case entity.ActionLoadInPlace:
		action = t.BadgeMuted
	}

	lines := []string{
		fmt.Sprintf("%s %s", t.Subtle.Render("target     "), t.Normal.Render(req.TargetURL)),
		fmt.Sprintf("%s %s", t.Subtle.Render("disposition"), t.Normal.Render(string(req.Disposition))),
		"",
		fmt.Sprintf("%s %s", t.Highlight.Render(IconArrow), action.Render(string(d.Action))),
		fmt.Sprintf("  %s", t.Subtle.Render(d.Reason)),
	}
	if d.Placeholder {
		lines = append(lines, fmt.Sprintf("  %s", t.WarningStyle.Render("destination unknown until the first navigation")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
