package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/webdock/internal/domain/build"
)

// AboutRenderer renders build info next to a small logo.
type AboutRenderer struct {
	theme *Theme
}

// NewAboutRenderer creates a new about renderer with the given theme.
func NewAboutRenderer(theme *Theme) *AboutRenderer {
	return &AboutRenderer{theme: theme}
}

// Render renders info with the logo on the left.
func (r *AboutRenderer) Render(info build.Info) string {
	logoStyle := lipgloss.NewStyle().Foreground(r.theme.Accent).Bold(true)
	logo := logoStyle.MarginTop(1).MarginLeft(2).Render(`██   ██
██   ██
██ █ ██
███████
██▀ ▀██`)

	return lipgloss.JoinHorizontal(lipgloss.Top, logo, "   ", r.infoLines(info.WithDefaults()))
}

func (r *AboutRenderer) infoLines(info build.Info) string {
	key := r.theme.Subtle
	val := r.theme.Highlight
	icon := lipgloss.NewStyle().Foreground(r.theme.Accent)

	lines := []string{
		fmt.Sprintf("%s %s %s", icon.Render(IconVersion), key.Render("Version"), val.Render(info.Version)),
		fmt.Sprintf("%s %s %s", icon.Render(IconGitBranch), key.Render("Commit"), val.Render(info.Commit)),
		fmt.Sprintf("%s %s %s", icon.Render(IconCalendar), key.Render("Built"), val.Render(info.BuildDate)),
		fmt.Sprintf("%s %s %s", icon.Render(IconGo), key.Render("Go"), val.Render(info.GoVersion)),
		"",
		fmt.Sprintf("%s %s", icon.Render(IconGithub), key.Render(build.RepoURL())),
	}
	return strings.Join(lines, "\n")
}
