package styles

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bnema/webdock/internal/domain/entity"
)

const maxURLWidth = 40

// WorkspaceRenderer renders workspaces as tables and detail boxes.
type WorkspaceRenderer struct {
	theme *Theme
}

// NewWorkspaceRenderer creates a new WorkspaceRenderer.
func NewWorkspaceRenderer(theme *Theme) *WorkspaceRenderer {
	return &WorkspaceRenderer{theme: theme}
}

// RenderList renders every workspace in order.
func (r *WorkspaceRenderer) RenderList(workspaces []*entity.Workspace) string {
	if len(workspaces) == 0 {
		return r.theme.Subtle.Render("No workspaces. Add one with: webdock workspaces add --url <url>")
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(r.theme.Border)).
		Headers("#", "NAME", "HOME", "STATE", "ID").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Foreground(r.theme.Accent).Bold(true).Padding(0, 1)
			}
			style := lipgloss.NewStyle().Foreground(r.theme.Text).Padding(0, 1)
			if row >= 0 && row < len(workspaces) && workspaces[row].Active {
				style = style.Bold(true)
			}
			return style
		})

	for _, ws := range workspaces {
		t.Row(
			strconv.Itoa(ws.Order),
			ws.DisplayName(),
			truncate(ws.HomeURL, maxURLWidth),
			r.state(ws),
			shortID(ws.ID),
		)
	}
	return t.String()
}

// RenderDetail renders one workspace with its overrides.
func (r *WorkspaceRenderer) RenderDetail(ws *entity.Workspace) string {
	key := r.theme.Subtle
	val := r.theme.Normal
	line := func(k, v string) string {
		if v == "" {
			v = "-"
		}
		return fmt.Sprintf("%s %s", key.Render(fmt.Sprintf("%-22s", k)), val.Render(v))
	}

	lines := []string{
		line("id", string(ws.ID)),
		line("home_url", ws.HomeURL),
		line("last_url", ws.LastURL),
		line("state", r.state(ws)),
		line("hibernate_when_unused", strconv.FormatBool(ws.HibernateWhenUnused)),
		line("disable_audio", strconv.FormatBool(ws.DisableAudio)),
		line("disable_notifications", strconv.FormatBool(ws.DisableNotifications)),
		line("picture_id", ws.PictureID),
	}
	if ws.AccountInfo != nil {
		lines = append(lines, line("account", strings.TrimSpace(ws.AccountInfo.Name+" "+ws.AccountInfo.Email)))
	}
	if p := ws.Preferences; p != nil {
		if p.UserAgent != nil {
			lines = append(lines, line("user_agent", *p.UserAgent))
		}
		if p.InternalURLRule != nil {
			lines = append(lines, line("internal_url_rule", *p.InternalURLRule))
		}
		if p.ExternalURLRule != nil {
			lines = append(lines, line("external_url_rule", *p.ExternalURLRule))
		}
		if p.BlockAds != nil {
			lines = append(lines, line("block_ads", strconv.FormatBool(*p.BlockAds)))
		}
		if p.Proxy != nil {
			lines = append(lines, line("proxy", strings.TrimSuffix(string(p.Proxy.Mode)+":"+p.Proxy.Rules, ":")))
		}
		if len(p.Extensions) > 0 {
			lines = append(lines, line("extensions", strings.Join(p.Extensions, ",")))
		}
	}

	header := r.theme.BoxHeader.Render(ws.DisplayName())
	return r.theme.Box.Render(header + "\n" + strings.Join(lines, "\n"))
}

func (r *WorkspaceRenderer) state(ws *entity.Workspace) string {
	var parts []string
	switch {
	case ws.Active:
		parts = append(parts, r.theme.SuccessStyle.Render(IconActive+" active"))
	case ws.Hibernated:
		parts = append(parts, r.theme.Subtle.Render(IconSleep+" hibernated"))
	default:
		parts = append(parts, r.theme.Normal.Render("ready"))
	}
	if ws.DisableAudio {
		parts = append(parts, r.theme.Subtle.Render(IconMuted))
	}
	if ws.DisableNotifications {
		parts = append(parts, r.theme.Subtle.Render(IconBellSlash))
	}
	return strings.Join(parts, " ")
}

func shortID(id entity.WorkspaceID) string {
	s := string(id)
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
