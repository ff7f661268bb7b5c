package styles_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/webdock/internal/cli/styles"
	"github.com/bnema/webdock/internal/domain/build"
	"github.com/bnema/webdock/internal/domain/entity"
)

func TestWorkspaceRenderer_RenderList(t *testing.T) {
	r := styles.NewWorkspaceRenderer(styles.NewTheme())

	assert.Contains(t, r.RenderList(nil), "No workspaces")

	out := r.RenderList([]*entity.Workspace{
		{ID: "0123456789abcdef", Name: "Mail", HomeURL: "https://mail.example.com", Active: true},
		{ID: "b", HomeURL: "https://chat.example.com/some/very/long/path/that/keeps/going/on", Order: 1, Hibernated: true},
	})
	assert.Contains(t, out, "Mail")
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "active")
	assert.Contains(t, out, "hibernated")
	assert.Contains(t, out, "…")
}

func TestWorkspaceRenderer_RenderDetail(t *testing.T) {
	r := styles.NewWorkspaceRenderer(styles.NewTheme())
	out := r.RenderDetail(&entity.Workspace{
		ID:          "a",
		Name:        "Chat",
		HomeURL:     "https://chat.example.com",
		AccountInfo: &entity.AccountInfo{Name: "Ada", Email: "ada@example.com"},
		Preferences: &entity.Preferences{
			UserAgent:  entity.Ptr("Custom/1.0"),
			Extensions: []string{"dark-reader"},
		},
	})
	assert.Contains(t, out, "Chat")
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "Custom/1.0")
	assert.Contains(t, out, "dark-reader")
}

func TestTheme_RenderDecision(t *testing.T) {
	theme := styles.NewTheme()
	out := theme.RenderDecision(
		entity.NavigationRequest{TargetURL: "https://x.example", Disposition: entity.DispositionForegroundTab},
		entity.NavigationDecision{Action: entity.ActionOpenNewWindow, Reason: "tab request to an unresolved destination", Placeholder: true},
	)
	assert.Contains(t, out, "open-new-window")
	assert.Contains(t, out, "unresolved destination")
	assert.Contains(t, out, "first navigation")
}

func TestTheme_RenderPurge(t *testing.T) {
	theme := styles.NewTheme()
	assert.Contains(t, theme.RenderPurgeResults(nil), "Nothing")

	out := theme.RenderPurgeResults([]entity.PurgeResult{
		{Target: entity.PurgeTarget{Description: "Mail", Size: 2048}, Success: true},
		{Target: entity.PurgeTarget{Description: "Chat"}, Error: errors.New("busy")},
	})
	assert.Contains(t, out, "Mail")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "Chat: busy")

	out = theme.RenderPurgeTargets([]entity.PurgeTarget{
		{Description: "shared browsing data", Path: "/data/partitions/shared"},
	})
	assert.Contains(t, out, "empty")
	assert.Contains(t, out, "/data/partitions/shared")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", styles.FormatBytes(512))
	assert.Equal(t, "1.5 KiB", styles.FormatBytes(1536))
	assert.Equal(t, "3.0 MiB", styles.FormatBytes(3<<20))
}

func TestAboutRenderer(t *testing.T) {
	out := styles.NewAboutRenderer(styles.NewTheme()).Render(build.Info{Version: "1.2.3"})
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, build.RepoURL())
}
