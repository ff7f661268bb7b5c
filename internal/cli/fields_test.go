package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/webdock/internal/cli"
	"github.com/bnema/webdock/internal/domain/entity"
)

func TestParseField_WorkspaceFields(t *testing.T) {
	ws := &entity.Workspace{ID: "a"}

	patch, err := cli.ParseField(ws, "name", "  Mail ")
	require.NoError(t, err)
	assert.Equal(t, "Mail", *patch.Name)

	patch, err = cli.ParseField(ws, "disable-audio", "true")
	require.NoError(t, err)
	require.NotNil(t, patch.DisableAudio)
	assert.True(t, *patch.DisableAudio)
	assert.Nil(t, patch.Name)

	_, err = cli.ParseField(ws, "hibernate_when_unused", "maybe")
	assert.Error(t, err)

	_, err = cli.ParseField(ws, "colour", "red")
	assert.ErrorContains(t, err, "unknown field")
}

func TestParseField_PreferenceOverridesMerge(t *testing.T) {
	ws := &entity.Workspace{
		ID:          "a",
		Preferences: &entity.Preferences{UserAgent: entity.Ptr("Custom/1.0")},
	}

	patch, err := cli.ParseField(ws, "block_ads", "false")
	require.NoError(t, err)
	require.NotNil(t, patch.Preferences)
	assert.Equal(t, "Custom/1.0", *patch.Preferences.UserAgent, "other overrides are kept")
	assert.False(t, *patch.Preferences.BlockAds)
	assert.Nil(t, ws.Preferences.BlockAds, "input is not mutated")

	patch, err = cli.ParseField(ws, "user_agent", "")
	require.NoError(t, err)
	assert.Nil(t, patch.Preferences.UserAgent, "empty value clears the override")

	patch, err = cli.ParseField(ws, "extensions", "dark-reader, ,ublock")
	require.NoError(t, err)
	assert.Equal(t, []string{"dark-reader", "ublock"}, patch.Preferences.Extensions)
}

func TestParseField_Validation(t *testing.T) {
	ws := &entity.Workspace{ID: "a"}

	_, err := cli.ParseField(ws, "external_url_rule", "([")
	assert.Error(t, err)

	patch, err := cli.ParseField(ws, "internal_url_rule", "glob:*.example.com/**")
	require.NoError(t, err)
	assert.Equal(t, "glob:*.example.com/**", *patch.Preferences.InternalURLRule)

	patch, err = cli.ParseField(ws, "proxy", "fixed:socks5://127.0.0.1:1080")
	require.NoError(t, err)
	assert.Equal(t, entity.ProxyModeFixed, patch.Preferences.Proxy.Mode)
	assert.Equal(t, "socks5://127.0.0.1:1080", patch.Preferences.Proxy.Rules)

	_, err = cli.ParseField(ws, "proxy", "fixed")
	assert.Error(t, err)
	_, err = cli.ParseField(ws, "proxy", "carrier-pigeon")
	assert.Error(t, err)

	patch, err = cli.ParseField(ws, "color", "#F80")
	require.NoError(t, err)
	assert.Equal(t, "#ff8800", *patch.Preferences.Color)
	_, err = cli.ParseField(ws, "color", "orange")
	assert.Error(t, err)
}

func TestFieldNamesSorted(t *testing.T) {
	names := cli.FieldNames()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "home_url")
}
