package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver()

	ua, ok := r.Resolve("https://web.whatsapp.com/")
	assert.True(t, ok)
	assert.Equal(t, ChromeUserAgent, ua)

	ua, ok = r.Resolve("https://teams.microsoft.com/_#/conversations")
	assert.True(t, ok)
	assert.Contains(t, ua, "Edg/")

	_, ok = r.Resolve("https://example.com")
	assert.False(t, ok)

	_, ok = r.Resolve("not a url")
	assert.False(t, ok)
}

func TestIsAuthFlowURL(t *testing.T) {
	assert.True(t, IsAuthFlowURL("https://accounts.google.com/ServiceLogin"))
	assert.True(t, IsAuthFlowURL("https://login.microsoftonline.com/common/oauth2"))
	assert.True(t, IsAuthFlowURL("https://example.com/oauth/authorize?client_id=1"))
	assert.False(t, IsAuthFlowURL("https://mail.google.com/mail/u/0"))
	assert.False(t, IsAuthFlowURL(""))
}

func TestIsAuthFlowURL_MatchesPathSegmentsOnly(t *testing.T) {
	assert.True(t, IsAuthFlowURL("https://example.com/sso/login"))
	assert.True(t, IsAuthFlowURL("https://example.com/api/oauth2/token"))
	assert.True(t, IsAuthFlowURL("https://example.com/saml"))
	assert.False(t, IsAuthFlowURL("https://x.com/?next=/ssomething"))
	assert.False(t, IsAuthFlowURL("https://x.com/home?redirect=/oauth/authorize"))
	assert.False(t, IsAuthFlowURL("https://example.com/ssomething"))
	assert.False(t, IsAuthFlowURL("https://example.com/blog/authorized-dealers"))
}
