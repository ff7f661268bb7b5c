package policy

import (
	"testing"

	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestEngine_Decide(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name       string
		req        entity.NavigationRequest
		prefs      entity.EffectivePreferences
		wantAction entity.NavigationAction
		wantReason string
	}{
		{
			name: "external rule beats domain equivalence",
			req: entity.NavigationRequest{
				TargetURL:  "https://app.foo.com/share",
				CurrentURL: "https://foo.com",
			},
			prefs:      entity.EffectivePreferences{ExternalURLRule: `foo\.com/share`},
			wantAction: entity.ActionOpenExternally,
			wantReason: ReasonExternalRule,
		},
		{
			name: "internal rule opens new window",
			req: entity.NavigationRequest{
				TargetURL:   "https://docs.other.com/d/1",
				CurrentURL:  "https://foo.com",
				Disposition: entity.DispositionForegroundTab,
			},
			prefs:      entity.EffectivePreferences{InternalURLRule: "glob:docs.other.com/**"},
			wantAction: entity.ActionOpenNewWindow,
			wantReason: ReasonInternalRule,
		},
		{
			name: "external rule checked before internal rule",
			req:  entity.NavigationRequest{TargetURL: "https://x.com/a"},
			prefs: entity.EffectivePreferences{
				ExternalURLRule: `x\.com`,
				InternalURLRule: `x\.com`,
			},
			wantAction: entity.ActionOpenExternally,
			wantReason: ReasonExternalRule,
		},
		{
			name: "forced new window bypasses continuity rules",
			req: entity.NavigationRequest{
				TargetURL:   "https://zoom.us/j/123",
				Disposition: entity.DispositionForcedNewWindow,
			},
			wantAction: entity.ActionOpenNewWindow,
			wantReason: ReasonForcedNewWindow,
		},
		{
			name: "explicit force option",
			req: entity.NavigationRequest{
				TargetURL: "https://example.com",
				Options:   entity.NavigationOptions{ForceNewWindow: true},
			},
			wantAction: entity.ActionOpenNewWindow,
			wantReason: ReasonForcedNewWindow,
		},
		{
			name: "auth hand-off loads in place",
			req: entity.NavigationRequest{
				TargetURL:   "https://accounts.google.com/AccountChooser",
				CurrentURL:  "https://mail.google.com/mail/u/0",
				Disposition: entity.DispositionNewWindow,
			},
			wantAction: entity.ActionLoadInPlace,
			wantReason: ReasonAuthHandoff,
		},
		{
			name: "account switcher loads in place",
			req: entity.NavigationRequest{
				TargetURL:   "https://mail.google.com/mail/u/1",
				CurrentURL:  "https://calendar.google.com/calendar/u/0",
				Disposition: entity.DispositionForegroundTab,
			},
			wantAction: entity.ActionLoadInPlace,
			wantReason: ReasonAccountSwitch,
		},
		{
			name: "authuser query loads in place",
			req: entity.NavigationRequest{
				TargetURL:  "https://drive.google.com/drive?authuser=2",
				CurrentURL: "https://mail.google.com/mail/u/0",
			},
			wantAction: entity.ActionLoadInPlace,
			wantReason: ReasonAccountSwitch,
		},
		{
			name: "meeting redirector opens externally",
			req: entity.NavigationRequest{
				TargetURL:  "https://us02web.zoom.us/j/8881234",
				CurrentURL: "https://mail.google.com",
			},
			wantAction: entity.ActionOpenExternally,
			wantReason: ReasonOutboundRedirector,
		},
		{
			name: "meet link inside a meet workspace stays in the app",
			req: entity.NavigationRequest{
				TargetURL:   "https://meet.google.com/abc-defg-hij",
				CurrentURL:  "https://meet.google.com/landing",
				HomeURL:     "https://meet.google.com",
				Disposition: entity.DispositionNewWindow,
			},
			wantAction: entity.ActionOpenNewWindow,
			wantReason: ReasonSameService,
		},
		{
			name: "meet link redirector opens externally",
			req: entity.NavigationRequest{
				TargetURL:  "https://meet.google.com/linkredirect?dest=https%3A%2F%2Fexample.com",
				CurrentURL: "https://meet.google.com/abc-defg-hij",
			},
			wantAction: entity.ActionOpenExternally,
			wantReason: ReasonOutboundRedirector,
		},
		{
			name: "zoom link inside a zoom workspace stays in the app",
			req: entity.NavigationRequest{
				TargetURL:   "https://us02web.zoom.us/j/8881234",
				CurrentURL:  "https://us02web.zoom.us/meeting",
				HomeURL:     "https://zoom.us",
				Disposition: entity.DispositionNewWindow,
			},
			wantAction: entity.ActionOpenNewWindow,
			wantReason: ReasonSameService,
		},
		{
			name: "redirector path needs a segment boundary",
			req: entity.NavigationRequest{
				TargetURL:  "https://www.google.com/urlshortener",
				CurrentURL: "https://example.org",
			},
			wantAction: entity.ActionLoadInPlace,
			wantReason: ReasonDefault,
		},
		{
			name: "google url redirector opens externally",
			req: entity.NavigationRequest{
				TargetURL:  "https://www.google.com/url?q=https://example.com",
				CurrentURL: "https://mail.google.com",
			},
			wantAction: entity.ActionOpenExternally,
			wantReason: ReasonOutboundRedirector,
		},
		{
			name: "same service opens new window",
			req: entity.NavigationRequest{
				TargetURL:   "https://app.foo.com/thread/1",
				CurrentURL:  "https://foo.com/inbox",
				Disposition: entity.DispositionForegroundTab,
			},
			wantAction: entity.ActionOpenNewWindow,
			wantReason: ReasonSameService,
		},
		{
			name: "same service as home url",
			req: entity.NavigationRequest{
				TargetURL:   "https://web.foo.com/x",
				CurrentURL:  "about:blank",
				HomeURL:     "https://foo.com",
				Disposition: entity.DispositionForegroundTab,
			},
			wantAction: entity.ActionOpenNewWindow,
			wantReason: ReasonSameService,
		},
		{
			name: "tab to another domain opens externally",
			req: entity.NavigationRequest{
				TargetURL:   "https://news.example.org/a",
				CurrentURL:  "https://foo.com",
				Disposition: entity.DispositionBackgroundTab,
			},
			wantAction: entity.ActionOpenExternally,
			wantReason: ReasonTabExternal,
		},
		{
			name: "default loads in place",
			req: entity.NavigationRequest{
				TargetURL:   "https://news.example.org/a",
				CurrentURL:  "https://foo.com",
				Disposition: entity.DispositionNewWindow,
			},
			wantAction: entity.ActionLoadInPlace,
			wantReason: ReasonDefault,
		},
		{
			name: "invalid user rule never matches",
			req: entity.NavigationRequest{
				TargetURL:   "https://news.example.org/a",
				Disposition: entity.DispositionDefault,
			},
			prefs:      entity.EffectivePreferences{ExternalURLRule: "([unclosed"},
			wantAction: entity.ActionLoadInPlace,
			wantReason: ReasonDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Decide(tt.req, tt.prefs)
			assert.Equal(t, tt.wantAction, got.Action)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.False(t, got.Placeholder)
		})
	}
}

func TestEngine_TabToUnresolvedCreatesPlaceholder(t *testing.T) {
	e := NewEngine()
	req := entity.NavigationRequest{
		TargetURL:   "about:blank",
		CurrentURL:  "https://foo.com",
		Disposition: entity.DispositionForegroundTab,
	}

	got := e.Decide(req, entity.EffectivePreferences{})
	assert.True(t, got.Placeholder)
	assert.Equal(t, ReasonTabPlaceholder, got.Reason)

	resolved := e.DecideResolved(req, entity.EffectivePreferences{})
	assert.False(t, resolved.Placeholder)
	assert.Equal(t, entity.ActionOpenNewWindow, resolved.Action)

	req.TargetURL = "https://external.example.net/page"
	resolved = e.DecideResolved(req, entity.EffectivePreferences{})
	assert.Equal(t, entity.ActionOpenExternally, resolved.Action)
}

func TestEngine_ComplianceGate(t *testing.T) {
	e := NewEngine()
	req := entity.NavigationRequest{TargetURL: "https://app.foo.com/upgrade/pricing", CurrentURL: "https://foo.com"}
	prefs := entity.EffectivePreferences{
		ExternalURLRule: `foo\.com`,
		UpsellPatterns:  []string{"glob:*.foo.com/upgrade/**"},
	}

	assert.Equal(t, entity.ActionOpenExternally, e.Decide(req, prefs).Action)

	prefs.BlockUpsell = true
	got := e.Decide(req, prefs)
	assert.Equal(t, entity.ActionBlock, got.Action)
	assert.Equal(t, ReasonUpsellBlocked, got.Reason)
}

func TestValidateRule(t *testing.T) {
	assert.NoError(t, ValidateRule(""))
	assert.NoError(t, ValidateRule("zoom\\.us\nglob:*.example.com/**"))
	assert.Error(t, ValidateRule("([bad"))
	assert.Error(t, ValidateRule("glob:[bad"))
}
