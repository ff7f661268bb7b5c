// Package policy decides how every requested navigation is routed:
// replace the current page, open a new window, hand off to the system
// browser, or block.
package policy

import (
	"github.com/bnema/webdock/internal/domain/entity"
	urlutil "github.com/bnema/webdock/internal/domain/url"
)

// Reasons name the rule that produced a decision.
const (
	ReasonUpsellBlocked      = "compliance: upsell page blocked"
	ReasonExternalRule       = "user external URL rule matched"
	ReasonInternalRule       = "user internal URL rule matched"
	ReasonForcedNewWindow    = "forced new window"
	ReasonAuthHandoff        = "authentication hand-off stays in place"
	ReasonAccountSwitch      = "account switch within the same service"
	ReasonOutboundRedirector = "known outbound redirector"
	ReasonSameService        = "same service as current page"
	ReasonTabExternal        = "tab request to a resolvable domain"
	ReasonTabPlaceholder     = "tab request to an unresolved destination"
	ReasonPlaceholderResolve = "placeholder destination still unresolved"
	ReasonDefault            = "default"
)

// Engine evaluates routing rules in a fixed priority order.
// It holds no per-request state and is safe to re-enter from nested popups.
type Engine struct {
	rules *ruleMatcher
}

func NewEngine() *Engine {
	return &Engine{rules: newRuleMatcher()}
}

// Decide returns the routing decision for req. The first matching rule wins:
//
//  1. user external rule -> open externally
//  2. user internal rule -> new window
//  3. forced new window -> new window
//  4. built-in continuity rules (auth hand-off, account switch, redirectors)
//  5. same service as the current or home page -> new window
//  6. tab request -> open externally, or a placeholder when unresolved
//  7. load in place
//
// When upsell blocking is enabled a compliance gate runs before rule 1.
func (e *Engine) Decide(req entity.NavigationRequest, prefs entity.EffectivePreferences) entity.NavigationDecision {
	target := req.TargetURL

	if prefs.BlockUpsell && e.rules.MatchAny(prefs.UpsellPatterns, target) {
		return decision(entity.ActionBlock, ReasonUpsellBlocked)
	}

	if e.rules.Match(prefs.ExternalURLRule, target) {
		return decision(entity.ActionOpenExternally, ReasonExternalRule)
	}
	if e.rules.Match(prefs.InternalURLRule, target) {
		return decision(entity.ActionOpenNewWindow, ReasonInternalRule)
	}

	if req.Disposition == entity.DispositionForcedNewWindow || req.Options.ForceNewWindow {
		return decision(entity.ActionOpenNewWindow, ReasonForcedNewWindow)
	}

	if isAuthHandoff(target) {
		return decision(entity.ActionLoadInPlace, ReasonAuthHandoff)
	}
	if isAccountSwitch(target, req.CurrentURL) {
		return decision(entity.ActionLoadInPlace, ReasonAccountSwitch)
	}
	if isOutboundRedirector(target, req.CurrentURL, req.HomeURL) {
		return decision(entity.ActionOpenExternally, ReasonOutboundRedirector)
	}

	if urlutil.Equivalent(target, req.CurrentURL) || urlutil.Equivalent(target, req.HomeURL) {
		return decision(entity.ActionOpenNewWindow, ReasonSameService)
	}

	if req.Disposition.IsTab() {
		if urlutil.IsResolvable(target) {
			return decision(entity.ActionOpenExternally, ReasonTabExternal)
		}
		d := decision(entity.ActionOpenNewWindow, ReasonTabPlaceholder)
		d.Placeholder = true
		return d
	}

	return decision(entity.ActionLoadInPlace, ReasonDefault)
}

// DecideResolved re-applies Decide once a placeholder learned its real
// destination. A destination that is still unresolved opens a new window.
func (e *Engine) DecideResolved(req entity.NavigationRequest, prefs entity.EffectivePreferences) entity.NavigationDecision {
	d := e.Decide(req, prefs)
	if d.Placeholder {
		return decision(entity.ActionOpenNewWindow, ReasonPlaceholderResolve)
	}
	return d
}

func decision(action entity.NavigationAction, reason string) entity.NavigationDecision {
	return entity.NavigationDecision{Action: action, Reason: reason}
}
