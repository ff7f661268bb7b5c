package usecase

import (
	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/domain/policy"
)

// ExplainNavigationUseCase answers "what would happen if this URL were
// opened" without executing the decision.
type ExplainNavigationUseCase struct {
	workspaces *ManageWorkspacesUseCase
	prefs      port.PreferencesProvider
	policy     *policy.Engine
}

// NewExplainNavigationUseCase creates a new ExplainNavigationUseCase.
func NewExplainNavigationUseCase(
	workspaces *ManageWorkspacesUseCase,
	prefs port.PreferencesProvider,
	engine *policy.Engine,
) *ExplainNavigationUseCase {
	if engine == nil {
		engine = policy.NewEngine()
	}
	return &ExplainNavigationUseCase{workspaces: workspaces, prefs: prefs, policy: engine}
}

// Execute resolves the triggering workspace's preferences and home page,
// then runs the policy. Missing fields of req are filled in, not overridden.
func (uc *ExplainNavigationUseCase) Execute(req entity.NavigationRequest) (entity.NavigationDecision, error) {
	global := uc.prefs.Preferences()
	prefs := entity.ResolvePreferences(nil, global)

	if req.TriggerWorkspaceID != "" {
		ws, err := uc.workspaces.Get(req.TriggerWorkspaceID)
		if err != nil {
			return entity.NavigationDecision{}, err
		}
		prefs = entity.ResolvePreferences(ws.Preferences, global)
		if req.HomeURL == "" {
			req.HomeURL = ws.HomeURL
		}
		if req.CurrentURL == "" && ws.LastURL != "" {
			req.CurrentURL = ws.LastURL
		}
	}
	if req.Disposition == "" {
		req.Disposition = entity.DispositionDefault
	}
	return uc.policy.Decide(req, prefs), nil
}
