package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mock_port "github.com/bnema/webdock/internal/application/port/mocks"
	"github.com/bnema/webdock/internal/application/usecase"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/domain/policy"
)

func TestExplainNavigation(t *testing.T) {
	store, _ := seededStore(t, "", &entity.Workspace{
		ID:          "a",
		HomeURL:     "https://app.example.com",
		LastURL:     "https://docs.example.net/page",
		Preferences: &entity.Preferences{ExternalURLRule: entity.Ptr(`^https://ads\.`)},
	})
	uc := usecase.NewExplainNavigationUseCase(store, &mock_port.StaticPreferences{}, nil)

	tests := []struct {
		name    string
		req     entity.NavigationRequest
		action  entity.NavigationAction
		reason  string
		wantErr bool
	}{
		{
			name:   "home page counts as same service",
			req:    entity.NavigationRequest{TargetURL: "https://www.example.com/x", TriggerWorkspaceID: "a"},
			action: entity.ActionOpenNewWindow,
			reason: policy.ReasonSameService,
		},
		{
			name:   "last page stands in for the current page",
			req:    entity.NavigationRequest{TargetURL: "https://docs.example.net/other", TriggerWorkspaceID: "a"},
			action: entity.ActionOpenNewWindow,
			reason: policy.ReasonSameService,
		},
		{
			name:   "workspace override rule",
			req:    entity.NavigationRequest{TargetURL: "https://ads.tracker.io/x", TriggerWorkspaceID: "a"},
			action: entity.ActionOpenExternally,
			reason: policy.ReasonExternalRule,
		},
		{
			name:   "global preferences without a workspace",
			req:    entity.NavigationRequest{TargetURL: "https://ads.tracker.io/x"},
			action: entity.ActionLoadInPlace,
			reason: policy.ReasonDefault,
		},
		{
			name:    "unknown workspace",
			req:     entity.NavigationRequest{TargetURL: "https://x.org", TriggerWorkspaceID: "missing"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := uc.Execute(tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, usecase.ErrWorkspaceNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.action, d.Action)
			assert.Equal(t, tt.reason, d.Reason)
		})
	}
}
