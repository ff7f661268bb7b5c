package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/logging"
)

// FetchWorkspaceIconUseCase downloads a picture for workspaces that have none.
type FetchWorkspaceIconUseCase struct {
	icons      port.IconFetcher
	workspaces *ManageWorkspacesUseCase
	prefs      port.PreferencesProvider
}

// NewFetchWorkspaceIconUseCase creates a new FetchWorkspaceIconUseCase.
func NewFetchWorkspaceIconUseCase(
	icons port.IconFetcher,
	workspaces *ManageWorkspacesUseCase,
	prefs port.PreferencesProvider,
) *FetchWorkspaceIconUseCase {
	return &FetchWorkspaceIconUseCase{icons: icons, workspaces: workspaces, prefs: prefs}
}

// Execute fetches and stores the icon of the workspace's home site.
// It returns false without error when there is nothing to do.
func (uc *FetchWorkspaceIconUseCase) Execute(ctx context.Context, id entity.WorkspaceID, force bool) (bool, error) {
	ws, err := uc.workspaces.Get(id)
	if err != nil {
		return false, err
	}
	if ws.PictureID != "" && !force {
		return false, nil
	}

	target := ws.HomeURL
	if target == "" {
		target = uc.prefs.Preferences().DefaultURL
	}
	if target == "" {
		return false, nil
	}

	pictureID, err := uc.icons.FetchIcon(ctx, target)
	if err != nil {
		return false, fmt.Errorf("failed to fetch icon: %w", err)
	}

	// The workspace may have been removed while the icon downloaded.
	if !uc.workspaces.Exists(id) {
		return false, nil
	}
	if _, err := uc.workspaces.Update(ctx, id, entity.WorkspacePatch{PictureID: &pictureID}); err != nil {
		return false, err
	}

	logging.FromContext(ctx).Debug().Str("workspace_id", string(id)).Str("picture_id", pictureID).Msg("workspace icon stored")
	return true, nil
}
