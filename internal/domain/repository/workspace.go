package repository

import (
	"context"

	"github.com/bnema/webdock/internal/domain/entity"
)

//go:generate mockery --name=WorkspaceRepository --output=mocks --outpkg=mocks --with-expecter --filename=mock_workspace_repository.go --structname=MockWorkspaceRepository

// WorkspaceRepository persists workspace records.
type WorkspaceRepository interface {
	// FindAll returns every workspace, ordered by Order.
	FindAll(ctx context.Context) ([]*entity.Workspace, error)

	// FindByID returns nil if the workspace does not exist.
	FindByID(ctx context.Context, id entity.WorkspaceID) (*entity.Workspace, error)

	// Save inserts or updates a single workspace.
	Save(ctx context.Context, ws *entity.Workspace) error

	// SaveAll writes every given workspace in one transaction.
	SaveAll(ctx context.Context, workspaces []*entity.Workspace) error

	// Delete removes a workspace record.
	Delete(ctx context.Context, id entity.WorkspaceID) error
}
