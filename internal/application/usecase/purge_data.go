package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/logging"
)

// PurgeDataUseCase handles discovering and purging on-disk workspace data.
type PurgeDataUseCase struct {
	fs         port.FileSystem
	xdg        port.XDGPaths
	partitions port.PartitionStore
	workspaces *ManageWorkspacesUseCase
}

// NewPurgeDataUseCase creates a new PurgeDataUseCase.
func NewPurgeDataUseCase(
	fs port.FileSystem,
	xdg port.XDGPaths,
	partitions port.PartitionStore,
	workspaces *ManageWorkspacesUseCase,
) *PurgeDataUseCase {
	return &PurgeDataUseCase{fs: fs, xdg: xdg, partitions: partitions, workspaces: workspaces}
}

// GetPurgeTargets returns every workspace partition, the shared partition,
// the icons directory and the filter list cache with their current state.
func (uc *PurgeDataUseCase) GetPurgeTargets(ctx context.Context) ([]entity.PurgeTarget, error) {
	var base []entity.PurgeTarget
	for _, ws := range uc.workspaces.List() {
		path, err := uc.partitions.Path(uc.partitions.PartitionID(ws.ID, false))
		if err != nil {
			return nil, err
		}
		base = append(base, entity.PurgeTarget{
			Type:        entity.PurgeTargetPartition,
			WorkspaceID: ws.ID,
			Path:        path,
			Description: ws.DisplayName(),
		})
	}

	sharedPath, err := uc.partitions.Path(uc.partitions.PartitionID("", true))
	if err != nil {
		return nil, err
	}
	base = append(base, entity.PurgeTarget{
		Type:        entity.PurgeTargetSharedPartition,
		Path:        sharedPath,
		Description: "shared browsing data",
	})

	iconsDir, err := uc.xdg.IconsDir()
	if err != nil {
		return nil, err
	}
	base = append(base, entity.PurgeTarget{Type: entity.PurgeTargetIcons, Path: iconsDir, Description: "workspace icons"})

	filtersDir, err := uc.xdg.FilterListsDir()
	if err != nil {
		return nil, err
	}
	base = append(base, entity.PurgeTarget{
		Type:        entity.PurgeTargetFilterLists,
		Path:        filtersDir,
		Description: "content filter lists",
	})

	targets := make([]entity.PurgeTarget, 0, len(base))
	for _, t := range base {
		exists, err := uc.fs.Exists(ctx, t.Path)
		if err != nil {
			return nil, err
		}
		t.Exists = exists
		if exists {
			size, err := uc.fs.GetSize(ctx, t.Path)
			if err != nil {
				return nil, err
			}
			t.Size = size
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// PurgeInput selects targets by type, and partitions by workspace.
// An empty WorkspaceIDs selects every workspace partition.
type PurgeInput struct {
	TargetTypes  []entity.PurgeTargetType
	WorkspaceIDs []entity.WorkspaceID
}

// PurgeOutput contains the results of the purge operation.
type PurgeOutput struct {
	Results      []entity.PurgeResult
	TotalSize    int64
	SuccessCount int
	FailureCount int
}

// Execute purges the selected targets, continuing past failures.
func (uc *PurgeDataUseCase) Execute(ctx context.Context, input PurgeInput) (*PurgeOutput, error) {
	log := logging.FromContext(ctx)

	for _, id := range input.WorkspaceIDs {
		if !uc.workspaces.Exists(id) {
			return nil, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
		}
	}

	targets, err := uc.GetPurgeTargets(ctx)
	if err != nil {
		return nil, err
	}

	types := make(map[entity.PurgeTargetType]bool, len(input.TargetTypes))
	for _, tt := range input.TargetTypes {
		types[tt] = true
	}
	ids := make(map[entity.WorkspaceID]bool, len(input.WorkspaceIDs))
	for _, id := range input.WorkspaceIDs {
		ids[id] = true
	}

	out := &PurgeOutput{}
	for _, t := range targets {
		if !types[t.Type] || !t.Exists {
			continue
		}
		if t.Type == entity.PurgeTargetPartition && len(ids) > 0 && !ids[t.WorkspaceID] {
			continue
		}

		res := entity.PurgeResult{Target: t}
		out.TotalSize += t.Size
		if err := uc.fs.RemoveAll(ctx, t.Path); err != nil {
			res.Error = err
			out.FailureCount++
			log.Warn().Err(err).Str("path", t.Path).Msg("purge target failed")
		} else {
			res.Success = true
			out.SuccessCount++
			log.Info().Str("path", t.Path).Str("description", t.Description).Msg("purge target removed")
		}
		out.Results = append(out.Results, res)
	}

	if out.FailureCount > 0 {
		return out, fmt.Errorf("failed to remove %d items", out.FailureCount)
	}
	return out, nil
}
