package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/logging"
)

const maxConcurrentWipes = 4

// ClearBrowsingDataUseCase wipes the storage partitions of workspaces.
// Live contexts must be torn down by the caller before Execute and
// re-created afterwards.
type ClearBrowsingDataUseCase struct {
	partitions port.PartitionStore
	workspaces *ManageWorkspacesUseCase
	prefs      port.PreferencesProvider
}

// NewClearBrowsingDataUseCase creates a new ClearBrowsingDataUseCase.
func NewClearBrowsingDataUseCase(
	partitions port.PartitionStore,
	workspaces *ManageWorkspacesUseCase,
	prefs port.PreferencesProvider,
) *ClearBrowsingDataUseCase {
	return &ClearBrowsingDataUseCase{partitions: partitions, workspaces: workspaces, prefs: prefs}
}

// Partitions returns the distinct partitions used by ids, or by every
// workspace when ids is empty.
func (uc *ClearBrowsingDataUseCase) Partitions(ids []entity.WorkspaceID) ([]string, error) {
	if len(ids) == 0 {
		for _, ws := range uc.workspaces.List() {
			ids = append(ids, ws.ID)
		}
	}
	shared := uc.prefs.Preferences().ShareBrowsingData

	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !uc.workspaces.Exists(id) {
			return nil, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
		}
		p := uc.partitions.PartitionID(id, shared)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}

// Execute wipes the partitions concurrently. Every failure is collected;
// the returned list holds the partitions that were wiped.
func (uc *ClearBrowsingDataUseCase) Execute(ctx context.Context, ids []entity.WorkspaceID) ([]string, error) {
	log := logging.FromContext(ctx)

	partitions, err := uc.Partitions(ids)
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		wiped []string
		errs  []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWipes)
	for _, p := range partitions {
		g.Go(func() error {
			err := uc.partitions.Wipe(gctx, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Err(err).Str("partition", p).Msg("failed to clear browsing data")
				errs = append(errs, err)
				return nil
			}
			wiped = append(wiped, p)
			return nil
		})
	}
	_ = g.Wait()

	log.Info().Int("wiped", len(wiped)).Int("failed", len(errs)).Msg("browsing data cleared")
	return wiped, errors.Join(errs...)
}
