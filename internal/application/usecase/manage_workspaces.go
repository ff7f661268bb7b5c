package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/domain/repository"
	"github.com/bnema/webdock/internal/logging"
)

// ErrWorkspaceNotFound is returned when an id does not name a stored workspace.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// ManageWorkspacesUseCase is the workspace store. It keeps an ordered
// snapshot in memory and writes every mutation through to the repository;
// the snapshot only changes after the repository commit succeeded.
type ManageWorkspacesUseCase struct {
	repo       repository.WorkspaceRepository
	defaultURL func() string
	now        func() time.Time
	newID      func() entity.WorkspaceID

	mu         sync.RWMutex
	workspaces []*entity.Workspace // sorted by Order
}

// NewManageWorkspacesUseCase loads the snapshot from repo. defaultURL
// returns the global default URL and may be nil.
func NewManageWorkspacesUseCase(
	ctx context.Context,
	repo repository.WorkspaceRepository,
	defaultURL func() string,
) (*ManageWorkspacesUseCase, error) {
	all, err := repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspaces: %w", err)
	}
	if defaultURL == nil {
		defaultURL = func() string { return "" }
	}

	uc := &ManageWorkspacesUseCase{
		repo:       repo,
		defaultURL: defaultURL,
		now:        time.Now,
		newID:      func() entity.WorkspaceID { return entity.WorkspaceID(uuid.NewString()) },
		workspaces: all,
	}
	uc.sortLocked()

	logging.FromContext(ctx).Debug().Int("count", len(all)).Msg("workspace store loaded")
	return uc, nil
}

// Create stores a new workspace built from patch. It gets a fresh id and
// an order one past the current maximum. The very first workspace is
// activated when a default URL is configured.
func (uc *ManageWorkspacesUseCase) Create(ctx context.Context, patch entity.WorkspacePatch) (*entity.Workspace, error) {
	log := logging.FromContext(ctx)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	ws := &entity.Workspace{
		ID:        uc.newID(),
		Order:     uc.nextOrderLocked(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	patch.Apply(ws)
	if len(uc.workspaces) == 0 && uc.defaultURL() != "" {
		ws.Active = true
	}
	if err := ws.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Save(ctx, ws); err != nil {
		return nil, fmt.Errorf("failed to save workspace: %w", err)
	}
	uc.workspaces = append(uc.workspaces, ws)
	uc.sortLocked()

	log.Info().Str("workspace_id", string(ws.ID)).Int("order", ws.Order).Bool("active", ws.Active).Msg("workspace created")
	return ws.Clone(), nil
}

// Get returns a copy of a workspace.
func (uc *ManageWorkspacesUseCase) Get(id entity.WorkspaceID) (*entity.Workspace, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	_, ws := uc.findLocked(id)
	if ws == nil {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
	}
	return ws.Clone(), nil
}

// Exists reports whether id names a stored workspace.
func (uc *ManageWorkspacesUseCase) Exists(id entity.WorkspaceID) bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	_, ws := uc.findLocked(id)
	return ws != nil
}

// List returns copies of every workspace sorted by order.
func (uc *ManageWorkspacesUseCase) List() []*entity.Workspace {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := make([]*entity.Workspace, len(uc.workspaces))
	for i, ws := range uc.workspaces {
		out[i] = ws.Clone()
	}
	return out
}

// Update shallow-merges patch into the workspace and persists it.
func (uc *ManageWorkspacesUseCase) Update(ctx context.Context, id entity.WorkspaceID, patch entity.WorkspacePatch) (*entity.Workspace, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	i, current := uc.findLocked(id)
	if current == nil {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
	}
	if patch.IsEmpty() {
		return current.Clone(), nil
	}

	next := current.Clone()
	patch.Apply(next)
	next.UpdatedAt = uc.now()
	if err := next.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}
	uc.workspaces[i] = next

	logging.FromContext(ctx).Debug().Str("workspace_id", string(id)).Msg("workspace updated")
	return next.Clone(), nil
}

// Remove deletes the record. Activating another workspace is up to the caller.
func (uc *ManageWorkspacesUseCase) Remove(ctx context.Context, id entity.WorkspaceID) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	i, ws := uc.findLocked(id)
	if ws == nil {
		return fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	uc.workspaces = slices.Delete(uc.workspaces, i, i+1)

	logging.FromContext(ctx).Info().Str("workspace_id", string(id)).Msg("workspace removed")
	return nil
}

// SetActive deactivates the previously active workspace and activates id,
// persisting both in one transaction. It returns the previous active id,
// empty when there was none.
func (uc *ManageWorkspacesUseCase) SetActive(ctx context.Context, id entity.WorkspaceID) (entity.WorkspaceID, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ti, target := uc.findLocked(id)
	if target == nil {
		return "", fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
	}

	var (
		previous entity.WorkspaceID
		changed  []*entity.Workspace
		indexes  []int
	)
	now := uc.now()
	for i, ws := range uc.workspaces {
		if !ws.Active || ws.ID == id {
			continue
		}
		previous = ws.ID
		off := ws.Clone()
		off.Active = false
		off.UpdatedAt = now
		changed = append(changed, off)
		indexes = append(indexes, i)
	}
	if target.Active && len(changed) == 0 {
		return id, nil
	}
	on := target.Clone()
	on.Active = true
	on.UpdatedAt = now
	changed = append(changed, on)
	indexes = append(indexes, ti)

	if err := uc.repo.SaveAll(ctx, changed); err != nil {
		return "", fmt.Errorf("failed to set active workspace: %w", err)
	}
	for k, i := range indexes {
		uc.workspaces[i] = changed[k]
	}

	logging.FromContext(ctx).Debug().
		Str("workspace_id", string(id)).
		Str("previous_id", string(previous)).
		Msg("active workspace changed")
	return previous, nil
}

// Active returns the active workspace, or nil.
func (uc *ManageWorkspacesUseCase) Active() *entity.Workspace {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	for _, ws := range uc.workspaces {
		if ws.Active {
			return ws.Clone()
		}
	}
	return nil
}

// Next returns the workspace after id in order, wrapping at the end.
func (uc *ManageWorkspacesUseCase) Next(id entity.WorkspaceID) (*entity.Workspace, error) {
	return uc.adjacent(id, 1)
}

// Previous returns the workspace before id in order, wrapping at the start.
func (uc *ManageWorkspacesUseCase) Previous(id entity.WorkspaceID) (*entity.Workspace, error) {
	return uc.adjacent(id, -1)
}

func (uc *ManageWorkspacesUseCase) adjacent(id entity.WorkspaceID, step int) (*entity.Workspace, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	i, ws := uc.findLocked(id)
	if ws == nil {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
	}
	n := len(uc.workspaces)
	return uc.workspaces[((i+step)%n+n)%n].Clone(), nil
}

// Reorder assigns orders 0..n-1 following ids. Workspaces missing from ids
// keep their relative order after the listed ones.
func (uc *ManageWorkspacesUseCase) Reorder(ctx context.Context, ids []entity.WorkspaceID) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	seen := make(map[entity.WorkspaceID]bool, len(ids))
	ordered := make([]*entity.Workspace, 0, len(uc.workspaces))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		_, ws := uc.findLocked(id)
		if ws == nil {
			return fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
		}
		seen[id] = true
		ordered = append(ordered, ws)
	}
	for _, ws := range uc.workspaces {
		if !seen[ws.ID] {
			ordered = append(ordered, ws)
		}
	}

	now := uc.now()
	next := make([]*entity.Workspace, len(ordered))
	var changed []*entity.Workspace
	for i, ws := range ordered {
		c := ws.Clone()
		if c.Order != i {
			c.Order = i
			c.UpdatedAt = now
			changed = append(changed, c)
		}
		next[i] = c
	}
	if len(changed) == 0 {
		return nil
	}
	if err := uc.repo.SaveAll(ctx, changed); err != nil {
		return fmt.Errorf("failed to reorder workspaces: %w", err)
	}
	uc.workspaces = next

	logging.FromContext(ctx).Debug().Int("changed", len(changed)).Msg("workspaces reordered")
	return nil
}

// Move places id at position (0-based, clamped) and renumbers.
func (uc *ManageWorkspacesUseCase) Move(ctx context.Context, id entity.WorkspaceID, position int) error {
	ids := make([]entity.WorkspaceID, 0)
	found := false
	for _, ws := range uc.List() {
		if ws.ID == id {
			found = true
			continue
		}
		ids = append(ids, ws.ID)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrWorkspaceNotFound, id)
	}
	position = max(0, min(position, len(ids)))
	ids = slices.Insert(ids, position, id)
	return uc.Reorder(ctx, ids)
}

func (uc *ManageWorkspacesUseCase) findLocked(id entity.WorkspaceID) (int, *entity.Workspace) {
	for i, ws := range uc.workspaces {
		if ws.ID == id {
			return i, ws
		}
	}
	return -1, nil
}

func (uc *ManageWorkspacesUseCase) nextOrderLocked() int {
	if len(uc.workspaces) == 0 {
		return 0
	}
	highest := uc.workspaces[0].Order
	for _, ws := range uc.workspaces[1:] {
		highest = max(highest, ws.Order)
	}
	return highest + 1
}

func (uc *ManageWorkspacesUseCase) sortLocked() {
	slices.SortStableFunc(uc.workspaces, func(a, b *entity.Workspace) int {
		return a.Order - b.Order
	})
}
