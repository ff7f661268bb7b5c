package messaging

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/bnema/webdock/internal/domain/entity"
)

// Commands.
const (
	TypeCreateWorkspace   = "create-workspace"
	TypeRemoveWorkspace   = "remove-workspace"
	TypeSetActive         = "set-active-workspace"
	TypeNextWorkspace     = "next-workspace"
	TypePreviousWorkspace = "previous-workspace"
	TypeReorderWorkspaces = "reorder-workspaces"
	TypeMoveWorkspace     = "move-workspace"
	TypeSetWorkspaceField = "set-workspace-field"
	TypeHibernate         = "hibernate-workspace"
	TypeWake              = "wake-workspace"
	TypeClearBrowsingData = "clear-browsing-data"
	TypeLoadURL           = "load-url"
	TypeFindInPage        = "find-in-page"
)

// Queries.
const (
	TypeGetWorkspaces     = "get-workspaces"
	TypeGetWorkspace      = "get-workspace"
	TypeGetWorkspaceMeta  = "get-workspace-meta"
	TypeGetWorkspaceMetas = "get-workspace-metas"
	TypeGetBadgeTotal     = "get-badge-total"
	TypeExplainNavigation = "explain-navigation"
)

var errMissingID = errors.New("workspace id is required")

// WorkspaceService is what the handlers drive. The coordinator implements it.
type WorkspaceService interface {
	Create(ctx context.Context, patch entity.WorkspacePatch) (*entity.Workspace, error)
	Remove(ctx context.Context, id entity.WorkspaceID) error
	SetActive(ctx context.Context, id entity.WorkspaceID) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	Reorder(ctx context.Context, ids []entity.WorkspaceID) error
	Move(ctx context.Context, id entity.WorkspaceID, position int) error
	SetField(ctx context.Context, id entity.WorkspaceID, patch entity.WorkspacePatch) (*entity.Workspace, error)
	Hibernate(ctx context.Context, id entity.WorkspaceID) error
	Wake(ctx context.Context, id entity.WorkspaceID) error
	ClearBrowsingData(ctx context.Context, ids []entity.WorkspaceID) error
	LoadURL(ctx context.Context, id entity.WorkspaceID, url string, forceNewWindow bool) (entity.NavigationDecision, error)
	FindInPage(text string, forward bool) error

	Workspaces() []*entity.Workspace
	Workspace(id entity.WorkspaceID) (*entity.Workspace, error)
	Meta(id entity.WorkspaceID) entity.WorkspaceMeta
	Metas() map[entity.WorkspaceID]entity.WorkspaceMeta
	BadgeTotal() int
	ExplainNavigation(req entity.NavigationRequest) (entity.NavigationDecision, error)
}

type idPayload struct {
	ID entity.WorkspaceID `json:"id"`
}

type idsPayload struct {
	IDs []entity.WorkspaceID `json:"ids"`
}

type movePayload struct {
	ID       entity.WorkspaceID `json:"id"`
	Position int                `json:"position"`
}

type fieldPayload struct {
	ID    entity.WorkspaceID    `json:"id"`
	Patch entity.WorkspacePatch `json:"patch"`
}

type loadURLPayload struct {
	ID             entity.WorkspaceID `json:"id"`
	URL            string             `json:"url"`
	ForceNewWindow bool               `json:"forceNewWindow"`
}

type findPayload struct {
	Text    string `json:"text"`
	Forward *bool  `json:"forward,omitempty"`
}

func decodeID(payload json.RawMessage) (entity.WorkspaceID, error) {
	var p idPayload
	if err := decodePayload(payload, &p); err != nil {
		return "", err
	}
	if p.ID == "" {
		return "", errMissingID
	}
	return p.ID, nil
}

// withID adapts an id-only operation.
func withID(fn func(context.Context, entity.WorkspaceID) error) MessageHandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) (any, error) {
		id, err := decodeID(payload)
		if err != nil {
			return nil, err
		}
		return nil, fn(ctx, id)
	}
}

// RegisterWorkspaceHandlers registers every workspace command and query on r.
func RegisterWorkspaceHandlers(r *Router, svc WorkspaceService) error {
	commands := map[string]MessageHandlerFunc{
		TypeCreateWorkspace: func(ctx context.Context, payload json.RawMessage) (any, error) {
			var patch entity.WorkspacePatch
			if err := decodePayload(payload, &patch); err != nil {
				return nil, err
			}
			return svc.Create(ctx, patch)
		},
		TypeRemoveWorkspace: withID(svc.Remove),
		TypeSetActive:       withID(svc.SetActive),
		TypeHibernate:       withID(svc.Hibernate),
		TypeWake:            withID(svc.Wake),
		TypeNextWorkspace: func(ctx context.Context, _ json.RawMessage) (any, error) {
			return nil, svc.Next(ctx)
		},
		TypePreviousWorkspace: func(ctx context.Context, _ json.RawMessage) (any, error) {
			return nil, svc.Previous(ctx)
		},
		TypeReorderWorkspaces: func(ctx context.Context, payload json.RawMessage) (any, error) {
			var p idsPayload
			if err := decodePayload(payload, &p); err != nil {
				return nil, err
			}
			return nil, svc.Reorder(ctx, p.IDs)
		},
		TypeMoveWorkspace: func(ctx context.Context, payload json.RawMessage) (any, error) {
			var p movePayload
			if err := decodePayload(payload, &p); err != nil {
				return nil, err
			}
			if p.ID == "" {
				return nil, errMissingID
			}
			return nil, svc.Move(ctx, p.ID, p.Position)
		},
		TypeSetWorkspaceField: func(ctx context.Context, payload json.RawMessage) (any, error) {
			var p fieldPayload
			if err := decodePayload(payload, &p); err != nil {
				return nil, err
			}
			if p.ID == "" {
				return nil, errMissingID
			}
			return svc.SetField(ctx, p.ID, p.Patch)
		},
		TypeClearBrowsingData: func(ctx context.Context, payload json.RawMessage) (any, error) {
			var p idsPayload
			if err := decodePayload(payload, &p); err != nil {
				return nil, err
			}
			return nil, svc.ClearBrowsingData(ctx, p.IDs)
		},
		TypeLoadURL: func(ctx context.Context, payload json.RawMessage) (any, error) {
			var p loadURLPayload
			if err := decodePayload(payload, &p); err != nil {
				return nil, err
			}
			if p.ID == "" {
				return nil, errMissingID
			}
			return svc.LoadURL(ctx, p.ID, p.URL, p.ForceNewWindow)
		},
		TypeFindInPage: func(_ context.Context, payload json.RawMessage) (any, error) {
			var p findPayload
			if err := decodePayload(payload, &p); err != nil {
				return nil, err
			}
			forward := p.Forward == nil || *p.Forward
			return nil, svc.FindInPage(p.Text, forward)
		},
	}

	queries := map[string]MessageHandlerFunc{
		TypeGetWorkspaces: func(context.Context, json.RawMessage) (any, error) {
			return svc.Workspaces(), nil
		},
		TypeGetWorkspace: func(_ context.Context, payload json.RawMessage) (any, error) {
			id, err := decodeID(payload)
			if err != nil {
				return nil, err
			}
			return svc.Workspace(id)
		},
		TypeGetWorkspaceMeta: func(_ context.Context, payload json.RawMessage) (any, error) {
			id, err := decodeID(payload)
			if err != nil {
				return nil, err
			}
			return svc.Meta(id), nil
		},
		TypeGetWorkspaceMetas: func(context.Context, json.RawMessage) (any, error) {
			return svc.Metas(), nil
		},
		TypeGetBadgeTotal: func(context.Context, json.RawMessage) (any, error) {
			return svc.BadgeTotal(), nil
		},
		TypeExplainNavigation: func(_ context.Context, payload json.RawMessage) (any, error) {
			var req entity.NavigationRequest
			if err := decodePayload(payload, &req); err != nil {
				return nil, err
			}
			return svc.ExplainNavigation(req)
		},
	}

	for msgType, h := range commands {
		if err := r.RegisterCommand(msgType, h); err != nil {
			return err
		}
	}
	for msgType, h := range queries {
		if err := r.RegisterQuery(msgType, h); err != nil {
			return err
		}
	}
	return nil
}
