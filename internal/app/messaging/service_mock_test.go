package messaging_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/webdock/internal/domain/entity"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Create(ctx context.Context, patch entity.WorkspacePatch) (*entity.Workspace, error) {
	args := m.Called(ctx, patch)
	ws, _ := args.Get(0).(*entity.Workspace)
	return ws, args.Error(1)
}

func (m *mockService) Remove(ctx context.Context, id entity.WorkspaceID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) SetActive(ctx context.Context, id entity.WorkspaceID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) Next(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockService) Previous(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockService) Reorder(ctx context.Context, ids []entity.WorkspaceID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *mockService) Move(ctx context.Context, id entity.WorkspaceID, position int) error {
	return m.Called(ctx, id, position).Error(0)
}

func (m *mockService) SetField(ctx context.Context, id entity.WorkspaceID, patch entity.WorkspacePatch) (*entity.Workspace, error) {
	args := m.Called(ctx, id, patch)
	ws, _ := args.Get(0).(*entity.Workspace)
	return ws, args.Error(1)
}

func (m *mockService) Hibernate(ctx context.Context, id entity.WorkspaceID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) Wake(ctx context.Context, id entity.WorkspaceID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) ClearBrowsingData(ctx context.Context, ids []entity.WorkspaceID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *mockService) LoadURL(ctx context.Context, id entity.WorkspaceID, url string, force bool) (entity.NavigationDecision, error) {
	args := m.Called(ctx, id, url, force)
	return args.Get(0).(entity.NavigationDecision), args.Error(1)
}

func (m *mockService) FindInPage(text string, forward bool) error {
	return m.Called(text, forward).Error(0)
}

func (m *mockService) Workspaces() []*entity.Workspace {
	ws, _ := m.Called().Get(0).([]*entity.Workspace)
	return ws
}

func (m *mockService) Workspace(id entity.WorkspaceID) (*entity.Workspace, error) {
	args := m.Called(id)
	ws, _ := args.Get(0).(*entity.Workspace)
	return ws, args.Error(1)
}

func (m *mockService) Meta(id entity.WorkspaceID) entity.WorkspaceMeta {
	return m.Called(id).Get(0).(entity.WorkspaceMeta)
}

func (m *mockService) Metas() map[entity.WorkspaceID]entity.WorkspaceMeta {
	metas, _ := m.Called().Get(0).(map[entity.WorkspaceID]entity.WorkspaceMeta)
	return metas
}

func (m *mockService) BadgeTotal() int {
	return m.Called().Int(0)
}

func (m *mockService) ExplainNavigation(req entity.NavigationRequest) (entity.NavigationDecision, error) {
	args := m.Called(req)
	return args.Get(0).(entity.NavigationDecision), args.Error(1)
}
