package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/webdock/internal/application/usecase"
	"github.com/bnema/webdock/internal/domain/entity"
	repomocks "github.com/bnema/webdock/internal/domain/repository/mocks"
)

func seededStore(t *testing.T, defaultURL string, existing ...*entity.Workspace) (*usecase.ManageWorkspacesUseCase, *repomocks.MockWorkspaceRepository) {
	t.Helper()
	repo := repomocks.NewMockWorkspaceRepository(t)
	repo.EXPECT().FindAll(mock.Anything).Return(existing, nil).Once()

	uc, err := usecase.NewManageWorkspacesUseCase(testContext(), repo, func() string { return defaultURL })
	require.NoError(t, err)
	return uc, repo
}

func threeWorkspaces() []*entity.Workspace {
	return []*entity.Workspace{
		{ID: "c", Order: 7},
		{ID: "a", Order: 0, Active: true},
		{ID: "b", Order: 3},
	}
}

func TestManageWorkspaces_LoadSortsByOrder(t *testing.T) {
	uc, _ := seededStore(t, "", threeWorkspaces()...)

	list := uc.List()
	require.Len(t, list, 3)
	assert.Equal(t, entity.WorkspaceID("a"), list[0].ID)
	assert.Equal(t, entity.WorkspaceID("b"), list[1].ID)
	assert.Equal(t, entity.WorkspaceID("c"), list[2].ID)
}

func TestManageWorkspaces_LoadFailure(t *testing.T) {
	repo := repomocks.NewMockWorkspaceRepository(t)
	repo.EXPECT().FindAll(mock.Anything).Return(nil, errors.New("disk gone"))

	_, err := usecase.NewManageWorkspacesUseCase(testContext(), repo, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load workspaces")
}

func TestManageWorkspaces_CreateAssignsIDAndOrder(t *testing.T) {
	ctx := testContext()
	uc, repo := seededStore(t, "", threeWorkspaces()...)

	repo.EXPECT().Save(mock.Anything, mock.AnythingOfType("*entity.Workspace")).
		Run(func(_ context.Context, ws *entity.Workspace) {
			assert.Equal(t, 8, ws.Order)
			assert.NotEmpty(t, ws.ID)
			assert.False(t, ws.Active)
		}).
		Return(nil)

	ws, err := uc.Create(ctx, entity.WorkspacePatch{Name: entity.Ptr("Mail"), HomeURL: entity.Ptr("https://mail.example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Mail", ws.Name)
	assert.Equal(t, 8, ws.Order)
	assert.False(t, ws.CreatedAt.IsZero())

	list := uc.List()
	assert.Equal(t, ws.ID, list[len(list)-1].ID)
}

func TestManageWorkspaces_CreateFirstWorkspace(t *testing.T) {
	t.Run("auto-activates with a default url", func(t *testing.T) {
		uc, repo := seededStore(t, "https://start.example.com")
		repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Twice()

		first, err := uc.Create(testContext(), entity.WorkspacePatch{})
		require.NoError(t, err)
		assert.True(t, first.Active)
		assert.Equal(t, 0, first.Order)

		second, err := uc.Create(testContext(), entity.WorkspacePatch{})
		require.NoError(t, err)
		assert.False(t, second.Active)
		assert.Equal(t, 1, second.Order)
	})

	t.Run("stays inactive without a default url", func(t *testing.T) {
		uc, repo := seededStore(t, "")
		repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil)

		ws, err := uc.Create(testContext(), entity.WorkspacePatch{})
		require.NoError(t, err)
		assert.False(t, ws.Active)
		assert.Nil(t, uc.Active())
	})
}

func TestManageWorkspaces_CreateRejectsInvalidAndKeepsState(t *testing.T) {
	uc, _ := seededStore(t, "")

	_, err := uc.Create(testContext(), entity.WorkspacePatch{HomeURL: entity.Ptr("not a url")})
	require.ErrorIs(t, err, entity.ErrInvalidWorkspace)
	assert.Empty(t, uc.List())
}

func TestManageWorkspaces_CreateRepoFailureLeavesNoTrace(t *testing.T) {
	uc, repo := seededStore(t, "https://start.example.com")
	repo.EXPECT().Save(mock.Anything, mock.Anything).Return(errors.New("locked"))

	_, err := uc.Create(testContext(), entity.WorkspacePatch{})
	require.Error(t, err)
	assert.Empty(t, uc.List())
}

func TestManageWorkspaces_GetReturnsCopy(t *testing.T) {
	uc, _ := seededStore(t, "", threeWorkspaces()...)

	ws, err := uc.Get("b")
	require.NoError(t, err)
	ws.Name = "mutated"

	again, err := uc.Get("b")
	require.NoError(t, err)
	assert.Empty(t, again.Name)

	_, err = uc.Get("missing")
	assert.ErrorIs(t, err, usecase.ErrWorkspaceNotFound)
}

func TestManageWorkspaces_Update(t *testing.T) {
	ctx := testContext()
	uc, repo := seededStore(t, "", threeWorkspaces()...)

	repo.EXPECT().Save(mock.Anything, mock.MatchedBy(func(ws *entity.Workspace) bool {
		return ws.ID == "b" && ws.DisableAudio && ws.Order == 3
	})).Return(nil)

	ws, err := uc.Update(ctx, "b", entity.WorkspacePatch{DisableAudio: entity.Ptr(true)})
	require.NoError(t, err)
	assert.True(t, ws.DisableAudio)

	// Empty patch does not touch the repository.
	_, err = uc.Update(ctx, "b", entity.WorkspacePatch{})
	require.NoError(t, err)

	_, err = uc.Update(ctx, "zzz", entity.WorkspacePatch{Name: entity.Ptr("x")})
	assert.ErrorIs(t, err, usecase.ErrWorkspaceNotFound)
}

func TestManageWorkspaces_UpdateFailureKeepsPreviousValue(t *testing.T) {
	uc, repo := seededStore(t, "", threeWorkspaces()...)
	repo.EXPECT().Save(mock.Anything, mock.Anything).Return(errors.New("io"))

	_, err := uc.Update(testContext(), "b", entity.WorkspacePatch{Name: entity.Ptr("new")})
	require.Error(t, err)

	ws, err := uc.Get("b")
	require.NoError(t, err)
	assert.Empty(t, ws.Name)
}

func TestManageWorkspaces_RemoveDoesNotReactivate(t *testing.T) {
	uc, repo := seededStore(t, "", threeWorkspaces()...)
	repo.EXPECT().Delete(mock.Anything, entity.WorkspaceID("a")).Return(nil)

	require.NoError(t, uc.Remove(testContext(), "a"))
	assert.Nil(t, uc.Active())
	assert.Len(t, uc.List(), 2)

	assert.ErrorIs(t, uc.Remove(testContext(), "a"), usecase.ErrWorkspaceNotFound)
}

func TestManageWorkspaces_SetActiveKeepsSingleActive(t *testing.T) {
	ctx := testContext()
	uc, repo := seededStore(t, "", threeWorkspaces()...)

	repo.EXPECT().SaveAll(mock.Anything, mock.MatchedBy(func(ws []*entity.Workspace) bool {
		return len(ws) == 2 &&
			ws[0].ID == "a" && !ws[0].Active &&
			ws[1].ID == "c" && ws[1].Active
	})).Return(nil)

	previous, err := uc.SetActive(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, entity.WorkspaceID("a"), previous)

	active := 0
	for _, ws := range uc.List() {
		if ws.Active {
			active++
			assert.Equal(t, entity.WorkspaceID("c"), ws.ID)
		}
	}
	assert.Equal(t, 1, active)

	// Already active: no write.
	previous, err = uc.SetActive(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, entity.WorkspaceID("c"), previous)
}

func TestManageWorkspaces_SetActiveFailureKeepsState(t *testing.T) {
	uc, repo := seededStore(t, "", threeWorkspaces()...)
	repo.EXPECT().SaveAll(mock.Anything, mock.Anything).Return(errors.New("constraint"))

	_, err := uc.SetActive(testContext(), "b")
	require.Error(t, err)
	assert.Equal(t, entity.WorkspaceID("a"), uc.Active().ID)

	_, err = uc.SetActive(testContext(), "nope")
	assert.ErrorIs(t, err, usecase.ErrWorkspaceNotFound)
}

func TestManageWorkspaces_NextPreviousCycle(t *testing.T) {
	uc, _ := seededStore(t, "", threeWorkspaces()...)

	for _, id := range []entity.WorkspaceID{"a", "b", "c"} {
		next, err := uc.Next(id)
		require.NoError(t, err)
		back, err := uc.Previous(next.ID)
		require.NoError(t, err)
		assert.Equal(t, id, back.ID)

		prev, err := uc.Previous(id)
		require.NoError(t, err)
		fwd, err := uc.Next(prev.ID)
		require.NoError(t, err)
		assert.Equal(t, id, fwd.ID)
	}

	next, err := uc.Next("c")
	require.NoError(t, err)
	assert.Equal(t, entity.WorkspaceID("a"), next.ID)

	prev, err := uc.Previous("a")
	require.NoError(t, err)
	assert.Equal(t, entity.WorkspaceID("c"), prev.ID)
}

func TestManageWorkspaces_NextPreviousSingle(t *testing.T) {
	uc, _ := seededStore(t, "", &entity.Workspace{ID: "only", Order: 4})

	next, err := uc.Next("only")
	require.NoError(t, err)
	assert.Equal(t, entity.WorkspaceID("only"), next.ID)

	prev, err := uc.Previous("only")
	require.NoError(t, err)
	assert.Equal(t, entity.WorkspaceID("only"), prev.ID)

	_, err = uc.Next("missing")
	assert.ErrorIs(t, err, usecase.ErrWorkspaceNotFound)
}

func TestManageWorkspaces_Reorder(t *testing.T) {
	ctx := testContext()
	uc, repo := seededStore(t, "", threeWorkspaces()...)

	repo.EXPECT().SaveAll(mock.Anything, mock.MatchedBy(func(ws []*entity.Workspace) bool {
		// c:7->0, a:0->1, b:3->2
		return len(ws) == 3
	})).Return(nil)

	require.NoError(t, uc.Reorder(ctx, []entity.WorkspaceID{"c", "a"}))

	list := uc.List()
	assert.Equal(t, []entity.WorkspaceID{"c", "a", "b"}, []entity.WorkspaceID{list[0].ID, list[1].ID, list[2].ID})
	assert.Equal(t, []int{0, 1, 2}, []int{list[0].Order, list[1].Order, list[2].Order})

	assert.ErrorIs(t, uc.Reorder(ctx, []entity.WorkspaceID{"x"}), usecase.ErrWorkspaceNotFound)
}

func TestManageWorkspaces_Move(t *testing.T) {
	uc, repo := seededStore(t, "", threeWorkspaces()...)
	repo.EXPECT().SaveAll(mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, uc.Move(testContext(), "a", 10))

	list := uc.List()
	assert.Equal(t, entity.WorkspaceID("b"), list[0].ID)
	assert.Equal(t, entity.WorkspaceID("c"), list[1].ID)
	assert.Equal(t, entity.WorkspaceID("a"), list[2].ID)
}
