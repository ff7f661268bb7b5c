package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mock_port "github.com/bnema/webdock/internal/application/port/mocks"
	"github.com/bnema/webdock/internal/application/usecase"
	"github.com/bnema/webdock/internal/domain/entity"
)

func TestClearBrowsingData_AllWorkspaces(t *testing.T) {
	store, _ := seededStore(t, "", threeWorkspaces()...)
	parts := &fakePartitions{}
	uc := usecase.NewClearBrowsingDataUseCase(parts, store, &mock_port.StaticPreferences{})

	wiped, err := uc.Execute(testContext(), nil)
	require.NoError(t, err)
	assert.Len(t, wiped, 3)
	assert.Equal(t, []string{"persist:a", "persist:b", "persist:c"}, parts.Wiped())
}

func TestClearBrowsingData_SharedPartitionWipedOnce(t *testing.T) {
	store, _ := seededStore(t, "", threeWorkspaces()...)
	parts := &fakePartitions{}
	prefs := &mock_port.StaticPreferences{Prefs: entity.EffectivePreferences{ShareBrowsingData: true}}
	uc := usecase.NewClearBrowsingDataUseCase(parts, store, prefs)

	wiped, err := uc.Execute(testContext(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"persist:shared"}, wiped)
}

func TestClearBrowsingData_CollectsEveryFailure(t *testing.T) {
	store, _ := seededStore(t, "", threeWorkspaces()...)
	parts := &fakePartitions{failFor: map[string]bool{"persist:a": true, "persist:c": true}}
	uc := usecase.NewClearBrowsingDataUseCase(parts, store, &mock_port.StaticPreferences{})

	wiped, err := uc.Execute(testContext(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist:a")
	assert.Contains(t, err.Error(), "persist:c")
	assert.Equal(t, []string{"persist:b"}, wiped)
}

func TestClearBrowsingData_UnknownWorkspace(t *testing.T) {
	store, _ := seededStore(t, "", threeWorkspaces()...)
	uc := usecase.NewClearBrowsingDataUseCase(&fakePartitions{}, store, &mock_port.StaticPreferences{})

	_, err := uc.Execute(testContext(), []entity.WorkspaceID{"b", "zzz"})
	assert.ErrorIs(t, err, usecase.ErrWorkspaceNotFound)
}
