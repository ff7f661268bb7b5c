package coordinator_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/webdock/internal/coordinator"
	"github.com/bnema/webdock/internal/domain/entity"
	"github.com/bnema/webdock/internal/infrastructure/clock"
)

type fired struct {
	mu  sync.Mutex
	ids []entity.WorkspaceID
}

func (f *fired) record(_ context.Context, id entity.WorkspaceID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
}

func (f *fired) get() []entity.WorkspaceID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.WorkspaceID(nil), f.ids...)
}

func TestHibernationScheduler_RescheduleReplacesTimer(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	var f fired
	s := coordinator.NewHibernationScheduler(c, f.record)

	s.Schedule(testContext(), "a", time.Minute)
	c.Advance(30 * time.Second)
	s.Schedule(testContext(), "a", time.Minute)
	assert.Equal(t, 1, c.Pending())

	c.Advance(45 * time.Second)
	assert.Empty(t, f.get(), "first timer was replaced")

	c.Advance(15 * time.Second)
	assert.Equal(t, []entity.WorkspaceID{"a"}, f.get())
	assert.False(t, s.Pending("a"))
}

func TestHibernationScheduler_CancelAndStop(t *testing.T) {
	c := clock.NewFake(time.Unix(0, 0))
	var f fired
	s := coordinator.NewHibernationScheduler(c, f.record)

	s.Schedule(testContext(), "a", time.Second)
	s.Schedule(testContext(), "b", time.Second)
	assert.True(t, s.Cancel("a"))
	assert.False(t, s.Cancel("a"))

	s.Stop()
	s.Schedule(testContext(), "c", time.Second)
	c.Advance(time.Minute)

	assert.Empty(t, f.get())
	assert.False(t, s.Pending("b"))
	assert.False(t, s.Pending("c"))
}

func hibernatingPrefs() entity.EffectivePreferences {
	prefs := defaultPrefs()
	prefs.HibernateUnused = true
	prefs.HibernationTimeout = time.Minute
	return prefs
}

func TestHibernation_ActivationBeforeTimeoutCancels(t *testing.T) {
	h := newHarness(t, hibernatingPrefs())
	a := h.create(t, entity.WorkspacePatch{HomeURL: entity.Ptr("https://mail.example.com")})
	b := h.create(t, entity.WorkspacePatch{HomeURL: entity.Ptr("https://chat.example.org")})
	fa := h.contextOf(t, a.ID)

	require.NoError(t, h.comps.Coordinator.SetActive(h.ctx, b.ID))
	assert.True(t, h.comps.Views.Hibernation().Pending(a.ID))

	h.clock.Advance(30 * time.Second)
	require.NoError(t, h.comps.Coordinator.SetActive(h.ctx, a.ID))
	assert.False(t, h.comps.Views.Hibernation().Pending(a.ID))
	assert.True(t, h.comps.Views.Hibernation().Pending(b.ID))

	h.clock.Advance(2 * time.Minute)

	assert.False(t, fa.Destroyed())
	assert.True(t, h.comps.Views.Live(a.ID))
	assert.False(t, h.workspace(t, a.ID).Hibernated)

	assert.False(t, h.comps.Views.Live(b.ID))
	assert.True(t, h.workspace(t, b.ID).Hibernated)
}

func TestHibernation_PerWorkspaceFlag(t *testing.T) {
	h := newHarness(t, defaultPrefs())
	a := h.create(t, entity.WorkspacePatch{HomeURL: entity.Ptr("https://mail.example.com"), HibernateWhenUnused: entity.Ptr(true)})
	b := h.create(t, entity.WorkspacePatch{HomeURL: entity.Ptr("https://chat.example.org")})

	require.NoError(t, h.comps.Coordinator.SetActive(h.ctx, b.ID))
	assert.True(t, h.comps.Views.Hibernation().Pending(a.ID))

	require.NoError(t, h.comps.Coordinator.SetActive(h.ctx, a.ID))
	assert.False(t, h.comps.Views.Hibernation().Pending(b.ID), "global policy is off")
}

func TestHibernation_FireRechecksActive(t *testing.T) {
	h := newHarness(t, defaultPrefs())
	a := h.create(t, entity.WorkspacePatch{HomeURL: entity.Ptr("https://mail.example.com")})

	h.comps.Views.Hibernation().Schedule(h.ctx, a.ID, 0)
	h.clock.Advance(0)

	assert.True(t, h.comps.Views.Live(a.ID))
	assert.False(t, h.workspace(t, a.ID).Hibernated)
}

func TestCoordinator_HibernateAndWake(t *testing.T) {
	h := newHarness(t, defaultPrefs())
	a := h.create(t, entity.WorkspacePatch{HomeURL: entity.Ptr("https://mail.example.com")})
	b := h.create(t, entity.WorkspacePatch{HomeURL: entity.Ptr("https://chat.example.org")})

	err := h.comps.Coordinator.Hibernate(h.ctx, a.ID)
	assert.ErrorIs(t, err, coordinator.ErrWorkspaceActive)

	require.NoError(t, h.comps.Coordinator.Hibernate(h.ctx, b.ID))
	assert.False(t, h.comps.Views.Live(b.ID))
	assert.True(t, h.workspace(t, b.ID).Hibernated)

	require.NoError(t, h.comps.Coordinator.Wake(h.ctx, b.ID))
	assert.True(t, h.comps.Views.Live(b.ID))
	assert.False(t, h.workspace(t, b.ID).Hibernated)
	assert.Equal(t, []string{"https://chat.example.org"}, h.contextOf(t, b.ID).Loads())

	var flags []bool
	for _, e := range h.events.Events(entity.EventWorkspaceUpdated) {
		if e.WorkspaceID == b.ID {
			flags = append(flags, e.Workspace.Hibernated)
		}
	}
	assert.Contains(t, flags, true)
	assert.Equal(t, false, flags[len(flags)-1])
}
