package desktop

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/bnema/webdock/internal/logging"
)

const (
	launcherIface  = "com.canonical.Unity.LauncherEntry"
	launcherPrefix = "/com/canonical/unity/launcherentry/"
)

// LauncherBadge shows the unread count and download progress on the dock
// icon through the LauncherEntry signal understood by most docks.
type LauncherBadge struct {
	ctx    context.Context
	portal *Portal
	appURI string

	mu       sync.Mutex
	count    int
	progress float64
}

// NewLauncherBadge creates a badge for the given desktop file id,
// e.g. "webdock.desktop".
func NewLauncherBadge(ctx context.Context, portal *Portal, desktopID string) *LauncherBadge {
	return &LauncherBadge{
		ctx:      ctx,
		portal:   portal,
		appURI:   "application://" + desktopID,
		progress: -1,
	}
}

// SetBadge sets the count. Zero hides it.
func (l *LauncherBadge) SetBadge(count int) {
	l.mu.Lock()
	l.count = count
	props := l.propertiesLocked()
	l.mu.Unlock()
	l.emit(props)
}

// SetProgress sets the progress in [0,1]. A negative value hides it.
func (l *LauncherBadge) SetProgress(progress float64) {
	l.mu.Lock()
	l.progress = progress
	props := l.propertiesLocked()
	l.mu.Unlock()
	l.emit(props)
}

func (l *LauncherBadge) propertiesLocked() map[string]dbus.Variant {
	return launcherProperties(l.count, l.progress)
}

func launcherProperties(count int, progress float64) map[string]dbus.Variant {
	if count < 0 {
		count = 0
	}
	props := map[string]dbus.Variant{
		"count":            dbus.MakeVariant(int64(count)),
		"count-visible":    dbus.MakeVariant(count > 0),
		"progress-visible": dbus.MakeVariant(progress >= 0),
	}
	if progress >= 0 {
		if progress > 1 {
			progress = 1
		}
		props["progress"] = dbus.MakeVariant(progress)
	}
	return props
}

func (l *LauncherBadge) objectPath() dbus.ObjectPath {
	h := fnv.New64a()
	_, _ = h.Write([]byte(l.appURI))
	return dbus.ObjectPath(launcherPrefix + strconv.FormatUint(h.Sum64(), 10))
}

func (l *LauncherBadge) emit(props map[string]dbus.Variant) {
	if l.portal == nil {
		return
	}
	conn := l.portal.connection(l.ctx)
	if conn == nil {
		return
	}
	if err := conn.Emit(l.objectPath(), launcherIface+".Update", l.appURI, props); err != nil {
		logging.FromContext(l.ctx).Debug().Err(err).Msg("launcher entry update failed")
	}
}
