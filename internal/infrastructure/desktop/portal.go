// Package desktop integrates with the Linux desktop through the XDG Desktop Portal.
package desktop

import (
	"context"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/bnema/webdock/internal/logging"
)

const (
	portalDest   = "org.freedesktop.portal.Desktop"
	portalPath   = "/org/freedesktop/portal/desktop"
	requestIface = "org.freedesktop.portal.Request"
	propsGet     = "org.freedesktop.DBus.Properties.Get"
)

// Portal is a lazily shared session bus connection.
// A nil connection means the portal is unavailable and callers degrade.
type Portal struct {
	once sync.Once
	conn *dbus.Conn
}

// NewPortal returns a portal handle. The bus is dialed on first use.
func NewPortal() *Portal {
	return &Portal{}
}

func (p *Portal) connection(ctx context.Context) *dbus.Conn {
	p.once.Do(func() {
		conn, err := dbus.ConnectSessionBus()
		if err != nil {
			logging.FromContext(ctx).Debug().Err(err).Msg("portal: cannot connect to D-Bus session bus")
			return
		}
		p.conn = conn
	})
	return p.conn
}

// supports reports whether the portal exposes iface.
func (p *Portal) supports(ctx context.Context, iface string) bool {
	conn := p.connection(ctx)
	if conn == nil {
		return false
	}
	var version uint32
	err := conn.Object(portalDest, portalPath).
		CallWithContext(ctx, propsGet, 0, iface, "version").
		Store(&version)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Str("interface", iface).Msg("portal: interface not available")
		return false
	}
	return true
}

// Close releases the bus connection.
func (p *Portal) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}
