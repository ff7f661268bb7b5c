package desktop

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/godbus/dbus/v5"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/logging"
)

const openURIIface = "org.freedesktop.portal.OpenURI"

// Opener opens URLs in the default browser. It prefers the OpenURI portal
// and falls back to xdg-open when no portal answers.
type Opener struct {
	portal     *Portal
	xdgOpen    string
	runCommand func(ctx context.Context, name string, args ...string) error
}

// NewOpener creates an external URL opener.
func NewOpener(portal *Portal) *Opener {
	o := &Opener{
		portal: portal,
		runCommand: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Start()
		},
	}
	if path, err := exec.LookPath("xdg-open"); err == nil {
		o.xdgOpen = path
	}
	return o
}

// OpenExternal implements port.ExternalOpener.
func (o *Opener) OpenExternal(ctx context.Context, url string) error {
	log := logging.FromContext(ctx).With().Str("url", logging.TruncateURL(url, 80)).Logger()

	if o.portal != nil && o.portal.supports(ctx, openURIIface) {
		// OpenURI(parent_window: s, uri: s, options: a{sv}) -> handle: o
		var handle dbus.ObjectPath
		err := o.portal.connection(ctx).Object(portalDest, portalPath).
			CallWithContext(ctx, openURIIface+".OpenURI", 0, "", url, map[string]dbus.Variant{}).
			Store(&handle)
		if err == nil {
			log.Debug().Str("handle", string(handle)).Msg("opened externally via portal")
			return nil
		}
		log.Debug().Err(err).Msg("portal OpenURI failed, trying xdg-open")
	}

	if o.xdgOpen == "" {
		return fmt.Errorf("no way to open %s externally: portal unavailable and xdg-open not found", url)
	}
	if err := o.runCommand(ctx, o.xdgOpen, url); err != nil {
		return fmt.Errorf("xdg-open: %w", err)
	}
	log.Debug().Msg("opened externally via xdg-open")
	return nil
}

var _ port.ExternalOpener = (*Opener)(nil)
