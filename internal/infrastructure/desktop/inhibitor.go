package desktop

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/bnema/webdock/internal/application/port"
	"github.com/bnema/webdock/internal/logging"
)

const (
	inhibitIface = "org.freedesktop.portal.Inhibit"

	// Inhibit flags from the portal API.
	flagSuspend = 4
	flagIdle    = 8
)

// SuspendInhibitor blocks suspend through the Inhibit portal while
// at least one caller holds it. Without a portal every call is a no-op.
type SuspendInhibitor struct {
	portal *Portal

	mu              sync.Mutex
	refcount        int
	requestPath     dbus.ObjectPath
	requestComplete bool
}

// NewSuspendInhibitor creates an inhibitor backed by portal.
func NewSuspendInhibitor(portal *Portal) *SuspendInhibitor {
	return &SuspendInhibitor{portal: portal}
}

// Inhibit increments the refcount. The first call asks the portal.
func (s *SuspendInhibitor) Inhibit(ctx context.Context, reason string) error {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refcount++
	if s.refcount > 1 {
		return nil
	}
	if s.portal == nil || !s.portal.supports(ctx, inhibitIface) {
		log.Debug().Msg("suspend inhibitor: portal not available, skipping")
		return nil
	}

	conn := s.portal.connection(ctx)
	var handle dbus.ObjectPath
	err := conn.Object(portalDest, portalPath).CallWithContext(ctx, inhibitIface+".Inhibit", 0,
		"",
		uint32(flagIdle|flagSuspend),
		map[string]dbus.Variant{"reason": dbus.MakeVariant(reason)},
	).Store(&handle)
	if err != nil {
		s.refcount--
		log.Warn().Err(err).Msg("suspend inhibitor: failed to inhibit")
		return fmt.Errorf("portal inhibit: %w", err)
	}

	s.requestPath = handle
	s.requestComplete = false
	go s.watchForResponse(context.WithoutCancel(ctx), conn, handle)

	log.Info().Str("handle", string(handle)).Str("reason", reason).Msg("suspend inhibitor: activated")
	return nil
}

// watchForResponse notes when the portal completes the request itself,
// after which the Request object no longer exists and must not be closed.
func (s *SuspendInhibitor) watchForResponse(ctx context.Context, conn *dbus.Conn, handle dbus.ObjectPath) {
	matchRule := fmt.Sprintf("type='signal',interface='%s',member='Response',path='%s'", requestIface, handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, matchRule).Err; err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("suspend inhibitor: failed to add signal match")
		return
	}

	signals := make(chan *dbus.Signal, 1)
	conn.Signal(signals)
	defer func() {
		conn.RemoveSignal(signals)
		_ = conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, matchRule).Err
	}()

	for sig := range signals {
		if sig.Path != handle || sig.Name != requestIface+".Response" {
			continue
		}
		s.mu.Lock()
		if s.requestPath == handle {
			s.requestComplete = true
		}
		s.mu.Unlock()
		return
	}
}

// Uninhibit decrements the refcount and releases the portal request at zero.
func (s *SuspendInhibitor) Uninhibit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refcount <= 0 {
		return nil
	}
	s.refcount--
	if s.refcount > 0 || s.requestPath == "" {
		return nil
	}

	if !s.requestComplete {
		if conn := s.portal.connection(ctx); conn != nil {
			_ = conn.Object(portalDest, s.requestPath).Call(requestIface+".Close", 0).Err
		}
	}
	logging.FromContext(ctx).Info().Msg("suspend inhibitor: deactivated")
	s.requestPath = ""
	s.requestComplete = false
	return nil
}

// Active reports whether anyone holds the inhibitor.
func (s *SuspendInhibitor) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refcount > 0
}

var _ port.SuspendInhibitor = (*SuspendInhibitor)(nil)
