// Package fullscreen implements the fullscreen engine (C9): geometry
// backup/restore, direct compositor redirect of the client, and the
// _NET_WM_STATE_FULLSCREEN round-trip (spec.md §4.7). Grounded on the
// teacher's xwindow reparent/geometry helpers plus
// github.com/BurntSushi/xgb/composite for the manual redirect, the
// same extension FocusStreamer's window-manager.go uses for capture.
package fullscreen

import (
	"github.com/BurntSushi/xgb/composite"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/limeos-org/portalwm/internal/bus"
	"github.com/limeos-org/portalwm/internal/portal"
	"github.com/limeos-org/portalwm/internal/protocol"
	"github.com/limeos-org/portalwm/internal/xutil"
)

// Engine owns fullscreen enter/exit transitions.
type Engine struct {
	conn *xutil.Conn
	reg  *portal.Registry
	lc   *portal.Lifecycle
	bus  *bus.Bus
}

func NewEngine(conn *xutil.Conn, reg *portal.Registry, lc *portal.Lifecycle, b *bus.Bus) *Engine {
	e := &Engine{conn: conn, reg: reg, lc: lc, bus: b}
	b.On(bus.TagPortalInitialized, e.onInitialized)
	return e
}

// onInitialized enters fullscreen immediately if _NET_WM_STATE already
// lists it at adoption/first-map time (spec.md §4.7).
func (e *Engine) onInitialized(ev bus.Event) {
	ie := ev.(portal.PortalInitializedEvent)
	p, ok := e.reg.Get(ie.Ref)
	if !ok {
		return
	}
	if protocol.StateHas(e.conn, p.ClientWindow, protocol.StateFullscreen) {
		e.Enter(ie.Ref)
	}
}

// Enter backs up geometry, redirects the client so it is reachable
// independent of its frame, and expands the portal to fill the screen
// (spec.md §4.7 "enter").
func (e *Engine) Enter(ref portal.Ref) error {
	p, ok := e.reg.Get(ref)
	if !ok || p.Fullscreen {
		return nil
	}
	p.GeometryBackup = p.Geometry

	if err := e.conn.GrabServer(); err != nil {
		return err
	}
	err := composite.RedirectWindowChecked(e.conn.X, p.ClientWindow, composite.RedirectManual).Check()
	if err != nil {
		e.conn.Log.Debug().Err(err).Msg("composite redirect (enter) failed")
	}

	screen := e.conn.Screen
	w, h := int(screen.WidthInPixels), int(screen.HeightInPixels)
	if moveErr := e.lc.MoveResize(ref, 0, 0, w, h); moveErr != nil {
		e.conn.UngrabServer()
		return moveErr
	}
	if err := protocol.FrameExtentsSet(e.conn, p.ClientWindow, 0, 0, 0, 0); err != nil {
		e.conn.Log.Debug().Err(err).Msg("frame extents zero failed")
	}
	if err := protocol.StateAdd(e.conn, p.ClientWindow, protocol.StateFullscreen); err != nil {
		e.conn.Log.Debug().Err(err).Msg("state add fullscreen failed")
	}
	if err := e.lc.Raise(ref); err != nil {
		e.conn.Log.Debug().Err(err).Msg("raise fullscreen portal failed")
	}
	if err := e.conn.UngrabServer(); err != nil {
		return err
	}

	p.Fullscreen = true
	return nil
}

// Exit reverses Enter from the backed-up geometry (spec.md §4.7 "exit").
func (e *Engine) Exit(ref portal.Ref) error {
	p, ok := e.reg.Get(ref)
	if !ok || !p.Fullscreen {
		return nil
	}
	backup := p.GeometryBackup

	if err := e.conn.GrabServer(); err != nil {
		return err
	}
	err := composite.UnredirectWindowChecked(e.conn.X, p.ClientWindow, composite.RedirectManual).Check()
	if err != nil {
		e.conn.Log.Debug().Err(err).Msg("composite unredirect (exit) failed")
	}
	if moveErr := e.lc.MoveResize(ref, backup.X, backup.Y, backup.Width, backup.Height); moveErr != nil {
		e.conn.UngrabServer()
		return moveErr
	}
	if p.Framed() {
		if err := protocol.FrameExtentsSet(e.conn, p.ClientWindow, 0, 0, portal.TitleBarHeight, 0); err != nil {
			e.conn.Log.Debug().Err(err).Msg("frame extents restore failed")
		}
	}
	if err := protocol.StateRemove(e.conn, p.ClientWindow, protocol.StateFullscreen); err != nil {
		e.conn.Log.Debug().Err(err).Msg("state remove fullscreen failed")
	}
	if err := e.conn.UngrabServer(); err != nil {
		return err
	}

	p.Fullscreen = false
	return nil
}

// Toggle applies a _NET_WM_STATE client-message action (0=remove,
// 1=add, 2=toggle) to the fullscreen state of ref, per spec.md §4.7
// "Toggled via _NET_WM_STATE client messages".
func (e *Engine) Toggle(ref portal.Ref, action uint32) error {
	p, ok := e.reg.Get(ref)
	if !ok {
		return nil
	}
	switch action {
	case protocol.StateActionAdd:
		return e.Enter(ref)
	case protocol.StateActionRemove:
		return e.Exit(ref)
	case protocol.StateActionToggle:
		if p.Fullscreen {
			return e.Exit(ref)
		}
		return e.Enter(ref)
	}
	return nil
}

// HandleNetWMState parses a _NET_WM_STATE client message's two atom
// slots and applies Toggle if either names the fullscreen atom
// (spec.md §4.7, §6).
func (e *Engine) HandleNetWMState(win xproto.Window, action uint32, first, second xproto.Atom) {
	ref, ok := e.reg.FindByWindow(win)
	if !ok {
		return
	}
	fsAtom, err := e.conn.Atom("_NET_WM_STATE_FULLSCREEN")
	if err != nil {
		return
	}
	if first == fsAtom || second == fsAtom {
		if err := e.Toggle(ref, action); err != nil {
			e.conn.Log.Debug().Err(err).Msg("fullscreen toggle failed")
		}
	}
}
