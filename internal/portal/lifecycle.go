package portal

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/limeos-org/portalwm/internal/bus"
	"github.com/limeos-org/portalwm/internal/geom"
	"github.com/limeos-org/portalwm/internal/protocol"
	"github.com/limeos-org/portalwm/internal/xutil"
)

// Lifecycle drives portal initialization, move/resize, synchronization
// and raising (spec.md §4.2/§4.3), grounded on the teacher's
// xwindow.Window reparenting helpers and marwind's frame/reparent
// sequence in wm-frame.go.
type Lifecycle struct {
	conn *xutil.Conn
	reg  *Registry
	bus  *bus.Bus

	// TiledFunc reports whether ref currently sits in a workspace's
	// tile order; injected by internal/workspace to avoid a portal ->
	// workspace import cycle (spec.md §4.2 ConfigureRequest policy,
	// §4.8 "tiled portals skip the accept-client-resize branch").
	TiledFunc func(Ref) bool
}

func NewLifecycle(conn *xutil.Conn, reg *Registry, b *bus.Bus) *Lifecycle {
	return &Lifecycle{conn: conn, reg: reg, bus: b, TiledFunc: func(Ref) bool { return false }}
}

// PortalInitializedEvent is fired once initialization completes.
type PortalInitializedEvent struct{ Ref Ref }

// Initialize performs first-map setup (spec.md §4.2 "Initialization").
func (l *Lifecycle) Initialize(ref Ref) error {
	p, ok := l.reg.Get(ref)
	if !ok || p.Initialized {
		return nil
	}

	p.Title = protocol.TitleGet(l.conn, p.ClientWindow)
	p.Class = protocol.ClassGet(l.conn, p.ClientWindow)
	if pid, ok := protocol.WmPidGet(l.conn, p.ClientWindow); ok {
		p.Pid = pid
	}

	parent, err := l.conn.Parent(p.ClientWindow)
	if err != nil {
		return err
	}
	attrs, err := l.conn.Attributes(p.ClientWindow)
	if err != nil {
		return err
	}
	p.OverrideRedirect = attrs.OverrideRedirect
	p.TopLevel = parent == l.conn.Root && !attrs.OverrideRedirect

	p.WindowType = protocol.WindowTypeGet(l.conn, p.ClientWindow)
	if tf, ok := protocol.TransientForGet(l.conn, p.ClientWindow); ok {
		if ref, ok := l.reg.FindByWindow(tf); ok {
			p.TransientFor = ref
		}
	}

	geo, err := l.conn.RawGeometry(p.ClientWindow)
	if err != nil {
		return err
	}
	rootX, rootY, err := l.conn.TranslateToRoot(p.ClientWindow, 0, 0)
	if err != nil {
		return err
	}

	framed := protocol.DecorationEligible(l.conn, p.ClientWindow, p.TopLevel)
	if framed {
		outer := geom.Rect{
			X: int(rootX), Y: int(rootY),
			Width: int(geo.Width), Height: int(geo.Height) + TitleBarHeight,
		}
		frame, err := l.conn.CreateFrame(int16(outer.X), int16(outer.Y),
			uint16(outer.Width), uint16(outer.Height), 0x222222)
		if err != nil {
			return err
		}
		if err := l.conn.Reparent(p.ClientWindow, frame, 0, TitleBarHeight); err != nil {
			return err
		}
		if err := protocol.FrameExtentsSet(l.conn, p.ClientWindow, 0, 0, TitleBarHeight, 0); err != nil {
			l.conn.Log.Debug().Err(err).Msg("frame extents set failed")
		}
		p.FrameWindow = frame
		p.Geometry = outer
	} else {
		p.Geometry = geom.Rect{X: int(rootX), Y: int(rootY), Width: int(geo.Width), Height: int(geo.Height)}
	}
	p.FloatingBackup = p.Geometry

	p.Initialized = true
	l.bus.Fire(bus.TagPortalInitialized, PortalInitializedEvent{Ref: ref})
	return nil
}

// PortalTransformedEvent is fired after any Move/Resize/MoveResize,
// whether interactively dragged or tiling-engine-driven; subscribers
// that only care about user-driven geometry (spec.md §4.8's floating
// backup) must track their own re-entrancy flag while repositioning.
type PortalTransformedEvent struct{ Ref Ref }

// clientRect returns the client-area rectangle for a framed portal's
// outer geometry, or the geometry itself if unframed.
func clientRect(p *Portal) geom.Rect {
	if !p.Framed() {
		return p.Geometry
	}
	r := p.Geometry
	return geom.Rect{X: r.X, Y: r.Y + TitleBarHeight, Width: r.Width, Height: maxInt(1, r.Height-TitleBarHeight)}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Move relocates the portal's outer window to (x, y) root-relative and
// sends the ICCCM synthetic ConfigureNotify for the client area
// (spec.md §4.2 "Move").
func (l *Lifecycle) Move(ref Ref, x, y int) error {
	p, ok := l.reg.Get(ref)
	if !ok {
		return nil
	}
	p.Geometry.X, p.Geometry.Y = x, y

	// The outer window (frame or unframed client) is always a direct
	// child of root, so ConfigureWindow's X/Y need no further
	// translation from the root-relative target.
	if err := l.conn.Move(p.OuterWindow(), int16(x), int16(y)); err != nil {
		return err
	}
	if err := l.notifyClientConfigure(p); err != nil {
		return err
	}
	l.bus.Fire(bus.TagPortalTransformed, PortalTransformedEvent{Ref: ref})
	return nil
}

// Resize changes the portal's outer size and, if framed, the client's
// inner size (spec.md §4.2 "Resize").
func (l *Lifecycle) Resize(ref Ref, w, h int) error {
	p, ok := l.reg.Get(ref)
	if !ok {
		return nil
	}
	p.Geometry.Width, p.Geometry.Height = w, h
	if err := l.conn.Resize(p.OuterWindow(), uint16(w), uint16(h)); err != nil {
		return err
	}
	if p.Framed() {
		if err := l.conn.Resize(p.ClientWindow, uint16(w), uint16(maxInt(1, h-TitleBarHeight))); err != nil {
			return err
		}
	}
	if err := l.notifyClientConfigure(p); err != nil {
		return err
	}
	l.bus.Fire(bus.TagPortalTransformed, PortalTransformedEvent{Ref: ref})
	return nil
}

// MoveResize repositions and resizes in one step.
func (l *Lifecycle) MoveResize(ref Ref, x, y, w, h int) error {
	p, ok := l.reg.Get(ref)
	if !ok {
		return nil
	}
	p.Geometry = geom.Rect{X: x, Y: y, Width: w, Height: h}
	if err := l.conn.MoveResize(p.OuterWindow(), int16(x), int16(y), uint16(w), uint16(h)); err != nil {
		return err
	}
	if p.Framed() {
		if err := l.conn.Resize(p.ClientWindow, uint16(w), uint16(maxInt(1, h-TitleBarHeight))); err != nil {
			return err
		}
	}
	if err := l.notifyClientConfigure(p); err != nil {
		return err
	}
	l.bus.Fire(bus.TagPortalTransformed, PortalTransformedEvent{Ref: ref})
	return nil
}

func (l *Lifecycle) notifyClientConfigure(p *Portal) error {
	cr := clientRect(p)
	return l.conn.SendConfigureNotify(p.ClientWindow, int16(cr.X), int16(cr.Y), uint16(cr.Width), uint16(cr.Height))
}

// Synchronize re-reads the client's actual geometry and root position
// and issues Move/Resize only on diff, skipping fullscreen portals
// (managed by internal/fullscreen), then recurses into the client's
// own child windows that are themselves portals (spec.md §4.2
// "Synchronize").
func (l *Lifecycle) Synchronize(ref Ref) error {
	p, ok := l.reg.Get(ref)
	if !ok || p.Fullscreen || !p.Initialized {
		return nil
	}
	geo, err := l.conn.RawGeometry(p.ClientWindow)
	if err != nil {
		return err
	}
	rootX, rootY, err := l.conn.TranslateToRoot(p.ClientWindow, 0, 0)
	if err != nil {
		return err
	}
	want := geom.Rect{X: int(rootX), Y: int(rootY), Width: int(geo.Width), Height: int(geo.Height)}
	if p.Framed() {
		want.Y -= TitleBarHeight
		want.Height += TitleBarHeight
	}
	if want != p.Geometry {
		if err := l.MoveResize(ref, want.X, want.Y, want.Width, want.Height); err != nil {
			return err
		}
	}
	children, err := l.conn.Children(p.ClientWindow)
	if err != nil {
		return nil
	}
	for _, w := range children {
		if childRef, ok := l.reg.FindByWindow(w); ok {
			if err := l.Synchronize(childRef); err != nil {
				return err
			}
		}
	}
	return nil
}

// ConfigureRequestPolicy applies spec.md §4.2's ConfigureRequest table.
func (l *Lifecycle) ConfigureRequestPolicy(win xproto.Window, mask uint16, values []uint32, width, height uint16) error {
	ref, ok := l.reg.FindByWindow(win)
	if !ok {
		return l.conn.ConfigurePassthrough(win, mask, values)
	}
	p, ok := l.reg.Get(ref)
	if !ok {
		return l.conn.ConfigurePassthrough(win, mask, values)
	}
	if !p.Framed() {
		return l.conn.ConfigurePassthrough(win, mask, values)
	}
	if l.TiledFunc(ref) {
		return nil
	}
	return l.Resize(ref, int(width), int(height))
}

// ConfigureNotifyEnforce implements spec.md §4.2's "ConfigureNotify
// enforcement": if a framed client moved itself inside its frame, pin
// it back to (0, TitleBarHeight) and flag misalignment for the
// compositor's split-render path this tick.
func (l *Lifecycle) ConfigureNotifyEnforce(ref Ref, x, y int16) error {
	p, ok := l.reg.Get(ref)
	if !ok || !p.Framed() {
		return nil
	}
	if x != 0 || y != TitleBarHeight {
		p.Misaligned = true
		return l.conn.Move(p.ClientWindow, 0, TitleBarHeight)
	}
	return nil
}

// PortalRaisedEvent is fired on Raise.
type PortalRaisedEvent struct{ Ref Ref }

// Raise brings ref's transient-root and the whole transient group to
// the top, preserving transient-above-root order (spec.md §4.3
// "Raise").
func (l *Lifecycle) Raise(ref Ref) error {
	root := l.reg.FindTransientRoot(ref)
	rp, ok := l.reg.Get(root)
	if !ok {
		return nil
	}
	if err := l.conn.Raise(rp.OuterWindow()); err != nil {
		return err
	}
	for _, other := range l.reg.GetUnsorted() {
		op, ok := l.reg.Get(other)
		if !ok || !op.Initialized || op.TransientFor.Zero() {
			continue
		}
		if l.reg.FindTransientRoot(other) != root {
			continue
		}
		if err := l.conn.Raise(op.OuterWindow()); err != nil {
			return err
		}
	}
	if err := l.reg.RebuildSorted(); err != nil {
		return err
	}
	l.bus.Fire(bus.TagPortalRaised, PortalRaisedEvent{Ref: ref})
	return nil
}

// Close sends WM_DELETE_WINDOW (or force-destroys) via the registry
// (spec.md §4.3 "Close").
func (l *Lifecycle) Close(ref Ref, t xproto.Timestamp) error {
	return l.reg.Destroy(ref, t)
}

// PortalFocusedEvent is fired on Focus.
type PortalFocusedEvent struct{ Ref Ref }

// Focus gives ref's client the input focus, raises it if it isn't
// already the topmost sorted portal, and fires PortalFocused (spec.md
// §4.6 step 3).
func (l *Lifecycle) Focus(ref Ref, t xproto.Timestamp) error {
	p, ok := l.reg.Get(ref)
	if !ok {
		return nil
	}
	if err := l.conn.SetInputFocus(p.ClientWindow, t); err != nil {
		return err
	}
	sorted := l.reg.GetSorted()
	isTop := len(sorted) > 0 && sorted[len(sorted)-1] == ref
	if !isTop {
		if err := l.Raise(ref); err != nil {
			return err
		}
	}
	l.bus.Fire(bus.TagPortalFocused, PortalFocusedEvent{Ref: ref})
	return nil
}
