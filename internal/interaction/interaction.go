// Package interaction implements the single pointer dispatcher (C7):
// focus-on-click, drag and resize state machines, per-tick throttling,
// and hover-cursor hints via the marker deck. Grounded on the
// teacher's mousebind package (button/drag callback tables) and on
// marwind's direct ButtonPress/MotionNotify handling, since this core
// substitutes core pointer events for XInput2 raw events (see
// SPEC_FULL.md's XInput2 substitution note).
package interaction

import (
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/limeos-org/portalwm/internal/bus"
	"github.com/limeos-org/portalwm/internal/marker"
	"github.com/limeos-org/portalwm/internal/portal"
	"github.com/limeos-org/portalwm/internal/protocol"
	"github.com/limeos-org/portalwm/internal/xutil"
)

// Trigger names a decoration hit-test target (spec.md §4.6 step 4).
type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerClose
	TriggerArrange
	TriggerResize
	TriggerFrame
)

// HitTester answers decoration hit tests in frame-relative coordinates;
// implemented by internal/decoration and injected here to avoid an
// interaction -> decoration import cycle (decoration already depends
// on portal geometry the same way interaction does).
type HitTester interface {
	HitTest(ref portal.Ref, frameX, frameY int) Trigger
}

// mode is which state machine currently owns the pointer.
type mode int

const (
	modeNone mode = iota
	modeDrag
	modeResize
)

// Engine is the single raw-input dispatcher of spec.md §4.6.
type Engine struct {
	conn   *xutil.Conn
	reg    *portal.Registry
	lc     *portal.Lifecycle
	bus    *bus.Bus
	marker *marker.Deck
	hit    HitTester

	throttle time.Duration
	lastTick time.Time

	// ArrangeFunc, if set, is called when the title bar's arrange
	// trigger is clicked (spec.md §4.5/§4.8 "arrange" button toggles
	// the current workspace's layout mode). Wired by cmd/portalwm to
	// workspace.Manager.ToggleLayout to avoid an interaction ->
	// workspace import cycle.
	ArrangeFunc func()

	mode      mode
	target    portal.Ref
	startX    int16
	startY    int16
	startGeom struct{ X, Y, Width, Height int }
}

func NewEngine(conn *xutil.Conn, reg *portal.Registry, lc *portal.Lifecycle, b *bus.Bus, deck *marker.Deck, hit HitTester, framerate int) *Engine {
	if framerate <= 0 {
		framerate = 60
	}
	return &Engine{
		conn: conn, reg: reg, lc: lc, bus: b, marker: deck, hit: hit,
		throttle: time.Second / time.Duration(framerate),
	}
}

// ButtonPress is the core ButtonPress substitute for spec.md §4.6's
// RawButtonPress.
func (e *Engine) ButtonPress(rootX, rootY int16, child xproto.Window, button xproto.Button, t xproto.Timestamp) {
	if child == 0 {
		return
	}
	if attrs, err := e.conn.Attributes(child); err == nil && attrs.OverrideRedirect {
		return
	}
	ref, ok := e.reg.FindByWindow(child)
	if !ok {
		return
	}
	p, ok := e.reg.Get(ref)
	if !ok {
		return
	}
	e.lc.Focus(ref, t)

	if button != xproto.ButtonIndex1 {
		return
	}

	frameX, frameY := int(rootX)-p.Geometry.X, int(rootY)-p.Geometry.Y
	trig := TriggerNone
	if e.hit != nil {
		trig = e.hit.HitTest(ref, frameX, frameY)
	}
	switch trig {
	case TriggerClose:
		e.lc.Close(ref, t)
		return
	case TriggerResize:
		e.beginResize(ref, p, rootX, rootY)
		return
	case TriggerArrange:
		if e.ArrangeFunc != nil {
			e.ArrangeFunc()
		}
		return
	case TriggerFrame:
		e.beginDrag(ref, p, rootX, rootY)
		return
	}
}

func (e *Engine) beginDrag(ref portal.Ref, p *portal.Portal, rootX, rootY int16) {
	e.mode = modeDrag
	e.target = ref
	e.startX, e.startY = rootX, rootY
	e.startGeom.X, e.startGeom.Y = p.Geometry.X, p.Geometry.Y
	e.marker.Push("drag", marker.ShapeDrag, true)
}

func (e *Engine) beginResize(ref portal.Ref, p *portal.Portal, rootX, rootY int16) {
	e.mode = modeResize
	e.target = ref
	e.startX, e.startY = rootX, rootY
	e.startGeom.Width, e.startGeom.Height = p.Geometry.Width, p.Geometry.Height
	e.marker.Push("resize", marker.ShapeResize, true)
}

// ButtonRelease ends whichever state machine is active.
func (e *Engine) ButtonRelease(button xproto.Button) {
	if button != xproto.ButtonIndex1 || e.mode == modeNone {
		return
	}
	e.endInteraction()
}

func (e *Engine) endInteraction() {
	switch e.mode {
	case modeDrag:
		e.marker.Pop("drag")
	case modeResize:
		e.marker.Pop("resize")
	}
	e.mode = modeNone
	e.target = portal.Ref{}
}

// MotionNotify feeds the active state machine, or else updates the
// hover cursor (spec.md §4.6).
func (e *Engine) MotionNotify(rootX, rootY int16) {
	if e.mode == modeNone {
		e.updateHover(rootX, rootY)
		return
	}
	if !e.throttleOK() {
		return
	}
	p, ok := e.reg.Get(e.target)
	if !ok {
		e.endInteraction()
		return
	}
	dx, dy := int(rootX-e.startX), int(rootY-e.startY)
	switch e.mode {
	case modeDrag:
		e.lc.Move(e.target, e.startGeom.X+dx, e.startGeom.Y+dy)
	case modeResize:
		w := e.clampWidth(p, e.startGeom.Width+dx)
		h := e.clampHeight(p, e.startGeom.Height+dy)
		e.lc.Resize(e.target, w, h)
	}
	e.lastTick = time.Now()
}

func (e *Engine) throttleOK() bool {
	return e.lastTick.IsZero() || time.Since(e.lastTick) >= e.throttle
}

// clampWidth/clampHeight enforce spec.md §4.6's minimum size rule:
// WM_NORMAL_HINTS.PMinSize, floored at MinimumWidth/Height, plus
// TitleBarHeight if framed.
func (e *Engine) clampWidth(p *portal.Portal, w int) int {
	hints := protocol.WmNormalHintsGet(e.conn, p.ClientWindow)
	min := portal.MinimumWidth
	if hints.Flags&protocol.HintPMinSize != 0 && hints.MinWidth > min {
		min = hints.MinWidth
	}
	if w < min {
		return min
	}
	return w
}

func (e *Engine) clampHeight(p *portal.Portal, h int) int {
	hints := protocol.WmNormalHintsGet(e.conn, p.ClientWindow)
	min := portal.MinimumHeight
	if hints.Flags&protocol.HintPMinSize != 0 && hints.MinHeight > min {
		min = hints.MinHeight
	}
	if p.Framed() {
		min += portal.TitleBarHeight
	}
	if h < min {
		return min
	}
	return h
}

func (e *Engine) updateHover(rootX, rootY int16) {
	_, _, child, err := e.conn.QueryPointer(e.conn.Root)
	if err != nil || child == 0 {
		e.marker.Pop("hover")
		return
	}
	ref, ok := e.reg.FindByWindow(child)
	if !ok {
		e.marker.Pop("hover")
		return
	}
	p, ok := e.reg.Get(ref)
	if !ok {
		e.marker.Pop("hover")
		return
	}
	frameX, frameY := int(rootX)-p.Geometry.X, int(rootY)-p.Geometry.Y
	shape := marker.ShapeFrameHover
	if e.hit != nil && e.hit.HitTest(ref, frameX, frameY) == TriggerResize {
		shape = marker.ShapeResizeHover
	}
	e.marker.Push("hover", shape, false)
}

// PortalDestroyed stops any active interaction on the destroyed portal
// (spec.md §4.6 "Drag/resize are stopped if the dragged/resized portal
// is destroyed").
func (e *Engine) PortalDestroyed(ref portal.Ref) {
	if e.mode != modeNone && e.target == ref {
		e.endInteraction()
	}
}

// Register wires the engine's handlers onto b — call once during
// Initialize (spec.md §9).
func (e *Engine) Register() {
	e.bus.On(bus.TagButtonPress, func(ev bus.Event) {
		pe := ev.(ButtonPressEvent)
		e.ButtonPress(pe.RootX, pe.RootY, pe.Child, pe.Button, pe.Time)
	})
	e.bus.On(bus.TagButtonRelease, func(ev bus.Event) {
		pe := ev.(ButtonReleaseEvent)
		e.ButtonRelease(pe.Button)
	})
	e.bus.On(bus.TagMotionNotify, func(ev bus.Event) {
		me := ev.(MotionNotifyEvent)
		e.MotionNotify(me.RootX, me.RootY)
	})
	e.bus.On(bus.TagPortalDestroyed, func(ev bus.Event) {
		de := ev.(portal.PortalDestroyedEvent)
		e.PortalDestroyed(de.Ref)
	})
}

// ButtonPressEvent/ButtonReleaseEvent/MotionNotifyEvent are the raw
// pointer events the event loop (C3) converts XProto events into
// before firing them on the bus.
type ButtonPressEvent struct {
	RootX, RootY int16
	Child        xproto.Window
	Button       xproto.Button
	Time         xproto.Timestamp
}

type ButtonReleaseEvent struct {
	Button xproto.Button
}

type MotionNotifyEvent struct {
	RootX, RootY int16
}
