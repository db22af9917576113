// Package decoration implements the decoration engine (C6): title bar
// rendering, the focus dot, title text updates and close/arrange
// trigger hit testing (spec.md §4.5). Grounded on the teacher's
// xgraphics painting idiom (now internal/render) and on marwind's
// frame-repaint-on-PropertyNotify pattern.
package decoration

import (
	"image"
	"image/color"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/limeos-org/portalwm/internal/bus"
	"github.com/limeos-org/portalwm/internal/portal"
	"github.com/limeos-org/portalwm/internal/protocol"
	"github.com/limeos-org/portalwm/internal/render"
	"github.com/limeos-org/portalwm/internal/xutil"
)

// Engine paints every framed portal's title bar and answers hit
// tests for the interaction engine.
type Engine struct {
	conn *xutil.Conn
	reg  *portal.Registry
	bus  *bus.Bus

	focused portal.Ref
}

func NewEngine(conn *xutil.Conn, reg *portal.Registry, b *bus.Bus) *Engine {
	return &Engine{conn: conn, reg: reg, bus: b}
}

// Register wires the engine's handlers onto the bus.
func (e *Engine) Register() {
	e.bus.On(bus.TagPortalInitialized, func(ev bus.Event) {
		ie := ev.(portal.PortalInitializedEvent)
		e.Paint(ie.Ref)
	})
	e.bus.On(bus.TagPortalMapped, func(ev bus.Event) {
		me := ev.(portal.PortalMappedEvent)
		e.Paint(me.Ref)
	})
	e.bus.On(bus.TagPortalTransformed, func(ev bus.Event) {
		te := ev.(portal.PortalTransformedEvent)
		e.Paint(te.Ref)
	})
	e.bus.On(bus.TagPortalFocused, func(ev bus.Event) {
		fe := ev.(portal.PortalFocusedEvent)
		prev := e.focused
		e.focused = fe.Ref
		if !prev.Zero() {
			e.Paint(prev)
		}
		e.Paint(fe.Ref)
	})
	e.bus.On(bus.TagPropertyNotify, func(ev bus.Event) {
		pe := ev.(PropertyNotifyEvent)
		e.onPropertyNotify(pe)
	})
}

// onPropertyNotify re-reads and repaints the title when _NET_WM_NAME
// or WM_NAME changes (spec.md §4.5 "Title updates").
func (e *Engine) onPropertyNotify(pe PropertyNotifyEvent) {
	name, _ := e.conn.AtomName(pe.Atom)
	if name != "_NET_WM_NAME" && name != "WM_NAME" {
		return
	}
	ref, ok := e.reg.FindByWindow(pe.Window)
	if !ok {
		return
	}
	if p, ok := e.reg.Get(ref); ok {
		p.Title = protocol.TitleGet(e.conn, p.ClientWindow)
	}
	e.Paint(ref)
}

// Paint redraws the title bar band of ref's frame, a no-op for
// unframed or not-yet-initialized portals.
func (e *Engine) Paint(ref portal.Ref) error {
	p, ok := e.reg.Get(ref)
	if !ok || !p.Framed() || !p.Initialized {
		return nil
	}

	w := p.Geometry.Width
	h := portal.TitleBarHeight
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	pal := paletteFor(p.Theme == portal.ThemeDark)

	fillRect(img, pal.TitleBar)
	e.paintFocusDot(img, pal, ref == e.focused)
	e.paintTitle(img, pal, p.Title, w)
	e.paintTriggers(img, pal, w)
	paintTitlebarBorder(img, pal, w, h)

	surface, err := render.NewSurface(e.conn, xproto.Drawable(p.FrameWindow))
	if err != nil {
		return err
	}
	defer surface.Close()
	return surface.Paint(img, 0, 0)
}

// paintTitlebarBorder strokes the inner titlebar border along the
// left/top/right edges and the separator line along the bottom edge,
// at y + TITLE_BAR_H - 0.5 in frame coordinates (spec.md §4.9 "framed
// portals additionally draw an inner titlebar border from theme color
// and a separator line"). Both colors are fixed theme values, not
// luminance-adaptive — that sampling belongs to the compositor's
// client-area border, drawn separately over the captured pixmap.
func paintTitlebarBorder(img *image.RGBA, pal palette, w, h int) {
	for x := 0; x < w; x++ {
		img.SetRGBA(x, 0, pal.TitlebarBorder)
	}
	for y := 0; y < h; y++ {
		img.SetRGBA(0, y, pal.TitlebarBorder)
		img.SetRGBA(w-1, y, pal.TitlebarBorder)
	}
	for x := 0; x < w; x++ {
		img.SetRGBA(x, h-1, pal.Separator)
	}
}

func fillRect(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// paintFocusDot draws a filled dot when focused, an outline ring
// otherwise, at a fixed left inset (spec.md §4.5).
func (e *Engine) paintFocusDot(img *image.RGBA, pal palette, focused bool) {
	cx, cy := focusDotInset, portal.TitleBarHeight/2
	r := focusDotRadius
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			d2 := x*x + y*y
			if d2 > r*r {
				continue
			}
			if !focused && d2 < (r-1)*(r-1) {
				continue
			}
			img.SetRGBA(cx+x, cy+y, pal.FocusDot)
		}
	}
}

func (e *Engine) paintTitle(img *image.RGBA, pal palette, title string, frameWidth int) {
	available := frameWidth - 2*textPadding - focusDotInset - focusDotRadius
	if available <= 0 {
		return
	}
	title = truncateToWidth(title, available)
	y := portal.TitleBarHeight/2 + render.TextHeight()/2 - 2
	render.DrawText(img, focusDotInset+focusDotRadius+textPadding, y, pal.Text, title)
}

// truncateToWidth shortens title with an ellipsis until it fits
// available pixels, avoiding a mid-glyph clip (spec.md §4.5 "title
// text clipped to the title area minus padding").
func truncateToWidth(title string, available int) string {
	if render.TextWidth(title) <= available {
		return title
	}
	const ellipsis = "..."
	runes := []rune(title)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if render.TextWidth(candidate) <= available {
			return candidate
		}
	}
	return ellipsis
}

func (e *Engine) paintTriggers(img *image.RGBA, pal palette, frameWidth int) {
	closeMin := frameWidth - triggerMargin - triggerSize
	drawX(img, closeMin, triggerSize, pal.Text)

	arrangeMax := closeMin - triggerMargin
	arrangeMin := arrangeMax - triggerSize
	drawSquare(img, arrangeMin, triggerSize, pal.Text)
}

// drawX paints a small "x" glyph for the close trigger.
func drawX(img *image.RGBA, left, size int, c color.RGBA) {
	top := (portal.TitleBarHeight - size) / 2
	for i := 0; i < size; i++ {
		img.SetRGBA(left+i, top+i, c)
		img.SetRGBA(left+size-1-i, top+i, c)
	}
}

// drawSquare paints an outline square for the arrange trigger.
func drawSquare(img *image.RGBA, left, size int, c color.RGBA) {
	top := (portal.TitleBarHeight - size) / 2
	for i := 0; i < size; i++ {
		img.SetRGBA(left+i, top, c)
		img.SetRGBA(left+i, top+size-1, c)
		img.SetRGBA(left, top+i, c)
		img.SetRGBA(left+size-1, top+i, c)
	}
}

// PropertyNotifyEvent is the raw PropertyNotify event the event loop
// converts XProto events into before firing on the bus.
type PropertyNotifyEvent struct {
	Window xproto.Window
	Atom   xproto.Atom
}
