// Package compositor implements the compositor (C10): XComposite-based
// redraw of every portal into an in-memory buffer blitted onto the
// root window each Update tick, with a fullscreen fast path, drop
// shadows, rounded-corner clipping, a luminance-adaptive border, and
// split rendering for misaligned framed clients (spec.md §4.9).
// Grounded on github.com/BurntSushi/xgb/composite the way
// bryanchriswhite-FocusStreamer's capturer/window-manager files use
// it (per-window RedirectWindowChecked/NameWindowPixmapChecked, not a
// RedirectSubwindows call, since no example in the corpus exercises
// that entry point) and on the teacher's xgraphics paint idiom via
// internal/render.
package compositor

import (
	"image"
	"image/draw"

	"github.com/BurntSushi/xgb/composite"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/limeos-org/portalwm/internal/bus"
	"github.com/limeos-org/portalwm/internal/portal"
	"github.com/limeos-org/portalwm/internal/protocol"
	"github.com/limeos-org/portalwm/internal/render"
	"github.com/limeos-org/portalwm/internal/xutil"
)

// Kind is the decoration-kind dispatch of spec.md §4.9 "draw_portal".
type Kind int

const (
	KindNone Kind = iota
	KindFramed
	KindFrameless
)

// BackgroundFunc paints the desktop background into dst before any
// portal is drawn; the out-of-scope "background painting" collaborator
// (spec.md §1) is wired in as this single function, defaulting to a
// solid fill.
type BackgroundFunc func(dst *image.RGBA)

// Engine owns the composite redirect and per-tick redraw.
type Engine struct {
	conn    *xutil.Conn
	reg     *portal.Registry
	bus     *bus.Bus
	enabled bool

	Background BackgroundFunc

	autoRedirected map[portal.Ref]bool
}

func NewEngine(conn *xutil.Conn, reg *portal.Registry, b *bus.Bus) *Engine {
	e := &Engine{
		conn: conn, reg: reg, bus: b,
		autoRedirected: make(map[portal.Ref]bool, 32),
		Background:     fillBlack,
	}
	b.On(bus.TagPortalInitialized, e.onInitialized)
	b.On(bus.TagUpdate, e.onUpdate)
	return e
}

func fillBlack(dst *image.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(image.Black), image.Point{}, draw.Src)
}

// Init probes for the composite extension; the compositor disables
// itself silently on any failure (spec.md §4.9 "Disabled silently
// otherwise").
func (e *Engine) Init() {
	if err := composite.Init(e.conn.X); err != nil {
		e.conn.Log.Debug().Err(err).Msg("composite extension unavailable, compositor disabled")
		e.enabled = false
		return
	}
	e.enabled = true
}

// Enabled reports whether the compositor is actively redrawing.
func (e *Engine) Enabled() bool { return e.enabled }

// onInitialized redirects a newly-initialized portal's outer window
// manually, so its rendering accumulates into an off-screen pixmap
// this engine reads back instead of appearing on screen directly.
func (e *Engine) onInitialized(ev bus.Event) {
	if !e.enabled {
		return
	}
	ie := ev.(portal.PortalInitializedEvent)
	p, ok := e.reg.Get(ie.Ref)
	if !ok {
		return
	}
	err := composite.RedirectWindowChecked(e.conn.X, p.OuterWindow(), composite.RedirectManual).Check()
	if err != nil {
		e.conn.Log.Debug().Err(err).Msg("composite redirect failed")
	}
}

// onUpdate is the framerate-tick redraw (spec.md §4.9 "Redraw tick").
func (e *Engine) onUpdate(bus.Event) {
	if !e.enabled {
		return
	}
	screen := e.conn.Screen
	w, h := int(screen.WidthInPixels), int(screen.HeightInPixels)
	buffer := image.NewRGBA(image.Rect(0, 0, w, h))

	sorted := e.reg.GetSorted()
	if ref, ok := e.topFullscreen(sorted); ok {
		e.drawFullscreenFast(buffer, ref)
		e.blit(buffer)
		return
	}

	e.Background(buffer)
	for _, ref := range sorted {
		e.drawPortal(buffer, ref)
	}
	e.blit(buffer)
}

// topFullscreen scans sorted top-down for a visible fullscreen portal
// (spec.md §4.9 step 1).
func (e *Engine) topFullscreen(sorted []portal.Ref) (portal.Ref, bool) {
	for i := len(sorted) - 1; i >= 0; i-- {
		p, ok := e.reg.Get(sorted[i])
		if !ok || p.Visibility != portal.Visible {
			continue
		}
		if p.Fullscreen {
			return sorted[i], true
		}
	}
	return portal.Ref{}, false
}

func (e *Engine) drawFullscreenFast(buffer *image.RGBA, ref portal.Ref) {
	p, ok := e.reg.Get(ref)
	if !ok {
		return
	}
	img, err := e.capturePixmap(p.ClientWindow, uint16(buffer.Bounds().Dx()), uint16(buffer.Bounds().Dy()))
	if err != nil {
		return
	}
	draw.Draw(buffer, buffer.Bounds(), img, image.Point{}, draw.Src)
}

// drawPortal is spec.md §4.9 "draw_portal".
func (e *Engine) drawPortal(buffer *image.RGBA, ref portal.Ref) {
	p, ok := e.reg.Get(ref)
	if !ok || !p.Initialized || p.Visibility != portal.Visible {
		return
	}
	kind := e.classify(p)
	if kind == KindNone {
		img, err := e.capturePixmap(p.ClientWindow, uint16(p.Geometry.Width), uint16(p.Geometry.Height))
		if err != nil {
			return
		}
		draw.Draw(buffer, image.Rect(p.Geometry.X, p.Geometry.Y, p.Geometry.X+p.Geometry.Width, p.Geometry.Y+p.Geometry.Height),
			img, image.Point{}, draw.Over)
		return
	}

	spread, opacity, radius := framelessShadowSpread, framelessShadowOpacity, portal.FramelessCornerRadius
	if kind == KindFramed {
		spread, opacity, radius = framedShadowSpread, framedShadowOpacity, portal.CornerRadius
	}
	shadow := render.DrawShadow(p.Geometry.Width, p.Geometry.Height, radius, kind == KindFramed, spread, opacity, shadowMargin)
	shadowOrigin := image.Pt(p.Geometry.X-shadowMargin, p.Geometry.Y-shadowMargin)
	draw.Draw(buffer, shadow.Bounds().Add(shadowOrigin), shadow, image.Point{}, draw.Over)

	if kind == KindFramed && p.Misaligned {
		e.drawSplit(buffer, p, radius)
		p.Misaligned = false
		return
	}

	body := p.OuterWindow()
	img, err := e.capturePixmap(body, uint16(p.Geometry.Width), uint16(p.Geometry.Height))
	if err != nil {
		return
	}
	e.drawClipped(buffer, img, p.Geometry.X, p.Geometry.Y, radius)

	framed := kind == KindFramed
	client := clientArea(img, framed)
	originY := p.Geometry.Y
	if framed {
		originY += portal.TitleBarHeight
	}
	e.drawBorder(buffer, client, p.Geometry.X, originY, framed)
}

// clientArea returns the sub-image of img below the title-bar band
// for a framed portal, or img itself for a frameless one — the region
// the luminance-adaptive border samples (spec.md §4.9 "framed
// portals: left/right along client area, bottom along bottom").
func clientArea(img *image.RGBA, framed bool) *image.RGBA {
	if !framed {
		return img
	}
	b := img.Bounds()
	top := b.Min.Y + portal.TitleBarHeight
	if top >= b.Max.Y {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	return img.SubImage(image.Rect(b.Min.X, top, b.Max.X, b.Max.Y)).(*image.RGBA)
}

// drawBorder implements spec.md §4.9's luminance-adaptive border:
// sample each straight edge of client, group consecutive pixels by
// which side of the luminance threshold they fall on, and stroke each
// run with its own contrasting color. Framed portals skip the top
// edge (the title bar owns that border, painted by the decoration
// engine); frameless portals stroke all four.
func (e *Engine) drawBorder(buffer *image.RGBA, client *image.RGBA, originX, originY int, framed bool) {
	b := client.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}
	edges := []render.Edge{render.EdgeLeft, render.EdgeRight, render.EdgeBottom}
	if !framed {
		edges = append(edges, render.EdgeTop)
	}
	for _, edge := range edges {
		runs := render.ClassifyRuns(render.StripLuminance(client, edge))
		render.StrokeEdge(buffer, originX, originY, w, h, edge, runs, borderAlpha)
	}
}

// drawSplit paints the frame's title-bar band and the independently
// captured client pixmap at its own offset, per spec.md §4.9 "Split
// rendering".
func (e *Engine) drawSplit(buffer *image.RGBA, p *portal.Portal, radius int) {
	if !e.autoRedirected[p.Ref()] {
		err := composite.RedirectWindowChecked(e.conn.X, p.ClientWindow, composite.RedirectAutomatic).Check()
		if err == nil {
			e.autoRedirected[p.Ref()] = true
		}
	}

	frameImg, err := e.capturePixmap(p.FrameWindow, uint16(p.Geometry.Width), uint16(portal.TitleBarHeight))
	if err == nil {
		e.drawClipped(buffer, frameImg, p.Geometry.X, p.Geometry.Y, radius)
	}

	clientW := uint16(p.Geometry.Width)
	clientH := uint16(p.Geometry.Height - portal.TitleBarHeight)
	clientImg, err := e.capturePixmap(p.ClientWindow, clientW, clientH)
	if err != nil {
		return
	}
	dst := image.Rect(p.Geometry.X, p.Geometry.Y+portal.TitleBarHeight,
		p.Geometry.X+int(clientW), p.Geometry.Y+portal.TitleBarHeight+int(clientH))
	draw.Draw(buffer, dst, clientImg, image.Point{}, draw.Over)

	e.drawBorder(buffer, clientImg, p.Geometry.X, p.Geometry.Y+portal.TitleBarHeight, true)
}

// drawClipped composites img onto buffer at (x, y), multiplying each
// pixel's alpha by the rounded-rectangle corner mask.
func (e *Engine) drawClipped(buffer *image.RGBA, img *image.RGBA, x, y, radius int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			if !render.InRoundedRect(px, py, w, h, radius) {
				continue
			}
			buffer.Set(x+px, y+py, img.At(b.Min.X+px, b.Min.Y+py))
		}
	}
}

// classify picks the decoration kind per spec.md §4.9.
func (e *Engine) classify(p *portal.Portal) Kind {
	if p.Framed() {
		return KindFramed
	}
	if p.OverrideRedirect {
		return KindFrameless
	}
	wt := p.WindowType
	if wt == protocol.WindowTypeTooltip || wt == protocol.WindowTypeNotification {
		return KindNone
	}
	if p.TopLevel {
		return KindFrameless
	}
	return KindNone
}

// capturePixmap names drawable's composite backing pixmap and reads
// it back as an image, per bryanchriswhite-FocusStreamer's
// NameWindowPixmapChecked + GetImage capture path.
func (e *Engine) capturePixmap(win xproto.Window, w, h uint16) (*image.RGBA, error) {
	pix, err := xproto.NewPixmapId(e.conn.X)
	if err != nil {
		return nil, err
	}
	if err := composite.NameWindowPixmapChecked(e.conn.X, win, pix).Check(); err != nil {
		return nil, err
	}
	defer xproto.FreePixmapChecked(e.conn.X, pix).Check()
	return render.Capture(e.conn, xproto.Drawable(pix), w, h)
}

// blit paints the finished buffer onto the root window. xgb writes
// requests to the wire as they're issued rather than buffering them
// Xlib-style, so no explicit flush call is needed here.
func (e *Engine) blit(buffer *image.RGBA) {
	surface, err := render.NewSurface(e.conn, xproto.Drawable(e.conn.Root))
	if err != nil {
		return
	}
	defer surface.Close()
	if err := surface.Paint(buffer, 0, 0); err != nil {
		e.conn.Log.Debug().Err(err).Msg("compositor blit failed")
	}
}
