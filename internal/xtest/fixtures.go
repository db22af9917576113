// Package xtest holds the fixed inputs shared by this module's pure-
// logic tests: sample screen geometries, portal layouts, and the EWMH
// atom-name table. There is no virtual X11 transport here — xgb.Conn
// is a concrete wire-protocol client everywhere in the corpus, not an
// interface, and the teacher's own tests/ package dials a live display
// rather than faking one. These fixtures give table-driven tests (at
// present the workspace package's) one set of realistic numbers
// instead of each re-inventing screen sizes.
package xtest

import "github.com/limeos-org/portalwm/internal/geom"

// Screen is a named display geometry a test can iterate over, the way
// the teacher's xinerama package enumerates physical screens.
type Screen struct {
	Name          string
	Width, Height int
}

// Screens covers the viewport sizes spec.md's scenarios name directly
// (the 1920x1080 tiling walkthrough) plus the smaller/odd sizes real
// laptops and external monitors commonly report.
var Screens = []Screen{
	{Name: "1080p", Width: 1920, Height: 1080},
	{Name: "720p", Width: 1280, Height: 720},
	{Name: "laptop-1366", Width: 1366, Height: 768},
	{Name: "4k", Width: 3840, Height: 2160},
	{Name: "small-xvfb", Width: 800, Height: 600},
}

// Rect builds the screen's root-relative work area as a geom.Rect
// rooted at the origin, the shape TileRects/CascadePosition expect.
func (s Screen) Rect() geom.Rect {
	return geom.Rect{X: 0, Y: 0, Width: s.Width, Height: s.Height}
}

// Portal is a minimal fixture describing one mapped client's geometry
// and its framed/fullscreen flags; it carries no window type.
type Portal struct {
	Name       string
	Geometry   geom.Rect
	Framed     bool
	Fullscreen bool
}

// CascadeFixture is the three-sibling cascade spec.md's scenario 2
// walks through: each new portal offsets 46px down-and-right from the
// last, per CascadeOffsetPx.
var CascadeFixture = []Portal{
	{Name: "editor", Geometry: geom.Rect{X: 100, Y: 100, Width: 640, Height: 480}, Framed: true},
	{Name: "terminal", Geometry: geom.Rect{X: 146, Y: 146, Width: 640, Height: 480}, Framed: true},
	{Name: "browser", Geometry: geom.Rect{X: 192, Y: 192, Width: 640, Height: 480}, Framed: true},
}

// WindowTypeAtomNames lists the _NET_WM_WINDOW_TYPE_* atom strings
// internal/protocol's windowTypeAtoms table resolves, except its
// DROPDOWN_MENU and POPUP_MENU aliases, so tests can
// assert a classify()/framing decision without interning real atoms
// against a display.
var WindowTypeAtomNames = []string{
	"_NET_WM_WINDOW_TYPE_NORMAL",
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_WINDOW_TYPE_MENU",
	"_NET_WM_WINDOW_TYPE_TOOLBAR",
	"_NET_WM_WINDOW_TYPE_TOOLTIP",
	"_NET_WM_WINDOW_TYPE_NOTIFICATION",
	"_NET_WM_WINDOW_TYPE_SPLASH",
	"_NET_WM_WINDOW_TYPE_UTILITY",
}
