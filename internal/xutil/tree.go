package xutil

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// Children returns the direct children of win, bottom-to-top as
// reported by the X server (QueryTree's order is the stacking order,
// lowest window first) — the basis of the registry's stacking cache
// (spec.md §4.1).
func (c *Conn) Children(win xproto.Window) ([]xproto.Window, error) {
	reply, err := xproto.QueryTree(c.X, win).Reply()
	if err != nil {
		return nil, fmt.Errorf("xutil: query tree %d: %w", win, err)
	}
	return reply.Children, nil
}

// Parent returns win's parent window.
func (c *Conn) Parent(win xproto.Window) (xproto.Window, error) {
	reply, err := xproto.QueryTree(c.X, win).Reply()
	if err != nil {
		return 0, fmt.Errorf("xutil: query tree %d: %w", win, err)
	}
	return reply.Parent, nil
}

// WalkTree recursively visits every descendant of root (depth-first,
// each level bottom-to-top), calling visit on each. It is the
// implementation behind the portal registry's "rebuild sorted from the
// X tree" operation (spec.md §4.1).
func (c *Conn) WalkTree(root xproto.Window, visit func(xproto.Window)) error {
	children, err := c.Children(root)
	if err != nil {
		return err
	}
	for _, w := range children {
		visit(w)
		if err := c.WalkTree(w, visit); err != nil {
			return err
		}
	}
	return nil
}

// Attributes is the subset of GetWindowAttributes this WM consults.
type Attributes struct {
	OverrideRedirect bool
	Viewable         bool
}

func (c *Conn) Attributes(win xproto.Window) (Attributes, error) {
	reply, err := xproto.GetWindowAttributes(c.X, win).Reply()
	if err != nil {
		return Attributes{}, fmt.Errorf("xutil: get attributes %d: %w", win, err)
	}
	return Attributes{
		OverrideRedirect: reply.OverrideRedirect,
		Viewable:         reply.MapState == xproto.MapStateViewable,
	}, nil
}

// Geometry is a parent-relative rectangle as reported directly by
// the server, distinct from internal/geom.Rect which also carries
// derived/backed-up portal state.
type Geometry struct {
	X, Y          int16
	Width, Height uint16
}

func (c *Conn) RawGeometry(win xproto.Window) (Geometry, error) {
	reply, err := xproto.GetGeometry(c.X, xproto.Drawable(win)).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("xutil: get geometry %d: %w", win, err)
	}
	return Geometry{X: reply.X, Y: reply.Y, Width: reply.Width, Height: reply.Height}, nil
}

// TranslateToRoot translates (x, y) in win's own coordinate space to
// root coordinates — used during first-map initialization, while the
// client is still a direct child of root, per spec.md §4.2 step 4.
func (c *Conn) TranslateToRoot(win xproto.Window, x, y int16) (rootX, rootY int16, err error) {
	reply, err := xproto.TranslateCoordinates(c.X, win, c.Root, x, y).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("xutil: translate coordinates %d: %w", win, err)
	}
	return reply.DstX, reply.DstY, nil
}

// QueryPointer returns the pointer position in root coordinates and
// the window directly under it, used by the interaction engine's
// hover update on pointer motion.
func (c *Conn) QueryPointer(win xproto.Window) (rootX, rootY int16, child xproto.Window, err error) {
	reply, err := xproto.QueryPointer(c.X, win).Reply()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("xutil: query pointer: %w", err)
	}
	return reply.RootX, reply.RootY, reply.Child, nil
}
