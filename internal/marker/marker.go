// Package marker implements the marker deck (§3): a small LIFO of
// (id, cursor-shape, grab?) records whose top entry defines the root
// cursor and an optional pointer grab. It is the interface surface
// the out-of-scope cursor-shape collaborator (spec.md §6 "Marker
// layer") consumes; the core only pushes/pops hints and never reads
// marker state back.
//
// Grounded on the teacher's xcursor package (font-cursor creation via
// OpenFont("cursor")/CreateGlyphCursor) for how a cursor shape becomes
// an X cursor id, adapted to a stack instead of a single ad hoc call
// per cursor change.
package marker

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/limeos-org/portalwm/internal/xutil"
)

// Shape names one of the cursor glyphs the interaction engine hints
// at (spec.md §4.6, §6): default arrow, frame/"hand" hover, resize
// corner hover, active drag, active resize.
type Shape int

const (
	ShapeDefault Shape = iota
	ShapeFrameHover
	ShapeResizeHover
	ShapeDrag
	ShapeResize
)

// glyph maps a Shape to the standard X cursor-font glyph index (the
// same table the teacher's xcursor/cursors.go enumerates); even
// indices are the glyph, the next is its mask.
var glyph = map[Shape]uint16{
	ShapeDefault:     2,  // XC_arrow
	ShapeFrameHover:  60, // XC_hand2
	ShapeResizeHover: 120, // XC_sizing
	ShapeDrag:        52, // XC_fleur
	ShapeResize:      120,
}

// entry is one record on the deck.
type entry struct {
	id    string
	shape Shape
	grab  bool
}

// Deck is the LIFO described in spec.md §3. Construct one with New:
// the zero value has no connection and no cursor cache.
type Deck struct {
	conn    *xutil.Conn
	font    xproto.Font
	cursors map[Shape]xproto.Cursor
	stack   []entry
}

func New(conn *xutil.Conn) *Deck {
	return &Deck{conn: conn, cursors: make(map[Shape]xproto.Cursor)}
}

// Prepare opens the standard "cursor" font once; call during the
// Prepare startup phase (spec.md §9).
func (d *Deck) Prepare() error {
	id, err := xproto.NewFontId(d.conn.X)
	if err != nil {
		return fmt.Errorf("marker: new font id: %w", err)
	}
	name := "cursor"
	if err := xproto.OpenFontChecked(d.conn.X, id, uint16(len(name)), name).Check(); err != nil {
		return fmt.Errorf("marker: open cursor font: %w", err)
	}
	d.font = id
	return nil
}

func (d *Deck) cursorFor(shape Shape) (xproto.Cursor, error) {
	if id, ok := d.cursors[shape]; ok {
		return id, nil
	}
	g := glyph[shape]
	id, err := xproto.NewCursorId(d.conn.X)
	if err != nil {
		return 0, fmt.Errorf("marker: new cursor id: %w", err)
	}
	err = xproto.CreateGlyphCursorChecked(d.conn.X, id, d.font, d.font,
		g, g+1, 0, 0, 0, 0xffff, 0xffff, 0xffff).Check()
	if err != nil {
		return 0, fmt.Errorf("marker: create glyph cursor: %w", err)
	}
	d.cursors[shape] = id
	return id, nil
}

// Push adds (or replaces, if id is already present) a record and
// applies the new top's cursor/grab to the root window.
func (d *Deck) Push(id string, shape Shape, grab bool) error {
	d.remove(id)
	d.stack = append(d.stack, entry{id: id, shape: shape, grab: grab})
	return d.apply()
}

// Pop removes the record with the given id, wherever it is in the
// deck, and re-applies the new top.
func (d *Deck) Pop(id string) error {
	d.remove(id)
	return d.apply()
}

func (d *Deck) remove(id string) {
	out := d.stack[:0]
	for _, e := range d.stack {
		if e.id != id {
			out = append(out, e)
		}
	}
	d.stack = out
}

func (d *Deck) apply() error {
	if len(d.stack) == 0 {
		return d.setCursor(ShapeDefault)
	}
	top := d.stack[len(d.stack)-1]
	if err := d.setCursor(top.shape); err != nil {
		return err
	}
	if top.grab {
		return xproto.GrabPointerChecked(d.conn.X, false, d.conn.Root,
			xproto.EventMaskButtonPress|xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion,
			xproto.GrabModeAsync, xproto.GrabModeAsync, 0, 0, xproto.TimeCurrentTime).Check()
	}
	return xproto.UngrabPointerChecked(d.conn.X, xproto.TimeCurrentTime).Check()
}

func (d *Deck) setCursor(shape Shape) error {
	cursor, err := d.cursorFor(shape)
	if err != nil {
		return err
	}
	return xproto.ChangeWindowAttributesChecked(d.conn.X, d.conn.Root,
		xproto.CwCursor, []uint32{uint32(cursor)}).Check()
}
