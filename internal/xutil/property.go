package xutil

import (
	"encoding/binary"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

// GetProperty abstracts the messiness of xproto.GetProperty, grounded
// on the teacher's xprop.GetProperty.
func (c *Conn) GetProperty(win xproto.Window, name string) (*xproto.GetPropertyReply, error) {
	atom, err := c.Atom(name)
	if err != nil {
		return nil, err
	}
	reply, err := xproto.GetProperty(c.X, false, win, atom,
		xproto.GetPropertyTypeAny, 0, (1<<32)-1).Reply()
	if err != nil {
		return nil, c.Swallow("GetProperty", err)
	}
	if reply == nil || reply.Format == 0 {
		return nil, fmt.Errorf("xutil: no such property %q on window %d", name, win)
	}
	return reply, nil
}

// PropString reads a property intended to hold a single string
// (WM_NAME, _NET_WM_NAME). Property-read-miss (spec.md §7 kind 5) is
// reported via the error return; callers substitute the spec's default.
func (c *Conn) PropString(win xproto.Window, name string) (string, error) {
	reply, err := c.GetProperty(win, name)
	if err != nil {
		return "", err
	}
	return string(reply.Value), nil
}

// PropStrings reads a null-separated multi-string property, used for
// WM_CLASS ("instance\x00class\x00").
func (c *Conn) PropStrings(win xproto.Window, name string) ([]string, error) {
	reply, err := c.GetProperty(win, name)
	if err != nil {
		return nil, err
	}
	var out []string
	start := 0
	for i, b := range reply.Value {
		if b == 0 {
			out = append(out, string(reply.Value[start:i]))
			start = i + 1
		}
	}
	if start < len(reply.Value) {
		out = append(out, string(reply.Value[start:]))
	}
	return out, nil
}

// PropNums reads a property as a slice of 32-bit unsigned integers
// (WM_NORMAL_HINTS, _MOTIF_WM_HINTS and similar CARDINAL-typed lists).
func (c *Conn) PropNums(win xproto.Window, name string) ([]uint32, error) {
	reply, err := c.GetProperty(win, name)
	if err != nil {
		return nil, err
	}
	if reply.Format != 32 {
		return nil, fmt.Errorf("xutil: property %q has format %d, want 32", name, reply.Format)
	}
	n := len(reply.Value) / 4
	out := make([]uint32, n)
	for i := 0; i < n; i++ {
		out[i] = binary.LittleEndian.Uint32(reply.Value[i*4:])
	}
	return out, nil
}

// PropAtoms reads a property as a list of atoms (_NET_WM_STATE,
// _NET_WM_WINDOW_TYPE, _NET_SUPPORTED).
func (c *Conn) PropAtoms(win xproto.Window, name string) ([]xproto.Atom, error) {
	nums, err := c.PropNums(win, name)
	if err != nil {
		return nil, err
	}
	out := make([]xproto.Atom, len(nums))
	for i, n := range nums {
		out[i] = xproto.Atom(n)
	}
	return out, nil
}

// ChangeProp sets an arbitrary-format property.
func (c *Conn) ChangeProp(win xproto.Window, format byte, name, typ string, data []byte) error {
	propAtom, err := c.Atom(name)
	if err != nil {
		return err
	}
	typAtom, err := c.Atom(typ)
	if err != nil {
		return err
	}
	n := uint32(len(data))
	switch format {
	case 32:
		n /= 4
	case 16:
		n /= 2
	}
	err = xproto.ChangePropertyChecked(c.X, xproto.PropModeReplace, win,
		propAtom, typAtom, format, n, data).Check()
	return c.Swallow("ChangeProp", err)
}

// ChangeProp32 encodes data as an array of 32-bit values, mirroring the
// teacher's xprop.ChangeProp32.
func (c *Conn) ChangeProp32(win xproto.Window, name, typ string, data ...uint32) error {
	buf := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return c.ChangeProp(win, 32, name, typ, buf)
}

// ChangePropAtoms sets an atom-list property such as _NET_SUPPORTED.
func (c *Conn) ChangePropAtoms(win xproto.Window, name string, atoms []xproto.Atom) error {
	nums := make([]uint32, len(atoms))
	for i, a := range atoms {
		nums[i] = uint32(a)
	}
	return c.ChangeProp32(win, name, "ATOM", nums...)
}

// ChangePropWindows sets a WINDOW-list property such as
// _NET_CLIENT_LIST.
func (c *Conn) ChangePropWindows(win xproto.Window, name string, wins []xproto.Window) error {
	nums := make([]uint32, len(wins))
	for i, w := range wins {
		nums[i] = uint32(w)
	}
	return c.ChangeProp32(win, name, "WINDOW", nums...)
}

// ChangePropString sets a single STRING/UTF8_STRING property.
func (c *Conn) ChangePropString(win xproto.Window, name, typ, value string) error {
	return c.ChangeProp(win, 8, name, typ, []byte(value))
}

// DeleteProp removes a property entirely. Nothing in the core calls
// it; fullscreen exit removes its atom from _NET_WM_STATE instead.
func (c *Conn) DeleteProp(win xproto.Window, name string) error {
	atom, err := c.Atom(name)
	if err != nil {
		return err
	}
	return c.Swallow("DeleteProp", xproto.DeletePropertyChecked(c.X, win, atom).Check())
}
