package protocol

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/limeos-org/portalwm/internal/xutil"
)

// WindowType identifies the EWMH _NET_WM_WINDOW_TYPE class a client
// declares, used by the framing decision (spec.md §4.2) and the
// compositor's decoration-kind pick (spec.md §4.9).
type WindowType int

const (
	WindowTypeNormal WindowType = iota
	WindowTypeDialog
	WindowTypeDock
	WindowTypeMenu
	WindowTypeToolbar
	WindowTypeTooltip
	WindowTypeNotification
	WindowTypeSplash
	WindowTypeUtility
)

var windowTypeAtoms = map[string]WindowType{
	"_NET_WM_WINDOW_TYPE_NORMAL":       WindowTypeNormal,
	"_NET_WM_WINDOW_TYPE_DIALOG":       WindowTypeDialog,
	"_NET_WM_WINDOW_TYPE_DOCK":         WindowTypeDock,
	"_NET_WM_WINDOW_TYPE_MENU":         WindowTypeMenu,
	"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU": WindowTypeMenu,
	"_NET_WM_WINDOW_TYPE_POPUP_MENU":   WindowTypeMenu,
	"_NET_WM_WINDOW_TYPE_TOOLBAR":      WindowTypeToolbar,
	"_NET_WM_WINDOW_TYPE_TOOLTIP":      WindowTypeTooltip,
	"_NET_WM_WINDOW_TYPE_NOTIFICATION": WindowTypeNotification,
	"_NET_WM_WINDOW_TYPE_SPLASH":       WindowTypeSplash,
	"_NET_WM_WINDOW_TYPE_UTILITY":      WindowTypeUtility,
}

// WindowTypeGet reads _NET_WM_WINDOW_TYPE, defaulting to Normal when
// unset (spec.md §7 kind 5).
func WindowTypeGet(c *xutil.Conn, win xproto.Window) WindowType {
	atoms, err := c.PropAtoms(win, "_NET_WM_WINDOW_TYPE")
	if err != nil || len(atoms) == 0 {
		return WindowTypeNormal
	}
	for _, a := range atoms {
		name, ok := c.AtomName(a)
		if !ok {
			continue
		}
		if t, ok := windowTypeAtoms[name]; ok {
			return t
		}
	}
	return WindowTypeNormal
}

// allowsDecorations reports whether the window type itself permits a
// server-drawn frame (spec.md §4.2: "not tooltip/notification/dock/
// menu/etc."); combine with the Motif-hint check of the same name via
// DecorationEligible.
func (t WindowType) allowsDecorations() bool {
	switch t {
	case WindowTypeTooltip, WindowTypeNotification, WindowTypeDock,
		WindowTypeMenu, WindowTypeSplash, WindowTypeUtility:
		return false
	default:
		return true
	}
}

// DecorationEligible is the full framing decision of spec.md §4.2:
// top_level AND Motif allows decorations AND the window type allows
// them.
func DecorationEligible(c *xutil.Conn, win xproto.Window, topLevel bool) bool {
	if !topLevel {
		return false
	}
	if !AllowsDecorations(c, win) {
		return false
	}
	return WindowTypeGet(c, win).allowsDecorations()
}

// State names one _NET_WM_STATE atom this core cares about.
type State int

const (
	StateNone State = iota
	StateFullscreen
)

var stateAtomName = map[State]string{
	StateFullscreen: "_NET_WM_STATE_FULLSCREEN",
}

// StateHas reports whether win's _NET_WM_STATE property lists state.
func StateHas(c *xutil.Conn, win xproto.Window, state State) bool {
	atoms, err := c.PropAtoms(win, "_NET_WM_STATE")
	if err != nil {
		return false
	}
	want, err := c.Atom(stateAtomName[state])
	if err != nil {
		return false
	}
	for _, a := range atoms {
		if a == want {
			return true
		}
	}
	return false
}

// StateAdd/StateRemove rewrite _NET_WM_STATE to add or drop one atom,
// used by the fullscreen engine's enter/exit (spec.md §4.7).
func StateAdd(c *xutil.Conn, win xproto.Window, state State) error {
	return stateRewrite(c, win, state, true)
}

func StateRemove(c *xutil.Conn, win xproto.Window, state State) error {
	return stateRewrite(c, win, state, false)
}

func stateRewrite(c *xutil.Conn, win xproto.Window, state State, add bool) error {
	want, err := c.Atom(stateAtomName[state])
	if err != nil {
		return err
	}
	atoms, _ := c.PropAtoms(win, "_NET_WM_STATE")
	out := atoms[:0]
	found := false
	for _, a := range atoms {
		if a == want {
			found = true
			if add {
				out = append(out, a)
			}
			continue
		}
		out = append(out, a)
	}
	if add && !found {
		out = append(out, want)
	}
	return c.ChangePropAtoms(win, "_NET_WM_STATE", out)
}

// EWMH _NET_WM_STATE client-message actions (spec.md §4.7, §10).
const (
	StateActionRemove = 0
	StateActionAdd    = 1
	StateActionToggle = 2
)

// EWMH _NET_WM_MOVERESIZE directions (spec.md §4.10, §10).
const (
	MoveResizeSizeBottomRight = 4
	MoveResizeMove            = 8
	MoveResizeMoveKeyboard    = 10
	MoveResizeCancel          = 11
)

// CloseWindow sends WM_DELETE_WINDOW if the client supports it,
// otherwise destroys it outright (spec.md §4.3 "Close", §4.10).
func CloseWindow(c *xutil.Conn, win xproto.Window, t xproto.Timestamp) error {
	if SupportsProtocol(c, win, "WM_DELETE_WINDOW") {
		return SendDeleteWindow(c, win, t)
	}
	return c.Destroy(win)
}

// FrameExtentsSet writes _NET_FRAME_EXTENTS (left, right, top, bottom)
// per spec.md §4.2/§4.7.
func FrameExtentsSet(c *xutil.Conn, win xproto.Window, left, right, top, bottom uint32) error {
	return c.ChangeProp32(win, "_NET_FRAME_EXTENTS", "CARDINAL", left, right, top, bottom)
}

// WmDesktopSet writes _NET_WM_DESKTOP on a top-level portal's client.
func WmDesktopSet(c *xutil.Conn, win xproto.Window, desktop int) error {
	return c.ChangeProp32(win, "_NET_WM_DESKTOP", "CARDINAL", uint32(desktop))
}

// WmDesktopGet reads _NET_WM_DESKTOP, returning (0, false) if unset
// (spec.md §4.4 adoption clamps the result into range itself).
func WmDesktopGet(c *xutil.Conn, win xproto.Window) (int, bool) {
	nums, err := c.PropNums(win, "_NET_WM_DESKTOP")
	if err != nil || len(nums) == 0 {
		return 0, false
	}
	return int(nums[0]), true
}

// WmPidGet reads _NET_WM_PID for diagnostic logging only (SPEC_FULL.md
// §4 supplemented feature; never written by this WM).
func WmPidGet(c *xutil.Conn, win xproto.Window) (int, bool) {
	nums, err := c.PropNums(win, "_NET_WM_PID")
	if err != nil || len(nums) == 0 {
		return 0, false
	}
	return int(nums[0]), true
}

// Root advertises the root-window EWMH properties spec.md §10 names:
// _NET_SUPPORTING_WM_CHECK, _NET_SUPPORTED, _NET_NUMBER_OF_DESKTOPS,
// _NET_CURRENT_DESKTOP, _NET_DESKTOP_NAMES, _NET_CLIENT_LIST,
// _NET_ACTIVE_WINDOW.
type Root struct {
	conn  *xutil.Conn
	check xproto.Window
}

const numberOfDesktops = 6

var supportedNames = []string{
	"_NET_SUPPORTED", "_NET_SUPPORTING_WM_CHECK",
	"_NET_NUMBER_OF_DESKTOPS", "_NET_CURRENT_DESKTOP", "_NET_DESKTOP_NAMES",
	"_NET_CLIENT_LIST", "_NET_ACTIVE_WINDOW",
	"_NET_WM_NAME", "_NET_WM_STATE", "_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_WM_WINDOW_TYPE_DOCK", "_NET_WM_WINDOW_TYPE_MENU",
	"_NET_WM_WINDOW_TYPE_TOOLBAR", "_NET_WM_WINDOW_TYPE_TOOLTIP",
	"_NET_WM_WINDOW_TYPE_NOTIFICATION", "_NET_WM_WINDOW_TYPE_SPLASH",
	"_NET_WM_WINDOW_TYPE_UTILITY",
	"_NET_WM_DESKTOP", "_NET_WM_PID", "_NET_FRAME_EXTENTS",
	"_NET_WM_MOVERESIZE", "_NET_CLOSE_WINDOW",
}

// NewRoot creates the hidden check window and advertises the
// supporting-WM chain (spec.md §4.10, §9 "Initialize" phase).
func NewRoot(c *xutil.Conn, wmName string) (*Root, error) {
	check, err := c.CreateFrame(-1, -1, 1, 1, 0)
	if err != nil {
		return nil, err
	}
	r := &Root{conn: c, check: check}

	if err := c.ChangePropWindows(check, "_NET_SUPPORTING_WM_CHECK", []xproto.Window{check}); err != nil {
		return nil, err
	}
	if err := c.ChangePropString(check, "_NET_WM_NAME", "UTF8_STRING", wmName); err != nil {
		return nil, err
	}
	if err := c.ChangePropWindows(c.Root, "_NET_SUPPORTING_WM_CHECK", []xproto.Window{check}); err != nil {
		return nil, err
	}
	if err := c.ChangePropString(c.Root, "_NET_WM_NAME", "UTF8_STRING", wmName); err != nil {
		return nil, err
	}

	supported := make([]xproto.Atom, 0, len(supportedNames))
	for _, name := range supportedNames {
		a, err := c.Atom(name)
		if err != nil {
			return nil, err
		}
		supported = append(supported, a)
	}
	if err := c.ChangePropAtoms(c.Root, "_NET_SUPPORTED", supported); err != nil {
		return nil, err
	}

	if err := c.ChangeProp32(c.Root, "_NET_NUMBER_OF_DESKTOPS", "CARDINAL", numberOfDesktops); err != nil {
		return nil, err
	}
	names := make([]string, numberOfDesktops)
	for i := range names {
		names[i] = itoa(i + 1)
	}
	if err := r.setDesktopNames(names); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Root) setDesktopNames(names []string) error {
	buf := make([]byte, 0, 64)
	for _, n := range names {
		buf = append(buf, n...)
		buf = append(buf, 0)
	}
	return r.conn.ChangeProp(r.conn.Root, 8, "_NET_DESKTOP_NAMES", "UTF8_STRING", buf)
}

// CurrentDesktopSet writes _NET_CURRENT_DESKTOP (spec.md §4.8 switch).
func (r *Root) CurrentDesktopSet(ws int) error {
	return r.conn.ChangeProp32(r.conn.Root, "_NET_CURRENT_DESKTOP", "CARDINAL", uint32(ws))
}

// ClientListSet recomputes _NET_CLIENT_LIST from the given top-level,
// initialized client windows (spec.md §4.10, fired on PortalMapped and
// PortalDestroyed).
func (r *Root) ClientListSet(clients []xproto.Window) error {
	return r.conn.ChangePropWindows(r.conn.Root, "_NET_CLIENT_LIST", clients)
}

// ActiveWindowSet writes _NET_ACTIVE_WINDOW (spec.md §4.10, fired on
// PortalFocused); pass 0 to clear it on destroy of the active portal.
func (r *Root) ActiveWindowSet(win xproto.Window) error {
	return r.conn.ChangePropWindows(r.conn.Root, "_NET_ACTIVE_WINDOW", []xproto.Window{win})
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
