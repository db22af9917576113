package protocol

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/limeos-org/portalwm/internal/xutil"
)

// Motif hint bits, grounded on the teacher's motif.go.
const (
	motifHintDecorations = 1 << 1
	motifDecorationAll   = 1 << 0
	motifDecorationTitle = 1 << 3
)

// motifHints is the subset of _MOTIF_WM_HINTS this core inspects: does
// the client ask for decorations to be suppressed.
type motifHints struct {
	flags       uint32
	decoration  uint32
}

func motifHintsGet(c *xutil.Conn, win xproto.Window) (motifHints, bool) {
	nums, err := c.PropNums(win, "_MOTIF_WM_HINTS")
	if err != nil || len(nums) < 3 {
		return motifHints{}, false
	}
	return motifHints{flags: nums[0], decoration: nums[2]}, true
}

// AllowsDecorations reports whether win's Motif hints permit the WM to
// draw decorations, used by the framing decision in spec.md §4.2. A
// missing property means "no opinion" (allowed), per spec.md §7 kind 5.
func AllowsDecorations(c *xutil.Conn, win xproto.Window) bool {
	h, ok := motifHintsGet(c, win)
	if !ok {
		return true
	}
	if h.flags&motifHintDecorations == 0 {
		return true
	}
	if h.decoration&motifDecorationAll != 0 {
		return true
	}
	return h.decoration&motifDecorationTitle != 0
}
