package portal

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/limeos-org/portalwm/internal/geom"
	"github.com/limeos-org/portalwm/internal/protocol"
)

// Visibility is the portal's place in the state machine of spec.md §4.3.
type Visibility int

const (
	Hidden Visibility = iota
	Visible
	Suspended
)

func (v Visibility) String() string {
	switch v {
	case Visible:
		return "Visible"
	case Suspended:
		return "Suspended"
	default:
		return "Hidden"
	}
}

// Theme is the resolved per-portal decoration palette (spec.md §3);
// resolution itself lives in internal/decoration, driven by the
// out-of-scope theme collaborator.
type Theme int

const (
	ThemeUnresolved Theme = iota
	ThemeLight
	ThemeDark
)

// Ref is a stable reference to a portal slot: an index plus a
// generation counter, so a stale Ref from before the slot was reused
// by a later create() is detectable rather than silently aliasing a
// different portal (spec.md §9 "generation-guarded pointer").
type Ref struct {
	index int
	gen   uint32
}

// Zero reports whether r is the unset reference (spec.md's "none").
func (r Ref) Zero() bool { return r.gen == 0 }

// Portal is the central entity of spec.md §3: one managed client plus
// its optional frame.
type Portal struct {
	active      bool
	gen         uint32
	ref         Ref
	destroying  bool
	everMapped  bool

	Title             string
	Initialized       bool
	TopLevel          bool
	TransientFor      Ref
	Visibility        Visibility
	OverrideRedirect  bool
	Fullscreen        bool
	Workspace         int // [0, MaxWorkspaces) or -1 if unassigned

	Geometry         geom.Rect
	GeometryBackup   geom.Rect
	FloatingBackup   geom.Rect

	FrameWindow  xproto.Window
	ClientWindow xproto.Window
	WindowType   protocol.WindowType

	Misaligned bool
	Theme      Theme
	Class      string // WM_CLASS, cached for cascade grouping (spec.md §4.8)
	Pid        int    // _NET_WM_PID, diagnostic only (SPEC_FULL.md §4)
}

// Ref returns this portal's stable reference.
func (p *Portal) Ref() Ref { return p.ref }

// Framed reports whether the portal owns a decorative frame.
func (p *Portal) Framed() bool { return p.FrameWindow != 0 }

// OuterWindow is the window that carries the portal's outer geometry:
// the frame if present, else the client itself (spec.md §4.2 "Move").
func (p *Portal) OuterWindow() xproto.Window {
	if p.Framed() {
		return p.FrameWindow
	}
	return p.ClientWindow
}
