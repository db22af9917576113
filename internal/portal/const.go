// Package portal implements the portal registry and lifecycle (C4/C5):
// the fixed-capacity slab of managed clients, their reparenting and
// geometry protocol, and the visibility state machine. It is grounded
// on the teacher's xwindow.Window (frame creation, reparenting,
// geometry) and marwind's WM.clients map (adapted here to a
// tombstoned array per spec.md §4.1/§9 "slab with tombstones").
package portal

// Resource caps (spec.md §5).
const (
	MaxPortals           = 256
	MaxWorkspaces        = 6
	MaxWorkspacePortals  = 8
	CornerRadius         = 6
	FramelessCornerRadius = 4
	TitleBarHeight       = 26
	MinimumWidth         = 128
	MinimumHeight        = 64
	CascadeOffsetPx      = 46
	ViewportThreshold    = 0.75
	MaxEventsPerIter     = 50
)
