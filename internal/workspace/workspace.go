package workspace

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/limeos-org/portalwm/internal/bus"
	"github.com/limeos-org/portalwm/internal/geom"
	"github.com/limeos-org/portalwm/internal/portal"
	"github.com/limeos-org/portalwm/internal/protocol"
	"github.com/limeos-org/portalwm/internal/xutil"
)

// LayoutMode is a workspace's arrangement strategy (spec.md §3).
type LayoutMode int

const (
	Floating LayoutMode = iota
	Tiling
)

// Workspace is the implicit per-desktop entity of spec.md §3.
type Workspace struct {
	Layout      LayoutMode
	TileOrder   []portal.Ref
	LastFocused portal.Ref
}

// Manager owns the six workspaces and reacts to the bus events that
// drive layout (spec.md §4.8), grounded on marwind's per-workspace
// client bookkeeping generalized to the spec's explicit tile/cascade
// rules.
type Manager struct {
	conn *xutil.Conn
	reg  *portal.Registry
	lc   *portal.Lifecycle
	bus  *bus.Bus
	root *protocol.Root

	workspaces [portal.MaxWorkspaces]Workspace
	current    int
	gap        int
	retiling   bool
}

func NewManager(conn *xutil.Conn, reg *portal.Registry, lc *portal.Lifecycle, b *bus.Bus, root *protocol.Root, tileGap int) *Manager {
	m := &Manager{conn: conn, reg: reg, lc: lc, bus: b, root: root, gap: tileGap}
	lc.TiledFunc = m.isTiled

	b.On(bus.TagPortalMapped, m.onMapped)
	b.On(bus.TagPortalDestroyed, m.onDestroyed)
	b.On(bus.TagPortalTransformed, m.onTransformed)
	b.On(bus.TagPortalFocused, m.onFocused)
	return m
}

func (m *Manager) screen() geom.Rect {
	return geom.Rect{X: 0, Y: 0, Width: int(m.conn.Screen.WidthInPixels), Height: int(m.conn.Screen.HeightInPixels)}
}

func (m *Manager) isTiled(ref portal.Ref) bool {
	p, ok := m.reg.Get(ref)
	if !ok {
		return false
	}
	ws := &m.workspaces[p.Workspace]
	if ws.Layout != Tiling {
		return false
	}
	for _, r := range ws.TileOrder {
		if r == ref {
			return true
		}
	}
	return false
}

// tileEligible reports whether ref counts toward a workspace's tile
// order / portal limit: non-transient, non-override-redirect.
func (m *Manager) tileEligible(p *portal.Portal) bool {
	return p.TransientFor.Zero() && !p.OverrideRedirect && p.TopLevel
}

// CountWorkspacePortals counts non-transient, non-override-redirect,
// non-hidden portals on ws (spec.md §3 invariant, §4.8 "Portal limit").
func (m *Manager) CountWorkspacePortals(ws int) int {
	n := 0
	for _, ref := range m.reg.GetUnsorted() {
		p, ok := m.reg.Get(ref)
		if !ok || p.Workspace != ws || p.Visibility == portal.Hidden {
			continue
		}
		if m.tileEligible(p) {
			n++
		}
	}
	return n
}

// CanMapInto reports whether ref may map or move into ws, honoring
// MaxWorkspacePortals (spec.md §4.8 "Portal limit"; transients exempt).
func (m *Manager) CanMapInto(ws int, ref portal.Ref) bool {
	p, ok := m.reg.Get(ref)
	if !ok || !m.tileEligible(p) {
		return true
	}
	return m.CountWorkspacePortals(ws) < portal.MaxWorkspacePortals
}

// Current returns the active workspace index.
func (m *Manager) Current() int { return m.current }

// onMapped applies the first-map cascade / auto-tile trigger and
// recomputes tiling if the workspace is already in Tiling mode
// (spec.md §4.8).
func (m *Manager) onMapped(ev bus.Event) {
	e := ev.(portal.PortalMappedEvent)
	p, ok := m.reg.Get(e.Ref)
	if !ok || !e.FirstMap || !m.tileEligible(p) {
		return
	}
	ws := &m.workspaces[p.Workspace]

	if ws.Layout == Floating {
		if sibling, ok := m.topmostSameClass(p); ok {
			pos := CascadePosition(sibling.Geometry, p.Geometry)
			m.lc.Move(e.Ref, pos.X, pos.Y)
		}
		screen := m.screen()
		if AutoTileTrigger(p.Geometry.Width, p.Geometry.Height, screen.Width, screen.Height) {
			ws.Layout = Tiling
		}
	}

	ws.TileOrder = append(ws.TileOrder, e.Ref)
	if ws.Layout == Tiling {
		m.recomputeTiling(p.Workspace)
	}

	if m.root != nil {
		m.root.ClientListSet(m.clientList())
	}
}

// topmostSameClass finds the highest-stacked visible sibling on p's
// workspace sharing its WM_CLASS (spec.md §4.8 "First-map cascade").
func (m *Manager) topmostSameClass(p *portal.Portal) (*portal.Portal, bool) {
	sorted := m.reg.GetSorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		o, ok := m.reg.Get(sorted[i])
		if !ok || o.Ref() == p.Ref() {
			continue
		}
		if o.Workspace == p.Workspace && o.Visibility == portal.Visible && o.Class == p.Class && p.Class != "" {
			return o, true
		}
	}
	return nil, false
}

func (m *Manager) onDestroyed(ev bus.Event) {
	e := ev.(portal.PortalDestroyedEvent)
	for ws := range m.workspaces {
		m.removeFromTileOrder(ws, e.Ref)
		if m.workspaces[ws].LastFocused == e.Ref {
			m.workspaces[ws].LastFocused = portal.Ref{}
		}
	}
	if e.Portal.Workspace >= 0 && m.workspaces[e.Portal.Workspace].Layout == Tiling {
		m.recomputeTiling(e.Portal.Workspace)
	}
	if m.root != nil {
		m.root.ClientListSet(m.clientList())
	}
}

func (m *Manager) removeFromTileOrder(ws int, ref portal.Ref) {
	order := m.workspaces[ws].TileOrder
	out := order[:0]
	for _, r := range order {
		if r != ref {
			out = append(out, r)
		}
	}
	m.workspaces[ws].TileOrder = out
}

// onTransformed updates a portal's floating backup unless the change
// was caused by the tiling engine itself (spec.md §4.8's re-entrancy
// flag).
func (m *Manager) onTransformed(ev bus.Event) {
	if m.retiling {
		return
	}
	e := ev.(portal.PortalTransformedEvent)
	p, ok := m.reg.Get(e.Ref)
	if !ok {
		return
	}
	p.FloatingBackup = p.Geometry
}

func (m *Manager) onFocused(ev bus.Event) {
	e := ev.(portal.PortalFocusedEvent)
	p, ok := m.reg.Get(e.Ref)
	if !ok {
		return
	}
	m.workspaces[p.Workspace].LastFocused = e.Ref
	if m.root != nil {
		m.root.ActiveWindowSet(p.ClientWindow)
	}
}

func (m *Manager) clientList() []xproto.Window {
	var out []xproto.Window
	for _, ref := range m.reg.GetSorted() {
		p, ok := m.reg.Get(ref)
		if !ok || !p.Initialized || !p.TopLevel {
			continue
		}
		out = append(out, p.ClientWindow)
	}
	return out
}

// recomputeTiling applies the TileRects recipe to ws's tile order,
// suppressing floating-backup writes for the duration (spec.md §4.8).
func (m *Manager) recomputeTiling(ws int) {
	order := m.workspaces[ws].TileOrder
	if len(order) == 0 || len(order) > portal.MaxWorkspacePortals {
		return
	}
	rects := TileRects(len(order), m.screen(), m.gap)
	if rects == nil {
		return
	}
	m.retiling = true
	for i, ref := range order {
		m.lc.MoveResize(ref, rects[i].X, rects[i].Y, rects[i].Width, rects[i].Height)
	}
	m.retiling = false
}

// ToggleLayout flips the current workspace between Floating and Tiling
// (spec.md §4.8 "Toggle to Floating" / tiling recompute).
func (m *Manager) ToggleLayout() {
	ws := &m.workspaces[m.current]
	if ws.Layout == Tiling {
		ws.Layout = Floating
		lastFloating := make([]geom.Rect, 0, len(ws.TileOrder))
		eligible := make([]portal.Ref, 0, len(ws.TileOrder))
		for _, ref := range m.sortedTileOrder(ws.TileOrder) {
			p, ok := m.reg.Get(ref)
			if !ok {
				continue
			}
			lastFloating = append(lastFloating, p.FloatingBackup)
			eligible = append(eligible, ref)
		}
		placed := ToggleToFloating(lastFloating, m.screen())
		for i, ref := range eligible {
			m.lc.MoveResize(ref, placed[i].X, placed[i].Y, placed[i].Width, placed[i].Height)
		}
		return
	}
	ws.Layout = Tiling
	m.recomputeTiling(m.current)
}

// sortedTileOrder returns order filtered to the current stacking
// order (bottom-to-top), per spec.md §4.8 "Toggle to Floating".
func (m *Manager) sortedTileOrder(order []portal.Ref) []portal.Ref {
	set := make(map[portal.Ref]bool, len(order))
	for _, r := range order {
		set[r] = true
	}
	out := make([]portal.Ref, 0, len(order))
	for _, r := range m.reg.GetSorted() {
		if set[r] {
			out = append(out, r)
		}
	}
	return out
}

// Switch moves to workspace target: suspends outgoing portals,
// reveals incoming ones, and restores focus (spec.md §4.8 "Switch").
func (m *Manager) Switch(target int) {
	if target == m.current || target < 0 || target >= portal.MaxWorkspaces {
		return
	}
	outgoing := m.current
	for _, ref := range m.reg.GetUnsorted() {
		p, ok := m.reg.Get(ref)
		if !ok || p.OverrideRedirect || p.Workspace < 0 || !p.Initialized {
			continue
		}
		switch p.Workspace {
		case outgoing:
			m.lc.Suspend(ref)
		case target:
			m.lc.Reveal(ref)
		}
	}
	m.current = target

	focus := m.workspaces[target].LastFocused
	if _, ok := m.reg.Get(focus); !ok {
		focus = m.topmostVisible(target)
	}
	if _, ok := m.reg.Get(focus); ok {
		m.lc.Focus(focus, 0)
	}
	if m.root != nil {
		m.root.CurrentDesktopSet(target)
	}
	m.bus.Fire(bus.TagWorkspaceSwitched, WorkspaceSwitchedEvent{From: outgoing, To: target})
}

func (m *Manager) topmostVisible(ws int) portal.Ref {
	sorted := m.reg.GetSorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		p, ok := m.reg.Get(sorted[i])
		if ok && p.Workspace == ws && p.Visibility == portal.Visible {
			return sorted[i]
		}
	}
	return portal.Ref{}
}

// MovePortalToWorkspace moves ref's transient group to target,
// honoring the portal limit on the non-transient root (spec.md §4.8
// "Move portal to workspace").
func (m *Manager) MovePortalToWorkspace(ref portal.Ref, target int) bool {
	root := m.reg.FindTransientRoot(ref)
	if !m.CanMapInto(target, root) {
		return false
	}
	for _, r := range append([]portal.Ref{root}, m.transientsOf(root)...) {
		p, ok := m.reg.Get(r)
		if !ok {
			continue
		}
		fromWS := p.Workspace
		if p.Visibility == portal.Visible {
			m.lc.Suspend(r)
		}
		m.removeFromTileOrder(fromWS, r)
		p.Workspace = target
		protocol.WmDesktopSet(m.conn, p.ClientWindow, target)
		if target == m.current {
			m.lc.Reveal(r)
			m.workspaces[target].TileOrder = append(m.workspaces[target].TileOrder, r)
		}
		m.bus.Fire(bus.TagPortalWorkspaceChange, PortalWorkspaceChangedEvent{Ref: r, From: fromWS, To: target})
	}
	if m.workspaces[target].Layout == Tiling {
		m.recomputeTiling(target)
	}
	m.workspaces[target].LastFocused = root
	return true
}

func (m *Manager) transientsOf(root portal.Ref) []portal.Ref {
	var out []portal.Ref
	for _, ref := range m.reg.GetUnsorted() {
		if ref == root {
			continue
		}
		if m.reg.FindTransientRoot(ref) == root {
			out = append(out, ref)
		}
	}
	return out
}

// WorkspaceSwitchedEvent is fired on Switch.
type WorkspaceSwitchedEvent struct{ From, To int }

// PortalWorkspaceChangedEvent is fired per-portal on
// MovePortalToWorkspace.
type PortalWorkspaceChangedEvent struct {
	Ref      portal.Ref
	From, To int
}
