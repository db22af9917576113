package portal

import (
	"github.com/limeos-org/portalwm/internal/bus"
	"github.com/limeos-org/portalwm/internal/geom"
	"github.com/limeos-org/portalwm/internal/protocol"
)

// PortalMappedEvent is fired on entry into Visible.
type PortalMappedEvent struct {
	Ref      Ref
	FirstMap bool
}

// PortalUnmappedEvent is fired when leaving Visible by withdrawal or
// suspension.
type PortalUnmappedEvent struct{ Ref Ref }

// Map transitions Hidden -> Visible (or Suspended -> Visible via
// Reveal): maps the outer window, sets WM_STATE=Normal, and on first
// map positions the portal per hints (spec.md §4.3).
func (l *Lifecycle) Map(ref Ref) error {
	p, ok := l.reg.Get(ref)
	if !ok || p.Visibility == Visible {
		return nil
	}
	firstMap := !hasMappedOnce(p)
	if firstMap {
		l.positionOnFirstMap(p)
		if err := l.conn.MoveResize(p.OuterWindow(), int16(p.Geometry.X), int16(p.Geometry.Y),
			uint16(p.Geometry.Width), uint16(p.Geometry.Height)); err != nil {
			return err
		}
	}
	if err := l.conn.Map(p.OuterWindow()); err != nil {
		return err
	}
	if p.Framed() {
		if err := l.conn.Map(p.ClientWindow); err != nil {
			return err
		}
	}
	if err := protocol.WmStateSet(l.conn, p.ClientWindow, protocol.StateNormal); err != nil {
		l.conn.Log.Debug().Err(err).Msg("wm state set failed")
	}
	p.Visibility = Visible
	l.bus.Fire(bus.TagPortalMapped, PortalMappedEvent{Ref: ref, FirstMap: firstMap})
	return nil
}

// hasMappedOnce distinguishes the very first Map (which positions the
// portal) from a Reveal following a prior Suspend.
func hasMappedOnce(p *Portal) bool {
	return p.Geometry.Width > 0 && p.Geometry.Height > 0 && p.everMapped
}

// Unmap transitions Visible -> Hidden: client withdrawal (spec.md §4.3).
func (l *Lifecycle) Unmap(ref Ref) error {
	p, ok := l.reg.Get(ref)
	if !ok || p.Visibility != Visible {
		return nil
	}
	if err := l.conn.Unmap(p.OuterWindow()); err != nil {
		return err
	}
	p.Visibility = Hidden
	l.bus.Fire(bus.TagPortalUnmapped, PortalUnmappedEvent{Ref: ref})
	return nil
}

// Suspend transitions Hidden -> Suspended (no X unmap, pre-map
// deferral) or Visible -> Suspended (unmaps X, fires PortalUnmapped).
func (l *Lifecycle) Suspend(ref Ref) error {
	p, ok := l.reg.Get(ref)
	if !ok || p.Visibility == Suspended {
		return nil
	}
	wasVisible := p.Visibility == Visible
	if wasVisible {
		if err := l.conn.Unmap(p.OuterWindow()); err != nil {
			return err
		}
	}
	p.Visibility = Suspended
	if wasVisible {
		l.bus.Fire(bus.TagPortalUnmapped, PortalUnmappedEvent{Ref: ref})
	}
	return nil
}

// Reveal transitions Suspended -> Visible via Map.
func (l *Lifecycle) Reveal(ref Ref) error {
	p, ok := l.reg.Get(ref)
	if !ok || p.Visibility != Suspended {
		return nil
	}
	return l.Map(ref)
}

// positionOnFirstMap applies spec.md §4.3's positioning rule: honor
// WM_NORMAL_HINTS's requested position unless it is a toolkit default
// (0,0 or 1,1); otherwise center on the transient parent, else on
// screen.
func (l *Lifecycle) positionOnFirstMap(p *Portal) {
	p.everMapped = true
	hints := protocol.WmNormalHintsGet(l.conn, p.ClientWindow)
	hasPos := hints.Flags&(protocol.HintUSPosition|protocol.HintPPosition) != 0
	isDefault := (hints.X == 0 && hints.Y == 0) || (hints.X == 1 && hints.Y == 1)
	if hasPos && !isDefault {
		x, y := hints.X, hints.Y
		if p.Framed() {
			y -= TitleBarHeight
		}
		p.Geometry.X, p.Geometry.Y = x, y
		return
	}

	if parent, ok := l.reg.Get(p.TransientFor); ok {
		p.Geometry = centered(p.Geometry, parent.Geometry)
		return
	}
	screen := geom.Rect{X: 0, Y: 0, Width: int(l.conn.Screen.WidthInPixels), Height: int(l.conn.Screen.HeightInPixels)}
	p.Geometry = centered(p.Geometry, screen)
}

func centered(r, within geom.Rect) geom.Rect {
	r.X = within.X + (within.Width-r.Width)/2
	r.Y = within.Y + (within.Height-r.Height)/2
	return r
}
