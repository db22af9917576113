package portal

import (
	"github.com/limeos-org/portalwm/internal/geom"
	"github.com/limeos-org/portalwm/internal/protocol"
)

// Adopt scans root's current children at startup and creates a portal
// for each one that is not override-redirect, is viewable, and is not
// already tracked (spec.md §4.4). Each adopted portal's workspace comes
// from _NET_WM_DESKTOP clamped to [0, MaxWorkspaces), and it is mapped
// if that equals currentWorkspace, else suspended. Adoption bypasses
// the per-workspace portal limit entirely.
func (l *Lifecycle) Adopt(currentWorkspace int) error {
	children, err := l.conn.Children(l.conn.Root)
	if err != nil {
		return err
	}
	for _, w := range children {
		if _, ok := l.reg.FindByWindow(w); ok {
			continue
		}
		attrs, err := l.conn.Attributes(w)
		if err != nil || attrs.OverrideRedirect || !attrs.Viewable {
			continue
		}
		ref, err := l.reg.Create(w)
		if err != nil {
			continue
		}
		if err := l.Initialize(ref); err != nil {
			l.conn.Log.Debug().Err(err).Msg("adoption initialize failed")
			continue
		}
		p, ok := l.reg.Get(ref)
		if !ok {
			continue
		}
		ws := currentWorkspace
		if raw, ok := protocol.WmDesktopGet(l.conn, w); ok {
			ws = geom.Clamp(raw, 0, MaxWorkspaces-1)
		}
		p.Workspace = ws
		if ws == currentWorkspace {
			if err := l.Map(ref); err != nil {
				l.conn.Log.Debug().Err(err).Msg("adoption map failed")
			}
		} else {
			if err := l.Suspend(ref); err != nil {
				l.conn.Log.Debug().Err(err).Msg("adoption suspend failed")
			}
		}
	}
	return nil
}
