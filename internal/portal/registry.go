package portal

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/limeos-org/portalwm/internal/bus"
	"github.com/limeos-org/portalwm/internal/protocol"
	"github.com/limeos-org/portalwm/internal/xutil"
)

// Registry is the fixed-capacity slab of spec.md §4.1/§9: a [MaxPortals]
// backing array addressed by stable Refs (tombstone pattern), plus a
// stacking-order cache rebuilt from the X tree.
type Registry struct {
	conn *xutil.Conn
	bus  *bus.Bus

	slots   [MaxPortals]Portal
	nextGen uint32
	count   int

	sorted []Ref // bottom-to-top, managed client windows only
}

func NewRegistry(conn *xutil.Conn, b *bus.Bus) *Registry {
	return &Registry{conn: conn, bus: b, nextGen: 1}
}

// ErrRegistryFull is spec.md §7 error kind 2.
var ErrRegistryFull = fmt.Errorf("portal: registry full")

// Create finds the first inactive slot for clientWindow and selects
// StructureNotify|PropertyChange on it (spec.md §4.1 "create").
func (r *Registry) Create(clientWindow xproto.Window) (Ref, error) {
	for i := range r.slots {
		if r.slots[i].active {
			continue
		}
		gen := r.nextGen
		r.nextGen++
		r.slots[i] = Portal{
			active:       true,
			gen:          gen,
			ref:          Ref{index: i, gen: gen},
			Workspace:    -1,
			ClientWindow: clientWindow,
		}
		r.count++
		if err := r.conn.SelectClientEvents(clientWindow); err != nil {
			r.conn.Log.Debug().Err(err).Msg("select client events failed")
		}
		return r.slots[i].ref, nil
	}
	r.conn.Log.Warn().Msg("portal registry full")
	return Ref{}, ErrRegistryFull
}

// Get resolves ref to its Portal, rejecting stale refs whose slot has
// been reused (different generation) or freed.
func (r *Registry) Get(ref Ref) (*Portal, bool) {
	if ref.Zero() || ref.index < 0 || ref.index >= MaxPortals {
		return nil, false
	}
	p := &r.slots[ref.index]
	if !p.active || p.gen != ref.gen {
		return nil, false
	}
	return p, true
}

// Destroy attempts a graceful close via WM_DELETE_WINDOW if supported,
// otherwise forces XDestroyWindow; the slot itself is only freed once
// the client window is actually gone (DestroyNotify), via Forget.
func (r *Registry) Destroy(ref Ref, t xproto.Timestamp) error {
	p, ok := r.Get(ref)
	if !ok || p.destroying {
		return nil
	}
	p.destroying = true
	return protocol.CloseWindow(r.conn, p.ClientWindow, t)
}

// Forget frees ref's slot after its client window is confirmed gone
// (DestroyNotify). Fires PortalDestroyed before clearing so handlers
// may still read the portal (spec.md §3 "Lifecycles").
func (r *Registry) Forget(ref Ref) {
	p, ok := r.Get(ref)
	if !ok {
		return
	}
	r.bus.Fire(bus.TagPortalDestroyed, PortalDestroyedEvent{Ref: ref, Portal: *p})
	r.slots[ref.index] = Portal{}
	r.count--
	r.removeFromSorted(ref)
}

// FindByWindow linear-scans for a portal whose client or frame window
// matches w.
func (r *Registry) FindByWindow(w xproto.Window) (Ref, bool) {
	for i := range r.slots {
		p := &r.slots[i]
		if !p.active {
			continue
		}
		if p.ClientWindow == w || p.FrameWindow == w {
			return p.ref, true
		}
	}
	return Ref{}, false
}

// FindOrCreate returns the existing portal for w, or creates one if w
// is a direct child of root and not one of this WM's own frame windows
// (spec.md §4.1 "find_or_create").
func (r *Registry) FindOrCreate(w xproto.Window) (Ref, error) {
	if ref, ok := r.FindByWindow(w); ok {
		return ref, nil
	}
	parent, err := r.conn.Parent(w)
	if err != nil {
		return Ref{}, err
	}
	if parent != r.conn.Root {
		return Ref{}, fmt.Errorf("portal: %d is not a direct child of root", w)
	}
	return r.Create(w)
}

// FindAt iterates sorted top-down and returns the topmost Visible
// portal whose outer window covers (x, y).
func (r *Registry) FindAt(x, y int) (Ref, bool) {
	for i := len(r.sorted) - 1; i >= 0; i-- {
		ref := r.sorted[i]
		p, ok := r.Get(ref)
		if !ok || p.Visibility != Visible {
			continue
		}
		if p.Geometry.Contains(x, y) {
			return ref, true
		}
	}
	return Ref{}, false
}

// GetUnsorted returns every active portal's Ref in slab order.
func (r *Registry) GetUnsorted() []Ref {
	out := make([]Ref, 0, r.count)
	for i := range r.slots {
		if r.slots[i].active {
			out = append(out, r.slots[i].ref)
		}
	}
	return out
}

// GetSorted returns the stacking-order cache, bottom-to-top.
func (r *Registry) GetSorted() []Ref {
	return r.sorted
}

// Count reports the number of active slots.
func (r *Registry) Count() int { return r.count }

// FindTransientRoot follows TransientFor to its root, with a depth
// guard of MaxPortals to defend against a corrupted cycle (spec.md
// §4.1 "find_transient_root").
func (r *Registry) FindTransientRoot(ref Ref) Ref {
	cur := ref
	for i := 0; i < MaxPortals; i++ {
		p, ok := r.Get(cur)
		if !ok || p.TransientFor.Zero() {
			return cur
		}
		parent, ok := r.Get(p.TransientFor)
		if !ok {
			return cur
		}
		cur = parent.ref
	}
	return cur
}

// RebuildSorted walks the X tree from root and rebuilds the stacking
// cache, retaining only windows that match an active portal's client
// window, in X stacking order (spec.md §4.1).
func (r *Registry) RebuildSorted() error {
	byClient := make(map[xproto.Window]Ref, r.count)
	for i := range r.slots {
		if r.slots[i].active {
			byClient[r.slots[i].ClientWindow] = r.slots[i].ref
		}
	}
	sorted := r.sorted[:0]
	err := r.conn.WalkTree(r.conn.Root, func(w xproto.Window) {
		if ref, ok := byClient[w]; ok {
			sorted = append(sorted, ref)
		}
	})
	if err != nil {
		return err
	}
	r.sorted = sorted
	return nil
}

func (r *Registry) removeFromSorted(ref Ref) {
	out := r.sorted[:0]
	for _, s := range r.sorted {
		if s != ref {
			out = append(out, s)
		}
	}
	r.sorted = out
}

// PortalDestroyedEvent is fired on Forget (spec.md §3).
type PortalDestroyedEvent struct {
	Ref    Ref
	Portal Portal
}
