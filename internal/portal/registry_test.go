package portal

import (
	"testing"

	"github.com/limeos-org/portalwm/internal/geom"
	"github.com/stretchr/testify/assert"
)

// newTestRegistry builds a Registry with slots populated directly,
// bypassing Create (which needs a live *xutil.Conn to select client
// events) — the generation/tombstone bookkeeping these tests cover is
// pure logic over the slab, per SPEC_FULL.md §1.4's testing split.
func newTestRegistry() *Registry {
	return &Registry{nextGen: 1}
}

func (r *Registry) put(i int, p Portal) Ref {
	gen := r.nextGen
	r.nextGen++
	p.active = true
	p.gen = gen
	p.ref = Ref{index: i, gen: gen}
	r.slots[i] = p
	r.count++
	return p.ref
}

func TestGetRejectsStaleGeneration(t *testing.T) {
	r := newTestRegistry()
	ref := r.put(0, Portal{ClientWindow: 100})

	r.slots[0] = Portal{} // simulate Forget clearing the slot
	r.count--
	stale := ref // the caller's old Ref, now aliasing a freed slot

	_, ok := r.Get(stale)
	assert.False(t, ok, "a Ref from before Forget must not resolve")
}

func TestGetRejectsOutOfRange(t *testing.T) {
	r := newTestRegistry()
	_, ok := r.Get(Ref{index: MaxPortals, gen: 1})
	assert.False(t, ok)
	_, ok = r.Get(Ref{index: -1, gen: 1})
	assert.False(t, ok)
}

func TestGetZeroRefNeverResolves(t *testing.T) {
	r := newTestRegistry()
	r.put(0, Portal{ClientWindow: 100})
	_, ok := r.Get(Ref{})
	assert.False(t, ok)
}

func TestFindByWindowMatchesClientOrFrame(t *testing.T) {
	r := newTestRegistry()
	ref := r.put(0, Portal{ClientWindow: 100, FrameWindow: 200})

	got, ok := r.FindByWindow(100)
	assert.True(t, ok)
	assert.Equal(t, ref, got)

	got, ok = r.FindByWindow(200)
	assert.True(t, ok)
	assert.Equal(t, ref, got)

	_, ok = r.FindByWindow(999)
	assert.False(t, ok)
}

func TestFindAtTopmostVisibleWins(t *testing.T) {
	r := newTestRegistry()
	bottom := r.put(0, Portal{ClientWindow: 1, Visibility: Visible, Geometry: geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}})
	top := r.put(1, Portal{ClientWindow: 2, Visibility: Visible, Geometry: geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}})
	r.sorted = []Ref{bottom, top}

	got, ok := r.FindAt(50, 50)
	assert.True(t, ok)
	assert.Equal(t, top, got, "topmost overlapping portal should win")
}

func TestFindAtSkipsHiddenPortals(t *testing.T) {
	r := newTestRegistry()
	hidden := r.put(0, Portal{ClientWindow: 1, Visibility: Hidden, Geometry: geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}})
	r.sorted = []Ref{hidden}

	_, ok := r.FindAt(50, 50)
	assert.False(t, ok, "a Hidden portal must not be hit-tested")
}

func TestFindAtOutsideGeometryMisses(t *testing.T) {
	r := newTestRegistry()
	ref := r.put(0, Portal{ClientWindow: 1, Visibility: Visible, Geometry: geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}})
	r.sorted = []Ref{ref}

	_, ok := r.FindAt(500, 500)
	assert.False(t, ok)
}

func TestCountTracksActiveSlots(t *testing.T) {
	r := newTestRegistry()
	assert.Equal(t, 0, r.Count())
	r.put(0, Portal{ClientWindow: 1})
	r.put(1, Portal{ClientWindow: 2})
	assert.Equal(t, 2, r.Count())
}

func TestFindTransientRootFollowsChain(t *testing.T) {
	r := newTestRegistry()
	root := r.put(0, Portal{ClientWindow: 1})
	mid := r.put(1, Portal{ClientWindow: 2, TransientFor: root})
	leaf := r.put(2, Portal{ClientWindow: 3, TransientFor: mid})

	assert.Equal(t, root, r.FindTransientRoot(leaf))
	assert.Equal(t, root, r.FindTransientRoot(root), "a non-transient portal is its own root")
}

func TestFindTransientRootStopsOnBrokenLink(t *testing.T) {
	r := newTestRegistry()
	dangling := Ref{index: 99, gen: 7} // never populated
	leaf := r.put(0, Portal{ClientWindow: 1, TransientFor: dangling})

	assert.Equal(t, leaf, r.FindTransientRoot(leaf), "a broken TransientFor link should stop at the current portal")
}
