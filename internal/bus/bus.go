// Package bus is the event bus (C2): it registers handlers by event
// tag and dispatches a tagged variant to every handler registered for
// that tag, in registration order, synchronously. It is grounded on
// the teacher's keybind/mousebind callback-table pattern
// (map[tag][]handler, Attach once at startup, Run in order) — the
// same sum-type dispatch spec.md §9 describes as "mapping cleanly to
// sum types in the target language".
package bus

import "sync"

// Tag names one kind of event the core or its collaborators fire.
// Raw X events (MapRequest, ConfigureRequest, ...) and internal
// semantic events (PortalMapped, WorkspaceSwitched, ...) share the same
// registry.
type Tag string

const (
	TagCreateNotify     Tag = "CreateNotify"
	TagMapRequest       Tag = "MapRequest"
	TagMapNotify        Tag = "MapNotify"
	TagUnmapNotify      Tag = "UnmapNotify"
	TagDestroyNotify    Tag = "DestroyNotify"
	TagConfigureRequest Tag = "ConfigureRequest"
	TagConfigureNotify  Tag = "ConfigureNotify"
	TagPropertyNotify   Tag = "PropertyNotify"
	TagClientMessage    Tag = "ClientMessage"
	TagButtonPress      Tag = "ButtonPress"
	TagButtonRelease    Tag = "ButtonRelease"
	TagMotionNotify     Tag = "MotionNotify"

	TagPortalInitialized     Tag = "PortalInitialized"
	TagPortalMapped          Tag = "PortalMapped"
	TagPortalUnmapped        Tag = "PortalUnmapped"
	TagPortalDestroyed       Tag = "PortalDestroyed"
	TagPortalRaised          Tag = "PortalRaised"
	TagPortalFocused         Tag = "PortalFocused"
	TagPortalTransformed     Tag = "PortalTransformed"
	TagPortalWorkspaceChange Tag = "PortalWorkspaceChanged"
	TagWorkspaceSwitched     Tag = "WorkspaceSwitched"
	TagUpdate                Tag = "Update"
)

// Event is any tagged event value; handlers type-assert to the concrete
// struct they expect for their tag.
type Event interface{}

// Handler reacts to one fired event.
type Handler func(Event)

// Bus is the process-global handler table (spec.md §9 lists it among
// the process singletons). Construct one with New: the zero value has
// no handler table, and On panics on it.
type Bus struct {
	mu       sync.Mutex
	handlers map[Tag][]Handler
}

func New() *Bus {
	return &Bus{handlers: make(map[Tag][]Handler)}
}

// On registers handler for tag. Handlers are appended once at startup
// via constructors (spec.md §9) and run in registration order.
func (b *Bus) On(tag Tag, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[tag] = append(b.handlers[tag], handler)
}

// Fire dispatches ev to every handler registered for tag, in
// registration order. All handlers for a given event complete before
// Fire returns (spec.md §5 ordering guarantee) — there is no
// suspension inside handlers, so this is safe to call directly from
// the event loop without any locking around portal/workspace state.
func (b *Bus) Fire(tag Tag, ev Event) {
	b.mu.Lock()
	hs := b.handlers[tag]
	b.mu.Unlock()
	for _, h := range hs {
		h(ev)
	}
}
