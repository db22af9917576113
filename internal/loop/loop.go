// Package loop implements the single-threaded event loop (C3): it
// drains X events in bounded batches, converts them into bus.Event
// values, and fires Update at the configured framerate. Grounded on
// the teacher's own multiple-source-event-loop example, which
// combines xgb.Conn.WaitForEvent (run from a goroutine, fed into a
// channel) with other event sources behind one outer `select` —
// github.com/BurntSushi/xgb exposes no raw file descriptor for a
// literal select(2) the way spec.md's "select on the display FD"
// describes, so this channel-based multiplexing is the idiomatic Go
// substitute for that same cooperative, single-threaded dispatch.
package loop

import (
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/limeos-org/portalwm/internal/bus"
	"github.com/limeos-org/portalwm/internal/decoration"
	"github.com/limeos-org/portalwm/internal/interaction"
	"github.com/limeos-org/portalwm/internal/xutil"
)

// maxEventsPerIteration bounds how many queued X events are drained
// before Update is reconsidered (spec.md §4.11 step 2, P7).
const maxEventsPerIteration = 50

// Loop owns the goroutine reading X events and the outer dispatch
// select.
type Loop struct {
	conn *xutil.Conn
	bus  *bus.Bus

	events   chan xgb.Event
	errs     chan xgb.Error
	throttle time.Duration
}

// New starts the background reader goroutine and returns a Loop ready
// for Run. framerate must already be resolved once at Initialize
// (spec.md §9 — "Source reads it once at Initialize").
func New(conn *xutil.Conn, b *bus.Bus, framerate int) *Loop {
	if framerate <= 0 {
		framerate = 60
	}
	l := &Loop{
		conn:     conn,
		bus:      b,
		events:   make(chan xgb.Event, 256),
		errs:     make(chan xgb.Error, 16),
		throttle: time.Second / time.Duration(framerate),
	}
	go l.readEvents()
	return l
}

// readEvents is the teacher's xSource goroutine pattern, adapted to
// push real xgb events instead of synthetic client messages.
func (l *Loop) readEvents() {
	for {
		ev, err := l.conn.X.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		if err != nil {
			select {
			case l.errs <- err:
			default:
			}
			continue
		}
		l.events <- ev
	}
}

// Run is the outer cooperative loop of spec.md §4.11: wait for either
// the next X event or the throttle tick, drain up to
// maxEventsPerIteration events, dispatch each, then fire Update if the
// throttle window has elapsed. It returns when done is closed.
func (l *Loop) Run(done <-chan struct{}) {
	ticker := time.NewTicker(l.throttle)
	defer ticker.Stop()
	lastUpdate := time.Now()

	for {
		select {
		case <-done:
			return
		case ev := <-l.events:
			l.dispatch(ev)
			l.drainBatch(maxEventsPerIteration - 1)
		case err := <-l.errs:
			l.conn.Log.Debug().Err(err).Msg("X protocol error")
		case <-ticker.C:
		}

		if time.Since(lastUpdate) >= l.throttle {
			l.bus.Fire(bus.TagUpdate, struct{}{})
			lastUpdate = time.Now()
		}
	}
}

// drainBatch pulls up to n more already-queued events without
// blocking, completing the "bounded batch" half of spec.md §4.11 step
// 2 (the first event of the batch is consumed by Run's select).
func (l *Loop) drainBatch(n int) {
	for i := 0; i < n; i++ {
		select {
		case ev := <-l.events:
			l.dispatch(ev)
		default:
			return
		}
	}
}

// dispatch converts one raw xgb event into its bus.Event and fires it
// (spec.md §4.11 steps 3-4). XInput2 raw variants are not produced
// here since no maintained xgb XInput2 binding exists in this corpus
// (see SPEC_FULL.md's XInput2 substitution note) — core ButtonPress/
// ButtonRelease/MotionNotify events are fired instead, which is
// already the shape interaction.Engine expects.
func (l *Loop) dispatch(ev xgb.Event) {
	switch e := ev.(type) {
	case xproto.CreateNotifyEvent:
		l.bus.Fire(bus.TagCreateNotify, e)
	case xproto.MapRequestEvent:
		l.bus.Fire(bus.TagMapRequest, e)
	case xproto.MapNotifyEvent:
		l.bus.Fire(bus.TagMapNotify, e)
	case xproto.UnmapNotifyEvent:
		l.bus.Fire(bus.TagUnmapNotify, e)
	case xproto.DestroyNotifyEvent:
		l.bus.Fire(bus.TagDestroyNotify, e)
	case xproto.ConfigureRequestEvent:
		l.bus.Fire(bus.TagConfigureRequest, e)
	case xproto.ConfigureNotifyEvent:
		l.bus.Fire(bus.TagConfigureNotify, e)
	case xproto.PropertyNotifyEvent:
		l.bus.Fire(bus.TagPropertyNotify, decoration.PropertyNotifyEvent{
			Window: e.Window, Atom: e.Atom,
		})
	case xproto.ClientMessageEvent:
		l.bus.Fire(bus.TagClientMessage, e)
	case xproto.ButtonPressEvent:
		l.bus.Fire(bus.TagButtonPress, interaction.ButtonPressEvent{
			RootX: e.RootX, RootY: e.RootY, Child: e.Child, Button: e.Detail, Time: e.Time,
		})
	case xproto.ButtonReleaseEvent:
		l.bus.Fire(bus.TagButtonRelease, interaction.ButtonReleaseEvent{Button: e.Detail})
	case xproto.MotionNotifyEvent:
		l.bus.Fire(bus.TagMotionNotify, interaction.MotionNotifyEvent{RootX: e.RootX, RootY: e.RootY})
	}
}
