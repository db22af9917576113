// Command portalwm is the reparenting/compositing window manager
// process: it dials the X display, runs the two-phase Prepare/
// Initialize startup of spec.md §9, then drives the event loop until
// a signal asks it to exit. Grounded on cogentcore-core's cmd/root.go
// cobra.Command + viper wiring, the only cobra+viper user in this
// corpus.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/limeos-org/portalwm/internal/bus"
	"github.com/limeos-org/portalwm/internal/compositor"
	"github.com/limeos-org/portalwm/internal/config"
	"github.com/limeos-org/portalwm/internal/decoration"
	"github.com/limeos-org/portalwm/internal/fullscreen"
	"github.com/limeos-org/portalwm/internal/interaction"
	"github.com/limeos-org/portalwm/internal/loop"
	"github.com/limeos-org/portalwm/internal/marker"
	"github.com/limeos-org/portalwm/internal/portal"
	"github.com/limeos-org/portalwm/internal/protocol"
	"github.com/limeos-org/portalwm/internal/workspace"
	"github.com/limeos-org/portalwm/internal/xutil"
)

var (
	flagConfig   string
	flagDisplay  string
	flagLogLevel string
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portalwm",
		Short: "A reparenting, compositing X11 window manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&flagConfig, "config", "", "path to the config file (default: built-in defaults only)")
	cmd.Flags().StringVar(&flagDisplay, "display", "", "X display to connect to (default: $DISPLAY)")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
	return cmd
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run implements the two-phase startup of spec.md §9: Prepare (atom
// interning, config read) then Initialize (registrations, first
// draw), followed by the event loop until ctx is cancelled.
func run(ctx context.Context) error {
	level, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()

	cfg, err := config.Load(flagConfig, log)
	if err != nil {
		return fmt.Errorf("portalwm: %w", err)
	}

	conn, err := xutil.Dial(flagDisplay, log)
	if err != nil {
		return fmt.Errorf("portalwm: %w", err)
	}
	defer conn.Close()

	if err := conn.SelectRootEvents(); err != nil {
		return fmt.Errorf("portalwm: select root events: %w", err)
	}

	root, err := protocol.NewRoot(conn, "portalwm")
	if err != nil {
		return fmt.Errorf("portalwm: ewmh root setup: %w", err)
	}

	b := bus.New()
	reg := portal.NewRegistry(conn, b)
	lc := portal.NewLifecycle(conn, reg, b)

	tileGap := cfg.GetInt("tile_gap", 6)
	ws := workspace.NewManager(conn, reg, lc, b, root, tileGap)

	deck := marker.New(conn)
	if err := deck.Prepare(); err != nil {
		log.Warn().Err(err).Msg("marker deck unavailable, cursor hints disabled")
	}

	decor := decoration.NewEngine(conn, reg, b)
	decor.Register()

	framerate := cfg.GetInt("framerate", 60)
	ia := interaction.NewEngine(conn, reg, lc, b, deck, decor, framerate)
	ia.ArrangeFunc = ws.ToggleLayout
	ia.Register()

	fs := fullscreen.NewEngine(conn, reg, lc, b)

	comp := compositor.NewEngine(conn, reg, b)
	comp.Init()
	if comp.Enabled() {
		log.Info().Msg("composite extension available, compositing enabled")
	} else {
		log.Warn().Msg("composite extension unavailable, running without shadows/rounded corners")
	}

	b.On(bus.TagClientMessage, func(ev bus.Event) {
		dispatchClientMessage(conn, fs, ev)
	})

	if err := lc.Adopt(ws.Current()); err != nil {
		log.Warn().Err(err).Msg("adoption scan failed")
	}
	if err := reg.RebuildSorted(); err != nil {
		log.Warn().Err(err).Msg("initial stacking rebuild failed")
	}

	l := loop.New(conn, b, framerate)

	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(done)
	}()
	l.Run(done)
	return nil
}

// dispatchClientMessage narrows a raw ClientMessageEvent down to the
// _NET_WM_STATE fullscreen toggle. No other client message is acted
// on: _NET_WM_MOVERESIZE and _NET_CLOSE_WINDOW, although listed in
// _NET_SUPPORTED, are ignored.
func dispatchClientMessage(conn *xutil.Conn, fs *fullscreen.Engine, ev bus.Event) {
	ce, ok := ev.(xproto.ClientMessageEvent)
	if !ok {
		return
	}
	netWmState, err := conn.Atom("_NET_WM_STATE")
	if err != nil || ce.Type != netWmState {
		return
	}
	data := ce.Data.Data32
	if len(data) < 3 {
		return
	}
	fs.HandleNetWMState(ce.Window, data[0], xproto.Atom(data[1]), xproto.Atom(data[2]))
}
