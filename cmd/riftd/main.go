// Command riftd is the reactor daemon: it owns the single event loop
// described in spec §5 ("Single-owner state"), serving the IPC
// query/command surface over a unix socket and persisting state on
// request. Structure and flag shape are adapted from the teacher's
// cmd/texelation/main.go -server-only mode, split into its own binary
// per this repository's two-binary layout (riftd/riftctl) instead of
// the teacher's one-binary-with-mode-flags approach.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/riftwm/riftwm/internal/animation"
	"github.com/riftwm/riftwm/internal/config"
	"github.com/riftwm/riftwm/internal/engine"
	"github.com/riftwm/riftwm/internal/launcher"
	"github.com/riftwm/riftwm/internal/model"
	"github.com/riftwm/riftwm/internal/paths"
	"github.com/riftwm/riftwm/internal/persist"
	"github.com/riftwm/riftwm/internal/ports"
	"github.com/riftwm/riftwm/internal/reactor"
	"github.com/riftwm/riftwm/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "riftd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	defaults, err := paths.Default()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("riftd", flag.ContinueOnError)
	socketPath := fs.String("socket", defaults.SocketPath, "unix socket path to serve the IPC protocol on")
	snapshotPath := fs.String("snapshot", defaults.SnapshotPath, "path to the persisted layout snapshot")
	configPath := fs.String("config", defaults.ConfigPath, "path to the riftwm config file")
	fromScratch := fs.Bool("from-scratch", false, "start with no windows/workspaces restored from a prior snapshot")
	verbose := fs.Bool("verbose", false, "enable debug-level logging")
	indicators := fs.Bool("indicators", false, "render focus-border/stack-line/menu-bar indicators on the controlling terminal")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if err := defaults.EnsureConfigDir(); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Str("component", "riftd").Logger()

	cfg := loadConfig(*configPath, log)

	journal, err := persist.OpenJournal(defaults.JournalPath, log)
	if err != nil {
		return fmt.Errorf("open metrics journal: %w", err)
	}
	defer journal.Close()

	store := persist.NewStore(*snapshotPath)

	eng := engine.NewEngine(cfg.LayoutStrategy(), cfg.VirtualWorkspaces.DefaultWorkspaceCount, cfg.AppRules())
	eng.Gaps = cfg.LayoutGaps()

	// holder breaks the construction cycle between the title-lookup
	// closure the stack-line indicator needs and the Reactor it reads
	// from, which can't exist until after Collaborators is built.
	var holder struct{ r *reactor.Reactor }
	titleLookup := func(w model.WindowID) string {
		if holder.r == nil {
			return w.String()
		}
		if st, ok := holder.r.Windows.Get(w); ok && st.Title != "" {
			return st.Title
		}
		return w.String()
	}

	bus := newBroadcastBus(log)
	appRequests := appRequestLogger(log)

	var driver *ui.TcellDriver
	var stackSink ports.StackLineSink
	var menuSink ports.MenuBarSink
	var notifier ports.WindowNotifier
	cols, rows := 1280, 800

	if *indicators {
		d, derr := setupIndicators()
		if derr != nil {
			log.Warn().Err(derr).Msg("terminal indicators unavailable, continuing without them")
		} else {
			driver = d
			c, r := d.Size()
			cols, rows = c, r
			stackSink = ui.NewStackLine(d, 1, titleLookup)
			menuSink = ui.NewMenuBar(d, 0)
			notifier = ui.NewFocusBorder(d)
		}
	}
	if driver == nil {
		if c, r, ferr := ui.FallbackScreenSize(); ferr == nil && c > 0 && r > 0 {
			cols, rows = c, r
		}
	}

	collab := reactor.Collaborators{
		Compositor:  logCompositor{log: log},
		Raise:       logRaiseCoordinator{log: log},
		StackLine:   stackSink,
		MenuBar:     menuSink,
		Notifier:    notifier,
		EventTap:    logEventTap{log: log},
		Broadcast:   bus,
		AppRequests: appRequests,
		Journal:     journal,
		Save: func(spaces []model.SpaceID) error {
			return store.Save(persist.Capture(eng, spaces))
		},
	}

	r := reactor.New(eng, collab, log)
	holder.r = r

	horiz, vert := cfg.StackPlacement()
	r.Settings = reactor.Settings{
		FocusFollowsMouse:  cfg.Settings.FocusFollowsMouse,
		MouseFollowsFocus:  cfg.Settings.MouseFollowsFocus,
		StackLineThickness: stackLineThickness(cfg),
		Horiz:              horiz,
		Vert:               vert,
	}
	r.SetDragSwapFraction(cfg.Settings.WindowSnapping.DragSwapFraction)
	r.SetAnimation(animation.NewManager(
		animationConfig(cfg), r.Txns,
		animRequester{send: appRequests},
		windowServerIDResolver(r),
	))

	bootSpace := model.SpaceID(1)
	eng.EnsureSpace(bootSpace, cfg.VirtualWorkspaces.WorkspaceNames)
	r.Screens.ReplaceScreens([]model.Screen{{
		ID:    1,
		Frame: model.Rect{W: float64(cols), H: float64(rows)},
		Space: &bootSpace,
		Name:  "default",
	}})

	if !*fromScratch {
		restoreSnapshot(store, eng, bootSpace, log)
	}

	events := make(chan reactor.Event, 256)
	ipcSrv := newIPCServer(*socketPath, events, bus, log)
	if err := ipcSrv.Start(); err != nil {
		return fmt.Errorf("start ipc server: %w", err)
	}

	launchStartupCommands(cfg, log, cols, rows)

	var currentSpaces atomic.Value
	currentSpaces.Store(eng.Workspaces.Spaces())

	stopTicker := make(chan struct{})
	go animationTicker(cfg.Settings.AnimationFPS, &currentSpaces, events, stopTicker)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigCh
		log.Info().Msg("shutdown signal received, saving and exiting")
		events <- reactor.Event{Kind: reactor.EventCommand, Cmd: reactor.Command{Kind: reactor.CmdSaveAndExit}}
	}()

	log.Info().Str("socket", *socketPath).Msg("ready")
	for ev := range events {
		r.Step(ev)
		currentSpaces.Store(eng.Workspaces.Spaces())
		if exit := r.LastExit(); exit.Requested {
			close(stopTicker)
			_ = ipcSrv.Stop()
			journal.Close()
			if driver != nil {
				driver.Fini()
			}
			os.Exit(exit.Code)
		}
	}
	return nil
}

func loadConfig(path string, log zerolog.Logger) config.Config {
	cfg, err := config.NewLoader(path).Load()
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("no usable config file, falling back to defaults")
		return config.Defaults()
	}
	return cfg
}

func restoreSnapshot(store *persist.Store, eng *engine.Engine, space model.SpaceID, log zerolog.Logger) {
	snap, err := store.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("failed to read snapshot, starting empty")
		}
		return
	}
	if err := persist.Apply(eng, snap, []model.SpaceID{space}); err != nil {
		log.Warn().Err(err).Msg("failed to restore snapshot, starting empty")
	}
}

func stackLineThickness(cfg config.Config) float64 {
	if cfg.Settings.UI.StackLine {
		return 1
	}
	return 0
}

func animationConfig(cfg config.Config) animation.Config {
	easing := animation.Easings[cfg.Settings.AnimationEasing]
	if easing == nil {
		easing = animation.EaseInOutQuad
	}
	return animation.Config{
		Animate:    cfg.Settings.Animate,
		DurationMs: cfg.Settings.AnimationDurationMs,
		FPS:        cfg.Settings.AnimationFPS,
		Easing:     easing,
	}
}

func windowServerIDResolver(r *reactor.Reactor) func(model.WindowID) (model.WindowServerID, bool) {
	return func(w model.WindowID) (model.WindowServerID, bool) {
		st, ok := r.Windows.Get(w)
		if !ok || st.WindowServerID == nil {
			return 0, false
		}
		return *st.WindowServerID, true
	}
}

func launchStartupCommands(cfg config.Config, log zerolog.Logger, cols, rows int) {
	if len(cfg.StartupCommands) == 0 {
		return
	}
	l := launcher.New(os.Environ())
	for _, sc := range cfg.StartupCommands {
		proc, err := l.Spawn(launcher.Command{Path: sc.Path, Args: sc.Args, Dir: sc.Dir}, cols, rows)
		if err != nil {
			log.Warn().Err(err).Str("path", sc.Path).Msg("startup command failed to launch")
			continue
		}
		log.Info().Str("path", sc.Path).Int("pid", proc.Pid()).Msg("startup command launched")
	}
}

func animationTicker(fps int, spaces *atomic.Value, events chan<- reactor.Event, stop <-chan struct{}) {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			list, _ := spaces.Load().([]model.SpaceID)
			for _, space := range list {
				select {
				case events <- reactor.Event{Kind: reactor.EventAnimationTick, Space: space}:
				default:
					// Event queue is saturated; this tick is simply skipped,
					// the next one will catch up (spec §7 drop-not-block policy).
				}
			}
		}
	}
}

func setupIndicators() (*ui.TcellDriver, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("indicators: new screen: %w", err)
	}
	driver := ui.NewTcellDriver(screen)
	if err := driver.Init(); err != nil {
		return nil, fmt.Errorf("indicators: init screen: %w", err)
	}
	driver.HideCursor()
	driver.Show()
	return driver, nil
}
