package main

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/Veraticus/online-check/pkg/autostart"
	"github.com/Veraticus/online-check/pkg/config"
	"github.com/Veraticus/online-check/pkg/idle"
	"github.com/Veraticus/online-check/pkg/interfaces"
	"github.com/Veraticus/online-check/pkg/logging"
	"github.com/Veraticus/online-check/pkg/notification"
	"github.com/Veraticus/online-check/pkg/presence"
	"github.com/Veraticus/online-check/pkg/status"
	"github.com/Veraticus/online-check/pkg/tray"
	"github.com/Veraticus/online-check/pkg/ui"
)

// settings holds the hot-reloadable report target.
type settings struct {
	mu    sync.RWMutex
	url   string
	token string
}

func (s *settings) set(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url, s.token = cfg.URL, cfg.Token
}

func (s *settings) get() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.url, s.token
}

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config     *config.Config
	ConfigPath string
	Logger     zerolog.Logger

	IdleDetector    interfaces.IdleDetector
	HTTPClient      interfaces.HTTPDoer
	Bus             *notification.Bus
	History         *notification.History
	StatusIndicator *status.Indicator
	StatusReporter  *status.Reporter
	Reporter        *presence.Reporter
	Scheduler       *presence.Scheduler
	Window          *ui.ConsoleWindow
	Lifecycle       *ui.Lifecycle
	Controller      *tray.Controller
	Autostart       *autostart.Manager
	Watcher         *config.Watcher

	settings *settings
	quitCh   chan struct{}
	stopChan chan struct{}
}

// NewDependencies creates all dependencies with the given configuration
func NewDependencies(cfg *config.Config, configPath string, logger zerolog.Logger, stdout io.Writer) (*Dependencies, error) {
	deps := &Dependencies{
		Config:     cfg,
		ConfigPath: configPath,
		Logger:     logger,
		settings:   &settings{},
		quitCh:     make(chan struct{}),
		stopChan:   make(chan struct{}),
	}
	deps.settings.set(cfg)

	detector, err := idle.NewIdleDetectorForSource(cfg.IdleSource)
	if err != nil {
		return nil, err
	}
	idle.SetLogger(detector, logging.Component(logger, "idle"))
	deps.IdleDetector = detector
	deps.HTTPClient = presence.NewHTTPClient()

	// The status line is only drawn when stderr is a terminal
	statusEnabled := term.IsTerminal(int(os.Stderr.Fd())) && !cfg.Quiet
	deps.StatusIndicator = status.NewIndicator(os.Stderr, statusEnabled)
	deps.StatusReporter = status.NewReporter(deps.StatusIndicator, logging.Component(logger, "status"))
	deps.StatusIndicator.StartAutoRefresh(0, deps.stopChan)

	deps.Bus = notification.NewBus()
	deps.History = notification.NewHistory(cfg.HistorySize)
	deps.Window = ui.NewConsoleWindow(stdout, deps.History)
	deps.Bus.Subscribe(deps.History)
	deps.Bus.Subscribe(deps.Window)
	deps.Bus.Subscribe(notification.NewLogNotifier(logging.Component(logger, "events")))

	deps.Reporter = presence.NewReporter(deps.IdleDetector, deps.HTTPClient, deps.Bus,
		presence.WithStatusReporter(deps.StatusReporter),
		presence.WithLogger(logging.Component(logger, "presence")),
	)
	deps.Scheduler = presence.NewScheduler(deps.Reporter, deps.settings.get,
		cfg.Interval.Duration(), logging.Component(logger, "scheduler"))

	deps.Lifecycle = ui.NewLifecycle(deps.Window, logging.Component(logger, "window"))
	deps.Controller = tray.NewController(deps.Lifecycle, func() { close(deps.quitCh) },
		logging.Component(logger, "tray"))
	recordTrayActivity(deps.Controller, detector)

	if configPath != "" {
		deps.Watcher = config.NewWatcher(configPath, cfg)
		deps.Watcher.OnChange(deps.applyConfig)
	}

	if m, err := autostart.NewForCurrentExecutable(config.AppName, "run"); err != nil {
		logger.Warn().Err(err).Msg("Autostart unavailable")
	} else {
		deps.Autostart = m
	}

	return deps, nil
}

// recordTrayActivity makes tray actions count as activity for detectors
// that fall back to application activity.
func recordTrayActivity(c *tray.Controller, d interfaces.IdleDetector) {
	if rec, ok := d.(tray.ActivityRecorder); ok {
		c.SetActivityRecorder(rec)
	}
}

// applyConfig takes a reloaded configuration into use.
func (d *Dependencies) applyConfig(cfg *config.Config) {
	d.settings.set(cfg)
	d.Logger.Info().Str("url", cfg.URL).Msg("Configuration reloaded")
	if cfg.Interval.Duration() != d.Scheduler.Interval() {
		d.Logger.Warn().Stringer("interval", cfg.Interval).Msg("Interval change takes effect after restart")
	}
}

// Close cleans up all dependencies
func (d *Dependencies) Close() {
	if d.stopChan != nil {
		select {
		case <-d.stopChan:
			// Already closed
		default:
			close(d.stopChan)
		}
		d.stopChan = nil
	}

	if d.StatusIndicator != nil {
		_ = d.StatusIndicator.Clear() // Best effort
	}

	if d.Watcher != nil {
		_ = d.Watcher.Close()
	}
}

// Application represents the main application
type Application struct {
	deps   *Dependencies
	noTray bool
	stdin  io.Reader
}

// NewApplication creates a new application with the given dependencies
func NewApplication(deps *Dependencies, noTray bool, stdin io.Reader) *Application {
	return &Application{
		deps:   deps,
		noTray: noTray,
		stdin:  stdin,
	}
}

// Run reports presence until ctx is cancelled or Quit is chosen.
func (a *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-a.deps.quitCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	a.applyAutostart()
	a.startWatcher(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = a.deps.Scheduler.Run(ctx)
	}()

	if a.noTray {
		a.runConsole(ctx)
	} else {
		a.runTray(ctx, cancel)
	}

	cancel()
	wg.Wait()
	sent, failed := a.deps.StatusReporter.Totals()
	a.deps.Logger.Info().Int("sent", sent).Int("failed", failed).Msg("Stopped")
	return nil
}

func (a *Application) runTray(ctx context.Context, cancel context.CancelFunc) {
	t := tray.New(a.deps.Controller, a.deps.StatusIndicator, a.deps.History,
		logging.Component(a.deps.Logger, "tray"))

	go func() {
		<-ctx.Done()
		// Quit is lost if it arrives before the event loop starts.
		<-t.Ready()
		t.Quit()
	}()

	// Blocks until Quit
	t.Run(cancel)
}

func (a *Application) runConsole(ctx context.Context) {
	a.deps.Lifecycle.Show()
	if a.stdin == nil {
		<-ctx.Done()
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		rec, _ := a.deps.IdleDetector.(tray.ActivityRecorder)
		handleConsoleInput(a.stdin, a.deps.Controller, rec, a.deps.Logger)
	}()

	select {
	case <-ctx.Done():
	case <-done:
		<-ctx.Done()
	}
}

func (a *Application) applyAutostart() {
	if a.deps.Autostart == nil {
		return
	}
	if err := a.deps.Autostart.Apply(a.deps.Config.Autostart); err != nil {
		a.deps.Logger.Warn().Err(err).Bool("autostart", a.deps.Config.Autostart).Msg("Failed to update autostart")
	}
}

func (a *Application) startWatcher(ctx context.Context) {
	w := a.deps.Watcher
	if w == nil {
		return
	}
	if err := w.Start(); err != nil {
		a.deps.Logger.Warn().Err(err).Msg("Config hot reload disabled")
		return
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-w.Errors():
				a.deps.Logger.Warn().Err(err).Msg("Config reload failed")
			}
		}
	}()
}
