package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/Veraticus/online-check/pkg/autostart"
	"github.com/Veraticus/online-check/pkg/config"
	"github.com/Veraticus/online-check/pkg/idle"
	"github.com/Veraticus/online-check/pkg/interfaces"
	"github.com/Veraticus/online-check/pkg/logging"
	"github.com/Veraticus/online-check/pkg/notification"
	"github.com/Veraticus/online-check/pkg/presence"
	"github.com/Veraticus/online-check/pkg/receiver"
)

// Version is set at build time.
var Version = "dev"

// options are the flags shared by the command tree.
type options struct {
	configPath string
	logLevel   string
	quiet      bool
	noTray     bool
}

// addRunFlags registers the flags of the run command on fs.
func addRunFlags(fs *flag.FlagSet, o *options) {
	fs.BoolVar(&o.quiet, "quiet", false, "Disable the terminal status line")
	fs.BoolVar(&o.noTray, "no-tray", false, "Run without a tray icon; read show/hide/quit from stdin")
}

// resolvePath returns the config path from the flag, env or default location.
func (o *options) resolvePath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.ConfigPath()
}

// load reads the configuration and applies flag overrides.
func (o *options) load() (*config.Config, string, error) {
	path := o.resolvePath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("error loading config: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.quiet {
		cfg.Quiet = true
	}
	return cfg, path, nil
}

// loadForUpdate reads the settings file alone, without environment
// overrides, so saving it back does not persist them. A missing file
// yields the defaults.
func loadForUpdate(path string) (*config.Config, error) {
	cfg, err := config.LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	return cfg, err
}

// logger builds the process logger for cfg.
func (o *options) logger(cfg *config.Config, w io.Writer) (zerolog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	return logging.New(level, w), nil
}

func newRootCmd() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:   "online-check",
		Short: "Report presence to a server while you are at the keyboard",
		Long: `online-check posts the current time to a server every interval while the
user has been active within the last two minutes, and shows the outcome
of each report in the tray and the activity window.

Configuration file: <user config dir>/online-check/settings.json
Environment overrides use the ONLINE_CHECK_ prefix (URL, TOKEN, INTERVAL,
LOG_LEVEL, QUIET, AUTOSTART, IDLE_SOURCE, CONFIG). A .env file in the
working directory is loaded first.`,
		Version:       Version,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, o)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "Path to config file (.json, .yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	addRunFlags(rootCmd.Flags(), o)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start the tray and report presence on an interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, o)
		},
	}
	addRunFlags(runCmd.Flags(), o)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(newCheckCmd(o))
	rootCmd.AddCommand(newIdleCmd(o))
	rootCmd.AddCommand(newConfigCmd(o))
	rootCmd.AddCommand(newAutostartCmd(o))
	rootCmd.AddCommand(newReceiveCmd(o))

	return rootCmd
}

func runApp(cmd *cobra.Command, o *options) error {
	cfg, path, err := o.load()
	if err != nil {
		return err
	}
	logger, err := o.logger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	deps, err := NewDependencies(cfg, path, logger, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("error creating dependencies: %w", err)
	}
	defer deps.Close()

	if cfg.URL == "" {
		logger.Warn().Str("config", path).Msg("No server URL configured; set one with 'online-check config set --url'")
	}
	logger.Info().Str("config", path).Stringer("interval", cfg.Interval).Msg("Starting online-check")

	var stdin io.Reader
	if o.noTray {
		stdin = cmd.InOrStdin()
	}
	return NewApplication(deps, o.noTray, stdin).Run(cmd.Context())
}

func newCheckCmd(o *options) *cobra.Command {
	var url, token string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Send a single presence report and print the emitted events",
		Long: `Send a single presence report and print each emitted event as a JSON line.

Nothing is sent when the user has been idle for two minutes or more.

Examples:
  online-check check
  online-check check --url https://example.com/presence --token secret`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := o.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("url") {
				cfg.URL = url
			}
			if cmd.Flags().Changed("token") {
				cfg.Token = token
			}
			if cfg.URL == "" {
				return errors.New("no server URL: pass --url or set url in the config")
			}
			logger, err := o.logger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			detector, err := idle.NewIdleDetectorForSource(cfg.IdleSource)
			if err != nil {
				return err
			}
			return runCheck(cmd, detector, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Server URL (overrides config)")
	cmd.Flags().StringVar(&token, "token", "", "Authorization token (overrides config)")
	return cmd
}

// runCheck performs one report with events written to stdout.
func runCheck(cmd *cobra.Command, detector interfaces.IdleDetector, cfg *config.Config, logger zerolog.Logger) error {
	bus := notification.NewBus()
	bus.Subscribe(notification.NewWriterNotifier(cmd.OutOrStdout()))
	bus.Subscribe(notification.NewLogNotifier(logging.Component(logger, "events")))

	r := presence.NewReporter(detector, presence.NewHTTPClient(), bus,
		presence.WithLogger(logging.Component(logger, "presence")))
	return r.ReportPresence(cmd.Context(), cfg.URL, cfg.Token)
}

func newIdleCmd(o *options) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "idle",
		Short: "Print how long the user has been idle",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("source") {
				cfg, _, err := o.load()
				if err != nil {
					return err
				}
				source = cfg.IdleSource
			}
			detector, err := idle.NewIdleDetectorForSource(source)
			if err != nil {
				return err
			}
			d, err := detector.IdleTime()
			if err != nil {
				return fmt.Errorf("failed to read idle time: %w", err)
			}
			state := "active"
			if d >= presence.IdleThreshold {
				state = "idle"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", d.Truncate(time.Second), state)
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "Idle source, auto or static (default from config)")
	return cmd
}

func newConfigCmd(o *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change the settings file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), o.resolvePath())
		},
	})

	var showToken bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := o.load()
			if err != nil {
				return err
			}
			out := cfg.Clone()
			if out.Token != "" && !showToken {
				out.Token = "********"
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	showCmd.Flags().BoolVar(&showToken, "show-token", false, "Print the token instead of a mask")
	configCmd.AddCommand(showCmd)

	var (
		url, token, logLevel string
		interval             time.Duration
		autostartOn, quiet   bool
	)
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update values in the settings file",
		Long: `Update values in the settings file. Only flags that are passed change.

Examples:
  online-check config set --url https://example.com/presence --token secret
  online-check config set --interval 2m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := o.resolvePath()
			cfg, err := loadForUpdate(path)
			if err != nil {
				return err
			}

			fs := cmd.Flags()
			changed := false
			for _, name := range []string{"url", "token", "interval", "log-level", "autostart", "quiet"} {
				changed = changed || fs.Changed(name)
			}
			if !changed {
				return errors.New("nothing to set")
			}
			if fs.Changed("url") {
				cfg.URL = url
			}
			if fs.Changed("token") {
				cfg.Token = token
			}
			if fs.Changed("interval") {
				cfg.Interval = config.Duration(interval)
			}
			if fs.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if fs.Changed("autostart") {
				cfg.Autostart = autostartOn
			}
			if fs.Changed("quiet") {
				cfg.Quiet = quiet
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings saved!")
			return nil
		},
	}
	setCmd.Flags().StringVar(&url, "url", "", "Server URL")
	setCmd.Flags().StringVar(&token, "token", "", "Authorization token")
	setCmd.Flags().DurationVar(&interval, "interval", presence.DefaultInterval, "Report interval")
	setCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level")
	setCmd.Flags().BoolVar(&autostartOn, "autostart", true, "Start at login")
	setCmd.Flags().BoolVar(&quiet, "quiet", false, "Disable the terminal status line")
	configCmd.AddCommand(setCmd)

	return configCmd
}

func newAutostartCmd(o *options) *cobra.Command {
	autostartCmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage starting online-check at login",
	}

	manager := func() (*autostart.Manager, error) {
		return autostart.NewForCurrentExecutable(config.AppName, "run")
	}

	autostartCmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Start online-check at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setAutostart(cmd, o, manager, true)
		},
	})

	autostartCmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Stop starting online-check at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setAutostart(cmd, o, manager, false)
		},
	})

	autostartCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether online-check starts at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manager()
			if err != nil {
				return err
			}
			enabled, err := m.IsEnabled()
			if err != nil {
				return err
			}
			state := "disabled"
			if enabled {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Autostart %s\n", state)
			return nil
		},
	})

	return autostartCmd
}

// setAutostart records want in the settings file, since every run applies
// that value, and then updates the login entry to match.
func setAutostart(cmd *cobra.Command, o *options, manager func() (*autostart.Manager, error), want bool) error {
	path := o.resolvePath()
	cfg, err := loadForUpdate(path)
	if err != nil {
		return err
	}
	if cfg.Autostart != want {
		cfg.Autostart = want
		if err := config.Save(cfg, path); err != nil {
			return err
		}
	}

	m, err := manager()
	if err != nil {
		return err
	}
	state := "disabled"
	if want {
		state = "enabled"
		err = m.Enable()
	} else {
		err = m.Disable()
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Autostart %s\n", state)
	return nil
}

func newReceiveCmd(o *options) *cobra.Command {
	var addr, token string

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Run a local endpoint that accepts presence reports",
		Long: `Run a local endpoint that accepts presence reports, for testing a setup
without a real server.

Examples:
  online-check receive --addr 127.0.0.1:8080 --token secret
  online-check check --url http://127.0.0.1:8080/presence --token secret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(o.logLevel)
			if err != nil {
				return err
			}
			if level > zerolog.DebugLevel {
				gin.SetMode(gin.ReleaseMode)
			}
			logger := logging.Component(logging.New(level, cmd.ErrOrStderr()), "receiver")
			return receiver.Serve(cmd.Context(), addr, receiver.NewHandler(token, logger))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().StringVar(&token, "token", "", "Required Authorization value (empty accepts any)")
	return cmd
}
