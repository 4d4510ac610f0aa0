package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/shazow/wifimgr/internal/config"
	"github.com/shazow/wifimgr/internal/log"
	"github.com/shazow/wifimgr/internal/progress"
	"github.com/shazow/wifimgr/internal/style"
	"github.com/shazow/wifimgr/manager"
	"github.com/shazow/wifimgr/wifi"
)

var (
	// Version is the version of the application. It is set at build time.
	Version string = "dev"
)

// app is filled in after flag parsing, before any subcommand runs.
type app struct {
	manager *manager.Manager
	format  outputFormat
	run     runner
}

// main is the entry point of the application
func main() {
	var (
		rootFlagSet = flag.NewFlagSet("wifimgr", flag.ExitOnError)
		configPath  = rootFlagSet.String("config", "", "path to config toml file (env: WIFIMGR_CONFIG)")
		dataDir     = rootFlagSet.String("data-dir", "", "directory for favorites and connection state (env: WIFIMGR_DATA_DIR)")
		codePage    = rootFlagSet.String("codepage", "", "console code page of netsh output, e.g. gbk (env: WIFIMGR_CODEPAGE)")
		theme       = rootFlagSet.String("theme", "", "path to theme toml file (env: WIFIMGR_THEME)")
		logLevel    = rootFlagSet.String("log-level", "", "log level: debug, info, warn, error (env: WIFIMGR_LOG_LEVEL)")
		logFile     = rootFlagSet.String("log-file", "", "write logs to this file instead of stderr")
		showSpinner = rootFlagSet.Bool("progress", true, "show a spinner while connecting on a terminal")
		format      = rootFlagSet.String("format", "text", "output format: text, json, yaml")
		version     = rootFlagSet.Bool("version", false, "display version")
	)

	a := &app{}
	ctx := context.Background()

	listCmd := &ffcli.Command{
		Name:       "list",
		ShortUsage: "wifimgr list",
		ShortHelp:  "List networks, favorites first",
		Exec: func(ctx context.Context, args []string) error {
			return runList(ctx, os.Stdout, a.format, a.manager)
		},
	}

	savedCmd := &ffcli.Command{
		Name:       "saved",
		ShortUsage: "wifimgr saved",
		ShortHelp:  "List saved profiles in host order",
		Exec: func(ctx context.Context, args []string) error {
			return runSaved(ctx, os.Stdout, a.format, a.manager)
		},
	}

	currentCmd := &ffcli.Command{
		Name:       "current",
		ShortUsage: "wifimgr current",
		ShortHelp:  "Show the active connection",
		Exec: func(ctx context.Context, args []string) error {
			return runCurrent(ctx, os.Stdout, a.format, a.manager)
		},
	}

	connectFlagSet := flag.NewFlagSet("connect", flag.ExitOnError)
	connectPassphrase := connectFlagSet.String("passphrase", "", "passphrase, provisions a WPA2-Personal profile")
	connectCmd := &ffcli.Command{
		Name:       "connect",
		ShortUsage: "wifimgr connect [-passphrase <secret>] <ssid>",
		ShortHelp:  "Connect to a network and verify it",
		FlagSet:    connectFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("connect requires an ssid")
			}
			return runConnect(ctx, os.Stdout, a.run, a.manager, args[0], *connectPassphrase)
		},
	}

	disconnectCmd := &ffcli.Command{
		Name:       "disconnect",
		ShortUsage: "wifimgr disconnect",
		ShortHelp:  "Disconnect from the current network",
		Exec: func(ctx context.Context, args []string) error {
			return runDisconnect(ctx, os.Stdout, a.run, a.manager)
		},
	}

	forgetCmd := &ffcli.Command{
		Name:       "forget",
		ShortUsage: "wifimgr forget <ssid>",
		ShortHelp:  "Delete a saved profile",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("forget requires an ssid")
			}
			return runForget(ctx, os.Stdout, a.manager, args[0])
		},
	}

	favoritesCmd := &ffcli.Command{
		Name:       "favorites",
		ShortUsage: "wifimgr favorites [add|remove <ssid>]",
		ShortHelp:  "List or edit favorite networks",
		Exec: func(ctx context.Context, args []string) error {
			return runFavorites(os.Stdout, a.format, a.manager, args)
		},
	}

	statusCmd := &ffcli.Command{
		Name:       "status",
		ShortUsage: "wifimgr status",
		ShortHelp:  "Show current, saved and favorite networks",
		Exec: func(ctx context.Context, args []string) error {
			return runStatus(ctx, os.Stdout, a.format, a.manager)
		},
	}

	shareFlagSet := flag.NewFlagSet("share", flag.ExitOnError)
	sharePassphrase := shareFlagSet.String("passphrase", "", "passphrase to embed, empty for an open network")
	shareHidden := shareFlagSet.Bool("hidden", false, "network is hidden")
	shareCmd := &ffcli.Command{
		Name:       "share",
		ShortUsage: "wifimgr share [-passphrase <secret>] [-hidden] <ssid>",
		ShortHelp:  "Print a QR code for joining a network",
		FlagSet:    shareFlagSet,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("share requires an ssid")
			}
			return runShare(os.Stdout, args[0], *sharePassphrase, *shareHidden)
		},
	}

	root := &ffcli.Command{
		ShortUsage: "wifimgr [flags] <subcommand> [args...]",
		FlagSet:    rootFlagSet,
		Options:    []ff.Option{ff.WithEnvVarPrefix("WIFIMGR")},
		Subcommands: []*ffcli.Command{
			listCmd, savedCmd, currentCmd, connectCmd, disconnectCmd,
			forgetCmd, favoritesCmd, statusCmd, shareCmd,
		},
		Exec: func(ctx context.Context, args []string) error {
			return runStatus(ctx, os.Stdout, a.format, a.manager)
		},
	}

	if err := root.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if *version {
		fmt.Println(Version)
		os.Exit(0)
	}

	var err error
	a.format, err = parseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *codePage != "" {
		cfg.CodePage = *codePage
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if cfg.DataDir == "" {
		cfg.DataDir = config.DefaultDataDir()
	}

	style.CurrentTheme = cfg.Theme.Apply(style.NewDefaultTheme())
	if *theme != "" {
		if err := loadTheme(*theme); err != nil {
			fmt.Fprintf(os.Stderr, "error loading theme: %v\n", err)
			os.Exit(1)
		}
	}

	interactive := *showSpinner && a.format == formatText && term.IsTerminal(os.Stdout.Fd())
	logger, closeLog, err := setupLogger(cfg.LogLevel, *logFile, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	a.run = runDirect
	if interactive {
		a.run = func(title string, fn func() wifi.Result) wifi.Result {
			return progress.Run(os.Stdout, os.Stdin, title, fn)
		}
	}

	gateway, err := GetGateway(cfg.CodePage, logger.With("component", "gateway"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	a.manager, err = manager.NewFromDir(gateway, cfg.DataDir, cfg.Manager(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := root.Run(ctx); err != nil {
		closeLog()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the explicit config path, or the default one if present.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path, false)
	}
	return config.Load(config.DefaultPath(), true)
}

func loadTheme(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return style.LoadTheme(f)
}

// setupLogger installs the default logger. Without a log file, records go to
// stderr, unless a spinner owns the terminal and shows them itself.
func setupLogger(level, path string, interactive bool) (*slog.Logger, func(), error) {
	if level == "" {
		level = "warn"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closeLog := func() {}
	switch {
	case path != "":
		f, err := log.OpenFile(path)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeLog = func() { f.Close() }
	case interactive:
		w = io.Discard
	}

	logger := log.Init(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	return logger, closeLog, nil
}
