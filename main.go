package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/PixPMusic/op1nput/internal/actions"
	"github.com/PixPMusic/op1nput/internal/config"
	"github.com/PixPMusic/op1nput/internal/daemon"
	"github.com/PixPMusic/op1nput/internal/dispatch"
	"github.com/PixPMusic/op1nput/internal/inject"
	"github.com/PixPMusic/op1nput/internal/logging"
	"github.com/PixPMusic/op1nput/internal/mapping"
	"github.com/PixPMusic/op1nput/internal/midi"
	"github.com/PixPMusic/op1nput/internal/status"
	"github.com/PixPMusic/op1nput/internal/tray"
	"github.com/PixPMusic/op1nput/internal/window"
)

const appID = "com.pixpmusic.op1nput"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// options holds parsed command-line flags
type options struct {
	configPath string
	version    bool
	overrides  config.FlagOverrides
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("op1nput", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		opts         options
		device       string
		backend      string
		logLevel     string
		noTray       bool
		statusListen string
	)
	fs.StringVar(&opts.configPath, "config", "", "Path to config.yaml (default: user config dir)")
	fs.StringVar(&device, "device", config.DefaultDeviceName, "MIDI input port name to match (substring, case-insensitive)")
	fs.StringVar(&backend, "backend", string(inject.BackendAuto), "Keyboard backend: auto, uinput, sendinput or dry-run")
	fs.StringVar(&logLevel, "log-level", string(logging.LevelInfo), "Log level: error, warn, info or debug")
	fs.BoolVar(&noTray, "no-tray", false, "Run headless without the system tray")
	fs.StringVar(&statusListen, "status-listen", "", "Serve the status websocket on this address, e.g. 127.0.0.1:7601")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	// Only flags given on the command line override the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "device":
			opts.overrides.DeviceName = &device
		case "backend":
			opts.overrides.Backend = &backend
		case "log-level":
			opts.overrides.LogLevel = &logLevel
		case "no-tray":
			opts.overrides.NoTray = &noTray
		case "status-listen":
			opts.overrides.StatusListen = &statusListen
		}
	})
	return opts, nil
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if opts.version {
		fmt.Fprintln(stderr, "op1nput", version)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
		return 1
	}
	opts.overrides.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Invalid config: %v\n", err)
		return 1
	}

	level, _ := logging.ParseLevel(cfg.Logging.Level)
	format, _ := logging.ParseFormat(cfg.Logging.Format)
	logger, err := logging.New(level, format)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if err := serve(cfg, logger); err != nil {
		logger.Error("exiting", zap.Error(err))
		return 1
	}
	return 0
}

// serve wires every component and blocks until quit, signal or failure
func serve(cfg config.Config, logger *zap.Logger) error {
	injectOpts, err := cfg.InjectOptions()
	if err != nil {
		return fmt.Errorf("keyboard backend: %w", err)
	}
	injector, err := inject.New(injectOpts, logger.Named("inject"))
	if err != nil {
		return fmt.Errorf("open keyboard backend: %w", err)
	}
	defer func() {
		if err := injector.Close(); err != nil {
			logger.Warn("close keyboard backend", zap.Error(err))
		}
	}()

	tables, err := mapping.Default()
	if err != nil {
		return fmt.Errorf("load mappings: %w", err)
	}

	// Quit does not wait for spawned taps or sequences
	executor := actions.NewExecutor(injector, logger.Named("actions"), actions.WithTapHold(cfg.TapHold()))

	engine := dispatch.NewEngine(tables, executor, logger.Named("dispatch"))
	manager := midi.NewManager(midi.RtMidi{}, midi.Options{
		DeviceName:   cfg.Device.Name,
		PollInterval: cfg.PollInterval(),
	}, logger.Named("midi"))
	defer manager.Close()

	history := status.NewHistory(0)
	sinks := status.Multi{history}

	var server *status.Server
	if cfg.Status.Listen != "" {
		server = status.NewServer(logger, status.HubConfig{})
		sinks = append(sinks, server)
	}

	commands := make(chan status.Command, 1)
	quit := func() {
		select {
		case commands <- status.CommandQuit:
		default:
		}
	}

	var fyneApp fyne.App
	if cfg.Tray.Enabled {
		fyneApp = app.NewWithID(appID)
		mappings := window.NewMappingsWindow(fyneApp, tables, history, logger.Named("window"))
		t, ok := tray.Setup(fyneApp, tray.Callbacks{
			OnShowMappings: mappings.Show,
			OnQuit:         quit,
		}, logger.Named("tray"))
		if ok {
			sinks = append(sinks, t)
		} else {
			logger.Warn("system tray not available, running headless")
		}
	}

	loop := daemon.New(daemon.Config{
		Engine:   engine,
		Messages: manager.Messages(),
		Commands: commands,
		Sink:     sinks,
		Logger:   logger.Named("daemon"),
	})

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return manager.Run(gctx)
	})
	if server != nil {
		g.Go(func() error {
			if err := server.ListenAndServe(gctx, cfg.Status.Listen); err != nil {
				return fmt.Errorf("status websocket: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		return loop.Run(gctx)
	})

	logger.Info("op1nput started",
		zap.String("version", version),
		zap.String("device", cfg.Device.Name),
		zap.String("backend", string(injectOpts.Backend)),
		zap.Bool("tray", fyneApp != nil))

	if fyneApp == nil {
		return g.Wait()
	}

	// Fyne owns the main goroutine; quit it once the loop is done
	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
		fyne.Do(fyneApp.Quit)
	}()
	fyneApp.Run()
	cancel()
	return <-done
}
