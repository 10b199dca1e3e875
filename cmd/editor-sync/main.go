// Command editor-sync keeps an editor project in sync with a running engine.
//
// It connects to the engine (child process, WebSocket URL or mDNS
// discovery), keeps the project's asset catalogs current, applies the
// engine's keypath patches and saves the project snapshot on exit.
//
// Usage:
//
//	editor-sync [flags]
//
// Flags:
//
//	-config string      Configuration file (YAML)
//	-engine-cmd string  Engine command (overrides engine.command)
//	-engine-url string  Engine WebSocket URL (overrides engine.url)
//	-discover           Find the engine with mDNS
//	-assets string      Assets directory for a new project
//	-log-level string   Log level: debug, info, warn, error
//	-interactive        Enable interactive command mode
//	-reset              Discard the saved project before starting
//
// Every setting can also come from EDITOR_SYNC_* environment variables,
// e.g. EDITOR_SYNC_ENGINE_URL=ws://localhost:7373/.
//
// Examples:
//
//	# Start the engine as a child process speaking over stdio
//	editor-sync -engine-cmd ./engine-sim -assets ./assets -interactive
//
//	# Connect to an engine announced on the local network
//	editor-sync -discover -interactive
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/ceramic-editor/editor-sync/cmd/editor-sync/interactive"
	"github.com/ceramic-editor/editor-sync/internal/config"
	"github.com/ceramic-editor/editor-sync/pkg/bridge"
	"github.com/ceramic-editor/editor-sync/pkg/discovery"
	"github.com/ceramic-editor/editor-sync/pkg/eventloop"
	"github.com/ceramic-editor/editor-sync/pkg/files"
	"github.com/ceramic-editor/editor-sync/pkg/log"
	"github.com/ceramic-editor/editor-sync/pkg/model"
	"github.com/ceramic-editor/editor-sync/pkg/persistence"
	"github.com/ceramic-editor/editor-sync/pkg/reactive"
	"github.com/ceramic-editor/editor-sync/pkg/service"
	"github.com/ceramic-editor/editor-sync/pkg/transport"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
)

// Flags holds command-line overrides.
type Flags struct {
	ConfigFile  string
	EngineCmd   string
	EngineURL   string
	Discover    bool
	Assets      string
	LogLevel    string
	Interactive bool
	Reset       bool
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file (YAML)")
	flag.StringVar(&flags.EngineCmd, "engine-cmd", "", "Engine command (overrides engine.command)")
	flag.StringVar(&flags.EngineURL, "engine-url", "", "Engine WebSocket URL (overrides engine.url)")
	flag.BoolVar(&flags.Discover, "discover", false, "Find the engine with mDNS")
	flag.StringVar(&flags.Assets, "assets", "", "Assets directory for a new project")
	flag.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&flags.Interactive, "interactive", false, "Enable interactive command mode")
	flag.BoolVar(&flags.Reset, "reset", false, "Discard the saved project before starting")
}

func main() {
	flag.Parse()

	cfg, err := config.Load(config.Options{File: flags.ConfigFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyFlags(&cfg, flags)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, f Flags) {
	if f.EngineCmd != "" {
		cfg.Engine.Command = f.EngineCmd
	}
	if f.EngineURL != "" {
		cfg.Engine.URL = f.EngineURL
	}
	if f.Discover {
		cfg.Engine.Discover = true
	}
	if f.Assets != "" {
		cfg.Project.AssetsPath = f.Assets
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
}

// logOutput lets the interactive shell take over the log writer after
// the logger was created.
type logOutput struct {
	w io.Writer
}

func (o *logOutput) Write(p []byte) (int, error) {
	return o.w.Write(p)
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func run(cfg config.Config) error {
	out := &logOutput{w: os.Stderr}
	logger := newLogger(cfg.Log, out)
	sessionID := uuid.NewString()

	var protoLog log.Logger
	if cfg.Log.ProtocolFile != "" {
		fl, err := log.NewFileLogger(cfg.Log.ProtocolFile)
		if err != nil {
			return fmt.Errorf("open protocol log: %w", err)
		}
		defer fl.Close()
		protoLog = fl
		logger.Info("Protocol log", slog.String("path", fl.Path()), slog.String("session", sessionID))
	}

	store := persistence.NewStore(afero.NewOsFs(), cfg.State.Path)
	store.SetLogger(logger)
	if flags.Reset {
		logger.Info("Resetting saved project", slog.String("path", store.Path()))
		if err := store.Clear(); err != nil {
			logger.Warn("Failed to clear saved project", slog.Any("error", err))
		}
	}
	doc, err := store.Load()
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The loop outlives ctx so the final save can still read the model.
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	loop := eventloop.New(eventloop.WithLogger(logger))
	go func() { _ = loop.Run(loopCtx) }()

	codec, err := wire.CodecByName(cfg.Engine.Codec)
	if err != nil {
		return err
	}
	t, codec, err := connect(ctx, cfg, codec, logger, protoLog, sessionID)
	if err != nil {
		return err
	}

	bopts := []bridge.Option{
		bridge.WithCodec(codec),
		bridge.WithPoster(loop),
		bridge.WithLogger(logger),
	}
	if protoLog != nil {
		bopts = append(bopts, bridge.WithProtocolLogger(protoLog, sessionID))
	}
	if cfg.Bridge.CorrelationIDs {
		bopts = append(bopts, bridge.WithCorrelationIDs())
	}
	br := bridge.New(t, bopts...)

	rt := reactive.NewRuntime(reactive.WithLogger(logger))
	project := model.NewProject(rt, "project")
	engineCtx := model.NewEngineContext(rt)

	save := func() (string, error) {
		var snap *reactive.Record
		if err := loop.Do(loopCtx, func() { snap = project.Snapshot() }); err != nil {
			return "", err
		}
		saved, written, err := store.Save(snap)
		if err != nil {
			return "", err
		}
		if !written {
			return "Project unchanged", nil
		}
		return fmt.Sprintf("Saved %s (revision %s)", store.Path(), saved.Revision), nil
	}

	var shell *interactive.Shell
	var chooser service.DirectoryChooser
	if flags.Interactive {
		shell, err = interactive.NewReadline(interactive.Config{Runner: loop, Status: br, Save: save})
		if err != nil {
			return err
		}
		out.w = shell.Stdout()
		chooser = shell
	}

	var syncer *service.Synchronizer
	var syncErr error
	err = loop.Do(ctx, func() {
		if doc != nil {
			if err := project.Restore(doc.Root); err != nil {
				logger.Warn("Saved project restored with errors", slog.Any("error", err))
			}
			logger.Info("Loaded project", slog.String("name", project.Name()), slog.String("revision", doc.Revision))
		} else {
			project.CreateWithName(cfg.Project.Name)
			project.SetAssetsPath(cfg.Project.AssetsPath)
			logger.Info("Created project", slog.String("name", cfg.Project.Name))
		}
		syncer, syncErr = service.New(service.Config{
			Project:        project,
			Context:        engineCtx,
			Messenger:      br,
			Files:          files.NewLister(afero.NewOsFs()),
			Shell:          hostShell{logger: logger},
			Chooser:        chooser,
			Logger:         logger,
			ProtocolLogger: protoLog,
			SessionID:      sessionID,
		})
	})
	if err != nil {
		return err
	}
	if syncErr != nil {
		return syncErr
	}
	if shell != nil {
		shell.Bind(syncer)
	}

	go func() {
		err := br.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("Engine connection lost", slog.Any("error", err))
		} else {
			logger.Info("Engine connection closed")
		}
		loop.Post(func() { syncer.SetEngineReady(false) })
	}()

	if shell != nil {
		go shell.Run(ctx, cancel)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("Received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	cancel()
	_ = br.Close()

	msg, err := save()
	if err != nil {
		logger.Warn("Failed to save project", slog.Any("error", err))
	} else {
		logger.Info(msg)
	}

	doneCtx, done := context.WithTimeout(context.Background(), time.Second)
	defer done()
	_ = loop.Do(doneCtx, syncer.Close)
	return nil
}

// connect opens the transport named by the configuration. A discovered
// engine may override the codec.
func connect(ctx context.Context, cfg config.Config, codec wire.Codec, logger *slog.Logger, protoLog log.Logger, sessionID string) (transport.Transport, wire.Codec, error) {
	framing, err := transport.ParseFraming(cfg.Engine.Framing)
	if err != nil {
		return nil, nil, err
	}
	opts := []transport.Option{transport.WithFraming(framing)}
	if protoLog != nil {
		opts = append(opts, transport.WithProtocolLogger(protoLog, sessionID))
	}

	switch {
	case cfg.Engine.Command != "":
		logger.Info("Starting engine", slog.String("command", cfg.Engine.Command))
		p, err := transport.StartProcess(ctx, transport.ProcessConfig{
			Command: cfg.Engine.Command,
			Args:    cfg.Engine.Args,
			Logger:  logger,
		}, opts...)
		return p, codec, err

	case cfg.Engine.URL != "":
		logger.Info("Connecting to engine", slog.String("url", cfg.Engine.URL))
		ws, err := transport.DialWebSocket(ctx, cfg.Engine.URL, wsOptions(cfg, opts)...)
		return ws, codec, err

	case cfg.Engine.Discover:
		logger.Info("Browsing for engines", slog.String("service", discovery.ServiceType))
		browser := discovery.NewMDNSBrowser(discovery.BrowserConfig{Logger: logger})
		defer browser.Stop()

		svc, err := browser.Find(ctx, "")
		if err != nil {
			return nil, nil, err
		}
		url, err := svc.URL()
		if err != nil {
			return nil, nil, err
		}
		if c, err := wire.CodecByName(svc.Codec); err == nil {
			codec = c
			if svc.Codec == wire.CodecCBOR {
				opts = append(opts, transport.WithFraming(transport.FramingLength))
			}
		}
		logger.Info("Found engine", slog.String("instance", svc.InstanceName), slog.String("url", url))
		ws, err := transport.DialWebSocket(ctx, url, wsOptions(cfg, opts)...)
		return ws, codec, err
	}
	return nil, nil, errors.New("no engine configured (set engine.command, engine.url or engine.discover)")
}

func wsOptions(cfg config.Config, opts []transport.Option) []transport.Option {
	if cfg.Engine.KeepAlive > 0 {
		opts = append(opts, transport.WithKeepAlive(transport.KeepAliveConfig{PingInterval: cfg.Engine.KeepAlive}))
	}
	return opts
}

// hostShell is the editor host. Without a native shell it only reports
// the assets directory it would serve.
type hostShell struct {
	logger *slog.Logger
}

func (h hostShell) SetAssetsPath(path string) {
	h.logger.Debug("Host assets path", slog.String("path", path))
}
