// Command engine-sim stands in for the engine during editor development.
//
// It answers assets/lists requests by classifying file names by extension,
// announces engine/ready on every connection and, in interactive mode,
// pushes keypath patches and scene item deletions to connected editors.
//
// Usage:
//
//	engine-sim [flags]
//
// Flags:
//
//	-listen string      Serve WebSocket connections on this address (default: stdio)
//	-framing string     Frame delimiting on stdio: lines or length (default "lines")
//	-codec string       Envelope codec: json or cbor (default "json")
//	-advertise          Announce the WebSocket endpoint with mDNS
//	-name string        mDNS instance name (default "engine-sim")
//	-interactive        Enable interactive command mode (WebSocket only)
//	-log-level string   Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Started by editor-sync over stdio
//	editor-sync -engine-cmd engine-sim
//
//	# Standalone, discoverable on the local network
//	engine-sim -listen :7373 -advertise -interactive
//
// Interactive Commands:
//
//	set <keypath> <json>  - Send set/<keypath>
//	delete <name>         - Send scene-item/delete
//	ready                 - Send engine/ready again
//	clients               - List connected editors
//	quit                  - Exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ceramic-editor/editor-sync/internal/enginesim"
	"github.com/ceramic-editor/editor-sync/pkg/discovery"
	"github.com/ceramic-editor/editor-sync/pkg/transport"
	"github.com/ceramic-editor/editor-sync/pkg/wire"
)

// Config holds the simulator configuration.
type Config struct {
	Listen      string
	Framing     string
	Codec       string
	Advertise   bool
	Name        string
	Interactive bool
	LogLevel    string
}

var config Config

func init() {
	flag.StringVar(&config.Listen, "listen", "", "Serve WebSocket connections on this address (default: stdio)")
	flag.StringVar(&config.Framing, "framing", "lines", "Frame delimiting on stdio: lines or length")
	flag.StringVar(&config.Codec, "codec", wire.CodecJSON, "Envelope codec: json or cbor")
	flag.BoolVar(&config.Advertise, "advertise", false, "Announce the WebSocket endpoint with mDNS")
	flag.StringVar(&config.Name, "name", "engine-sim", "mDNS instance name")
	flag.BoolVar(&config.Interactive, "interactive", false, "Enable interactive command mode (WebSocket only)")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %s\n", config.LogLevel)
		os.Exit(2)
	}
	// stdout may carry frames; logs always go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	codec, err := wire.CodecByName(config.Codec)
	if err != nil {
		logger.Error("Invalid codec", slog.Any("error", err))
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if config.Listen == "" {
		err = serveStdio(ctx, codec, logger)
	} else {
		err = serveWebSocket(ctx, cancel, codec, logger)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Engine stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func serveStdio(ctx context.Context, codec wire.Codec, logger *slog.Logger) error {
	framing, err := transport.ParseFraming(config.Framing)
	if err != nil {
		return err
	}
	e := enginesim.New(transport.NewStdioStream(transport.WithFraming(framing)),
		enginesim.WithCodec(codec), enginesim.WithLogger(logger))
	logger.Info("Serving on stdio", slog.String("framing", framing.String()), slog.String("codec", codec.Name()))
	return e.Run(ctx)
}

func serveWebSocket(ctx context.Context, cancel context.CancelFunc, codec wire.Codec, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", config.Listen)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	hub := newHub(ctx, codec, logger)
	srv := &http.Server{
		Handler:           hub,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
		hub.closeAll()
	}()

	if config.Advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		adv := discovery.NewMDNSAdvertiser(discovery.AdvertiserConfig{Logger: logger})
		if err := adv.Advertise(ctx, &discovery.EngineInfo{
			InstanceName: config.Name,
			Port:         uint16(port),
			Codec:        codec.Name(),
		}); err != nil {
			logger.Warn("mDNS advertisement failed", slog.Any("error", err))
		} else {
			defer adv.Stop()
			logger.Info("Advertising", slog.String("service", discovery.ServiceType), slog.String("instance", config.Name), slog.String("port", strconv.Itoa(port)))
		}
	}

	if config.Interactive {
		sh, err := newShell(hub)
		if err != nil {
			return err
		}
		go sh.run(ctx, cancel)
	}

	logger.Info("Serving WebSocket", slog.String("addr", ln.Addr().String()), slog.String("codec", codec.Name()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
