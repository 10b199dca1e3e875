package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ceramic-editor/editor-sync/internal/config"
	"github.com/ceramic-editor/editor-sync/pkg/transport"
)

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.Command = "./from-config"

	applyFlags(&cfg, Flags{
		EngineURL: "ws://localhost:7373/",
		Discover:  true,
		Assets:    "/work/assets",
		LogLevel:  "debug",
	})

	if cfg.Engine.Command != "./from-config" {
		t.Errorf("Command = %q, want config value kept", cfg.Engine.Command)
	}
	if cfg.Engine.URL != "ws://localhost:7373/" {
		t.Errorf("URL = %q", cfg.Engine.URL)
	}
	if !cfg.Engine.Discover {
		t.Error("Discover not applied")
	}
	if cfg.Project.AssetsPath != "/work/assets" {
		t.Errorf("AssetsPath = %q", cfg.Project.AssetsPath)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(config.LogConfig{Level: "info", Format: "json"}, &buf).Info("hello")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}

	buf.Reset()
	logger := newLogger(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info logged below warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}

func TestWSOptions(t *testing.T) {
	cfg := config.Default()
	base := []transport.Option{transport.WithFraming(transport.FramingLines)}

	if got := wsOptions(cfg, base); len(got) != 2 {
		t.Errorf("expected keep-alive option appended, got %d options", len(got))
	}

	cfg.Engine.KeepAlive = 0
	if got := wsOptions(cfg, base); len(got) != 1 {
		t.Errorf("expected no keep-alive option, got %d options", len(got))
	}

	cfg.Engine.KeepAlive = time.Second
	if got := wsOptions(cfg, nil); len(got) != 1 {
		t.Errorf("expected 1 option, got %d", len(got))
	}
}
