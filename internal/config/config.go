// Package config loads editor-sync settings from defaults, an optional
// YAML file and EDITOR_SYNC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (EDITOR_SYNC_ENGINE_URL).
const EnvPrefix = "EDITOR_SYNC"

// Config holds application configuration.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Bridge  BridgeConfig  `mapstructure:"bridge"`
	State   StateConfig   `mapstructure:"state"`
	Project ProjectConfig `mapstructure:"project"`
	Log     LogConfig     `mapstructure:"log"`
}

// EngineConfig selects how the engine is reached. Command starts a child
// process, URL dials a WebSocket and Discover browses mDNS; the first one
// set wins in that order.
type EngineConfig struct {
	Command  string   `mapstructure:"command"`
	Args     []string `mapstructure:"args"`
	URL      string   `mapstructure:"url"`
	Discover bool     `mapstructure:"discover"`
	Framing  string   `mapstructure:"framing"`
	Codec    string   `mapstructure:"codec"`

	// KeepAlive is the WebSocket ping interval. Zero disables pings.
	KeepAlive time.Duration `mapstructure:"keepalive"`
}

// BridgeConfig holds message bridge settings.
type BridgeConfig struct {
	CorrelationIDs bool `mapstructure:"correlation_ids"`
}

// StateConfig locates the project snapshot.
type StateConfig struct {
	Path string `mapstructure:"path"`
}

// ProjectConfig seeds a new project.
type ProjectConfig struct {
	Name       string `mapstructure:"name"`
	AssetsPath string `mapstructure:"assets_path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level        string `mapstructure:"level"`
	Format       string `mapstructure:"format"`
	ProtocolFile string `mapstructure:"protocol_file"`
}

// Errors returned by Validate.
var (
	ErrInvalidFraming = errors.New("engine.framing must be lines or length")
	ErrInvalidCodec   = errors.New("engine.codec must be json or cbor")
	ErrInvalidFormat  = errors.New("log.format must be text or json")
	ErrInvalidLevel   = errors.New("log.level must be debug, info, warn or error")
)

// Options controls where Load reads from.
type Options struct {
	// File is an optional config file. Missing files are an error only
	// when File is set explicitly.
	File string

	// Fs is the filesystem the file is read from (default OS).
	Fs afero.Fs
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Args:      []string{},
			Framing:   "lines",
			Codec:     "json",
			KeepAlive: 15 * time.Second,
		},
		State:   StateConfig{Path: "editor-sync.yaml"},
		Project: ProjectConfig{Name: "untitled"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration from file and env.
func Load(opts Options) (Config, error) {
	v := viper.New()
	if opts.Fs != nil {
		v.SetFs(opts.Fs)
	}

	d := Default()
	v.SetDefault("engine.command", d.Engine.Command)
	v.SetDefault("engine.args", d.Engine.Args)
	v.SetDefault("engine.url", d.Engine.URL)
	v.SetDefault("engine.discover", d.Engine.Discover)
	v.SetDefault("engine.framing", d.Engine.Framing)
	v.SetDefault("engine.codec", d.Engine.Codec)
	v.SetDefault("engine.keepalive", d.Engine.KeepAlive)
	v.SetDefault("bridge.correlation_ids", d.Bridge.CorrelationIDs)
	v.SetDefault("state.path", d.State.Path)
	v.SetDefault("project.name", d.Project.Name)
	v.SetDefault("project.assets_path", d.Project.AssetsPath)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.protocol_file", d.Log.ProtocolFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", opts.File, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Engine.Framing {
	case "lines", "length":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFraming, c.Engine.Framing)
	}
	switch c.Engine.Codec {
	case "json", "cbor":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCodec, c.Engine.Codec)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Log.Format)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, l.Level)
	}
	return level, nil
}
