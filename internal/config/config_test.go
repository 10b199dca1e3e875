package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "lines", c.Engine.Framing)
	assert.Equal(t, "json", c.Engine.Codec)
	assert.Equal(t, 15*time.Second, c.Engine.KeepAlive)
	assert.False(t, c.Bridge.CorrelationIDs)
	assert.Equal(t, "editor-sync.yaml", c.State.Path)
	assert.Equal(t, "untitled", c.Project.Name)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/editor-sync.yaml", []byte(`
engine:
  command: ./engine
  args: [--headless, --port, "0"]
  codec: cbor
  framing: length
  keepalive: 30s
bridge:
  correlation_ids: true
project:
  name: demo
  assets_path: /work/assets
log:
  level: debug
  protocol_file: /tmp/session.synclog
`), 0o644))

	c, err := Load(Options{File: "/etc/editor-sync.yaml", Fs: fs})
	require.NoError(t, err)

	assert.Equal(t, "./engine", c.Engine.Command)
	assert.Equal(t, []string{"--headless", "--port", "0"}, c.Engine.Args)
	assert.Equal(t, "cbor", c.Engine.Codec)
	assert.Equal(t, "length", c.Engine.Framing)
	assert.Equal(t, 30*time.Second, c.Engine.KeepAlive)
	assert.True(t, c.Bridge.CorrelationIDs)
	assert.Equal(t, "demo", c.Project.Name)
	assert.Equal(t, "/work/assets", c.Project.AssetsPath)
	assert.Equal(t, "/tmp/session.synclog", c.Log.ProtocolFile)
	assert.Equal(t, "text", c.Log.Format, "unset keys keep defaults")

	level, err := c.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Options{File: "/nope.yaml", Fs: afero.NewMemMapFs()})
	assert.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/c.yaml", []byte("engine:\n  url: ws://file:1\n"), 0o644))
	t.Setenv("EDITOR_SYNC_ENGINE_URL", "ws://env:2")
	t.Setenv("EDITOR_SYNC_BRIDGE_CORRELATION_IDS", "true")

	c, err := Load(Options{File: "/c.yaml", Fs: fs})
	require.NoError(t, err)
	assert.Equal(t, "ws://env:2", c.Engine.URL)
	assert.True(t, c.Bridge.CorrelationIDs)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"defaults", func(*Config) {}, nil},
		{"framing", func(c *Config) { c.Engine.Framing = "xml" }, ErrInvalidFraming},
		{"codec", func(c *Config) { c.Engine.Codec = "msgpack" }, ErrInvalidCodec},
		{"format", func(c *Config) { c.Log.Format = "pretty" }, ErrInvalidFormat},
		{"level", func(c *Config) { c.Log.Level = "loud" }, ErrInvalidLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}
