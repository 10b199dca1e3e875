package persistence

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ceramic-editor/editor-sync/pkg/model"
	"github.com/ceramic-editor/editor-sync/pkg/reactive"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProject() *model.Project {
	rt := reactive.NewRuntime()
	p := model.NewProject(rt, "")
	p.CreateWithName("demo")
	p.SetAssetsPath("/work/assets")
	hero := p.Scene().AddItem("hero", "ceramic.Quad")
	hero.SetX(10)
	hero.SetWidth(64.5)
	hero.SetProps(map[string]any{"texture": "hero"})
	p.UI().SetSelectedItemName("hero")
	return p
}

func TestLoadMissing(t *testing.T) {
	s := NewStore(afero.NewMemMapFs(), "/state/project.yaml")
	doc, err := s.Load()
	assert.NoError(t, err)
	assert.Nil(t, doc)
	assert.NoError(t, s.Clear())
}

func TestSaveLoadRestore(t *testing.T) {
	for _, path := range []string{"/state/project.yaml", "/state/project.json"} {
		t.Run(FormatFor(path).String(), func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			s := NewStore(fsys, path)
			p := sampleProject()

			doc, written, err := s.Save(p.Snapshot())
			require.NoError(t, err)
			assert.True(t, written)
			assert.Equal(t, DocumentVersion, doc.Version)
			assert.Len(t, doc.Revision, 26)
			assert.Len(t, doc.Digest, 64)

			loaded, err := s.Load()
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, doc.Revision, loaded.Revision)
			assert.Equal(t, doc.Digest, loaded.Digest)

			restored := model.NewProject(reactive.NewRuntime(), loaded.Root.ID)
			require.NoError(t, restored.Restore(loaded.Root))

			assert.Equal(t, p.ID(), restored.ID())
			assert.Equal(t, "demo", restored.Name())
			assert.Equal(t, "/work/assets", restored.AssetsPath())
			assert.Equal(t, 320, restored.Scene().Width())
			assert.Equal(t, "hero", restored.UI().SelectedItemName())
			item, ok := restored.Scene().Item("hero")
			require.True(t, ok)
			assert.Equal(t, 10.0, item.X())
			assert.Equal(t, 64.5, item.Width())
			assert.Equal(t, "hero", item.Props()["texture"])
		})
	}
}

func TestSaveSkipsUnchanged(t *testing.T) {
	s := NewStore(afero.NewMemMapFs(), "/state/project.yaml")
	calls := 0
	s.now = func() time.Time {
		calls++
		return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Add(time.Duration(calls) * time.Second)
	}
	p := sampleProject()

	first, written, err := s.Save(p.Snapshot())
	require.NoError(t, err)
	require.True(t, written)

	again, written, err := s.Save(p.Snapshot())
	require.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, first.Revision, again.Revision)

	p.SetName("renamed")
	next, written, err := s.Save(p.Snapshot())
	require.NoError(t, err)
	assert.True(t, written)
	assert.NotEqual(t, first.Digest, next.Digest)
	assert.Greater(t, next.Revision, first.Revision, "revisions sort by time")
}

func TestLoadRejectsOtherVersions(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/p.json", []byte(`{"version":7,"root":{"id":"x"}}`), 0o644))

	_, err := NewStore(fsys, "/p.json").Load()
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	require.NoError(t, afero.WriteFile(fsys, "/q.json", []byte(`{"version":1}`), 0o644))
	_, err = NewStore(fsys, "/q.json").Load()
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestSaveOverwritesUnreadableFile(t *testing.T) {
	for _, tt := range []struct {
		name, path, content string
	}{
		{name: "garbage yaml", path: "/p.yaml", content: "version: [unterminated"},
		{name: "garbage json", path: "/p.json", content: "{not json"},
		{name: "other version", path: "/p.json", content: `{"version":7,"root":{"id":"x"}}`},
		{name: "no root", path: "/p.yaml", content: "version: 1\n"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fsys, tt.path, []byte(tt.content), 0o644))
			var logs bytes.Buffer
			s := NewStore(fsys, tt.path)
			s.SetLogger(slog.New(slog.NewTextHandler(&logs, nil)))

			doc, written, err := s.Save(sampleProject().Snapshot())
			require.NoError(t, err)
			assert.True(t, written)
			assert.Contains(t, logs.String(), "Overwriting unreadable snapshot")

			loaded, err := s.Load()
			require.NoError(t, err)
			require.NotNil(t, loaded)
			assert.Equal(t, doc.Revision, loaded.Revision)
		})
	}
}

type renameFailFs struct {
	afero.Fs
}

func (renameFailFs) Rename(string, string) error {
	return &os.LinkError{Op: "rename", Err: errors.New("device busy")}
}

func TestSaveRemovesTempOnRenameFailure(t *testing.T) {
	mem := afero.NewMemMapFs()
	s := NewStore(renameFailFs{mem}, "/state/p.yaml")

	_, written, err := s.Save(sampleProject().Snapshot())
	require.Error(t, err)
	assert.False(t, written)

	exists, err := afero.Exists(mem, "/state/p.yaml.tmp")
	require.NoError(t, err)
	if exists {
		t.Errorf("temporary file left behind")
	}
}

func TestSaveNilRoot(t *testing.T) {
	_, _, err := NewStore(afero.NewMemMapFs(), "/p.yaml").Save(nil)
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestClear(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := NewStore(fsys, "/state/p.yaml")
	_, _, err := s.Save(sampleProject().Snapshot())
	require.NoError(t, err)

	require.NoError(t, s.Clear())
	exists, err := afero.Exists(fsys, "/state/p.yaml")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFor("a/b.JSON"))
	assert.Equal(t, FormatYAML, FormatFor("a/b.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("a/b"))
}
