package enginesim

import (
	"path"
	"sort"
	"strings"
	"unicode"

	"github.com/ceramic-editor/editor-sync/pkg/wire"
)

// Asset kinds by file extension.
var (
	ImageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp"}
	TextExtensions  = []string{"txt", "json", "xml", "csv"}
	SoundExtensions = []string{"ogg", "wav", "mp3", "m4a"}
	FontExtensions  = []string{"fnt", "ttf", "otf"}
)

// AssetName returns the logical name of a file: its path without the
// extension and without a density suffix ("ui/button@2x.png" is
// "ui/button").
func AssetName(file string) string {
	name := strings.TrimSuffix(file, path.Ext(file))
	if i := strings.LastIndex(name, "@"); i > strings.LastIndex(name, "/") {
		name = name[:i]
	}
	return name
}

// ConstName converts an asset name to an upper snake case identifier.
// "ui/big-button" is "UI_BIG_BUTTON".
func ConstName(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Classify groups a flat file list the way the engine does.
func Classify(list []string) wire.AssetsListsResponse {
	resp := wire.AssetsListsResponse{
		Images:        []wire.AssetInfo{},
		Texts:         []wire.AssetInfo{},
		Sounds:        []wire.AssetInfo{},
		Fonts:         []wire.AssetInfo{},
		All:           []string{},
		AllDirs:       []string{},
		AllByName:     wire.NewOrderedMap(),
		AllDirsByName: wire.NewOrderedMap(),
	}

	files := append([]string(nil), list...)
	sort.Strings(files)

	kinds := []struct {
		exts []string
		dst  *[]wire.AssetInfo
	}{
		{ImageExtensions, &resp.Images},
		{TextExtensions, &resp.Texts},
		{SoundExtensions, &resp.Sounds},
		{FontExtensions, &resp.Fonts},
	}
	for _, k := range kinds {
		*k.dst = group(files, k.exts)
	}

	byName := make(map[string][]string)
	dirs := make(map[string]bool)
	for _, f := range files {
		name := AssetName(f)
		if _, ok := byName[name]; !ok {
			resp.All = append(resp.All, name)
		}
		byName[name] = append(byName[name], f)

		for dir := path.Dir(f); dir != "." && dir != "/"; dir = path.Dir(dir) {
			dirs[dir] = true
		}
	}
	for _, name := range resp.All {
		resp.AllByName.Set(name, byName[name])
	}

	for dir := range dirs {
		resp.AllDirs = append(resp.AllDirs, dir)
	}
	sort.Strings(resp.AllDirs)
	for _, dir := range resp.AllDirs {
		resp.AllDirsByName.Set(dir, []string{dir})
	}
	return resp
}

func group(files []string, exts []string) []wire.AssetInfo {
	out := []wire.AssetInfo{}
	index := make(map[string]int)
	for _, f := range files {
		if !hasExtension(f, exts) {
			continue
		}
		name := AssetName(f)
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, wire.AssetInfo{Name: name, ConstName: ConstName(name)})
		}
		out[i].Paths = append(out[i].Paths, f)
	}
	return out
}

func hasExtension(file string, exts []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(file)), ".")
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}
