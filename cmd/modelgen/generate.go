package main

import (
	"strings"
)

const generatedHeader = "// Code generated by modelgen. DO NOT EDIT.\n"

// GenerateModel returns the unformatted Go source for one model.
func GenerateModel(def *RawModelDef, pkg string) (string, error) {
	if err := def.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(generatedHeader)
	if def.Source != "" {
		b.WriteString("// Source: schema/" + def.Source + "\n")
	}
	b.WriteString("\npackage " + pkg + "\n\n")
	b.WriteString("import \"github.com/ceramic-editor/editor-sync/pkg/reactive\"\n")
	renderTemplate(&b, "model", def)
	return b.String(), nil
}

// outputFileName converts "SceneItem" to "scene_item_gen.go".
func outputFileName(name string) string {
	var result strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteByte('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String()) + "_gen.go"
}
