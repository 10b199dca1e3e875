// Command modelgen generates reactive model types from YAML schemas.
//
//	go run ./cmd/modelgen -schema pkg/model/schema -output pkg/model
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

func main() {
	schemaDir := flag.String("schema", "", "Directory of model schema YAMLs")
	outputDir := flag.String("output", "", "Output directory for generated Go files")
	pkg := flag.String("package", "model", "Package name of the generated files")
	flag.Parse()

	if *schemaDir == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: modelgen -schema <dir> -output <dir> [-package <name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*schemaDir, *outputDir, *pkg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(schemaDir, outputDir, pkg string) error {
	defs, err := LoadSchemaDir(schemaDir)
	if err != nil {
		return fmt.Errorf("loading schemas: %w", err)
	}
	if len(defs) == 0 {
		return fmt.Errorf("no schemas in %s", schemaDir)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	for _, def := range defs {
		code, err := GenerateModel(def, pkg)
		if err != nil {
			return fmt.Errorf("generating %s: %w", def.Name, err)
		}
		outPath := filepath.Join(outputDir, outputFileName(def.Name))
		if err := writeFormatted(outPath, code); err != nil {
			return fmt.Errorf("writing %s: %w", outPath, err)
		}
		fmt.Printf("  generated %s\n", outPath)
	}
	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Keep the raw output for debugging the template.
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
