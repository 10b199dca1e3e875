package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// RawModelDef is a model schema loaded from YAML.
type RawModelDef struct {
	Name        string           `yaml:"name"`
	Kind        string           `yaml:"kind"`
	Description string           `yaml:"description"`
	Fields      []RawFieldDef    `yaml:"fields"`
	Computed    []RawComputedDef `yaml:"computed"`

	// Source is the schema file name, set by the loader.
	Source string `yaml:"-"`
}

// RawFieldDef is one observable cell.
type RawFieldDef struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"` // "string", "int", "float64", "bool", "map", "list" or a Go type
	Persisted   bool   `yaml:"persisted"`
	ReadOnly    bool   `yaml:"readOnly"`
	Default     any    `yaml:"default"`
	Description string `yaml:"description"`
}

// RawComputedDef is a derived read-only cell. The model must implement
// compute<Name>() <Type>.
type RawComputedDef struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// LoadModelDef reads and validates one schema file.
func LoadModelDef(path string) (*RawModelDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := ParseModelDef(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	def.Source = filepath.Base(path)
	return def, nil
}

// ParseModelDef decodes and validates a schema.
func ParseModelDef(data []byte) (*RawModelDef, error) {
	var def RawModelDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks names are present and unique.
func (d *RawModelDef) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("model name is required")
	}
	if d.Kind == "" {
		return fmt.Errorf("model %s: kind is required", d.Name)
	}
	seen := make(map[string]bool)
	check := func(name, typ string) error {
		if name == "" {
			return fmt.Errorf("model %s: field without name", d.Name)
		}
		if typ == "" {
			return fmt.Errorf("model %s: field %s has no type", d.Name, name)
		}
		if seen[name] {
			return fmt.Errorf("model %s: duplicate field %s", d.Name, name)
		}
		seen[name] = true
		return nil
	}
	for _, f := range d.Fields {
		if err := check(f.Name, f.Type); err != nil {
			return err
		}
	}
	for _, c := range d.Computed {
		if err := check(c.Name, c.Type); err != nil {
			return err
		}
	}
	return nil
}

// LoadSchemaDir loads every *.yaml file in dir, sorted by file name.
func LoadSchemaDir(dir string) ([]*RawModelDef, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var defs []*RawModelDef
	for _, p := range paths {
		def, err := LoadModelDef(p)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
