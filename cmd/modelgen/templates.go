package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

var funcMap = template.FuncMap{
	"goTitleCase": goTitleCase,
	"goType":      goType,
	"defaultExpr": defaultExpr,
	"cellOptions": cellOptions,
	"firstLower":  firstLower,
	"firstUpper":  goTitleCase,
	"quote":       func(s string) string { return fmt.Sprintf("%q", s) },
}

var templates = template.Must(template.New("").Funcs(funcMap).Parse(modelTmpl))

// renderTemplate executes a named template into the builder.
func renderTemplate(b *strings.Builder, name string, data any) {
	if err := templates.ExecuteTemplate(b, name, data); err != nil {
		panic(fmt.Sprintf("template %s: %v", name, err))
	}
}

const modelTmpl = `{{define "model"}}
// Kind{{.Name}} is the model kind of {{.Name}}.
const Kind{{.Name}} = {{quote .Kind}}

// {{.Name}} field names.
const (
{{- range .Fields}}
{{$.Name}}Field{{goTitleCase .Name}} = {{quote .Name}}
{{- end}}
{{- range .Computed}}
{{$.Name}}Field{{goTitleCase .Name}} = {{quote .Name}}
{{- end}}
)

{{- if .Description}}

// {{.Name}} is {{firstLower .Description}}.
{{- end}}
type {{.Name}} struct {
*reactive.Model
{{range .Fields}}
{{.Name}} *reactive.Cell[{{goType .Type}}]
{{- end}}
{{- range .Computed}}
{{.Name}} *reactive.Computed[{{goType .Type}}]
{{- end}}
}

// New{{.Name}} creates a {{.Name}} with default values. An empty id gets a
// fresh one.
func New{{.Name}}(rt *reactive.Runtime, id string) *{{.Name}} {
m := &{{.Name}}{Model: reactive.NewModel(rt, Kind{{.Name}}, id)}
{{- range .Fields}}
m.{{.Name}} = reactive.Define[{{goType .Type}}](m.Model, {{$.Name}}Field{{goTitleCase .Name}}, {{defaultExpr .}}{{cellOptions .}})
{{- end}}
{{- range .Computed}}
m.{{.Name}} = reactive.NewComputed(m.Model, {{$.Name}}Field{{goTitleCase .Name}}, m.compute{{goTitleCase .Name}})
{{- end}}
return m
}

// ReactiveModel returns the underlying model. It is safe on a nil receiver.
func (m *{{.Name}}) ReactiveModel() *reactive.Model {
if m == nil {
return nil
}
return m.Model
}
{{range .Fields}}
// {{goTitleCase .Name}} returns {{.Name}} and records the read.
{{- if .Description}}
// {{firstUpper .Description}}.
{{- end}}
func (m *{{$.Name}}) {{goTitleCase .Name}}() {{goType .Type}} {
return m.{{.Name}}.Get()
}
{{if not .ReadOnly}}
// Set{{goTitleCase .Name}} writes {{.Name}}.
func (m *{{$.Name}}) Set{{goTitleCase .Name}}(v {{goType .Type}}) {
m.{{.Name}}.Set(v)
}
{{end}}
{{- end}}
{{- range .Computed}}
// {{goTitleCase .Name}} returns the derived {{.Name}} and records the read.
func (m *{{$.Name}}) {{goTitleCase .Name}}() {{goType .Type}} {
return m.{{.Name}}.Get()
}
{{end}}
{{- end}}`

// goTitleCase converts "anchorX" to "AnchorX".
func goTitleCase(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func firstLower(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// goType maps schema types to Go types. Unknown names are taken as Go
// types declared in the target package.
func goType(t string) string {
	switch t {
	case "map":
		return "map[string]any"
	case "list":
		return "[]string"
	default:
		return t
	}
}

// defaultExpr renders the initial value of a field.
func defaultExpr(f RawFieldDef) string {
	if f.Default == nil {
		switch f.Type {
		case "string":
			return `""`
		case "int", "float64":
			return "0"
		case "bool":
			return "false"
		default:
			return "nil"
		}
	}
	switch v := f.Default.(type) {
	case string:
		return strconv.Quote(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		panic(fmt.Sprintf("field %s: unsupported default %T", f.Name, f.Default))
	}
}

func cellOptions(f RawFieldDef) string {
	var opts []string
	if f.Persisted {
		opts = append(opts, "reactive.Persisted()")
	}
	if f.ReadOnly {
		opts = append(opts, "reactive.ReadOnly()")
	}
	if len(opts) == 0 {
		return ""
	}
	return ", " + strings.Join(opts, ", ")
}
