package generator

import (
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tordrt/resourcekit/internal/naming"
	"github.com/tordrt/resourcekit/internal/resource"
	"github.com/tordrt/resourcekit/internal/stub"
)

// FormGenerator renders an HTML form fragment from the form stubs
type FormGenerator struct {
	opts   Options
	locale string
}

// NewFormGenerator creates a form generator that labels fields in locale
func NewFormGenerator(locale string, opts Options) *FormGenerator {
	if locale == "" {
		locale = resource.DefaultLocale
	}
	return &FormGenerator{opts: opts.withDefaults(), locale: locale}
}

// Path returns the form file of a table: <dir>/<table>/form.html
func (g *FormGenerator) Path(dir, table string) string {
	return filepath.Join(dir, table, "form.html")
}

// Render builds the form for every field shown on forms
func (g *FormGenerator) Render(subject Subject) (string, []string, error) {
	var unresolved []string
	var fields strings.Builder

	for _, f := range subject.Resource.Fields {
		if !f.IsOnForm {
			continue
		}
		out, missing, err := g.field(f)
		if err != nil {
			return "", nil, err
		}
		unresolved = appendUnique(unresolved, missing...)
		fields.WriteString(out)
	}

	snake := naming.ToSnakeCase(subject.Model)
	out, missing, err := g.opts.Loader.Render("form/form", stub.Tokens{
		"action":           "/" + subject.Table,
		"model_name_snake": snake,
		"submit_label":     "Save " + naming.Humanize(snake),
		"fields":           strings.TrimRight(fields.String(), "\n"),
	})
	if err != nil {
		return "", nil, err
	}
	return out, appendUnique(unresolved, missing...), nil
}

// Generate renders the form and writes it below dir
func (g *FormGenerator) Generate(subject Subject, dir string) (*Result, error) {
	content, unresolved, err := g.Render(subject)
	if err != nil {
		return nil, err
	}

	path := g.Path(dir, subject.Table)
	if err := writeTarget(path, []byte(content), g.opts.Force); err != nil {
		return nil, err
	}
	g.opts.Logger.Debug("generated form", zap.String("path", path), zap.Strings("unresolved", unresolved))
	return &Result{Path: path, Unresolved: unresolved}, nil
}

func (g *FormGenerator) field(f *resource.Field) (string, []string, error) {
	var unresolved []string

	help := ""
	if f.Comment != "" {
		out, missing, err := g.opts.Loader.Render("form/help", stub.Tokens{"comment": html.EscapeString(f.Comment)})
		if err != nil {
			return "", nil, err
		}
		help = out
		unresolved = appendUnique(unresolved, missing...)
	}

	value := ""
	if f.DataValue != nil {
		value = *f.DataValue
	}

	tokens := stub.Tokens{
		"field_name":      f.Name,
		"field_label":     html.EscapeString(f.Label(g.locale)),
		"required_marker": "",
		"input_type":      inputType(f.HTMLType),
		"field_value":     html.EscapeString(value),
		"attributes":      attributes(f),
		"help":            help,
		"placeholder":     html.EscapeString(fmt.Sprintf("Select %s", strings.ToLower(f.Label(g.locale)))),
		"checked":         "",
	}
	if f.HasRule("required") {
		tokens["required_marker"] = " *"
	}

	name := "form/input"
	switch f.HTMLType {
	case resource.HTMLHidden:
		name = "form/hidden"
	case resource.HTMLTextarea:
		name = "form/textarea"
	case resource.HTMLCheckbox:
		name = "form/checkbox"
		if isTruthy(value) {
			tokens["checked"] = " checked"
		}
	case resource.HTMLSelect, resource.HTMLRadio:
		name = "form/" + f.HTMLType
		options, missing, err := g.options(f, value)
		if err != nil {
			return "", nil, err
		}
		unresolved = appendUnique(unresolved, missing...)
		tokens["options"] = options
	}

	out, missing, err := g.opts.Loader.Render(name, tokens)
	if err != nil {
		return "", nil, err
	}
	return out, appendUnique(unresolved, missing...), nil
}

// options renders one option stub per allowed value. selected marks the
// field's default value.
func (g *FormGenerator) options(f *resource.Field, selected string) (string, []string, error) {
	name, mark := "form/select-option", " selected"
	if f.HTMLType == resource.HTMLRadio {
		name, mark = "form/radio-option", " checked"
	}

	var b strings.Builder
	var unresolved []string
	for _, o := range f.Options {
		tokens := stub.Tokens{
			"field_name":   f.Name,
			"option_value": html.EscapeString(o.Value),
			"option_label": html.EscapeString(optionLabel(o, g.locale)),
			"selected":     "",
			"checked":      "",
		}
		if selected != "" && o.Value == selected {
			tokens["selected"] = mark
			tokens["checked"] = mark
		}
		out, missing, err := g.opts.Loader.Render(name, tokens)
		if err != nil {
			return "", nil, err
		}
		unresolved = appendUnique(unresolved, missing...)
		b.WriteString(out)
	}
	return b.String(), unresolved, nil
}

func inputType(htmlType string) string {
	switch htmlType {
	case resource.HTMLDateTime:
		return "datetime-local"
	case "":
		return resource.HTMLText
	}
	return htmlType
}

// attributes derives input attributes from the field's validation and type
func attributes(f *resource.Field) string {
	var attrs []string
	if f.HasRule("required") && f.HTMLType != resource.HTMLCheckbox {
		attrs = append(attrs, "required")
	}
	if f.DataType == resource.TypeString || f.DataType == resource.TypeChar {
		if ints := f.DataTypeParams.Ints(); len(ints) > 0 {
			attrs = append(attrs, fmt.Sprintf(`maxlength="%d"`, ints[0]))
		}
	}
	switch {
	case f.DataType == resource.TypeDecimal || f.DataType == resource.TypeFloat || f.DataType == resource.TypeDouble:
		attrs = append(attrs, `step="any"`)
	case resource.IsIntegerType(f.DataType) && f.IsUnsigned && f.HTMLType == resource.HTMLNumber:
		attrs = append(attrs, `min="0"`)
	}
	if len(attrs) == 0 {
		return ""
	}
	return " " + strings.Join(attrs, " ")
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
