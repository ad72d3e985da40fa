// Package formatter prints resources for people: a compact text view, a
// markdown document and a directory of per-resource documents.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/resourcekit/internal/resource"
)

// TextFormatter formats a resource as compact text
type TextFormatter struct {
	writer io.Writer
	locale string
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer, locale string) *TextFormatter {
	if locale == "" {
		locale = resource.DefaultLocale
	}
	return &TextFormatter{writer: w, locale: locale}
}

// Format writes the resource in compact text format
func (f *TextFormatter) Format(model, table string, res *resource.Resource) error {
	header := "table: " + table
	if res.AutoTimestamp {
		header += ", timestamps"
	}
	_, _ = fmt.Fprintf(f.writer, "RESOURCE %s (%s)\n", model, header)

	for _, field := range res.Fields {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", f.formatField(field))
	}

	if len(res.Relations) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  RELATIONS:")
		for _, rel := range res.Relations {
			_, _ = fmt.Fprintf(f.writer, "    %s\n", relationString(rel))
		}
	}

	if len(res.Indexes) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  INDEXES:")
		for _, idx := range res.Indexes {
			_, _ = fmt.Fprintf(f.writer, "    %s (%s) %s\n", idx.Name, strings.Join(idx.Columns, ", "), strings.ToUpper(idx.Type))
		}
	}

	return nil
}

func (f *TextFormatter) formatField(field *resource.Field) string {
	parts := []string{field.Name + ":", typeString(field)}
	parts = append(parts, constraints(field)...)
	if label := field.Label(f.locale); label != "" && label != field.Name {
		parts = append(parts, fmt.Sprintf("%q", label))
	}
	return strings.Join(parts, " ")
}

// typeString renders the data type with its params or options
func typeString(field *resource.Field) string {
	t := field.DataType
	if t == "" {
		t = "?"
	}
	if len(field.Options) > 0 {
		return fmt.Sprintf("%s (%s)", t, strings.Join(field.OptionValues(), "|"))
	}
	if len(field.DataTypeParams) > 0 {
		return fmt.Sprintf("%s(%s)", t, strings.Join(field.DataTypeParams, ","))
	}
	return t
}

// constraints lists the column-level flags of a field
func constraints(field *resource.Field) []string {
	var out []string
	if field.IsPrimary {
		out = append(out, "PK")
	}
	if field.IsAutoIncrement {
		out = append(out, "AUTO_INCREMENT")
	}
	if field.IsUnsigned {
		out = append(out, "UNSIGNED")
	}
	if field.IsUnique {
		out = append(out, "UNIQUE")
	}
	if field.IsIndex {
		out = append(out, "INDEX")
	}
	if !field.IsNullable {
		out = append(out, "NOT NULL")
	}
	if field.DataValue != nil {
		out = append(out, "DEFAULT "+*field.DataValue)
	}
	if fc := field.ForeignConstraint; fc != nil {
		out = append(out, fmt.Sprintf("→ %s.%s", fc.On, fc.References))
	}
	return out
}

func relationString(rel *resource.ForeignRelationship) string {
	s := fmt.Sprintf("%s: %s(%s)", rel.Name, rel.Type, strings.Join(rel.Params, ", "))
	if rel.Field != "" {
		s += " shows " + rel.Field
	}
	return s
}
