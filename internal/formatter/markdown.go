package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/resourcekit/internal/resource"
)

// MarkdownFormatter formats a resource as markdown
type MarkdownFormatter struct {
	writer io.Writer
	locale string
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer, locale string) *MarkdownFormatter {
	if locale == "" {
		locale = resource.DefaultLocale
	}
	return &MarkdownFormatter{writer: w, locale: locale}
}

// Format writes the resource in markdown format
func (f *MarkdownFormatter) Format(model, table string, res *resource.Resource) error {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", model)
	_, _ = fmt.Fprintf(f.writer, "Table: `%s`", table)
	if res.AutoTimestamp {
		_, _ = fmt.Fprint(f.writer, " (created_at and updated_at managed automatically)")
	}
	_, _ = fmt.Fprint(f.writer, "\n\n")

	f.FormatFields(f.writer, res.Fields)
	f.FormatRelations(f.writer, res.Relations)
	f.FormatIndexes(f.writer, res.Indexes)
	return nil
}

// FormatFields writes the fields section
func (f *MarkdownFormatter) FormatFields(w io.Writer, fields []*resource.Field) {
	_, _ = fmt.Fprintln(w, "### Fields")
	_, _ = fmt.Fprintln(w)

	if len(fields) == 0 {
		_, _ = fmt.Fprintln(w, "_none_")
		_, _ = fmt.Fprintln(w)
		return
	}

	for _, field := range fields {
		details := append([]string{typeString(field)}, constraints(field)...)
		_, _ = fmt.Fprintf(w, "- **%s:** %s\n", field.Name, strings.Join(details, ", "))

		var extra []string
		if label := field.Label(f.locale); label != field.Name {
			extra = append(extra, fmt.Sprintf("label %q", label))
		}
		if field.HTMLType != "" {
			extra = append(extra, "html "+field.HTMLType)
		}
		if len(field.Validation) > 0 {
			extra = append(extra, "validation `"+field.Validation.String()+"`")
		}
		if hidden := hiddenFrom(field); hidden != "" {
			extra = append(extra, "hidden on "+hidden)
		}
		if len(extra) > 0 {
			_, _ = fmt.Fprintf(w, "  - %s\n", strings.Join(extra, "; "))
		}
		if field.Comment != "" {
			_, _ = fmt.Fprintf(w, "  - %s\n", field.Comment)
		}
	}
	_, _ = fmt.Fprintln(w)
}

// FormatRelations writes the relations section, if any
func (f *MarkdownFormatter) FormatRelations(w io.Writer, relations []*resource.ForeignRelationship) {
	if len(relations) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "### Relations")
	_, _ = fmt.Fprintln(w)
	for _, rel := range relations {
		_, _ = fmt.Fprintf(w, "- %s\n", relationString(rel))
	}
	_, _ = fmt.Fprintln(w)
}

// FormatIndexes writes the indexes section, if any
func (f *MarkdownFormatter) FormatIndexes(w io.Writer, indexes []*resource.Index) {
	if len(indexes) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, "### Indexes")
	_, _ = fmt.Fprintln(w)
	for _, idx := range indexes {
		if idx.Type == resource.IndexTypeIndex {
			_, _ = fmt.Fprintf(w, "- %s on (%s)\n", idx.Name, strings.Join(idx.Columns, ", "))
		} else {
			_, _ = fmt.Fprintf(w, "- %s on (%s), %s\n", idx.Name, strings.Join(idx.Columns, ", "), idx.Type)
		}
	}
	_, _ = fmt.Fprintln(w)
}

func hiddenFrom(field *resource.Field) string {
	var views []string
	if !field.IsOnIndex {
		views = append(views, "index")
	}
	if !field.IsOnForm {
		views = append(views, "form")
	}
	if !field.IsOnShow {
		views = append(views, "show")
	}
	return strings.Join(views, ", ")
}
