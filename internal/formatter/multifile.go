package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tordrt/resourcekit/internal/resource"
)

const (
	formatMarkdown = "markdown"
	formatText     = "text"
)

// Document is one resource to write, together with its names
type Document struct {
	Model    string
	Table    string
	Resource *resource.Resource
}

// MultiFileFormatter writes resources to one file each plus an overview
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
	Locale       string
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format, locale string) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
		Locale:       locale,
	}
}

// IsFormat reports whether name is a supported output format
func IsFormat(name string) bool {
	return name == formatMarkdown || name == formatText
}

// Format writes the documents and returns the paths written
func (f *MultiFileFormatter) Format(docs []Document) ([]string, error) {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	sorted := make([]Document, len(docs))
	copy(sorted, docs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Table < sorted[j].Table
	})

	overview, err := f.writeOverview(sorted)
	if err != nil {
		return nil, fmt.Errorf("failed to write overview: %w", err)
	}
	paths := []string{overview}

	for _, doc := range sorted {
		path, err := f.writeResourceFile(doc, sorted)
		if err != nil {
			return paths, fmt.Errorf("failed to write resource file for %s: %w", doc.Table, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func (f *MultiFileFormatter) writeOverview(docs []Document) (string, error) {
	filename := filepath.Join(f.OutputDir, "_overview"+f.getFileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat == formatMarkdown {
		_, _ = fmt.Fprintf(file, "# Resource Overview\n\n")
		_, _ = fmt.Fprintf(file, "Each resource has a corresponding file: `<table_name>%s`\n\n", f.getFileExtension())
		_, _ = fmt.Fprintf(file, "## Resources\n\n")
	} else {
		_, _ = fmt.Fprintf(file, "RESOURCE OVERVIEW\n")
		_, _ = fmt.Fprintf(file, "Each resource has a file: <table_name>%s\n\n", f.getFileExtension())
	}

	for _, doc := range docs {
		line := doc.Table
		if f.OutputFormat == formatMarkdown {
			line = fmt.Sprintf("- **%s** (%s, %d fields)", doc.Table, doc.Model, len(doc.Resource.Fields))
		}
		if targets := referencedTables(doc.Resource); len(targets) > 0 {
			line += fmt.Sprintf(" (references: %s)", strings.Join(targets, ", "))
		}
		_, _ = fmt.Fprintln(file, line)
	}

	return filename, nil
}

func (f *MultiFileFormatter) writeResourceFile(doc Document, all []Document) (string, error) {
	filename := filepath.Join(f.OutputDir, doc.Table+f.getFileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	if f.OutputFormat != formatMarkdown {
		return filename, NewTextFormatter(file, f.Locale).Format(doc.Model, doc.Table, doc.Resource)
	}

	if err := NewMarkdownFormatter(file, f.Locale).Format(doc.Model, doc.Table, doc.Resource); err != nil {
		return "", err
	}
	writeIncoming(file, findIncomingReferences(doc.Table, all))
	return filename, nil
}

// IncomingReference is a foreign key in another resource that points here
type IncomingReference struct {
	SourceTable string
	SourceField string
	TargetField string
}

// findIncomingReferences finds every foreign constraint pointing to table
func findIncomingReferences(table string, docs []Document) []IncomingReference {
	var incoming []IncomingReference
	for _, doc := range docs {
		for _, field := range doc.Resource.Fields {
			if fc := field.ForeignConstraint; fc != nil && fc.On == table {
				incoming = append(incoming, IncomingReference{
					SourceTable: doc.Table,
					SourceField: field.Name,
					TargetField: fc.References,
				})
			}
		}
	}
	return incoming
}

func writeIncoming(w io.Writer, incoming []IncomingReference) {
	if len(incoming) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "### Referenced by\n\n")
	for _, ref := range incoming {
		_, _ = fmt.Fprintf(w, "- %s.%s → %s\n", ref.SourceTable, ref.SourceField, ref.TargetField)
	}
	_, _ = fmt.Fprintln(w)
}

// referencedTables lists the distinct tables a resource's foreign keys point to
func referencedTables(res *resource.Resource) []string {
	var targets []string
	seen := map[string]bool{}
	for _, field := range res.Fields {
		if fc := field.ForeignConstraint; fc != nil && !seen[fc.On] {
			seen[fc.On] = true
			targets = append(targets, fc.On)
		}
	}
	return targets
}

func (f *MultiFileFormatter) getFileExtension() string {
	if f.OutputFormat == formatMarkdown {
		return ".md"
	}
	return ".txt"
}
