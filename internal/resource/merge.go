package resource

import (
	"fmt"
	"strings"
)

// Report summarizes an append or reduce. Warnings are non-fatal: a skipped
// duplicate or a name that was not found never fails the operation.
type Report struct {
	FieldsAdded      int
	RelationsAdded   int
	IndexesAdded     int
	FieldsRemoved    int
	RelationsRemoved int
	IndexesRemoved   int
	Warnings         []string
}

// Changed reports whether anything was added or removed
func (r *Report) Changed() bool {
	return r.FieldsAdded+r.RelationsAdded+r.IndexesAdded+
		r.FieldsRemoved+r.RelationsRemoved+r.IndexesRemoved > 0
}

func (r *Report) warn(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Append merges new fields, relations and indexes into res. Items are
// matched by name: the first occurrence wins and later duplicates, whether
// already in the resource or earlier in the same batch, are skipped with a
// warning. A field marked primary is demoted when res already has a primary
// field.
func Append(res *Resource, fields []*Field, relations []*ForeignRelationship, indexes []*Index) *Report {
	report := &Report{}

	hasPrimary := false
	for _, f := range res.Fields {
		if f.IsPrimary {
			hasPrimary = true
			break
		}
	}

	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			report.warn("field without a name skipped")
			continue
		}
		if res.Field(name) != nil {
			report.warn("field %q already exists; skipped", name)
			continue
		}
		f.Name = name
		if f.IsPrimary && hasPrimary {
			report.warn("field %q cannot be primary, %q already is; added as a regular field", name, res.PrimaryField().Name)
			f.IsPrimary = false
			f.IsAutoIncrement = false
		}
		if f.IsPrimary {
			hasPrimary = true
		}
		res.Fields = append(res.Fields, f)
		report.FieldsAdded++
	}

	for _, rel := range relations {
		name := strings.TrimSpace(rel.Name)
		if name == "" {
			report.warn("relation without a name skipped")
			continue
		}
		if res.Relation(name) != nil {
			report.warn("relation %q already exists; skipped", name)
			continue
		}
		rel.Name = name
		res.Relations = append(res.Relations, rel)
		report.RelationsAdded++
	}

	for _, idx := range indexes {
		name := strings.TrimSpace(idx.Name)
		if name == "" {
			name = DefaultIndexName(idx.Columns, idx.Type)
		}
		if res.Index(name) != nil {
			report.warn("index %q already exists; skipped", name)
			continue
		}
		idx.Name = name
		for _, col := range idx.Columns {
			if res.Field(col) == nil {
				report.warn("index %q references unknown field %q", name, col)
			}
		}
		res.Indexes = append(res.Indexes, idx)
		report.IndexesAdded++
	}

	return report
}

// Reduce removes the named fields, relations and indexes from res. Names that
// are not present produce a warning. Indexes left referencing a removed field
// are reported but kept.
func Reduce(res *Resource, fieldNames, relationNames, indexNames []string) *Report {
	report := &Report{}

	removed := map[string]bool{}
	for _, name := range fieldNames {
		name = strings.TrimSpace(name)
		i := indexOfField(res.Fields, name)
		if i < 0 {
			report.warn("field %q not found", name)
			continue
		}
		res.Fields = append(res.Fields[:i], res.Fields[i+1:]...)
		removed[name] = true
		report.FieldsRemoved++
	}

	for _, name := range relationNames {
		name = strings.TrimSpace(name)
		i := -1
		for j, rel := range res.Relations {
			if rel.Name == name {
				i = j
				break
			}
		}
		if i < 0 {
			report.warn("relation %q not found", name)
			continue
		}
		res.Relations = append(res.Relations[:i], res.Relations[i+1:]...)
		report.RelationsRemoved++
	}

	for _, name := range indexNames {
		name = strings.TrimSpace(name)
		i := -1
		for j, idx := range res.Indexes {
			if idx.Name == name {
				i = j
				break
			}
		}
		if i < 0 {
			report.warn("index %q not found", name)
			continue
		}
		res.Indexes = append(res.Indexes[:i], res.Indexes[i+1:]...)
		report.IndexesRemoved++
	}

	for _, idx := range res.Indexes {
		for _, col := range idx.Columns {
			if removed[col] {
				report.warn("index %q still references removed field %q", idx.Name, col)
			}
		}
	}

	return report
}

func indexOfField(fields []*Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
