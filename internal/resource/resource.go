package resource

import (
	"errors"
	"fmt"
	"strings"
)

// Relation types accepted in resource files
const (
	RelationHasOne        = "hasOne"
	RelationHasMany       = "hasMany"
	RelationBelongsTo     = "belongsTo"
	RelationBelongsToMany = "belongsToMany"
	RelationMorphTo       = "morphTo"
	RelationMorphOne      = "morphOne"
	RelationMorphMany     = "morphMany"
)

// Index types accepted in resource files
const (
	IndexTypeIndex   = "index"
	IndexTypeUnique  = "unique"
	IndexTypePrimary = "primary"
)

var relationTypes = map[string]bool{
	RelationHasOne: true, RelationHasMany: true, RelationBelongsTo: true, RelationBelongsToMany: true,
	RelationMorphTo: true, RelationMorphOne: true, RelationMorphMany: true,
}

// IsRelationType reports whether t is a known relation type
func IsRelationType(t string) bool { return relationTypes[t] }

// IsIndexType reports whether t is a known index type
func IsIndexType(t string) bool {
	return t == IndexTypeIndex || t == IndexTypeUnique || t == IndexTypePrimary
}

// ForeignRelationship links the resource to another model
type ForeignRelationship struct {
	Name   string   `json:"name" yaml:"name"`
	Type   string   `json:"type" yaml:"type"`
	Params []string `json:"params" yaml:"params"`
	Field  string   `json:"field,omitempty" yaml:"field,omitempty"`
}

// Index is a named, possibly multi-column, database index
type Index struct {
	Name    string   `json:"name" yaml:"name"`
	Type    string   `json:"type" yaml:"type"`
	Columns []string `json:"columns" yaml:"columns"`
}

// DefaultIndexName derives a name from the columns and type: "title_slug_unique"
func DefaultIndexName(columns []string, indexType string) string {
	if indexType == "" {
		indexType = IndexTypeIndex
	}
	return strings.Join(append(append([]string{}, columns...), indexType), "_")
}

// Resource describes one model: its fields, relations and indexes
type Resource struct {
	TableName     string                 `json:"table-name,omitempty" yaml:"table-name,omitempty"`
	AutoTimestamp bool                   `json:"auto-manage-created-and-updated-at" yaml:"auto-manage-created-and-updated-at"`
	Fields        []*Field               `json:"fields" yaml:"fields"`
	Relations     []*ForeignRelationship `json:"relations" yaml:"relations"`
	Indexes       []*Index               `json:"indexes" yaml:"indexes"`
}

// New creates an empty resource
func New() *Resource {
	return &Resource{
		AutoTimestamp: true,
		Fields:        []*Field{},
		Relations:     []*ForeignRelationship{},
		Indexes:       []*Index{},
	}
}

// IsEmpty reports whether the resource has no fields, relations or indexes
func (r *Resource) IsEmpty() bool {
	return len(r.Fields) == 0 && len(r.Relations) == 0 && len(r.Indexes) == 0
}

// Field returns the named field, or nil
func (r *Resource) Field(name string) *Field {
	for _, f := range r.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Relation returns the named relation, or nil
func (r *Resource) Relation(name string) *ForeignRelationship {
	for _, rel := range r.Relations {
		if rel.Name == name {
			return rel
		}
	}
	return nil
}

// Index returns the named index, or nil
func (r *Resource) Index(name string) *Index {
	for _, idx := range r.Indexes {
		if idx.Name == name {
			return idx
		}
	}
	return nil
}

// PrimaryField returns the field marked primary, falling back to a field
// named "id". It returns nil when neither exists.
func (r *Resource) PrimaryField() *Field {
	for _, f := range r.Fields {
		if f.IsPrimary {
			return f
		}
	}
	return r.Field("id")
}

// FieldNames returns the field names in order
func (r *Resource) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Locales returns every locale used by a field label, in first-seen order
func (r *Resource) Locales() []string {
	seen := map[string]bool{}
	var locales []string
	for _, f := range r.Fields {
		for _, l := range sortedKeys(f.Labels) {
			if !seen[l] {
				seen[l] = true
				locales = append(locales, l)
			}
		}
	}
	return locales
}

// Validate checks the resource invariants and reports every violation
func (r *Resource) Validate() error {
	var errs []error

	seen := map[string]bool{}
	primaries := 0
	for i, f := range r.Fields {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("field #%d has no name", i+1))
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("duplicate field name %q", f.Name))
		}
		seen[f.Name] = true
		if f.IsPrimary {
			primaries++
		}
		if f.DataType != "" && !IsDataType(f.DataType) {
			errs = append(errs, fmt.Errorf("field %q has unknown data type %q", f.Name, f.DataType))
		}
		if f.HTMLType != "" && !IsHTMLType(f.HTMLType) {
			errs = append(errs, fmt.Errorf("field %q has unknown html type %q", f.Name, f.HTMLType))
		}
	}
	if primaries > 1 {
		errs = append(errs, fmt.Errorf("%d fields are marked primary, at most one is allowed", primaries))
	}

	relations := map[string]bool{}
	for _, rel := range r.Relations {
		if relations[rel.Name] {
			errs = append(errs, fmt.Errorf("duplicate relation name %q", rel.Name))
		}
		relations[rel.Name] = true
		if !IsRelationType(rel.Type) {
			errs = append(errs, fmt.Errorf("relation %q has unknown type %q", rel.Name, rel.Type))
		}
	}

	indexes := map[string]bool{}
	for _, idx := range r.Indexes {
		if indexes[idx.Name] {
			errs = append(errs, fmt.Errorf("duplicate index name %q", idx.Name))
		}
		indexes[idx.Name] = true
		if len(idx.Columns) == 0 {
			errs = append(errs, fmt.Errorf("index %q has no columns", idx.Name))
		}
	}

	return errors.Join(errs...)
}
