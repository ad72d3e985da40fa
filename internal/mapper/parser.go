// Package mapper turns extracted database metadata into resource fields,
// relations and indexes. A shared Parser runs the per-column pipeline; a
// Dialect supplies the engine-specific type and default handling.
package mapper

import (
	"strings"

	"go.uber.org/zap"

	"github.com/tordrt/resourcekit/internal/naming"
	"github.com/tordrt/resourcekit/internal/resource"
	"github.com/tordrt/resourcekit/internal/schema"
)

var timestampColumns = []string{"created_at", "updated_at"}

var displayColumns = []string{"name", "title", "label", "email", "username", "slug"}

// Parser maps tables to resources
type Parser struct {
	dialect Dialect
	locales []string
	logger  *zap.Logger
}

// NewParser creates a parser for a driver. Labels are generated for every
// locale; a nil logger disables logging.
func NewParser(driver string, locales []string, logger *zap.Logger) (*Parser, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	return NewParserWithDialect(dialect, locales, logger), nil
}

// NewParserWithDialect creates a parser around an explicit dialect
func NewParserWithDialect(dialect Dialect, locales []string, logger *zap.Logger) *Parser {
	if len(locales) == 0 {
		locales = []string{resource.DefaultLocale}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{dialect: dialect, locales: locales, logger: logger}
}

// Mapped is one table turned into a resource
type Mapped struct {
	Table    string
	Model    string
	Resource *resource.Resource
	Warnings []string
}

// Map converts every table of the schema
func (p *Parser) Map(s *schema.Schema) []Mapped {
	results := make([]Mapped, 0, len(s.Tables))
	for i := range s.Tables {
		table := &s.Tables[i]
		res, warnings := p.Resource(table, s)
		results = append(results, Mapped{
			Table:    table.Name,
			Model:    naming.ModelName(table.Name),
			Resource: res,
			Warnings: warnings,
		})
	}
	return results
}

// Resource converts one table. related is consulted to pick a display field
// for belongsTo relations and may be nil.
func (p *Parser) Resource(table *schema.Table, related *schema.Schema) (*resource.Resource, []string) {
	res := resource.New()
	res.TableName = table.Name
	res.AutoTimestamp = hasColumns(table, timestampColumns...)

	fields := p.Fields(table)
	if res.AutoTimestamp {
		for _, f := range fields {
			if isTimestampColumn(f.Name) {
				f.IsOnForm = false
			}
		}
	}

	report := resource.Append(res, fields, p.relations(table, related), p.indexes(table))
	for _, w := range report.Warnings {
		p.logger.Warn("mapping conflict", zap.String("table", table.Name), zap.String("warning", w))
	}

	p.logger.Debug("mapped table",
		zap.String("dialect", p.dialect.Name()),
		zap.String("table", table.Name),
		zap.Int("fields", len(res.Fields)),
		zap.Int("relations", len(res.Relations)),
		zap.Int("indexes", len(res.Indexes)))
	return res, report.Warnings
}

// Fields returns exactly one field per column, in ordinal order
func (p *Parser) Fields(table *schema.Table) []*resource.Field {
	fields := make([]*resource.Field, 0, len(table.Columns))
	for _, col := range table.Columns {
		fields = append(fields, p.Field(table, col))
	}
	return fields
}

// Field runs the mapping pipeline for one column
func (p *Parser) Field(table *schema.Table, col schema.Column) *resource.Field {
	f := resource.NewField(col.Name)

	// Name, nullability and default
	f.IsNullable = col.Nullable
	f.DataValue = p.dialect.Default(col)

	// Data type, including the dialect's boolean heuristics
	f.DataType, f.DataTypeParams = p.dialect.DataType(col)

	// Key flags
	singlePrimary := len(table.PrimaryKey) == 1 && table.PrimaryKey[0] == col.Name
	f.IsPrimary = singlePrimary
	if !singlePrimary {
		f.IsUnique = col.IsUnique || hasSingleColumnIndex(table, col.Name, true)
		f.IsIndex = !f.IsUnique && hasSingleColumnIndex(table, col.Name, false)
	}

	// Auto increment implies primary and unsigned
	if col.IsAutoIncrement {
		f.IsAutoIncrement = true
		f.IsUnsigned = true
		if len(table.PrimaryKey) <= 1 {
			f.IsPrimary = true
		}
	}

	// Unsigned
	if col.IsUnsigned {
		f.IsUnsigned = true
	}

	// Enum options
	if len(col.EnumValues) > 0 {
		f.DataType = resource.TypeEnum
		f.DataTypeParams = nil
		for _, v := range col.EnumValues {
			f.Options = append(f.Options, resource.Option{Value: v})
		}
	}

	// Comment and labels
	f.Comment = col.Comment
	for _, locale := range p.locales {
		f.SetLabel(locale, naming.Humanize(col.Name))
	}

	// Foreign key
	if rel := table.RelationFor(col.Name); rel != nil {
		f.ForeignConstraint = &resource.ForeignConstraint{
			Field:      col.Name,
			References: rel.TargetColumn,
			On:         rel.TargetTable,
			OnDelete:   strings.ToLower(rel.OnDelete),
			OnUpdate:   strings.ToLower(rel.OnUpdate),
		}
	}

	resource.Optimize(f, p.locales)
	return f
}

// relations derives a belongsTo relation from every foreign key
func (p *Parser) relations(table *schema.Table, related *schema.Schema) []*resource.ForeignRelationship {
	var out []*resource.ForeignRelationship
	for _, rel := range table.Relations {
		name := strings.TrimSuffix(rel.SourceColumn, "_id")
		if name == rel.SourceColumn {
			// the column name itself is taken by the field
			name = naming.Singular(rel.TargetTable)
		}

		fr := &resource.ForeignRelationship{
			Name:   naming.ToCamelCase(name),
			Type:   resource.RelationBelongsTo,
			Params: []string{naming.ModelName(rel.TargetTable), rel.SourceColumn, rel.TargetColumn},
		}
		if related != nil {
			if target := related.Table(rel.TargetTable); target != nil {
				fr.Field = displayField(target, rel.TargetColumn)
			}
		}
		out = append(out, fr)
	}
	return out
}

// indexes turns composite keys and multi-column indexes into resource indexes
func (p *Parser) indexes(table *schema.Table) []*resource.Index {
	var out []*resource.Index
	if len(table.PrimaryKey) > 1 {
		out = append(out, &resource.Index{
			Name:    resource.DefaultIndexName(table.PrimaryKey, resource.IndexTypePrimary),
			Type:    resource.IndexTypePrimary,
			Columns: append([]string{}, table.PrimaryKey...),
		})
	}
	for _, idx := range table.Indexes {
		if len(idx.Columns) < 2 {
			continue
		}
		indexType := resource.IndexTypeIndex
		if idx.IsUnique {
			indexType = resource.IndexTypeUnique
		}
		name := idx.Name
		if name == "" {
			name = resource.DefaultIndexName(idx.Columns, indexType)
		}
		out = append(out, &resource.Index{
			Name:    name,
			Type:    indexType,
			Columns: append([]string{}, idx.Columns...),
		})
	}
	return out
}

// displayField picks the column of a related table best suited to label a
// record: a well-known name column, else the first text column, else key
func displayField(target *schema.Table, key string) string {
	for _, name := range displayColumns {
		if hasColumns(target, name) {
			return name
		}
	}
	for _, col := range target.Columns {
		switch col.DataType {
		case "varchar", "nvarchar", "character varying", "text", "char", "nchar":
			if !target.IsPrimaryKey(col.Name) {
				return col.Name
			}
		}
	}
	return key
}

func hasSingleColumnIndex(table *schema.Table, column string, unique bool) bool {
	for _, idx := range table.Indexes {
		if len(idx.Columns) == 1 && idx.Columns[0] == column && idx.IsUnique == unique {
			return true
		}
	}
	return false
}

func hasColumns(table *schema.Table, names ...string) bool {
	for _, name := range names {
		found := false
		for _, col := range table.Columns {
			if col.Name == name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func isTimestampColumn(name string) bool {
	for _, c := range timestampColumns {
		if c == name {
			return true
		}
	}
	return false
}
