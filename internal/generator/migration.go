package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tordrt/resourcekit/internal/db"
	"github.com/tordrt/resourcekit/internal/resource"
	"github.com/tordrt/resourcekit/internal/stub"
)

const migrationStub = "migration/create_table"

// MigrationGenerator writes CREATE TABLE migrations for one SQL dialect
type MigrationGenerator struct {
	dialect sqlDialect
	opts    Options
}

// NewMigrationGenerator creates a generator for dialect: mysql, postgres,
// sqlite or sqlserver
func NewMigrationGenerator(dialect string, opts Options) (*MigrationGenerator, error) {
	d, err := newSQLDialect(dialect)
	if err != nil {
		return nil, err
	}
	return &MigrationGenerator{dialect: d, opts: opts.withDefaults()}, nil
}

// FileName returns the migration file name for a table at the generator's clock
func (g *MigrationGenerator) FileName(table string) string {
	return fmt.Sprintf("%s_create_%s_table.sql", g.opts.Now().Format("2006_01_02_150405"), table)
}

// Render returns the migration SQL for a subject
func (g *MigrationGenerator) Render(subject Subject) (string, []string, error) {
	if len(subject.Resource.Fields) == 0 {
		return "", nil, fmt.Errorf("resource %s has no fields", subject.Model)
	}

	columns, constraints := g.columns(subject)
	body := make([]string, 0, len(columns)+len(constraints))
	for _, c := range append(columns, constraints...) {
		body = append(body, "    "+c)
	}

	tokens := stub.Tokens{
		"migration_name":    strings.TrimSuffix(g.FileName(subject.Table), ".sql"),
		"table_name":        subject.Table,
		"quoted_table_name": g.dialect.quote(subject.Table),
		"dialect":           g.dialect.name,
		"columns":           strings.Join(body, ",\n"),
		"indexes":           strings.Join(g.statements(subject), "\n"),
	}
	return g.opts.Loader.Render(migrationStub, tokens)
}

// Generate writes the migration into dir. An existing migration for the same
// table blocks generation unless Force is set, in which case it is rewritten
// in place.
func (g *MigrationGenerator) Generate(subject Subject, dir string) (*Result, error) {
	content, unresolved, err := g.Render(subject)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, g.FileName(subject.Table))
	existing, err := filepath.Glob(filepath.Join(dir, "*_create_"+subject.Table+"_table.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to look for existing migrations: %w", err)
	}
	if len(existing) > 0 {
		if !g.opts.Force {
			return nil, fmt.Errorf("%w: %s (use --force to overwrite)", ErrTargetExists, existing[0])
		}
		path = existing[0]
	}

	if err := writeTarget(path, []byte(content), true); err != nil {
		return nil, err
	}

	g.opts.Logger.Debug("generated migration",
		zap.String("table", subject.Table),
		zap.String("dialect", g.dialect.name),
		zap.String("path", path))
	return &Result{Path: path, Unresolved: unresolved}, nil
}

// columns returns the column definitions and table constraints
func (g *MigrationGenerator) columns(subject Subject) ([]string, []string) {
	d := g.dialect
	res := subject.Resource

	var primaryIndex *resource.Index
	for _, idx := range res.Indexes {
		if idx.Type == resource.IndexTypePrimary {
			primaryIndex = idx
			break
		}
	}

	// without a primary index the key is the flagged field, or "id"
	var primaryField *resource.Field
	if primaryIndex == nil {
		primaryField = res.PrimaryField()
	}

	var columns, constraints []string
	for _, f := range res.Fields {
		columns = append(columns, g.columnDefinition(f, f == primaryField))
	}

	if res.AutoTimestamp {
		for _, name := range timestampColumns {
			if res.Field(name) == nil {
				columns = append(columns, fmt.Sprintf("%s %s NULL", d.quote(name), d.timestampType()))
			}
		}
	}

	if primaryIndex != nil {
		constraints = append(constraints, fmt.Sprintf("CONSTRAINT %s PRIMARY KEY (%s)",
			d.quote(subject.Table+"_"+primaryIndex.Name), d.quoteList(primaryIndex.Columns)))
	}

	for _, f := range res.Fields {
		fc := f.ForeignConstraint
		if fc == nil || fc.On == "" || fc.References == "" {
			continue
		}
		c := fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
			d.quote(subject.Table+"_"+f.Name+"_foreign"), d.quote(f.Name), d.quote(fc.On), d.quote(fc.References))
		if fc.OnDelete != "" {
			c += " ON DELETE " + strings.ToUpper(fc.OnDelete)
		}
		if fc.OnUpdate != "" {
			c += " ON UPDATE " + strings.ToUpper(fc.OnUpdate)
		}
		constraints = append(constraints, c)
	}

	return columns, constraints
}

func (g *MigrationGenerator) columnDefinition(f *resource.Field, primary bool) string {
	d := g.dialect

	if d.name == db.DriverSQLite && primary && f.IsAutoIncrement && resource.IsIntegerType(f.DataType) {
		return d.quote(f.Name) + " INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	parts := []string{d.quote(f.Name), d.columnType(f)}
	if f.IsNullable && !primary {
		parts = append(parts, "NULL")
	} else {
		parts = append(parts, "NOT NULL")
	}
	if def := d.defaultValue(f); def != "" && !f.IsAutoIncrement {
		parts = append(parts, "DEFAULT "+def)
	}
	if primary {
		parts = append(parts, "PRIMARY KEY")
	} else if f.IsUnique {
		parts = append(parts, "UNIQUE")
	}
	if f.DataType == resource.TypeEnum && d.name != db.DriverMySQL && len(f.Options) > 0 {
		parts = append(parts, fmt.Sprintf("CHECK (%s IN (%s))", d.quote(f.Name), d.literalList(f.OptionValues())))
	}
	return strings.Join(parts, " ") + d.inlineComment(f)
}

// statements returns the index and comment statements that follow the table
func (g *MigrationGenerator) statements(subject Subject) []string {
	d := g.dialect
	res := subject.Resource
	table := d.quote(subject.Table)

	var stmts []string
	for _, f := range res.Fields {
		if f.IsIndex && !f.IsPrimary && !f.IsUnique {
			name := subject.Table + "_" + resource.DefaultIndexName([]string{f.Name}, resource.IndexTypeIndex)
			stmts = append(stmts, fmt.Sprintf("CREATE INDEX %s ON %s (%s);", d.quote(name), table, d.quote(f.Name)))
		}
	}
	for _, idx := range res.Indexes {
		switch idx.Type {
		case resource.IndexTypeUnique:
			stmts = append(stmts, fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s);", d.quote(idx.Name), table, d.quoteList(idx.Columns)))
		case resource.IndexTypeIndex:
			stmts = append(stmts, fmt.Sprintf("CREATE INDEX %s ON %s (%s);", d.quote(idx.Name), table, d.quoteList(idx.Columns)))
		}
	}
	if d.name == db.DriverPostgres {
		for _, f := range res.Fields {
			if f.Comment != "" {
				stmts = append(stmts, fmt.Sprintf("COMMENT ON COLUMN %s.%s IS %s;", table, d.quote(f.Name), d.literal(f.Comment)))
			}
		}
	}
	return stmts
}

var timestampColumns = []string{"created_at", "updated_at"}
