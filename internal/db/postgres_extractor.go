package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/resourcekit/internal/schema"
)

const varcharType = "varchar"

// PostgresExtractor reads table metadata from information_schema and the
// pg_catalog of one PostgreSQL schema
type PostgresExtractor struct {
	client *Client
	schema string
}

// NewPostgresExtractor creates a PostgreSQL schema extractor for schemaName
func NewPostgresExtractor(client *Client, schemaName string) *PostgresExtractor {
	return &PostgresExtractor{client: client, schema: schemaName}
}

// ExtractSchema extracts the named tables, or every base table of the schema
// when tables is empty
func (e *PostgresExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	if len(tables) == 0 {
		var err error
		tables, err = e.client.queryStrings(ctx, `
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = $1 AND table_type = 'BASE TABLE'
			ORDER BY table_name
		`, e.schema)
		if err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}

	s := &schema.Schema{}
	for _, tableName := range tables {
		table, err := e.extractTable(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		s.Tables = append(s.Tables, *table)
	}
	return s, nil
}

func (e *PostgresExtractor) extractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	columns, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found in schema %s", tableName, e.schema)
	}
	table := &schema.Table{Name: tableName, Columns: columns}

	if table.PrimaryKey, err = e.extractPrimaryKey(ctx, tableName); err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	if table.Relations, err = e.extractRelations(ctx, tableName); err != nil {
		return nil, fmt.Errorf("failed to extract relations: %w", err)
	}
	if table.Indexes, err = e.extractIndexes(ctx, tableName); err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}

	markUniqueColumns(table)
	assignKeys(table)

	return table, nil
}

// extractColumns extracts column information for a table
func (e *PostgresExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, error) {
	query := `
		SELECT
			column_name,
			ordinal_position::int,
			data_type,
			udt_name,
			is_nullable,
			column_default,
			is_identity,
			character_maximum_length::bigint,
			numeric_precision::bigint,
			numeric_scale::bigint,
			COALESCE(col_description(format('%I.%I', table_schema, table_name)::regclass, ordinal_position::int), '')
		FROM information_schema.columns c
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := e.client.DB().QueryContext(ctx, query, e.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	var enumColumns []int
	for rows.Next() {
		var col schema.Column
		var dataType, udtName, nullable, identity string
		var defaultVal *string

		if err := rows.Scan(
			&col.Name, &col.Position, &dataType, &udtName, &nullable, &defaultVal, &identity,
			&col.MaxLength, &col.Precision, &col.Scale, &col.Comment,
		); err != nil {
			return nil, err
		}

		col.Type = normalizePostgresType(dataType, udtName, col.MaxLength)
		col.DataType = strings.ToLower(udtName)
		col.Nullable = (nullable == "YES")
		col.DefaultValue = defaultVal
		col.IsAutoIncrement = identity == "YES" || (defaultVal != nil && strings.HasPrefix(*defaultVal, "nextval("))
		if col.IsAutoIncrement {
			// Sequence defaults are generated, not user defaults
			col.DefaultValue = nil
		}

		if dataType == "USER-DEFINED" {
			enumColumns = append(enumColumns, len(columns))
		}

		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	// Resolve enum labels for user-defined types
	for _, idx := range enumColumns {
		values, err := e.extractEnumValues(ctx, columns[idx].DataType)
		if err != nil {
			return nil, err
		}
		if len(values) > 0 {
			columns[idx].DataType = "enum"
			columns[idx].EnumValues = values
		}
	}

	return columns, nil
}

// normalizePostgresType maps verbose SQL type names to commonly-used PostgreSQL equivalents
func normalizePostgresType(dataType, udtName string, charMaxLength *int64) string {
	switch dataType {
	case "timestamp with time zone":
		return "timestamptz"
	case "timestamp without time zone":
		return "timestamp"
	case "time with time zone":
		return "timetz"
	case "time without time zone":
		return "time"
	case "character varying":
		if charMaxLength != nil {
			return fmt.Sprintf("varchar(%d)", *charMaxLength)
		}
		return varcharType
	case "character":
		if charMaxLength != nil {
			return fmt.Sprintf("char(%d)", *charMaxLength)
		}
		return "char"
	case "ARRAY":
		// udt_name has underscore prefix for arrays (e.g., "_text" for text[], "_int4" for integer[])
		if len(udtName) > 0 && udtName[0] == '_' {
			elementType := normalizeUdtName(udtName[1:])
			return fmt.Sprintf("%s[]", elementType)
		}
		return "array"
	case "USER-DEFINED":
		return udtName
	default:
		return dataType
	}
}

// normalizeUdtName converts PostgreSQL internal type names to more readable forms
func normalizeUdtName(udtName string) string {
	switch udtName {
	case "int4":
		return "integer"
	case "int8":
		return "bigint"
	case "int2":
		return "smallint"
	case "float4":
		return "real"
	case "float8":
		return "double precision"
	case "bool":
		return "boolean"
	case varcharType:
		return varcharType
	default:
		return udtName
	}
}

// extractEnumValues returns the labels of an enum type, or nil for other user-defined types
func (e *PostgresExtractor) extractEnumValues(ctx context.Context, typeName string) ([]string, error) {
	return e.client.queryStrings(ctx, `
		SELECT e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON e.enumtypid = t.oid
		JOIN pg_namespace n ON n.oid = t.typnamespace
		WHERE t.typname = $1
		ORDER BY e.enumsortorder
	`, typeName)
}

// extractPrimaryKey returns the primary key columns in key order
func (e *PostgresExtractor) extractPrimaryKey(ctx context.Context, tableName string) ([]string, error) {
	return e.client.queryStrings(ctx, `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON kcu.constraint_name = tc.constraint_name
			AND kcu.table_schema = tc.table_schema
			AND kcu.table_name = tc.table_name
		WHERE tc.table_schema = $1
			AND tc.table_name = $2
			AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position
	`, e.schema, tableName)
}

// extractRelations extracts foreign key relationships
func (e *PostgresExtractor) extractRelations(ctx context.Context, tableName string) ([]schema.Relation, error) {
	query := `
		SELECT
			tc.constraint_name,
			kcu.column_name,
			ccu.table_name AS foreign_table_name,
			ccu.column_name AS foreign_column_name,
			rc.delete_rule,
			rc.update_rule
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		JOIN information_schema.referential_constraints AS rc
			ON rc.constraint_name = tc.constraint_name
			AND rc.constraint_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`

	rows, err := e.client.DB().QueryContext(ctx, query, e.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []schema.Relation
	for rows.Next() {
		var rel schema.Relation
		if err := rows.Scan(&rel.Name, &rel.SourceColumn, &rel.TargetTable, &rel.TargetColumn, &rel.OnDelete, &rel.OnUpdate); err != nil {
			return nil, err
		}
		rel.Cardinality = "N:1"
		relations = append(relations, rel)
	}

	return relations, rows.Err()
}

// extractIndexes returns the table's secondary indexes, including those
// backing UNIQUE constraints, with their columns in key order
func (e *PostgresExtractor) extractIndexes(ctx context.Context, tableName string) ([]schema.Index, error) {
	query := `
		SELECT i.relname, ix.indisunique, a.attname
		FROM pg_class t
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_index ix ON ix.indrelid = t.oid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		WHERE t.relkind = 'r'
			AND n.nspname = $1
			AND t.relname = $2
			AND NOT ix.indisprimary
		ORDER BY i.relname, array_position(ix.indkey::int2[], a.attnum)
	`

	rows, err := e.client.DB().QueryContext(ctx, query, e.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []schema.Index
	for rows.Next() {
		var name, column string
		var unique bool
		if err := rows.Scan(&name, &unique, &column); err != nil {
			return nil, err
		}

		if n := len(indexes); n > 0 && indexes[n-1].Name == name {
			indexes[n-1].Columns = append(indexes[n-1].Columns, column)
			continue
		}
		indexes = append(indexes, schema.Index{Name: name, IsUnique: unique, Columns: []string{column}})
	}

	return indexes, rows.Err()
}
