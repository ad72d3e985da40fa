package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/resourcekit/internal/schema"
)

// MySQLExtractor reads table metadata from MySQL's information_schema
type MySQLExtractor struct {
	client     *Client
	schemaName string
}

// NewMySQLExtractor creates a MySQL schema extractor for one database
func NewMySQLExtractor(client *Client, schemaName string) *MySQLExtractor {
	return &MySQLExtractor{client: client, schemaName: schemaName}
}

// ExtractSchema extracts the named tables, or every base table of the
// database when tables is empty
func (e *MySQLExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	if len(tables) == 0 {
		var err error
		tables, err = e.client.queryStrings(ctx, `
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = ? AND table_type = 'BASE TABLE'
			ORDER BY table_name
		`, e.schemaName)
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

// extractTable reads one table. COLUMN_KEY already carries the key kind,
// so no keys are derived here.
func (e *MySQLExtractor) extractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	columns, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found in schema %s", tableName, e.schemaName)
	}
	table := &schema.Table{Name: tableName, Columns: columns}

	table.PrimaryKey, err = e.client.queryStrings(ctx, `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
			AND table_name = ?
			AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position
	`, e.schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	if table.Relations, err = e.extractRelations(ctx, tableName); err != nil {
		return nil, fmt.Errorf("failed to extract relations: %w", err)
	}
	if table.Indexes, err = e.extractIndexes(ctx, tableName); err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}

	return table, nil
}

// extractColumns extracts column information for a table
func (e *MySQLExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, error) {
	query := `
		SELECT
			c.column_name,
			c.ordinal_position,
			c.column_type,
			c.data_type,
			c.is_nullable,
			c.column_default,
			c.column_key,
			c.extra,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale,
			c.column_comment
		FROM information_schema.columns c
		WHERE c.table_schema = ? AND c.table_name = ?
		ORDER BY c.ordinal_position
	`

	rows, err := e.client.DB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var nullable, extra string
		var defaultVal sql.NullString
		var maxLength, precision, scale sql.NullInt64

		if err := rows.Scan(
			&col.Name, &col.Position, &col.Type, &col.DataType, &nullable, &defaultVal,
			&col.Key, &extra, &maxLength, &precision, &scale, &col.Comment,
		); err != nil {
			return nil, err
		}

		col.DataType = strings.ToLower(col.DataType)
		col.Nullable = nullable == "YES"
		col.IsUnique = col.Key == schema.KeyUnique
		col.IsAutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")
		col.IsUnsigned = strings.Contains(strings.ToLower(col.Type), "unsigned")
		col.MaxLength = nullInt(maxLength)
		col.Precision = nullInt(precision)
		col.Scale = nullInt(scale)
		if defaultVal.Valid {
			col.DefaultValue = &defaultVal.String
		}

		// MySQL stores enum types as "enum('value1','value2')"
		if col.DataType == "enum" || col.DataType == "set" {
			values, err := ParseEnumValues(col.Type)
			if err != nil {
				return nil, err
			}
			col.EnumValues = values
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// extractRelations extracts foreign key relationships
func (e *MySQLExtractor) extractRelations(ctx context.Context, tableName string) ([]schema.Relation, error) {
	query := `
		SELECT
			kcu.constraint_name,
			kcu.column_name,
			kcu.referenced_table_name,
			kcu.referenced_column_name,
			rc.delete_rule,
			rc.update_rule
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.referential_constraints rc
			ON rc.constraint_schema = kcu.table_schema
			AND rc.constraint_name = kcu.constraint_name
		WHERE kcu.table_schema = ?
			AND kcu.table_name = ?
			AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.ordinal_position
	`

	rows, err := e.client.DB().QueryContext(ctx, query, e.schemaName, tableName)
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

// extractIndexes extracts index information
func (e *MySQLExtractor) extractIndexes(ctx context.Context, tableName string) ([]schema.Index, error) {
	query := `
		SELECT
			s.index_name,
			s.non_unique = 0 AS is_unique,
			GROUP_CONCAT(s.column_name ORDER BY s.seq_in_index) AS column_names
		FROM information_schema.statistics s
		WHERE s.table_schema = ?
			AND s.table_name = ?
			AND s.index_name != 'PRIMARY'
		GROUP BY s.index_name, s.non_unique
		ORDER BY s.index_name
	`

	rows, err := e.client.DB().QueryContext(ctx, query, e.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []schema.Index
	for rows.Next() {
		var idx schema.Index
		var isUnique int
		var columnNames string

		if err := rows.Scan(&idx.Name, &isUnique, &columnNames); err != nil {
			return nil, err
		}

		idx.IsUnique = isUnique == 1
		idx.Columns = strings.Split(columnNames, ",")

		indexes = append(indexes, idx)
	}

	return indexes, rows.Err()
}
