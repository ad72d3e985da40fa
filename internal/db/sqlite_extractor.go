package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tordrt/resourcekit/internal/schema"
)

// SQLiteExtractor reads table metadata through SQLite's PRAGMA functions
type SQLiteExtractor struct {
	client *Client
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *Client) *SQLiteExtractor {
	return &SQLiteExtractor{client: client}
}

// ExtractSchema extracts the named tables, or every user table when tables is empty
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	tableNames, err := e.getTableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	s := &schema.Schema{}
	for _, tableName := range tableNames {
		table, err := e.extractTable(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		s.Tables = append(s.Tables, *table)
	}
	return s, nil
}

func (e *SQLiteExtractor) getTableNames(ctx context.Context, requestedTables []string) ([]string, error) {
	if len(requestedTables) > 0 {
		return requestedTables, nil
	}

	return e.client.queryStrings(ctx, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
}

func (e *SQLiteExtractor) extractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	columns, pk, err := e.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", tableName)
	}
	table := &schema.Table{Name: tableName, Columns: columns, PrimaryKey: pk}

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

// extractColumns returns the columns in declaration order and the primary
// key columns in key order
func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, []string, error) {
	rows, err := e.client.DB().QueryContext(ctx, "PRAGMA table_info("+quoteSQLiteIdent(tableName)+")")
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	type keyPart struct {
		order int
		name  string
	}
	var columns []schema.Column
	var keyParts []keyPart

	for rows.Next() {
		var cid, notNull, pkOrder int
		var name, declared string
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &declared, &notNull, &defaultValue, &pkOrder); err != nil {
			return nil, nil, err
		}

		col := schema.Column{
			Name:       name,
			Position:   cid + 1,
			Type:       declared,
			DataType:   baseTypeName(declared),
			Nullable:   notNull == 0 && pkOrder == 0,
			IsUnsigned: strings.Contains(strings.ToLower(declared), "unsigned"),
		}
		if params := declaredParams(declared); len(params) > 0 {
			switch col.DataType {
			case "decimal", "numeric":
				col.Precision = &params[0]
				if len(params) > 1 {
					col.Scale = &params[1]
				}
			default:
				col.MaxLength = &params[0]
			}
		}
		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}
		if pkOrder > 0 {
			keyParts = append(keyParts, keyPart{order: pkOrder, name: name})
		}

		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	sort.Slice(keyParts, func(i, j int) bool { return keyParts[i].order < keyParts[j].order })
	pk := make([]string, 0, len(keyParts))
	for _, part := range keyParts {
		pk = append(pk, part.name)
	}

	// A single INTEGER PRIMARY KEY column aliases the rowid
	if len(pk) == 1 {
		for i := range columns {
			if columns[i].Name == pk[0] && strings.EqualFold(columns[i].Type, "integer") {
				columns[i].IsAutoIncrement = true
			}
		}
	}

	return columns, pk, nil
}

func (e *SQLiteExtractor) extractRelations(ctx context.Context, tableName string) ([]schema.Relation, error) {
	rows, err := e.client.DB().QueryContext(ctx, "PRAGMA foreign_key_list("+quoteSQLiteIdent(tableName)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []schema.Relation
	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, toCol, onUpdate, onDelete, match string

		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		relations = append(relations, schema.Relation{
			Name:         fmt.Sprintf("%s_%s_foreign", tableName, fromCol),
			SourceColumn: fromCol,
			TargetTable:  targetTable,
			TargetColumn: toCol,
			OnDelete:     onDelete,
			OnUpdate:     onUpdate,
			Cardinality:  "N:1",
		})
	}
	return relations, rows.Err()
}

// extractIndexes returns every index except the one backing the primary key.
// Indexes SQLite creates for UNIQUE constraints are kept without a name.
func (e *SQLiteExtractor) extractIndexes(ctx context.Context, tableName string) ([]schema.Index, error) {
	rows, err := e.client.DB().QueryContext(ctx, "PRAGMA index_list("+quoteSQLiteIdent(tableName)+")")
	if err != nil {
		return nil, err
	}

	type listed struct {
		name   string
		unique bool
	}
	var list []listed
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}
		if origin == "pk" {
			continue
		}
		list = append(list, listed{name: name, unique: unique == 1})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var indexes []schema.Index
	for _, l := range list {
		columns, err := e.indexColumns(ctx, l.name)
		if err != nil {
			return nil, err
		}
		if len(columns) == 0 {
			continue
		}
		idx := schema.Index{Name: l.name, IsUnique: l.unique, Columns: columns}
		if strings.HasPrefix(l.name, "sqlite_autoindex_") {
			idx.Name = ""
		}
		indexes = append(indexes, idx)
	}

	sort.SliceStable(indexes, func(i, j int) bool { return indexes[i].Name < indexes[j].Name })
	return indexes, nil
}

// indexColumns returns the named columns of an index in key order.
// Expression parts have no name and are left out.
func (e *SQLiteExtractor) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	rows, err := e.client.DB().QueryContext(ctx, "PRAGMA index_info("+quoteSQLiteIdent(indexName)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		if name.Valid {
			columns = append(columns, name.String)
		}
	}
	return columns, rows.Err()
}

// quoteSQLiteIdent quotes a table or index name for use as a PRAGMA argument
func quoteSQLiteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// declaredParams returns the numbers of a declaration such as "VARCHAR(n)"
// or "DECIMAL(p,s)"
func declaredParams(colType string) []int64 {
	start := strings.Index(colType, "(")
	end := strings.Index(colType, ")")
	if start == -1 || end <= start+1 {
		return nil
	}
	var params []int64
	for _, part := range strings.Split(colType[start+1:end], ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil
		}
		params = append(params, n)
	}
	return params
}
