package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tordrt/resourcekit/internal/schema"
)

// Driver names understood by Open
const (
	DriverPostgres  = "postgres"
	DriverMySQL     = "mysql"
	DriverSQLServer = "sqlserver"
	DriverSQLite    = "sqlite"
)

// ErrUnsupportedDriver is returned for database URLs no extractor can serve
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// SchemaExtractor extracts table metadata from a live database
type SchemaExtractor interface {
	ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error)
}

// Source is an open database connection paired with its extractor
type Source struct {
	Driver    string
	Extractor SchemaExtractor
	client    *Client
}

// Close releases the underlying connection
func (s *Source) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// ParseDatabaseURL detects the database driver and returns the driver's connection string
func ParseDatabaseURL(url string) (driver, connectionStr string, err error) {
	if url == "" {
		return "", "", fmt.Errorf("database URL is required")
	}

	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	case strings.HasPrefix(url, "mysql://"):
		// Strip mysql:// prefix for the Go MySQL driver
		return DriverMySQL, strings.TrimPrefix(url, "mysql://"), nil
	case strings.HasPrefix(url, "sqlserver://"):
		// go-mssqldb accepts the URL form as-is
		return DriverSQLServer, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(url, "sqlite://"), nil
	}

	scheme := url
	if i := strings.Index(url, "://"); i >= 0 {
		scheme = url[:i]
	}
	return "", "", fmt.Errorf("%w: %q (must start with postgres://, mysql://, sqlserver://, or sqlite://)", ErrUnsupportedDriver, scheme)
}

// Open connects to the database named by url and returns a ready extractor.
// schemaName is optional: PostgreSQL defaults to "public", SQL Server to "dbo",
// MySQL to the database selected in the DSN.
func Open(ctx context.Context, url, schemaName string) (*Source, error) {
	driver, connStr, err := ParseDatabaseURL(url)
	if err != nil {
		return nil, err
	}

	if driver == DriverMySQL && schemaName == "" {
		schemaName, err = ParseDatabaseName(connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to determine database name: %w (please specify a schema)", err)
		}
	}

	client, err := Connect(ctx, driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driverTitles[driver], err)
	}

	source := &Source{Driver: driver, client: client}
	switch driver {
	case DriverPostgres:
		if schemaName == "" {
			schemaName = "public"
		}
		source.Extractor = NewPostgresExtractor(client, schemaName)
	case DriverMySQL:
		source.Extractor = NewMySQLExtractor(client, schemaName)
	case DriverSQLServer:
		if schemaName == "" {
			schemaName = "dbo"
		}
		source.Extractor = NewSQLServerExtractor(client, schemaName)
	default:
		source.Extractor = NewSQLiteExtractor(client)
	}
	return source, nil
}

var driverTitles = map[string]string{
	DriverPostgres:  "PostgreSQL",
	DriverMySQL:     "MySQL",
	DriverSQLServer: "SQL Server",
	DriverSQLite:    "SQLite",
}

// ParseEnumValues parses the values of a declaration such as
// "enum('a','b')" or "set('x','y')". Doubled quotes are unescaped.
func ParseEnumValues(columnType string) ([]string, error) {
	start := strings.Index(columnType, "(")
	end := strings.LastIndex(columnType, ")")
	if start == -1 || end == -1 || start >= end {
		return nil, fmt.Errorf("invalid enum type format: %s", columnType)
	}

	body := columnType[start+1 : end]
	var values []string
	var current strings.Builder
	inQuote := false

	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case ch == '\'' && inQuote && i+1 < len(body) && body[i+1] == '\'':
			current.WriteByte('\'')
			i++
		case ch == '\'':
			inQuote = !inQuote
		case ch == ',' && !inQuote:
			values = append(values, current.String())
			current.Reset()
		default:
			if inQuote || ch != ' ' {
				current.WriteByte(ch)
			}
		}
	}
	if inQuote {
		return nil, fmt.Errorf("invalid enum type format: %s", columnType)
	}
	values = append(values, current.String())

	return values, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

// markUniqueColumns flags the columns that carry a unique index of their own.
// Members of a multi-column unique index are not unique by themselves.
func markUniqueColumns(table *schema.Table) {
	for _, idx := range table.Indexes {
		if !idx.IsUnique || len(idx.Columns) != 1 {
			continue
		}
		for i := range table.Columns {
			if table.Columns[i].Name == idx.Columns[0] {
				table.Columns[i].IsUnique = true
			}
		}
	}
}

// assignKeys fills Column.Key from the primary key and index lists for
// engines that do not report it per column
func assignKeys(table *schema.Table) {
	for i := range table.Columns {
		col := &table.Columns[i]
		if col.Key != "" {
			continue
		}
		switch {
		case table.IsPrimaryKey(col.Name):
			col.Key = schema.KeyPrimary
		case col.IsUnique:
			col.Key = schema.KeyUnique
		case leadsIndex(table.Indexes, col.Name):
			col.Key = schema.KeyMultiple
		}
	}
}

func leadsIndex(indexes []schema.Index, column string) bool {
	for _, idx := range indexes {
		if len(idx.Columns) > 0 && idx.Columns[0] == column {
			return true
		}
	}
	return false
}

func baseTypeName(declared string) string {
	t := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexAny(t, "( "); i >= 0 {
		t = t[:i]
	}
	return t
}
