package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tordrt/resourcekit/internal/db"
	"github.com/tordrt/resourcekit/internal/resource"
)

// sqlDialect knows how one engine spells identifiers, types and defaults
type sqlDialect struct {
	name string
}

func newSQLDialect(name string) (sqlDialect, error) {
	switch name {
	case db.DriverMySQL, db.DriverPostgres, db.DriverSQLite, db.DriverSQLServer:
		return sqlDialect{name: name}, nil
	}
	return sqlDialect{}, fmt.Errorf("%w: %q (use mysql, postgres, sqlite or sqlserver)", db.ErrUnsupportedDriver, name)
}

// quote quotes an identifier
func (d sqlDialect) quote(identifier string) string {
	switch d.name {
	case db.DriverMySQL:
		return "`" + strings.ReplaceAll(identifier, "`", "``") + "`"
	case db.DriverSQLServer:
		return "[" + strings.ReplaceAll(identifier, "]", "]]") + "]"
	default:
		return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
	}
}

// quoteList quotes and joins identifiers
func (d sqlDialect) quoteList(identifiers []string) string {
	quoted := make([]string, len(identifiers))
	for i, id := range identifiers {
		quoted[i] = d.quote(id)
	}
	return strings.Join(quoted, ", ")
}

// columnType maps a field to a column type
func (d sqlDialect) columnType(f *resource.Field) string {
	ints := f.DataTypeParams.Ints()
	length := func(def int) int {
		if len(ints) > 0 && ints[0] > 0 {
			return ints[0]
		}
		return def
	}
	precision := func() (int, int) {
		p, s := 8, 2
		if len(ints) > 0 {
			p = ints[0]
		}
		if len(ints) > 1 {
			s = ints[1]
		}
		return p, s
	}

	switch f.DataType {
	case resource.TypeString:
		if d.name == db.DriverSQLServer {
			return fmt.Sprintf("NVARCHAR(%d)", length(255))
		}
		return fmt.Sprintf("VARCHAR(%d)", length(255))
	case resource.TypeChar:
		if d.name == db.DriverSQLServer {
			return fmt.Sprintf("NCHAR(%d)", length(255))
		}
		return fmt.Sprintf("CHAR(%d)", length(255))
	case resource.TypeText, resource.TypeMediumText, resource.TypeLongText:
		switch d.name {
		case db.DriverSQLServer:
			return "NVARCHAR(MAX)"
		case db.DriverMySQL:
			return strings.ToUpper(f.DataType)
		}
		return "TEXT"
	case resource.TypeInteger, resource.TypeTinyInteger, resource.TypeSmallInteger,
		resource.TypeMediumInteger, resource.TypeBigInteger:
		return d.integerType(f)
	case resource.TypeBoolean:
		switch d.name {
		case db.DriverMySQL:
			return "TINYINT(1)"
		case db.DriverSQLServer:
			return "BIT"
		}
		return "BOOLEAN"
	case resource.TypeDecimal:
		p, s := precision()
		if d.name == db.DriverPostgres {
			return fmt.Sprintf("NUMERIC(%d,%d)", p, s)
		}
		return fmt.Sprintf("DECIMAL(%d,%d)", p, s)
	case resource.TypeFloat:
		if d.name == db.DriverMySQL {
			return "FLOAT"
		}
		return "REAL"
	case resource.TypeDouble:
		switch d.name {
		case db.DriverMySQL:
			return "DOUBLE"
		case db.DriverSQLServer:
			return "FLOAT"
		case db.DriverSQLite:
			return "REAL"
		}
		return "DOUBLE PRECISION"
	case resource.TypeDate:
		return "DATE"
	case resource.TypeDateTime:
		switch d.name {
		case db.DriverSQLServer:
			return "DATETIME2"
		case db.DriverPostgres:
			return "TIMESTAMP"
		}
		return "DATETIME"
	case resource.TypeTimestamp:
		if d.name == db.DriverSQLServer {
			return "DATETIME2"
		}
		return "TIMESTAMP"
	case resource.TypeTime:
		return "TIME"
	case resource.TypeEnum:
		if d.name == db.DriverMySQL && len(f.Options) > 0 {
			return "ENUM(" + d.literalList(f.OptionValues()) + ")"
		}
		if d.name == db.DriverSQLServer {
			return "NVARCHAR(255)"
		}
		return "VARCHAR(255)"
	case resource.TypeJSON:
		switch d.name {
		case db.DriverMySQL:
			return "JSON"
		case db.DriverPostgres:
			return "JSONB"
		case db.DriverSQLServer:
			return "NVARCHAR(MAX)"
		}
		return "TEXT"
	case resource.TypeUUID:
		switch d.name {
		case db.DriverPostgres:
			return "UUID"
		case db.DriverSQLServer:
			return "UNIQUEIDENTIFIER"
		}
		return "CHAR(36)"
	case resource.TypeBinary:
		switch d.name {
		case db.DriverPostgres:
			return "BYTEA"
		case db.DriverSQLServer:
			return "VARBINARY(MAX)"
		}
		return "BLOB"
	}
	return fmt.Sprintf("VARCHAR(%d)", length(255))
}

func (d sqlDialect) integerType(f *resource.Field) string {
	var base string
	switch d.name {
	case db.DriverSQLite:
		// only INTEGER PRIMARY KEY aliases the rowid
		return "INTEGER"
	case db.DriverPostgres:
		switch f.DataType {
		case resource.TypeBigInteger:
			base = "BIGINT"
		case resource.TypeTinyInteger, resource.TypeSmallInteger:
			base = "SMALLINT"
		default:
			base = "INTEGER"
		}
		if f.IsAutoIncrement {
			return base + " GENERATED BY DEFAULT AS IDENTITY"
		}
		return base
	case db.DriverSQLServer:
		switch f.DataType {
		case resource.TypeBigInteger:
			base = "BIGINT"
		case resource.TypeTinyInteger:
			base = "TINYINT"
		case resource.TypeSmallInteger:
			base = "SMALLINT"
		default:
			base = "INT"
		}
		if f.IsAutoIncrement {
			return base + " IDENTITY(1,1)"
		}
		return base
	}

	switch f.DataType {
	case resource.TypeBigInteger:
		base = "BIGINT"
	case resource.TypeTinyInteger:
		base = "TINYINT"
	case resource.TypeSmallInteger:
		base = "SMALLINT"
	case resource.TypeMediumInteger:
		base = "MEDIUMINT"
	default:
		base = "INT"
	}
	if f.IsUnsigned {
		base += " UNSIGNED"
	}
	if f.IsAutoIncrement {
		base += " AUTO_INCREMENT"
	}
	return base
}

// literal quotes a string literal
func (d sqlDialect) literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (d sqlDialect) literalList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = d.literal(v)
	}
	return strings.Join(quoted, ", ")
}

// defaultValue renders a field's default, or "" when it has none
func (d sqlDialect) defaultValue(f *resource.Field) string {
	if f.DataValue == nil {
		return ""
	}
	v := *f.DataValue

	if strings.EqualFold(v, "CURRENT_TIMESTAMP") {
		return "CURRENT_TIMESTAMP"
	}
	if f.DataType == resource.TypeBoolean {
		truthy := isTruthy(v)
		if d.name == db.DriverPostgres {
			if truthy {
				return "TRUE"
			}
			return "FALSE"
		}
		if truthy {
			return "1"
		}
		return "0"
	}
	if resource.IsNumericType(f.DataType) {
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			return v
		}
	}
	return d.literal(v)
}

// inlineComment returns a column comment clause for engines that support one
func (d sqlDialect) inlineComment(f *resource.Field) string {
	if f.Comment == "" || d.name != db.DriverMySQL {
		return ""
	}
	return " COMMENT " + d.literal(f.Comment)
}

// timestampType is the column type of the managed created/updated columns
func (d sqlDialect) timestampType() string {
	if d.name == db.DriverSQLServer {
		return "DATETIME2"
	}
	return "TIMESTAMP"
}
