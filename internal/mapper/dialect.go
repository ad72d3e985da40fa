package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tordrt/resourcekit/internal/db"
	"github.com/tordrt/resourcekit/internal/resource"
	"github.com/tordrt/resourcekit/internal/schema"
)

// Dialect resolves the engine-specific parts of a column: how its declared
// type maps onto a resource data type and how its default is written
type Dialect interface {
	// Name returns the driver name, e.g. "mysql"
	Name() string
	// DataType maps a column to a resource data type and its parameters
	DataType(col schema.Column) (string, resource.Params)
	// Default returns the column default as a resource value, or nil when
	// the column has no default
	Default(col schema.Column) *string
}

// DialectFor returns the dialect for a driver name
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case db.DriverMySQL:
		return MySQL{}, nil
	case db.DriverSQLServer:
		return SQLServer{}, nil
	case db.DriverPostgres:
		return Postgres{}, nil
	case db.DriverSQLite:
		return SQLite{}, nil
	}
	return nil, fmt.Errorf("%w: %q", db.ErrUnsupportedDriver, driver)
}

// commonTypes maps bare type names shared by most engines
var commonTypes = map[string]string{
	"varchar":           resource.TypeString,
	"character varying": resource.TypeString,
	"char":              resource.TypeChar,
	"character":         resource.TypeChar,
	"text":              resource.TypeText,
	"tinytext":          resource.TypeText,
	"mediumtext":        resource.TypeMediumText,
	"longtext":          resource.TypeLongText,
	"int":               resource.TypeInteger,
	"integer":           resource.TypeInteger,
	"tinyint":           resource.TypeTinyInteger,
	"smallint":          resource.TypeSmallInteger,
	"mediumint":         resource.TypeMediumInteger,
	"bigint":            resource.TypeBigInteger,
	"bool":              resource.TypeBoolean,
	"boolean":           resource.TypeBoolean,
	"decimal":           resource.TypeDecimal,
	"numeric":           resource.TypeDecimal,
	"float":             resource.TypeFloat,
	"real":              resource.TypeFloat,
	"double":            resource.TypeDouble,
	"double precision":  resource.TypeDouble,
	"date":              resource.TypeDate,
	"datetime":          resource.TypeDateTime,
	"timestamp":         resource.TypeTimestamp,
	"time":              resource.TypeTime,
	"enum":              resource.TypeEnum,
	"json":              resource.TypeJSON,
	"uuid":              resource.TypeUUID,
	"blob":              resource.TypeBinary,
	"binary":            resource.TypeBinary,
	"varbinary":         resource.TypeBinary,
}

// mapCommonType resolves a bare type name through the dialect's own map
// first, then the shared one. Unknown types fall back to string.
func mapCommonType(col schema.Column, own map[string]string) (string, resource.Params) {
	name := col.DataType
	dataType, ok := own[name]
	if !ok {
		dataType, ok = commonTypes[name]
	}
	if !ok {
		dataType = resource.TypeString
	}
	return dataType, typeParams(dataType, col)
}

// typeParams derives params from the column's length, precision and scale
func typeParams(dataType string, col schema.Column) resource.Params {
	switch dataType {
	case resource.TypeString, resource.TypeChar:
		if col.MaxLength != nil && *col.MaxLength > 0 {
			return resource.Params{strconv.FormatInt(*col.MaxLength, 10)}
		}
	case resource.TypeDecimal:
		if col.Precision != nil {
			params := resource.Params{strconv.FormatInt(*col.Precision, 10)}
			if col.Scale != nil {
				params = append(params, strconv.FormatInt(*col.Scale, 10))
			}
			return params
		}
	}
	return nil
}

// normalizeDefault drops NULL literals and unquotes string literals
func normalizeDefault(raw *string) *string {
	if raw == nil {
		return nil
	}
	v := strings.TrimSpace(*raw)
	if strings.EqualFold(v, "null") {
		return nil
	}
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		v = strings.ReplaceAll(v[1:len(v)-1], "''", "'")
	}
	return &v
}

// declaredWidth returns the first number inside the parentheses of a
// declared type: "tinyint(1)" -> 1
func declaredWidth(declared string) (int, bool) {
	start := strings.Index(declared, "(")
	end := strings.Index(declared, ")")
	if start < 0 || end < start {
		return 0, false
	}
	inner, _, _ := strings.Cut(declared[start+1:end], ",")
	n, err := strconv.Atoi(strings.TrimSpace(inner))
	return n, err == nil
}
