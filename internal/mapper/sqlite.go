package mapper

import (
	"github.com/tordrt/resourcekit/internal/db"
	"github.com/tordrt/resourcekit/internal/resource"
	"github.com/tordrt/resourcekit/internal/schema"
)

// SQLite maps SQLite columns. Declared types are free-form, so common
// spellings from other engines are accepted.
type SQLite struct{}

var sqliteTypes = map[string]string{
	"nvarchar": resource.TypeString,
	"clob":     resource.TypeText,
	"tinyint":  resource.TypeTinyInteger,
}

// Name returns the driver name
func (SQLite) Name() string { return db.DriverSQLite }

// DataType maps a SQLite column
func (SQLite) DataType(col schema.Column) (string, resource.Params) {
	if col.DataType == "tinyint" {
		if width, ok := declaredWidth(col.Type); ok && width == 1 {
			return resource.TypeBoolean, nil
		}
	}
	return mapCommonType(col, sqliteTypes)
}

// Default normalizes a SQLite default
func (SQLite) Default(col schema.Column) *string {
	return normalizeDefault(col.DefaultValue)
}
