package mapper

import (
	"strings"

	"github.com/tordrt/resourcekit/internal/db"
	"github.com/tordrt/resourcekit/internal/resource"
	"github.com/tordrt/resourcekit/internal/schema"
)

// MySQL maps MySQL and MariaDB columns
type MySQL struct{}

var mysqlTypes = map[string]string{
	"set":        resource.TypeEnum,
	"year":       resource.TypeSmallInteger,
	"tinyblob":   resource.TypeBinary,
	"mediumblob": resource.TypeBinary,
	"longblob":   resource.TypeBinary,
	"bit":        resource.TypeBinary,
}

// Name returns the driver name
func (MySQL) Name() string { return db.DriverMySQL }

// DataType maps a MySQL column. tinyint(1) and bit(1) are booleans.
func (MySQL) DataType(col schema.Column) (string, resource.Params) {
	switch col.DataType {
	case "tinyint", "bit":
		if width, ok := declaredWidth(col.Type); ok && width == 1 {
			return resource.TypeBoolean, nil
		}
	}
	return mapCommonType(col, mysqlTypes)
}

// Default normalizes a MySQL default. MariaDB reports string defaults quoted
// and a missing default as the literal NULL.
func (MySQL) Default(col schema.Column) *string {
	v := normalizeDefault(col.DefaultValue)
	if v == nil {
		return nil
	}
	if strings.EqualFold(*v, "current_timestamp()") {
		s := "CURRENT_TIMESTAMP"
		return &s
	}
	return v
}
