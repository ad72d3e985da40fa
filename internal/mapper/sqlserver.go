package mapper

import (
	"strings"

	"github.com/tordrt/resourcekit/internal/db"
	"github.com/tordrt/resourcekit/internal/resource"
	"github.com/tordrt/resourcekit/internal/schema"
)

// SQLServer maps Microsoft SQL Server columns
type SQLServer struct{}

var sqlServerTypes = map[string]string{
	"nvarchar":         resource.TypeString,
	"nchar":            resource.TypeChar,
	"ntext":            resource.TypeText,
	"bit":              resource.TypeBoolean,
	"tinyint":          resource.TypeTinyInteger,
	"money":            resource.TypeDecimal,
	"smallmoney":       resource.TypeDecimal,
	"datetime2":        resource.TypeDateTime,
	"smalldatetime":    resource.TypeDateTime,
	"datetimeoffset":   resource.TypeTimestamp,
	"uniqueidentifier": resource.TypeUUID,
	"image":            resource.TypeBinary,
	"rowversion":       resource.TypeBinary,
	"xml":              resource.TypeText,
}

// Name returns the driver name
func (SQLServer) Name() string { return db.DriverSQLServer }

// DataType maps a SQL Server column. bit is a boolean and (max) character
// types are text.
func (SQLServer) DataType(col schema.Column) (string, resource.Params) {
	switch col.DataType {
	case "varchar", "nvarchar":
		if strings.HasSuffix(col.Type, "(max)") {
			return resource.TypeText, nil
		}
	case "varbinary":
		if strings.HasSuffix(col.Type, "(max)") {
			return resource.TypeBinary, nil
		}
	case "money":
		return resource.TypeDecimal, resource.Params{"19", "4"}
	case "smallmoney":
		return resource.TypeDecimal, resource.Params{"10", "4"}
	}
	return mapCommonType(col, sqlServerTypes)
}

// Default normalizes a SQL Server default. The extractor has already removed
// the parentheses the engine wraps defaults in.
func (SQLServer) Default(col schema.Column) *string {
	v := normalizeDefault(col.DefaultValue)
	if v == nil {
		return nil
	}
	switch strings.ToLower(*v) {
	case "getdate()", "sysdatetime()", "current_timestamp":
		s := "CURRENT_TIMESTAMP"
		return &s
	}
	return v
}
