package mapper

import (
	"strings"

	"github.com/tordrt/resourcekit/internal/db"
	"github.com/tordrt/resourcekit/internal/resource"
	"github.com/tordrt/resourcekit/internal/schema"
)

// Postgres maps PostgreSQL columns. The extractor reports udt names
// (int4, varchar, timestamptz) as the bare type.
type Postgres struct{}

var postgresTypes = map[string]string{
	"int2":        resource.TypeSmallInteger,
	"int4":        resource.TypeInteger,
	"int8":        resource.TypeBigInteger,
	"float4":      resource.TypeFloat,
	"float8":      resource.TypeDouble,
	"bpchar":      resource.TypeChar,
	"timestamptz": resource.TypeTimestamp,
	"timetz":      resource.TypeTime,
	"jsonb":       resource.TypeJSON,
	"bytea":       resource.TypeBinary,
	"money":       resource.TypeDecimal,
	"citext":      resource.TypeText,
}

// Name returns the driver name
func (Postgres) Name() string { return db.DriverPostgres }

// DataType maps a PostgreSQL column
func (Postgres) DataType(col schema.Column) (string, resource.Params) {
	return mapCommonType(col, postgresTypes)
}

// Default normalizes a PostgreSQL default, dropping the type cast the
// engine appends: "'draft'::character varying" -> "draft"
func (Postgres) Default(col schema.Column) *string {
	if col.DefaultValue == nil {
		return nil
	}
	v := stripPostgresCast(strings.TrimSpace(*col.DefaultValue))
	switch strings.ToLower(v) {
	case "now()", "current_timestamp":
		v = "CURRENT_TIMESTAMP"
	}
	return normalizeDefault(&v)
}

func stripPostgresCast(v string) string {
	if strings.HasPrefix(v, "'") {
		// skip over the quoted literal, honoring doubled quotes
		for i := 1; i < len(v); i++ {
			if v[i] != '\'' {
				continue
			}
			if i+1 < len(v) && v[i+1] == '\'' {
				i++
				continue
			}
			if strings.HasPrefix(v[i+1:], "::") {
				return v[:i+1]
			}
			return v
		}
		return v
	}
	if i := strings.Index(v, "::"); i > 0 {
		return strings.Trim(v[:i], "()")
	}
	return v
}
