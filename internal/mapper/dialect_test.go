package mapper

import (
	"errors"
	"strings"
	"testing"

	"github.com/tordrt/resourcekit/internal/db"
	"github.com/tordrt/resourcekit/internal/resource"
	"github.com/tordrt/resourcekit/internal/schema"
)

func int64p(n int64) *int64 { return &n }

func strp(s string) *string { return &s }

func TestDialectDataType(t *testing.T) {
	tests := []struct {
		name       string
		dialect    Dialect
		col        schema.Column
		wantType   string
		wantParams string
	}{
		{"mysql varchar", MySQL{}, schema.Column{DataType: "varchar", Type: "varchar(100)", MaxLength: int64p(100)}, resource.TypeString, "100"},
		{"mysql decimal", MySQL{}, schema.Column{DataType: "decimal", Type: "decimal(8,2)", Precision: int64p(8), Scale: int64p(2)}, resource.TypeDecimal, "8,2"},
		{"mysql tinyint(1)", MySQL{}, schema.Column{DataType: "tinyint", Type: "tinyint(1)"}, resource.TypeBoolean, ""},
		{"mysql tinyint(4)", MySQL{}, schema.Column{DataType: "tinyint", Type: "tinyint(4)"}, resource.TypeTinyInteger, ""},
		{"mysql tinyint unsigned", MySQL{}, schema.Column{DataType: "tinyint", Type: "tinyint unsigned"}, resource.TypeTinyInteger, ""},
		{"mysql bit(1)", MySQL{}, schema.Column{DataType: "bit", Type: "bit(1)"}, resource.TypeBoolean, ""},
		{"mysql longtext", MySQL{}, schema.Column{DataType: "longtext", Type: "longtext"}, resource.TypeLongText, ""},
		{"mysql int", MySQL{}, schema.Column{DataType: "int", Type: "int(10) unsigned"}, resource.TypeInteger, ""},
		{"mysql unknown", MySQL{}, schema.Column{DataType: "geometry", Type: "geometry"}, resource.TypeString, ""},
		{"sqlserver bit", SQLServer{}, schema.Column{DataType: "bit", Type: "bit"}, resource.TypeBoolean, ""},
		{"sqlserver nvarchar", SQLServer{}, schema.Column{DataType: "nvarchar", Type: "nvarchar(50)", MaxLength: int64p(50)}, resource.TypeString, "50"},
		{"sqlserver nvarchar(max)", SQLServer{}, schema.Column{DataType: "nvarchar", Type: "nvarchar(max)"}, resource.TypeText, ""},
		{"sqlserver datetime2", SQLServer{}, schema.Column{DataType: "datetime2", Type: "datetime2"}, resource.TypeDateTime, ""},
		{"sqlserver uniqueidentifier", SQLServer{}, schema.Column{DataType: "uniqueidentifier", Type: "uniqueidentifier"}, resource.TypeUUID, ""},
		{"sqlserver money", SQLServer{}, schema.Column{DataType: "money", Type: "money"}, resource.TypeDecimal, "19,4"},
		{"postgres int8", Postgres{}, schema.Column{DataType: "int8", Type: "bigint"}, resource.TypeBigInteger, ""},
		{"postgres bool", Postgres{}, schema.Column{DataType: "bool", Type: "boolean"}, resource.TypeBoolean, ""},
		{"postgres timestamptz", Postgres{}, schema.Column{DataType: "timestamptz", Type: "timestamptz"}, resource.TypeTimestamp, ""},
		{"postgres jsonb", Postgres{}, schema.Column{DataType: "jsonb", Type: "jsonb"}, resource.TypeJSON, ""},
		{"sqlite boolean", SQLite{}, schema.Column{DataType: "boolean", Type: "BOOLEAN"}, resource.TypeBoolean, ""},
		{"sqlite varchar", SQLite{}, schema.Column{DataType: "varchar", Type: "VARCHAR(20)", MaxLength: int64p(20)}, resource.TypeString, "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotParams := tt.dialect.DataType(tt.col)
			if gotType != tt.wantType {
				t.Errorf("DataType() type = %q, want %q", gotType, tt.wantType)
			}
			if got := strings.Join(gotParams, ","); got != tt.wantParams {
				t.Errorf("DataType() params = %q, want %q", got, tt.wantParams)
			}
		})
	}
}

func TestDialectDefault(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		raw     *string
		want    *string
	}{
		{"no default", MySQL{}, nil, nil},
		{"mysql plain", MySQL{}, strp("draft"), strp("draft")},
		{"mariadb quoted", MySQL{}, strp("'draft'"), strp("draft")},
		{"mariadb null literal", MySQL{}, strp("NULL"), nil},
		{"mariadb current_timestamp()", MySQL{}, strp("current_timestamp()"), strp("CURRENT_TIMESTAMP")},
		{"sqlserver null", SQLServer{}, strp("NULL"), nil},
		{"sqlserver getdate", SQLServer{}, strp("getdate()"), strp("CURRENT_TIMESTAMP")},
		{"sqlserver zero", SQLServer{}, strp("0"), strp("0")},
		{"postgres cast", Postgres{}, strp("'draft'::character varying"), strp("draft")},
		{"postgres null cast", Postgres{}, strp("NULL::character varying"), nil},
		{"postgres quoted colon", Postgres{}, strp("'a::b'::text"), strp("a::b")},
		{"postgres escaped quote", Postgres{}, strp("'it''s'::text"), strp("it's")},
		{"postgres negative", Postgres{}, strp("(-1)::integer"), strp("-1")},
		{"postgres now", Postgres{}, strp("now()"), strp("CURRENT_TIMESTAMP")},
		{"sqlite quoted", SQLite{}, strp("'x'"), strp("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.dialect.Default(schema.Column{DefaultValue: tt.raw})
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("Default() = %v, want %v", got, tt.want)
			case *got != *tt.want:
				t.Errorf("Default() = %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestDialectFor(t *testing.T) {
	for _, driver := range []string{db.DriverMySQL, db.DriverSQLServer, db.DriverPostgres, db.DriverSQLite} {
		d, err := DialectFor(driver)
		if err != nil {
			t.Fatalf("DialectFor(%q) error = %v", driver, err)
		}
		if d.Name() != driver {
			t.Errorf("DialectFor(%q).Name() = %q", driver, d.Name())
		}
	}

	if _, err := DialectFor("oracle"); !errors.Is(err, db.ErrUnsupportedDriver) {
		t.Errorf("DialectFor(oracle) error = %v, want ErrUnsupportedDriver", err)
	}
}
