package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/resourcekit/internal/schema"
)

func TestSQLServerExtractSchema(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	extractor := NewSQLServerExtractor(&Client{driver: DriverSQLServer, db: mockDB}, "dbo")

	mock.ExpectQuery(`FROM INFORMATION_SCHEMA\.COLUMNS`).
		WithArgs("dbo", "users").
		WillReturnRows(sqlmock.NewRows([]string{
			"COLUMN_NAME", "ORDINAL_POSITION", "DATA_TYPE", "IS_NULLABLE", "COLUMN_DEFAULT",
			"CHARACTER_MAXIMUM_LENGTH", "NUMERIC_PRECISION", "NUMERIC_SCALE", "is_identity", "column_comment",
		}).
			AddRow("id", 1, "int", "NO", nil, nil, 10, 0, 1, "").
			AddRow("email", 2, "nvarchar", "NO", nil, 190, nil, nil, 0, "Login e-mail").
			AddRow("bio", 3, "nvarchar", "YES", "(NULL)", -1, nil, nil, 0, "").
			AddRow("is_admin", 4, "bit", "NO", "((0))", nil, nil, nil, 0, "").
			AddRow("balance", 5, "decimal", "NO", "((0.00))", nil, 10, 2, 0, "").
			AddRow("team_id", 6, "int", "YES", nil, nil, 10, 0, 0, ""))

	mock.ExpectQuery(`INFORMATION_SCHEMA\.TABLE_CONSTRAINTS`).
		WithArgs("dbo", "users").
		WillReturnRows(sqlmock.NewRows([]string{"COLUMN_NAME"}).AddRow("id"))

	mock.ExpectQuery(`FROM sys\.foreign_keys`).
		WithArgs("dbo", "users").
		WillReturnRows(sqlmock.NewRows([]string{"name", "column", "table", "ref", "delete", "update"}).
			AddRow("FK_users_teams", "team_id", "teams", "id", "SET_NULL", "NO_ACTION"))

	mock.ExpectQuery(`FROM sys\.indexes`).
		WithArgs("dbo", "users").
		WillReturnRows(sqlmock.NewRows([]string{"name", "is_unique", "column_names"}).
			AddRow("IX_users_team_id", false, "team_id").
			AddRow("UQ_users_email", true, "email"))

	s, err := extractor.ExtractSchema(context.Background(), []string{"users"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	table := s.Table("users")
	require.NotNil(t, table)
	require.Len(t, table.Columns, 6)

	id := table.Columns[0]
	assert.True(t, id.IsAutoIncrement)
	assert.Equal(t, schema.KeyPrimary, id.Key)

	email := table.Columns[1]
	assert.Equal(t, "nvarchar(190)", email.Type)
	assert.True(t, email.IsUnique)
	assert.Equal(t, schema.KeyUnique, email.Key)
	assert.Equal(t, "Login e-mail", email.Comment)

	bio := table.Columns[2]
	assert.Equal(t, "nvarchar(max)", bio.Type)
	assert.Nil(t, bio.MaxLength)
	require.NotNil(t, bio.DefaultValue)
	assert.Equal(t, "NULL", *bio.DefaultValue)

	require.NotNil(t, table.Columns[3].DefaultValue)
	assert.Equal(t, "0", *table.Columns[3].DefaultValue)
	assert.Equal(t, "decimal(10,2)", table.Columns[4].Type)

	team := table.Columns[5]
	assert.Equal(t, schema.KeyMultiple, team.Key)

	require.Len(t, table.Relations, 1)
	assert.Equal(t, "SET NULL", table.Relations[0].OnDelete)
	assert.Equal(t, "NO ACTION", table.Relations[0].OnUpdate)
}

func TestUnwrapSQLServerDefault(t *testing.T) {
	tests := map[string]string{
		"((0))":       "0",
		"(N'abc')":    "abc",
		"('it''s')":   "it's",
		"(getdate())": "getdate()",
		"(NULL)":      "NULL",
		"((1.5))":     "1.5",
		"(N'Nancy')":  "Nancy",
	}
	for input, want := range tests {
		if got := unwrapSQLServerDefault(input); got != want {
			t.Errorf("unwrapSQLServerDefault(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSQLServerDeclaredType(t *testing.T) {
	valid := func(n int64) sql.NullInt64 { return sql.NullInt64{Int64: n, Valid: true} }
	null := sql.NullInt64{}

	tests := []struct {
		dataType            string
		length, prec, scale sql.NullInt64
		want                string
	}{
		{"nvarchar", valid(50), null, null, "nvarchar(50)"},
		{"varbinary", valid(-1), null, null, "varbinary(max)"},
		{"decimal", null, valid(8), valid(2), "decimal(8,2)"},
		{"int", null, valid(10), valid(0), "int"},
		{"char", null, null, null, "char"},
	}
	for _, tt := range tests {
		if got := sqlServerDeclaredType(tt.dataType, tt.length, tt.prec, tt.scale); got != tt.want {
			t.Errorf("sqlServerDeclaredType(%q) = %q, want %q", tt.dataType, got, tt.want)
		}
	}
}
