package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/microsoft/go-mssqldb"
)

// sqlDriverNames maps each driver to the name its database/sql driver registers
var sqlDriverNames = map[string]string{
	DriverPostgres:  "pgx",
	DriverMySQL:     "mysql",
	DriverSQLServer: "sqlserver",
	DriverSQLite:    "sqlite3",
}

// Client is a verified connection pool to one database
type Client struct {
	driver string
	db     *sql.DB
}

// Connect opens a pool for driver and pings the database
func Connect(ctx context.Context, driver, dsn string) (*Client, error) {
	name, ok := sqlDriverNames[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{driver: driver, db: db}, nil
}

// Driver returns the driver the client was opened with
func (c *Client) Driver() string {
	return c.driver
}

// DB returns the underlying pool
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the pool
func (c *Client) Close() error {
	return c.db.Close()
}

// ParseDatabaseName returns the database name selected by a MySQL DSN
func ParseDatabaseName(connString string) (string, error) {
	cfg, err := mysql.ParseDSN(connString)
	if err != nil {
		return "", fmt.Errorf("failed to parse MySQL DSN: %w", err)
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("MySQL DSN does not select a database")
	}
	return cfg.DBName, nil
}

// queryStrings runs a query that selects a single text column
func (c *Client) queryStrings(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
