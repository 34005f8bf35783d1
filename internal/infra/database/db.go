package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 1 * time.Minute
)

// NewConnection opens a connection pool for the given driver ("postgres", "mysql" or "sqlite").
// It also pings the database to ensure connectivity.
func NewConnection(driver, dataSourceName string) (*sql.DB, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)
	if dialect.Name == DialectSQLite {
		// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
