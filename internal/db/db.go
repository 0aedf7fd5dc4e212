// internal/db/db.go
package db

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS customers (
    id SERIAL PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    address TEXT NOT NULL
)`

// AUTOINCREMENT keeps SQLite from ever reusing the id of a deleted row, so ids
// are unique for the lifetime of the store on both drivers.
const schemaSQLite = `
CREATE TABLE IF NOT EXISTS customers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    address TEXT NOT NULL
)`

// DriverFor picks the sql driver from the shape of the connection string.
// postgres:// and postgresql:// URLs go to lib/pq; anything else is treated as
// a SQLite file path.
func DriverFor(url string) string {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

// Open connects to the store identified by url and verifies the connection
// with a ping. The caller owns the returned handle and passes it to the
// repositories; there is no package-level connection.
func Open(url string) (*sqlx.DB, error) {
	driver := DriverFor(url)

	dsn := url
	if driver == "sqlite" && !strings.HasPrefix(url, "file:") {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", url)
	}

	conn, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}

	if driver == "sqlite" {
		// single writer; avoids SQLITE_BUSY under concurrent requests
		conn.SetMaxOpenConns(1)
	}

	return conn, nil
}

// EnsureSchema creates the customers table if it does not exist yet. This is
// boot-time bootstrap only; there is no migration machinery.
func EnsureSchema(conn *sqlx.DB) error {
	schema := schemaSQLite
	if conn.DriverName() == "postgres" {
		schema = schemaPostgres
	}
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("creating customers table: %w", err)
	}
	return nil
}
