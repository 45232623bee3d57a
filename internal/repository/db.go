package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS funkos (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	seq_id       INTEGER NOT NULL,
	uuid         TEXT NOT NULL UNIQUE,
	name         TEXT NOT NULL,
	category     TEXT NOT NULL,
	price        REAL NOT NULL,
	release_date TEXT NOT NULL,
	created_at   INTEGER NOT NULL,
	updated_at   INTEGER NOT NULL
)`

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS funkos (
	id           INT AUTO_INCREMENT PRIMARY KEY,
	seq_id       BIGINT NOT NULL,
	uuid         CHAR(36) NOT NULL UNIQUE,
	name         VARCHAR(255) NOT NULL,
	category     VARCHAR(32) NOT NULL,
	price        DOUBLE NOT NULL,
	release_date CHAR(10) NOT NULL,
	created_at   BIGINT NOT NULL,
	updated_at   BIGINT NOT NULL
)`

// OpenDB opens a database connection pool and ensures the funkos table
// exists. Supported drivers are "sqlite" (embedded, the default) and "mysql".
func OpenDB(driver, dsn string) (*sql.DB, error) {
	var schema string
	switch driver {
	case "sqlite":
		schema = sqliteSchema
		if !strings.Contains(dsn, "?") {
			dsn += "?_journal_mode=WAL&_busy_timeout=5000"
		}
	case "mysql":
		schema = mysqlSchema
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", driver, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", driver, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}
