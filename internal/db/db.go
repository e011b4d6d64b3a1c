package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Init opens the metadata store and configures its connection pool.
// Every request borrows a connection from the pool and returns it when its
// query or transaction finishes.
func Init(driver, connection string) (*sqlx.DB, error) {
	// SQLite: create data directory if needed
	if driver == DriverSQLite {
		err := os.MkdirAll(sqliteDir(connection), 0755)
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if driver == DriverSQLite {
		connection = sqliteDSN(connection)
	}

	db, err := sqlx.Open(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to open: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connected", "driver", driver)

	return db, nil
}

// sqliteDir strips the file: scheme and query parameters from a SQLite DSN
// and returns the directory holding the database file.
func sqliteDir(connection string) string {
	path := strings.TrimPrefix(connection, "file:")
	if i := strings.IndexByte(path, '?'); i != -1 {
		path = path[:i]
	}
	return filepath.Dir(path)
}

// sqliteDSN makes transactions start with BEGIN IMMEDIATE unless the DSN
// already picks a lock mode. Every mutation reads before it writes; a deferred
// transaction that later needs the write lock fails with SQLITE_BUSY instead
// of waiting out busy_timeout.
func sqliteDSN(connection string) string {
	if strings.Contains(connection, "_txlock=") {
		return connection
	}
	if strings.Contains(connection, "?") {
		return connection + "&_txlock=immediate"
	}
	return connection + "?_txlock=immediate"
}

func Close(db *sqlx.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
