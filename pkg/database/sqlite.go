package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	_ "modernc.org/sqlite"
)

var (
	sqliteDriver     string
	sqliteDriverErr  error
	sqliteDriverOnce sync.Once
)

// SQLiteDriver returns the name of the traced sqlite driver, registering it on first use.
func SQLiteDriver() (string, error) {
	sqliteDriverOnce.Do(func() {
		sqliteDriver, sqliteDriverErr = otelsql.Register(
			"sqlite",
			otelsql.TraceQueryWithoutArgs(),
			otelsql.TraceRowsClose(),
			otelsql.TraceRowsAffected(),
			otelsql.WithSystem(semconv.DBSystemSqlite),
		)
	})
	return sqliteDriver, sqliteDriverErr
}

// SQLiteDSN builds a modernc DSN with the given pragmas, e.g. "busy_timeout(5000)".
func SQLiteDSN(path string, pragmas ...string) string {
	if len(pragmas) == 0 {
		return path
	}
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	return path + "?" + q.Encode()
}

// OpenSQLite opens the sqlite file at path, creating its directory when needed.
func OpenSQLite(path string, pragmas ...string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	driver, err := SQLiteDriver()
	if err != nil {
		return nil, fmt.Errorf("register sqlite driver: %w", err)
	}

	db, err := sql.Open(driver, SQLiteDSN(path, pragmas...))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return db, nil
}
