package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var (
	ErrNotFound    = errors.New("exercise not found")
	ErrWriteFailed = errors.New("failed to write to the database")
)

type Storage struct {
	DB     *sql.DB
	logger hclog.Logger
}

// Open connects to a remote libSQL database (libsql://, https://, wss://) or
// a local SQLite file (file: prefix or a plain path) and makes sure the
// schema exists.
func Open(conn string, logger hclog.Logger) (*Storage, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if conn == "" {
		return nil, fmt.Errorf("Failed to open database: empty connection string")
	}

	driver, dsn, err := resolve(conn, os.Getenv("TURSO_AUTH_TOKEN"))
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("Failed to open db %s: %w", redact(conn), err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	if err := initializeDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("Failed to initialize database: %w", err)
	}

	logger.Debug("database opened", "driver", driver, "conn", redact(conn))
	return &Storage{DB: db, logger: logger}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func resolve(conn, token string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(conn, "libsql://"),
		strings.HasPrefix(conn, "https://"),
		strings.HasPrefix(conn, "wss://"):
		if token == "" {
			return "libsql", conn, nil
		}
		u, err := url.Parse(conn)
		if err != nil {
			return "", "", fmt.Errorf("Failed to parse database url: %w", err)
		}
		q := u.Query()
		if q.Get("authToken") == "" {
			q.Set("authToken", token)
		}
		u.RawQuery = q.Encode()
		return "libsql", u.String(), nil
	case strings.HasPrefix(conn, "http://"), strings.HasPrefix(conn, "ws://"):
		return "libsql", conn, nil
	}
	return "sqlite", strings.TrimPrefix(conn, "file:"), nil
}

// redact hides credentials carried in the query string.
func redact(conn string) string {
	if i := strings.Index(conn, "?"); i >= 0 {
		return conn[:i]
	}
	return conn
}

func initializeDB(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS exercises (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            type TEXT NOT NULL,
            subtype TEXT,
            duration INTEGER NOT NULL,
            calories INTEGER NOT NULL,
            distance REAL,
            date TEXT NOT NULL,
            timestamp INTEGER NOT NULL,
            notes TEXT
        );

        CREATE INDEX IF NOT EXISTS idx_exercises_date ON exercises(date);

        CREATE TABLE IF NOT EXISTS route_points (
            exercise_id TEXT NOT NULL,
            seq INTEGER NOT NULL,
            lat REAL NOT NULL,
            lng REAL NOT NULL,
            timestamp INTEGER NOT NULL,
            PRIMARY KEY (exercise_id, seq),
            FOREIGN KEY (exercise_id) REFERENCES exercises(id) ON DELETE CASCADE
        );
    `)
	return err
}
