package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/dormdeck/dormdeck-backend/pkg/config"
)

// Client wraps an embedded SQLite database file. It backs the registry and
// the session log when the service runs without a PostgreSQL server.
type Client struct {
	db   *sql.DB
	path string
}

// NewClient opens (or creates) the database file and applies the schema.
func NewClient(cfg *config.SQLiteConfig) (*Client, error) {
	path := cfg.Path
	if path == "" {
		path = "./data/dormdeck.db"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// on concurrent session appends.
	db.SetMaxOpenConns(1)

	client := &Client{db: db, path: path}
	if err := client.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return client, nil
}

func (c *Client) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS providers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		location TEXT NOT NULL,
		open_time TEXT NOT NULL DEFAULT '',
		close_time TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		keywords TEXT NOT NULL DEFAULT '[]',
		contact TEXT NOT NULL DEFAULT '',
		form_url TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at DATETIME NOT NULL,
		query TEXT NOT NULL,
		location TEXT NOT NULL,
		result_kind TEXT NOT NULL,
		shown_provider_ids TEXT NOT NULL DEFAULT '[]',
		results_snapshot TEXT NOT NULL DEFAULT '[]'
	);
	CREATE TABLE IF NOT EXISTS session_actions (
		id TEXT PRIMARY KEY,
		session_id INTEGER NOT NULL REFERENCES sessions(id),
		timestamp DATETIME NOT NULL,
		kind TEXT NOT NULL,
		provider_id INTEGER,
		note TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);
	CREATE INDEX IF NOT EXISTS idx_session_actions_session_id ON session_actions(session_id);
	`
	_, err := c.db.Exec(schema)
	return err
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the database file
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping verifies the database file is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
