package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteBackend keeps values in a two-column SQLite table.
type SQLiteBackend struct {
	db    *sql.DB
	table string
}

type SQLiteOption func(*SQLiteBackend)

// WithTable sets the table name. The default is "settings".
func WithTable(name string) SQLiteOption {
	return func(b *SQLiteBackend) {
		b.table = name
	}
}

// OpenSQLite opens the SQLite database at dsn and prepares a backend on it.
func OpenSQLite(ctx context.Context, dsn string, opts ...SQLiteOption) (*SQLiteBackend, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	b, err := NewSQLiteBackend(ctx, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return b, nil
}

// NewSQLiteBackend creates the table if it does not exist.
func NewSQLiteBackend(ctx context.Context, db *sql.DB, opts ...SQLiteOption) (*SQLiteBackend, error) {
	b := &SQLiteBackend{db: db, table: "settings"}

	for _, opt := range opts {
		opt(b)
	}

	if !tableName.MatchString(b.table) {
		return nil, fmt.Errorf("invalid table name %q", b.table)
	}

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`, b.table)

	if _, err := db.ExecContext(ctx, query); err != nil {
		return nil, fmt.Errorf("failed to create table %s: %w", b.table, err)
	}

	return b, nil
}

func (b *SQLiteBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	query := fmt.Sprintf("SELECT value FROM %s WHERE key = ?", b.table)

	err := b.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to query setting: %w", err)
	}

	return value, nil
}

func (b *SQLiteBackend) Set(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`INSERT INTO %s (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, b.table)

	if _, err := b.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	return nil
}

func (b *SQLiteBackend) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE key = ?", b.table)

	if _, err := b.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}

	return nil
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
