package store

import (
	"fmt"
	"strings"
)

// Dialect abstracts the SQL differences between SQLite and PostgreSQL.
type Dialect interface {
	// DriverName returns the driver name for sql.Open().
	DriverName() string

	// Placeholder returns the parameter placeholder for the given position (1-indexed).
	Placeholder(position int) string

	// InitStatements returns statements run once after connecting.
	InitStatements() []string

	// MaxOpenConns limits the connection pool. Zero means unlimited.
	MaxOpenConns() int
}

// DialectType identifies the database dialect.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect creates a new Dialect for the given type.
func NewDialect(dialectType DialectType) (Dialect, error) {
	switch DialectType(strings.ToLower(string(dialectType))) {
	case DialectSQLite:
		return &SQLiteDialect{}, nil
	case DialectPostgres:
		return &PostgresDialect{}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", string(dialectType))
}

// SQLiteDialect implements Dialect for the modernc.org/sqlite driver.
type SQLiteDialect struct{}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite"
}

func (d *SQLiteDialect) Placeholder(position int) string {
	return "?"
}

func (d *SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
}

// MaxOpenConns is 1 so an in-memory database is shared by every query.
func (d *SQLiteDialect) MaxOpenConns() int {
	return 1
}

// PostgresDialect implements Dialect for the lib/pq driver.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

func (d *PostgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

func (d *PostgresDialect) InitStatements() []string {
	return nil
}

func (d *PostgresDialect) MaxOpenConns() int {
	return 0
}

// rebind converts a query with ? placeholders to the dialect's placeholders.
func rebind(dialect Dialect, query string) string {
	if _, ok := dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	position := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result.WriteString(dialect.Placeholder(position))
			position++
		} else {
			result.WriteByte(query[i])
		}
	}
	return result.String()
}
