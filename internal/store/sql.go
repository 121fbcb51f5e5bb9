// ABOUTME: database/sql implementation of Store for SQLite (modernc.org/sqlite) and Postgres (lib/pq)
// ABOUTME: Queries are written once with ? placeholders and rebound per dialect

package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// SQLite's built-in LOWER only folds ASCII, so searches over accented text
// use unicode_lower to match Postgres and the mock store.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("unicode_lower", 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// Dialect identifies the SQL flavour spoken by the underlying database.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS usuarios (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		nome    TEXT NOT NULL,
		usuario TEXT NOT NULL UNIQUE,
		senha   TEXT NOT NULL,
		foto    TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS temas (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		descricao TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS postagens (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		titulo     TEXT NOT NULL,
		texto      TEXT NOT NULL,
		data       TEXT NOT NULL,
		tema_id    INTEGER NOT NULL REFERENCES temas(id) ON DELETE CASCADE,
		usuario_id INTEGER REFERENCES usuarios(id) ON DELETE SET NULL
	);

	CREATE INDEX IF NOT EXISTS idx_postagens_tema ON postagens(tema_id);
	CREATE INDEX IF NOT EXISTS idx_postagens_usuario ON postagens(usuario_id);
`

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS usuarios (
		id      BIGSERIAL PRIMARY KEY,
		nome    TEXT NOT NULL,
		usuario TEXT NOT NULL UNIQUE,
		senha   TEXT NOT NULL,
		foto    TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS temas (
		id        BIGSERIAL PRIMARY KEY,
		descricao TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS postagens (
		id         BIGSERIAL PRIMARY KEY,
		titulo     TEXT NOT NULL,
		texto      TEXT NOT NULL,
		data       TEXT NOT NULL,
		tema_id    BIGINT NOT NULL REFERENCES temas(id) ON DELETE CASCADE,
		usuario_id BIGINT REFERENCES usuarios(id) ON DELETE SET NULL
	);

	CREATE INDEX IF NOT EXISTS idx_postagens_tema ON postagens(tema_id);
	CREATE INDEX IF NOT EXISTS idx_postagens_usuario ON postagens(usuario_id);
`

// SQLStore implements Store on top of database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
	now     func() time.Time
}

// Ensure SQLStore implements Store.
var _ Store = (*SQLStore)(nil)

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s, err := NewSQLStore(db, DialectSQLite)
	if err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// NewPostgresStore connects to Postgres using a lib/pq DSN.
func NewPostgresStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s, err := NewSQLStore(db, DialectPostgres)
	if err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Info("Postgres store initialized")
	return s, nil
}

// NewSQLStore wraps an already opened database and ensures the schema exists.
func NewSQLStore(db *sql.DB, dialect Dialect) (*SQLStore, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}

	var schema string
	switch dialect {
	case DialectSQLite:
		schema = sqliteSchema
	case DialectPostgres:
		schema = postgresSchema
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	s := &SQLStore{
		db:      db,
		dialect: dialect,
		logger:  slog.Default().With("component", "store", "dialect", string(dialect)),
		now:     time.Now,
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Ping checks database connectivity.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	s.logger.Info("closing store")
	return s.db.Close()
}

// rebind rewrites ? placeholders into $1..$n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// lower wraps col in the dialect's Unicode-aware lower-case function.
func (s *SQLStore) lower(col string) string {
	if s.dialect == DialectSQLite {
		return "unicode_lower(" + col + ")"
	}
	return "LOWER(" + col + ")"
}

// isUniqueViolation reports whether err is a UNIQUE constraint violation
// from either driver.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// containsPattern builds a LIKE pattern for a case-insensitive "contains" search.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(s)) + "%"
}

// rowsAffectedOrNotFound maps a zero-row update/delete to ErrNotFound.
func rowsAffectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
