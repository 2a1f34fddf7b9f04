package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jward/uecomplete/internal/typeclean"
)

// Store is the SQLite data access layer over the indexer's symbol tables.
// The resolver only reads through it; inserts exist for seeding fixtures.
type Store struct {
	db            *sql.DB
	cleaner       *typeclean.Cleaner
	uninformative []string
}

// Option configures a Store.
type Option func(*Store)

// WithCleaner sets the type cleaner used for class and return type names.
func WithCleaner(c *typeclean.Cleaner) Option {
	return func(s *Store) { s.cleaner = c }
}

// WithUninformativeReturns sets the return types that lose the member
// return type tie-break. Defaults to T, T* and void.
func WithUninformativeReturns(types []string) Option {
	return func(s *Store) { s.uninformative = append([]string(nil), types...) }
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return newStore(db, opts...), nil
}

// FromDB wraps an already open handle. The caller keeps ownership of db;
// Close on the returned Store closes it.
func FromDB(db *sql.DB, opts ...Option) *Store {
	return newStore(db, opts...)
}

func newStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:            db,
		cleaner:       typeclean.Default(),
		uninformative: []string{"T", "T*", "void"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Cleaner returns the type cleaner the store applies to names.
func (s *Store) Cleaner() *typeclean.Cleaner {
	return s.cleaner
}

// Migrate creates the symbol tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS classes (
  id              INTEGER PRIMARY KEY,
  name            TEXT NOT NULL,
  symbol_type     TEXT NOT NULL DEFAULT 'class',
  base_class      TEXT
);

CREATE TABLE IF NOT EXISTS members (
  id              INTEGER PRIMARY KEY,
  class_id        INTEGER NOT NULL REFERENCES classes(id),
  name            TEXT NOT NULL,
  type            TEXT NOT NULL,
  return_type     TEXT,
  access          TEXT,
  is_static       BOOLEAN DEFAULT FALSE,
  detail          TEXT
);

CREATE TABLE IF NOT EXISTS inheritance (
  child_id        INTEGER NOT NULL REFERENCES classes(id),
  parent_name     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS enum_values (
  id              INTEGER PRIMARY KEY,
  enum_id         INTEGER NOT NULL REFERENCES classes(id),
  name            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_classes_name ON classes(name);
CREATE INDEX IF NOT EXISTS idx_classes_name_nocase ON classes(name COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_members_class ON members(class_id);
CREATE INDEX IF NOT EXISTS idx_members_name ON members(name);
CREATE INDEX IF NOT EXISTS idx_inheritance_child ON inheritance(child_id);
CREATE INDEX IF NOT EXISTS idx_enum_values_enum ON enum_values(enum_id);
`
