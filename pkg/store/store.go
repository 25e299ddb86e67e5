// Package store implements the sqlite-backed storage layer: lawyer profile
// rows and their attribute sub-tables, the FTS index used for whole-token
// name matching, school/practice alias resolution, cached profile text, and
// the experience embedding vectors read by the semantic retriever.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the sqlite database holding one corpus.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS lawyers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT UNIQUE NOT NULL,
		name TEXT,
		first_name TEXT,
		last_name TEXT,
		email TEXT,
		phone TEXT,
		title TEXT,
		office_location TEXT,
		clerkship TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS educations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lawyer_id INTEGER NOT NULL,
		degree_type TEXT,
		year INTEGER,
		school_name TEXT,
		school_normalized TEXT,
		is_law_degree INTEGER DEFAULT 0,
		honors TEXT,
		FOREIGN KEY (lawyer_id) REFERENCES lawyers(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS practices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lawyer_id INTEGER NOT NULL,
		practice_type TEXT NOT NULL,
		FOREIGN KEY (lawyer_id) REFERENCES lawyers(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS industries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lawyer_id INTEGER NOT NULL,
		industry TEXT NOT NULL,
		FOREIGN KEY (lawyer_id) REFERENCES lawyers(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS regions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lawyer_id INTEGER NOT NULL,
		region TEXT NOT NULL,
		FOREIGN KEY (lawyer_id) REFERENCES lawyers(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS languages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lawyer_id INTEGER NOT NULL,
		language TEXT NOT NULL,
		FOREIGN KEY (lawyer_id) REFERENCES lawyers(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS schools (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		normalized_name TEXT NOT NULL,
		alias TEXT,
		UNIQUE(normalized_name, alias)
	)`,
	`CREATE TABLE IF NOT EXISTS experience_embeddings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lawyer_id INTEGER NOT NULL UNIQUE,
		content TEXT,
		parsed_text TEXT,
		embedding BLOB,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (lawyer_id) REFERENCES lawyers(id) ON DELETE CASCADE
	)`,
}

// Open opens (creating if needed) the corpus database at path and ensures
// the schema exists. Callers own the returned Store and must Close it.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// CreateIndexes builds the attribute indexes and the contentless FTS5 table
// used for whole-token name matching, with triggers keeping it in sync.
// Safe to call repeatedly; the FTS table is rebuilt from current rows.
func (s *Store) CreateIndexes(ctx context.Context) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_educations_lawyear ON educations(year) WHERE is_law_degree=1`,
		`CREATE INDEX IF NOT EXISTS idx_educations_school ON educations(school_normalized)`,
		`CREATE INDEX IF NOT EXISTS idx_educations_lawyer ON educations(lawyer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_practices_type ON practices(practice_type)`,
		`CREATE INDEX IF NOT EXISTS idx_practices_lawyer ON practices(lawyer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_lawyers_title ON lawyers(title)`,
		`CREATE INDEX IF NOT EXISTS idx_lawyers_name ON lawyers(first_name, last_name)`,
		`CREATE INDEX IF NOT EXISTS idx_embeddings_lawyer ON experience_embeddings(lawyer_id)`,
	}
	for _, stmt := range indexes {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	// Contentless FTS5 managed manually via triggers. Dropping and
	// repopulating avoids column mismatches after schema changes.
	ftsStmts := []string{
		`DROP TRIGGER IF EXISTS lawyers_fts_insert`,
		`DROP TRIGGER IF EXISTS lawyers_fts_update`,
		`DROP TRIGGER IF EXISTS lawyers_fts_delete`,
		`DROP TABLE IF EXISTS lawyers_fts`,
		`CREATE VIRTUAL TABLE lawyers_fts USING fts5(full_name, title)`,
		`INSERT INTO lawyers_fts(rowid, full_name, title) SELECT id, name, title FROM lawyers`,
		`CREATE TRIGGER lawyers_fts_insert AFTER INSERT ON lawyers BEGIN
			INSERT INTO lawyers_fts(rowid, full_name, title) VALUES (new.id, new.name, new.title);
		END`,
		`CREATE TRIGGER lawyers_fts_update AFTER UPDATE ON lawyers BEGIN
			DELETE FROM lawyers_fts WHERE rowid = new.id;
			INSERT INTO lawyers_fts(rowid, full_name, title) VALUES (new.id, new.name, new.title);
		END`,
		`CREATE TRIGGER lawyers_fts_delete AFTER DELETE ON lawyers BEGIN
			DELETE FROM lawyers_fts WHERE rowid = old.id;
		END`,
	}
	for _, stmt := range ftsStmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to build fts index: %w", err)
		}
	}

	s.logger.Debug("indexes created", "path", s.path)
	return nil
}

// DB exposes the underlying handle for diagnostics and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
