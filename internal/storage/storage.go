// Package storage opens the authoritative SQLite database, applies the
// embedded migrations and hands out repositories bound to either the
// connection or a transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/cvtrack/internal/dbx"
	"github.com/dmitrijs2005/cvtrack/internal/migrations"
	"github.com/dmitrijs2005/cvtrack/internal/repositories/applications"
	"github.com/dmitrijs2005/cvtrack/internal/repositories/metadata"
	"github.com/dmitrijs2005/cvtrack/internal/repositories/tombstones"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories groups the repositories of one unit of work.
type Repositories struct {
	Applications applications.Repository
	Tombstones   tombstones.Repository
	Metadata     metadata.Repository
}

// Backend is what the record store needs from persistence. Write runs fn in a
// single transaction; Read runs fn against the plain connection.
type Backend interface {
	Read(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	Write(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
	Close() error
}

// RepositoryManager vends repositories bound to a DBTX.
type RepositoryManager interface {
	Bind(db dbx.DBTX) Repositories
}

type sqliteManager struct{}

func (sqliteManager) Bind(db dbx.DBTX) Repositories {
	return Repositories{
		Applications: applications.NewSQLiteRepository(db),
		Tombstones:   tombstones.NewSQLiteRepository(db),
		Metadata:     metadata.NewSQLiteRepository(db),
	}
}

// Database is the SQLite-backed Backend.
type Database struct {
	db      *sql.DB
	manager RepositoryManager
}

// DSN builds a modernc sqlite URI for path with a busy timeout so a second
// process waits instead of failing immediately. SQLite percent-decodes the
// path, so characters that would end it early are escaped.
func DSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	u := url.URL{Scheme: "file", Opaque: uriPath.Replace(filepath.ToSlash(path)), RawQuery: q.Encode()}
	return u.String()
}

var uriPath = strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o770); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection: SQLite has a single writer and the store already
	// serialises mutations.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return New(db), nil
}

// New wraps an already migrated connection.
func New(db *sql.DB) *Database {
	return &Database{db: db, manager: sqliteManager{}}
}

// RunMigrations applies every pending embedded migration.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (d *Database) Read(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return fn(ctx, d.manager.Bind(d.db))
}

func (d *Database) Write(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return dbx.WithTx(ctx, d.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, d.manager.Bind(tx))
	})
}

func (d *Database) Close() error {
	return d.db.Close()
}
