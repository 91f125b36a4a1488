// Package database opens the libsql connection and applies schema migrations.
package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tursodatabase/go-libsql"

	"github.com/sellbridge/sellbridge-api/internal/database/migrations"
)

// New opens a libsql database from a DSN and verifies the connection.
//
// Three deployment shapes are supported:
//   - plain local file: DATABASE_URL="file:sellbridge.db"
//   - embedded replica: TURSO_URL + TURSO_AUTH_TOKEN sync the local file
//     with Turso cloud
//   - libsql server: DATABASE_URL="http://127.0.0.1:8080" (turso dev)
func New(dsn string) (*sql.DB, error) {
	db, err := open(dsn)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func open(dsn string) (*sql.DB, error) {
	tursoURL := os.Getenv("TURSO_URL")
	tursoToken := os.Getenv("TURSO_AUTH_TOKEN")

	if tursoURL == "" || tursoToken == "" {
		db, err := sql.Open("libsql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db, nil
	}

	// Embedded replica mode. Strip the file scheme and query params to get
	// the local path the replica syncs into.
	dbPath := strings.TrimPrefix(dsn, "file:")
	dbPath, _, _ = strings.Cut(dbPath, "?")

	connector, err := libsql.NewEmbeddedReplicaConnector(dbPath, tursoURL,
		libsql.WithAuthToken(tursoToken),
		libsql.WithReadYourWrites(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Turso connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

// Migrate applies all pending schema migrations, logging each one applied.
func Migrate(db *sql.DB, logger *slog.Logger) error {
	return migrations.Run(db, logger)
}
