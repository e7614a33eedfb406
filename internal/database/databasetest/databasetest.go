// Package databasetest opens migrated in-memory SQLite databases for tests.
package databasetest

import (
	"context"
	"testing"

	"github.com/hashibank/hashi-bank-be/internal/config"
	"github.com/hashibank/hashi-bank-be/internal/database"
)

// New returns a fresh, migrated in-memory database closed at test cleanup.
func New(t testing.TB) *database.DB {
	t.Helper()

	db, err := database.New(config.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
