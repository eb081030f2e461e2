// Package dbtest provides throwaway migrated SQLite databases for tests.
package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tourcatalog/internal/db"
)

// New returns a migrated in-memory database private to the test. A single
// connection is kept open so the database lives as long as the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gormDB, err := db.NewSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gormDB
}
