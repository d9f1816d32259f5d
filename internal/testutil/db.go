package testutil

import (
	"testing"

	"coaching-app/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// SetupDB points database.DB at a fresh in-memory sqlite database migrated
// with the full model set, and restores the previous handle when the test
// finishes.
func SetupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	return db
}
