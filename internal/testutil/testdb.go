package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/shiftbook/internal/db"
	"github.com/google/uuid"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// SeedUser inserts a bare account row so owner-scoped records satisfy the
// users foreign key, and returns its id.
func SeedUser(t *testing.T, database *sql.DB) string {
	t.Helper()
	id := uuid.New().String()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := database.Exec(`INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES (?, ?, '', ?, ?)`, id, id+"@example.com", now, now)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}
