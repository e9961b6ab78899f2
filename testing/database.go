// Package testing provides test utilities and database setup for testing the concept studio
package testing

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/amirphl/concept-studio/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB represents a test database instance
type TestDB struct {
	DB       *gorm.DB
	Name     string
	teardown func() error
}

// sqliteSchema mirrors migrations/*.sql for the embedded test store.
// Foreign keys carry the same cascade and set-null actions.
var sqliteSchema = []string{
	`CREATE TABLE audiences (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		age_range     TEXT NOT NULL,
		gender        TEXT NOT NULL,
		location      TEXT NOT NULL,
		interests     TEXT NOT NULL,
		income_level  TEXT NOT NULL,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX idx_audiences_created_at ON audiences (created_at DESC)`,
	`CREATE TABLE concepts (
		id                 TEXT PRIMARY KEY,
		audience_id        TEXT NOT NULL REFERENCES audiences(id) ON DELETE CASCADE,
		title              TEXT NOT NULL,
		description        TEXT NOT NULL,
		parent_concept_id  TEXT NULL REFERENCES concepts(id) ON DELETE SET NULL,
		created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (parent_concept_id IS NULL OR parent_concept_id <> id)
	)`,
	`CREATE INDEX idx_concepts_created_at ON concepts (created_at DESC)`,
	`CREATE INDEX idx_concepts_audience_id ON concepts (audience_id)`,
	`CREATE INDEX idx_concepts_parent_concept_id ON concepts (parent_concept_id)`,
}

// SetupTestDB creates a fresh in-memory SQLite database with foreign keys enforced
func SetupTestDB() (*TestDB, error) {
	dbName := fmt.Sprintf("concept_studio_test_%d_%d", time.Now().UnixNano(), rand.Intn(10000))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", dbName)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: utils.StoreNow,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open test database %s: %w", dbName, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB for %s: %w", dbName, err)
	}
	// One connection keeps the in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range sqliteSchema {
		if err := db.Exec(stmt).Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to apply schema to %s: %w", dbName, err)
		}
	}

	return &TestDB{
		DB:       db,
		Name:     dbName,
		teardown: sqlDB.Close,
	}, nil
}

// TeardownTestDB closes connections; the in-memory database disappears with them
func (tdb *TestDB) TeardownTestDB() error {
	if tdb.teardown == nil {
		return nil
	}
	return tdb.teardown()
}

// ClearAllTables removes all data from tables while preserving structure
func (tdb *TestDB) ClearAllTables() error {
	// Order matters due to foreign key constraints
	tables := []string{
		"concepts",
		"audiences",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}

	return nil
}

// TestWithDB is a helper function that sets up a test database, runs the test function, and cleans up
func TestWithDB(testFunc func(*TestDB) error) error {
	testDB, err := SetupTestDB()
	if err != nil {
		return fmt.Errorf("failed to setup test database: %w", err)
	}
	defer func() {
		if cleanupErr := testDB.TeardownTestDB(); cleanupErr != nil {
			log.Printf("Warning: failed to cleanup test database: %v", cleanupErr)
		}
	}()

	return testFunc(testDB)
}

// CreateTestContext creates a context for testing
func CreateTestContext() context.Context {
	return context.Background()
}
