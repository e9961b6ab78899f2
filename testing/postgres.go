//go:build integration

package testing

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/amirphl/concept-studio/migrations"
	"github.com/amirphl/concept-studio/utils"
	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupPostgresContainer starts a disposable PostgreSQL server, applies the
// migrations and returns a gorm handle bound to it.
func SetupPostgresContainer(ctx context.Context) (*TestDB, error) {
	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("concept_studio_test"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	terminate := func() error {
		return pgContainer.Terminate(context.Background())
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = terminate()
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := runTestMigrations(ctx, connStr); err != nil {
		_ = terminate()
		return nil, err
	}

	db, err := gorm.Open(gormpostgres.Open(connStr), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: utils.StoreNow,
	})
	if err != nil {
		_ = terminate()
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		_ = terminate()
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	return &TestDB{
		DB:   db,
		Name: "concept_studio_test",
		teardown: func() error {
			sqlDB.Close()
			return terminate()
		},
	}, nil
}

// runTestMigrations applies the schema through database/sql and lib/pq
func runTestMigrations(ctx context.Context, databaseURL string) error {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return migrations.Apply(ctx, db, func(name string) {
		log.Printf("Applied migration: %s", name)
	})
}

// TestWithPostgres runs testFunc against a fresh PostgreSQL container
func TestWithPostgres(testFunc func(*TestDB) error) error {
	ctx := context.Background()
	testDB, err := SetupPostgresContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup postgres container: %w", err)
	}
	defer func() {
		if cleanupErr := testDB.TeardownTestDB(); cleanupErr != nil {
			log.Printf("Warning: failed to cleanup postgres container: %v", cleanupErr)
		}
	}()

	return testFunc(testDB)
}
