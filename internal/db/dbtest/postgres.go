// Package dbtest starts a migrated PostgreSQL for integration tests.
//
// By default a postgres container is started through testcontainers-go.
// Set TEST_DATABASE_DSN to run against an existing server instead. Tests
// are skipped in -short mode and when no Docker daemon is reachable.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tophat51/notarobloxrevival/internal/db"
)

const (
	image    = "postgres:16-alpine"
	user     = "mercury"
	password = "mercury"
	database = "mercury_test"
)

// Postgres returns a connection to a freshly migrated database. Everything
// is torn down through t.Cleanup.
func Postgres(t *testing.T) *sql.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = startContainer(ctx, t)
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if err := waitForPing(ctx, sqlDB, 30*time.Second); err != nil {
		t.Fatalf("postgres never became ready: %v", err)
	}

	if err := db.Migrate(ctx, sqlDB); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return sqlDB
}

func startContainer(ctx context.Context, t *testing.T) string {
	t.Helper()

	testcontainers.SkipIfProviderIsNotHealthy(t)

	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
			"POSTGRES_DB":       database,
		},
		// The entrypoint restarts the server once after init.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("warning: failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get postgres host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get postgres port: %v", err)
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port.Port(), database)
}

func waitForPing(ctx context.Context, sqlDB *sql.DB, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := sqlDB.PingContext(ctx)
		if err == nil || time.Now().After(deadline) {
			return err
		}
		time.Sleep(250 * time.Millisecond)
	}
}

// Reset empties the given tables, cascading to anything that references them.
func Reset(t *testing.T, sqlDB *sql.DB, tables ...string) {
	t.Helper()

	for _, table := range tables {
		if _, err := sqlDB.Exec("TRUNCATE " + table + " CASCADE"); err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}

// CreateUser inserts a user with default attributes and returns its id.
func CreateUser(t *testing.T, sqlDB *sql.DB, username string) string {
	t.Helper()

	var id string
	err := sqlDB.QueryRow(`INSERT INTO users (username, email) VALUES ($1, $2) RETURNING id`,
		username, username+"@example.com").Scan(&id)
	if err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return id
}
