package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"spellquiz/internal/config"
	"spellquiz/internal/database"
)

var (
	pgOnce    sync.Once
	pgBaseURL string
	pgErr     error
	pgSeq     atomic.Int64
)

// openPostgres starts a shared PostgreSQL container once per test run and
// gives every caller its own freshly migrated database.
func openPostgres(t *testing.T) *database.DB {
	t.Helper()

	pgOnce.Do(func() {
		pgBaseURL, pgErr = startPostgres()
	})
	if pgErr != nil {
		t.Fatalf("failed to start postgres: %v", pgErr)
	}

	name := fmt.Sprintf("quiz_%d", pgSeq.Add(1))
	admin, err := sql.Open("postgres", pgBaseURL+"/postgres?sslmode=disable")
	require.NoError(t, err)
	defer admin.Close()
	_, err = admin.Exec("CREATE DATABASE " + name)
	require.NoError(t, err)

	db, err := database.Open(config.DatabaseConfig{
		Type: config.DatabasePostgres,
		URL:  pgBaseURL + "/" + name + "?sslmode=disable",
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations(context.Background()))
	return db
}

func startPostgres() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "quiz",
				"POSTGRES_PASSWORD": "quiz",
				"POSTGRES_DB":       "postgres",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	return fmt.Sprintf("postgres://quiz:quiz@%s:%s", host, port.Port()), nil
}
