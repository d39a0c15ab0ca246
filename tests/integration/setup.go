//go:build integration

package integration

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"turnos-core/internal/infra/db"
	"turnos-core/internal/pkg/config"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	postgresContainerOnce sync.Once
	postgresTestContainer testcontainers.Container

	testUser     = "test"
	testPassword = "testpass"
)

// setupPool starts the shared PostgreSQL container, creates a fresh
// database for this test, applies the schema and returns a connected
// pool. Each test gets its own database so tests can run in parallel.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	host, port := startPostgresOnce(t)
	dbName := "testdb_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		testUser, testPassword, host, port.Port())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "admin connection failed")
	defer adminPool.Close()

	_, err = adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
	require.NoError(t, err, "failed to create test database")

	cfg := config.DBConfig{
		Host:        host,
		Port:        port.Port(),
		User:        testUser,
		Password:    testPassword,
		DBName:      dbName,
		SSLMode:     "disable",
		MaxConns:    10,
		StmtTimeout: 5 * time.Second,
	}

	pool, cleanup, err := db.Connect(cfg)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(cleanup)

	require.NoError(t, db.Migrate(ctx, pool), "schema migration failed")
	return pool
}

func startPostgresOnce(t *testing.T) (string, nat.Port) {
	t.Helper()

	postgresContainerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,size=512m",
			},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "synchronous_commit=off",
				"-c", "max_connections=200",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
					testUser, testPassword, host, port.Port())
			}).WithStartupTimeout(60 * time.Second),
			Labels: map[string]string{"purpose": "integration-tests"},
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		var err error
		postgresTestContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		require.NoError(t, err, "failed to start PostgreSQL container")
	})

	ctx := context.Background()
	mappedPort, err := postgresTestContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	host, err := postgresTestContainer.Host(ctx)
	require.NoError(t, err)
	return host, mappedPort
}

// seedCatalog inserts one business resource and one 45-minute service
// open Monday through Friday 09:00-19:00. Returns (resourceID, serviceID).
func seedCatalog(t *testing.T, pool *pgxpool.Pool, autoConfirm bool) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	resourceID := uuid.New()
	serviceID := uuid.New()

	_, err := pool.Exec(ctx, `
		INSERT INTO resources (id, business_id, kind, name, timezone, auto_confirm)
		VALUES ($1, $1, 'business', 'Salon Luna', 'UTC', $2)
	`, resourceID, autoConfirm)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `
		INSERT INTO services (id, business_id, name, duration_minutes, price_cents, currency)
		VALUES ($1, $2, 'Haircut', 45, 3500, 'EUR')
	`, serviceID, resourceID)
	require.NoError(t, err)

	for weekday := 1; weekday <= 5; weekday++ {
		_, err = pool.Exec(ctx, `
			INSERT INTO weekly_hours (resource_id, weekday, start_min, end_min)
			VALUES ($1, $2, 540, 1140)
		`, resourceID, weekday)
		require.NoError(t, err)
	}

	return resourceID, serviceID
}
