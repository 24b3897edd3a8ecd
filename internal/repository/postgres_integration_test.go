//go:build integration

package repository

import (
	"context"
	"testing"

	"prefslots/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		postgresC.Terminate(ctx)
	})

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)

	port, err := postgresC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := "postgres://testuser:testpass@" + host + ":" + port.Port() + "/testdb?sslmode=disable"

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

var (
	hokkaido = models.PrefectureLayout{
		Prefecture: "北海道",
		Bounds:     models.Bounds{MinLat: 41.77, MaxLat: 43.06, MinLng: 140.72, MaxLng: 141.35},
		Pad:        8,
		Slots: []models.Slot{
			{ID: 1, LeftPct: 92, TopPct: 8, City: "札幌市"},
			{ID: 2, LeftPct: 8, TopPct: 92, City: "函館市"},
		},
	}
	tokyo = models.PrefectureLayout{
		Prefecture: "東京都",
		Bounds:     models.Bounds{MinLat: 35.68, MaxLat: 35.68, MinLng: 139.76, MaxLng: 139.76},
		Pad:        8,
		Slots: []models.Slot{
			{ID: 1, LeftPct: 8, TopPct: 8, City: "千代田区"},
		},
	}
)

func TestRepository_ReplaceAndRead(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))

	empty, err := repo.ListLayouts(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, repo.ReplaceTable(ctx, models.SlotTable{Layouts: []models.PrefectureLayout{hokkaido, tokyo}}))

	layouts, err := repo.ListLayouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.PrefectureLayout{hokkaido, tokyo}, layouts)

	tests := []struct {
		name        string
		prefecture  string
		expected    *models.PrefectureLayout
		expectError error
	}{
		{name: "hokkaido", prefecture: "北海道", expected: &hokkaido},
		{name: "tokyo", prefecture: "東京都", expected: &tokyo},
		{name: "unknown", prefecture: "沖縄県", expectError: models.ErrPrefectureNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := repo.FindLayout(ctx, tt.prefecture)
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, layout)
		})
	}
}

func TestRepository_ReplaceTableDropsOldLayouts(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.ReplaceTable(ctx, models.SlotTable{Layouts: []models.PrefectureLayout{hokkaido, tokyo}}))
	require.NoError(t, repo.ReplaceTable(ctx, models.SlotTable{Layouts: []models.PrefectureLayout{tokyo}}))

	layouts, err := repo.ListLayouts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.PrefectureLayout{tokyo}, layouts)

	_, err = repo.FindLayout(ctx, "北海道")
	assert.ErrorIs(t, err, models.ErrPrefectureNotFound)
}
