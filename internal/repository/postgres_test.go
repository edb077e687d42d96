//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"medpremium/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestRepo starts a pgvector-enabled PostgreSQL container and migrates it
func setupTestRepo(t *testing.T) *PostgresRepository {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%s/testdb?sslmode=disable", host, port.Port())

	var repo *PostgresRepository
	for i := 0; i < 30; i++ {
		repo, err = NewPostgresRepository(dsn, 5, 1)
		if err == nil {
			break
		}
		time.Sleep(200 * time.Millisecond)
	}
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	version, err := repo.Migrate()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	return repo
}

func logFor(age int, tier model.CoverageTier, at time.Time) (*model.PredictionLog, []float32) {
	rec := model.FeatureRecord{Age: age, Height: 170, Weight: 70, NumberOfMajorSurgeries: 1}
	log := &model.PredictionLog{
		ID:                     uuid.NewString(),
		Age:                    rec.Age,
		Height:                 rec.Height,
		Weight:                 rec.Weight,
		NumberOfMajorSurgeries: rec.NumberOfMajorSurgeries,
		BMI:                    rec.BMI(),
		Tier:                   string(tier),
		Scale:                  0.5,
		RawPrediction:          20000,
		Premium:                decimal.RequireFromString("10000.00"),
		CreatedAt:              at,
	}
	vec := rec.Vector()
	features := make([]float32, len(vec))
	for i, v := range vec {
		features[i] = float32(v)
	}
	return log, features
}

func TestPostgresRepository_PredictionLog(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	// migrations are idempotent
	_, err := repo.Migrate()
	require.NoError(t, err)

	base := time.Now().UTC().Truncate(time.Second)
	ages := []int{30, 31, 60, 45}
	ids := make([]string, len(ages))
	for i, age := range ages {
		log, features := logFor(age, model.Tier10Lakh, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.SavePrediction(ctx, log, features))
		ids[i] = log.ID
	}

	recent, err := repo.RecentPredictions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[3], recent[0].ID)
	assert.Equal(t, ids[2], recent[1].ID)
	assert.Equal(t, "10000", recent[0].Premium.String())
	assert.Equal(t, "10L", recent[0].Tier)

	similar, err := repo.SimilarPredictions(ctx, ids[0], 2)
	require.NoError(t, err)
	require.Len(t, similar, 2)
	assert.Equal(t, ids[1], similar[0].ID, "age 31 is the nearest neighbour of age 30")
	require.NotNil(t, similar[0].Distance)
	assert.InDelta(t, 1.0, *similar[0].Distance, 1e-6)
	for _, s := range similar {
		assert.NotEqual(t, ids[0], s.ID)
	}

	_, err = repo.SimilarPredictions(ctx, uuid.NewString(), 2)
	assert.ErrorIs(t, err, model.ErrPredictionNotFound)
}
