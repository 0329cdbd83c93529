package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/content-gate/internal/migrations"
	"github.com/magabrotheeeer/content-gate/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreatePrediction создает тестовый прогноз
func (f *TestDataFactory) CreatePrediction(t *testing.T, p models.Prediction) {
	_, err := f.storage.DB.Exec(`INSERT INTO predictions
		(match_id, home_team, away_team, prediction, home_win, draw, away_win,
		 predicted_score, confidence, risk_level, is_premium, tier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.MatchID, p.HomeTeam, p.AwayTeam, string(p.Prediction), p.HomeWin, p.Draw, p.AwayWin,
		p.PredictedScore, p.Confidence, string(p.RiskLevel), p.IsPremium, string(p.Tier))
	require.NoError(t, err)
}

// CreateTicket создает тестовый купон с матчами в заданном порядке
func (f *TestDataFactory) CreateTicket(t *testing.T, id, title string, tier models.ContentTier, matchIDs ...string) {
	_, err := f.storage.DB.Exec(`INSERT INTO tickets (id, title, tier) VALUES ($1, $2, $3)`, id, title, string(tier))
	require.NoError(t, err)
	for i, matchID := range matchIDs {
		_, err = f.storage.DB.Exec(`INSERT INTO ticket_matches (ticket_id, match_id, position) VALUES ($1, $2, $3)`,
			id, matchID, i)
		require.NoError(t, err)
	}
}

// setupTestDatabase поднимает PostgreSQL в контейнере и накатывает миграции
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, connStr)
	require.NoError(t, err, "failed to create storage")

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		_ = storage.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return storage, cleanup
}
