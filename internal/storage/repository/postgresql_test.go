package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/content-gate/internal/models"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Storage{DB: db}, mock
}

func TestStorage_GetSubscription(t *testing.T) {
	expires := time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    *models.SubscriptionRecord
		wantErr bool
	}{
		{
			name: "existing record",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT user_id, plan, expires_at FROM subscriptions`).
					WithArgs("u1").
					WillReturnRows(sqlmock.NewRows([]string{"user_id", "plan", "expires_at"}).
						AddRow("u1", "premium", expires))
			},
			want: &models.SubscriptionRecord{UserID: "u1", Plan: models.PlanPremium, ExpiresAt: &expires},
		},
		{
			name: "lifetime record",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT user_id, plan, expires_at FROM subscriptions`).
					WithArgs("u1").
					WillReturnRows(sqlmock.NewRows([]string{"user_id", "plan", "expires_at"}).
						AddRow("u1", "basic", nil))
			},
			want: &models.SubscriptionRecord{UserID: "u1", Plan: models.PlanBasic},
		},
		{
			name: "absent record",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT user_id, plan, expires_at FROM subscriptions`).
					WithArgs("u1").
					WillReturnRows(sqlmock.NewRows([]string{"user_id", "plan", "expires_at"}))
			},
			want: nil,
		},
		{
			name: "unknown plan in row",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT user_id, plan, expires_at FROM subscriptions`).
					WithArgs("u1").
					WillReturnRows(sqlmock.NewRows([]string{"user_id", "plan", "expires_at"}).
						AddRow("u1", "gold", nil))
			},
			wantErr: true,
		},
		{
			name: "query error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT user_id, plan, expires_at FROM subscriptions`).
					WithArgs("u1").
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, mock := newMockStorage(t)
			tt.setup(mock)

			got, err := storage.GetSubscription(context.Background(), "u1")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_GetSubscription_CanceledContext(t *testing.T) {
	storage, mock := newMockStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := storage.GetSubscription(ctx, "u1")
	require.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListUnlockGrants(t *testing.T) {
	storage, mock := newMockStorage(t)
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT user_id, content_type, content_id, unlocked_date\s+FROM unlock_grants`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "content_type", "content_id", "unlocked_date"}).
			AddRow("u1", "tip", "m1", day.AddDate(0, 0, -1)).
			AddRow("u1", "ticket", "t9", day))

	got, err := storage.ListUnlockGrants(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.LedgerGrant{UserID: "u1", ContentType: models.ContentTip, ContentID: "m1", UnlockedDate: day.AddDate(0, 0, -1)}, got[0])
	assert.Equal(t, models.ContentTicket, got[1].ContentType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_InsertUnlockGrant(t *testing.T) {
	grant := models.LedgerGrant{
		UserID:       "u1",
		ContentType:  models.ContentTip,
		ContentID:    "m123",
		UnlockedDate: time.Date(2026, 10, 18, 21, 15, 0, 0, time.UTC),
	}

	t.Run("success", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectExec(`INSERT INTO unlock_grants`).
			WithArgs(sqlmock.AnyArg(), "u1", "tip", "m123", "2026-10-18").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, storage.InsertUnlockGrant(context.Background(), grant))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate maps to ErrGrantExists", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectExec(`INSERT INTO unlock_grants`).
			WithArgs(sqlmock.AnyArg(), "u1", "tip", "m123", "2026-10-18").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		err := storage.InsertUnlockGrant(context.Background(), grant)
		require.ErrorIs(t, err, ErrGrantExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other errors are wrapped as is", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectExec(`INSERT INTO unlock_grants`).
			WillReturnError(errors.New("disk full"))

		err := storage.InsertUnlockGrant(context.Background(), grant)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrGrantExists)
		assert.Contains(t, err.Error(), "storage.InsertUnlockGrant")
	})
}

func TestStorage_UpsertSubscription(t *testing.T) {
	storage, mock := newMockStorage(t)
	expires := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO subscriptions .* ON CONFLICT \(user_id\) DO UPDATE`).
		WithArgs("u1", "basic", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := storage.UpsertSubscription(context.Background(),
		models.SubscriptionRecord{UserID: "u1", Plan: models.PlanBasic, ExpiresAt: &expires})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var predictionRowColumns = []string{"match_id", "home_team", "away_team", "kickoff_at", "prediction",
	"home_win", "draw", "away_win", "predicted_score", "confidence", "risk_level", "is_premium", "tier"}

func TestStorage_GetPrediction(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		kickoff := time.Date(2026, 10, 18, 19, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`FROM predictions p WHERE p.match_id`).
			WithArgs("m1").
			WillReturnRows(sqlmock.NewRows(predictionRowColumns).
				AddRow("m1", "Arsenal", "Chelsea", kickoff, "1", 55.0, 25.0, 20.0, "2-0", 80.0, "low", false, "daily"))

		got, err := storage.GetPrediction(context.Background(), "m1")
		require.NoError(t, err)
		assert.Equal(t, "Arsenal", got.HomeTeam)
		assert.Equal(t, models.OutcomeHome, got.Prediction)
		assert.Equal(t, models.TierDaily, got.Tier)
		assert.Equal(t, models.RiskLow, got.RiskLevel)
		require.NotNil(t, got.KickoffAt)
		assert.True(t, kickoff.Equal(*got.KickoffAt))
	})

	t.Run("not found", func(t *testing.T) {
		storage, mock := newMockStorage(t)
		mock.ExpectQuery(`FROM predictions p WHERE p.match_id`).
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows(predictionRowColumns))

		_, err := storage.GetPrediction(context.Background(), "nope")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_GetTicket(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery(`SELECT id, title, tier FROM tickets`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "tier"}).AddRow("t1", "Weekend double", "exclusive"))
	mock.ExpectQuery(`SELECT match_id FROM ticket_matches`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"match_id"}).AddRow("m1").AddRow("m2"))

	got, err := storage.GetTicket(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, &models.Ticket{ID: "t1", Title: "Weekend double", Tier: models.TierExclusive, MatchIDs: []string{"m1", "m2"}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListTicketPredictions(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery(`FROM ticket_matches tm\s+JOIN predictions p`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows(predictionRowColumns).
			AddRow("m1", "A", "B", nil, "X", 30.0, 40.0, 30.0, "1-1", 60.0, "medium", false, "exclusive").
			AddRow("m2", "C", "D", nil, "2", 20.0, 30.0, 50.0, "0-2", 70.0, "low", false, "exclusive"))

	got, err := storage.ListTicketPredictions(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].KickoffAt)
	assert.Equal(t, models.OutcomeAway, got[1].Prediction)
	assert.NoError(t, mock.ExpectationsWereMet())
}
