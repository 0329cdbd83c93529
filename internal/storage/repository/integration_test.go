package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/content-gate/internal/models"
)

func TestIntegration_Ledger(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	rec, err := storage.GetSubscription(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	expires := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, storage.UpsertSubscription(ctx, models.SubscriptionRecord{UserID: "u1", Plan: models.PlanBasic, ExpiresAt: &expires}))
	require.NoError(t, storage.UpsertSubscription(ctx, models.SubscriptionRecord{UserID: "u1", Plan: models.PlanPremium, ExpiresAt: &expires}))

	rec, err = storage.GetSubscription(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.PlanPremium, rec.Plan)
	require.NotNil(t, rec.ExpiresAt)
	assert.True(t, expires.Equal(*rec.ExpiresAt))

	grant := models.LedgerGrant{UserID: "u1", ContentType: models.ContentTip, ContentID: "m123",
		UnlockedDate: time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)}
	require.NoError(t, storage.InsertUnlockGrant(ctx, grant))
	require.ErrorIs(t, storage.InsertUnlockGrant(ctx, grant), ErrGrantExists)

	grant.UnlockedDate = grant.UnlockedDate.Add(time.Minute)
	require.NoError(t, storage.InsertUnlockGrant(ctx, grant), "next day is a new row")

	grants, err := storage.ListUnlockGrants(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, grants, 2)
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), grants[0].UnlockedDate)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), grants[1].UnlockedDate)
}

func TestIntegration_Content(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	factory := NewTestDataFactory(storage)
	factory.CreatePrediction(t, models.Prediction{MatchID: "m1", HomeTeam: "A", AwayTeam: "B",
		Prediction: models.OutcomeHome, PredictedScore: "2-0", Confidence: 80, RiskLevel: models.RiskLow, Tier: models.TierDaily})
	factory.CreatePrediction(t, models.Prediction{MatchID: "m2", HomeTeam: "C", AwayTeam: "D",
		Prediction: models.OutcomeDraw, PredictedScore: "1-1", Confidence: 60, RiskLevel: models.RiskMedium, Tier: models.TierExclusive})
	factory.CreateTicket(t, "t1", "Weekend double", models.TierExclusive, "m2", "m1")

	p, err := storage.GetPrediction(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, models.TierDaily, p.Tier)
	assert.Nil(t, p.KickoffAt)

	_, err = storage.GetPrediction(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	ticket, err := storage.GetTicket(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m2", "m1"}, ticket.MatchIDs)

	list, err := storage.ListTicketPredictions(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m2", list[0].MatchID)

	_, err = storage.GetTicket(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
