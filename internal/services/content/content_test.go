package content

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/content-gate/internal/cache"
	"github.com/magabrotheeeer/content-gate/internal/models"
	"github.com/magabrotheeeer/content-gate/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetPrediction(ctx context.Context, matchID string) (*models.Prediction, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prediction), args.Error(1)
}

func (m *RepoMock) GetTicket(ctx context.Context, ticketID string) (*models.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}

func (m *RepoMock) ListTicketPredictions(ctx context.Context, ticketID string) ([]*models.Prediction, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Prediction), args.Error(1)
}

// stubGate открывает элементы из списка unlocked, остальные требуют тариф.
type stubGate struct {
	userID   string
	unlocked map[string]bool
	seen     []models.ContentTier
}

func (g *stubGate) Identity() models.Identity { return models.Identity{UserID: g.userID} }

func (g *stubGate) Decide(tier models.ContentTier, ct models.ContentType, id string) models.AccessResult {
	g.seen = append(g.seen, tier)
	if g.unlocked[string(ct)+":"+id] {
		return models.AccessResult{Tier: tier, Unlocked: true, Decision: models.DecisionUnlocked, Action: models.DecisionUnlocked.Action()}
	}
	return models.AccessResult{Tier: tier, Decision: models.DecisionUpgradePremium, Action: models.DecisionUpgradePremium.Action()}
}

func newTestService(t *testing.T, repo Repository) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(repo, cache.New(client), time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func samplePrediction() *models.Prediction {
	return &models.Prediction{
		MatchID:        "m1",
		HomeTeam:       "Arsenal",
		AwayTeam:       "Chelsea",
		Prediction:     models.OutcomeHome,
		PredictedScore: "2-1",
		Confidence:     80,
		RiskLevel:      models.RiskLow,
		Tier:           models.TierPremium,
	}
}

func TestTierOf(t *testing.T) {
	assert.Equal(t, models.TierDaily, TierOf(models.Prediction{Tier: models.TierDaily, IsPremium: true}))
	assert.Equal(t, models.TierPremium, TierOf(models.Prediction{IsPremium: true}))
	assert.Equal(t, models.TierFree, TierOf(models.Prediction{}))
}

func TestPrediction_LockedHidesBody(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetPrediction", mock.Anything, "m1").Return(samplePrediction(), nil)
	svc, mr := newTestService(t, repo)

	view, err := svc.Prediction(context.Background(), &stubGate{userID: "u1"}, "m1")
	require.NoError(t, err)

	assert.False(t, view.Unlocked)
	assert.Equal(t, models.DecisionUpgradePremium, view.Decision)
	assert.Equal(t, "Arsenal", view.HomeTeam)
	assert.Nil(t, view.Prediction)
	assert.Nil(t, view.Markets)
	assert.Empty(t, mr.Keys(), "locked views are not cached")
}

func TestPrediction_UnlockedIsCached(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetPrediction", mock.Anything, "m1").Return(samplePrediction(), nil).Once()
	svc, _ := newTestService(t, repo)
	gate := &stubGate{userID: "u1", unlocked: map[string]bool{"tip:m1": true}}
	ctx := context.Background()

	first, err := svc.Prediction(ctx, gate, "m1")
	require.NoError(t, err)
	require.True(t, first.Unlocked)
	require.NotNil(t, first.Markets)
	assert.True(t, first.Markets.Goals.Over25)
	assert.Equal(t, "1X", first.Markets.DoubleChance.Option)

	second, err := svc.Prediction(ctx, gate, "m1")
	require.NoError(t, err)
	assert.Equal(t, first.Prediction, second.Prediction)
	assert.Equal(t, first.Markets, second.Markets)

	repo.AssertNumberOfCalls(t, "GetPrediction", 1)
	assert.Equal(t, []models.ContentTier{models.TierPremium, models.TierPremium}, gate.seen,
		"decision is recomputed even on a cache hit")
}

func TestPrediction_CachedButNowLocked(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetPrediction", mock.Anything, "m1").Return(samplePrediction(), nil).Once()
	svc, _ := newTestService(t, repo)
	gate := &stubGate{userID: "u1", unlocked: map[string]bool{"tip:m1": true}}
	ctx := context.Background()

	_, err := svc.Prediction(ctx, gate, "m1")
	require.NoError(t, err)

	gate.unlocked = nil
	view, err := svc.Prediction(ctx, gate, "m1")
	require.NoError(t, err)
	assert.False(t, view.Unlocked)
	assert.Nil(t, view.Prediction)
}

func TestPrediction_InvalidateReloads(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetPrediction", mock.Anything, "m1").Return(samplePrediction(), nil).Twice()
	svc, _ := newTestService(t, repo)
	gate := &stubGate{userID: "u1", unlocked: map[string]bool{"tip:m1": true}}
	ctx := context.Background()

	_, err := svc.Prediction(ctx, gate, "m1")
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(ctx, "u1"))
	_, err = svc.Prediction(ctx, gate, "m1")
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "GetPrediction", 2)
}

func TestPrediction_InvalidateIsPerUser(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetPrediction", mock.Anything, "m1").Return(samplePrediction(), nil)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()
	open := map[string]bool{"tip:m1": true}

	_, err := svc.Prediction(ctx, &stubGate{userID: "u1", unlocked: open}, "m1")
	require.NoError(t, err)
	_, err = svc.Prediction(ctx, &stubGate{userID: "u2", unlocked: open}, "m1")
	require.NoError(t, err)

	require.NoError(t, svc.Invalidate(ctx, "u2"))

	_, err = svc.Prediction(ctx, &stubGate{userID: "u1", unlocked: open}, "m1")
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "GetPrediction", 2)
}

func TestPrediction_NotFound(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetPrediction", mock.Anything, "nope").
		Return(nil, errors.Join(errors.New("storage.GetPrediction"), repository.ErrNotFound))
	svc, _ := newTestService(t, repo)

	_, err := svc.Prediction(context.Background(), &stubGate{userID: "u1"}, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPrediction_CacheDownFallsBackToRepository(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetPrediction", mock.Anything, "m1").Return(samplePrediction(), nil)
	svc, mr := newTestService(t, repo)
	mr.Close()

	view, err := svc.Prediction(context.Background(),
		&stubGate{userID: "u1", unlocked: map[string]bool{"tip:m1": true}}, "m1")
	require.NoError(t, err)
	assert.True(t, view.Unlocked)
	assert.NotNil(t, view.Prediction)
}

func TestTicket_LockedSkipsPredictions(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetTicket", mock.Anything, "t1").
		Return(&models.Ticket{ID: "t1", Title: "Weekend", Tier: models.TierExclusive, MatchIDs: []string{"m1"}}, nil)
	svc, _ := newTestService(t, repo)

	view, err := svc.Ticket(context.Background(), &stubGate{userID: "u1"}, "t1")
	require.NoError(t, err)
	assert.False(t, view.Unlocked)
	assert.Equal(t, models.TierExclusive, view.Tier)
	assert.Empty(t, view.Predictions)
	repo.AssertNotCalled(t, "ListTicketPredictions", mock.Anything, mock.Anything)
}

func TestTicket_UnlockedLoadsPredictionsOnce(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetTicket", mock.Anything, "t1").
		Return(&models.Ticket{ID: "t1", Title: "Weekend", Tier: models.TierDaily, MatchIDs: []string{"m1"}}, nil).Once()
	repo.On("ListTicketPredictions", mock.Anything, "t1").
		Return([]*models.Prediction{samplePrediction()}, nil).Once()
	svc, _ := newTestService(t, repo)
	gate := &stubGate{userID: "u1", unlocked: map[string]bool{"ticket:t1": true}}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		view, err := svc.Ticket(ctx, gate, "t1")
		require.NoError(t, err)
		assert.True(t, view.Unlocked)
		require.Len(t, view.Predictions, 1)
		assert.Equal(t, "m1", view.Predictions[0].MatchID)
	}
	repo.AssertExpectations(t)
}

func TestTicket_ListError(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetTicket", mock.Anything, "t1").Return(&models.Ticket{ID: "t1", Tier: models.TierFree}, nil)
	repo.On("ListTicketPredictions", mock.Anything, "t1").Return(nil, errors.New("db down"))
	svc, _ := newTestService(t, repo)

	_, err := svc.Ticket(context.Background(), &stubGate{userID: "u1", unlocked: map[string]bool{"ticket:t1": true}}, "t1")
	assert.Error(t, err)
}

func TestPrediction_CorruptEntryIsEvicted(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetPrediction", mock.Anything, "m1").Return(nil, errors.New("db down")).Once()
	svc, mr := newTestService(t, repo)

	key := "content_gate:content:u1:0:prediction:m1"
	require.NoError(t, mr.Set(key, "not-json"))

	_, err := svc.Prediction(context.Background(), &stubGate{userID: "u1"}, "m1")
	require.Error(t, err)
	assert.False(t, mr.Exists(key))
	repo.AssertExpectations(t)
}

func TestService_WithoutCache(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetPrediction", mock.Anything, "m1").Return(samplePrediction(), nil)
	svc := New(repo, nil, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	gate := &stubGate{userID: "u1", unlocked: map[string]bool{"tip:m1": true}}

	_, err := svc.Prediction(context.Background(), gate, "m1")
	require.NoError(t, err)
	_, err = svc.Prediction(context.Background(), gate, "m1")
	require.NoError(t, err)
	assert.NoError(t, svc.Invalidate(context.Background(), "u1"))
	repo.AssertNumberOfCalls(t, "GetPrediction", 2)
}
