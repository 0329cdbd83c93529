// Package ledger реализует клиент реестра подписок: тариф по реестру и гранты за сегодня.
// Ошибки чтения не пробрасываются наверх: сервис деградирует до бесплатного тарифа.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/content-gate/internal/lib/sl"
	"github.com/magabrotheeeer/content-gate/internal/metrics"
	"github.com/magabrotheeeer/content-gate/internal/models"
	"github.com/magabrotheeeer/content-gate/internal/storage/repository"
)

// Repository определяет методы реестра в хранилище.
type Repository interface {
	GetSubscription(ctx context.Context, userID string) (*models.SubscriptionRecord, error)
	ListUnlockGrants(ctx context.Context, userID string) ([]models.LedgerGrant, error)
	InsertUnlockGrant(ctx context.Context, grant models.LedgerGrant) error
}

// Client читает и пишет реестр подписок.
type Client struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт клиента реестра.
func New(repo Repository, log *slog.Logger) *Client {
	return &Client{repo: repo, log: log}
}

// Subscription возвращает запись подписки пользователя. Если записи нет или
// реестр недоступен, возвращает nil, что для разрешения тарифа означает free.
func (c *Client) Subscription(ctx context.Context, userID string) *models.SubscriptionRecord {
	const op = "ledger.Subscription"

	rec, err := c.repo.GetSubscription(ctx, userID)
	if err != nil {
		metrics.LedgerFailures.WithLabelValues("get_subscription").Inc()
		c.log.Warn("ledger read failed, falling back to free plan",
			slog.String("op", op), slog.String("user_id", userID), sl.Err(err))
		return nil
	}
	return rec
}

// TodayGrants возвращает гранты, созданные в текущий календарный день (UTC).
// Реестр отдаёт все строки пользователя, отбор по дню делается здесь.
func (c *Client) TodayGrants(ctx context.Context, userID string, now time.Time) []models.UnlockGrant {
	const op = "ledger.TodayGrants"

	rows, err := c.repo.ListUnlockGrants(ctx, userID)
	if err != nil {
		metrics.LedgerFailures.WithLabelValues("list_grants").Inc()
		c.log.Warn("ledger grants read failed, starting with no grants",
			slog.String("op", op), slog.String("user_id", userID), sl.Err(err))
		return nil
	}

	today := models.DayUTC(now)
	var out []models.UnlockGrant
	for _, row := range rows {
		if !models.DayUTC(row.UnlockedDate).Equal(today) {
			continue
		}
		out = append(out, row.Grant())
	}
	return out
}

// RecordGrant сохраняет грант за день now. Повторная запись того же гранта не считается ошибкой.
func (c *Client) RecordGrant(ctx context.Context, userID string, ct models.ContentType, contentID string, now time.Time) error {
	const op = "ledger.RecordGrant"

	err := c.repo.InsertUnlockGrant(ctx, models.LedgerGrant{
		UserID:       userID,
		ContentType:  ct,
		ContentID:    contentID,
		UnlockedDate: models.DayUTC(now),
	})
	if errors.Is(err, repository.ErrGrantExists) {
		return nil
	}
	if err != nil {
		metrics.LedgerFailures.WithLabelValues("insert_grant").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
