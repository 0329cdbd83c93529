package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/content-gate/internal/models"
)

// GetSubscription возвращает запись подписки пользователя или nil, если её нет.
func (s *Storage) GetSubscription(ctx context.Context, userID string) (*models.SubscriptionRecord, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_id, plan, expires_at FROM subscriptions WHERE user_id = $1`

	var (
		rec       models.SubscriptionRecord
		plan      string
		expiresAt sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(&rec.UserID, &plan, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rec.Plan, err = models.ParsePlan(plan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		rec.ExpiresAt = &t
	}
	return &rec, nil
}

// UpsertSubscription создаёт или обновляет запись подписки пользователя.
func (s *Storage) UpsertSubscription(ctx context.Context, rec models.SubscriptionRecord) error {
	const op = "storage.UpsertSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_id, plan, expires_at, updated_at)
			  VALUES ($1, $2, $3, NOW())
			  ON CONFLICT (user_id) DO UPDATE
			  SET plan = EXCLUDED.plan, expires_at = EXCLUDED.expires_at, updated_at = NOW()`
	if _, err := s.DB.ExecContext(ctx, query, rec.UserID, string(rec.Plan), rec.ExpiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUnlockGrants возвращает все гранты пользователя. Фильтрует по дню вызывающий.
func (s *Storage) ListUnlockGrants(ctx context.Context, userID string) ([]models.LedgerGrant, error) {
	const op = "storage.ListUnlockGrants"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_id, content_type, content_id, unlocked_date
			  FROM unlock_grants
			  WHERE user_id = $1
			  ORDER BY unlocked_date, content_type, content_id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.LedgerGrant
	for rows.Next() {
		var (
			item        models.LedgerGrant
			contentType string
			day         time.Time
		)
		if err := rows.Scan(&item.UserID, &contentType, &item.ContentID, &day); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		item.ContentType = models.ContentType(contentType)
		item.UnlockedDate = models.DayUTC(day)
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// InsertUnlockGrant записывает грант. Повторная запись за тот же день возвращает ErrGrantExists.
func (s *Storage) InsertUnlockGrant(ctx context.Context, grant models.LedgerGrant) error {
	const op = "storage.InsertUnlockGrant"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO unlock_grants (id, user_id, content_type, content_id, unlocked_date)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query,
		uuid.New().String(), grant.UserID, string(grant.ContentType), grant.ContentID,
		models.DayUTC(grant.UnlockedDate).Format(time.DateOnly))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, ErrGrantExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
