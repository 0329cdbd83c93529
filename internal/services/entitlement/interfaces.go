package entitlement

import (
	"context"
	"time"

	"github.com/magabrotheeeer/content-gate/internal/models"
)

// Ledger реестр подписок и грантов.
type Ledger interface {
	Subscription(ctx context.Context, userID string) *models.SubscriptionRecord
	TodayGrants(ctx context.Context, userID string, now time.Time) []models.UnlockGrant
	RecordGrant(ctx context.Context, userID string, ct models.ContentType, contentID string, now time.Time) error
}

// Platform состояние прав пользователя в биллинге мобильной платформы.
type Platform interface {
	State() models.PlatformEntitlement
	Refetch(ctx context.Context) error
}

// PendingStore долговременный токен ожидающего гранта, один слот на пользователя.
type PendingStore interface {
	Set(ctx context.Context, userID string, token models.PendingUnlock) error
	Get(ctx context.Context, userID string) (*models.PendingUnlock, error)
	Take(ctx context.Context, userID string) (*models.PendingUnlock, error)
	Clear(ctx context.Context, userID string) error
}

// ContentInvalidator сбрасывает закешированные ответы с платным контентом пользователя.
type ContentInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}
