package models

import "time"

// Identity описывает того, кто спрашивает доступ.
// Пустой UserID означает неавторизованного гостя.
type Identity struct {
	UserID  string
	IsAdmin bool
}

// IsGuest сообщает, что пользователь не авторизован.
func (i Identity) IsGuest() bool {
	return i.UserID == ""
}

// SubscriptionRecord запись подписки в удалённом реестре (ledger).
// ExpiresAt == nil означает, что срок не задан; такая подписка не даёт доступа.
type SubscriptionRecord struct {
	UserID    string     `json:"user_id"`
	Plan      Plan       `json:"plan"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// EffectivePlan возвращает тариф с учётом срока действия:
// истёкшая или бессрочная без даты запись понижается до free.
func (r *SubscriptionRecord) EffectivePlan(now time.Time) Plan {
	if r == nil || r.ExpiresAt == nil {
		return PlanFree
	}
	if !now.Before(*r.ExpiresAt) {
		return PlanFree
	}
	return r.Plan
}

// PlatformEntitlement состояние биллинга платформы (только мобильная оболочка).
// ExpiresAt относится к выбранному праву; nil означает бессрочное право.
type PlatformEntitlement struct {
	Plan                  Plan       `json:"plan"`
	HasActiveSubscription bool       `json:"has_active_subscription"`
	ExpiresAt             *time.Time `json:"expires_at,omitempty"`
	IsLoading             bool       `json:"is_loading"`
}

// ActiveAt сообщает, действует ли подписка в момент now. Состояние из биллинга
// живёт до следующего запроса, поэтому срок проверяется при каждом обращении.
func (p PlatformEntitlement) ActiveAt(now time.Time) bool {
	if !p.HasActiveSubscription {
		return false
	}
	return p.ExpiresAt == nil || now.Before(*p.ExpiresAt)
}
