// Package models содержит доменные типы шлюза доступа к контенту: тарифы,
// уровни контента, гранты разблокировки, решения о доступе и записи прогнозов.
package models

import (
	"fmt"
	"strings"
)

// Plan уровень платной подписки аккаунта. Действует на весь аккаунт.
type Plan string

const (
	// PlanFree бесплатный тариф.
	PlanFree Plan = "free"
	// PlanBasic базовая подписка.
	PlanBasic Plan = "basic"
	// PlanPremium премиальная подписка.
	PlanPremium Plan = "premium"
)

// ParsePlan разбирает строку в Plan. Неизвестное значение возвращает ошибку.
func ParsePlan(s string) (Plan, error) {
	switch p := Plan(strings.ToLower(strings.TrimSpace(s))); p {
	case PlanFree, PlanBasic, PlanPremium:
		return p, nil
	default:
		return PlanFree, fmt.Errorf("unknown plan %q", s)
	}
}

// Rank возвращает порядковый вес тарифа: free < basic < premium.
func (p Plan) Rank() int {
	switch p {
	case PlanPremium:
		return 2
	case PlanBasic:
		return 1
	default:
		return 0
	}
}

// AtLeast сообщает, покрывает ли тариф p тариф other.
func (p Plan) AtLeast(other Plan) bool {
	return p.Rank() >= other.Rank()
}

// ContentTier уровень доступа, назначенный записи контента.
// Не совпадает с названиями тарифов: exclusive соответствует тарифу basic.
type ContentTier string

const (
	TierFree      ContentTier = "free"
	TierDaily     ContentTier = "daily"
	TierExclusive ContentTier = "exclusive"
	TierPremium   ContentTier = "premium"
)

// ParseContentTier разбирает строку в ContentTier.
func ParseContentTier(s string) (ContentTier, error) {
	switch t := ContentTier(strings.ToLower(strings.TrimSpace(s))); t {
	case TierFree, TierDaily, TierExclusive, TierPremium:
		return t, nil
	default:
		return "", fmt.Errorf("unknown content tier %q", s)
	}
}

// RequiredPlan возвращает минимальный тариф, открывающий уровень без рекламы.
func (t ContentTier) RequiredPlan() Plan {
	switch t {
	case TierFree:
		return PlanFree
	case TierPremium:
		return PlanPremium
	default:
		return PlanBasic
	}
}

// ContentType вид разблокируемого элемента.
type ContentType string

const (
	// ContentTip отдельный прогноз на матч.
	ContentTip ContentType = "tip"
	// ContentTicket купон из нескольких прогнозов.
	ContentTicket ContentType = "ticket"
)

// ParseContentType разбирает строку в ContentType.
func ParseContentType(s string) (ContentType, error) {
	switch ct := ContentType(strings.ToLower(strings.TrimSpace(s))); ct {
	case ContentTip, ContentTicket:
		return ct, nil
	default:
		return "", fmt.Errorf("unknown content type %q", s)
	}
}

// Surface клиентская поверхность, с которой пришёл запрос.
type Surface string

const (
	// SurfaceWeb браузер. Монетизируется постраничной рекламой.
	SurfaceWeb Surface = "web"
	// SurfaceMobile нативная мобильная оболочка с мостом для рекламы и биллинга.
	SurfaceMobile Surface = "mobile"
)

// ParseSurface разбирает строку в Surface. Пустое значение означает web.
func ParseSurface(s string) (Surface, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", string(SurfaceWeb), "browser":
		return SurfaceWeb, nil
	case string(SurfaceMobile), "native", "app":
		return SurfaceMobile, nil
	default:
		return SurfaceWeb, fmt.Errorf("unknown client surface %q", s)
	}
}
