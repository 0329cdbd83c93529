package models

import "time"

// UnlockGrant ограниченное по времени разрешение на просмотр одного элемента,
// независимое от тарифа. Всегда истекает в конце календарного дня (UTC) создания.
type UnlockGrant struct {
	ContentType ContentType `json:"content_type"`
	ContentID   string      `json:"content_id"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// NewDailyGrant создаёт грант, истекающий в ближайшую полночь UTC после now.
func NewDailyGrant(ct ContentType, id string, now time.Time) UnlockGrant {
	return UnlockGrant{
		ContentType: ct,
		ContentID:   id,
		ExpiresAt:   EndOfDayUTC(now),
	}
}

// Live сообщает, действует ли грант в момент now.
func (g UnlockGrant) Live(now time.Time) bool {
	return now.Before(g.ExpiresAt)
}

// DayUTC возвращает начало календарного дня (UTC), содержащего t.
func DayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDayUTC возвращает полночь UTC, следующую за t.
func EndOfDayUTC(t time.Time) time.Time {
	return DayUTC(t).AddDate(0, 0, 1)
}

// LedgerGrant строка гранта в реестре. Уникальна по
// (user_id, content_type, content_id, unlocked_date).
type LedgerGrant struct {
	UserID       string      `json:"user_id"`
	ContentType  ContentType `json:"content_type"`
	ContentID    string      `json:"content_id"`
	UnlockedDate time.Time   `json:"unlocked_date"`
}

// Grant переводит строку реестра в грант, истекающий в конце дня разблокировки.
func (l LedgerGrant) Grant() UnlockGrant {
	return UnlockGrant{
		ContentType: l.ContentType,
		ContentID:   l.ContentID,
		ExpiresAt:   EndOfDayUTC(l.UnlockedDate),
	}
}

// PendingUnlock токен ожидающего гранта. Сохраняется до запуска нативного
// показа рекламы, чтобы подтверждение нашло его даже после ухода со страницы.
type PendingUnlock struct {
	ContentType ContentType `json:"content_type"`
	ContentID   string      `json:"content_id"`
	RequestedAt time.Time   `json:"requested_at"`
}

// UnlockState состояние разблокировки через рекламу.
type UnlockState string

const (
	UnlockIdle           UnlockState = "idle"
	UnlockAdRequested    UnlockState = "ad_requested"
	UnlockGrantPending   UnlockState = "grant_pending"
	UnlockGrantConfirmed UnlockState = "grant_confirmed"
	UnlockGrantAbandoned UnlockState = "grant_abandoned"
)
