package models

import (
	"encoding/json"
	"time"
)

// MessageKind вид входящего сообщения от нативной оболочки.
type MessageKind string

const (
	KindAdUnlockSuccess MessageKind = "AD_UNLOCK_SUCCESS"
	KindPurchaseSuccess MessageKind = "PURCHASE_SUCCESS"
	KindRestoreSuccess  MessageKind = "RESTORE_SUCCESS"
)

// BridgeMessage конверт сообщения из мобильного моста.
// Payload остаётся непрозрачным JSON и разбирается обработчиком вида.
type BridgeMessage struct {
	Kind    MessageKind     `json:"kind"`
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PurchasePayload полезная нагрузка PURCHASE_SUCCESS / RESTORE_SUCCESS.
type PurchasePayload struct {
	Plan      Plan   `json:"plan,omitempty"`
	Email     string `json:"email,omitempty"`
	ProductID string `json:"product_id,omitempty"`
}

// PurchaseNotification задание на письмо с подтверждением покупки.
type PurchaseNotification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Plan      Plan      `json:"plan"`
	ProductID string    `json:"product_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
