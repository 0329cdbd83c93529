package platform

import "time"

// subscriberResponse ответ GET /v1/subscribers/{id}.
type subscriberResponse struct {
	Subscriber struct {
		OriginalAppUserID string                     `json:"original_app_user_id"`
		Entitlements      map[string]entitlementInfo `json:"entitlements"`
	} `json:"subscriber"`
}

// entitlementInfo одно право в ответе биллинга. Пустой ExpiresDate означает бессрочное право.
type entitlementInfo struct {
	ExpiresDate       *time.Time `json:"expires_date"`
	PurchaseDate      *time.Time `json:"purchase_date,omitempty"`
	ProductIdentifier string     `json:"product_identifier"`
}
