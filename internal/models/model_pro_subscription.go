package models

import (
	"time"
)

// ProSubscription mirrors the billing provider's notion of a profile's Pro
// subscription. At most one record per profile; billing_customer_id is the
// provider's stable identity and is unique across records.
type ProSubscription struct {
	ID                string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ProfileID         string `gorm:"column:profile_id;type:varchar(64);not null;uniqueIndex" json:"profile_id"`
	BillingCustomerID string `gorm:"column:billing_customer_id;type:varchar(128);not null;uniqueIndex" json:"billing_customer_id"`
	// Plan is the identifier of the purchased price/tier at the provider.
	Plan string `gorm:"column:plan;type:varchar(128);not null" json:"plan"`
	// ExpiresAt is the current period end reported by the provider.
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`
	// EventAt is the provider timestamp of the last event applied to this
	// record. Updates and deletes carrying an older timestamp are stale and
	// must not be applied.
	EventAt   time.Time `gorm:"column:event_at;not null" json:"event_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProSubscription) TableName() string {
	return "pro_subscription"
}

func (s *ProSubscription) Active() bool {
	return s != nil && time.Now().Before(s.ExpiresAt)
}
