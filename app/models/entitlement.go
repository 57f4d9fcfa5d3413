package models

import "time"

// EntitlementSourceRevenueCat tags entitlement rows synced from the
// subscription billing provider.
const EntitlementSourceRevenueCat = "revenuecat"

// Entitlement is the durable record of a user's paid access: one row per
// user, overwritten on every sync, never deleted. A cancelled subscription
// becomes active=false, not a removed row. Active with a past expiry is
// resolved at write time and must never be observed in the table.
type Entitlement struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex:ux_entitlements_user_id" json:"user_id"`
	SubscriberID string     `gorm:"type:varchar(191);not null;index" json:"subscriber_id"`
	Active       bool       `gorm:"not null;default:false;index" json:"active"`
	ExpiresAt    *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	Source       string     `gorm:"type:varchar(20);not null;default:'revenuecat'" json:"source"`
	LastEventID  string     `gorm:"type:varchar(191);not null;default:''" json:"last_event_id"`
	LastSyncedAt time.Time  `gorm:"type:timestamp;not null" json:"last_synced_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
