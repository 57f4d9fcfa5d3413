package models

import "time"

// PurchaseWebhookEvent is the append-only ledger of billing provider
// notifications. The unique event_id index is the sole deduplication
// mechanism for at-least-once webhook delivery. Rows are never updated
// after processing completes and never deleted.
type PurchaseWebhookEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	EventID         string     `gorm:"type:varchar(191);not null;uniqueIndex:ux_purchase_webhook_events_event_id" json:"event_id"`
	EventType       string     `gorm:"type:varchar(100);not null;index" json:"event_type"`
	SubscriberID    string     `gorm:"type:varchar(191);not null;index" json:"subscriber_id"`
	RawPayload      string     `gorm:"type:longtext;not null" json:"raw_payload"`
	ReceivedAt      time.Time  `gorm:"autoCreateTime;index" json:"received_at"`
	ProcessedAt     *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
}

// IsProcessed reports whether the event completed the sync pipeline. An
// unprocessed duplicate is re-run rather than short-circuited, so a crash
// between ledger insert and entitlement write self-heals on redelivery.
func (e *PurchaseWebhookEvent) IsProcessed() bool {
	return e != nil && e.ProcessedAt != nil
}
