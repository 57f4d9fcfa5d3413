package purchases

import (
	"time"

	"github.com/inkpost/inkpost/app/models"
)

// Snapshot is the provider's canonical state for one subscriber, fetched
// from its read API. Webhook payloads are never trusted for derived
// fields; every accepted event triggers a fresh snapshot read.
type Snapshot struct {
	SubscriberID string
	Entitlements map[string]SnapshotEntitlement
}

// SnapshotEntitlement is one entry of the provider's entitlements map.
// ExpiresRaw holds the verbatim expires_date value; empty means no expiry
// (lifetime access).
type SnapshotEntitlement struct {
	ExpiresRaw string
}

// Resolution is the domain entitlement shape derived from a snapshot.
// RawExpiry is set when the provider sent an expiry we could not parse;
// the value is kept for inspection while the entitlement fails open.
type Resolution struct {
	Active    bool
	ExpiresAt *time.Time
	RawExpiry string
}

// WebhookEvent is the normalized inbound notification after parsing.
type WebhookEvent struct {
	EventID      string
	EventType    string
	SubscriberID string
	RawPayload   string
}

// SyncResult reports the outcome of processing one webhook event.
type SyncResult struct {
	Deduped     bool
	Ignored     string
	Entitlement *models.Entitlement
}
