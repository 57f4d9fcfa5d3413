package purchases

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/inkpost/inkpost/app/models"
	"github.com/inkpost/inkpost/internal/pkg/env"
	"gorm.io/gorm"
)

const defaultEntitlementID = "pro"

// Stage errors let callers map a pipeline failure to the right response
// code without seeing internal detail.
var (
	ErrEventPersist       = errors.New("webhook event persist failed")
	ErrUserLookup         = errors.New("subscriber user lookup failed")
	ErrEntitlementPersist = errors.New("entitlement persist failed")
)

// SubscriberAPI is the canonical state read the service performs for every
// accepted event. Satisfied by *Client.
type SubscriberAPI interface {
	GetSubscriber(ctx context.Context, subscriberID string) (*Snapshot, error)
}

// Service reconciles inbound webhook events into entitlement rows.
type Service struct {
	repo          Repository
	client        SubscriberAPI
	entitlementID string
}

// NewService creates a purchases service from injected collaborators.
func NewService(repo Repository, client SubscriberAPI, entitlementID string) *Service {
	id := strings.TrimSpace(entitlementID)
	if id == "" {
		id = defaultEntitlementID
	}
	return &Service{repo: repo, client: client, entitlementID: id}
}

// NewServiceFromDB creates a purchases service from a GORM DB handle with
// the provider client configured from the environment.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(
		NewRepository(db),
		NewClientFromEnv(),
		env.GetEnv("PURCHASES_ENTITLEMENT_ID", defaultEntitlementID),
	)
}

// ProcessEvent runs the full sync pipeline for one webhook notification:
// ledger insert-or-detect, canonical fetch, resolve, user link,
// entitlement upsert. The pipeline is level-triggered: state is always
// re-derived from the provider's current record, never from the event
// payload, which makes processing idempotent and order-independent once
// an event is accepted.
func (s *Service) ProcessEvent(ctx context.Context, ev *WebhookEvent) (*SyncResult, error) {
	created, stored, err := s.repo.CreateEventIfNew(&models.PurchaseWebhookEvent{
		EventID:      ev.EventID,
		EventType:    ev.EventType,
		SubscriberID: ev.SubscriberID,
		RawPayload:   ev.RawPayload,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventPersist, err)
	}
	// An already-processed duplicate is acknowledged without side effects.
	// A pending duplicate means an earlier delivery failed between ledger
	// insert and entitlement write; the redelivery re-runs the pipeline.
	if !created && stored.IsProcessed() {
		return &SyncResult{Deduped: true}, nil
	}

	// A fetch failure resolves as no entitlement; the next event or
	// redelivery reconciles again.
	snap, fetchErr := s.client.GetSubscriber(ctx, ev.SubscriberID)
	if fetchErr != nil {
		log.Printf("purchases: canonical fetch failed for subscriber %s: %v", ev.SubscriberID, fetchErr)
		snap = nil
	}

	res := Resolve(snap, s.entitlementID, time.Now())
	if res.RawExpiry != "" {
		log.Printf("purchases: unparseable expiry %q for subscriber %s, failing open", res.RawExpiry, ev.SubscriberID)
	}

	user, err := s.repo.FindUserBySubscriberID(ev.SubscriberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Test-mode and misconfigured subscriber ids are a benign,
			// terminating outcome; no entitlement row is created.
			if markErr := s.repo.MarkEventProcessed(stored.ID, "no local user for subscriber"); markErr != nil {
				log.Printf("purchases: failed to mark event %s processed: %v", ev.EventID, markErr)
			}
			return &SyncResult{Ignored: "unknown_user"}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrUserLookup, err)
	}

	ent := &models.Entitlement{
		UserID:       user.ID,
		SubscriberID: ev.SubscriberID,
		Active:       res.Active,
		ExpiresAt:    res.ExpiresAt,
		Source:       models.EntitlementSourceRevenueCat,
		LastEventID:  ev.EventID,
		LastSyncedAt: time.Now(),
	}
	if err := s.repo.UpsertEntitlement(ent); err != nil {
		// Leave the ledger row pending so the provider's retry re-runs
		// the pipeline instead of deduping past the failure.
		if recErr := s.repo.RecordEventError(stored.ID, err.Error()); recErr != nil {
			log.Printf("purchases: failed to record event error for %s: %v", ev.EventID, recErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrEntitlementPersist, err)
	}

	if err := s.repo.MarkEventProcessed(stored.ID, ""); err != nil {
		// The sync itself succeeded; a redelivery would re-run and land
		// in the same state, so this is log-worthy but not a failure.
		log.Printf("purchases: failed to mark event %s processed: %v", ev.EventID, err)
	}

	return &SyncResult{Entitlement: ent}, nil
}
