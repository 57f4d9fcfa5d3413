package controllers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkpost/inkpost/app/models"
	"github.com/inkpost/inkpost/internal/pkg/env"
	"github.com/inkpost/inkpost/internal/pkg/purchases"
)

type webhookFakeRepo struct {
	nextID       uint
	events       map[string]*models.PurchaseWebhookEvent
	users        map[string]*models.User
	entitlements map[uint]*models.Entitlement
	createCalls  int
}

func newWebhookFakeRepo() *webhookFakeRepo {
	return &webhookFakeRepo{
		events:       make(map[string]*models.PurchaseWebhookEvent),
		users:        make(map[string]*models.User),
		entitlements: make(map[uint]*models.Entitlement),
	}
}

func (r *webhookFakeRepo) CreateEventIfNew(event *models.PurchaseWebhookEvent) (bool, *models.PurchaseWebhookEvent, error) {
	r.createCalls++
	if existing, ok := r.events[event.EventID]; ok {
		return false, existing, nil
	}
	r.nextID++
	event.ID = r.nextID
	r.events[event.EventID] = event
	return true, event, nil
}

func (r *webhookFakeRepo) MarkEventProcessed(id uint, processingError string) error {
	for _, ev := range r.events {
		if ev.ID == id {
			now := time.Now()
			ev.ProcessedAt = &now
			ev.ProcessingError = processingError
		}
	}
	return nil
}

func (r *webhookFakeRepo) RecordEventError(id uint, processingError string) error {
	return nil
}

func (r *webhookFakeRepo) FindUserBySubscriberID(subscriberID string) (*models.User, error) {
	if u, ok := r.users[subscriberID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *webhookFakeRepo) UpsertEntitlement(ent *models.Entitlement) error {
	r.entitlements[ent.UserID] = ent
	return nil
}

type webhookFakeClient struct {
	snap *purchases.Snapshot
}

func (c *webhookFakeClient) GetSubscriber(ctx context.Context, subscriberID string) (*purchases.Snapshot, error) {
	return c.snap, nil
}

func newWebhookTestApp(t *testing.T, repo *webhookFakeRepo, client *webhookFakeClient) *fiber.App {
	t.Helper()

	env.Env = map[string]string{"PURCHASES_WEBHOOK_SECRET": "hook-secret"}
	prev := newPurchasesService
	newPurchasesService = func() *purchases.Service {
		return purchases.NewService(repo, client, "pro")
	}
	t.Cleanup(func() {
		newPurchasesService = prev
		env.Env = nil
	})

	app := fiber.New()
	app.Post("/webhooks/purchases", HandlePurchasesWebhook)
	return app
}

func proSnapshot() *purchases.Snapshot {
	return &purchases.Snapshot{
		SubscriberID: "u123",
		Entitlements: map[string]purchases.SnapshotEntitlement{"pro": {}},
	}
}

const grantBody = `{"event": {"id": "evt_1", "type": "INITIAL_PURCHASE", "app_user_id": "u123"}}`

func TestHandlePurchasesWebhook_RejectsBeforeAnyPersistence(t *testing.T) {
	repo := newWebhookFakeRepo()
	app := newWebhookTestApp(t, repo, &webhookFakeClient{snap: proSnapshot()})

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong secret", header: "wrong"},
		{name: "wrong bearer", header: "Bearer wrong"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("POST", "/webhooks/purchases", strings.NewReader(grantBody))
		req.Header.Set("Content-Type", "application/json")
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}

		resp, err := app.Test(req, -1)
		require.NoError(t, err, tt.name)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, tt.name)
	}

	assert.Zero(t, repo.createCalls, "failed auth must not touch the ledger")
}

func TestHandlePurchasesWebhook_AcceptsRawAndBearerSecret(t *testing.T) {
	for _, header := range []string{"hook-secret", "Bearer hook-secret"} {
		repo := newWebhookFakeRepo()
		repo.users["u123"] = &models.User{ID: 7, AppUserID: "u123"}
		app := newWebhookTestApp(t, repo, &webhookFakeClient{snap: proSnapshot()})

		req := httptest.NewRequest("POST", "/webhooks/purchases", strings.NewReader(grantBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", header)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ent := repo.entitlements[7]
		require.NotNil(t, ent)
		assert.True(t, ent.Active)
		assert.Nil(t, ent.ExpiresAt)
		assert.Equal(t, "evt_1", ent.LastEventID)
	}
}

func TestHandlePurchasesWebhook_InvalidPayload(t *testing.T) {
	repo := newWebhookFakeRepo()
	app := newWebhookTestApp(t, repo, &webhookFakeClient{snap: proSnapshot()})

	for _, body := range []string{`not-json`, `{}`, `{"event": {"id": "evt_1"}}`} {
		req := httptest.NewRequest("POST", "/webhooks/purchases", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer hook-secret")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	}
	assert.Zero(t, repo.createCalls, "unparseable payloads must not reach the ledger")
}

func TestHandlePurchasesWebhook_DuplicateAcknowledged(t *testing.T) {
	repo := newWebhookFakeRepo()
	repo.users["u123"] = &models.User{ID: 7, AppUserID: "u123"}
	app := newWebhookTestApp(t, repo, &webhookFakeClient{snap: proSnapshot()})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/webhooks/purchases", strings.NewReader(grantBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer hook-secret")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Len(t, repo.entitlements, 1)
	assert.Equal(t, 2, repo.createCalls)
}

func TestHandlePurchasesWebhook_UnknownUserIgnored(t *testing.T) {
	repo := newWebhookFakeRepo()
	app := newWebhookTestApp(t, repo, &webhookFakeClient{snap: proSnapshot()})

	body := `{"event": {"id": "evt_t", "type": "TEST", "app_user_id": "test_xyz"}}`
	req := httptest.NewRequest("POST", "/webhooks/purchases", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer hook-secret")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, repo.entitlements, "unknown users must not get entitlement rows")
}
