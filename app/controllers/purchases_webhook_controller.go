package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/inkpost/inkpost/internal/pkg/cache"
	"github.com/inkpost/inkpost/internal/pkg/database"
	"github.com/inkpost/inkpost/internal/pkg/env"
	"github.com/inkpost/inkpost/internal/pkg/purchases"
)

// newPurchasesService builds the service for a webhook request. Tests
// swap this out for a service wired to fakes.
var newPurchasesService = func() *purchases.Service {
	return purchases.NewServiceFromDB(database.GetDB())
}

// HandlePurchasesWebhook receives billing provider notifications and
// reconciles them into entitlement rows. Auth is checked before anything
// touches the database; processing order and response codes follow the
// provider's at-least-once delivery contract (2xx acknowledges, 5xx asks
// for redelivery).
func HandlePurchasesWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)

	secret := env.GetEnv("PURCHASES_WEBHOOK_SECRET", "")
	if !purchases.AuthorizeWebhook(c.Get(fiber.HeaderAuthorization), secret) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	event, err := purchases.ParseWebhookEvent(rawBody)
	if err != nil {
		// Permanently unprocessable as sent; a retry would not help.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	result, err := newPurchasesService().ProcessEvent(ctx, event)
	if err != nil {
		log.Printf("purchases webhook: event %s failed: %v", event.EventID, err)
		code := "sync_failed"
		switch {
		case errors.Is(err, purchases.ErrEventPersist):
			code = "event_persist_failed"
		case errors.Is(err, purchases.ErrUserLookup):
			code = "user_lookup_failed"
		case errors.Is(err, purchases.ErrEntitlementPersist):
			code = "entitlement_persist_failed"
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": code})
	}

	if result.Deduped {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "deduped": true})
	}
	if result.Ignored != "" {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": result.Ignored})
	}

	cache.InvalidateProGate(result.Entitlement.UserID)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}
