package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/inkpost/inkpost/app/repository"
	"github.com/inkpost/inkpost/internal/pkg/cache"
	"github.com/inkpost/inkpost/internal/pkg/usercontext"
)

// RequirePro gates paid features on the profile's pro flag. The flag is a
// cache derived from the entitlement row by the purchases sync; reads go
// through redis first, then the users table.
func RequirePro() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userCtx := usercontext.GetUserContext(c)
		if !userCtx.IsLoggedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		if isPro, ok := cache.GetProGate(userCtx.UserID); ok {
			if !isPro {
				return proRequired(c)
			}
			return c.Next()
		}

		user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userCtx.UserID)
		if err != nil {
			log.Printf("pro gate lookup failed for user %d: %v", userCtx.UserID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error"})
		}
		if err := cache.SetProGate(user.ID, user.IsPro); err != nil {
			log.Printf("failed to cache pro gate for user %d: %v", user.ID, err)
		}
		if !user.IsPro {
			return proRequired(c)
		}
		return c.Next()
	}
}

func proRequired(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "pro_required", "message": "This feature requires a Pro subscription"})
}
