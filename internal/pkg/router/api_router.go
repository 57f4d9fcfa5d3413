package router

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstore "github.com/gofiber/storage/redis"

	"github.com/inkpost/inkpost/app/controllers"
	"github.com/inkpost/inkpost/internal/pkg/env"
	"github.com/inkpost/inkpost/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Storage:    newLimiterStorage(),
	}))

	v1 := api.Group("/v1", middleware.APIKeyAuthMiddleware())
	v1.Post("/notes", controllers.HandleNoteCreate)
	v1.Post("/notes/:token/comments", controllers.HandleCommentCreate)
	v1.Post("/comments/:id/hide", controllers.HandleCommentHide)

	// Pro features
	v1.Get("/export", middleware.RequirePro(), controllers.HandleNoteExport)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

// newLimiterStorage backs the rate limiter with the shared cache server so
// limits hold across instances.
func newLimiterStorage() *redisstore.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redisstore.New(redisstore.Config{
		Host:     env.GetEnv("CACHE_HOST", "localhost"),
		Port:     port,
		Database: 1,
	})
}
