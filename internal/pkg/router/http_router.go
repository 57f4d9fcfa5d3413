package router

import (
	"github.com/inkpost/inkpost/app/controllers"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Public note pages
	app.Get("/notes", controllers.HandleNoteList)
	app.Get("/notes/search", controllers.HandleNoteSearch)
	app.Get("/n/:token", controllers.HandleNoteShow)
	app.Get("/n/:token/comments", controllers.HandleCommentList)

	// Billing provider webhook (no API key; shared-secret-verified in controller)
	app.Post("/webhooks/purchases", controllers.HandlePurchasesWebhook)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
