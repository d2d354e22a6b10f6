package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shitcodegenerator/touching-backend/configs"
	adminHandlers "github.com/shitcodegenerator/touching-backend/handlers/admin"
	questionnaireHandlers "github.com/shitcodegenerator/touching-backend/handlers/questionnaire"
	"github.com/shitcodegenerator/touching-backend/middlewares"
	"github.com/shitcodegenerator/touching-backend/repositories"
	"github.com/shitcodegenerator/touching-backend/services"
)

// registerQuestionnaireRoutes wires the questionnaire stack under /questionnaire.
func registerQuestionnaireRoutes(app *fiber.App, a *configs.App) {
	dev := a.Config.IsDevelopment()

	service := services.NewQuestionnaireService(
		repositories.NewQuestionnaireRepository(a.DB, a.Log),
		repositories.NewQuestionnaireResponseRepository(a.DB, a.Log),
		services.NewIdentifierGenerator(),
		a.Config.PublicBaseURL,
		a.Log,
		a.Metrics,
	)
	public := questionnaireHandlers.NewQuestionnaireHandler(service, a.Log, dev)
	adminHandler := adminHandlers.NewQuestionnaireAdminHandler(service, a.Log, dev)

	group := app.Group("/questionnaire")

	// Auth is attached per route: a group-level handler is a prefix match
	// and would also catch short ids that start with "admin".
	auth := middlewares.AdminAuth(a.Config.AdminJWTSecret, a.Log)
	adminGroup := group.Group("/admin")
	adminGroup.Get("/list", auth, adminHandler.List)
	adminGroup.Patch("/:shortId/toggle", auth, adminHandler.Toggle)

	group.Post("/create", public.Create)
	group.Get("/:shortId", public.Info)
	group.Post("/:shortId/response", public.SubmitResponse)
	group.Get("/:shortId/stats", public.Stats)
}
