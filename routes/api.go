package routes

import (
	api_handlers "basvuru.link/handlers/api"
	"basvuru.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerAPIRoutes /api/v1 altındaki form tanım rotalarını tanımlar.
// Tüm rotalar aktör çözümlemesinden geçer; yetki kontrolü servis katmanında.
func registerAPIRoutes(app *fiber.App) {
	formHandler := api_handlers.NewFormHandler()
	sectionHandler := api_handlers.NewSectionHandler()
	questionHandler := api_handlers.NewQuestionHandler()
	auditHandler := api_handlers.NewAuditLogHandler()

	api := app.Group("/api/v1")
	api.Use(middlewares.ActorMiddleware)

	// --- Formlar ---
	api.Post("/forms", formHandler.CreateForm)              // POST /api/v1/forms
	api.Get("/forms", formHandler.ListForms)                // GET /api/v1/forms
	api.Get("/forms/count", formHandler.CountForms)         // GET /api/v1/forms/count
	api.Get("/forms/by-type", formHandler.GetFormByType)    // GET /api/v1/forms/by-type?type={tür}
	api.Get("/forms/:id", formHandler.GetForm)              // GET /api/v1/forms/{id}
	api.Put("/forms/:id", formHandler.UpdateForm)           // PUT /api/v1/forms/{id}
	api.Delete("/forms/:id", formHandler.DeleteForm)        // DELETE /api/v1/forms/{id}

	// --- Bölümler ---
	api.Post("/sections", sectionHandler.CreateSection)                 // POST /api/v1/sections
	api.Get("/forms/:id/sections", sectionHandler.ListSectionsForForm)  // GET /api/v1/forms/{id}/sections
	api.Get("/sections/:id", sectionHandler.GetSection)                 // GET /api/v1/sections/{id}
	api.Put("/sections/:id", sectionHandler.UpdateSection)              // PUT /api/v1/sections/{id}
	api.Delete("/sections/:id", sectionHandler.DeleteSection)           // DELETE /api/v1/sections/{id}

	// --- Sorular ---
	api.Post("/questions", questionHandler.CreateQuestion)                     // POST /api/v1/questions
	api.Get("/forms/:id/questions", questionHandler.ListQuestionsForForm)      // GET /api/v1/forms/{id}/questions
	api.Get("/sections/:id/questions", questionHandler.ListQuestionsForSection) // GET /api/v1/sections/{id}/questions
	api.Get("/questions/:id", questionHandler.GetQuestion)                     // GET /api/v1/questions/{id}
	api.Put("/questions/:id", questionHandler.UpdateQuestion)                  // PUT /api/v1/questions/{id}
	api.Delete("/questions/:id", questionHandler.DeleteQuestion)               // DELETE /api/v1/questions/{id}?form=|parent_question=

	// --- Denetim kayıtları ---
	api.Get("/audit-logs", auditHandler.ListAuditLogs) // GET /api/v1/audit-logs (sistem rolü)
}
