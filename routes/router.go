package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes tüm uygulama rotalarını ve genel middleware'leri ayarlar.
func SetupRoutes(app *fiber.App) {
	// --- Genel Middleware'ler ---
	app.Use(recoverMiddleware.New()) // Panic yakalama
	app.Use(logger.New())            // İstek loglama
	app.Use(cors.New())

	// --- Sağlık kontrolü ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// --- API rotaları ---
	registerAPIRoutes(app)

	// --- 404 Handler ---
	// En sonda, eşleşmeyen tüm rotaları yakalar.
	app.Use(notFoundHandler)
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "kaynak bulunamadı"})
}
