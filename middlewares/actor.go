package middlewares

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ActorMiddleware istek sahibini X-User-ID başlığından çözer ve locals'a
// koyar. Oturum/token mekanizması bu servisin kapsamı dışındadır; aktör her
// istekte açıkça bildirilir, yetki kontrolünü servis katmanı yapar.
func ActorMiddleware(c *fiber.Ctx) error {
	raw := c.Get("X-User-ID")
	if raw == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "X-User-ID başlığı zorunludur"})
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "geçersiz X-User-ID başlığı"})
	}
	c.Locals("userID", uint(id))
	return c.Next()
}
