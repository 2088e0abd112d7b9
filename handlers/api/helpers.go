package handlers // handlers/api paketi

import (
	"errors"

	"basvuru.link/configs/configslog"
	"basvuru.link/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// validate istek DTO'ları için paylaşılan validator örneği.
var validate = validator.New()

// actorID middleware'in koyduğu aktör ID'sini okur.
func actorID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals("userID").(uint)
	if !ok || id == 0 {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "kimlik doğrulanamadı")
	}
	return id, nil
}

// parseIDParam yol parametresindeki ID'yi okur.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "geçersiz "+name+" parametresi")
	}
	return uint(id), nil
}

// respondError servis hatasını kategorisine göre HTTP yanıtına çevirir.
func respondError(c *fiber.Ctx, err error) error {
	var (
		validationErr services.ValidationError
		notFoundErr   services.NotFoundError
		conflictErr   services.ConflictError
		permissionErr services.PermissionDeniedError
		cascadeErr    *services.PartialCascadeFailure
		fiberErr      *fiber.Error
	)
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": conflictErr.Error()})
	case errors.As(err, &permissionErr):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": permissionErr.Error()})
	case errors.As(err, &cascadeErr):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  cascadeErr.Error(),
			"step":   cascadeErr.Step,
			"report": cascadeErr.Report,
		})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}
	configslog.Log.Error("Beklenmeyen servis hatası", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "beklenmeyen bir hata oluştu"})
}

// respondValidationError DTO doğrulama hatasını 400 olarak döndürür.
func respondValidationError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "geçersiz istek alanı: " + f.Field() + " (" + f.Tag() + ")",
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz istek gövdesi"})
}
