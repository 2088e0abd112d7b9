package handlers

import (
	"basvuru.link/models"
	"basvuru.link/services"

	"github.com/gofiber/fiber/v2"
)

// SectionHandler bölüm uç noktaları için handler.
type SectionHandler struct {
	service services.ISectionService
}

// NewSectionHandler yeni bir SectionHandler örneği oluşturur.
func NewSectionHandler() *SectionHandler {
	return &SectionHandler{service: services.NewSectionService()}
}

// CreateSectionRequest bölüm oluşturma isteğinin gövdesi.
type CreateSectionRequest struct {
	Form   uint   `json:"form" validate:"required"`
	Title  string `json:"title" validate:"required,max=255"`
	Number int    `json:"number" validate:"gte=0"`
}

// UpdateSectionRequest bölüm güncelleme isteğinin gövdesi.
type UpdateSectionRequest struct {
	Title  string `json:"title" validate:"required,max=255"`
	Number int    `json:"number" validate:"gte=0"`
}

// CreateSection POST /api/v1/sections
func (h *SectionHandler) CreateSection(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	section, err := h.service.CreateSection(c.UserContext(), actor, models.Section{
		FormID: req.Form,
		Title:  req.Title,
		Number: req.Number,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(section)
}

// GetSection GET /api/v1/sections/:id
func (h *SectionHandler) GetSection(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	section, err := h.service.GetSectionByID(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(section)
}

// ListSectionsForForm GET /api/v1/forms/:id/sections
func (h *SectionHandler) ListSectionsForForm(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	formID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	sections, err := h.service.GetSectionsForForm(c.UserContext(), actor, formID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": sections})
}

// UpdateSection PUT /api/v1/sections/:id
func (h *SectionHandler) UpdateSection(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req UpdateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	section, err := h.service.UpdateSection(c.UserContext(), actor, id, models.Section{
		Title:  req.Title,
		Number: req.Number,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(section)
}

// DeleteSection DELETE /api/v1/sections/:id
func (h *SectionHandler) DeleteSection(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	report, err := h.service.DeleteSection(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true, "report": report})
}
