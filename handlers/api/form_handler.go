package handlers

import (
	"basvuru.link/models"
	"basvuru.link/pkg/queryparams"
	"basvuru.link/services"

	"github.com/gofiber/fiber/v2"
)

// FormHandler form uç noktaları için handler.
type FormHandler struct {
	service services.IFormService
}

// NewFormHandler yeni bir FormHandler örneği oluşturur.
func NewFormHandler() *FormHandler {
	return &FormHandler{service: services.NewFormService()}
}

// CreateFormRequest form oluşturma isteğinin gövdesi.
type CreateFormRequest struct {
	Type        string   `json:"type" validate:"required,oneof=SCREENING LOAN_APPLICATION GROUP_APPLICATION ACAT"`
	Title       string   `json:"title" validate:"required,max=255"`
	Subtitle    string   `json:"subtitle" validate:"max=255"`
	Purpose     string   `json:"purpose"`
	Layout      string   `json:"layout" validate:"omitempty,oneof=TWO_COLUMNS THREE_COLUMNS"`
	HasSections bool     `json:"has_sections"`
	Disclaimer  string   `json:"disclaimer"`
	Signatures  []string `json:"signatures"`
}

// UpdateFormRequest form güncelleme isteğinin gövdesi. Tür ve bölümlülük
// oluşturmadan sonra değiştirilemez.
type UpdateFormRequest struct {
	Title      string   `json:"title" validate:"required,max=255"`
	Subtitle   string   `json:"subtitle" validate:"max=255"`
	Purpose    string   `json:"purpose"`
	Layout     string   `json:"layout" validate:"omitempty,oneof=TWO_COLUMNS THREE_COLUMNS"`
	Disclaimer string   `json:"disclaimer"`
	Signatures []string `json:"signatures"`
}

// CreateForm POST /api/v1/forms
func (h *FormHandler) CreateForm(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CreateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	form, err := h.service.CreateForm(c.UserContext(), actor, models.Form{
		Type:        req.Type,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Purpose:     req.Purpose,
		Layout:      req.Layout,
		HasSections: req.HasSections,
		Disclaimer:  req.Disclaimer,
		Signatures:  req.Signatures,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(form)
}

// ListForms GET /api/v1/forms
func (h *FormHandler) ListForms(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams(queryparams.DefaultSortBy)
	}

	result, err := h.service.GetFormsPaginated(c.UserContext(), actor, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// CountForms GET /api/v1/forms/count
func (h *FormHandler) CountForms(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	count, err := h.service.GetFormCount(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// GetForm GET /api/v1/forms/:id
func (h *FormHandler) GetForm(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	// type sorgusu ile de erişim var: GET /forms/by-type?type=ACAT ayrı uçta.
	form, err := h.service.GetFormByID(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(form)
}

// GetFormByType GET /api/v1/forms/by-type?type=LOAN_APPLICATION
func (h *FormHandler) GetFormByType(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	formType := c.Query("type")
	form, err := h.service.GetFormByType(c.UserContext(), actor, formType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(form)
}

// UpdateForm PUT /api/v1/forms/:id
func (h *FormHandler) UpdateForm(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req UpdateFormRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	form, err := h.service.UpdateForm(c.UserContext(), actor, id, models.Form{
		Title:      req.Title,
		Subtitle:   req.Subtitle,
		Purpose:    req.Purpose,
		Layout:     req.Layout,
		Disclaimer: req.Disclaimer,
		Signatures: req.Signatures,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(form)
}

// DeleteForm DELETE /api/v1/forms/:id
func (h *FormHandler) DeleteForm(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	report, err := h.service.DeleteForm(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true, "report": report})
}
