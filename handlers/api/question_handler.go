package handlers

import (
	"strconv"

	"basvuru.link/models"
	"basvuru.link/pkg/queryparams"
	"basvuru.link/services"

	"github.com/gofiber/fiber/v2"
)

// QuestionHandler soru uç noktaları için handler.
type QuestionHandler struct {
	service services.IQuestionService
}

// NewQuestionHandler yeni bir QuestionHandler örneği oluşturur.
func NewQuestionHandler() *QuestionHandler {
	return &QuestionHandler{service: services.NewQuestionService()}
}

// CreateQuestionRequest soru oluşturma isteğinin gövdesi. Form, Section ve
// ParentQuestion alanlarından en az biri verilmelidir; öncelik üst soru >
// bölüm > form'dur.
type CreateQuestionRequest struct {
	QuestionText     string   `json:"question_text" validate:"required"`
	Type             string   `json:"type" validate:"required,oneof=YES_NO FILL_IN_BLANK MULTIPLE_CHOICE SINGLE_CHOICE GROUPED"`
	Number           string   `json:"number" validate:"max=20"`
	Required         bool     `json:"required"`
	Show             *bool    `json:"show"`
	Prerequisites    []string `json:"prerequisites"`
	ValidationFactor string   `json:"validation_factor" validate:"omitempty,oneof=NONE ALPHANUMERIC NUMERIC ALPHABETIC"`
	MeasurementUnit  string   `json:"measurement_unit" validate:"max=50"`
	Options          []string `json:"options"`
	Remark           string   `json:"remark"`
	Form             *uint    `json:"form"`
	Section          *uint    `json:"section"`
	ParentQuestion   *uint    `json:"parent_question"`
}

// UpdateQuestionRequest soru güncelleme isteğinin gövdesi. Tür ve kapsayıcı
// değiştirilemez.
type UpdateQuestionRequest struct {
	QuestionText     string   `json:"question_text" validate:"required"`
	Number           string   `json:"number" validate:"max=20"`
	Required         bool     `json:"required"`
	Show             *bool    `json:"show"`
	Prerequisites    []string `json:"prerequisites"`
	ValidationFactor string   `json:"validation_factor" validate:"omitempty,oneof=NONE ALPHANUMERIC NUMERIC ALPHABETIC"`
	MeasurementUnit  string   `json:"measurement_unit" validate:"max=50"`
	Options          []string `json:"options"`
	Remark           string   `json:"remark"`
}

// CreateQuestion POST /api/v1/questions
func (h *QuestionHandler) CreateQuestion(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	show := true
	if req.Show != nil {
		show = *req.Show
	}
	question, err := h.service.CreateQuestion(c.UserContext(), actor, models.Question{
		QuestionText:     req.QuestionText,
		Type:             req.Type,
		Number:           req.Number,
		Required:         req.Required,
		Show:             show,
		Prerequisites:    req.Prerequisites,
		ValidationFactor: req.ValidationFactor,
		MeasurementUnit:  req.MeasurementUnit,
		Options:          req.Options,
		Remark:           req.Remark,
		FormID:           req.Form,
		SectionID:        req.Section,
		ParentID:         req.ParentQuestion,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(question)
}

// GetQuestion GET /api/v1/questions/:id
func (h *QuestionHandler) GetQuestion(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	question, err := h.service.GetQuestionByID(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(question)
}

// ListQuestionsForForm GET /api/v1/forms/:id/questions
func (h *QuestionHandler) ListQuestionsForForm(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	formID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("number")
	}

	result, err := h.service.GetQuestionsForForm(c.UserContext(), actor, formID, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// ListQuestionsForSection GET /api/v1/sections/:id/questions
func (h *QuestionHandler) ListQuestionsForSection(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	sectionID, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("number")
	}

	result, err := h.service.GetQuestionsForSection(c.UserContext(), actor, sectionID, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// UpdateQuestion PUT /api/v1/questions/:id
func (h *QuestionHandler) UpdateQuestion(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req UpdateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "geçersiz istek gövdesi"})
	}
	if err := validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	show := true
	if req.Show != nil {
		show = *req.Show
	}
	question, err := h.service.UpdateQuestion(c.UserContext(), actor, id, models.Question{
		QuestionText:     req.QuestionText,
		Number:           req.Number,
		Required:         req.Required,
		Show:             show,
		Prerequisites:    req.Prerequisites,
		ValidationFactor: req.ValidationFactor,
		MeasurementUnit:  req.MeasurementUnit,
		Options:          req.Options,
		Remark:           req.Remark,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(question)
}

// DeleteQuestion DELETE /api/v1/questions/:id?form=1 veya ?parent_question=2
// Bağlam parametrelerinden tam olarak biri zorunludur.
func (h *QuestionHandler) DeleteQuestion(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	formID, err := parseOptionalUintQuery(c, "form")
	if err != nil {
		return respondError(c, err)
	}
	parentID, err := parseOptionalUintQuery(c, "parent_question")
	if err != nil {
		return respondError(c, err)
	}

	report, err := h.service.DeleteQuestion(c.UserContext(), actor, id, formID, parentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true, "report": report})
}

// parseOptionalUintQuery opsiyonel sayısal sorgu parametresini okur.
func parseOptionalUintQuery(c *fiber.Ctx, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "geçersiz "+name+" parametresi")
	}
	id := uint(v)
	return &id, nil
}
