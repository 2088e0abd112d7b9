package handlers

import (
	"basvuru.link/pkg/queryparams"
	"basvuru.link/services"

	"github.com/gofiber/fiber/v2"
)

// AuditLogHandler denetim kaydı uç noktaları için handler.
type AuditLogHandler struct {
	service services.IAuditService
}

// NewAuditLogHandler yeni bir AuditLogHandler örneği oluşturur.
func NewAuditLogHandler() *AuditLogHandler {
	return &AuditLogHandler{service: services.NewAuditService()}
}

// ListAuditLogs GET /api/v1/audit-logs
func (h *AuditLogHandler) ListAuditLogs(c *fiber.Ctx) error {
	actor, err := actorID(c)
	if err != nil {
		return respondError(c, err)
	}
	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams(queryparams.DefaultSortBy)
	}

	result, err := h.service.GetTrail(c.UserContext(), actor, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
