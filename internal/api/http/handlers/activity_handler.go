package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/service"
)

// ActivityHandler exposes the audit trail.
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: activityService}
}

// List GET /activity.
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	limit, offset := parseLimitOffset(c)
	entries, err := h.service.List(c.Context(), caller, orgSelector(c), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ActivityResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewActivityResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
