package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/config"
	"github.com/spec-kit/compliance-service/internal/service"
	apperrors "github.com/spec-kit/compliance-service/pkg/util/errorutil"
)

// RemindersHandler triggers reminder and summary batches on demand. Batches
// report partial failure inside their result, so these endpoints answer 200
// whenever the scan itself ran.
type RemindersHandler struct {
	service    *service.ReminderService
	thresholds []int
}

// NewRemindersHandler constructs handler.
func NewRemindersHandler(reminderService *service.ReminderService, thresholds []int) *RemindersHandler {
	return &RemindersHandler{service: reminderService, thresholds: thresholds}
}

// SendReminders POST /emails/send-reminders.
func (h *RemindersHandler) SendReminders(c *fiber.Ctx) error {
	if _, err := principal(c); err != nil {
		return err
	}
	var req dto.SendRemindersRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	thresholds := h.thresholds
	if req.Days != "" {
		parsed, err := config.ParseThresholds(req.Days)
		if err != nil {
			return apperrors.NewValidationError("invalid days list", map[string]any{"days": req.Days})
		}
		thresholds = parsed
	}

	result, err := h.service.SendReminders(c.Context(), thresholds, time.Now().UTC(), req.SendToAll)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BatchResultResponse{Result: result}})
}

// SendSummary POST /emails/send-summary.
func (h *RemindersHandler) SendSummary(c *fiber.Ctx) error {
	if _, err := principal(c); err != nil {
		return err
	}
	result, err := h.service.SendSummary(c.Context(), time.Now().UTC())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BatchResultResponse{Result: result}})
}

// LastRun GET /emails/last-run.
func (h *RemindersHandler) LastRun(c *fiber.Ctx) error {
	if _, err := principal(c); err != nil {
		return err
	}
	result, err := h.service.LastRun(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BatchResultResponse{Result: result}})
}
