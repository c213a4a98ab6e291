package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/service"
	apperrors "github.com/spec-kit/compliance-service/pkg/util/errorutil"
)

// RecordsHandler manages compliance record endpoints.
type RecordsHandler struct {
	service *service.RecordService
}

// NewRecordsHandler constructs handler.
func NewRecordsHandler(recordService *service.RecordService) *RecordsHandler {
	return &RecordsHandler{service: recordService}
}

// Create POST /credentials.
func (h *RecordsHandler) Create(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	req, input, err := parseRecordBody(c)
	if err != nil {
		return err
	}

	explicitOrg := req.OrganizationID
	if explicitOrg == nil {
		explicitOrg = orgSelector(c)
	}

	rec, err := h.service.Create(c.Context(), caller, explicitOrg, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewRecordResponse(rec, time.Now().UTC())})
}

// Get GET /credentials/:id.
func (h *RecordsHandler) Get(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	rec, err := h.service.Get(c.Context(), caller, orgSelector(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRecordResponse(rec, time.Now().UTC())})
}

// List GET /credentials.
func (h *RecordsHandler) List(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	input := service.RecordListInput{}
	input.Limit, input.Offset = parseLimitOffset(c)
	if val := strings.TrimSpace(c.Query("user_id")); val != "" {
		input.UserID = &val
	}
	if val := strings.TrimSpace(c.Query("kind")); val != "" {
		kind := domain.RecordKind(val)
		if !kind.Valid() {
			return apperrors.NewValidationError("unknown record kind", map[string]any{"kind": val})
		}
		input.Kind = &kind
	}

	records, err := h.service.List(c.Context(), caller, orgSelector(c), input)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	items := make([]dto.RecordResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.NewRecordResponse(&records[i], now))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Update PUT /credentials/:id.
func (h *RecordsHandler) Update(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	req, input, err := parseRecordBody(c)
	if err != nil {
		return err
	}

	explicitOrg := req.OrganizationID
	if explicitOrg == nil {
		explicitOrg = orgSelector(c)
	}

	rec, err := h.service.Update(c.Context(), caller, explicitOrg, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRecordResponse(rec, time.Now().UTC())})
}

// Delete DELETE /credentials/:id.
func (h *RecordsHandler) Delete(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), caller, orgSelector(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func parseRecordBody(c *fiber.Ctx) (dto.RecordRequest, service.RecordInput, error) {
	var req dto.RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return req, service.RecordInput{}, apperrors.NewValidationError("invalid payload", nil)
	}

	issue, err := parseDate("issue_date", req.IssueDate)
	if err != nil {
		return req, service.RecordInput{}, err
	}
	expiry, err := parseDate("expiry_date", req.ExpiryDate)
	if err != nil {
		return req, service.RecordInput{}, err
	}

	input := service.RecordInput{
		UserID:      strings.TrimSpace(req.UserID),
		Kind:        domain.RecordKind(req.Kind),
		TypeTag:     req.TypeTag,
		SubjectName: req.SubjectName,
		Email:       strings.TrimSpace(req.Email),
		IssueDate:   issue,
		ExpiryDate:  expiry,
		Manual:      domain.ParseManualStatus(strings.TrimSpace(req.ManualStatus)),
	}
	return req, input, nil
}
