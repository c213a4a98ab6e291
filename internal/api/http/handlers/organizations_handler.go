package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/service"
	apperrors "github.com/spec-kit/compliance-service/pkg/util/errorutil"
)

// OrganizationsHandler manages tenant provisioning endpoints.
type OrganizationsHandler struct {
	service *service.OrgService
}

// NewOrganizationsHandler constructs handler.
func NewOrganizationsHandler(orgService *service.OrgService) *OrganizationsHandler {
	return &OrganizationsHandler{service: orgService}
}

// Create POST /organizations.
func (h *OrganizationsHandler) Create(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Slug) == "" {
		return apperrors.NewValidationError("name and slug required", nil)
	}

	org, err := h.service.Create(c.Context(), caller, service.OrgCreateInput{
		Name:    strings.TrimSpace(req.Name),
		Slug:    req.Slug,
		Domains: req.Domains,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewOrganizationResponse(org)})
}

// List GET /organizations.
func (h *OrganizationsHandler) List(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	limit, offset := parseLimitOffset(c)
	orgs, err := h.service.List(c.Context(), caller, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.OrganizationResponse, 0, len(orgs))
	for i := range orgs {
		items = append(items, dto.NewOrganizationResponse(&orgs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetActive PATCH /organizations/:id.
func (h *OrganizationsHandler) SetActive(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.SetOrganizationActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	org, err := h.service.SetActive(c.Context(), caller, c.Params("id"), req.Active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrganizationResponse(org)})
}
