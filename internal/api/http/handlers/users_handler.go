package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/service"
	apperrors "github.com/spec-kit/compliance-service/pkg/util/errorutil"
)

// UsersHandler manages account administration endpoints.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// Create POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	explicitOrg := req.OrganizationID
	if explicitOrg == nil {
		explicitOrg = orgSelector(c)
	}

	input := service.UserCreateInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Role:     domain.Role(req.Role),
	}
	user, err := h.service.Create(c.Context(), caller, explicitOrg, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Context(), caller, orgSelector(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	limit, offset := parseLimitOffset(c)
	users, err := h.service.List(c.Context(), caller, orgSelector(c), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Update PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.UserUpdateInput{Name: req.Name, Email: req.Email}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.service.Update(c.Context(), caller, orgSelector(c), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// SetAccessStatus PATCH /users/:id/access-status.
func (h *UsersHandler) SetAccessStatus(c *fiber.Ctx) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.AccessStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	status := domain.AccessStatus(strings.TrimSpace(req.AccessStatus))
	user, err := h.service.SetAccessStatus(c.Context(), caller, orgSelector(c), c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
