package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/auth"
	"github.com/spec-kit/compliance-service/internal/domain"
	apperrors "github.com/spec-kit/compliance-service/pkg/util/errorutil"
)

// principal extracts the authenticated caller loaded by the auth middleware.
func principal(c *fiber.Ctx) (*domain.User, error) {
	user, ok := auth.PrincipalFromContext(c)
	if !ok || user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return user, nil
}

// orgSelector reads the explicit organization selector from the query
// string. Nil means the caller did not select one; non-platform callers are
// pinned to their own organization regardless.
func orgSelector(c *fiber.Ctx) *string {
	val := strings.TrimSpace(c.Query("organization_id"))
	if val == "" {
		return nil
	}
	return &val
}

func parseLimitOffset(c *fiber.Ctx) (int, int) {
	limit := 50
	offset := 0
	if val, err := strconv.Atoi(c.Query("limit")); err == nil && val > 0 {
		limit = val
	}
	if val, err := strconv.Atoi(c.Query("offset")); err == nil && val >= 0 {
		offset = val
	}
	return limit, offset
}

// parseDate parses an ISO date string; empty yields nil.
func parseDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(dto.DateLayout, raw, time.UTC)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid date", map[string]any{field: "expected YYYY-MM-DD"})
	}
	return &parsed, nil
}
