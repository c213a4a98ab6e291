package dto

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// CreateOrganizationRequest provisions a new tenant.
type CreateOrganizationRequest struct {
	Name    string   `json:"name"`
	Slug    string   `json:"slug"`
	Domains []string `json:"domains"`
}

// SetOrganizationActiveRequest toggles a tenant on or off.
type SetOrganizationActiveRequest struct {
	Active bool `json:"active"`
}

// OrganizationResponse is the public view of a tenant.
type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Domains   []string  `json:"domains"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOrganizationResponse maps a domain organization.
func NewOrganizationResponse(org *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        org.ID,
		Name:      org.Name,
		Slug:      org.Slug,
		Domains:   org.Domains,
		Active:    org.Active,
		CreatedAt: org.CreatedAt,
		UpdatedAt: org.UpdatedAt,
	}
}
