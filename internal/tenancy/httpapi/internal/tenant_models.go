package internal

import (
	"time"

	"tenant-registry-server/internal/tenancy/domain"
)

// Request models
type TenantCreateRequest struct {
	Identifier   string `json:"identifier" validate:"required,min=1,max=63"`
	Name         string `json:"name" validate:"required,min=1,max=100"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	PrimaryColor string `json:"primary_color,omitempty" validate:"omitempty,hexcolor"`
	LogoURL      string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

type TenantUpdateRequest struct {
	Name         string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	ContactEmail string `json:"contact_email,omitempty" validate:"omitempty,email"`
	PrimaryColor string `json:"primary_color,omitempty" validate:"omitempty,hexcolor"`
	LogoURL      string `json:"logo_url,omitempty" validate:"omitempty,url"`
	Version      int    `json:"version,omitempty"`
}

// Response models
type TenantResponse struct {
	ID            string    `json:"id"`
	Identifier    string    `json:"identifier"`
	Name          string    `json:"name"`
	ContactEmail  string    `json:"contact_email"`
	PrimaryColor  string    `json:"primary_color,omitempty"`
	LogoURL       string    `json:"logo_url,omitempty"`
	Active        bool      `json:"active"`
	IdentityRealm string    `json:"identity_realm"`
	SchemaName    string    `json:"schema_name"`
	Status        string    `json:"status"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Conversion functions
func ToTenantResponse(tenant domain.Tenant) TenantResponse {
	return TenantResponse{
		ID:            tenant.ID.String(),
		Identifier:    tenant.Identifier,
		Name:          tenant.Name,
		ContactEmail:  tenant.ContactEmail,
		PrimaryColor:  tenant.PrimaryColor,
		LogoURL:       tenant.LogoURL,
		Active:        tenant.Active,
		IdentityRealm: tenant.IdentityRealm,
		SchemaName:    tenant.SchemaName,
		Status:        tenant.Status.String(),
		Version:       tenant.Version,
		CreatedAt:     tenant.CreatedAt,
		UpdatedAt:     tenant.UpdatedAt,
	}
}
