package dto

import (
	"time"

	"tenant-registry-server/internal/infra/pubsub"
	"tenant-registry-server/internal/tenancy/domain"
)

// TenantsTopic carries every committed registry record. The repository
// publishes after each write and the reconciliation worker consumes.
const TenantsTopic pubsub.Topic = "tenants"

// TenantRecord is the wire representation of a registry record
type TenantRecord struct {
	ID            string    `json:"id"`
	Version       int       `json:"version"`
	Identifier    string    `json:"identifier"`
	Name          string    `json:"name"`
	ContactEmail  string    `json:"contact_email"`
	PrimaryColor  string    `json:"primary_color"`
	LogoURL       string    `json:"logo_url"`
	Active        bool      `json:"active"`
	IdentityRealm string    `json:"identity_realm"`
	SchemaName    string    `json:"schema_name"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToDomain converts TenantRecord to domain.Tenant
func (dto TenantRecord) ToDomain() domain.Tenant {
	return domain.Tenant{
		ID:            domain.ID(dto.ID),
		Identifier:    dto.Identifier,
		Name:          dto.Name,
		ContactEmail:  dto.ContactEmail,
		PrimaryColor:  dto.PrimaryColor,
		LogoURL:       dto.LogoURL,
		Active:        dto.Active,
		IdentityRealm: dto.IdentityRealm,
		SchemaName:    dto.SchemaName,
		Status:        domain.ProvisioningStatus(dto.Status),
		Version:       dto.Version,
		CreatedAt:     dto.CreatedAt,
		UpdatedAt:     dto.UpdatedAt,
	}
}

// FromDomain converts domain.Tenant to TenantRecord
func FromDomain(tenant domain.Tenant) TenantRecord {
	return TenantRecord{
		ID:            tenant.ID.String(),
		Version:       tenant.Version,
		Identifier:    tenant.Identifier,
		Name:          tenant.Name,
		ContactEmail:  tenant.ContactEmail,
		PrimaryColor:  tenant.PrimaryColor,
		LogoURL:       tenant.LogoURL,
		Active:        tenant.Active,
		IdentityRealm: tenant.IdentityRealm,
		SchemaName:    tenant.SchemaName,
		Status:        tenant.Status.String(),
		CreatedAt:     tenant.CreatedAt,
		UpdatedAt:     tenant.UpdatedAt,
	}
}
