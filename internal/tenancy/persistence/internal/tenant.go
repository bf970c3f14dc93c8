package internal

import (
	"time"

	"tenant-registry-server/internal/tenancy/domain"
)

type Tenant struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Version       int       `json:"version"`
	Identifier    string    `json:"identifier" gorm:"uniqueIndex;not null"`
	Name          string    `json:"name" gorm:"not null"`
	ContactEmail  string    `json:"contact_email" gorm:"not null"`
	PrimaryColor  string    `json:"primary_color"`
	LogoURL       string    `json:"logo_url"`
	Active        bool      `json:"active" gorm:"default:true"`
	IdentityRealm string    `json:"identity_realm" gorm:"not null"`
	SchemaName    string    `json:"schema_name" gorm:"not null"`
	Status        string    `json:"status" gorm:"index;not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}

func (t Tenant) ToDomain() domain.Tenant {
	return domain.Tenant{
		ID:            domain.ID(t.ID),
		Identifier:    t.Identifier,
		Name:          t.Name,
		ContactEmail:  t.ContactEmail,
		PrimaryColor:  t.PrimaryColor,
		LogoURL:       t.LogoURL,
		Active:        t.Active,
		IdentityRealm: t.IdentityRealm,
		SchemaName:    t.SchemaName,
		Status:        domain.ProvisioningStatus(t.Status),
		Version:       t.Version,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func FromTenant(value domain.Tenant) Tenant {
	return Tenant{
		ID:            value.ID.String(),
		Version:       value.Version,
		Identifier:    value.Identifier,
		Name:          value.Name,
		ContactEmail:  value.ContactEmail,
		PrimaryColor:  value.PrimaryColor,
		LogoURL:       value.LogoURL,
		Active:        value.Active,
		IdentityRealm: value.IdentityRealm,
		SchemaName:    value.SchemaName,
		Status:        value.Status.String(),
		CreatedAt:     value.CreatedAt,
		UpdatedAt:     value.UpdatedAt,
	}
}
