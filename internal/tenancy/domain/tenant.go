package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"tenant-registry-server/internal/infra/utils"
)

// identifierPattern matches tenant slugs: lowercase alphanumeric plus hyphen.
// The identifier doubles as the identity realm name, and with hyphens replaced
// as the database schema name, so nothing outside this set is allowed.
var identifierPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

var (
	ErrInvalidIdentifier = errors.New("identifier must contain only lowercase letters, numbers, and hyphens")
	ErrNameRequired      = errors.New("name is required")
	ErrEmailRequired     = errors.New("contact email is required")
)

type Tenant struct {
	ID            ID
	Identifier    string
	Name          string
	ContactEmail  string
	PrimaryColor  string
	LogoURL       string
	Active        bool
	IdentityRealm string
	SchemaName    string
	Status        ProvisioningStatus
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SchemaNameFor derives the database schema name from a tenant identifier.
// Schema names cannot contain hyphens, so they are replaced by underscores.
func SchemaNameFor(identifier string) string {
	return strings.ReplaceAll(identifier, "-", "_")
}

// RealmNameFor derives the identity realm name from a tenant identifier.
func RealmNameFor(identifier string) string {
	return identifier
}

func ValidIdentifier(identifier string) bool {
	return identifierPattern.MatchString(identifier)
}

func (t *Tenant) IsProvisioned() bool {
	return t.Status == StatusProvisioned
}

func (t *Tenant) MarkProvisioned() {
	t.Status = StatusProvisioned
	t.UpdatedAt = time.Now()
}

func (t *Tenant) MarkDestroying() {
	t.Status = StatusDestroying
	t.Active = false
	t.UpdatedAt = time.Now()
}

func (t *Tenant) MarkDegraded() {
	t.Status = StatusDegraded
	t.Active = false
	t.UpdatedAt = time.Now()
}

func (t *Tenant) Activate() {
	t.Active = true
	t.UpdatedAt = time.Now()
}

func (t *Tenant) Deactivate() {
	t.Active = false
	t.UpdatedAt = time.Now()
}

func (t *Tenant) UpdateInfo(name, contactEmail, primaryColor, logoURL string) {
	if name != "" {
		t.Name = name
	}
	if contactEmail != "" {
		t.ContactEmail = contactEmail
	}
	if primaryColor != "" {
		t.PrimaryColor = primaryColor
	}
	if logoURL != "" {
		t.LogoURL = logoURL
	}
	t.Version++
	t.UpdatedAt = time.Now()
}

func NewTenantBuilder() *tenantBuilder {
	return &tenantBuilder{}
}

type tenantBuilder struct {
	actions []tenantHandler
}

type tenantHandler func(t *Tenant) error

func (b *tenantBuilder) WithIdentifier(identifier string) *tenantBuilder {
	b.actions = append(b.actions, func(t *Tenant) error {
		if !ValidIdentifier(identifier) {
			return ErrInvalidIdentifier
		}
		t.Identifier = identifier
		t.IdentityRealm = RealmNameFor(identifier)
		t.SchemaName = SchemaNameFor(identifier)
		return nil
	})
	return b
}

func (b *tenantBuilder) WithName(name string) *tenantBuilder {
	b.actions = append(b.actions, func(t *Tenant) error {
		if name == "" {
			return ErrNameRequired
		}
		t.Name = name
		return nil
	})
	return b
}

func (b *tenantBuilder) WithContactEmail(email string) *tenantBuilder {
	b.actions = append(b.actions, func(t *Tenant) error {
		if email == "" {
			return ErrEmailRequired
		}
		t.ContactEmail = email
		return nil
	})
	return b
}

func (b *tenantBuilder) WithPrimaryColor(color string) *tenantBuilder {
	b.actions = append(b.actions, func(t *Tenant) error {
		t.PrimaryColor = color
		return nil
	})
	return b
}

func (b *tenantBuilder) WithLogoURL(logoURL string) *tenantBuilder {
	b.actions = append(b.actions, func(t *Tenant) error {
		t.LogoURL = logoURL
		return nil
	})
	return b
}

func (b *tenantBuilder) Build() (Tenant, error) {
	now := time.Now()
	result := Tenant{
		ID:        ID(utils.GenerateUUID()),
		Active:    true,
		Status:    StatusPending,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, action := range b.actions {
		if err := action(&result); err != nil {
			return Tenant{}, err
		}
	}

	if result.Identifier == "" {
		return Tenant{}, ErrInvalidIdentifier
	}

	return result, nil
}
