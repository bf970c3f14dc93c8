package usecases

import (
	"context"

	"tenant-registry-server/internal/tenancy/domain"
)

// IdentityProvider is the administrative surface of the identity backend.
// Every mutating operation has ensure semantics: safe to call when the target
// may already exist, reporting through the created flag whether it did.
type IdentityProvider interface {
	EnsureRealm(ctx context.Context, name, displayName string) (created bool, err error)
	EnsureClient(ctx context.Context, realm, clientID, secret string) (clientUUID string, created bool, err error)
	EnsureRole(ctx context.Context, realm, roleName string) (created bool, err error)
	EnsureUser(ctx context.Context, realm string, user AdminUser) (userID string, created bool, err error)
	DeleteRealm(ctx context.Context, name string) (deleted bool, err error)
	RealmExists(ctx context.Context, name string) (bool, error)
}

// AdminUser describes the initial realm administrator provisioned for a tenant.
type AdminUser struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	RoleName  string
}

// SchemaProvisioner manages per-tenant database schemas. CreateAndMigrate is
// re-runnable: migrations already applied to a schema are skipped. It is not
// atomic; a failure may leave the schema partially migrated and the caller must
// drop it before retrying.
type SchemaProvisioner interface {
	CreateAndMigrate(ctx context.Context, schemaName string) error
	DropSchema(ctx context.Context, schemaName string) error
	SchemaExists(ctx context.Context, schemaName string) (bool, error)
}

type Pagination struct {
	Limit  int
	Offset int
}

// TenantFilter narrows tenant listings. The zero value matches every tenant.
type TenantFilter struct {
	Status domain.ProvisioningStatus
	Pagination
}

type TenantRepository interface {
	Create(ctx context.Context, tenant domain.Tenant) error
	GetByID(ctx context.Context, id domain.ID) (domain.Tenant, error)
	GetByIdentifier(ctx context.Context, identifier string) (domain.Tenant, error)
	GetByRealm(ctx context.Context, realm string) (domain.Tenant, error)
	GetBySchema(ctx context.Context, schemaName string) (domain.Tenant, error)
	ExistsByIdentifier(ctx context.Context, identifier string) (bool, error)
	Update(ctx context.Context, tenant domain.Tenant) error
	Delete(ctx context.Context, id domain.ID) error
	FindAll(ctx context.Context, filter TenantFilter) ([]domain.Tenant, int, error)
	FindByStatus(ctx context.Context, status domain.ProvisioningStatus) ([]domain.Tenant, error)
}
