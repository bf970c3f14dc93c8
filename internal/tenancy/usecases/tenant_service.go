package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tenant-registry-server/internal/tenancy/domain"
)

var (
	ErrTenantNotFound        = errors.New("tenant not found")
	ErrTenantDuplicated      = errors.New("tenant already exists")
	ErrTenantNotProvisioned  = errors.New("tenant is not in provisioned state")
	ErrTenantVersionConflict = errors.New("tenant version conflict")
)

//go:generate mockgen -source=tenant_service.go -destination=../../../test/unit/doubles/tenancy/usecases/tenant_service_mock.go -package=usecases -mock_names=TenantService=MockTenantService

type TenantService interface {
	CreateTenant(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error)
	GetTenant(ctx context.Context, id domain.ID) (domain.Tenant, error)
	GetTenantByIdentifier(ctx context.Context, identifier string) (domain.Tenant, error)
	ListTenants(ctx context.Context, filter TenantFilter) ([]domain.Tenant, int, error)
	UpdateTenant(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error)
	ActivateTenant(ctx context.Context, id domain.ID) error
	DeactivateTenant(ctx context.Context, id domain.ID) error
	DeleteTenant(ctx context.Context, id domain.ID) error
}

func NewTenantService(provisioner TenantProvisioner, repository TenantRepository) *SimpleTenantService {
	return &SimpleTenantService{
		provisioner: provisioner,
		repository:  repository,
	}
}

var _ TenantService = (*SimpleTenantService)(nil)

type SimpleTenantService struct {
	provisioner TenantProvisioner
	repository  TenantRepository
}

// CreateTenant delegates to the provisioner, which owns the cross-backend
// ordering and rollback rules.
func (s *SimpleTenantService) CreateTenant(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	provisioned, err := s.provisioner.Provision(ctx, tenant)
	if err != nil {
		return domain.Tenant{}, err
	}

	return provisioned, nil
}

func (s *SimpleTenantService) GetTenant(ctx context.Context, id domain.ID) (domain.Tenant, error) {
	tenant, err := s.repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return domain.Tenant{}, ErrTenantNotFound
		}
		slog.Error("getting tenant", slog.String("error", err.Error()))
		return domain.Tenant{}, fmt.Errorf("getting tenant: %w", err)
	}

	return tenant, nil
}

func (s *SimpleTenantService) GetTenantByIdentifier(ctx context.Context, identifier string) (domain.Tenant, error) {
	tenant, err := s.repository.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return domain.Tenant{}, ErrTenantNotFound
		}
		slog.Error("getting tenant by identifier", slog.String("error", err.Error()))
		return domain.Tenant{}, fmt.Errorf("getting tenant by identifier: %w", err)
	}

	return tenant, nil
}

func (s *SimpleTenantService) ListTenants(ctx context.Context, filter TenantFilter) ([]domain.Tenant, int, error) {
	tenants, total, err := s.repository.FindAll(ctx, filter)
	if err != nil {
		slog.Error("listing tenants", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("listing tenants: %w", err)
	}

	return tenants, total, nil
}

// UpdateTenant mutates descriptive metadata only. The identifier and the
// derived realm and schema names are immutable after provisioning.
func (s *SimpleTenantService) UpdateTenant(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	existing, err := s.repository.GetByID(ctx, tenant.ID)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return domain.Tenant{}, ErrTenantNotFound
		}
		return domain.Tenant{}, fmt.Errorf("getting tenant: %w", err)
	}

	if !existing.IsProvisioned() {
		return domain.Tenant{}, ErrTenantNotProvisioned
	}

	if tenant.Version != 0 && tenant.Version != existing.Version {
		return domain.Tenant{}, ErrTenantVersionConflict
	}

	existing.UpdateInfo(tenant.Name, tenant.ContactEmail, tenant.PrimaryColor, tenant.LogoURL)

	if err := s.repository.Update(ctx, existing); err != nil {
		slog.Error("updating tenant", slog.String("error", err.Error()))
		return domain.Tenant{}, fmt.Errorf("updating tenant: %w", err)
	}

	slog.Info("tenant updated",
		slog.String("id", existing.ID.String()),
		slog.Int("version", existing.Version))
	return existing, nil
}

func (s *SimpleTenantService) ActivateTenant(ctx context.Context, id domain.ID) error {
	return s.setActive(ctx, id, true)
}

func (s *SimpleTenantService) DeactivateTenant(ctx context.Context, id domain.ID) error {
	return s.setActive(ctx, id, false)
}

func (s *SimpleTenantService) setActive(ctx context.Context, id domain.ID, active bool) error {
	tenant, err := s.repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return ErrTenantNotFound
		}
		return fmt.Errorf("getting tenant: %w", err)
	}

	if !tenant.IsProvisioned() {
		return ErrTenantNotProvisioned
	}

	if active {
		tenant.Activate()
	} else {
		tenant.Deactivate()
	}

	if err := s.repository.Update(ctx, tenant); err != nil {
		slog.Error("updating tenant active flag", slog.String("error", err.Error()))
		return fmt.Errorf("updating tenant: %w", err)
	}

	slog.Info("tenant active flag changed",
		slog.String("id", id.String()),
		slog.Bool("active", active))
	return nil
}

// DeleteTenant removes the tenant's identity realm, schema, and registry
// record through the provisioner. A partially failed cleanup leaves the
// tenant in degraded status rather than failing the call.
func (s *SimpleTenantService) DeleteTenant(ctx context.Context, id domain.ID) error {
	tenant, err := s.repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return ErrTenantNotFound
		}
		return fmt.Errorf("getting tenant: %w", err)
	}

	return s.provisioner.Deprovision(ctx, tenant)
}
