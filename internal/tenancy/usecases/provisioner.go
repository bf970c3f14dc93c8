package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tenant-registry-server/internal/infra/async"
	"tenant-registry-server/internal/tenancy/domain"
)

var (
	ErrDuplicateIdentifier        = errors.New("tenant identifier already taken")
	ErrIdentityProvisioningFailed = errors.New("identity realm provisioning failed")
	ErrSchemaProvisioningFailed   = errors.New("database schema provisioning failed")
	ErrRegistryWriteFailed        = errors.New("tenant registry write failed")
	ErrBackendUnavailable         = errors.New("backend unavailable")
)

const (
	TenantEventsTopic async.BrokerTopicName = "tenant_events"

	EventTenantProvisioned     = "tenant_provisioned"
	EventTenantDestroyed       = "tenant_destroyed"
	EventTenantDestroyDegraded = "tenant_destroy_degraded"
)

// TenantProvisioner coordinates the identity backend, the schema backend, and
// the registry. The three have no shared transaction, so Provision runs a
// forward chain with compensating actions instead of two-phase commit.
type TenantProvisioner interface {
	Provision(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error)
	Deprovision(ctx context.Context, tenant domain.Tenant) error
}

func NewTenantProvisioner(
	identity IdentityProvider,
	schemas SchemaProvisioner,
	repository TenantRepository,
	broker async.InternalBroker,
) *SagaTenantProvisioner {
	return &SagaTenantProvisioner{
		identity:   identity,
		schemas:    schemas,
		repository: repository,
		broker:     broker,
	}
}

var _ TenantProvisioner = (*SagaTenantProvisioner)(nil)

type SagaTenantProvisioner struct {
	identity   IdentityProvider
	schemas    SchemaProvisioner
	repository TenantRepository
	broker     async.InternalBroker
}

// Provision runs the forward chain: identity realm, then schema, then the
// registry record. The registry write goes last because it is the only step
// without external side effects; failing before it leaves no durable record
// pointing at half-provisioned infrastructure. Compensations are best-effort:
// a failed rollback is logged rather than raised so it cannot mask the
// original failure.
func (p *SagaTenantProvisioner) Provision(ctx context.Context, tenant domain.Tenant) (domain.Tenant, error) {
	exists, err := p.repository.ExistsByIdentifier(ctx, tenant.Identifier)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("checking existing tenant: %w", err)
	}
	if exists {
		slog.Warn("tenant already exists", slog.String("identifier", tenant.Identifier))
		return domain.Tenant{}, ErrTenantDuplicated
	}

	realmCreated, err := p.identity.EnsureRealm(ctx, tenant.IdentityRealm, tenant.Name)
	if err != nil {
		slog.Error("ensuring identity realm",
			slog.String("realm", tenant.IdentityRealm),
			slog.String("error", err.Error()))
		return domain.Tenant{}, fmt.Errorf("%w: %w", ErrIdentityProvisioningFailed, err)
	}
	if !realmCreated {
		slog.Warn("identity realm already existed", slog.String("realm", tenant.IdentityRealm))
	}

	if err := p.schemas.CreateAndMigrate(ctx, tenant.SchemaName); err != nil {
		slog.Error("provisioning tenant schema",
			slog.String("schema", tenant.SchemaName),
			slog.String("error", err.Error()))
		if realmCreated {
			p.compensateRealm(ctx, tenant.IdentityRealm)
		}
		return domain.Tenant{}, fmt.Errorf("%w: %w", ErrSchemaProvisioningFailed, err)
	}

	tenant.MarkProvisioned()
	if err := p.repository.Create(ctx, tenant); err != nil {
		slog.Error("persisting tenant record",
			slog.String("identifier", tenant.Identifier),
			slog.String("error", err.Error()))
		// A duplicate here means a concurrent create for the same identifier
		// won the race. The unique index is the safety mechanism; the
		// pre-check above is only an optimization. Only resources this
		// attempt created get torn down: a realm found pre-existing may be
		// the race winner's, so it stays.
		p.compensateSchema(ctx, tenant.SchemaName)
		if realmCreated {
			p.compensateRealm(ctx, tenant.IdentityRealm)
		}
		return domain.Tenant{}, fmt.Errorf("%w: %w", ErrRegistryWriteFailed, err)
	}

	p.publish(ctx, EventTenantProvisioned, tenant)
	slog.Info("tenant provisioned",
		slog.String("id", tenant.ID.String()),
		slog.String("identifier", tenant.Identifier),
		slog.String("realm", tenant.IdentityRealm),
		slog.String("schema", tenant.SchemaName))

	return tenant, nil
}

// Deprovision mirrors Provision in reverse: identity realm, then schema, then
// the registry record. Backend cleanup failures are not fatal; the tenant is
// marked degraded and left for the reconciliation worker. Only the final
// registry delete failure is returned, since the caller needs to know the
// tenant metadata still exists.
func (p *SagaTenantProvisioner) Deprovision(ctx context.Context, tenant domain.Tenant) error {
	tenant.MarkDestroying()
	if err := p.repository.Update(ctx, tenant); err != nil {
		return fmt.Errorf("%w: marking tenant destroying: %w", ErrRegistryWriteFailed, err)
	}

	degraded := false

	if _, err := p.identity.DeleteRealm(ctx, tenant.IdentityRealm); err != nil {
		slog.Error("deleting identity realm, proceeding with cleanup",
			slog.String("realm", tenant.IdentityRealm),
			slog.String("error", err.Error()))
		degraded = true
	}

	if err := p.schemas.DropSchema(ctx, tenant.SchemaName); err != nil {
		slog.Error("dropping tenant schema, proceeding with cleanup",
			slog.String("schema", tenant.SchemaName),
			slog.String("error", err.Error()))
		degraded = true
	}

	if degraded {
		tenant.MarkDegraded()
		if err := p.repository.Update(ctx, tenant); err != nil {
			slog.Error("recording degraded status",
				slog.String("id", tenant.ID.String()),
				slog.String("error", err.Error()))
		}
		p.publish(ctx, EventTenantDestroyDegraded, tenant)
		slog.Warn("tenant cleanup incomplete, left for reconciliation",
			slog.String("id", tenant.ID.String()),
			slog.String("identifier", tenant.Identifier))
		return nil
	}

	if err := p.repository.Delete(ctx, tenant.ID); err != nil {
		return fmt.Errorf("%w: deleting tenant record: %w", ErrRegistryWriteFailed, err)
	}

	p.publish(ctx, EventTenantDestroyed, tenant)
	slog.Info("tenant destroyed",
		slog.String("id", tenant.ID.String()),
		slog.String("identifier", tenant.Identifier))

	return nil
}

func (p *SagaTenantProvisioner) compensateRealm(ctx context.Context, realm string) {
	if _, err := p.identity.DeleteRealm(ctx, realm); err != nil {
		slog.Error("compensation failed: identity realm left behind",
			slog.String("realm", realm),
			slog.String("error", err.Error()))
	}
}

func (p *SagaTenantProvisioner) compensateSchema(ctx context.Context, schemaName string) {
	if err := p.schemas.DropSchema(ctx, schemaName); err != nil {
		slog.Error("compensation failed: schema left behind",
			slog.String("schema", schemaName),
			slog.String("error", err.Error()))
	}
}

func (p *SagaTenantProvisioner) publish(ctx context.Context, event string, tenant domain.Tenant) {
	if p.broker == nil {
		return
	}
	err := p.broker.Publish(ctx, TenantEventsTopic, async.BrokerMessage{
		Event: event,
		Value: tenant,
	})
	if errors.Is(err, async.ErrTopicNotFound) {
		// Nobody subscribed yet. Events are advisory.
		return
	}
	if err != nil {
		slog.Warn("publishing tenant event",
			slog.String("event", event),
			slog.String("error", err.Error()))
	}
}
