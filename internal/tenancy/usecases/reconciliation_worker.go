package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tenant-registry-server/internal/infra/async"
	"tenant-registry-server/internal/infra/pubsub"
	"tenant-registry-server/internal/tenancy/domain"
	"tenant-registry-server/internal/tenancy/dto"

	"go.opentelemetry.io/otel"
)

func NewReconciliationWorker(
	ticker *time.Ticker,
	repository TenantRepository,
	identity IdentityProvider,
	schemas SchemaProvisioner,
	broker async.InternalBroker,
	consumerFactory pubsub.ConsumerFactory,
) *ReconciliationWorker {
	return &ReconciliationWorker{
		ticker:     ticker,
		repository: repository,
		identity:   identity,
		schemas:    schemas,
		broker:     broker,
		consumer:   consumerFactory.New(),
	}
}

var _ async.Worker = (*ReconciliationWorker)(nil)

// ReconciliationWorker finishes the cleanup of tenants whose deprovisioning
// partially failed. It reacts immediately to degraded-destroy events from the
// internal broker, picks up degraded records replicated by other instances
// through the tenants topic, and sweeps the registry for degraded or
// stuck-destroying tenants on every tick. Once both backends confirm the realm
// and schema are gone, the registry row is deleted and the identifier becomes
// reusable.
type ReconciliationWorker struct {
	ticker     *time.Ticker
	repository TenantRepository
	identity   IdentityProvider
	schemas    SchemaProvisioner
	broker     async.InternalBroker
	consumer   pubsub.Consumer
}

func (w *ReconciliationWorker) Run(ctx context.Context, done func()) {
	defer done()
	subscription, err := w.broker.Subscribe(TenantEventsTopic)
	if err != nil {
		slog.Error("subscribing to topic", slog.Any("error", err))
		return
	}
	recordsChannel := w.consumeTenantRecordsToChannel()

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			slog.Info("reconciliation worker cancelled")
			wg.Wait()
			return
		case msg := <-subscription.Receiver:
			if msg.Event != EventTenantDestroyDegraded {
				continue
			}
			tenant, ok := msg.Value.(domain.Tenant)
			if !ok {
				slog.Error("failed to cast tenant event data",
					slog.String("type", fmt.Sprintf("%T", msg.Value)))
				continue
			}
			wg.Add(1)
			w.reconcileTenant(context.Background(), tenant, wg.Done)
		case record := <-recordsChannel:
			status := domain.ProvisioningStatus(record.Status)
			if status != domain.StatusDegraded && status != domain.StatusDestroying {
				continue
			}
			wg.Add(1)
			w.reconcileTenant(context.Background(), record.ToDomain(), wg.Done)
		case <-w.ticker.C:
			wg.Add(1)
			tickCtx, _ := otel.Tracer("tenant_registry").Start(context.Background(), "reconciliation")
			w.sweep(tickCtx, wg.Done)
		}
	}
}

// consumeTenantRecordsToChannel bridges the tenants topic into the select
// loop. The kafka consumer decodes into a pointer, the memory broker hands
// back the published value, so both shapes are accepted.
func (w *ReconciliationWorker) consumeTenantRecordsToChannel() <-chan dto.TenantRecord {
	out := make(chan dto.TenantRecord, 1)
	handler := func(_ context.Context, _ pubsub.Key, msg pubsub.Prototype) error {
		switch record := msg.(type) {
		case dto.TenantRecord:
			out <- record
		case *dto.TenantRecord:
			out <- *record
		default:
			return fmt.Errorf("msg is not dto.TenantRecord: %T", msg)
		}
		return nil
	}

	go func() {
		if err := w.consumer.Consume(dto.TenantsTopic, handler, dto.TenantRecord{}); err != nil {
			slog.Error("consuming tenant records", slog.Any("error", err))
		}
	}()
	return out
}

func (w *ReconciliationWorker) Shutdown() {
	w.ticker.Stop()
}

func (w *ReconciliationWorker) sweep(ctx context.Context, done func()) {
	defer done()
	slog.Debug("reconciliation sweep start", slog.Time("time", time.Now()))

	for _, status := range []domain.ProvisioningStatus{domain.StatusDegraded, domain.StatusDestroying} {
		tenants, err := w.repository.FindByStatus(ctx, status)
		if err != nil {
			slog.Error("finding tenants for reconciliation",
				slog.String("status", status.String()),
				slog.Any("error", err))
			continue
		}

		for _, tenant := range tenants {
			w.reconcileTenant(ctx, tenant, func() {})
		}
	}
}

func (w *ReconciliationWorker) reconcileTenant(ctx context.Context, tenant domain.Tenant, done func()) {
	defer done()

	realmExists, err := w.identity.RealmExists(ctx, tenant.IdentityRealm)
	if err != nil {
		slog.Warn("checking realm during reconciliation",
			slog.String("realm", tenant.IdentityRealm),
			slog.Any("error", err))
		return
	}
	if realmExists {
		if _, err := w.identity.DeleteRealm(ctx, tenant.IdentityRealm); err != nil {
			slog.Warn("deleting realm during reconciliation",
				slog.String("realm", tenant.IdentityRealm),
				slog.Any("error", err))
			return
		}
	}

	schemaExists, err := w.schemas.SchemaExists(ctx, tenant.SchemaName)
	if err != nil {
		slog.Warn("checking schema during reconciliation",
			slog.String("schema", tenant.SchemaName),
			slog.Any("error", err))
		return
	}
	if schemaExists {
		if err := w.schemas.DropSchema(ctx, tenant.SchemaName); err != nil {
			slog.Warn("dropping schema during reconciliation",
				slog.String("schema", tenant.SchemaName),
				slog.Any("error", err))
			return
		}
	}

	if err := w.repository.Delete(ctx, tenant.ID); err != nil {
		slog.Error("deleting reconciled tenant record",
			slog.String("id", tenant.ID.String()),
			slog.Any("error", err))
		return
	}

	slog.Info("tenant cleanup reconciled",
		slog.String("id", tenant.ID.String()),
		slog.String("identifier", tenant.Identifier))
}
