package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tenant-registry-server/internal/infra/pubsub"
	"tenant-registry-server/internal/infra/sql"
	"tenant-registry-server/internal/tenancy/domain"
	"tenant-registry-server/internal/tenancy/dto"
	"tenant-registry-server/internal/tenancy/persistence/internal"
	"tenant-registry-server/internal/tenancy/usecases"
)

func NewTenantRepository(publisherFactory pubsub.PublisherFactory, orm sql.ORM) (*SimpleTenantRepository, error) {
	publisher, err := publisherFactory.New(dto.TenantsTopic, dto.TenantRecord{})
	if err != nil {
		return nil, fmt.Errorf("creating publisher: %w", err)
	}

	err = orm.AutoMigrate(&internal.Tenant{})
	if err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SimpleTenantRepository{
		publisher: publisher,
		orm:       orm,
	}, nil
}

var _ usecases.TenantRepository = (*SimpleTenantRepository)(nil)

// SimpleTenantRepository writes through the ORM so unique violations surface
// synchronously, then replicates the record to the "tenants" topic on a
// best-effort basis.
type SimpleTenantRepository struct {
	publisher pubsub.Publisher
	orm       sql.ORM
}

func (r *SimpleTenantRepository) Create(ctx context.Context, tenant domain.Tenant) error {
	data := internal.FromTenant(tenant)
	err := r.orm.
		WithContext(ctx).
		Create(&data).
		Error()

	if errors.Is(err, sql.ErrDuplicatedKey) {
		return usecases.ErrDuplicateIdentifier
	}

	if err != nil {
		return fmt.Errorf("database insert: %w", err)
	}

	r.replicate(ctx, data)
	return nil
}

func (r *SimpleTenantRepository) GetByID(ctx context.Context, id domain.ID) (domain.Tenant, error) {
	var entity internal.Tenant
	err := r.orm.
		WithContext(ctx).
		First(&entity, "id = ?", id.String()).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Tenant{}, usecases.ErrTenantNotFound
	}

	if err != nil {
		return domain.Tenant{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleTenantRepository) GetByIdentifier(ctx context.Context, identifier string) (domain.Tenant, error) {
	return r.getByField(ctx, "identifier = ?", identifier)
}

func (r *SimpleTenantRepository) GetByRealm(ctx context.Context, realm string) (domain.Tenant, error) {
	return r.getByField(ctx, "identity_realm = ?", realm)
}

func (r *SimpleTenantRepository) GetBySchema(ctx context.Context, schemaName string) (domain.Tenant, error) {
	return r.getByField(ctx, "schema_name = ?", schemaName)
}

func (r *SimpleTenantRepository) getByField(ctx context.Context, query string, value string) (domain.Tenant, error) {
	var entity internal.Tenant
	err := r.orm.
		WithContext(ctx).
		Where(query, value).
		First(&entity).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Tenant{}, usecases.ErrTenantNotFound
	}

	if err != nil {
		return domain.Tenant{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleTenantRepository) ExistsByIdentifier(ctx context.Context, identifier string) (bool, error) {
	var count int64
	err := r.orm.
		WithContext(ctx).
		Model(&internal.Tenant{}).
		Where("identifier = ?", identifier).
		Count(&count).
		Error()
	if err != nil {
		return false, fmt.Errorf("database query: %w", err)
	}

	return count > 0, nil
}

func (r *SimpleTenantRepository) Update(ctx context.Context, tenant domain.Tenant) error {
	data := internal.FromTenant(tenant)
	err := r.orm.
		WithContext(ctx).
		Save(&data).
		Error()
	if err != nil {
		return fmt.Errorf("database update: %w", err)
	}

	r.replicate(ctx, data)
	return nil
}

func (r *SimpleTenantRepository) Delete(ctx context.Context, id domain.ID) error {
	err := r.orm.
		WithContext(ctx).
		Delete(&internal.Tenant{}, "id = ?", id.String()).
		Error()
	if err != nil {
		return fmt.Errorf("database delete: %w", err)
	}

	return nil
}

// FindAll counts and pages in the database so a status filter keeps the
// total consistent with the rows it returns.
func (r *SimpleTenantRepository) FindAll(ctx context.Context, filter usecases.TenantFilter) ([]domain.Tenant, int, error) {
	countQuery := r.orm.
		WithContext(ctx).
		Model(&internal.Tenant{})
	if filter.Status != "" {
		countQuery = countQuery.Where("status = ?", filter.Status.String())
	}
	var total int64
	err := countQuery.Count(&total).Error()
	if err != nil {
		return nil, 0, fmt.Errorf("database count: %w", err)
	}

	var entities []internal.Tenant
	query := r.orm.
		WithContext(ctx).
		Order("created_at")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	err = query.Find(&entities).Error()
	if err != nil {
		return nil, 0, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.Tenant, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain()
	}

	return result, int(total), nil
}

func (r *SimpleTenantRepository) FindByStatus(ctx context.Context, status domain.ProvisioningStatus) ([]domain.Tenant, error) {
	var entities []internal.Tenant
	err := r.orm.
		WithContext(ctx).
		Where("status = ?", status.String()).
		Find(&entities).
		Error()
	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.Tenant, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain()
	}

	return result, nil
}

// replicate mirrors the stored record to kafka. Registry state already
// committed, so a publish failure is logged and absorbed.
func (r *SimpleTenantRepository) replicate(ctx context.Context, data internal.Tenant) {
	record := dto.FromDomain(data.ToDomain())
	if err := r.publisher.Publish(ctx, pubsub.Key(record.ID), record); err != nil {
		slog.Warn("replicating tenant record",
			slog.String("id", record.ID),
			slog.String("error", err.Error()))
	}
}
