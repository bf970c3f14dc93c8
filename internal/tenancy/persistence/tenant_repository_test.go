package persistence_test

import (
	"context"

	"tenant-registry-server/internal/infra/pubsub"
	"tenant-registry-server/internal/infra/sql"
	"tenant-registry-server/internal/tenancy/domain"
	"tenant-registry-server/internal/tenancy/persistence"
	persistenceinternal "tenant-registry-server/internal/tenancy/persistence/internal"
	"tenant-registry-server/internal/tenancy/usecases"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("TenantRepository", func() {
	var (
		orm  sql.ORM
		repo usecases.TenantRepository
		ctx  context.Context
	)

	newTenant := func(identifier string) domain.Tenant {
		tenant, err := domain.NewTenantBuilder().
			WithIdentifier(identifier).
			WithName("Test Tenant").
			WithContactEmail("ops@test.example").
			Build()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		return tenant
	}

	ginkgo.BeforeEach(func() {
		var err error
		orm, err = sql.NewMemoryORM("tenant_repository")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		repo, err = persistence.NewTenantRepository(pubsub.NewMemoryPublisherFactory(), orm)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		ctx = context.Background()

		// The shared in-memory database survives across specs.
		err = orm.WithContext(ctx).Where("1 = 1").Delete(&persistenceinternal.Tenant{}).Error()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
	})

	ginkgo.Context("Create", func() {
		ginkgo.It("persists the tenant", func() {
			tenant := newTenant("acme-corp")
			gomega.Expect(repo.Create(ctx, tenant)).To(gomega.Succeed())

			found, err := repo.GetByID(ctx, tenant.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(found.Identifier).To(gomega.Equal("acme-corp"))
			gomega.Expect(found.SchemaName).To(gomega.Equal("acme_corp"))
			gomega.Expect(found.Status).To(gomega.Equal(domain.StatusPending))
		})

		ginkgo.When("the identifier is already registered", func() {
			ginkgo.It("returns ErrDuplicateIdentifier", func() {
				gomega.Expect(repo.Create(ctx, newTenant("acme"))).To(gomega.Succeed())

				err := repo.Create(ctx, newTenant("acme"))
				gomega.Expect(err).To(gomega.MatchError(usecases.ErrDuplicateIdentifier))
			})
		})
	})

	ginkgo.Context("lookups", func() {
		var tenant domain.Tenant

		ginkgo.BeforeEach(func() {
			tenant = newTenant("acme-corp")
			gomega.Expect(repo.Create(ctx, tenant)).To(gomega.Succeed())
		})

		ginkgo.It("finds by identifier", func() {
			found, err := repo.GetByIdentifier(ctx, "acme-corp")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(found.ID).To(gomega.Equal(tenant.ID))
		})

		ginkgo.It("finds by realm", func() {
			found, err := repo.GetByRealm(ctx, "acme-corp")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(found.ID).To(gomega.Equal(tenant.ID))
		})

		ginkgo.It("finds by schema", func() {
			found, err := repo.GetBySchema(ctx, "acme_corp")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(found.ID).To(gomega.Equal(tenant.ID))
		})

		ginkgo.It("reports existence by identifier", func() {
			exists, err := repo.ExistsByIdentifier(ctx, "acme-corp")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(exists).To(gomega.BeTrue())

			exists, err = repo.ExistsByIdentifier(ctx, "unknown")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(exists).To(gomega.BeFalse())
		})

		ginkgo.When("the tenant does not exist", func() {
			ginkgo.It("returns ErrTenantNotFound", func() {
				_, err := repo.GetByID(ctx, domain.ID("missing"))
				gomega.Expect(err).To(gomega.MatchError(usecases.ErrTenantNotFound))

				_, err = repo.GetByIdentifier(ctx, "missing")
				gomega.Expect(err).To(gomega.MatchError(usecases.ErrTenantNotFound))
			})
		})
	})

	ginkgo.Context("Update", func() {
		ginkgo.It("persists status transitions", func() {
			tenant := newTenant("acme")
			gomega.Expect(repo.Create(ctx, tenant)).To(gomega.Succeed())

			tenant.MarkProvisioned()
			gomega.Expect(repo.Update(ctx, tenant)).To(gomega.Succeed())

			found, err := repo.GetByID(ctx, tenant.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(found.Status).To(gomega.Equal(domain.StatusProvisioned))
			gomega.Expect(found.Version).To(gomega.Equal(tenant.Version))
		})
	})

	ginkgo.Context("Delete", func() {
		ginkgo.It("removes the row and frees the identifier", func() {
			tenant := newTenant("acme")
			gomega.Expect(repo.Create(ctx, tenant)).To(gomega.Succeed())
			gomega.Expect(repo.Delete(ctx, tenant.ID)).To(gomega.Succeed())

			_, err := repo.GetByID(ctx, tenant.ID)
			gomega.Expect(err).To(gomega.MatchError(usecases.ErrTenantNotFound))

			gomega.Expect(repo.Create(ctx, newTenant("acme"))).To(gomega.Succeed())
		})
	})

	ginkgo.Context("FindAll", func() {
		ginkgo.BeforeEach(func() {
			for _, identifier := range []string{"alpha", "beta", "gamma"} {
				gomega.Expect(repo.Create(ctx, newTenant(identifier))).To(gomega.Succeed())
			}
		})

		ginkgo.It("returns all tenants with the total", func() {
			tenants, total, err := repo.FindAll(ctx, usecases.TenantFilter{})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(total).To(gomega.Equal(3))
			gomega.Expect(tenants).To(gomega.HaveLen(3))
		})

		ginkgo.It("paginates while keeping the total", func() {
			tenants, total, err := repo.FindAll(ctx, usecases.TenantFilter{
				Pagination: usecases.Pagination{Limit: 2, Offset: 2},
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(total).To(gomega.Equal(3))
			gomega.Expect(tenants).To(gomega.HaveLen(1))
		})

		ginkgo.It("applies a status filter to the page and the total", func() {
			broken := newTenant("broken")
			broken.MarkDegraded()
			gomega.Expect(repo.Create(ctx, broken)).To(gomega.Succeed())

			degraded, total, err := repo.FindAll(ctx, usecases.TenantFilter{
				Status:     domain.StatusDegraded,
				Pagination: usecases.Pagination{Limit: 10},
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(total).To(gomega.Equal(1))
			gomega.Expect(degraded).To(gomega.HaveLen(1))
			gomega.Expect(degraded[0].Identifier).To(gomega.Equal("broken"))

			pending, total, err := repo.FindAll(ctx, usecases.TenantFilter{
				Status:     domain.StatusPending,
				Pagination: usecases.Pagination{Limit: 2},
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(total).To(gomega.Equal(3))
			gomega.Expect(pending).To(gomega.HaveLen(2))
		})
	})

	ginkgo.Context("FindByStatus", func() {
		ginkgo.It("filters by provisioning status", func() {
			healthy := newTenant("healthy")
			healthy.MarkProvisioned()
			gomega.Expect(repo.Create(ctx, healthy)).To(gomega.Succeed())

			broken := newTenant("broken")
			broken.MarkDegraded()
			gomega.Expect(repo.Create(ctx, broken)).To(gomega.Succeed())

			degraded, err := repo.FindByStatus(ctx, domain.StatusDegraded)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(degraded).To(gomega.HaveLen(1))
			gomega.Expect(degraded[0].Identifier).To(gomega.Equal("broken"))
		})
	})
})
