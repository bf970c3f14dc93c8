package persistence_test

import (
	"context"
	"fmt"
	"strings"

	"tenant-registry-server/internal/tenancy/persistence"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// fakeDatabase records every statement and mimics the migration ledger so
// re-runs observe previously applied versions.
type fakeDatabase struct {
	commands []string
	schemas  map[string]bool
	ledgers  map[string][]string

	failOn string
}

func newFakeDatabase() *fakeDatabase {
	return &fakeDatabase{
		schemas: make(map[string]bool),
		ledgers: make(map[string][]string),
	}
}

func (f *fakeDatabase) Open() error { return nil }
func (f *fakeDatabase) Close()      {}

func (f *fakeDatabase) Command(_ context.Context, sql string, args ...any) error {
	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		return fmt.Errorf("forced failure on %q", f.failOn)
	}
	f.commands = append(f.commands, sql)

	switch {
	case strings.HasPrefix(sql, "CREATE SCHEMA IF NOT EXISTS "):
		name := strings.TrimPrefix(sql, "CREATE SCHEMA IF NOT EXISTS ")
		f.schemas[name] = true
	case strings.HasPrefix(sql, "DROP SCHEMA IF EXISTS "):
		name := strings.TrimSuffix(strings.TrimPrefix(sql, "DROP SCHEMA IF EXISTS "), " CASCADE")
		delete(f.schemas, name)
		delete(f.ledgers, name)
	case strings.Contains(sql, ".schema_migrations (version, description) VALUES"):
		schema := sql[strings.Index(sql, "INTO ")+len("INTO ") : strings.Index(sql, ".schema_migrations")]
		f.ledgers[schema] = append(f.ledgers[schema], fmt.Sprintf("%v", args[0]))
	}
	return nil
}

func (f *fakeDatabase) Query(_ context.Context, sql string, args ...any) ([][]byte, error) {
	if strings.Contains(sql, "pg_namespace") {
		name := args[0].(string)
		if f.schemas[name] {
			return [][]byte{[]byte(name)}, nil
		}
		return nil, nil
	}
	if strings.Contains(sql, ".schema_migrations") {
		schema := sql[strings.Index(sql, "FROM ")+len("FROM ") : strings.Index(sql, ".schema_migrations")]
		var rows [][]byte
		for _, version := range f.ledgers[schema] {
			rows = append(rows, []byte(version))
		}
		return rows, nil
	}
	return nil, nil
}

func (f *fakeDatabase) commandsContaining(fragment string) []string {
	var matches []string
	for _, command := range f.commands {
		if strings.Contains(command, fragment) {
			matches = append(matches, command)
		}
	}
	return matches
}

var _ = ginkgo.Describe("SchemaManager", func() {
	var (
		db      *fakeDatabase
		manager *persistence.SchemaManager
		ctx     context.Context
	)

	ginkgo.BeforeEach(func() {
		db = newFakeDatabase()
		manager = persistence.NewSchemaManager(db)
		ctx = context.Background()
	})

	ginkgo.Context("CreateAndMigrate", func() {
		ginkgo.It("creates the schema, the ledger, and applies all migrations", func() {
			err := manager.CreateAndMigrate(ctx, "acme_corp")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(db.commands[0]).To(gomega.Equal("CREATE SCHEMA IF NOT EXISTS acme_corp"))
			gomega.Expect(db.commandsContaining("CREATE TABLE IF NOT EXISTS acme_corp.schema_migrations")).To(gomega.HaveLen(1))
			gomega.Expect(db.commandsContaining("acme_corp.products")).NotTo(gomega.BeEmpty())
			gomega.Expect(db.ledgers["acme_corp"]).To(gomega.Equal([]string{"1", "2", "3"}))
		})

		ginkgo.It("records ledger rows through bind parameters", func() {
			gomega.Expect(manager.CreateAndMigrate(ctx, "acme_corp")).To(gomega.Succeed())

			inserts := db.commandsContaining(".schema_migrations (version, description)")
			gomega.Expect(inserts).To(gomega.HaveLen(3))
			for _, insert := range inserts {
				gomega.Expect(insert).To(gomega.ContainSubstring("VALUES ($1, $2)"))
			}
		})

		ginkgo.It("skips migrations already recorded in the ledger", func() {
			gomega.Expect(manager.CreateAndMigrate(ctx, "acme_corp")).To(gomega.Succeed())
			createStatements := len(db.commandsContaining("acme_corp.products"))

			gomega.Expect(manager.CreateAndMigrate(ctx, "acme_corp")).To(gomega.Succeed())
			gomega.Expect(db.commandsContaining("acme_corp.products")).To(gomega.HaveLen(createStatements))
			gomega.Expect(db.ledgers["acme_corp"]).To(gomega.Equal([]string{"1", "2", "3"}))
		})

		ginkgo.It("isolates ledgers per schema", func() {
			gomega.Expect(manager.CreateAndMigrate(ctx, "alpha")).To(gomega.Succeed())
			gomega.Expect(manager.CreateAndMigrate(ctx, "beta")).To(gomega.Succeed())

			gomega.Expect(db.ledgers["alpha"]).To(gomega.Equal([]string{"1", "2", "3"}))
			gomega.Expect(db.ledgers["beta"]).To(gomega.Equal([]string{"1", "2", "3"}))
		})

		ginkgo.It("rejects schema names outside the derived alphabet", func() {
			err := manager.CreateAndMigrate(ctx, "acme; DROP TABLE tenants")
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(db.commands).To(gomega.BeEmpty())
		})

		ginkgo.When("a migration fails", func() {
			ginkgo.It("stops and reports the failing version", func() {
				db.failOn = "idx_products_category"

				err := manager.CreateAndMigrate(ctx, "acme_corp")
				gomega.Expect(err).To(gomega.MatchError(gomega.ContainSubstring("applying migration 2")))

				// Only the first migration made it into the ledger.
				gomega.Expect(db.ledgers["acme_corp"]).To(gomega.Equal([]string{"1"}))
			})

			ginkgo.It("resumes from the failed version on retry", func() {
				db.failOn = "idx_products_category"
				gomega.Expect(manager.CreateAndMigrate(ctx, "acme_corp")).NotTo(gomega.Succeed())

				db.failOn = ""
				gomega.Expect(manager.CreateAndMigrate(ctx, "acme_corp")).To(gomega.Succeed())
				gomega.Expect(db.ledgers["acme_corp"]).To(gomega.Equal([]string{"1", "2", "3"}))
			})
		})
	})

	ginkgo.Context("DropSchema", func() {
		ginkgo.It("drops with cascade and is idempotent", func() {
			gomega.Expect(manager.CreateAndMigrate(ctx, "acme_corp")).To(gomega.Succeed())
			gomega.Expect(manager.DropSchema(ctx, "acme_corp")).To(gomega.Succeed())

			exists, err := manager.SchemaExists(ctx, "acme_corp")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(exists).To(gomega.BeFalse())

			gomega.Expect(manager.DropSchema(ctx, "acme_corp")).To(gomega.Succeed())
			gomega.Expect(db.commandsContaining("DROP SCHEMA IF EXISTS acme_corp CASCADE")).To(gomega.HaveLen(2))
		})
	})

	ginkgo.Context("SchemaExists", func() {
		ginkgo.It("reflects schema presence", func() {
			exists, err := manager.SchemaExists(ctx, "acme_corp")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(exists).To(gomega.BeFalse())

			gomega.Expect(manager.CreateAndMigrate(ctx, "acme_corp")).To(gomega.Succeed())

			exists, err = manager.SchemaExists(ctx, "acme_corp")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(exists).To(gomega.BeTrue())
		})
	})
})
