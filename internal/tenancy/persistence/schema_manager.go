package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"tenant-registry-server/internal/infra/sql"
	"tenant-registry-server/internal/tenancy/usecases"
)

// Schema names come from validated tenant identifiers, but they get
// interpolated into DDL, so reject anything outside the derived alphabet.
var schemaNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

func NewSchemaManager(db sql.Database) *SchemaManager {
	return &SchemaManager{db: db}
}

var _ usecases.SchemaProvisioner = (*SchemaManager)(nil)

// SchemaManager owns per-tenant schemas and their migration ledger. Each
// schema carries its own schema_migrations table so migration state travels
// with the schema through drops and re-creates.
type SchemaManager struct {
	db sql.Database
}

func (m *SchemaManager) CreateAndMigrate(ctx context.Context, schemaName string) error {
	if !schemaNamePattern.MatchString(schemaName) {
		return fmt.Errorf("invalid schema name: %q", schemaName)
	}

	err := m.db.Command(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName))
	if err != nil {
		return fmt.Errorf("creating schema %s: %w", schemaName, err)
	}

	err = m.db.Command(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, schemaName))
	if err != nil {
		return fmt.Errorf("creating migration ledger for schema %s: %w", schemaName, err)
	}

	applied, err := m.appliedVersions(ctx, schemaName)
	if err != nil {
		return fmt.Errorf("reading migration ledger for schema %s: %w", schemaName, err)
	}

	for _, mig := range tenantMigrations {
		if applied[mig.version] {
			continue
		}

		for _, statement := range mig.statements {
			if err := m.db.Command(ctx, fmt.Sprintf(statement, schemaName)); err != nil {
				return fmt.Errorf("applying migration %d to schema %s: %w", mig.version, schemaName, err)
			}
		}

		err = m.db.Command(ctx, fmt.Sprintf(
			"INSERT INTO %s.schema_migrations (version, description) VALUES ($1, $2)",
			schemaName), mig.version, mig.description)
		if err != nil {
			return fmt.Errorf("recording migration %d for schema %s: %w", mig.version, schemaName, err)
		}

		slog.Info("migration applied",
			slog.String("schema", schemaName),
			slog.Int("version", mig.version),
			slog.String("description", mig.description))
	}

	return nil
}

func (m *SchemaManager) appliedVersions(ctx context.Context, schemaName string) (map[int]bool, error) {
	rows, err := m.db.Query(ctx, fmt.Sprintf("SELECT version::text FROM %s.schema_migrations", schemaName))
	if err != nil {
		return nil, err
	}

	applied := make(map[int]bool, len(rows))
	for _, raw := range rows {
		version, err := strconv.Atoi(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parsing ledger version %q: %w", raw, err)
		}
		applied[version] = true
	}
	return applied, nil
}

func (m *SchemaManager) DropSchema(ctx context.Context, schemaName string) error {
	if !schemaNamePattern.MatchString(schemaName) {
		return fmt.Errorf("invalid schema name: %q", schemaName)
	}

	err := m.db.Command(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
	if err != nil {
		return fmt.Errorf("dropping schema %s: %w", schemaName, err)
	}

	return nil
}

func (m *SchemaManager) SchemaExists(ctx context.Context, schemaName string) (bool, error) {
	rows, err := m.db.Query(ctx, "SELECT nspname FROM pg_namespace WHERE nspname = $1", schemaName)
	if err != nil {
		return false, fmt.Errorf("checking schema %s: %w", schemaName, err)
	}

	return len(rows) > 0, nil
}
