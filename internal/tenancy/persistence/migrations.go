package persistence

// Tenant schema migrations. Statements reference the target schema through
// the %[1]s placeholder so they can run against any tenant without relying
// on a session search_path. Versions are applied in order, at most once per
// schema, and must never be renumbered once released.
type migration struct {
	version     int
	description string
	statements  []string
}

var tenantMigrations = []migration{
	{
		version:     1,
		description: "create products table",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS %[1]s.products (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				price NUMERIC(19,2) NOT NULL,
				category TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
		},
	},
	{
		version:     2,
		description: "index products by category",
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_products_category ON %[1]s.products (category)`,
		},
	},
	{
		version:     3,
		description: "track product updates",
		statements: []string{
			`ALTER TABLE %[1]s.products ADD COLUMN IF NOT EXISTS updated_at TIMESTAMPTZ`,
		},
	},
}
