package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and applies the
// idempotent schema patches. Schema is managed via explicit SQL rather than
// AutoMigrate: the import pipeline depends on exact unique indexes (its upsert
// conflict targets) and those must not drift with model tags.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Map driver unique-violation errors to gorm.ErrDuplicatedKey so the
		// service layer can match them without importing pgconn.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL. Every statement uses IF NOT EXISTS
// semantics so re-running on an already-patched DB is a no-op. The unique
// indexes here are load-bearing: they are the ON CONFLICT targets of the bulk
// import upserts.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"pgcrypto for gen_random_uuid", `CREATE EXTENSION IF NOT EXISTS pgcrypto`},

		{"products table", `
CREATE TABLE IF NOT EXISTS products (
    id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    product_no      TEXT NOT NULL,
    product_no_norm TEXT NOT NULL,
    name            TEXT,
    list_price      DECIMAL(12,2),
    active          BOOLEAN NOT NULL DEFAULT TRUE,
    thumbnail_path  TEXT,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
		{"products norm unique index", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_product_no_norm ON products (product_no_norm)`},

		{"product_files table", `
CREATE TABLE IF NOT EXISTS product_files (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    product_id UUID NOT NULL REFERENCES products(id),
    path       TEXT NOT NULL,
    file_type  TEXT NOT NULL,
    title      TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
		{"product_files unique index", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_product_file_path ON product_files (product_id, path)`},

		{"product_images table", `
CREATE TABLE IF NOT EXISTS product_images (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    product_id   UUID NOT NULL REFERENCES products(id),
    storage_path TEXT NOT NULL,
    bucket       TEXT NOT NULL,
    caption      TEXT,
    sort_order   INT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
		{"product_images unique index", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_product_image_path ON product_images (product_id, storage_path)`},

		{"product_relations table", `
CREATE TABLE IF NOT EXISTS product_relations (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    product_id UUID NOT NULL REFERENCES products(id),
    related_id UUID NOT NULL REFERENCES products(id),
    kind       TEXT NOT NULL,
    sort_order INT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
		{"product_relations unique index", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_product_relation ON product_relations (product_id, related_id, kind)`},

		{"allowed_emails table", `
CREATE TABLE IF NOT EXISTS allowed_emails (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email      TEXT NOT NULL,
    role       TEXT NOT NULL DEFAULT 'staff',
    active     BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
		{"allowed_emails unique index", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_allowed_emails_email ON allowed_emails (email)`},

		{"order number sequence", `CREATE SEQUENCE IF NOT EXISTS order_no_seq START 1000`},

		{"orders table", `
CREATE TABLE IF NOT EXISTS orders (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    order_no   BIGINT NOT NULL UNIQUE,
    email      TEXT NOT NULL,
    note       TEXT,
    status     TEXT NOT NULL DEFAULT 'submitted',
    total      DECIMAL(12,2) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
		{"orders email index", `CREATE INDEX IF NOT EXISTS idx_orders_email ON orders (email)`},

		{"order_items table", `
CREATE TABLE IF NOT EXISTS order_items (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    order_id   UUID NOT NULL REFERENCES orders(id),
    product_id UUID NOT NULL REFERENCES products(id),
    quantity   INT NOT NULL,
    unit_price DECIMAL(12,2) NOT NULL,
    subtotal   DECIMAL(12,2) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`},
		{"order_items order index", `
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
