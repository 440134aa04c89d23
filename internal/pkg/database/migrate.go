package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Migrate applies the idempotent schema. Statements only create what is
// missing, so running it on every startup is safe.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id          TEXT PRIMARY KEY,
			owner_id    TEXT NOT NULL,
			name        TEXT NOT NULL,
			sku         TEXT NOT NULL,
			category    TEXT NOT NULL DEFAULT '',
			quantity    INTEGER NOT NULL DEFAULT 0,
			min_stock   INTEGER,
			price       DOUBLE PRECISION NOT NULL DEFAULT 0,
			location    TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'Unknown',
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_owner_sku ON products (owner_id, sku)`,
		`CREATE INDEX IF NOT EXISTS idx_products_owner ON products (owner_id)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id                     TEXT PRIMARY KEY,
			owner_id               TEXT NOT NULL,
			total_amount           DOUBLE PRECISION NOT NULL DEFAULT 0,
			status                 TEXT NOT NULL,
			delivery_date_expected TIMESTAMPTZ,
			delivery_date_actual   TIMESTAMPTZ,
			delivery_status        TEXT NOT NULL,
			notes                  TEXT NOT NULL DEFAULT '',
			created_at             TIMESTAMPTZ NOT NULL,
			updated_at             TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_owner ON orders (owner_id)`,

		`CREATE TABLE IF NOT EXISTS order_items (
			id            TEXT PRIMARY KEY,
			order_id      TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id    TEXT NOT NULL,
			product_name  TEXT NOT NULL,
			sku           TEXT NOT NULL,
			category      TEXT NOT NULL DEFAULT '',
			quantity      INTEGER NOT NULL CHECK (quantity >= 1),
			price_at_sale DOUBLE PRECISION NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`,

		`CREATE TABLE IF NOT EXISTS merchandise_inflows (
			id               TEXT PRIMARY KEY,
			owner_id         TEXT NOT NULL,
			reference_number TEXT NOT NULL,
			supplier         TEXT NOT NULL,
			inflow_date      TIMESTAMPTZ NOT NULL,
			notes            TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_inflows_owner_reference ON merchandise_inflows (owner_id, reference_number)`,

		`CREATE TABLE IF NOT EXISTS merchandise_inflow_items (
			id                TEXT PRIMARY KEY,
			inflow_id         TEXT NOT NULL REFERENCES merchandise_inflows(id) ON DELETE CASCADE,
			product_id        TEXT NOT NULL,
			quantity_received INTEGER NOT NULL CHECK (quantity_received >= 1),
			unit_cost         DOUBLE PRECISION,
			lot_number        TEXT,
			expiration_date   TIMESTAMPTZ,
			created_at        TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_inflow_items_inflow ON merchandise_inflow_items (inflow_id)`,

		`CREATE TABLE IF NOT EXISTS stock_movements (
			id              TEXT PRIMARY KEY,
			owner_id        TEXT NOT NULL,
			product_id      TEXT NOT NULL,
			movement_type   TEXT NOT NULL,
			quantity_change INTEGER NOT NULL,
			quantity_before INTEGER NOT NULL,
			quantity_after  INTEGER NOT NULL,
			reference_type  TEXT,
			reference_id    TEXT,
			notes           TEXT NOT NULL DEFAULT '',
			created_at      TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_movements_owner_product ON stock_movements (owner_id, product_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
