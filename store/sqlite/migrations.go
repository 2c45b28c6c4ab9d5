package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Larder store (SQLite).
var Migrations = migrate.NewGroup("larder")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_larder_ingredients",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS larder_ingredients (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL DEFAULT '',
    category           TEXT NOT NULL DEFAULT 'other',
    unit               TEXT NOT NULL DEFAULT 'each',
    stock              REAL NOT NULL DEFAULT 0,
    reorder_point      REAL NOT NULL DEFAULT 0,
    par_level          REAL NOT NULL DEFAULT 0,
    unit_cost_amount   INTEGER NOT NULL DEFAULT 0,
    unit_cost_currency TEXT NOT NULL DEFAULT '',
    supplier_id        TEXT NOT NULL DEFAULT '',
    location_id        TEXT NOT NULL DEFAULT '',
    metadata           TEXT NOT NULL DEFAULT '{}',
    created_at         TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at         TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_larder_ingredients_location ON larder_ingredients (location_id);
CREATE INDEX IF NOT EXISTS idx_larder_ingredients_category ON larder_ingredients (location_id, category);
CREATE INDEX IF NOT EXISTS idx_larder_ingredients_supplier ON larder_ingredients (supplier_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS larder_ingredients`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_larder_recipes",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS larder_recipes (
    id                  TEXT PRIMARY KEY,
    name                TEXT NOT NULL DEFAULT '',
    category            TEXT NOT NULL DEFAULT '',
    status              TEXT NOT NULL DEFAULT 'draft',
    yield_qty           REAL NOT NULL DEFAULT 1,
    yield_unit          TEXT NOT NULL DEFAULT 'each',
    lines               TEXT NOT NULL DEFAULT '[]',
    menu_price_amount   INTEGER NOT NULL DEFAULT 0,
    menu_price_currency TEXT NOT NULL DEFAULT '',
    steps               TEXT NOT NULL DEFAULT '[]',
    location_id         TEXT NOT NULL DEFAULT '',
    metadata            TEXT NOT NULL DEFAULT '{}',
    created_at          TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at          TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_larder_recipes_location ON larder_recipes (location_id);
CREATE INDEX IF NOT EXISTS idx_larder_recipes_status ON larder_recipes (location_id, status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS larder_recipes`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_larder_sale_events",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS larder_sale_events (
    id              TEXT PRIMARY KEY,
    location_id     TEXT NOT NULL DEFAULT '',
    items           TEXT NOT NULL DEFAULT '[]',
    source          TEXT NOT NULL DEFAULT '',
    idempotency_key TEXT NOT NULL DEFAULT '',
    timestamp       TEXT NOT NULL DEFAULT (datetime('now')),
    metadata        TEXT NOT NULL DEFAULT '{}',
    created_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_larder_sales_location_ts ON larder_sale_events (location_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_larder_sales_timestamp ON larder_sale_events (timestamp);
CREATE UNIQUE INDEX IF NOT EXISTS idx_larder_sales_idempotency ON larder_sale_events (idempotency_key) WHERE idempotency_key != '';
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS larder_sale_events`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_larder_journal",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS larder_journal (
    id             TEXT PRIMARY KEY,
    ingredient_id  TEXT NOT NULL DEFAULT '',
    kind           TEXT NOT NULL DEFAULT '',
    delta          REAL NOT NULL DEFAULT 0,
    previous_stock REAL NOT NULL DEFAULT 0,
    new_stock      REAL NOT NULL DEFAULT 0,
    clamped        INTEGER NOT NULL DEFAULT 0,
    source         TEXT NOT NULL DEFAULT '',
    actor_id       TEXT NOT NULL DEFAULT '',
    timestamp      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_larder_journal_ingredient_ts ON larder_journal (ingredient_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_larder_journal_kind ON larder_journal (ingredient_id, kind, timestamp);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS larder_journal`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_larder_status_cache",
			Version: "20240101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS larder_status_cache (
    ingredient_id   TEXT PRIMARY KEY,
    name            TEXT NOT NULL DEFAULT '',
    low             INTEGER NOT NULL DEFAULT 0,
    stock           REAL NOT NULL DEFAULT 0,
    reorder_point   REAL NOT NULL DEFAULT 0,
    par_level       REAL NOT NULL DEFAULT 0,
    suggested_order REAL NOT NULL DEFAULT 0,
    reason          TEXT NOT NULL DEFAULT '',
    expires_at      TEXT NOT NULL,
    created_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_larder_status_cache_expires ON larder_status_cache (expires_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS larder_status_cache`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_larder_purchase_orders",
			Version: "20240101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS larder_purchase_orders (
    id             TEXT PRIMARY KEY,
    supplier_id    TEXT NOT NULL DEFAULT '',
    location_id    TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL DEFAULT 'draft',
    currency       TEXT NOT NULL DEFAULT '',
    total_amount   INTEGER NOT NULL DEFAULT 0,
    total_currency TEXT NOT NULL DEFAULT '',
    lines          TEXT NOT NULL DEFAULT '[]',
    submitted_at   TEXT,
    received_at    TEXT,
    canceled_at    TEXT,
    cancel_reason  TEXT NOT NULL DEFAULT '',
    notes          TEXT NOT NULL DEFAULT '',
    metadata       TEXT NOT NULL DEFAULT '{}',
    created_at     TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at     TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_larder_orders_location ON larder_purchase_orders (location_id);
CREATE INDEX IF NOT EXISTS idx_larder_orders_status ON larder_purchase_orders (location_id, status);
CREATE INDEX IF NOT EXISTS idx_larder_orders_supplier ON larder_purchase_orders (supplier_id, status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS larder_purchase_orders`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_larder_suppliers",
			Version: "20240101000007",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS larder_suppliers (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL DEFAULT '',
    contact_name       TEXT NOT NULL DEFAULT '',
    email              TEXT NOT NULL DEFAULT '',
    phone              TEXT NOT NULL DEFAULT '',
    lead_time_days     INTEGER NOT NULL DEFAULT 0,
    min_order_amount   INTEGER NOT NULL DEFAULT 0,
    min_order_currency TEXT NOT NULL DEFAULT '',
    currency           TEXT NOT NULL DEFAULT '',
    location_id        TEXT NOT NULL DEFAULT '',
    active             INTEGER NOT NULL DEFAULT 1,
    metadata           TEXT NOT NULL DEFAULT '{}',
    created_at         TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at         TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_larder_suppliers_location ON larder_suppliers (location_id);
CREATE INDEX IF NOT EXISTS idx_larder_suppliers_active ON larder_suppliers (location_id, active);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS larder_suppliers`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_larder_onboarding",
			Version: "20240101000008",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS larder_onboarding (
    id           TEXT PRIMARY KEY,
    location_id  TEXT NOT NULL DEFAULT '',
    current_step TEXT NOT NULL DEFAULT 'profile',
    done         TEXT NOT NULL DEFAULT '[]',
    completed_at TEXT,
    metadata     TEXT NOT NULL DEFAULT '{}',
    created_at   TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at   TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_larder_onboarding_location ON larder_onboarding (location_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS larder_onboarding`)
				return err
			},
		},
	)
}
