package db

import (
	"context"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id         BIGSERIAL PRIMARY KEY,
    username   TEXT NOT NULL UNIQUE,
    password   TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS clients (
    id         UUID PRIMARY KEY,
    given_name TEXT NOT NULL DEFAULT '',
    surname    TEXT NOT NULL DEFAULT '',
    phone      TEXT NOT NULL UNIQUE,
    instagram  TEXT NOT NULL DEFAULT '',
    email      TEXT NOT NULL DEFAULT '',
    notes      TEXT NOT NULL DEFAULT '',
    discount   INTEGER NOT NULL DEFAULT 0 CHECK (discount BETWEEN 0 AND 100),
    archived   BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS items (
    id          UUID PRIMARY KEY,
    title       TEXT NOT NULL UNIQUE,
    category    TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    image_url   TEXT NOT NULL DEFAULT '',
    status      TEXT NOT NULL DEFAULT 'in_stock' CHECK (status IN ('in_stock', 'out_of_stock')),
    tags        TEXT[] NOT NULL DEFAULT '{}',
    archived    BOOLEAN NOT NULL DEFAULT FALSE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS item_variants (
    id            UUID PRIMARY KEY,
    item_id       UUID NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    size          TEXT NOT NULL DEFAULT '',
    color         TEXT NOT NULL DEFAULT '',
    quantity      INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 0),
    status        TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'cleaning', 'repair', 'unavailable')),
    service_start DATE,
    service_end   DATE,
    archived      BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_item_variants_item ON item_variants(item_id);

CREATE TABLE IF NOT EXISTS variant_prices (
    id         UUID PRIMARY KEY,
    variant_id UUID NOT NULL REFERENCES item_variants(id) ON DELETE CASCADE,
    amount     INTEGER NOT NULL DEFAULT 0 CHECK (amount >= 0),
    deposit    INTEGER NOT NULL DEFAULT 0 CHECK (deposit >= 0),
    price_type TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS orders (
    id             BIGSERIAL PRIMARY KEY,
    client_id      UUID NOT NULL REFERENCES clients(id),
    status         TEXT NOT NULL DEFAULT 'booked'
                   CHECK (status IN ('booked', 'booked_paid', 'issued', 'returned', 'done', 'canceled')),
    start_time     DATE NOT NULL,
    end_time       DATE NOT NULL,
    discount       INTEGER NOT NULL DEFAULT 0 CHECK (discount BETWEEN 0 AND 100),
    price          INTEGER NOT NULL DEFAULT 0 CHECK (price >= 0),
    deposit_amount INTEGER NOT NULL DEFAULT 0 CHECK (deposit_amount >= 0),
    delivery_info  JSONB,
    notes          TEXT NOT NULL DEFAULT '',
    tags           TEXT[] NOT NULL DEFAULT '{}',
    created_by     TEXT NOT NULL DEFAULT '',
    archived       BOOLEAN NOT NULL DEFAULT FALSE,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    CHECK (start_time <= end_time)
);

CREATE INDEX IF NOT EXISTS idx_orders_client ON orders(client_id);
CREATE INDEX IF NOT EXISTS idx_orders_period ON orders(start_time, end_time);

CREATE TABLE IF NOT EXISTS order_lines (
    order_id   BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    variant_id UUID NOT NULL REFERENCES item_variants(id),
    quantity   INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
    price      INTEGER NOT NULL DEFAULT 0 CHECK (price >= 0),
    deposit    INTEGER NOT NULL DEFAULT 0 CHECK (deposit >= 0),
    PRIMARY KEY (order_id, variant_id)
);

CREATE INDEX IF NOT EXISTS idx_order_lines_variant ON order_lines(variant_id);

CREATE TABLE IF NOT EXISTS payments (
    id         UUID PRIMARY KEY,
    order_id   BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    amount     INTEGER NOT NULL CHECK (amount >= 0),
    method     TEXT NOT NULL CHECK (method IN ('cash', 'card', 'terminal')),
    entry_type TEXT NOT NULL CHECK (entry_type IN ('payment', 'deposit')),
    note       TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id);

CREATE TABLE IF NOT EXISTS outbox_tasks (
    id           UUID PRIMARY KEY,
    status       TEXT NOT NULL,
    payload      JSONB NOT NULL,
    topic        TEXT NOT NULL,
    attempts     INTEGER NOT NULL DEFAULT 0,
    last_error   TEXT,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    completed_at TIMESTAMPTZ
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
