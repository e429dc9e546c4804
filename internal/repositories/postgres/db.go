// Package postgres implements the repository interfaces on a pgx connection
// pool. The schema is created by an explicit, versioned step at connect
// time; runtime queries assume its shape.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tokodemo/storefront/internal/models"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		sku TEXT UNIQUE,
		name TEXT NOT NULL,
		category TEXT,
		description TEXT,
		image_path TEXT,
		created_at TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS product_variants (
		id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		variant_name TEXT NOT NULL,
		price BIGINT NOT NULL,
		stock INT NOT NULL DEFAULT 0,
		sold_count INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS stores (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT,
		phone TEXT,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		maps_url TEXT,
		created_at TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		reference TEXT UNIQUE,
		customer_name TEXT,
		customer_phone TEXT,
		total BIGINT NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		store_id BIGINT REFERENCES stores(id),
		delivery_address TEXT,
		created_at TIMESTAMPTZ DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id),
		product_id BIGINT NOT NULL REFERENCES products(id),
		variant_id BIGINT REFERENCES product_variants(id),
		qty INT NOT NULL,
		price BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS daily_menus (
		id BIGSERIAL PRIMARY KEY,
		menu_date TEXT UNIQUE NOT NULL,
		items_json JSONB NOT NULL,
		generated_by TEXT,
		created_at TIMESTAMPTZ DEFAULT now()
	)`,
}

// Connect opens a pgx pool against the configured database and runs the
// schema step.
func Connect(ctx context.Context, cfg models.DatabaseConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return pool, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
