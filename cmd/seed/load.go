package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"

	"github.com/stocklens/reorder/internal/config"
	"github.com/stocklens/reorder/internal/repository/sqlite"
	"github.com/stocklens/reorder/internal/snapshot"
)

const pgSchema = `
DROP TABLE IF EXISTS order_details;
DROP TABLE IF EXISTS orders;
DROP TABLE IF EXISTS customers;
DROP TABLE IF EXISTS products;
DROP TABLE IF EXISTS suppliers;

CREATE TABLE suppliers (
	id BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	lead_time_days DOUBLE PRECISION NOT NULL
);

CREATE TABLE products (
	id BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	stock_quantity INTEGER NOT NULL,
	safety_stock_level INTEGER NOT NULL,
	unit_price NUMERIC(12,2) NOT NULL,
	supplier_id BIGINT NOT NULL REFERENCES suppliers(id)
);

CREATE TABLE customers (
	id BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	city TEXT,
	country TEXT
);

CREATE TABLE orders (
	id BIGINT PRIMARY KEY,
	customer_id BIGINT NOT NULL REFERENCES customers(id),
	order_date DATE NOT NULL,
	shipped_date DATE
);

CREATE TABLE order_details (
	order_id BIGINT NOT NULL REFERENCES orders(id),
	product_id BIGINT NOT NULL REFERENCES products(id),
	quantity INTEGER NOT NULL
);

CREATE INDEX idx_order_details_product ON order_details(product_id);
CREATE INDEX idx_orders_order_date ON orders(order_date);
`

// loadPostgres rebuilds the snapshot tables in one transaction: the snapshot
// is replaced wholesale, never patched.
func loadPostgres(c *cli.Context, snap *snapshot.Snapshot) error {
	dbURL := c.String("db-url")
	if dbURL == "" {
		return fmt.Errorf("--db-url (or DATABASE_URL) is required for the postgres driver")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	tx, err := db.BeginTx(c.Context, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(c.Context, pgSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if err := insertSnapshot(c.Context, tx, snap); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit snapshot load: %w", err)
	}

	log.Printf("loaded snapshot into postgres")
	return nil
}

func insertSnapshot(ctx context.Context, tx *sql.Tx, snap *snapshot.Snapshot) error {
	for _, s := range snap.Suppliers {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO suppliers (id, name, lead_time_days) VALUES ($1, $2, $3)",
			s.ID, s.Name, s.LeadTimeDays); err != nil {
			return fmt.Errorf("failed to insert supplier %d: %w", s.ID, err)
		}
	}

	for _, p := range snap.Products {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO products (id, name, stock_quantity, safety_stock_level, unit_price, supplier_id) VALUES ($1, $2, $3, $4, $5, $6)",
			p.ID, p.Name, p.StockQuantity, p.SafetyStockLevel, p.UnitPrice.String(), p.SupplierID); err != nil {
			return fmt.Errorf("failed to insert product %d: %w", p.ID, err)
		}
	}

	for _, cu := range snap.Customers {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO customers (id, name, city, country) VALUES ($1, $2, $3, $4)",
			cu.ID, cu.Name, cu.City, cu.Country); err != nil {
			return fmt.Errorf("failed to insert customer %d: %w", cu.ID, err)
		}
	}

	for _, o := range snap.Orders {
		var shipped any
		if o.ShippedDate != nil {
			shipped = *o.ShippedDate
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO orders (id, customer_id, order_date, shipped_date) VALUES ($1, $2, $3, $4)",
			o.ID, o.CustomerID, o.OrderDate, shipped); err != nil {
			return fmt.Errorf("failed to insert order %d: %w", o.ID, err)
		}
	}

	for _, od := range snap.OrderDetails {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_details (order_id, product_id, quantity) VALUES ($1, $2, $3)",
			od.OrderID, od.ProductID, od.Quantity); err != nil {
			return fmt.Errorf("failed to insert order detail %d/%d: %w", od.OrderID, od.ProductID, err)
		}
	}

	return nil
}

// loadSQLite replaces the sqlite database file and loads the snapshot into a
// fresh one.
func loadSQLite(c *cli.Context, cfg *config.Config, snap *snapshot.Snapshot) error {
	path := c.String("sqlite-path")
	if path == "" {
		path = cfg.Database.SQLitePath
	}

	if err := removeIfExists(path); err != nil {
		return err
	}

	db, err := sqlite.New(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.LoadSnapshot(c.Context, snap); err != nil {
		return err
	}

	log.Printf("loaded snapshot into %s", path)
	return nil
}
