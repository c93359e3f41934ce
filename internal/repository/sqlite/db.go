// Package sqlite backs the snapshot store with a single local database file,
// bootstrapped from the CSV snapshot on first start. It serves the same read
// contracts as the postgres implementation without needing a server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/stocklens/reorder/internal/snapshot"
)

type DB struct {
	*sql.DB
	path string
}

// New opens (or creates) the database file.
func New(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// The snapshot is read-mostly; a single writer only exists during
	// bootstrap.
	for _, pragma := range []string{"PRAGMA journal_mode = WAL", "PRAGMA foreign_keys = ON"} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to configure database: %w", err)
		}
	}

	return &DB{DB: sqlDB, path: path}, nil
}

const schema = `
CREATE TABLE suppliers (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	lead_time_days REAL NOT NULL
);

CREATE TABLE products (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	stock_quantity INTEGER NOT NULL,
	safety_stock_level INTEGER NOT NULL,
	unit_price TEXT NOT NULL,
	supplier_id INTEGER NOT NULL REFERENCES suppliers(id)
);

CREATE TABLE customers (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	city TEXT,
	country TEXT
);

CREATE TABLE orders (
	id INTEGER PRIMARY KEY,
	customer_id INTEGER NOT NULL REFERENCES customers(id),
	order_date TEXT NOT NULL,
	shipped_date TEXT
);

CREATE TABLE order_details (
	order_id INTEGER NOT NULL REFERENCES orders(id),
	product_id INTEGER NOT NULL REFERENCES products(id),
	quantity INTEGER NOT NULL
);

CREATE INDEX idx_order_details_product ON order_details(product_id);
CREATE INDEX idx_orders_order_date ON orders(order_date);
`

// Bootstrap creates the schema and loads the CSV snapshot, but only when the
// database file has no tables yet. Subsequent starts reuse the existing file.
func (db *DB) Bootstrap(ctx context.Context, snapshotDir string) error {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'products'").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to inspect database: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Info().Str("dir", snapshotDir).Msg("database empty, loading snapshot")

	snap, err := snapshot.Load(snapshotDir)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	return db.LoadSnapshot(ctx, snap)
}

// LoadSnapshot creates the schema and inserts every snapshot row in one
// transaction.
func (db *DB) LoadSnapshot(ctx context.Context, snap *snapshot.Snapshot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	for _, s := range snap.Suppliers {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO suppliers (id, name, lead_time_days) VALUES (?, ?, ?)",
			s.ID, s.Name, s.LeadTimeDays); err != nil {
			return fmt.Errorf("failed to insert supplier %d: %w", s.ID, err)
		}
	}

	for _, p := range snap.Products {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO products (id, name, stock_quantity, safety_stock_level, unit_price, supplier_id) VALUES (?, ?, ?, ?, ?, ?)",
			p.ID, p.Name, p.StockQuantity, p.SafetyStockLevel, p.UnitPrice.String(), p.SupplierID); err != nil {
			return fmt.Errorf("failed to insert product %d: %w", p.ID, err)
		}
	}

	for _, c := range snap.Customers {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO customers (id, name, city, country) VALUES (?, ?, ?, ?)",
			c.ID, c.Name, c.City, c.Country); err != nil {
			return fmt.Errorf("failed to insert customer %d: %w", c.ID, err)
		}
	}

	for _, o := range snap.Orders {
		var shipped any
		if o.ShippedDate != nil {
			shipped = o.ShippedDate.Format(dateLayout)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO orders (id, customer_id, order_date, shipped_date) VALUES (?, ?, ?, ?)",
			o.ID, o.CustomerID, o.OrderDate.Format(dateLayout), shipped); err != nil {
			return fmt.Errorf("failed to insert order %d: %w", o.ID, err)
		}
	}

	for _, od := range snap.OrderDetails {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_details (order_id, product_id, quantity) VALUES (?, ?, ?)",
			od.OrderID, od.ProductID, od.Quantity); err != nil {
			return fmt.Errorf("failed to insert order detail %d/%d: %w", od.OrderID, od.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit snapshot load: %w", err)
	}

	log.Info().
		Int("products", len(snap.Products)).
		Int("orders", len(snap.Orders)).
		Msg("snapshot loaded")
	return nil
}
