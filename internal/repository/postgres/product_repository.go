package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stocklens/reorder/internal/domain"
	"github.com/stocklens/reorder/internal/repository"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) ListProducts(ctx context.Context) ([]domain.ProductRef, error) {
	var products []domain.ProductRef
	err := r.db.withQuerySlot(ctx, func(ctx context.Context) error {
		return r.db.SelectContext(ctx, &products, `
			SELECT id, name
			FROM products
			ORDER BY name
		`)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productRepository) GetProductDetails(ctx context.Context, productID int64) (*domain.ProductDetails, error) {
	var details domain.ProductDetails
	err := r.db.withQuerySlot(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &details, `
			SELECT
				p.id,
				p.name,
				p.stock_quantity,
				p.safety_stock_level,
				p.unit_price,
				p.supplier_id,
				s.name AS supplier_name,
				s.lead_time_days
			FROM products p
			JOIN suppliers s ON p.supplier_id = s.id
			WHERE p.id = $1
		`, productID)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product details: %w", err)
	}
	return &details, nil
}

func (r *productRepository) GetShipmentHistory(ctx context.Context, productID int64) ([]domain.ShipmentRecord, error) {
	var records []domain.ShipmentRecord
	err := r.db.withQuerySlot(ctx, func(ctx context.Context) error {
		return r.db.SelectContext(ctx, &records, `
			SELECT o.order_date, o.shipped_date
			FROM orders o
			WHERE o.id IN (
				SELECT od.order_id FROM order_details od WHERE od.product_id = $1
			)
			ORDER BY o.order_date
		`, productID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment history: %w", err)
	}
	return records, nil
}

func (r *productRepository) GetMonthlyDemand(ctx context.Context, productID int64) ([]domain.MonthlyDemand, error) {
	var rows []domain.MonthlyDemand
	err := r.db.withQuerySlot(ctx, func(ctx context.Context) error {
		return r.db.SelectContext(ctx, &rows, `
			SELECT
				to_char(o.order_date, 'YYYY-MM') AS month,
				SUM(od.quantity)::int AS total_quantity
			FROM order_details od
			JOIN orders o ON od.order_id = o.id
			WHERE od.product_id = $1
			GROUP BY 1
			ORDER BY 1
		`, productID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly demand: %w", err)
	}
	return rows, nil
}
