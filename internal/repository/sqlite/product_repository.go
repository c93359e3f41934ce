package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stocklens/reorder/internal/domain"
	"github.com/stocklens/reorder/internal/repository"
)

const dateLayout = "2006-01-02"

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) ListProducts(ctx context.Context) ([]domain.ProductRef, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM products ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []domain.ProductRef
	for rows.Next() {
		var p domain.ProductRef
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepository) GetProductDetails(ctx context.Context, productID int64) (*domain.ProductDetails, error) {
	var (
		details  domain.ProductDetails
		priceRaw string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT
			p.id, p.name, p.stock_quantity, p.safety_stock_level, p.unit_price, p.supplier_id,
			s.name, s.lead_time_days
		FROM products p
		JOIN suppliers s ON p.supplier_id = s.id
		WHERE p.id = ?
	`, productID).Scan(
		&details.ID, &details.Name, &details.StockOnHand, &details.ConfiguredSafetyStock,
		&priceRaw, &details.SupplierID, &details.SupplierName, &details.ContractedLeadTimeDays,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product details: %w", err)
	}

	price, err := decimal.NewFromString(priceRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid unit price %q for product %d: %w", priceRaw, productID, err)
	}
	details.UnitPrice = price

	return &details, nil
}

func (r *productRepository) GetShipmentHistory(ctx context.Context, productID int64) ([]domain.ShipmentRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.order_date, o.shipped_date
		FROM orders o
		WHERE o.id IN (
			SELECT od.order_id FROM order_details od WHERE od.product_id = ?
		)
		ORDER BY o.order_date
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment history: %w", err)
	}
	defer rows.Close()

	var records []domain.ShipmentRecord
	for rows.Next() {
		var (
			orderRaw   string
			shippedRaw sql.NullString
		)
		if err := rows.Scan(&orderRaw, &shippedRaw); err != nil {
			return nil, fmt.Errorf("failed to scan shipment row: %w", err)
		}

		orderDate, err := time.Parse(dateLayout, orderRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid order date %q: %w", orderRaw, err)
		}

		record := domain.ShipmentRecord{OrderDate: orderDate}
		if shippedRaw.Valid && shippedRaw.String != "" {
			shipped, err := time.Parse(dateLayout, shippedRaw.String)
			if err != nil {
				return nil, fmt.Errorf("invalid shipped date %q: %w", shippedRaw.String, err)
			}
			record.ShippedDate = &shipped
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *productRepository) GetMonthlyDemand(ctx context.Context, productID int64) ([]domain.MonthlyDemand, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			strftime('%Y-%m', o.order_date) AS month,
			CAST(SUM(od.quantity) AS INTEGER) AS total_quantity
		FROM order_details od
		JOIN orders o ON od.order_id = o.id
		WHERE od.product_id = ?
		GROUP BY month
		ORDER BY month
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly demand: %w", err)
	}
	defer rows.Close()

	var demand []domain.MonthlyDemand
	for rows.Next() {
		var d domain.MonthlyDemand
		if err := rows.Scan(&d.Month, &d.TotalQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan demand row: %w", err)
		}
		demand = append(demand, d)
	}
	return demand, rows.Err()
}
