// Package repository defines the read contracts over the historical snapshot.
// The snapshot is static for the lifetime of a process: every operation is a
// plain read, and implementations never mutate it.
package repository

import (
	"context"

	"github.com/stocklens/reorder/internal/domain"
)

type ProductRepository interface {
	// ListProducts returns the picker rows, ordered by product name.
	ListProducts(ctx context.Context) ([]domain.ProductRef, error)

	// GetProductDetails returns the product joined with its supplier, or
	// domain.ErrProductNotFound when the id is unknown.
	GetProductDetails(ctx context.Context, productID int64) (*domain.ProductDetails, error)

	// GetShipmentHistory returns every order linked to the product, oldest
	// first. Rows without a shipped date are included; lead-time statistics
	// must filter them out.
	GetShipmentHistory(ctx context.Context, productID int64) ([]domain.ShipmentRecord, error)

	// GetMonthlyDemand returns per-month order-quantity totals, calendar
	// month ascending. Months without orders have no row.
	GetMonthlyDemand(ctx context.Context, productID int64) ([]domain.MonthlyDemand, error)
}
