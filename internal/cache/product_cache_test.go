package cache

import (
	"context"
	"testing"

	"github.com/stocklens/reorder/internal/config"
	"github.com/stocklens/reorder/internal/domain"
)

type stubRepository struct{}

func (stubRepository) ListProducts(context.Context) ([]domain.ProductRef, error) { return nil, nil }
func (stubRepository) GetProductDetails(context.Context, int64) (*domain.ProductDetails, error) {
	return nil, domain.ErrProductNotFound
}
func (stubRepository) GetShipmentHistory(context.Context, int64) ([]domain.ShipmentRecord, error) {
	return nil, nil
}
func (stubRepository) GetMonthlyDemand(context.Context, int64) ([]domain.MonthlyDemand, error) {
	return nil, nil
}

func TestNewCachedRepository_DisabledPassthrough(t *testing.T) {
	inner := stubRepository{}

	repo, err := NewCachedRepository(inner, config.CacheConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewCachedRepository failed: %v", err)
	}
	if _, ok := repo.(stubRepository); !ok {
		t.Errorf("disabled cache must return the inner repository untouched, got %T", repo)
	}
}

func TestBuildKey(t *testing.T) {
	if got := buildKey("details", 42); got != "rop:details:42" {
		t.Errorf("key = %q, want rop:details:42", got)
	}
}
