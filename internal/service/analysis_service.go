package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/stocklens/reorder/internal/domain"
	"github.com/stocklens/reorder/internal/engine"
	"github.com/stocklens/reorder/internal/repository"
)

// AnalysisService runs the reorder-point analysis for one product at a time.
// It owns the precondition checks in front of the engine: the engine's math
// assumes non-empty inputs, and this layer turns empty history into an
// explicit InsufficientHistoryError instead of letting the math see it.
type AnalysisService struct {
	repo repository.ProductRepository
}

func NewAnalysisService(repo repository.ProductRepository) *AnalysisService {
	return &AnalysisService{repo: repo}
}

// ListProducts returns the picker rows.
func (s *AnalysisService) ListProducts(ctx context.Context) ([]domain.ProductRef, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, &domain.DataAccessError{Op: "list products", Err: err}
	}
	return products, nil
}

// MonthlyDemandHistory returns the per-month sales totals backing the history
// chart. Unknown ids fail the same way Analyze does.
func (s *AnalysisService) MonthlyDemandHistory(ctx context.Context, productID int64) ([]domain.MonthlyDemand, error) {
	if _, err := s.repo.GetProductDetails(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, &domain.DataAccessError{Op: "get product details", Err: err}
	}

	demand, err := s.repo.GetMonthlyDemand(ctx, productID)
	if err != nil {
		return nil, &domain.DataAccessError{Op: "get monthly demand", Err: err}
	}
	return demand, nil
}

// Analyze recomputes the full optimization result for the product. The result
// is derived on every call and never stored; two calls against the same
// snapshot return identical values.
func (s *AnalysisService) Analyze(ctx context.Context, productID int64) (*domain.OptimizationResult, error) {
	details, err := s.repo.GetProductDetails(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, &domain.DataAccessError{Op: "get product details", Err: err}
	}

	demand, err := s.repo.GetMonthlyDemand(ctx, productID)
	if err != nil {
		return nil, &domain.DataAccessError{Op: "get monthly demand", Err: err}
	}

	shipments, err := s.repo.GetShipmentHistory(ctx, productID)
	if err != nil {
		return nil, &domain.DataAccessError{Op: "get shipment history", Err: err}
	}

	rate, ok := engine.DailyDemandRate(demand)
	if !ok {
		return nil, &domain.InsufficientHistoryError{ProductID: productID, Reason: domain.ReasonNoDemandHistory}
	}

	reliability, ok := engine.SummarizeLeadTimes(shipments)
	if !ok {
		return nil, &domain.InsufficientHistoryError{ProductID: productID, Reason: domain.ReasonNoDeliveredShipments}
	}

	opt := engine.Optimize(details.ContractedLeadTimeDays, reliability, rate)

	result := &domain.OptimizationResult{
		ProductID:              details.ID,
		ProductName:            details.Name,
		SupplierName:           details.SupplierName,
		StockOnHand:            details.StockOnHand,
		ConfiguredSafetyStock:  details.ConfiguredSafetyStock,
		ContractedLeadTimeDays: details.ContractedLeadTimeDays,

		DailyDemandRate:          rate,
		ReliabilityScore:         opt.ReliabilityScore,
		RecommendedSafetyStock:   opt.RecommendedSafetyStock,
		RiskAdjustedReorderPoint: opt.RiskAdjustedReorderPoint,
		ActualLeadTimeDays:       reliability.MeanLeadTimeDays,
		LeadTimeVariance:         reliability.StdDevLeadTimeDays,

		ReliabilityTier:    engine.ReliabilityTier(opt.ReliabilityScore),
		InventoryCostDelta: engine.InventoryCostDelta(details.ConfiguredSafetyStock, opt.RecommendedSafetyStock, details.UnitPrice),
		ReorderNow:         engine.ShouldReorder(details.StockOnHand, opt.RiskAdjustedReorderPoint),
		Projection:         engine.ProjectDepletion(details.StockOnHand, rate),
	}

	log.Debug().
		Int64("product_id", productID).
		Float64("score", result.ReliabilityScore).
		Float64("reorder_point", result.RiskAdjustedReorderPoint).
		Bool("reorder_now", result.ReorderNow).
		Msg("analysis computed")

	return result, nil
}
