package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRef is a picker row: just enough to choose a product for analysis.
type ProductRef struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Product is the immutable master-data snapshot for one product.
type Product struct {
	ID                    int64           `json:"id" db:"id"`
	Name                  string          `json:"name" db:"name"`
	StockOnHand           int             `json:"stock_on_hand" db:"stock_quantity"`
	ConfiguredSafetyStock int             `json:"configured_safety_stock" db:"safety_stock_level"`
	UnitPrice             decimal.Decimal `json:"unit_price" db:"unit_price"`
	SupplierID            int64           `json:"supplier_id" db:"supplier_id"`
}

// Supplier holds the contracted delivery terms for a product's supplier.
type Supplier struct {
	ID                     int64   `json:"id" db:"id"`
	Name                   string  `json:"name" db:"name"`
	ContractedLeadTimeDays float64 `json:"contracted_lead_time_days" db:"lead_time_days"`
}

// ProductDetails is the product joined with its supplier, as returned by the
// data access layer for a single analysis run.
type ProductDetails struct {
	Product
	SupplierName           string  `json:"supplier_name" db:"supplier_name"`
	ContractedLeadTimeDays float64 `json:"contracted_lead_time_days" db:"lead_time_days"`
}

// ShipmentRecord is one order for the product. ShippedDate is nil while the
// order is still in transit; such rows carry no lead-time information.
type ShipmentRecord struct {
	OrderDate   time.Time  `json:"order_date" db:"order_date"`
	ShippedDate *time.Time `json:"shipped_date,omitempty" db:"shipped_date"`
}

// Delivered reports whether the order has a recorded shipped date.
func (s ShipmentRecord) Delivered() bool {
	return s.ShippedDate != nil
}

// LeadTimeDays is the observed lead time in whole days. Only meaningful for
// delivered records.
func (s ShipmentRecord) LeadTimeDays() float64 {
	if s.ShippedDate == nil {
		return 0
	}
	return float64(int(s.ShippedDate.Sub(s.OrderDate).Hours() / 24))
}

// MonthlyDemand is the order-quantity total for one calendar month. Months
// without orders have no row at all; averages are taken over the rows that
// exist, not over the calendar.
type MonthlyDemand struct {
	Month         string `json:"month" db:"month"`
	TotalQuantity int    `json:"total_quantity" db:"total_quantity"`
}

// ReliabilitySummary describes the actual lead-time distribution observed for
// a product's delivered orders.
type ReliabilitySummary struct {
	MeanLeadTimeDays   float64 `json:"mean_lead_time_days"`
	StdDevLeadTimeDays float64 `json:"stddev_lead_time_days"`
	Deliveries         int     `json:"deliveries"`
}

// Reliability tiers derived from the reliability score.
const (
	TierHighRisk     = "high risk"
	TierModerateRisk = "moderate risk"
	TierReliable     = "reliable"
)

// ProjectionPoint is one day of the linear stock-depletion projection.
type ProjectionPoint struct {
	Day            int     `json:"day"`
	ProjectedStock float64 `json:"projected_stock"`
}

// OptimizationResult is the full output of one analysis run. It is derived,
// never persisted, and recomputed on every request.
type OptimizationResult struct {
	ProductID              int64   `json:"product_id"`
	ProductName            string  `json:"product_name"`
	SupplierName           string  `json:"supplier_name"`
	StockOnHand            int     `json:"stock_on_hand"`
	ConfiguredSafetyStock  int     `json:"configured_safety_stock"`
	ContractedLeadTimeDays float64 `json:"contracted_lead_time_days"`

	DailyDemandRate          float64 `json:"daily_demand_rate"`
	ReliabilityScore         float64 `json:"reliability_score"`
	RecommendedSafetyStock   int     `json:"recommended_safety_stock"`
	RiskAdjustedReorderPoint float64 `json:"risk_adjusted_reorder_point"`
	ActualLeadTimeDays       float64 `json:"actual_lead_time"`
	// LeadTimeVariance carries the standard deviation of the observed lead
	// times; the penalty math works on the deviation, not the squared value.
	LeadTimeVariance float64 `json:"lead_time_variance"`

	ReliabilityTier string `json:"reliability_tier"`
	// InventoryCostDelta is (configured - recommended) * unit price. Positive
	// means capital tied up in excess buffer, negative means a shortfall.
	InventoryCostDelta decimal.Decimal   `json:"inventory_cost_delta"`
	ReorderNow         bool              `json:"reorder_now"`
	Projection         []ProjectionPoint `json:"projection"`
}
